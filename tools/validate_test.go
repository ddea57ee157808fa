package tools

import (
	"strings"
	"testing"

	"github.com/tbruckner/pacemate/model"
)

func sampleSchema() *model.Schema {
	return model.Object(map[string]*model.Schema{
		"sport":            model.String("sport name"),
		"duration_minutes": model.Integer("session length"),
		"distance_km":      model.Number("distance").AsNullable(),
		"indoor":           model.Boolean("on a trainer"),
		"category": model.String("belief category").
			WithEnum("preference", "constraint"),
		"tags": model.Array("session tags", model.String("tag")),
	}, "sport", "duration_minutes")
}

func TestValidateArgsValid(t *testing.T) {
	err := ValidateArgs(sampleSchema(), map[string]interface{}{
		"sport":            "running",
		"duration_minutes": float64(45),
		"distance_km":      10.2,
		"indoor":           false,
		"category":         "preference",
		"tags":             []interface{}{"easy", "zone2"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidateArgsMissingRequired(t *testing.T) {
	err := ValidateArgs(sampleSchema(), map[string]interface{}{
		"sport": "running",
	})
	if err == nil {
		t.Fatal("expected error for missing required parameter")
	}
	if !strings.Contains(err.Error(), "duration_minutes") {
		t.Errorf("expected error to name the missing parameter, got %v", err)
	}
}

func TestValidateArgsUnexpectedParameter(t *testing.T) {
	err := ValidateArgs(sampleSchema(), map[string]interface{}{
		"sport":            "running",
		"duration_minutes": float64(45),
		"pace":             "5:30",
	})
	if err == nil {
		t.Fatal("expected error for undeclared parameter")
	}
	if !strings.Contains(err.Error(), "pace") {
		t.Errorf("expected error to name the extra parameter, got %v", err)
	}
}

func TestValidateArgsIntegerRejectsFraction(t *testing.T) {
	err := ValidateArgs(sampleSchema(), map[string]interface{}{
		"sport":            "running",
		"duration_minutes": 45.5,
	})
	if err == nil {
		t.Fatal("expected error for fractional integer")
	}
}

func TestValidateArgsIntegerAcceptsIntegralFloat(t *testing.T) {
	// JSON decoding hands integers to us as float64.
	err := ValidateArgs(sampleSchema(), map[string]interface{}{
		"sport":            "running",
		"duration_minutes": float64(60),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidateArgsEnum(t *testing.T) {
	err := ValidateArgs(sampleSchema(), map[string]interface{}{
		"sport":            "running",
		"duration_minutes": float64(45),
		"category":         "astrology",
	})
	if err == nil {
		t.Fatal("expected error for value outside enum")
	}
}

func TestValidateArgsNullable(t *testing.T) {
	err := ValidateArgs(sampleSchema(), map[string]interface{}{
		"sport":            "running",
		"duration_minutes": float64(45),
		"distance_km":      nil,
	})
	if err != nil {
		t.Fatalf("expected nullable field to accept nil, got %v", err)
	}

	err = ValidateArgs(sampleSchema(), map[string]interface{}{
		"sport":            nil,
		"duration_minutes": float64(45),
	})
	if err == nil {
		t.Fatal("expected error for nil on non-nullable field")
	}
}

func TestValidateArgsTypeMismatch(t *testing.T) {
	err := ValidateArgs(sampleSchema(), map[string]interface{}{
		"sport":            42,
		"duration_minutes": float64(45),
	})
	if err == nil {
		t.Fatal("expected error for wrong type")
	}
}

func TestValidateArgsArrayItems(t *testing.T) {
	err := ValidateArgs(sampleSchema(), map[string]interface{}{
		"sport":            "running",
		"duration_minutes": float64(45),
		"tags":             []interface{}{"ok", 7},
	})
	if err == nil {
		t.Fatal("expected error for wrong array item type")
	}
}

func TestValidateArgsNilSchema(t *testing.T) {
	if err := ValidateArgs(nil, nil); err != nil {
		t.Fatalf("nil schema with no args should pass, got %v", err)
	}
	if err := ValidateArgs(nil, map[string]interface{}{}); err != nil {
		t.Fatalf("nil schema with empty args should pass, got %v", err)
	}
	if err := ValidateArgs(nil, map[string]interface{}{"x": 1}); err == nil {
		t.Fatal("nil schema with args should fail")
	}
}
