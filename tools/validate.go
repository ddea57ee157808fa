// Argument validation against a tool's declared schema.
//
// Dispatch-time validation replaces the looser convention of passing an
// untyped mapping straight to the handler: wrong, missing, and extra
// parameters are caught here and reported as an invalid-arguments failure
// before the handler runs.

package tools

import (
	"fmt"
	"math"

	"github.com/tbruckner/pacemate/model"
)

// ValidateArgs checks an argument mapping against a schema. A nil schema
// means the tool declares no parameters, so any provided argument is an
// extra parameter.
func ValidateArgs(schema *model.Schema, args map[string]interface{}) error {
	if schema == nil {
		for name := range args {
			return fmt.Errorf("unexpected parameter %q", name)
		}
		return nil
	}
	return validateValue(schema, args, "arguments")
}

func validateValue(schema *model.Schema, value interface{}, path string) error {
	if value == nil {
		if schema.Nullable {
			return nil
		}
		return fmt.Errorf("%s: null is not allowed", path)
	}

	switch schema.Type {
	case model.TypeString:
		s, ok := value.(string)
		if !ok {
			return fmt.Errorf("%s: expected string, got %T", path, value)
		}
		if len(schema.Enum) > 0 && !containsString(schema.Enum, s) {
			return fmt.Errorf("%s: %q is not one of %v", path, s, schema.Enum)
		}
		return nil

	case model.TypeInteger:
		// JSON numbers decode as float64; accept integral values only.
		switch n := value.(type) {
		case float64:
			if n != math.Trunc(n) {
				return fmt.Errorf("%s: expected integer, got %v", path, n)
			}
			return nil
		case int, int32, int64:
			return nil
		default:
			return fmt.Errorf("%s: expected integer, got %T", path, value)
		}

	case model.TypeNumber:
		switch value.(type) {
		case float64, float32, int, int32, int64:
			return nil
		default:
			return fmt.Errorf("%s: expected number, got %T", path, value)
		}

	case model.TypeBoolean:
		if _, ok := value.(bool); !ok {
			return fmt.Errorf("%s: expected boolean, got %T", path, value)
		}
		return nil

	case model.TypeArray:
		items, ok := value.([]interface{})
		if !ok {
			return fmt.Errorf("%s: expected array, got %T", path, value)
		}
		if schema.Items != nil {
			for i, item := range items {
				if err := validateValue(schema.Items, item, fmt.Sprintf("%s[%d]", path, i)); err != nil {
					return err
				}
			}
		}
		return nil

	case model.TypeObject:
		obj, ok := value.(map[string]interface{})
		if !ok {
			return fmt.Errorf("%s: expected object, got %T", path, value)
		}
		for _, required := range schema.Required {
			if _, present := obj[required]; !present {
				return fmt.Errorf("%s: missing required parameter %q", path, required)
			}
		}
		for name, v := range obj {
			prop, declared := schema.Properties[name]
			if !declared {
				return fmt.Errorf("%s: unexpected parameter %q", path, name)
			}
			if err := validateValue(prop, v, path+"."+name); err != nil {
				return err
			}
		}
		return nil

	default:
		return fmt.Errorf("%s: unknown schema type %q", path, schema.Type)
	}
}

func containsString(values []string, want string) bool {
	for _, v := range values {
		if v == want {
			return true
		}
	}
	return false
}
