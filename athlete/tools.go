// Native tool registrations for the athlete memory.
//
// Every memory change is a deliberate tool call: instead of the model
// returning structured updates inline, it calls update_profile,
// add_belief, log_activity and friends, all of which are visible in the
// session log.

package athlete

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/tbruckner/pacemate/model"
	"github.com/tbruckner/pacemate/tools"
)

// RegisterTools registers the athlete's native tools into the registry.
// Called once at startup; externally loaded tools registered afterwards
// shadow these by name.
func RegisterTools(registry *tools.Registry, m *Model) {
	registry.Register(tools.Tool{
		Name: "get_athlete_profile",
		Description: "Get the athlete's current profile including sports, goals, constraints, " +
			"and fitness data. Use this FIRST when you need to understand who the athlete " +
			"is and what they want. Returns empty fields for info not yet gathered.",
		Category: "data",
		Handler: func(ctx context.Context, args map[string]interface{}) (map[string]interface{}, error) {
			projection := m.Projection()
			projection["_onboarding_complete"] = m.OnboardingComplete()
			return projection, nil
		},
	})

	registry.Register(tools.Tool{
		Name: "get_activities",
		Description: "Get recent training activities with optional filtering by sport or time range. " +
			"Returns date, sport, duration, distance and heart rate for each activity. " +
			"Use this to understand what the athlete has been doing recently.",
		Category: "data",
		Parameters: model.Object(map[string]*model.Schema{
			"limit": model.Integer("Maximum number of activities to return (default 10)"),
			"sport": model.String("Filter by sport (e.g. 'running', 'cycling'). Omit for all sports.").AsNullable(),
			"days":  model.Integer("Only activities from the last N days. Omit for no time filter.").AsNullable(),
		}),
		Handler: func(ctx context.Context, args map[string]interface{}) (map[string]interface{}, error) {
			limit := intArg(args, "limit", 10)
			sport, _ := args["sport"].(string)
			days := intArg(args, "days", 0)

			activities, err := m.Store().ListActivities(limit, sport, days)
			if err != nil {
				return nil, err
			}

			entries := make([]interface{}, 0, len(activities))
			for _, a := range activities {
				entry := map[string]interface{}{
					"date":             clipDate(a.StartTime),
					"sport":            a.Sport,
					"duration_minutes": a.DurationMinutes,
				}
				if a.DistanceKM > 0 {
					entry["distance_km"] = a.DistanceKM
				}
				if a.AvgHR > 0 {
					entry["avg_hr"] = a.AvgHR
				}
				if a.Notes != "" {
					entry["notes"] = a.Notes
				}
				entries = append(entries, entry)
			}

			return map[string]interface{}{
				"count":      len(entries),
				"activities": entries,
			}, nil
		},
	})

	registry.Register(tools.Tool{
		Name: "log_activity",
		Description: "Record a completed training session the athlete tells you about. " +
			"Use when the athlete describes a workout they did.",
		Category: "data",
		Parameters: model.Object(map[string]*model.Schema{
			"sport":            model.String("The sport (e.g. 'running', 'cycling', 'volleyball')"),
			"duration_minutes": model.Number("Session duration in minutes"),
			"distance_km":      model.Number("Distance covered in km, if applicable").AsNullable(),
			"avg_hr":           model.Integer("Average heart rate, if known").AsNullable(),
			"notes":            model.String("Free-form notes about the session").AsNullable(),
		}, "sport", "duration_minutes"),
		Handler: func(ctx context.Context, args map[string]interface{}) (map[string]interface{}, error) {
			activity := Activity{
				Sport:           fmt.Sprintf("%v", args["sport"]),
				DurationMinutes: floatArg(args, "duration_minutes", 0),
				DistanceKM:      floatArg(args, "distance_km", 0),
				AvgHR:           intArg(args, "avg_hr", 0),
			}
			if notes, ok := args["notes"].(string); ok {
				activity.Notes = notes
			}

			id, err := m.Store().AddActivity(activity)
			if err != nil {
				return nil, err
			}
			return map[string]interface{}{"logged": true, "id": id}, nil
		},
	})

	registry.Register(tools.Tool{
		Name: "update_profile",
		Description: "Update a specific field in the athlete's profile. Use this when the " +
			"athlete shares new information about themselves. Fields: name, sports, " +
			"goal.event, goal.target_date, goal.target_time, fitness.estimated_vo2max, " +
			"fitness.threshold_pace_min_km, fitness.weekly_volume_km, fitness.ftp_watts, " +
			"constraints.training_days_per_week, constraints.max_session_minutes, " +
			"constraints.available_sports",
		Category: "memory",
		Parameters: model.Object(map[string]*model.Schema{
			"field": model.String("The profile field to update (dot notation for nested fields)"),
			"value": model.String("The new value (strings, numbers, or JSON arrays like [\"running\", \"cycling\"])"),
		}, "field", "value"),
		Handler: func(ctx context.Context, args map[string]interface{}) (map[string]interface{}, error) {
			field := fmt.Sprintf("%v", args["field"])
			if err := m.UpdateField(field, args["value"]); err != nil {
				return nil, err
			}
			return map[string]interface{}{
				"updated": true,
				"field":   field,
				"value":   args["value"],
			}, nil
		},
	})

	registry.Register(tools.Tool{
		Name: "add_belief",
		Description: "Record a lasting observation about the athlete (preferences, history, " +
			"motivation, physical traits). Use for information that doesn't fit a " +
			"structured profile field.",
		Category: "memory",
		Parameters: model.Object(map[string]*model.Schema{
			"statement":  model.String("The belief, as one clear sentence"),
			"category":   model.String("Belief category").WithEnum(BeliefCategories...),
			"confidence": model.Number("Confidence 0.0-1.0 (default 0.8)").AsNullable(),
		}, "statement", "category"),
		Handler: func(ctx context.Context, args map[string]interface{}) (map[string]interface{}, error) {
			confidence := floatArg(args, "confidence", 0.8)
			belief, err := m.Store().AddBelief(
				fmt.Sprintf("%v", args["statement"]),
				fmt.Sprintf("%v", args["category"]),
				confidence,
			)
			if err != nil {
				return nil, err
			}
			return map[string]interface{}{"recorded": true, "id": belief.ID}, nil
		},
	})

	registry.Register(tools.Tool{
		Name:        "list_beliefs",
		Description: "List recorded beliefs about the athlete, optionally filtered by category.",
		Category:    "memory",
		Parameters: model.Object(map[string]*model.Schema{
			"category": model.String("Filter by category. Omit for all.").WithEnum(BeliefCategories...).AsNullable(),
		}),
		Handler: func(ctx context.Context, args map[string]interface{}) (map[string]interface{}, error) {
			category, _ := args["category"].(string)
			beliefs, err := m.Store().ListBeliefs(category)
			if err != nil {
				return nil, err
			}

			// Round-trip through JSON for a plain mapping payload.
			raw, err := json.Marshal(beliefs)
			if err != nil {
				return nil, err
			}
			var entries []interface{}
			if err := json.Unmarshal(raw, &entries); err != nil || entries == nil {
				entries = []interface{}{}
			}
			return map[string]interface{}{
				"count":   len(beliefs),
				"beliefs": entries,
			}, nil
		},
	})
}

func intArg(args map[string]interface{}, key string, fallback int) int {
	switch v := args[key].(type) {
	case float64:
		return int(v)
	case int:
		return v
	default:
		return fallback
	}
}

func floatArg(args map[string]interface{}, key string, fallback float64) float64 {
	switch v := args[key].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	default:
		return fallback
	}
}

func clipDate(ts string) string {
	if len(ts) >= 10 {
		return ts[:10]
	}
	return ts
}
