// Package athlete holds the athlete's structured memory: profile,
// beliefs, and the training log. The profile is a structured projection
// fed into the system prompt and read by tools; persistence sits behind
// Store.
package athlete

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Goal is what the athlete is training towards.
type Goal struct {
	Event      string `json:"event,omitempty"`
	TargetDate string `json:"target_date,omitempty"`
	TargetTime string `json:"target_time,omitempty"`
}

// Fitness holds estimated fitness markers. Zero means unknown.
type Fitness struct {
	EstimatedVO2Max    float64 `json:"estimated_vo2max,omitempty"`
	ThresholdPaceMinKM float64 `json:"threshold_pace_min_km,omitempty"`
	WeeklyVolumeKM     float64 `json:"weekly_volume_km,omitempty"`
	FTPWatts           float64 `json:"ftp_watts,omitempty"`
}

// Constraints bound what training the athlete can absorb.
type Constraints struct {
	TrainingDaysPerWeek int      `json:"training_days_per_week,omitempty"`
	MaxSessionMinutes   int      `json:"max_session_minutes,omitempty"`
	AvailableSports     []string `json:"available_sports,omitempty"`
}

// Profile is the athlete's structured core.
type Profile struct {
	Name        string      `json:"name,omitempty"`
	Sports      []string    `json:"sports,omitempty"`
	Goal        Goal        `json:"goal"`
	Fitness     Fitness     `json:"fitness"`
	Constraints Constraints `json:"constraints"`
	CreatedAt   string      `json:"created_at,omitempty"`
	UpdatedAt   string      `json:"updated_at,omitempty"`
}

// Belief is one captured statement about the athlete.
type Belief struct {
	ID         string  `json:"id"`
	Statement  string  `json:"statement"`
	Category   string  `json:"category"`
	Confidence float64 `json:"confidence"`
	CreatedAt  string  `json:"created_at"`
}

// BeliefCategories are the accepted category values for beliefs.
var BeliefCategories = []string{
	"preference", "constraint", "history", "motivation",
	"physical", "fitness", "scheduling", "personality", "meta",
}

// Activity is one logged training session.
type Activity struct {
	ID              int64   `json:"id,omitempty"`
	Sport           string  `json:"sport"`
	StartTime       string  `json:"start_time"`
	DurationMinutes float64 `json:"duration_minutes"`
	DistanceKM      float64 `json:"distance_km,omitempty"`
	AvgHR           int     `json:"avg_hr,omitempty"`
	Notes           string  `json:"notes,omitempty"`
}

// metaOnboardingComplete is the one-way flag set once all required
// profile fields have been gathered.
const metaOnboardingComplete = "onboarding_complete"

// Model is the live athlete state backed by a Store. Not safe for
// concurrent use; one model per session context.
type Model struct {
	store   *Store
	profile Profile
}

// NewModel loads the athlete state from the store, starting with an
// empty profile when none has been saved yet.
func NewModel(store *Store) (*Model, error) {
	profile, err := store.LoadProfile()
	if err != nil {
		return nil, fmt.Errorf("load profile: %w", err)
	}
	return &Model{store: store, profile: profile}, nil
}

// Store exposes the backing store for tool registration.
func (m *Model) Store() *Store {
	return m.store
}

// Profile returns a copy of the current structured core.
func (m *Model) Profile() Profile {
	return m.profile
}

// ProfileName returns the athlete's recorded name, empty if unset.
func (m *Model) ProfileName() string {
	return m.profile.Name
}

// Projection renders the profile as a JSON-compatible mapping, the form
// tools return and the system prompt embeds.
func (m *Model) Projection() map[string]interface{} {
	raw, err := json.Marshal(m.profile)
	if err != nil {
		return map[string]interface{}{}
	}
	var out map[string]interface{}
	if err := json.Unmarshal(raw, &out); err != nil {
		return map[string]interface{}{}
	}
	return out
}

// profileFields are the dot-paths UpdateField accepts.
var profileFields = map[string]bool{
	"name":                               true,
	"sports":                             true,
	"goal.event":                         true,
	"goal.target_date":                   true,
	"goal.target_time":                   true,
	"fitness.estimated_vo2max":           true,
	"fitness.threshold_pace_min_km":      true,
	"fitness.weekly_volume_km":           true,
	"fitness.ftp_watts":                  true,
	"constraints.training_days_per_week": true,
	"constraints.max_session_minutes":    true,
	"constraints.available_sports":       true,
}

// ValidProfileFields returns the accepted dot-paths in sorted order.
func ValidProfileFields() []string {
	fields := make([]string, 0, len(profileFields))
	for f := range profileFields {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	return fields
}

// UpdateField sets one profile field by dot-path and persists the
// profile. Values arrive from the model, which often sends numbers and
// JSON arrays as strings, so string values are coerced per field.
func (m *Model) UpdateField(field string, value interface{}) error {
	if !profileFields[field] {
		return fmt.Errorf("invalid field: %s (valid: %s)", field, strings.Join(ValidProfileFields(), ", "))
	}

	value = coerceValue(field, value)

	switch field {
	case "name":
		s, ok := value.(string)
		if !ok {
			return fmt.Errorf("name must be a string")
		}
		m.profile.Name = s
	case "sports":
		list, err := toStringList(value)
		if err != nil {
			return fmt.Errorf("sports: %w", err)
		}
		m.profile.Sports = list
	case "goal.event":
		m.profile.Goal.Event = fmt.Sprintf("%v", value)
	case "goal.target_date":
		m.profile.Goal.TargetDate = fmt.Sprintf("%v", value)
	case "goal.target_time":
		m.profile.Goal.TargetTime = fmt.Sprintf("%v", value)
	case "fitness.estimated_vo2max":
		return m.setFitness(&m.profile.Fitness.EstimatedVO2Max, value)
	case "fitness.threshold_pace_min_km":
		return m.setFitness(&m.profile.Fitness.ThresholdPaceMinKM, value)
	case "fitness.weekly_volume_km":
		return m.setFitness(&m.profile.Fitness.WeeklyVolumeKM, value)
	case "fitness.ftp_watts":
		return m.setFitness(&m.profile.Fitness.FTPWatts, value)
	case "constraints.training_days_per_week":
		n, err := toInt(value)
		if err != nil {
			return fmt.Errorf("training_days_per_week: %w", err)
		}
		m.profile.Constraints.TrainingDaysPerWeek = n
	case "constraints.max_session_minutes":
		n, err := toInt(value)
		if err != nil {
			return fmt.Errorf("max_session_minutes: %w", err)
		}
		m.profile.Constraints.MaxSessionMinutes = n
	case "constraints.available_sports":
		list, err := toStringList(value)
		if err != nil {
			return fmt.Errorf("available_sports: %w", err)
		}
		m.profile.Constraints.AvailableSports = list
	}

	return m.Save()
}

func (m *Model) setFitness(target *float64, value interface{}) error {
	f, err := toFloat(value)
	if err != nil {
		return err
	}
	*target = f
	return m.Save()
}

// Save persists the profile, stamping timestamps.
func (m *Model) Save() error {
	now := time.Now().Format("2006-01-02T15:04:05")
	if m.profile.CreatedAt == "" {
		m.profile.CreatedAt = now
	}
	m.profile.UpdatedAt = now
	return m.store.SaveProfile(m.profile)
}

// OnboardingComplete reports whether the five required profile fields
// are all present: identity, sports, goal event, weekly availability,
// and session-length limit.
func (m *Model) OnboardingComplete() bool {
	p := m.profile
	return p.Name != "" &&
		len(p.Sports) > 0 &&
		p.Goal.Event != "" &&
		p.Constraints.TrainingDaysPerWeek > 0 &&
		p.Constraints.MaxSessionMinutes > 0
}

// OnboardingMarked reports whether the one-way completion flag has
// already been persisted.
func (m *Model) OnboardingMarked() bool {
	v, err := m.store.GetMeta(metaOnboardingComplete)
	return err == nil && v == "true"
}

// MarkOnboardingComplete persists the one-way completion flag.
func (m *Model) MarkOnboardingComplete() error {
	return m.store.SetMeta(metaOnboardingComplete, "true")
}

// coerceValue parses stringly-typed values: JSON arrays/objects for list
// fields, numerics for numeric fields.
func coerceValue(field string, value interface{}) interface{} {
	s, ok := value.(string)
	if !ok {
		return value
	}
	trimmed := strings.TrimSpace(s)

	if (strings.HasPrefix(trimmed, "[") && strings.HasSuffix(trimmed, "]")) ||
		(strings.HasPrefix(trimmed, "{") && strings.HasSuffix(trimmed, "}")) {
		var parsed interface{}
		if err := json.Unmarshal([]byte(trimmed), &parsed); err == nil {
			return parsed
		}
		return value
	}

	switch field {
	case "constraints.training_days_per_week", "constraints.max_session_minutes",
		"fitness.estimated_vo2max", "fitness.threshold_pace_min_km",
		"fitness.weekly_volume_km", "fitness.ftp_watts":
		if n, err := strconv.ParseFloat(trimmed, 64); err == nil {
			return n
		}
	}
	return value
}

func toFloat(value interface{}) (float64, error) {
	switch n := value.(type) {
	case float64:
		return n, nil
	case float32:
		return float64(n), nil
	case int:
		return float64(n), nil
	case int64:
		return float64(n), nil
	default:
		return 0, fmt.Errorf("expected a number, got %T", value)
	}
}

func toInt(value interface{}) (int, error) {
	f, err := toFloat(value)
	if err != nil {
		return 0, err
	}
	return int(f), nil
}

func toStringList(value interface{}) ([]string, error) {
	switch v := value.(type) {
	case []string:
		return v, nil
	case []interface{}:
		out := make([]string, 0, len(v))
		for _, item := range v {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("expected a list of strings, got %T element", item)
			}
			out = append(out, s)
		}
		return out, nil
	case string:
		// A bare word like "running" becomes a single-element list.
		if v == "" {
			return nil, fmt.Errorf("empty value")
		}
		return []string{v}, nil
	default:
		return nil, fmt.Errorf("expected a list of strings, got %T", value)
	}
}

