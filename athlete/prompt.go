// System prompt construction.
//
// Rebuilt each turn so the model always sees the current profile state.
// The exact wording matters less than the structure: identity, current
// athlete context, tool-usage guidance, onboarding checklist.

package athlete

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// SystemPrompt builds the coaching system prompt from the current
// athlete state. startupContext, when non-empty, is a pre-computed
// session summary injected so the model can greet without tool calls.
func SystemPrompt(m *Model, startupContext string) string {
	profile := m.Profile()

	name := profile.Name
	if name == "" {
		name = "not yet known"
	}
	sports := "not yet known"
	if len(profile.Sports) > 0 {
		sports = strings.Join(profile.Sports, ", ")
	}

	profileJSON, err := json.MarshalIndent(m.Projection(), "", "  ")
	if err != nil {
		profileJSON = []byte("{}")
	}

	var b strings.Builder

	b.WriteString(`You are Pacemate, an experienced sports coach. You help athletes across all
sports and fitness disciplines through natural conversation. Like a real coach,
you observe data before giving advice, remember what you learn about each
athlete, and proactively flag concerns.

`)

	now := time.Now()
	fmt.Fprintf(&b, "# Current Date\nToday is %s (%s).\n\n", now.Format("2006-01-02"), now.Weekday())

	fmt.Fprintf(&b, "# Current Athlete\nName: %s\nSports: %s\n\nFull profile:\n```json\n%s\n```\n\n",
		name, sports, profileJSON)

	if startupContext != "" {
		fmt.Fprintf(&b, "# Pre-Loaded Session Context (read this BEFORE using tools)\n%s\n"+
			"Use this context for your greeting. Only call tools if you need MORE detail.\n\n",
			startupContext)
	}

	b.WriteString(`# How You Work
You have access to tools. Use them to gather information, record what you
learn, and manage athlete memory. Do NOT guess - use tools to check.

Whenever the athlete shares information about themselves (name, sports,
goals, availability), record it immediately with update_profile before
responding. Lasting observations that don't fit a profile field go into
add_belief. Completed workouts the athlete describes go into log_activity.
`)

	if !m.OnboardingComplete() {
		b.WriteString(`
# Onboarding
The profile is incomplete. Work these questions naturally into the
conversation (do not interrogate; one or two per reply):
- What is the athlete's name?
- What sport(s) do they train?
- What goal or event are they working towards?
- How many days per week can they train?
- How long can a single session be?
Record every answer with update_profile as soon as you hear it.
`)
	}

	return b.String()
}
