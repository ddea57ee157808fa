// Conversational agent loop for fitness coaching.
//
// The loop is deliberately simple: call the model with the full history
// and the tool declarations, execute whatever tools it asks for, feed
// the results back, repeat until it answers in text.
//
// Information Hiding:
// - Loop state machine internals hidden
// - Session persistence format hidden
// - History compression policy hidden

package agent

import (
	"time"

	"go.uber.org/zap"

	"github.com/tbruckner/pacemate/llm"
	"github.com/tbruckner/pacemate/tools"
)

// Safety limits and compression policy.
const (
	DefaultMaxToolRounds         = 25
	DefaultMaxConsecutiveErrors  = 3
	DefaultTemperature           = 0.7
	DefaultCompressionThreshold  = 40
	DefaultCompressionKeepRounds = 4
)

// Turn roles as they appear in Result.Turns and session records.
const (
	RoleUser       = "user"
	RoleModel      = "model"
	RoleToolCall   = "tool_call"
	RoleToolResult = "tool_result"
)

// Progress event types passed to ProgressFunc.
const (
	EventResponding = "responding"
	EventToolCall   = "tool_call"
	EventToolResult = "tool_result"
	EventToolError  = "tool_error"
)

// Turn is a single step taken while processing one user message.
type Turn struct {
	Role     string                 `json:"role"`
	Content  string                 `json:"content"`
	ToolName string                 `json:"tool_name,omitempty"`
	ToolArgs map[string]interface{} `json:"tool_args,omitempty"`
	Duration time.Duration          `json:"duration_ms"`
}

// Result is the outcome of processing one user message.
type Result struct {
	ReplyText               string
	Turns                   []Turn
	ToolCallsMade           int
	TotalDuration           time.Duration
	OnboardingJustCompleted bool
}

// ProgressFunc receives UI updates as the loop works: event type plus a
// short human-readable detail string. May be nil.
type ProgressFunc func(event, detail string)

// AthleteState is the slice of athlete state the loop's post-turn
// auditors need. The athlete package's Model satisfies it.
type AthleteState interface {
	ProfileName() string
	OnboardingComplete() bool
	OnboardingMarked() bool
	MarkOnboardingComplete() error
}

// Config configures a Loop. Backend, Tools, and SystemPrompt are
// required; everything else has a usable default.
type Config struct {
	Backend      llm.Backend
	Tools        *tools.Registry
	Athlete      AthleteState
	SystemPrompt func() string
	DataDir      string
	OnProgress   ProgressFunc
	Logger       *zap.Logger

	MaxToolRounds         int
	MaxConsecutiveErrors  int
	Temperature           float32
	CompressionThreshold  int
	CompressionKeepRounds int
}

func (c *Config) applyDefaults() {
	if c.MaxToolRounds <= 0 {
		c.MaxToolRounds = DefaultMaxToolRounds
	}
	if c.MaxConsecutiveErrors <= 0 {
		c.MaxConsecutiveErrors = DefaultMaxConsecutiveErrors
	}
	if c.Temperature <= 0 {
		c.Temperature = DefaultTemperature
	}
	if c.CompressionThreshold <= 0 {
		c.CompressionThreshold = DefaultCompressionThreshold
	}
	if c.CompressionKeepRounds <= 0 {
		c.CompressionKeepRounds = DefaultCompressionKeepRounds
	}
	if c.Logger == nil {
		c.Logger = zap.NewNop()
	}
}
