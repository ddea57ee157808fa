package agent

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/tbruckner/pacemate/internal/text"
	"github.com/tbruckner/pacemate/llm"
)

// Pause before retrying after an empty model response.
const emptyRetryPause = 500 * time.Millisecond

// Canned replies for the loop's failure exits.
const (
	replyEmptyResponses = "I had trouble generating a response. " +
		"Could you rephrase your message?"
	replyToolErrors = "I encountered multiple errors while processing your request. " +
		"Let me try a different approach -- could you rephrase what you need?"
	replyRoundsExhausted = "I spent a lot of time analyzing your request but need to wrap up. " +
		"Here's what I found so far -- feel free to ask follow-up questions."
)

// Appended to the system prompt for the tool-free fallback call. Without
// it the model writes tool calls as literal text.
const fallbackOverride = "\n\n# IMPORTANT OVERRIDE\n" +
	"Tools are temporarily unavailable. Respond ONLY with natural " +
	"conversational text. Do NOT list, reference, or simulate any tool " +
	"calls (no update_profile, add_belief, get_activities, etc.). Just " +
	"answer the athlete directly as a coach would in a normal conversation."

// Loop runs the agent: model call, tool dispatch, repeat until the
// model answers in text.
type Loop struct {
	config Config

	// Conversation history, persists across messages within a session.
	messages []llm.Message

	sessionID        string
	sessionFile      string
	turnsThisSession int
}

// NewLoop creates a loop from config, applying defaults for anything
// unset.
func NewLoop(config Config) *Loop {
	config.applyDefaults()
	return &Loop{config: config}
}

// SessionID returns the active session's ID, empty before StartSession.
func (l *Loop) SessionID() string {
	return l.sessionID
}

// HistoryLen returns the number of messages in the in-memory history.
func (l *Loop) HistoryLen() int {
	return len(l.messages)
}

// InjectContext appends a message to the history without running the
// loop, e.g. a startup greeting shown before the first user input.
func (l *Loop) InjectContext(role, content string) {
	if role == RoleUser {
		l.messages = append(l.messages, llm.UserText(content))
	} else {
		l.messages = append(l.messages, llm.ModelText(content))
	}
	l.saveTurn(role, content, map[string]interface{}{"injected": true})
}

// ProcessMessage runs one user message through the loop and returns the
// coach's reply. This is the main entry point.
func (l *Loop) ProcessMessage(ctx context.Context, userMessage string) (Result, error) {
	start := time.Now()
	result := Result{}

	systemPrompt := ""
	if l.config.SystemPrompt != nil {
		systemPrompt = l.config.SystemPrompt()
	}

	// Compress before the new message so the threshold check sees the
	// history as it stood at the end of the previous turn.
	l.compressHistory()

	l.messages = append(l.messages, llm.UserText(userMessage))
	result.Turns = append(result.Turns, Turn{Role: RoleUser, Content: userMessage})
	l.saveTurn(RoleUser, userMessage, nil)

	declarations := l.config.Tools.Declarations()

	consecutiveErrors := 0
	lastText := ""
	replied := false

	for round := 0; round < l.config.MaxToolRounds; round++ {
		resp, err := l.config.Backend.Generate(ctx, llm.Request{
			Messages:     l.messages,
			SystemPrompt: systemPrompt,
			Temperature:  l.config.Temperature,
			Tools:        declarations,
		})

		// Backend errors and empty responses are both treated as
		// transient: retry, then fall back, then give up.
		if err != nil || resp.Empty() {
			consecutiveErrors++
			l.config.Logger.Warn("empty model response, retrying",
				zap.Int("round", round),
				zap.Int("errors", consecutiveErrors),
				zap.Error(err))

			if consecutiveErrors == l.config.MaxConsecutiveErrors {
				if fbText, ok := l.fallbackWithoutTools(ctx, systemPrompt); ok {
					result.ReplyText = fbText
					l.messages = append(l.messages, llm.ModelText(fbText))
					replied = true
					break
				}
				result.ReplyText = replyEmptyResponses
				replied = true
				break
			}

			select {
			case <-time.After(emptyRetryPause):
			case <-ctx.Done():
				return result, ctx.Err()
			}
			continue
		}

		calls := resp.FunctionCalls()
		if txt := resp.Text(); txt != "" {
			lastText = txt
		}

		if len(calls) == 0 {
			// Model decided to respond.
			result.ReplyText = strings.TrimSpace(resp.Text())
			l.messages = append(l.messages, llm.Message{
				Role:  llm.RoleModel,
				Kind:  llm.KindModelText,
				Parts: resp.Parts,
			})
			l.progress(EventResponding, text.Clip(result.ReplyText, 100))
			replied = true
			break
		}

		// Model wants tools. The message with the calls goes into
		// history first, then one results message for the whole batch.
		l.messages = append(l.messages, llm.Message{
			Role:  llm.RoleModel,
			Kind:  llm.KindModelText,
			Parts: resp.Parts,
		})

		var resultParts []llm.Part
		for _, call := range calls {
			args := call.Args
			if args == nil {
				args = map[string]interface{}{}
			}

			l.progress(EventToolCall, call.Name+"("+text.PreviewJSON(args, 200)+")")
			result.ToolCallsMade++

			toolStart := time.Now()
			res := l.config.Tools.Execute(ctx, call.Name, args)
			toolDuration := time.Since(toolStart)

			payload, merr := json.Marshal(res.Payload)
			if merr != nil {
				payload = []byte(`{}`)
			}

			if res.Failed() {
				consecutiveErrors++
				l.progress(EventToolError, call.Name+" -> "+string(payload))
			} else {
				consecutiveErrors = 0
				l.progress(EventToolResult, call.Name+" -> "+text.Clip(string(payload), 200))
			}

			result.Turns = append(result.Turns, Turn{
				Role:     RoleToolCall,
				Content:  string(payload),
				ToolName: call.Name,
				ToolArgs: args,
				Duration: toolDuration,
			})

			l.saveTurn(RoleToolCall, text.Clip(string(payload), toolCallRecordLimit), map[string]interface{}{
				"tool":        call.Name,
				"args":        args,
				"duration_ms": toolDuration.Milliseconds(),
			})

			resultParts = append(resultParts, llm.Part{
				Result: &llm.FunctionResponse{
					Name:     call.Name,
					Response: res.Payload,
				},
			})
		}

		l.messages = append(l.messages, llm.ToolResults(resultParts))

		if consecutiveErrors >= l.config.MaxConsecutiveErrors {
			result.ReplyText = replyToolErrors
			replied = true
			break
		}
	}

	if !replied {
		// Ran out of rounds.
		if lastText != "" {
			result.ReplyText = lastText
		} else {
			result.ReplyText = replyRoundsExhausted
		}
	}

	result.TotalDuration = time.Since(start)
	l.turnsThisSession++

	result.Turns = append(result.Turns, Turn{
		Role:     RoleModel,
		Content:  result.ReplyText,
		Duration: result.TotalDuration,
	})
	l.saveTurn(RoleModel, result.ReplyText, map[string]interface{}{
		"tool_calls":  result.ToolCallsMade,
		"duration_ms": result.TotalDuration.Milliseconds(),
	})

	l.auditBeliefCapture(result.ReplyText)
	result.OnboardingJustCompleted = l.auditOnboarding()

	return result, nil
}

// fallbackWithoutTools makes one tool-free call after repeated empty
// responses. Returns the reply text and whether it produced anything.
func (l *Loop) fallbackWithoutTools(ctx context.Context, systemPrompt string) (string, bool) {
	l.config.Logger.Info("falling back to tool-free call")

	resp, err := l.config.Backend.Generate(ctx, llm.Request{
		Messages:     l.messages,
		SystemPrompt: systemPrompt + fallbackOverride,
		Temperature:  l.config.Temperature,
	})
	if err != nil || resp.Empty() {
		return "", false
	}

	txt := strings.TrimSpace(resp.Text())
	if txt == "" {
		return "", false
	}
	return txt, true
}

func (l *Loop) progress(event, detail string) {
	if l.config.OnProgress != nil {
		l.config.OnProgress(event, detail)
	}
}
