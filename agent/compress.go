package agent

import (
	"strings"

	"go.uber.org/zap"

	"github.com/tbruckner/pacemate/internal/text"
	"github.com/tbruckner/pacemate/llm"
)

const (
	compressionMarker = "[COMPRESSED HISTORY -- earlier conversation rounds]"

	maxSummaryLines  = 30
	argsPreviewLimit = 80
	textPreviewLimit = 120
)

// compressHistory replaces older conversation rounds with a single
// summary message once the history exceeds the threshold. The last
// CompressionKeepRounds rounds stay verbatim so the model keeps full
// detail on recent work.
func (l *Loop) compressHistory() {
	if len(l.messages) <= l.config.CompressionThreshold {
		return
	}

	// A round starts at each real user message. Tool-result messages
	// also carry the user role on the wire, which is why Kind exists.
	var roundStarts []int
	for i, m := range l.messages {
		if m.Role == llm.RoleUser && m.Kind == llm.KindUserText {
			roundStarts = append(roundStarts, i)
		}
	}

	if len(roundStarts) <= l.config.CompressionKeepRounds+1 {
		return
	}

	keepFrom := roundStarts[len(roundStarts)-l.config.CompressionKeepRounds]

	var summaries []string
	for _, m := range l.messages[:keepFrom] {
		if m.Role != llm.RoleModel {
			continue
		}
		for _, part := range m.Parts {
			switch {
			case part.Call != nil:
				preview := ""
				if len(part.Call.Args) > 0 {
					preview = text.PreviewJSON(part.Call.Args, argsPreviewLimit)
				}
				summaries = append(summaries, "- Called "+part.Call.Name+"("+preview+")")
			case part.Text != "":
				trimmed := strings.TrimSpace(part.Text)
				if trimmed != "" {
					summaries = append(summaries, "- Responded: "+text.Clip(trimmed, textPreviewLimit)+"...")
				}
			}
		}
	}

	if len(summaries) == 0 {
		return
	}
	if len(summaries) > maxSummaryLines {
		summaries = summaries[:maxSummaryLines]
	}

	summary := compressionMarker + "\n" + strings.Join(summaries, "\n")

	oldCount := len(l.messages)
	compressed := make([]llm.Message, 0, 1+len(l.messages)-keepFrom)
	compressed = append(compressed, llm.UserText(summary))
	compressed = append(compressed, l.messages[keepFrom:]...)
	l.messages = compressed

	l.config.Logger.Info("compressed history",
		zap.Int("before", oldCount),
		zap.Int("after", len(l.messages)),
		zap.Int("kept_rounds", l.config.CompressionKeepRounds))
}
