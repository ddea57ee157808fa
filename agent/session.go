package agent

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/tbruckner/pacemate/internal/text"
	"github.com/tbruckner/pacemate/llm"
)

// Durable record caps. Tool results can be huge, so they get a tighter cap.
const (
	recordContentLimit  = 4000
	toolCallRecordLimit = 2000
)

const sessionIDLayout = "session_2006-01-02_150405"

// record is one line of a session JSONL file.
type record struct {
	TS      string                 `json:"ts"`
	Role    string                 `json:"role"`
	Content string                 `json:"content"`
	Meta    map[string]interface{} `json:"meta,omitempty"`
}

// SessionsDir returns the directory session logs live in under dataDir.
func SessionsDir(dataDir string) string {
	return filepath.Join(dataDir, "sessions")
}

// ListSessions returns the IDs of all persisted sessions under dataDir,
// oldest first.
func ListSessions(dataDir string) ([]string, error) {
	entries, err := os.ReadDir(SessionsDir(dataDir))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading sessions dir: %w", err)
	}

	var ids []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".jsonl") {
			continue
		}
		ids = append(ids, strings.TrimSuffix(e.Name(), ".jsonl"))
	}
	sort.Strings(ids)
	return ids, nil
}

// StartSession starts a new session, or resumes resumeID when non-empty.
// Returns the session ID in use.
func (l *Loop) StartSession(resumeID string) (string, error) {
	dir := SessionsDir(l.config.DataDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating sessions dir: %w", err)
	}

	if resumeID != "" {
		return l.loadSession(resumeID)
	}

	l.sessionID = time.Now().Format(sessionIDLayout)
	l.sessionFile = filepath.Join(dir, l.sessionID+".jsonl")
	l.messages = nil
	l.turnsThisSession = 0
	return l.sessionID, nil
}

// saveTurn appends one record to the session file. Persistence failures
// are logged and swallowed: the conversation must not die with the disk.
func (l *Loop) saveTurn(role, content string, meta map[string]interface{}) {
	if l.sessionFile == "" {
		return
	}

	rec := record{
		TS:      time.Now().Format("2006-01-02T15:04:05"),
		Role:    role,
		Content: text.Clip(content, recordContentLimit),
		Meta:    meta,
	}

	line, err := json.Marshal(rec)
	if err != nil {
		l.config.Logger.Warn("marshaling session record", zap.Error(err))
		return
	}

	f, err := os.OpenFile(l.sessionFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		l.config.Logger.Warn("opening session file", zap.Error(err))
		return
	}
	defer f.Close()

	if _, err := f.Write(append(line, '\n')); err != nil {
		l.config.Logger.Warn("writing session record", zap.Error(err))
	}
}

// loadSession replays a prior session's user and model turns into the
// in-memory history. Tool turns are skipped: the transcript text is
// enough context to resume coaching, and replaying stale tool payloads
// would only mislead the model.
func (l *Loop) loadSession(sessionID string) (string, error) {
	l.sessionID = sessionID
	l.sessionFile = filepath.Join(SessionsDir(l.config.DataDir), sessionID+".jsonl")
	l.messages = nil
	l.turnsThisSession = 0

	f, err := os.Open(l.sessionFile)
	if err != nil {
		if os.IsNotExist(err) {
			l.config.Logger.Warn("session file not found, starting fresh",
				zap.String("session", sessionID))
			return sessionID, nil
		}
		return "", fmt.Errorf("opening session %s: %w", sessionID, err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		var rec record
		if err := json.Unmarshal([]byte(line), &rec); err != nil {
			// Corrupt lines are skipped, not fatal.
			continue
		}

		switch rec.Role {
		case RoleUser:
			l.messages = append(l.messages, llm.UserText(rec.Content))
			l.turnsThisSession++
		case RoleModel:
			l.messages = append(l.messages, llm.ModelText(rec.Content))
			l.turnsThisSession++
		}
	}
	if err := scanner.Err(); err != nil {
		return "", fmt.Errorf("reading session %s: %w", sessionID, err)
	}

	l.config.Logger.Info("resumed session",
		zap.String("session", sessionID),
		zap.Int("messages", len(l.messages)))
	return sessionID, nil
}
