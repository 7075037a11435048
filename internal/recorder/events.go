package recorder

import (
	"bufio"
	"encoding/json"
	"io"
	"strings"
)

// Event is the JSON envelope for one lifecycle event. The host emits one
// event per line; fields irrelevant to a given type stay empty.
type Event struct {
	Type       string `json:"type"`
	SessionID  string `json:"session_id,omitempty"`
	Cwd        string `json:"cwd,omitempty"`
	Provider   string `json:"provider,omitempty"`
	Model      string `json:"model,omitempty"`
	Text       string `json:"text,omitempty"`
	CallID     string `json:"call_id,omitempty"`
	Name       string `json:"name,omitempty"`
	Input      string `json:"input,omitempty"`
	Result     string `json:"result,omitempty"`
	IsError    bool   `json:"is_error,omitempty"`
	StopReason string `json:"stop_reason,omitempty"`
	Usage      Usage  `json:"usage,omitempty"`
}

// Event type vocabulary.
const (
	EventSessionStart = "session_start"
	EventUserInput    = "user_input"
	EventTurnStart    = "turn_start"
	EventTurnEnd      = "turn_end"
	EventToolStart    = "tool_start"
	EventToolEnd      = "tool_end"
	EventModelChange  = "model_change"
	EventSessionEnd   = "session_end"
)

// Handle dispatches one event to its handler. Unknown types are ignored.
// A session_end returns the digest summary; everything else returns nil.
func (r *Recorder) Handle(e Event) *Summary {
	switch e.Type {
	case EventSessionStart:
		r.OnSessionStart(e.SessionID, e.Cwd, e.Provider, e.Model)
	case EventUserInput:
		r.OnUserInput(e.Text)
	case EventTurnStart:
		r.OnTurnStart()
	case EventTurnEnd:
		r.OnTurnEnd(e.Usage, e.StopReason, e.Text)
	case EventToolStart:
		r.OnToolStart(e.CallID, e.Name, e.Input)
	case EventToolEnd:
		r.OnToolEnd(e.CallID, e.IsError, e.Result)
	case EventModelChange:
		r.OnModelChange(e.Provider, e.Model)
	case EventSessionEnd:
		return r.OnSessionEnd()
	}
	return nil
}

// Consume reads JSON-lines events from rd until EOF, dispatching each to
// the recorder. Non-JSON lines are skipped; the stream is host output and
// may carry debug noise. Lines have no length limit: tool results arrive
// far larger than the storage cap, and one oversized event must not cost
// the rest of the stream. Returns the last session summary produced, if any.
func (r *Recorder) Consume(rd io.Reader) (*Summary, error) {
	br := bufio.NewReaderSize(rd, 64*1024)

	var last *Summary
	for {
		line, err := br.ReadString('\n')
		trimmed := strings.TrimSpace(line)
		if len(trimmed) > 0 && trimmed[0] == '{' {
			var e Event
			if jerr := json.Unmarshal([]byte(trimmed), &e); jerr == nil {
				if s := r.Handle(e); s != nil {
					last = s
				}
			}
		}
		if err == io.EOF {
			return last, nil
		}
		if err != nil {
			return last, err
		}
	}
}
