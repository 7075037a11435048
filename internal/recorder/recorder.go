// Package recorder persists agent session telemetry to the activity store.
//
// The recorder is event-driven and write-only: it reacts to lifecycle
// events and keeps just enough in-memory correlation state to pair starts
// with ends. Persistence failures are logged and swallowed; telemetry
// must never take down the host. Reading the store is the dashboard's job.
package recorder

import (
	"log"
	"time"

	"github.com/toolbelt-dev/toolbelt/internal/config"
	"github.com/toolbelt-dev/toolbelt/internal/db"
	"github.com/toolbelt-dev/toolbelt/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Usage carries token and cost figures from a completed exchange.
type Usage struct {
	InputTokens  int64   `json:"input_tokens"`
	OutputTokens int64   `json:"output_tokens"`
	CostUSD      float64 `json:"cost_usd"`
}

// Summary describes a finished session, fed to the notify digest.
type Summary struct {
	SessionID    string
	Cwd          string
	Provider     string
	Model        string
	Turns        int64
	ToolCalls    int64
	InputTokens  int64
	OutputTokens int64
	CostUSD      float64
	Duration     time.Duration
}

// Recorder captures one session's lifecycle. It is constructed per session
// and discarded at shutdown; all correlation state lives on the instance,
// never in package globals. Not safe for concurrent use; the host
// delivers events one at a time.
type Recorder struct {
	storage config.StorageConfig
	gdb     *gorm.DB // nil until the first session start
	ownsDB  bool     // close the handle at session end only if we opened it

	sessionID     string
	sessionStart  time.Time
	provider      string
	model         string
	turnSeq       int
	currentTurnID *uint
	turnStart     time.Time
	toolStarts    map[string]time.Time

	now func() time.Time
}

// New returns a Recorder that lazily opens the configured store on the
// first session start.
func New(storage config.StorageConfig) *Recorder {
	return &Recorder{storage: storage, now: time.Now}
}

// NewWithDB returns a Recorder bound to an already-open store, used by
// tests and by hosts that manage the connection themselves.
func NewWithDB(gdb *gorm.DB) *Recorder {
	return &Recorder{gdb: gdb, now: time.Now}
}

// OnSessionStart opens the store if needed, clears correlation state, and
// upserts the session row. Replaying a start for the same id replaces the
// row rather than duplicating it.
func (r *Recorder) OnSessionStart(id, cwd, provider, model string) {
	if r.gdb == nil {
		gdb, err := db.Open(r.storage)
		if err != nil {
			log.Printf("recorder: open store: %v", err)
			return
		}
		if err := db.AutoMigrate(gdb); err != nil {
			log.Printf("recorder: migrate store: %v", err)
			return
		}
		r.gdb = gdb
		r.ownsDB = true
	}

	now := r.now()
	r.sessionID = id
	r.sessionStart = now
	r.provider = provider
	r.model = model
	r.turnSeq = 0
	r.currentTurnID = nil
	r.toolStarts = make(map[string]time.Time)

	session := models.Session{
		ID:        id,
		Cwd:       cwd,
		Provider:  provider,
		Model:     model,
		StartedAt: now,
	}
	r.persist("session start", func(g *gorm.DB) error {
		return g.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			UpdateAll: true,
		}).Create(&session).Error
	})
}

// OnUserInput appends a user message, linked to the open turn if any.
func (r *Recorder) OnUserInput(text string) {
	if !r.ready() {
		return
	}
	msg := models.Message{
		SessionID: r.sessionID,
		TurnID:    r.currentTurnID,
		Role:      "user",
		Content:   models.Truncate(text),
		CreatedAt: r.now(),
	}
	r.persist("user input", func(g *gorm.DB) error {
		return g.Create(&msg).Error
	})
}

// OnTurnStart inserts a turn row with only start fields populated and
// remembers it as the current turn.
func (r *Recorder) OnTurnStart() {
	if !r.ready() {
		return
	}
	r.turnSeq++
	r.turnStart = r.now()

	turn := models.Turn{
		SessionID: r.sessionID,
		Sequence:  r.turnSeq,
		Provider:  r.provider,
		Model:     r.model,
		StartedAt: r.turnStart,
	}
	ok := r.persist("turn start", func(g *gorm.DB) error {
		return g.Create(&turn).Error
	})
	if ok {
		r.currentTurnID = &turn.ID
	}
}

// OnTurnEnd completes the current turn and adds its usage to the session's
// running totals. Without an open turn this is a no-op.
func (r *Recorder) OnTurnEnd(u Usage, stopReason, assistantText string) {
	if !r.ready() || r.currentTurnID == nil {
		return
	}
	now := r.now()
	turnID := *r.currentTurnID
	duration := now.Sub(r.turnStart).Milliseconds()

	r.persist("turn end", func(g *gorm.DB) error {
		return g.Model(&models.Turn{}).Where("id = ?", turnID).Updates(map[string]interface{}{
			"ended_at":      now,
			"duration_ms":   duration,
			"input_tokens":  u.InputTokens,
			"output_tokens": u.OutputTokens,
			"cost_usd":      u.CostUSD,
			"stop_reason":   stopReason,
			"model":         r.model,
		}).Error
	})

	r.persist("session totals", func(g *gorm.DB) error {
		return g.Model(&models.Session{}).Where("id = ?", r.sessionID).Updates(map[string]interface{}{
			"input_tokens":  gorm.Expr("input_tokens + ?", u.InputTokens),
			"output_tokens": gorm.Expr("output_tokens + ?", u.OutputTokens),
			"cost_usd":      gorm.Expr("cost_usd + ?", u.CostUSD),
		}).Error
	})

	if assistantText != "" {
		msg := models.Message{
			SessionID: r.sessionID,
			TurnID:    &turnID,
			Role:      "assistant",
			Content:   models.Truncate(assistantText),
			CreatedAt: now,
		}
		r.persist("assistant message", func(g *gorm.DB) error {
			return g.Create(&msg).Error
		})
	}

	r.currentTurnID = nil
}

// OnToolStart remembers the call's start time and inserts its row with end
// fields null.
func (r *Recorder) OnToolStart(callID, name, input string) {
	if !r.ready() {
		return
	}
	now := r.now()
	r.toolStarts[callID] = now

	call := models.ToolCall{
		SessionID: r.sessionID,
		TurnID:    r.currentTurnID,
		CallID:    callID,
		Name:      name,
		Input:     models.Truncate(input),
		StartedAt: now,
	}
	r.persist("tool start", func(g *gorm.DB) error {
		return g.Create(&call).Error
	})
}

// OnToolEnd completes a tool call. A missing remembered start time falls
// back to now, yielding a zero duration rather than a failure.
func (r *Recorder) OnToolEnd(callID string, isError bool, result string) {
	if !r.ready() {
		return
	}
	now := r.now()
	start, ok := r.toolStarts[callID]
	if !ok {
		start = now
	}
	delete(r.toolStarts, callID)

	r.persist("tool end", func(g *gorm.DB) error {
		return g.Model(&models.ToolCall{}).
			Where("session_id = ? AND call_id = ?", r.sessionID, callID).
			Updates(map[string]interface{}{
				"ended_at":    now,
				"duration_ms": now.Sub(start).Milliseconds(),
				"is_error":    isError,
				"result":      models.Truncate(result),
			}).Error
	})
}

// OnModelChange appends an audit row and updates the tracked identity.
func (r *Recorder) OnModelChange(provider, model string) {
	if !r.ready() {
		return
	}
	change := models.ModelChange{
		SessionID:   r.sessionID,
		NewProvider: provider,
		NewModel:    model,
		CreatedAt:   r.now(),
	}
	if r.provider != "" {
		old := r.provider
		change.OldProvider = &old
	}
	if r.model != "" {
		old := r.model
		change.OldModel = &old
	}
	r.persist("model change", func(g *gorm.DB) error {
		return g.Create(&change).Error
	})

	r.provider = provider
	r.model = model
}

// OnSessionEnd stamps the session's end time, builds a digest summary,
// releases the store handle, and clears correlation state.
func (r *Recorder) OnSessionEnd() *Summary {
	if !r.ready() {
		return nil
	}
	now := r.now()
	r.persist("session end", func(g *gorm.DB) error {
		return g.Model(&models.Session{}).Where("id = ?", r.sessionID).
			Update("ended_at", now).Error
	})

	summary := r.buildSummary(now)

	if r.ownsDB {
		if sqlDB, err := r.gdb.DB(); err == nil {
			sqlDB.Close()
		}
		r.gdb = nil
		r.ownsDB = false
	}
	r.sessionID = ""
	r.currentTurnID = nil
	r.toolStarts = nil

	return summary
}

// buildSummary reads the finished session back for the digest.
func (r *Recorder) buildSummary(end time.Time) *Summary {
	var session models.Session
	if err := r.gdb.First(&session, "id = ?", r.sessionID).Error; err != nil {
		log.Printf("recorder: summary: %v", err)
		return nil
	}

	s := &Summary{
		SessionID:    session.ID,
		Cwd:          session.Cwd,
		Provider:     r.provider,
		Model:        r.model,
		InputTokens:  session.InputTokens,
		OutputTokens: session.OutputTokens,
		CostUSD:      session.CostUSD,
		Duration:     end.Sub(session.StartedAt),
	}
	r.gdb.Model(&models.Turn{}).Where("session_id = ?", r.sessionID).Count(&s.Turns)
	r.gdb.Model(&models.ToolCall{}).Where("session_id = ?", r.sessionID).Count(&s.ToolCalls)
	return s
}

// ready reports whether a session is open and the store is usable.
func (r *Recorder) ready() bool {
	return r.gdb != nil && r.sessionID != ""
}

// persist runs one store mutation, logging and swallowing any failure.
func (r *Recorder) persist(op string, fn func(*gorm.DB) error) bool {
	if err := fn(r.gdb); err != nil {
		log.Printf("recorder: %s: %v", op, err)
		return false
	}
	return true
}
