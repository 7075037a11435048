package dashboard

import (
	"sync"
	"time"

	"github.com/toolbelt-dev/toolbelt/internal/models"
	"gorm.io/gorm"
)

// SessionRow is the list view of one session.
type SessionRow struct {
	ID           string     `json:"id"`
	Cwd          string     `json:"cwd"`
	Model        string     `json:"model"`
	InputTokens  int64      `json:"input_tokens"`
	OutputTokens int64      `json:"output_tokens"`
	CostUSD      float64    `json:"cost_usd"`
	StartedAt    time.Time  `json:"started_at"`
	EndedAt      *time.Time `json:"ended_at,omitempty"`
	Turns        int64      `json:"turns"`
}

// SessionDetail is one session with its turns and tool calls.
type SessionDetail struct {
	Session   models.Session       `json:"session"`
	Turns     []models.Turn        `json:"turns"`
	ToolCalls []models.ToolCall    `json:"tool_calls"`
	Messages  []models.Message     `json:"messages"`
	Changes   []models.ModelChange `json:"model_changes"`
}

// Stats is the aggregate snapshot served by /api/stats.
type Stats struct {
	Sessions     int64            `json:"sessions"`
	Turns        int64            `json:"turns"`
	ToolCalls    int64            `json:"tool_calls"`
	InputTokens  int64            `json:"input_tokens"`
	OutputTokens int64            `json:"output_tokens"`
	CostUSD      float64          `json:"cost_usd"`
	ToolUse      map[string]int64 `json:"tool_use"`
	RefreshedAt  time.Time        `json:"refreshed_at"`
}

// ListSessions returns recent sessions, newest first.
func ListSessions(db *gorm.DB, limit int) ([]SessionRow, error) {
	if limit <= 0 {
		limit = 50
	}
	var sessions []models.Session
	if err := db.Order("started_at DESC").Limit(limit).Find(&sessions).Error; err != nil {
		return nil, err
	}

	rows := make([]SessionRow, len(sessions))
	for i, s := range sessions {
		rows[i] = SessionRow{
			ID:           s.ID,
			Cwd:          s.Cwd,
			Model:        s.Model,
			InputTokens:  s.InputTokens,
			OutputTokens: s.OutputTokens,
			CostUSD:      s.CostUSD,
			StartedAt:    s.StartedAt,
			EndedAt:      s.EndedAt,
		}
		db.Model(&models.Turn{}).Where("session_id = ?", s.ID).Count(&rows[i].Turns)
	}
	return rows, nil
}

// GetSession returns one session with all related rows, or gorm.ErrRecordNotFound.
func GetSession(db *gorm.DB, id string) (*SessionDetail, error) {
	var detail SessionDetail
	if err := db.First(&detail.Session, "id = ?", id).Error; err != nil {
		return nil, err
	}
	if err := db.Where("session_id = ?", id).Order("sequence").Find(&detail.Turns).Error; err != nil {
		return nil, err
	}
	if err := db.Where("session_id = ?", id).Order("started_at").Find(&detail.ToolCalls).Error; err != nil {
		return nil, err
	}
	if err := db.Where("session_id = ?", id).Order("created_at").Find(&detail.Messages).Error; err != nil {
		return nil, err
	}
	if err := db.Where("session_id = ?", id).Order("created_at").Find(&detail.Changes).Error; err != nil {
		return nil, err
	}
	return &detail, nil
}

// ComputeStats aggregates store-wide totals.
func ComputeStats(db *gorm.DB) (*Stats, error) {
	s := &Stats{ToolUse: make(map[string]int64), RefreshedAt: time.Now()}

	if err := db.Model(&models.Session{}).Count(&s.Sessions).Error; err != nil {
		return nil, err
	}
	db.Model(&models.Turn{}).Count(&s.Turns)
	db.Model(&models.ToolCall{}).Count(&s.ToolCalls)

	type totals struct {
		InputTokens  int64
		OutputTokens int64
		CostUSD      float64
	}
	var t totals
	db.Model(&models.Session{}).
		Select("COALESCE(SUM(input_tokens),0) AS input_tokens, COALESCE(SUM(output_tokens),0) AS output_tokens, COALESCE(SUM(cost_usd),0) AS cost_usd").
		Scan(&t)
	s.InputTokens = t.InputTokens
	s.OutputTokens = t.OutputTokens
	s.CostUSD = t.CostUSD

	type toolCount struct {
		Name  string
		Count int64
	}
	var byTool []toolCount
	db.Model(&models.ToolCall{}).
		Select("name, COUNT(*) AS count").
		Group("name").
		Scan(&byTool)
	for _, tc := range byTool {
		s.ToolUse[tc.Name] = tc.Count
	}
	return s, nil
}

// statsCache holds the cron-refreshed aggregate snapshot.
type statsCache struct {
	db *gorm.DB

	mu    sync.RWMutex
	stats *Stats
}

func newStatsCache(db *gorm.DB) *statsCache {
	c := &statsCache{db: db}
	c.refresh()
	return c
}

func (c *statsCache) refresh() error {
	stats, err := ComputeStats(c.db)
	if err != nil {
		return err
	}
	c.mu.Lock()
	c.stats = stats
	c.mu.Unlock()
	return nil
}

func (c *statsCache) get() *Stats {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.stats
}
