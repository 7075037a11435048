package models

import "time"

// Session is one end-to-end interaction lifecycle of the host agent. The
// row is upserted on session start and its running totals grow additively
// as turns complete; nothing in the recorder ever deletes it.
type Session struct {
	ID           string `gorm:"primaryKey;size:64"`
	Cwd          string `gorm:"size:512"`
	Provider     string `gorm:"size:64"`
	Model        string `gorm:"size:64"`
	InputTokens  int64
	OutputTokens int64
	CostUSD      float64
	StartedAt    time.Time
	EndedAt      *time.Time
}
