package models

import "time"

// Turn is one request/response exchange with a model within a session.
// Created at turn start with only start fields populated; every remaining
// field is filled exactly once when the turn ends.
type Turn struct {
	ID           uint   `gorm:"primaryKey;autoIncrement"`
	SessionID    string `gorm:"size:64;not null;index"`
	Sequence     int    `gorm:"not null"`
	Provider     string `gorm:"size:64"`
	Model        string `gorm:"size:64"`
	InputTokens  int64
	OutputTokens int64
	CostUSD      float64
	StopReason   string `gorm:"size:32"`
	StartedAt    time.Time
	EndedAt      *time.Time
	DurationMs   int64
}
