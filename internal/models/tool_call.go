package models

import "time"

// ToolCall records one tool invocation. The call id is supplied by the
// host and assumed unique within a session; the row is inserted when the
// invocation begins and updated once on completion.
type ToolCall struct {
	ID         uint   `gorm:"primaryKey;autoIncrement"`
	SessionID  string `gorm:"size:64;not null;index"`
	TurnID     *uint  `gorm:"index"`
	CallID     string `gorm:"size:128;not null;index"`
	Name       string `gorm:"size:128;index"`
	Input      string `gorm:"type:text"` // serialized tool input
	Result     string `gorm:"type:text"` // truncated at ResultCap
	IsError    bool
	StartedAt  time.Time
	EndedAt    *time.Time
	DurationMs int64
}
