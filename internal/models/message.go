package models

import "time"

// Message is one user or assistant message within a session. Append-only.
type Message struct {
	ID        uint   `gorm:"primaryKey;autoIncrement"`
	SessionID string `gorm:"size:64;not null;index"`
	TurnID    *uint  `gorm:"index"`
	Role      string `gorm:"size:16;not null"` // "user" or "assistant"
	Content   string `gorm:"type:text"`        // truncated at ResultCap
	CreatedAt time.Time
}
