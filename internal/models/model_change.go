package models

import "time"

// ModelChange is an append-only audit row recording a model switch. The
// old identity is nullable: the first switch of a session may have none.
type ModelChange struct {
	ID          uint    `gorm:"primaryKey;autoIncrement"`
	SessionID   string  `gorm:"size:64;not null;index"`
	OldProvider *string `gorm:"size:64"`
	OldModel    *string `gorm:"size:64"`
	NewProvider string  `gorm:"size:64;not null"`
	NewModel    string  `gorm:"size:64;not null"`
	CreatedAt   time.Time
}
