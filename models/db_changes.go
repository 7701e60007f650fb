package models

import (
	"time"
)

const (
	ChangeInsert = "INSERT"
	ChangeUpdate = "UPDATE"
	ChangeDelete = "DELETE"
)

// DBChange is an outbox row written on every tracked write and drained by the change monitor.
type DBChange struct {
	ID         uint      `gorm:"primaryKey"`
	Collection string    `gorm:"type:varchar(50);not null;index:idx_collection_action"`
	RecordID   uint      `gorm:"not null"`
	ActionType string    `gorm:"type:varchar(10);not null;index:idx_collection_action"`
	ChangedAt  time.Time `gorm:"not null;index"`
	Processed  bool      `gorm:"default:false;index:idx_processed"`
}
