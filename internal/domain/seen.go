// Package domain defines the core models shared by the persistence, provider,
// and relay layers: the durable seen-event record, the provider's event
// detail, and the static room directory.
package domain

import "time"

// SeenEvent records that a provider notification id has been handled. The row
// existence is the whole payload; RecordedAt is informational only.
//
// Rows are never updated or deleted. Inserting the same EventID twice is a
// no-op at the repository layer (insert-or-ignore on the primary key).
type SeenEvent struct {
	EventID    string    `gorm:"column:msg_id;type:TEXT NOT NULL;primaryKey"`
	RecordedAt time.Time `gorm:"type:DATETIME NOT NULL;autoCreateTime"`
}

// TableName implements the GORM tabler interface.
func (SeenEvent) TableName() string { return "seen" }
