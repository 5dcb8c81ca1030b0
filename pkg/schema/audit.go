package schema

import (
	"time"
)

// Revision is one audited mutating operation: one logical operation,
// one transaction, one revision. The log is append-only.
type Revision struct {
	// ID is a UUID assigned when the revision is recorded.
	ID string `gorm:"size:36;primaryKey"`

	// Actor identifies who performed the operation.
	Actor string `gorm:"size:255;not null"`

	// Comment describes the operation (e.g. which people were combined).
	Comment string

	CreatedAt time.Time

	Entries []RevisionEntry `gorm:"constraint:OnDelete:CASCADE"`
}

// RevisionEntry is the before/after snapshot of one entity touched by
// a revision.
type RevisionEntry struct {
	ID         uint       `gorm:"primaryKey"`
	RevisionID string     `gorm:"size:36;not null;index"`
	EntityKind EntityKind `gorm:"size:55;not null"`
	EntityID   uint       `gorm:"not null"`

	// Action is one of "create", "update", "delete".
	Action string `gorm:"size:16;not null"`

	// Snapshot is the JSON-serialized entity after the operation
	// ("create"/"update") or before it ("delete").
	Snapshot string
}
