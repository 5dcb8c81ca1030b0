package schema

import (
	"regexp"
)

// KeyPattern constrains generic annotation keys.
var KeyPattern = regexp.MustCompile(`^[A-Za-z0-9_]+$`)

// Tag is a generic key/value annotation attachable to any entity kind.
// The (owner_kind, owner_id, type, key) tuple is unique; merges resolve
// collisions by keeping the survivor's entry, never by overwriting.
type Tag struct {
	ID uint `gorm:"primaryKey"`

	OwnerKind EntityKind `gorm:"size:55;not null;uniqueIndex:idx_tags_owner_key"`
	OwnerID   uint       `gorm:"not null;uniqueIndex:idx_tags_owner_key"`

	// Type groups related tags; the importer uses "meta" for residual
	// bibliographic fields.
	Type string `gorm:"size:55;not null;uniqueIndex:idx_tags_owner_key"`

	// Key must match KeyPattern.
	Key string `gorm:"size:55;not null;uniqueIndex:idx_tags_owner_key"`

	Value   string `gorm:"size:255"`
	Comment string
}

// Attachment is the file-valued counterpart of Tag: same key shape,
// value is a stored file reference.
type Attachment struct {
	ID uint `gorm:"primaryKey"`

	OwnerKind EntityKind `gorm:"size:55;not null;uniqueIndex:idx_attachments_owner_key"`
	OwnerID   uint       `gorm:"not null;uniqueIndex:idx_attachments_owner_key"`
	Type      string     `gorm:"size:55;not null;uniqueIndex:idx_attachments_owner_key"`
	Key       string     `gorm:"size:55;not null;uniqueIndex:idx_attachments_owner_key"`

	// FileID identifies the stored file in the external file store.
	FileID string `gorm:"size:55;not null"`

	// Filename is the original name of the uploaded file.
	Filename string `gorm:"size:255"`

	Comment string
}
