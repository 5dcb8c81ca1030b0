// Package ioaudit records audit revisions. One mutating operation
// produces one revision; the recorder runs inside the operation's
// transaction so the revision commits or rolls back with the data it
// describes.
package ioaudit

import (
	"github.com/gnames/gnfmt"
	"github.com/google/uuid"
	"github.com/paleolimbot/strativerse/pkg/schema"
	"github.com/paleolimbot/strativerse/pkg/strativerse"
	"gorm.io/gorm"
)

type auditor struct {
	enc gnfmt.Encoder
}

// New creates an Auditor that serializes snapshots as JSON.
func New() strativerse.Auditor {
	return &auditor{enc: gnfmt.GNjson{}}
}

// Record writes one revision with one entry per touched entity.
func (a *auditor) Record(
	tx *gorm.DB, actor, comment string, entries []strativerse.AuditEntry,
) (*schema.Revision, error) {
	rev := &schema.Revision{
		ID:      uuid.New().String(),
		Actor:   actor,
		Comment: comment,
	}

	for _, e := range entries {
		snapshot := ""
		if e.Value != nil {
			bs, err := a.enc.Encode(e.Value)
			if err != nil {
				return nil, RecordError(err)
			}
			snapshot = string(bs)
		}

		rev.Entries = append(rev.Entries, schema.RevisionEntry{
			EntityKind: e.Kind,
			EntityID:   e.EntityID,
			Action:     e.Action,
			Snapshot:   snapshot,
		})
	}

	if err := tx.Create(rev).Error; err != nil {
		return nil, RecordError(err)
	}

	return rev, nil
}
