// Package ioannotate implements the generic annotation store: tags
// and attachments keyed by (owner kind, owner id, type, key), valid
// on every entity kind.
package ioannotate

import (
	"context"
	"errors"

	"github.com/paleolimbot/strativerse/pkg/schema"
	"github.com/paleolimbot/strativerse/pkg/strativerse"
	"gorm.io/gorm"
)

type annotator struct {
	db  *gorm.DB
	aud strativerse.Auditor
}

// New creates an Annotator backed by the given database handle.
func New(db *gorm.DB, aud strativerse.Auditor) strativerse.Annotator {
	return &annotator{db: db, aud: aud}
}

// ownerModel maps an entity kind to its model for existence checks.
func ownerModel(kind schema.EntityKind) (any, bool) {
	switch kind {
	case schema.KindPerson:
		return &schema.Person{}, true
	case schema.KindPublication:
		return &schema.Publication{}, true
	case schema.KindFeature:
		return &schema.Feature{}, true
	case schema.KindRecord:
		return &schema.Record{}, true
	case schema.KindParameter:
		return &schema.Parameter{}, true
	default:
		return nil, false
	}
}

// checkOwner verifies the annotation target: known kind, valid key,
// existing entity.
func (a *annotator) checkOwner(
	tx *gorm.DB, kind schema.EntityKind, id uint, key string,
) error {
	if !schema.KeyPattern.MatchString(key) {
		return KeyError(key)
	}

	model, ok := ownerModel(kind)
	if !ok {
		return OwnerKindError(string(kind))
	}

	var count int64
	if err := tx.Model(model).Where("id = ?", id).
		Count(&count).Error; err != nil {
		return SaveError(err)
	}
	if count == 0 {
		return OwnerMissingError(string(kind), id)
	}

	return nil
}

func (a *annotator) Attach(
	ctx context.Context, kind schema.EntityKind, id uint,
	tagType, key, value, comment string,
) (*schema.Tag, error) {
	tag := &schema.Tag{
		OwnerKind: kind,
		OwnerID:   id,
		Type:      tagType,
		Key:       key,
		Value:     value,
		Comment:   comment,
	}

	err := a.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := a.checkOwner(tx, kind, id, key); err != nil {
			return err
		}

		var count int64
		if err := tx.Model(&schema.Tag{}).
			Where("owner_kind = ? AND owner_id = ? AND type = ? AND key = ?",
				kind, id, tagType, key).
			Count(&count).Error; err != nil {
			return SaveError(err)
		}
		if count > 0 {
			return DuplicateError(string(kind), id, tagType, key)
		}

		if err := tx.Create(tag).Error; err != nil {
			return SaveError(err)
		}

		_, err := a.aud.Record(tx, "system", "attach tag",
			[]strativerse.AuditEntry{
				{Kind: kind, EntityID: id, Action: "update", Value: tag},
			})
		return err
	})
	if err != nil {
		return nil, err
	}

	return tag, nil
}

func (a *annotator) AttachFile(
	ctx context.Context, kind schema.EntityKind, id uint,
	tagType, key, fileID, filename, comment string,
) (*schema.Attachment, error) {
	att := &schema.Attachment{
		OwnerKind: kind,
		OwnerID:   id,
		Type:      tagType,
		Key:       key,
		FileID:    fileID,
		Filename:  filename,
		Comment:   comment,
	}

	err := a.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := a.checkOwner(tx, kind, id, key); err != nil {
			return err
		}

		var count int64
		if err := tx.Model(&schema.Attachment{}).
			Where("owner_kind = ? AND owner_id = ? AND type = ? AND key = ?",
				kind, id, tagType, key).
			Count(&count).Error; err != nil {
			return SaveError(err)
		}
		if count > 0 {
			return DuplicateError(string(kind), id, tagType, key)
		}

		if err := tx.Create(att).Error; err != nil {
			return SaveError(err)
		}

		_, err := a.aud.Record(tx, "system", "attach file",
			[]strativerse.AuditEntry{
				{Kind: kind, EntityID: id, Action: "update", Value: att},
			})
		return err
	})
	if err != nil {
		return nil, err
	}

	return att, nil
}

func (a *annotator) Tags(
	ctx context.Context, kind schema.EntityKind, id uint, tagType string,
) ([]schema.Tag, error) {
	q := a.db.WithContext(ctx).
		Where("owner_kind = ? AND owner_id = ?", kind, id)
	if tagType != "" {
		q = q.Where("type = ?", tagType)
	}

	var tags []schema.Tag
	if err := q.Order("type, key").Find(&tags).Error; err != nil {
		return nil, SaveError(err)
	}

	return tags, nil
}

func (a *annotator) Attachments(
	ctx context.Context, kind schema.EntityKind, id uint, tagType string,
) ([]schema.Attachment, error) {
	q := a.db.WithContext(ctx).
		Where("owner_kind = ? AND owner_id = ?", kind, id)
	if tagType != "" {
		q = q.Where("type = ?", tagType)
	}

	var atts []schema.Attachment
	if err := q.Order("type, key").Find(&atts).Error; err != nil {
		return nil, SaveError(err)
	}

	return atts, nil
}

func (a *annotator) DeleteTag(
	ctx context.Context, kind schema.EntityKind, id uint,
	tagType, key string,
) error {
	return a.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var tag schema.Tag
		err := tx.
			Where("owner_kind = ? AND owner_id = ? AND type = ? AND key = ?",
				kind, id, tagType, key).
			First(&tag).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return NotFoundError(string(kind), id, tagType, key)
		}
		if err != nil {
			return SaveError(err)
		}

		if err := tx.Delete(&tag).Error; err != nil {
			return SaveError(err)
		}

		_, err = a.aud.Record(tx, "system", "delete tag",
			[]strativerse.AuditEntry{
				{Kind: kind, EntityID: id, Action: "update", Value: tag},
			})
		return err
	})
}

func (a *annotator) DeleteAttachment(
	ctx context.Context, kind schema.EntityKind, id uint,
	tagType, key string,
) error {
	return a.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var att schema.Attachment
		err := tx.
			Where("owner_kind = ? AND owner_id = ? AND type = ? AND key = ?",
				kind, id, tagType, key).
			First(&att).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return NotFoundError(string(kind), id, tagType, key)
		}
		if err != nil {
			return SaveError(err)
		}

		if err := tx.Delete(&att).Error; err != nil {
			return SaveError(err)
		}

		_, err = a.aud.Record(tx, "system", "delete attachment",
			[]strativerse.AuditEntry{
				{Kind: kind, EntityID: id, Action: "update", Value: att},
			})
		return err
	})
}
