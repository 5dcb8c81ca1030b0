// Package iocombine merges duplicate Person entities. The survivor
// absorbs every alias, authorship and annotation of the losers; the
// losers are deleted. One call is one atomic, audited operation.
package iocombine

import (
	"context"
	"errors"
	"log/slog"

	"github.com/paleolimbot/strativerse/pkg/schema"
	"github.com/paleolimbot/strativerse/pkg/strativerse"
	"gorm.io/gorm"
)

type combiner struct {
	db  *gorm.DB
	aud strativerse.Auditor
}

// New creates a Combiner backed by the given database handle.
func New(db *gorm.DB, aud strativerse.Auditor) strativerse.Combiner {
	return &combiner{db: db, aud: aud}
}

// Combine merges the given people into the one with the most
// publication authorships, ties broken by input order.
func (c *combiner) Combine(
	ctx context.Context, personIDs []uint, actor, comment string,
) (*schema.Person, error) {
	if len(personIDs) < 2 {
		return nil, TooFewError(len(personIDs))
	}

	var survivor *schema.Person

	err := c.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		people := make([]*schema.Person, 0, len(personIDs))
		counts := make(map[uint]int64, len(personIDs))

		for _, id := range personIDs {
			var p schema.Person
			err := tx.Preload("Aliases").First(&p, id).Error
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return PersonMissingError(id)
			}
			if err != nil {
				return CommitError(err)
			}
			people = append(people, &p)

			var n int64
			err = tx.Model(&schema.Authorship{}).
				Where("person_id = ?", id).Count(&n).Error
			if err != nil {
				return CommitError(err)
			}
			counts[id] = n
		}

		// Most authorships wins; input order breaks ties.
		survivor = people[0]
		for _, p := range people[1:] {
			if counts[p.ID] > counts[survivor.ID] {
				survivor = p
			}
		}

		audited := []strativerse.AuditEntry{{
			Kind:     schema.KindPerson,
			EntityID: survivor.ID,
			Action:   "update",
			Value:    survivor,
		}}

		for _, loser := range people {
			if loser.ID == survivor.ID {
				continue
			}
			if err := c.absorb(tx, survivor, loser); err != nil {
				return err
			}
			audited = append(audited, strativerse.AuditEntry{
				Kind:     schema.KindPerson,
				EntityID: loser.ID,
				Action:   "delete",
				Value:    loser,
			})
		}

		slog.Info("combined people",
			"survivor", survivor.ID, "merged", len(people)-1)

		_, err := c.aud.Record(tx, actor, comment, audited)
		return err
	})
	if err != nil {
		return nil, err
	}

	// Reload with the absorbed aliases.
	var merged schema.Person
	err = c.db.WithContext(ctx).
		Preload("Aliases").Preload("ContactInfo").
		First(&merged, survivor.ID).Error
	if err != nil {
		return nil, CommitError(err)
	}

	return &merged, nil
}

// absorb moves everything that points at loser over to survivor, then
// deletes loser.
func (c *combiner) absorb(
	tx *gorm.DB, survivor, loser *schema.Person,
) error {
	// Aliases are globally unique, so a plain reassignment keeps the
	// injective mapping intact.
	err := tx.Model(&schema.Alias{}).
		Where("person_id = ?", loser.ID).
		Update("person_id", survivor.ID).Error
	if err != nil {
		return CommitError(err)
	}

	err = tx.Model(&schema.ContactInfo{}).
		Where("person_id = ?", loser.ID).
		Update("person_id", survivor.ID).Error
	if err != nil {
		return CommitError(err)
	}

	err = tx.Model(&schema.Authorship{}).
		Where("person_id = ?", loser.ID).
		Update("person_id", survivor.ID).Error
	if err != nil {
		return CommitError(err)
	}

	err = tx.Model(&schema.RecordAuthorship{}).
		Where("person_id = ?", loser.ID).
		Update("person_id", survivor.ID).Error
	if err != nil {
		return CommitError(err)
	}

	if err := c.moveTags(tx, survivor, loser); err != nil {
		return err
	}
	if err := c.moveAttachments(tx, survivor, loser); err != nil {
		return err
	}

	// The survivor keeps its own identity fields, but fills blanks
	// from the loser.
	changed := false
	if survivor.GivenNames == "" && loser.GivenNames != "" {
		survivor.GivenNames = loser.GivenNames
		changed = true
	}
	if survivor.Suffix == "" && loser.Suffix != "" {
		survivor.Suffix = loser.Suffix
		changed = true
	}
	if survivor.ORCID == "" && loser.ORCID != "" {
		survivor.ORCID = loser.ORCID
		changed = true
	}
	if changed {
		if err := tx.Omit("Aliases", "ContactInfo").
			Save(survivor).Error; err != nil {
			return CommitError(err)
		}
	}

	if err := tx.Delete(&schema.Person{}, loser.ID).Error; err != nil {
		return CommitError(err)
	}

	return nil
}

// moveTags reassigns the loser's tags unless the survivor already has
// one with the same type and key; the survivor's entry wins and the
// colliding one is dropped.
func (c *combiner) moveTags(
	tx *gorm.DB, survivor, loser *schema.Person,
) error {
	var tags []schema.Tag
	err := tx.Where("owner_kind = ? AND owner_id = ?",
		schema.KindPerson, loser.ID).Find(&tags).Error
	if err != nil {
		return CommitError(err)
	}

	for i := range tags {
		tag := &tags[i]

		var count int64
		err := tx.Model(&schema.Tag{}).
			Where("owner_kind = ? AND owner_id = ? AND type = ? AND key = ?",
				schema.KindPerson, survivor.ID, tag.Type, tag.Key).
			Count(&count).Error
		if err != nil {
			return CommitError(err)
		}

		if count > 0 {
			err = tx.Delete(tag).Error
		} else {
			err = tx.Model(tag).Update("owner_id", survivor.ID).Error
		}
		if err != nil {
			return CommitError(err)
		}
	}

	return nil
}

func (c *combiner) moveAttachments(
	tx *gorm.DB, survivor, loser *schema.Person,
) error {
	var atts []schema.Attachment
	err := tx.Where("owner_kind = ? AND owner_id = ?",
		schema.KindPerson, loser.ID).Find(&atts).Error
	if err != nil {
		return CommitError(err)
	}

	for i := range atts {
		att := &atts[i]

		var count int64
		err := tx.Model(&schema.Attachment{}).
			Where("owner_kind = ? AND owner_id = ? AND type = ? AND key = ?",
				schema.KindPerson, survivor.ID, att.Type, att.Key).
			Count(&count).Error
		if err != nil {
			return CommitError(err)
		}

		if count > 0 {
			err = tx.Delete(att).Error
		} else {
			err = tx.Model(att).Update("owner_id", survivor.ID).Error
		}
		if err != nil {
			return CommitError(err)
		}
	}

	return nil
}
