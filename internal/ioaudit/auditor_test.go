package ioaudit_test

import (
	"testing"

	"github.com/paleolimbot/strativerse/internal/ioaudit"
	"github.com/paleolimbot/strativerse/internal/iotesting"
	"github.com/paleolimbot/strativerse/pkg/schema"
	"github.com/paleolimbot/strativerse/pkg/strativerse"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestRecord(t *testing.T) {
	db := iotesting.NewDB(t)
	aud := ioaudit.New()

	person := &schema.Person{GivenNames: "Mary", LastName: "Smith"}
	require.NoError(t, db.Create(person).Error)

	rev, err := aud.Record(db, "curator", "created a person",
		[]strativerse.AuditEntry{
			{
				Kind:     schema.KindPerson,
				EntityID: person.ID,
				Action:   "create",
				Value:    person,
			},
		})
	require.NoError(t, err)
	assert.Len(t, rev.ID, 36)

	var stored schema.Revision
	err = db.Preload("Entries").First(&stored, "id = ?", rev.ID).Error
	require.NoError(t, err)
	assert.Equal(t, "curator", stored.Actor)
	require.Len(t, stored.Entries, 1)
	assert.Equal(t, schema.KindPerson, stored.Entries[0].EntityKind)
	assert.Equal(t, person.ID, stored.Entries[0].EntityID)
	assert.Contains(t, stored.Entries[0].Snapshot, "Smith")
}

func TestRecordRollsBackWithTransaction(t *testing.T) {
	db := iotesting.NewDB(t)
	aud := ioaudit.New()

	err := db.Transaction(func(tx *gorm.DB) error {
		_, err := aud.Record(tx, "curator", "doomed",
			[]strativerse.AuditEntry{
				{Kind: schema.KindPerson, EntityID: 1, Action: "delete"},
			})
		require.NoError(t, err)
		return assert.AnError
	})
	require.Error(t, err)

	var count int64
	require.NoError(t, db.Model(&schema.Revision{}).Count(&count).Error)
	assert.Zero(t, count)
}
