package iocombine_test

import (
	"context"
	"testing"

	"github.com/gnames/gn"
	"github.com/paleolimbot/strativerse/internal/ioaudit"
	"github.com/paleolimbot/strativerse/internal/iocombine"
	"github.com/paleolimbot/strativerse/internal/iotesting"
	"github.com/paleolimbot/strativerse/pkg/errcode"
	"github.com/paleolimbot/strativerse/pkg/schema"
	"github.com/paleolimbot/strativerse/pkg/strativerse"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newCombiner(t *testing.T) (strativerse.Combiner, *gorm.DB) {
	t.Helper()
	db := iotesting.NewDB(t)
	return iocombine.New(db, ioaudit.New()), db
}

// seedPerson creates a person with the given number of publication
// authorships.
func seedPerson(
	t *testing.T, db *gorm.DB, last string, aliases []string, pubs int,
) *schema.Person {
	t.Helper()

	p := &schema.Person{LastName: last}
	for _, a := range aliases {
		p.Aliases = append(p.Aliases, schema.Alias{Alias: a})
	}
	require.NoError(t, db.Create(p).Error)

	for i := 0; i < pubs; i++ {
		pub := &schema.Publication{
			Slug:  last + string(rune('a'+i)),
			Title: "T", Year: 2000 + i,
		}
		require.NoError(t, db.Create(pub).Error)
		require.NoError(t, db.Create(&schema.Authorship{
			PublicationID: pub.ID,
			PersonID:      p.ID,
			Role:          "author",
		}).Error)
	}

	return p
}

func TestCombine(t *testing.T) {
	c, db := newCombiner(t)
	ctx := context.Background()

	keep := seedPerson(t, db, "smith",
		[]string{"Smith, Mary", "Smith, M."}, 3)
	lose := seedPerson(t, db, "smyth",
		[]string{"Smyth, Mary"}, 1)

	merged, err := c.Combine(ctx,
		[]uint{lose.ID, keep.ID}, "curator", "same person")
	require.NoError(t, err)

	// The person with more authorships survives regardless of input
	// order.
	assert.Equal(t, keep.ID, merged.ID)
	assert.Len(t, merged.Aliases, 3)

	var people, authorships int64
	require.NoError(t, db.Model(&schema.Person{}).Count(&people).Error)
	require.NoError(t,
		db.Model(&schema.Authorship{}).
			Where("person_id = ?", keep.ID).Count(&authorships).Error)
	assert.Equal(t, int64(1), people)
	assert.Equal(t, int64(4), authorships)
}

func TestCombineTieBreaksByInputOrder(t *testing.T) {
	c, db := newCombiner(t)
	ctx := context.Background()

	a := seedPerson(t, db, "first", []string{"First, A."}, 1)
	b := seedPerson(t, db, "second", []string{"Second, B."}, 1)

	merged, err := c.Combine(ctx, []uint{a.ID, b.ID}, "curator", "")
	require.NoError(t, err)
	assert.Equal(t, a.ID, merged.ID)
}

func TestCombineMovesAnnotations(t *testing.T) {
	c, db := newCombiner(t)
	ctx := context.Background()

	keep := seedPerson(t, db, "smith", nil, 2)
	lose := seedPerson(t, db, "smyth", nil, 0)

	require.NoError(t, db.Create(&schema.Tag{
		OwnerKind: schema.KindPerson, OwnerID: keep.ID,
		Type: "meta", Key: "orcid_checked", Value: "keep",
	}).Error)
	require.NoError(t, db.Create(&schema.Tag{
		OwnerKind: schema.KindPerson, OwnerID: lose.ID,
		Type: "meta", Key: "orcid_checked", Value: "lose",
	}).Error)
	require.NoError(t, db.Create(&schema.Tag{
		OwnerKind: schema.KindPerson, OwnerID: lose.ID,
		Type: "meta", Key: "affiliation", Value: "moved",
	}).Error)

	_, err := c.Combine(ctx, []uint{keep.ID, lose.ID}, "curator", "")
	require.NoError(t, err)

	var tags []schema.Tag
	require.NoError(t, db.Where(
		"owner_kind = ? AND owner_id = ?", schema.KindPerson, keep.ID,
	).Order("key").Find(&tags).Error)
	require.Len(t, tags, 2)

	// The survivor's value wins the collision; the unique key moves.
	assert.Equal(t, "affiliation", tags[0].Key)
	assert.Equal(t, "moved", tags[0].Value)
	assert.Equal(t, "keep", tags[1].Value)
}

func TestCombineValidation(t *testing.T) {
	c, db := newCombiner(t)
	ctx := context.Background()

	p := seedPerson(t, db, "smith", nil, 0)

	_, err := c.Combine(ctx, []uint{p.ID}, "curator", "")
	var gnErr *gn.Error
	require.ErrorAs(t, err, &gnErr)
	assert.Equal(t, errcode.CombineTooFewError, gnErr.Code)

	_, err = c.Combine(ctx, []uint{p.ID, 9999}, "curator", "")
	require.ErrorAs(t, err, &gnErr)
	assert.Equal(t, errcode.CombinePersonMissingError, gnErr.Code)

	// Nothing was merged.
	var people int64
	require.NoError(t, db.Model(&schema.Person{}).Count(&people).Error)
	assert.Equal(t, int64(1), people)
}

func TestCombineRecordsRevision(t *testing.T) {
	c, db := newCombiner(t)
	ctx := context.Background()

	a := seedPerson(t, db, "smith", nil, 1)
	b := seedPerson(t, db, "smyth", nil, 0)

	_, err := c.Combine(ctx, []uint{a.ID, b.ID}, "curator", "dupes")
	require.NoError(t, err)

	var rev schema.Revision
	require.NoError(t, db.Preload("Entries").First(&rev).Error)
	assert.Equal(t, "curator", rev.Actor)
	assert.Equal(t, "dupes", rev.Comment)
	assert.Len(t, rev.Entries, 2)
}
