package iograph_test

import (
	"context"
	"testing"

	"github.com/gnames/gn"
	"github.com/paleolimbot/strativerse/internal/ioaudit"
	"github.com/paleolimbot/strativerse/internal/iograph"
	"github.com/paleolimbot/strativerse/internal/iotesting"
	"github.com/paleolimbot/strativerse/pkg/errcode"
	"github.com/paleolimbot/strativerse/pkg/schema"
	"github.com/paleolimbot/strativerse/pkg/strativerse"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newGraph(t *testing.T) (strativerse.Graph, *gorm.DB) {
	t.Helper()
	db := iotesting.NewDB(t)
	return iograph.New(db, ioaudit.New()), db
}

func errCode(t *testing.T, err error) gn.ErrorCode {
	t.Helper()
	var gnErr *gn.Error
	require.ErrorAs(t, err, &gnErr)
	return gnErr.Code
}

func TestSavePerson(t *testing.T) {
	g, _ := newGraph(t)
	ctx := context.Background()

	p := &schema.Person{
		GivenNames: "Mary",
		LastName:   "Smith",
		Aliases:    []schema.Alias{{Alias: "Smith, Mary"}},
	}
	require.NoError(t, g.SavePerson(ctx, p, "curator", "new person"))
	assert.NotZero(t, p.ID)

	got, err := g.GetPerson(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Mary Smith", got.Name())
	require.Len(t, got.Aliases, 1)

	// The same alias cannot resolve to a second person.
	other := &schema.Person{
		LastName: "Smith",
		Aliases:  []schema.Alias{{Alias: "Smith, Mary"}},
	}
	err = g.SavePerson(ctx, other, "curator", "duplicate")
	assert.Equal(t, errcode.GraphDuplicateAliasError, errCode(t, err))
}

func TestGetPersonNotFound(t *testing.T) {
	g, _ := newGraph(t)

	_, err := g.GetPerson(context.Background(), 9999)
	assert.Equal(t, errcode.GraphNotFoundError, errCode(t, err))
}

func TestDeletePersonProtected(t *testing.T) {
	g, db := newGraph(t)
	ctx := context.Background()

	p := &schema.Person{LastName: "Smith"}
	require.NoError(t, g.SavePerson(ctx, p, "curator", ""))

	pub := &schema.Publication{
		Slug: "smith19", Title: "T", Year: 2019,
		Authorships: []schema.Authorship{
			{PersonID: p.ID, Role: "author", Order: 0},
		},
	}
	require.NoError(t, g.SavePublication(ctx, pub, "curator", ""))

	err := g.DeletePerson(ctx, p.ID, "curator", "")
	assert.Equal(t, errcode.GraphProtectedError, errCode(t, err))

	// After the authorship is gone, the delete goes through and the
	// aliases and annotations go with it.
	require.NoError(t,
		db.Where("person_id = ?", p.ID).
			Delete(&schema.Authorship{}).Error)
	require.NoError(t, g.DeletePerson(ctx, p.ID, "curator", ""))

	_, err = g.GetPerson(ctx, p.ID)
	assert.Equal(t, errcode.GraphNotFoundError, errCode(t, err))
}

func TestSavePublicationDuplicateSlug(t *testing.T) {
	g, _ := newGraph(t)
	ctx := context.Background()

	pub := &schema.Publication{Slug: "smith19", Title: "A", Year: 2019}
	require.NoError(t, g.SavePublication(ctx, pub, "curator", ""))

	dup := &schema.Publication{Slug: "smith19", Title: "B", Year: 2019}
	err := g.SavePublication(ctx, dup, "curator", "")
	assert.Equal(t, errcode.GraphDuplicateSlugError, errCode(t, err))
}

func TestSaveFeatureDepths(t *testing.T) {
	g, _ := newGraph(t)
	ctx := context.Background()

	region := &schema.Feature{Name: "Maritimes", Type: schema.FeatureRegion}
	require.NoError(t, g.SaveFeature(ctx, region, "curator", ""))
	assert.Equal(t, 0, region.RecursiveDepth)

	lake := &schema.Feature{
		Name: "Long Lake", Type: schema.FeatureWaterBody,
		ParentID: &region.ID,
	}
	require.NoError(t, g.SaveFeature(ctx, lake, "curator", ""))
	assert.Equal(t, 1, lake.RecursiveDepth)

	basin := &schema.Feature{
		Name: "North Basin", Type: schema.FeatureWaterBody,
		ParentID: &lake.ID,
	}
	require.NoError(t, g.SaveFeature(ctx, basin, "curator", ""))
	assert.Equal(t, 2, basin.RecursiveDepth)

	// Reparenting the lake to the root shifts the whole subtree.
	lake.ParentID = nil
	require.NoError(t, g.SaveFeature(ctx, lake, "curator", "reparent"))
	assert.Equal(t, 0, lake.RecursiveDepth)

	got, err := g.GetFeature(ctx, basin.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.RecursiveDepth)
}

func TestSaveFeatureCycle(t *testing.T) {
	g, _ := newGraph(t)
	ctx := context.Background()

	a := &schema.Feature{Name: "A", Type: schema.FeatureRegion}
	require.NoError(t, g.SaveFeature(ctx, a, "curator", ""))

	b := &schema.Feature{
		Name: "B", Type: schema.FeatureRegion, ParentID: &a.ID,
	}
	require.NoError(t, g.SaveFeature(ctx, b, "curator", ""))

	// A cannot become a child of its own descendant.
	a.ParentID = &b.ID
	err := g.SaveFeature(ctx, a, "curator", "")
	assert.Equal(t, errcode.GraphParentCycleError, errCode(t, err))

	// Self-parenting is the degenerate cycle.
	c := &schema.Feature{Name: "C", Type: schema.FeatureRegion}
	require.NoError(t, g.SaveFeature(ctx, c, "curator", ""))
	c.ParentID = &c.ID
	err = g.SaveFeature(ctx, c, "curator", "")
	assert.Equal(t, errcode.GraphParentCycleError, errCode(t, err))
}

func TestSaveFeatureGeo(t *testing.T) {
	g, _ := newGraph(t)
	ctx := context.Background()

	f := &schema.Feature{
		Name: "Long Lake", Type: schema.FeatureWaterBody,
		Geo: schema.GeoCache{WKT: "POINT (-64.2 45.1)"},
	}
	require.NoError(t, g.SaveFeature(ctx, f, "curator", ""))
	assert.Equal(t, "POINT", f.Geo.Type)
	require.NotNil(t, f.Geo.XMin)
	assert.Equal(t, -64.2, *f.Geo.XMin)
	assert.Equal(t, 45.1, *f.Geo.YMax)

	bad := &schema.Feature{
		Name: "Bad", Type: schema.FeatureWaterBody,
		Geo: schema.GeoCache{WKT: "POINT (fish)"},
	}
	err := g.SaveFeature(ctx, bad, "curator", "")
	assert.Equal(t, errcode.WKTInvalidError, errCode(t, err))
}

func TestSaveRecord(t *testing.T) {
	g, _ := newGraph(t)
	ctx := context.Background()

	f := &schema.Feature{Name: "Lake", Type: schema.FeatureWaterBody}
	require.NoError(t, g.SaveFeature(ctx, f, "curator", ""))

	r := &schema.Record{
		Name:      "Core LK-1",
		FeatureID: &f.ID,
		Medium:    schema.MediumSedimentCore,
		Geo:       schema.GeoCache{WKT: "POINT (-64.2 45.1)"},
	}
	require.NoError(t, g.SaveRecord(ctx, r, "curator", ""))
	assert.Equal(t, "POINT", r.Geo.Type)

	missing := uint(9999)
	orphan := &schema.Record{Name: "Orphan", FeatureID: &missing}
	err := g.SaveRecord(ctx, orphan, "curator", "")
	assert.Equal(t, errcode.GraphNotFoundError, errCode(t, err))
}

func TestSaveParameter(t *testing.T) {
	g, _ := newGraph(t)
	ctx := context.Background()

	p := &schema.Parameter{Name: "Loss on ignition", Slug: "loi"}
	require.NoError(t, g.SaveParameter(ctx, p, "curator", ""))

	got, err := g.GetParameterBySlug(ctx, "loi")
	require.NoError(t, err)
	assert.Equal(t, p.ID, got.ID)

	dup := &schema.Parameter{Name: "LOI again", Slug: "loi"}
	err = g.SaveParameter(ctx, dup, "curator", "")
	assert.Equal(t, errcode.GraphDuplicateSlugError, errCode(t, err))
}

func TestMutationsRecordRevisions(t *testing.T) {
	g, db := newGraph(t)
	ctx := context.Background()

	p := &schema.Person{LastName: "Smith"}
	require.NoError(t, g.SavePerson(ctx, p, "curator", "created"))
	require.NoError(t, g.SavePerson(ctx, p, "curator", "touched"))

	var revs []schema.Revision
	require.NoError(t, db.Preload("Entries").Find(&revs).Error)
	require.Len(t, revs, 2)
	actions := []string{
		revs[0].Entries[0].Action, revs[1].Entries[0].Action,
	}
	assert.ElementsMatch(t, []string{"create", "update"}, actions)
}
