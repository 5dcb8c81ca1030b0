// Package iograph implements curated CRUD over the entity graph.
// Mutations validate invariants (unique aliases and slugs, acyclic
// feature trees, well-formed geometries), recompute derived caches
// and record one audit revision per operation.
package iograph

import (
	"context"
	"errors"

	"github.com/paleolimbot/strativerse/pkg/schema"
	"github.com/paleolimbot/strativerse/pkg/strativerse"
	"github.com/paleolimbot/strativerse/pkg/wkt"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type graph struct {
	db  *gorm.DB
	aud strativerse.Auditor
}

// New creates a Graph backed by the given database handle.
func New(db *gorm.DB, aud strativerse.Auditor) strativerse.Graph {
	return &graph{db: db, aud: aud}
}

func saveAction(isNew bool) string {
	if isNew {
		return "create"
	}
	return "update"
}

func (g *graph) SavePerson(
	ctx context.Context, p *schema.Person, actor, comment string,
) error {
	isNew := p.ID == 0

	return g.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// The alias-to-person mapping is injective across the whole
		// database, not just within one person.
		for _, alias := range p.Aliases {
			var count int64
			err := tx.Model(&schema.Alias{}).
				Where("alias = ? AND person_id <> ?", alias.Alias, p.ID).
				Count(&count).Error
			if err != nil {
				return SaveError(err)
			}
			if count > 0 {
				return DuplicateAliasError(alias.Alias)
			}
		}

		if err := tx.Session(&gorm.Session{FullSaveAssociations: true}).
			Save(p).Error; err != nil {
			return SaveError(err)
		}

		_, err := g.aud.Record(tx, actor, comment,
			[]strativerse.AuditEntry{
				{Kind: schema.KindPerson, EntityID: p.ID,
					Action: saveAction(isNew), Value: p},
			})
		return err
	})
}

func (g *graph) GetPerson(
	ctx context.Context, id uint,
) (*schema.Person, error) {
	var p schema.Person
	err := g.db.WithContext(ctx).
		Preload("Aliases").Preload("ContactInfo").
		First(&p, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, NotFoundError(string(schema.KindPerson), id)
	}
	if err != nil {
		return nil, SaveError(err)
	}
	return &p, nil
}

func (g *graph) DeletePerson(
	ctx context.Context, id uint, actor, comment string,
) error {
	return g.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var p schema.Person
		err := tx.Preload("Aliases").First(&p, id).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return NotFoundError(string(schema.KindPerson), id)
		}
		if err != nil {
			return SaveError(err)
		}

		var count int64
		if err := tx.Model(&schema.Authorship{}).
			Where("person_id = ?", id).Count(&count).Error; err != nil {
			return SaveError(err)
		}
		if count > 0 {
			return ProtectedError(string(schema.KindPerson), id,
				"publication authorships")
		}

		if err := tx.Model(&schema.RecordAuthorship{}).
			Where("person_id = ?", id).Count(&count).Error; err != nil {
			return SaveError(err)
		}
		if count > 0 {
			return ProtectedError(string(schema.KindPerson), id,
				"record authorships")
		}

		if err := deleteAnnotations(tx, schema.KindPerson, id); err != nil {
			return err
		}

		if err := tx.Select(clause.Associations).
			Delete(&p).Error; err != nil {
			return SaveError(err)
		}

		_, err = g.aud.Record(tx, actor, comment,
			[]strativerse.AuditEntry{
				{Kind: schema.KindPerson, EntityID: id,
					Action: "delete", Value: p},
			})
		return err
	})
}

func (g *graph) SavePublication(
	ctx context.Context, pub *schema.Publication, actor, comment string,
) error {
	isNew := pub.ID == 0

	return g.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		err := tx.Model(&schema.Publication{}).
			Where("slug = ? AND id <> ?", pub.Slug, pub.ID).
			Count(&count).Error
		if err != nil {
			return SaveError(err)
		}
		if count > 0 {
			return DuplicateSlugError(pub.Slug)
		}

		if err := tx.Session(&gorm.Session{FullSaveAssociations: true}).
			Save(pub).Error; err != nil {
			return SaveError(err)
		}

		_, err = g.aud.Record(tx, actor, comment,
			[]strativerse.AuditEntry{
				{Kind: schema.KindPublication, EntityID: pub.ID,
					Action: saveAction(isNew), Value: pub},
			})
		return err
	})
}

func (g *graph) GetPublicationBySlug(
	ctx context.Context, slug string,
) (*schema.Publication, error) {
	var pub schema.Publication
	err := g.db.WithContext(ctx).
		Preload("Authorships", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort_order")
		}).
		Preload("Authorships.Person").
		First(&pub, "slug = ?", slug).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, NotFoundBySlugError(string(schema.KindPublication), slug)
	}
	if err != nil {
		return nil, SaveError(err)
	}
	return &pub, nil
}

func (g *graph) SaveFeature(
	ctx context.Context, f *schema.Feature, actor, comment string,
) error {
	isNew := f.ID == 0

	if err := validateGeo(&f.Geo); err != nil {
		return err
	}

	return g.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		depth, err := g.ancestorDepth(tx, f)
		if err != nil {
			return err
		}
		f.RecursiveDepth = depth

		if err := tx.Omit("Parent").Save(f).Error; err != nil {
			return SaveError(err)
		}

		// Reparenting shifts the depth of the whole subtree, so the
		// cascade runs on every save.
		if err := g.cascadeDepths(tx, f); err != nil {
			return err
		}

		_, err = g.aud.Record(tx, actor, comment,
			[]strativerse.AuditEntry{
				{Kind: schema.KindFeature, EntityID: f.ID,
					Action: saveAction(isNew), Value: f},
			})
		return err
	})
}

// ancestorDepth walks the parent chain and returns its length,
// rejecting chains that loop back to f.
func (g *graph) ancestorDepth(tx *gorm.DB, f *schema.Feature) (int, error) {
	if f.ParentID == nil {
		return 0, nil
	}

	depth := 0
	seen := map[uint]bool{}
	cur := *f.ParentID

	for {
		if cur == f.ID || seen[cur] {
			return 0, ParentCycleError(f.ID)
		}
		seen[cur] = true
		depth++

		var parent schema.Feature
		err := tx.Select("id", "parent_id").
			First(&parent, cur).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, NotFoundError(string(schema.KindFeature), cur)
		}
		if err != nil {
			return 0, SaveError(err)
		}

		if parent.ParentID == nil {
			return depth, nil
		}
		cur = *parent.ParentID
	}
}

// cascadeDepths walks the subtree under root breadth-first and
// rewrites stale depth caches.
func (g *graph) cascadeDepths(tx *gorm.DB, root *schema.Feature) error {
	frontier := []*schema.Feature{root}

	for len(frontier) > 0 {
		var next []*schema.Feature

		for _, parent := range frontier {
			var children []schema.Feature
			err := tx.Where("parent_id = ?", parent.ID).
				Find(&children).Error
			if err != nil {
				return SaveError(err)
			}

			for i := range children {
				child := &children[i]
				depth := parent.RecursiveDepth + 1
				if child.RecursiveDepth != depth {
					child.RecursiveDepth = depth
					err := tx.Model(&schema.Feature{}).
						Where("id = ?", child.ID).
						Update("recursive_depth", depth).Error
					if err != nil {
						return SaveError(err)
					}
				}
				next = append(next, child)
			}
		}

		frontier = next
	}

	return nil
}

func (g *graph) GetFeature(
	ctx context.Context, id uint,
) (*schema.Feature, error) {
	var f schema.Feature
	err := g.db.WithContext(ctx).First(&f, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, NotFoundError(string(schema.KindFeature), id)
	}
	if err != nil {
		return nil, SaveError(err)
	}
	return &f, nil
}

func (g *graph) DeleteFeature(
	ctx context.Context, id uint, actor, comment string,
) error {
	return g.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var f schema.Feature
		err := tx.First(&f, id).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return NotFoundError(string(schema.KindFeature), id)
		}
		if err != nil {
			return SaveError(err)
		}

		var count int64
		if err := tx.Model(&schema.Feature{}).
			Where("parent_id = ?", id).Count(&count).Error; err != nil {
			return SaveError(err)
		}
		if count > 0 {
			return ProtectedError(string(schema.KindFeature), id,
				"child features")
		}

		if err := tx.Model(&schema.Record{}).
			Where("feature_id = ?", id).Count(&count).Error; err != nil {
			return SaveError(err)
		}
		if count > 0 {
			return ProtectedError(string(schema.KindFeature), id,
				"records")
		}

		if err := deleteAnnotations(tx, schema.KindFeature, id); err != nil {
			return err
		}

		if err := tx.Delete(&f).Error; err != nil {
			return SaveError(err)
		}

		_, err = g.aud.Record(tx, actor, comment,
			[]strativerse.AuditEntry{
				{Kind: schema.KindFeature, EntityID: id,
					Action: "delete", Value: f},
			})
		return err
	})
}

func (g *graph) SaveRecord(
	ctx context.Context, r *schema.Record, actor, comment string,
) error {
	isNew := r.ID == 0

	if err := validateGeo(&r.Geo); err != nil {
		return err
	}

	return g.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if r.FeatureID != nil {
			var count int64
			err := tx.Model(&schema.Feature{}).
				Where("id = ?", *r.FeatureID).Count(&count).Error
			if err != nil {
				return SaveError(err)
			}
			if count == 0 {
				return NotFoundError(
					string(schema.KindFeature), *r.FeatureID)
			}
		}

		if err := tx.Omit("Feature").
			Session(&gorm.Session{FullSaveAssociations: true}).
			Save(r).Error; err != nil {
			return SaveError(err)
		}

		_, err := g.aud.Record(tx, actor, comment,
			[]strativerse.AuditEntry{
				{Kind: schema.KindRecord, EntityID: r.ID,
					Action: saveAction(isNew), Value: r},
			})
		return err
	})
}

func (g *graph) GetRecord(
	ctx context.Context, id uint,
) (*schema.Record, error) {
	var r schema.Record
	err := g.db.WithContext(ctx).
		Preload("Authorships").
		Preload("References").
		Preload("Parameters").
		First(&r, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, NotFoundError(string(schema.KindRecord), id)
	}
	if err != nil {
		return nil, SaveError(err)
	}
	return &r, nil
}

func (g *graph) SaveParameter(
	ctx context.Context, p *schema.Parameter, actor, comment string,
) error {
	isNew := p.ID == 0

	return g.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		err := tx.Model(&schema.Parameter{}).
			Where("slug = ? AND id <> ?", p.Slug, p.ID).
			Count(&count).Error
		if err != nil {
			return SaveError(err)
		}
		if count > 0 {
			return DuplicateSlugError(p.Slug)
		}

		if err := tx.Save(p).Error; err != nil {
			return SaveError(err)
		}

		_, err = g.aud.Record(tx, actor, comment,
			[]strativerse.AuditEntry{
				{Kind: schema.KindParameter, EntityID: p.ID,
					Action: saveAction(isNew), Value: p},
			})
		return err
	})
}

func (g *graph) GetParameterBySlug(
	ctx context.Context, slug string,
) (*schema.Parameter, error) {
	var p schema.Parameter
	err := g.db.WithContext(ctx).First(&p, "slug = ?", slug).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, NotFoundBySlugError(string(schema.KindParameter), slug)
	}
	if err != nil {
		return nil, SaveError(err)
	}
	return &p, nil
}

// validateGeo checks the WKT and recomputes the derived cache.
func validateGeo(g *schema.GeoCache) error {
	if err := wkt.Validate(g.WKT); err != nil {
		return err
	}
	g.CacheBounds()
	return nil
}

// deleteAnnotations clears the polymorphic tags and attachments of an
// entity being deleted.
func deleteAnnotations(tx *gorm.DB, kind schema.EntityKind, id uint) error {
	err := tx.Where("owner_kind = ? AND owner_id = ?", kind, id).
		Delete(&schema.Tag{}).Error
	if err != nil {
		return SaveError(err)
	}

	err = tx.Where("owner_kind = ? AND owner_id = ?", kind, id).
		Delete(&schema.Attachment{}).Error
	if err != nil {
		return SaveError(err)
	}

	return nil
}
