// Package iorecache rebuilds the derived caches across the whole
// database: geometry type and bounding box columns for features and
// records, and recursive depths for the feature tree. Imports and
// hand edits through the API keep these caches fresh; recache repairs
// databases touched by bulk SQL or older versions.
package iorecache

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/cheggaaa/pb/v3"
	"github.com/dustin/go-humanize"
	"github.com/paleolimbot/strativerse/pkg/schema"
	"github.com/paleolimbot/strativerse/pkg/strativerse"
	"github.com/paleolimbot/strativerse/pkg/wkt"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

type recacher struct {
	db   *gorm.DB
	jobs int
}

// New creates a Recacher that runs recomputation with the given number
// of concurrent workers.
func New(db *gorm.DB, jobs int) strativerse.Recacher {
	if jobs < 1 {
		jobs = 1
	}
	return &recacher{db: db, jobs: jobs}
}

// geoRow is the unit of work for bounds recomputation.
type geoRow struct {
	kind schema.EntityKind
	id   uint
	geo  schema.GeoCache
}

// Recache walks every feature and record, recomputes the geometry
// cache with a worker pool, writes back only changed rows, then
// rebuilds the feature depths.
func (r *recacher) Recache(
	ctx context.Context,
) (*strativerse.RecacheStats, error) {
	stats := &strativerse.RecacheStats{}

	rows, err := r.loadGeoRows(ctx, stats)
	if err != nil {
		return nil, err
	}

	bar := pb.StartNew(len(rows))
	defer bar.Finish()

	chIn := make(chan geoRow)
	chOut := make(chan geoRow)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		defer close(chIn)
		for _, row := range rows {
			select {
			case <-gctx.Done():
				return gctx.Err()
			case chIn <- row:
			}
		}
		return nil
	})

	// Bounds math is pure, so the workers never touch the database.
	var wg sync.WaitGroup
	for range r.jobs {
		wg.Add(1)
		g.Go(func() error {
			defer wg.Done()
			for row := range chIn {
				recomputed := row.geo
				recomputed.CacheBounds()
				if geoChanged(&row.geo, &recomputed) {
					row.geo = recomputed
					select {
					case <-gctx.Done():
						return gctx.Err()
					case chOut <- row:
					}
				}
				bar.Increment()
			}
			return nil
		})
	}

	g.Go(func() error {
		wg.Wait()
		close(chOut)
		return nil
	})

	g.Go(func() error {
		for row := range chOut {
			if err := r.writeGeo(gctx, row); err != nil {
				return err
			}
			stats.BoundsChanged++
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	if err := r.recacheDepths(ctx, stats); err != nil {
		return nil, err
	}

	slog.Info("recache finished",
		"features", humanize.Comma(int64(stats.Features)),
		"records", humanize.Comma(int64(stats.Records)),
		"boundsChanged", stats.BoundsChanged,
		"depthsChanged", stats.DepthsChanged,
		"invalidWKT", len(stats.InvalidWKT),
	)

	return stats, nil
}

// loadGeoRows reads the geometry columns of every feature and record.
func (r *recacher) loadGeoRows(
	ctx context.Context, stats *strativerse.RecacheStats,
) ([]geoRow, error) {
	var rows []geoRow

	var features []schema.Feature
	err := r.db.WithContext(ctx).Find(&features).Error
	if err != nil {
		return nil, QueryError(err)
	}
	for i := range features {
		f := &features[i]
		stats.Features++
		if wkt.Validate(f.Geo.WKT) != nil {
			stats.InvalidWKT = append(stats.InvalidWKT,
				invalidRef(schema.KindFeature, f.ID, f.Geo.WKT))
			continue
		}
		rows = append(rows, geoRow{
			kind: schema.KindFeature, id: f.ID, geo: f.Geo,
		})
	}

	var records []schema.Record
	err = r.db.WithContext(ctx).Find(&records).Error
	if err != nil {
		return nil, QueryError(err)
	}
	for i := range records {
		rec := &records[i]
		stats.Records++
		if wkt.Validate(rec.Geo.WKT) != nil {
			stats.InvalidWKT = append(stats.InvalidWKT,
				invalidRef(schema.KindRecord, rec.ID, rec.Geo.WKT))
			continue
		}
		rows = append(rows, geoRow{
			kind: schema.KindRecord, id: rec.ID, geo: rec.Geo,
		})
	}

	return rows, nil
}

func (r *recacher) writeGeo(ctx context.Context, row geoRow) error {
	updates := map[string]any{
		"geo_type": row.geo.Type,
		"geo_xmin": row.geo.XMin,
		"geo_xmax": row.geo.XMax,
		"geo_ymin": row.geo.YMin,
		"geo_ymax": row.geo.YMax,
	}

	var model any
	switch row.kind {
	case schema.KindFeature:
		model = &schema.Feature{}
	default:
		model = &schema.Record{}
	}

	err := r.db.WithContext(ctx).Model(model).
		Where("id = ?", row.id).Updates(updates).Error
	if err != nil {
		return UpdateError(err)
	}
	return nil
}

// recacheDepths rewrites stale recursive depths level by level from
// the roots down.
func (r *recacher) recacheDepths(
	ctx context.Context, stats *strativerse.RecacheStats,
) error {
	var features []schema.Feature
	err := r.db.WithContext(ctx).
		Select("id", "parent_id", "recursive_depth").
		Find(&features).Error
	if err != nil {
		return QueryError(err)
	}

	children := map[uint][]*schema.Feature{}
	var frontier []*schema.Feature
	depths := map[uint]int{}

	for i := range features {
		f := &features[i]
		if f.ParentID == nil {
			frontier = append(frontier, f)
			depths[f.ID] = 0
		} else {
			children[*f.ParentID] = append(children[*f.ParentID], f)
		}
	}

	for len(frontier) > 0 {
		var next []*schema.Feature
		for _, f := range frontier {
			depth := depths[f.ID]
			if f.RecursiveDepth != depth {
				err := r.db.WithContext(ctx).
					Model(&schema.Feature{}).
					Where("id = ?", f.ID).
					Update("recursive_depth", depth).Error
				if err != nil {
					return UpdateError(err)
				}
				stats.DepthsChanged++
			}
			for _, child := range children[f.ID] {
				depths[child.ID] = depth + 1
				next = append(next, child)
			}
		}
		frontier = next
	}

	return nil
}

func geoChanged(before, after *schema.GeoCache) bool {
	return before.Type != after.Type ||
		!floatPtrEq(before.XMin, after.XMin) ||
		!floatPtrEq(before.XMax, after.XMax) ||
		!floatPtrEq(before.YMin, after.YMin) ||
		!floatPtrEq(before.YMax, after.YMax)
}

func floatPtrEq(a, b *float64) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func invalidRef(kind schema.EntityKind, id uint, value string) string {
	if len(value) > 40 {
		value = value[:40] + "..."
	}
	return fmt.Sprintf("%s/%d: %s", kind, id, value)
}
