// Package ioimport implements bibliographic import. BibTeX entries
// keep their citation key as the publication slug; CSL-JSON entries
// are keyed by DOI and get generated author-date slugs. People are
// resolved through the alias table so repeated imports never duplicate
// authors.
package ioimport

import (
	"context"
	"errors"
	"log/slog"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/cheggaaa/pb/v3"
	"github.com/dustin/go-humanize"
	"github.com/gnames/gnfmt"
	"github.com/paleolimbot/strativerse/pkg/biblio"
	"github.com/paleolimbot/strativerse/pkg/config"
	"github.com/paleolimbot/strativerse/pkg/schema"
	"github.com/paleolimbot/strativerse/pkg/strativerse"
	"gorm.io/gorm"
)

type importer struct {
	db  *gorm.DB
	aud strativerse.Auditor
	cfg *config.ImportConfig
}

// New creates an Importer backed by the given database handle.
func New(
	db *gorm.DB, aud strativerse.Auditor, cfg *config.ImportConfig,
) strativerse.Importer {
	return &importer{db: db, aud: aud, cfg: cfg}
}

// ImportBibTeX imports BibTeX text. The citation key is the slug, so
// re-importing the same file updates publications in place.
func (im *importer) ImportBibTeX(
	ctx context.Context, text string, opts strativerse.ImportOptions,
) ([]*schema.Publication, error) {
	entries, err := biblio.ParseBibTeX(text)
	if err != nil {
		return nil, err
	}

	im.applyDefaults(&opts)
	// BibTeX keys are authoritative; generated slugs only apply to
	// CSL-JSON input.
	opts.GenerateSlugs = false

	return im.importEntries(ctx, entries, opts, im.findBySlug)
}

// ImportCSLJSON imports a CSL-JSON object or array. Entries matching
// an existing publication by DOI, or by title plus author-date slug
// base, update it; the rest are created with generated slugs.
func (im *importer) ImportCSLJSON(
	ctx context.Context, data []byte, opts strativerse.ImportOptions,
) ([]*schema.Publication, error) {
	entries, err := biblio.ParseCSLJSON(data)
	if err != nil {
		return nil, err
	}

	im.applyDefaults(&opts)

	return im.importEntries(ctx, entries, opts, im.findByDOIOrTitle)
}

func (im *importer) applyDefaults(opts *strativerse.ImportOptions) {
	if opts.BatchSize < 1 {
		opts.BatchSize = im.cfg.BatchSize
	}
	if opts.Actor == "" {
		opts.Actor = "import"
	}
}

// personCache maps rendered aliases to person ids across batch
// transactions. Resolutions made inside the current batch stay
// pending until the batch commits, so ids from a rolled-back batch
// never leak into later ones.
type personCache struct {
	committed map[string]uint
	pending   map[string]uint
}

func newPersonCache() *personCache {
	return &personCache{
		committed: map[string]uint{},
		pending:   map[string]uint{},
	}
}

func (pc *personCache) lookup(alias string) (uint, bool) {
	if id, ok := pc.pending[alias]; ok {
		return id, true
	}
	id, ok := pc.committed[alias]
	return id, ok
}

func (pc *personCache) store(alias string, id uint) {
	pc.pending[alias] = id
}

func (pc *personCache) commit() {
	for alias, id := range pc.pending {
		pc.committed[alias] = id
	}
	clear(pc.pending)
}

func (pc *personCache) rollback() {
	clear(pc.pending)
}

// importEntries processes entries in batches. Each batch is one
// audited transaction; a failed batch rolls back alone and the rest
// keep going.
func (im *importer) importEntries(
	ctx context.Context,
	entries []biblio.Entry,
	opts strativerse.ImportOptions,
	find func(tx *gorm.DB, e *biblio.Entry) (*schema.Publication, error),
) ([]*schema.Publication, error) {
	began := time.Now()

	var (
		pubs      []*schema.Publication
		batchErrs []error
	)

	var bar *pb.ProgressBar
	if len(entries) > 1 {
		bar = pb.StartNew(len(entries))
		defer bar.Finish()
	}

	// Aliases resolved or created earlier in the run short-circuit
	// later lookups so one author spelled identically twice maps to
	// one person.
	people := newPersonCache()

	for start := 0; start < len(entries); start += opts.BatchSize {
		end := min(start+opts.BatchSize, len(entries))
		batch := entries[start:end]
		base := len(pubs)

		err := im.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			var audited []strativerse.AuditEntry

			for i := range batch {
				e := &batch[i]
				pub, action, err := im.upsertEntry(tx, e, opts, find, people)
				if err != nil {
					return err
				}
				pubs = append(pubs, pub)
				audited = append(audited, strativerse.AuditEntry{
					Kind:     schema.KindPublication,
					EntityID: pub.ID,
					Action:   action,
					Value:    pub,
				})
			}

			_, err := im.aud.Record(tx, opts.Actor, opts.Comment, audited)
			return err
		})
		if err != nil {
			// The batch rolled back; drop its publications and person
			// resolutions again.
			pubs = pubs[:base]
			people.rollback()
			batchErrs = append(batchErrs, err)
			slog.Warn("import batch failed",
				"from", start, "to", end, "error", err)
		} else {
			people.commit()
		}

		if bar != nil {
			bar.Add(end - start)
		}
	}

	slog.Info("import finished",
		"entries", humanize.Comma(int64(len(entries))),
		"imported", humanize.Comma(int64(len(pubs))),
		"failedBatches", len(batchErrs),
		"duration", gnfmt.TimeString(time.Since(began).Seconds()),
	)

	return pubs, errors.Join(batchErrs...)
}

// findBySlug keys BibTeX entries: the citation key is the slug.
func (im *importer) findBySlug(
	tx *gorm.DB, e *biblio.Entry,
) (*schema.Publication, error) {
	var pub schema.Publication
	err := tx.First(&pub, "slug = ?", e.Key).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, CommitError(err)
	}
	return &pub, nil
}

// findByDOIOrTitle keys CSL-JSON entries: DOI when present, else an
// exact title match whose slug reduces to the same author-date base.
// The second check catches the same paper imported twice without a
// DOI, even after its slug picked up a disambiguation letter.
func (im *importer) findByDOIOrTitle(
	tx *gorm.DB, e *biblio.Entry,
) (*schema.Publication, error) {
	if e.DOI != "" {
		var pub schema.Publication
		err := tx.First(&pub, "doi = ?", e.DOI).Error
		if err == nil {
			return &pub, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, CommitError(err)
		}
	}

	if e.Title == "" {
		return nil, nil
	}

	var pubs []schema.Publication
	err := tx.Where("title = ?", e.Title).Find(&pubs).Error
	if err != nil {
		return nil, CommitError(err)
	}

	base := biblio.AuthorDateKey(e.Authors(), e.Year)
	for i := range pubs {
		if biblio.StripSlugSuffix(pubs[i].Slug) == base {
			return &pubs[i], nil
		}
	}
	return nil, nil
}

// upsertEntry creates or updates one publication with its authorship
// list and residual tags.
func (im *importer) upsertEntry(
	tx *gorm.DB,
	e *biblio.Entry,
	opts strativerse.ImportOptions,
	find func(tx *gorm.DB, e *biblio.Entry) (*schema.Publication, error),
	people *personCache,
) (*schema.Publication, string, error) {
	pub, err := find(tx, e)
	if err != nil {
		return nil, "", err
	}

	action := "update"
	isNew := pub == nil
	if isNew {
		action = "create"
		slug := e.Key
		if opts.GenerateSlugs || slug == "" {
			slug, err = im.freeSlug(tx, e)
			if err != nil {
				return nil, "", err
			}
		}
		pub = &schema.Publication{Slug: slug}
	}

	pub.Title = e.Title
	pub.Year = e.Year
	pub.Type = e.Type
	if e.DOI != "" {
		pub.DOI = e.DOI
	}
	if e.URL != "" {
		pub.URL = e.URL
	}
	if e.Abstract != "" {
		pub.Abstract = e.Abstract
	}

	if err := tx.Save(pub).Error; err != nil {
		return nil, "", CommitError(err)
	}

	if isNew || opts.UpdateAuthors {
		if err := im.replaceAuthorships(tx, pub, e, people); err != nil {
			return nil, "", err
		}
	}

	if opts.TagResidualFields {
		if err := im.replaceResidualTags(tx, pub, e); err != nil {
			return nil, "", err
		}
	}

	return pub, action, nil
}

// freeSlug generates an author-date slug, trying the bare base and
// then suffixes a through z.
func (im *importer) freeSlug(
	tx *gorm.DB, e *biblio.Entry,
) (string, error) {
	base := biblio.AuthorDateKey(e.Authors(), e.Year)

	for _, candidate := range biblio.SlugCandidates(base) {
		var count int64
		err := tx.Model(&schema.Publication{}).
			Where("slug = ?", candidate).Count(&count).Error
		if err != nil {
			return "", CommitError(err)
		}
		if count == 0 {
			return candidate, nil
		}
	}

	return "", biblio.SlugExhaustedError(base)
}

// replaceAuthorships rebuilds the full authorship list of a
// publication from the entry. The replacement is total: rows for
// roles no longer present are removed too.
func (im *importer) replaceAuthorships(
	tx *gorm.DB,
	pub *schema.Publication,
	e *biblio.Entry,
	people *personCache,
) error {
	err := tx.Where("publication_id = ?", pub.ID).
		Delete(&schema.Authorship{}).Error
	if err != nil {
		return CommitError(err)
	}

	var authorships []schema.Authorship
	for _, role := range e.Roles() {
		for i, name := range e.People[role] {
			personID, err := im.resolvePerson(tx, name, people)
			if err != nil {
				return err
			}
			authorships = append(authorships, schema.Authorship{
				PublicationID: pub.ID,
				PersonID:      personID,
				Role:          role,
				Order:         i,
			})
		}
	}

	if len(authorships) == 0 {
		pub.Authorships = nil
		return nil
	}

	if err := tx.Create(&authorships).Error; err != nil {
		return CommitError(err)
	}
	pub.Authorships = authorships
	return nil
}

// resolvePerson finds the person behind a rendered name via the alias
// table, creating person and alias when the name is new.
func (im *importer) resolvePerson(
	tx *gorm.DB, name biblio.Name, people *personCache,
) (uint, error) {
	rendered := name.Alias()
	if id, ok := people.lookup(rendered); ok {
		return id, nil
	}

	var alias schema.Alias
	err := tx.First(&alias, "alias = ?", rendered).Error
	if err == nil {
		people.store(rendered, alias.PersonID)
		return alias.PersonID, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, CommitError(err)
	}

	person := &schema.Person{
		GivenNames: name.GivenNames(),
		LastName:   name.LastName(),
		Suffix:     name.Suffix,
		Aliases:    []schema.Alias{{Alias: rendered}},
	}
	if err := tx.Create(person).Error; err != nil {
		return 0, CommitError(err)
	}

	people.store(rendered, person.ID)
	return person.ID, nil
}

var tagKeyCleanRx = regexp.MustCompile(`[^A-Za-z0-9_]+`)

// replaceResidualTags clears the publication's "meta" tags and stores
// the entry's unconsumed fields as fresh ones, so stale values from a
// previous import never linger.
func (im *importer) replaceResidualTags(
	tx *gorm.DB, pub *schema.Publication, e *biblio.Entry,
) error {
	err := tx.Where(
		"owner_kind = ? AND owner_id = ? AND type = ?",
		schema.KindPublication, pub.ID, "meta",
	).Delete(&schema.Tag{}).Error
	if err != nil {
		return CommitError(err)
	}

	seen := map[string]bool{}
	for key, value := range e.Extra {
		clean := tagKeyCleanRx.ReplaceAllString(key, "_")
		clean = strings.Trim(clean, "_")
		if clean == "" || seen[clean] {
			continue
		}
		seen[clean] = true

		tag := schema.Tag{
			OwnerKind: schema.KindPublication,
			OwnerID:   pub.ID,
			Type:      "meta",
			Key:       clean,
			Value:     truncate(value, 255),
			Comment:   "imported bibliographic field",
		}
		if err := tx.Create(&tag).Error; err != nil {
			return CommitError(err)
		}
	}

	return nil
}

// truncate shortens s to at most n bytes without splitting a rune.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
