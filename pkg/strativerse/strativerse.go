// Package strativerse defines the contracts of the Strativerse core:
// schema management, bibliographic import, person merge, generic
// annotation and the audit recorder. Implementations live under
// internal/io*.
package strativerse

import (
	"context"

	"github.com/paleolimbot/strativerse/pkg/schema"
	"gorm.io/gorm"
)

// Version and Build are set by build flags.
var (
	Version = "dev"
	Build   = "unknown"
)

// ImportOptions controls a bibliographic import run.
type ImportOptions struct {
	// UpdateAuthors replaces the authorship list of publications that
	// already exist (full replace, not merge).
	UpdateAuthors bool

	// GenerateSlugs derives author-date slugs for CSL-JSON entries.
	// BibTeX entries always keep their citation key as the slug.
	GenerateSlugs bool

	// TagResidualFields stores unconsumed CSL-JSON fields as "meta"
	// tags on the publication.
	TagResidualFields bool

	// BatchSize is the number of entries committed per transaction in
	// bulk CSL-JSON imports. Zero uses the configured default.
	BatchSize int

	// Actor and Comment identify the audit revision for each committed
	// batch.
	Actor   string
	Comment string
}

// Importer parses external citation formats and upserts publications
// together with their people and authorship lists.
type Importer interface {
	// ImportBibTeX imports BibTeX text. Entries whose citation key
	// already exists as a slug are updated in place.
	ImportBibTeX(
		ctx context.Context, text string, opts ImportOptions,
	) ([]*schema.Publication, error)

	// ImportCSLJSON imports CSL-JSON (object or array). Entries are
	// keyed by DOI when present, falling back to an exact title match
	// with the same author-date slug base. Bulk imports are chunked:
	// each chunk commits atomically and a validation error aborts only
	// its containing chunk.
	ImportCSLJSON(
		ctx context.Context, data []byte, opts ImportOptions,
	) ([]*schema.Publication, error)
}

// Combiner merges duplicate Person entities.
type Combiner interface {
	// Combine merges two or more people into the one with the most
	// authorships (ties broken by input order), reattaching aliases,
	// authorships and annotations, then deleting the losers. The whole
	// merge is one atomic, audited operation.
	Combine(
		ctx context.Context, personIDs []uint, actor, comment string,
	) (*schema.Person, error)
}

// Annotator attaches generic key/value and key/file annotations to any
// entity kind.
type Annotator interface {
	Attach(
		ctx context.Context, kind schema.EntityKind, id uint,
		tagType, key, value, comment string,
	) (*schema.Tag, error)

	AttachFile(
		ctx context.Context, kind schema.EntityKind, id uint,
		tagType, key, fileID, filename, comment string,
	) (*schema.Attachment, error)

	// Tags lists tags on an entity; tagType "" lists all types.
	Tags(
		ctx context.Context, kind schema.EntityKind, id uint, tagType string,
	) ([]schema.Tag, error)

	Attachments(
		ctx context.Context, kind schema.EntityKind, id uint, tagType string,
	) ([]schema.Attachment, error)

	DeleteTag(
		ctx context.Context, kind schema.EntityKind, id uint,
		tagType, key string,
	) error

	DeleteAttachment(
		ctx context.Context, kind schema.EntityKind, id uint,
		tagType, key string,
	) error
}

// Graph is the curated entry point to the entity graph. Every
// mutation validates its invariants, recomputes derived caches and
// records one audit revision, all in one transaction.
type Graph interface {
	SavePerson(
		ctx context.Context, p *schema.Person, actor, comment string,
	) error
	GetPerson(ctx context.Context, id uint) (*schema.Person, error)

	// DeletePerson refuses to delete a person who still has
	// publication or record authorships.
	DeletePerson(ctx context.Context, id uint, actor, comment string) error

	SavePublication(
		ctx context.Context, pub *schema.Publication, actor, comment string,
	) error
	GetPublicationBySlug(
		ctx context.Context, slug string,
	) (*schema.Publication, error)

	// SaveFeature rejects parent cycles and recomputes the recursive
	// depth of the feature and all its descendants.
	SaveFeature(
		ctx context.Context, f *schema.Feature, actor, comment string,
	) error
	GetFeature(ctx context.Context, id uint) (*schema.Feature, error)

	// DeleteFeature refuses to delete a feature that still has child
	// features or records.
	DeleteFeature(ctx context.Context, id uint, actor, comment string) error

	SaveRecord(
		ctx context.Context, r *schema.Record, actor, comment string,
	) error
	GetRecord(ctx context.Context, id uint) (*schema.Record, error)

	SaveParameter(
		ctx context.Context, p *schema.Parameter, actor, comment string,
	) error
	GetParameterBySlug(
		ctx context.Context, slug string,
	) (*schema.Parameter, error)
}

// SchemaManager defines the interface for database schema management.
// It uses GORM AutoMigrate; schema management is idempotent and safe
// to run multiple times.
type SchemaManager interface {
	// Create creates the initial database schema.
	Create(ctx context.Context) error

	// Migrate updates the database schema to the latest version.
	Migrate(ctx context.Context) error
}

// AuditEntry is one entity snapshot inside a revision.
type AuditEntry struct {
	Kind     schema.EntityKind
	EntityID uint

	// Action is "create", "update" or "delete".
	Action string

	// Value is serialized to JSON as the snapshot.
	Value any
}

// Auditor records one revision per mutating operation. Record must be
// called inside the operation's transaction so the revision commits or
// rolls back with the data it describes.
type Auditor interface {
	Record(
		tx *gorm.DB, actor, comment string, entries []AuditEntry,
	) (*schema.Revision, error)
}

// RecacheStats summarizes a recache maintenance run.
type RecacheStats struct {
	Features      int
	Records       int
	InvalidWKT    []string
	DepthsChanged int
	BoundsChanged int
}

// Recacher recomputes derived geometry and depth caches across the
// whole database.
type Recacher interface {
	Recache(ctx context.Context) (*RecacheStats, error)
}
