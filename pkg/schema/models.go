// Package schema provides database schema models for Strativerse.
// Models describe people, publications, geographic features and
// physical records together with their join entities, generic
// annotations, and the audit revision log.
package schema

import (
	"time"
)

// EntityKind names a concrete entity type for polymorphic references.
// Generic annotations and audit entries use (kind, id) pairs instead of
// schema-level foreign keys.
type EntityKind string

const (
	KindPerson      EntityKind = "person"
	KindPublication EntityKind = "publication"
	KindFeature     EntityKind = "feature"
	KindRecord      EntityKind = "record"
	KindParameter   EntityKind = "parameter"
)

// Entity is implemented by every annotatable model.
type Entity interface {
	// Kind returns the polymorphic kind of the entity.
	Kind() EntityKind

	// PK returns the primary key, 0 when unsaved.
	PK() uint
}

// Person is an individual who authored publications or worked on
// records. People are created by curators or implicitly during
// bibliographic import when no existing alias matches an author name.
type Person struct {
	ID uint `gorm:"primaryKey"`

	// GivenNames are first and middle names, space separated.
	GivenNames string `gorm:"size:255"`

	// LastName is the family name, including any name particle.
	LastName string `gorm:"size:255;not null"`

	// Suffix is a generational or honorific suffix (Jr, III).
	Suffix string `gorm:"size:10"`

	// ORCID is the external researcher identifier, when known.
	ORCID string `gorm:"size:55"`

	Aliases     []Alias       `gorm:"constraint:OnDelete:CASCADE"`
	ContactInfo []ContactInfo `gorm:"constraint:OnDelete:CASCADE"`
}

func (p *Person) Kind() EntityKind { return KindPerson }
func (p *Person) PK() uint         { return p.ID }

// Name renders the person as "Given Last" for display.
func (p *Person) Name() string {
	if p.GivenNames != "" {
		return p.GivenNames + " " + p.LastName
	}
	return p.LastName
}

// Alias is an alternate rendered name string resolving to exactly one
// person. The alias column is globally unique: the alias-to-person
// mapping is injective.
type Alias struct {
	ID       uint   `gorm:"primaryKey"`
	PersonID uint   `gorm:"not null;index"`
	Alias    string `gorm:"size:255;uniqueIndex;not null"`
}

// ContactInfo is a dated contact snapshot for a person.
type ContactInfo struct {
	ID        uint      `gorm:"primaryKey"`
	PersonID  uint      `gorm:"not null;index"`
	Updated   time.Time `gorm:"not null"`
	Email     string    `gorm:"size:255"`
	Telephone string    `gorm:"size:55"`
	Address   string
}

// Publication is a bibliographic item with a stable citation slug.
type Publication struct {
	ID uint `gorm:"primaryKey"`

	// Slug is the unique, stable citation key. Once assigned by the
	// importer it survives re-imports unless explicitly regenerated.
	Slug string `gorm:"size:55;uniqueIndex;not null"`

	// Title of the publication, braces stripped.
	Title string `gorm:"size:255"`

	// Year of publication.
	Year int `gorm:"not null"`

	// DOI is the Digital Object Identifier, when known.
	DOI string `gorm:"size:255"`

	// URL is an external link for items without a DOI.
	URL string `gorm:"size:255"`

	// Type is a CSL-like type tag (article-journal, book, chapter...).
	Type string `gorm:"size:55"`

	// Abstract text as given by the source.
	Abstract string

	Authorships []Authorship `gorm:"constraint:OnDelete:CASCADE"`
}

func (p *Publication) Kind() EntityKind { return KindPublication }
func (p *Publication) PK() uint         { return p.ID }

// Authorship attaches a person to a publication with a role and an
// order. Order within a role is significant: it drives citation-key
// generation and rendered author lists.
type Authorship struct {
	ID            uint   `gorm:"primaryKey"`
	PublicationID uint   `gorm:"not null;index"`
	PersonID      uint   `gorm:"not null;index"`
	Role          string `gorm:"size:55;not null"`
	Order         int    `gorm:"column:sort_order;not null;default:0"`

	Person *Person `gorm:"constraint:OnDelete:RESTRICT"`
}

// FeatureType enumerates kinds of geographic features.
type FeatureType string

const (
	FeatureWaterBody        FeatureType = "water_body"
	FeatureGlacier          FeatureType = "glacier"
	FeatureBog              FeatureType = "bog"
	FeatureGeopoliticalUnit FeatureType = "geopolitical_unit"
	FeatureRegion           FeatureType = "region"
)

// Feature is a geographic feature. Features form a tree via the parent
// link; RecursiveDepth is a derived cache (0 for roots) recomputed on
// every save because the parent may change.
type Feature struct {
	ID   uint        `gorm:"primaryKey"`
	Name string      `gorm:"size:255;not null"`
	Type FeatureType `gorm:"size:55"`

	ParentID *uint
	Parent   *Feature `gorm:"foreignKey:ParentID;constraint:OnDelete:RESTRICT"`

	// RecursiveDepth is derived; never hand-edited.
	RecursiveDepth int `gorm:"not null;default:0"`

	Geo GeoCache `gorm:"embedded"`
}

func (f *Feature) Kind() EntityKind { return KindFeature }
func (f *Feature) PK() uint         { return f.ID }

// RecordMedium enumerates physical media of records.
type RecordMedium string

const (
	MediumSedimentCore RecordMedium = "sediment_core"
	MediumIceCore      RecordMedium = "ice_core"
	MediumPeatCore     RecordMedium = "peat_core"
)

// RecordResolution enumerates sampling resolutions.
type RecordResolution string

const (
	ResolutionAnnual     RecordResolution = "annual"
	ResolutionSubAnnual  RecordResolution = "sub_annual"
	ResolutionMultiYear  RecordResolution = "multi_year"
	ResolutionComposited RecordResolution = "composited"
)

// Record is a physical sample (core, section) with measured parameters.
type Record struct {
	ID   uint   `gorm:"primaryKey"`
	Name string `gorm:"size:255;not null"`

	DateCollected time.Time `gorm:"not null"`

	Medium     RecordMedium     `gorm:"size:55"`
	Resolution RecordResolution `gorm:"size:55"`

	// FeatureID links the record to the geographic feature it samples.
	FeatureID *uint
	Feature   *Feature `gorm:"constraint:OnDelete:RESTRICT"`

	// MinYear and MaxYear bound the time span the record covers.
	MinYear *int
	MaxYear *int

	Description string

	Geo GeoCache `gorm:"embedded"`

	Authorships []RecordAuthorship `gorm:"constraint:OnDelete:CASCADE"`
	References  []RecordReference  `gorm:"constraint:OnDelete:CASCADE"`
	Parameters  []RecordParameter  `gorm:"constraint:OnDelete:CASCADE"`
}

func (r *Record) Kind() EntityKind { return KindRecord }
func (r *Record) PK() uint         { return r.ID }

// RecordAuthorship attaches a person to a record with a role.
type RecordAuthorship struct {
	ID       uint   `gorm:"primaryKey"`
	RecordID uint   `gorm:"not null;index"`
	PersonID uint   `gorm:"not null;index"`
	Role     string `gorm:"size:55;not null"`
	Order    int    `gorm:"column:sort_order;not null;default:0"`
}

// Roles used by RecordAuthorship.
const (
	RoleAssisted  = "assisted"
	RoleCollected = "collected"
	RoleFunded    = "funded"
	RoleAnalyzed  = "analyzed"
	RolePublished = "published"
	RoleMaintains = "maintains"
)

// ReferenceType enumerates record-to-publication relationships.
type ReferenceType string

const (
	RefersTo         ReferenceType = "refers_to"
	ContainsDataFrom ReferenceType = "contains_data_from"
)

// RecordReference links a record to a publication.
type RecordReference struct {
	ID            uint          `gorm:"primaryKey"`
	RecordID      uint          `gorm:"not null;index"`
	PublicationID uint          `gorm:"not null;index"`
	Type          ReferenceType `gorm:"size:55;not null"`
}

// Parameter is a measured quantity (e.g. loss-on-ignition, d18O).
type Parameter struct {
	ID   uint   `gorm:"primaryKey"`
	Name string `gorm:"size:255;not null"`

	// Slug is a short unique identifier for the parameter.
	Slug string `gorm:"size:55;uniqueIndex;not null"`

	Description string

	// Preparation describes sample preparation for this parameter.
	Preparation string

	// Instrumentation describes the measuring instrument.
	Instrumentation string
}

func (p *Parameter) Kind() EntityKind { return KindParameter }
func (p *Parameter) PK() uint         { return p.ID }

// RecordParameter attaches a parameter to a record with units and
// summary statistics over the measured values.
type RecordParameter struct {
	ID          uint   `gorm:"primaryKey"`
	RecordID    uint   `gorm:"not null;index"`
	ParameterID uint   `gorm:"not null;index"`
	Units       string `gorm:"size:55"`

	Minimum *float64
	Maximum *float64
	Mean    *float64
	Count   *int
}
