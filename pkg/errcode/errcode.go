package errcode

import (
	"github.com/gnames/gn"
)

const (
	UnknownError gn.ErrorCode = iota

	// File System errors
	CreateDirError
	ReadFileError

	// Logging errors
	CreateLogFileError

	// Database errors
	DBConnectionError
	DBNotConnectedError
	DBTableCheckError
	DBQueryTablesError
	DBDropTableError

	// Schema errors
	SchemaGORMConnectionError
	SchemaCreateError
	SchemaMigrateError

	// WKT errors
	WKTInvalidError

	// Annotation errors
	AnnotationKeyError
	AnnotationDuplicateError
	AnnotationOwnerKindError
	AnnotationOwnerMissingError
	AnnotationNotFoundError

	// Entity graph errors
	GraphNotFoundError
	GraphSaveError
	GraphProtectedError
	GraphParentCycleError
	GraphDuplicateAliasError
	GraphDuplicateSlugError

	// Import errors
	ImportParseError
	ImportYearMissingError
	ImportSlugExhaustedError
	ImportCommitError

	// Combine errors
	CombineTooFewError
	CombinePersonMissingError
	CombineCommitError

	// Recache errors
	RecacheQueryError
	RecacheUpdateError

	// Audit errors
	AuditRecordError
)
