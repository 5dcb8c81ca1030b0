package ioschema

import (
	"fmt"

	"github.com/gnames/gn"
	"github.com/paleolimbot/strativerse/pkg/errcode"
)

// CreateSchemaError happens when the initial schema cannot be
// created.
func CreateSchemaError(err error) error {
	return &gn.Error{
		Code: errcode.SchemaCreateError,
		Msg: "Could not create the database schema.\n\n" +
			"Possible causes:\n" +
			"  • The database user lacks permission to create tables\n" +
			"  • A previous schema left conflicting tables behind\n\n" +
			"How to fix:\n" +
			"  • Check that the configured user owns the database\n" +
			"  • Re-run <em>strativerse create</em> after resolving the " +
			"conflict",
		Err: fmt.Errorf("create schema: %w", err),
	}
}

// MigrateSchemaError happens when an existing schema cannot be
// brought up to date.
func MigrateSchemaError(err error) error {
	return &gn.Error{
		Code: errcode.SchemaMigrateError,
		Msg: "Could not migrate the database schema.\n\n" +
			"Possible causes:\n" +
			"  • Existing data conflicts with a new constraint\n" +
			"  • The database user lacks permission to alter tables\n\n" +
			"How to fix:\n" +
			"  • Inspect the underlying error for the conflicting table\n" +
			"  • Resolve the conflict and re-run " +
			"<em>strativerse migrate</em>",
		Err: fmt.Errorf("migrate schema: %w", err),
	}
}
