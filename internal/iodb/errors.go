package iodb

import (
	"fmt"

	"github.com/gnames/gn"
	"github.com/paleolimbot/strativerse/pkg/errcode"
)

// NotConnectedError happens when a database operation is attempted
// before Connect has been called, or after Close.
func NotConnectedError() error {
	return &gn.Error{
		Code: errcode.DBNotConnectedError,
		Msg: "The database connection has not been established yet.\n\n" +
			"How to fix:\n" +
			"  • Check that the application connected before running " +
			"this command\n" +
			"  • If the problem persists, this is a bug worth reporting",
		Err: fmt.Errorf("database not connected"),
	}
}

// ConnectionError happens when PostgreSQL cannot be reached with
// the configured credentials.
func ConnectionError(
	host string, port int, database, user string, err error,
) error {
	return &gn.Error{
		Code: errcode.DBConnectionError,
		Msg: fmt.Sprintf(
			"Cannot connect to the database <em>%s</em> at "+
				"<em>%s:%d</em> as user <em>%s</em>.\n\n"+
				"Possible causes:\n"+
				"  • PostgreSQL is not running\n"+
				"  • The host, port, or database name is wrong\n"+
				"  • The user or password is wrong\n\n"+
				"How to fix:\n"+
				"  • Verify that PostgreSQL is running and reachable\n"+
				"  • Check the database settings in your configuration "+
				"file\n"+
				"  • Environment variables STRATIVERSE_DATABASE_* "+
				"override the file",
			database, host, port, user,
		),
		Vars: []any{host, port, database, user},
		Err:  fmt.Errorf("connect to %s:%d/%s: %w", host, port, database, err),
	}
}

// TableCheckError happens when table existence queries fail.
func TableCheckError(err error) error {
	return &gn.Error{
		Code: errcode.DBTableCheckError,
		Msg: "Could not check for existing tables.\n\n" +
			"Possible causes:\n" +
			"  • The database connection dropped\n" +
			"  • The user lacks permission on the public schema",
		Err: fmt.Errorf("check tables: %w", err),
	}
}

// QueryTablesError happens when listing tables for a drop fails.
func QueryTablesError(err error) error {
	return &gn.Error{
		Code: errcode.DBQueryTablesError,
		Msg: "Could not list the tables in the database.\n\n" +
			"Possible causes:\n" +
			"  • The database connection dropped\n" +
			"  • The user lacks permission on the public schema",
		Err: fmt.Errorf("query tables: %w", err),
	}
}

// DropTableError happens when dropping a table fails.
func DropTableError(table string, err error) error {
	return &gn.Error{
		Code: errcode.DBDropTableError,
		Msg: fmt.Sprintf(
			"Could not drop the table <em>%s</em>.\n\n"+
				"Possible causes:\n"+
				"  • Another session holds a lock on the table\n"+
				"  • The user lacks permission to drop tables",
			table,
		),
		Vars: []any{table},
		Err:  fmt.Errorf("drop table %s: %w", table, err),
	}
}

// GORMConnectionError happens when the ORM cannot open a session
// over the existing connection pool.
func GORMConnectionError(err error) error {
	return &gn.Error{
		Code: errcode.SchemaGORMConnectionError,
		Msg: "Could not open an ORM session over the database " +
			"connection.\n\n" +
			"How to fix:\n" +
			"  • Check the database connection settings\n" +
			"  • If the problem persists, this is a bug worth reporting",
		Err: fmt.Errorf("open gorm session: %w", err),
	}
}
