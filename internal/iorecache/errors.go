package iorecache

import (
	"fmt"

	"github.com/gnames/gn"
	"github.com/paleolimbot/strativerse/pkg/errcode"
)

// QueryError happens when loading entities for recaching fails.
func QueryError(err error) error {
	return &gn.Error{
		Code: errcode.RecacheQueryError,
		Msg: "Could not load entities for recaching.\n\n" +
			"Possible causes:\n" +
			"  • The database connection dropped\n" +
			"  • The schema is out of date; run " +
			"<em>strativerse migrate</em> first",
		Err: fmt.Errorf("recache query: %w", err),
	}
}

// UpdateError happens when writing recomputed caches fails.
func UpdateError(err error) error {
	return &gn.Error{
		Code: errcode.RecacheUpdateError,
		Msg: "Could not write recomputed caches.\n\n" +
			"Rows updated before the failure keep their new values; " +
			"re-run <em>strativerse recache</em> after resolving the " +
			"problem.",
		Err: fmt.Errorf("recache update: %w", err),
	}
}
