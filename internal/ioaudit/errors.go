package ioaudit

import (
	"fmt"

	"github.com/gnames/gn"
	"github.com/paleolimbot/strativerse/pkg/errcode"
)

// RecordError happens when a revision cannot be written.
func RecordError(err error) error {
	return &gn.Error{
		Code: errcode.AuditRecordError,
		Msg: "Could not record the audit revision.\n\n" +
			"The operation was rolled back; no data changed.\n\n" +
			"Possible causes:\n" +
			"  • The database connection dropped mid-transaction\n" +
			"  • An entity snapshot could not be serialized",
		Err: fmt.Errorf("record revision: %w", err),
	}
}
