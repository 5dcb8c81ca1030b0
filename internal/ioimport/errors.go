package ioimport

import (
	"fmt"

	"github.com/gnames/gn"
	"github.com/paleolimbot/strativerse/pkg/errcode"
)

// CommitError wraps database failures inside an import batch. The
// batch rolls back as a unit.
func CommitError(err error) error {
	return &gn.Error{
		Code: errcode.ImportCommitError,
		Msg: "A database operation failed during import.\n\n" +
			"The current batch was rolled back; earlier batches are " +
			"already committed.\n\n" +
			"Possible causes:\n" +
			"  • The database connection dropped\n" +
			"  • A schema constraint was violated by the input",
		Err: fmt.Errorf("import batch: %w", err),
	}
}
