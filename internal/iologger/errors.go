package iologger

import (
	"fmt"

	"github.com/gnames/gn"
	"github.com/paleolimbot/strativerse/pkg/errcode"
)

// CreateLogFileError happens when the log file cannot be opened or
// created.
func CreateLogFileError(path string, err error) error {
	return &gn.Error{
		Code: errcode.CreateLogFileError,
		Msg: fmt.Sprintf(
			"Could not create the log file <em>%s</em>.\n\n"+
				"Possible causes:\n"+
				"  • The directory does not exist\n"+
				"  • The directory is not writable\n\n"+
				"How to fix:\n"+
				"  • Check the permissions of the log directory\n"+
				"  • Or set logging destination to <em>stderr</em>",
			path,
		),
		Vars: []any{path},
		Err:  fmt.Errorf("create log file %s: %w", path, err),
	}
}
