package iocombine

import (
	"fmt"

	"github.com/gnames/gn"
	"github.com/paleolimbot/strativerse/pkg/errcode"
)

// TooFewError happens when fewer than two people are given.
func TooFewError(n int) error {
	return &gn.Error{
		Code: errcode.CombineTooFewError,
		Msg: fmt.Sprintf(
			"Combining needs at least two people, got <em>%d</em>.", n),
		Vars: []any{n},
		Err:  fmt.Errorf("combine needs at least 2 people, got %d", n),
	}
}

// PersonMissingError happens when one of the given IDs does not
// resolve to a person.
func PersonMissingError(id uint) error {
	return &gn.Error{
		Code: errcode.CombinePersonMissingError,
		Msg: fmt.Sprintf(
			"There is no person with ID <em>%d</em> to combine.\n\n"+
				"Nothing was merged.",
			id,
		),
		Vars: []any{id},
		Err:  fmt.Errorf("person %d not found", id),
	}
}

// CommitError wraps database failures during a merge. The whole merge
// rolls back.
func CommitError(err error) error {
	return &gn.Error{
		Code: errcode.CombineCommitError,
		Msg: "A database operation failed while combining people.\n\n" +
			"The merge was rolled back; no data changed.",
		Err: fmt.Errorf("combine: %w", err),
	}
}
