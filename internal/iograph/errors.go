package iograph

import (
	"fmt"

	"github.com/gnames/gn"
	"github.com/paleolimbot/strativerse/pkg/errcode"
)

// NotFoundError happens when an entity is looked up by ID and does
// not exist.
func NotFoundError(kind string, id uint) error {
	return &gn.Error{
		Code: errcode.GraphNotFoundError,
		Msg: fmt.Sprintf(
			"There is no %s with ID <em>%d</em>.", kind, id),
		Vars: []any{kind, id},
		Err:  fmt.Errorf("%s %d not found", kind, id),
	}
}

// NotFoundBySlugError happens when an entity is looked up by slug and
// does not exist.
func NotFoundBySlugError(kind, slug string) error {
	return &gn.Error{
		Code: errcode.GraphNotFoundError,
		Msg: fmt.Sprintf(
			"There is no %s with slug <em>%s</em>.", kind, slug),
		Vars: []any{kind, slug},
		Err:  fmt.Errorf("%s %q not found", kind, slug),
	}
}

// SaveError wraps unexpected database failures.
func SaveError(err error) error {
	return &gn.Error{
		Code: errcode.GraphSaveError,
		Msg: "A database operation failed while saving entities.\n\n" +
			"The transaction was rolled back; no data changed.\n\n" +
			"Possible causes:\n" +
			"  • The database connection dropped\n" +
			"  • A schema constraint was violated",
		Err: fmt.Errorf("entity graph query: %w", err),
	}
}

// ProtectedError happens when deleting an entity that other entities
// still depend on.
func ProtectedError(kind string, id uint, dependents string) error {
	return &gn.Error{
		Code: errcode.GraphProtectedError,
		Msg: fmt.Sprintf(
			"The %s <em>%d</em> cannot be deleted because it still has "+
				"%s.\n\n"+
				"How to fix:\n"+
				"  • Reassign or delete the dependent entities first\n"+
				"  • For duplicate people, use "+
				"<em>strativerse combine</em> instead of deleting",
			kind, id, dependents,
		),
		Vars: []any{kind, id, dependents},
		Err: fmt.Errorf("%s %d is protected by existing %s",
			kind, id, dependents),
	}
}

// ParentCycleError happens when saving a feature whose parent chain
// loops back to itself.
func ParentCycleError(id uint) error {
	return &gn.Error{
		Code: errcode.GraphParentCycleError,
		Msg: fmt.Sprintf(
			"Saving feature <em>%d</em> would create a cycle in the "+
				"feature tree.\n\n"+
				"A feature cannot be its own ancestor. Pick a parent "+
				"outside the feature's own subtree.",
			id,
		),
		Vars: []any{id},
		Err:  fmt.Errorf("feature %d parent cycle", id),
	}
}

// DuplicateAliasError happens when an alias is already mapped to a
// different person.
func DuplicateAliasError(alias string) error {
	return &gn.Error{
		Code: errcode.GraphDuplicateAliasError,
		Msg: fmt.Sprintf(
			"The alias <em>%s</em> already resolves to a different "+
				"person.\n\n"+
				"Aliases map to exactly one person. If both entries "+
				"describe the same individual, combine them with "+
				"<em>strativerse combine</em>.",
			alias,
		),
		Vars: []any{alias},
		Err:  fmt.Errorf("alias %q already in use", alias),
	}
}

// DuplicateSlugError happens when a slug is already taken by another
// entity of the same kind.
func DuplicateSlugError(slug string) error {
	return &gn.Error{
		Code: errcode.GraphDuplicateSlugError,
		Msg: fmt.Sprintf(
			"The slug <em>%s</em> is already taken.\n\n"+
				"Slugs are unique and stable. Pick a different slug or "+
				"update the existing entity instead.",
			slug,
		),
		Vars: []any{slug},
		Err:  fmt.Errorf("slug %q already in use", slug),
	}
}
