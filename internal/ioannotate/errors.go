package ioannotate

import (
	"fmt"

	"github.com/gnames/gn"
	"github.com/paleolimbot/strativerse/pkg/errcode"
)

// KeyError happens when a tag key contains characters outside
// [A-Za-z0-9_].
func KeyError(key string) error {
	return &gn.Error{
		Code: errcode.AnnotationKeyError,
		Msg: fmt.Sprintf(
			"The tag key <em>%s</em> is not valid.\n\n"+
				"Keys may contain only letters, digits and underscores.",
			key,
		),
		Vars: []any{key},
		Err:  fmt.Errorf("invalid tag key %q", key),
	}
}

// OwnerKindError happens when the target kind is not one of the
// annotatable entity kinds.
func OwnerKindError(kind string) error {
	return &gn.Error{
		Code: errcode.AnnotationOwnerKindError,
		Msg: fmt.Sprintf(
			"<em>%s</em> is not an annotatable entity kind.\n\n"+
				"Valid kinds are person, publication, feature, record "+
				"and parameter.",
			kind,
		),
		Vars: []any{kind},
		Err:  fmt.Errorf("unknown entity kind %q", kind),
	}
}

// OwnerMissingError happens when the target entity does not exist.
func OwnerMissingError(kind string, id uint) error {
	return &gn.Error{
		Code: errcode.AnnotationOwnerMissingError,
		Msg: fmt.Sprintf(
			"There is no %s with ID <em>%d</em> to annotate.",
			kind, id,
		),
		Vars: []any{kind, id},
		Err:  fmt.Errorf("%s %d not found", kind, id),
	}
}

// DuplicateError happens when an annotation with the same type and
// key already exists on the target.
func DuplicateError(kind string, id uint, tagType, key string) error {
	return &gn.Error{
		Code: errcode.AnnotationDuplicateError,
		Msg: fmt.Sprintf(
			"The %s <em>%d</em> already has an annotation "+
				"<em>%s/%s</em>.\n\n"+
				"How to fix:\n"+
				"  • Delete the existing annotation first\n"+
				"  • Or pick a different key",
			kind, id, tagType, key,
		),
		Vars: []any{kind, id, tagType, key},
		Err: fmt.Errorf("duplicate annotation %s/%s on %s %d",
			tagType, key, kind, id),
	}
}

// NotFoundError happens when deleting an annotation that does not
// exist.
func NotFoundError(kind string, id uint, tagType, key string) error {
	return &gn.Error{
		Code: errcode.AnnotationNotFoundError,
		Msg: fmt.Sprintf(
			"The %s <em>%d</em> has no annotation <em>%s/%s</em>.",
			kind, id, tagType, key,
		),
		Vars: []any{kind, id, tagType, key},
		Err: fmt.Errorf("annotation %s/%s on %s %d not found",
			tagType, key, kind, id),
	}
}

// SaveError wraps unexpected database failures.
func SaveError(err error) error {
	return &gn.Error{
		Code: errcode.GraphSaveError,
		Msg: "A database operation failed while working with " +
			"annotations.\n\n" +
			"Possible causes:\n" +
			"  • The database connection dropped",
		Err: fmt.Errorf("annotation query: %w", err),
	}
}
