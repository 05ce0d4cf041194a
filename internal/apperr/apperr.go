// Package apperr defines the failure taxonomy every tool reports through.
// Remote-library errors are normalized into these kinds exactly once (see
// internal/discord); handlers never invent ad hoc error shapes.
package apperr

import (
	"errors"
	"fmt"
)

type Kind int

const (
	// KindInternal covers failures that are neither caller-correctable nor
	// part of the public taxonomy (network faults, unexpected payloads).
	KindInternal Kind = iota

	// KindInvalidArgument: a required input is missing/empty, or a value
	// fails basic syntactic parsing.
	KindInvalidArgument

	// KindValidation: a syntactically valid input violates a domain rule
	// (range, enum membership, cross-field dependency, timestamp format).
	KindValidation

	// KindMissingScope: no explicit guildId and no configured default.
	KindMissingScope

	// KindNotFound: the scope, or a named entity within it, does not exist.
	KindNotFound

	// KindTypeMismatch: the entity exists but is not of the required kind.
	KindTypeMismatch

	// KindForbiddenPermission: the bot lacks the remote privilege.
	KindForbiddenPermission

	// KindForbiddenHierarchy: the bot's role rank is not strictly above the
	// target's.
	KindForbiddenHierarchy

	// KindForbiddenPolicy: a local rule blocks the action regardless of
	// remote permission (e.g. the everyone-role guard).
	KindForbiddenPolicy
)

func (k Kind) String() string {
	switch k {
	case KindInvalidArgument:
		return "invalid_argument"
	case KindValidation:
		return "validation_failure"
	case KindMissingScope:
		return "missing_scope"
	case KindNotFound:
		return "not_found"
	case KindTypeMismatch:
		return "type_mismatch"
	case KindForbiddenPermission:
		return "forbidden_permission"
	case KindForbiddenHierarchy:
		return "forbidden_hierarchy"
	case KindForbiddenPolicy:
		return "forbidden_policy"
	default:
		return "internal"
	}
}

// Error carries a kind plus a caller-facing message. The message names the
// offending parameter or entity and the violated constraint; it must not
// leak identifiers the caller did not supply.
type Error struct {
	Kind    Kind
	Message string
	cause   error
}

func (e *Error) Error() string { return e.Message }
func (e *Error) Unwrap() error { return e.cause }

func New(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func InvalidArgument(format string, args ...any) *Error {
	return New(KindInvalidArgument, format, args...)
}

func Validation(format string, args ...any) *Error {
	return New(KindValidation, format, args...)
}

func MissingScope() *Error {
	return New(KindMissingScope, "no Discord server specified: provide guildId or configure DISCORD_GUILD_ID")
}

func NotFound(format string, args ...any) *Error {
	return New(KindNotFound, format, args...)
}

func TypeMismatch(format string, args ...any) *Error {
	return New(KindTypeMismatch, format, args...)
}

func Permission(format string, args ...any) *Error {
	return New(KindForbiddenPermission, format, args...)
}

func Hierarchy(format string, args ...any) *Error {
	return New(KindForbiddenHierarchy, format, args...)
}

func Policy(format string, args ...any) *Error {
	return New(KindForbiddenPolicy, format, args...)
}

// Internal wraps an unclassified error, preserving the remote message.
func Internal(err error, context string) *Error {
	return &Error{Kind: KindInternal, Message: fmt.Sprintf("%s: %v", context, err), cause: err}
}

// KindOf extracts the kind from any error in the chain, KindInternal when
// the error never passed through the taxonomy.
func KindOf(err error) Kind {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Kind
	}
	return KindInternal
}
