package group

import "errors"

// Sentinel errors returned by group operations. Callers match them with
// errors.Is; wrapped messages carry the offending identity or epoch values.
var (
	// ErrInvalidKey indicates malformed identity or key material.
	ErrInvalidKey = errors.New("invalid key material")

	// ErrGroupNotFound indicates an unknown group identifier.
	ErrGroupNotFound = errors.New("group not found")

	// ErrMemberNotFound indicates the referenced identity is not a member.
	ErrMemberNotFound = errors.New("member not found")

	// ErrAlreadyMember indicates the identity is already a member.
	ErrAlreadyMember = errors.New("already a member")

	// ErrNotMember indicates the acting identity is not a member.
	ErrNotMember = errors.New("not a member of the group")

	// ErrInvalidState indicates a group ID or epoch mismatch on a received
	// artifact, or corrupted serialized state.
	ErrInvalidState = errors.New("invalid state")

	// ErrSerialization indicates malformed Welcome, Commit, message or
	// state bytes.
	ErrSerialization = errors.New("serialization error")

	// ErrCrypto indicates a failure inside a cryptographic primitive,
	// including entropy-source failures.
	ErrCrypto = errors.New("crypto error")
)
