// Package common defines shared constants and sentinel errors used across
// the fieldsync client layers. Callers should use errors.Is to match these
// values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound        = errors.New("not found")
	ErrRemoteIDConflict  = errors.New("record already synced with a different remote id")
	ErrNoMemberReference = errors.New("payment must reference a member")

	// ErrAmbiguousMemberReference is returned when a payment draft names
	// both a backend member id and a local member.
	ErrAmbiguousMemberReference = errors.New("payment references a member twice")

	// Validation errors.
	ErrInvalidAmount = errors.New("amount must be positive")

	// Sync pass errors.
	ErrNoActiveOperator = errors.New("no active operator session")
	ErrSyncInProgress   = errors.New("sync pass already in progress")

	// Session errors (invalid or malformed token).
	ErrInvalidToken = errors.New("invalid token")
)
