// Package metadata stores small key/value facts about the device session
// (active operator, access token) in the local database.
package metadata

import (
	"context"
)

// Repository is a string key/value store. Absent keys are not an error.
type Repository interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key string, value string) error
	Delete(ctx context.Context, keys ...string) error
}
