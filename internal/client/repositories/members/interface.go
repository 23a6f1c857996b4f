package members

import (
	"context"

	"github.com/dmitrijs2005/fieldsync/internal/client/models"
)

// Repository describes persistence operations for Member records.
type Repository interface {
	// Insert stores m as unsynced and returns the assigned local id.
	Insert(ctx context.Context, m *models.Member) (int64, error)

	// GetUnsynced returns members with is_synced = 0, ordered by local id.
	GetUnsynced(ctx context.Context) ([]models.Member, error)

	// CountUnsynced returns the number of members awaiting sync.
	CountUnsynced(ctx context.Context) (int, error)

	// MarkSynced records the backend identity and flips is_synced in one
	// statement. Repeating the call with the same arguments is a no-op;
	// a different remoteID for an already linked member is rejected with
	// common.ErrRemoteIDConflict.
	MarkSynced(ctx context.Context, localID int64, remoteID int64) error

	// GetByID returns the member and true, or nil and false when absent.
	GetByID(ctx context.Context, localID int64) (*models.Member, bool, error)

	// List returns every member, ordered by local id.
	List(ctx context.Context) ([]models.Member, error)
}
