package payments

import (
	"context"

	"github.com/dmitrijs2005/fieldsync/internal/client/models"
)

// Repository describes persistence operations for Payment records.
type Repository interface {
	Insert(ctx context.Context, p *models.Payment) (int64, error)
	GetUnsynced(ctx context.Context) ([]models.Payment, error)
	CountUnsynced(ctx context.Context) (int, error)

	// MarkSynced flips is_synced and stores remoteID when the backend
	// returned one (nil otherwise). Idempotent; an existing different
	// remote id is never replaced.
	MarkSynced(ctx context.Context, localID int64, remoteID *int64) error

	GetByID(ctx context.Context, localID int64) (*models.Payment, bool, error)
	List(ctx context.Context) ([]models.Payment, error)
}
