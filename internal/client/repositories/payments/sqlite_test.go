package payments

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/fieldsync/internal/client/models"
	"github.com/dmitrijs2005/fieldsync/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`
CREATE TABLE payments (
  local_id          INTEGER PRIMARY KEY AUTOINCREMENT,
  remote_id         INTEGER NULL,
  adherent_id       INTEGER NULL,
  local_adherent_id INTEGER NULL,
  reference         TEXT    NULL,
  amount            INTEGER NOT NULL,
  method            TEXT    NULL,
  receipt_photo     TEXT    NULL,
  paid_on           TEXT    NULL,
  is_synced         INTEGER NOT NULL DEFAULT 0,
  created_at        INTEGER NOT NULL
);
`)
	require.NoError(t, err)
	return db
}

func newPayment(localAdherent int64) *models.Payment {
	return models.NewPayment(models.PaymentDraft{
		LocalAdherentID: models.Ptr(localAdherent),
		Reference:       models.Ptr("REC-001"),
		Amount:          3500,
		Method:          models.Ptr("mobile_money"),
		PaidOn:          models.Ptr("2025-03-01"),
	}, time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC))
}

func TestInsertAndGetByID(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	p := newPayment(1)
	id, err := r.Insert(ctx, p)
	require.NoError(t, err)
	require.Equal(t, int64(1), id)
	require.Equal(t, id, p.LocalID)

	got, found, err := r.GetByID(ctx, id)
	require.NoError(t, err)
	require.True(t, found)
	assert.Nil(t, got.AdherentID)
	assert.Equal(t, int64(1), *got.LocalAdherentID)
	assert.Equal(t, "REC-001", *got.Reference)
	assert.Equal(t, int64(3500), got.Amount)
	assert.Nil(t, got.ReceiptPhoto)
	assert.False(t, got.IsSynced)
	assert.Nil(t, got.RemoteID)
}

func TestGetByID_Absent(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	got, found, err := r.GetByID(context.Background(), 9)
	require.NoError(t, err)
	require.False(t, found)
	require.Nil(t, got)
}

func TestMarkSynced_WithoutRemoteID(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	id, err := r.Insert(ctx, newPayment(1))
	require.NoError(t, err)

	require.NoError(t, r.MarkSynced(ctx, id, nil))
	require.NoError(t, r.MarkSynced(ctx, id, nil), "idempotent")

	got, _, err := r.GetByID(ctx, id)
	require.NoError(t, err)
	assert.True(t, got.IsSynced)
	assert.Nil(t, got.RemoteID, "local id is never used as a stand-in remote id")
}

func TestMarkSynced_WithRemoteID(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	id, err := r.Insert(ctx, newPayment(1))
	require.NoError(t, err)

	require.NoError(t, r.MarkSynced(ctx, id, models.Ptr[int64](77)))
	require.NoError(t, r.MarkSynced(ctx, id, models.Ptr[int64](77)))
	require.NoError(t, r.MarkSynced(ctx, id, nil), "nil keeps the stored id")
	require.ErrorIs(t, r.MarkSynced(ctx, id, models.Ptr[int64](78)), common.ErrRemoteIDConflict)

	got, _, err := r.GetByID(ctx, id)
	require.NoError(t, err)
	assert.True(t, got.IsSynced)
	assert.Equal(t, int64(77), *got.RemoteID)
}

func TestMarkSynced_Unknown(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	require.ErrorIs(t, r.MarkSynced(context.Background(), 5, nil), common.ErrorNotFound)
	require.ErrorIs(t, r.MarkSynced(context.Background(), 5, models.Ptr[int64](1)), common.ErrorNotFound)
}

func TestGetUnsyncedCountAndList(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	for i := int64(1); i <= 3; i++ {
		_, err := r.Insert(ctx, newPayment(i))
		require.NoError(t, err)
	}
	require.NoError(t, r.MarkSynced(ctx, 1, nil))

	pending, err := r.GetUnsynced(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 2)
	assert.Equal(t, []int64{2, 3}, []int64{pending[0].LocalID, pending[1].LocalID})

	n, err := r.CountUnsynced(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	all, err := r.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestStorageFaultsArePropagated(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	defer db.Close()
	r := NewSQLiteRepository(db)
	ctx := context.Background()
	diskErr := errors.New("disk I/O error")

	mock.ExpectExec(`(?s)^INSERT\s+INTO\s+payments`).WillReturnError(diskErr)
	_, err = r.Insert(ctx, newPayment(1))
	require.ErrorIs(t, err, diskErr)

	mock.ExpectQuery(`(?s)^SELECT COUNT\(\*\) FROM payments`).WillReturnError(diskErr)
	_, err = r.CountUnsynced(ctx)
	require.ErrorIs(t, err, diskErr)

	mock.ExpectExec(`(?s)^UPDATE\s+payments\s+SET\s+is_synced\s*=\s*1`).WithArgs(int64(1)).WillReturnError(diskErr)
	require.ErrorIs(t, r.MarkSynced(ctx, 1, nil), diskErr)

	require.NoError(t, mock.ExpectationsWereMet())
}
