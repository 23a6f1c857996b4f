package payments

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/fieldsync/internal/client/models"
	"github.com/dmitrijs2005/fieldsync/internal/common"
	"github.com/dmitrijs2005/fieldsync/internal/dbx"
)

const paymentColumns = `local_id, remote_id, adherent_id, local_adherent_id, reference, amount,
	method, receipt_photo, paid_on, is_synced, created_at`

type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

type scanner interface {
	Scan(dest ...any) error
}

func scanPayment(s scanner) (models.Payment, error) {
	var p models.Payment
	var createdAt int64
	err := s.Scan(&p.LocalID, &p.RemoteID, &p.AdherentID, &p.LocalAdherentID, &p.Reference,
		&p.Amount, &p.Method, &p.ReceiptPhoto, &p.PaidOn, &p.IsSynced, &createdAt)
	if err != nil {
		return models.Payment{}, err
	}
	p.CreatedAt = time.UnixMilli(createdAt).UTC()
	return p, nil
}

func (r *SQLiteRepository) Insert(ctx context.Context, p *models.Payment) (int64, error) {
	query := `INSERT INTO payments (adherent_id, local_adherent_id, reference, amount, method,
			receipt_photo, paid_on, is_synced, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, 0, ?)`

	res, err := r.db.ExecContext(ctx, query,
		dbx.Nullable(p.AdherentID), dbx.Nullable(p.LocalAdherentID), dbx.Nullable(p.Reference),
		p.Amount, dbx.Nullable(p.Method), dbx.Nullable(p.ReceiptPhoto), dbx.Nullable(p.PaidOn),
		p.CreatedAt.UnixMilli(),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert payment: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read payment id: %w", err)
	}

	p.LocalID = id
	p.RemoteID = nil
	p.IsSynced = false
	return id, nil
}

func (r *SQLiteRepository) query(ctx context.Context, query string, args ...any) ([]models.Payment, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to select payments: %w", err)
	}
	defer rows.Close()

	result := []models.Payment{}
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan payment row: %w", err)
		}
		result = append(result, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate payment rows: %w", err)
	}
	return result, nil
}

func (r *SQLiteRepository) GetUnsynced(ctx context.Context) ([]models.Payment, error) {
	return r.query(ctx, `SELECT `+paymentColumns+` FROM payments WHERE is_synced = 0 ORDER BY local_id`)
}

func (r *SQLiteRepository) List(ctx context.Context) ([]models.Payment, error) {
	return r.query(ctx, `SELECT `+paymentColumns+` FROM payments ORDER BY local_id`)
}

func (r *SQLiteRepository) CountUnsynced(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM payments WHERE is_synced = 0`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count unsynced payments: %w", err)
	}
	return n, nil
}

func (r *SQLiteRepository) GetByID(ctx context.Context, localID int64) (*models.Payment, bool, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+paymentColumns+` FROM payments WHERE local_id = ?`, localID)

	p, err := scanPayment(row)
	if dbx.IsNoRows(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to get payment %d: %w", localID, err)
	}
	return &p, true, nil
}

// MarkSynced runs a single UPDATE. With a nil remoteID only the flag moves;
// an already stored remote_id is kept.
func (r *SQLiteRepository) MarkSynced(ctx context.Context, localID int64, remoteID *int64) error {
	var (
		query string
		args  []any
	)
	if remoteID == nil {
		query = `UPDATE payments SET is_synced = 1 WHERE local_id = ?`
		args = []any{localID}
	} else {
		query = `UPDATE payments SET remote_id = ?, is_synced = 1
			WHERE local_id = ? AND (remote_id IS NULL OR remote_id = ?)`
		args = []any{*remoteID, localID, *remoteID}
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to mark payment %d synced: %w", localID, err)
	}
	if err := dbx.ExpectOneRow(res); err == nil {
		return nil
	}

	var existing *int64
	err = r.db.QueryRowContext(ctx, `SELECT remote_id FROM payments WHERE local_id = ?`, localID).Scan(&existing)
	if dbx.IsNoRows(err) {
		return fmt.Errorf("payment %d: %w", localID, common.ErrorNotFound)
	}
	if err != nil {
		return fmt.Errorf("failed to check payment %d: %w", localID, err)
	}
	return fmt.Errorf("payment %d already has a remote id: %w", localID, common.ErrRemoteIDConflict)
}
