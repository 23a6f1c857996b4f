package members

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/fieldsync/internal/client/models"
	"github.com/dmitrijs2005/fieldsync/internal/common"
	"github.com/dmitrijs2005/fieldsync/internal/dbx"
)

const memberColumns = `local_id, remote_id, local_uuid, first_name, last_name, sex, birth_date,
	birth_place, phone, email, address, profession, category, id_document_type,
	id_document_number, photo_ref, id_document_photo_ref, is_synced, created_at`

// SQLiteRepository implements Repository using a DBTX (either *sql.DB or *sql.Tx).
type SQLiteRepository struct {
	db dbx.DBTX
}

// NewSQLiteRepository returns a new SQLiteRepository bound to the given DBTX.
func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

type scanner interface {
	Scan(dest ...any) error
}

func scanMember(s scanner) (models.Member, error) {
	var m models.Member
	var createdAt int64
	err := s.Scan(&m.LocalID, &m.RemoteID, &m.LocalUUID, &m.FirstName, &m.LastName, &m.Sex,
		&m.BirthDate, &m.BirthPlace, &m.Phone, &m.Email, &m.Address, &m.Profession, &m.Category,
		&m.IDDocumentType, &m.IDDocumentNumber, &m.PhotoRef, &m.IDDocumentPhotoRef,
		&m.IsSynced, &createdAt)
	if err != nil {
		return models.Member{}, err
	}
	m.CreatedAt = time.UnixMilli(createdAt).UTC()
	return m, nil
}

// Insert stores a new member with is_synced = 0. Any LocalID, RemoteID or
// IsSynced value on m is ignored; m.LocalID is set to the assigned id.
func (r *SQLiteRepository) Insert(ctx context.Context, m *models.Member) (int64, error) {
	query := `INSERT INTO members (local_uuid, first_name, last_name, sex, birth_date, birth_place,
			phone, email, address, profession, category, id_document_type, id_document_number,
			photo_ref, id_document_photo_ref, is_synced, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, 0, ?)`

	res, err := r.db.ExecContext(ctx, query,
		m.LocalUUID,
		dbx.Nullable(m.FirstName), dbx.Nullable(m.LastName), dbx.Nullable(m.Sex),
		dbx.Nullable(m.BirthDate), dbx.Nullable(m.BirthPlace), dbx.Nullable(m.Phone),
		dbx.Nullable(m.Email), dbx.Nullable(m.Address), dbx.Nullable(m.Profession),
		dbx.Nullable(m.Category), dbx.Nullable(m.IDDocumentType), dbx.Nullable(m.IDDocumentNumber),
		dbx.Nullable(m.PhotoRef), dbx.Nullable(m.IDDocumentPhotoRef),
		m.CreatedAt.UnixMilli(),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert member: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read member id: %w", err)
	}

	m.LocalID = id
	m.RemoteID = nil
	m.IsSynced = false
	return id, nil
}

func (r *SQLiteRepository) query(ctx context.Context, query string, args ...any) ([]models.Member, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to select members: %w", err)
	}
	defer rows.Close()

	result := []models.Member{}
	for rows.Next() {
		m, err := scanMember(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan member row: %w", err)
		}
		result = append(result, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate member rows: %w", err)
	}
	return result, nil
}

// GetUnsynced returns members flagged is_synced = 0 (awaiting sync).
func (r *SQLiteRepository) GetUnsynced(ctx context.Context) ([]models.Member, error) {
	return r.query(ctx, `SELECT `+memberColumns+` FROM members WHERE is_synced = 0 ORDER BY local_id`)
}

// List returns all members.
func (r *SQLiteRepository) List(ctx context.Context) ([]models.Member, error) {
	return r.query(ctx, `SELECT `+memberColumns+` FROM members ORDER BY local_id`)
}

func (r *SQLiteRepository) CountUnsynced(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM members WHERE is_synced = 0`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count unsynced members: %w", err)
	}
	return n, nil
}

func (r *SQLiteRepository) GetByID(ctx context.Context, localID int64) (*models.Member, bool, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+memberColumns+` FROM members WHERE local_id = ?`, localID)

	m, err := scanMember(row)
	if dbx.IsNoRows(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to get member %d: %w", localID, err)
	}
	return &m, true, nil
}

// MarkSynced sets remote_id and is_synced in a single UPDATE. The WHERE
// clause refuses to replace a different remote_id, which keeps the backend
// identity immutable once recorded.
func (r *SQLiteRepository) MarkSynced(ctx context.Context, localID int64, remoteID int64) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE members SET remote_id = ?, is_synced = 1
		 WHERE local_id = ? AND (remote_id IS NULL OR remote_id = ?)`,
		remoteID, localID, remoteID)
	if err != nil {
		return fmt.Errorf("failed to mark member %d synced: %w", localID, err)
	}

	if err := dbx.ExpectOneRow(res); err == nil {
		return nil
	}

	// Nothing matched: either the member does not exist or it is linked to
	// another remote id.
	var existing *int64
	err = r.db.QueryRowContext(ctx, `SELECT remote_id FROM members WHERE local_id = ?`, localID).Scan(&existing)
	if dbx.IsNoRows(err) {
		return fmt.Errorf("member %d: %w", localID, common.ErrorNotFound)
	}
	if err != nil {
		return fmt.Errorf("failed to check member %d: %w", localID, err)
	}
	return fmt.Errorf("member %d has remote id %d, got %d: %w", localID, derefOrZero(existing), remoteID, common.ErrRemoteIDConflict)
}

func derefOrZero(p *int64) int64 {
	if p == nil {
		return 0
	}
	return *p
}
