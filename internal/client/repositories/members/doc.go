// Package members provides the client-side persistence layer for enrolled
// members.
//
// # Overview
//
// The package defines a Repository interface for the operations the sync
// pipeline and the enrollment flow need, and a SQLite-backed implementation
// (SQLiteRepository) that works over a dbx.DBTX (either *sql.DB or *sql.Tx).
//
// # Data Model
//
// Rows are keyed by an AUTOINCREMENT local_id, so identities are never
// reused even after deletes. remote_id stays NULL until the backend accepts
// the member; is_synced only ever moves from 0 to 1. Apart from those two
// columns, rows are never rewritten after insert.
//
// Typical Usage
//
//	repo := members.NewSQLiteRepository(db)
//	id, _ := repo.Insert(ctx, m)
//	pending, _ := repo.GetUnsynced(ctx)
//	_ = repo.MarkSynced(ctx, id, 500)
//	m, found, _ := repo.GetByID(ctx, id)
package members
