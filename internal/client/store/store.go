package store

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/fieldsync/internal/client/models"
	"github.com/dmitrijs2005/fieldsync/internal/client/repositories/members"
	"github.com/dmitrijs2005/fieldsync/internal/client/repositories/payments"
	"github.com/dmitrijs2005/fieldsync/internal/dbx"
	"github.com/dmitrijs2005/fieldsync/internal/logging"
)

// Store is the local durable store: members and payments plus change
// notification.
type Store struct {
	db       dbx.Beginner
	members  members.Repository
	payments payments.Repository
	feed     *Feed
	log      logging.Logger
}

// New builds a Store over db.
func New(db *sql.DB, log logging.Logger) *Store {
	s := NewWithRepositories(members.NewSQLiteRepository(db), payments.NewSQLiteRepository(db), log)
	s.db = db
	return s
}

// NewWithRepositories builds a Store over explicit repositories. Writes go
// straight to the repositories without an enclosing transaction.
func NewWithRepositories(m members.Repository, p payments.Repository, log logging.Logger) *Store {
	return &Store{
		members:  m,
		payments: p,
		feed:     NewFeed(),
		log:      log.With("component", "store"),
	}
}

// Feed exposes the change feed for derived views.
func (s *Store) Feed() *Feed {
	return s.feed
}

func (s *Store) InsertMember(ctx context.Context, m *models.Member) (int64, error) {
	id, err := s.members.Insert(ctx, m)
	if err != nil {
		return 0, err
	}
	s.feed.Publish(CollectionMembers)
	return id, nil
}

func (s *Store) UnsyncedMembers(ctx context.Context) ([]models.Member, error) {
	return s.members.GetUnsynced(ctx)
}

func (s *Store) CountUnsyncedMembers(ctx context.Context) (int, error) {
	return s.members.CountUnsynced(ctx)
}

func (s *Store) MemberByID(ctx context.Context, localID int64) (*models.Member, bool, error) {
	return s.members.GetByID(ctx, localID)
}

func (s *Store) ListMembers(ctx context.Context) ([]models.Member, error) {
	return s.members.List(ctx)
}

func (s *Store) MarkMemberSynced(ctx context.Context, localID, remoteID int64) error {
	err := s.inTx(ctx, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.members
		if tx != nil {
			repo = members.NewSQLiteRepository(tx)
		}
		return repo.MarkSynced(ctx, localID, remoteID)
	})
	if err != nil {
		return err
	}
	s.feed.Publish(CollectionMembers)
	return nil
}

func (s *Store) InsertPayment(ctx context.Context, p *models.Payment) (int64, error) {
	id, err := s.payments.Insert(ctx, p)
	if err != nil {
		return 0, err
	}
	s.feed.Publish(CollectionPayments)
	return id, nil
}

func (s *Store) UnsyncedPayments(ctx context.Context) ([]models.Payment, error) {
	return s.payments.GetUnsynced(ctx)
}

func (s *Store) CountUnsyncedPayments(ctx context.Context) (int, error) {
	return s.payments.CountUnsynced(ctx)
}

func (s *Store) PaymentByID(ctx context.Context, localID int64) (*models.Payment, bool, error) {
	return s.payments.GetByID(ctx, localID)
}

func (s *Store) ListPayments(ctx context.Context) ([]models.Payment, error) {
	return s.payments.List(ctx)
}

func (s *Store) MarkPaymentSynced(ctx context.Context, localID int64, remoteID *int64) error {
	err := s.inTx(ctx, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.payments
		if tx != nil {
			repo = payments.NewSQLiteRepository(tx)
		}
		return repo.MarkSynced(ctx, localID, remoteID)
	})
	if err != nil {
		return err
	}
	s.feed.Publish(CollectionPayments)
	return nil
}

// inTx runs fn in one transaction when the store owns a database; tx is nil
// otherwise.
func (s *Store) inTx(ctx context.Context, fn func(ctx context.Context, tx dbx.DBTX) error) error {
	if s.db == nil {
		return fn(ctx, nil)
	}
	return dbx.WithTx(ctx, s.db, nil, fn)
}
