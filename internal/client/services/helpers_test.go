package services

import (
	"context"
	"database/sql"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/fieldsync/internal/client/client"
	"github.com/dmitrijs2005/fieldsync/internal/client/models"
	"github.com/dmitrijs2005/fieldsync/internal/client/store"
	"github.com/dmitrijs2005/fieldsync/internal/logging"
	"github.com/stretchr/testify/require"
)

// ---- helpers ----

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := store.InitDatabase(context.Background(), store.MemoryDSN(name))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func setupStore(t *testing.T) (*sql.DB, *store.Store) {
	t.Helper()
	db := setupDB(t)
	return db, store.New(db, logging.Discard())
}

var testTime = time.Date(2025, 3, 1, 9, 30, 0, 0, time.UTC)

func insertMember(t *testing.T, s *store.Store, uuid string) int64 {
	t.Helper()
	id, err := s.InsertMember(context.Background(), models.NewMember(models.MemberDraft{
		FirstName: models.Ptr("Awa"),
		LastName:  models.Ptr("Diop"),
	}, uuid, testTime))
	require.NoError(t, err)
	return id
}

func insertPayment(t *testing.T, s *store.Store, d models.PaymentDraft) int64 {
	t.Helper()
	id, err := s.InsertPayment(context.Background(), models.NewPayment(d, testTime))
	require.NoError(t, err)
	return id
}

func getMember(t *testing.T, s *store.Store, id int64) *models.Member {
	t.Helper()
	m, ok, err := s.MemberByID(context.Background(), id)
	require.NoError(t, err)
	require.True(t, ok)
	return m
}

func getPayment(t *testing.T, s *store.Store, id int64) *models.Payment {
	t.Helper()
	p, ok, err := s.PaymentByID(context.Background(), id)
	require.NoError(t, err)
	require.True(t, ok)
	return p
}

// ---- fake gateway ----

type createCall struct {
	OperatorID string
	Payload    client.MemberPayload
}

// fakeClient records every call. Without a configured func, creates return
// ids 500, 501, ... and payments succeed without an id.
type fakeClient struct {
	mu sync.Mutex

	CreateFn  func(ctx context.Context, n int, p client.MemberPayload) (client.CreateMemberResult, error)
	PaymentFn func(ctx context.Context, p client.PaymentPayload) (client.AddPaymentResult, error)
	PingErr   error

	Creates  []createCall
	Payments []client.PaymentPayload
}

func (f *fakeClient) CreateMember(ctx context.Context, operatorID string, p client.MemberPayload) (client.CreateMemberResult, error) {
	f.mu.Lock()
	n := len(f.Creates)
	f.Creates = append(f.Creates, createCall{OperatorID: operatorID, Payload: p})
	fn := f.CreateFn
	f.mu.Unlock()

	if fn != nil {
		return fn(ctx, n, p)
	}
	return client.CreateMemberResult{Success: true, RemoteID: int64(500 + n)}, nil
}

func (f *fakeClient) AddPayment(ctx context.Context, p client.PaymentPayload) (client.AddPaymentResult, error) {
	f.mu.Lock()
	f.Payments = append(f.Payments, p)
	fn := f.PaymentFn
	f.mu.Unlock()

	if fn != nil {
		return fn(ctx, p)
	}
	return client.AddPaymentResult{Success: true}, nil
}

func (f *fakeClient) Ping(context.Context) error { return f.PingErr }
func (f *fakeClient) Close() error               { return nil }

func (f *fakeClient) createCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.Creates)
}

func (f *fakeClient) paymentCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.Payments)
}

// ---- fake operator source ----

type staticOperator struct {
	id  string
	err error
}

func (s staticOperator) ActiveOperatorID(context.Context) (string, bool, error) {
	return s.id, s.id != "", s.err
}
