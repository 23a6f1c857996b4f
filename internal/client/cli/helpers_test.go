package cli

import (
	"bufio"
	"bytes"
	"context"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/fieldsync/internal/client/client"
	"github.com/dmitrijs2005/fieldsync/internal/client/config"
	"github.com/dmitrijs2005/fieldsync/internal/client/models"
	"github.com/dmitrijs2005/fieldsync/internal/client/services"
	"github.com/dmitrijs2005/fieldsync/internal/client/store"
	"github.com/dmitrijs2005/fieldsync/internal/logging"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

// ------------ helpers ------------

// syncBuffer is a bytes.Buffer safe for the watcher goroutine.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

type fakeGateway struct {
	mu      sync.Mutex
	pingErr error
	creates int
	pays    int
}

func (f *fakeGateway) CreateMember(_ context.Context, _ string, _ client.MemberPayload) (client.CreateMemberResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.creates++
	return client.CreateMemberResult{Success: true, RemoteID: int64(500 + f.creates - 1)}, nil
}

func (f *fakeGateway) AddPayment(_ context.Context, _ client.PaymentPayload) (client.AddPaymentResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pays++
	return client.AddPaymentResult{Success: true}, nil
}

func (f *fakeGateway) Ping(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.pingErr
}

func (f *fakeGateway) Close() error { return nil }

func (f *fakeGateway) setPingErr(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pingErr = err
}

func (f *fakeGateway) createCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.creates
}

func readerFromLines(lines ...string) *bufio.Reader {
	return bufio.NewReader(strings.NewReader(strings.Join(lines, "\n") + "\n"))
}

func newTestApp(t *testing.T, gw client.Client, lines ...string) (*App, *syncBuffer) {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := store.InitDatabase(context.Background(), store.MemoryDSN(name))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	log := logging.Discard()
	st := store.New(db, log)
	session := services.NewSessionService(db, log)
	rec := services.NewReconciler(st, gw, time.Second, log)

	out := &syncBuffer{}
	a := &App{
		config: &config.Config{
			OnlineCheckInterval: 10 * time.Millisecond,
			RequestTimeout:      time.Second,
		},
		log:        log,
		db:         db,
		gateway:    gw,
		session:    session,
		enrollment: services.NewEnrollmentService(st, log),
		syncer:     services.NewSyncService(st, session, rec, log, nil),
		pending:    services.NewPendingObserver(st, log, nil),
		reader:     readerFromLines(lines...),
		out:        out,
		mode:       ModeOffline,
	}
	a.pendingCount.Store(-1)
	return a, out
}

func makeToken(t *testing.T, operatorID string) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"agent_id": operatorID}).
		SignedString([]byte("secret"))
	require.NoError(t, err)
	return token
}

func stubSecret(t *testing.T, value string) {
	t.Helper()
	orig := getSecret
	getSecret = func(_ io.Writer, _ string) (string, error) { return value, nil }
	t.Cleanup(func() { getSecret = orig })
}

func login(t *testing.T, a *App, operatorID string) {
	t.Helper()
	stubSecret(t, makeToken(t, operatorID))
	require.NoError(t, a.Login(context.Background()))
}

func memberDraft(firstName string) models.MemberDraft {
	return models.MemberDraft{FirstName: &firstName}
}
