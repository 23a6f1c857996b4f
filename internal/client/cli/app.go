package cli

import (
	"bufio"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dmitrijs2005/fieldsync/internal/client/client"
	"github.com/dmitrijs2005/fieldsync/internal/client/config"
	"github.com/dmitrijs2005/fieldsync/internal/client/services"
	"github.com/dmitrijs2005/fieldsync/internal/client/store"
	"github.com/dmitrijs2005/fieldsync/internal/filex"
	"github.com/dmitrijs2005/fieldsync/internal/logging"
	"github.com/dmitrijs2005/fieldsync/internal/metrics"
	"golang.org/x/sync/errgroup"
)

type Mode string

const (
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

// syncer is the part of SyncService the client drives.
type syncer interface {
	SyncAll(ctx context.Context) services.Report
}

type App struct {
	config     *config.Config
	log        logging.Logger
	db         *sql.DB
	gateway    client.Client
	session    services.SessionService
	enrollment *services.EnrollmentService
	syncer     syncer
	pending    *services.PendingObserver
	metrics    *metrics.Metrics

	reader *bufio.Reader
	out    io.Writer

	mu         sync.Mutex
	mode       Mode
	operatorID string

	// pendingCount is -1 until the first value arrives.
	pendingCount atomic.Int64
}

func NewApp(ctx context.Context, c *config.Config, log logging.Logger) (*App, error) {
	dbPath, err := filex.EnsureParentDir(c.DatabasePath)
	if err != nil {
		return nil, err
	}

	db, err := store.InitDatabase(ctx, store.FileDSN(dbPath))
	if err != nil {
		return nil, fmt.Errorf("error initializing database: %w", err)
	}

	m := metrics.New()
	session := services.NewSessionService(db, log)

	gw, err := client.NewHTTPClient(c.ServerBaseURL,
		client.WithHTTPClient(&http.Client{Transport: m.InstrumentRoundTripper(nil)}),
		client.WithTokenFunc(session.AccessToken),
	)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	st := store.New(db, log)
	reconciler := services.NewReconciler(st, gw, c.RequestTimeout, log)

	a := &App{
		config:     c,
		log:        log.With("component", "cli"),
		db:         db,
		gateway:    gw,
		session:    session,
		enrollment: services.NewEnrollmentService(st, log),
		syncer:     services.NewSyncService(st, session, reconciler, log, m),
		pending:    services.NewPendingObserver(st, log, m),
		metrics:    m,
		reader:     bufio.NewReader(os.Stdin),
		out:        os.Stdout,
		mode:       ModeOffline,
	}
	a.pendingCount.Store(-1)

	if id, ok, err := session.ActiveOperatorID(ctx); err == nil && ok {
		a.operatorID = id
	}
	return a, nil
}

// Close releases the gateway and the database.
func (a *App) Close() error {
	return errors.Join(a.gateway.Close(), a.db.Close())
}

func (a *App) setMode(mode Mode) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.mode == mode {
		return false
	}
	a.mode = mode
	a.metrics.SetOnline(mode == ModeOnline)
	fmt.Fprintf(a.out, "Switched to %s mode\n", mode)
	return true
}

func (a *App) currentMode() Mode {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.mode
}

func (a *App) setOperator(id string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.operatorID = id
}

func (a *App) isLoggedIn() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.operatorID != ""
}

func (a *App) getStatus() string {
	a.mu.Lock()
	s := ""
	if a.operatorID != "" {
		s = a.operatorID + " "
	}
	if a.mode != "" {
		s += string(a.mode)
	}
	a.mu.Unlock()

	if n := a.pendingCount.Load(); n > 0 {
		s += fmt.Sprintf(", %d pending", n)
	}
	if s != "" {
		s = fmt.Sprintf("(%s)", s)
	}
	return s
}

// trackPending keeps the prompt's pending counter current.
func (a *App) trackPending(ctx context.Context) {
	for n := range a.pending.PendingCount(ctx) {
		a.pendingCount.Store(int64(n))
	}
}

func (a *App) serveMetrics(ctx context.Context) error {
	srv := metrics.NewServer(a.config.MetricsAddr, a.metrics)

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	a.log.Info(ctx, "metrics endpoint listening", "addr", a.config.MetricsAddr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("metrics server: %w", err)
	}
	return nil
}

// Run starts the background workers and blocks in the REPL until the user
// exits or ctx is canceled.
func (a *App) Run(ctx context.Context) error {
	defer a.Close()

	ctx, cancel := context.WithCancel(ctx)
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		a.StartOnlineStatusWatcher(gctx, a.config.OnlineCheckInterval, a.config.AutoSyncInterval)
		return nil
	})
	g.Go(func() error {
		a.trackPending(gctx)
		return nil
	})
	if a.config.MetricsAddr != "" {
		g.Go(func() error { return a.serveMetrics(gctx) })
	}

	fmt.Fprintln(a.out, "Welcome to fieldsync (type 'help' for commands)")
	if !a.isLoggedIn() {
		fmt.Fprintln(a.out, "No active session, use 'login' to start one")
	}

	runREPL(gctx, a, a.getStatus, a.reader)

	cancel()
	return g.Wait()
}
