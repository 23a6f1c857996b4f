package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/fieldsync/internal/client/services"
)

const pingTimeout = 3 * time.Second

// Sync runs a pass in the foreground and prints its summary.
func (a *App) Sync(ctx context.Context) error {
	rep := a.syncer.SyncAll(ctx)
	fmt.Fprintln(a.out, "Sync", rep.String())
	switch rep.Status {
	case services.StatusNoOperator:
		fmt.Fprintln(a.out, "Log in first, sync needs an active operator")
	case services.StatusAborted:
		return rep.Err
	}
	return nil
}

// StartOnlineStatusWatcher probes the backend every interval and keeps the
// mode current. Going online triggers a sync pass; while online, a pass
// also runs every autoSync (0 disables the timer).
func (a *App) StartOnlineStatusWatcher(ctx context.Context, interval, autoSync time.Duration) {
	if interval <= 0 {
		a.log.Warn(ctx, "online watcher disabled, non-positive check interval", "interval", interval)
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	var autoC <-chan time.Time
	if autoSync > 0 {
		t := time.NewTicker(autoSync)
		defer t.Stop()
		autoC = t.C
	}

	a.checkOnline(ctx)

	for {
		select {
		case <-ticker.C:
			a.checkOnline(ctx)
		case <-autoC:
			if a.currentMode() == ModeOnline {
				a.backgroundSync(ctx, "timer")
			}
		case <-ctx.Done():
			return
		}
	}
}

func (a *App) checkOnline(ctx context.Context) {
	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	err := a.gateway.Ping(pingCtx)
	cancel()

	if err != nil {
		if ctx.Err() == nil {
			a.setMode(ModeOffline)
		}
		return
	}
	if a.setMode(ModeOnline) {
		a.backgroundSync(ctx, "reconnect")
	}
}

func (a *App) backgroundSync(ctx context.Context, reason string) {
	if !a.isLoggedIn() || a.pendingCount.Load() == 0 {
		return
	}

	rep := a.syncer.SyncAll(ctx)
	if rep.Status == services.StatusInProgress {
		return
	}
	a.log.Info(ctx, "background sync finished", "reason", reason, "status", rep.Status)
	if rep.Members.Synced+rep.Payments.Synced > 0 || rep.Status == services.StatusAborted {
		fmt.Fprintln(a.out, "Background sync", rep.String())
	}
}
