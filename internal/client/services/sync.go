package services

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/dmitrijs2005/fieldsync/internal/common"
	"github.com/dmitrijs2005/fieldsync/internal/logging"
	"github.com/dmitrijs2005/fieldsync/internal/metrics"
)

type Status string

const (
	StatusCompleted  Status = "completed"
	StatusPartial    Status = "partial"
	StatusNoOperator Status = "no_operator"
	StatusInProgress Status = "in_progress"
	StatusAborted    Status = "aborted"
)

// Counts aggregates outcomes for one entity.
type Counts struct {
	Synced  int
	Failed  int
	Skipped int
}

func (c *Counts) add(o Outcome) {
	switch o {
	case OutcomeSynced:
		c.Synced++
	case OutcomeFailed:
		c.Failed++
	case OutcomeSkipped:
		c.Skipped++
	}
}

// Left is the number of records the pass attempted but left pending.
func (c Counts) Left() int {
	return c.Failed + c.Skipped
}

// Report summarizes one sync pass for the UI.
type Report struct {
	Status    Status
	Members   Counts
	Payments  Counts
	StartedAt time.Time
	Duration  time.Duration
	// Err is set for no_operator, in_progress and aborted passes.
	Err error
}

func (r Report) String() string {
	switch r.Status {
	case StatusCompleted, StatusPartial:
		return fmt.Sprintf("%s in %s: members %d synced, %d failed, %d skipped; payments %d synced, %d failed, %d skipped",
			r.Status, r.Duration.Round(time.Millisecond),
			r.Members.Synced, r.Members.Failed, r.Members.Skipped,
			r.Payments.Synced, r.Payments.Failed, r.Payments.Skipped)
	default:
		if r.Err != nil {
			return fmt.Sprintf("%s: %v", r.Status, r.Err)
		}
		return string(r.Status)
	}
}

// OperatorSource yields the operator a sync pass acts for.
type OperatorSource interface {
	ActiveOperatorID(ctx context.Context) (string, bool, error)
}

// SyncService runs sync passes. At most one pass runs at a time; a second
// caller gets StatusInProgress immediately.
type SyncService struct {
	store      SyncStore
	operators  OperatorSource
	reconciler *Reconciler
	log        logging.Logger
	metrics    *metrics.Metrics
	running    atomic.Bool
	now        func() time.Time
}

func NewSyncService(s SyncStore, operators OperatorSource, r *Reconciler, log logging.Logger, m *metrics.Metrics) *SyncService {
	return &SyncService{
		store:      s,
		operators:  operators,
		reconciler: r,
		log:        log.With("component", "sync"),
		metrics:    m,
		now:        time.Now,
	}
}

// Running reports whether a pass is in flight.
func (s *SyncService) Running() bool {
	return s.running.Load()
}

// SyncAll pushes every pending member, then every pending payment. One
// failing record never stops the pass. Canceling ctx stops it before the
// next record; records already synced stay synced.
func (s *SyncService) SyncAll(ctx context.Context) (rep Report) {
	rep.StartedAt = s.now()

	if !s.running.CompareAndSwap(false, true) {
		s.log.Debug(ctx, "sync pass already running")
		return Report{Status: StatusInProgress, StartedAt: rep.StartedAt, Err: common.ErrSyncInProgress}
	}
	defer s.running.Store(false)

	defer func() {
		if rec := recover(); rec != nil {
			rep.Status = StatusAborted
			rep.Err = fmt.Errorf("sync pass panic: %v", rec)
			s.log.Error(ctx, "sync pass aborted", "error", rep.Err)
		}
		rep.Duration = s.now().Sub(rep.StartedAt)
		s.metrics.ObservePass(string(rep.Status), rep.Duration)
	}()

	operatorID, ok, err := s.operators.ActiveOperatorID(ctx)
	if err != nil {
		return s.abort(ctx, rep, fmt.Errorf("load operator: %w", err))
	}
	if !ok {
		s.log.Warn(ctx, "sync skipped, no active operator")
		rep.Status = StatusNoOperator
		rep.Err = common.ErrNoActiveOperator
		return rep
	}

	s.log.Info(ctx, "sync pass started", "operator_id", operatorID)

	members, err := s.store.UnsyncedMembers(ctx)
	if err != nil {
		return s.abort(ctx, rep, fmt.Errorf("load pending members: %w", err))
	}
	for _, m := range members {
		if err := ctx.Err(); err != nil {
			return s.abort(ctx, rep, err)
		}
		o := s.reconciler.ReconcileMember(ctx, m, operatorID)
		rep.Members.add(o)
		s.metrics.RecordOutcome("member", o.String())
	}

	payments, err := s.store.UnsyncedPayments(ctx)
	if err != nil {
		return s.abort(ctx, rep, fmt.Errorf("load pending payments: %w", err))
	}
	for _, p := range payments {
		if err := ctx.Err(); err != nil {
			return s.abort(ctx, rep, err)
		}
		o := s.reconciler.ReconcilePayment(ctx, p)
		rep.Payments.add(o)
		s.metrics.RecordOutcome("payment", o.String())
	}

	rep.Status = StatusCompleted
	if rep.Members.Left()+rep.Payments.Left() > 0 {
		rep.Status = StatusPartial
	}

	s.log.Info(ctx, "sync pass finished",
		"status", rep.Status,
		"members_synced", rep.Members.Synced,
		"members_left", rep.Members.Left(),
		"payments_synced", rep.Payments.Synced,
		"payments_left", rep.Payments.Left(),
	)
	return rep
}

func (s *SyncService) abort(ctx context.Context, rep Report, err error) Report {
	rep.Status = StatusAborted
	rep.Err = err
	s.log.Error(ctx, "sync pass aborted", "error", err)
	return rep
}
