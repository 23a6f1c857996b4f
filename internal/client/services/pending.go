package services

import (
	"context"

	"github.com/dmitrijs2005/fieldsync/internal/client/models"
	"github.com/dmitrijs2005/fieldsync/internal/client/store"
	"github.com/dmitrijs2005/fieldsync/internal/logging"
	"github.com/dmitrijs2005/fieldsync/internal/metrics"
)

// PendingObserver exposes live views of the work left for the next sync
// pass. Every channel emits the current value first and is closed when
// ctx is done.
type PendingObserver struct {
	store   *store.Store
	log     logging.Logger
	metrics *metrics.Metrics
}

func NewPendingObserver(s *store.Store, log logging.Logger, m *metrics.Metrics) *PendingObserver {
	return &PendingObserver{store: s, log: log.With("component", "pending"), metrics: m}
}

// PendingCount emits unsynced members plus unsynced payments after every
// change to either collection.
func (o *PendingObserver) PendingCount(ctx context.Context) <-chan int {
	return store.Watch(ctx, o.store.Feed(), o.log, o.count, store.CollectionMembers, store.CollectionPayments)
}

func (o *PendingObserver) PendingMembers(ctx context.Context) <-chan []models.Member {
	return o.store.ObserveUnsyncedMembers(ctx)
}

func (o *PendingObserver) PendingPayments(ctx context.Context) <-chan []models.Payment {
	return o.store.ObserveUnsyncedPayments(ctx)
}

func (o *PendingObserver) count(ctx context.Context) (int, error) {
	members, err := o.store.CountUnsyncedMembers(ctx)
	if err != nil {
		return 0, err
	}
	payments, err := o.store.CountUnsyncedPayments(ctx)
	if err != nil {
		return 0, err
	}

	o.metrics.SetPending("member", members)
	o.metrics.SetPending("payment", payments)
	return members + payments, nil
}
