package store

import (
	"context"

	"github.com/dmitrijs2005/fieldsync/internal/client/models"
	"github.com/dmitrijs2005/fieldsync/internal/logging"
)

// Watch recomputes load after every change to the given collections and
// sends the result on the returned channel. The first value reflects the
// state at subscription time. The channel is closed when ctx is done.
//
// A failed load is logged and skipped; the next change triggers a retry.
func Watch[T any](ctx context.Context, feed *Feed, log logging.Logger, load func(context.Context) (T, error), collections ...Collection) <-chan T {
	signals := feed.Subscribe(ctx, collections...)
	out := make(chan T)

	go func() {
		defer close(out)
		for range signals {
			v, err := load(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				log.Error(ctx, "failed to refresh observed value", "error", err)
				continue
			}
			select {
			case out <- v:
			case <-ctx.Done():
				return
			}
		}
	}()

	return out
}

func (s *Store) ObserveUnsyncedMemberCount(ctx context.Context) <-chan int {
	return Watch(ctx, s.feed, s.log, s.members.CountUnsynced, CollectionMembers)
}

func (s *Store) ObserveUnsyncedMembers(ctx context.Context) <-chan []models.Member {
	return Watch(ctx, s.feed, s.log, s.members.GetUnsynced, CollectionMembers)
}

func (s *Store) ObserveUnsyncedPaymentCount(ctx context.Context) <-chan int {
	return Watch(ctx, s.feed, s.log, s.payments.CountUnsynced, CollectionPayments)
}

func (s *Store) ObserveUnsyncedPayments(ctx context.Context) <-chan []models.Payment {
	return Watch(ctx, s.feed, s.log, s.payments.GetUnsynced, CollectionPayments)
}
