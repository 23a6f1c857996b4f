package services

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/fieldsync/internal/client/client"
	"github.com/dmitrijs2005/fieldsync/internal/client/models"
	"github.com/dmitrijs2005/fieldsync/internal/logging"
)

// Outcome is the result of reconciling one record.
type Outcome int

const (
	OutcomeSynced Outcome = iota
	OutcomeFailed
	OutcomeSkipped
)

func (o Outcome) String() string {
	switch o {
	case OutcomeSynced:
		return "synced"
	case OutcomeFailed:
		return "failed"
	case OutcomeSkipped:
		return "skipped"
	default:
		return "unknown"
	}
}

// SyncStore is the part of the local store the sync pipeline needs.
type SyncStore interface {
	UnsyncedMembers(ctx context.Context) ([]models.Member, error)
	UnsyncedPayments(ctx context.Context) ([]models.Payment, error)
	MemberByID(ctx context.Context, localID int64) (*models.Member, bool, error)
	MarkMemberSynced(ctx context.Context, localID, remoteID int64) error
	MarkPaymentSynced(ctx context.Context, localID int64, remoteID *int64) error
}

// Reconciler moves single records from pending to synced. It never returns
// an error: every failure is logged and reported as an Outcome, and the
// record stays pending for the next pass.
type Reconciler struct {
	store   SyncStore
	client  client.Client
	timeout time.Duration
	log     logging.Logger
}

// NewReconciler builds a Reconciler. A positive timeout bounds every
// backend call.
func NewReconciler(s SyncStore, c client.Client, timeout time.Duration, log logging.Logger) *Reconciler {
	return &Reconciler{store: s, client: c, timeout: timeout, log: log.With("component", "reconcile")}
}

func memberPayload(m models.Member) client.MemberPayload {
	var enrolledAt *time.Time
	if !m.CreatedAt.IsZero() {
		t := m.CreatedAt.UTC()
		enrolledAt = &t
	}
	return client.MemberPayload{
		LocalUUID:          m.LocalUUID,
		FirstName:          m.FirstName,
		LastName:           m.LastName,
		Sex:                m.Sex,
		BirthDate:          m.BirthDate,
		BirthPlace:         m.BirthPlace,
		Phone:              m.Phone,
		Email:              m.Email,
		Address:            m.Address,
		Profession:         m.Profession,
		Category:           m.Category,
		IDDocumentType:     m.IDDocumentType,
		IDDocumentNumber:   m.IDDocumentNumber,
		PhotoRef:           m.PhotoRef,
		IDDocumentPhotoRef: m.IDDocumentPhotoRef,
		EnrolledAt:         enrolledAt,
	}
}

func paymentPayload(p models.Payment, adherentID int64) client.PaymentPayload {
	return client.PaymentPayload{
		AdherentID:   adherentID,
		Reference:    p.Reference,
		Amount:       p.Amount,
		Method:       p.Method,
		ReceiptPhoto: p.ReceiptPhoto,
		PaidOn:       p.PaidOn,
	}
}

// ReconcileMember creates m on the backend under operatorID and records
// the returned identity.
func (r *Reconciler) ReconcileMember(ctx context.Context, m models.Member, operatorID string) Outcome {
	log := r.log.With("entity", "member", "local_id", m.LocalID, "local_uuid", m.LocalUUID)

	res, err := callRemote(ctx, r.timeout, func(ctx context.Context) (client.CreateMemberResult, error) {
		return r.client.CreateMember(ctx, operatorID, memberPayload(m))
	})
	if err != nil {
		log.Warn(ctx, "member sync failed", "error", err)
		return OutcomeFailed
	}
	if !res.Success || res.RemoteID == 0 {
		log.Warn(ctx, "member rejected by backend", "message", res.Message, "remote_id", res.RemoteID)
		return OutcomeFailed
	}

	// The backend has the member now; record it even if the pass is canceled.
	if err := r.store.MarkMemberSynced(context.WithoutCancel(ctx), m.LocalID, res.RemoteID); err != nil {
		log.Error(ctx, "failed to mark member synced", "remote_id", res.RemoteID, "error", err)
		return OutcomeFailed
	}

	log.Info(ctx, "member synced", "remote_id", res.RemoteID)
	return OutcomeSynced
}

// ReconcilePayment resolves the payment's backend member identity, which
// may have been assigned earlier in the same pass, and registers it.
func (r *Reconciler) ReconcilePayment(ctx context.Context, p models.Payment) Outcome {
	log := r.log.With("entity", "payment", "local_id", p.LocalID)

	adherentID, outcome, ok := r.resolveMember(ctx, log, p)
	if !ok {
		return outcome
	}

	res, err := callRemote(ctx, r.timeout, func(ctx context.Context) (client.AddPaymentResult, error) {
		return r.client.AddPayment(ctx, paymentPayload(p, adherentID))
	})
	if err != nil {
		log.Warn(ctx, "payment sync failed", "adherent_id", adherentID, "error", err)
		return OutcomeFailed
	}
	if !res.Success {
		log.Warn(ctx, "payment rejected by backend", "adherent_id", adherentID, "message", res.Message)
		return OutcomeFailed
	}

	if err := r.store.MarkPaymentSynced(context.WithoutCancel(ctx), p.LocalID, res.RemoteID); err != nil {
		log.Error(ctx, "failed to mark payment synced", "error", err)
		return OutcomeFailed
	}

	log.Info(ctx, "payment synced", "adherent_id", adherentID)
	return OutcomeSynced
}

func (r *Reconciler) resolveMember(ctx context.Context, log logging.Logger, p models.Payment) (int64, Outcome, bool) {
	if p.AdherentID != nil {
		return *p.AdherentID, OutcomeSynced, true
	}
	if p.LocalAdherentID == nil {
		log.Warn(ctx, "payment has no member reference, skipping")
		return 0, OutcomeSkipped, false
	}

	m, found, err := r.store.MemberByID(ctx, *p.LocalAdherentID)
	if err != nil {
		log.Error(ctx, "failed to load member of payment", "local_adherent_id", *p.LocalAdherentID, "error", err)
		return 0, OutcomeFailed, false
	}
	if !found || !m.IsSynced || m.RemoteID == nil {
		log.Warn(ctx, "member of payment not synced yet, skipping", "local_adherent_id", *p.LocalAdherentID)
		return 0, OutcomeSkipped, false
	}
	return *m.RemoteID, OutcomeSynced, true
}

// callRemote runs fn under the per-request timeout and turns a panic in the
// gateway into an error.
func callRemote[T any](ctx context.Context, timeout time.Duration, fn func(context.Context) (T, error)) (res T, err error) {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("gateway panic: %v", rec)
		}
	}()

	return fn(ctx)
}
