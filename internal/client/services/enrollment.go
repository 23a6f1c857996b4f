package services

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/fieldsync/internal/client/models"
	"github.com/dmitrijs2005/fieldsync/internal/client/store"
	"github.com/dmitrijs2005/fieldsync/internal/common"
	"github.com/dmitrijs2005/fieldsync/internal/logging"
	"github.com/google/uuid"
)

// EnrollmentService is the write side used by the intake forms. Records it
// creates are unsynced until a sync pass picks them up.
type EnrollmentService struct {
	store   *store.Store
	log     logging.Logger
	newUUID func() string
	now     func() time.Time
}

func NewEnrollmentService(s *store.Store, log logging.Logger) *EnrollmentService {
	return &EnrollmentService{
		store:   s,
		log:     log.With("component", "enrollment"),
		newUUID: uuid.NewString,
		now:     time.Now,
	}
}

// EnrollMember stores a new member with a fresh local UUID.
func (e *EnrollmentService) EnrollMember(ctx context.Context, d models.MemberDraft) (int64, error) {
	m := models.NewMember(d, e.newUUID(), e.now().UTC())

	id, err := e.store.InsertMember(ctx, m)
	if err != nil {
		return 0, fmt.Errorf("member saving error: %w", err)
	}

	e.log.Info(ctx, "member enrolled", "local_id", id, "local_uuid", m.LocalUUID)
	return id, nil
}

// RecordPayment stores a payment for exactly one member reference. A
// local member that already has a backend identity is referenced by that
// identity.
func (e *EnrollmentService) RecordPayment(ctx context.Context, d models.PaymentDraft) (int64, error) {
	if d.Amount <= 0 {
		return 0, common.ErrInvalidAmount
	}

	switch {
	case d.AdherentID == nil && d.LocalAdherentID == nil:
		return 0, common.ErrNoMemberReference
	case d.AdherentID != nil && d.LocalAdherentID != nil:
		return 0, common.ErrAmbiguousMemberReference
	case d.LocalAdherentID != nil:
		m, ok, err := e.store.MemberByID(ctx, *d.LocalAdherentID)
		if err != nil {
			return 0, err
		}
		if !ok {
			return 0, fmt.Errorf("member %d: %w", *d.LocalAdherentID, common.ErrorNotFound)
		}
		if m.IsSynced && m.RemoteID != nil {
			d.AdherentID = models.Ptr(*m.RemoteID)
			d.LocalAdherentID = nil
		}
	}

	p := models.NewPayment(d, e.now().UTC())
	id, err := e.store.InsertPayment(ctx, p)
	if err != nil {
		return 0, fmt.Errorf("payment saving error: %w", err)
	}

	e.log.Info(ctx, "payment recorded", "local_id", id, "amount", p.Amount)
	return id, nil
}

func (e *EnrollmentService) ListMembers(ctx context.Context) ([]models.Member, error) {
	return e.store.ListMembers(ctx)
}

func (e *EnrollmentService) ListPayments(ctx context.Context) ([]models.Payment, error) {
	return e.store.ListPayments(ctx)
}
