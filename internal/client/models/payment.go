package models

import "time"

// Payment is a contribution recorded for a member.
//
// A payment references its member either by the backend identity
// (AdherentID) when it is already known, or by the local member record
// (LocalAdherentID) while that member is still waiting for sync.
type Payment struct {
	LocalID int64
	// RemoteID stays nil when the backend does not return an identity for
	// payments; IsSynced alone records that the payment was accepted.
	RemoteID *int64

	AdherentID      *int64
	LocalAdherentID *int64

	Reference    *string
	Amount       int64
	Method       *string
	ReceiptPhoto *string
	PaidOn       *string // YYYY-MM-DD

	IsSynced  bool
	CreatedAt time.Time
}

// PaymentDraft holds what the payment form captured.
type PaymentDraft struct {
	AdherentID      *int64
	LocalAdherentID *int64
	Reference       *string
	Amount          int64
	Method          *string
	ReceiptPhoto    *string
	PaidOn          *string
}

// NewPayment builds an unsynced payment from a draft.
func NewPayment(d PaymentDraft, createdAt time.Time) *Payment {
	return &Payment{
		AdherentID:      d.AdherentID,
		LocalAdherentID: d.LocalAdherentID,
		Reference:       d.Reference,
		Amount:          d.Amount,
		Method:          d.Method,
		ReceiptPhoto:    d.ReceiptPhoto,
		PaidOn:          d.PaidOn,
		CreatedAt:       createdAt,
	}
}

// Ptr returns a pointer to v. Handy for optional fields in literals.
func Ptr[T any](v T) *T {
	return &v
}
