package client

import (
	"context"
	"time"
)

// Client is the remote gateway the sync pipeline talks to.
type Client interface {
	// CreateMember registers a member under the operator. The payload's
	// LocalUUID is sent as the idempotency key so a retried create returns
	// the member created the first time.
	CreateMember(ctx context.Context, operatorID string, m MemberPayload) (CreateMemberResult, error)
	// AddPayment registers a payment against a member already known to
	// the backend.
	AddPayment(ctx context.Context, p PaymentPayload) (AddPaymentResult, error)
	Ping(ctx context.Context) error
	Close() error
}

// MemberPayload is the body of a create-member request.
type MemberPayload struct {
	LocalUUID          string  `json:"localUuid"`
	FirstName          *string `json:"prenom,omitempty"`
	LastName           *string `json:"nom,omitempty"`
	Sex                *string `json:"sexe,omitempty"`
	BirthDate          *string `json:"dateNaissance,omitempty"`
	BirthPlace         *string `json:"lieuNaissance,omitempty"`
	Phone              *string `json:"telephone,omitempty"`
	Email              *string `json:"email,omitempty"`
	Address            *string `json:"adresse,omitempty"`
	Profession         *string `json:"profession,omitempty"`
	Category           *string `json:"categorie,omitempty"`
	IDDocumentType     *string `json:"typePiece,omitempty"`
	IDDocumentNumber   *string `json:"numeroPiece,omitempty"`
	PhotoRef           *string `json:"photo,omitempty"`
	IDDocumentPhotoRef *string `json:"photoPiece,omitempty"`
	// EnrolledAt is when the agent enrolled the member on the device.
	EnrolledAt *time.Time `json:"dateEnrolement,omitempty"`
}

// PaymentPayload is the body of an add-payment request. AdherentID is
// always the backend member identity.
type PaymentPayload struct {
	AdherentID   int64   `json:"adherentId"`
	Reference    *string `json:"reference,omitempty"`
	Amount       int64   `json:"montant"`
	Method       *string `json:"modePaiement,omitempty"`
	ReceiptPhoto *string `json:"photoPaiement,omitempty"`
	PaidOn       *string `json:"datePaiement,omitempty"`
}

type CreateMemberResult struct {
	Success  bool
	RemoteID int64
	Message  string
}

// AddPaymentResult reports an accepted payment. RemoteID is nil when the
// backend does not return an identity.
type AddPaymentResult struct {
	Success  bool
	RemoteID *int64
	Message  string
}
