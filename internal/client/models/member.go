// Package models defines the client-side records kept in the local durable
// store: members enrolled by the agent and the payments recorded for them.
package models

import "time"

// Member is a person enrolled by the field agent.
//
// Optional fields are pointers and are nil when the agent has not captured
// them yet; intake is often completed over several visits.
type Member struct {
	// LocalID is assigned by the local store and never reused.
	LocalID int64
	// RemoteID is the backend identity, nil until the first successful sync.
	RemoteID *int64
	// LocalUUID is generated on the device and acts as the idempotency key
	// for remote creation.
	LocalUUID string

	FirstName          *string
	LastName           *string
	Sex                *string
	BirthDate          *string // YYYY-MM-DD
	BirthPlace         *string
	Phone              *string
	Email              *string
	Address            *string
	Profession         *string
	Category           *string
	IDDocumentType     *string
	IDDocumentNumber   *string
	PhotoRef           *string
	IDDocumentPhotoRef *string

	IsSynced  bool
	CreatedAt time.Time
}

// MemberDraft holds what the enrollment form captured for a new member.
type MemberDraft struct {
	FirstName          *string
	LastName           *string
	Sex                *string
	BirthDate          *string
	BirthPlace         *string
	Phone              *string
	Email              *string
	Address            *string
	Profession         *string
	Category           *string
	IDDocumentType     *string
	IDDocumentNumber   *string
	PhotoRef           *string
	IDDocumentPhotoRef *string
}

// NewMember builds an unsynced member from a draft.
func NewMember(d MemberDraft, localUUID string, createdAt time.Time) *Member {
	return &Member{
		LocalUUID:          localUUID,
		FirstName:          d.FirstName,
		LastName:           d.LastName,
		Sex:                d.Sex,
		BirthDate:          d.BirthDate,
		BirthPlace:         d.BirthPlace,
		Phone:              d.Phone,
		Email:              d.Email,
		Address:            d.Address,
		Profession:         d.Profession,
		Category:           d.Category,
		IDDocumentType:     d.IDDocumentType,
		IDDocumentNumber:   d.IDDocumentNumber,
		PhotoRef:           d.PhotoRef,
		IDDocumentPhotoRef: d.IDDocumentPhotoRef,
		CreatedAt:          createdAt,
	}
}

// DisplayName joins the captured name parts.
func (m Member) DisplayName() string {
	switch {
	case m.FirstName != nil && m.LastName != nil:
		return *m.FirstName + " " + *m.LastName
	case m.LastName != nil:
		return *m.LastName
	case m.FirstName != nil:
		return *m.FirstName
	default:
		return ""
	}
}
