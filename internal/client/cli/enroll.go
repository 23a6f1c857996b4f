package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/fieldsync/internal/client/models"
)

var getOptional = GetOptional
var getDate = GetDate
var getInt64 = GetInt64

// Enroll walks through the member intake form. Every field is optional;
// intake is often completed over several visits.
func (a *App) Enroll(ctx context.Context) error {
	var d models.MemberDraft

	fields := []struct {
		prompt string
		dst    **string
	}{
		{"First name", &d.FirstName},
		{"Last name", &d.LastName},
		{"Sex (M/F)", &d.Sex},
	}
	for _, f := range fields {
		v, err := getOptional(a.reader, f.prompt, a.out)
		if err != nil {
			return err
		}
		*f.dst = v
	}

	birthDate, err := getDate(a.reader, "Birth date", a.out)
	if err != nil {
		return err
	}
	d.BirthDate = birthDate

	fields = []struct {
		prompt string
		dst    **string
	}{
		{"Birth place", &d.BirthPlace},
		{"Phone", &d.Phone},
		{"Email", &d.Email},
		{"Address", &d.Address},
		{"Profession", &d.Profession},
		{"Category", &d.Category},
		{"ID document type", &d.IDDocumentType},
		{"ID document number", &d.IDDocumentNumber},
		{"Photo reference", &d.PhotoRef},
		{"ID document photo reference", &d.IDDocumentPhotoRef},
	}
	for _, f := range fields {
		v, err := getOptional(a.reader, f.prompt, a.out)
		if err != nil {
			return err
		}
		*f.dst = v
	}

	id, err := a.enrollment.EnrollMember(ctx, d)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Member saved with local id %d\n", id)
	return nil
}

// parseMemberRef reads "12" as a local member id and "#500" as a backend
// member id.
func parseMemberRef(s string) (local, remote *int64, err error) {
	s = strings.TrimSpace(s)
	if rest, ok := strings.CutPrefix(s, "#"); ok {
		n, err := strconv.ParseInt(rest, 10, 64)
		if err != nil {
			return nil, nil, fmt.Errorf("invalid server member id %q", rest)
		}
		return nil, &n, nil
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid member id %q", s)
	}
	return &n, nil, nil
}

// Pay records a payment for a local member or for a member already known
// to the backend.
func (a *App) Pay(ctx context.Context) error {
	ref, err := getSimpleText(a.reader, "Member (local id, or #server id)", a.out)
	if err != nil {
		return err
	}
	local, remote, err := parseMemberRef(ref)
	if err != nil {
		return err
	}

	amount, err := getInt64(a.reader, "Amount", a.out)
	if err != nil {
		return err
	}

	d := models.PaymentDraft{
		AdherentID:      remote,
		LocalAdherentID: local,
		Amount:          amount,
	}
	if d.Method, err = getOptional(a.reader, "Payment method", a.out); err != nil {
		return err
	}
	if d.Reference, err = getOptional(a.reader, "Reference", a.out); err != nil {
		return err
	}
	if d.PaidOn, err = getDate(a.reader, "Payment date", a.out); err != nil {
		return err
	}
	if d.ReceiptPhoto, err = getOptional(a.reader, "Receipt photo reference", a.out); err != nil {
		return err
	}

	id, err := a.enrollment.RecordPayment(ctx, d)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Payment saved with local id %d\n", id)
	return nil
}
