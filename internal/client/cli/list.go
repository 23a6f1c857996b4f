package cli

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/dmitrijs2005/fieldsync/internal/client/models"
)

func orDash(s *string) string {
	if s == nil || *s == "" {
		return "-"
	}
	return *s
}

func idOrDash(id *int64) string {
	if id == nil {
		return "-"
	}
	return strconv.FormatInt(*id, 10)
}

func syncedMark(synced bool) string {
	if synced {
		return "yes"
	}
	return "no"
}

func printMembers(w io.Writer, members []models.Member) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "LOCAL\tSERVER\tNAME\tPHONE\tSYNCED")
	for _, m := range members {
		name := m.DisplayName()
		if name == "" {
			name = "-"
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n", m.LocalID, idOrDash(m.RemoteID), name, orDash(m.Phone), syncedMark(m.IsSynced))
	}
	_ = tw.Flush()
}

func printPayments(w io.Writer, payments []models.Payment) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "LOCAL\tSERVER\tMEMBER\tAMOUNT\tMETHOD\tDATE\tSYNCED")
	for _, p := range payments {
		member := idOrDash(p.AdherentID)
		if p.AdherentID == nil && p.LocalAdherentID != nil {
			member = "local:" + strconv.FormatInt(*p.LocalAdherentID, 10)
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%d\t%s\t%s\t%s\n",
			p.LocalID, idOrDash(p.RemoteID), member, p.Amount, orDash(p.Method), orDash(p.PaidOn), syncedMark(p.IsSynced))
	}
	_ = tw.Flush()
}

func (a *App) Members(ctx context.Context) error {
	members, err := a.enrollment.ListMembers(ctx)
	if err != nil {
		return err
	}
	if len(members) == 0 {
		fmt.Fprintln(a.out, "No members")
		return nil
	}
	printMembers(a.out, members)
	return nil
}

func (a *App) Payments(ctx context.Context) error {
	payments, err := a.enrollment.ListPayments(ctx)
	if err != nil {
		return err
	}
	if len(payments) == 0 {
		fmt.Fprintln(a.out, "No payments")
		return nil
	}
	printPayments(a.out, payments)
	return nil
}

// Pending prints a snapshot of the records waiting for sync.
func (a *App) Pending(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	members, ok := <-a.pending.PendingMembers(ctx)
	if !ok {
		return ctx.Err()
	}
	payments, ok := <-a.pending.PendingPayments(ctx)
	if !ok {
		return ctx.Err()
	}

	if len(members)+len(payments) == 0 {
		fmt.Fprintln(a.out, "Nothing to sync")
		return nil
	}
	if len(members) > 0 {
		fmt.Fprintf(a.out, "Members waiting for sync: %d\n", len(members))
		printMembers(a.out, members)
	}
	if len(payments) > 0 {
		fmt.Fprintf(a.out, "Payments waiting for sync: %d\n", len(payments))
		printPayments(a.out, payments)
	}
	return nil
}
