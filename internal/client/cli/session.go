package cli

import (
	"context"
	"errors"
	"fmt"
)

// getSimpleText and getSecret are indirections used to facilitate testing.
var getSimpleText = GetSimpleText
var getSecret = GetSecret

// Login reads the access token issued by the backend and starts a session
// for the operator named in it.
func (a *App) Login(ctx context.Context) error {
	token, err := getSecret(a.out, "Enter access token: ")
	if err != nil {
		return err
	}
	if token == "" {
		return errors.New("empty token")
	}

	operatorID, err := a.session.StartSession(ctx, token)
	if err != nil {
		return err
	}
	a.setOperator(operatorID)

	fmt.Fprintf(a.out, "Logged in as operator %s\n", operatorID)
	return nil
}

// Logout ends the session. Pending records are kept and sync after the
// next login.
func (a *App) Logout(ctx context.Context) error {
	if err := a.session.EndSession(ctx); err != nil {
		return err
	}
	a.setOperator("")

	if n := a.pendingCount.Load(); n > 0 {
		fmt.Fprintf(a.out, "Logged out, %d records stay pending until the next login\n", n)
		return nil
	}
	fmt.Fprintln(a.out, "Logged out")
	return nil
}
