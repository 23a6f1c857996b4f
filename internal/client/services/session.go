package services

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"

	"github.com/dmitrijs2005/fieldsync/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/fieldsync/internal/common"
	"github.com/dmitrijs2005/fieldsync/internal/dbx"
	"github.com/dmitrijs2005/fieldsync/internal/logging"
	"github.com/golang-jwt/jwt/v5"
)

const (
	metaOperatorID  = "session.operator_id"
	metaAccessToken = "session.access_token"

	operatorClaim = "agent_id"
)

// SessionService manages the operator session of the device.
//
// Contract:
//   - StartSession: read the operator id from a backend-issued token and
//     persist both.
//   - ActiveOperatorID: the operator the sync pass acts for, if any.
//   - AccessToken: bearer token for backend calls, empty without a session.
//   - EndSession: forget the session.
type SessionService interface {
	StartSession(ctx context.Context, token string) (string, error)
	ActiveOperatorID(ctx context.Context) (string, bool, error)
	AccessToken(ctx context.Context) (string, error)
	EndSession(ctx context.Context) error
}

type sessionService struct {
	db  *sql.DB
	log logging.Logger
}

func NewSessionService(db *sql.DB, log logging.Logger) SessionService {
	return &sessionService{db: db, log: log.With("component", "session")}
}

// OperatorFromToken extracts the operator id from the token claims. The
// signature is checked by the backend on every call, not here.
func OperatorFromToken(token string) (string, error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return "", fmt.Errorf("%w: %v", common.ErrInvalidToken, err)
	}

	switch v := claims[operatorClaim].(type) {
	case string:
		if v != "" {
			return v, nil
		}
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), nil
	}

	sub, err := claims.GetSubject()
	if err != nil || sub == "" {
		return "", fmt.Errorf("%w: no operator claim", common.ErrInvalidToken)
	}
	return sub, nil
}

func (s *sessionService) StartSession(ctx context.Context, token string) (string, error) {
	operatorID, err := OperatorFromToken(token)
	if err != nil {
		return "", err
	}

	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := metadata.NewSQLiteRepository(tx)
		if err := repo.Set(ctx, metaOperatorID, operatorID); err != nil {
			return err
		}
		return repo.Set(ctx, metaAccessToken, token)
	})
	if err != nil {
		return "", fmt.Errorf("session saving error: %w", err)
	}

	s.log.Info(ctx, "session started", "operator_id", operatorID)
	return operatorID, nil
}

func (s *sessionService) ActiveOperatorID(ctx context.Context) (string, bool, error) {
	id, ok, err := metadata.NewSQLiteRepository(s.db).Get(ctx, metaOperatorID)
	if err != nil {
		return "", false, err
	}
	if !ok || id == "" {
		return "", false, nil
	}
	return id, true, nil
}

func (s *sessionService) AccessToken(ctx context.Context) (string, error) {
	token, _, err := metadata.NewSQLiteRepository(s.db).Get(ctx, metaAccessToken)
	return token, err
}

func (s *sessionService) EndSession(ctx context.Context) error {
	if err := metadata.NewSQLiteRepository(s.db).Delete(ctx, metaOperatorID, metaAccessToken); err != nil {
		return err
	}
	s.log.Info(ctx, "session ended")
	return nil
}
