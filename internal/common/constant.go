package common

const (
	// AuthorizationHeaderName carries the operator's bearer token.
	AuthorizationHeaderName = "Authorization"

	// IdempotencyKeyHeaderName carries the member's local UUID so the backend
	// can detect retried creates.
	IdempotencyKeyHeaderName = "Idempotency-Key"
)
