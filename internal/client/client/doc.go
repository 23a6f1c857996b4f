// Package client contains the remote gateway used by the sync pipeline.
//
// # Overview
//
// The package provides:
//  1. A transport-agnostic contract (see the Client interface) with the two
//     operations the pipeline needs, CreateMember and AddPayment, plus Ping
//     for connectivity checks.
//  2. A REST/JSON implementation (see HTTPClient) that attaches the bearer
//     token of the active session, sends the member's local UUID as the
//     Idempotency-Key header and maps transport failures and HTTP statuses
//     to sentinel errors.
//
// # Error Handling
//
// Common conditions are exposed as sentinel errors that callers can match with
// errors.Is: ErrUnavailable, ErrUnauthorized, ErrMalformedResponse.
//
// Concurrency & Contexts
//
// HTTPClient is safe for concurrent use. All operations accept
// context.Context and honor cancellation and deadlines.
package client
