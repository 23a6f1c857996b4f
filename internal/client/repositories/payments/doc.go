// Package payments provides the client-side persistence layer for payments
// (cotisations) recorded by the agent.
//
// A payment row carries either adherent_id (the member's backend identity,
// when known at entry time) or local_adherent_id (a reference to a local
// member still waiting for sync). remote_id may stay NULL after sync: the
// backend is not required to return an identity for payments, and a synced
// payment without one is a valid, explicit state (is_synced = 1,
// remote_id IS NULL).
package payments
