// Package cli provides the interactive terminal client used by field agents.
//
// It wires configuration, the local store, the backend gateway and the sync
// services, then runs a REPL. Typical flow: start a session with the token
// issued by the backend, enroll members and record payments while offline,
// and let the background watcher push them once the backend is reachable.
//
// Key features:
//   - Login / Logout (operator session from a backend-issued token)
//   - Enroll members, record payments
//   - List members, payments and pending work
//   - Manual sync, plus automatic sync on reconnect and on a timer
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
// See App, StartOnlineStatusWatcher, and runREPL for details.
package cli
