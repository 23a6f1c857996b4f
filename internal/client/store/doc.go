// Package store is the local durable store of the field agent client.
//
// It composes the members and payments repositories over one SQLite
// database, publishes a change event after every successful write, and
// derives live views (unsynced counts and lists) from those events.
//
// Writes go through Store so that observers never miss a change; the
// repositories themselves know nothing about subscribers.
package store
