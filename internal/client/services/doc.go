// Package services contains application services for the fieldsync client:
// the operator session, the enrollment flow that writes new records, and
// the sync pipeline (reconciliation, the sync pass and the pending-work
// views) that pushes them to the backend.
package services
