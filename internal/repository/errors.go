// Package repository defines error types that are reused across multiple
// repositories. These sentinel values let higher layers such as handlers
// and services distinguish failure scenarios. ErrProfileNotFound in
// particular must stay distinct from "not confirmed": a missing profile
// aborts a submission instead of silently routing writes to the
// unconfirmed tables.
package repository

import "errors"

// ErrEmailExists is returned when registration collides with an existing
// email address. Handlers translate this into HTTP 409.
var ErrEmailExists = errors.New("email already exists")

// ErrProfileNotFound is returned when a profile row is absent for a user
// id. Callers resolving confirmation status must surface this as an error
// rather than defaulting to unconfirmed.
var ErrProfileNotFound = errors.New("profile not found")

// ErrReportNotFound is returned when no report row exists for an id in the
// selected confirmation bucket.
var ErrReportNotFound = errors.New("report not found")
