package domain

import "time"

// Assertion is a verified, time-bounded identity claim produced by the token
// service. It is immutable once issued; callers past the verification point
// can rely on SubjectID and Role without re-checking the signature.
type Assertion struct {
	SubjectID string
	Role      Role
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// Expired reports whether the assertion is no longer valid at the given time.
func (a Assertion) Expired(now time.Time) bool {
	return !a.ExpiresAt.IsZero() && now.After(a.ExpiresAt)
}
