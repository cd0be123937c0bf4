package usecase

import "time"

// ClaimRecord captures one claim attempt and its outcome for the audit trail.
type ClaimRecord struct {
	ListingID string    `json:"listing_id"`
	CallerID  string    `json:"caller_id"`
	Outcome   string    `json:"outcome"`
	At        time.Time `json:"at"`
}

// ClaimJournal is an append-only record of claim attempts. Appends are
// best-effort: a journal failure never affects the claim outcome.
type ClaimJournal interface {
	Append(record ClaimRecord) error
	Recent(limit int) ([]ClaimRecord, error)
}
