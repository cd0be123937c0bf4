package domain

import "time"

// ListingStatus is the lifecycle state of a donation listing. The lifecycle
// is monotonic: once a listing leaves available it never returns.
type ListingStatus string

const (
	StatusAvailable ListingStatus = "available"
	StatusReserved  ListingStatus = "reserved"
	StatusClaimed   ListingStatus = "claimed"
)

// Valid reports whether the status is one of the known lifecycle states.
func (s ListingStatus) Valid() bool {
	return s == StatusAvailable || s == StatusReserved || s == StatusClaimed
}

// Listing represents a single surplus-food donation post.
//
// DonorID is immutable after creation. Status, ReceiverID and ClaimedAt form
// the lifecycle triple: they are written exclusively by the claim engine
// through the repository's conditional update, never by content updates.
type Listing struct {
	ID                  string        `json:"id"`
	DonorID             string        `json:"donor_id"`
	ReceiverID          string        `json:"receiver_id,omitempty"`
	Title               string        `json:"title"`
	Quantity            string        `json:"quantity"`
	Location            string        `json:"location"`
	ExpiryTime          string        `json:"expiry_time"`
	Description         string        `json:"description,omitempty"`
	Image               string        `json:"image,omitempty"`
	PickupLocation      string        `json:"pickup_location,omitempty"`
	SpecialInstructions string        `json:"special_instructions,omitempty"`
	Status              ListingStatus `json:"status"`
	CreatedAt           time.Time     `json:"created_at"`
	UpdatedAt           time.Time     `json:"updated_at"`
	ClaimedAt           *time.Time    `json:"claimed_at,omitempty"`
}

// IsAvailable reports whether the listing can still be claimed.
func (l *Listing) IsAvailable() bool {
	return l != nil && l.Status == StatusAvailable
}

// ClaimResult is returned to a receiver whose claim succeeded. Both contact
// projections are included so the parties can arrange pickup.
type ClaimResult struct {
	Listing         *Listing `json:"food"`
	DonorContact    Contact  `json:"donor_contact"`
	ReceiverContact Contact  `json:"receiver_contact"`
}

// DonorStats summarizes a donor's posting history.
type DonorStats struct {
	Total     int `json:"total"`
	Available int `json:"available"`
	Claimed   int `json:"claimed"`
	Reserved  int `json:"reserved"`
}

// ReceiverStats summarizes a receiver's claim history.
type ReceiverStats struct {
	TotalClaims int `json:"total_claims"`
	TodayClaims int `json:"today_claims"`
}
