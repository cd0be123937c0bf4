package repository

import (
	"context"
	"time"

	"github.com/foodbridge/backend/domain"
)

// ListingRepository is the durable store of listings and the single
// serialization point for lifecycle writes.
type ListingRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Listing, error)
	Create(ctx context.Context, listing *domain.Listing) (*domain.Listing, error)
	// Update writes content fields only. The lifecycle triple (status,
	// receiver_id, claimed_at) is out of its reach.
	Update(ctx context.Context, listing *domain.Listing) error
	Delete(ctx context.Context, id string) error

	ListAvailable(ctx context.Context) ([]domain.Listing, error)
	ListByDonor(ctx context.Context, donorID string) ([]domain.Listing, error)
	ListByReceiver(ctx context.Context, receiverID string) ([]domain.Listing, error)
	ListAll(ctx context.Context) ([]domain.Listing, error)

	// ClaimIfAvailable performs the compare-and-swap lifecycle transition:
	// the listing moves to claimed with the given receiver and timestamp
	// only if its stored status is still available at write time. A lost
	// race returns domain.ErrAlreadyClaimed; a missing listing returns
	// domain.ErrListingNotFound. The repository is the authority on which
	// concurrent claim wins.
	ClaimIfAvailable(ctx context.Context, id, receiverID string, claimedAt time.Time) (*domain.Listing, error)
}
