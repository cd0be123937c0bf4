package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/foodbridge/backend/domain"
	"github.com/foodbridge/backend/repository"
)

type listingRepository struct {
	mu       sync.Mutex
	listings map[string]domain.Listing
}

// NewListingRepository returns an in-memory ListingRepository. The store
// serializes all writes behind a single mutex, which makes ClaimIfAvailable
// an atomic compare-and-swap just like the Postgres implementation.
func NewListingRepository() repository.ListingRepository {
	return &listingRepository{
		listings: make(map[string]domain.Listing),
	}
}

func (r *listingRepository) GetByID(ctx context.Context, id string) (*domain.Listing, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	listing, ok := r.listings[id]
	if !ok {
		return nil, domain.ErrListingNotFound
	}
	return cloneListing(listing), nil
}

func (r *listingRepository) Create(ctx context.Context, listing *domain.Listing) (*domain.Listing, error) {
	if listing == nil {
		return nil, domain.ErrInvalidPayload
	}
	if listing.ID == "" {
		listing.ID = uuid.NewString()
	}

	now := time.Now()
	listing.Status = domain.StatusAvailable
	listing.CreatedAt = now
	listing.UpdatedAt = now

	r.mu.Lock()
	defer r.mu.Unlock()
	r.listings[listing.ID] = *listing
	return cloneListing(*listing), nil
}

func (r *listingRepository) Update(ctx context.Context, listing *domain.Listing) error {
	if listing == nil {
		return domain.ErrInvalidPayload
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.listings[listing.ID]
	if !ok {
		return domain.ErrListingNotFound
	}

	// Content fields only; the lifecycle triple stays untouched.
	current.Title = listing.Title
	current.Quantity = listing.Quantity
	current.Location = listing.Location
	current.ExpiryTime = listing.ExpiryTime
	current.Description = listing.Description
	current.Image = listing.Image
	current.PickupLocation = listing.PickupLocation
	current.SpecialInstructions = listing.SpecialInstructions
	current.UpdatedAt = time.Now()

	r.listings[listing.ID] = current
	listing.UpdatedAt = current.UpdatedAt
	return nil
}

func (r *listingRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.listings[id]; !ok {
		return domain.ErrListingNotFound
	}
	delete(r.listings, id)
	return nil
}

func (r *listingRepository) ListAvailable(ctx context.Context) ([]domain.Listing, error) {
	return r.filter(func(l domain.Listing) bool {
		return l.Status == domain.StatusAvailable
	}), nil
}

func (r *listingRepository) ListByDonor(ctx context.Context, donorID string) ([]domain.Listing, error) {
	return r.filter(func(l domain.Listing) bool {
		return l.DonorID == donorID
	}), nil
}

func (r *listingRepository) ListByReceiver(ctx context.Context, receiverID string) ([]domain.Listing, error) {
	return r.filter(func(l domain.Listing) bool {
		return l.ReceiverID == receiverID && l.Status == domain.StatusClaimed
	}), nil
}

func (r *listingRepository) ListAll(ctx context.Context) ([]domain.Listing, error) {
	return r.filter(func(domain.Listing) bool { return true }), nil
}

func (r *listingRepository) ClaimIfAvailable(ctx context.Context, id, receiverID string, claimedAt time.Time) (*domain.Listing, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.listings[id]
	if !ok {
		return nil, domain.ErrListingNotFound
	}
	if current.Status != domain.StatusAvailable {
		return nil, domain.ErrAlreadyClaimed
	}

	current.Status = domain.StatusClaimed
	current.ReceiverID = receiverID
	current.ClaimedAt = &claimedAt
	current.UpdatedAt = time.Now()

	r.listings[id] = current
	return cloneListing(current), nil
}

func (r *listingRepository) filter(keep func(domain.Listing) bool) []domain.Listing {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []domain.Listing
	for _, listing := range r.listings {
		if keep(listing) {
			out = append(out, *cloneListing(listing))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

func cloneListing(l domain.Listing) *domain.Listing {
	if l.ClaimedAt != nil {
		at := *l.ClaimedAt
		l.ClaimedAt = &at
	}
	return &l
}
