// Package listing manages donation posts: creation, the public feed, donor
// and receiver dashboards, and content updates while a listing is still
// available. The claim transition itself lives in usecase/claim.
package listing

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/foodbridge/backend/domain"
	"github.com/foodbridge/backend/repository"
	"github.com/foodbridge/backend/usecase"
)

type UseCase struct {
	listings repository.ListingRepository
	feed     usecase.FeedCache
	logger   *zap.Logger
}

func New(listings repository.ListingRepository, feed usecase.FeedCache, logger *zap.Logger) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		listings: listings,
		feed:     feed,
		logger:   logger,
	}
}

// CreateInput carries the donor-provided listing fields.
type CreateInput struct {
	Title               string
	Quantity            string
	Location            string
	ExpiryTime          string
	Description         string
	Image               string
	PickupLocation      string
	SpecialInstructions string
}

// Create publishes a new listing owned by the caller. Every listing starts
// available.
func (uc *UseCase) Create(ctx context.Context, caller domain.Assertion, in CreateInput) (*domain.Listing, error) {
	if decision := domain.Authorize(caller, domain.ActionCreateListing, nil); !decision.Allowed {
		return nil, decision.Err()
	}
	if err := validateListing(in); err != nil {
		return nil, err
	}

	listing := &domain.Listing{
		DonorID:             caller.SubjectID,
		Title:               strings.TrimSpace(in.Title),
		Quantity:            strings.TrimSpace(in.Quantity),
		Location:            strings.TrimSpace(in.Location),
		ExpiryTime:          strings.TrimSpace(in.ExpiryTime),
		Description:         strings.TrimSpace(in.Description),
		Image:               in.Image,
		PickupLocation:      strings.TrimSpace(in.PickupLocation),
		SpecialInstructions: strings.TrimSpace(in.SpecialInstructions),
		Status:              domain.StatusAvailable,
	}

	created, err := uc.listings.Create(ctx, listing)
	if err != nil {
		return nil, err
	}

	uc.invalidateFeed(ctx)
	uc.logger.Info("food posted",
		zap.String("listing_id", created.ID),
		zap.String("donor_id", created.DonorID),
	)
	return created, nil
}

// Feed returns all available listings, newest first. Served from the cache
// when warm.
func (uc *UseCase) Feed(ctx context.Context) ([]domain.Listing, error) {
	if uc.feed != nil {
		if cached, ok := uc.feed.Get(ctx); ok {
			return cached, nil
		}
	}

	listings, err := uc.listings.ListAvailable(ctx)
	if err != nil {
		return nil, err
	}

	if uc.feed != nil {
		if err := uc.feed.Set(ctx, listings); err != nil {
			uc.logger.Warn("feed cache write failed", zap.Error(err))
		}
	}
	return listings, nil
}

// Get returns a single listing by id.
func (uc *UseCase) Get(ctx context.Context, caller domain.Assertion, id string) (*domain.Listing, error) {
	if decision := domain.Authorize(caller, domain.ActionReadListing, nil); !decision.Allowed {
		return nil, decision.Err()
	}
	return uc.listings.GetByID(ctx, id)
}

// UpdateInput carries the mutable content fields. Nil means unchanged.
type UpdateInput struct {
	Title               *string
	Quantity            *string
	Location            *string
	ExpiryTime          *string
	Description         *string
	Image               *string
	PickupLocation      *string
	SpecialInstructions *string
}

// Update edits a listing's content. Only the donor may edit, and only while
// the listing is still available: once claimed it is immutable.
func (uc *UseCase) Update(ctx context.Context, caller domain.Assertion, id string, in UpdateInput) (*domain.Listing, error) {
	listing, err := uc.listings.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if decision := domain.Authorize(caller, domain.ActionUpdateListing, listing); !decision.Allowed {
		return nil, decision.Err()
	}
	if !listing.IsAvailable() {
		return nil, domain.NewError(domain.ErrCodeForbidden, "food can no longer be edited")
	}

	applyUpdate(listing, in)
	if err := validateListing(CreateInput{
		Title:       listing.Title,
		Quantity:    listing.Quantity,
		Location:    listing.Location,
		ExpiryTime:  listing.ExpiryTime,
		Description: listing.Description,
	}); err != nil {
		return nil, err
	}

	if err := uc.listings.Update(ctx, listing); err != nil {
		return nil, err
	}

	uc.invalidateFeed(ctx)
	return listing, nil
}

// Delete removes a listing. Donor only; claimed listings are immutable and
// cannot be deleted.
func (uc *UseCase) Delete(ctx context.Context, caller domain.Assertion, id string) error {
	listing, err := uc.listings.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if decision := domain.Authorize(caller, domain.ActionDeleteListing, listing); !decision.Allowed {
		return decision.Err()
	}
	if !listing.IsAvailable() {
		return domain.NewError(domain.ErrCodeForbidden, "food can no longer be deleted")
	}

	if err := uc.listings.Delete(ctx, id); err != nil {
		return err
	}

	uc.invalidateFeed(ctx)
	uc.logger.Info("food deleted",
		zap.String("listing_id", id),
		zap.String("donor_id", caller.SubjectID),
	)
	return nil
}

// DonorDashboard is the donor's posts plus summary statistics.
type DonorDashboard struct {
	Listings []domain.Listing  `json:"foods"`
	Stats    domain.DonorStats `json:"statistics"`
}

// MyPosts returns the caller's own listings with per-status counts.
func (uc *UseCase) MyPosts(ctx context.Context, caller domain.Assertion) (*DonorDashboard, error) {
	listings, err := uc.listings.ListByDonor(ctx, caller.SubjectID)
	if err != nil {
		return nil, err
	}

	stats := domain.DonorStats{Total: len(listings)}
	for _, l := range listings {
		switch l.Status {
		case domain.StatusAvailable:
			stats.Available++
		case domain.StatusClaimed:
			stats.Claimed++
		case domain.StatusReserved:
			stats.Reserved++
		}
	}
	return &DonorDashboard{Listings: listings, Stats: stats}, nil
}

// ReceiverDashboard is the receiver's claims plus summary statistics.
type ReceiverDashboard struct {
	Listings []domain.Listing     `json:"foods"`
	Stats    domain.ReceiverStats `json:"statistics"`
}

// MyClaims returns the listings the caller has claimed, with counts.
func (uc *UseCase) MyClaims(ctx context.Context, caller domain.Assertion) (*ReceiverDashboard, error) {
	listings, err := uc.listings.ListByReceiver(ctx, caller.SubjectID)
	if err != nil {
		return nil, err
	}

	stats := domain.ReceiverStats{TotalClaims: len(listings)}
	today := time.Now()
	for _, l := range listings {
		if l.ClaimedAt != nil && sameDay(*l.ClaimedAt, today) {
			stats.TodayClaims++
		}
	}
	return &ReceiverDashboard{Listings: listings, Stats: stats}, nil
}

// ListAll returns every listing regardless of state. Admin only.
func (uc *UseCase) ListAll(ctx context.Context, caller domain.Assertion) ([]domain.Listing, error) {
	if decision := domain.Authorize(caller, domain.ActionAdminListUsers, nil); !decision.Allowed {
		return nil, decision.Err()
	}
	return uc.listings.ListAll(ctx)
}

func (uc *UseCase) invalidateFeed(ctx context.Context) {
	if uc.feed == nil {
		return
	}
	if err := uc.feed.Invalidate(ctx); err != nil {
		uc.logger.Warn("feed cache invalidation failed", zap.Error(err))
	}
}

func applyUpdate(listing *domain.Listing, in UpdateInput) {
	if in.Title != nil {
		listing.Title = strings.TrimSpace(*in.Title)
	}
	if in.Quantity != nil {
		listing.Quantity = strings.TrimSpace(*in.Quantity)
	}
	if in.Location != nil {
		listing.Location = strings.TrimSpace(*in.Location)
	}
	if in.ExpiryTime != nil {
		listing.ExpiryTime = strings.TrimSpace(*in.ExpiryTime)
	}
	if in.Description != nil {
		listing.Description = strings.TrimSpace(*in.Description)
	}
	if in.Image != nil {
		listing.Image = *in.Image
	}
	if in.PickupLocation != nil {
		listing.PickupLocation = strings.TrimSpace(*in.PickupLocation)
	}
	if in.SpecialInstructions != nil {
		listing.SpecialInstructions = strings.TrimSpace(*in.SpecialInstructions)
	}
}

func validateListing(in CreateInput) error {
	var problems []string
	title := strings.TrimSpace(in.Title)
	if len(title) < 3 || len(title) > 100 {
		problems = append(problems, "title must be between 3 and 100 characters")
	}
	if strings.TrimSpace(in.Quantity) == "" {
		problems = append(problems, "quantity is required")
	}
	if strings.TrimSpace(in.Location) == "" {
		problems = append(problems, "location is required")
	}
	if strings.TrimSpace(in.ExpiryTime) == "" {
		problems = append(problems, "expiry time is required")
	}
	if len(in.Description) > 500 {
		problems = append(problems, "description cannot exceed 500 characters")
	}
	if len(problems) > 0 {
		return domain.NewError(domain.ErrCodeValidation, strings.Join(problems, ", "))
	}
	return nil
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
