package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/foodbridge/backend/domain"
	"github.com/foodbridge/backend/repository"
)

func seedListing(t *testing.T, repo repository.ListingRepository, donorID string) *domain.Listing {
	t.Helper()
	listing, err := repo.Create(context.Background(), &domain.Listing{
		DonorID:    donorID,
		Title:      "Bread",
		Quantity:   "5 loaves",
		Location:   "Market Street",
		ExpiryTime: "tonight",
	})
	require.NoError(t, err)
	return listing
}

func TestClaimIfAvailable_SingleWinner(t *testing.T) {
	t.Parallel()

	repo := NewListingRepository()
	listing := seedListing(t, repo, "d1")

	claimed, err := repo.ClaimIfAvailable(context.Background(), listing.ID, "r1", time.Now())
	require.NoError(t, err)
	assert.Equal(t, domain.StatusClaimed, claimed.Status)
	assert.Equal(t, "r1", claimed.ReceiverID)
	require.NotNil(t, claimed.ClaimedAt)

	// a second swap must fail and leave the winner untouched
	_, err = repo.ClaimIfAvailable(context.Background(), listing.ID, "r2", time.Now())
	assert.ErrorIs(t, err, domain.ErrAlreadyClaimed)

	stored, err := repo.GetByID(context.Background(), listing.ID)
	require.NoError(t, err)
	assert.Equal(t, "r1", stored.ReceiverID)
}

func TestClaimIfAvailable_UnknownListing(t *testing.T) {
	t.Parallel()

	repo := NewListingRepository()
	_, err := repo.ClaimIfAvailable(context.Background(), "missing", "r1", time.Now())
	assert.ErrorIs(t, err, domain.ErrListingNotFound)
}

// Update writes content fields only. A stale snapshot carrying an old
// lifecycle state must not resurrect a claimed listing.
func TestUpdate_NeverTouchesLifecycle(t *testing.T) {
	t.Parallel()

	repo := NewListingRepository()
	listing := seedListing(t, repo, "d1")

	_, err := repo.ClaimIfAvailable(context.Background(), listing.ID, "r1", time.Now())
	require.NoError(t, err)

	stale := *listing // snapshot taken before the claim: still available
	stale.Title = "Fresh Bread"
	require.NoError(t, repo.Update(context.Background(), &stale))

	stored, err := repo.GetByID(context.Background(), listing.ID)
	require.NoError(t, err)
	assert.Equal(t, "Fresh Bread", stored.Title)
	assert.Equal(t, domain.StatusClaimed, stored.Status)
	assert.Equal(t, "r1", stored.ReceiverID)
	assert.NotNil(t, stored.ClaimedAt)
}

func TestListFilters(t *testing.T) {
	t.Parallel()

	repo := NewListingRepository()
	first := seedListing(t, repo, "d1")
	seedListing(t, repo, "d1")
	seedListing(t, repo, "d2")

	_, err := repo.ClaimIfAvailable(context.Background(), first.ID, "r1", time.Now())
	require.NoError(t, err)

	available, err := repo.ListAvailable(context.Background())
	require.NoError(t, err)
	assert.Len(t, available, 2)
	for _, l := range available {
		assert.Equal(t, domain.StatusAvailable, l.Status)
	}

	byDonor, err := repo.ListByDonor(context.Background(), "d1")
	require.NoError(t, err)
	assert.Len(t, byDonor, 2)

	byReceiver, err := repo.ListByReceiver(context.Background(), "r1")
	require.NoError(t, err)
	require.Len(t, byReceiver, 1)
	assert.Equal(t, first.ID, byReceiver[0].ID)

	all, err := repo.ListAll(context.Background())
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestGetByID_ReturnsCopy(t *testing.T) {
	t.Parallel()

	repo := NewListingRepository()
	listing := seedListing(t, repo, "d1")

	got, err := repo.GetByID(context.Background(), listing.ID)
	require.NoError(t, err)
	got.Title = "mutated"

	again, err := repo.GetByID(context.Background(), listing.ID)
	require.NoError(t, err)
	assert.Equal(t, "Bread", again.Title)
}
