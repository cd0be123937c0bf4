package claim

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/foodbridge/backend/domain"
	"github.com/foodbridge/backend/repository"
	"github.com/foodbridge/backend/repository/memory"
	"github.com/foodbridge/backend/usecase"
)

type journalStub struct {
	mu      sync.Mutex
	records []usecase.ClaimRecord
}

func (j *journalStub) Append(record usecase.ClaimRecord) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.records = append(j.records, record)
	return nil
}

func (j *journalStub) Recent(limit int) ([]usecase.ClaimRecord, error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	if limit <= 0 || limit > len(j.records) {
		limit = len(j.records)
	}
	out := make([]usecase.ClaimRecord, limit)
	copy(out, j.records[len(j.records)-limit:])
	return out, nil
}

func (j *journalStub) outcomes() map[string]int {
	j.mu.Lock()
	defer j.mu.Unlock()
	counts := make(map[string]int)
	for _, r := range j.records {
		counts[r.Outcome]++
	}
	return counts
}

type fixture struct {
	engine   *Engine
	listings repository.ListingRepository
	users    repository.UserRepository
	journal  *journalStub
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	listings := memory.NewListingRepository()
	users := memory.NewUserRepository()
	journal := &journalStub{}
	return &fixture{
		engine:   NewEngine(listings, users, nil, journal, nil),
		listings: listings,
		users:    users,
		journal:  journal,
	}
}

func (f *fixture) addUser(t *testing.T, id, name, phone string, role domain.Role) domain.Assertion {
	t.Helper()
	_, err := f.users.Create(context.Background(), &domain.User{
		ID:    id,
		Name:  name,
		Email: id + "@example.com",
		Phone: phone,
		Role:  role,
	})
	require.NoError(t, err)
	return domain.Assertion{SubjectID: id, Role: role}
}

func (f *fixture) addListing(t *testing.T, donorID string) *domain.Listing {
	t.Helper()
	listing, err := f.listings.Create(context.Background(), &domain.Listing{
		DonorID:    donorID,
		Title:      "Bread",
		Quantity:   "5 loaves",
		Location:   "Market Street",
		ExpiryTime: "tonight",
	})
	require.NoError(t, err)
	return listing
}

func TestClaim_Success(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.addUser(t, "donor-1", "Dana", "555-0101", domain.RoleDonor)
	receiver := f.addUser(t, "recv-1", "Riley", "", domain.RoleReceiver)
	listing := f.addListing(t, "donor-1")

	result, err := f.engine.Claim(context.Background(), receiver, listing.ID)
	require.NoError(t, err)

	assert.Equal(t, domain.StatusClaimed, result.Listing.Status)
	assert.Equal(t, "recv-1", result.Listing.ReceiverID)
	require.NotNil(t, result.Listing.ClaimedAt)

	assert.Equal(t, "Dana", result.DonorContact.Name)
	assert.Equal(t, "555-0101", result.DonorContact.Phone)
	assert.Equal(t, "Riley", result.ReceiverContact.Name)
	// empty phone is substituted, never sent as ""
	assert.Equal(t, domain.ContactPhoneFallback, result.ReceiverContact.Phone)

	stored, err := f.listings.GetByID(context.Background(), listing.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusClaimed, stored.Status)
}

func TestClaim_NotFound(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	receiver := f.addUser(t, "recv-1", "Riley", "", domain.RoleReceiver)

	_, err := f.engine.Claim(context.Background(), receiver, "no-such-listing")
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeNotFound))
}

func TestClaim_SelfClaimForbidden(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	donor := f.addUser(t, "donor-1", "Dana", "", domain.RoleDonor)
	receiver := f.addUser(t, "recv-1", "Riley", "", domain.RoleReceiver)
	listing := f.addListing(t, "donor-1")

	// before anyone claims
	_, err := f.engine.Claim(context.Background(), donor, listing.ID)
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeForbidden))

	// and after the listing is gone too
	_, err = f.engine.Claim(context.Background(), receiver, listing.ID)
	require.NoError(t, err)
	_, err = f.engine.Claim(context.Background(), donor, listing.ID)
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeForbidden))
}

func TestClaim_AlreadyClaimed(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.addUser(t, "donor-1", "Dana", "", domain.RoleDonor)
	first := f.addUser(t, "recv-1", "Riley", "", domain.RoleReceiver)
	second := f.addUser(t, "recv-2", "Sam", "", domain.RoleReceiver)
	listing := f.addListing(t, "donor-1")

	_, err := f.engine.Claim(context.Background(), first, listing.ID)
	require.NoError(t, err)

	_, err = f.engine.Claim(context.Background(), second, listing.ID)
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeAlreadyClaimed))

	// the loser's attempt never disturbed the winner's claim
	stored, err := f.listings.GetByID(context.Background(), listing.ID)
	require.NoError(t, err)
	assert.Equal(t, "recv-1", stored.ReceiverID)
}

// At-most-one-claimant: N concurrent claims on the same listing produce
// exactly one winner; everyone else observes the lost race.
func TestClaim_ConcurrentClaimants(t *testing.T) {
	t.Parallel()

	const claimants = 16

	f := newFixture(t)
	f.addUser(t, "donor-1", "Dana", "", domain.RoleDonor)
	listing := f.addListing(t, "donor-1")

	callers := make([]domain.Assertion, claimants)
	for i := range callers {
		id := "recv-" + string(rune('a'+i))
		callers[i] = f.addUser(t, id, "Receiver "+id, "", domain.RoleReceiver)
	}

	var (
		wg         sync.WaitGroup
		mu         sync.Mutex
		winners    []string
		losers     int
		unexpected []error
	)

	start := make(chan struct{})
	for _, caller := range callers {
		wg.Add(1)
		go func(caller domain.Assertion) {
			defer wg.Done()
			<-start

			result, err := f.engine.Claim(context.Background(), caller, listing.ID)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				winners = append(winners, result.Listing.ReceiverID)
			case domain.IsDomainError(err, domain.ErrCodeAlreadyClaimed):
				losers++
			default:
				unexpected = append(unexpected, err)
			}
		}(caller)
	}
	close(start)
	wg.Wait()

	require.Empty(t, unexpected, "losers must observe AlreadyClaimed")

	require.Len(t, winners, 1, "exactly one claim must succeed")
	assert.Equal(t, claimants-1, losers)

	stored, err := f.listings.GetByID(context.Background(), listing.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusClaimed, stored.Status)
	assert.Equal(t, winners[0], stored.ReceiverID)

	outcomes := f.journal.outcomes()
	assert.Equal(t, 1, outcomes[OutcomeClaimed])
	assert.Equal(t, claimants-1, outcomes[OutcomeDenied]+outcomes[OutcomeLostRace])
}

// The end-to-end lifecycle scenario: a race between two receivers, a donor
// self-claim attempt, and a late third receiver.
func TestClaim_EndToEndScenario(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	donor := f.addUser(t, "donor-1", "Dana", "555-0101", domain.RoleDonor)
	r1 := f.addUser(t, "recv-1", "Riley", "", domain.RoleReceiver)
	r2 := f.addUser(t, "recv-2", "Sam", "", domain.RoleReceiver)
	r3 := f.addUser(t, "recv-3", "Tony", "", domain.RoleReceiver)
	listing := f.addListing(t, "donor-1")

	type outcome struct {
		caller string
		err    error
	}
	results := make(chan outcome, 2)

	var wg sync.WaitGroup
	for _, caller := range []domain.Assertion{r1, r2} {
		wg.Add(1)
		go func(caller domain.Assertion) {
			defer wg.Done()
			_, err := f.engine.Claim(context.Background(), caller, listing.ID)
			results <- outcome{caller: caller.SubjectID, err: err}
		}(caller)
	}
	wg.Wait()
	close(results)

	var succeeded, failed int
	for res := range results {
		if res.err == nil {
			succeeded++
		} else {
			require.True(t, domain.IsDomainError(res.err, domain.ErrCodeAlreadyClaimed))
			failed++
		}
	}
	assert.Equal(t, 1, succeeded)
	assert.Equal(t, 1, failed)

	// donor attempt fails as self-claim regardless of the race outcome
	_, err := f.engine.Claim(context.Background(), donor, listing.ID)
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeForbidden))

	// a late receiver sees the terminal state
	_, err = f.engine.Claim(context.Background(), r3, listing.ID)
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeAlreadyClaimed))
}

func TestClaim_SetsClaimTimestamp(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.addUser(t, "donor-1", "Dana", "", domain.RoleDonor)
	receiver := f.addUser(t, "recv-1", "Riley", "", domain.RoleReceiver)
	listing := f.addListing(t, "donor-1")

	before := time.Now()
	result, err := f.engine.Claim(context.Background(), receiver, listing.ID)
	require.NoError(t, err)

	require.NotNil(t, result.Listing.ClaimedAt)
	assert.False(t, result.Listing.ClaimedAt.Before(before))
	assert.False(t, result.Listing.ClaimedAt.After(time.Now()))
}

func TestActivity_AdminOnly(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.addUser(t, "donor-1", "Dana", "", domain.RoleDonor)
	receiver := f.addUser(t, "recv-1", "Riley", "", domain.RoleReceiver)
	admin := f.addUser(t, "admin-1", "Alex", "", domain.RoleAdmin)
	listing := f.addListing(t, "donor-1")

	_, err := f.engine.Claim(context.Background(), receiver, listing.ID)
	require.NoError(t, err)

	_, err = f.engine.Activity(receiver, 10)
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeForbidden))

	records, err := f.engine.Activity(admin, 10)
	require.NoError(t, err)
	require.NotEmpty(t, records)
	assert.Equal(t, OutcomeClaimed, records[len(records)-1].Outcome)
}
