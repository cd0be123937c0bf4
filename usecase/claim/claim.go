// Package claim implements the listing lifecycle transition. The engine is
// the sole writer of a listing's status, receiver and claim timestamp, and
// it transitions each listing from available to claimed at most once under
// any degree of concurrency.
package claim

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/foodbridge/backend/domain"
	"github.com/foodbridge/backend/repository"
	"github.com/foodbridge/backend/usecase"
)

// Outcomes recorded in the claim journal.
const (
	OutcomeClaimed        = "claimed"
	OutcomeDenied         = "denied"
	OutcomeLostRace       = "lost_race"
	OutcomeListingMissing = "not_found"
)

type Engine struct {
	listings repository.ListingRepository
	users    repository.UserRepository
	feed     usecase.FeedCache
	journal  usecase.ClaimJournal
	logger   *zap.Logger
}

func NewEngine(listings repository.ListingRepository, users repository.UserRepository, feed usecase.FeedCache, journal usecase.ClaimJournal, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{
		listings: listings,
		users:    users,
		feed:     feed,
		journal:  journal,
		logger:   logger,
	}
}

// Claim reserves the listing for the caller.
//
// The read below is only a snapshot for the policy check; the decision that
// counts happens inside ClaimIfAvailable, where the repository accepts the
// write only if the stored status is still available. Two callers racing on
// the same snapshot therefore cannot both win: the repository linearizes
// them and the loser gets ErrAlreadyClaimed. A lost race is not retried —
// the caller should refresh and see the listing as claimed.
func (e *Engine) Claim(ctx context.Context, caller domain.Assertion, listingID string) (*domain.ClaimResult, error) {
	listing, err := e.listings.GetByID(ctx, listingID)
	if err != nil {
		e.record(listingID, caller.SubjectID, OutcomeListingMissing)
		return nil, err
	}

	if decision := domain.Authorize(caller, domain.ActionClaimListing, listing); !decision.Allowed {
		e.record(listingID, caller.SubjectID, OutcomeDenied)
		return nil, decision.Err()
	}

	claimed, err := e.listings.ClaimIfAvailable(ctx, listingID, caller.SubjectID, time.Now())
	if err != nil {
		if domain.IsDomainError(err, domain.ErrCodeAlreadyClaimed) {
			e.record(listingID, caller.SubjectID, OutcomeLostRace)
			e.logger.Info("claim lost race",
				zap.String("listing_id", listingID),
				zap.String("caller_id", caller.SubjectID),
			)
		}
		return nil, err
	}

	e.record(listingID, caller.SubjectID, OutcomeClaimed)
	if e.feed != nil {
		if err := e.feed.Invalidate(ctx); err != nil {
			e.logger.Warn("feed cache invalidation failed", zap.Error(err))
		}
	}
	e.logger.Info("food claimed",
		zap.String("listing_id", listingID),
		zap.String("receiver_id", caller.SubjectID),
		zap.String("donor_id", claimed.DonorID),
	)

	result := &domain.ClaimResult{Listing: claimed}

	// Contact lookups happen after the transition is durable; a missing
	// profile degrades the payload but never rolls back the claim.
	if donor, err := e.users.GetByID(ctx, claimed.DonorID); err == nil {
		result.DonorContact = donor.ContactInfo()
	} else {
		e.logger.Warn("donor contact lookup failed",
			zap.String("donor_id", claimed.DonorID),
			zap.Error(err),
		)
	}
	if receiver, err := e.users.GetByID(ctx, caller.SubjectID); err == nil {
		result.ReceiverContact = receiver.ContactInfo()
	} else {
		e.logger.Warn("receiver contact lookup failed",
			zap.String("receiver_id", caller.SubjectID),
			zap.Error(err),
		)
	}

	return result, nil
}

// Activity returns the most recent claim attempts from the journal.
func (e *Engine) Activity(caller domain.Assertion, limit int) ([]usecase.ClaimRecord, error) {
	if decision := domain.Authorize(caller, domain.ActionAdminListUsers, nil); !decision.Allowed {
		return nil, decision.Err()
	}
	if e.journal == nil {
		return nil, nil
	}
	return e.journal.Recent(limit)
}

func (e *Engine) record(listingID, callerID, outcome string) {
	if e.journal == nil {
		return
	}
	err := e.journal.Append(usecase.ClaimRecord{
		ListingID: listingID,
		CallerID:  callerID,
		Outcome:   outcome,
		At:        time.Now(),
	})
	if err != nil {
		e.logger.Warn("claim journal append failed", zap.Error(err))
	}
}
