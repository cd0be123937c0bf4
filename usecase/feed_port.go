package usecase

import (
	"context"

	"github.com/foodbridge/backend/domain"
)

// FeedCache abstracts the cached public feed so use cases stay storage-agnostic.
// Implementations are advisory: a miss or failure falls through to the repository.
type FeedCache interface {
	Get(ctx context.Context) ([]domain.Listing, bool)
	Set(ctx context.Context, listings []domain.Listing) error
	Invalidate(ctx context.Context) error
}
