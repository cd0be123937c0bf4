package repository

import (
	"context"

	"github.com/foodbridge/backend/domain"
)

type UserRepository interface {
	GetByID(ctx context.Context, id string) (*domain.User, error)
	// GetByEmail matches case-insensitively; the stored email is lowercased.
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	Update(ctx context.Context, user *domain.User) error
	List(ctx context.Context) ([]domain.User, error)
	Delete(ctx context.Context, id string) error
}
