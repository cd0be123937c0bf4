// Package account covers registration, login and profile management. It is
// the only place passwords are hashed and verified; everything downstream
// sees only the signed assertion issued here.
package account

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/foodbridge/backend/domain"
	"github.com/foodbridge/backend/pkg/token"
	"github.com/foodbridge/backend/repository"
)

const bcryptCost = 12

type UseCase struct {
	users  repository.UserRepository
	tokens *token.Service
	logger *zap.Logger
}

func New(users repository.UserRepository, tokens *token.Service, logger *zap.Logger) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		users:  users,
		tokens: tokens,
		logger: logger,
	}
}

// RegisterInput carries the registration form fields.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Phone    string
	Address  string
	City     string
	Pincode  string
	Bio      string
	Role     string
}

// AuthResult pairs a signed token with the account it identifies.
type AuthResult struct {
	Token string       `json:"token"`
	User  *domain.User `json:"user"`
}

// Register creates an account and logs it in. Duplicate emails surface as a
// Conflict regardless of which layer detects them first.
func (uc *UseCase) Register(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	if err := validateRegistration(in); err != nil {
		return nil, err
	}

	email := domain.NormalizeEmail(in.Email)
	if _, err := uc.users.GetByEmail(ctx, email); err == nil {
		return nil, domain.ErrEmailTaken
	} else if !domain.IsDomainError(err, domain.ErrCodeNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcryptCost)
	if err != nil {
		return nil, domain.WrapError(domain.ErrCodeInternal, "failed to hash password", err)
	}

	user := &domain.User{
		Name:         strings.TrimSpace(in.Name),
		Email:        email,
		PasswordHash: string(hash),
		Phone:        strings.TrimSpace(in.Phone),
		Address:      strings.TrimSpace(in.Address),
		City:         strings.TrimSpace(in.City),
		Pincode:      strings.TrimSpace(in.Pincode),
		Bio:          strings.TrimSpace(in.Bio),
		Role:         domain.ParseRole(in.Role),
	}

	created, err := uc.users.Create(ctx, user)
	if err != nil {
		return nil, err
	}

	signed, err := uc.tokens.Issue(created.ID, created.Role)
	if err != nil {
		return nil, domain.WrapError(domain.ErrCodeInternal, "failed to issue token", err)
	}

	uc.logger.Info("user registered",
		zap.String("user_id", created.ID),
		zap.String("role", string(created.Role)),
	)
	return &AuthResult{Token: signed, User: created}, nil
}

// Login verifies credentials and issues a fresh assertion. Unknown emails
// and wrong passwords are indistinguishable to the caller.
func (uc *UseCase) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	if email == "" || password == "" {
		return nil, domain.ErrBadCredentials
	}

	user, err := uc.users.GetByEmail(ctx, email)
	if err != nil {
		if domain.IsDomainError(err, domain.ErrCodeNotFound) {
			return nil, domain.ErrBadCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return nil, domain.ErrBadCredentials
		}
		return nil, domain.WrapError(domain.ErrCodeInternal, "password comparison failed", err)
	}

	signed, err := uc.tokens.Issue(user.ID, user.Role)
	if err != nil {
		return nil, domain.WrapError(domain.ErrCodeInternal, "failed to issue token", err)
	}

	return &AuthResult{Token: signed, User: user}, nil
}

// Profile returns the account behind the assertion.
func (uc *UseCase) Profile(ctx context.Context, subjectID string) (*domain.User, error) {
	return uc.users.GetByID(ctx, subjectID)
}

// ProfileUpdate carries the mutable profile fields. Nil pointers mean
// "leave unchanged".
type ProfileUpdate struct {
	Name    *string
	Phone   *string
	Address *string
	City    *string
	Pincode *string
	Bio     *string
}

// UpdateProfile applies a partial update to the caller's own account.
// Email, role and password are out of its reach.
func (uc *UseCase) UpdateProfile(ctx context.Context, subjectID string, in ProfileUpdate) (*domain.User, error) {
	user, err := uc.users.GetByID(ctx, subjectID)
	if err != nil {
		return nil, err
	}

	if in.Name != nil {
		user.Name = strings.TrimSpace(*in.Name)
	}
	if in.Phone != nil {
		user.Phone = strings.TrimSpace(*in.Phone)
	}
	if in.Address != nil {
		user.Address = strings.TrimSpace(*in.Address)
	}
	if in.City != nil {
		user.City = strings.TrimSpace(*in.City)
	}
	if in.Pincode != nil {
		user.Pincode = strings.TrimSpace(*in.Pincode)
	}
	if in.Bio != nil {
		user.Bio = strings.TrimSpace(*in.Bio)
	}

	if user.Name == "" {
		return nil, domain.NewError(domain.ErrCodeValidation, "name cannot be empty")
	}

	if err := uc.users.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// ListUsers returns all accounts. Admin only.
func (uc *UseCase) ListUsers(ctx context.Context, caller domain.Assertion) ([]domain.User, error) {
	if decision := domain.Authorize(caller, domain.ActionAdminListUsers, nil); !decision.Allowed {
		return nil, decision.Err()
	}
	return uc.users.List(ctx)
}

// DeleteUser removes an account. Admin only; admins cannot delete themselves.
func (uc *UseCase) DeleteUser(ctx context.Context, caller domain.Assertion, userID string) error {
	if decision := domain.Authorize(caller, domain.ActionAdminDeleteUser, nil); !decision.Allowed {
		return decision.Err()
	}
	if userID == caller.SubjectID {
		return domain.NewError(domain.ErrCodeValidation, "cannot delete your own account")
	}

	if _, err := uc.users.GetByID(ctx, userID); err != nil {
		return err
	}

	if err := uc.users.Delete(ctx, userID); err != nil {
		return err
	}
	uc.logger.Info("user deleted",
		zap.String("user_id", userID),
		zap.String("deleted_by", caller.SubjectID),
	)
	return nil
}

func validateRegistration(in RegisterInput) error {
	var problems []string
	if strings.TrimSpace(in.Name) == "" {
		problems = append(problems, "name is required")
	}
	email := domain.NormalizeEmail(in.Email)
	if email == "" || !strings.Contains(email, "@") {
		problems = append(problems, "a valid email is required")
	}
	if len(in.Password) < 6 {
		problems = append(problems, "password must be at least 6 characters")
	}
	if len(in.Bio) > 250 {
		problems = append(problems, "bio cannot exceed 250 characters")
	}
	if len(problems) > 0 {
		return domain.NewError(domain.ErrCodeValidation, strings.Join(problems, ", "))
	}
	return nil
}
