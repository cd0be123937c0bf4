// Package token issues and verifies the signed identity assertions that
// gate every authenticated request. The service is stateless: given the
// same secret, issue and verify are pure functions of their inputs.
package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v4"

	"github.com/foodbridge/backend/domain"
)

// DefaultTTL is the assertion validity window.
const DefaultTTL = 7 * 24 * time.Hour

// Verification failures, ordered from least to most trustworthy input.
var (
	ErrMalformed        = errors.New("token is malformed")
	ErrSignatureInvalid = errors.New("token signature is invalid")
	ErrExpired          = errors.New("token is expired")
)

// Claims binds a user identity and role to the registered time claims.
type Claims struct {
	jwt.RegisteredClaims
	UserID string `json:"user_id"`
	Role   string `json:"role"`
}

// Service signs and verifies assertions with a process-wide HMAC secret.
type Service struct {
	secret []byte
	ttl    time.Duration
}

// NewService constructs a token service. The secret must be non-empty;
// requiring it here keeps a missing secret from silently degrading into
// unsigned tokens.
func NewService(secret []byte, ttl time.Duration) (*Service, error) {
	if len(secret) == 0 {
		return nil, errors.New("token: signing secret is required")
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Service{
		secret: secret,
		ttl:    ttl,
	}, nil
}

// Issue produces a signed assertion for the subject, valid for the
// configured window.
func (s *Service) Issue(subjectID string, role domain.Role) (string, error) {
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
		UserID: subjectID,
		Role:   string(role),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// Verify parses and validates a token string and returns the assertion it
// carries. Failures are classified as ErrMalformed, ErrSignatureInvalid or
// ErrExpired.
func (s *Service) Verify(tokenString string) (domain.Assertion, error) {
	claims := &Claims{}

	parsed, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrSignatureInvalid
		}
		return s.secret, nil
	})
	if err != nil {
		return domain.Assertion{}, classify(err)
	}
	if !parsed.Valid {
		return domain.Assertion{}, ErrSignatureInvalid
	}

	assertion := domain.Assertion{
		SubjectID: claims.UserID,
		Role:      domain.Role(claims.Role),
	}
	if claims.IssuedAt != nil {
		assertion.IssuedAt = claims.IssuedAt.Time
	}
	if claims.ExpiresAt != nil {
		assertion.ExpiresAt = claims.ExpiresAt.Time
	}
	if !assertion.Role.Valid() {
		return domain.Assertion{}, ErrMalformed
	}
	return assertion, nil
}

func classify(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return ErrExpired
	case errors.Is(err, jwt.ErrTokenSignatureInvalid) || errors.Is(err, jwt.ErrSignatureInvalid):
		return ErrSignatureInvalid
	default:
		return ErrMalformed
	}
}
