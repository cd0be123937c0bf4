package token

import (
	"encoding/base64"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/foodbridge/backend/domain"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	svc, err := NewService([]byte("test-secret"), time.Hour)
	require.NoError(t, err)
	return svc
}

func TestNewService_RequiresSecret(t *testing.T) {
	t.Parallel()

	_, err := NewService(nil, time.Hour)
	assert.Error(t, err)

	_, err = NewService([]byte{}, time.Hour)
	assert.Error(t, err)
}

func TestIssueVerify_RoundTrip(t *testing.T) {
	t.Parallel()

	svc := newTestService(t)

	signed, err := svc.Issue("user-123", domain.RoleReceiver)
	require.NoError(t, err)

	assertion, err := svc.Verify(signed)
	require.NoError(t, err)

	assert.Equal(t, "user-123", assertion.SubjectID)
	assert.Equal(t, domain.RoleReceiver, assertion.Role)
	assert.False(t, assertion.IssuedAt.IsZero())
	assert.True(t, assertion.ExpiresAt.After(time.Now()))
	assert.False(t, assertion.Expired(time.Now()))
}

func TestVerify_Expired(t *testing.T) {
	t.Parallel()

	secret := []byte("test-secret")
	svc, err := NewService(secret, time.Hour)
	require.NoError(t, err)

	// Sign an already-expired token with the same secret.
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-2 * time.Hour)),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		},
		UserID: "user-123",
		Role:   string(domain.RoleDonor),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	require.NoError(t, err)

	_, err = svc.Verify(signed)
	assert.ErrorIs(t, err, ErrExpired)
}

func TestVerify_WrongSecret(t *testing.T) {
	t.Parallel()

	svc := newTestService(t)
	other, err := NewService([]byte("a-different-secret"), time.Hour)
	require.NoError(t, err)

	signed, err := other.Issue("user-123", domain.RoleDonor)
	require.NoError(t, err)

	_, err = svc.Verify(signed)
	assert.ErrorIs(t, err, ErrSignatureInvalid)
}

func TestVerify_TamperedPayload(t *testing.T) {
	t.Parallel()

	svc := newTestService(t)

	signed, err := svc.Issue("user-123", domain.RoleDonor)
	require.NoError(t, err)

	parts := strings.Split(signed, ".")
	require.Len(t, parts, 3)

	// Rewrite the payload (escalate the role) and keep the original
	// signature: verification must reject it.
	payload, err := base64.RawURLEncoding.DecodeString(parts[1])
	require.NoError(t, err)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(payload, &body))
	body["role"] = string(domain.RoleAdmin)

	forged, err := json.Marshal(body)
	require.NoError(t, err)
	parts[1] = base64.RawURLEncoding.EncodeToString(forged)

	_, err = svc.Verify(strings.Join(parts, "."))
	assert.ErrorIs(t, err, ErrSignatureInvalid)
}

func TestVerify_Malformed(t *testing.T) {
	t.Parallel()

	svc := newTestService(t)

	for _, tokenString := range []string{"", "not-a-token", "a.b", "a.b.c"} {
		_, err := svc.Verify(tokenString)
		assert.ErrorIs(t, err, ErrMalformed, "token %q", tokenString)
	}
}

func TestVerify_RejectsUnknownRole(t *testing.T) {
	t.Parallel()

	secret := []byte("test-secret")
	svc, err := NewService(secret, time.Hour)
	require.NoError(t, err)

	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
		UserID: "user-123",
		Role:   "superuser",
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	require.NoError(t, err)

	_, err = svc.Verify(signed)
	assert.ErrorIs(t, err, ErrMalformed)
}
