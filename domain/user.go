package domain

import (
	"strings"
	"time"
)

// Role is the closed set of roles a user can hold. Raw role strings are
// validated once at the system boundary; everything past the boundary can
// match exhaustively over these values.
type Role string

const (
	RoleDonor    Role = "donor"
	RoleReceiver Role = "receiver"
	RoleAdmin    Role = "admin"
)

// ParseRole validates a raw role string. Unknown or empty values fall back
// to donor, mirroring the registration default.
func ParseRole(raw string) Role {
	switch Role(strings.ToLower(strings.TrimSpace(raw))) {
	case RoleDonor:
		return RoleDonor
	case RoleReceiver:
		return RoleReceiver
	case RoleAdmin:
		return RoleAdmin
	default:
		return RoleDonor
	}
}

// Valid reports whether the role is one of the known values.
func (r Role) Valid() bool {
	return r == RoleDonor || r == RoleReceiver || r == RoleAdmin
}

// User represents a registered account on the platform.
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Phone        string    `json:"phone,omitempty"`
	Address      string    `json:"address,omitempty"`
	City         string    `json:"city,omitempty"`
	Pincode      string    `json:"pincode,omitempty"`
	Bio          string    `json:"bio,omitempty"`
	Role         Role      `json:"role"`
	Verified     bool      `json:"is_verified"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Contact is the projection of a user shared between the two parties of a
// completed claim.
type Contact struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// ContactPhoneFallback substitutes an empty phone number in contact payloads.
const ContactPhoneFallback = "Not provided"

// ContactInfo builds the contact projection for the user, substituting a
// placeholder when no phone number is on file.
func (u *User) ContactInfo() Contact {
	phone := u.Phone
	if phone == "" {
		phone = ContactPhoneFallback
	}
	return Contact{
		Name:  u.Name,
		Email: u.Email,
		Phone: phone,
	}
}

// NormalizeEmail lowercases and trims an email for case-insensitive matching.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
