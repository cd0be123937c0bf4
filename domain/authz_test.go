package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func listingOwnedBy(donorID string, status ListingStatus) *Listing {
	return &Listing{
		ID:      "listing-1",
		DonorID: donorID,
		Status:  status,
	}
}

func TestAuthorize_AdminActions(t *testing.T) {
	t.Parallel()

	admin := Assertion{SubjectID: "a1", Role: RoleAdmin}
	donor := Assertion{SubjectID: "d1", Role: RoleDonor}
	receiver := Assertion{SubjectID: "r1", Role: RoleReceiver}

	for _, action := range []Action{ActionAdminListUsers, ActionAdminDeleteUser} {
		assert.True(t, Authorize(admin, action, nil).Allowed, "admin should pass %s", action)

		for _, caller := range []Assertion{donor, receiver} {
			decision := Authorize(caller, action, nil)
			assert.False(t, decision.Allowed)
			assert.Equal(t, DenyForbidden, decision.Reason)
		}
	}
}

func TestAuthorize_OwnershipGate(t *testing.T) {
	t.Parallel()

	owner := Assertion{SubjectID: "d1", Role: RoleDonor}
	stranger := Assertion{SubjectID: "d2", Role: RoleDonor}
	listing := listingOwnedBy("d1", StatusAvailable)

	for _, action := range []Action{ActionUpdateListing, ActionDeleteListing} {
		assert.True(t, Authorize(owner, action, listing).Allowed)

		decision := Authorize(stranger, action, listing)
		assert.False(t, decision.Allowed)
		assert.Equal(t, DenyNotOwner, decision.Reason)

		// Decision is a pure function of (caller, donor): repeated
		// evaluation never flips.
		for i := 0; i < 10; i++ {
			assert.Equal(t, decision, Authorize(stranger, action, listing))
		}
	}
}

func TestAuthorize_Claim(t *testing.T) {
	t.Parallel()

	donor := Assertion{SubjectID: "d1", Role: RoleDonor}
	receiver := Assertion{SubjectID: "r1", Role: RoleReceiver}

	t.Run("receiver can claim an available listing", func(t *testing.T) {
		decision := Authorize(receiver, ActionClaimListing, listingOwnedBy("d1", StatusAvailable))
		assert.True(t, decision.Allowed)
	})

	t.Run("self claim denied regardless of status", func(t *testing.T) {
		for _, status := range []ListingStatus{StatusAvailable, StatusReserved, StatusClaimed} {
			decision := Authorize(donor, ActionClaimListing, listingOwnedBy("d1", status))
			require.False(t, decision.Allowed, "status %s", status)
			assert.Equal(t, DenySelfClaim, decision.Reason)
		}
	})

	t.Run("non-available listing denied as already claimed", func(t *testing.T) {
		for _, status := range []ListingStatus{StatusReserved, StatusClaimed} {
			decision := Authorize(receiver, ActionClaimListing, listingOwnedBy("d1", status))
			require.False(t, decision.Allowed)
			assert.Equal(t, DenyAlreadyClaimed, decision.Reason)
		}
	})

	t.Run("missing resource denied", func(t *testing.T) {
		decision := Authorize(receiver, ActionClaimListing, nil)
		assert.False(t, decision.Allowed)
	})
}

func TestAuthorize_CreateAndRead(t *testing.T) {
	t.Parallel()

	for _, role := range []Role{RoleDonor, RoleReceiver, RoleAdmin} {
		caller := Assertion{SubjectID: "u1", Role: role}
		assert.True(t, Authorize(caller, ActionCreateListing, nil).Allowed)
		assert.True(t, Authorize(caller, ActionReadListing, nil).Allowed)
	}

	anonymous := Assertion{}
	assert.False(t, Authorize(anonymous, ActionCreateListing, nil).Allowed)

	badRole := Assertion{SubjectID: "u1", Role: Role("superuser")}
	assert.False(t, Authorize(badRole, ActionReadListing, nil).Allowed)
}

// Every action/role/status combination must yield a decision; the policy is
// total by construction, this pins it against regressions.
func TestAuthorize_Total(t *testing.T) {
	t.Parallel()

	actions := []Action{
		ActionCreateListing, ActionReadListing, ActionUpdateListing,
		ActionDeleteListing, ActionClaimListing, ActionAdminListUsers,
		ActionAdminDeleteUser, Action("unknown"),
	}
	roles := []Role{RoleDonor, RoleReceiver, RoleAdmin, Role("")}
	statuses := []ListingStatus{StatusAvailable, StatusReserved, StatusClaimed}

	for _, action := range actions {
		for _, role := range roles {
			caller := Assertion{SubjectID: "u1", Role: role}
			for _, status := range statuses {
				decision := Authorize(caller, action, listingOwnedBy("d1", status))
				if !decision.Allowed {
					assert.NotEmpty(t, decision.Reason)
					assert.Error(t, decision.Err())
				} else {
					assert.NoError(t, decision.Err())
				}
			}
			// nil resource must also be decided, never panic
			_ = Authorize(caller, action, nil)
		}
	}
}

func TestDecisionErr_Mapping(t *testing.T) {
	t.Parallel()

	assert.True(t, IsDomainError(deny(DenyAlreadyClaimed).Err(), ErrCodeAlreadyClaimed))
	assert.True(t, IsDomainError(deny(DenySelfClaim).Err(), ErrCodeForbidden))
	assert.True(t, IsDomainError(deny(DenyNotOwner).Err(), ErrCodeForbidden))
	assert.True(t, IsDomainError(deny(DenyForbidden).Err(), ErrCodeForbidden))
	assert.NoError(t, allow().Err())
}
