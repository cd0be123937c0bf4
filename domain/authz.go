package domain

// Action enumerates every operation the authorization policy rules on.
type Action string

const (
	ActionCreateListing   Action = "createListing"
	ActionReadListing     Action = "readListing"
	ActionUpdateListing   Action = "updateListing"
	ActionDeleteListing   Action = "deleteListing"
	ActionClaimListing    Action = "claimListing"
	ActionAdminListUsers  Action = "adminListUsers"
	ActionAdminDeleteUser Action = "adminDeleteUser"
)

// DenyReason explains a negative authorization decision.
type DenyReason string

const (
	DenyForbidden      DenyReason = "forbidden"
	DenyNotOwner       DenyReason = "notOwner"
	DenyAlreadyClaimed DenyReason = "alreadyClaimed"
	DenySelfClaim      DenyReason = "selfClaim"
)

// Decision is the outcome of an authorization check.
type Decision struct {
	Allowed bool
	Reason  DenyReason
}

func allow() Decision {
	return Decision{Allowed: true}
}

func deny(reason DenyReason) Decision {
	return Decision{Reason: reason}
}

// Err maps a denial onto the domain error taxonomy. Allowed decisions map
// to nil.
func (d Decision) Err() error {
	if d.Allowed {
		return nil
	}
	switch d.Reason {
	case DenyAlreadyClaimed:
		return ErrAlreadyClaimed
	case DenySelfClaim:
		return NewError(ErrCodeForbidden, "you cannot claim your own food donation")
	case DenyNotOwner:
		return NewError(ErrCodeForbidden, "not authorized to modify this food")
	default:
		return NewError(ErrCodeForbidden, "access denied")
	}
}

// Authorize decides whether the caller behind the assertion may perform the
// action on the resource. It is pure and total: every combination of action,
// role and resource state yields a decision. Rules are evaluated in order,
// first match wins.
//
// The resource may be nil for actions that do not target a listing.
func Authorize(a Assertion, action Action, resource *Listing) Decision {
	switch action {
	case ActionAdminListUsers, ActionAdminDeleteUser:
		if a.Role != RoleAdmin {
			return deny(DenyForbidden)
		}
		return allow()

	case ActionUpdateListing, ActionDeleteListing:
		if resource == nil || a.SubjectID != resource.DonorID {
			return deny(DenyNotOwner)
		}
		return allow()

	case ActionClaimListing:
		if resource == nil {
			return deny(DenyAlreadyClaimed)
		}
		// A donor can never claim their own listing, whatever its state.
		if a.SubjectID == resource.DonorID {
			return deny(DenySelfClaim)
		}
		if resource.Status != StatusAvailable {
			return deny(DenyAlreadyClaimed)
		}
		return allow()

	case ActionCreateListing, ActionReadListing:
		if a.SubjectID == "" || !a.Role.Valid() {
			return deny(DenyForbidden)
		}
		return allow()

	default:
		return deny(DenyForbidden)
	}
}
