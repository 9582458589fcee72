// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec

import "github.com/leoFagundes/breakfast-budget-club/internal/platform/apperr"

// # Actions

// Action names an operation guarded by the permission matrix.
type Action string

const (
	ActionViewPublic    Action = "view_public"
	ActionViewCardPage  Action = "view_card_page"
	ActionViewAdminArea Action = "view_admin_area"
	ActionManageContent Action = "manage_content"
	ActionChangeRole    Action = "change_role"
	ActionDeleteUser    Action = "delete_user"
	ActionUploadFile    Action = "upload_file"
	ActionDeleteFile    Action = "delete_file"
)

// Target describes what an action is applied to. Only role changes read it.
type Target struct {
	// Role is the current role of the user being acted upon.
	Role UserRole
	// NewRole is the role being assigned by a change_role action.
	NewRole UserRole
}

// # Decisions

// Reason explains a denial.
type Reason string

const (
	ReasonNone               Reason = ""
	ReasonNotPermitted       Reason = "not_permitted"
	ReasonGuestsOnly         Reason = "guests_only"
	ReasonCannotPromoteOwner Reason = "cannot_promote_owner"
	ReasonOwnerOnly          Reason = "owner_only"
	ReasonUnknownRole        Reason = "unknown_role"
)

// Decision is the outcome of a permission check.
type Decision struct {
	Allowed bool
	Reason  Reason
}

// Err converts a denial into a 403 [apperr.AppError]. It returns nil when allowed.
func (d Decision) Err() *apperr.AppError {
	if d.Allowed {
		return nil
	}

	switch d.Reason {
	case ReasonGuestsOnly:
		return apperr.ForbiddenCode("ROLE_GUESTS_ONLY", "Admins can only change the role of guests")
	case ReasonCannotPromoteOwner:
		return apperr.ForbiddenCode("ROLE_OWNER_PROMOTION", "Only an owner can grant the owner role")
	case ReasonOwnerOnly:
		return apperr.ForbiddenCode("OWNER_ONLY", "Only owners can delete users")
	case ReasonNotPermitted:
		return apperr.ForbiddenCode("ROLE_NOT_PERMITTED", "Your role does not allow this action")
	default:
		return apperr.Forbidden("Access denied")
	}
}

func allow() Decision { return Decision{Allowed: true} }

func deny(reason Reason) Decision { return Decision{Reason: reason} }

// # Matrix

// adminActions are granted to admins without looking at the target.
var adminActions = map[Action]bool{
	ActionViewPublic:    true,
	ActionViewCardPage:  true,
	ActionViewAdminArea: true,
	ActionManageContent: true,
	ActionUploadFile:    true,
	ActionDeleteFile:    true,
}

// guestActions are granted to guests.
var guestActions = map[Action]bool{
	ActionViewPublic:   true,
	ActionViewCardPage: true,
}

/*
Check evaluates the permission matrix. It is pure and deterministic.

Rules, first match wins:
 1. owner: every action.
 2. admin: content and viewing actions; change_role only for a guest target
    and never to owner; never delete_user.
 3. guest: public and card pages.
 4. anything else is denied.
*/
func Check(actor UserRole, action Action, target Target) Decision {
	if !actor.Valid() {
		return deny(ReasonUnknownRole)
	}

	if actor == RoleOwner {
		return allow()
	}

	if action == ActionDeleteUser {
		return deny(ReasonOwnerOnly)
	}

	if actor == RoleAdmin {
		if adminActions[action] {
			return allow()
		}
		if action == ActionChangeRole {
			if target.Role != RoleGuest {
				return deny(ReasonGuestsOnly)
			}
			if target.NewRole == RoleOwner {
				return deny(ReasonCannotPromoteOwner)
			}
			return allow()
		}
		return deny(ReasonNotPermitted)
	}

	if guestActions[action] {
		return allow()
	}

	return deny(ReasonNotPermitted)
}

// CanPerform reports whether actor may perform action on target.
func CanPerform(actor UserRole, action Action, target Target) bool {
	return Check(actor, action, target).Allowed
}

// AssignableRoles lists the roles actor may set on a user currently holding targetRole.
func AssignableRoles(actor, targetRole UserRole) []UserRole {
	var roles []UserRole
	for _, role := range Roles {
		if CanPerform(actor, ActionChangeRole, Target{Role: targetRole, NewRole: role}) {
			roles = append(roles, role)
		}
	}
	return roles
}
