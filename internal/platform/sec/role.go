// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec

import "strings"

// # User Roles

// UserRole represents the authorization level granted to a portal member.
type UserRole string

const (
	// Full control, including user deletion and granting ownership.
	RoleOwner UserRole = "owner"

	// Manages content and may promote guests.
	RoleAdmin UserRole = "admin"

	// Default role for self-registered members. Public pages only.
	RoleGuest UserRole = "guest"
)

// Roles lists every defined role from most to least privileged.
var Roles = []UserRole{RoleOwner, RoleAdmin, RoleGuest}

// ParseRole maps a raw value onto a defined role.
// The second result is false for anything outside the defined set.
func ParseRole(raw string) (UserRole, bool) {
	role := UserRole(strings.ToLower(strings.TrimSpace(raw)))
	return role, role.Valid()
}

// Valid reports whether the role is one of the defined roles.
func (r UserRole) Valid() bool {
	return r.level() > 0
}

// String implements fmt.Stringer.
func (r UserRole) String() string { return string(r) }

// # Role Hierarchy

// AtLeast checks if the current role meets or exceeds the required target role.
// Undefined roles never satisfy any requirement.
func (r UserRole) AtLeast(target UserRole) bool {
	return r.Valid() && r.level() >= target.level()
}

// level maps a role to a numeric hierarchy level for comparison logic.
func (r UserRole) level() int {
	switch r {
	case RoleOwner:
		return 30
	case RoleAdmin:
		return 20
	case RoleGuest:
		return 10
	default:
		return 0
	}
}
