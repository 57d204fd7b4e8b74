// Copyright (c) 2026 Kertas. All rights reserved.
// Author: ad.kurnia.ws@gmail.com

package sec

// # User Roles

// Role represents the privilege tier granted to an account.
//
// The numeric values are fixed by the persisted schema: accounts store the
// tier as a small integer and lower numbers carry more privilege.
type Role int

const (
	// Unrestricted system access
	RoleSuperAdmin Role = 1

	// Can manage tenant content and members
	RoleAdmin Role = 2

	// Default tier for standard registered users
	RoleUser Role = 3
)

// RefreshOrder is the fixed order in which refresh credentials are attempted,
// most privileged first. A super-admin browser session may also hold a stale
// lower-tier cookie; scanning high-to-low avoids silently downgrading an
// otherwise-valid high-privilege session.
var RefreshOrder = [3]Role{RoleSuperAdmin, RoleAdmin, RoleUser}

// Valid reports whether r is one of the three closed tiers.
func (r Role) Valid() bool {
	return r == RoleSuperAdmin || r == RoleAdmin || r == RoleUser
}

// ParseRole converts a raw stored integer into a [Role].
// Unknown values collapse to [RoleUser], the least privileged tier.
func ParseRole(raw int) Role {
	role := Role(raw)
	if !role.Valid() {
		return RoleUser
	}
	return role
}

// # Role Hierarchy

// AtLeast checks if the current role meets or exceeds the required target role.
func (r Role) AtLeast(target Role) bool {
	return r.level() >= target.level()
}

// level maps a role to a numeric hierarchy level for comparison logic.
func (r Role) level() int {

	// Linear scale (10-30) allows for future intermediate tiers
	switch r {
	case RoleSuperAdmin:
		return 30
	case RoleAdmin:
		return 20
	case RoleUser:
		return 10
	default:
		return 0
	}
}

// String returns the canonical name of the role for logs and templates.
func (r Role) String() string {
	switch r {
	case RoleSuperAdmin:
		return "super_admin"
	case RoleAdmin:
		return "admin"
	case RoleUser:
		return "user"
	default:
		return "unknown"
	}
}
