package domain

// Role is the moderation role of a user. The string values are part of the
// storage contract and round-trip unchanged.
type Role string

const (
	RoleUser       Role = "user"
	RoleModerator  Role = "moderator"
	RoleAdmin      Role = "admin"
	RoleSuperAdmin Role = "super_admin"
)

// rank gives roles a total order. Admin and super admin share every gate; the
// extra rank only exists so the ordering stays explicit when roles are added.
func (r Role) rank() int {
	switch r {
	case RoleUser:
		return 0
	case RoleModerator:
		return 1
	case RoleAdmin:
		return 2
	case RoleSuperAdmin:
		return 3
	default:
		return -1
	}
}

// AtLeast reports whether r meets the minimum role required by a gate.
// Unknown roles never satisfy any gate.
func (r Role) AtLeast(min Role) bool {
	return r.rank() >= 0 && r.rank() >= min.rank()
}

// Bannable reports whether a user holding this role may be banned. Admins and
// super admins can never be banned, regardless of who asks.
func (r Role) Bannable() bool {
	return r.rank() >= 0 && r.rank() < RoleAdmin.rank()
}

func (r Role) Valid() bool {
	return r.rank() >= 0
}
