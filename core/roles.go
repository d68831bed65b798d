package core

import "fmt"

// AttributeRole classifies a column of the input table.
type AttributeRole uint8

const (
	// RoleQuasiIdentifying marks a column that is generalized during search.
	RoleQuasiIdentifying AttributeRole = iota
	// RoleSensitive marks a column whose value distribution is protected.
	RoleSensitive
	// RoleInsensitive marks a column that is carried through unchanged.
	RoleInsensitive
	// RoleIdentifying marks a column that is dropped before the engine
	// sees the table.
	RoleIdentifying
)

// String implements fmt.Stringer.
func (r AttributeRole) String() string {
	switch r {
	case RoleQuasiIdentifying:
		return "quasi-identifying"
	case RoleSensitive:
		return "sensitive"
	case RoleInsensitive:
		return "insensitive"
	case RoleIdentifying:
		return "identifying"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(r))
	}
}

// RoleMask is a bitmask over attribute roles, used to select which roles
// have their values replaced by the suppression string on output.
type RoleMask uint8

// Mask returns the bit for the role.
func (r AttributeRole) Mask() RoleMask {
	return RoleMask(1) << uint8(r)
}

// Contains reports whether the mask includes the role.
func (m RoleMask) Contains(r AttributeRole) bool {
	return m&r.Mask() != 0
}
