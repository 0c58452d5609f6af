package enums

import "fmt"

// ActorRole identifies the authenticated caller's role.
type ActorRole string

const (
	ActorRoleBuyer      ActorRole = "buyer"
	ActorRoleSeller     ActorRole = "seller"
	ActorRoleSupport    ActorRole = "support"
	ActorRoleSuperAdmin ActorRole = "super_admin"
)

var validActorRoles = []ActorRole{
	ActorRoleBuyer,
	ActorRoleSeller,
	ActorRoleSupport,
	ActorRoleSuperAdmin,
}

// IsValid reports whether the value is a known ActorRole.
func (a ActorRole) IsValid() bool {
	for _, candidate := range validActorRoles {
		if candidate == a {
			return true
		}
	}
	return false
}

// IsSupportOrHigher reports whether the role grants platform-staff access.
func (a ActorRole) IsSupportOrHigher() bool {
	return a == ActorRoleSupport || a == ActorRoleSuperAdmin
}

// ParseActorRole converts the raw string to ActorRole.
func ParseActorRole(value string) (ActorRole, error) {
	for _, candidate := range validActorRoles {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid actor role %q", value)
}
