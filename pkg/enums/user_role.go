package enums

import "fmt"

// UserRole identifies what a workshop user is allowed to do and which
// role-routed notifications they receive.
type UserRole string

const (
	UserRoleCoordinator  UserRole = "coordinator"
	UserRoleAdmin        UserRole = "admin"
	UserRolePartsManager UserRole = "parts_manager"
	UserRoleTechnician   UserRole = "technician"
	UserRoleSalesperson  UserRole = "salesperson"
)

var validUserRoles = []UserRole{
	UserRoleCoordinator,
	UserRoleAdmin,
	UserRolePartsManager,
	UserRoleTechnician,
	UserRoleSalesperson,
}

// String implements fmt.Stringer.
func (r UserRole) String() string {
	return string(r)
}

// IsValid reports whether the value is a known UserRole.
func (r UserRole) IsValid() bool {
	for _, candidate := range validUserRoles {
		if candidate == r {
			return true
		}
	}
	return false
}

// ParseUserRole converts raw input into a UserRole.
func ParseUserRole(value string) (UserRole, error) {
	for _, candidate := range validUserRoles {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid user role %q", value)
}
