package auth

import "github.com/geoguard/platform/internal/domain"

// WriteRoles returns roles allowed to mutate targets and create units.
func WriteRoles() []domain.Role {
	return []domain.Role{domain.RoleCommander}
}
