package domain

import (
	"time"

	"github.com/google/uuid"
)

// Role identifies the two privilege levels in the system.
type Role string

const (
	RoleCommander    Role = "commander"
	RoleSubCommander Role = "sub-commander"
)

// RootCommanderID is the fixed identity of the configured root commander.
// The root account exists only as bootstrap credentials and never has a
// users row.
var RootCommanderID = uuid.MustParse("00000000-0000-0000-0000-000000000001")

// UserProfile is a users row. Sub-commander accounts are created as the
// paired half of a military unit; there is no self-service registration.
type UserProfile struct {
	ID             uuid.UUID  `json:"id"`
	Username       string     `json:"username"`
	PasswordHash   string     `json:"-"`
	Role           Role       `json:"role"`
	AssignedUnitID *uuid.UUID `json:"assigned_unit_id,omitempty"`
	CanSeeAllUnits bool       `json:"can_see_all_units"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// ViewScope limits reads to one unit, or spans all of them. Commanders and
// sub-commanders with the see-all flag get the unscoped view; everyone else
// only reads rows referencing their assigned unit. The same scope is applied
// to both the unit and the target queries.
type ViewScope struct {
	AllUnits bool
	UnitID   uuid.UUID
}

// ScopeAll returns the unscoped view.
func ScopeAll() ViewScope { return ViewScope{AllUnits: true} }

// ScopeUnit returns a view limited to a single unit.
func ScopeUnit(id uuid.UUID) ViewScope { return ViewScope{UnitID: id} }

// ScopeFor derives the view scope for a user profile.
func ScopeFor(u *UserProfile) ViewScope {
	if u.Role == RoleCommander || u.CanSeeAllUnits {
		return ScopeAll()
	}
	if u.AssignedUnitID != nil {
		return ScopeUnit(*u.AssignedUnitID)
	}
	// Sub-commander with no unit sees nothing; the zero UnitID matches no row.
	return ViewScope{}
}
