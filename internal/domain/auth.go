package domain

import "time"

// Identity is the resolved caller: exactly one of Citizen or Admin is set,
// selected by Role.
type Identity struct {
	Role    Role
	Citizen *Citizen
	Admin   *Admin
}

// CitizenIdentity wraps a citizen record.
func CitizenIdentity(c *Citizen) *Identity {
	return &Identity{Role: RoleCitizen, Citizen: c}
}

// AdminIdentity wraps an admin record.
func AdminIdentity(a *Admin) *Identity {
	return &Identity{Role: RoleAdmin, Admin: a}
}

// ID returns the id of the underlying record. Ids are only unique per role.
func (i *Identity) ID() int64 {
	switch i.Role {
	case RoleAdmin:
		if i.Admin != nil {
			return i.Admin.ID
		}
	default:
		if i.Citizen != nil {
			return i.Citizen.ID
		}
	}
	return 0
}

// Email returns the login email of the underlying record.
func (i *Identity) Email() string {
	switch i.Role {
	case RoleAdmin:
		if i.Admin != nil {
			return i.Admin.Email
		}
	default:
		if i.Citizen != nil {
			return i.Citizen.Email
		}
	}
	return ""
}

// IsAdmin reports whether the identity was resolved from the admin table.
func (i *Identity) IsAdmin() bool {
	return i != nil && i.Role == RoleAdmin && i.Admin != nil
}

// TokenClaims is the identity payload carried by an access token.
type TokenClaims struct {
	Email     string
	SubjectID int64
	Role      Role
	ExpiresAt time.Time
}
