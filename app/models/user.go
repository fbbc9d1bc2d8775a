package models

import "encoding/json"

// UserProfile is the profile blob stored next to the auth token.
type UserProfile struct {
	ID    string `json:"id"`
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
	Role  string `json:"role"`
}

const (
	RoleAdmin      = "admin"
	RoleSuperAdmin = "superadmin"
	RoleVendor     = "vendor"
)

func (u UserProfile) IsAdmin() bool {
	return u.Role == RoleAdmin || u.Role == RoleSuperAdmin
}

func (u *UserProfile) UnmarshalJSON(b []byte) error {
	var raw struct {
		ID      string `json:"id"`
		MongoID string `json:"_id"`
		Name    string `json:"name"`
		Email   string `json:"email"`
		Role    string `json:"role"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	*u = UserProfile{
		ID:    firstNonEmpty(raw.MongoID, raw.ID),
		Name:  raw.Name,
		Email: raw.Email,
		Role:  raw.Role,
	}
	return nil
}

// LoginResult is what the auth endpoint hands back.
type LoginResult struct {
	Token string      `json:"token"`
	User  UserProfile `json:"user"`
}
