package domain

import "strings"

// Role is the backend's user_type.
type Role string

const (
	RoleDiner      Role = "normal"
	RoleRestaurant Role = "restaurant"
)

func ParseRole(raw string) Role {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "restaurant", "owner":
		return RoleRestaurant
	default:
		return RoleDiner
	}
}

// LoginRoute is where a UI shell sends the user once the session is gone.
func (r Role) LoginRoute() string {
	if r == RoleRestaurant {
		return "/restaurant/login"
	}
	return "/user/login"
}

// Tokens is the access/refresh pair shared by every request of the process.
type Tokens struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
	Role    Role   `json:"role,omitempty"`
}

func (t Tokens) HasAccess() bool {
	return strings.TrimSpace(t.Access) != ""
}

func (t Tokens) HasRefresh() bool {
	return strings.TrimSpace(t.Refresh) != ""
}
