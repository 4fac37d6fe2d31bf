package models

// Role classifies an authenticated principal.
type Role string

const (
	RoleClient  Role = "client"
	RoleCleaner Role = "cleaner"
	RoleAdmin   Role = "admin"
	RoleSystem  Role = "system" // background jobs (auto-assignment sweep)
)

// Actor is the already-authenticated principal passed explicitly into every
// core operation. Authorization decisions happen inside the services, never
// in the transport layer.
type Actor struct {
	ID   string `json:"id"`
	Role Role   `json:"role"`
}

// IsAdmin reports whether the actor carries the admin role.
func (a Actor) IsAdmin() bool {
	return a.Role == RoleAdmin
}
