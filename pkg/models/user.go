package models

// Role is the access level of a user.
type Role string

const (
	// RoleAdmin can manage the team and view statistics.
	RoleAdmin Role = "Admin"
	// RoleUser is a regular team member.
	RoleUser Role = "User"
)

// Valid returns true if the role is a known value.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleUser
}

// User is a team member account. Passwords are stored in plaintext; the
// tracker is a single-machine tool with no security boundary.
type User struct {
	// Username is the unique account key.
	Username string `json:"username" yaml:"username"`
	// Password is the login secret.
	Password string `json:"password" yaml:"password"`
	// Role is the account's access level.
	Role Role `json:"role" yaml:"role"`
}
