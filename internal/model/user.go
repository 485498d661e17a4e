// Package model defines the data structures used throughout the application.
package model

import "time"

// Role controls what a user may do. Members see the leaderboard and refresh
// their own stats; admins additionally manage ranks, visibility, and
// applications.
type Role string

const (
	RoleMember Role = "member"
	RoleAdmin  Role = "admin"
)

// User represents a registered club member.
//
// We use GitHub OAuth as the identity provider, so the primary external
// identifier is the GitHub user ID (an integer). We still generate our own
// internal string ID (xid) so our primary keys aren't tied to a third party's
// numbering scheme.
//
// GitHubToken is the OAuth access token captured at login. It is what lets the
// contribution aggregator query the GitHub search and statistics APIs on the
// user's behalf. It is never serialised to JSON.
type User struct {
	ID          string    `json:"id"        db:"id"`
	GitHubID    int64     `json:"githubId"  db:"github_id"` // GitHub's numeric user ID
	Login       string    `json:"login"     db:"login"`     // GitHub username, e.g. "sakif"
	Email       string    `json:"email"     db:"email"`     // Primary public email (may be empty)
	AvatarURL   string    `json:"avatarUrl" db:"avatar_url"`
	Role        Role      `json:"role"      db:"role"`
	GitHubToken string    `json:"-"         db:"github_token"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time `json:"updatedAt" db:"updated_at"`
}

// IsAdmin reports whether the user holds the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
