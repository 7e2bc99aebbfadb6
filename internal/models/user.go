package models

// User is a forum account. Role fields drive the privilege checks: Admin
// grants everything, ModeratedCIDs lists the categories the user moderates.
type User struct {
	UID           string   `json:"uid"`
	Username      string   `json:"username"`
	UserSlug      string   `json:"userslug"`
	Picture       string   `json:"picture,omitempty"`
	Admin         bool     `json:"admin"`
	ModeratedCIDs []string `json:"moderated_cids,omitempty"`
	Banned        bool     `json:"banned"`
}

// MiniUser is the minimal profile embedded in moderation results.
type MiniUser struct {
	UID      string `json:"uid"`
	Username string `json:"username"`
	UserSlug string `json:"userslug"`
	Picture  string `json:"picture,omitempty"`
}

// Mini returns the minimal profile view of the user.
func (u *User) Mini() *MiniUser {
	return &MiniUser{
		UID:      u.UID,
		Username: u.Username,
		UserSlug: u.UserSlug,
		Picture:  u.Picture,
	}
}
