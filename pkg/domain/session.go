package domain

// User is the customer profile returned by the login and register endpoints.
type User struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

// Session is the persisted authentication state. A session is authenticated
// exactly when User is non-nil; the token alone is not enough.
type Session struct {
	AccessToken string `json:"accessToken"`
	User        *User  `json:"user"`
}

// Authenticated reports whether the session carries a logged-in user.
func (s Session) Authenticated() bool {
	return s.User != nil
}
