package model

import "time"

// SessionUser is the account the session belongs to.
type SessionUser struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Session is the client's authenticated state. It is loaded from a
// SessionStore and passed explicitly to every authenticated API call.
type Session struct {
	Token   string      `json:"token"`
	User    SessionUser `json:"user"`
	SavedAt time.Time   `json:"savedAt"`
}

// Valid reports whether the session carries a token.
func (s *Session) Valid() bool {
	return s != nil && s.Token != ""
}
