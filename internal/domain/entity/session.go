package entity

import "github.com/google/uuid"

// Session is an authenticated provider session. It is held in memory only;
// the durable trace of a login is the UserIdentity row derived from it.
type Session struct {
	AccessToken  string
	RefreshToken string // May be empty depending on the provider flow.
	UserID       uuid.UUID
	Email        string
}

// HasRefreshToken reports whether the session carries a token worth
// persisting. Sessions without one are valid for the flow but skip the
// identity upsert.
func (s *Session) HasRefreshToken() bool {
	return s.RefreshToken != ""
}
