package models

// SessionResponse is returned by a successful login.
type SessionResponse struct {
	User  UserSummary `json:"user"`
	Token string      `json:"token"`
}
