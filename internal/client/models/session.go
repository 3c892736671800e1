// Package models holds the client-side domain types of the console.
package models

import "time"

// Session is the authenticated state of the console. It is either fully
// absent (logged out) or fully populated; partial sessions never exist.
// The session store owns the value, everybody else reads a copy.
type Session struct {
	Identity    string
	IsAdmin     bool
	LastChanged time.Time
	Token       string
}

// Role returns the display name of the session's role.
func (s *Session) Role() string {
	if s.IsAdmin {
		return "Admin"
	}
	return "User"
}
