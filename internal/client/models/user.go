package models

import "time"

// UserRecord is a read-only snapshot of one account as reported by the
// list-full endpoint. The admin console replaces its whole cached list
// after every mutating action instead of patching single records.
type UserRecord struct {
	Name         string
	IsAdmin      bool
	LastChanged  time.Time
	IsValid      bool
	IsSupported  bool
	FormatID     string
	FormatParams string
}

// Role returns the display name of the record's role.
func (u *UserRecord) Role() string {
	if u.IsAdmin {
		return "Admin"
	}
	return "User"
}
