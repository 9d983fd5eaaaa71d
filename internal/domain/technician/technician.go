package technician

import (
	"database/sql"
	"time"
)

// Technician is a field technician who receives maintenance reminders.
type Technician struct {
	ID         int64
	TelegramID int64
	FirstName  string
	LastName   sql.NullString
	IsActive   bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// FullName joins first and last name when the last name is present.
func (t *Technician) FullName() string {
	if t.LastName.Valid && t.LastName.String != "" {
		return t.FirstName + " " + t.LastName.String
	}
	return t.FirstName
}
