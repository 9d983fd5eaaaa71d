// internal/domain/maintenance/service.go
package maintenance

import (
	"database/sql"
	"time"

	"proservis/internal/domain/recurrence"
)

// ServiceRecord is a work order on one piece of refrigeration equipment.
// Corresponds to the 'services' table.
type ServiceRecord struct {
	ID           int64
	ClientID     int64
	EquipmentID  int64
	TechnicianID sql.NullInt64
	Description  string
	Status       Status
	ScheduledFor sql.NullTime // Date the visit is due
	CompletedAt  sql.NullTime
	// Frequency and Policy describe how follow-up maintenance recurs.
	// An empty Frequency means the service does not recur.
	Frequency       recurrence.Frequency
	Policy          recurrence.Policy
	NextMaintenance sql.NullTime
	ParentID        sql.NullInt64 // Service whose completion scheduled this one
	NotifiedAt      sql.NullTime  // Last reminder sent to the technician
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// IsRecurring reports whether completing the service may schedule another.
func (s *ServiceRecord) IsRecurring() bool {
	return s.Frequency != ""
}
