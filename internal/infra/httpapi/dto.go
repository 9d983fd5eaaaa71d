package httpapi

import (
	"proservis/internal/domain/maintenance"
	"proservis/internal/domain/recurrence"

	"github.com/samber/mo"
)

// NextDateRequest asks for the next occurrence after ReferenceDate.
type NextDateRequest struct {
	ReferenceDate string               `json:"referenceDate"`
	Frequency     recurrence.Frequency `json:"frequency"`
	Policy        recurrence.Policy    `json:"policy"`
}

// NextDateResponse carries a null nextDate when nothing should be scheduled.
type NextDateResponse struct {
	NextDate *string `json:"nextDate"`
}

// CompleteServiceRequest closes a service. An empty CompletedOn means today.
type CompleteServiceRequest struct {
	CompletedOn string               `json:"completedOn"`
	Frequency   recurrence.Frequency `json:"frequency"`
	Policy      recurrence.Policy    `json:"policy"`
}

type CompleteServiceResponse struct {
	Service  ServiceDTO  `json:"service"`
	NextDate *string     `json:"nextDate"`
	FollowUp *ServiceDTO `json:"followUp,omitempty"`
}

type ServiceDTO struct {
	ID              int64                `json:"id"`
	ClientID        int64                `json:"clientId"`
	EquipmentID     int64                `json:"equipmentId"`
	TechnicianID    *int64               `json:"technicianId,omitempty"`
	Description     string               `json:"description,omitempty"`
	Status          maintenance.Status   `json:"status"`
	ScheduledFor    *string              `json:"scheduledFor,omitempty"`
	CompletedAt     *string              `json:"completedAt,omitempty"`
	Frequency       recurrence.Frequency `json:"frequency,omitempty"`
	Policy          *recurrence.Policy   `json:"policy,omitempty"`
	NextMaintenance *string              `json:"nextMaintenance,omitempty"`
	ParentID        *int64               `json:"parentId,omitempty"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

func optionPtr(o mo.Option[string]) *string {
	if v, ok := o.Get(); ok {
		return &v
	}
	return nil
}

func toServiceDTO(s *maintenance.ServiceRecord) ServiceDTO {
	dto := ServiceDTO{
		ID:          s.ID,
		ClientID:    s.ClientID,
		EquipmentID: s.EquipmentID,
		Description: s.Description,
		Status:      s.Status,
		Frequency:   s.Frequency,
	}
	if s.TechnicianID.Valid {
		dto.TechnicianID = &s.TechnicianID.Int64
	}
	if s.ParentID.Valid {
		dto.ParentID = &s.ParentID.Int64
	}
	if s.ScheduledFor.Valid {
		d := recurrence.FormatDate(s.ScheduledFor.Time)
		dto.ScheduledFor = &d
	}
	if s.CompletedAt.Valid {
		d := recurrence.FormatDate(s.CompletedAt.Time)
		dto.CompletedAt = &d
	}
	if s.NextMaintenance.Valid {
		d := recurrence.FormatDate(s.NextMaintenance.Time)
		dto.NextMaintenance = &d
	}
	if !s.Policy.IsZero() {
		p := s.Policy
		dto.Policy = &p
	}
	return dto
}
