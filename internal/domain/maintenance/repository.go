package maintenance

import (
	"context"
	"time"
)

// Repository defines operations on service records.
type Repository interface {
	Create(ctx context.Context, record *ServiceRecord) error
	GetByID(ctx context.Context, id int64) (*ServiceRecord, error)
	Update(ctx context.Context, record *ServiceRecord) error
	// CompleteWithFollowUp saves the completed record and, when followUp is
	// not nil, inserts it, in one transaction. Nothing is stored on error.
	CompleteWithFollowUp(ctx context.Context, record *ServiceRecord, followUp *ServiceRecord) error
	// ListScheduledOn returns SCHEDULED services whose due date is day.
	ListScheduledOn(ctx context.Context, day time.Time) ([]*ServiceRecord, error)
	ListByTechnician(ctx context.Context, technicianID int64) ([]*ServiceRecord, error)
}
