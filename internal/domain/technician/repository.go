package technician

import (
	"context"
)

// Repository defines the operations for persisting and retrieving technicians.
type Repository interface {
	Create(ctx context.Context, technician *Technician) error
	GetByID(ctx context.Context, id int64) (*Technician, error)
	GetByTelegramID(ctx context.Context, telegramID int64) (*Technician, error)
	Update(ctx context.Context, technician *Technician) error
	ListActive(ctx context.Context) ([]*Technician, error)
	ListAll(ctx context.Context) ([]*Technician, error)
}
