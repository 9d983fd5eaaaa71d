package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"proservis/internal/domain/technician"
)

var ErrTechnicianNotFound = errors.New("technician not found")
var ErrDuplicateTelegramID = errors.New("technician with this Telegram ID already exists")

type PostgresTechnicianRepository struct {
	db *sql.DB
}

func NewPostgresTechnicianRepository(db *sql.DB) *PostgresTechnicianRepository {
	return &PostgresTechnicianRepository{db: db}
}

const technicianColumns = `id, telegram_id, first_name, last_name, is_active, created_at, updated_at`

func scanTechnician(row interface{ Scan(...any) error }) (*technician.Technician, error) {
	t := &technician.Technician{}
	err := row.Scan(&t.ID, &t.TelegramID, &t.FirstName, &t.LastName, &t.IsActive, &t.CreatedAt, &t.UpdatedAt)
	return t, err
}

func (r *PostgresTechnicianRepository) Create(ctx context.Context, t *technician.Technician) error {
	query := `INSERT INTO technicians (telegram_id, first_name, last_name, is_active)
               VALUES ($1, $2, $3, $4)
               RETURNING id, created_at, updated_at`

	err := r.db.QueryRowContext(ctx, query, t.TelegramID, t.FirstName, t.LastName, t.IsActive).Scan(&t.ID, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if strings.Contains(err.Error(), "technicians_telegram_id_key") {
			return ErrDuplicateTelegramID
		}
		return fmt.Errorf("error creating technician: %w", err)
	}
	return nil
}

func (r *PostgresTechnicianRepository) GetByID(ctx context.Context, id int64) (*technician.Technician, error) {
	query := `SELECT ` + technicianColumns + ` FROM technicians WHERE id = $1`
	t, err := scanTechnician(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTechnicianNotFound
		}
		return nil, fmt.Errorf("error getting technician by ID: %w", err)
	}
	return t, nil
}

func (r *PostgresTechnicianRepository) GetByTelegramID(ctx context.Context, telegramID int64) (*technician.Technician, error) {
	query := `SELECT ` + technicianColumns + ` FROM technicians WHERE telegram_id = $1`
	t, err := scanTechnician(r.db.QueryRowContext(ctx, query, telegramID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTechnicianNotFound
		}
		return nil, fmt.Errorf("error getting technician by Telegram ID: %w", err)
	}
	return t, nil
}

func (r *PostgresTechnicianRepository) Update(ctx context.Context, t *technician.Technician) error {
	query := `UPDATE technicians
               SET first_name = $1, last_name = $2, is_active = $3, updated_at = NOW()
               WHERE id = $4
               RETURNING updated_at`

	err := r.db.QueryRowContext(ctx, query, t.FirstName, t.LastName, t.IsActive, t.ID).Scan(&t.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrTechnicianNotFound
		}
		return fmt.Errorf("error updating technician: %w", err)
	}
	return nil
}

func (r *PostgresTechnicianRepository) ListActive(ctx context.Context) ([]*technician.Technician, error) {
	query := `SELECT ` + technicianColumns + ` FROM technicians WHERE is_active = TRUE ORDER BY first_name, last_name`
	return r.list(ctx, query, "active")
}

func (r *PostgresTechnicianRepository) ListAll(ctx context.Context) ([]*technician.Technician, error) {
	query := `SELECT ` + technicianColumns + ` FROM technicians ORDER BY id`
	return r.list(ctx, query, "all")
}

func (r *PostgresTechnicianRepository) list(ctx context.Context, query, scope string) ([]*technician.Technician, error) {
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("error listing %s technicians: %w", scope, err)
	}
	defer rows.Close()

	technicians := make([]*technician.Technician, 0)
	for rows.Next() {
		t, err := scanTechnician(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning %s technician: %w", scope, err)
		}
		technicians = append(technicians, t)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating %s technicians: %w", scope, err)
	}
	return technicians, nil
}
