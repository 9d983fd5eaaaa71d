// internal/infra/database/postgres_service_repository.go
package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"proservis/internal/domain/maintenance"
	"proservis/internal/domain/recurrence"

	"github.com/lib/pq" // For pq.Array on weekdays and explicit dates
)

var ErrServiceNotFound = errors.New("service record not found")

type PostgresServiceRepository struct {
	db *sql.DB
}

func NewPostgresServiceRepository(db *sql.DB) *PostgresServiceRepository {
	return &PostgresServiceRepository{db: db}
}

const serviceColumns = `id, client_id, equipment_id, technician_id, description, status,
       scheduled_for, completed_at, frequency, weekdays, day_of_month, explicit_dates,
       next_maintenance, parent_id, notified_at, created_at, updated_at`

// policyColumns flattens a recurrence policy into its three columns.
func policyColumns(p recurrence.Policy) (pq.Int64Array, sql.NullInt32, pq.StringArray) {
	weekdays := make(pq.Int64Array, len(p.Weekdays))
	for i, wd := range p.Weekdays {
		weekdays[i] = int64(wd)
	}
	var dayOfMonth sql.NullInt32
	if p.DayOfMonth != 0 {
		dayOfMonth = sql.NullInt32{Int32: int32(p.DayOfMonth), Valid: true}
	}
	dates := pq.StringArray(p.ExplicitDates)
	if dates == nil {
		dates = pq.StringArray{}
	}
	return weekdays, dayOfMonth, dates
}

func scanService(row interface{ Scan(...any) error }) (*maintenance.ServiceRecord, error) {
	s := &maintenance.ServiceRecord{}
	var (
		weekdays   pq.Int64Array
		dayOfMonth sql.NullInt32
		dates      pq.StringArray
	)
	err := row.Scan(
		&s.ID, &s.ClientID, &s.EquipmentID, &s.TechnicianID, &s.Description, &s.Status,
		&s.ScheduledFor, &s.CompletedAt, &s.Frequency, &weekdays, &dayOfMonth, &dates,
		&s.NextMaintenance, &s.ParentID, &s.NotifiedAt, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if len(weekdays) > 0 {
		s.Policy.Weekdays = make([]int, len(weekdays))
		for i, wd := range weekdays {
			s.Policy.Weekdays[i] = int(wd)
		}
	}
	if dayOfMonth.Valid {
		s.Policy.DayOfMonth = int(dayOfMonth.Int32)
	}
	if len(dates) > 0 {
		s.Policy.ExplicitDates = []string(dates)
	}
	return s, nil
}

// queryRower is satisfied by both *sql.DB and *sql.Tx.
type queryRower interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (r *PostgresServiceRepository) Create(ctx context.Context, s *maintenance.ServiceRecord) error {
	return insertService(ctx, r.db, s)
}

func insertService(ctx context.Context, q queryRower, s *maintenance.ServiceRecord) error {
	query := `INSERT INTO services (client_id, equipment_id, technician_id, description, status,
                   scheduled_for, completed_at, frequency, weekdays, day_of_month, explicit_dates,
                   next_maintenance, parent_id, notified_at)
               VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
               RETURNING id, created_at, updated_at`
	weekdays, dayOfMonth, dates := policyColumns(s.Policy)
	err := q.QueryRowContext(ctx, query,
		s.ClientID, s.EquipmentID, s.TechnicianID, s.Description, s.Status,
		s.ScheduledFor, s.CompletedAt, s.Frequency, weekdays, dayOfMonth, dates,
		s.NextMaintenance, s.ParentID, s.NotifiedAt,
	).Scan(&s.ID, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return fmt.Errorf("error creating service record: %w", err)
	}
	return nil
}

func (r *PostgresServiceRepository) GetByID(ctx context.Context, id int64) (*maintenance.ServiceRecord, error) {
	query := `SELECT ` + serviceColumns + ` FROM services WHERE id = $1`
	s, err := scanService(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrServiceNotFound
		}
		return nil, fmt.Errorf("error getting service record by ID: %w", err)
	}
	return s, nil
}

func (r *PostgresServiceRepository) Update(ctx context.Context, s *maintenance.ServiceRecord) error {
	return updateService(ctx, r.db, s)
}

func updateService(ctx context.Context, q queryRower, s *maintenance.ServiceRecord) error {
	query := `UPDATE services
               SET technician_id = $1, description = $2, status = $3, scheduled_for = $4,
                   completed_at = $5, frequency = $6, weekdays = $7, day_of_month = $8,
                   explicit_dates = $9, next_maintenance = $10, notified_at = $11, updated_at = NOW()
               WHERE id = $12
               RETURNING updated_at`
	weekdays, dayOfMonth, dates := policyColumns(s.Policy)
	err := q.QueryRowContext(ctx, query,
		s.TechnicianID, s.Description, s.Status, s.ScheduledFor,
		s.CompletedAt, s.Frequency, weekdays, dayOfMonth,
		dates, s.NextMaintenance, s.NotifiedAt, s.ID,
	).Scan(&s.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrServiceNotFound
		}
		return fmt.Errorf("error updating service record: %w", err)
	}
	return nil
}

func (r *PostgresServiceRepository) CompleteWithFollowUp(ctx context.Context, record *maintenance.ServiceRecord, followUp *maintenance.ServiceRecord) error {
	txn, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction for service completion: %w", err)
	}
	defer txn.Rollback() // Rollback if not committed

	if err := updateService(ctx, txn, record); err != nil {
		return err
	}
	if followUp != nil {
		if err := insertService(ctx, txn, followUp); err != nil {
			return fmt.Errorf("error scheduling follow-up of service %d: %w", record.ID, err)
		}
	}

	if err := txn.Commit(); err != nil {
		return fmt.Errorf("failed to commit service completion: %w", err)
	}
	return nil
}

func scanServices(rows *sql.Rows) ([]*maintenance.ServiceRecord, error) {
	services := make([]*maintenance.ServiceRecord, 0)
	for rows.Next() {
		s, err := scanService(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning service row: %w", err)
		}
		services = append(services, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating service rows: %w", err)
	}
	return services, nil
}

func (r *PostgresServiceRepository) ListScheduledOn(ctx context.Context, day time.Time) ([]*maintenance.ServiceRecord, error) {
	query := `SELECT ` + serviceColumns + `
               FROM services
               WHERE status = $1 AND scheduled_for = $2
               ORDER BY technician_id, id`
	rows, err := r.db.QueryContext(ctx, query, maintenance.StatusScheduled, recurrence.FormatDate(day))
	if err != nil {
		return nil, fmt.Errorf("error querying services scheduled on %s: %w", recurrence.FormatDate(day), err)
	}
	defer rows.Close()
	return scanServices(rows)
}

func (r *PostgresServiceRepository) ListByTechnician(ctx context.Context, technicianID int64) ([]*maintenance.ServiceRecord, error) {
	query := `SELECT ` + serviceColumns + `
               FROM services
               WHERE technician_id = $1
               ORDER BY scheduled_for NULLS LAST, id`
	rows, err := r.db.QueryContext(ctx, query, technicianID)
	if err != nil {
		return nil, fmt.Errorf("error querying services by technician: %w", err)
	}
	defer rows.Close()
	return scanServices(rows)
}
