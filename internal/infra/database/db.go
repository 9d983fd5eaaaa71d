package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq" // PostgreSQL driver
)

const (
	defaultMaxOpenConns    = 25
	defaultMaxIdleConns    = 25
	defaultConnMaxLifetime = 5 * time.Minute
	defaultConnMaxIdleTime = 1 * time.Minute
)

// NewPostgresConnection opens a PostgreSQL pool and pings it.
func NewPostgresConnection(ctx context.Context, dataSourceName string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dataSourceName)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	db.SetMaxOpenConns(defaultMaxOpenConns)
	db.SetMaxIdleConns(defaultMaxIdleConns)
	db.SetConnMaxLifetime(defaultConnMaxLifetime)
	db.SetConnMaxIdleTime(defaultConnMaxIdleTime)

	if err = db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}

const schema = `
CREATE TABLE IF NOT EXISTS technicians (
    id          BIGSERIAL PRIMARY KEY,
    telegram_id BIGINT      NOT NULL,
    first_name  TEXT        NOT NULL,
    last_name   TEXT,
    is_active   BOOLEAN     NOT NULL DEFAULT TRUE,
    created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at  TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    CONSTRAINT technicians_telegram_id_key UNIQUE (telegram_id)
);

CREATE TABLE IF NOT EXISTS services (
    id               BIGSERIAL PRIMARY KEY,
    client_id        BIGINT      NOT NULL,
    equipment_id     BIGINT      NOT NULL,
    technician_id    BIGINT      REFERENCES technicians (id),
    description      TEXT        NOT NULL DEFAULT '',
    status           VARCHAR(16) NOT NULL,
    scheduled_for    DATE,
    completed_at     DATE,
    frequency        VARCHAR(16) NOT NULL DEFAULT '',
    weekdays         INTEGER[]   NOT NULL DEFAULT '{}',
    day_of_month     INTEGER,
    explicit_dates   TEXT[]      NOT NULL DEFAULT '{}',
    next_maintenance DATE,
    parent_id        BIGINT      REFERENCES services (id),
    notified_at      TIMESTAMPTZ,
    created_at       TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at       TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS services_status_scheduled_for_idx ON services (status, scheduled_for);
CREATE INDEX IF NOT EXISTS services_technician_id_idx ON services (technician_id);
`

// EnsureSchema creates the tables used by the repositories when missing.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	return nil
}
