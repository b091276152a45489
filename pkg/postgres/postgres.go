package postgres

import (
	"database/sql"
	"fmt"

	"github.com/ds124wfegd/mmk_universe/config"

	_ "github.com/lib/pq"
	"github.com/sirupsen/logrus"
)

func NewPostgresDB(cfg *config.DatabaseConfig) (*sql.DB, error) {
	connStr := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.DBName, cfg.SSLMode,
	)

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logrus.Info("Successfully connected to PostgreSQL")
	return db, nil
}

// targetTable is shared by events and programs; both are enrollable the same way.
func targetTable(name string) string {
	return fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
			id SERIAL PRIMARY KEY,
			title VARCHAR(255) NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			date TIMESTAMP,
			start_registration TIMESTAMP,
			end_registration TIMESTAMP,
			fee NUMERIC(12,2) NOT NULL DEFAULT 0,
			attendance_limit INTEGER NOT NULL CHECK (attendance_limit > 0),
			attendees INTEGER NOT NULL DEFAULT 0,
			completed BOOLEAN NOT NULL DEFAULT FALSE,
			image VARCHAR(255) NOT NULL DEFAULT '',
			qr_code VARCHAR(255) NOT NULL DEFAULT '',
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`, name)
}

func RunMigrations(db *sql.DB) error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id SERIAL PRIMARY KEY,
			user_id VARCHAR(32) UNIQUE,
			name VARCHAR(255) NOT NULL,
			email VARCHAR(255) UNIQUE NOT NULL,
			phone VARCHAR(32) NOT NULL DEFAULT '',
			password VARCHAR(255) NOT NULL,
			role VARCHAR(16) NOT NULL DEFAULT 'user',
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,

		targetTable("events"),
		targetTable("programs"),

		`CREATE TABLE IF NOT EXISTS payment_requests (
			id SERIAL PRIMARY KEY,
			target_kind VARCHAR(16) NOT NULL CHECK (target_kind IN ('event', 'program')),
			target_id INTEGER NOT NULL,
			submission_type VARCHAR(16) NOT NULL CHECK (submission_type IN ('user', 'guest')),
			user_id VARCHAR(32),
			name VARCHAR(255) NOT NULL,
			email VARCHAR(255) NOT NULL,
			transaction_id VARCHAR(12) NOT NULL,
			image VARCHAR(255) NOT NULL,
			status VARCHAR(16) NOT NULL DEFAULT 'pending' CHECK (status IN ('pending', 'approved', 'rejected')),
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,

		`CREATE TABLE IF NOT EXISTS attendees (
			id SERIAL PRIMARY KEY,
			target_kind VARCHAR(16) NOT NULL CHECK (target_kind IN ('event', 'program')),
			target_id INTEGER NOT NULL,
			submission_type VARCHAR(16) NOT NULL CHECK (submission_type IN ('user', 'guest')),
			user_id VARCHAR(32),
			name VARCHAR(255) NOT NULL,
			email VARCHAR(255) NOT NULL,
			transaction_id VARCHAR(12) NOT NULL,
			participated BOOLEAN NOT NULL DEFAULT FALSE,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,

		// A rejected proof may be resubmitted with the same transaction id
		`CREATE UNIQUE INDEX IF NOT EXISTS uq_payment_requests_transaction_id
			ON payment_requests(transaction_id)
			WHERE status <> 'rejected'`,

		// One pending request per identity and target
		`CREATE UNIQUE INDEX IF NOT EXISTS uq_payment_requests_pending_user
			ON payment_requests(target_kind, target_id, user_id)
			WHERE status = 'pending' AND user_id IS NOT NULL`,
		`CREATE UNIQUE INDEX IF NOT EXISTS uq_payment_requests_pending_guest
			ON payment_requests(target_kind, target_id, lower(email))
			WHERE status = 'pending' AND submission_type = 'guest'`,

		// One attendance per identity and target
		`CREATE UNIQUE INDEX IF NOT EXISTS uq_attendees_user
			ON attendees(target_kind, target_id, user_id)
			WHERE user_id IS NOT NULL`,
		`CREATE UNIQUE INDEX IF NOT EXISTS uq_attendees_guest
			ON attendees(target_kind, target_id, lower(email))
			WHERE submission_type = 'guest'`,

		`CREATE INDEX IF NOT EXISTS idx_payment_requests_status ON payment_requests(target_kind, status)`,
		`CREATE INDEX IF NOT EXISTS idx_attendees_target ON attendees(target_kind, target_id)`,
		`CREATE INDEX IF NOT EXISTS idx_attendees_user_id ON attendees(user_id)`,
	}

	for _, migration := range migrations {
		if _, err := db.Exec(migration); err != nil {
			return fmt.Errorf("failed to execute migration: %w", err)
		}
	}

	logrus.Info("Database migrations completed successfully")
	return nil
}
