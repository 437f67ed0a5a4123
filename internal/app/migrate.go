package app

import (
	"github.com/CodifyCanvas/Foodya-sub001/internal/auth"
	"github.com/CodifyCanvas/Foodya-sub001/internal/employee"
	"github.com/CodifyCanvas/Foodya-sub001/internal/employment"
	"github.com/CodifyCanvas/Foodya-sub001/internal/payroll"
	"github.com/CodifyCanvas/Foodya-sub001/internal/rbac"
	"github.com/CodifyCanvas/Foodya-sub001/internal/salarychange"

	"gorm.io/gorm"
)

// migrate keeps the schema in sync for local and test environments.
// Production deployments run versioned migrations instead; this path is
// guarded by DB_AUTO_MIGRATE.
func migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&auth.User{},
		&employee.Employee{},
		&employment.EmploymentRecord{},
		&salarychange.SalaryChange{},
		&payroll.PayrollRecord{},
		&rbac.UserRole{},
		&rbac.RolePermission{},
	); err != nil {
		return err
	}

	// counters and outbox_events are accessed through raw SQL only, so
	// GORM has no model to migrate for them.
	ddl := []string{
		`CREATE TABLE IF NOT EXISTS counters (
			counter_type TEXT PRIMARY KEY,
			last_value   BIGINT NOT NULL DEFAULT 0,
			updated_at   TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS outbox_events (
			id             UUID PRIMARY KEY,
			request_id     TEXT,
			aggregate_type TEXT NOT NULL,
			aggregate_id   TEXT NOT NULL,
			event_type     TEXT NOT NULL,
			topic          TEXT NOT NULL,
			payload        JSONB NOT NULL,
			status         TEXT NOT NULL DEFAULT 'pending',
			retry_count    INT NOT NULL DEFAULT 0,
			last_error     TEXT,
			next_retry_at  TIMESTAMPTZ,
			sent_at        TIMESTAMPTZ,
			created_at     TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE INDEX IF NOT EXISTS idx_outbox_events_status_created
			ON outbox_events (status, created_at)`,
	}

	for _, stmt := range ddl {
		if err := db.Exec(stmt).Error; err != nil {
			return err
		}
	}

	return nil
}
