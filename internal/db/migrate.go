package db

import (
	"context"

	"github.com/jackc/pgx/v5"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS work_orders (
		id BIGSERIAL PRIMARY KEY,
		wo_number TEXT NOT NULL DEFAULT '',
		title TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		type TEXT NOT NULL DEFAULT 'corrective',
		priority TEXT NOT NULL DEFAULT 'medium',
		status TEXT NOT NULL DEFAULT 'open',
		asset_id BIGINT,
		assigned_to BIGINT,
		estimated_hours DOUBLE PRECISION NOT NULL DEFAULT 0,
		completion_notes TEXT NOT NULL DEFAULT '',
		due_date TIMESTAMPTZ,
		scheduled_date TIMESTAMPTZ,
		completed_date TIMESTAMPTZ,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_work_orders_status ON work_orders (status)`,
	`CREATE TABLE IF NOT EXISTS sla_thresholds (
		priority TEXT PRIMARY KEY,
		response_hours DOUBLE PRECISION NOT NULL,
		resolution_hours DOUBLE PRECISION NOT NULL,
		escalation_hours DOUBLE PRECISION NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS pm_schedules (
		id BIGSERIAL PRIMARY KEY,
		title TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		asset_id BIGINT,
		assigned_to BIGINT,
		frequency TEXT NOT NULL,
		frequency_value INT NOT NULL DEFAULT 1,
		estimated_hours DOUBLE PRECISION NOT NULL DEFAULT 0,
		estimated_cost DOUBLE PRECISION NOT NULL DEFAULT 0,
		last_performed TIMESTAMPTZ,
		next_due TIMESTAMPTZ NOT NULL,
		active BOOLEAN NOT NULL DEFAULT TRUE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS assets (
		id BIGSERIAL PRIMARY KEY,
		name TEXT NOT NULL,
		category TEXT NOT NULL DEFAULT '',
		location TEXT NOT NULL DEFAULT '',
		status TEXT NOT NULL DEFAULT 'operational',
		purchase_cost DOUBLE PRECISION NOT NULL DEFAULT 0,
		salvage_value DOUBLE PRECISION NOT NULL DEFAULT 0,
		useful_life_years INT NOT NULL DEFAULT 0,
		purchase_date TIMESTAMPTZ,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS parts (
		id BIGSERIAL PRIMARY KEY,
		name TEXT NOT NULL,
		part_number TEXT NOT NULL DEFAULT '',
		quantity INT NOT NULL DEFAULT 0,
		min_quantity INT NOT NULL DEFAULT 0,
		unit_cost DOUBLE PRECISION NOT NULL DEFAULT 0,
		location TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE TABLE IF NOT EXISTS audit_log (
		id UUID PRIMARY KEY,
		entity_kind TEXT NOT NULL,
		entity_id BIGINT NOT NULL,
		action TEXT NOT NULL,
		detail JSONB,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
}

// seedThresholds are the default SLA budgets, inserted only when the
// priority has no row yet so administrator edits survive restarts.
var seedThresholds = [][4]any{
	{"critical", 1.0, 4.0, 8.0},
	{"high", 2.0, 8.0, 24.0},
	{"medium", 4.0, 24.0, 72.0},
	{"low", 8.0, 72.0, 168.0},
}

// Migrate creates missing tables and seeds the SLA threshold defaults.
func (s *Store) Migrate(ctx context.Context) error {
	return s.WithTx(ctx, func(tx pgx.Tx) error {
		for _, stmt := range schema {
			if _, err := tx.Exec(ctx, stmt); err != nil {
				return err
			}
		}
		for _, t := range seedThresholds {
			_, err := tx.Exec(ctx, `
				INSERT INTO sla_thresholds (priority, response_hours, resolution_hours, escalation_hours)
				VALUES ($1,$2,$3,$4)
				ON CONFLICT (priority) DO NOTHING
			`, t[0], t[1], t[2], t[3])
			if err != nil {
				return err
			}
		}
		return nil
	})
}
