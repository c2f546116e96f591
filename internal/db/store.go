package db

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/maintdesk/backend/internal/models"
	"github.com/maintdesk/backend/internal/service"
)

type Store struct {
	Pool *pgxpool.Pool
}

func New(ctx context.Context, databaseURL string) (*Store, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, err
	}
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return &Store{Pool: pool}, nil
}

func (s *Store) Close() {
	s.Pool.Close()
}

func (s *Store) Ping(ctx context.Context) error {
	return s.Pool.Ping(ctx)
}

func (s *Store) WithTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := s.Pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()
	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

const workOrderColumns = `id, wo_number, title, description, type, priority, status, asset_id, assigned_to,
	estimated_hours, completion_notes, due_date, scheduled_date, completed_date, created_at, updated_at`

func scanWorkOrder(row pgx.Row) (models.WorkOrder, error) {
	var wo models.WorkOrder
	err := row.Scan(
		&wo.ID, &wo.WONumber, &wo.Title, &wo.Description, &wo.Type, &wo.Priority, &wo.Status,
		&wo.AssetID, &wo.AssignedTo, &wo.EstimatedHours, &wo.CompletionNotes,
		&wo.DueDate, &wo.ScheduledDate, &wo.CompletedDate, &wo.CreatedAt, &wo.UpdatedAt,
	)
	return wo, err
}

func (s *Store) ListWorkOrders(ctx context.Context, status, priority string, limit, offset int) ([]models.WorkOrder, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	query := `SELECT ` + workOrderColumns + ` FROM work_orders`
	var args []any
	var wheres []string
	if status != "" {
		args = append(args, status)
		wheres = append(wheres, fmt.Sprintf("status = $%d", len(args)))
	}
	if priority != "" {
		args = append(args, priority)
		wheres = append(wheres, fmt.Sprintf("priority = $%d", len(args)))
	}
	if len(wheres) > 0 {
		query += " WHERE " + strings.Join(wheres, " AND ")
	}
	query += " ORDER BY created_at DESC LIMIT $" + fmt.Sprint(len(args)+1) + " OFFSET $" + fmt.Sprint(len(args)+2)
	args = append(args, limit, offset)

	rows, err := s.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.WorkOrder
	for rows.Next() {
		wo, err := scanWorkOrder(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, wo)
	}
	return out, rows.Err()
}

func (s *Store) GetWorkOrder(ctx context.Context, id int64) (models.WorkOrder, error) {
	row := s.Pool.QueryRow(ctx, `SELECT `+workOrderColumns+` FROM work_orders WHERE id = $1`, id)
	return scanWorkOrder(row)
}

// ListOpenWorkOrders returns rows subject to SLA evaluation: open and
// in-progress only. Completed, cancelled and on-hold orders are excluded.
func (s *Store) ListOpenWorkOrders(ctx context.Context) ([]models.WorkOrder, error) {
	rows, err := s.Pool.Query(ctx, `
		SELECT `+workOrderColumns+`
		FROM work_orders
		WHERE status IN ('open', 'in_progress')
		ORDER BY created_at ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.WorkOrder
	for rows.Next() {
		wo, err := scanWorkOrder(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, wo)
	}
	return out, rows.Err()
}

// CreateWorkOrder inserts a work order and assigns its WO number from
// the generated id within the same transaction.
func (s *Store) CreateWorkOrder(ctx context.Context, wo models.WorkOrder) (models.WorkOrder, error) {
	err := s.WithTx(ctx, func(tx pgx.Tx) error {
		id, number, err := insertWorkOrder(ctx, tx, wo)
		if err != nil {
			return err
		}
		wo.ID = id
		wo.WONumber = number
		return nil
	})
	if err != nil {
		return models.WorkOrder{}, err
	}
	return s.GetWorkOrder(ctx, wo.ID)
}

func insertWorkOrder(ctx context.Context, tx pgx.Tx, wo models.WorkOrder) (int64, string, error) {
	var id int64
	err := tx.QueryRow(ctx, `
		INSERT INTO work_orders (title, description, type, priority, status, asset_id, assigned_to,
			estimated_hours, completion_notes, due_date, scheduled_date, completed_date, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,NOW(),NOW())
		RETURNING id
	`, wo.Title, wo.Description, wo.Type, wo.Priority, wo.Status, wo.AssetID, wo.AssignedTo,
		wo.EstimatedHours, wo.CompletionNotes, wo.DueDate, wo.ScheduledDate, wo.CompletedDate).Scan(&id)
	if err != nil {
		return 0, "", err
	}

	number := fmt.Sprintf("WO-%06d", id)
	if _, err := tx.Exec(ctx, `UPDATE work_orders SET wo_number = $1 WHERE id = $2`, number, id); err != nil {
		return 0, "", err
	}
	return id, number, nil
}

func (s *Store) UpdateWorkOrderStatus(ctx context.Context, id int64, status models.WorkOrderStatus, completedAt *time.Time) error {
	tag, err := s.Pool.Exec(ctx, `
		UPDATE work_orders SET status = $1, completed_date = $2, updated_at = NOW() WHERE id = $3
	`, status, completedAt, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// EscalateWorkOrder raises priority with an optimistic guard on the
// current value, so a concurrent sweep that already bumped the row
// leaves this update a no-op.
func (s *Store) EscalateWorkOrder(ctx context.Context, id int64, from, to models.Priority) (bool, error) {
	tag, err := s.Pool.Exec(ctx, `
		UPDATE work_orders SET priority = $1, updated_at = NOW()
		WHERE id = $2 AND priority = $3 AND status IN ('open', 'in_progress')
	`, to, id, from)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (s *Store) InsertAuditEntry(ctx context.Context, e models.AuditEntry) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	detail, err := json.Marshal(e.Detail)
	if err != nil {
		return fmt.Errorf("marshal audit detail: %w", err)
	}
	_, err = s.Pool.Exec(ctx, `
		INSERT INTO audit_log (id, entity_kind, entity_id, action, detail, created_at)
		VALUES ($1,$2,$3,$4,$5,NOW())
	`, e.ID, e.EntityKind, e.EntityID, e.Action, detail)
	return err
}

func (s *Store) ListSLAThresholds(ctx context.Context) ([]models.SLAThreshold, error) {
	rows, err := s.Pool.Query(ctx, `
		SELECT priority, response_hours, resolution_hours, escalation_hours
		FROM sla_thresholds
		ORDER BY CASE priority
			WHEN 'critical' THEN 0 WHEN 'high' THEN 1 WHEN 'medium' THEN 2 ELSE 3 END
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.SLAThreshold
	for rows.Next() {
		var t models.SLAThreshold
		if err := rows.Scan(&t.Priority, &t.ResponseHours, &t.ResolutionHours, &t.EscalationHours); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (s *Store) ReplaceSLAThresholds(ctx context.Context, thresholds []models.SLAThreshold) error {
	return s.WithTx(ctx, func(tx pgx.Tx) error {
		for _, t := range thresholds {
			_, err := tx.Exec(ctx, `
				INSERT INTO sla_thresholds (priority, response_hours, resolution_hours, escalation_hours)
				VALUES ($1,$2,$3,$4)
				ON CONFLICT (priority) DO UPDATE SET
					response_hours = EXCLUDED.response_hours,
					resolution_hours = EXCLUDED.resolution_hours,
					escalation_hours = EXCLUDED.escalation_hours
			`, t.Priority, t.ResponseHours, t.ResolutionHours, t.EscalationHours)
			if err != nil {
				return err
			}
		}
		return nil
	})
}

const pmScheduleColumns = `id, title, description, asset_id, assigned_to, frequency, frequency_value,
	estimated_hours, estimated_cost, last_performed, next_due, active, created_at`

func scanPMSchedule(row pgx.Row) (models.PMSchedule, error) {
	var p models.PMSchedule
	err := row.Scan(
		&p.ID, &p.Title, &p.Description, &p.AssetID, &p.AssignedTo, &p.Frequency, &p.FrequencyValue,
		&p.EstimatedHours, &p.EstimatedCost, &p.LastPerformed, &p.NextDue, &p.Active, &p.CreatedAt,
	)
	return p, err
}

func (s *Store) ListPMSchedules(ctx context.Context, activeOnly bool) ([]models.PMSchedule, error) {
	query := `SELECT ` + pmScheduleColumns + ` FROM pm_schedules`
	if activeOnly {
		query += ` WHERE active`
	}
	query += ` ORDER BY next_due ASC`

	rows, err := s.Pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.PMSchedule
	for rows.Next() {
		p, err := scanPMSchedule(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (s *Store) GetPMSchedule(ctx context.Context, id int64) (models.PMSchedule, error) {
	row := s.Pool.QueryRow(ctx, `SELECT `+pmScheduleColumns+` FROM pm_schedules WHERE id = $1`, id)
	return scanPMSchedule(row)
}

func (s *Store) CreatePMSchedule(ctx context.Context, p models.PMSchedule) (models.PMSchedule, error) {
	var id int64
	err := s.Pool.QueryRow(ctx, `
		INSERT INTO pm_schedules (title, description, asset_id, assigned_to, frequency, frequency_value,
			estimated_hours, estimated_cost, last_performed, next_due, active, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,NOW())
		RETURNING id
	`, p.Title, p.Description, p.AssetID, p.AssignedTo, p.Frequency, p.FrequencyValue,
		p.EstimatedHours, p.EstimatedCost, p.LastPerformed, p.NextDue, p.Active).Scan(&id)
	if err != nil {
		return models.PMSchedule{}, err
	}
	return s.GetPMSchedule(ctx, id)
}

// ApplyScheduleCompletion performs the writes for one PM completion in
// a single transaction: advance the schedule, insert the spawned work
// order, and append the asset history entry when the schedule is tied
// to an asset.
func (s *Store) ApplyScheduleCompletion(ctx context.Context, c service.ScheduleCompletion) (int64, string, error) {
	var (
		woID     int64
		woNumber string
	)
	err := s.WithTx(ctx, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `
			UPDATE pm_schedules SET last_performed = $1, next_due = $2 WHERE id = $3
		`, c.LastPerformed, c.NextDue, c.ScheduleID)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return pgx.ErrNoRows
		}

		woID, woNumber, err = insertWorkOrder(ctx, tx, c.WorkOrder)
		if err != nil {
			return err
		}

		if c.AssetID != nil {
			detail, _ := json.Marshal(map[string]any{
				"schedule_id":    c.ScheduleID,
				"wo_number":      woNumber,
				"estimated_cost": c.EstimatedCost,
			})
			_, err = tx.Exec(ctx, `
				INSERT INTO audit_log (id, entity_kind, entity_id, action, detail, created_at)
				VALUES ($1,'asset',$2,'pm_completed',$3,NOW())
			`, uuid.NewString(), *c.AssetID, detail)
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, "", err
	}
	return woID, woNumber, nil
}

func (s *Store) GetAsset(ctx context.Context, id int64) (models.Asset, error) {
	row := s.Pool.QueryRow(ctx, `
		SELECT id, name, category, location, status, purchase_cost, salvage_value, useful_life_years, purchase_date, created_at
		FROM assets WHERE id = $1
	`, id)
	var a models.Asset
	err := row.Scan(&a.ID, &a.Name, &a.Category, &a.Location, &a.Status,
		&a.PurchaseCost, &a.SalvageValue, &a.UsefulLifeYears, &a.PurchaseDate, &a.CreatedAt)
	return a, err
}

func (s *Store) ListLowStockParts(ctx context.Context) ([]models.Part, error) {
	rows, err := s.Pool.Query(ctx, `
		SELECT id, name, part_number, quantity, min_quantity, unit_cost, location
		FROM parts WHERE quantity <= min_quantity ORDER BY name ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Part
	for rows.Next() {
		var p models.Part
		if err := rows.Scan(&p.ID, &p.Name, &p.PartNumber, &p.Quantity, &p.MinQuantity, &p.UnitCost, &p.Location); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (s *Store) CountWorkOrdersByStatus(ctx context.Context) (map[string]int, error) {
	rows, err := s.Pool.Query(ctx, `SELECT status, COUNT(*) FROM work_orders GROUP BY status`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := map[string]int{}
	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		out[status] = count
	}
	return out, rows.Err()
}

func (s *Store) CountOverduePMSchedules(ctx context.Context, now time.Time) (int, error) {
	var count int
	err := s.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM pm_schedules WHERE active AND next_due < $1`, now).Scan(&count)
	return count, err
}
