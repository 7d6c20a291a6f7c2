package activity

import (
	"context"
	"fmt"

	"github.com/ariefcatur/go-course-market/internal/events"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repo appends events to activity_log.
type Repo struct{ DB *pgxpool.Pool }

// Record stores ev once. An enrollment also bumps the course's student
// count, in the same transaction so a replay never counts twice.
func (r *Repo) Record(ctx context.Context, deviceID string, ev events.Envelope) (bool, error) {
	tx, err := r.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return false, err
	}
	defer tx.Rollback(ctx)

	ct, err := tx.Exec(ctx, `
		INSERT INTO activity_log (event_id, event_type, device_id, producer, payload, occurred_at)
		VALUES ($1,$2,$3,$4,$5,$6)
		ON CONFLICT (event_id) DO NOTHING`,
		ev.EventID, ev.EventType, deviceID, ev.Producer, []byte(ev.Payload), ev.OccurredAt)
	if err != nil {
		return false, fmt.Errorf("insert activity: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return false, nil
	}

	if ev.EventType == events.CourseEnrolled {
		p, err := events.Decode[events.EnrollPayload](ev)
		if err != nil {
			return false, err
		}
		if _, err := tx.Exec(ctx, `
			UPDATE courses SET students_enrolled = students_enrolled + 1 WHERE id = $1`, p.CourseID); err != nil {
			return false, fmt.Errorf("bump enrollment: %w", err)
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return false, err
	}
	return true, nil
}
