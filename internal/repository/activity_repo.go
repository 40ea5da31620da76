package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"weather_dashboard/internal/models"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// sqliteTimeLayout matches SQLite's TIMESTAMP text format so that range
// comparisons stay lexicographic.
const sqliteTimeLayout = "2006-01-02 15:04:05"

const (
	insertActivitySQL = `INSERT INTO activity_events (id, occurred_at, type, user_id, email, message, meta) VALUES (?, ?, ?, ?, ?, ?, ?)`
	selectActivitySQL = `SELECT id, occurred_at, type, user_id, email, message, meta FROM activity_events`
	deleteActivitySQL = `DELETE FROM activity_events WHERE occurred_at < ?`
)

type ActivitySQLite struct {
	db *sqlx.DB
}

func NewActivitySQLite(db *sqlx.DB) *ActivitySQLite { return &ActivitySQLite{db: db} }

var _ ActivityRepo = (*ActivitySQLite)(nil)

type activityRow struct {
	ID         string         `db:"id"`
	OccurredAt time.Time      `db:"occurred_at"`
	Type       string         `db:"type"`
	UserID     sql.NullString `db:"user_id"`
	Email      sql.NullString `db:"email"`
	Message    string         `db:"message"`
	Meta       sql.NullString `db:"meta"`
}

// Append inserts a new event. If EventID or OccurredAt are empty, they're set.
func (r *ActivitySQLite) Append(ctx context.Context, e models.ActivityEvent) error {
	if e.EventID == "" {
		e.EventID = uuid.NewString()
	}
	if e.OccurredAt.IsZero() {
		e.OccurredAt = time.Now().UTC()
	}

	var meta *string
	if e.Metadata != nil {
		b, err := json.Marshal(e.Metadata)
		if err != nil {
			return fmt.Errorf("marshal activity metadata: %w", err)
		}
		s := string(b)
		meta = &s
	}

	_, err := r.db.ExecContext(ctx, insertActivitySQL,
		e.EventID,
		e.OccurredAt.UTC().Format(sqliteTimeLayout),
		strings.ToUpper(strings.TrimSpace(e.Type)),
		nullable(e.UserID),
		nullable(e.Email),
		e.Description,
		meta,
	)
	if err != nil {
		return fmt.Errorf("insert activity event: %w", err)
	}
	return nil
}

// List returns events in [from, to] (inclusive) and/or of one type, newest first.
func (r *ActivitySQLite) List(ctx context.Context, from, to time.Time, typ string, limit int) ([]models.ActivityEvent, error) {
	var (
		conds []string
		args  []any
	)
	if !from.IsZero() {
		conds = append(conds, "occurred_at >= ?")
		args = append(args, from.UTC().Format(sqliteTimeLayout))
	}
	if !to.IsZero() {
		conds = append(conds, "occurred_at <= ?")
		args = append(args, to.UTC().Format(sqliteTimeLayout))
	}
	if typ = strings.ToUpper(strings.TrimSpace(typ)); typ != "" {
		conds = append(conds, "type = ?")
		args = append(args, typ)
	}

	q := selectActivitySQL
	if len(conds) > 0 {
		q += " WHERE " + strings.Join(conds, " AND ")
	}
	q += " ORDER BY occurred_at DESC"
	if limit > 0 {
		q += " LIMIT ?"
		args = append(args, limit)
	}

	var rows []activityRow
	if err := r.db.SelectContext(ctx, &rows, q, args...); err != nil {
		return nil, fmt.Errorf("list activity events: %w", err)
	}

	out := make([]models.ActivityEvent, 0, len(rows))
	for _, row := range rows {
		ev := models.ActivityEvent{
			EventID:     row.ID,
			OccurredAt:  row.OccurredAt.UTC(),
			Type:        row.Type,
			UserID:      row.UserID.String,
			Email:       row.Email.String,
			Description: row.Message,
		}
		if row.Meta.Valid && row.Meta.String != "" {
			var v any
			if err := json.Unmarshal([]byte(row.Meta.String), &v); err == nil {
				ev.Metadata = v
			} else {
				ev.Metadata = row.Meta.String // keep raw if malformed
			}
		}
		out = append(out, ev)
	}
	return out, nil
}

// DeleteBefore removes events older than cutoff and returns how many went.
func (r *ActivitySQLite) DeleteBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, deleteActivitySQL, cutoff.UTC().Format(sqliteTimeLayout))
	if err != nil {
		return 0, fmt.Errorf("delete activity events: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}
	return n, nil
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
