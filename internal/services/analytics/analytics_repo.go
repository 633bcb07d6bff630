package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
)

// AnalyticsRepo issues the grouped-count queries behind the dashboards.
// Stateless: every call goes to the store.
type AnalyticsRepo struct {
	db *sqlx.DB
}

func NewAnalyticsRepo(db *sqlx.DB) *AnalyticsRepo {
	return &AnalyticsRepo{db: db}
}

func (r *AnalyticsRepo) Count(ctx context.Context, table string) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count, fmt.Sprintf(`SELECT COUNT(*) FROM %s`, table))
	if err != nil {
		return 0, fmt.Errorf("failed to count %s: %w", table, err)
	}
	return count, nil
}

// GroupCount runs a group-by count over one column of one table. Table and
// column names come from a fixed internal set, never from user input.
func (r *AnalyticsRepo) GroupCount(ctx context.Context, table, column string) (map[string]int, error) {
	query := fmt.Sprintf(`SELECT %s AS bucket, COUNT(*) AS count FROM %s GROUP BY %s`, column, table, column)

	rows, err := r.db.QueryxContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to group %s by %s: %w", table, column, err)
	}
	defer rows.Close()

	result := map[string]int{}
	for rows.Next() {
		var bucket string
		var count int
		if err := rows.Scan(&bucket, &count); err != nil {
			return nil, fmt.Errorf("failed to scan group row: %w", err)
		}
		result[bucket] = count
	}

	return result, rows.Err()
}

// CompletedTaskCount counts tasks in COMPLETED status.
func (r *AnalyticsRepo) CompletedTaskCount(ctx context.Context) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM tasks WHERE status = 'COMPLETED'`)
	if err != nil {
		return 0, fmt.Errorf("failed to count completed tasks: %w", err)
	}
	return count, nil
}

// Trend returns per-day created/completed task counts from `since` onwards.
func (r *AnalyticsRepo) Trend(ctx context.Context, since time.Time) ([]TrendPoint, error) {
	query := `
        SELECT
            d::date AS date,
            COUNT(t.id) FILTER (WHERE t.created_at::date = d::date) AS created,
            COUNT(t.id) FILTER (WHERE t.status = 'COMPLETED' AND t.updated_at::date = d::date) AS completed
        FROM generate_series($1::date, NOW()::date, '1 day') d
        LEFT JOIN tasks t ON t.created_at::date = d::date
            OR (t.status = 'COMPLETED' AND t.updated_at::date = d::date)
        GROUP BY d::date
        ORDER BY d::date ASC
    `

	rows, err := r.db.QueryxContext(ctx, query, since)
	if err != nil {
		return nil, fmt.Errorf("failed to query trend: %w", err)
	}
	defer rows.Close()

	var points []TrendPoint
	for rows.Next() {
		var p TrendPoint
		if err := rows.Scan(&p.Date, &p.Created, &p.Completed); err != nil {
			return nil, fmt.Errorf("failed to scan trend row: %w", err)
		}
		points = append(points, p)
	}

	return points, rows.Err()
}
