package shared

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pkg/errors"
)

// Querier is the subset of pgxpool.Pool the stores need.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// ExecVersionedUpdate applies patch to a row that carries a version column. Zero affected
// rows means the row is missing or, when the patch named a version, that it moved on.
func ExecVersionedUpdate(ctx context.Context, db Querier, table, entity string, id int64, patch Patch, columns map[string]Column) error {
	query, args := BuildUpdate(table, id, patch, columns, true)
	tag, err := db.Exec(ctx, query, args...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() > 0 {
		return nil
	}
	if patch.Version == nil {
		return NotFound(entity)
	}
	var current int
	err = db.QueryRow(ctx, "SELECT version FROM "+table+" WHERE id = $1", id).Scan(&current)
	if errors.Is(err, pgx.ErrNoRows) {
		return NotFound(entity)
	}
	if err != nil {
		return err
	}
	return errors.Wrapf(ErrVersionConflict, "%s %d is at version %d", entity, id, current)
}

// Tally folds grouped status counts into a map and the overall total.
func Tally(rows pgx.Rows) (map[string]int, int, error) {
	defer rows.Close()
	counts := map[string]int{}
	total := 0
	for rows.Next() {
		var status string
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, 0, err
		}
		counts[status] += n
		total += n
	}
	return counts, total, rows.Err()
}
