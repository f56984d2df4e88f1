package reports

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

type StoreAPI interface {
	HeadcountRows(ctx context.Context, status string) ([]HeadcountRow, error)
}

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

// HeadcountRows groups employees with the given status by department and position.
func (s *Store) HeadcountRows(ctx context.Context, status string) ([]HeadcountRow, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT department, position, COUNT(1)
    FROM employees
    WHERE status = $1
    GROUP BY department, position
    ORDER BY department, position
  `, status)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]HeadcountRow, 0)
	for rows.Next() {
		var row HeadcountRow
		if err := rows.Scan(&row.Department, &row.Position, &row.Count); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}
