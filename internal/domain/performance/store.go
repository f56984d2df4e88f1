package performance

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"maplehr/internal/domain/shared"
)

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

const selectReview = `
    SELECT id, employee_id, reviewer_id, period, goals, achievements, rating, feedback, status,
           due_date, completed_at, created_at, updated_at
    FROM performance_reviews
`

func (s *Store) List(ctx context.Context, employeeID *int64, limit, offset int) ([]Review, error) {
	var where shared.Where
	if employeeID != nil {
		where.Add("employee_id", *employeeID)
	}
	query := selectReview + where.String() + " ORDER BY created_at DESC, id DESC" + where.Page(limit, offset)
	rows, err := s.DB.Query(ctx, query, where.Args...)
	if err != nil {
		return nil, err
	}
	return collect(rows)
}

func (s *Store) Get(ctx context.Context, id int64) (*Review, error) {
	rows, err := s.DB.Query(ctx, selectReview+" WHERE id = $1", id)
	if err != nil {
		return nil, err
	}
	out, err := collect(rows)
	if err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, shared.NotFound("performance review")
	}
	return &out[0], nil
}

func (s *Store) Create(ctx context.Context, payload NewReview) (*Review, error) {
	status := payload.Status
	if status == "" {
		status = StatusDraft
	}
	var id int64
	err := s.DB.QueryRow(ctx, `
    INSERT INTO performance_reviews (employee_id, reviewer_id, period, goals, achievements, rating, feedback, status, due_date)
    VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
    RETURNING id
  `, payload.EmployeeID, payload.ReviewerID, payload.Period, jsonArg(payload.Goals), jsonArg(payload.Achievements),
		payload.Rating, payload.Feedback, status, payload.DueDate).Scan(&id)
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

func (s *Store) Update(ctx context.Context, id int64, patch shared.Patch) (*Review, error) {
	if rating, ok := patch.Set["rating"].(int64); ok && (rating < 1 || rating > 5) {
		return nil, shared.InvalidField("rating", "must be between 1 and 5")
	}
	if status, ok := patch.String("status"); ok && status == StatusApproved && !patch.Has("completed_at") {
		patch.Set["completed_at"] = shared.Now
	}
	query, args := shared.BuildUpdate("performance_reviews", id, patch, Columns, false)
	tag, err := s.DB.Exec(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	if tag.RowsAffected() == 0 {
		return nil, shared.NotFound("performance review")
	}
	return s.Get(ctx, id)
}

func (s *Store) CountByStatus(ctx context.Context, status string) (int, error) {
	var count int
	err := s.DB.QueryRow(ctx, "SELECT COUNT(1) FROM performance_reviews WHERE status = $1", status).Scan(&count)
	if err != nil {
		return 0, err
	}
	return count, nil
}

func (s *Store) Summary(ctx context.Context) (Summary, error) {
	rows, err := s.DB.Query(ctx, "SELECT status, COUNT(1) FROM performance_reviews GROUP BY status")
	if err != nil {
		return Summary{}, err
	}
	byStatus, _, err := shared.Tally(rows)
	if err != nil {
		return Summary{}, err
	}

	ratingRows, err := s.DB.Query(ctx, "SELECT rating FROM performance_reviews WHERE rating IS NOT NULL")
	if err != nil {
		return Summary{}, err
	}
	defer ratingRows.Close()
	var ratings []int
	for ratingRows.Next() {
		var rating int
		if err := ratingRows.Scan(&rating); err != nil {
			return Summary{}, err
		}
		ratings = append(ratings, rating)
	}
	if err := ratingRows.Err(); err != nil {
		return Summary{}, err
	}
	return buildSummary(byStatus, ratings), nil
}

func collect(rows pgx.Rows) ([]Review, error) {
	defer rows.Close()
	out := make([]Review, 0)
	for rows.Next() {
		var r Review
		if err := rows.Scan(
			&r.ID, &r.EmployeeID, &r.ReviewerID, &r.Period, &r.Goals, &r.Achievements, &r.Rating,
			&r.Feedback, &r.Status, &r.DueDate, &r.CompletedAt, &r.CreatedAt, &r.UpdatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func jsonArg(raw []byte) any {
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}
	return raw
}
