package adjudication

import (
	"context"
	"crypto/rand"
	"io"
	"sync"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/oklog/ulid"
)

// DecisionRecord is one row of the append-only recommendation log.
type DecisionRecord struct {
	ID          string    `json:"id"`
	SubjectType string    `json:"subjectType"`
	SubjectID   int64     `json:"subjectId"`
	Recommendation
	Source    string    `json:"source"`
	Rule      *string   `json:"rule"`
	Applied   bool      `json:"applied"`
	RequestID *string   `json:"requestId"`
	CreatedAt time.Time `json:"createdAt"`
}

type DecisionLog interface {
	Record(ctx context.Context, rec DecisionRecord) (string, error)
	ListForSubject(ctx context.Context, subjectType string, subjectID int64, limit int) ([]DecisionRecord, error)
}

type DecisionStore struct {
	DB *pgxpool.Pool

	mu      sync.Mutex
	entropy io.Reader
}

func NewDecisionStore(db *pgxpool.Pool) *DecisionStore {
	return &DecisionStore{DB: db, entropy: ulid.Monotonic(rand.Reader, 0)}
}

func (s *DecisionStore) newID(t time.Time) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id, err := ulid.New(ulid.Timestamp(t), s.entropy)
	if err != nil {
		return "", err
	}
	return id.String(), nil
}

// Record stores rec under a fresh ULID and returns the id.
func (s *DecisionStore) Record(ctx context.Context, rec DecisionRecord) (string, error) {
	id, err := s.newID(time.Now())
	if err != nil {
		return "", err
	}
	_, err = s.DB.Exec(ctx, `
    INSERT INTO adjudication_decisions (id, subject_type, subject_id, should_approve, confidence, reason, source, rule, applied, request_id)
    VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
  `, id, rec.SubjectType, rec.SubjectID, rec.ShouldApprove, rec.Confidence, rec.Reason, rec.Source,
		rec.Rule, rec.Applied, rec.RequestID)
	if err != nil {
		return "", err
	}
	return id, nil
}

func (s *DecisionStore) ListForSubject(ctx context.Context, subjectType string, subjectID int64, limit int) ([]DecisionRecord, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, subject_type, subject_id, should_approve, confidence, reason, source, rule, applied, request_id, created_at
    FROM adjudication_decisions
    WHERE subject_type = $1 AND subject_id = $2
    ORDER BY created_at DESC, id DESC
    LIMIT $3
  `, subjectType, subjectID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]DecisionRecord, 0)
	for rows.Next() {
		var rec DecisionRecord
		if err := rows.Scan(&rec.ID, &rec.SubjectType, &rec.SubjectID, &rec.ShouldApprove, &rec.Confidence,
			&rec.Reason, &rec.Source, &rec.Rule, &rec.Applied, &rec.RequestID, &rec.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}
