package claims

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"maplehr/internal/domain/core"
	"maplehr/internal/domain/shared"
	cryptoutil "maplehr/internal/platform/crypto"
)

type Store struct {
	DB     *pgxpool.Pool
	Crypto *cryptoutil.Sealer
}

func NewStore(db *pgxpool.Pool, crypto *cryptoutil.Sealer) *Store {
	return &Store{DB: db, Crypto: crypto}
}

const claimColumns = `
           c.id, c.employee_id, c.category, c.description, c.amount::text, c.receipt_url,
           c.claim_date, c.status, c.approved_by, c.approved_at, c.notes, c.version,
           c.created_at, c.updated_at`

const selectClaimWithEmployee = `
    SELECT ` + claimColumns + `,` + core.EmployeeColumns + `
    FROM claims c
    JOIN employees e ON e.id = c.employee_id
    JOIN users u ON u.id = e.user_id
`

func (s *Store) List(ctx context.Context, filter Filter, limit, offset int) ([]ClaimWithEmployee, error) {
	var where shared.Where
	if filter.Status != "" {
		where.Add("c.status", filter.Status)
	}
	if filter.EmployeeID != nil {
		where.Add("c.employee_id", *filter.EmployeeID)
	}
	query := selectClaimWithEmployee + where.String() + " ORDER BY c.created_at DESC, c.id DESC" + where.Page(limit, offset)
	rows, err := s.DB.Query(ctx, query, where.Args...)
	if err != nil {
		return nil, err
	}
	return s.collect(rows)
}

func (s *Store) Get(ctx context.Context, id int64) (*ClaimWithEmployee, error) {
	rows, err := s.DB.Query(ctx, selectClaimWithEmployee+" WHERE c.id = $1", id)
	if err != nil {
		return nil, err
	}
	out, err := s.collect(rows)
	if err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, shared.NotFound("claim")
	}
	return &out[0], nil
}

func (s *Store) Create(ctx context.Context, payload NewClaim) (*ClaimWithEmployee, error) {
	status := payload.Status
	if status == "" {
		status = StatusPending
	}
	var id int64
	err := s.DB.QueryRow(ctx, `
    INSERT INTO claims (employee_id, category, description, amount, receipt_url, claim_date, status, notes)
    VALUES ($1,$2,$3,$4::text::numeric,$5,$6,$7,$8)
    RETURNING id
  `, payload.EmployeeID, payload.Category, payload.Description, payload.Amount, payload.ReceiptURL,
		payload.ClaimDate, status, payload.Notes).Scan(&id)
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

func (s *Store) Update(ctx context.Context, id int64, patch shared.Patch) (*ClaimWithEmployee, error) {
	patch = StampDecision(patch)
	if err := shared.ExecVersionedUpdate(ctx, s.DB, "claims", "claim", id, patch, Columns); err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

// Stats tallies every claim by status in one grouped query.
func (s *Store) Stats(ctx context.Context) (Stats, error) {
	rows, err := s.DB.Query(ctx, "SELECT status, COUNT(1) FROM claims GROUP BY status")
	if err != nil {
		return Stats{}, err
	}
	counts, total, err := shared.Tally(rows)
	if err != nil {
		return Stats{}, err
	}
	return Stats{
		Pending:  counts[StatusPending],
		Approved: counts[StatusApproved],
		Rejected: counts[StatusRejected],
		Paid:     counts[StatusPaid],
		Total:    total,
	}, nil
}

func (s *Store) ListByEmployee(ctx context.Context, employeeID int64, limit int) ([]Claim, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT `+claimColumns+`
    FROM claims c
    WHERE c.employee_id = $1
    ORDER BY c.created_at DESC, c.id DESC
    LIMIT $2
  `, employeeID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Claim, 0)
	for rows.Next() {
		var c Claim
		if err := rows.Scan(claimFields(&c)...); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// CategoryTotal sums non-rejected claims of one category with claim_date in [from, to).
func (s *Store) CategoryTotal(ctx context.Context, employeeID int64, category string, from, to time.Time, excludeID int64) (string, error) {
	var total string
	err := s.DB.QueryRow(ctx, `
    SELECT COALESCE(SUM(amount), 0)::text
    FROM claims
    WHERE employee_id = $1
      AND category = $2
      AND claim_date >= $3 AND claim_date < $4
      AND status <> 'rejected'
      AND id <> $5
  `, employeeID, category, from, to, excludeID).Scan(&total)
	if err != nil {
		return "", err
	}
	return total, nil
}

func (s *Store) collect(rows pgx.Rows) ([]ClaimWithEmployee, error) {
	defer rows.Close()
	out := make([]ClaimWithEmployee, 0)
	for rows.Next() {
		var rec ClaimWithEmployee
		var salaryEnc []byte
		dest := append(claimFields(&rec.Claim), core.ScanFields(&rec.Employee, &salaryEnc)...)
		if err := rows.Scan(dest...); err != nil {
			return nil, err
		}
		rec.Employee.Salary = core.OpenSalary(s.Crypto, salaryEnc, rec.Employee.Salary)
		out = append(out, rec)
	}
	return out, rows.Err()
}

func claimFields(c *Claim) []any {
	return []any{
		&c.ID, &c.EmployeeID, &c.Category, &c.Description, &c.Amount, &c.ReceiptURL,
		&c.ClaimDate, &c.Status, &c.ApprovedBy, &c.ApprovedAt, &c.Notes, &c.Version,
		&c.CreatedAt, &c.UpdatedAt,
	}
}
