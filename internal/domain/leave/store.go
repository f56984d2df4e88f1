package leave

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

const leaveColumns = `
           l.id, l.employee_id, l.type, l.start_date, l.end_date, l.days, l.reason, l.status,
           l.approved_by, l.approved_at, l.version, l.created_at, l.updated_at`

const selectLeaveWithEmployee = `
    SELECT ` + leaveColumns + `,` + core.EmployeeColumns + `
    FROM leave_requests l
    JOIN employees e ON e.id = l.employee_id
    JOIN users u ON u.id = e.user_id
`

func (s *Store) List(ctx context.Context, filter Filter, limit, offset int) ([]LeaveRequestWithEmployee, error) {
	var where shared.Where
	if filter.Status != "" {
		where.Add("l.status", filter.Status)
	}
	if filter.EmployeeID != nil {
		where.Add("l.employee_id", *filter.EmployeeID)
	}
	query := selectLeaveWithEmployee + where.String() + " ORDER BY l.created_at DESC, l.id DESC" + where.Page(limit, offset)
	rows, err := s.DB.Query(ctx, query, where.Args...)
	if err != nil {
		return nil, err
	}
	return s.collect(rows)
}

func (s *Store) Get(ctx context.Context, id int64) (*LeaveRequestWithEmployee, error) {
	rows, err := s.DB.Query(ctx, selectLeaveWithEmployee+" WHERE l.id = $1", id)
	if err != nil {
		return nil, err
	}
	out, err := s.collect(rows)
	if err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, shared.NotFound("leave request")
	}
	return &out[0], nil
}

func (s *Store) Create(ctx context.Context, payload NewLeaveRequest) (*LeaveRequestWithEmployee, error) {
	status := payload.Status
	if status == "" {
		status = StatusPending
	}
	var id int64
	err := s.DB.QueryRow(ctx, `
    INSERT INTO leave_requests (employee_id, type, start_date, end_date, days, reason, status)
    VALUES ($1,$2,$3,$4,$5,$6,$7)
    RETURNING id
  `, payload.EmployeeID, payload.Type, payload.StartDate, payload.EndDate, payload.Days,
		payload.Reason, status).Scan(&id)
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

func (s *Store) Update(ctx context.Context, id int64, patch shared.Patch) (*LeaveRequestWithEmployee, error) {
	patch = StampDecision(patch)
	if err := shared.ExecVersionedUpdate(ctx, s.DB, "leave_requests", "leave request", id, patch, Columns); err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

func (s *Store) Stats(ctx context.Context) (Stats, error) {
	rows, err := s.DB.Query(ctx, "SELECT status, COUNT(1) FROM leave_requests GROUP BY status")
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
		Total:    total,
	}, nil
}

func (s *Store) CountByStatus(ctx context.Context, status string) (int, error) {
	var count int
	err := s.DB.QueryRow(ctx, "SELECT COUNT(1) FROM leave_requests WHERE status = $1", status).Scan(&count)
	if err != nil {
		return 0, err
	}
	return count, nil
}

func (s *Store) ListByEmployee(ctx context.Context, employeeID int64, limit int) ([]LeaveRequest, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT `+leaveColumns+`
    FROM leave_requests l
    WHERE l.employee_id = $1
    ORDER BY l.created_at DESC, l.id DESC
    LIMIT $2
  `, employeeID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]LeaveRequest, 0)
	for rows.Next() {
		var l LeaveRequest
		if err := rows.Scan(leaveFields(&l)...); err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

// ApprovedDays sums approved days of one leave type starting in the given calendar year.
func (s *Store) ApprovedDays(ctx context.Context, employeeID int64, leaveType string, year int, excludeID int64) (int, error) {
	from := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(1, 0, 0)
	var days int
	err := s.DB.QueryRow(ctx, `
    SELECT COALESCE(SUM(days), 0)::int
    FROM leave_requests
    WHERE employee_id = $1
      AND type = $2
      AND status = 'approved'
      AND start_date >= $3 AND start_date < $4
      AND id <> $5
  `, employeeID, leaveType, from, to, excludeID).Scan(&days)
	if err != nil {
		return 0, err
	}
	return days, nil
}

func (s *Store) collect(rows pgx.Rows) ([]LeaveRequestWithEmployee, error) {
	defer rows.Close()
	out := make([]LeaveRequestWithEmployee, 0)
	for rows.Next() {
		var rec LeaveRequestWithEmployee
		var salaryEnc []byte
		dest := append(leaveFields(&rec.LeaveRequest), core.ScanFields(&rec.Employee, &salaryEnc)...)
		if err := rows.Scan(dest...); err != nil {
			return nil, err
		}
		rec.Employee.Salary = core.OpenSalary(s.Crypto, salaryEnc, rec.Employee.Salary)
		out = append(out, rec)
	}
	return out, rows.Err()
}

func leaveFields(l *LeaveRequest) []any {
	return []any{
		&l.ID, &l.EmployeeID, &l.Type, &l.StartDate, &l.EndDate, &l.Days, &l.Reason, &l.Status,
		&l.ApprovedBy, &l.ApprovedAt, &l.Version, &l.CreatedAt, &l.UpdatedAt,
	}
}
