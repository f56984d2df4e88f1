package tickets

import (
	"context"

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

const ticketColumns = `
           t.id, t.employee_id, t.title, t.description, t.category, t.priority, t.status,
           t.assigned_to, t.due_date, t.resolved_at, t.version, t.created_at, t.updated_at`

const selectTicketWithEmployee = `
    SELECT ` + ticketColumns + `,` + core.EmployeeColumns + `
    FROM tickets t
    JOIN employees e ON e.id = t.employee_id
    JOIN users u ON u.id = e.user_id
`

func (s *Store) List(ctx context.Context, filter Filter, limit, offset int) ([]TicketWithEmployee, error) {
	var where shared.Where
	if filter.Status != "" {
		where.Add("t.status", filter.Status)
	}
	if filter.Priority != "" {
		where.Add("t.priority", filter.Priority)
	}
	if filter.EmployeeID != nil {
		where.Add("t.employee_id", *filter.EmployeeID)
	}
	query := selectTicketWithEmployee + where.String() + " ORDER BY t.created_at DESC, t.id DESC" + where.Page(limit, offset)
	rows, err := s.DB.Query(ctx, query, where.Args...)
	if err != nil {
		return nil, err
	}
	return s.collect(rows)
}

func (s *Store) Get(ctx context.Context, id int64) (*TicketWithEmployee, error) {
	rows, err := s.DB.Query(ctx, selectTicketWithEmployee+" WHERE t.id = $1", id)
	if err != nil {
		return nil, err
	}
	out, err := s.collect(rows)
	if err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, shared.NotFound("ticket")
	}
	return &out[0], nil
}

func (s *Store) Create(ctx context.Context, payload NewTicket) (*TicketWithEmployee, error) {
	priority := payload.Priority
	if priority == "" {
		priority = PriorityMedium
	}
	status := payload.Status
	if status == "" {
		status = StatusOpen
	}
	var id int64
	err := s.DB.QueryRow(ctx, `
    INSERT INTO tickets (employee_id, title, description, category, priority, status, assigned_to, due_date)
    VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
    RETURNING id
  `, payload.EmployeeID, payload.Title, payload.Description, payload.Category, priority, status,
		payload.AssignedTo, payload.DueDate).Scan(&id)
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

func (s *Store) Update(ctx context.Context, id int64, patch shared.Patch) (*TicketWithEmployee, error) {
	patch = StampResolution(patch)
	if err := shared.ExecVersionedUpdate(ctx, s.DB, "tickets", "ticket", id, patch, Columns); err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

// Stats tallies tickets by status; overdue is counted on the same pass for open tickets past due.
func (s *Store) Stats(ctx context.Context) (Stats, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT status, COUNT(1), COUNT(1) FILTER (WHERE due_date < now())
    FROM tickets
    GROUP BY status
  `)
	if err != nil {
		return Stats{}, err
	}
	defer rows.Close()

	var stats Stats
	for rows.Next() {
		var status string
		var n, pastDue int
		if err := rows.Scan(&status, &n, &pastDue); err != nil {
			return Stats{}, err
		}
		switch status {
		case StatusOpen:
			stats.Open = n
			stats.Overdue = pastDue
		case StatusInProgress:
			stats.InProgress = n
		case StatusResolved:
			stats.Resolved = n
		case StatusClosed:
			stats.Closed = n
		}
		stats.Total += n
	}
	return stats, rows.Err()
}

func (s *Store) ListByEmployee(ctx context.Context, employeeID int64, limit int) ([]Ticket, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT `+ticketColumns+`
    FROM tickets t
    WHERE t.employee_id = $1
    ORDER BY t.created_at DESC, t.id DESC
    LIMIT $2
  `, employeeID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Ticket, 0)
	for rows.Next() {
		var t Ticket
		if err := rows.Scan(ticketFields(&t)...); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (s *Store) collect(rows pgx.Rows) ([]TicketWithEmployee, error) {
	defer rows.Close()
	out := make([]TicketWithEmployee, 0)
	for rows.Next() {
		var rec TicketWithEmployee
		var salaryEnc []byte
		dest := append(ticketFields(&rec.Ticket), core.ScanFields(&rec.Employee, &salaryEnc)...)
		if err := rows.Scan(dest...); err != nil {
			return nil, err
		}
		rec.Employee.Salary = core.OpenSalary(s.Crypto, salaryEnc, rec.Employee.Salary)
		out = append(out, rec)
	}
	return out, rows.Err()
}

func ticketFields(t *Ticket) []any {
	return []any{
		&t.ID, &t.EmployeeID, &t.Title, &t.Description, &t.Category, &t.Priority, &t.Status,
		&t.AssignedTo, &t.DueDate, &t.ResolvedAt, &t.Version, &t.CreatedAt, &t.UpdatedAt,
	}
}
