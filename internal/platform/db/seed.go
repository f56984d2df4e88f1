package db

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"maplehr/internal/domain/settings"
	"maplehr/internal/platform/config"
)

type seedUser struct {
	ID         string
	Email      string
	FirstName  string
	LastName   string
	Role       string
	EmployeeID string
	Department string
	Position   string
	Manager    string
	Salary     string
	JoinDate   string
}

var demoUsers = []seedUser{
	{ID: "u1", Email: "alice.chen@company.com", FirstName: "Alice", LastName: "Chen", Role: "manager", EmployeeID: "E001", Department: "Engineering", Position: "Engineering Manager", Salary: "120000.00", JoinDate: "2021-03-15"},
	{ID: "u2", Email: "bob.smith@company.com", FirstName: "Bob", LastName: "Smith", Role: "admin", EmployeeID: "E002", Department: "IT", Position: "Systems Administrator", Manager: "u1", Salary: "85000.00", JoinDate: "2022-01-10"},
	{ID: "u3", Email: "carol.jones@company.com", FirstName: "Carol", LastName: "Jones", Role: "employee", EmployeeID: "E003", Department: "Finance", Position: "Accountant", Manager: "u1", Salary: "70000.00", JoinDate: "2023-06-01"},
	{ID: "mock-user-1", Email: "mock@company.com", FirstName: "Mock", LastName: "User", Role: "employee", EmployeeID: "E004", Department: "HR", Position: "Intern", Manager: "u1", Salary: "30000.00", JoinDate: "2025-07-01"},
}

// Seed makes sure the organization settings row exists and, when enabled, loads demo records.
func Seed(ctx context.Context, pool *pgxpool.Pool, cfg config.Config) error {
	if err := settings.NewStore(pool).EnsureDefaults(ctx, cfg.OrganizationKey); err != nil {
		return err
	}
	if !cfg.SeedDemoData {
		return nil
	}
	employeeIDs, err := ensureDemoEmployees(ctx, pool)
	if err != nil {
		return err
	}
	return ensureDemoRequests(ctx, pool, employeeIDs)
}

func ensureDemoEmployees(ctx context.Context, pool *pgxpool.Pool) (map[string]int64, error) {
	ids := map[string]int64{}
	for _, u := range demoUsers {
		if _, err := pool.Exec(ctx, `
      INSERT INTO users (id, email, first_name, last_name, role)
      VALUES ($1,$2,$3,$4,$5)
      ON CONFLICT (id) DO NOTHING
    `, u.ID, u.Email, u.FirstName, u.LastName, u.Role); err != nil {
			return nil, err
		}

		var id int64
		err := pool.QueryRow(ctx, "SELECT id FROM employees WHERE employee_id = $1", u.EmployeeID).Scan(&id)
		if err == nil {
			ids[u.EmployeeID] = id
			continue
		}
		if err := pool.QueryRow(ctx, `
      INSERT INTO employees (user_id, employee_id, department, position, manager, salary, join_date, status)
      VALUES ($1,$2,$3,$4,NULLIF($5,''),$6::text::numeric,$7::text::timestamptz,'active')
      RETURNING id
    `, u.ID, u.EmployeeID, u.Department, u.Position, u.Manager, u.Salary, u.JoinDate).Scan(&id); err != nil {
			return nil, err
		}
		ids[u.EmployeeID] = id
	}
	return ids, nil
}

func ensureDemoRequests(ctx context.Context, pool *pgxpool.Pool, ids map[string]int64) error {
	var existing int
	if err := pool.QueryRow(ctx, "SELECT COUNT(1) FROM claims").Scan(&existing); err != nil {
		return err
	}
	if existing > 0 {
		return nil
	}

	statements := []struct {
		sql  string
		args []any
	}{
		{`INSERT INTO claims (employee_id, category, description, amount, claim_date, status) VALUES ($1,'travel','Taxi to client meeting',45.00,'2024-06-10','approved')`, []any{ids["E001"]}},
		{`INSERT INTO claims (employee_id, category, description, amount, claim_date, status) VALUES ($1,'meals','Team lunch',120.00,'2024-06-12','pending')`, []any{ids["E002"]}},
		{`INSERT INTO tickets (employee_id, title, description, category, priority, status) VALUES ($1,'Payroll issue','Salary not credited','payroll','high','open')`, []any{ids["E003"]}},
		{`INSERT INTO tickets (employee_id, title, description, category, priority, status) VALUES ($1,'Laptop not working','Laptop won''t boot','it','urgent','in_progress')`, []any{ids["E002"]}},
		{`INSERT INTO leave_requests (employee_id, type, start_date, end_date, days, reason, status) VALUES ($1,'vacation','2024-07-20','2024-07-25',5,'Family trip','approved')`, []any{ids["E001"]}},
		{`INSERT INTO leave_requests (employee_id, type, start_date, end_date, days, reason, status) VALUES ($1,'sick','2024-07-10','2024-07-12',2,'Flu','pending')`, []any{ids["E003"]}},
		{`INSERT INTO performance_reviews (employee_id, reviewer_id, period, goals, achievements, rating, feedback, status) VALUES ($1,'u2','2024-Q2','{"goal1":"Improve onboarding"}','{"achievement1":"Onboarded 5 new hires"}',5,'Excellent leadership','approved')`, []any{ids["E001"]}},
		{`INSERT INTO performance_reviews (employee_id, reviewer_id, period, goals, achievements, rating, feedback, status) VALUES ($1,'u1','2024-Q2','{"goal1":"Reduce IT downtime"}','{"achievement1":"99% uptime"}',4,'Great job','submitted')`, []any{ids["E002"]}},
	}
	for _, stmt := range statements {
		if _, err := pool.Exec(ctx, stmt.sql, stmt.args...); err != nil {
			return err
		}
	}
	return nil
}
