package core

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/text/unicode/norm"

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

// EmployeeColumns is the joined employee (e) and user (u) column list, in ScanFields order.
const EmployeeColumns = `
           e.id, e.user_id, e.employee_id, e.department, e.position, e.manager,
           e.salary::text, e.salary_enc, e.join_date, e.status, e.phone_number, e.address,
           e.emergency_contact, e.created_at, e.updated_at,
           u.id, u.email, u.first_name, u.last_name, u.profile_image_url, u.role,
           u.created_at, u.updated_at`

const selectEmployeeWithUser = `
    SELECT ` + EmployeeColumns + `
    FROM employees e
    JOIN users u ON u.id = e.user_id
`

const searchPredicate = `
    strpos(e.employee_id, $1) > 0
    OR strpos(e.department, $1) > 0
    OR strpos(e.position, $1) > 0
    OR strpos(COALESCE(u.first_name, ''), $1) > 0
    OR strpos(COALESCE(u.last_name, ''), $1) > 0
    OR strpos(COALESCE(u.email, ''), $1) > 0
`

func (s *Store) List(ctx context.Context, limit, offset int) ([]EmployeeWithUser, error) {
	rows, err := s.DB.Query(ctx, selectEmployeeWithUser+`
    ORDER BY e.created_at DESC, e.id DESC
    LIMIT $1 OFFSET $2
  `, limit, offset)
	if err != nil {
		return nil, err
	}
	return s.collect(rows)
}

// Search is a case-sensitive substring match across identity and placement columns.
func (s *Store) Search(ctx context.Context, query string, limit, offset int) ([]EmployeeWithUser, error) {
	rows, err := s.DB.Query(ctx, selectEmployeeWithUser+`
    WHERE `+searchPredicate+`
    ORDER BY e.created_at DESC, e.id DESC
    LIMIT $2 OFFSET $3
  `, normalizeQuery(query), limit, offset)
	if err != nil {
		return nil, err
	}
	return s.collect(rows)
}

func (s *Store) Count(ctx context.Context) (int, error) {
	var count int
	if err := s.DB.QueryRow(ctx, "SELECT COUNT(1) FROM employees").Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (s *Store) CountMatching(ctx context.Context, query string) (int, error) {
	var count int
	err := s.DB.QueryRow(ctx, `
    SELECT COUNT(1)
    FROM employees e
    JOIN users u ON u.id = e.user_id
    WHERE `+searchPredicate, normalizeQuery(query)).Scan(&count)
	if err != nil {
		return 0, err
	}
	return count, nil
}

func (s *Store) Get(ctx context.Context, id int64) (*EmployeeWithUser, error) {
	return s.getOne(ctx, selectEmployeeWithUser+" WHERE e.id = $1", id)
}

func (s *Store) GetByUserID(ctx context.Context, userID string) (*EmployeeWithUser, error) {
	return s.getOne(ctx, selectEmployeeWithUser+" WHERE e.user_id = $1 ORDER BY e.id LIMIT 1", userID)
}

// Create inserts the employee and, when payload.User is set, upserts that user in the same transaction.
func (s *Store) Create(ctx context.Context, payload NewEmployee) (*EmployeeWithUser, error) {
	joinDate, err := shared.ParseTime(payload.JoinDate)
	if err != nil {
		return nil, shared.InvalidField("joinDate", "must be a valid date in YYYY-MM-DD format")
	}
	salaryPlain, salaryEnc, err := s.sealSalary(payload.Salary)
	if err != nil {
		return nil, err
	}
	status := payload.Status
	if status == "" {
		status = StatusActive
	}
	var emergency any
	if len(payload.EmergencyContact) > 0 && string(payload.EmergencyContact) != "null" {
		emergency = []byte(payload.EmergencyContact)
	}

	tx, err := s.DB.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	userID := payload.UserID
	if payload.User != nil {
		userID, err = upsertUser(ctx, tx, *payload.User, userID)
		if err != nil {
			return nil, err
		}
	}

	var id int64
	err = tx.QueryRow(ctx, `
    INSERT INTO employees (user_id, employee_id, department, position, manager, salary, salary_enc,
      join_date, status, phone_number, address, emergency_contact)
    VALUES ($1,$2,$3,$4,$5,$6::text::numeric,$7,$8,$9,$10,$11,$12)
    RETURNING id
  `,
		userID, payload.EmployeeID, payload.Department, payload.Position, payload.Manager,
		salaryPlain, salaryEnc, joinDate, status, payload.PhoneNumber, payload.Address, emergency,
	).Scan(&id)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

func (s *Store) Update(ctx context.Context, id int64, patch shared.Patch) (*EmployeeWithUser, error) {
	if raw, ok := patch.Set["salary"]; ok && s.Crypto.Enabled() {
		var sealed []byte
		if value, isString := raw.(string); isString {
			enc, err := s.Crypto.Seal("salary", value)
			if err != nil {
				return nil, err
			}
			sealed = enc
		}
		patch.Set["salary"] = nil
		patch.Set["salary_enc"] = sealed
	}

	query, args := shared.BuildUpdate("employees", id, patch, Columns, false)
	tag, err := s.DB.Exec(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	if tag.RowsAffected() == 0 {
		return nil, shared.NotFound("employee")
	}
	return s.Get(ctx, id)
}

func upsertUser(ctx context.Context, tx pgx.Tx, user NewUser, fallbackID string) (string, error) {
	id := user.ID
	if id == "" {
		id = fallbackID
	}
	if id == "" {
		id = uuid.NewString()
	}
	role := user.Role
	if role == "" {
		role = RoleEmployee
	}
	_, err := tx.Exec(ctx, `
    INSERT INTO users (id, email, first_name, last_name, profile_image_url, role)
    VALUES ($1,$2,$3,$4,$5,$6)
    ON CONFLICT (id) DO UPDATE
    SET email = EXCLUDED.email,
        first_name = EXCLUDED.first_name,
        last_name = EXCLUDED.last_name,
        profile_image_url = EXCLUDED.profile_image_url,
        role = EXCLUDED.role,
        updated_at = now()
  `, id, user.Email, user.FirstName, user.LastName, user.ProfileImageURL, role)
	if err != nil {
		return "", err
	}
	return id, nil
}

func (s *Store) getOne(ctx context.Context, query string, arg any) (*EmployeeWithUser, error) {
	rows, err := s.DB.Query(ctx, query, arg)
	if err != nil {
		return nil, err
	}
	out, err := s.collect(rows)
	if err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, shared.NotFound("employee")
	}
	return &out[0], nil
}

func (s *Store) collect(rows pgx.Rows) ([]EmployeeWithUser, error) {
	defer rows.Close()
	out := make([]EmployeeWithUser, 0)
	for rows.Next() {
		var rec EmployeeWithUser
		var salaryEnc []byte
		if err := rows.Scan(ScanFields(&rec, &salaryEnc)...); err != nil {
			return nil, err
		}
		rec.Salary = OpenSalary(s.Crypto, salaryEnc, rec.Salary)
		out = append(out, rec)
	}
	return out, rows.Err()
}

// sealSalary returns the plaintext and encrypted forms to store; exactly one is non-nil.
func (s *Store) sealSalary(raw []byte) (any, []byte, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil, nil
	}
	amount, err := shared.ParseDecimal(raw)
	if err != nil {
		return nil, nil, shared.InvalidField("salary", "must be a decimal number")
	}
	if !s.Crypto.Enabled() {
		return amount.String(), nil, nil
	}
	sealed, err := s.Crypto.Seal("salary", amount.String())
	if err != nil {
		return nil, nil, err
	}
	return nil, sealed, nil
}

// ScanFields returns scan destinations matching EmployeeColumns.
func ScanFields(rec *EmployeeWithUser, salaryEnc *[]byte) []any {
	return []any{
		&rec.ID, &rec.UserID, &rec.EmployeeID, &rec.Department, &rec.Position, &rec.Manager,
		&rec.Salary, salaryEnc, &rec.JoinDate, &rec.Status, &rec.PhoneNumber, &rec.Address,
		&rec.EmergencyContact, &rec.CreatedAt, &rec.UpdatedAt,
		&rec.User.ID, &rec.User.Email, &rec.User.FirstName, &rec.User.LastName,
		&rec.User.ProfileImageURL, &rec.User.Role, &rec.User.CreatedAt, &rec.User.UpdatedAt,
	}
}

// OpenSalary prefers the decrypted column and falls back to the plaintext one.
func OpenSalary(crypto *cryptoutil.Sealer, encrypted []byte, plain *string) *string {
	if len(encrypted) == 0 || !crypto.Enabled() {
		return plain
	}
	value, err := crypto.Open("salary", encrypted)
	if err != nil {
		return plain
	}
	return &value
}

func normalizeQuery(query string) string {
	return norm.NFC.String(query)
}
