package core

import "maplehr/internal/domain/shared"

const (
	StatusActive     = "active"
	StatusOnLeave    = "on_leave"
	StatusTerminated = "terminated"

	RoleEmployee = "employee"
	RoleManager  = "manager"
	RoleAdmin    = "admin"
)

var (
	Statuses = []string{StatusActive, StatusOnLeave, StatusTerminated}
	Roles    = []string{RoleEmployee, RoleManager, RoleAdmin}
)

// Columns maps writable employee JSON fields to columns.
var Columns = map[string]shared.Column{
	"userId":           {Name: "user_id", Kind: shared.KindString},
	"employeeId":       {Name: "employee_id", Kind: shared.KindString},
	"department":       {Name: "department", Kind: shared.KindString},
	"position":         {Name: "position", Kind: shared.KindString},
	"manager":          {Name: "manager", Kind: shared.KindString, Nullable: true},
	"salary":           {Name: "salary", Kind: shared.KindDecimal, Nullable: true, Cast: "::text::numeric"},
	"joinDate":         {Name: "join_date", Kind: shared.KindTime},
	"status":           {Name: "status", Kind: shared.KindString, Enum: Statuses},
	"phoneNumber":      {Name: "phone_number", Kind: shared.KindString, Nullable: true},
	"address":          {Name: "address", Kind: shared.KindString, Nullable: true},
	"emergencyContact": {Name: "emergency_contact", Kind: shared.KindJSON, Nullable: true},
}
