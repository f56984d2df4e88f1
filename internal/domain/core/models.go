package core

import (
	"encoding/json"
	"time"
)

type User struct {
	ID              string    `json:"id"`
	Email           *string   `json:"email"`
	FirstName       *string   `json:"firstName"`
	LastName        *string   `json:"lastName"`
	ProfileImageURL *string   `json:"profileImageUrl"`
	Role            string    `json:"role"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// FullName joins the non-empty name parts.
func (u User) FullName() string {
	name := ""
	if u.FirstName != nil {
		name = *u.FirstName
	}
	if u.LastName != nil && *u.LastName != "" {
		if name != "" {
			name += " "
		}
		name += *u.LastName
	}
	return name
}

type Employee struct {
	ID               int64           `json:"id"`
	UserID           string          `json:"userId"`
	EmployeeID       string          `json:"employeeId"`
	Department       string          `json:"department"`
	Position         string          `json:"position"`
	Manager          *string         `json:"manager"`
	Salary           *string         `json:"salary"`
	JoinDate         time.Time       `json:"joinDate"`
	Status           string          `json:"status"`
	PhoneNumber      *string         `json:"phoneNumber"`
	Address          *string         `json:"address"`
	EmergencyContact json.RawMessage `json:"emergencyContact"`
	CreatedAt        time.Time       `json:"createdAt"`
	UpdatedAt        time.Time       `json:"updatedAt"`
}

// EmployeeWithUser is the joined read shape used by every employee endpoint.
type EmployeeWithUser struct {
	Employee
	User User `json:"user"`
}

type NewUser struct {
	ID              string  `json:"id"`
	Email           *string `json:"email"`
	FirstName       *string `json:"firstName"`
	LastName        *string `json:"lastName"`
	ProfileImageURL *string `json:"profileImageUrl"`
	Role            string  `json:"role"`
}

type NewEmployee struct {
	UserID           string          `json:"userId"`
	EmployeeID       string          `json:"employeeId"`
	Department       string          `json:"department"`
	Position         string          `json:"position"`
	Manager          *string         `json:"manager"`
	Salary           json.RawMessage `json:"salary"`
	JoinDate         string          `json:"joinDate"`
	Status           string          `json:"status"`
	PhoneNumber      *string         `json:"phoneNumber"`
	Address          *string         `json:"address"`
	EmergencyContact json.RawMessage `json:"emergencyContact"`
	User             *NewUser        `json:"user"`
}
