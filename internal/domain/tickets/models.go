package tickets

import (
	"time"

	"maplehr/internal/domain/core"
)

type Ticket struct {
	ID          int64      `json:"id"`
	EmployeeID  int64      `json:"employeeId"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Category    string     `json:"category"`
	Priority    string     `json:"priority"`
	Status      string     `json:"status"`
	AssignedTo  *string    `json:"assignedTo"`
	DueDate     *time.Time `json:"dueDate"`
	ResolvedAt  *time.Time `json:"resolvedAt"`
	Version     int        `json:"version"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

type TicketWithEmployee struct {
	Ticket
	Employee core.EmployeeWithUser `json:"employee"`
}

type NewTicket struct {
	EmployeeID  int64
	Title       string
	Description string
	Category    string
	Priority    string
	Status      string
	AssignedTo  *string
	DueDate     *time.Time
}

type Filter struct {
	Status     string
	Priority   string
	EmployeeID *int64
}

type Stats struct {
	Open       int `json:"open"`
	InProgress int `json:"inProgress"`
	Resolved   int `json:"resolved"`
	Closed     int `json:"closed"`
	Overdue    int `json:"overdue"`
	Total      int `json:"total"`
}
