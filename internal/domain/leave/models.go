package leave

import (
	"time"

	"maplehr/internal/domain/core"
)

type LeaveRequest struct {
	ID         int64      `json:"id"`
	EmployeeID int64      `json:"employeeId"`
	Type       string     `json:"type"`
	StartDate  time.Time  `json:"startDate"`
	EndDate    time.Time  `json:"endDate"`
	Days       int        `json:"days"`
	Reason     *string    `json:"reason"`
	Status     string     `json:"status"`
	ApprovedBy *string    `json:"approvedBy"`
	ApprovedAt *time.Time `json:"approvedAt"`
	Version    int        `json:"version"`
	CreatedAt  time.Time  `json:"createdAt"`
	UpdatedAt  time.Time  `json:"updatedAt"`
}

type LeaveRequestWithEmployee struct {
	LeaveRequest
	Employee core.EmployeeWithUser `json:"employee"`
}

type NewLeaveRequest struct {
	EmployeeID int64
	Type       string
	StartDate  time.Time
	EndDate    time.Time
	Days       int
	Reason     *string
	Status     string
}

type Filter struct {
	Status     string
	EmployeeID *int64
}

type Stats struct {
	Pending  int `json:"pending"`
	Approved int `json:"approved"`
	Rejected int `json:"rejected"`
	Total    int `json:"total"`
}
