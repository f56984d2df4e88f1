package claims

import (
	"time"

	"maplehr/internal/domain/core"
)

type Claim struct {
	ID          int64      `json:"id"`
	EmployeeID  int64      `json:"employeeId"`
	Category    string     `json:"category"`
	Description string     `json:"description"`
	Amount      string     `json:"amount"`
	ReceiptURL  *string    `json:"receiptUrl"`
	ClaimDate   time.Time  `json:"claimDate"`
	Status      string     `json:"status"`
	ApprovedBy  *string    `json:"approvedBy"`
	ApprovedAt  *time.Time `json:"approvedAt"`
	Notes       *string    `json:"notes"`
	Version     int        `json:"version"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

type ClaimWithEmployee struct {
	Claim
	Employee core.EmployeeWithUser `json:"employee"`
}

// NewClaim is a validated create payload; Amount is a decimal string.
type NewClaim struct {
	EmployeeID  int64
	Category    string
	Description string
	Amount      string
	ReceiptURL  *string
	ClaimDate   time.Time
	Status      string
	Notes       *string
}

type Filter struct {
	Status     string
	EmployeeID *int64
}

type Stats struct {
	Pending  int `json:"pending"`
	Approved int `json:"approved"`
	Rejected int `json:"rejected"`
	Paid     int `json:"paid"`
	Total    int `json:"total"`
}
