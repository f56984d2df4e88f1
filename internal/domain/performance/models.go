package performance

import (
	"encoding/json"
	"time"
)

type Review struct {
	ID           int64           `json:"id"`
	EmployeeID   int64           `json:"employeeId"`
	ReviewerID   string          `json:"reviewerId"`
	Period       string          `json:"period"`
	Goals        json.RawMessage `json:"goals"`
	Achievements json.RawMessage `json:"achievements"`
	Rating       *int            `json:"rating"`
	Feedback     *string         `json:"feedback"`
	Status       string          `json:"status"`
	DueDate      *time.Time      `json:"dueDate"`
	CompletedAt  *time.Time      `json:"completedAt"`
	CreatedAt    time.Time       `json:"createdAt"`
	UpdatedAt    time.Time       `json:"updatedAt"`
}

type NewReview struct {
	EmployeeID   int64
	ReviewerID   string
	Period       string
	Goals        json.RawMessage
	Achievements json.RawMessage
	Rating       *int
	Feedback     *string
	Status       string
	DueDate      *time.Time
}

type Summary struct {
	Total              int            `json:"total"`
	ByStatus           map[string]int `json:"byStatus"`
	RatedCount         int            `json:"ratedCount"`
	AverageRating      float64        `json:"averageRating"`
	RatingDistribution map[string]int `json:"ratingDistribution"`
	CompletionRate     float64        `json:"completionRate"`
}
