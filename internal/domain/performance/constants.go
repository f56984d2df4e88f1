package performance

import "maplehr/internal/domain/shared"

const (
	StatusDraft     = "draft"
	StatusSubmitted = "submitted"
	StatusApproved  = "approved"
)

var Statuses = []string{StatusDraft, StatusSubmitted, StatusApproved}

var Columns = map[string]shared.Column{
	"employeeId":   {Name: "employee_id", Kind: shared.KindInt},
	"reviewerId":   {Name: "reviewer_id", Kind: shared.KindString},
	"period":       {Name: "period", Kind: shared.KindString},
	"goals":        {Name: "goals", Kind: shared.KindJSON, Nullable: true},
	"achievements": {Name: "achievements", Kind: shared.KindJSON, Nullable: true},
	"rating":       {Name: "rating", Kind: shared.KindInt, Nullable: true},
	"feedback":     {Name: "feedback", Kind: shared.KindString, Nullable: true},
	"status":       {Name: "status", Kind: shared.KindString, Enum: Statuses},
	"dueDate":      {Name: "due_date", Kind: shared.KindTime, Nullable: true},
	"completedAt":  {Name: "completed_at", Kind: shared.KindTime, Nullable: true},
}
