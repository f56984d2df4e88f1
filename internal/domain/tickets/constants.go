package tickets

import "maplehr/internal/domain/shared"

const (
	StatusOpen       = "open"
	StatusInProgress = "in_progress"
	StatusResolved   = "resolved"
	StatusClosed     = "closed"

	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
	PriorityUrgent = "urgent"
)

var (
	Statuses   = []string{StatusOpen, StatusInProgress, StatusResolved, StatusClosed}
	Priorities = []string{PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent}
)

var Columns = map[string]shared.Column{
	"employeeId":  {Name: "employee_id", Kind: shared.KindInt},
	"title":       {Name: "title", Kind: shared.KindString},
	"description": {Name: "description", Kind: shared.KindString},
	"category":    {Name: "category", Kind: shared.KindString},
	"priority":    {Name: "priority", Kind: shared.KindString, Enum: Priorities},
	"status":      {Name: "status", Kind: shared.KindString, Enum: Statuses},
	"assignedTo":  {Name: "assigned_to", Kind: shared.KindString, Nullable: true},
	"dueDate":     {Name: "due_date", Kind: shared.KindTime, Nullable: true},
	"resolvedAt":  {Name: "resolved_at", Kind: shared.KindTime, Nullable: true},
}

// StampResolution sets resolved_at when a patch resolves or closes a ticket without its own timestamp.
func StampResolution(patch shared.Patch) shared.Patch {
	status, ok := patch.String("status")
	if !ok || (status != StatusResolved && status != StatusClosed) {
		return patch
	}
	if !patch.Has("resolved_at") {
		patch.Set["resolved_at"] = shared.Now
	}
	return patch
}
