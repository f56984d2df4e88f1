package leave

import "maplehr/internal/domain/shared"

const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"

	TypeVacation  = "vacation"
	TypeSick      = "sick"
	TypePersonal  = "personal"
	TypeEmergency = "emergency"
)

var Statuses = []string{StatusPending, StatusApproved, StatusRejected}

var Columns = map[string]shared.Column{
	"employeeId": {Name: "employee_id", Kind: shared.KindInt},
	"type":       {Name: "type", Kind: shared.KindString},
	"startDate":  {Name: "start_date", Kind: shared.KindTime},
	"endDate":    {Name: "end_date", Kind: shared.KindTime},
	"days":       {Name: "days", Kind: shared.KindInt},
	"reason":     {Name: "reason", Kind: shared.KindString, Nullable: true},
	"status":     {Name: "status", Kind: shared.KindString, Enum: Statuses},
	"approvedBy": {Name: "approved_by", Kind: shared.KindString, Nullable: true},
	"approvedAt": {Name: "approved_at", Kind: shared.KindTime, Nullable: true},
}

// StampDecision sets approved_at when a patch approves or rejects a request without its own timestamp.
func StampDecision(patch shared.Patch) shared.Patch {
	status, ok := patch.String("status")
	if !ok || (status != StatusApproved && status != StatusRejected) {
		return patch
	}
	if !patch.Has("approved_at") {
		patch.Set["approved_at"] = shared.Now
	}
	return patch
}
