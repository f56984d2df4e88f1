package claims

import "maplehr/internal/domain/shared"

const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
	StatusPaid     = "paid"

	CategoryTravel         = "travel"
	CategoryMeals          = "meals"
	CategoryOfficeSupplies = "office_supplies"
	CategoryTraining       = "training"
)

var Statuses = []string{StatusPending, StatusApproved, StatusRejected, StatusPaid}

var Columns = map[string]shared.Column{
	"employeeId":  {Name: "employee_id", Kind: shared.KindInt},
	"category":    {Name: "category", Kind: shared.KindString},
	"description": {Name: "description", Kind: shared.KindString},
	"amount":      {Name: "amount", Kind: shared.KindDecimal, Cast: "::text::numeric"},
	"receiptUrl":  {Name: "receipt_url", Kind: shared.KindString, Nullable: true},
	"claimDate":   {Name: "claim_date", Kind: shared.KindTime},
	"status":      {Name: "status", Kind: shared.KindString, Enum: Statuses},
	"approvedBy":  {Name: "approved_by", Kind: shared.KindString, Nullable: true},
	"approvedAt":  {Name: "approved_at", Kind: shared.KindTime, Nullable: true},
	"notes":       {Name: "notes", Kind: shared.KindString, Nullable: true},
}

// StampDecision sets approved_at when a patch moves a claim to a decided status without its own timestamp.
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
