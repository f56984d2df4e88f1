package adjudication

// Recommendation is the approve/reject triple returned to callers.
type Recommendation struct {
	ShouldApprove bool    `json:"shouldApprove"`
	Confidence    float64 `json:"confidence"`
	Reason        string  `json:"reason"`
}

type Outcome string

const (
	OutcomeApprove   Outcome = "approve"
	OutcomeReject    Outcome = "reject"
	OutcomeReview    Outcome = "review"
	OutcomeUndecided Outcome = "undecided"
)

// Decision is the policy verdict. Review and reject both carry ShouldApprove=false.
type Decision struct {
	Recommendation
	Outcome Outcome
	Rule    string
}

// Decisive reports whether the policy reached a verdict.
func (d Decision) Decisive() bool {
	return d.Outcome != OutcomeUndecided
}

const (
	SourcePolicy   = "policy"
	SourceAdvisor  = "advisor"
	SourceFallback = "fallback"
	SourceNone     = "none"

	SubjectClaim        = "claim"
	SubjectLeaveRequest = "leave_request"

	// AutoApprover is recorded as approvedBy when a recommendation is applied.
	AutoApprover = "auto-adjudicator"
)

// Result is what the analyze and adjudicate endpoints return.
type Result struct {
	Recommendation
	Source     string          `json:"source"`
	Rule       string          `json:"rule,omitempty"`
	Advisory   *Recommendation `json:"advisory,omitempty"`
	Applied    bool            `json:"applied"`
	DecisionID string          `json:"decisionId,omitempty"`
}

var (
	analysisFailed  = Recommendation{ShouldApprove: false, Confidence: 0, Reason: "Analysis failed"}
	unableToAnalyze = Recommendation{ShouldApprove: false, Confidence: 0, Reason: "Unable to analyze"}
	noRuleApplies   = Recommendation{ShouldApprove: false, Confidence: 0, Reason: "No policy rule applies; manual review required"}
)

func approve(rule string, confidence float64, reason string) Decision {
	return Decision{Recommendation: Recommendation{true, confidence, reason}, Outcome: OutcomeApprove, Rule: rule}
}

func reject(rule string, confidence float64, reason string) Decision {
	return Decision{Recommendation: Recommendation{false, confidence, reason}, Outcome: OutcomeReject, Rule: rule}
}

func review(rule string, confidence float64, reason string) Decision {
	return Decision{Recommendation: Recommendation{false, confidence, reason}, Outcome: OutcomeReview, Rule: rule}
}

func undecided() Decision {
	return Decision{Recommendation: noRuleApplies, Outcome: OutcomeUndecided}
}
