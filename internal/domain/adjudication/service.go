package adjudication

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"vitess.io/vitess/go/mysql/decimal"

	"maplehr/internal/domain/claims"
	"maplehr/internal/domain/leave"
	"maplehr/internal/domain/settings"
	"maplehr/internal/domain/shared"
	"maplehr/internal/platform/config"
	"maplehr/internal/platform/logging"
)

type ClaimStore interface {
	CategoryTotal(ctx context.Context, employeeID int64, category string, from, to time.Time, excludeID int64) (string, error)
	Update(ctx context.Context, id int64, patch shared.Patch) (*claims.ClaimWithEmployee, error)
}

type LeaveStore interface {
	ApprovedDays(ctx context.Context, employeeID int64, leaveType string, year int, excludeID int64) (int, error)
	Update(ctx context.Context, id int64, patch shared.Patch) (*leave.LeaveRequestWithEmployee, error)
}

// Call carries per-request values that do not belong to the subject.
type Call struct {
	APIKey    string
	RequestID string
}

type Options struct {
	Policy  *Policy
	Advisor *Advisor
	// Mode is one of config.AdvisorOff, AdvisorUndecided, AdvisorAlways.
	Mode string
	// ModelConfigured reports whether the process holds a model key; a per-call key also enables the advisor.
	ModelConfigured bool
	Claims          ClaimStore
	Leave           LeaveStore
	Decisions       DecisionLog
	Logger          *zap.Logger
}

type Service struct {
	policy          *Policy
	advisor         *Advisor
	mode            string
	modelConfigured bool
	claims          ClaimStore
	leave           LeaveStore
	decisions       DecisionLog
	logger          *zap.Logger
}

func NewService(opts Options) *Service {
	policy := opts.Policy
	if policy == nil {
		policy = DefaultPolicy()
	}
	mode := opts.Mode
	if mode == "" {
		mode = config.AdvisorUndecided
	}
	return &Service{
		policy:          policy,
		advisor:         opts.Advisor,
		mode:            mode,
		modelConfigured: opts.ModelConfigured,
		claims:          opts.Claims,
		leave:           opts.Leave,
		decisions:       opts.Decisions,
		logger:          logging.OrNop(opts.Logger),
	}
}

func (s *Service) advisorEnabled(call Call) bool {
	return s.advisor != nil && s.mode != config.AdvisorOff && (s.modelConfigured || call.APIKey != "")
}

// combine turns a policy decision plus an optional advisor into the final result.
func (s *Service) combine(ctx context.Context, decision Decision, call Call, ask func(context.Context, string) Recommendation) Result {
	if decision.Decisive() {
		res := Result{Recommendation: decision.Recommendation, Source: SourcePolicy, Rule: decision.Rule}
		if s.mode == config.AdvisorAlways && s.advisorEnabled(call) {
			opinion := ask(ctx, call.APIKey)
			res.Advisory = &opinion
		}
		return res
	}
	if !s.advisorEnabled(call) {
		return Result{Recommendation: noRuleApplies, Source: SourceNone}
	}
	opinion := ask(ctx, call.APIKey)
	source := SourceAdvisor
	if opinion == analysisFailed || opinion == unableToAnalyze {
		source = SourceFallback
	}
	return Result{Recommendation: opinion, Source: source}
}

func (s *Service) claimFacts(ctx context.Context, c claims.ClaimWithEmployee) (ClaimFacts, error) {
	amount, err := decimal.NewFromString(c.Amount)
	if err != nil {
		return ClaimFacts{}, errors.Wrapf(err, "claim %d amount", c.ID)
	}
	facts := ClaimFacts{
		Category:   c.Category,
		Amount:     amount,
		HasReceipt: c.ReceiptURL != nil && *c.ReceiptURL != "",
	}
	if from, to, ok := s.policy.ClaimWindow(c.Category, c.ClaimDate); ok {
		raw, err := s.claims.CategoryTotal(ctx, c.EmployeeID, c.Category, from, to, c.ID)
		if err != nil {
			return ClaimFacts{}, errors.Wrap(err, "claim category total")
		}
		if facts.PriorTotal, err = decimal.NewFromString(raw); err != nil {
			return ClaimFacts{}, errors.Wrap(err, "claim category total")
		}
	}
	return facts, nil
}

func (s *Service) leaveFacts(ctx context.Context, l leave.LeaveRequestWithEmployee) (LeaveFacts, error) {
	facts := LeaveFacts{
		Type:        l.Type,
		Days:        l.Days,
		StartDate:   l.StartDate,
		RequestedAt: l.CreatedAt,
	}
	if l.Type == leave.TypeVacation {
		days, err := s.leave.ApprovedDays(ctx, l.EmployeeID, leave.TypeVacation, l.StartDate.UTC().Year(), l.ID)
		if err != nil {
			return LeaveFacts{}, errors.Wrap(err, "approved vacation days")
		}
		facts.ApprovedVacationDays = days
	}
	return facts, nil
}

func (s *Service) evaluateClaim(ctx context.Context, c claims.ClaimWithEmployee, call Call) (Result, error) {
	facts, err := s.claimFacts(ctx, c)
	if err != nil {
		return Result{}, err
	}
	decision := s.policy.EvaluateClaim(facts)
	return s.combine(ctx, decision, call, func(ctx context.Context, key string) Recommendation {
		return s.advisor.Claim(ctx, c, key)
	}), nil
}

func (s *Service) evaluateLeave(ctx context.Context, l leave.LeaveRequestWithEmployee, call Call) (Result, error) {
	facts, err := s.leaveFacts(ctx, l)
	if err != nil {
		return Result{}, err
	}
	decision := s.policy.EvaluateLeave(facts)
	return s.combine(ctx, decision, call, func(ctx context.Context, key string) Recommendation {
		return s.advisor.Leave(ctx, l, key)
	}), nil
}

// AnalyzeClaim returns a recommendation without touching the claim.
func (s *Service) AnalyzeClaim(ctx context.Context, c claims.ClaimWithEmployee, call Call) (Result, error) {
	res, err := s.evaluateClaim(ctx, c, call)
	if err != nil {
		return Result{}, err
	}
	s.record(ctx, SubjectClaim, c.ID, &res, call)
	return res, nil
}

func (s *Service) AnalyzeLeave(ctx context.Context, l leave.LeaveRequestWithEmployee, call Call) (Result, error) {
	res, err := s.evaluateLeave(ctx, l, call)
	if err != nil {
		return Result{}, err
	}
	s.record(ctx, SubjectLeaveRequest, l.ID, &res, call)
	return res, nil
}

// AdjudicateClaim approves a pending claim when the recommendation clears the organization's
// threshold and auto-approval of claims is enabled. It never rejects. The returned claim is the
// updated row when applied and c otherwise.
func (s *Service) AdjudicateClaim(ctx context.Context, c claims.ClaimWithEmployee, org settings.Settings, call Call) (Result, *claims.ClaimWithEmployee, error) {
	res, err := s.evaluateClaim(ctx, c, call)
	if err != nil {
		return Result{}, nil, err
	}
	current := &c
	if c.Status == claims.StatusPending && org.AutoApproveClaims && clears(res.Recommendation, org) {
		updated, err := s.claims.Update(ctx, c.ID, approvalPatch(claims.StatusApproved, c.Version))
		if err != nil {
			return Result{}, nil, err
		}
		res.Applied = true
		current = updated
	}
	s.record(ctx, SubjectClaim, c.ID, &res, call)
	return res, current, nil
}

// AdjudicateLeave is AdjudicateClaim for leave requests; only the confidence threshold gates it.
func (s *Service) AdjudicateLeave(ctx context.Context, l leave.LeaveRequestWithEmployee, org settings.Settings, call Call) (Result, *leave.LeaveRequestWithEmployee, error) {
	res, err := s.evaluateLeave(ctx, l, call)
	if err != nil {
		return Result{}, nil, err
	}
	current := &l
	if l.Status == leave.StatusPending && clears(res.Recommendation, org) {
		updated, err := s.leave.Update(ctx, l.ID, approvalPatch(leave.StatusApproved, l.Version))
		if err != nil {
			return Result{}, nil, err
		}
		res.Applied = true
		current = updated
	}
	s.record(ctx, SubjectLeaveRequest, l.ID, &res, call)
	return res, current, nil
}

func clears(rec Recommendation, org settings.Settings) bool {
	return rec.ShouldApprove && rec.Confidence >= org.AIConfidenceThreshold
}

func approvalPatch(status string, version int) shared.Patch {
	return shared.Patch{
		Set: map[string]any{
			"status":      status,
			"approved_by": AutoApprover,
			"approved_at": shared.Now,
		},
		Version: &version,
	}
}

// record writes the decision log entry. Failures are logged and swallowed.
func (s *Service) record(ctx context.Context, subject string, id int64, res *Result, call Call) {
	if s.decisions == nil {
		return
	}
	rec := DecisionRecord{
		SubjectType:    subject,
		SubjectID:      id,
		Recommendation: res.Recommendation,
		Source:         res.Source,
		Applied:        res.Applied,
	}
	if res.Rule != "" {
		rec.Rule = &res.Rule
	}
	if call.RequestID != "" {
		rec.RequestID = &call.RequestID
	}
	decisionID, err := s.decisions.Record(ctx, rec)
	if err != nil {
		s.logger.Warn("record adjudication decision",
			zap.String("subject", subject), zap.Int64("id", id), zap.Error(err))
		return
	}
	res.DecisionID = decisionID
}

// historyLimit bounds the decision log returned for one subject.
const historyLimit = 20

// History returns the most recent decisions recorded for a subject, newest first.
func (s *Service) History(ctx context.Context, subject string, id int64) ([]DecisionRecord, error) {
	if s.decisions == nil {
		return []DecisionRecord{}, nil
	}
	out, err := s.decisions.ListForSubject(ctx, subject, id, historyLimit)
	if err != nil {
		return nil, errors.Wrapf(err, "list %s %d decisions", subject, id)
	}
	return out, nil
}
