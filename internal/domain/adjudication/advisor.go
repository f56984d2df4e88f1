package adjudication

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"maplehr/internal/domain/claims"
	"maplehr/internal/domain/leave"
	"maplehr/internal/platform/llm"
	"maplehr/internal/platform/logging"
)

const advisorTemperature = 0.1

// Advisor asks the hosted model for a recommendation. It never returns an error: every failure
// collapses into a fixed recommendation and is logged.
type Advisor struct {
	model  llm.Completer
	policy *Policy
	logger *zap.Logger
}

func NewAdvisor(model llm.Completer, policy *Policy, logger *zap.Logger) *Advisor {
	if policy == nil {
		policy = DefaultPolicy()
	}
	return &Advisor{model: model, policy: policy, logger: logging.OrNop(logger)}
}

func (a *Advisor) Claim(ctx context.Context, c claims.ClaimWithEmployee, apiKey string) Recommendation {
	return a.ask(ctx, a.claimPrompt(c), apiKey, zap.String("subject", SubjectClaim), zap.Int64("id", c.ID))
}

func (a *Advisor) Leave(ctx context.Context, l leave.LeaveRequestWithEmployee, apiKey string) Recommendation {
	return a.ask(ctx, a.leavePrompt(l), apiKey, zap.String("subject", SubjectLeaveRequest), zap.Int64("id", l.ID))
}

func (a *Advisor) claimPrompt(c claims.ClaimWithEmployee) string {
	var b strings.Builder
	b.WriteString("Analyze this expense claim for automatic approval based on company policies:\n\n")
	b.WriteString("Claim Details:\n")
	fmt.Fprintf(&b, "- Category: %s\n", c.Category)
	fmt.Fprintf(&b, "- Amount: $%s\n", c.Amount)
	fmt.Fprintf(&b, "- Description: %s\n", c.Description)
	fmt.Fprintf(&b, "- Receipt: %s\n", presence(c.ReceiptURL))
	fmt.Fprintf(&b, "- Employee: %s\n", c.Employee.User.FullName())
	fmt.Fprintf(&b, "- Department: %s\n\n", c.Employee.Department)
	b.WriteString("Standard approval rules:\n")
	b.WriteString(a.policy.ClaimRulesText())
	b.WriteString("\n\n")
	b.WriteString(responseFormat)
	return b.String()
}

func (a *Advisor) leavePrompt(l leave.LeaveRequestWithEmployee) string {
	reason := "Not specified"
	if l.Reason != nil && *l.Reason != "" {
		reason = *l.Reason
	}
	var b strings.Builder
	b.WriteString("Analyze this leave request for automatic approval:\n\n")
	b.WriteString("Leave Details:\n")
	fmt.Fprintf(&b, "- Type: %s\n", l.Type)
	fmt.Fprintf(&b, "- Start Date: %s\n", l.StartDate.Format("2006-01-02"))
	fmt.Fprintf(&b, "- End Date: %s\n", l.EndDate.Format("2006-01-02"))
	fmt.Fprintf(&b, "- Days: %d\n", l.Days)
	fmt.Fprintf(&b, "- Reason: %s\n", reason)
	fmt.Fprintf(&b, "- Employee: %s\n", l.Employee.User.FullName())
	fmt.Fprintf(&b, "- Department: %s\n\n", l.Employee.Department)
	b.WriteString("Leave policies:\n")
	b.WriteString(a.policy.LeaveRulesText())
	b.WriteString("\n\n")
	b.WriteString(responseFormat)
	return b.String()
}

const responseFormat = `Respond with JSON only: { "shouldApprove": boolean, "confidence": number (0-1), "reason": "explanation" }`

func (a *Advisor) ask(ctx context.Context, prompt, apiKey string, fields ...zap.Field) Recommendation {
	content, err := a.model.Complete(ctx, llm.Request{
		Prompt:      prompt,
		Temperature: advisorTemperature,
		JSON:        true,
		APIKey:      apiKey,
	})
	if err != nil {
		a.logger.Warn("advisor request failed", append(fields, zap.Error(err))...)
		return analysisFailed
	}
	if strings.TrimSpace(content) == "" {
		return unableToAnalyze
	}
	rec, err := parseRecommendation(content)
	if err != nil {
		a.logger.Warn("advisor returned unusable output", append(fields, zap.Error(err))...)
		return analysisFailed
	}
	return rec
}

// parseRecommendation accepts a bare JSON object, optionally inside a markdown code fence.
func parseRecommendation(content string) (Recommendation, error) {
	body := strings.TrimSpace(content)
	if strings.HasPrefix(body, "```") {
		body = strings.TrimPrefix(body, "```json")
		body = strings.TrimPrefix(body, "```")
		body = strings.TrimSuffix(strings.TrimSpace(body), "```")
	}
	var raw struct {
		ShouldApprove *bool    `json:"shouldApprove"`
		Confidence    *float64 `json:"confidence"`
		Reason        *string  `json:"reason"`
	}
	if err := json.Unmarshal([]byte(body), &raw); err != nil {
		return Recommendation{}, err
	}
	switch {
	case raw.ShouldApprove == nil:
		return Recommendation{}, fmt.Errorf("missing shouldApprove")
	case raw.Confidence == nil:
		return Recommendation{}, fmt.Errorf("missing confidence")
	case raw.Reason == nil:
		return Recommendation{}, fmt.Errorf("missing reason")
	case *raw.Confidence < 0 || *raw.Confidence > 1:
		return Recommendation{}, fmt.Errorf("confidence %v out of range", *raw.Confidence)
	}
	return Recommendation{ShouldApprove: *raw.ShouldApprove, Confidence: *raw.Confidence, Reason: *raw.Reason}, nil
}

func presence(s *string) string {
	if s == nil || *s == "" {
		return "not attached"
	}
	return "attached"
}
