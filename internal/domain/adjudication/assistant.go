package adjudication

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"maplehr/internal/domain/claims"
	"maplehr/internal/domain/core"
	"maplehr/internal/domain/leave"
	"maplehr/internal/domain/shared"
	"maplehr/internal/domain/tickets"
	"maplehr/internal/platform/llm"
	"maplehr/internal/platform/logging"
)

const (
	recentRecords        = 3
	assistantMaxTokens   = 500
	assistantTemperature = 0.7

	ReplyEmpty  = "I apologize, but I'm having trouble processing your request right now. Please try again or contact HR support."
	ReplyFailed = "I apologize, but I'm currently experiencing technical difficulties. Please try again later or contact HR support directly."
)

type EmployeeLookup interface {
	GetByUserID(ctx context.Context, userID string) (*core.EmployeeWithUser, error)
}

type RecentClaims interface {
	ListByEmployee(ctx context.Context, employeeID int64, limit int) ([]claims.Claim, error)
}

type RecentTickets interface {
	ListByEmployee(ctx context.Context, employeeID int64, limit int) ([]tickets.Ticket, error)
}

type RecentLeave interface {
	ListByEmployee(ctx context.Context, employeeID int64, limit int) ([]leave.LeaveRequest, error)
}

// Assistant answers free-text HR questions with the caller's own records as context.
type Assistant struct {
	model     llm.Completer
	employees EmployeeLookup
	claims    RecentClaims
	tickets   RecentTickets
	leave     RecentLeave
	logger    *zap.Logger
}

func NewAssistant(model llm.Completer, employees EmployeeLookup, c RecentClaims, t RecentTickets, l RecentLeave, logger *zap.Logger) *Assistant {
	return &Assistant{model: model, employees: employees, claims: c, tickets: t, leave: l, logger: logging.OrNop(logger)}
}

type employeeSummary struct {
	Name       string `json:"name"`
	Department string `json:"department"`
	Position   string `json:"position"`
	EmployeeID string `json:"employeeId"`
}

// ChatContext is the JSON blob embedded in the system prompt and stored with the reply.
type ChatContext struct {
	Employee      *employeeSummary     `json:"employee"`
	RecentClaims  []claims.Claim       `json:"recentClaims"`
	RecentTickets []tickets.Ticket     `json:"recentTickets"`
	RecentLeaves  []leave.LeaveRequest `json:"recentLeaves"`
}

// Context loads the employee linked to userID and their latest records. Users without an
// employee record get an empty context.
func (a *Assistant) Context(ctx context.Context, userID string) (ChatContext, error) {
	out := ChatContext{
		RecentClaims:  []claims.Claim{},
		RecentTickets: []tickets.Ticket{},
		RecentLeaves:  []leave.LeaveRequest{},
	}
	emp, err := a.employees.GetByUserID(ctx, userID)
	if errors.Is(err, shared.ErrNotFound) {
		return out, nil
	}
	if err != nil {
		return out, err
	}
	out.Employee = &employeeSummary{
		Name:       emp.User.FullName(),
		Department: emp.Department,
		Position:   emp.Position,
		EmployeeID: emp.EmployeeID,
	}
	if out.RecentClaims, err = a.claims.ListByEmployee(ctx, emp.ID, recentRecords); err != nil {
		return out, err
	}
	if out.RecentTickets, err = a.tickets.ListByEmployee(ctx, emp.ID, recentRecords); err != nil {
		return out, err
	}
	if out.RecentLeaves, err = a.leave.ListByEmployee(ctx, emp.ID, recentRecords); err != nil {
		return out, err
	}
	return out, nil
}

// Answer is one assistant reply. Context is the data the model saw; it is nil when the
// lookup failed and the reply is the fixed apology.
type Answer struct {
	Text    string
	Context *ChatContext
}

// Reply returns the assistant's answer. Failures become one of the fixed apology strings and
// a failed context lookup never reaches the model.
func (a *Assistant) Reply(ctx context.Context, userID, message, apiKey string) Answer {
	chatCtx, err := a.Context(ctx, userID)
	if err != nil {
		a.logger.Warn("chat context lookup failed", zap.String("userId", userID), zap.Error(err))
		return Answer{Text: ReplyFailed}
	}
	return Answer{Text: a.complete(ctx, chatCtx, message, apiKey), Context: &chatCtx}
}

func (a *Assistant) complete(ctx context.Context, chatCtx ChatContext, message, apiKey string) string {
	contextJSON, err := json.MarshalIndent(chatCtx, "", "  ")
	if err != nil {
		a.logger.Error("encode chat context", zap.Error(err))
		return ReplyFailed
	}
	content, err := a.model.Complete(ctx, llm.Request{
		System:      systemPrompt(string(contextJSON)),
		Prompt:      message,
		MaxTokens:   assistantMaxTokens,
		Temperature: assistantTemperature,
		APIKey:      apiKey,
	})
	if err != nil {
		a.logger.Warn("chat completion failed", zap.Error(err))
		return ReplyFailed
	}
	if strings.TrimSpace(content) == "" {
		return ReplyEmpty
	}
	return content
}

func systemPrompt(contextJSON string) string {
	return `You are MapleHR AI Assistant, an intelligent HR chatbot that helps employees with HR-related queries. You have access to the employee's information and can help with:

1. Leave requests and vacation balance
2. Claims and expense submissions
3. HR policies and procedures
4. Ticket status and support
5. Performance reviews
6. Benefits information
7. General HR questions

Current employee context: ` + contextJSON + `

Provide helpful, accurate, and professional responses. If you need to perform actions like submitting requests, inform the user about the process and guide them to the appropriate forms or sections.

Keep responses concise but informative. Always maintain a professional and friendly tone.`
}
