package adjudication

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"maplehr/internal/domain/claims"
	"maplehr/internal/domain/core"
	"maplehr/internal/domain/leave"
	"maplehr/internal/domain/shared"
	"maplehr/internal/domain/tickets"
)

type fakeEmployees struct {
	byUser map[string]core.EmployeeWithUser
	err    error
}

func (f fakeEmployees) GetByUserID(_ context.Context, userID string) (*core.EmployeeWithUser, error) {
	if f.err != nil {
		return nil, f.err
	}
	emp, ok := f.byUser[userID]
	if !ok {
		return nil, shared.NotFound("employee")
	}
	return &emp, nil
}

type recentStub struct {
	limits []int
}

func (r *recentStub) claims(_ context.Context, _ int64, limit int) ([]claims.Claim, error) {
	r.limits = append(r.limits, limit)
	return []claims.Claim{{ID: 1, Category: claims.CategoryMeals, Amount: "12.00"}}, nil
}

type claimsFn func(context.Context, int64, int) ([]claims.Claim, error)

func (f claimsFn) ListByEmployee(ctx context.Context, id int64, limit int) ([]claims.Claim, error) {
	return f(ctx, id, limit)
}

type ticketsFn func(context.Context, int64, int) ([]tickets.Ticket, error)

func (f ticketsFn) ListByEmployee(ctx context.Context, id int64, limit int) ([]tickets.Ticket, error) {
	return f(ctx, id, limit)
}

type leaveFn func(context.Context, int64, int) ([]leave.LeaveRequest, error)

func (f leaveFn) ListByEmployee(ctx context.Context, id int64, limit int) ([]leave.LeaveRequest, error) {
	return f(ctx, id, limit)
}

func newTestAssistant(model *stubModel, employees fakeEmployees, recent *recentStub) *Assistant {
	noTickets := ticketsFn(func(context.Context, int64, int) ([]tickets.Ticket, error) { return []tickets.Ticket{}, nil })
	noLeave := leaveFn(func(context.Context, int64, int) ([]leave.LeaveRequest, error) { return []leave.LeaveRequest{}, nil })
	return NewAssistant(model, employees, claimsFn(recent.claims), noTickets, noLeave, nil)
}

func TestAssistantReplyIncludesEmployeeContext(t *testing.T) {
	model := &stubModel{content: "You have 15 vacation days left."}
	recent := &recentStub{}
	a := newTestAssistant(model, fakeEmployees{byUser: map[string]core.EmployeeWithUser{"u1": alice()}}, recent)

	answer := a.Reply(context.Background(), "u1", "How many vacation days do I have?", "")
	assert.Equal(t, "You have 15 vacation days left.", answer.Text)
	require.NotNil(t, answer.Context)
	require.NotNil(t, answer.Context.Employee)

	require.Len(t, model.calls, 1)
	req := model.calls[0]
	assert.Equal(t, "How many vacation days do I have?", req.Prompt)
	assert.Equal(t, 500, req.MaxTokens)
	assert.InDelta(t, 0.7, req.Temperature, 1e-9)
	assert.Contains(t, req.System, "You are MapleHR AI Assistant")
	assert.Contains(t, req.System, `"name": "Alice Chen"`)
	assert.Contains(t, req.System, `"category": "meals"`)
	assert.Equal(t, []int{3}, recent.limits)
}

func TestAssistantWithoutEmployeeRecord(t *testing.T) {
	model := &stubModel{content: "Hello!"}
	a := newTestAssistant(model, fakeEmployees{}, &recentStub{})

	chatCtx, err := a.Context(context.Background(), "nobody")
	require.NoError(t, err)
	assert.Nil(t, chatCtx.Employee)
	assert.Empty(t, chatCtx.RecentClaims)

	assert.Equal(t, "Hello!", a.Reply(context.Background(), "nobody", "hi", "").Text)
	assert.Contains(t, model.calls[0].System, `"employee": null`)
}

func TestAssistantApologies(t *testing.T) {
	a := newTestAssistant(&stubModel{content: ""}, fakeEmployees{}, &recentStub{})
	assert.Equal(t, ReplyEmpty, a.Reply(context.Background(), "u1", "hi", "").Text)

	a = newTestAssistant(&stubModel{err: errors.New("429 too many requests")}, fakeEmployees{}, &recentStub{})
	assert.Equal(t, ReplyFailed, a.Reply(context.Background(), "u1", "hi", "").Text)
}

func TestAssistantSkipsModelWhenContextLookupFails(t *testing.T) {
	model := &stubModel{content: "unused"}
	a := newTestAssistant(model, fakeEmployees{err: errors.New("db down")}, &recentStub{})

	answer := a.Reply(context.Background(), "u1", "hi", "")
	assert.Equal(t, ReplyFailed, answer.Text)
	assert.Nil(t, answer.Context)
	assert.Empty(t, model.calls)
}

func TestAssistantPassesKeyOverride(t *testing.T) {
	model := &stubModel{content: "ok"}
	a := newTestAssistant(model, fakeEmployees{}, &recentStub{})
	a.Reply(context.Background(), "u1", "hi", "sk-user")
	assert.Equal(t, "sk-user", model.calls[0].APIKey)
}
