package ticketshandler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	domain "maplehr/internal/domain/shared"
	"maplehr/internal/domain/tickets"
)

type fakeTickets struct {
	filter  tickets.Filter
	limit   int
	offset  int
	created *tickets.NewTicket
}

func (f *fakeTickets) List(_ context.Context, filter tickets.Filter, limit, offset int) ([]tickets.TicketWithEmployee, error) {
	f.filter, f.limit, f.offset = filter, limit, offset
	return []tickets.TicketWithEmployee{{Ticket: tickets.Ticket{ID: 1, Title: "VPN", Status: tickets.StatusOpen}}}, nil
}

func (f *fakeTickets) Get(_ context.Context, id int64) (*tickets.TicketWithEmployee, error) {
	if id != 1 {
		return nil, domain.NotFound("ticket")
	}
	return &tickets.TicketWithEmployee{Ticket: tickets.Ticket{ID: 1}}, nil
}

func (f *fakeTickets) Create(_ context.Context, payload tickets.NewTicket) (*tickets.TicketWithEmployee, error) {
	f.created = &payload
	return &tickets.TicketWithEmployee{Ticket: tickets.Ticket{ID: 2, Title: payload.Title}}, nil
}

func (f *fakeTickets) Update(_ context.Context, id int64, _ domain.Patch) (*tickets.TicketWithEmployee, error) {
	return f.Get(context.Background(), id)
}

func (f *fakeTickets) Stats(context.Context) (tickets.Stats, error) {
	return tickets.Stats{Open: 1, Overdue: 1, Total: 1}, nil
}

func (f *fakeTickets) ListByEmployee(context.Context, int64, int) ([]tickets.Ticket, error) {
	return nil, nil
}

func router(store *fakeTickets) http.Handler {
	r := chi.NewRouter()
	NewHandler(store, zap.NewNop()).RegisterRoutes(r)
	return r
}

func do(h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(method, path, bytes.NewBufferString(body)))
	return rec
}

func TestListPassesFiltersAndPage(t *testing.T) {
	store := &fakeTickets{}
	rec := do(router(store), http.MethodGet, "/tickets?status=open&priority=high&limit=10&offset=20", "")
	require.Equal(t, http.StatusOK, rec.Code)

	assert.Equal(t, tickets.Filter{Status: "open", Priority: "high"}, store.filter)
	assert.Equal(t, 10, store.limit)
	assert.Equal(t, 20, store.offset)

	var body listResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Len(t, body.Tickets, 1)
	assert.Equal(t, 1, body.Stats.Overdue)
}

func TestListFallsBackOnBadPagination(t *testing.T) {
	store := &fakeTickets{}
	rec := do(router(store), http.MethodGet, "/tickets?limit=-3&offset=x", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 50, store.limit)
	assert.Equal(t, 0, store.offset)
}

func TestCreateValidatesPriorityAndDueDate(t *testing.T) {
	store := &fakeTickets{}
	rec := do(router(store), http.MethodPost, "/tickets", `{"employeeId":1,"title":"VPN","description":"down","category":"IT","priority":"whenever","dueDate":"tomorrow"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), `"field":"priority"`)
	assert.Contains(t, rec.Body.String(), `"field":"dueDate"`)
	assert.Nil(t, store.created)
}

func TestCreateTicket(t *testing.T) {
	store := &fakeTickets{}
	rec := do(router(store), http.MethodPost, "/tickets", `{"employeeId":1,"title":"VPN","description":"down","category":"IT","dueDate":"2024-09-01"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	require.NotNil(t, store.created.DueDate)
	assert.Equal(t, "2024-09-01", store.created.DueDate.Format("2006-01-02"))
}

func TestGetUnknownTicketIs404(t *testing.T) {
	rec := do(router(&fakeTickets{}), http.MethodGet, "/tickets/9", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUpdateRejectsEmptyBody(t *testing.T) {
	rec := do(router(&fakeTickets{}), http.MethodPatch, "/tickets/1", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "request body is empty")
}
