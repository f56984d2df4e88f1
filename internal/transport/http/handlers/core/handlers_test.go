package corehandler

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

	"maplehr/internal/domain/core"
	domain "maplehr/internal/domain/shared"
)

type fakeStore struct {
	employees   []core.EmployeeWithUser
	searched    string
	limit       int
	offset      int
	created     *core.NewEmployee
	patched     *domain.Patch
	updateError error
}

func (f *fakeStore) List(_ context.Context, limit, offset int) ([]core.EmployeeWithUser, error) {
	f.limit, f.offset = limit, offset
	return f.employees, nil
}

func (f *fakeStore) Search(_ context.Context, query string, limit, offset int) ([]core.EmployeeWithUser, error) {
	f.searched, f.limit, f.offset = query, limit, offset
	return f.employees[:1], nil
}

func (f *fakeStore) Count(context.Context) (int, error) { return len(f.employees), nil }

func (f *fakeStore) CountMatching(context.Context, string) (int, error) { return 1, nil }

func (f *fakeStore) Get(_ context.Context, id int64) (*core.EmployeeWithUser, error) {
	for i := range f.employees {
		if f.employees[i].ID == id {
			return &f.employees[i], nil
		}
	}
	return nil, domain.NotFound("employee")
}

func (f *fakeStore) GetByUserID(context.Context, string) (*core.EmployeeWithUser, error) {
	return nil, domain.NotFound("employee")
}

func (f *fakeStore) Create(_ context.Context, payload core.NewEmployee) (*core.EmployeeWithUser, error) {
	f.created = &payload
	return &core.EmployeeWithUser{Employee: core.Employee{ID: 99, EmployeeID: payload.EmployeeID}}, nil
}

func (f *fakeStore) Update(_ context.Context, id int64, patch domain.Patch) (*core.EmployeeWithUser, error) {
	f.patched = &patch
	if f.updateError != nil {
		return nil, f.updateError
	}
	return f.Get(context.Background(), id)
}

func newRouter(store *fakeStore) http.Handler {
	r := chi.NewRouter()
	NewHandler(store, zap.NewNop()).RegisterRoutes(r)
	return r
}

func seeded() *fakeStore {
	return &fakeStore{employees: []core.EmployeeWithUser{
		{Employee: core.Employee{ID: 1, EmployeeID: "E001", Department: "Engineering"}},
		{Employee: core.Employee{ID: 2, EmployeeID: "E002", Department: "HR"}},
	}}
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestListReturnsEmployeesWithTotal(t *testing.T) {
	store := seeded()
	rec := do(t, newRouter(store), http.MethodGet, "/employees?limit=500&offset=5", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var body listResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Len(t, body.Employees, 2)
	assert.Equal(t, 2, body.Total)
	assert.Equal(t, 200, store.limit)
	assert.Equal(t, 5, store.offset)
}

func TestListWithSearchCountsMatches(t *testing.T) {
	store := seeded()
	rec := do(t, newRouter(store), http.MethodGet, "/employees?search=Eng", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var body listResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Eng", store.searched)
	assert.Equal(t, 1, body.Total)
	assert.Len(t, body.Employees, 1)
}

func TestGetRejectsNonNumericID(t *testing.T) {
	rec := do(t, newRouter(seeded()), http.MethodGet, "/employees/abc", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid_id")
}

func TestGetMissingEmployeeIs404(t *testing.T) {
	rec := do(t, newRouter(seeded()), http.MethodGet, "/employees/42", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "employee not found")
}

func TestCreateValidatesPayload(t *testing.T) {
	store := seeded()
	rec := do(t, newRouter(store), http.MethodPost, "/employees", `{"employeeId":"E9","joinDate":"soon","salary":"lots","status":"gone"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	for _, field := range []string{"department", "position", "joinDate", "salary", "status", "userId"} {
		assert.Contains(t, rec.Body.String(), `"field":"`+field+`"`)
	}
	assert.Nil(t, store.created)
}

func TestCreateWithNestedUser(t *testing.T) {
	store := seeded()
	rec := do(t, newRouter(store), http.MethodPost, "/employees", `{
		"employeeId":"E9","department":"Ops","position":"Lead","joinDate":"2024-01-15","salary":"52000.50",
		"user":{"id":"u9","email":"nine@company.com","role":"manager"}
	}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	require.NotNil(t, store.created)
	assert.Equal(t, "u9", store.created.User.ID)
}

func TestUpdateUnknownFieldIs400(t *testing.T) {
	rec := do(t, newRouter(seeded()), http.MethodPatch, "/employees/1", `{"favouriteColour":"blue"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "favouriteColour")
}

func TestUpdateAppliesPatch(t *testing.T) {
	store := seeded()
	rec := do(t, newRouter(store), http.MethodPatch, "/employees/2", `{"department":"People"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, store.patched)
	assert.Equal(t, "People", store.patched.Set["department"])
}
