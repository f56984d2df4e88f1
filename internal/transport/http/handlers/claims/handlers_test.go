package claimshandler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"maplehr/internal/domain/adjudication"
	"maplehr/internal/domain/claims"
	"maplehr/internal/domain/settings"
	domain "maplehr/internal/domain/shared"
)

type fakeClaims struct {
	items     map[int64]*claims.ClaimWithEmployee
	filter    claims.Filter
	created   *claims.NewClaim
	patches   []domain.Patch
	updateErr error
}

func (f *fakeClaims) List(_ context.Context, filter claims.Filter, _, _ int) ([]claims.ClaimWithEmployee, error) {
	f.filter = filter
	out := []claims.ClaimWithEmployee{}
	for _, c := range f.items {
		out = append(out, *c)
	}
	return out, nil
}

func (f *fakeClaims) Get(_ context.Context, id int64) (*claims.ClaimWithEmployee, error) {
	c, ok := f.items[id]
	if !ok {
		return nil, domain.NotFound("claim")
	}
	cp := *c
	return &cp, nil
}

func (f *fakeClaims) Create(_ context.Context, payload claims.NewClaim) (*claims.ClaimWithEmployee, error) {
	f.created = &payload
	return &claims.ClaimWithEmployee{Claim: claims.Claim{ID: 10, Amount: payload.Amount, Status: claims.StatusPending}}, nil
}

func (f *fakeClaims) Update(_ context.Context, id int64, patch domain.Patch) (*claims.ClaimWithEmployee, error) {
	f.patches = append(f.patches, patch)
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	c, ok := f.items[id]
	if !ok {
		return nil, domain.NotFound("claim")
	}
	if status, ok := patch.String("status"); ok {
		c.Status = status
	}
	c.Version++
	cp := *c
	return &cp, nil
}

func (f *fakeClaims) Stats(context.Context) (claims.Stats, error) {
	return claims.Stats{Pending: 1, Total: 1}, nil
}

func (f *fakeClaims) ListByEmployee(context.Context, int64, int) ([]claims.Claim, error) {
	return nil, nil
}

func (f *fakeClaims) CategoryTotal(context.Context, int64, string, time.Time, time.Time, int64) (string, error) {
	return "0", nil
}

type fakeSettings struct {
	s settings.Settings
}

func (f fakeSettings) Get(context.Context, string) (settings.Settings, error) { return f.s, nil }

func (f fakeSettings) Put(_ context.Context, _ string, s settings.Settings, _ string) (settings.Settings, error) {
	return s, nil
}

func mealClaim() *claims.ClaimWithEmployee {
	return &claims.ClaimWithEmployee{Claim: claims.Claim{
		ID:          1,
		EmployeeID:  3,
		Category:    claims.CategoryMeals,
		Description: "team lunch",
		Amount:      "30.00",
		ClaimDate:   time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC),
		Status:      claims.StatusPending,
		Version:     1,
	}}
}

func setup(autoApprove bool) (*fakeClaims, http.Handler) {
	store := &fakeClaims{items: map[int64]*claims.ClaimWithEmployee{1: mealClaim()}}
	svc := adjudication.NewService(adjudication.Options{Claims: store, Logger: zap.NewNop()})
	org := settings.Defaults()
	org.AutoApproveClaims = autoApprove
	r := chi.NewRouter()
	NewHandler(store, svc, fakeSettings{s: org}, "default", zap.NewNop()).RegisterRoutes(r)
	return store, r
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestListReturnsClaimsAndStats(t *testing.T) {
	store, h := setup(false)
	rec := do(t, h, http.MethodGet, "/claims?status=pending&employeeId=3", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var body listResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Len(t, body.Claims, 1)
	assert.Equal(t, 1, body.Stats.Pending)
	assert.Equal(t, "pending", store.filter.Status)
	require.NotNil(t, store.filter.EmployeeID)
	assert.Equal(t, int64(3), *store.filter.EmployeeID)
}

func TestListRejectsBadEmployeeFilter(t *testing.T) {
	_, h := setup(false)
	rec := do(t, h, http.MethodGet, "/claims?employeeId=three", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateNormalisesAmount(t *testing.T) {
	store, h := setup(false)
	rec := do(t, h, http.MethodPost, "/claims", `{"employeeId":3,"category":"travel","description":"taxi","amount":42.5,"claimDate":"2024-06-01"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	require.NotNil(t, store.created)
	assert.Equal(t, "42.5", store.created.Amount)
	assert.Equal(t, time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC), store.created.ClaimDate)
}

func TestCreateReportsEveryInvalidField(t *testing.T) {
	store, h := setup(false)
	rec := do(t, h, http.MethodPost, "/claims", `{"amount":"abc","status":"maybe"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	for _, field := range []string{"employeeId", "category", "description", "amount", "claimDate", "status"} {
		assert.Contains(t, rec.Body.String(), `"field":"`+field+`"`)
	}
	assert.Nil(t, store.created)
}

func TestUpdateVersionConflictIs409(t *testing.T) {
	store, h := setup(false)
	store.updateErr = domain.ErrVersionConflict
	rec := do(t, h, http.MethodPatch, "/claims/1", `{"status":"approved","version":1}`)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), "version_conflict")
}

func TestUpdateTakesVersionFromIfMatch(t *testing.T) {
	store, h := setup(false)
	req := httptest.NewRequest(http.MethodPatch, "/claims/1", bytes.NewBufferString(`{"status":"rejected"}`))
	req.Header.Set("If-Match", `W/"1"`)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.Len(t, store.patches, 1)
	require.NotNil(t, store.patches[0].Version)
	assert.Equal(t, 1, *store.patches[0].Version)
}

func TestAnalyzeMissingClaimIs404(t *testing.T) {
	_, h := setup(false)
	rec := do(t, h, http.MethodPost, "/claims/77/analyze", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "claim not found")
}

func TestAnalyzeDoesNotModifyClaim(t *testing.T) {
	store, h := setup(true)
	rec := do(t, h, http.MethodPost, "/claims/1/analyze", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var res adjudication.Result
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.True(t, res.ShouldApprove)
	assert.Equal(t, adjudication.SourcePolicy, res.Source)
	assert.False(t, res.Applied)
	assert.Empty(t, store.patches)
}

func TestAdjudicateAppliesWhenAutoApproveEnabled(t *testing.T) {
	store, h := setup(true)
	rec := do(t, h, http.MethodPost, "/claims/1/adjudicate", `{"modelApiKey":""}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var body struct {
		Applied bool         `json:"applied"`
		Claim   claims.Claim `json:"claim"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, body.Applied)
	assert.Equal(t, claims.StatusApproved, body.Claim.Status)
	require.Len(t, store.patches, 1)
	assert.Equal(t, adjudication.AutoApprover, store.patches[0].Set["approved_by"])
}

func TestAdjudicateLeavesClaimWhenAutoApproveDisabled(t *testing.T) {
	store, h := setup(false)
	rec := do(t, h, http.MethodPost, "/claims/1/adjudicate", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, store.patches)
	assert.Contains(t, rec.Body.String(), `"applied":false`)
}

func TestAdjudicateRejectsMalformedBody(t *testing.T) {
	_, h := setup(true)
	rec := do(t, h, http.MethodPost, "/claims/1/adjudicate", `{"modelApiKey":`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDecisionsListsEmptyHistoryWithoutLog(t *testing.T) {
	_, h := setup(false)
	rec := do(t, h, http.MethodGet, "/claims/1/decisions", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"decisions":[]}`, rec.Body.String())

	assert.Equal(t, http.StatusNotFound, do(t, h, http.MethodGet, "/claims/99/decisions", "").Code)
	assert.Equal(t, http.StatusBadRequest, do(t, h, http.MethodGet, "/claims/x/decisions", "").Code)
}
