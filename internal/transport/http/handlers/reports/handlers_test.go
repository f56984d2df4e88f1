package reportshandler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"maplehr/internal/domain/reports"
	"maplehr/internal/domain/settings"
)

type stubReporter struct {
	company string
	err     error
}

func (s *stubReporter) Dashboard(context.Context) (reports.Dashboard, error) {
	if s.err != nil {
		return reports.Dashboard{}, s.err
	}
	return reports.Dashboard{TotalEmployees: 12, PendingReviews: 2, PendingLeaves: 3}, nil
}

func (s *stubReporter) Headcount(context.Context) (reports.Headcount, error) {
	return reports.Headcount{Total: 12}, nil
}

func (s *stubReporter) HeadcountPDF(_ context.Context, companyName string) ([]byte, error) {
	s.company = companyName
	return []byte("%PDF-1.3 stub"), nil
}

type fixedSettings struct{}

func (fixedSettings) Get(context.Context, string) (settings.Settings, error) {
	s := settings.Defaults()
	s.CompanyName = "Maple Co"
	return s, nil
}

func (fixedSettings) Put(_ context.Context, _ string, s settings.Settings, _ string) (settings.Settings, error) {
	return s, nil
}

func serve(rep *stubReporter, path string) *httptest.ResponseRecorder {
	r := chi.NewRouter()
	NewHandler(rep, fixedSettings{}, "default", zap.NewNop()).RegisterRoutes(r)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestDashboardStats(t *testing.T) {
	rec := serve(&stubReporter{}, "/dashboard/stats")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"totalEmployees":12`)
	assert.Contains(t, rec.Body.String(), `"pendingLeaves":3`)
}

func TestDashboardFailureIsGeneric500(t *testing.T) {
	rec := serve(&stubReporter{err: errors.New("connection refused")}, "/dashboard/stats")
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "connection refused")
}

func TestHeadcountPDFUsesCompanyName(t *testing.T) {
	rep := &stubReporter{}
	rec := serve(rep, "/reports/headcount.pdf")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "headcount-")
	assert.Equal(t, "Maple Co", rep.company)
	assert.Equal(t, "%PDF-1.3 stub", rec.Body.String())
}

func TestHeadcountJSON(t *testing.T) {
	rec := serve(&stubReporter{}, "/reports/headcount")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"total":12`)
}
