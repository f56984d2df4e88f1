package reports

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"
	"golang.org/x/sync/errgroup"

	"maplehr/internal/domain/core"
	"maplehr/internal/domain/leave"
	"maplehr/internal/domain/performance"
)

type EmployeeCounter interface {
	Count(ctx context.Context) (int, error)
}

type StatusCounter interface {
	CountByStatus(ctx context.Context, status string) (int, error)
}

type Service struct {
	Store     StoreAPI
	Employees EmployeeCounter
	Reviews   StatusCounter
	Leave     StatusCounter
	now       func() time.Time
}

func NewService(store StoreAPI, employees EmployeeCounter, reviews, leaveRequests StatusCounter) *Service {
	return &Service{Store: store, Employees: employees, Reviews: reviews, Leave: leaveRequests, now: time.Now}
}

// Dashboard runs the three counts concurrently; the first failure cancels the rest.
func (s *Service) Dashboard(ctx context.Context) (Dashboard, error) {
	var out Dashboard
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		n, err := s.Employees.Count(gctx)
		out.TotalEmployees = n
		return err
	})
	g.Go(func() error {
		n, err := s.Reviews.CountByStatus(gctx, performance.StatusDraft)
		out.PendingReviews = n
		return err
	})
	g.Go(func() error {
		n, err := s.Leave.CountByStatus(gctx, leave.StatusPending)
		out.PendingLeaves = n
		return err
	})
	if err := g.Wait(); err != nil {
		return Dashboard{}, err
	}
	out.ActiveRecruitments = placeholderActiveRecruitments
	out.CostSavings = placeholderCostSavings
	out.Placeholders = []string{"activeRecruitments", "costSavings"}
	return out, nil
}

// Headcount counts active employees per department and position.
func (s *Service) Headcount(ctx context.Context) (Headcount, error) {
	rows, err := s.Store.HeadcountRows(ctx, core.StatusActive)
	if err != nil {
		return Headcount{}, err
	}
	return buildHeadcount(rows, s.now().UTC()), nil
}

func buildHeadcount(rows []HeadcountRow, at time.Time) Headcount {
	out := Headcount{GeneratedAt: at, ByPosition: rows, ByDepartment: []DepartmentTotal{}, Status: core.StatusActive}
	if out.ByPosition == nil {
		out.ByPosition = []HeadcountRow{}
	}
	for _, row := range rows {
		out.Total += row.Count
		n := len(out.ByDepartment)
		if n > 0 && out.ByDepartment[n-1].Department == row.Department {
			out.ByDepartment[n-1].Count += row.Count
			continue
		}
		out.ByDepartment = append(out.ByDepartment, DepartmentTotal{Department: row.Department, Count: row.Count})
	}
	return out
}

// HeadcountPDF renders the report as a one-table A4 document.
func (s *Service) HeadcountPDF(ctx context.Context, companyName string) ([]byte, error) {
	report, err := s.Headcount(ctx)
	if err != nil {
		return nil, err
	}
	return RenderHeadcountPDF(report, companyName)
}

func RenderHeadcountPDF(report Headcount, companyName string) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, "Headcount Report")
	pdf.Ln(12)
	pdf.SetFont("Helvetica", "", 11)
	if companyName != "" {
		pdf.Cell(0, 7, companyName)
		pdf.Ln(7)
	}
	pdf.Cell(0, 7, fmt.Sprintf("Generated: %s", report.GeneratedAt.Format("2006-01-02 15:04 MST")))
	pdf.Ln(7)
	pdf.Cell(0, 7, fmt.Sprintf("Active employees: %d", report.Total))
	pdf.Ln(11)

	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(70, 8, "Department", "1", 0, "L", false, 0, "")
	pdf.CellFormat(80, 8, "Position", "1", 0, "L", false, 0, "")
	pdf.CellFormat(30, 8, "Count", "1", 1, "R", false, 0, "")
	pdf.SetFont("Helvetica", "", 11)
	for _, row := range report.ByPosition {
		pdf.CellFormat(70, 7, row.Department, "1", 0, "L", false, 0, "")
		pdf.CellFormat(80, 7, row.Position, "1", 0, "L", false, 0, "")
		pdf.CellFormat(30, 7, fmt.Sprintf("%d", row.Count), "1", 1, "R", false, 0, "")
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
