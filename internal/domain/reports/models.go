package reports

import "time"

const (
	// Dashboard figures with no backing data yet. They are listed in Dashboard.Placeholders.
	placeholderActiveRecruitments = 18
	placeholderCostSavings        = 47000
)

type Dashboard struct {
	TotalEmployees     int      `json:"totalEmployees"`
	PendingReviews     int      `json:"pendingReviews"`
	PendingLeaves      int      `json:"pendingLeaves"`
	ActiveRecruitments int      `json:"activeRecruitments"`
	CostSavings        int      `json:"costSavings"`
	Placeholders       []string `json:"placeholders"`
}

type HeadcountRow struct {
	Department string `json:"department"`
	Position   string `json:"position"`
	Count      int    `json:"count"`
}

type DepartmentTotal struct {
	Department string `json:"department"`
	Count      int    `json:"count"`
}

type Headcount struct {
	GeneratedAt  time.Time         `json:"generatedAt"`
	Total        int               `json:"total"`
	ByDepartment []DepartmentTotal `json:"byDepartment"`
	ByPosition   []HeadcountRow    `json:"byPosition"`
	Status       string            `json:"status"`
}
