package performance

import "fmt"

// buildSummary folds status counts and submitted ratings into the review summary.
func buildSummary(byStatus map[string]int, ratings []int) Summary {
	summary := Summary{
		ByStatus:           map[string]int{},
		RatingDistribution: map[string]int{},
	}
	for status, n := range byStatus {
		summary.ByStatus[status] = n
		summary.Total += n
	}
	sum := 0
	for _, rating := range ratings {
		summary.RatingDistribution[fmt.Sprintf("%d", rating)]++
		sum += rating
	}
	summary.RatedCount = len(ratings)
	if len(ratings) > 0 {
		summary.AverageRating = float64(sum) / float64(len(ratings))
	}
	if summary.Total > 0 {
		summary.CompletionRate = float64(byStatus[StatusApproved]) / float64(summary.Total)
	}
	return summary
}
