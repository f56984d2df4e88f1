package leave

import (
	"time"

	"github.com/pkg/errors"
)

var ErrEndBeforeStart = errors.New("end date before start date")

const day = 24 * time.Hour

// CalculateDays counts calendar days from start to end inclusive, ignoring time of day.
func CalculateDays(start, end time.Time) (int, error) {
	from, to := dateOf(start), dateOf(end)
	if to.Before(from) {
		return 0, ErrEndBeforeStart
	}
	return int(to.Sub(from)/day) + 1, nil
}

// NoticeDays is the number of whole days between the request and the first day off, never negative.
func NoticeDays(requested, start time.Time) int {
	return max(int(dateOf(start).Sub(dateOf(requested))/day), 0)
}

func dateOf(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
