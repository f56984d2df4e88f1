package shared

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

const (
	DefaultLimit = 50
	MaxLimit     = 200
)

type Pagination struct {
	Limit  int
	Offset int
}

// Page reads limit and offset for list endpoints. Missing, malformed or negative values
// fall back to the defaults, and limit never exceeds MaxLimit.
func Page(r *http.Request) Pagination {
	q := r.URL.Query()
	return Pagination{
		Limit:  min(queryInt(q, "limit", DefaultLimit, 1), MaxLimit),
		Offset: queryInt(q, "offset", 0, 0),
	}
}

func queryInt(q url.Values, key string, fallback, floor int) int {
	v, err := strconv.Atoi(strings.TrimSpace(q.Get(key)))
	if err != nil || v < floor {
		return fallback
	}
	return v
}
