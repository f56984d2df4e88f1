package shared

import (
	"strconv"
	"strings"
)

// Where accumulates AND-ed conditions with positional arguments.
type Where struct {
	conds []string
	Args  []any
}

// Add appends "column = $n" for the next argument position.
func (w *Where) Add(column string, arg any) {
	w.Args = append(w.Args, arg)
	w.conds = append(w.conds, column+" = $"+strconv.Itoa(len(w.Args)))
}

func (w *Where) String() string {
	if len(w.conds) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(w.conds, " AND ")
}

// Page appends LIMIT and OFFSET placeholders and returns the clause.
func (w *Where) Page(limit, offset int) string {
	w.Args = append(w.Args, limit, offset)
	n := len(w.Args)
	return " LIMIT $" + strconv.Itoa(n-1) + " OFFSET $" + strconv.Itoa(n)
}
