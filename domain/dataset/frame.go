package dataset

import (
	"strings"
)

// Grouped and joined operations over row slices. Every helper returns new
// rows and leaves its input untouched.

// Where keeps rows matching pred
func Where(rows []Row, pred func(Row) bool) []Row {
	out := make([]Row, 0, len(rows))
	for _, r := range rows {
		if pred(r) {
			out = append(out, r)
		}
	}
	return out
}

// Map applies fn to a copy of every row
func Map(rows []Row, fn func(Row) Row) []Row {
	out := make([]Row, len(rows))
	for i, r := range rows {
		out[i] = fn(r.Copy())
	}
	return out
}

// RenameColumns renames columns per mapping (old -> new). Missing columns are skipped.
func RenameColumns(rows []Row, mapping map[string]string) []Row {
	return Map(rows, func(r Row) Row {
		for from, to := range mapping {
			if v, ok := r[from]; ok {
				delete(r, from)
				r[to] = v
			}
		}
		return r
	})
}

// DropColumns removes the named columns
func DropColumns(rows []Row, cols ...string) []Row {
	return Map(rows, func(r Row) Row {
		for _, c := range cols {
			delete(r, c)
		}
		return r
	})
}

// Project keeps exactly cols in every row. Columns a row lacks are written
// as not applicable so every output row carries the same column set.
func Project(rows []Row, cols []string) []Row {
	out := make([]Row, len(rows))
	for i, r := range rows {
		p := make(Row, len(cols))
		for _, c := range cols {
			p[c] = r[c]
		}
		out[i] = p
	}
	return out
}

// Concat appends row slices into a new slice
func Concat(parts ...[]Row) []Row {
	n := 0
	for _, p := range parts {
		n += len(p)
	}
	out := make([]Row, 0, n)
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}

// Key builds the composite key of cols for r
func Key(r Row, cols []string) string {
	if len(cols) == 1 {
		return r.Text(cols[0])
	}
	parts := make([]string, len(cols))
	for i, c := range cols {
		parts[i] = r.Text(c)
	}
	return strings.Join(parts, "\x1f")
}

// Group is one partition of rows sharing the same key values
type Group struct {
	Key     string
	Indices []int
}

// GroupBy partitions rows by cols preserving first-seen key order. The
// indices point into the input slice so callers can write results back.
func GroupBy(rows []Row, cols []string) []Group {
	index := make(map[string]int)
	var groups []Group
	for i, r := range rows {
		k := Key(r, cols)
		gi, ok := index[k]
		if !ok {
			gi = len(groups)
			index[k] = gi
			groups = append(groups, Group{Key: k})
		}
		groups[gi].Indices = append(groups[gi].Indices, i)
	}
	return groups
}

// Distinct returns the distinct text values of col in first-seen order
func Distinct(rows []Row, col string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, r := range rows {
		v := r.Text(col)
		if seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}

// LeftJoin joins right onto left by the key columns. Every left row is kept
// in order; when a right row matches, its non-key columns are copied over.
// Unmatched left rows get fill for each right column, so a missing
// denominator stays suppressed rather than disappearing.
func LeftJoin(left, right []Row, on []string, fill Value) []Row {
	rightCols := make(map[string]bool)
	lookup := make(map[string]Row, len(right))
	for _, r := range right {
		k := Key(r, on)
		if _, dup := lookup[k]; !dup {
			lookup[k] = r
		}
		for c := range r {
			rightCols[c] = true
		}
	}
	for _, c := range on {
		delete(rightCols, c)
	}

	out := make([]Row, len(left))
	for i, l := range left {
		joined := l.Copy()
		match, ok := lookup[Key(l, on)]
		for c := range rightCols {
			if ok {
				joined[c] = match[c]
			} else if _, exists := joined[c]; !exists {
				joined[c] = fill
			}
		}
		out[i] = joined
	}
	return out
}

// PivotSum collapses rows sharing groupCols into one row per group. Sum
// columns are totalled over numeric cells; a group with no numeric cell in
// a column gets a suppressed total. Constant columns are set on every output
// row and other columns are dropped.
func PivotSum(rows []Row, groupCols, sumCols []string, constants Row) []Row {
	groups := GroupBy(rows, groupCols)
	out := make([]Row, 0, len(groups))
	for _, g := range groups {
		first := rows[g.Indices[0]]
		pivot := make(Row, len(groupCols)+len(sumCols)+len(constants))
		for _, c := range groupCols {
			pivot[c] = first[c]
		}
		for _, c := range sumCols {
			total, any := 0.0, false
			for _, i := range g.Indices {
				if f, ok := rows[i].Float(c); ok {
					total += f
					any = true
				}
			}
			if any {
				pivot[c] = Num(total)
			} else {
				pivot[c] = Suppressed()
			}
		}
		for c, v := range constants {
			pivot[c] = v
		}
		out = append(out, pivot)
	}
	return out
}
