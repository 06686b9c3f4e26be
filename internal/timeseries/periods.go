// Package timeseries reshapes flat per-period rows into per-group series
// for trend charts.
package timeseries

import (
	"sort"
	"strconv"
	"time"

	"hetracker/domain/dataset"
	"hetracker/domain/demographic"
)

const (
	yearlyWidth  = 4
	monthlyWidth = 7

	monthLayout = "2006-01"
)

// Periods returns the distinct time periods of rows in row order
func Periods(rows []dataset.Row) []string {
	var out []string
	for _, p := range dataset.Distinct(rows, demographic.TimePeriodCol) {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// GenerateConsecutivePeriods lists every period from the earliest to the
// latest period in rows, inclusive
func GenerateConsecutivePeriods(rows []dataset.Row) []string {
	return ConsecutivePeriods(Periods(rows))
}

// ConsecutivePeriods enumerates every period between the min and max of
// periods. Granularity comes from the shortest period: four characters is
// yearly, seven ("YYYY-MM") is monthly. Anything else yields nothing.
func ConsecutivePeriods(periods []string) []string {
	if len(periods) == 0 {
		return nil
	}
	sorted := append([]string(nil), periods...)
	sort.Strings(sorted)
	first, last := sorted[0], sorted[len(sorted)-1]

	width := len(first)
	for _, p := range sorted {
		if len(p) < width {
			width = len(p)
		}
	}

	switch width {
	case yearlyWidth:
		return consecutiveYears(first, last)
	case monthlyWidth:
		return consecutiveMonths(first, last)
	}
	return nil
}

func consecutiveYears(first, last string) []string {
	if len(last) < yearlyWidth {
		return nil
	}
	start, err := strconv.Atoi(first[:yearlyWidth])
	if err != nil {
		return nil
	}
	end, err := strconv.Atoi(last[:yearlyWidth])
	if err != nil {
		return nil
	}
	out := make([]string, 0, end-start+1)
	for y := start; y <= end; y++ {
		out = append(out, strconv.Itoa(y))
	}
	return out
}

func consecutiveMonths(first, last string) []string {
	start, err := time.Parse(monthLayout, first[:monthlyWidth])
	if err != nil {
		return nil
	}
	end, err := time.Parse(monthLayout, last[:monthlyWidth])
	if err != nil {
		return nil
	}
	var out []string
	for m := start; !m.After(end); m = m.AddDate(0, 1, 0) {
		out = append(out, m.Format(monthLayout))
	}
	return out
}

// InterpolateTimePeriods returns one row per consecutive period. Periods
// with no row get a placeholder holding only the period, so every metric in
// it reads as not applicable.
func InterpolateTimePeriods(rows []dataset.Row) []dataset.Row {
	periods := GenerateConsecutivePeriods(rows)
	byPeriod := make(map[string]dataset.Row, len(rows))
	for _, r := range rows {
		p := r.Text(demographic.TimePeriodCol)
		if _, dup := byPeriod[p]; !dup {
			byPeriod[p] = r
		}
	}
	out := make([]dataset.Row, 0, len(periods))
	for _, p := range periods {
		if r, ok := byPeriod[p]; ok {
			out = append(out, r)
			continue
		}
		out = append(out, dataset.Row{demographic.TimePeriodCol: dataset.Str(p)})
	}
	return out
}
