// Package calculations derives rate and share columns from raw counts.
//
// Every function treats a missing input as missing output. Nothing here ever
// produces NaN or Inf: a zero or absent denominator yields a suppressed cell.
package calculations

import (
	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/floats"

	"hetracker/domain/dataset"
	"hetracker/domain/demographic"
)

func round(x float64, places int) float64 {
	r, err := stats.Round(x, places)
	if err != nil {
		return x
	}
	return r
}

func ratio(numerator, denominator dataset.Value) (float64, bool) {
	n, ok := numerator.Float()
	if !ok {
		return 0, false
	}
	d, ok := denominator.Float()
	if !ok || d == 0 {
		return 0, false
	}
	return n / d, true
}

// Per100k returns count per 100,000 population rounded to a whole number
func Per100k(count, population dataset.Value) dataset.Value {
	r, ok := ratio(count, population)
	if !ok {
		return dataset.Suppressed()
	}
	return dataset.Num(round(r*100000, 0))
}

// Percent returns numerator as a percentage of denominator with one decimal
func Percent(numerator, denominator dataset.Value) dataset.Value {
	r, ok := ratio(numerator, denominator)
	if !ok {
		return dataset.Suppressed()
	}
	return dataset.Num(round(r*100, 1))
}

// CalculatePctShare writes each row's share of its partition total for
// valueCol into outputCol. The partition total is the value of the "All"
// row when the partition has one, otherwise the sum of member values.
// Members with no value get a suppressed share.
func CalculatePctShare(rows []dataset.Row, valueCol, outputCol, groupCol string, partitionCols []string) []dataset.Row {
	out := dataset.CopyRows(rows)
	for _, g := range dataset.GroupBy(out, partitionCols) {
		total := partitionTotal(out, g.Indices, valueCol, groupCol)
		for _, i := range g.Indices {
			out[i][outputCol] = Percent(out[i].Get(valueCol), total)
		}
	}
	return out
}

// CalculatePctShareOfKnown is CalculatePctShare with the total restricted to
// known groups. The "All" row gets the share of the known total and rows for
// unknown groups get a suppressed share. Rows are partitioned by fips, and by
// time period when the rows carry one.
func CalculatePctShareOfKnown(rows []dataset.Row, valueCol, outputCol, groupCol string) []dataset.Row {
	out := dataset.CopyRows(rows)
	for _, g := range dataset.GroupBy(out, PartitionColumns(out)) {
		known := knownTotal(out, g.Indices, valueCol, groupCol)
		for _, i := range g.Indices {
			group := out[i].Text(groupCol)
			switch {
			case demographic.IsUnknown(group):
				out[i][outputCol] = dataset.Suppressed()
			case demographic.IsAll(group):
				out[i][outputCol] = Percent(known, known)
			default:
				out[i][outputCol] = Percent(out[i].Get(valueCol), known)
			}
		}
	}
	return out
}

// PartitionColumns returns fips, plus time_period when any row has it
func PartitionColumns(rows []dataset.Row) []string {
	cols := []string{demographic.FipsCol}
	for _, r := range rows {
		if r.Has(demographic.TimePeriodCol) {
			return append(cols, demographic.TimePeriodCol)
		}
	}
	return cols
}

func partitionTotal(rows []dataset.Row, indices []int, valueCol, groupCol string) dataset.Value {
	var values []float64
	for _, i := range indices {
		group := rows[i].Text(groupCol)
		if demographic.IsAll(group) {
			return rows[i].Get(valueCol)
		}
		if f, ok := rows[i].Float(valueCol); ok {
			values = append(values, f)
		}
	}
	if len(values) == 0 {
		return dataset.Suppressed()
	}
	return dataset.Num(floats.Sum(values))
}

func knownTotal(rows []dataset.Row, indices []int, valueCol, groupCol string) dataset.Value {
	var values []float64
	for _, i := range indices {
		group := rows[i].Text(groupCol)
		if demographic.IsAll(group) || demographic.IsUnknown(group) {
			continue
		}
		if f, ok := rows[i].Float(valueCol); ok {
			values = append(values, f)
		}
	}
	if len(values) == 0 {
		return dataset.Suppressed()
	}
	return dataset.Num(floats.Sum(values))
}

// Rescale multiplies a value by factor and rounds to places decimals
func Rescale(v dataset.Value, factor float64, places int) dataset.Value {
	f, ok := v.Float()
	if !ok {
		return dataset.Suppressed()
	}
	return dataset.Num(round(f*factor, places))
}
