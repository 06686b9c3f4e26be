package query

import (
	"strings"

	"hetracker/domain/demographic"
)

// Filter selects which demographic group values a query keeps
type Filter struct {
	include bool
	values  []string
}

// IncludeAll keeps every group
func IncludeAll() Filter {
	return Filter{include: false}
}

// Exclude drops groups equal to any of values
func Exclude(values ...string) Filter {
	return Filter{include: false, values: append([]string(nil), values...)}
}

// ExcludeAll drops the "All" aggregate so only subgroups are returned
func ExcludeAll() Filter {
	return Exclude(demographic.All)
}

// OnlyInclude keeps only the listed groups
func OnlyInclude(values ...string) Filter {
	return Filter{include: true, values: append([]string(nil), values...)}
}

// Allows reports whether a row with this group value survives the filter
func (f Filter) Allows(group string) bool {
	for _, v := range f.values {
		if v == group {
			return f.include
		}
	}
	return !f.include
}

// Values returns a copy of the filter values
func (f Filter) Values() []string {
	return append([]string(nil), f.values...)
}

// IsInclude is true for OnlyInclude filters
func (f Filter) IsInclude() bool { return f.include }

func (f Filter) String() string {
	if !f.include && len(f.values) == 0 {
		return "all"
	}
	verb := "exclude"
	if f.include {
		verb = "only"
	}
	return verb + "(" + strings.Join(f.values, ",") + ")"
}
