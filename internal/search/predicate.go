package search

import (
	"fmt"
	"strings"
	"time"

	"github.com/pstuifzand/listview/internal/model"
	"github.com/pstuifzand/listview/internal/projection"
)

// Predicate adapts a filter expression to the projection filter chain
func Predicate(expr FilterExpr) projection.Predicate {
	return func(item *model.Item) (bool, error) {
		return expr.Matches(item), nil
	}
}

// CompilePredicate parses query into a projection predicate
func CompilePredicate(query string) (projection.Predicate, error) {
	expr, err := ParseQuery(query)
	if err != nil {
		return nil, fmt.Errorf("parse query %q: %w", query, err)
	}
	return Predicate(expr), nil
}

// ParseSort parses a comma separated list of fields into comparators.
// A leading '-' sorts that field descending. Dates compare chronologically
// when both values parse, everything else compares case-insensitively.
func ParseSort(spec string) ([]projection.Comparator, error) {
	var out []projection.Comparator
	for _, part := range strings.Split(spec, ",") {
		field := strings.TrimSpace(part)
		if field == "" {
			continue
		}
		desc := strings.HasPrefix(field, "-")
		field = strings.TrimPrefix(field, "-")
		if field == "" {
			return nil, fmt.Errorf("empty sort field in %q", spec)
		}
		out = append(out, fieldComparator(field, desc))
	}
	return out, nil
}

func fieldComparator(field string, desc bool) projection.Comparator {
	return func(a, b *model.Item) int {
		r := compareField(a, b, field)
		if desc {
			return -r
		}
		return r
	}
}

func compareField(a, b *model.Item, field string) int {
	switch field {
	case "created", "modified":
		return itemTime(a, field).Compare(itemTime(b, field))
	}
	va, oka := a.Field(field)
	vb, okb := b.Field(field)
	switch {
	case !oka && !okb:
		return 0
	case !oka:
		return 1
	case !okb:
		return -1
	}
	if ta, tb := parseDate(va), parseDate(vb); !ta.IsZero() && !tb.IsZero() {
		return ta.Compare(tb)
	}
	return strings.Compare(strings.ToLower(va), strings.ToLower(vb))
}

func itemTime(item *model.Item, field string) time.Time {
	if item.Metadata == nil {
		return time.Time{}
	}
	if field == "modified" {
		return item.Metadata.Modified
	}
	return item.Metadata.Created
}
