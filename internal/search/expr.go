// Package search compiles query strings into filter predicates and sort
// specifications for a projection.
package search

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/pstuifzand/listview/internal/model"
)

// FilterExpr represents a filter expression that can match items
type FilterExpr interface {
	Matches(item *model.Item) bool
	String() string
}

// ComparisonOp represents comparison operators
type ComparisonOp string

const (
	OpEqual        ComparisonOp = "="
	OpNotEqual     ComparisonOp = "!="
	OpGreater      ComparisonOp = ">"
	OpGreaterEqual ComparisonOp = ">="
	OpLess         ComparisonOp = "<"
	OpLessEqual    ComparisonOp = "<="
)

// TextExpr matches items whose text contains the term (case-insensitive)
type TextExpr struct {
	term string
}

func NewTextExpr(term string) *TextExpr {
	return &TextExpr{term: strings.ToLower(term)}
}

func (e *TextExpr) Matches(item *model.Item) bool {
	return strings.Contains(strings.ToLower(item.Text), e.term)
}

func (e *TextExpr) String() string {
	return fmt.Sprintf("text(%q)", e.term)
}

// FuzzyExpr matches items whose text fuzzy-matches the term
type FuzzyExpr struct {
	term string
}

func NewFuzzyExpr(term string) *FuzzyExpr {
	return &FuzzyExpr{term: term}
}

func (e *FuzzyExpr) Matches(item *model.Item) bool {
	return fuzzy.MatchFold(e.term, item.Text)
}

func (e *FuzzyExpr) String() string {
	return fmt.Sprintf("fuzzy(%q)", e.term)
}

// RegexExpr matches items whose text matches a regular expression
type RegexExpr struct {
	pattern string
	re      *regexp.Regexp
}

func NewRegexExpr(pattern string) (*RegexExpr, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("invalid regex pattern: %w", err)
	}
	return &RegexExpr{pattern: pattern, re: re}, nil
}

func (e *RegexExpr) Matches(item *model.Item) bool {
	return e.re.MatchString(item.Text)
}

func (e *RegexExpr) String() string {
	return fmt.Sprintf("regex(/%s/)", e.pattern)
}

// AlwaysMatchExpr matches all items (empty queries)
type AlwaysMatchExpr struct{}

func (AlwaysMatchExpr) Matches(*model.Item) bool { return true }
func (AlwaysMatchExpr) String() string           { return "always-match" }

// AndExpr matches if both sides match
type AndExpr struct {
	left, right FilterExpr
}

func NewAndExpr(left, right FilterExpr) *AndExpr {
	return &AndExpr{left: left, right: right}
}

func (e *AndExpr) Matches(item *model.Item) bool {
	return e.left.Matches(item) && e.right.Matches(item)
}

func (e *AndExpr) String() string {
	return fmt.Sprintf("(and %s %s)", e.left, e.right)
}

// OrExpr matches if either side matches
type OrExpr struct {
	left, right FilterExpr
}

func NewOrExpr(left, right FilterExpr) *OrExpr {
	return &OrExpr{left: left, right: right}
}

func (e *OrExpr) Matches(item *model.Item) bool {
	return e.left.Matches(item) || e.right.Matches(item)
}

func (e *OrExpr) String() string {
	return fmt.Sprintf("(or %s %s)", e.left, e.right)
}

// NotExpr inverts the wrapped expression
type NotExpr struct {
	expr FilterExpr
}

func NewNotExpr(expr FilterExpr) *NotExpr {
	return &NotExpr{expr: expr}
}

func (e *NotExpr) Matches(item *model.Item) bool {
	return !e.expr.Matches(item)
}

func (e *NotExpr) String() string {
	return fmt.Sprintf("(not %s)", e.expr)
}

// FieldExpr compares a named field. Without an operator it checks presence.
type FieldExpr struct {
	field string
	op    ComparisonOp
	value string
}

func NewFieldExpr(field string, op ComparisonOp, value string) *FieldExpr {
	return &FieldExpr{field: field, op: op, value: value}
}

func (e *FieldExpr) Matches(item *model.Item) bool {
	v, ok := item.Field(e.field)
	switch e.op {
	case "":
		return ok
	case OpEqual:
		return ok && strings.EqualFold(v, e.value)
	case OpNotEqual:
		return !ok || !strings.EqualFold(v, e.value)
	}
	if !ok {
		return false
	}
	// Ordered comparisons: dates when both sides parse, strings otherwise.
	if a, b := parseDate(v), parseDate(e.value); !a.IsZero() && !b.IsZero() {
		return compareTimes(a, e.op, b)
	}
	return compareInts(strings.Compare(v, e.value), e.op, 0)
}

func (e *FieldExpr) String() string {
	return fmt.Sprintf("field(%s%s%s)", e.field, e.op, e.value)
}

// TagExpr matches items carrying a tag
type TagExpr struct {
	tag string
}

func NewTagExpr(tag string) *TagExpr {
	return &TagExpr{tag: tag}
}

func (e *TagExpr) Matches(item *model.Item) bool {
	return item.HasTag(e.tag)
}

func (e *TagExpr) String() string {
	return fmt.Sprintf("tag(%s)", e.tag)
}

// KindExpr matches nodes or leaves
type KindExpr struct {
	node bool
}

func NewKindExpr(kind string) (*KindExpr, error) {
	switch kind {
	case "node":
		return &KindExpr{node: true}, nil
	case "leaf":
		return &KindExpr{}, nil
	}
	return nil, fmt.Errorf("unknown item kind: %s", kind)
}

func (e *KindExpr) Matches(item *model.Item) bool {
	return item.Node == e.node
}

func (e *KindExpr) String() string {
	if e.node {
		return "is(node)"
	}
	return "is(leaf)"
}

// DateFilter matches items by creation or modification date
type DateFilter struct {
	modified bool
	op       ComparisonOp
	value    string
}

func NewDateFilter(modified bool, op ComparisonOp, value string) (*DateFilter, error) {
	if !isValidDateValue(value) {
		return nil, fmt.Errorf("invalid date value: %s", value)
	}
	return &DateFilter{modified: modified, op: op, value: value}, nil
}

func (e *DateFilter) Matches(item *model.Item) bool {
	if item.Metadata == nil {
		return false
	}
	target := item.Metadata.Created
	if e.modified {
		target = item.Metadata.Modified
	}
	if target.IsZero() {
		return false
	}
	ref := parseDate(e.value)
	if ref.IsZero() {
		return false
	}
	return compareTimes(target, e.op, ref)
}

func (e *DateFilter) String() string {
	name := "created"
	if e.modified {
		name = "modified"
	}
	return fmt.Sprintf("%s(%s%s)", name, e.op, e.value)
}

func compareInts(a int, op ComparisonOp, b int) bool {
	switch op {
	case OpGreater:
		return a > b
	case OpGreaterEqual:
		return a >= b
	case OpLess:
		return a < b
	case OpLessEqual:
		return a <= b
	case OpEqual:
		return a == b
	case OpNotEqual:
		return a != b
	}
	return false
}

// compareTimes compares ordered operators exactly and equality by day
func compareTimes(a time.Time, op ComparisonOp, b time.Time) bool {
	switch op {
	case OpEqual:
		return a.Format("2006-01-02") == b.Format("2006-01-02")
	case OpNotEqual:
		return a.Format("2006-01-02") != b.Format("2006-01-02")
	}
	return compareInts(a.Compare(b), op, 0)
}

func isTimeUnit(s string) bool {
	switch s {
	case "h", "d", "w", "m", "y":
		return true
	}
	return false
}

// isValidDateValue accepts YYYY-MM-DD and relative values like -7d, +1w, 3m
func isValidDateValue(value string) bool {
	if len(value) < 2 {
		return false
	}
	if isTimeUnit(value[len(value)-1:]) {
		var amount int
		body := strings.TrimLeft(value[:len(value)-1], "+-")
		_, err := fmt.Sscanf(body, "%d", &amount)
		return err == nil
	}
	_, err := time.Parse("2006-01-02", value)
	return err == nil
}

// parseDate parses an absolute or relative date. Unsigned relative values
// mean "ago". The zero time is returned for anything else.
func parseDate(value string) time.Time {
	if len(value) < 2 {
		return time.Time{}
	}
	now := time.Now()
	unit := value[len(value)-1:]
	if isTimeUnit(unit) {
		body := value[:len(value)-1]
		sign := -1
		switch {
		case strings.HasPrefix(body, "+"):
			sign, body = 1, body[1:]
		case strings.HasPrefix(body, "-"):
			body = body[1:]
		}
		var amount int
		if _, err := fmt.Sscanf(body, "%d", &amount); err == nil {
			n := sign * amount
			switch unit {
			case "h":
				return now.Add(time.Duration(n) * time.Hour)
			case "d":
				return now.AddDate(0, 0, n)
			case "w":
				return now.AddDate(0, 0, 7*n)
			case "m":
				return now.AddDate(0, n, 0)
			case "y":
				return now.AddDate(n, 0, 0)
			}
		}
	}
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		return time.Time{}
	}
	return t
}
