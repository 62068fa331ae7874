// Package filter renders structured metadata comparisons into the filter
// string the File Search API expects, e.g. `author="Jane Austen" AND year=1813`.
package filter

import (
	"fmt"
	"strconv"
	"strings"
)

// Operator is a comparison operator in a filter clause.
type Operator string

// Supported comparison operators.
const (
	Equals             Operator = "equals"
	NotEquals          Operator = "not-equals"
	GreaterThan        Operator = "greater-than"
	GreaterThanOrEqual Operator = "greater-than-or-equal"
	LessThan           Operator = "less-than"
	LessThanOrEqual    Operator = "less-than-or-equal"
)

var symbols = map[Operator]string{
	Equals:             "=",
	NotEquals:          "!=",
	GreaterThan:        ">",
	GreaterThanOrEqual: ">=",
	LessThan:           "<",
	LessThanOrEqual:    "<=",
}

var ordered = []Operator{
	Equals, NotEquals, GreaterThan, GreaterThanOrEqual, LessThan, LessThanOrEqual,
}

// Operators returns the supported operators in a stable order, for UI cycling.
func Operators() []Operator {
	out := make([]Operator, len(ordered))
	copy(out, ordered)
	return out
}

// Symbol returns the rendered comparison symbol for the operator.
func (o Operator) Symbol() (string, bool) {
	s, ok := symbols[o]
	return s, ok
}

// Clause is one attribute comparison. Value may be a string or a number;
// anything else is rendered through fmt and treated as a string.
type Clause struct {
	Attribute string
	Operator  Operator
	Value     any
}

// InvalidOperatorError reports a clause whose operator is not recognized.
type InvalidOperatorError struct {
	Index    int
	Operator Operator
}

func (e *InvalidOperatorError) Error() string {
	return fmt.Sprintf("invalid operator %q in clause %d", string(e.Operator), e.Index)
}

// Build renders the clauses into a single filter expression joined by AND,
// preserving order. Clauses with an empty attribute name are skipped.
// String values are wrapped in double quotes and passed through verbatim —
// the external grammar defines no escaping for embedded quotes, so none is
// applied here. Numeric values are rendered bare. Returns "" when no clause
// survives, which callers treat as "no filter".
func Build(clauses []Clause) (string, error) {
	parts := make([]string, 0, len(clauses))
	for i, c := range clauses {
		if c.Attribute == "" {
			continue
		}
		sym, ok := c.Operator.Symbol()
		if !ok {
			return "", &InvalidOperatorError{Index: i, Operator: c.Operator}
		}
		parts = append(parts, c.Attribute+sym+renderValue(c.Value))
	}
	return strings.Join(parts, " AND "), nil
}

// Parse reads one clause from its compact text form, e.g. `author=Jane Austen`
// or `year>=1800`. The first comparison symbol splits the clause; quoting the
// value is unnecessary. Numeric-looking values become numbers; quoted values
// stay strings.
func Parse(s string) (Clause, error) {
	// Two-character symbols must be tried before their one-character prefixes.
	candidates := []Operator{NotEquals, GreaterThanOrEqual, LessThanOrEqual, GreaterThan, LessThan, Equals}

	best := -1
	var bestOp Operator
	for _, op := range candidates {
		sym, _ := op.Symbol()
		idx := strings.Index(s, sym)
		if idx <= 0 {
			continue
		}
		if best == -1 || idx < best || (idx == best && len(sym) > 1) {
			best = idx
			bestOp = op
		}
	}
	if best == -1 {
		return Clause{}, fmt.Errorf("no comparison operator in %q (expected e.g. author=value)", s)
	}

	sym, _ := bestOp.Symbol()
	attr := strings.TrimSpace(s[:best])
	raw := strings.TrimSpace(s[best+len(sym):])
	if attr == "" {
		return Clause{}, fmt.Errorf("missing attribute in %q", s)
	}

	var value any = raw
	if len(raw) >= 2 && raw[0] == '"' && raw[len(raw)-1] == '"' {
		value = raw[1 : len(raw)-1]
	} else if n, err := strconv.Atoi(raw); err == nil {
		value = n
	} else if f, err := strconv.ParseFloat(raw, 64); err == nil {
		value = f
	}
	return Clause{Attribute: attr, Operator: bestOp, Value: value}, nil
}

func renderValue(v any) string {
	switch val := v.(type) {
	case string:
		return `"` + val + `"`
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(val), 'f', -1, 32)
	default:
		return `"` + fmt.Sprint(val) + `"`
	}
}
