package store

import "fmt"

// Criteria is an immutable predicate over a record kind. Build renders a
// parameterized SQL fragment plus the values bound to its placeholders.
// The number of values always equals the number of `?` in the fragment,
// in left-to-right order, which positional binding depends on.
type Criteria interface {
	Build() (fragment string, args []any)
}

// Equals matches rows whose field equals the given value.
func Equals(field string, value any) Criteria {
	return equalsCriteria{field: field, value: value}
}

// Contains matches rows whose field contains the substring. The substring
// is bound as `%substring%`; literal `%` and `_` are not escaped, so
// wildcard characters in the substring leak through to LIKE.
func Contains(field, substring string) Criteria {
	return containsCriteria{field: field, substring: substring}
}

// And matches rows satisfying both criteria.
func And(left, right Criteria) Criteria {
	return binaryCriteria{op: "and", left: left, right: right}
}

// Or matches rows satisfying either criteria.
func Or(left, right Criteria) Criteria {
	return binaryCriteria{op: "or", left: left, right: right}
}

type equalsCriteria struct {
	field string
	value any
}

func (c equalsCriteria) Build() (string, []any) {
	return fmt.Sprintf("%s = ?", c.field), []any{c.value}
}

type containsCriteria struct {
	field     string
	substring string
}

func (c containsCriteria) Build() (string, []any) {
	return fmt.Sprintf("%s LIKE ?", c.field), []any{"%" + c.substring + "%"}
}

type binaryCriteria struct {
	op          string
	left, right Criteria
}

func (c binaryCriteria) Build() (string, []any) {
	lq, lv := c.left.Build()
	rq, rv := c.right.Build()
	args := make([]any, 0, len(lv)+len(rv))
	args = append(args, lv...)
	args = append(args, rv...)
	return fmt.Sprintf("((%s) %s (%s))", lq, c.op, rq), args
}
