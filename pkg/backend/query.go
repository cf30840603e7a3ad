package backend

import (
	"fmt"
	"regexp"
)

var identifierPattern = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)

// Filter is an equality predicate on a column.
type Filter struct {
	Column string
	Value  interface{}
}

// Ordering sorts the result set by a column.
type Ordering struct {
	Column     string
	Descending bool
}

// Query describes a read against one table.
type Query struct {
	Table   string
	Columns []string
	Filters []Filter
	OrderBy []Ordering
	Single  bool
}

// From starts a query against table selecting every column.
func From(table string) Query {
	return Query{Table: table}
}

// Select restricts the returned columns.
func (q Query) Select(columns ...string) Query {
	q.Columns = append([]string(nil), columns...)
	return q
}

// Eq adds an equality filter.
func (q Query) Eq(column string, value interface{}) Query {
	q.Filters = append(append([]Filter(nil), q.Filters...), Filter{Column: column, Value: value})
	return q
}

// Order appends a sort key.
func (q Query) Order(column string, descending bool) Query {
	q.OrderBy = append(append([]Ordering(nil), q.OrderBy...), Ordering{Column: column, Descending: descending})
	return q
}

// One expects exactly one row; zero rows yields sql.ErrNoRows.
func (q Query) One() Query {
	q.Single = true
	return q
}

// Validate rejects identifiers that are not plain lower-case names.
func (q Query) Validate() error {
	if !identifierPattern.MatchString(q.Table) {
		return fmt.Errorf("invalid table %q", q.Table)
	}
	for _, col := range q.Columns {
		if !identifierPattern.MatchString(col) {
			return fmt.Errorf("invalid column %q", col)
		}
	}
	for _, f := range q.Filters {
		if !identifierPattern.MatchString(f.Column) {
			return fmt.Errorf("invalid filter column %q", f.Column)
		}
	}
	for _, o := range q.OrderBy {
		if !identifierPattern.MatchString(o.Column) {
			return fmt.Errorf("invalid order column %q", o.Column)
		}
	}
	return nil
}
