package backend

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
)

// SQLSource queries tables directly over a PostgreSQL connection.
type SQLSource struct {
	db *sqlx.DB
}

// NewSQLSource wraps an open connection.
func NewSQLSource(db *sqlx.DB) *SQLSource {
	return &SQLSource{db: db}
}

// Select runs q and scans the rows into dest. Single queries return sql.ErrNoRows when nothing matches.
func (s *SQLSource) Select(ctx context.Context, q Query, dest interface{}) error {
	if err := q.Validate(); err != nil {
		return err
	}
	query, args := buildSQL(q)
	if q.Single {
		if err := s.db.GetContext(ctx, dest, query, args...); err != nil {
			return err
		}
		return nil
	}
	if err := s.db.SelectContext(ctx, dest, query, args...); err != nil {
		return fmt.Errorf("select %s: %w", q.Table, err)
	}
	return nil
}

func buildSQL(q Query) (string, []interface{}) {
	columns := "*"
	if len(q.Columns) > 0 {
		columns = strings.Join(q.Columns, ", ")
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "SELECT %s FROM %s", columns, q.Table)

	args := make([]interface{}, 0, len(q.Filters))
	if len(q.Filters) > 0 {
		conditions := make([]string, 0, len(q.Filters))
		for _, f := range q.Filters {
			args = append(args, f.Value)
			conditions = append(conditions, fmt.Sprintf("%s = $%d", f.Column, len(args)))
		}
		sb.WriteString(" WHERE ")
		sb.WriteString(strings.Join(conditions, " AND "))
	}

	if len(q.OrderBy) > 0 {
		keys := make([]string, 0, len(q.OrderBy))
		for _, o := range q.OrderBy {
			dir := "ASC"
			if o.Descending {
				dir = "DESC"
			}
			keys = append(keys, o.Column+" "+dir)
		}
		sb.WriteString(" ORDER BY ")
		sb.WriteString(strings.Join(keys, ", "))
	}
	if q.Single {
		sb.WriteString(" LIMIT 1")
	}
	return sb.String(), args
}
