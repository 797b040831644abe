package repository

import (
	"fmt"

	"github.com/uptrace/bun"
)

// SelectCriteria mutates a select query before it runs. Criteria compose: the
// repository applies each one in order via q.Apply.
type SelectCriteria func(*bun.SelectQuery) *bun.SelectQuery

// SelectByID scopes the query to a single primary key.
func SelectByID(id string) SelectCriteria {
	return func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.Where("?TableAlias.id = ?", id)
	}
}

// SelectBy scopes the query to rows whose column equals value. The column must
// be one of the entity's declared columns; callers pass constants, never user
// input.
func SelectBy(column string, value any) SelectCriteria {
	return func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.Where(fmt.Sprintf("?TableAlias.%s = ?", column), value)
	}
}

// Include eager-loads the named bun relations.
func Include(relations ...string) SelectCriteria {
	return func(q *bun.SelectQuery) *bun.SelectQuery {
		for _, rel := range relations {
			q = q.Relation(rel)
		}
		return q
	}
}

// Paginate windows the result set. Negative values are treated as zero; a zero
// limit means no limit.
func Paginate(offset, limit int) SelectCriteria {
	return func(q *bun.SelectQuery) *bun.SelectQuery {
		if offset > 0 {
			q = q.Offset(offset)
		}
		if limit > 0 {
			q = q.Limit(limit)
		}
		return q
	}
}

// OrderBy appends an ORDER BY expression, e.g. "position ASC".
func OrderBy(expr string) SelectCriteria {
	return func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.OrderExpr(expr)
	}
}
