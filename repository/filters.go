package repository

import (
	"fmt"

	"github.com/uptrace/bun"
)

// Filter is a tagged constraint descriptor. A filter either targets a column
// of the base entity or a column reached through a declared relation. Filters
// with a nil value are skipped, as are filters naming relations or columns the
// entity does not declare; a caller passing request parameters straight
// through gets narrowing for the declared ones and no errors for the rest.
type Filter struct {
	// Relation is empty for direct column filters.
	Relation string
	Column   string
	Value    any
}

// Field builds a filter on a column of the base entity.
func Field(column string, value any) Filter {
	return Filter{Column: column, Value: value}
}

// Related builds a filter on a column of a declared relation. The relation
// name matches case-insensitively.
func Related(relation, column string, value any) Filter {
	return Filter{Relation: relation, Column: column, Value: value}
}

// applyFilters translates the declared subset of filters into WHERE clauses,
// joining related tables as needed. String values match as case-insensitive
// substrings; every other type matches by equality.
func applyFilters[T any](q *bun.SelectQuery, handlers ModelHandlers[T], filters []Filter) *bun.SelectQuery {
	joined := map[string]bool{}

	for _, f := range filters {
		if f.Value == nil || f.Column == "" {
			continue
		}

		if f.Relation == "" {
			if !handlers.HasColumn(f.Column) {
				continue
			}
			q = whereMatch(q, "?TableAlias."+f.Column, f.Value)
			continue
		}

		rel, ok := handlers.RelationNamed(f.Relation)
		if !ok || !rel.HasColumn(f.Column) {
			continue
		}

		if !joined[rel.Name] {
			q = joinRelation(q, rel)
			joined[rel.Name] = true
		}

		q = whereMatch(q, fmt.Sprintf("%s.%s", rel.Alias, f.Column), f.Value)
	}

	return q
}

func joinRelation(q *bun.SelectQuery, rel Relation) *bun.SelectQuery {
	if rel.Kind == RelationManyToMany {
		q = q.Join(fmt.Sprintf("JOIN %s AS %s ON %s", rel.JoinTable, rel.JoinTableAlias, rel.JoinTableOn))
	}
	return q.Join(fmt.Sprintf("JOIN %s AS %s ON %s", rel.Table, rel.Alias, rel.JoinOn))
}

// whereMatch embeds string values in a LIKE pattern, so "%" and "_" inside
// the value act as wildcards rather than literals.
func whereMatch(q *bun.SelectQuery, target string, value any) *bun.SelectQuery {
	if s, ok := value.(string); ok {
		return q.Where(fmt.Sprintf("LOWER(%s) LIKE LOWER(?)", target), "%"+s+"%")
	}
	return q.Where(fmt.Sprintf("%s = ?", target), value)
}
