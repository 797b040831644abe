package repository

import (
	"strings"

	"github.com/google/uuid"
)

// RelationKind tags how a declared relation is reached from the base table.
type RelationKind int

const (
	// RelationDirect joins the related table through a foreign key on either side.
	RelationDirect RelationKind = iota
	// RelationManyToMany joins through an association table.
	RelationManyToMany
)

// Relation declares a traversable association for an entity. Relations are
// enumerated at construction time; filters and eager loads only ever touch
// declared relations.
type Relation struct {
	// Name is the bun relation name, e.g. "Tiles" or "User".
	Name string
	Kind RelationKind
	// Table and Alias identify the related table in join clauses.
	Table string
	Alias string
	// JoinOn is the ON clause joining Table to the base table. The base table
	// is referenced as ?TableAlias, e.g. "usr.id = ?TableAlias.user_id".
	JoinOn string
	// JoinTable/JoinTableAlias/JoinTableOn describe the association table for
	// many-to-many relations. JoinTableOn references the base table as
	// ?TableAlias; JoinOn then joins Table to the association alias.
	JoinTable      string
	JoinTableAlias string
	JoinTableOn    string
	// Columns enumerates the filterable columns on the related table.
	Columns []string
	// Backref marks reverse relations that IncludeAll skips.
	Backref bool
}

// HasColumn reports whether the relation declares the given filterable column.
func (r Relation) HasColumn(column string) bool {
	for _, c := range r.Columns {
		if c == column {
			return true
		}
	}
	return false
}

// ModelHandlers holds the per-entity callbacks and metadata the repository
// needs. Each entity declares its identity handling, filterable columns, and
// relations explicitly instead of relying on reflection.
type ModelHandlers[T any] struct {
	NewRecord func() T
	GetID     func(T) uuid.UUID
	SetID     func(T, uuid.UUID)

	// Columns enumerates the directly filterable columns of the entity.
	Columns []string
	// Relations enumerates the declared associations.
	Relations []Relation
}

// HasColumn reports whether the entity declares the given filterable column.
func (h ModelHandlers[T]) HasColumn(column string) bool {
	for _, c := range h.Columns {
		if c == column {
			return true
		}
	}
	return false
}

// RelationNamed resolves a declared relation by name, case-insensitively, so
// filter descriptors can use the lowercase spelling callers find natural.
func (h ModelHandlers[T]) RelationNamed(name string) (Relation, bool) {
	for _, rel := range h.Relations {
		if strings.EqualFold(rel.Name, name) {
			return rel, true
		}
	}
	return Relation{}, false
}

// Patch applies partial updates to an existing record. Implementations set
// only the fields present in the patch; absent fields stay untouched.
type Patch[T any] interface {
	Apply(T)
}
