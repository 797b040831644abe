package repository

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Repository is a generic store over a bun model. Every operation has a *Tx
// variant accepting an external bun.IDB so callers can group writes in a
// request-scoped transaction.
//
// Point lookups that find nothing return the zero record and a nil error;
// errors are reserved for store failures. Writes that violate a unique
// constraint return a conflict error (IsConflict); updates and removals of
// rows that no longer exist return a not-found error (IsRecordNotFound).
type Repository[T any] interface {
	Handlers() ModelHandlers[T]

	Get(ctx context.Context, id uuid.UUID, criteria ...SelectCriteria) (T, error)
	GetTx(ctx context.Context, tx bun.IDB, id uuid.UUID, criteria ...SelectCriteria) (T, error)
	GetBy(ctx context.Context, criteria ...SelectCriteria) (T, error)
	GetByTx(ctx context.Context, tx bun.IDB, criteria ...SelectCriteria) (T, error)
	GetMulti(ctx context.Context, offset, limit int, criteria ...SelectCriteria) ([]T, int, error)
	GetMultiTx(ctx context.Context, tx bun.IDB, offset, limit int, criteria ...SelectCriteria) ([]T, int, error)

	Create(ctx context.Context, record T) (T, error)
	CreateTx(ctx context.Context, tx bun.IDB, record T) (T, error)
	CreateMany(ctx context.Context, records []T) ([]T, error)
	CreateManyTx(ctx context.Context, tx bun.IDB, records []T) ([]T, error)

	Update(ctx context.Context, record T, patch Patch[T]) (T, error)
	UpdateTx(ctx context.Context, tx bun.IDB, record T, patch Patch[T]) (T, error)

	Remove(ctx context.Context, record T) error
	RemoveTx(ctx context.Context, tx bun.IDB, record T) error

	Raw(ctx context.Context, query string, args ...any) ([]T, error)
	RawTx(ctx context.Context, tx bun.IDB, query string, args ...any) ([]T, error)

	Filters(filters ...Filter) SelectCriteria
	IncludeAll() SelectCriteria
}

type repo[T any] struct {
	db       *bun.DB
	handlers ModelHandlers[T]
}

// NewRepository builds a Repository for the entity described by handlers.
func NewRepository[T any](db *bun.DB, handlers ModelHandlers[T]) Repository[T] {
	return &repo[T]{
		db:       db,
		handlers: handlers,
	}
}

func (r *repo[T]) Handlers() ModelHandlers[T] {
	return r.handlers
}

func (r *repo[T]) Get(ctx context.Context, id uuid.UUID, criteria ...SelectCriteria) (T, error) {
	return r.GetTx(ctx, r.db, id, criteria...)
}

func (r *repo[T]) GetTx(ctx context.Context, tx bun.IDB, id uuid.UUID, criteria ...SelectCriteria) (T, error) {
	criteria = append(criteria, SelectByID(id.String()))
	return r.GetByTx(ctx, tx, criteria...)
}

func (r *repo[T]) GetBy(ctx context.Context, criteria ...SelectCriteria) (T, error) {
	return r.GetByTx(ctx, r.db, criteria...)
}

func (r *repo[T]) GetByTx(ctx context.Context, tx bun.IDB, criteria ...SelectCriteria) (T, error) {
	var zero T

	record := r.handlers.NewRecord()
	q := tx.NewSelect().Model(record)

	for _, c := range criteria {
		q = q.Apply(c)
	}

	if err := q.Limit(1).Scan(ctx); err != nil {
		if IsRecordNotFound(err) {
			return zero, nil
		}
		return zero, err
	}

	return record, nil
}

func (r *repo[T]) GetMulti(ctx context.Context, offset, limit int, criteria ...SelectCriteria) ([]T, int, error) {
	return r.GetMultiTx(ctx, r.db, offset, limit, criteria...)
}

// GetMultiTx returns one window of records plus the total count of records
// matching the criteria regardless of the window.
func (r *repo[T]) GetMultiTx(ctx context.Context, tx bun.IDB, offset, limit int, criteria ...SelectCriteria) ([]T, int, error) {
	var records []T

	q := tx.NewSelect().Model(&records)

	for _, c := range criteria {
		q = q.Apply(c)
	}

	q = q.Apply(Paginate(offset, limit))

	total, err := q.ScanAndCount(ctx)
	if err != nil {
		return nil, 0, err
	}

	return records, total, nil
}

func (r *repo[T]) Create(ctx context.Context, record T) (T, error) {
	return r.CreateTx(ctx, r.db, record)
}

func (r *repo[T]) CreateTx(ctx context.Context, tx bun.IDB, record T) (T, error) {
	var zero T

	if r.handlers.GetID(record) == uuid.Nil {
		r.handlers.SetID(record, uuid.New())
	}

	_, err := tx.NewInsert().
		Model(record).
		Returning("*").
		Exec(ctx)
	if err != nil {
		return zero, wrapWriteError(err)
	}

	return record, nil
}

func (r *repo[T]) CreateMany(ctx context.Context, records []T) ([]T, error) {
	var out []T
	err := r.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		var err error
		out, err = r.CreateManyTx(ctx, tx, records)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// CreateManyTx inserts all records in order within the given handle. When the
// handle is a transaction one failing row aborts the whole batch.
func (r *repo[T]) CreateManyTx(ctx context.Context, tx bun.IDB, records []T) ([]T, error) {
	out := make([]T, 0, len(records))
	for _, record := range records {
		created, err := r.CreateTx(ctx, tx, record)
		if err != nil {
			return nil, err
		}
		out = append(out, created)
	}
	return out, nil
}

func (r *repo[T]) Update(ctx context.Context, record T, patch Patch[T]) (T, error) {
	return r.UpdateTx(ctx, r.db, record, patch)
}

// UpdateTx applies the patch to the record and persists the result, returning
// the refreshed row. Fields the patch does not carry keep their stored value.
// Updating a row that no longer exists returns a not-found error.
func (r *repo[T]) UpdateTx(ctx context.Context, tx bun.IDB, record T, patch Patch[T]) (T, error) {
	var zero T

	if patch != nil {
		patch.Apply(record)
	}

	res, err := tx.NewUpdate().
		Model(record).
		WherePK().
		Returning("*").
		Exec(ctx)
	if err != nil {
		if IsRecordNotFound(err) {
			return zero, NewRecordNotFound()
		}
		return zero, wrapWriteError(err)
	}

	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return zero, NewRecordNotFound()
	}

	return record, nil
}

func (r *repo[T]) Remove(ctx context.Context, record T) error {
	return r.RemoveTx(ctx, r.db, record)
}

// RemoveTx deletes the record by primary key. Removing a row that no longer
// exists returns a not-found error.
func (r *repo[T]) RemoveTx(ctx context.Context, tx bun.IDB, record T) error {
	res, err := tx.NewDelete().
		Model(record).
		WherePK().
		Exec(ctx)
	if err != nil {
		return err
	}

	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return NewRecordNotFound()
	}

	return nil
}

func (r *repo[T]) Raw(ctx context.Context, query string, args ...any) ([]T, error) {
	return r.RawTx(ctx, r.db, query, args...)
}

func (r *repo[T]) RawTx(ctx context.Context, tx bun.IDB, query string, args ...any) ([]T, error) {
	var records []T
	if err := tx.NewRaw(query, args...).Scan(ctx, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// Filters packages filter descriptors as a criteria so they compose with
// pagination and includes.
func (r *repo[T]) Filters(filters ...Filter) SelectCriteria {
	return func(q *bun.SelectQuery) *bun.SelectQuery {
		return applyFilters(q, r.handlers, filters)
	}
}

// IncludeAll eager-loads every declared relation except backrefs, so a record
// and its forward associations load in one call without cycles.
func (r *repo[T]) IncludeAll() SelectCriteria {
	return func(q *bun.SelectQuery) *bun.SelectQuery {
		for _, rel := range r.handlers.Relations {
			if rel.Backref {
				continue
			}
			q = q.Relation(rel.Name)
		}
		return q
	}
}
