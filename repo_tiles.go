package profile

import (
	"context"

	"github.com/goliatone/go-profile/repository"
	"github.com/google/uuid"
	"github.com/lithammer/shortuuid"
	"github.com/uptrace/bun"
)

// ShortIDLength is the length of tile short identifiers.
const ShortIDLength = 12

// Tiles is the tiles repository.
type Tiles interface {
	repository.Repository[*Tile]

	ListByOwner(ctx context.Context, ownerID uuid.UUID, criteria ...repository.SelectCriteria) ([]*Tile, error)
	ListByOwnerTx(ctx context.Context, tx bun.IDB, ownerID uuid.UUID, criteria ...repository.SelectCriteria) ([]*Tile, error)

	GetByShortID(ctx context.Context, shortID string, criteria ...repository.SelectCriteria) (*Tile, error)
	GetByShortIDTx(ctx context.Context, tx bun.IDB, shortID string, criteria ...repository.SelectCriteria) (*Tile, error)

	EnsureShortID(ctx context.Context, tile *Tile) (*Tile, error)
	EnsureShortIDTx(ctx context.Context, tx bun.IDB, tile *Tile) (*Tile, error)
}

type tiles struct {
	repository.Repository[*Tile]
	db *bun.DB
}

var (
	_ Tiles                        = (*tiles)(nil)
	_ repository.Repository[*Tile] = (*tiles)(nil)
)

// NewTilesRepository builds the tiles repository.
func NewTilesRepository(db *bun.DB) Tiles {
	repo := repository.NewRepository[*Tile](db, repository.ModelHandlers[*Tile]{
		NewRecord: func() *Tile { return &Tile{} },
		GetID: func(t *Tile) uuid.UUID {
			if t == nil {
				return uuid.Nil
			}
			return t.ID
		},
		SetID: func(t *Tile, id uuid.UUID) {
			if t != nil {
				t.ID = id
			}
		},
		Columns: []string{
			"id", "type", "title", "url", "active", "position", "short_id", "user_id",
		},
		Relations: []repository.Relation{
			{
				Name:    "User",
				Kind:    repository.RelationDirect,
				Table:   "users",
				Alias:   "usr",
				JoinOn:  "usr.id = ?TableAlias.user_id",
				Columns: []string{"id", "username", "email", "first_name", "last_name"},
				Backref: true,
			},
		},
	})

	return &tiles{
		Repository: repo,
		db:         db,
	}
}

// Create assigns identity and a short id before inserting.
func (a *tiles) Create(ctx context.Context, record *Tile) (*Tile, error) {
	return a.CreateTx(ctx, a.db, record)
}

func (a *tiles) CreateTx(ctx context.Context, tx bun.IDB, record *Tile) (*Tile, error) {
	prepareTileDefaults(record)
	return a.Repository.CreateTx(ctx, tx, record)
}

func (a *tiles) CreateMany(ctx context.Context, records []*Tile) ([]*Tile, error) {
	for _, record := range records {
		prepareTileDefaults(record)
	}
	return a.Repository.CreateMany(ctx, records)
}

func (a *tiles) CreateManyTx(ctx context.Context, tx bun.IDB, records []*Tile) ([]*Tile, error) {
	for _, record := range records {
		prepareTileDefaults(record)
	}
	return a.Repository.CreateManyTx(ctx, tx, records)
}

func (a *tiles) ListByOwner(ctx context.Context, ownerID uuid.UUID, criteria ...repository.SelectCriteria) ([]*Tile, error) {
	return a.ListByOwnerTx(ctx, a.db, ownerID, criteria...)
}

// ListByOwnerTx returns the owner's tiles in display order.
func (a *tiles) ListByOwnerTx(ctx context.Context, tx bun.IDB, ownerID uuid.UUID, criteria ...repository.SelectCriteria) ([]*Tile, error) {
	criteria = append(criteria,
		repository.SelectBy("user_id", ownerID),
		repository.OrderBy("position ASC"),
	)

	records, _, err := a.Repository.GetMultiTx(ctx, tx, 0, 0, criteria...)
	return records, err
}

func (a *tiles) GetByShortID(ctx context.Context, shortID string, criteria ...repository.SelectCriteria) (*Tile, error) {
	return a.GetByShortIDTx(ctx, a.db, shortID, criteria...)
}

func (a *tiles) GetByShortIDTx(ctx context.Context, tx bun.IDB, shortID string, criteria ...repository.SelectCriteria) (*Tile, error) {
	criteria = append(criteria, repository.SelectBy("short_id", shortID))
	return a.Repository.GetByTx(ctx, tx, criteria...)
}

func (a *tiles) EnsureShortID(ctx context.Context, tile *Tile) (*Tile, error) {
	return a.EnsureShortIDTx(ctx, a.db, tile)
}

// EnsureShortIDTx assigns a short id to tiles that predate short ids. An
// existing short id is never rewritten.
func (a *tiles) EnsureShortIDTx(ctx context.Context, tx bun.IDB, tile *Tile) (*Tile, error) {
	if tile.ShortID != "" {
		return tile, nil
	}

	tile.ShortID = newShortID()

	return a.Repository.UpdateTx(ctx, tx, tile, nil)
}

func prepareTileDefaults(record *Tile) {
	if record == nil {
		return
	}

	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}

	if record.ShortID == "" {
		record.ShortID = newShortID()
	}
}

func newShortID() string {
	id := shortuuid.New()
	if len(id) > ShortIDLength {
		id = id[:ShortIDLength]
	}
	return id
}
