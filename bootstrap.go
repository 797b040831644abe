package profile

import (
	"context"
	"database/sql"

	goerrors "github.com/goliatone/go-errors"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

// OpenSQLite opens a sqlite-backed bun handle, used for local development and
// tests. Use ":memory:" with shared cache for throwaway databases.
func OpenSQLite(dsn string) (*bun.DB, error) {
	sqldb, err := sql.Open(sqliteshim.ShimName, dsn)
	if err != nil {
		return nil, err
	}
	return bun.NewDB(sqldb, sqlitedialect.New()), nil
}

// ResetSchema drops and recreates the users and tiles tables with their
// unique indexes and the owning foreign key. Removing a user cascades to
// their tiles at the schema level.
func ResetSchema(ctx context.Context, db *bun.DB) error {
	if _, err := db.NewDropTable().Model((*Tile)(nil)).IfExists().Exec(ctx); err != nil {
		return err
	}
	if _, err := db.NewDropTable().Model((*User)(nil)).IfExists().Exec(ctx); err != nil {
		return err
	}

	if _, err := db.NewCreateTable().Model((*User)(nil)).Exec(ctx); err != nil {
		return err
	}

	if _, err := db.NewCreateTable().
		Model((*Tile)(nil)).
		ForeignKey(`("user_id") REFERENCES "users" ("id") ON DELETE CASCADE`).
		Exec(ctx); err != nil {
		return err
	}

	return nil
}

// EnsureFirstAdmin seeds the bootstrap admin account from config on first
// run. An existing account with the configured username is left untouched.
func EnsureFirstAdmin(ctx context.Context, mgr RepositoryManager, cfg Config) (*User, error) {
	admin := cfg.GetFirstAdmin()
	if admin.Username == "" {
		return nil, nil
	}

	existing, err := mgr.Users().GetByUsername(ctx, admin.Username)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	user, err := mgr.Users().Register(ctx, NewUser{
		FirstName: admin.FirstName,
		LastName:  admin.LastName,
		Username:  admin.Username,
		Email:     admin.Email,
		Password:  admin.Password,
		Role:      RoleAdmin,
	})
	if err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to seed first admin")
	}

	return user, nil
}
