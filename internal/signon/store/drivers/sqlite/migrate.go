package sqlite

import (
	"errors"

	"github.com/oakheart/signon/internal/signon/store/drivers/sqlite/migrations"

	"github.com/golang-migrate/migrate/v4"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"

	_ "modernc.org/sqlite"
)

// ApplyMigrations renders the migration templates with this store's table
// names and applies any pending migrations. The rendered SQL never leaves
// memory, which keeps the binary self-contained while still letting each
// deployment pick its own table names.
func (s *Store) ApplyMigrations() error {
	driver, err := migratesqlite.WithInstance(s.db, &migratesqlite.Config{})
	if err != nil {
		return err
	}

	rendered, err := migrations.Render(migrations.Tables{
		Users:    s.tables.Users,
		Sessions: s.tables.Sessions,
	})
	if err != nil {
		return err
	}

	src, err := iofs.New(rendered, ".")
	if err != nil {
		return err
	}

	instance, err := migrate.NewWithInstance("iofs", src, "", driver)
	if err != nil {
		return err
	}

	err = instance.Up()
	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}

	return nil
}
