package sqlconnect

import (
	"context"
	"database/sql"
	"embed"
	"errors"

	"dompet_api/pkg/utils"

	"github.com/golang-migrate/migrate/v4"
	migratemysql "github.com/golang-migrate/migrate/v4/database/mysql"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/sirupsen/logrus"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Migrate applies every pending schema migration on a dedicated connection.
func Migrate(ctx context.Context, db *sql.DB, dbName string) error {
	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return utils.ErrorHandler(err, "failed to load migrations")
	}

	conn, err := db.Conn(ctx)
	if err != nil {
		return utils.ErrorHandler(err, "failed to reserve migration connection")
	}
	defer conn.Close()

	driver, err := migratemysql.WithConnection(ctx, conn, &migratemysql.Config{DatabaseName: dbName})
	if err != nil {
		return utils.ErrorHandler(err, "failed to init migration driver")
	}

	m, err := migrate.NewWithInstance("iofs", src, dbName, driver)
	if err != nil {
		return utils.ErrorHandler(err, "failed to init migrator")
	}

	if err := m.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			utils.Logger.Info("Database schema is up to date")
			return nil
		}
		return utils.ErrorHandler(err, "failed to apply migrations", logrus.Fields{"database": dbName})
	}

	version, _, _ := m.Version()
	utils.Logger.WithField("version", version).Info("Database migrated")
	return nil
}
