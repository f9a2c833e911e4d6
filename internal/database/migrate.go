package database

import (
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	"github.com/golang-migrate/migrate/v4/source"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"taskmanager/internal/config"
	"taskmanager/internal/model"
)

//go:embed migrations/postgres/*.sql
var postgresMigrations embed.FS

// Models lists every table owned by the service, in dependency order.
func Models() []any {
	return []any{&model.TaskType{}, &model.Task{}, &model.TaskTemplate{}}
}

// Migrate brings the schema up to date. Postgres uses the versioned SQL files;
// sqlite falls back to gorm's AutoMigrate.
func Migrate(db *gorm.DB, cfg *config.Config) error {
	if cfg.DBDriver == config.DriverSQLite {
		if err := db.AutoMigrate(Models()...); err != nil {
			return fmt.Errorf("auto-migrating sqlite schema: %w", err)
		}
		log.Info().Msg("sqlite schema migrated")
		return nil
	}

	m, err := newMigrator(cfg)
	if err != nil {
		return err
	}
	defer closeMigrator(m)

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("applying migrations: %w", err)
	}
	version, dirty, _ := m.Version()
	log.Info().Uint("version", version).Bool("dirty", dirty).Msg("postgres schema migrated")
	return nil
}

// Rollback reverts the given number of postgres migrations.
func Rollback(cfg *config.Config, steps int) error {
	if cfg.DBDriver != config.DriverPostgres {
		return fmt.Errorf("rollback is only supported for %s", config.DriverPostgres)
	}
	if steps <= 0 {
		return errors.New("steps must be positive")
	}

	m, err := newMigrator(cfg)
	if err != nil {
		return err
	}
	defer closeMigrator(m)

	if err := m.Steps(-steps); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("rolling back migrations: %w", err)
	}
	return nil
}

// MigrationSource exposes the embedded postgres migrations.
func MigrationSource() (source.Driver, error) {
	return iofs.New(postgresMigrations, "migrations/postgres")
}

func newMigrator(cfg *config.Config) (*migrate.Migrate, error) {
	src, err := MigrationSource()
	if err != nil {
		return nil, fmt.Errorf("loading embedded migrations: %w", err)
	}
	m, err := migrate.NewWithSourceInstance("iofs", src, cfg.PostgresURL("pgx5"))
	if err != nil {
		return nil, fmt.Errorf("creating migrator: %w", err)
	}
	return m, nil
}

func closeMigrator(m *migrate.Migrate) {
	srcErr, dbErr := m.Close()
	if srcErr != nil || dbErr != nil {
		log.Warn().AnErr("source", srcErr).AnErr("database", dbErr).Msg("closing migrator")
	}
}
