package database_test

import (
	"fmt"
	"testing"

	"taskmanager/internal/config"
	"taskmanager/internal/database"
	"taskmanager/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrationSource_IsOrdered(t *testing.T) {
	src, err := database.MigrationSource()
	require.NoError(t, err)
	defer src.Close()

	first, err := src.First()
	require.NoError(t, err)
	assert.Equal(t, uint(1), first)

	versions := []uint{first}
	for v := first; ; {
		next, err := src.Next(v)
		if err != nil {
			break
		}
		versions = append(versions, next)
		v = next
	}
	assert.Equal(t, []uint{1, 2, 3}, versions)

	for _, v := range versions {
		up, _, err := src.ReadUp(v)
		require.NoError(t, err, "missing up migration %d", v)
		up.Close()
		down, _, err := src.ReadDown(v)
		require.NoError(t, err, "missing down migration %d", v)
		down.Close()
	}
}

func TestOpenAndMigrate_SQLite(t *testing.T) {
	cfg := &config.Config{
		DBDriver: config.DriverSQLite,
		DBPath:   fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString()),
	}

	db, err := database.Open(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(db) })

	require.NoError(t, database.Migrate(db, cfg))

	for _, m := range database.Models() {
		assert.True(t, db.Migrator().HasTable(m), "table for %T", m)
	}
	assert.True(t, db.Migrator().HasIndex(&model.TaskType{}, "Name"))
}

func TestOpen_UnsupportedDriver(t *testing.T) {
	_, err := database.Open(&config.Config{DBDriver: "mysql"})
	assert.Error(t, err)
}

func TestRollback_RequiresPostgres(t *testing.T) {
	err := database.Rollback(&config.Config{DBDriver: config.DriverSQLite}, 1)
	assert.Error(t, err)
}
