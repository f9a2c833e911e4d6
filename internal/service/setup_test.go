package service_test

import (
	"context"
	"fmt"
	"strconv"
	"testing"

	"taskmanager/internal/config"
	"taskmanager/internal/database"
	"taskmanager/internal/model"
	"taskmanager/internal/repository"
	"taskmanager/internal/service"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	store        *repository.Store
	types        *service.TaskTypeService
	tasks        *service.TaskService
	templates    *service.TemplateService
	requirements *service.RequirementsService
	typeIDs      map[string]uint
}

// setupServices returns services backed by a fresh in-memory sqlite database
// with the default task types seeded.
func setupServices(t *testing.T) *fixture {
	t.Helper()
	quietLogs(t)
	cfg := &config.Config{
		DBDriver: config.DriverSQLite,
		DBPath:   fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString()),
	}
	db, err := database.Open(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(db) })
	require.NoError(t, database.Migrate(db, cfg))

	store := repository.NewStore(db)
	f := &fixture{
		store:        store,
		types:        service.NewTaskTypeService(store),
		tasks:        service.NewTaskService(store),
		templates:    service.NewTemplateService(store),
		requirements: service.NewRequirementsService(store),
		typeIDs:      map[string]uint{},
	}
	require.NoError(t, f.types.EnsureDefaults(context.Background()))

	types, err := f.types.List(context.Background())
	require.NoError(t, err)
	for _, tt := range types {
		f.typeIDs[tt.Name] = tt.ID
	}
	return f
}

// quietLogs raises the global log level to warn for the test so gorm and
// the services only report failures.
func quietLogs(t *testing.T) {
	t.Helper()
	prev := zerolog.GlobalLevel()
	zerolog.SetGlobalLevel(zerolog.WarnLevel)
	t.Cleanup(func() { zerolog.SetGlobalLevel(prev) })
}

func (f *fixture) mustCreate(t *testing.T, title string, opts ...func(*service.CreateTaskInput)) *model.Task {
	t.Helper()
	in := service.CreateTaskInput{Title: title, TaskTypeID: f.typeIDs[model.TypeTask]}
	for _, o := range opts {
		o(&in)
	}
	task, err := f.tasks.Create(context.Background(), in)
	require.NoError(t, err)
	return task
}

func withParent(id uint) func(*service.CreateTaskInput) {
	return func(in *service.CreateTaskInput) { in.ParentID = &id }
}

func withRelated(ids ...uint) func(*service.CreateTaskInput) {
	return func(in *service.CreateTaskInput) { in.RelatedTasks = ids }
}

func requireKind(t *testing.T, err error, kind service.Kind) {
	t.Helper()
	require.Error(t, err)
	require.Equal(t, kind, service.KindOf(err), "unexpected error: %v", err)
}

func ids(tasks []model.Task) []uint {
	out := make([]uint, len(tasks))
	for i, task := range tasks {
		out[i] = task.ID
	}
	return out
}

func itoa(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}
