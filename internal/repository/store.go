package repository

import (
	"context"

	"gorm.io/gorm"
)

// Store groups the repositories that share one database handle, so callers
// can run several of them inside a single transaction.
type Store struct {
	db *gorm.DB

	Tasks     *TaskRepository
	TaskTypes *TaskTypeRepository
	Templates *TaskTemplateRepository
}

func NewStore(db *gorm.DB) *Store {
	return &Store{
		db:        db,
		Tasks:     NewTaskRepository(db),
		TaskTypes: NewTaskTypeRepository(db),
		Templates: NewTaskTemplateRepository(db),
	}
}

// Transaction runs fn with a Store bound to a database transaction. Returning
// an error from fn rolls the transaction back. Nested calls use savepoints.
func (s *Store) Transaction(ctx context.Context, fn func(tx *Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewStore(tx))
	})
}

// Ping checks that the database is reachable.
func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
