package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"taskmanager/internal/model"
	"taskmanager/internal/patch"
	"taskmanager/internal/repository"
)

// CreateTaskTypeInput is the payload for registering a task type.
type CreateTaskTypeInput struct {
	Name        string  `json:"name"`
	Description *string `json:"description"`
	Color       string  `json:"color" binding:"omitempty,hexcolor"`
	Icon        *string `json:"icon"`
}

// UpdateTaskTypeInput changes only the members present in the request.
type UpdateTaskTypeInput struct {
	Name        patch.Field[string] `json:"name" swaggertype:"string"`
	Description patch.Field[string] `json:"description" swaggertype:"string"`
	Color       patch.Field[string] `json:"color" swaggertype:"string"`
	Icon        patch.Field[string] `json:"icon" swaggertype:"string"`
}

// TaskTypeService is the registry of task categories.
type TaskTypeService struct {
	store *repository.Store
}

func NewTaskTypeService(store *repository.Store) *TaskTypeService {
	return &TaskTypeService{store: store}
}

// EnsureDefaults creates any missing built-in type. Existing rows with the
// same name are left untouched.
func (s *TaskTypeService) EnsureDefaults(ctx context.Context) error {
	created := 0
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		for _, tt := range model.DefaultTaskTypes() {
			tt := tt
			ok, err := tx.TaskTypes.FirstOrCreate(ctx, &tt)
			if err != nil {
				return fmt.Errorf("seed task type %s: %w", tt.Name, err)
			}
			if ok {
				created++
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	zerolog.Ctx(ctx).Info().Int("created", created).Msg("default task types ensured")
	return nil
}

func (s *TaskTypeService) List(ctx context.Context) ([]model.TaskType, error) {
	return s.store.TaskTypes.List(ctx)
}

func (s *TaskTypeService) Get(ctx context.Context, id uint) (*model.TaskType, error) {
	tt, err := s.store.TaskTypes.GetByID(ctx, id)
	if errors.Is(err, repository.ErrTaskTypeNotFound) {
		return nil, NotFound("Task type not found")
	}
	return tt, err
}

func (s *TaskTypeService) Create(ctx context.Context, in CreateTaskTypeInput) (*model.TaskType, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, Validation("Name is required")
	}
	color := in.Color
	if color == "" {
		color = model.DefaultTaskTypeColor
	}
	if !validColor(color) {
		return nil, Validation("Color must be a hex color")
	}

	tt := &model.TaskType{
		Name:        name,
		Description: in.Description,
		Color:       color,
		Icon:        in.Icon,
		IsDefault:   false,
	}
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		existing, err := tx.TaskTypes.FindByName(ctx, name)
		if err != nil {
			return err
		}
		if existing != nil {
			return Validation("Task type with this name already exists")
		}
		return tx.TaskTypes.Create(ctx, tt)
	})
	if err != nil {
		return nil, err
	}
	return tt, nil
}

func (s *TaskTypeService) Update(ctx context.Context, id uint, in UpdateTaskTypeInput) (*model.TaskType, error) {
	var tt *model.TaskType
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		var err error
		tt, err = tx.TaskTypes.GetByID(ctx, id)
		if errors.Is(err, repository.ErrTaskTypeNotFound) {
			return NotFound("Task type not found")
		}
		if err != nil {
			return err
		}
		if tt.IsDefault {
			return Forbidden("Default task types cannot be modified")
		}

		if in.Name.Set {
			name := strings.TrimSpace(in.Name.Value)
			if name == "" {
				return Validation("Name is required")
			}
			if name != tt.Name {
				existing, err := tx.TaskTypes.FindByName(ctx, name)
				if err != nil {
					return err
				}
				if existing != nil && existing.ID != tt.ID {
					return Validation("Task type with this name already exists")
				}
			}
			tt.Name = name
		}
		if in.Color.Set {
			color := in.Color.Value
			if in.Color.Null || color == "" {
				color = model.DefaultTaskTypeColor
			}
			if !validColor(color) {
				return Validation("Color must be a hex color")
			}
			tt.Color = color
		}
		patch.Apply(in.Description, &tt.Description)
		patch.Apply(in.Icon, &tt.Icon)

		return tx.TaskTypes.Update(ctx, tt)
	})
	if err != nil {
		return nil, err
	}
	return tt, nil
}

// Delete removes a user-defined type that no task references.
func (s *TaskTypeService) Delete(ctx context.Context, id uint) error {
	return s.store.Transaction(ctx, func(tx *repository.Store) error {
		tt, err := tx.TaskTypes.GetByID(ctx, id)
		if errors.Is(err, repository.ErrTaskTypeNotFound) {
			return NotFound("Task type not found")
		}
		if err != nil {
			return err
		}
		if tt.IsDefault {
			return Forbidden("Default task types cannot be deleted")
		}
		inUse, err := tx.Tasks.CountByTaskType(ctx, id)
		if err != nil {
			return err
		}
		if inUse > 0 {
			return Conflict("Task type is still used by tasks").With("tasksCount", inUse)
		}
		return tx.TaskTypes.Delete(ctx, id)
	})
}
