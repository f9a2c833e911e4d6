package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"taskmanager/internal/model"
)

type TaskTypeRepository struct {
	db *gorm.DB
}

func NewTaskTypeRepository(db *gorm.DB) *TaskTypeRepository {
	return &TaskTypeRepository{db: db}
}

func (r *TaskTypeRepository) Create(ctx context.Context, taskType *model.TaskType) error {
	return r.db.WithContext(ctx).Create(taskType).Error
}

func (r *TaskTypeRepository) GetByID(ctx context.Context, id uint) (*model.TaskType, error) {
	var taskType model.TaskType
	if err := r.db.WithContext(ctx).First(&taskType, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskTypeNotFound
		}
		return nil, err
	}
	return &taskType, nil
}

// FindByName returns nil, nil when no type has that name.
func (r *TaskTypeRepository) FindByName(ctx context.Context, name string) (*model.TaskType, error) {
	var taskType model.TaskType
	err := r.db.WithContext(ctx).Where("name = ?", name).First(&taskType).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &taskType, nil
}

func (r *TaskTypeRepository) List(ctx context.Context) ([]model.TaskType, error) {
	var taskTypes []model.TaskType
	err := r.db.WithContext(ctx).Order("id").Find(&taskTypes).Error
	return taskTypes, err
}

// FirstOrCreate inserts taskType unless a type with the same name exists, in
// which case taskType is overwritten with the stored row. It reports whether a
// row was created.
func (r *TaskTypeRepository) FirstOrCreate(ctx context.Context, taskType *model.TaskType) (bool, error) {
	existing, err := r.FindByName(ctx, taskType.Name)
	if err != nil {
		return false, err
	}
	if existing != nil {
		*taskType = *existing
		return false, nil
	}
	if err := r.Create(ctx, taskType); err != nil {
		return false, err
	}
	return true, nil
}

func (r *TaskTypeRepository) Update(ctx context.Context, taskType *model.TaskType) error {
	return r.db.WithContext(ctx).Save(taskType).Error
}

func (r *TaskTypeRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&model.TaskType{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrTaskTypeNotFound
	}
	return nil
}
