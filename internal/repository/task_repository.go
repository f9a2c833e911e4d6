package repository

import (
	"context"
	"errors"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"taskmanager/internal/model"
)

type TaskRepository struct {
	db *gorm.DB
}

func NewTaskRepository(db *gorm.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

// TaskFilter narrows List results. Zero values are ignored.
type TaskFilter struct {
	Status     model.TaskStatus
	Priority   model.TaskPriority
	TaskTypeID uint
	ParentID   *uint
	AssignedTo string
}

// Create adds a new task to the database
func (r *TaskRepository) Create(ctx context.Context, task *model.Task) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(task).Error
}

// GetByID retrieves a task by its ID, preloading the named associations
func (r *TaskRepository) GetByID(ctx context.Context, id uint, preload ...string) (*model.Task, error) {
	var task model.Task
	q := r.db.WithContext(ctx)
	for _, p := range preload {
		q = q.Preload(p)
	}
	result := q.First(&task, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, result.Error
	}
	return &task, nil
}

// List retrieves tasks with their type and parent
func (r *TaskRepository) List(ctx context.Context, filter TaskFilter) ([]model.Task, error) {
	var tasks []model.Task
	q := r.db.WithContext(ctx).Preload("TaskType").Preload("Parent")
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.Priority != "" {
		q = q.Where("priority = ?", filter.Priority)
	}
	if filter.TaskTypeID != 0 {
		q = q.Where("task_type_id = ?", filter.TaskTypeID)
	}
	if filter.ParentID != nil {
		q = q.Where("parent_id = ?", *filter.ParentID)
	}
	if filter.AssignedTo != "" {
		q = q.Where("assigned_to = ?", filter.AssignedTo)
	}
	if err := q.Order("id").Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

// FindByIDs retrieves every task whose id is in ids. Unknown ids are skipped.
func (r *TaskRepository) FindByIDs(ctx context.Context, ids []uint) ([]model.Task, error) {
	tasks := []model.Task{}
	if len(ids) == 0 {
		return tasks, nil
	}
	result := r.db.WithContext(ctx).
		Preload("TaskType").
		Where("id IN ?", ids).
		Order("id").
		Find(&tasks)
	if result.Error != nil {
		return nil, result.Error
	}
	return tasks, nil
}

// CountByIDs counts how many of ids exist
func (r *TaskRepository) CountByIDs(ctx context.Context, ids []uint) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Task{}).Where("id IN ?", ids).Count(&count).Error
	return count, err
}

// GetChildren retrieves the direct subtasks of a task
func (r *TaskRepository) GetChildren(ctx context.Context, parentID uint) ([]model.Task, error) {
	tasks := []model.Task{}
	err := r.db.WithContext(ctx).
		Preload("TaskType").
		Where("parent_id = ?", parentID).
		Order("id").
		Find(&tasks).Error
	return tasks, err
}

// CountChildren counts the direct subtasks of a task
func (r *TaskRepository) CountChildren(ctx context.Context, parentID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Task{}).Where("parent_id = ?", parentID).Count(&count).Error
	return count, err
}

// GetSiblings retrieves the other children of the task's parent
func (r *TaskRepository) GetSiblings(ctx context.Context, task *model.Task) ([]model.Task, error) {
	tasks := []model.Task{}
	if task.ParentID == nil {
		return tasks, nil
	}
	err := r.db.WithContext(ctx).
		Preload("TaskType").
		Where("parent_id = ? AND id <> ?", *task.ParentID, task.ID).
		Order("id").
		Find(&tasks).Error
	return tasks, err
}

// CountByTaskType counts tasks that reference a task type
func (r *TaskRepository) CountByTaskType(ctx context.Context, taskTypeID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Task{}).Where("task_type_id = ?", taskTypeID).Count(&count).Error
	return count, err
}

// Update writes every column of an existing task
func (r *TaskRepository) Update(ctx context.Context, task *model.Task) error {
	result := r.db.WithContext(ctx).Omit(clause.Associations).Save(task)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrTaskNotFound
	}
	return nil
}

// SetRelated overwrites the related task ids of a single task
func (r *TaskRepository) SetRelated(ctx context.Context, id uint, related []uint) error {
	if related == nil {
		related = []uint{}
	}
	result := r.db.WithContext(ctx).Model(&model.Task{}).
		Where("id = ?", id).
		Update("related_tasks", datatypes.JSONSlice[uint](related))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrTaskNotFound
	}
	return nil
}

// Delete removes a task by its ID
func (r *TaskRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&model.Task{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrTaskNotFound
	}
	return nil
}
