package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"taskmanager/internal/model"
)

type TaskTemplateRepository struct {
	db *gorm.DB
}

func NewTaskTemplateRepository(db *gorm.DB) *TaskTemplateRepository {
	return &TaskTemplateRepository{db: db}
}

// Create adds a new template to the database
func (r *TaskTemplateRepository) Create(ctx context.Context, template *model.TaskTemplate) error {
	return r.db.WithContext(ctx).Create(template).Error
}

// GetByID retrieves a template by its ID
func (r *TaskTemplateRepository) GetByID(ctx context.Context, id uint) (*model.TaskTemplate, error) {
	var template model.TaskTemplate
	result := r.db.WithContext(ctx).First(&template, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrTemplateNotFound
		}
		return nil, result.Error
	}
	return &template, nil
}

// List retrieves every template
func (r *TaskTemplateRepository) List(ctx context.Context) ([]model.TaskTemplate, error) {
	var templates []model.TaskTemplate
	err := r.db.WithContext(ctx).Order("id").Find(&templates).Error
	return templates, err
}

// Update writes every column of an existing template
func (r *TaskTemplateRepository) Update(ctx context.Context, template *model.TaskTemplate) error {
	return r.db.WithContext(ctx).Save(template).Error
}

// Delete removes a template by its ID
func (r *TaskTemplateRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&model.TaskTemplate{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrTemplateNotFound
	}
	return nil
}
