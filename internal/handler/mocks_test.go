package handler_test

import (
	"context"

	"taskmanager/internal/model"
	"taskmanager/internal/repository"
	"taskmanager/internal/service"

	"github.com/stretchr/testify/mock"
)

// MockTaskTypeService mocks the task type registry
type MockTaskTypeService struct {
	mock.Mock
}

func (m *MockTaskTypeService) List(ctx context.Context) ([]model.TaskType, error) {
	args := m.Called(ctx)
	types, _ := args.Get(0).([]model.TaskType)
	return types, args.Error(1)
}

func (m *MockTaskTypeService) Get(ctx context.Context, id uint) (*model.TaskType, error) {
	args := m.Called(ctx, id)
	tt, _ := args.Get(0).(*model.TaskType)
	return tt, args.Error(1)
}

func (m *MockTaskTypeService) Create(ctx context.Context, in service.CreateTaskTypeInput) (*model.TaskType, error) {
	args := m.Called(ctx, in)
	tt, _ := args.Get(0).(*model.TaskType)
	return tt, args.Error(1)
}

func (m *MockTaskTypeService) Update(ctx context.Context, id uint, in service.UpdateTaskTypeInput) (*model.TaskType, error) {
	args := m.Called(ctx, id, in)
	tt, _ := args.Get(0).(*model.TaskType)
	return tt, args.Error(1)
}

func (m *MockTaskTypeService) Delete(ctx context.Context, id uint) error {
	return m.Called(ctx, id).Error(0)
}

// MockTaskService mocks the task graph operations
type MockTaskService struct {
	mock.Mock
}

func (m *MockTaskService) List(ctx context.Context, filter repository.TaskFilter) ([]model.Task, error) {
	args := m.Called(ctx, filter)
	tasks, _ := args.Get(0).([]model.Task)
	return tasks, args.Error(1)
}

func (m *MockTaskService) Get(ctx context.Context, id uint) (*service.TaskDetail, error) {
	args := m.Called(ctx, id)
	d, _ := args.Get(0).(*service.TaskDetail)
	return d, args.Error(1)
}

func (m *MockTaskService) Related(ctx context.Context, id uint) ([]model.Task, error) {
	args := m.Called(ctx, id)
	tasks, _ := args.Get(0).([]model.Task)
	return tasks, args.Error(1)
}

func (m *MockTaskService) Create(ctx context.Context, in service.CreateTaskInput) (*model.Task, error) {
	args := m.Called(ctx, in)
	task, _ := args.Get(0).(*model.Task)
	return task, args.Error(1)
}

func (m *MockTaskService) Update(ctx context.Context, id uint, in service.UpdateTaskInput) (*model.Task, error) {
	args := m.Called(ctx, id, in)
	task, _ := args.Get(0).(*model.Task)
	return task, args.Error(1)
}

func (m *MockTaskService) Delete(ctx context.Context, id uint) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockTaskService) Link(ctx context.Context, id uint, targetIDs []uint) (*service.TaskDetail, error) {
	args := m.Called(ctx, id, targetIDs)
	d, _ := args.Get(0).(*service.TaskDetail)
	return d, args.Error(1)
}

func (m *MockTaskService) Unlink(ctx context.Context, id uint, targetIDs []uint) (*service.TaskDetail, error) {
	args := m.Called(ctx, id, targetIDs)
	d, _ := args.Get(0).(*service.TaskDetail)
	return d, args.Error(1)
}

// MockTemplateService mocks template storage and expansion
type MockTemplateService struct {
	mock.Mock
}

func (m *MockTemplateService) List(ctx context.Context) ([]model.TaskTemplate, error) {
	args := m.Called(ctx)
	t, _ := args.Get(0).([]model.TaskTemplate)
	return t, args.Error(1)
}

func (m *MockTemplateService) Get(ctx context.Context, id uint) (*model.TaskTemplate, error) {
	args := m.Called(ctx, id)
	t, _ := args.Get(0).(*model.TaskTemplate)
	return t, args.Error(1)
}

func (m *MockTemplateService) Create(ctx context.Context, in service.CreateTemplateInput) (*model.TaskTemplate, error) {
	args := m.Called(ctx, in)
	t, _ := args.Get(0).(*model.TaskTemplate)
	return t, args.Error(1)
}

func (m *MockTemplateService) Update(ctx context.Context, id uint, in service.UpdateTemplateInput) (*model.TaskTemplate, error) {
	args := m.Called(ctx, id, in)
	t, _ := args.Get(0).(*model.TaskTemplate)
	return t, args.Error(1)
}

func (m *MockTemplateService) Delete(ctx context.Context, id uint) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockTemplateService) Generate(ctx context.Context, id uint, variables map[string]string, actor string) ([]service.GeneratedTask, error) {
	args := m.Called(ctx, id, variables, actor)
	g, _ := args.Get(0).([]service.GeneratedTask)
	return g, args.Error(1)
}
