package handler

import (
	"time"

	"taskmanager/internal/model"
	"taskmanager/internal/service"
)

type TaskTypeResponse struct {
	ID          uint      `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description"`
	Color       string    `json:"color"`
	Icon        *string   `json:"icon"`
	IsDefault   bool      `json:"isDefault"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// TaskFields are the columns shared by every task representation.
type TaskFields struct {
	ID               uint              `json:"id"`
	Title            string            `json:"title"`
	Description      *string           `json:"description"`
	Status           string            `json:"status"`
	Priority         string            `json:"priority"`
	DueDate          *time.Time        `json:"dueDate"`
	EstimatedHours   *float64          `json:"estimatedHours"`
	ActualHours      *float64          `json:"actualHours"`
	AssignedTo       *string           `json:"assignedTo"`
	CreatedBy        *string           `json:"createdBy"`
	TaskTypeID       uint              `json:"taskTypeId"`
	ParentID         *uint             `json:"parentId"`
	GitRepo          *string           `json:"gitRepo"`
	Product          *string           `json:"product"`
	Feature          *string           `json:"feature"`
	JobToBeDone      *string           `json:"jobToBeDone"`
	UserStory        *string           `json:"userStory"`
	StepsToReproduce *string           `json:"stepsToReproduce"`
	DefinitionOfDone *string           `json:"definitionOfDone"`
	CreatedAt        time.Time         `json:"createdAt"`
	UpdatedAt        time.Time         `json:"updatedAt"`
	TaskType         *TaskTypeResponse `json:"taskType,omitempty"`
	Parent           *TaskResponse     `json:"parent,omitempty"`
}

// TaskResponse is a task with its related tasks as ids.
type TaskResponse struct {
	TaskFields
	RelatedTasks []uint         `json:"relatedTasks"`
	TemplateID   *model.LocalID `json:"templateId,omitempty" swaggertype:"string"`
}

// TaskDetailResponse is a task with related tasks, subtasks and siblings
// expanded to full records.
type TaskDetailResponse struct {
	TaskFields
	RelatedTasks []TaskResponse `json:"relatedTasks"`
	Subtasks     []TaskResponse `json:"subtasks"`
	Siblings     []TaskResponse `json:"siblings"`
}

type TemplateResponse struct {
	ID                uint                 `json:"id"`
	Name              string               `json:"name"`
	Description       *string              `json:"description"`
	TemplateStructure []model.TemplateNode `json:"templateStructure"`
	Variables         []string             `json:"variables"`
	DefaultValues     map[string]string    `json:"defaultValues"`
	CreatedBy         *string              `json:"createdBy"`
	CreatedAt         time.Time            `json:"createdAt"`
	UpdatedAt         time.Time            `json:"updatedAt"`
}

type GenerateResponse struct {
	Message string         `json:"message"`
	Tasks   []TaskResponse `json:"tasks"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type ErrorResponse struct {
	Error   string         `json:"error"`
	Details map[string]any `json:"details,omitempty"`
}

func toTaskTypeResponse(tt *model.TaskType) *TaskTypeResponse {
	if tt == nil {
		return nil
	}
	return &TaskTypeResponse{
		ID:          tt.ID,
		Name:        tt.Name,
		Description: tt.Description,
		Color:       tt.Color,
		Icon:        tt.Icon,
		IsDefault:   tt.IsDefault,
		CreatedAt:   tt.CreatedAt,
		UpdatedAt:   tt.UpdatedAt,
	}
}

func toTaskFields(t *model.Task) TaskFields {
	f := TaskFields{
		ID:               t.ID,
		Title:            t.Title,
		Description:      t.Description,
		Status:           string(t.Status),
		Priority:         string(t.Priority),
		DueDate:          t.DueDate,
		EstimatedHours:   t.EstimatedHours,
		ActualHours:      t.ActualHours,
		AssignedTo:       t.AssignedTo,
		CreatedBy:        t.CreatedBy,
		TaskTypeID:       t.TaskTypeID,
		ParentID:         t.ParentID,
		GitRepo:          t.GitRepo,
		Product:          t.Product,
		Feature:          t.Feature,
		JobToBeDone:      t.JobToBeDone,
		UserStory:        t.UserStory,
		StepsToReproduce: t.StepsToReproduce,
		DefinitionOfDone: t.DefinitionOfDone,
		CreatedAt:        t.CreatedAt,
		UpdatedAt:        t.UpdatedAt,
		TaskType:         toTaskTypeResponse(t.TaskType),
	}
	if t.Parent != nil {
		parent := toTaskResponse(t.Parent)
		f.Parent = &parent
	}
	return f
}

func toTaskResponse(t *model.Task) TaskResponse {
	return TaskResponse{TaskFields: toTaskFields(t), RelatedTasks: t.RelatedIDs()}
}

func toTaskResponses(tasks []model.Task) []TaskResponse {
	out := make([]TaskResponse, len(tasks))
	for i := range tasks {
		out[i] = toTaskResponse(&tasks[i])
	}
	return out
}

func toTaskDetailResponse(d *service.TaskDetail) TaskDetailResponse {
	return TaskDetailResponse{
		TaskFields:   toTaskFields(d.Task),
		RelatedTasks: toTaskResponses(d.RelatedTasks),
		Subtasks:     toTaskResponses(d.Task.Subtasks),
		Siblings:     toTaskResponses(d.Siblings),
	}
}

func toGeneratedResponses(generated []service.GeneratedTask) []TaskResponse {
	out := make([]TaskResponse, len(generated))
	for i := range generated {
		out[i] = toTaskResponse(&generated[i].Task)
		if id := generated[i].TemplateID; id != "" {
			out[i].TemplateID = &id
		}
	}
	return out
}

func toTemplateResponse(t *model.TaskTemplate) TemplateResponse {
	nodes := t.Nodes()
	if nodes == nil {
		nodes = []model.TemplateNode{}
	}
	vars := []string(t.Variables)
	if vars == nil {
		vars = []string{}
	}
	return TemplateResponse{
		ID:                t.ID,
		Name:              t.Name,
		Description:       t.Description,
		TemplateStructure: nodes,
		Variables:         vars,
		DefaultValues:     t.Defaults(),
		CreatedBy:         t.CreatedBy,
		CreatedAt:         t.CreatedAt,
		UpdatedAt:         t.UpdatedAt,
	}
}
