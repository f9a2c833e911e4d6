package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"taskmanager/internal/model"
	"taskmanager/internal/patch"
	"taskmanager/internal/repository"
)

// CreateTaskInput is the payload for creating a task. Unknown JSON members
// are ignored.
type CreateTaskInput struct {
	Title            string     `json:"title"`
	Description      *string    `json:"description"`
	TaskTypeID       uint       `json:"taskTypeId"`
	Status           string     `json:"status" binding:"omitempty,taskstatus"`
	Priority         string     `json:"priority" binding:"omitempty,taskpriority"`
	DueDate          *time.Time `json:"dueDate"`
	EstimatedHours   *float64   `json:"estimatedHours" binding:"omitempty,gte=0"`
	ActualHours      *float64   `json:"actualHours" binding:"omitempty,gte=0"`
	AssignedTo       *string    `json:"assignedTo"`
	CreatedBy        *string    `json:"createdBy"`
	ParentID         *uint      `json:"parentId"`
	GitRepo          *string    `json:"gitRepo"`
	Product          *string    `json:"product"`
	Feature          *string    `json:"feature"`
	JobToBeDone      *string    `json:"jobToBeDone"`
	UserStory        *string    `json:"userStory"`
	StepsToReproduce *string    `json:"stepsToReproduce"`
	DefinitionOfDone *string    `json:"definitionOfDone"`
	RelatedTasks     []uint     `json:"relatedTasks"`
}

// UpdateTaskInput changes only the members present in the request. A member
// sent as null clears a nullable column.
type UpdateTaskInput struct {
	Title            patch.Field[string]    `json:"title" swaggertype:"string"`
	Description      patch.Field[string]    `json:"description" swaggertype:"string"`
	TaskTypeID       patch.Field[uint]      `json:"taskTypeId" swaggertype:"integer"`
	Status           patch.Field[string]    `json:"status" swaggertype:"string"`
	Priority         patch.Field[string]    `json:"priority" swaggertype:"string"`
	DueDate          patch.Field[time.Time] `json:"dueDate" swaggertype:"string"`
	EstimatedHours   patch.Field[float64]   `json:"estimatedHours" swaggertype:"number"`
	ActualHours      patch.Field[float64]   `json:"actualHours" swaggertype:"number"`
	AssignedTo       patch.Field[string]    `json:"assignedTo" swaggertype:"string"`
	ParentID         patch.Field[uint]      `json:"parentId" swaggertype:"integer"`
	GitRepo          patch.Field[string]    `json:"gitRepo" swaggertype:"string"`
	Product          patch.Field[string]    `json:"product" swaggertype:"string"`
	Feature          patch.Field[string]    `json:"feature" swaggertype:"string"`
	JobToBeDone      patch.Field[string]    `json:"jobToBeDone" swaggertype:"string"`
	UserStory        patch.Field[string]    `json:"userStory" swaggertype:"string"`
	StepsToReproduce patch.Field[string]    `json:"stepsToReproduce" swaggertype:"string"`
	DefinitionOfDone patch.Field[string]    `json:"definitionOfDone" swaggertype:"string"`
	RelatedTasks     patch.Field[[]uint]    `json:"relatedTasks" swaggertype:"array,integer"`
}

// TaskDetail is a task together with its resolved neighbourhood.
type TaskDetail struct {
	Task         *model.Task
	RelatedTasks []model.Task
	Siblings     []model.Task
}

// TaskService implements the task graph operations: hierarchy and
// related-task links.
type TaskService struct {
	store *repository.Store
}

func NewTaskService(store *repository.Store) *TaskService {
	return &TaskService{store: store}
}

func (s *TaskService) List(ctx context.Context, filter repository.TaskFilter) ([]model.Task, error) {
	return s.store.Tasks.List(ctx, filter)
}

// Get returns the task with its type, parent, subtasks, related tasks and
// siblings. Related ids that no longer resolve are dropped.
func (s *TaskService) Get(ctx context.Context, id uint) (*TaskDetail, error) {
	task, err := s.store.Tasks.GetByID(ctx, id, "TaskType", "Parent")
	if errors.Is(err, repository.ErrTaskNotFound) {
		return nil, NotFound("Task not found")
	}
	if err != nil {
		return nil, err
	}
	if task.Subtasks, err = s.store.Tasks.GetChildren(ctx, id); err != nil {
		return nil, err
	}
	related, err := s.store.Tasks.FindByIDs(ctx, task.RelatedIDs())
	if err != nil {
		return nil, err
	}
	siblings, err := s.store.Tasks.GetSiblings(ctx, task)
	if err != nil {
		return nil, err
	}
	return &TaskDetail{Task: task, RelatedTasks: related, Siblings: siblings}, nil
}

// Related returns the resolved related tasks of a task.
func (s *TaskService) Related(ctx context.Context, id uint) ([]model.Task, error) {
	task, err := s.store.Tasks.GetByID(ctx, id)
	if errors.Is(err, repository.ErrTaskNotFound) {
		return nil, NotFound("Task not found")
	}
	if err != nil {
		return nil, err
	}
	return s.store.Tasks.FindByIDs(ctx, task.RelatedIDs())
}

// Create validates references and inserts a task. The result carries its
// type and parent.
func (s *TaskService) Create(ctx context.Context, in CreateTaskInput) (*model.Task, error) {
	var id uint
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		task, err := createTask(ctx, tx, in)
		if err != nil {
			return err
		}
		id = task.ID
		return nil
	})
	if err != nil {
		return nil, err
	}
	zerolog.Ctx(ctx).Debug().Uint("task_id", id).Msg("task created")
	return s.store.Tasks.GetByID(ctx, id, "TaskType", "Parent")
}

// Update applies a partial update. The result carries its type and parent.
func (s *TaskService) Update(ctx context.Context, id uint, in UpdateTaskInput) (*model.Task, error) {
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		_, err := updateTask(ctx, tx, id, in)
		return err
	})
	if err != nil {
		return nil, err
	}
	return s.store.Tasks.GetByID(ctx, id, "TaskType", "Parent")
}

// Delete removes a task that has no subtasks.
func (s *TaskService) Delete(ctx context.Context, id uint) error {
	return s.store.Transaction(ctx, func(tx *repository.Store) error {
		if _, err := tx.Tasks.GetByID(ctx, id); err != nil {
			if errors.Is(err, repository.ErrTaskNotFound) {
				return NotFound("Task not found")
			}
			return err
		}
		children, err := tx.Tasks.CountChildren(ctx, id)
		if err != nil {
			return err
		}
		if children > 0 {
			return Conflict("Cannot delete task with subtasks. Delete all subtasks first or update their parent.").
				With("subtasksCount", children)
		}
		return tx.Tasks.Delete(ctx, id)
	})
}

// Link adds targetIDs to the related set of task id and adds id to the set
// of every target that lacks it.
func (s *TaskService) Link(ctx context.Context, id uint, targetIDs []uint) (*TaskDetail, error) {
	if len(targetIDs) == 0 {
		return nil, Validation("Target task IDs are required")
	}
	if contains(targetIDs, id) {
		return nil, Validation("Task cannot be linked to itself")
	}
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		task, err := tx.Tasks.GetByID(ctx, id)
		if errors.Is(err, repository.ErrTaskNotFound) {
			return NotFound("Task not found")
		}
		if err != nil {
			return err
		}

		targets := dedupe(targetIDs)
		found, err := tx.Tasks.CountByIDs(ctx, targets)
		if err != nil {
			return err
		}
		if found != int64(len(targets)) {
			return NotFound("One or more target tasks not found")
		}

		merged := dedupe(append(task.RelatedIDs(), targets...))
		if err := tx.Tasks.SetRelated(ctx, id, merged); err != nil {
			return err
		}

		for _, targetID := range targets {
			target, err := tx.Tasks.GetByID(ctx, targetID)
			if err != nil {
				return err
			}
			if target.HasRelated(id) {
				continue
			}
			if err := tx.Tasks.SetRelated(ctx, targetID, append(target.RelatedIDs(), id)); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

// Unlink removes targetIDs from the related set of task id and removes id
// from every target that still exists. Unknown targets are ignored.
func (s *TaskService) Unlink(ctx context.Context, id uint, targetIDs []uint) (*TaskDetail, error) {
	if len(targetIDs) == 0 {
		return nil, Validation("Target task IDs are required")
	}
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		task, err := tx.Tasks.GetByID(ctx, id)
		if errors.Is(err, repository.ErrTaskNotFound) {
			return NotFound("Task not found")
		}
		if err != nil {
			return err
		}

		remaining := make([]uint, 0, len(task.RelatedTasks))
		for _, r := range task.RelatedTasks {
			if !contains(targetIDs, r) {
				remaining = append(remaining, r)
			}
		}
		if err := tx.Tasks.SetRelated(ctx, id, remaining); err != nil {
			return err
		}

		for _, targetID := range dedupe(targetIDs) {
			target, err := tx.Tasks.GetByID(ctx, targetID)
			if errors.Is(err, repository.ErrTaskNotFound) {
				continue
			}
			if err != nil {
				return err
			}
			kept := make([]uint, 0, len(target.RelatedTasks))
			for _, r := range target.RelatedTasks {
				if r != id {
					kept = append(kept, r)
				}
			}
			if err := tx.Tasks.SetRelated(ctx, targetID, kept); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

// createTask validates in against the store and inserts the row. It is
// shared by the HTTP create path, template generation and imports.
func createTask(ctx context.Context, tx *repository.Store, in CreateTaskInput) (*model.Task, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, Validation("Title is required")
	}
	if in.TaskTypeID == 0 {
		return nil, Validation("Task type is required")
	}

	status := model.StatusToDo
	if in.Status != "" {
		var err error
		if status, err = parseStatus(in.Status); err != nil {
			return nil, err
		}
	}
	priority := model.PriorityMedium
	if in.Priority != "" {
		var err error
		if priority, err = parsePriority(in.Priority); err != nil {
			return nil, err
		}
	}
	if err := checkHours("estimatedHours", in.EstimatedHours); err != nil {
		return nil, err
	}
	if err := checkHours("actualHours", in.ActualHours); err != nil {
		return nil, err
	}

	if _, err := tx.TaskTypes.GetByID(ctx, in.TaskTypeID); err != nil {
		if errors.Is(err, repository.ErrTaskTypeNotFound) {
			return nil, NotFound("Task type not found")
		}
		return nil, err
	}

	parentID := in.ParentID
	if parentID != nil && *parentID == 0 {
		parentID = nil
	}
	if parentID != nil {
		if _, err := tx.Tasks.GetByID(ctx, *parentID); err != nil {
			if errors.Is(err, repository.ErrTaskNotFound) {
				return nil, NotFound("Parent task not found")
			}
			return nil, err
		}
	}

	related := dedupe(in.RelatedTasks)
	if len(related) > 0 {
		found, err := tx.Tasks.CountByIDs(ctx, related)
		if err != nil {
			return nil, err
		}
		if found != int64(len(related)) {
			return nil, NotFound("One or more related tasks not found")
		}
	}

	task := &model.Task{
		Title:            title,
		Description:      in.Description,
		Status:           status,
		Priority:         priority,
		DueDate:          in.DueDate,
		EstimatedHours:   in.EstimatedHours,
		ActualHours:      in.ActualHours,
		AssignedTo:       in.AssignedTo,
		CreatedBy:        in.CreatedBy,
		TaskTypeID:       in.TaskTypeID,
		ParentID:         parentID,
		GitRepo:          in.GitRepo,
		Product:          in.Product,
		Feature:          in.Feature,
		JobToBeDone:      in.JobToBeDone,
		UserStory:        in.UserStory,
		StepsToReproduce: in.StepsToReproduce,
		DefinitionOfDone: in.DefinitionOfDone,
	}
	task.SetRelatedIDs(related)

	if err := tx.Tasks.Create(ctx, task); err != nil {
		return nil, err
	}
	return task, nil
}

// updateTask applies in to task id. Absent members keep their stored values.
func updateTask(ctx context.Context, tx *repository.Store, id uint, in UpdateTaskInput) (*model.Task, error) {
	task, err := tx.Tasks.GetByID(ctx, id)
	if errors.Is(err, repository.ErrTaskNotFound) {
		return nil, NotFound("Task not found")
	}
	if err != nil {
		return nil, err
	}

	if in.Title.Set {
		title := strings.TrimSpace(in.Title.Value)
		if title == "" {
			return nil, Validation("Title cannot be empty")
		}
		task.Title = title
	}

	if in.TaskTypeID.Set {
		if !in.TaskTypeID.Present() || in.TaskTypeID.Value == 0 {
			return nil, Validation("Task type is required")
		}
		if in.TaskTypeID.Value != task.TaskTypeID {
			if _, err := tx.TaskTypes.GetByID(ctx, in.TaskTypeID.Value); err != nil {
				if errors.Is(err, repository.ErrTaskTypeNotFound) {
					return nil, NotFound("Task type not found")
				}
				return nil, err
			}
		}
		task.TaskTypeID = in.TaskTypeID.Value
	}

	if in.Status.Set {
		if task.Status, err = parseStatus(in.Status.Value); err != nil {
			return nil, err
		}
	}
	if in.Priority.Set {
		if task.Priority, err = parsePriority(in.Priority.Value); err != nil {
			return nil, err
		}
	}

	if in.ParentID.Set {
		if err := applyParent(ctx, tx, task, in.ParentID); err != nil {
			return nil, err
		}
	}

	if in.RelatedTasks.Set {
		related := dedupe(in.RelatedTasks.Value)
		if contains(related, id) {
			return nil, Validation("Task cannot be related to itself")
		}
		if len(related) > 0 {
			found, err := tx.Tasks.CountByIDs(ctx, related)
			if err != nil {
				return nil, err
			}
			if found != int64(len(related)) {
				return nil, NotFound("One or more related tasks not found")
			}
		}
		task.SetRelatedIDs(related)
	}

	if err := checkHours("estimatedHours", in.EstimatedHours.Ptr()); err != nil {
		return nil, err
	}
	if err := checkHours("actualHours", in.ActualHours.Ptr()); err != nil {
		return nil, err
	}

	patch.Apply(in.Description, &task.Description)
	patch.Apply(in.DueDate, &task.DueDate)
	patch.Apply(in.EstimatedHours, &task.EstimatedHours)
	patch.Apply(in.ActualHours, &task.ActualHours)
	patch.Apply(in.AssignedTo, &task.AssignedTo)
	patch.Apply(in.GitRepo, &task.GitRepo)
	patch.Apply(in.Product, &task.Product)
	patch.Apply(in.Feature, &task.Feature)
	patch.Apply(in.JobToBeDone, &task.JobToBeDone)
	patch.Apply(in.UserStory, &task.UserStory)
	patch.Apply(in.StepsToReproduce, &task.StepsToReproduce)
	patch.Apply(in.DefinitionOfDone, &task.DefinitionOfDone)

	if err := tx.Tasks.Update(ctx, task); err != nil {
		return nil, err
	}
	return task, nil
}

// applyParent re-parents task. null or 0 detaches it.
func applyParent(ctx context.Context, tx *repository.Store, task *model.Task, f patch.Field[uint]) error {
	if !f.Present() || f.Value == 0 {
		task.ParentID = nil
		return nil
	}
	parentID := f.Value
	if task.ParentID != nil && *task.ParentID == parentID {
		return nil
	}
	if parentID == task.ID {
		return Validation("Task cannot be its own parent")
	}
	parent, err := tx.Tasks.GetByID(ctx, parentID)
	if errors.Is(err, repository.ErrTaskNotFound) {
		return NotFound("Parent task not found")
	}
	if err != nil {
		return err
	}
	cyclic, err := isAncestor(ctx, tx, task.ID, parent)
	if err != nil {
		return err
	}
	if cyclic {
		return Validation("Task cannot be moved under one of its own subtasks")
	}
	task.ParentID = &parentID
	return nil
}

// isAncestor reports whether id appears on the parent chain starting at from.
func isAncestor(ctx context.Context, tx *repository.Store, id uint, from *model.Task) (bool, error) {
	seen := map[uint]struct{}{from.ID: {}}
	cur := from
	for cur.ParentID != nil {
		next := *cur.ParentID
		if next == id {
			return true, nil
		}
		if _, ok := seen[next]; ok {
			return false, nil
		}
		seen[next] = struct{}{}
		parent, err := tx.Tasks.GetByID(ctx, next)
		if errors.Is(err, repository.ErrTaskNotFound) {
			return false, nil
		}
		if err != nil {
			return false, err
		}
		cur = parent
	}
	return false, nil
}
