package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"taskmanager/internal/middleware"
	"taskmanager/internal/model"
	"taskmanager/internal/repository"
	"taskmanager/internal/service"
)

type TaskService interface {
	List(ctx context.Context, filter repository.TaskFilter) ([]model.Task, error)
	Get(ctx context.Context, id uint) (*service.TaskDetail, error)
	Related(ctx context.Context, id uint) ([]model.Task, error)
	Create(ctx context.Context, in service.CreateTaskInput) (*model.Task, error)
	Update(ctx context.Context, id uint, in service.UpdateTaskInput) (*model.Task, error)
	Delete(ctx context.Context, id uint) error
	Link(ctx context.Context, id uint, targetIDs []uint) (*service.TaskDetail, error)
	Unlink(ctx context.Context, id uint, targetIDs []uint) (*service.TaskDetail, error)
}

type TaskHandler struct {
	tasks TaskService
}

func NewTaskHandler(tasks TaskService) *TaskHandler {
	RegisterValidators()
	return &TaskHandler{tasks: tasks}
}

// LinkRequest names the tasks to link to or unlink from a task.
type LinkRequest struct {
	TargetIDs []uint `json:"targetIds" binding:"required,min=1"`
}

// List godoc
// @Summary List tasks
// @Tags tasks
// @Produce json
// @Param status query string false "Filter by status"
// @Param priority query string false "Filter by priority"
// @Param taskTypeId query int false "Filter by task type"
// @Param parentId query int false "Filter by parent task"
// @Param assignedTo query string false "Filter by assignee"
// @Success 200 {array} TaskResponse
// @Failure 400 {object} ErrorResponse
// @Router /tasks [get]
func (h *TaskHandler) List(c *gin.Context) {
	var filter repository.TaskFilter
	if s := c.Query("status"); s != "" {
		filter.Status = model.TaskStatus(s)
		if !filter.Status.Valid() {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid status filter"})
			return
		}
	}
	if p := c.Query("priority"); p != "" {
		filter.Priority = model.TaskPriority(p)
		if !filter.Priority.Valid() {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid priority filter"})
			return
		}
	}
	if v := c.Query("taskTypeId"); v != "" {
		id, err := strconv.ParseUint(v, 10, 0)
		if err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid taskTypeId filter"})
			return
		}
		filter.TaskTypeID = uint(id)
	}
	if v := c.Query("parentId"); v != "" {
		id, err := strconv.ParseUint(v, 10, 0)
		if err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid parentId filter"})
			return
		}
		parentID := uint(id)
		filter.ParentID = &parentID
	}
	filter.AssignedTo = c.Query("assignedTo")

	tasks, err := h.tasks.List(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toTaskResponses(tasks))
}

// Get godoc
// @Summary Get a task with its subtasks, siblings and related tasks
// @Tags tasks
// @Produce json
// @Param id path int true "Task ID"
// @Success 200 {object} TaskDetailResponse
// @Failure 404 {object} ErrorResponse
// @Router /tasks/{id} [get]
func (h *TaskHandler) Get(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	detail, err := h.tasks.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toTaskDetailResponse(detail))
}

// Related godoc
// @Summary List the related tasks of a task
// @Tags tasks
// @Produce json
// @Param id path int true "Task ID"
// @Success 200 {array} TaskResponse
// @Failure 404 {object} ErrorResponse
// @Router /tasks/{id}/related [get]
func (h *TaskHandler) Related(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	related, err := h.tasks.Related(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toTaskResponses(related))
}

// Create godoc
// @Summary Create a task
// @Tags tasks
// @Accept json
// @Produce json
// @Param body body service.CreateTaskInput true "Task"
// @Success 201 {object} TaskResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /tasks [post]
func (h *TaskHandler) Create(c *gin.Context) {
	var req service.CreateTaskInput
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	if req.CreatedBy == nil {
		if user := middleware.UserID(c); user != "" {
			req.CreatedBy = &user
		}
	}
	task, err := h.tasks.Create(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toTaskResponse(task))
}

// Update godoc
// @Summary Update a task
// @Description Only the fields present in the body change. null clears an optional field.
// @Tags tasks
// @Accept json
// @Produce json
// @Param id path int true "Task ID"
// @Param body body service.UpdateTaskInput true "Changed fields"
// @Success 200 {object} TaskResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /tasks/{id} [put]
func (h *TaskHandler) Update(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req service.UpdateTaskInput
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	task, err := h.tasks.Update(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toTaskResponse(task))
}

// Delete godoc
// @Summary Delete a task without subtasks
// @Tags tasks
// @Produce json
// @Param id path int true "Task ID"
// @Success 200 {object} MessageResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /tasks/{id} [delete]
func (h *TaskHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.tasks.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, MessageResponse{Message: "Task deleted successfully"})
}

// Link godoc
// @Summary Link tasks in both directions
// @Tags tasks
// @Accept json
// @Produce json
// @Param id path int true "Task ID"
// @Param body body LinkRequest true "Targets"
// @Success 200 {object} TaskDetailResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /tasks/{id}/link [post]
func (h *TaskHandler) Link(c *gin.Context) {
	h.relate(c, h.tasks.Link)
}

// Unlink godoc
// @Summary Remove links in both directions
// @Tags tasks
// @Accept json
// @Produce json
// @Param id path int true "Task ID"
// @Param body body LinkRequest true "Targets"
// @Success 200 {object} TaskDetailResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /tasks/{id}/unlink [post]
func (h *TaskHandler) Unlink(c *gin.Context) {
	h.relate(c, h.tasks.Unlink)
}

func (h *TaskHandler) relate(c *gin.Context, op func(context.Context, uint, []uint) (*service.TaskDetail, error)) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req LinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Target task IDs are required"})
		return
	}
	detail, err := op(c.Request.Context(), id, req.TargetIDs)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toTaskDetailResponse(detail))
}
