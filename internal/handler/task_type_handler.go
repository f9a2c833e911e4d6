package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"taskmanager/internal/model"
	"taskmanager/internal/service"
)

type TaskTypeService interface {
	List(ctx context.Context) ([]model.TaskType, error)
	Get(ctx context.Context, id uint) (*model.TaskType, error)
	Create(ctx context.Context, in service.CreateTaskTypeInput) (*model.TaskType, error)
	Update(ctx context.Context, id uint, in service.UpdateTaskTypeInput) (*model.TaskType, error)
	Delete(ctx context.Context, id uint) error
}

type TaskTypeHandler struct {
	taskTypes TaskTypeService
}

func NewTaskTypeHandler(taskTypes TaskTypeService) *TaskTypeHandler {
	RegisterValidators()
	return &TaskTypeHandler{taskTypes: taskTypes}
}

// List godoc
// @Summary List task types
// @Tags task-types
// @Produce json
// @Success 200 {array} TaskTypeResponse
// @Router /task-types [get]
func (h *TaskTypeHandler) List(c *gin.Context) {
	types, err := h.taskTypes.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	resp := make([]*TaskTypeResponse, len(types))
	for i := range types {
		resp[i] = toTaskTypeResponse(&types[i])
	}
	c.JSON(http.StatusOK, resp)
}

// Get godoc
// @Summary Get a task type
// @Tags task-types
// @Produce json
// @Param id path int true "Task type ID"
// @Success 200 {object} TaskTypeResponse
// @Failure 404 {object} ErrorResponse
// @Router /task-types/{id} [get]
func (h *TaskTypeHandler) Get(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	tt, err := h.taskTypes.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toTaskTypeResponse(tt))
}

// Create godoc
// @Summary Create a task type
// @Tags task-types
// @Accept json
// @Produce json
// @Param body body service.CreateTaskTypeInput true "Task type"
// @Success 201 {object} TaskTypeResponse
// @Failure 400 {object} ErrorResponse
// @Router /task-types [post]
func (h *TaskTypeHandler) Create(c *gin.Context) {
	var req service.CreateTaskTypeInput
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	tt, err := h.taskTypes.Create(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toTaskTypeResponse(tt))
}

// Update godoc
// @Summary Update a user-defined task type
// @Tags task-types
// @Accept json
// @Produce json
// @Param id path int true "Task type ID"
// @Param body body service.UpdateTaskTypeInput true "Changed fields"
// @Success 200 {object} TaskTypeResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /task-types/{id} [put]
func (h *TaskTypeHandler) Update(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req service.UpdateTaskTypeInput
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	tt, err := h.taskTypes.Update(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toTaskTypeResponse(tt))
}

// Delete godoc
// @Summary Delete a user-defined task type
// @Tags task-types
// @Produce json
// @Param id path int true "Task type ID"
// @Success 200 {object} MessageResponse
// @Failure 403 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /task-types/{id} [delete]
func (h *TaskTypeHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.taskTypes.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, MessageResponse{Message: "Task type deleted successfully"})
}
