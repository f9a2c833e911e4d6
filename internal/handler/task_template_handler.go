package handler

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"taskmanager/internal/middleware"
	"taskmanager/internal/model"
	"taskmanager/internal/service"
)

type TemplateService interface {
	List(ctx context.Context) ([]model.TaskTemplate, error)
	Get(ctx context.Context, id uint) (*model.TaskTemplate, error)
	Create(ctx context.Context, in service.CreateTemplateInput) (*model.TaskTemplate, error)
	Update(ctx context.Context, id uint, in service.UpdateTemplateInput) (*model.TaskTemplate, error)
	Delete(ctx context.Context, id uint) error
	Generate(ctx context.Context, id uint, variables map[string]string, actor string) ([]service.GeneratedTask, error)
}

type TaskTemplateHandler struct {
	templates TemplateService
}

func NewTaskTemplateHandler(templates TemplateService) *TaskTemplateHandler {
	RegisterValidators()
	return &TaskTemplateHandler{templates: templates}
}

// GenerateRequest carries caller-supplied variable values. Non-string values
// are formatted with their default text form.
type GenerateRequest struct {
	Variables map[string]any `json:"variables"`
}

func (r GenerateRequest) stringVariables() map[string]string {
	vars := make(map[string]string, len(r.Variables))
	for k, v := range r.Variables {
		switch val := v.(type) {
		case string:
			vars[k] = val
		case nil:
			vars[k] = ""
		default:
			vars[k] = fmt.Sprint(val)
		}
	}
	return vars
}

// List godoc
// @Summary List task templates
// @Tags task-templates
// @Produce json
// @Success 200 {array} TemplateResponse
// @Router /task-templates [get]
func (h *TaskTemplateHandler) List(c *gin.Context) {
	templates, err := h.templates.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	resp := make([]TemplateResponse, len(templates))
	for i := range templates {
		resp[i] = toTemplateResponse(&templates[i])
	}
	c.JSON(http.StatusOK, resp)
}

// Get godoc
// @Summary Get a task template
// @Tags task-templates
// @Produce json
// @Param id path int true "Template ID"
// @Success 200 {object} TemplateResponse
// @Failure 404 {object} ErrorResponse
// @Router /task-templates/{id} [get]
func (h *TaskTemplateHandler) Get(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	t, err := h.templates.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toTemplateResponse(t))
}

// Create godoc
// @Summary Create a task template
// @Tags task-templates
// @Accept json
// @Produce json
// @Param body body service.CreateTemplateInput true "Template"
// @Success 201 {object} TemplateResponse
// @Failure 400 {object} ErrorResponse
// @Router /task-templates [post]
func (h *TaskTemplateHandler) Create(c *gin.Context) {
	var req service.CreateTemplateInput
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	if req.CreatedBy == nil {
		if user := middleware.UserID(c); user != "" {
			req.CreatedBy = &user
		}
	}
	t, err := h.templates.Create(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toTemplateResponse(t))
}

// Update godoc
// @Summary Update a task template
// @Tags task-templates
// @Accept json
// @Produce json
// @Param id path int true "Template ID"
// @Param body body service.UpdateTemplateInput true "Changed fields"
// @Success 200 {object} TemplateResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /task-templates/{id} [put]
func (h *TaskTemplateHandler) Update(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req service.UpdateTemplateInput
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	t, err := h.templates.Update(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toTemplateResponse(t))
}

// Delete godoc
// @Summary Delete a task template
// @Tags task-templates
// @Produce json
// @Param id path int true "Template ID"
// @Success 200 {object} MessageResponse
// @Failure 404 {object} ErrorResponse
// @Router /task-templates/{id} [delete]
func (h *TaskTemplateHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.templates.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, MessageResponse{Message: "Task template deleted successfully"})
}

// Generate godoc
// @Summary Generate tasks from a template
// @Description Variables override the template defaults. Nothing is created if any node fails.
// @Tags task-templates
// @Accept json
// @Produce json
// @Param id path int true "Template ID"
// @Param body body GenerateRequest false "Variable values"
// @Success 201 {object} GenerateResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /task-templates/{id}/generate [post]
func (h *TaskTemplateHandler) Generate(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req GenerateRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
			respondBindError(c, err)
			return
		}
	}
	generated, err := h.templates.Generate(c.Request.Context(), id, req.stringVariables(), middleware.UserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, GenerateResponse{
		Message: "Tasks generated successfully",
		Tasks:   toGeneratedResponses(generated),
	})
}
