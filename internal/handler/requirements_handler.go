package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"taskmanager/internal/middleware"
	"taskmanager/internal/service"
)

type RequirementsImporter interface {
	Import(ctx context.Context, in service.ImportRequirementsInput) (*service.ImportResult, error)
}

type RequirementsHandler struct {
	importer RequirementsImporter
}

func NewRequirementsHandler(importer RequirementsImporter) *RequirementsHandler {
	return &RequirementsHandler{importer: importer}
}

// Import godoc
// @Summary Import gathered requirements as a task hierarchy
// @Tags requirements
// @Accept json
// @Produce json
// @Param body body service.ImportRequirementsInput true "Requirements"
// @Success 201 {object} service.ImportResult
// @Failure 400 {object} ErrorResponse
// @Router /requirements/import [post]
func (h *RequirementsHandler) Import(c *gin.Context) {
	var req service.ImportRequirementsInput
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	if req.CreatedBy == nil {
		if user := middleware.UserID(c); user != "" {
			req.CreatedBy = &user
		}
	}
	res, err := h.importer.Import(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, res)
}
