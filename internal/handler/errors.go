package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"taskmanager/internal/service"
)

func statusFor(kind service.Kind) int {
	switch kind {
	case service.KindValidation:
		return http.StatusBadRequest
	case service.KindNotFound:
		return http.StatusNotFound
	case service.KindForbidden:
		return http.StatusForbidden
	case service.KindConflict:
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

// respondError writes a domain error with its status code. Anything else is
// logged and reported as a generic 500.
func respondError(c *gin.Context, err error) {
	var domainErr *service.Error
	if errors.As(err, &domainErr) {
		c.JSON(statusFor(domainErr.Kind), ErrorResponse{Error: domainErr.Message, Details: domainErr.Details})
		return
	}
	_ = c.Error(err)
	zerolog.Ctx(c.Request.Context()).Error().Err(err).Msg("request failed")
	c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Internal server error"})
}

// respondBindError reports a malformed or invalid request body.
func respondBindError(c *gin.Context, err error) {
	resp := ErrorResponse{Error: "Invalid request"}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		resp.Details = make(map[string]any, len(verrs))
		for _, fe := range verrs {
			resp.Details[fe.Field()] = fe.Tag()
		}
	}
	c.JSON(http.StatusBadRequest, resp)
}

// parseID reads a numeric path parameter. It writes the 400 response itself
// and reports false when the value is not a positive integer.
func parseID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 0)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid ID format"})
		return 0, false
	}
	return uint(id), true
}
