package handler_test

import (
	"errors"
	"net/http"
	"testing"

	"taskmanager/internal/handler"
	"taskmanager/internal/model"
	"taskmanager/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func setupTaskTypeTest() (*gin.Engine, *MockTaskTypeService) {
	r := newRouter()
	mockSvc := new(MockTaskTypeService)
	h := handler.NewTaskTypeHandler(mockSvc)

	r.GET("/task-types", h.List)
	r.GET("/task-types/:id", h.Get)
	r.POST("/task-types", h.Create)
	r.PUT("/task-types/:id", h.Update)
	r.DELETE("/task-types/:id", h.Delete)
	return r, mockSvc
}

func TestTaskTypeHandler_List(t *testing.T) {
	// Arrange
	router, mockSvc := setupTaskTypeTest()
	mockSvc.On("List", mock.Anything).Return([]model.TaskType{
		{ID: 1, Name: "Epic", Color: "#9b59b6", IsDefault: true},
	}, nil)

	// Act
	resp := doJSON(router, "GET", "/task-types", "")

	// Assert
	assert.Equal(t, http.StatusOK, resp.Code)
	body := decode[[]map[string]any](t, resp)
	assert.Len(t, body, 1)
	assert.Equal(t, "Epic", body[0]["name"])
	assert.Equal(t, true, body[0]["isDefault"])
	mockSvc.AssertExpectations(t)
}

func TestTaskTypeHandler_Create(t *testing.T) {
	// Arrange
	router, mockSvc := setupTaskTypeTest()
	mockSvc.On("Create", mock.Anything, service.CreateTaskTypeInput{Name: "Chore"}).
		Return(&model.TaskType{ID: 6, Name: "Chore", Color: model.DefaultTaskTypeColor}, nil)

	// Act
	resp := doJSON(router, "POST", "/task-types", `{"name":"Chore","unknown":true}`)

	// Assert
	assert.Equal(t, http.StatusCreated, resp.Code)
	body := decode[handler.TaskTypeResponse](t, resp)
	assert.Equal(t, uint(6), body.ID)
	assert.Equal(t, "#3498db", body.Color)
	mockSvc.AssertExpectations(t)
}

func TestTaskTypeHandler_Create_InvalidColor(t *testing.T) {
	router, mockSvc := setupTaskTypeTest()

	resp := doJSON(router, "POST", "/task-types", `{"name":"Chore","color":"blue"}`)

	assert.Equal(t, http.StatusBadRequest, resp.Code)
	body := decode[handler.ErrorResponse](t, resp)
	assert.Equal(t, "hexcolor", body.Details["color"])
	mockSvc.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestTaskTypeHandler_ErrorMapping(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		msg    string
	}{
		{"not found", service.NotFound("Task type not found"), http.StatusNotFound, "Task type not found"},
		{"forbidden", service.Forbidden("Default task types cannot be deleted"), http.StatusForbidden, "Default task types cannot be deleted"},
		{"conflict", service.Conflict("Task type is still used by tasks").With("tasksCount", 2), http.StatusConflict, "Task type is still used by tasks"},
		{"internal", errors.New("connection reset"), http.StatusInternalServerError, "Internal server error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router, mockSvc := setupTaskTypeTest()
			mockSvc.On("Delete", mock.Anything, uint(3)).Return(tt.err)

			resp := doJSON(router, "DELETE", "/task-types/3", "")

			assert.Equal(t, tt.status, resp.Code)
			body := decode[handler.ErrorResponse](t, resp)
			assert.Equal(t, tt.msg, body.Error)
			if tt.status == http.StatusConflict {
				assert.Equal(t, float64(2), body.Details["tasksCount"])
			}
		})
	}
}

func TestTaskTypeHandler_Update_Forbidden(t *testing.T) {
	router, mockSvc := setupTaskTypeTest()
	mockSvc.On("Update", mock.Anything, uint(1), mock.MatchedBy(func(in service.UpdateTaskTypeInput) bool {
		return in.Color.Present() && in.Color.Value == "#000000" && !in.Name.Set
	})).Return(nil, service.Forbidden("Default task types cannot be modified"))

	resp := doJSON(router, "PUT", "/task-types/1", `{"color":"#000000"}`)

	assert.Equal(t, http.StatusForbidden, resp.Code)
	mockSvc.AssertExpectations(t)
}

func TestTaskTypeHandler_InvalidID(t *testing.T) {
	router, _ := setupTaskTypeTest()

	for _, path := range []string{"/task-types/abc", "/task-types/0", "/task-types/-1"} {
		resp := doJSON(router, "GET", path, "")
		assert.Equal(t, http.StatusBadRequest, resp.Code, path)
	}
}
