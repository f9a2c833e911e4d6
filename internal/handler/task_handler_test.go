package handler_test

import (
	"net/http"
	"testing"

	"taskmanager/internal/handler"
	"taskmanager/internal/middleware"
	"taskmanager/internal/model"
	"taskmanager/internal/repository"
	"taskmanager/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func setupTaskTest(user string) (*gin.Engine, *MockTaskService) {
	r := newRouter()
	if user != "" {
		r.Use(func(c *gin.Context) {
			c.Set(middleware.UserIDKey, user)
			c.Next()
		})
	}
	mockSvc := new(MockTaskService)
	h := handler.NewTaskHandler(mockSvc)

	r.GET("/tasks", h.List)
	r.GET("/tasks/:id", h.Get)
	r.GET("/tasks/:id/related", h.Related)
	r.POST("/tasks", h.Create)
	r.PUT("/tasks/:id", h.Update)
	r.DELETE("/tasks/:id", h.Delete)
	r.POST("/tasks/:id/link", h.Link)
	r.POST("/tasks/:id/unlink", h.Unlink)
	return r, mockSvc
}

func sampleTask(id uint, title string) model.Task {
	return model.Task{
		ID:         id,
		Title:      title,
		Status:     model.StatusToDo,
		Priority:   model.PriorityMedium,
		TaskTypeID: 3,
		TaskType:   &model.TaskType{ID: 3, Name: "Task", Color: "#3498db", IsDefault: true},
	}
}

func TestTaskHandler_List_Filters(t *testing.T) {
	// Arrange
	router, mockSvc := setupTaskTest("")
	parent := uint(4)
	mockSvc.On("List", mock.Anything, repository.TaskFilter{
		Status:     model.StatusDone,
		TaskTypeID: 2,
		ParentID:   &parent,
		AssignedTo: "alice",
	}).Return([]model.Task{sampleTask(9, "Done child")}, nil)

	// Act
	resp := doJSON(router, "GET", "/tasks?status=DONE&taskTypeId=2&parentId=4&assignedTo=alice", "")

	// Assert
	assert.Equal(t, http.StatusOK, resp.Code)
	body := decode[[]handler.TaskResponse](t, resp)
	require.Len(t, body, 1)
	assert.Equal(t, "Done child", body[0].Title)
	assert.Equal(t, []uint{}, body[0].RelatedTasks)
	mockSvc.AssertExpectations(t)
}

func TestTaskHandler_List_InvalidFilter(t *testing.T) {
	router, mockSvc := setupTaskTest("")

	for _, q := range []string{"status=BLOCKED", "priority=NOW", "taskTypeId=x", "parentId=-1"} {
		resp := doJSON(router, "GET", "/tasks?"+q, "")
		assert.Equal(t, http.StatusBadRequest, resp.Code, q)
	}
	mockSvc.AssertNotCalled(t, "List", mock.Anything, mock.Anything)
}

func TestTaskHandler_Create_DefaultsCreatedByToCaller(t *testing.T) {
	// Arrange
	router, mockSvc := setupTaskTest("planner")
	created := sampleTask(1, "Buy milk")
	mockSvc.On("Create", mock.Anything, mock.MatchedBy(func(in service.CreateTaskInput) bool {
		return in.Title == "Buy milk" && in.TaskTypeID == 3 && in.CreatedBy != nil && *in.CreatedBy == "planner"
	})).Return(&created, nil)

	// Act
	resp := doJSON(router, "POST", "/tasks", `{"title":"Buy milk","taskTypeId":3}`)

	// Assert
	assert.Equal(t, http.StatusCreated, resp.Code)
	body := decode[map[string]any](t, resp)
	assert.Equal(t, "TO_DO", body["status"])
	assert.Equal(t, "MEDIUM", body["priority"])
	assert.Equal(t, "Task", body["taskType"].(map[string]any)["name"])
	mockSvc.AssertExpectations(t)
}

func TestTaskHandler_Create_InvalidEnum(t *testing.T) {
	router, mockSvc := setupTaskTest("")

	resp := doJSON(router, "POST", "/tasks", `{"title":"x","taskTypeId":3,"status":"BLOCKED","priority":"SOON"}`)

	assert.Equal(t, http.StatusBadRequest, resp.Code)
	body := decode[handler.ErrorResponse](t, resp)
	assert.Equal(t, "taskstatus", body.Details["status"])
	assert.Equal(t, "taskpriority", body.Details["priority"])
	mockSvc.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestTaskHandler_Create_ServiceValidation(t *testing.T) {
	router, mockSvc := setupTaskTest("")
	mockSvc.On("Create", mock.Anything, mock.Anything).Return(nil, service.Validation("Title is required"))

	resp := doJSON(router, "POST", "/tasks", `{"taskTypeId":3}`)

	assert.Equal(t, http.StatusBadRequest, resp.Code)
	assert.Equal(t, "Title is required", decode[handler.ErrorResponse](t, resp).Error)
}

func TestTaskHandler_Get_Detail(t *testing.T) {
	// Arrange
	router, mockSvc := setupTaskTest("")
	parent := sampleTask(1, "Epic")
	task := sampleTask(2, "Child")
	task.ParentID = &parent.ID
	task.Parent = &parent
	task.SetRelatedIDs([]uint{5})
	task.Subtasks = []model.Task{sampleTask(7, "Grandchild")}
	mockSvc.On("Get", mock.Anything, uint(2)).Return(&service.TaskDetail{
		Task:         &task,
		RelatedTasks: []model.Task{sampleTask(5, "Related")},
		Siblings:     []model.Task{sampleTask(3, "Sibling")},
	}, nil)

	// Act
	resp := doJSON(router, "GET", "/tasks/2", "")

	// Assert
	assert.Equal(t, http.StatusOK, resp.Code)
	body := decode[handler.TaskDetailResponse](t, resp)
	assert.Equal(t, "Child", body.Title)
	require.NotNil(t, body.Parent)
	assert.Equal(t, "Epic", body.Parent.Title)
	require.Len(t, body.RelatedTasks, 1)
	assert.Equal(t, "Related", body.RelatedTasks[0].Title)
	require.Len(t, body.Subtasks, 1)
	assert.Equal(t, uint(7), body.Subtasks[0].ID)
	require.Len(t, body.Siblings, 1)
	assert.Equal(t, uint(3), body.Siblings[0].ID)
}

func TestTaskHandler_Update_PassesPresence(t *testing.T) {
	router, mockSvc := setupTaskTest("")
	updated := sampleTask(2, "Renamed")
	mockSvc.On("Update", mock.Anything, uint(2), mock.MatchedBy(func(in service.UpdateTaskInput) bool {
		return in.Title.Present() && in.Title.Value == "Renamed" &&
			in.Description.Set && in.Description.Null &&
			!in.Status.Set && !in.ParentID.Set
	})).Return(&updated, nil)

	resp := doJSON(router, "PUT", "/tasks/2", `{"title":"Renamed","description":null}`)

	assert.Equal(t, http.StatusOK, resp.Code)
	mockSvc.AssertExpectations(t)
}

func TestTaskHandler_Delete(t *testing.T) {
	router, mockSvc := setupTaskTest("")
	mockSvc.On("Delete", mock.Anything, uint(1)).
		Return(service.Conflict("Cannot delete task with subtasks. Delete all subtasks first or update their parent.").With("subtasksCount", int64(3))).Once()
	mockSvc.On("Delete", mock.Anything, uint(1)).Return(nil).Once()

	resp := doJSON(router, "DELETE", "/tasks/1", "")
	assert.Equal(t, http.StatusConflict, resp.Code)
	assert.Equal(t, float64(3), decode[handler.ErrorResponse](t, resp).Details["subtasksCount"])

	resp = doJSON(router, "DELETE", "/tasks/1", "")
	assert.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, "Task deleted successfully", decode[handler.MessageResponse](t, resp).Message)
}

func TestTaskHandler_Link(t *testing.T) {
	// Arrange
	router, mockSvc := setupTaskTest("")
	task := sampleTask(1, "A")
	task.SetRelatedIDs([]uint{2})
	mockSvc.On("Link", mock.Anything, uint(1), []uint{2}).Return(&service.TaskDetail{
		Task:         &task,
		RelatedTasks: []model.Task{sampleTask(2, "B")},
	}, nil)

	// Act
	resp := doJSON(router, "POST", "/tasks/1/link", `{"targetIds":[2]}`)

	// Assert
	assert.Equal(t, http.StatusOK, resp.Code)
	body := decode[handler.TaskDetailResponse](t, resp)
	require.Len(t, body.RelatedTasks, 1)
	assert.Equal(t, "B", body.RelatedTasks[0].Title)
	assert.Equal(t, []handler.TaskResponse{}, body.Siblings)
	mockSvc.AssertExpectations(t)
}

func TestTaskHandler_Link_RequiresTargets(t *testing.T) {
	router, mockSvc := setupTaskTest("")

	for _, body := range []string{``, `{}`, `{"targetIds":[]}`, `{"targetIds":"2"}`} {
		resp := doJSON(router, "POST", "/tasks/1/unlink", body)
		assert.Equal(t, http.StatusBadRequest, resp.Code, body)
		assert.Equal(t, "Target task IDs are required", decode[handler.ErrorResponse](t, resp).Error)
	}
	mockSvc.AssertNotCalled(t, "Unlink", mock.Anything, mock.Anything, mock.Anything)
}

func TestTaskHandler_Related_NotFound(t *testing.T) {
	router, mockSvc := setupTaskTest("")
	mockSvc.On("Related", mock.Anything, uint(8)).Return(nil, service.NotFound("Task not found"))

	resp := doJSON(router, "GET", "/tasks/8/related", "")

	assert.Equal(t, http.StatusNotFound, resp.Code)
	assert.Equal(t, "Task not found", decode[handler.ErrorResponse](t, resp).Error)
}
