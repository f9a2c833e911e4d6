package handler_test

import (
	"context"
	"net/http"
	"testing"

	"taskmanager/internal/handler"
	"taskmanager/internal/middleware"
	"taskmanager/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockRequirementsImporter struct {
	mock.Mock
}

func (m *MockRequirementsImporter) Import(ctx context.Context, in service.ImportRequirementsInput) (*service.ImportResult, error) {
	args := m.Called(ctx, in)
	res, _ := args.Get(0).(*service.ImportResult)
	return res, args.Error(1)
}

func setupRequirementsTest() (*gin.Engine, *MockRequirementsImporter) {
	r := newRouter()
	r.Use(func(c *gin.Context) {
		c.Set(middleware.UserIDKey, "analyst")
		c.Next()
	})
	mockSvc := new(MockRequirementsImporter)
	h := handler.NewRequirementsHandler(mockSvc)
	r.POST("/requirements/import", h.Import)
	return r, mockSvc
}

func TestRequirementsHandler_Import(t *testing.T) {
	router, mockSvc := setupRequirementsTest()
	mockSvc.On("Import", mock.Anything, mock.MatchedBy(func(in service.ImportRequirementsInput) bool {
		return in.ProjectName == "Search" && len(in.FunctionalRequirements) == 1 &&
			in.CreatedBy != nil && *in.CreatedBy == "analyst"
	})).Return(&service.ImportResult{EpicIDs: []uint{1}, JTBDIDs: []uint{2}, StoryIDs: []uint{3}, TaskIDs: []uint{}}, nil)

	resp := doJSON(router, "POST", "/requirements/import",
		`{"projectName":"Search","functionalRequirements":[{"description":"Find things","priority":"high","userType":"shopper"}]}`)

	assert.Equal(t, http.StatusCreated, resp.Code)
	body := decode[service.ImportResult](t, resp)
	assert.Equal(t, []uint{1}, body.EpicIDs)
	assert.Equal(t, []uint{3}, body.StoryIDs)
	mockSvc.AssertExpectations(t)
}

func TestRequirementsHandler_Import_Errors(t *testing.T) {
	router, mockSvc := setupRequirementsTest()
	mockSvc.On("Import", mock.Anything, mock.Anything).Return(nil, service.Validation("Project name is required"))

	resp := doJSON(router, "POST", "/requirements/import", `{"projectName":[1]}`)
	assert.Equal(t, http.StatusBadRequest, resp.Code)
	assert.Equal(t, "Invalid request", decode[handler.ErrorResponse](t, resp).Error)

	resp = doJSON(router, "POST", "/requirements/import", `{}`)
	assert.Equal(t, http.StatusBadRequest, resp.Code)
	assert.Equal(t, "Project name is required", decode[handler.ErrorResponse](t, resp).Error)
}
