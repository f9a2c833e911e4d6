package repository_test

import (
	"context"
	"testing"

	"taskmanager/internal/model"
	"taskmanager/internal/repository"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTaskTemplateRepository_GetByID_DecodesStructure(t *testing.T) {
	// Arrange
	gormDB, mock := setupMockDB(t)
	repo := repository.NewTaskTemplateRepository(gormDB)

	structure := `[{"id":1,"title":"Epic {{name}}","taskTypeId":1,"subtasks":[{"id":"s1","title":"Child","taskTypeId":3,"relatedTasks":[1]}]}]`
	mock.ExpectQuery(`SELECT \* FROM "task_templates" WHERE id = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "template_structure", "variables", "default_values"}).
			AddRow(2, "Feature", structure, `["name"]`, `{"name":"search"}`))

	// Act
	tmpl, err := repo.GetByID(context.Background(), 2)

	// Assert
	require.NoError(t, err)
	nodes := tmpl.Nodes()
	require.Len(t, nodes, 1)
	assert.Equal(t, model.LocalID("1"), nodes[0].ID)
	require.Len(t, nodes[0].Subtasks, 1)
	assert.Equal(t, model.LocalID("s1"), nodes[0].Subtasks[0].ID)
	assert.Equal(t, []model.LocalID{"1"}, nodes[0].Subtasks[0].RelatedTasks)
	assert.Equal(t, []string{"name"}, []string(tmpl.Variables))
	assert.Equal(t, map[string]string{"name": "search"}, tmpl.Defaults())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTaskTemplateRepository_GetByID_NotFound(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := repository.NewTaskTemplateRepository(gormDB)

	mock.ExpectQuery(`SELECT \* FROM "task_templates"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.GetByID(context.Background(), 2)

	assert.ErrorIs(t, err, repository.ErrTemplateNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTaskTemplateRepository_Delete_NotFound(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := repository.NewTaskTemplateRepository(gormDB)

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM "task_templates"`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	err := repo.Delete(context.Background(), 2)

	assert.ErrorIs(t, err, repository.ErrTemplateNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
