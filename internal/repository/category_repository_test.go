package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategoryRepositoryList(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewCategoryRepository(db)

	rows := sqlmock.NewRows([]string{"id", "name", "description", "color", "created_at"}).
		AddRow("cat-1", "Account", nil, "#8b5cf6", time.Now()).
		AddRow("cat-2", "Hardware", "Physical equipment", "#ef4444", time.Now())

	mock.ExpectQuery("SELECT id, name, description, color, created_at FROM categories ORDER BY name").
		WillReturnRows(rows)

	categories, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, categories, 2)
	assert.Equal(t, "Account", categories[0].Name)
	assert.Nil(t, categories[0].Description)
	require.NotNil(t, categories[1].Description)
	assert.Equal(t, "Physical equipment", *categories[1].Description)
	assert.NoError(t, mock.ExpectationsWereMet())
}
