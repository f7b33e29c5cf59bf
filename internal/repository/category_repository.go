package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/ShivamHirwani/quick-desk/internal/models"
)

// CategoryRepository reads the category reference data.
type CategoryRepository struct {
	db *sqlx.DB
}

func NewCategoryRepository(db *sqlx.DB) *CategoryRepository {
	return &CategoryRepository{db: db}
}

// List retrieves all categories ordered by name.
func (r *CategoryRepository) List(ctx context.Context) ([]*models.Category, error) {
	var categories []*models.Category
	query := "SELECT id, name, description, color, created_at FROM categories ORDER BY name"
	if err := r.db.SelectContext(ctx, &categories, query); err != nil {
		return nil, err
	}
	return categories, nil
}
