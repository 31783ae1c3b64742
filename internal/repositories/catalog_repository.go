package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"pos_backend/internal/models"

	"github.com/lib/pq"
)

// CatalogRepository defines database operations for categories and units.
type CatalogRepository interface {
	CreateCategory(executor SQLExecutor, category *models.Category) (int64, error)
	GetCategoryByID(id int64) (*models.Category, error)
	GetCategories(page, pageSize int) ([]models.Category, int, error)
	UpdateCategory(executor SQLExecutor, category *models.Category) error
	DeleteCategory(executor SQLExecutor, id int64) error

	CreateUnit(executor SQLExecutor, unit *models.Unit) (int64, error)
	GetUnits() ([]models.Unit, error)
	DeleteUnit(executor SQLExecutor, id int64) error
}

type catalogRepository struct {
	db *sql.DB
}

// NewCatalogRepository creates a new instance of CatalogRepository.
func NewCatalogRepository(db *sql.DB) CatalogRepository {
	return &catalogRepository{db: db}
}

func (r *catalogRepository) CreateCategory(executor SQLExecutor, category *models.Category) (int64, error) {
	query := `INSERT INTO categories (name, slug, color, parent_id, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6)
	          RETURNING id`
	currentTime := time.Now()
	err := executor.QueryRow(query, category.Name, category.Slug, category.Color, category.ParentID, currentTime, currentTime).Scan(&category.ID)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return 0, fmt.Errorf("%w: category '%s' already exists (constraint: %s)", ErrDuplicateKey, category.Name, pqErr.Constraint)
		}
		return 0, fmt.Errorf("%w: creating category: %w", ErrDatabaseError, err)
	}
	return category.ID, nil
}

func (r *catalogRepository) GetCategoryByID(id int64) (*models.Category, error) {
	category := &models.Category{}
	query := `SELECT id, name, slug, color, parent_id, created_at, updated_at FROM categories WHERE id = $1`
	err := r.db.QueryRow(query, id).Scan(&category.ID, &category.Name, &category.Slug, &category.Color, &category.ParentID, &category.CreatedAt, &category.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting category by ID %d: %w", ErrDatabaseError, id, err)
	}
	return category, nil
}

func (r *catalogRepository) GetCategories(page, pageSize int) ([]models.Category, int, error) {
	categories := []models.Category{}
	totalCount := 0
	query := `SELECT id, name, slug, color, parent_id, created_at, updated_at, COUNT(*) OVER() AS total_count
	          FROM categories
	          ORDER BY name
	          LIMIT $1 OFFSET $2`
	offset := (page - 1) * pageSize
	rows, err := r.db.Query(query, pageSize, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: getting categories: %w", ErrDatabaseError, err)
	}
	defer rows.Close()

	for rows.Next() {
		var category models.Category
		if err := rows.Scan(&category.ID, &category.Name, &category.Slug, &category.Color, &category.ParentID, &category.CreatedAt, &category.UpdatedAt, &totalCount); err != nil {
			return nil, 0, fmt.Errorf("%w: scanning category: %w", ErrDatabaseError, err)
		}
		categories = append(categories, category)
	}
	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("%w: iterating categories: %w", ErrDatabaseError, err)
	}
	return categories, totalCount, nil
}

func (r *catalogRepository) UpdateCategory(executor SQLExecutor, category *models.Category) error {
	query := `UPDATE categories SET name = $1, slug = $2, color = $3, parent_id = $4, updated_at = $5 WHERE id = $6`
	result, err := executor.Exec(query, category.Name, category.Slug, category.Color, category.ParentID, time.Now(), category.ID)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return fmt.Errorf("%w: category '%s' already exists (constraint: %s)", ErrDuplicateKey, category.Name, pqErr.Constraint)
		}
		return fmt.Errorf("%w: updating category ID %d: %w", ErrDatabaseError, category.ID, err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *catalogRepository) DeleteCategory(executor SQLExecutor, id int64) error {
	var count int
	checkQuery := "SELECT COUNT(*) FROM products WHERE category_id = $1"
	err := executor.QueryRow(checkQuery, id).Scan(&count)
	if err != nil {
		return fmt.Errorf("%w: checking if category %d is in use: %w", ErrDatabaseError, id, err)
	}
	if count > 0 {
		return fmt.Errorf("%w: category ID %d is used by %d product(s)", ErrForeignKeyViolation, id, count)
	}

	result, err := executor.Exec(`DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("%w: deleting category ID %d: %w", ErrDatabaseError, id, err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// --- Unit Methods ---

func (r *catalogRepository) CreateUnit(executor SQLExecutor, unit *models.Unit) (int64, error) {
	query := `INSERT INTO units (name, symbol) VALUES ($1, $2) RETURNING id`
	err := executor.QueryRow(query, unit.Name, unit.Symbol).Scan(&unit.ID)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return 0, fmt.Errorf("%w: unit '%s' / '%s' already exists", ErrDuplicateKey, unit.Name, unit.Symbol)
		}
		return 0, fmt.Errorf("%w: creating unit: %w", ErrDatabaseError, err)
	}
	return unit.ID, nil
}

func (r *catalogRepository) GetUnits() ([]models.Unit, error) {
	units := []models.Unit{}
	rows, err := r.db.Query(`SELECT id, name, symbol FROM units ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("%w: getting units: %w", ErrDatabaseError, err)
	}
	defer rows.Close()

	for rows.Next() {
		var unit models.Unit
		if err := rows.Scan(&unit.ID, &unit.Name, &unit.Symbol); err != nil {
			return nil, fmt.Errorf("%w: scanning unit: %w", ErrDatabaseError, err)
		}
		units = append(units, unit)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating units: %w", ErrDatabaseError, err)
	}
	return units, nil
}

func (r *catalogRepository) DeleteUnit(executor SQLExecutor, id int64) error {
	result, err := executor.Exec(`DELETE FROM units WHERE id = $1`, id)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23503" {
			return fmt.Errorf("%w: unit ID %d is referenced by ingredients or consumables", ErrForeignKeyViolation, id)
		}
		return fmt.Errorf("%w: deleting unit ID %d: %w", ErrDatabaseError, id, err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
