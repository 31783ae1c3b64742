package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"pos_backend/internal/models"

	"github.com/lib/pq"
)

// RecipeRepository defines database operations for master recipes.
type RecipeRepository interface {
	CreateRecipe(executor SQLExecutor, recipe *models.MasterRecipe) (int64, error)
	GetRecipeByID(id int64) (*models.MasterRecipe, error)
	GetRecipes() ([]models.MasterRecipe, error)
	UpdateRecipe(executor SQLExecutor, recipe *models.MasterRecipe) error
	DeleteRecipe(executor SQLExecutor, id int64) error

	// GetRecipeItems returns the per-unit consumption lines of a recipe,
	// keyed by recipe id. Used inside checkout transactions.
	GetRecipeItems(executor SQLExecutor, recipeID int64) ([]models.MasterRecipeItem, error)
}

type recipeRepository struct {
	db *sql.DB
}

// NewRecipeRepository creates a new instance of RecipeRepository.
func NewRecipeRepository(db *sql.DB) RecipeRepository {
	return &recipeRepository{db: db}
}

func (r *recipeRepository) CreateRecipe(executor SQLExecutor, recipe *models.MasterRecipe) (int64, error) {
	query := `INSERT INTO master_recipes (name, description, created_at, updated_at)
	          VALUES ($1, $2, $3, $4)
	          RETURNING id`
	currentTime := time.Now()
	err := executor.QueryRow(query, recipe.Name, recipe.Description, currentTime, currentTime).Scan(&recipe.ID)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return 0, fmt.Errorf("%w: recipe '%s' already exists", ErrDuplicateKey, recipe.Name)
		}
		return 0, fmt.Errorf("%w: creating recipe: %w", ErrDatabaseError, err)
	}
	if err := r.insertItems(executor, recipe); err != nil {
		return 0, err
	}
	return recipe.ID, nil
}

func (r *recipeRepository) insertItems(executor SQLExecutor, recipe *models.MasterRecipe) error {
	for i := range recipe.Items {
		item := &recipe.Items[i]
		item.RecipeID = recipe.ID
		err := executor.QueryRow(
			`INSERT INTO master_recipe_items (recipe_id, ingredient_id, quantity, is_percentage)
			 VALUES ($1, $2, $3, $4) RETURNING id`,
			item.RecipeID, item.IngredientID, item.Quantity, item.IsPercentage,
		).Scan(&item.ID)
		if err != nil {
			var pqErr *pq.Error
			if errors.As(err, &pqErr) && pqErr.Code.Name() == "foreign_key_violation" {
				return fmt.Errorf("%w: recipe item references missing ingredient %d", ErrForeignKeyViolation, item.IngredientID)
			}
			return fmt.Errorf("%w: creating recipe item: %w", ErrDatabaseError, err)
		}
	}
	return nil
}

func (r *recipeRepository) GetRecipeByID(id int64) (*models.MasterRecipe, error) {
	recipe := &models.MasterRecipe{}
	query := `SELECT id, name, description, created_at, updated_at FROM master_recipes WHERE id = $1`
	err := r.db.QueryRow(query, id).Scan(&recipe.ID, &recipe.Name, &recipe.Description, &recipe.CreatedAt, &recipe.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting recipe by ID %d: %w", ErrDatabaseError, id, err)
	}
	recipe.Items, err = r.GetRecipeItems(r.db, id)
	if err != nil {
		return nil, err
	}
	return recipe, nil
}

func (r *recipeRepository) GetRecipes() ([]models.MasterRecipe, error) {
	recipes := []models.MasterRecipe{}
	rows, err := r.db.Query(`SELECT id, name, description, created_at, updated_at FROM master_recipes ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("%w: getting recipes: %w", ErrDatabaseError, err)
	}
	defer rows.Close()
	for rows.Next() {
		var recipe models.MasterRecipe
		if err := rows.Scan(&recipe.ID, &recipe.Name, &recipe.Description, &recipe.CreatedAt, &recipe.UpdatedAt); err != nil {
			return nil, fmt.Errorf("%w: scanning recipe: %w", ErrDatabaseError, err)
		}
		recipes = append(recipes, recipe)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating recipes: %w", ErrDatabaseError, err)
	}
	for i := range recipes {
		if recipes[i].Items, err = r.GetRecipeItems(r.db, recipes[i].ID); err != nil {
			return nil, err
		}
	}
	return recipes, nil
}

func (r *recipeRepository) UpdateRecipe(executor SQLExecutor, recipe *models.MasterRecipe) error {
	query := `UPDATE master_recipes SET name = $1, description = $2, updated_at = $3 WHERE id = $4`
	result, err := executor.Exec(query, recipe.Name, recipe.Description, time.Now(), recipe.ID)
	if err != nil {
		return fmt.Errorf("%w: updating recipe ID %d: %w", ErrDatabaseError, recipe.ID, err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return ErrNotFound
	}
	// Replace items wholesale, the same scheme products use for children.
	if _, err := executor.Exec(`DELETE FROM master_recipe_items WHERE recipe_id = $1`, recipe.ID); err != nil {
		return fmt.Errorf("%w: clearing items of recipe ID %d: %w", ErrDatabaseError, recipe.ID, err)
	}
	return r.insertItems(executor, recipe)
}

func (r *recipeRepository) DeleteRecipe(executor SQLExecutor, id int64) error {
	if _, err := executor.Exec(`DELETE FROM master_recipe_items WHERE recipe_id = $1`, id); err != nil {
		return fmt.Errorf("%w: clearing items of recipe ID %d: %w", ErrDatabaseError, id, err)
	}
	result, err := executor.Exec(`DELETE FROM master_recipes WHERE id = $1`, id)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23503" {
			return fmt.Errorf("%w: recipe ID %d is linked to products or variants", ErrForeignKeyViolation, id)
		}
		return fmt.Errorf("%w: deleting recipe ID %d: %w", ErrDatabaseError, id, err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *recipeRepository) GetRecipeItems(executor SQLExecutor, recipeID int64) ([]models.MasterRecipeItem, error) {
	items := []models.MasterRecipeItem{}
	query := `SELECT ri.id, ri.recipe_id, ri.ingredient_id, ri.quantity, ri.is_percentage, i.name
	          FROM master_recipe_items ri
	          JOIN ingredients i ON ri.ingredient_id = i.id
	          WHERE ri.recipe_id = $1
	          ORDER BY ri.id`
	rows, err := executor.Query(query, recipeID)
	if err != nil {
		return nil, fmt.Errorf("%w: getting items for recipe %d: %w", ErrDatabaseError, recipeID, err)
	}
	defer rows.Close()
	for rows.Next() {
		var item models.MasterRecipeItem
		var name string
		if err := rows.Scan(&item.ID, &item.RecipeID, &item.IngredientID, &item.Quantity, &item.IsPercentage, &name); err != nil {
			return nil, fmt.Errorf("%w: scanning recipe item: %w", ErrDatabaseError, err)
		}
		item.IngredientName = &name
		items = append(items, item)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating recipe items: %w", ErrDatabaseError, err)
	}
	return items, nil
}
