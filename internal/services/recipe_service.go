package services

import (
	"database/sql"
	"errors"
	"fmt"

	"pos_backend/internal/models"
	"pos_backend/internal/repositories"
)

// RecipeService manages master recipes and their per-unit ingredient lines.
type RecipeService interface {
	CreateRecipe(recipe *models.MasterRecipe) (*models.MasterRecipe, error)
	GetRecipes() ([]models.MasterRecipe, error)
	GetRecipeByID(id int64) (*models.MasterRecipe, error)
	UpdateRecipe(recipe *models.MasterRecipe) (*models.MasterRecipe, error)
	DeleteRecipe(id int64) error
}

type recipeService struct {
	recipeRepo repositories.RecipeRepository
	db         *sql.DB
}

// NewRecipeService creates a new instance of RecipeService.
func NewRecipeService(rr repositories.RecipeRepository, db *sql.DB) RecipeService {
	return &recipeService{recipeRepo: rr, db: db}
}

func validateRecipe(recipe *models.MasterRecipe) error {
	if recipe.Name == "" {
		return fmt.Errorf("%w: recipe name is required", ErrValidation)
	}
	for i, item := range recipe.Items {
		if item.IngredientID == 0 {
			return fmt.Errorf("%w: recipe line %d has no ingredient", ErrValidation, i+1)
		}
		if item.Quantity < 0 {
			return fmt.Errorf("%w: recipe line %d quantity cannot be negative", ErrValidation, i+1)
		}
	}
	return nil
}

func (s *recipeService) CreateRecipe(recipe *models.MasterRecipe) (*models.MasterRecipe, error) {
	if err := validateRecipe(recipe); err != nil {
		return nil, err
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	id, err := s.recipeRepo.CreateRecipe(tx, recipe)
	if err != nil {
		if errors.Is(err, repositories.ErrForeignKeyViolation) {
			return nil, fmt.Errorf("%w: recipe references a missing ingredient", ErrValidation)
		}
		return nil, fmt.Errorf("failed to create recipe: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit recipe: %w", err)
	}
	return s.GetRecipeByID(id)
}

func (s *recipeService) GetRecipes() ([]models.MasterRecipe, error) {
	return s.recipeRepo.GetRecipes()
}

func (s *recipeService) GetRecipeByID(id int64) (*models.MasterRecipe, error) {
	recipe, err := s.recipeRepo.GetRecipeByID(id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("%w: recipe %d", ErrNotFound, id)
		}
		return nil, err
	}
	return recipe, nil
}

func (s *recipeService) UpdateRecipe(recipe *models.MasterRecipe) (*models.MasterRecipe, error) {
	if err := validateRecipe(recipe); err != nil {
		return nil, err
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := s.recipeRepo.UpdateRecipe(tx, recipe); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("%w: recipe %d", ErrNotFound, recipe.ID)
		}
		if errors.Is(err, repositories.ErrForeignKeyViolation) {
			return nil, fmt.Errorf("%w: recipe references a missing ingredient", ErrValidation)
		}
		return nil, fmt.Errorf("failed to update recipe: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit recipe update: %w", err)
	}
	return s.GetRecipeByID(recipe.ID)
}

func (s *recipeService) DeleteRecipe(id int64) error {
	err := s.recipeRepo.DeleteRecipe(s.db, id)
	if errors.Is(err, repositories.ErrNotFound) {
		return fmt.Errorf("%w: recipe %d", ErrNotFound, id)
	}
	if errors.Is(err, repositories.ErrForeignKeyViolation) {
		return fmt.Errorf("%w: recipe %d is linked to products or variants", ErrValidation, id)
	}
	return err
}
