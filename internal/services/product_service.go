package services

import (
	"database/sql"
	"errors"
	"fmt"
	"math"

	"pos_backend/internal/models"
	"pos_backend/internal/repositories"
)

// ProductService manages the sellable catalog and its derived stock view.
type ProductService interface {
	CreateProduct(product *models.Product) (*models.Product, error)
	GetProducts(categoryID *int64, page, pageSize int) ([]models.Product, int, error)
	GetProductByID(id int64) (*models.Product, error)
	UpdateProduct(product *models.Product) (*models.Product, error)
	DeleteProduct(id int64) error
}

type productService struct {
	productRepo repositories.ProductRepository
	recipeRepo  repositories.RecipeRepository
	stockRepo   repositories.StockRepository
	db          *sql.DB
}

// NewProductService creates a new instance of ProductService.
func NewProductService(
	pr repositories.ProductRepository,
	rr repositories.RecipeRepository,
	sr repositories.StockRepository,
	db *sql.DB,
) ProductService {
	return &productService{productRepo: pr, recipeRepo: rr, stockRepo: sr, db: db}
}

func (s *productService) CreateProduct(product *models.Product) (*models.Product, error) {
	if err := validateProduct(product); err != nil {
		return nil, err
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	id, err := s.productRepo.CreateProduct(tx, product)
	if err != nil {
		if errors.Is(err, repositories.ErrForeignKeyViolation) {
			return nil, fmt.Errorf("%w: product references a missing category, recipe, ingredient or process group", ErrValidation)
		}
		return nil, fmt.Errorf("failed to create product: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit product: %w", err)
	}
	return s.GetProductByID(id)
}

func validateProduct(product *models.Product) error {
	if product.Name == "" {
		return fmt.Errorf("%w: product name is required", ErrValidation)
	}
	if product.Price < 0 {
		return fmt.Errorf("%w: product price cannot be negative", ErrValidation)
	}
	if product.HasVariants && len(product.Variants) == 0 {
		return fmt.Errorf("%w: product marked has_variants but no variants given", ErrValidation)
	}
	for i := range product.Variants {
		if product.Variants[i].Name == "" {
			return fmt.Errorf("%w: variant %d name is required", ErrValidation, i+1)
		}
		if product.Variants[i].Price < 0 {
			return fmt.Errorf("%w: variant %q price cannot be negative", ErrValidation, product.Variants[i].Name)
		}
	}
	return nil
}

func (s *productService) GetProducts(categoryID *int64, page, pageSize int) ([]models.Product, int, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	products, totalCount, err := s.productRepo.GetProducts(categoryID, page, pageSize)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to get products: %w", err)
	}
	for i := range products {
		s.projectCalculatedStock(&products[i])
	}
	return products, totalCount, nil
}

func (s *productService) GetProductByID(id int64) (*models.Product, error) {
	product, err := s.productRepo.GetProductByID(id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("%w: product %d", ErrNotFound, id)
		}
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	s.projectCalculatedStock(product)
	return product, nil
}

func (s *productService) UpdateProduct(product *models.Product) (*models.Product, error) {
	if err := validateProduct(product); err != nil {
		return nil, err
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := s.productRepo.UpdateProduct(tx, product); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("%w: product %d", ErrNotFound, product.ID)
		}
		if errors.Is(err, repositories.ErrForeignKeyViolation) {
			return nil, fmt.Errorf("%w: product references a missing category, recipe, ingredient or process group", ErrValidation)
		}
		return nil, fmt.Errorf("failed to update product: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit product update: %w", err)
	}
	return s.GetProductByID(product.ID)
}

func (s *productService) DeleteProduct(id int64) error {
	err := s.productRepo.DeleteProduct(s.db, id)
	if errors.Is(err, repositories.ErrNotFound) {
		return fmt.Errorf("%w: product %d", ErrNotFound, id)
	}
	return err
}

// projectCalculatedStock fills the CalculatedStock field for recipe-backed
// items: how many whole units the current ingredient stock could still make.
// Items with their own tracked stock keep it nil, as do items without a
// recipe. Failures here degrade the view, never the catalog read itself.
func (s *productService) projectCalculatedStock(product *models.Product) {
	if !product.TrackStock && product.MasterRecipeID != nil {
		product.CalculatedStock = s.calculateFromRecipe(*product.MasterRecipeID, product.OutputWeight)
	}
	for i := range product.Variants {
		v := &product.Variants[i]
		if v.StockQuantity != nil {
			continue
		}
		recipeID := v.MasterRecipeID
		if recipeID == nil {
			recipeID = product.MasterRecipeID
		}
		if recipeID != nil {
			v.CalculatedStock = s.calculateFromRecipe(*recipeID, v.OutputWeight)
		}
	}
}

// calculateFromRecipe returns floor(min over positive recipe lines of
// ingredient stock / per-unit consumption), or nil when the recipe constrains
// nothing.
func (s *productService) calculateFromRecipe(recipeID int64, outputWeight *float64) *float64 {
	items, err := s.recipeRepo.GetRecipeItems(s.db, recipeID)
	if err != nil {
		return nil
	}
	weight := 0.0
	if outputWeight != nil {
		weight = *outputWeight
	}

	limit := math.Inf(1)
	for _, item := range items {
		perUnit := item.Quantity
		if item.IsPercentage {
			perUnit = item.Quantity / 100 * weight
		}
		if perUnit <= 0 {
			continue
		}
		ing, err := s.stockRepo.GetIngredientByID(item.IngredientID)
		if err != nil {
			return nil
		}
		if units := ing.StockQuantity / perUnit; units < limit {
			limit = units
		}
	}
	if math.IsInf(limit, 1) {
		return nil
	}
	result := math.Floor(limit)
	if result < 0 {
		result = 0
	}
	return &result
}
