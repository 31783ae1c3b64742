package services

import (
	"database/sql"
	"errors"
	"fmt"

	"pos_backend/internal/models"
	"pos_backend/internal/repositories"
)

// CatalogService manages categories and measurement units.
type CatalogService interface {
	CreateCategory(category *models.Category) (*models.Category, error)
	GetCategories(page, pageSize int) ([]models.Category, int, error)
	GetCategoryByID(id int64) (*models.Category, error)
	UpdateCategory(category *models.Category) (*models.Category, error)
	DeleteCategory(id int64) error

	CreateUnit(unit *models.Unit) (*models.Unit, error)
	GetUnits() ([]models.Unit, error)
	DeleteUnit(id int64) error
}

type catalogService struct {
	catalogRepo repositories.CatalogRepository
	db          *sql.DB
}

// NewCatalogService creates a new instance of CatalogService.
func NewCatalogService(cr repositories.CatalogRepository, db *sql.DB) CatalogService {
	return &catalogService{catalogRepo: cr, db: db}
}

func (s *catalogService) CreateCategory(category *models.Category) (*models.Category, error) {
	if category.Name == "" {
		return nil, fmt.Errorf("%w: category name is required", ErrValidation)
	}
	id, err := s.catalogRepo.CreateCategory(s.db, category)
	if err != nil {
		if errors.Is(err, repositories.ErrDuplicateKey) {
			return nil, fmt.Errorf("%w: category %q already exists", ErrValidation, category.Name)
		}
		return nil, fmt.Errorf("failed to create category: %w", err)
	}
	return s.catalogRepo.GetCategoryByID(id)
}

func (s *catalogService) GetCategories(page, pageSize int) ([]models.Category, int, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	return s.catalogRepo.GetCategories(page, pageSize)
}

func (s *catalogService) GetCategoryByID(id int64) (*models.Category, error) {
	category, err := s.catalogRepo.GetCategoryByID(id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("%w: category %d", ErrNotFound, id)
		}
		return nil, err
	}
	return category, nil
}

func (s *catalogService) UpdateCategory(category *models.Category) (*models.Category, error) {
	if category.Name == "" {
		return nil, fmt.Errorf("%w: category name is required", ErrValidation)
	}
	if err := s.catalogRepo.UpdateCategory(s.db, category); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("%w: category %d", ErrNotFound, category.ID)
		}
		return nil, fmt.Errorf("failed to update category: %w", err)
	}
	return s.catalogRepo.GetCategoryByID(category.ID)
}

func (s *catalogService) DeleteCategory(id int64) error {
	err := s.catalogRepo.DeleteCategory(s.db, id)
	if errors.Is(err, repositories.ErrNotFound) {
		return fmt.Errorf("%w: category %d", ErrNotFound, id)
	}
	if errors.Is(err, repositories.ErrForeignKeyViolation) {
		return fmt.Errorf("%w: category %d still has products", ErrValidation, id)
	}
	return err
}

func (s *catalogService) CreateUnit(unit *models.Unit) (*models.Unit, error) {
	if unit.Name == "" {
		return nil, fmt.Errorf("%w: unit name is required", ErrValidation)
	}
	id, err := s.catalogRepo.CreateUnit(s.db, unit)
	if err != nil {
		if errors.Is(err, repositories.ErrDuplicateKey) {
			return nil, fmt.Errorf("%w: unit %q already exists", ErrValidation, unit.Name)
		}
		return nil, fmt.Errorf("failed to create unit: %w", err)
	}
	unit.ID = id
	return unit, nil
}

func (s *catalogService) GetUnits() ([]models.Unit, error) {
	return s.catalogRepo.GetUnits()
}

func (s *catalogService) DeleteUnit(id int64) error {
	err := s.catalogRepo.DeleteUnit(s.db, id)
	if errors.Is(err, repositories.ErrNotFound) {
		return fmt.Errorf("%w: unit %d", ErrNotFound, id)
	}
	if errors.Is(err, repositories.ErrForeignKeyViolation) {
		return fmt.Errorf("%w: unit %d is still in use", ErrValidation, id)
	}
	return err
}
