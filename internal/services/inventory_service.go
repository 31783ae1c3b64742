package services

import (
	"database/sql"
	"errors"
	"fmt"

	"pos_backend/internal/models"
	"pos_backend/internal/repositories"
)

// --- DTOs ---

// StockCorrectionRequest sets an absolute stock level for one entity. The
// service turns it into a delta so the ledger stays append-only.
type StockCorrectionRequest struct {
	EntityType  string  `json:"entity_type" binding:"required"`
	EntityID    int64   `json:"entity_id" binding:"required"`
	NewQuantity float64 `json:"new_quantity"`
}

// StockCorrectionResult reports what the correction actually changed.
type StockCorrectionResult struct {
	EntityType   string  `json:"entity_type"`
	EntityID     int64   `json:"entity_id"`
	EntityName   string  `json:"entity_name"`
	ChangeAmount float64 `json:"change_amount"`
	BalanceAfter float64 `json:"balance_after"`
}

// --- InventoryService Interface ---

// InventoryService manages raw materials and the inventory ledger.
type InventoryService interface {
	CreateIngredient(ing *models.Ingredient) (*models.Ingredient, error)
	GetIngredients() ([]models.Ingredient, error)
	GetIngredientByID(id int64) (*models.Ingredient, error)
	UpdateIngredient(ing *models.Ingredient) (*models.Ingredient, error)
	DeleteIngredient(id int64) error

	CreateConsumable(cons *models.Consumable) (*models.Consumable, error)
	GetConsumables() ([]models.Consumable, error)
	GetConsumableByID(id int64) (*models.Consumable, error)
	UpdateConsumable(cons *models.Consumable) (*models.Consumable, error)
	DeleteConsumable(id int64) error

	CorrectStock(req StockCorrectionRequest) (*StockCorrectionResult, error)
	GetTransactions(filters models.TransactionFilters) ([]models.InventoryTransaction, int, error)
}

type inventoryService struct {
	stockRepo   repositories.StockRepository
	productRepo repositories.ProductRepository
	txnRepo     repositories.TransactionRepository
	ledger      *StockLedger
	db          *sql.DB
}

// NewInventoryService creates a new instance of InventoryService.
func NewInventoryService(
	sr repositories.StockRepository,
	pr repositories.ProductRepository,
	tr repositories.TransactionRepository,
	ledger *StockLedger,
	db *sql.DB,
) InventoryService {
	return &inventoryService{stockRepo: sr, productRepo: pr, txnRepo: tr, ledger: ledger, db: db}
}

// --- Ingredients ---

func (s *inventoryService) CreateIngredient(ing *models.Ingredient) (*models.Ingredient, error) {
	if ing.Name == "" {
		return nil, fmt.Errorf("%w: ingredient name is required", ErrValidation)
	}
	id, err := s.stockRepo.CreateIngredient(s.db, ing)
	if err != nil {
		return nil, fmt.Errorf("failed to create ingredient: %w", err)
	}
	return s.stockRepo.GetIngredientByID(id)
}

func (s *inventoryService) GetIngredients() ([]models.Ingredient, error) {
	return s.stockRepo.GetIngredients()
}

func (s *inventoryService) GetIngredientByID(id int64) (*models.Ingredient, error) {
	ing, err := s.stockRepo.GetIngredientByID(id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("%w: ingredient %d", ErrNotFound, id)
		}
		return nil, err
	}
	return ing, nil
}

// UpdateIngredient changes descriptive fields only. Stock levels are never
// written here; corrections go through CorrectStock so the ledger stays
// complete.
func (s *inventoryService) UpdateIngredient(ing *models.Ingredient) (*models.Ingredient, error) {
	if ing.Name == "" {
		return nil, fmt.Errorf("%w: ingredient name is required", ErrValidation)
	}
	if err := s.stockRepo.UpdateIngredient(s.db, ing); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("%w: ingredient %d", ErrNotFound, ing.ID)
		}
		return nil, fmt.Errorf("failed to update ingredient: %w", err)
	}
	return s.stockRepo.GetIngredientByID(ing.ID)
}

func (s *inventoryService) DeleteIngredient(id int64) error {
	err := s.stockRepo.DeleteIngredient(s.db, id)
	if errors.Is(err, repositories.ErrNotFound) {
		return fmt.Errorf("%w: ingredient %d", ErrNotFound, id)
	}
	if errors.Is(err, repositories.ErrForeignKeyViolation) {
		return fmt.Errorf("%w: ingredient %d is referenced by recipes or products", ErrValidation, id)
	}
	return err
}

// --- Consumables ---

func (s *inventoryService) CreateConsumable(cons *models.Consumable) (*models.Consumable, error) {
	if cons.Name == "" {
		return nil, fmt.Errorf("%w: consumable name is required", ErrValidation)
	}
	id, err := s.stockRepo.CreateConsumable(s.db, cons)
	if err != nil {
		return nil, fmt.Errorf("failed to create consumable: %w", err)
	}
	return s.stockRepo.GetConsumableByID(id)
}

func (s *inventoryService) GetConsumables() ([]models.Consumable, error) {
	return s.stockRepo.GetConsumables()
}

func (s *inventoryService) GetConsumableByID(id int64) (*models.Consumable, error) {
	cons, err := s.stockRepo.GetConsumableByID(id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("%w: consumable %d", ErrNotFound, id)
		}
		return nil, err
	}
	return cons, nil
}

func (s *inventoryService) UpdateConsumable(cons *models.Consumable) (*models.Consumable, error) {
	if cons.Name == "" {
		return nil, fmt.Errorf("%w: consumable name is required", ErrValidation)
	}
	if err := s.stockRepo.UpdateConsumable(s.db, cons); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("%w: consumable %d", ErrNotFound, cons.ID)
		}
		return nil, fmt.Errorf("failed to update consumable: %w", err)
	}
	return s.stockRepo.GetConsumableByID(cons.ID)
}

func (s *inventoryService) DeleteConsumable(id int64) error {
	err := s.stockRepo.DeleteConsumable(s.db, id)
	if errors.Is(err, repositories.ErrNotFound) {
		return fmt.Errorf("%w: consumable %d", ErrNotFound, id)
	}
	if errors.Is(err, repositories.ErrForeignKeyViolation) {
		return fmt.Errorf("%w: consumable %d is referenced by products", ErrValidation, id)
	}
	return err
}

// --- Stock Corrections ---

// CorrectStock locks the entity, computes the delta from its current level to
// the requested absolute level and writes the change through the ledger with
// a manual correction reason. Setting the stock to its current value is a
// no-op and leaves no ledger row.
func (s *inventoryService) CorrectStock(req StockCorrectionRequest) (*StockCorrectionResult, error) {
	if !models.IsValidEntityType(req.EntityType) {
		return nil, fmt.Errorf("%w: unknown entity type %q", ErrValidation, req.EntityType)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	current, name, err := s.lockEntityStock(tx, req.EntityType, req.EntityID)
	if err != nil {
		return nil, err
	}

	delta := req.NewQuantity - current
	result := &StockCorrectionResult{
		EntityType:   req.EntityType,
		EntityID:     req.EntityID,
		EntityName:   name,
		ChangeAmount: delta,
		BalanceAfter: current,
	}
	if delta != 0 {
		balance, err := s.ledger.Apply(tx, req.EntityType, req.EntityID, name, delta, ReasonManualCorrection)
		if err != nil {
			return nil, fmt.Errorf("failed to apply correction: %w", err)
		}
		result.BalanceAfter = balance
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit correction: %w", err)
	}
	return result, nil
}

// lockEntityStock takes the row lock on the corrected entity and returns its
// current stock level and display name.
func (s *inventoryService) lockEntityStock(tx repositories.SQLExecutor, entityType string, entityID int64) (float64, string, error) {
	switch entityType {
	case models.EntityTypeIngredient:
		ing, err := s.stockRepo.GetIngredientForUpdate(tx, entityID)
		if err != nil {
			return 0, "", mapLockErr(err, entityType, entityID)
		}
		return ing.StockQuantity, ing.Name, nil
	case models.EntityTypeConsumable:
		cons, err := s.stockRepo.GetConsumableForUpdate(tx, entityID)
		if err != nil {
			return 0, "", mapLockErr(err, entityType, entityID)
		}
		return cons.StockQuantity, cons.Name, nil
	case models.EntityTypeProduct:
		product, err := s.productRepo.GetProductForUpdate(tx, entityID)
		if err != nil {
			return 0, "", mapLockErr(err, entityType, entityID)
		}
		current := 0.0
		if product.StockQuantity != nil {
			current = *product.StockQuantity
		}
		return current, product.Name, nil
	case models.EntityTypeVariant:
		variant, err := s.productRepo.GetVariantForUpdate(tx, entityID)
		if err != nil {
			return 0, "", mapLockErr(err, entityType, entityID)
		}
		current := 0.0
		if variant.StockQuantity != nil {
			current = *variant.StockQuantity
		}
		return current, variant.Name, nil
	default:
		return 0, "", fmt.Errorf("%w: unknown entity type %q", ErrValidation, entityType)
	}
}

func mapLockErr(err error, entityType string, entityID int64) error {
	if errors.Is(err, repositories.ErrNotFound) {
		return fmt.Errorf("%w: %s %d", ErrNotFound, entityType, entityID)
	}
	return err
}

// --- Ledger Queries ---

func (s *inventoryService) GetTransactions(filters models.TransactionFilters) ([]models.InventoryTransaction, int, error) {
	if filters.EntityType != nil && !models.IsValidEntityType(*filters.EntityType) {
		return nil, 0, fmt.Errorf("%w: unknown entity type %q", ErrValidation, *filters.EntityType)
	}
	if filters.Page < 1 {
		filters.Page = 1
	}
	if filters.PageSize < 1 {
		filters.PageSize = defaultPageSize
	}
	if filters.PageSize > maxPageSize {
		filters.PageSize = maxPageSize
	}
	txns, totalCount, err := s.txnRepo.GetTransactions(filters)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to get transactions: %w", err)
	}
	return txns, totalCount, nil
}
