package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"pos_backend/internal/models"

	"github.com/lib/pq"
)

// StockRepository defines database operations for ingredients and consumables,
// including the row-locked reads and signed stock adjustments the checkout
// engine relies on.
type StockRepository interface {
	CreateIngredient(executor SQLExecutor, ing *models.Ingredient) (int64, error)
	GetIngredientByID(id int64) (*models.Ingredient, error)
	GetIngredients() ([]models.Ingredient, error)
	UpdateIngredient(executor SQLExecutor, ing *models.Ingredient) error
	DeleteIngredient(executor SQLExecutor, id int64) error

	CreateConsumable(executor SQLExecutor, cons *models.Consumable) (int64, error)
	GetConsumableByID(id int64) (*models.Consumable, error)
	GetConsumables() ([]models.Consumable, error)
	UpdateConsumable(executor SQLExecutor, cons *models.Consumable) error
	DeleteConsumable(executor SQLExecutor, id int64) error

	// Row-locked reads. The lock is scoped to the executor's transaction and
	// released at commit or rollback.
	GetIngredientForUpdate(executor SQLExecutor, id int64) (*models.Ingredient, error)
	GetConsumableForUpdate(executor SQLExecutor, id int64) (*models.Consumable, error)

	// Signed stock adjustments; NULL stock counts as zero. Both return the
	// balance after the change.
	AdjustIngredientStock(executor SQLExecutor, id int64, delta float64) (float64, error)
	AdjustConsumableStock(executor SQLExecutor, id int64, delta float64) (float64, error)
}

type stockRepository struct {
	db *sql.DB
}

// NewStockRepository creates a new instance of StockRepository.
func NewStockRepository(db *sql.DB) StockRepository {
	return &stockRepository{db: db}
}

// --- Ingredient Methods ---

func (r *stockRepository) CreateIngredient(executor SQLExecutor, ing *models.Ingredient) (int64, error) {
	query := `INSERT INTO ingredients (name, unit_id, cost_per_unit, stock_quantity, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6)
	          RETURNING id`
	currentTime := time.Now()
	err := executor.QueryRow(query, ing.Name, ing.UnitID, ing.CostPerUnit, ing.StockQuantity, currentTime, currentTime).Scan(&ing.ID)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return 0, fmt.Errorf("%w: ingredient '%s' already exists", ErrDuplicateKey, ing.Name)
		}
		return 0, fmt.Errorf("%w: creating ingredient: %w", ErrDatabaseError, err)
	}
	return ing.ID, nil
}

func (r *stockRepository) GetIngredientByID(id int64) (*models.Ingredient, error) {
	ing := &models.Ingredient{}
	query := `SELECT i.id, i.name, i.unit_id, i.cost_per_unit, i.stock_quantity, i.created_at, i.updated_at,
	                 u.id, u.name, u.symbol
	          FROM ingredients i
	          LEFT JOIN units u ON i.unit_id = u.id
	          WHERE i.id = $1`
	var unitID sql.NullInt64
	var unitName, unitSymbol sql.NullString
	err := r.db.QueryRow(query, id).Scan(
		&ing.ID, &ing.Name, &ing.UnitID, &ing.CostPerUnit, &ing.StockQuantity, &ing.CreatedAt, &ing.UpdatedAt,
		&unitID, &unitName, &unitSymbol,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting ingredient by ID %d: %w", ErrDatabaseError, id, err)
	}
	if unitID.Valid {
		ing.Unit = &models.Unit{ID: unitID.Int64, Name: unitName.String, Symbol: unitSymbol.String}
	}
	return ing, nil
}

func (r *stockRepository) GetIngredients() ([]models.Ingredient, error) {
	ingredients := []models.Ingredient{}
	query := `SELECT i.id, i.name, i.unit_id, i.cost_per_unit, i.stock_quantity, i.created_at, i.updated_at,
	                 u.id, u.name, u.symbol
	          FROM ingredients i
	          LEFT JOIN units u ON i.unit_id = u.id
	          ORDER BY i.name`
	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("%w: getting ingredients: %w", ErrDatabaseError, err)
	}
	defer rows.Close()

	for rows.Next() {
		var ing models.Ingredient
		var unitID sql.NullInt64
		var unitName, unitSymbol sql.NullString
		if err := rows.Scan(
			&ing.ID, &ing.Name, &ing.UnitID, &ing.CostPerUnit, &ing.StockQuantity, &ing.CreatedAt, &ing.UpdatedAt,
			&unitID, &unitName, &unitSymbol,
		); err != nil {
			return nil, fmt.Errorf("%w: scanning ingredient: %w", ErrDatabaseError, err)
		}
		if unitID.Valid {
			ing.Unit = &models.Unit{ID: unitID.Int64, Name: unitName.String, Symbol: unitSymbol.String}
		}
		ingredients = append(ingredients, ing)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating ingredients: %w", ErrDatabaseError, err)
	}
	return ingredients, nil
}

func (r *stockRepository) UpdateIngredient(executor SQLExecutor, ing *models.Ingredient) error {
	// Stock is deliberately not updatable here; every stock change goes
	// through the ledger so the transaction log stays complete.
	query := `UPDATE ingredients SET name = $1, unit_id = $2, cost_per_unit = $3, updated_at = $4 WHERE id = $5`
	result, err := executor.Exec(query, ing.Name, ing.UnitID, ing.CostPerUnit, time.Now(), ing.ID)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return fmt.Errorf("%w: ingredient '%s' already exists", ErrDuplicateKey, ing.Name)
		}
		return fmt.Errorf("%w: updating ingredient ID %d: %w", ErrDatabaseError, ing.ID, err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *stockRepository) DeleteIngredient(executor SQLExecutor, id int64) error {
	result, err := executor.Exec(`DELETE FROM ingredients WHERE id = $1`, id)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23503" {
			return fmt.Errorf("%w: ingredient ID %d is used by recipes, products or modifiers", ErrForeignKeyViolation, id)
		}
		return fmt.Errorf("%w: deleting ingredient ID %d: %w", ErrDatabaseError, id, err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// --- Consumable Methods ---

func (r *stockRepository) CreateConsumable(executor SQLExecutor, cons *models.Consumable) (int64, error) {
	query := `INSERT INTO consumables (name, unit_id, cost_per_unit, stock_quantity, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6)
	          RETURNING id`
	currentTime := time.Now()
	err := executor.QueryRow(query, cons.Name, cons.UnitID, cons.CostPerUnit, cons.StockQuantity, currentTime, currentTime).Scan(&cons.ID)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return 0, fmt.Errorf("%w: consumable '%s' already exists", ErrDuplicateKey, cons.Name)
		}
		return 0, fmt.Errorf("%w: creating consumable: %w", ErrDatabaseError, err)
	}
	return cons.ID, nil
}

func (r *stockRepository) GetConsumableByID(id int64) (*models.Consumable, error) {
	cons := &models.Consumable{}
	query := `SELECT id, name, unit_id, cost_per_unit, stock_quantity, created_at, updated_at
	          FROM consumables WHERE id = $1`
	err := r.db.QueryRow(query, id).Scan(&cons.ID, &cons.Name, &cons.UnitID, &cons.CostPerUnit, &cons.StockQuantity, &cons.CreatedAt, &cons.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting consumable by ID %d: %w", ErrDatabaseError, id, err)
	}
	return cons, nil
}

func (r *stockRepository) GetConsumables() ([]models.Consumable, error) {
	consumables := []models.Consumable{}
	query := `SELECT id, name, unit_id, cost_per_unit, stock_quantity, created_at, updated_at
	          FROM consumables ORDER BY name`
	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("%w: getting consumables: %w", ErrDatabaseError, err)
	}
	defer rows.Close()

	for rows.Next() {
		var cons models.Consumable
		if err := rows.Scan(&cons.ID, &cons.Name, &cons.UnitID, &cons.CostPerUnit, &cons.StockQuantity, &cons.CreatedAt, &cons.UpdatedAt); err != nil {
			return nil, fmt.Errorf("%w: scanning consumable: %w", ErrDatabaseError, err)
		}
		consumables = append(consumables, cons)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating consumables: %w", ErrDatabaseError, err)
	}
	return consumables, nil
}

func (r *stockRepository) UpdateConsumable(executor SQLExecutor, cons *models.Consumable) error {
	query := `UPDATE consumables SET name = $1, unit_id = $2, cost_per_unit = $3, updated_at = $4 WHERE id = $5`
	result, err := executor.Exec(query, cons.Name, cons.UnitID, cons.CostPerUnit, time.Now(), cons.ID)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return fmt.Errorf("%w: consumable '%s' already exists", ErrDuplicateKey, cons.Name)
		}
		return fmt.Errorf("%w: updating consumable ID %d: %w", ErrDatabaseError, cons.ID, err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *stockRepository) DeleteConsumable(executor SQLExecutor, id int64) error {
	result, err := executor.Exec(`DELETE FROM consumables WHERE id = $1`, id)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23503" {
			return fmt.Errorf("%w: consumable ID %d is used by products or variants", ErrForeignKeyViolation, id)
		}
		return fmt.Errorf("%w: deleting consumable ID %d: %w", ErrDatabaseError, id, err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// --- Row-Locked Reads & Stock Adjustments ---

func (r *stockRepository) GetIngredientForUpdate(executor SQLExecutor, id int64) (*models.Ingredient, error) {
	ing := &models.Ingredient{}
	query := `SELECT id, name, unit_id, cost_per_unit, COALESCE(stock_quantity, 0), created_at, updated_at
	          FROM ingredients WHERE id = $1 FOR UPDATE`
	err := executor.QueryRow(query, id).Scan(&ing.ID, &ing.Name, &ing.UnitID, &ing.CostPerUnit, &ing.StockQuantity, &ing.CreatedAt, &ing.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: locking ingredient ID %d: %w", ErrDatabaseError, id, err)
	}
	return ing, nil
}

func (r *stockRepository) GetConsumableForUpdate(executor SQLExecutor, id int64) (*models.Consumable, error) {
	cons := &models.Consumable{}
	query := `SELECT id, name, unit_id, cost_per_unit, COALESCE(stock_quantity, 0), created_at, updated_at
	          FROM consumables WHERE id = $1 FOR UPDATE`
	err := executor.QueryRow(query, id).Scan(&cons.ID, &cons.Name, &cons.UnitID, &cons.CostPerUnit, &cons.StockQuantity, &cons.CreatedAt, &cons.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: locking consumable ID %d: %w", ErrDatabaseError, id, err)
	}
	return cons, nil
}

func (r *stockRepository) AdjustIngredientStock(executor SQLExecutor, id int64, delta float64) (float64, error) {
	var newStock float64
	query := `UPDATE ingredients
	          SET stock_quantity = COALESCE(stock_quantity, 0) + $1, updated_at = $2
	          WHERE id = $3
	          RETURNING stock_quantity`
	err := executor.QueryRow(query, delta, time.Now(), id).Scan(&newStock)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, ErrNotFound
		}
		return 0, fmt.Errorf("%w: adjusting stock for ingredient ID %d: %w", ErrDatabaseError, id, err)
	}
	return newStock, nil
}

func (r *stockRepository) AdjustConsumableStock(executor SQLExecutor, id int64, delta float64) (float64, error) {
	var newStock float64
	query := `UPDATE consumables
	          SET stock_quantity = COALESCE(stock_quantity, 0) + $1, updated_at = $2
	          WHERE id = $3
	          RETURNING stock_quantity`
	err := executor.QueryRow(query, delta, time.Now(), id).Scan(&newStock)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, ErrNotFound
		}
		return 0, fmt.Errorf("%w: adjusting stock for consumable ID %d: %w", ErrDatabaseError, id, err)
	}
	return newStock, nil
}
