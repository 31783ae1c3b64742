package services

import (
	"database/sql"
	"errors"
	"fmt"
	"math"
	"strings"

	"pos_backend/internal/models"
	"pos_backend/internal/repositories"
	"pos_backend/pkg/utils"
)

// Checkout states, reported when a checkout fails so the log shows how far it got.
const (
	statePending   = "pending"
	statePriced    = "priced"
	stateDeducted  = "deducted"
	statePersisted = "persisted"
)

// CheckoutConfig carries the engine's policy knobs.
type CheckoutConfig struct {
	// RejectOnInsufficientStock controls whether selling a tracked sellable
	// item below zero stock aborts the checkout (true) or proceeds negative
	// but fully ledgered (false). Ingredients and consumables always may go
	// negative regardless of this flag.
	RejectOnInsufficientStock bool
	// MaxAttempts bounds retries when the transaction is the victim of a
	// deadlock or serialization failure. Minimum 1.
	MaxAttempts int
}

// --- DTOs ---

// CheckoutItemRequest is one cart line. The client never supplies a price;
// the unit price is re-derived from the catalog on every checkout.
type CheckoutItemRequest struct {
	ProductID   int64   `json:"product_id" binding:"required"`
	VariantID   *int64  `json:"variant_id"`
	ModifierIDs []int64 `json:"modifier_ids"`
	Quantity    int     `json:"quantity" binding:"required,gt=0"`
}

// CheckoutRequest is a submitted cart ready for settlement.
type CheckoutRequest struct {
	Items         []CheckoutItemRequest `json:"items" binding:"required,dive"`
	PaymentMethod string                `json:"payment_method" binding:"required"`
	CustomerID    *int64                `json:"customer_id"`
}

// CheckoutResult is what the POS client gets back on success.
type CheckoutResult struct {
	OrderID    int64   `json:"order_id"`
	TotalPrice float64 `json:"total_price"`
}

// --- CheckoutService Interface ---

// CheckoutService settles submitted carts and serves order history.
type CheckoutService interface {
	Checkout(req CheckoutRequest) (*CheckoutResult, error)
	GetOrders(filters models.OrderFilters) ([]models.Order, int, error)
	GetOrderByID(orderID int64) (*models.Order, error)
}

type checkoutService struct {
	orderRepo   repositories.OrderRepository
	productRepo repositories.ProductRepository
	recipeRepo  repositories.RecipeRepository
	stockRepo   repositories.StockRepository
	ledger      *StockLedger
	db          *sql.DB
	cfg         CheckoutConfig
}

// NewCheckoutService creates a new instance of CheckoutService.
func NewCheckoutService(
	or repositories.OrderRepository,
	pr repositories.ProductRepository,
	rr repositories.RecipeRepository,
	sr repositories.StockRepository,
	ledger *StockLedger,
	db *sql.DB,
	cfg CheckoutConfig,
) CheckoutService {
	if cfg.MaxAttempts < 1 {
		cfg.MaxAttempts = 1
	}
	return &checkoutService{
		orderRepo:   or,
		productRepo: pr,
		recipeRepo:  rr,
		stockRepo:   sr,
		ledger:      ledger,
		db:          db,
		cfg:         cfg,
	}
}

// pricedLine is one cart line after price and name resolution, with the locked
// catalog rows it references.
type pricedLine struct {
	req       CheckoutItemRequest
	product   *models.Product
	variant   *models.ProductVariant
	modifiers []models.Modifier
	unitPrice float64
	name      string
	details   []string
}

func (s *checkoutService) Checkout(req CheckoutRequest) (*CheckoutResult, error) {
	if err := validateCheckoutRequest(req); err != nil {
		return nil, err
	}

	var result *CheckoutResult
	var err error
	for attempt := 1; attempt <= s.cfg.MaxAttempts; attempt++ {
		result, err = s.checkoutOnce(req)
		if err != nil && repositories.IsRetryableTxError(err) && attempt < s.cfg.MaxAttempts {
			utils.LogInfo("Checkout retrying after deadlock", map[string]interface{}{"attempt": attempt})
			continue
		}
		break
	}
	return result, err
}

func validateCheckoutRequest(req CheckoutRequest) error {
	if len(req.Items) == 0 {
		return fmt.Errorf("%w: cart has no lines", ErrValidation)
	}
	if strings.TrimSpace(req.PaymentMethod) == "" {
		return fmt.Errorf("%w: payment method is required", ErrValidation)
	}
	for i, item := range req.Items {
		if item.ProductID == 0 {
			return fmt.Errorf("%w: line %d has no product", ErrValidation, i+1)
		}
		if item.Quantity <= 0 {
			return fmt.Errorf("%w: line %d quantity must be positive", ErrValidation, i+1)
		}
	}
	return nil
}

// checkoutOnce runs one settlement attempt as a single transaction. Any error
// at any state rolls the whole unit of work back; there is no partial order
// and no partial deduction.
func (s *checkoutService) checkoutOnce(req CheckoutRequest) (*CheckoutResult, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("%w: starting transaction: %w", ErrCheckoutFailed, err)
	}
	defer tx.Rollback()

	state := statePending

	// The header row is inserted first so its id can seed the ledger reason
	// tags; the computed total is written before commit.
	order := &models.Order{PaymentMethod: req.PaymentMethod, CustomerID: req.CustomerID}
	if _, err := s.orderRepo.CreateOrder(tx, order); err != nil {
		return nil, s.fail(state, err)
	}

	priced := make([]pricedLine, 0, len(req.Items))
	for i, item := range req.Items {
		line, err := s.priceLine(tx, i, item)
		if err != nil {
			return nil, s.fail(state, err)
		}
		priced = append(priced, line)
	}
	state = statePriced

	for i := range priced {
		if err := s.deductLine(tx, order.ID, i, &priced[i]); err != nil {
			return nil, s.fail(state, err)
		}
	}
	state = stateDeducted

	var total float64
	for i := range priced {
		line := &priced[i]
		total += line.unitPrice * float64(line.req.Quantity)

		item := &models.OrderItem{
			OrderID:       order.ID,
			ProductName:   line.name,
			Quantity:      line.req.Quantity,
			PriceAtMoment: line.unitPrice,
			Details:       utils.NewNullString(strings.Join(line.details, ", ")),
		}
		if _, err := s.orderRepo.CreateOrderItem(tx, item); err != nil {
			return nil, s.fail(state, err)
		}
	}
	total = math.Round(total*100) / 100
	if err := s.orderRepo.UpdateOrderTotal(tx, order.ID, total); err != nil {
		return nil, s.fail(state, err)
	}
	state = statePersisted

	if err := tx.Commit(); err != nil {
		return nil, s.fail(state, fmt.Errorf("committing order %d: %w", order.ID, err))
	}
	return &CheckoutResult{OrderID: order.ID, TotalPrice: total}, nil
}

// fail passes domain errors through untouched and wraps everything else in
// ErrCheckoutFailed, preserving the cause so deadlock detection still works.
func (s *checkoutService) fail(state string, err error) error {
	if errors.Is(err, ErrNotFound) || errors.Is(err, ErrValidation) || errors.Is(err, ErrInsufficientStock) {
		return err
	}
	return fmt.Errorf("%w: state %s: %w", ErrCheckoutFailed, state, err)
}

// priceLine resolves the authoritative unit price, display name and details
// string for one cart line, locking the sellable rows it touches. Prices are
// read from the catalog only; anything the client claims is ignored.
func (s *checkoutService) priceLine(tx repositories.SQLExecutor, idx int, item CheckoutItemRequest) (pricedLine, error) {
	line := pricedLine{req: item}

	product, err := s.productRepo.GetProductForUpdate(tx, item.ProductID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return line, fmt.Errorf("%w: product %d (line %d)", ErrNotFound, item.ProductID, idx+1)
		}
		return line, err
	}
	line.product = product
	line.unitPrice = product.Price
	line.name = product.Name

	if item.VariantID != nil {
		variant, err := s.productRepo.GetVariantForUpdate(tx, *item.VariantID)
		if err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return line, fmt.Errorf("%w: variant %d (line %d)", ErrNotFound, *item.VariantID, idx+1)
			}
			return line, err
		}
		if variant.ProductID != product.ID {
			return line, fmt.Errorf("%w: variant %d does not belong to product %d (line %d)", ErrValidation, variant.ID, product.ID, idx+1)
		}
		line.variant = variant
		line.unitPrice = variant.Price
		line.name = fmt.Sprintf("%s (%s)", product.Name, variant.Name)
		line.details = append(line.details, "Variant: "+variant.Name)
	}

	modifiers, err := s.productRepo.GetModifiersByIDs(tx, item.ModifierIDs)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return line, fmt.Errorf("%w: %v (line %d)", ErrNotFound, err, idx+1)
		}
		return line, err
	}
	line.modifiers = modifiers
	for _, mod := range modifiers {
		line.unitPrice += mod.PriceChange
		line.details = append(line.details, mod.Name)
	}
	return line, nil
}

// deductLine applies every stock effect of one priced line: the sellable
// item's own tracked stock, then its expanded recipe/link/modifier
// consumption, each as its own ledger row.
func (s *checkoutService) deductLine(tx repositories.SQLExecutor, orderID int64, idx int, line *pricedLine) error {
	qty := float64(line.req.Quantity)

	if line.variant != nil {
		// A variant deducts its own stock only when it carries one and has no
		// recipe of its own; recipe-backed variants live off their ingredients.
		if line.variant.StockQuantity != nil && line.variant.MasterRecipeID == nil {
			if err := s.checkSellableStock(*line.variant.StockQuantity, qty, line.name); err != nil {
				return err
			}
			if _, err := s.ledger.Apply(tx, models.EntityTypeVariant, line.variant.ID, line.name, -qty, SaleReason(orderID, idx, OriginItem)); err != nil {
				return err
			}
		}
	} else if line.product.TrackStock {
		current := 0.0
		if line.product.StockQuantity != nil {
			current = *line.product.StockQuantity
		}
		if err := s.checkSellableStock(current, qty, line.name); err != nil {
			return err
		}
		if _, err := s.ledger.Apply(tx, models.EntityTypeProduct, line.product.ID, line.product.Name, -qty, SaleReason(orderID, idx, OriginItem)); err != nil {
			return err
		}
	}

	materials, err := s.loadMaterials(tx, line)
	if err != nil {
		return err
	}
	for _, c := range ExpandConsumption(materials, line.req.Quantity) {
		name, err := s.lockMaterialRow(tx, c.EntityType, c.EntityID)
		if err != nil {
			return err
		}
		if _, err := s.ledger.Apply(tx, c.EntityType, c.EntityID, name, -c.Amount, SaleReason(orderID, idx, c.Origin)); err != nil {
			return err
		}
	}
	return nil
}

func (s *checkoutService) checkSellableStock(current, requested float64, name string) error {
	if s.cfg.RejectOnInsufficientStock && current < requested {
		return fmt.Errorf("%w: %s (available: %g, requested: %g)", ErrInsufficientStock, name, current, requested)
	}
	return nil
}

// loadMaterials gathers everything the line's sellable item consumes, keyed by
// id. The variant's recipe link takes precedence over the product's.
func (s *checkoutService) loadMaterials(tx repositories.SQLExecutor, line *pricedLine) (LineMaterials, error) {
	m := LineMaterials{Modifiers: line.modifiers}

	recipeID := line.product.MasterRecipeID
	outputWeight := line.product.OutputWeight
	if line.variant != nil {
		if line.variant.MasterRecipeID != nil {
			recipeID = line.variant.MasterRecipeID
		}
		outputWeight = line.variant.OutputWeight
	}
	if recipeID != nil {
		items, err := s.recipeRepo.GetRecipeItems(tx, *recipeID)
		if err != nil {
			return m, err
		}
		m.RecipeItems = items
	}
	if outputWeight != nil {
		m.OutputWeight = *outputWeight
	}

	var err error
	if m.ProductIngredients, err = s.productRepo.GetProductIngredients(tx, line.product.ID); err != nil {
		return m, err
	}
	if m.ProductConsumables, err = s.productRepo.GetProductConsumables(tx, line.product.ID); err != nil {
		return m, err
	}
	if line.variant != nil {
		if m.VariantIngredients, err = s.productRepo.GetVariantIngredients(tx, line.variant.ID); err != nil {
			return m, err
		}
		if m.VariantConsumables, err = s.productRepo.GetVariantConsumables(tx, line.variant.ID); err != nil {
			return m, err
		}
	}
	return m, nil
}

// lockMaterialRow takes the row lock on an ingredient or consumable about to
// be deducted and returns its display name for the ledger row.
func (s *checkoutService) lockMaterialRow(tx repositories.SQLExecutor, entityType string, entityID int64) (string, error) {
	switch entityType {
	case models.EntityTypeIngredient:
		ing, err := s.stockRepo.GetIngredientForUpdate(tx, entityID)
		if err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return "", fmt.Errorf("%w: ingredient %d", ErrNotFound, entityID)
			}
			return "", err
		}
		return ing.Name, nil
	case models.EntityTypeConsumable:
		cons, err := s.stockRepo.GetConsumableForUpdate(tx, entityID)
		if err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return "", fmt.Errorf("%w: consumable %d", ErrNotFound, entityID)
			}
			return "", err
		}
		return cons.Name, nil
	default:
		return "", fmt.Errorf("%w: unexpected material entity type %q", ErrValidation, entityType)
	}
}

// --- Order Queries ---

func (s *checkoutService) GetOrders(filters models.OrderFilters) ([]models.Order, int, error) {
	if filters.Page < 1 {
		filters.Page = 1
	}
	if filters.PageSize < 1 {
		filters.PageSize = defaultPageSize
	}
	if filters.PageSize > maxPageSize {
		filters.PageSize = maxPageSize
	}
	orders, totalCount, err := s.orderRepo.GetOrders(filters)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to get orders: %w", err)
	}
	return orders, totalCount, nil
}

func (s *checkoutService) GetOrderByID(orderID int64) (*models.Order, error) {
	order, err := s.orderRepo.GetOrderByID(orderID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("%w: order %d", ErrNotFound, orderID)
		}
		return nil, fmt.Errorf("failed to get order by ID: %w", err)
	}
	return order, nil
}
