package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"pos_backend/internal/models"
)

// OrderRepository defines the interface for order-related database operations.
// Orders and their items are write-once; there are no update or delete methods.
type OrderRepository interface {
	CreateOrder(executor SQLExecutor, order *models.Order) (int64, error)
	UpdateOrderTotal(executor SQLExecutor, orderID int64, totalPrice float64) error
	CreateOrderItem(executor SQLExecutor, item *models.OrderItem) (int64, error)

	GetOrderByID(orderID int64) (*models.Order, error)
	GetOrders(filters models.OrderFilters) ([]models.Order, int, error)
	GetOrderItemsByOrderID(orderID int64) ([]models.OrderItem, error)
}

type orderRepository struct {
	db *sql.DB
}

// NewOrderRepository creates a new instance of OrderRepository.
func NewOrderRepository(db *sql.DB) OrderRepository {
	return &orderRepository{db: db}
}

func (r *orderRepository) CreateOrder(executor SQLExecutor, order *models.Order) (int64, error) {
	query := `INSERT INTO orders (created_at, total_price, payment_method, customer_id)
	          VALUES ($1, $2, $3, $4)
	          RETURNING id`
	if order.CreatedAt.IsZero() {
		order.CreatedAt = time.Now()
	}
	err := executor.QueryRow(query, order.CreatedAt, order.TotalPrice, order.PaymentMethod, order.CustomerID).Scan(&order.ID)
	if err != nil {
		return 0, fmt.Errorf("%w: creating order: %w", ErrDatabaseError, err)
	}
	return order.ID, nil
}

// UpdateOrderTotal sets the computed total on an order header created earlier
// in the same transaction. The header is inserted first so its id can seed the
// ledger reason tags; this is the only mutation orders ever see, and it never
// happens after commit.
func (r *orderRepository) UpdateOrderTotal(executor SQLExecutor, orderID int64, totalPrice float64) error {
	result, err := executor.Exec(`UPDATE orders SET total_price = $1 WHERE id = $2`, totalPrice, orderID)
	if err != nil {
		return fmt.Errorf("%w: setting total for order ID %d: %w", ErrDatabaseError, orderID, err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *orderRepository) CreateOrderItem(executor SQLExecutor, item *models.OrderItem) (int64, error) {
	query := `INSERT INTO order_items (order_id, product_name, quantity, price_at_moment, details)
	          VALUES ($1, $2, $3, $4, $5)
	          RETURNING id`
	err := executor.QueryRow(query, item.OrderID, item.ProductName, item.Quantity, item.PriceAtMoment, item.Details).Scan(&item.ID)
	if err != nil {
		return 0, fmt.Errorf("%w: creating order item: %w", ErrDatabaseError, err)
	}
	return item.ID, nil
}

func (r *orderRepository) GetOrderByID(orderID int64) (*models.Order, error) {
	order := &models.Order{}
	query := `SELECT o.id, o.created_at, o.total_price, o.payment_method, o.customer_id,
	                 c.id, c.name, c.phone
	          FROM orders o
	          LEFT JOIN customers c ON o.customer_id = c.id
	          WHERE o.id = $1`
	var custID sql.NullInt64
	var custName, custPhone sql.NullString
	err := r.db.QueryRow(query, orderID).Scan(
		&order.ID, &order.CreatedAt, &order.TotalPrice, &order.PaymentMethod, &order.CustomerID,
		&custID, &custName, &custPhone,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting order by ID %d: %w", ErrDatabaseError, orderID, err)
	}
	if custID.Valid {
		order.Customer = &models.Customer{ID: custID.Int64, Name: custName.String, Phone: custPhone.String}
	}
	order.Items, err = r.GetOrderItemsByOrderID(orderID)
	if err != nil {
		return nil, err
	}
	return order, nil
}

func (r *orderRepository) GetOrders(filters models.OrderFilters) ([]models.Order, int, error) {
	orders := []models.Order{}
	totalCount := 0

	var queryBuilder strings.Builder
	queryBuilder.WriteString(`SELECT
	    o.id, o.created_at, o.total_price, o.payment_method, o.customer_id,
	    c.id, c.name, c.phone,
	    COUNT(*) OVER() AS total_count
	  FROM orders o
	  LEFT JOIN customers c ON o.customer_id = c.id`)

	var args []interface{}
	argCount := 1
	if filters.CustomerID != nil {
		queryBuilder.WriteString(fmt.Sprintf(" WHERE o.customer_id = $%d", argCount))
		args = append(args, *filters.CustomerID)
		argCount++
	}
	queryBuilder.WriteString(" ORDER BY o.created_at DESC, o.id DESC")
	queryBuilder.WriteString(fmt.Sprintf(" LIMIT $%d OFFSET $%d", argCount, argCount+1))
	args = append(args, filters.PageSize, (filters.Page-1)*filters.PageSize)

	rows, err := r.db.Query(queryBuilder.String(), args...)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: getting orders: %w", ErrDatabaseError, err)
	}
	defer rows.Close()

	for rows.Next() {
		var order models.Order
		var custID sql.NullInt64
		var custName, custPhone sql.NullString
		if err := rows.Scan(
			&order.ID, &order.CreatedAt, &order.TotalPrice, &order.PaymentMethod, &order.CustomerID,
			&custID, &custName, &custPhone,
			&totalCount,
		); err != nil {
			return nil, 0, fmt.Errorf("%w: scanning order: %w", ErrDatabaseError, err)
		}
		if custID.Valid {
			order.Customer = &models.Customer{ID: custID.Int64, Name: custName.String, Phone: custPhone.String}
		}
		orders = append(orders, order)
	}
	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("%w: iterating orders: %w", ErrDatabaseError, err)
	}

	for i := range orders {
		items, err := r.GetOrderItemsByOrderID(orders[i].ID)
		if err != nil {
			return nil, 0, err
		}
		orders[i].Items = items
	}
	return orders, totalCount, nil
}

func (r *orderRepository) GetOrderItemsByOrderID(orderID int64) ([]models.OrderItem, error) {
	items := []models.OrderItem{}
	query := `SELECT id, order_id, product_name, quantity, price_at_moment, details
	          FROM order_items
	          WHERE order_id = $1
	          ORDER BY id`
	rows, err := r.db.Query(query, orderID)
	if err != nil {
		return nil, fmt.Errorf("%w: getting items for order %d: %w", ErrDatabaseError, orderID, err)
	}
	defer rows.Close()
	for rows.Next() {
		var item models.OrderItem
		if err := rows.Scan(&item.ID, &item.OrderID, &item.ProductName, &item.Quantity, &item.PriceAtMoment, &item.Details); err != nil {
			return nil, fmt.Errorf("%w: scanning order item: %w", ErrDatabaseError, err)
		}
		items = append(items, item)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating order items: %w", ErrDatabaseError, err)
	}
	return items, nil
}
