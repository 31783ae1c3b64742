package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"pos_backend/internal/models"

	"github.com/lib/pq"
)

// CustomerRepository defines the interface for customer-related database operations.
type CustomerRepository interface {
	CreateCustomer(executor SQLExecutor, customer *models.Customer) (int64, error)
	GetCustomerByID(id int64) (*models.Customer, error)
	GetCustomers(page, pageSize int) ([]models.Customer, int, error)
	SearchCustomers(term string, limit int) ([]models.Customer, error)
	UpdateCustomer(executor SQLExecutor, customer *models.Customer) error
	DeleteCustomer(executor SQLExecutor, id int64) error
}

type customerRepository struct {
	db *sql.DB
}

// NewCustomerRepository creates a new instance of CustomerRepository.
func NewCustomerRepository(db *sql.DB) CustomerRepository {
	return &customerRepository{db: db}
}

func (r *customerRepository) CreateCustomer(executor SQLExecutor, customer *models.Customer) (int64, error) {
	query := `INSERT INTO customers (name, phone, email, notes, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6)
	          RETURNING id`
	currentTime := time.Now()
	err := executor.QueryRow(query,
		customer.Name, customer.Phone, customer.Email, customer.Notes, currentTime, currentTime,
	).Scan(&customer.ID)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return 0, fmt.Errorf("%w: customer with phone '%s' already exists", ErrDuplicateKey, customer.Phone)
		}
		return 0, fmt.Errorf("%w: creating customer: %w", ErrDatabaseError, err)
	}
	return customer.ID, nil
}

func (r *customerRepository) GetCustomerByID(id int64) (*models.Customer, error) {
	customer := &models.Customer{}
	query := `SELECT id, name, phone, email, notes, created_at, updated_at FROM customers WHERE id = $1`
	err := r.db.QueryRow(query, id).Scan(
		&customer.ID, &customer.Name, &customer.Phone, &customer.Email, &customer.Notes,
		&customer.CreatedAt, &customer.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting customer by ID %d: %w", ErrDatabaseError, id, err)
	}
	return customer, nil
}

func (r *customerRepository) GetCustomers(page, pageSize int) ([]models.Customer, int, error) {
	customers := []models.Customer{}
	totalCount := 0
	query := `SELECT id, name, phone, email, notes, created_at, updated_at, COUNT(*) OVER() AS total_count
	          FROM customers
	          ORDER BY name
	          LIMIT $1 OFFSET $2`
	rows, err := r.db.Query(query, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: getting customers: %w", ErrDatabaseError, err)
	}
	defer rows.Close()
	for rows.Next() {
		var customer models.Customer
		if err := rows.Scan(
			&customer.ID, &customer.Name, &customer.Phone, &customer.Email, &customer.Notes,
			&customer.CreatedAt, &customer.UpdatedAt, &totalCount,
		); err != nil {
			return nil, 0, fmt.Errorf("%w: scanning customer: %w", ErrDatabaseError, err)
		}
		customers = append(customers, customer)
	}
	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("%w: iterating customers: %w", ErrDatabaseError, err)
	}
	return customers, totalCount, nil
}

func (r *customerRepository) SearchCustomers(term string, limit int) ([]models.Customer, error) {
	customers := []models.Customer{}
	pattern := "%" + strings.TrimSpace(term) + "%"
	query := `SELECT id, name, phone, email, notes, created_at, updated_at
	          FROM customers
	          WHERE name ILIKE $1 OR phone ILIKE $1
	          ORDER BY name
	          LIMIT $2`
	rows, err := r.db.Query(query, pattern, limit)
	if err != nil {
		return nil, fmt.Errorf("%w: searching customers: %w", ErrDatabaseError, err)
	}
	defer rows.Close()
	for rows.Next() {
		var customer models.Customer
		if err := rows.Scan(
			&customer.ID, &customer.Name, &customer.Phone, &customer.Email, &customer.Notes,
			&customer.CreatedAt, &customer.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("%w: scanning customer: %w", ErrDatabaseError, err)
		}
		customers = append(customers, customer)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating customers: %w", ErrDatabaseError, err)
	}
	return customers, nil
}

func (r *customerRepository) UpdateCustomer(executor SQLExecutor, customer *models.Customer) error {
	query := `UPDATE customers SET name = $1, phone = $2, email = $3, notes = $4, updated_at = $5 WHERE id = $6`
	result, err := executor.Exec(query, customer.Name, customer.Phone, customer.Email, customer.Notes, time.Now(), customer.ID)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return fmt.Errorf("%w: customer with phone '%s' already exists", ErrDuplicateKey, customer.Phone)
		}
		return fmt.Errorf("%w: updating customer ID %d: %w", ErrDatabaseError, customer.ID, err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *customerRepository) DeleteCustomer(executor SQLExecutor, id int64) error {
	// Orders keep their customer_id; history is never rewritten. The FK is
	// ON DELETE SET NULL so the delete itself stays local to this row.
	result, err := executor.Exec(`DELETE FROM customers WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("%w: deleting customer ID %d: %w", ErrDatabaseError, id, err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
