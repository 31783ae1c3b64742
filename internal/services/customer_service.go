package services

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"pos_backend/internal/models"
	"pos_backend/internal/repositories"
)

// CustomerService manages the customer directory used at checkout.
type CustomerService interface {
	CreateCustomer(customer *models.Customer) (*models.Customer, error)
	GetCustomers(page, pageSize int) ([]models.Customer, int, error)
	GetCustomerByID(id int64) (*models.Customer, error)
	SearchCustomers(term string) ([]models.Customer, error)
	UpdateCustomer(customer *models.Customer) (*models.Customer, error)
	DeleteCustomer(id int64) error
}

type customerService struct {
	customerRepo repositories.CustomerRepository
	db           *sql.DB
}

// NewCustomerService creates a new instance of CustomerService.
func NewCustomerService(cr repositories.CustomerRepository, db *sql.DB) CustomerService {
	return &customerService{customerRepo: cr, db: db}
}

func validateCustomer(customer *models.Customer) error {
	if strings.TrimSpace(customer.Name) == "" {
		return fmt.Errorf("%w: customer name is required", ErrValidation)
	}
	if strings.TrimSpace(customer.Phone) == "" {
		return fmt.Errorf("%w: customer phone is required", ErrValidation)
	}
	return nil
}

func (s *customerService) CreateCustomer(customer *models.Customer) (*models.Customer, error) {
	if err := validateCustomer(customer); err != nil {
		return nil, err
	}
	id, err := s.customerRepo.CreateCustomer(s.db, customer)
	if err != nil {
		if errors.Is(err, repositories.ErrDuplicateKey) {
			return nil, fmt.Errorf("%w: phone %s is already registered", ErrValidation, customer.Phone)
		}
		return nil, fmt.Errorf("failed to create customer: %w", err)
	}
	return s.customerRepo.GetCustomerByID(id)
}

func (s *customerService) GetCustomers(page, pageSize int) ([]models.Customer, int, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	return s.customerRepo.GetCustomers(page, pageSize)
}

func (s *customerService) GetCustomerByID(id int64) (*models.Customer, error) {
	customer, err := s.customerRepo.GetCustomerByID(id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("%w: customer %d", ErrNotFound, id)
		}
		return nil, err
	}
	return customer, nil
}

func (s *customerService) SearchCustomers(term string) ([]models.Customer, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return []models.Customer{}, nil
	}
	return s.customerRepo.SearchCustomers(term, 20)
}

func (s *customerService) UpdateCustomer(customer *models.Customer) (*models.Customer, error) {
	if err := validateCustomer(customer); err != nil {
		return nil, err
	}
	if err := s.customerRepo.UpdateCustomer(s.db, customer); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("%w: customer %d", ErrNotFound, customer.ID)
		}
		if errors.Is(err, repositories.ErrDuplicateKey) {
			return nil, fmt.Errorf("%w: phone %s is already registered", ErrValidation, customer.Phone)
		}
		return nil, fmt.Errorf("failed to update customer: %w", err)
	}
	return s.customerRepo.GetCustomerByID(customer.ID)
}

func (s *customerService) DeleteCustomer(id int64) error {
	err := s.customerRepo.DeleteCustomer(s.db, id)
	if errors.Is(err, repositories.ErrNotFound) {
		return fmt.Errorf("%w: customer %d", ErrNotFound, id)
	}
	return err
}
