package repositories

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"pos_backend/internal/models"
)

// TransactionRepository defines database operations for the append-only
// inventory ledger. Rows are only ever inserted; corrections are new rows.
type TransactionRepository interface {
	CreateTransaction(executor SQLExecutor, txn *models.InventoryTransaction) (int64, error)
	GetTransactions(filters models.TransactionFilters) ([]models.InventoryTransaction, int, error)
}

type transactionRepository struct {
	db *sql.DB
}

// NewTransactionRepository creates a new instance of TransactionRepository.
func NewTransactionRepository(db *sql.DB) TransactionRepository {
	return &transactionRepository{db: db}
}

func (r *transactionRepository) CreateTransaction(executor SQLExecutor, txn *models.InventoryTransaction) (int64, error) {
	query := `INSERT INTO inventory_transactions
	          (entity_type, entity_id, entity_name, change_amount, balance_after, reason, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7)
	          RETURNING id`
	if txn.CreatedAt.IsZero() {
		txn.CreatedAt = time.Now()
	}
	err := executor.QueryRow(query,
		txn.EntityType, txn.EntityID, txn.EntityName, txn.ChangeAmount, txn.BalanceAfter,
		txn.Reason, txn.CreatedAt,
	).Scan(&txn.ID)
	if err != nil {
		return 0, fmt.Errorf("%w: creating inventory transaction: %w", ErrDatabaseError, err)
	}
	return txn.ID, nil
}

func (r *transactionRepository) GetTransactions(filters models.TransactionFilters) ([]models.InventoryTransaction, int, error) {
	transactions := []models.InventoryTransaction{}
	totalCount := 0

	var queryBuilder strings.Builder
	queryBuilder.WriteString(`SELECT
	    id, entity_type, entity_id, entity_name, change_amount, balance_after, reason, created_at,
	    COUNT(*) OVER() AS total_count
	  FROM inventory_transactions`)

	var conditions []string
	var args []interface{}
	argCount := 1

	if filters.EntityType != nil && *filters.EntityType != "" {
		conditions = append(conditions, fmt.Sprintf("entity_type = $%d", argCount))
		args = append(args, *filters.EntityType)
		argCount++
	}
	if filters.EntityID != nil {
		conditions = append(conditions, fmt.Sprintf("entity_id = $%d", argCount))
		args = append(args, *filters.EntityID)
		argCount++
	}

	if len(conditions) > 0 {
		queryBuilder.WriteString(" WHERE ")
		queryBuilder.WriteString(strings.Join(conditions, " AND "))
	}

	queryBuilder.WriteString(" ORDER BY created_at DESC, id DESC")
	queryBuilder.WriteString(fmt.Sprintf(" LIMIT $%d OFFSET $%d", argCount, argCount+1))
	args = append(args, filters.PageSize, (filters.Page-1)*filters.PageSize)

	rows, err := r.db.Query(queryBuilder.String(), args...)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: getting inventory transactions: %w", ErrDatabaseError, err)
	}
	defer rows.Close()

	for rows.Next() {
		var txn models.InventoryTransaction
		if err := rows.Scan(
			&txn.ID, &txn.EntityType, &txn.EntityID, &txn.EntityName, &txn.ChangeAmount,
			&txn.BalanceAfter, &txn.Reason, &txn.CreatedAt,
			&totalCount,
		); err != nil {
			return nil, 0, fmt.Errorf("%w: scanning inventory transaction: %w", ErrDatabaseError, err)
		}
		transactions = append(transactions, txn)
	}
	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("%w: iterating inventory transactions: %w", ErrDatabaseError, err)
	}
	return transactions, totalCount, nil
}
