package repositories

import (
	"database/sql"
	"errors"
	"fmt"

	"pos_backend/internal/models"

	"github.com/lib/pq"
)

// ProcessRepository defines database operations for preparation process
// groups and their options.
type ProcessRepository interface {
	CreateProcessGroup(executor SQLExecutor, group *models.ProcessGroup) (int64, error)
	GetProcessGroups() ([]models.ProcessGroup, error)
	DeleteProcessGroup(executor SQLExecutor, id int64) error

	AddProcessOption(executor SQLExecutor, option *models.ProcessOption) (int64, error)
	DeleteProcessOption(executor SQLExecutor, id int64) error
}

type processRepository struct {
	db *sql.DB
}

// NewProcessRepository creates a new instance of ProcessRepository.
func NewProcessRepository(db *sql.DB) ProcessRepository {
	return &processRepository{db: db}
}

func (r *processRepository) CreateProcessGroup(executor SQLExecutor, group *models.ProcessGroup) (int64, error) {
	err := executor.QueryRow(
		`INSERT INTO process_groups (name) VALUES ($1) RETURNING id`,
		group.Name,
	).Scan(&group.ID)
	if err != nil {
		return 0, fmt.Errorf("%w: creating process group: %w", ErrDatabaseError, err)
	}
	for i := range group.Options {
		opt := &group.Options[i]
		opt.GroupID = group.ID
		if _, err := r.AddProcessOption(executor, opt); err != nil {
			return 0, err
		}
	}
	return group.ID, nil
}

func (r *processRepository) GetProcessGroups() ([]models.ProcessGroup, error) {
	groups := []models.ProcessGroup{}
	rows, err := r.db.Query(`SELECT id, name FROM process_groups ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("%w: getting process groups: %w", ErrDatabaseError, err)
	}
	defer rows.Close()
	for rows.Next() {
		var g models.ProcessGroup
		if err := rows.Scan(&g.ID, &g.Name); err != nil {
			return nil, fmt.Errorf("%w: scanning process group: %w", ErrDatabaseError, err)
		}
		g.Options = []models.ProcessOption{}
		groups = append(groups, g)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating process groups: %w", ErrDatabaseError, err)
	}

	for i := range groups {
		g := &groups[i]
		optRows, err := r.db.Query(
			`SELECT id, group_id, name FROM process_options WHERE group_id = $1 ORDER BY id`, g.ID)
		if err != nil {
			return nil, fmt.Errorf("%w: getting options for process group %d: %w", ErrDatabaseError, g.ID, err)
		}
		for optRows.Next() {
			var opt models.ProcessOption
			if err := optRows.Scan(&opt.ID, &opt.GroupID, &opt.Name); err != nil {
				optRows.Close()
				return nil, fmt.Errorf("%w: scanning process option: %w", ErrDatabaseError, err)
			}
			g.Options = append(g.Options, opt)
		}
		if err = optRows.Err(); err != nil {
			optRows.Close()
			return nil, fmt.Errorf("%w: iterating process options: %w", ErrDatabaseError, err)
		}
		optRows.Close()
	}
	return groups, nil
}

func (r *processRepository) DeleteProcessGroup(executor SQLExecutor, id int64) error {
	deletes := []string{
		`DELETE FROM product_process_groups WHERE group_id = $1`,
		`DELETE FROM process_options WHERE group_id = $1`,
	}
	for _, q := range deletes {
		if _, err := executor.Exec(q, id); err != nil {
			return fmt.Errorf("%w: clearing children of process group ID %d: %w", ErrDatabaseError, id, err)
		}
	}
	result, err := executor.Exec(`DELETE FROM process_groups WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("%w: deleting process group ID %d: %w", ErrDatabaseError, id, err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *processRepository) AddProcessOption(executor SQLExecutor, option *models.ProcessOption) (int64, error) {
	err := executor.QueryRow(
		`INSERT INTO process_options (group_id, name) VALUES ($1, $2) RETURNING id`,
		option.GroupID, option.Name,
	).Scan(&option.ID)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "foreign_key_violation" {
			return 0, fmt.Errorf("%w: process group %d does not exist: %w", ErrForeignKeyViolation, option.GroupID, err)
		}
		return 0, fmt.Errorf("%w: creating process option: %w", ErrDatabaseError, err)
	}
	return option.ID, nil
}

func (r *processRepository) DeleteProcessOption(executor SQLExecutor, id int64) error {
	result, err := executor.Exec(`DELETE FROM process_options WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("%w: deleting process option ID %d: %w", ErrDatabaseError, id, err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
