package services

import (
	"database/sql"
	"errors"
	"fmt"

	"pos_backend/internal/models"
	"pos_backend/internal/repositories"
)

// ProcessService manages preparation process groups ("Grind") and the named
// options they offer ("For cezve").
type ProcessService interface {
	CreateProcessGroup(group *models.ProcessGroup) (*models.ProcessGroup, error)
	GetProcessGroups() ([]models.ProcessGroup, error)
	DeleteProcessGroup(id int64) error

	AddProcessOption(option *models.ProcessOption) (*models.ProcessOption, error)
	DeleteProcessOption(id int64) error
}

type processService struct {
	processRepo repositories.ProcessRepository
	db          *sql.DB
}

// NewProcessService creates a new instance of ProcessService.
func NewProcessService(pr repositories.ProcessRepository, db *sql.DB) ProcessService {
	return &processService{processRepo: pr, db: db}
}

func (s *processService) CreateProcessGroup(group *models.ProcessGroup) (*models.ProcessGroup, error) {
	if group.Name == "" {
		return nil, fmt.Errorf("%w: process group name is required", ErrValidation)
	}
	for i, opt := range group.Options {
		if opt.Name == "" {
			return nil, fmt.Errorf("%w: process option %d has no name", ErrValidation, i+1)
		}
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := s.processRepo.CreateProcessGroup(tx, group); err != nil {
		return nil, fmt.Errorf("failed to create process group: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit process group: %w", err)
	}
	return group, nil
}

func (s *processService) GetProcessGroups() ([]models.ProcessGroup, error) {
	return s.processRepo.GetProcessGroups()
}

func (s *processService) DeleteProcessGroup(id int64) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := s.processRepo.DeleteProcessGroup(tx, id); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return fmt.Errorf("%w: process group %d", ErrNotFound, id)
		}
		return fmt.Errorf("failed to delete process group: %w", err)
	}
	return tx.Commit()
}

func (s *processService) AddProcessOption(option *models.ProcessOption) (*models.ProcessOption, error) {
	if option.Name == "" {
		return nil, fmt.Errorf("%w: process option name is required", ErrValidation)
	}
	if option.GroupID == 0 {
		return nil, fmt.Errorf("%w: process option needs a group", ErrValidation)
	}
	if _, err := s.processRepo.AddProcessOption(s.db, option); err != nil {
		if errors.Is(err, repositories.ErrForeignKeyViolation) {
			return nil, fmt.Errorf("%w: process group %d does not exist", ErrValidation, option.GroupID)
		}
		return nil, fmt.Errorf("failed to create process option: %w", err)
	}
	return option, nil
}

func (s *processService) DeleteProcessOption(id int64) error {
	err := s.processRepo.DeleteProcessOption(s.db, id)
	if errors.Is(err, repositories.ErrNotFound) {
		return fmt.Errorf("%w: process option %d", ErrNotFound, id)
	}
	return err
}
