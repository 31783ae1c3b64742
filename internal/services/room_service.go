package services

import (
	"database/sql"
	"errors"
	"fmt"

	"pos_backend/internal/models"
	"pos_backend/internal/repositories"
)

// RoomService manages product rooms and which simple products sit in them.
type RoomService interface {
	CreateRoom(room *models.ProductRoom) (*models.ProductRoom, error)
	GetRooms() ([]models.ProductRoom, error)
	GetRoomByID(id int64) (*models.ProductRoom, error)
	UpdateRoom(room *models.ProductRoom) (*models.ProductRoom, error)
	DeleteRoom(id int64) error

	AssignProduct(roomID, productID int64) error
	DetachProduct(roomID, productID int64) error
}

type roomService struct {
	roomRepo    repositories.RoomRepository
	productRepo repositories.ProductRepository
	db          *sql.DB
}

// NewRoomService creates a new instance of RoomService.
func NewRoomService(rr repositories.RoomRepository, pr repositories.ProductRepository, db *sql.DB) RoomService {
	return &roomService{roomRepo: rr, productRepo: pr, db: db}
}

func (s *roomService) CreateRoom(room *models.ProductRoom) (*models.ProductRoom, error) {
	if room.Name == "" {
		return nil, fmt.Errorf("%w: room name is required", ErrValidation)
	}
	if _, err := s.roomRepo.CreateRoom(room); err != nil {
		if errors.Is(err, repositories.ErrDuplicateKey) {
			return nil, fmt.Errorf("%w: room '%s' already exists", ErrValidation, room.Name)
		}
		return nil, fmt.Errorf("failed to create room: %w", err)
	}
	return room, nil
}

func (s *roomService) GetRooms() ([]models.ProductRoom, error) {
	return s.roomRepo.GetRooms()
}

func (s *roomService) GetRoomByID(id int64) (*models.ProductRoom, error) {
	room, err := s.roomRepo.GetRoomByID(id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("%w: room %d", ErrNotFound, id)
		}
		return nil, err
	}
	return room, nil
}

func (s *roomService) UpdateRoom(room *models.ProductRoom) (*models.ProductRoom, error) {
	if room.Name == "" {
		return nil, fmt.Errorf("%w: room name is required", ErrValidation)
	}
	if err := s.roomRepo.UpdateRoom(room); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("%w: room %d", ErrNotFound, room.ID)
		}
		if errors.Is(err, repositories.ErrDuplicateKey) {
			return nil, fmt.Errorf("%w: room '%s' already exists", ErrValidation, room.Name)
		}
		return nil, fmt.Errorf("failed to update room: %w", err)
	}
	return room, nil
}

// DeleteRoom releases every product pinned to the room before removing it, so
// products survive the room they were shown in.
func (s *roomService) DeleteRoom(id int64) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := s.roomRepo.DetachAllProducts(tx, id); err != nil {
		return fmt.Errorf("failed to detach products: %w", err)
	}
	if err := s.roomRepo.DeleteRoom(tx, id); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return fmt.Errorf("%w: room %d", ErrNotFound, id)
		}
		return fmt.Errorf("failed to delete room: %w", err)
	}
	return tx.Commit()
}

// AssignProduct pins a simple product to a room. Variant parents sell through
// their variants and stay off the floor plan; a product already pinned
// elsewhere must be detached first.
func (s *roomService) AssignProduct(roomID, productID int64) error {
	if _, err := s.GetRoomByID(roomID); err != nil {
		return err
	}
	product, err := s.productRepo.GetProductByID(productID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return fmt.Errorf("%w: product %d", ErrNotFound, productID)
		}
		return err
	}
	if product.HasVariants {
		return fmt.Errorf("%w: only simple products can be placed in a room", ErrValidation)
	}
	if product.RoomID != nil && *product.RoomID != roomID {
		return fmt.Errorf("%w: product %d is already in room %d", ErrValidation, productID, *product.RoomID)
	}
	return s.roomRepo.AssignProduct(s.db, roomID, productID)
}

func (s *roomService) DetachProduct(roomID, productID int64) error {
	err := s.roomRepo.DetachProduct(s.db, roomID, productID)
	if errors.Is(err, repositories.ErrNotFound) {
		return fmt.Errorf("%w: product %d is not in room %d", ErrNotFound, productID, roomID)
	}
	return err
}
