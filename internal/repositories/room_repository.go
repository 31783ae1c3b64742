package repositories

import (
	"database/sql"
	"errors"
	"fmt"

	"pos_backend/internal/models"

	"github.com/lib/pq"
)

// RoomRepository defines database operations for product rooms and the
// room membership column on products.
type RoomRepository interface {
	CreateRoom(room *models.ProductRoom) (int64, error)
	GetRooms() ([]models.ProductRoom, error)
	GetRoomByID(id int64) (*models.ProductRoom, error)
	UpdateRoom(room *models.ProductRoom) error
	DeleteRoom(executor SQLExecutor, id int64) error

	// AssignProduct pins a product to a room; DetachProduct releases it only
	// when it is currently in that room.
	AssignProduct(executor SQLExecutor, roomID, productID int64) error
	DetachProduct(executor SQLExecutor, roomID, productID int64) error
	DetachAllProducts(executor SQLExecutor, roomID int64) error
}

type roomRepository struct {
	db *sql.DB
}

// NewRoomRepository creates a new instance of RoomRepository.
func NewRoomRepository(db *sql.DB) RoomRepository {
	return &roomRepository{db: db}
}

func (r *roomRepository) CreateRoom(room *models.ProductRoom) (int64, error) {
	err := r.db.QueryRow(
		`INSERT INTO product_rooms (name) VALUES ($1) RETURNING id`,
		room.Name,
	).Scan(&room.ID)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return 0, fmt.Errorf("%w: room '%s' already exists", ErrDuplicateKey, room.Name)
		}
		return 0, fmt.Errorf("%w: creating room: %w", ErrDatabaseError, err)
	}
	return room.ID, nil
}

func (r *roomRepository) GetRooms() ([]models.ProductRoom, error) {
	rooms := []models.ProductRoom{}
	rows, err := r.db.Query(`SELECT id, name FROM product_rooms ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("%w: getting rooms: %w", ErrDatabaseError, err)
	}
	defer rows.Close()
	for rows.Next() {
		var room models.ProductRoom
		if err := rows.Scan(&room.ID, &room.Name); err != nil {
			return nil, fmt.Errorf("%w: scanning room: %w", ErrDatabaseError, err)
		}
		rooms = append(rooms, room)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating rooms: %w", ErrDatabaseError, err)
	}
	return rooms, nil
}

func (r *roomRepository) GetRoomByID(id int64) (*models.ProductRoom, error) {
	room := &models.ProductRoom{}
	err := r.db.QueryRow(`SELECT id, name FROM product_rooms WHERE id = $1`, id).
		Scan(&room.ID, &room.Name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting room by ID %d: %w", ErrDatabaseError, id, err)
	}
	return room, nil
}

func (r *roomRepository) UpdateRoom(room *models.ProductRoom) error {
	result, err := r.db.Exec(`UPDATE product_rooms SET name = $1 WHERE id = $2`, room.Name, room.ID)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return fmt.Errorf("%w: room '%s' already exists", ErrDuplicateKey, room.Name)
		}
		return fmt.Errorf("%w: updating room ID %d: %w", ErrDatabaseError, room.ID, err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *roomRepository) DeleteRoom(executor SQLExecutor, id int64) error {
	result, err := executor.Exec(`DELETE FROM product_rooms WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("%w: deleting room ID %d: %w", ErrDatabaseError, id, err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *roomRepository) AssignProduct(executor SQLExecutor, roomID, productID int64) error {
	result, err := executor.Exec(`UPDATE products SET room_id = $1 WHERE id = $2`, roomID, productID)
	if err != nil {
		return fmt.Errorf("%w: assigning product %d to room %d: %w", ErrDatabaseError, productID, roomID, err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *roomRepository) DetachProduct(executor SQLExecutor, roomID, productID int64) error {
	result, err := executor.Exec(
		`UPDATE products SET room_id = NULL WHERE id = $1 AND room_id = $2`, productID, roomID)
	if err != nil {
		return fmt.Errorf("%w: detaching product %d from room %d: %w", ErrDatabaseError, productID, roomID, err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *roomRepository) DetachAllProducts(executor SQLExecutor, roomID int64) error {
	if _, err := executor.Exec(`UPDATE products SET room_id = NULL WHERE room_id = $1`, roomID); err != nil {
		return fmt.Errorf("%w: detaching products from room %d: %w", ErrDatabaseError, roomID, err)
	}
	return nil
}
