package handlers

import (
	"net/http"

	"pos_backend/internal/models"
	"pos_backend/internal/services"
	"pos_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// RoomHandler exposes product rooms and product placement within them.
type RoomHandler struct {
	roomService services.RoomService
}

// NewRoomHandler creates a new RoomHandler.
func NewRoomHandler(rs services.RoomService) *RoomHandler {
	return &RoomHandler{roomService: rs}
}

func (h *RoomHandler) CreateRoom(c *gin.Context) {
	var room models.ProductRoom
	if err := c.ShouldBindJSON(&room); err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}
	created, err := h.roomService.CreateRoom(&room)
	if err != nil {
		utils.LogError(err, "CreateRoom: Error from roomService.CreateRoom")
		respondServiceError(c, err, "Failed to create room.")
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *RoomHandler) GetRooms(c *gin.Context) {
	rooms, err := h.roomService.GetRooms()
	if err != nil {
		utils.LogError(err, "GetRooms: Error from roomService.GetRooms")
		respondServiceError(c, err, "Failed to fetch rooms.")
		return
	}
	if rooms == nil {
		rooms = []models.ProductRoom{}
	}
	c.JSON(http.StatusOK, gin.H{"data": rooms})
}

func (h *RoomHandler) GetRoomByID(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	room, err := h.roomService.GetRoomByID(id)
	if err != nil {
		respondServiceError(c, err, "Failed to fetch room.")
		return
	}
	c.JSON(http.StatusOK, room)
}

func (h *RoomHandler) UpdateRoom(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	var room models.ProductRoom
	if err := c.ShouldBindJSON(&room); err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}
	room.ID = id
	updated, err := h.roomService.UpdateRoom(&room)
	if err != nil {
		utils.LogError(err, "UpdateRoom: Error from roomService.UpdateRoom")
		respondServiceError(c, err, "Failed to update room.")
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (h *RoomHandler) DeleteRoom(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	if err := h.roomService.DeleteRoom(id); err != nil {
		respondServiceError(c, err, "Failed to delete room.")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Room deleted, products detached"})
}

func (h *RoomHandler) AssignProduct(c *gin.Context) {
	roomID, ok := parseIDParam(c)
	if !ok {
		return
	}
	productID, ok := parsePathParam(c, "productId")
	if !ok {
		return
	}
	if err := h.roomService.AssignProduct(roomID, productID); err != nil {
		utils.LogError(err, "AssignProduct: Error from roomService.AssignProduct")
		respondServiceError(c, err, "Failed to add product to room.")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Product added to room"})
}

func (h *RoomHandler) DetachProduct(c *gin.Context) {
	roomID, ok := parseIDParam(c)
	if !ok {
		return
	}
	productID, ok := parsePathParam(c, "productId")
	if !ok {
		return
	}
	if err := h.roomService.DetachProduct(roomID, productID); err != nil {
		respondServiceError(c, err, "Failed to remove product from room.")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Product removed from room"})
}
