package handlers

import (
	"net/http"

	"pos_backend/internal/services"
	"pos_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// CartHandler exposes per-terminal cart staging.
type CartHandler struct {
	cartService     services.CartService
	checkoutService services.CheckoutService
}

// NewCartHandler creates a new CartHandler.
func NewCartHandler(carts services.CartService, checkout services.CheckoutService) *CartHandler {
	return &CartHandler{cartService: carts, checkoutService: checkout}
}

// CreateCart opens a fresh cart and returns its id.
func (h *CartHandler) CreateCart(c *gin.Context) {
	cart, err := h.cartService.CreateCart(c.Request.Context())
	if err != nil {
		utils.LogError(err, "CreateCart: Error from cartService.CreateCart")
		respondServiceError(c, err, "Failed to create cart.")
		return
	}
	c.JSON(http.StatusCreated, cart)
}

func (h *CartHandler) GetCart(c *gin.Context) {
	cart, err := h.cartService.GetCart(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondServiceError(c, err, "Failed to fetch cart.")
		return
	}
	c.JSON(http.StatusOK, cart)
}

func (h *CartHandler) AddItem(c *gin.Context) {
	var line services.CartLine
	if err := c.ShouldBindJSON(&line); err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}
	cart, err := h.cartService.AddItem(c.Request.Context(), c.Param("id"), line)
	if err != nil {
		utils.LogError(err, "AddItem: Error from cartService.AddItem")
		respondServiceError(c, err, "Failed to add item to cart.")
		return
	}
	c.JSON(http.StatusOK, cart)
}

func (h *CartHandler) DecreaseItem(c *gin.Context) {
	var line services.CartLine
	if err := c.ShouldBindJSON(&line); err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}
	cart, err := h.cartService.DecreaseItem(c.Request.Context(), c.Param("id"), line)
	if err != nil {
		respondServiceError(c, err, "Failed to decrease item in cart.")
		return
	}
	c.JSON(http.StatusOK, cart)
}

func (h *CartHandler) RemoveItem(c *gin.Context) {
	var line services.CartLine
	if err := c.ShouldBindJSON(&line); err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}
	cart, err := h.cartService.RemoveItem(c.Request.Context(), c.Param("id"), line)
	if err != nil {
		respondServiceError(c, err, "Failed to remove item from cart.")
		return
	}
	c.JSON(http.StatusOK, cart)
}

func (h *CartHandler) ClearCart(c *gin.Context) {
	if err := h.cartService.ClearCart(c.Request.Context(), c.Param("id")); err != nil {
		respondServiceError(c, err, "Failed to clear cart.")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Cart cleared successfully"})
}

// checkoutCartRequest carries the settlement fields for a staged cart.
type checkoutCartRequest struct {
	PaymentMethod string `json:"payment_method" binding:"required"`
	CustomerID    *int64 `json:"customer_id"`
}

// CheckoutCart settles a staged cart and clears it on success.
func (h *CartHandler) CheckoutCart(c *gin.Context) {
	var req checkoutCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}
	cartID := c.Param("id")
	cart, err := h.cartService.GetCart(c.Request.Context(), cartID)
	if err != nil {
		respondServiceError(c, err, "Failed to fetch cart.")
		return
	}

	result, err := h.checkoutService.Checkout(services.CheckoutRequest{
		Items:         cart.ToCheckoutItems(),
		PaymentMethod: req.PaymentMethod,
		CustomerID:    req.CustomerID,
	})
	if err != nil {
		utils.LogError(err, "CheckoutCart: Error from checkoutService.Checkout")
		respondServiceError(c, err, "Checkout failed.")
		return
	}

	// The order is already committed; a failed cleanup only leaves the cart
	// to expire on its own.
	if err := h.cartService.ClearCart(c.Request.Context(), cartID); err != nil {
		utils.LogError(err, "CheckoutCart: Failed to clear cart after checkout")
	}
	c.JSON(http.StatusCreated, result)
}
