package handlers

import (
	"net/http"
	"strconv"

	"pos_backend/internal/models"
	"pos_backend/internal/services"
	"pos_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// CustomerHandler exposes the customer directory.
type CustomerHandler struct {
	customerService services.CustomerService
	checkoutService services.CheckoutService
}

// NewCustomerHandler creates a new CustomerHandler.
func NewCustomerHandler(cs services.CustomerService, chs services.CheckoutService) *CustomerHandler {
	return &CustomerHandler{customerService: cs, checkoutService: chs}
}

func (h *CustomerHandler) CreateCustomer(c *gin.Context) {
	var customer models.Customer
	if err := c.ShouldBindJSON(&customer); err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}
	created, err := h.customerService.CreateCustomer(&customer)
	if err != nil {
		utils.LogError(err, "CreateCustomer: Error from customerService.CreateCustomer")
		respondServiceError(c, err, "Failed to create customer.")
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *CustomerHandler) GetCustomers(c *gin.Context) {
	if term := c.Query("search"); term != "" {
		customers, err := h.customerService.SearchCustomers(term)
		if err != nil {
			utils.LogError(err, "GetCustomers: Error from customerService.SearchCustomers")
			respondServiceError(c, err, "Failed to search customers.")
			return
		}
		if customers == nil {
			customers = []models.Customer{}
		}
		c.JSON(http.StatusOK, gin.H{"data": customers, "total": len(customers)})
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "50"))
	customers, totalCount, err := h.customerService.GetCustomers(page, pageSize)
	if err != nil {
		utils.LogError(err, "GetCustomers: Error from customerService.GetCustomers")
		respondServiceError(c, err, "Failed to fetch customers.")
		return
	}
	if customers == nil {
		customers = []models.Customer{}
	}
	c.JSON(http.StatusOK, gin.H{"data": customers, "total": totalCount})
}

func (h *CustomerHandler) GetCustomerByID(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	customer, err := h.customerService.GetCustomerByID(id)
	if err != nil {
		respondServiceError(c, err, "Failed to fetch customer.")
		return
	}
	c.JSON(http.StatusOK, customer)
}

// GetCustomerOrders handles fetching the purchase history of a single customer.
func (h *CustomerHandler) GetCustomerOrders(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	if _, err := h.customerService.GetCustomerByID(id); err != nil {
		respondServiceError(c, err, "Failed to fetch customer.")
		return
	}

	filters := models.OrderFilters{CustomerID: &id, Page: 1, PageSize: 50}
	if pageStr := c.Query("page"); pageStr != "" {
		page, err := strconv.Atoi(pageStr)
		if err != nil || page < 1 {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid page format.", "page must be a positive integer"))
			return
		}
		filters.Page = page
	}
	if pageSizeStr := c.Query("page_size"); pageSizeStr != "" {
		pageSize, err := strconv.Atoi(pageSizeStr)
		if err != nil || pageSize < 1 {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid page_size format.", "page_size must be a positive integer"))
			return
		}
		filters.PageSize = pageSize
	}
	orders, totalCount, err := h.checkoutService.GetOrders(filters)
	if err != nil {
		utils.LogError(err, "GetCustomerOrders: Error from checkoutService.GetOrders")
		respondServiceError(c, err, "Failed to fetch customer orders.")
		return
	}
	if orders == nil {
		orders = []models.Order{}
	}
	c.JSON(http.StatusOK, gin.H{"data": orders, "total": totalCount, "page": filters.Page, "page_size": filters.PageSize})
}

func (h *CustomerHandler) UpdateCustomer(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	var customer models.Customer
	if err := c.ShouldBindJSON(&customer); err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}
	customer.ID = id
	updated, err := h.customerService.UpdateCustomer(&customer)
	if err != nil {
		utils.LogError(err, "UpdateCustomer: Error from customerService.UpdateCustomer")
		respondServiceError(c, err, "Failed to update customer.")
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (h *CustomerHandler) DeleteCustomer(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	if err := h.customerService.DeleteCustomer(id); err != nil {
		respondServiceError(c, err, "Failed to delete customer.")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Customer deleted successfully"})
}
