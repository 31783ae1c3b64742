package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"pos_backend/internal/models"
	"pos_backend/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubCheckoutService struct {
	result *services.CheckoutResult
	err    error
}

func (s *stubCheckoutService) Checkout(req services.CheckoutRequest) (*services.CheckoutResult, error) {
	return s.result, s.err
}

func (s *stubCheckoutService) GetOrders(filters models.OrderFilters) ([]models.Order, int, error) {
	return nil, 0, nil
}

func (s *stubCheckoutService) GetOrderByID(orderID int64) (*models.Order, error) {
	return nil, s.err
}

func newCheckoutRouter(svc services.CheckoutService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	handler := NewOrderHandler(svc)
	engine.POST("/orders/checkout", handler.Checkout)
	engine.GET("/orders/:id", handler.GetOrderByID)
	return engine
}

func TestCheckoutHandler_Success(t *testing.T) {
	engine := newCheckoutRouter(&stubCheckoutService{
		result: &services.CheckoutResult{OrderID: 7, TotalPrice: 140},
	})

	body, _ := json.Marshal(map[string]interface{}{
		"items":          []map[string]interface{}{{"product_id": 1, "quantity": 2}},
		"payment_method": "cash",
	})
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/orders/checkout", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	engine.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code)
	var result services.CheckoutResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.Equal(t, int64(7), result.OrderID)
	assert.Equal(t, 140.0, result.TotalPrice)
}

func TestCheckoutHandler_BadPayload(t *testing.T) {
	engine := newCheckoutRouter(&stubCheckoutService{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/orders/checkout", bytes.NewReader([]byte(`{"items": []}`)))
	req.Header.Set("Content-Type", "application/json")
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCheckoutHandler_ErrorMapping(t *testing.T) {
	cases := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"not found", fmt.Errorf("%w: product 99", services.ErrNotFound), http.StatusNotFound},
		{"validation", fmt.Errorf("%w: variant mismatch", services.ErrValidation), http.StatusBadRequest},
		{"insufficient stock", fmt.Errorf("%w: Bottled Water", services.ErrInsufficientStock), http.StatusConflict},
		{"internal", fmt.Errorf("%w: state priced: boom", services.ErrCheckoutFailed), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			engine := newCheckoutRouter(&stubCheckoutService{err: tc.err})

			body, _ := json.Marshal(map[string]interface{}{
				"items":          []map[string]interface{}{{"product_id": 1, "quantity": 1}},
				"payment_method": "cash",
			})
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/orders/checkout", bytes.NewReader(body))
			req.Header.Set("Content-Type", "application/json")
			engine.ServeHTTP(w, req)

			assert.Equal(t, tc.wantStatus, w.Code)
		})
	}
}

func TestGetOrderByIDHandler_InvalidID(t *testing.T) {
	engine := newCheckoutRouter(&stubCheckoutService{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/orders/abc", nil)
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
