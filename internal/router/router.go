package router

import (
	"database/sql"
	"time"

	"pos_backend/internal/handlers"
	"pos_backend/internal/repositories"
	"pos_backend/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// Config carries the runtime knobs the wiring needs.
type Config struct {
	RejectOnInsufficientStock bool
	CheckoutMaxAttempts       int
	CartTTL                   time.Duration
}

// Setup initializes the routing for the application.
func Setup(engine *gin.Engine, db *sql.DB, rdb *redis.Client, cfg Config) {
	// Initialize Repositories
	catalogRepo := repositories.NewCatalogRepository(db)
	stockRepo := repositories.NewStockRepository(db)
	productRepo := repositories.NewProductRepository(db)
	recipeRepo := repositories.NewRecipeRepository(db)
	txnRepo := repositories.NewTransactionRepository(db)
	orderRepo := repositories.NewOrderRepository(db)
	customerRepo := repositories.NewCustomerRepository(db)
	processRepo := repositories.NewProcessRepository(db)
	roomRepo := repositories.NewRoomRepository(db)

	// Initialize Services
	ledger := services.NewStockLedger(productRepo, stockRepo, txnRepo)
	checkoutService := services.NewCheckoutService(orderRepo, productRepo, recipeRepo, stockRepo, ledger, db, services.CheckoutConfig{
		RejectOnInsufficientStock: cfg.RejectOnInsufficientStock,
		MaxAttempts:               cfg.CheckoutMaxAttempts,
	})
	inventoryService := services.NewInventoryService(stockRepo, productRepo, txnRepo, ledger, db)
	catalogService := services.NewCatalogService(catalogRepo, db)
	productService := services.NewProductService(productRepo, recipeRepo, stockRepo, db)
	recipeService := services.NewRecipeService(recipeRepo, db)
	customerService := services.NewCustomerService(customerRepo, db)
	cartService := services.NewCartService(rdb, cfg.CartTTL)
	processService := services.NewProcessService(processRepo, db)
	roomService := services.NewRoomService(roomRepo, productRepo, db)

	// Initialize Handlers
	orderHandler := handlers.NewOrderHandler(checkoutService)
	inventoryHandler := handlers.NewInventoryHandler(inventoryService)
	catalogHandler := handlers.NewCatalogHandler(catalogService)
	productHandler := handlers.NewProductHandler(productService)
	recipeHandler := handlers.NewRecipeHandler(recipeService)
	customerHandler := handlers.NewCustomerHandler(customerService, checkoutService)
	cartHandler := handlers.NewCartHandler(cartService, checkoutService)
	processHandler := handlers.NewProcessHandler(processService)
	roomHandler := handlers.NewRoomHandler(roomService)

	apiV1 := engine.Group("/api/v1")
	{
		SetupOrderRoutes(apiV1, orderHandler)
		SetupCatalogRoutes(apiV1, catalogHandler)
		SetupProductRoutes(apiV1, productHandler)
		SetupRecipeRoutes(apiV1, recipeHandler)
		SetupInventoryRoutes(apiV1, inventoryHandler)
		SetupCustomerRoutes(apiV1, customerHandler)
		SetupCartRoutes(apiV1, cartHandler)
		SetupProcessRoutes(apiV1, processHandler)
		SetupRoomRoutes(apiV1, roomHandler)
	}
}
