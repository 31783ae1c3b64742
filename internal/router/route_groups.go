package router

import (
	"pos_backend/internal/handlers"

	"github.com/gin-gonic/gin"
)

// SetupOrderRoutes sets up checkout and order history routes.
func SetupOrderRoutes(apiGroup *gin.RouterGroup, orderHandler *handlers.OrderHandler) {
	orderRoutes := apiGroup.Group("/orders")
	{
		orderRoutes.POST("/checkout", orderHandler.Checkout)
		orderRoutes.GET("", orderHandler.GetOrders)
		orderRoutes.GET("/:id", orderHandler.GetOrderByID)
	}
}

// SetupCatalogRoutes sets up category and unit routes.
func SetupCatalogRoutes(apiGroup *gin.RouterGroup, catalogHandler *handlers.CatalogHandler) {
	categoryRoutes := apiGroup.Group("/categories")
	{
		categoryRoutes.POST("", catalogHandler.CreateCategory)
		categoryRoutes.GET("", catalogHandler.GetCategories)
		categoryRoutes.GET("/:id", catalogHandler.GetCategoryByID)
		categoryRoutes.PUT("/:id", catalogHandler.UpdateCategory)
		categoryRoutes.DELETE("/:id", catalogHandler.DeleteCategory)
	}

	unitRoutes := apiGroup.Group("/units")
	{
		unitRoutes.POST("", catalogHandler.CreateUnit)
		unitRoutes.GET("", catalogHandler.GetUnits)
		unitRoutes.DELETE("/:id", catalogHandler.DeleteUnit)
	}
}

// SetupProductRoutes sets up the sellable catalog routes.
func SetupProductRoutes(apiGroup *gin.RouterGroup, productHandler *handlers.ProductHandler) {
	productRoutes := apiGroup.Group("/products")
	{
		productRoutes.POST("", productHandler.CreateProduct)
		productRoutes.GET("", productHandler.GetProducts)
		productRoutes.GET("/:id", productHandler.GetProductByID)
		productRoutes.PUT("/:id", productHandler.UpdateProduct)
		productRoutes.DELETE("/:id", productHandler.DeleteProduct)
	}
}

// SetupRecipeRoutes sets up master recipe routes.
func SetupRecipeRoutes(apiGroup *gin.RouterGroup, recipeHandler *handlers.RecipeHandler) {
	recipeRoutes := apiGroup.Group("/recipes")
	{
		recipeRoutes.POST("", recipeHandler.CreateRecipe)
		recipeRoutes.GET("", recipeHandler.GetRecipes)
		recipeRoutes.GET("/:id", recipeHandler.GetRecipeByID)
		recipeRoutes.PUT("/:id", recipeHandler.UpdateRecipe)
		recipeRoutes.DELETE("/:id", recipeHandler.DeleteRecipe)
	}
}

// SetupProcessRoutes sets up preparation process group routes.
func SetupProcessRoutes(apiGroup *gin.RouterGroup, processHandler *handlers.ProcessHandler) {
	processRoutes := apiGroup.Group("/processes")
	{
		processRoutes.POST("/groups", processHandler.CreateProcessGroup)
		processRoutes.GET("/groups", processHandler.GetProcessGroups)
		processRoutes.DELETE("/groups/:id", processHandler.DeleteProcessGroup)
		processRoutes.POST("/options", processHandler.AddProcessOption)
		processRoutes.DELETE("/options/:id", processHandler.DeleteProcessOption)
	}
}

// SetupRoomRoutes sets up product room routes.
func SetupRoomRoutes(apiGroup *gin.RouterGroup, roomHandler *handlers.RoomHandler) {
	roomRoutes := apiGroup.Group("/product-rooms")
	{
		roomRoutes.POST("", roomHandler.CreateRoom)
		roomRoutes.GET("", roomHandler.GetRooms)
		roomRoutes.GET("/:id", roomHandler.GetRoomByID)
		roomRoutes.PUT("/:id", roomHandler.UpdateRoom)
		roomRoutes.DELETE("/:id", roomHandler.DeleteRoom)
		roomRoutes.POST("/:id/products/:productId", roomHandler.AssignProduct)
		roomRoutes.DELETE("/:id/products/:productId", roomHandler.DetachProduct)
	}
}

// SetupInventoryRoutes sets up ingredient, consumable and ledger routes.
func SetupInventoryRoutes(apiGroup *gin.RouterGroup, inventoryHandler *handlers.InventoryHandler) {
	ingredientRoutes := apiGroup.Group("/ingredients")
	{
		ingredientRoutes.POST("", inventoryHandler.CreateIngredient)
		ingredientRoutes.GET("", inventoryHandler.GetIngredients)
		ingredientRoutes.GET("/:id", inventoryHandler.GetIngredientByID)
		ingredientRoutes.PUT("/:id", inventoryHandler.UpdateIngredient)
		ingredientRoutes.DELETE("/:id", inventoryHandler.DeleteIngredient)
	}

	consumableRoutes := apiGroup.Group("/consumables")
	{
		consumableRoutes.POST("", inventoryHandler.CreateConsumable)
		consumableRoutes.GET("", inventoryHandler.GetConsumables)
		consumableRoutes.GET("/:id", inventoryHandler.GetConsumableByID)
		consumableRoutes.PUT("/:id", inventoryHandler.UpdateConsumable)
		consumableRoutes.DELETE("/:id", inventoryHandler.DeleteConsumable)
	}

	inventoryRoutes := apiGroup.Group("/inventory")
	{
		inventoryRoutes.POST("/corrections", inventoryHandler.CorrectStock)
		inventoryRoutes.GET("/transactions", inventoryHandler.GetTransactions)
	}
}

// SetupCustomerRoutes sets up the customer directory routes.
func SetupCustomerRoutes(apiGroup *gin.RouterGroup, customerHandler *handlers.CustomerHandler) {
	customerRoutes := apiGroup.Group("/customers")
	{
		customerRoutes.POST("", customerHandler.CreateCustomer)
		customerRoutes.GET("", customerHandler.GetCustomers)
		customerRoutes.GET("/:id", customerHandler.GetCustomerByID)
		customerRoutes.GET("/:id/orders", customerHandler.GetCustomerOrders)
		customerRoutes.PUT("/:id", customerHandler.UpdateCustomer)
		customerRoutes.DELETE("/:id", customerHandler.DeleteCustomer)
	}
}

// SetupCartRoutes sets up the cart staging routes.
func SetupCartRoutes(apiGroup *gin.RouterGroup, cartHandler *handlers.CartHandler) {
	cartRoutes := apiGroup.Group("/carts")
	{
		cartRoutes.POST("", cartHandler.CreateCart)
		cartRoutes.GET("/:id", cartHandler.GetCart)
		cartRoutes.POST("/:id/items", cartHandler.AddItem)
		cartRoutes.POST("/:id/items/decrease", cartHandler.DecreaseItem)
		cartRoutes.POST("/:id/items/remove", cartHandler.RemoveItem)
		cartRoutes.DELETE("/:id", cartHandler.ClearCart)
		cartRoutes.POST("/:id/checkout", cartHandler.CheckoutCart)
	}
}
