package main

import (
	"log"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"pos_backend/internal/database"
	router_pkg "pos_backend/internal/router"
	"pos_backend/pkg/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	utils.InitLogger()

	// Load database configuration from environment variables
	dbHost := utils.Getenv("DB_HOST", "localhost")
	dbPort := utils.Getenv("DB_PORT", "5432")
	dbUser := utils.Getenv("DB_USER", "pos_user")
	dbPassword := utils.Getenv("DB_PASSWORD", "pos_password")
	dbName := utils.Getenv("DB_NAME", "pos_db")
	dbSSLMode := utils.Getenv("DB_SSLMODE", "disable")
	dbSchemaPath := utils.Getenv("DB_SCHEMA_PATH", "")

	database.InitDB(dbHost, dbPort, dbUser, dbPassword, dbName, dbSSLMode, dbSchemaPath)
	utils.LogInfo("Database initialized", map[string]interface{}{"host": dbHost, "name": dbName})

	rdb := redis.NewClient(&redis.Options{
		Addr:     utils.Getenv("REDIS_ADDR", "localhost:6379"),
		Password: utils.Getenv("REDIS_PASSWORD", ""),
	})

	rejectOnInsufficientStock, _ := strconv.ParseBool(utils.Getenv("REJECT_ON_INSUFFICIENT_STOCK", "false"))
	checkoutMaxAttempts, err := strconv.Atoi(utils.Getenv("CHECKOUT_MAX_ATTEMPTS", "3"))
	if err != nil || checkoutMaxAttempts < 1 {
		checkoutMaxAttempts = 3
	}
	cartTTLHours, err := strconv.Atoi(utils.Getenv("CART_TTL_HOURS", "24"))
	if err != nil || cartTTLHours < 1 {
		cartTTLHours = 24
	}

	router := gin.Default()
	router.Use(utils.GinLogger())

	// CORS configuration
	corsAllowedOriginsEnv := os.Getenv("CORS_ALLOWED_ORIGINS")
	var allowedOrigins []string
	if corsAllowedOriginsEnv != "" {
		allowedOrigins = strings.Split(corsAllowedOriginsEnv, ",")
	} else {
		allowedOrigins = []string{"http://localhost:3000", "http://localhost:3001"}
	}

	config := cors.DefaultConfig()
	config.AllowOrigins = allowedOrigins
	config.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	config.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization"}
	config.AllowCredentials = true
	router.Use(cors.New(config))

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	router_pkg.Setup(router, database.GetDB(), rdb, router_pkg.Config{
		RejectOnInsufficientStock: rejectOnInsufficientStock,
		CheckoutMaxAttempts:       checkoutMaxAttempts,
		CartTTL:                   time.Duration(cartTTLHours) * time.Hour,
	})

	port := utils.Getenv("PORT", "8080")
	utils.LogInfo("Server starting", map[string]interface{}{"port": port, "reject_on_insufficient_stock": rejectOnInsufficientStock})

	if err := router.Run(":" + port); err != nil {
		utils.LogError(err, "Failed to start server")
		log.Fatalf("Failed to start server: %v", err)
	}
}
