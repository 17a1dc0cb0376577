package main

import (
	"context" // context package is needed for Redis operations
	"log"     // log package is needed for logging

	"github.com/haimi-h/task-backend-sub000/internal/api"        // Custom package for API handlers
	"github.com/haimi-h/task-backend-sub000/internal/config"     // Custom package for configuration
	"github.com/haimi-h/task-backend-sub000/internal/middleware" // Custom package for middleware
	"github.com/haimi-h/task-backend-sub000/internal/realtime"   // Custom package for the websocket hub

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"github.com/sirupsen/logrus"   // Logrus for structured logging
	"gorm.io/driver/mysql"         // MySQL driver for GORM
	"gorm.io/gorm"                 // GORM ORM library
)

// Main function to set up and run the server
func main() {
	cfg := config.LoadConfig() // Load configuration

	// Setup logger
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	// Connect to the database
	db, err := gorm.Open(mysql.Open(cfg.DSN()), &gorm.Config{})
	if err != nil {
		logrus.Fatalf("failed to connect to DB: %v", err) // Fatal error if DB connection fails
	}

	// Setup Redis client
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr, // Redis server address
		Password: cfg.RedisPass, // Redis password
		DB:       cfg.RedisDB,   // Redis database number
	})

	// Test Redis connection
	_, err = redisClient.Ping(context.Background()).Result()
	if err != nil {
		logrus.Fatalf("failed to connect to Redis: %v", err)
	}

	// The hub is created here and passed down explicitly, never stored globally
	hub := realtime.NewHub()

	// Set Mode to Release if in production
	if cfg.IsProd {
		gin.SetMode(gin.ReleaseMode)
	}

	// Setup Gin
	r := gin.Default() // Gin router instance

	// Set trusted proxies for Gin
	if err := r.SetTrustedProxies([]string{"127.0.0.1"}); err != nil {
		logrus.Fatalf("failed to set trusted proxies: %v", err)
	}

	// Auth routes
	r.POST("/auth/signup", api.SignupHandler(db))              // Registration endpoint
	r.POST("/auth/login", api.LoginHandler(db, cfg.JWTSecret)) // Login endpoint

	auth := middleware.JWTAuthMiddleware(cfg.JWTSecret)    // Token check for protected routes
	adminOnly := middleware.AdminOnlyMiddleware(db)        // Role check for admin routes

	// Websocket endpoint (protected by JWT)
	r.GET("/ws", auth, hub.ServeWS())

	// User routes (protected by JWT)
	userGroup := r.Group("/users")
	userGroup.Use(auth)
	userGroup.GET("/me", api.MeHandler(db))                        // Profile endpoint
	userGroup.POST("/withdraw", api.WithdrawHandler(db))           // Withdrawal endpoint
	userGroup.GET("/withdrawals", api.ListWithdrawalsHandler(db))  // Withdrawal history endpoint

	// Task routes (protected by JWT)
	taskGroup := r.Group("/tasks")
	taskGroup.Use(auth)
	taskGroup.GET("/task", api.GetTaskHandler(db))                          // Next task endpoint
	taskGroup.POST("/submit-rating", api.SubmitRatingHandler(db))           // Rating submission endpoint
	taskGroup.GET("/products", api.ListProductsHandler(db, redisClient))    // Product catalog endpoint

	// Recharge routes (protected by JWT, admin decisions behind the role check)
	rechargeGroup := r.Group("/recharge")
	rechargeGroup.Use(auth)
	rechargeGroup.POST("/submit", api.SubmitRechargeHandler(db, hub))             // Deposit claim endpoint
	rechargeGroup.GET("/my", api.MyRechargesHandler(db))                          // Own request history endpoint
	rechargeGroup.POST("/transaction", api.CreateRechargeTransactionHandler(db)) // Deposit watch endpoint
	rechargeAdmin := rechargeGroup.Group("/admin")
	rechargeAdmin.Use(adminOnly)
	rechargeAdmin.GET("/pending", api.ListRechargesHandler(db, true)) // Pending request listing
	rechargeAdmin.GET("/all", api.ListRechargesHandler(db, false))    // Full request listing
	rechargeAdmin.PUT("/approve/:requestId", api.DecideRechargeHandler(db, hub, "approved")) // Approval endpoint
	rechargeAdmin.PUT("/reject/:requestId", api.DecideRechargeHandler(db, hub, "rejected"))  // Rejection endpoint

	// Chat routes (protected by JWT)
	chatGroup := r.Group("/chat")
	chatGroup.Use(auth)
	chatGroup.POST("/messages", api.SendMessageHandler(db, redisClient, hub))       // Message endpoint
	chatGroup.GET("/messages/:userId", api.GetConversationHandler(db, redisClient)) // Conversation history endpoint
	chatGroup.GET("/conversations", adminOnly, api.ListConversationsHandler(db, redisClient)) // Admin overview endpoint

	// Admin routes (protected, admin only)
	adminGroup := r.Group("/admin")
	adminGroup.Use(auth, adminOnly)
	adminGroup.GET("/users", api.ListUsersHandler(db, redisClient))                        // List users endpoint
	adminGroup.POST("/users/inject/:userId", api.InjectBalanceHandler(db, redisClient))    // Balance injection endpoint
	adminGroup.PUT("/users/:userId/daily-orders", api.SetDailyOrdersHandler(db, redisClient)) // Quota reset endpoint
	adminGroup.POST("/injection-plans/:userId", api.CreateInjectionPlanHandler(db))        // Lucky-order creation endpoint
	adminGroup.GET("/injection-plans/:userId", api.ListInjectionPlansHandler(db))          // Lucky-order listing endpoint
	adminGroup.POST("/wallets/:userId", api.AssignWalletHandler(db))                       // Wallet assignment endpoint
	adminGroup.POST("/products", api.CreateProductHandler(db, redisClient))                // Catalog creation endpoint

	log.Println("Server running on " + cfg.AppPort) // Log server start
	r.Run(":" + cfg.AppPort)                        // Start the server on port cfg.AppPort
}
