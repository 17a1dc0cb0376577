package api

import (
	"context"  // Context for Redis operations
	"errors"   // Error inspection
	"net/http" // HTTP status codes
	"strconv"  // String conversion
	"time"     // Time durations

	"github.com/haimi-h/task-backend-sub000/internal/domain" // Importing domain models
	"github.com/haimi-h/task-backend-sub000/internal/ledger" // Balance mutation under lock
	"github.com/haimi-h/task-backend-sub000/internal/tron"   // Simulated wallet assignment
	"github.com/haimi-h/task-backend-sub000/internal/utils"  // Utility functions

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"github.com/sirupsen/logrus"   // Logging library
	"gorm.io/gorm"                 // GORM ORM library
)

// invalidateUserListCache drops the cached admin user listing pages
// (simple version: delete first 5 pages at the default size)
func invalidateUserListCache(rdb *redis.Client) {
	utils.DeleteCachePages(context.Background(), rdb, "admin:users:page=", ":size=20", 5)
}

// ListUsersHandler returns all users with pagination, cached in Redis
func ListUsersHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := context.Background() // Use background context for Redis
		// Create a cache key based on pagination parameters
		cacheKey := "admin:users:page=" + c.DefaultQuery("page", "1") + ":size=" + c.DefaultQuery("page_size", "20")
		// Try to get cached response
		var cached struct {
			Users      []domain.User `json:"users"`       // List of users
			Page       int           `json:"page"`        // Current page
			PageSize   int           `json:"page_size"`   // Page size
			Total      int64         `json:"total"`       // Total number of users
			TotalPages int           `json:"total_pages"` // Total pages
		}
		// If cached data found, return it
		found, err := utils.GetCache(ctx, rdb, cacheKey, &cached)
		if err == nil && found {
			c.JSON(http.StatusOK, gin.H{
				"users":       cached.Users,      // List of users
				"page":        cached.Page,       // Current page
				"page_size":   cached.PageSize,   // Page size
				"total":       cached.Total,      // Total number of users
				"total_pages": cached.TotalPages, // Total pages
				"cached":      true,              // Indicate response is from cache
			})
			return
		}
		page := 1      // Default page number
		pageSize := 20 // Default page size
		if p := c.Query("page"); p != "" {
			if v, err := strconv.Atoi(p); err == nil && v > 0 {
				page = v // Set page if valid
			}
		}
		// Check and set page size within limits
		if ps := c.Query("page_size"); ps != "" {
			// If valid, set page size
			if v, err := strconv.Atoi(ps); err == nil && v > 0 && v <= 100 {
				pageSize = v // Set page size
			}
		}
		offset := (page - 1) * pageSize // Calculate offset for pagination
		var total int64                 // Total user count
		// Fetch total user count
		if err := db.Model(&domain.User{}).Count(&total).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count users"}) // Return on error
			return
		}
		var users []domain.User // Slice to hold users
		// Apply offset and limit for pagination
		if err := db.Offset(offset).Limit(pageSize).Find(&users).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch users"}) // Return on error
			return
		}
		// The total number of pages
		totalPages := (int(total) + pageSize - 1) / pageSize // Calculate total pages
		// Prepare final response data
		respData := gin.H{
			"users":       users,      // List of users
			"page":        page,       // Current page
			"page_size":   pageSize,   // Page size
			"total":       total,      // Total number of users
			"total_pages": totalPages, // Total pages
			"cached":      false,      // Indicate response is not from cache
		}
		// Cache the response for future requests
		_ = utils.SetCache(ctx, rdb, cacheKey, respData, 60*time.Second)
		c.JSON(http.StatusOK, respData) // Return the response
	}
}

// InjectRequest is the admin balance injection payload
type InjectRequest struct {
	Amount float64 `json:"amount" binding:"required,gt=0"` // Credited amount
}

// InjectBalanceHandler credits a user's balance through the ledger
func InjectBalanceHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		targetID, err := strconv.Atoi(c.Param("userId")) // Parse the target user id
		if err != nil || targetID <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user id"})
			return
		}
		var req InjectRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Amount must be positive"})
			return
		}
		// Credit the balance under the user's row lock
		if err := ledger.Credit(db, uint(targetID), req.Amount); err != nil {
			switch {
			case errors.Is(err, ledger.ErrUserNotFound):
				c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			case errors.Is(err, ledger.ErrInvalidAmount):
				c.JSON(http.StatusBadRequest, gin.H{"error": "Amount must be positive"})
			default:
				// Log the error with context
				logrus.WithFields(logrus.Fields{
					"user_id": targetID,    // Target user
					"amount":  req.Amount,  // Credited amount
					"error":   err.Error(), // Error message
				}).Error("Balance injection failed")
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to inject balance"})
			}
			return
		}
		invalidateUserListCache(rdb) // The cached listing shows balances
		c.JSON(http.StatusOK, gin.H{"message": "Balance injected"})
	}
}

// DailyOrdersRequest is the admin quota payload
type DailyOrdersRequest struct {
	DailyOrders int `json:"daily_orders" binding:"min=0"` // New quota for the cycle
}

// SetDailyOrdersHandler resets a user's task quota window: daily_orders and
// uncompleted_orders both become n, completed_orders is untouched.
func SetDailyOrdersHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		targetID, err := strconv.Atoi(c.Param("userId")) // Parse the target user id
		if err != nil || targetID <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user id"})
			return
		}
		var req DailyOrdersRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil || req.DailyOrders < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "daily_orders must be non-negative"})
			return
		}
		// The counter reset runs under the user's row lock so a concurrent
		// rating submission cannot interleave with it
		err = ledger.WithUserLock(db, uint(targetID), func(tx *gorm.DB, user *domain.User) error {
			return tx.Model(user).Updates(map[string]any{
				"daily_orders":       req.DailyOrders, // New quota
				"uncompleted_orders": req.DailyOrders, // Window reset discards in-progress slots
			}).Error
		})
		if err != nil {
			if errors.Is(err, ledger.ErrUserNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update daily orders"})
			return
		}
		invalidateUserListCache(rdb) // The cached listing shows counters
		c.JSON(http.StatusOK, gin.H{"message": "Daily orders updated"})
	}
}

// InjectionPlanRequest is the admin lucky-order payload
type InjectionPlanRequest struct {
	InjectionOrder   int     `json:"injection_order" binding:"required,gt=0"` // Task ordinal the plan fires on
	CommissionRate   float64 `json:"commission_rate" binding:"min=0"`         // Commission rate
	InjectionsAmount float64 `json:"injections_amount" binding:"min=0"`       // Injection amount
}

// CreateInjectionPlanHandler creates a lucky-order plan for a user
func CreateInjectionPlanHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		targetID, err := strconv.Atoi(c.Param("userId")) // Parse the target user id
		if err != nil || targetID <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user id"})
			return
		}
		var req InjectionPlanRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		var user domain.User // Target user must exist
		if err := db.First(&user, targetID).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		plan := domain.InjectionPlan{
			UserID:           user.ID,              // Target user
			InjectionOrder:   req.InjectionOrder,   // Firing ordinal
			CommissionRate:   req.CommissionRate,   // Commission rate
			InjectionsAmount: req.InjectionsAmount, // Injection amount
		}
		// Persist the plan
		if err := db.Create(&plan).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create injection plan"})
			return
		}
		c.JSON(http.StatusCreated, gin.H{"plan": plan}) // Return the new plan
	}
}

// ListInjectionPlansHandler returns a user's lucky-order plans
func ListInjectionPlansHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		targetID, err := strconv.Atoi(c.Param("userId")) // Parse the target user id
		if err != nil || targetID <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user id"})
			return
		}
		var plans []domain.InjectionPlan // Slice to hold plans
		// Fetch in firing order
		if err := db.Where("user_id = ?", targetID).Order("injection_order").Find(&plans).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch injection plans"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"plans": plans}) // Return the listing
	}
}

// AssignWalletHandler assigns a simulated TRON wallet to a user, once
func AssignWalletHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		targetID, err := strconv.Atoi(c.Param("userId")) // Parse the target user id
		if err != nil || targetID <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user id"})
			return
		}
		var user domain.User // Target user must exist
		if err := db.First(&user, targetID).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		// A wallet is assigned at most once
		if user.WalletAddress != "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Wallet already assigned"})
			return
		}
		wallet, err := tron.GenerateWallet() // Simulated wallet material
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate wallet"})
			return
		}
		// Persist the assignment
		if err := db.Model(&user).Updates(map[string]any{
			"wallet_address":     wallet.Address,    // Deposit address
			"wallet_private_key": wallet.PrivateKey, // Simulated key material
		}).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to assign wallet"})
			return
		}
		// The key never leaves the backend
		c.JSON(http.StatusOK, gin.H{"message": "Wallet assigned", "address": wallet.Address})
	}
}
