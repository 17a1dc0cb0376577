package api

import (
	"context"  // Context for Redis operations
	"net/http" // HTTP status codes
	"time"     // Time durations

	"github.com/haimi-h/task-backend-sub000/internal/domain" // Importing domain models
	"github.com/haimi-h/task-backend-sub000/internal/utils"  // Utility functions

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"gorm.io/gorm"                 // GORM ORM library
)

// productCacheKey is the Redis key for the full catalog listing
const productCacheKey = "products:all"

// ProductRequest is the admin catalog item payload
type ProductRequest struct {
	Name            string  `json:"name" binding:"required"`         // Catalog item name
	Price           float64 `json:"price" binding:"required,gt=0"`   // Listed price
	Profit          float64 `json:"profit" binding:"min=0"`          // Profit paid on completion
	CapitalRequired float64 `json:"capital_required" binding:"min=0"` // Minimum balance to receive this task
	Image           string  `json:"image"`                           // Image URL
}

// ListProductsHandler returns the product catalog, cached in Redis
func ListProductsHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := context.Background()  // Context for Redis operations
		var products []domain.Product // Slice to hold products
		// Try to get from cache
		found, err := utils.GetCache(ctx, rdb, productCacheKey, &products)
		if err == nil && found {
			// Return cached catalog
			c.JSON(http.StatusOK, gin.H{"products": products, "cached": true})
			return
		}
		// If not in cache, fetch from DB
		if err := db.Order("id").Find(&products).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch products"})
			return
		}
		_ = utils.SetCache(ctx, rdb, productCacheKey, products, 60*time.Second) // Cache the catalog for 60 seconds
		c.JSON(http.StatusOK, gin.H{"products": products, "cached": false})     // Return the catalog
	}
}

// CreateProductHandler adds a catalog item (admin only)
func CreateProductHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req ProductRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		product := domain.Product{
			Name:            req.Name,            // Catalog item name
			Price:           req.Price,           // Listed price
			Profit:          req.Profit,          // Completion profit
			CapitalRequired: req.CapitalRequired, // Capital floor
			Image:           req.Image,           // Image URL
		}
		// Persist the catalog item
		if err := db.Create(&product).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create product"})
			return
		}
		// Invalidate the cached catalog
		_ = utils.DeleteCache(context.Background(), rdb, productCacheKey)
		c.JSON(http.StatusCreated, gin.H{"product": product}) // Return the new item
	}
}
