package api

import (
	"errors"   // Error inspection
	"net/http" // HTTP status codes

	"github.com/haimi-h/task-backend-sub000/internal/domain" // Importing domain models
	"github.com/haimi-h/task-backend-sub000/internal/ledger" // Balance mutation under lock

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logging library
	"gorm.io/gorm"               // GORM ORM library
)

// TaskResponse describes the next task offered to a user
type TaskResponse struct {
	Product          *domain.Product `json:"product"`                     // Product to rate, nil when no task is available
	IsLuckyOrder     bool            `json:"is_lucky_order"`              // True when an injection plan fires on this ordinal
	CommissionRate   float64         `json:"commission_rate,omitempty"`   // Lucky-order commission rate
	InjectionsAmount float64         `json:"injections_amount,omitempty"` // Lucky-order injection amount
}

// SubmitRatingRequest is the rating submission payload
type SubmitRatingRequest struct {
	ProductID uint `json:"productId" binding:"required"` // Rated product
	Rating    int  `json:"rating" binding:"required"`    // Rating value 1-5
}

// nextProductFor picks the next ratable product for a user: first any product
// without a rating row, then any product whose rating is not completed.
func nextProductFor(db *gorm.DB, userID uint) (*domain.Product, error) {
	var product domain.Product
	// Products the user has never rated come first
	err := db.Where("id NOT IN (?)",
		db.Model(&domain.UserProductRating{}).Select("product_id").Where("user_id = ?", userID),
	).Order("id").First(&product).Error
	if err == nil {
		return &product, nil // Fresh product found
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err // Storage failure
	}
	// Otherwise retry products whose rating never reached five stars
	err = db.Where("id IN (?)",
		db.Model(&domain.UserProductRating{}).Select("product_id").Where("user_id = ? AND is_completed = ?", userID, false),
	).Order("id").First(&product).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil // Nothing left to rate
	}
	if err != nil {
		return nil, err // Storage failure
	}
	return &product, nil
}

// pendingPlanFor returns the unconsumed injection plan matching the user's
// next task ordinal, or nil when the ordinal is not a lucky order.
func pendingPlanFor(db *gorm.DB, userID uint, ordinal int) (*domain.InjectionPlan, error) {
	var plan domain.InjectionPlan
	err := db.Where("user_id = ? AND injection_order = ? AND is_completed = ?", userID, ordinal, false).
		First(&plan).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil // Ordinary order
	}
	if err != nil {
		return nil, err // Storage failure
	}
	return &plan, nil
}

// GetTaskHandler returns the user's next task, or none when the quota is drained
func GetTaskHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := c.Get("userID") // Get userID from context
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		var user domain.User // Fetch user for the quota check
		if err := db.First(&user, userID).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		// Quota check comes before any product lookup
		if user.UncompletedOrders <= 0 {
			c.JSON(http.StatusOK, gin.H{"task": nil, "message": "No tasks available, daily quota reached"})
			return
		}
		product, err := nextProductFor(db, user.ID) // Pick the next ratable product
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch task"})
			return
		}
		if product == nil {
			// Quota remains but the catalog is exhausted for this user
			c.JSON(http.StatusOK, gin.H{"task": nil, "message": "No tasks available"})
			return
		}
		task := TaskResponse{Product: product} // Base response
		// The next ordinal decides whether an injection plan fires
		plan, err := pendingPlanFor(db, user.ID, user.CompletedOrders+1)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch task"})
			return
		}
		if plan != nil {
			task.IsLuckyOrder = true                    // Mark the lucky order
			task.CommissionRate = plan.CommissionRate   // Plan commission rate
			task.InjectionsAmount = plan.InjectionsAmount // Plan injection amount
		}
		c.JSON(http.StatusOK, gin.H{"task": task, "message": "Task assigned"})
	}
}

// SubmitRatingHandler upserts a product rating and settles the task quota.
// The whole submission runs under the user's row lock so the counter update,
// the rating upsert and any lucky-order payout commit or roll back together.
func SubmitRatingHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := c.Get("userID") // Get userID from context
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		var req SubmitRatingRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil || req.Rating < 1 || req.Rating > 5 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Rating must be between 1 and 5"})
			return
		}
		var product domain.Product // Rated product must exist
		if err := db.First(&product, req.ProductID).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
			return
		}
		var outcome domain.RatingOutcome // Result of the quota transition
		err := ledger.WithUserLock(db, userID.(uint), func(tx *gorm.DB, user *domain.User) error {
			// Upsert the (user, product) rating row
			var rating domain.UserProductRating
			err := tx.Where("user_id = ? AND product_id = ?", user.ID, product.ID).First(&rating).Error
			if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
				return err // Storage failure
			}
			rating.UserID = user.ID           // Rating user
			rating.ProductID = product.ID     // Rated product
			rating.Rating = req.Rating        // Latest value wins
			rating.IsCompleted = req.Rating == 5 // Completed iff five stars
			if err := tx.Save(&rating).Error; err != nil {
				return err // Storage failure
			}
			outcome = user.ApplyRating(req.Rating) // Quota transition
			if outcome != domain.OutcomeCounted {
				return nil // Counters untouched, nothing more to persist
			}
			// The transition fired: persist all three counters together
			if err := tx.Model(user).Updates(map[string]any{
				"completed_orders":   user.CompletedOrders,   // Incremented
				"uncompleted_orders": user.UncompletedOrders, // Decremented
				"daily_orders":       user.DailyOrders,       // Zeroed when the quota drained
			}).Error; err != nil {
				return err // Storage failure
			}
			// Task profit is credited on completion
			if product.Profit > 0 {
				if err := ledger.CreditLocked(tx, user, product.Profit); err != nil {
					return err
				}
			}
			// Consume a matching lucky-order plan, at most once
			plan, err := pendingPlanFor(tx, user.ID, user.CompletedOrders)
			if err != nil {
				return err
			}
			if plan != nil {
				if err := tx.Model(plan).Update("is_completed", true).Error; err != nil {
					return err // Storage failure
				}
				commission := plan.InjectionsAmount * plan.CommissionRate / 100 // Commission on the injected amount
				if commission > 0 {
					if err := ledger.CreditLocked(tx, user, commission); err != nil {
						return err
					}
				}
				// Log the lucky-order consumption
				logrus.WithFields(logrus.Fields{
					"user_id":    user.ID,    // Task user
					"plan_id":    plan.ID,    // Consumed plan
					"commission": commission, // Commission paid out
				}).Info("Lucky order consumed")
			}
			return nil
		})
		if err != nil {
			// Log the error with context
			logrus.WithFields(logrus.Fields{
				"user_id":    userID,        // Task user
				"product_id": req.ProductID, // Rated product
				"error":      err.Error(),   // Error message
			}).Error("Rating submission failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to submit rating"})
			return
		}
		// Map the quota outcome to the response message
		message := "Rating recorded"
		if outcome == domain.OutcomeCounted {
			message = "Task completed"
		} else if outcome == domain.OutcomeQuotaReached {
			message = "Rating recorded, daily quota already reached"
		}
		c.JSON(http.StatusOK, gin.H{
			"message":     message,                          // Outcome description
			"isCompleted": req.Rating == 5,                  // Five-star submissions complete the task
			"outcome":     outcome,                          // Machine-readable outcome
		})
	}
}
