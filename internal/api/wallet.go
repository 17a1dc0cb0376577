package api

import (
	"errors"   // Error inspection
	"net/http" // HTTP status codes
	"time"     // Time durations

	"github.com/haimi-h/task-backend-sub000/internal/domain" // Importing domain models
	"github.com/haimi-h/task-backend-sub000/internal/ledger" // Balance mutation under lock
	"github.com/haimi-h/task-backend-sub000/internal/tron"   // TRC20 address validation

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/google/uuid"     // Simulated settlement transaction ids
	"github.com/sirupsen/logrus" // Logging library
	"golang.org/x/crypto/bcrypt" // Password hashing
	"gorm.io/gorm"               // GORM ORM library
)

// WithdrawRequest is the withdrawal payload
type WithdrawRequest struct {
	Amount             float64 `json:"amount" binding:"required,gt=0"`         // Withdrawal amount
	ToAddress          string  `json:"to_address" binding:"required"`          // Destination address
	WithdrawalPassword string  `json:"withdrawal_password" binding:"required"` // Secondary password
	Currency           string  `json:"currency"`                               // Currency, defaults to USDT
	Network            string  `json:"network"`                                // Network, defaults to TRC20
}

// errInvalidWithdrawalPassword distinguishes the credential failure inside the
// locked transaction so the handler can map it to 401
var errInvalidWithdrawalPassword = errors.New("invalid withdrawal password")

// WithdrawHandler debits the balance and records a withdrawal in one locked
// transaction. Settlement is simulated: the record goes straight to
// completed with a generated transaction id. A real integration would leave
// it pending and let an asynchronous settlement callback finish it.
func WithdrawHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := c.Get("userID") // Get userID from context
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		var req WithdrawRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		// Defaults for optional fields
		if req.Currency == "" {
			req.Currency = "USDT" // Default currency
		}
		if req.Network == "" {
			req.Network = "TRC20" // Default network
		}
		// Only TRC20 settlement is supported, validate the address shape up front
		if req.Network != "TRC20" || !tron.IsValidTRC20Address(req.ToAddress) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid TRC20 address"})
			return
		}
		var withdrawal domain.Withdrawal // Record inserted under the lock
		err := ledger.WithUserLock(db, userID.(uint), func(tx *gorm.DB, user *domain.User) error {
			// Verify the secondary password against the stored hash
			if err := bcrypt.CompareHashAndPassword([]byte(user.WithdrawalPassword), []byte(req.WithdrawalPassword)); err != nil {
				return errInvalidWithdrawalPassword
			}
			// Deduct the balance, failing on insufficient funds
			if err := ledger.DebitLocked(tx, user, req.Amount); err != nil {
				return err
			}
			withdrawal = domain.Withdrawal{
				UserID:        user.ID,                          // Withdrawing user
				Amount:        req.Amount,                       // Withdrawn amount
				Currency:      req.Currency,                     // Withdrawal currency
				Network:       req.Network,                      // Settlement network
				ToAddress:     req.ToAddress,                    // Destination address
				Status:        domain.WithdrawalStatusCompleted, // Simulated immediate settlement
				TransactionID: uuid.NewString(),                 // Simulated settlement transaction id
			}
			// Insert the withdrawal record in the same transaction as the debit
			if err := tx.Create(&withdrawal).Error; err != nil {
				return err // Roll back the debit as well
			}
			return nil
		})
		// Map the failure kind to the response status
		if err != nil {
			switch {
			case errors.Is(err, errInvalidWithdrawalPassword):
				c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid withdrawal password"})
			case errors.Is(err, ledger.ErrInsufficientFunds):
				c.JSON(http.StatusBadRequest, gin.H{"error": "Insufficient funds"})
			case errors.Is(err, ledger.ErrUserNotFound):
				c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			default:
				// Log the error with context
				logrus.WithFields(logrus.Fields{
					"user_id": userID,      // Withdrawing user
					"amount":  req.Amount,  // Requested amount
					"error":   err.Error(), // Error message
				}).Error("Withdrawal failed")
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Withdrawal failed"})
			}
			return
		}
		// Log the successful withdrawal
		logrus.WithFields(logrus.Fields{
			"user_id":       userID,                          // Withdrawing user
			"withdrawal_id": withdrawal.ID,                   // Inserted record
			"amount":        req.Amount,                      // Withdrawn amount
			"to_address":    req.ToAddress,                   // Destination address
			"timestamp":     time.Now().Format(time.RFC3339), // Current timestamp
		}).Info("Withdrawal completed")
		// Return the recorded withdrawal
		c.JSON(http.StatusOK, gin.H{
			"withdrawalId":  withdrawal.ID,            // Withdrawal record id
			"status":        withdrawal.Status,        // Final status
			"transactionId": withdrawal.TransactionID, // Simulated settlement id
			"message":       "Withdrawal successful",
		})
	}
}

// ListWithdrawalsHandler returns the authenticated user's withdrawal history
func ListWithdrawalsHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := c.Get("userID") // Get userID from context
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		var withdrawals []domain.Withdrawal // Slice to hold withdrawals
		// Fetch newest first
		if err := db.Where("user_id = ?", userID).Order("created_at desc").Find(&withdrawals).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch withdrawals"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"withdrawals": withdrawals}) // Return the history
	}
}
