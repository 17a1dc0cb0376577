package api

import (
	"errors"   // Error inspection
	"net/http" // HTTP status codes
	"strconv"  // String conversion

	"github.com/haimi-h/task-backend-sub000/internal/domain"   // Importing domain models
	"github.com/haimi-h/task-backend-sub000/internal/ledger"   // Balance mutation under lock
	"github.com/haimi-h/task-backend-sub000/internal/realtime" // Websocket hub
	"github.com/haimi-h/task-backend-sub000/internal/tron"     // Simulated deposit address generation

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logging library
	"gorm.io/gorm"               // GORM ORM library
	"gorm.io/gorm/clause"        // SELECT ... FOR UPDATE clause
)

// SubmitRechargeRequest is the user-submitted deposit claim payload
type SubmitRechargeRequest struct {
	Amount          float64 `json:"amount" binding:"required,gt=0"` // Claimed deposit amount
	Currency        string  `json:"currency"`                       // Deposit currency, defaults to USDT
	ReceiptImage    string  `json:"receipt_image"`                  // Uploaded receipt reference
	ContactInfo     string  `json:"contact_info"`                   // How to reach the user
	InjectionPlanID *uint   `json:"injection_plan_id"`              // Linked lucky-order plan, optional
}

// RechargeTransactionRequest asks the system to watch a deposit address
type RechargeTransactionRequest struct {
	Amount   float64 `json:"amount" binding:"required,gt=0"` // Expected deposit amount
	Currency string  `json:"currency"`                       // Expected currency, defaults to USDT
}

// DecisionRequest carries the optional admin notes for approve/reject
type DecisionRequest struct {
	AdminNotes string `json:"admin_notes"` // Free-form notes
}

// errRequestNotPending marks an approve/reject attempt on a terminal request
var errRequestNotPending = errors.New("recharge request is not pending")

// SubmitRechargeHandler records a user-submitted recharge request and alerts the admin room
func SubmitRechargeHandler(db *gorm.DB, hub *realtime.Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := c.Get("userID") // Get userID from context
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		var req SubmitRechargeRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		if req.Currency == "" {
			req.Currency = "USDT" // Default currency
		}
		request := domain.RechargeRequest{
			UserID:          userID.(uint),               // Submitting user
			Amount:          req.Amount,                  // Claimed amount
			Currency:        req.Currency,                // Deposit currency
			ReceiptImage:    req.ReceiptImage,            // Receipt reference
			ContactInfo:     req.ContactInfo,             // Contact info
			Status:          domain.RechargeStatusPending, // Awaits admin decision
			InjectionPlanID: req.InjectionPlanID,         // Optional plan link
		}
		// Persist the pending request
		if err := db.Create(&request).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to submit recharge request"})
			return
		}
		hub.NotifyAdmins(realtime.EventRechargePending, request) // Alert the admin room
		// Log the submission
		logrus.WithFields(logrus.Fields{
			"user_id":    userID,     // Submitting user
			"request_id": request.ID, // New request
			"amount":     req.Amount, // Claimed amount
		}).Info("Recharge request submitted")
		c.JSON(http.StatusCreated, gin.H{"message": "Recharge request submitted", "request": request})
	}
}

// MyRechargesHandler returns the authenticated user's recharge requests
func MyRechargesHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := c.Get("userID") // Get userID from context
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		var requests []domain.RechargeRequest // Slice to hold requests
		// Fetch newest first
		if err := db.Where("user_id = ?", userID).Order("created_at desc").Find(&requests).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch recharge requests"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"requests": requests}) // Return the history
	}
}

// CreateRechargeTransactionHandler generates a watched deposit address for the
// user. The address is simulated, as is the watcher that would confirm it.
func CreateRechargeTransactionHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := c.Get("userID") // Get userID from context
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		var req RechargeTransactionRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		if req.Currency == "" {
			req.Currency = "USDT" // Default currency
		}
		wallet, err := tron.GenerateWallet() // Simulated deposit address
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate deposit address"})
			return
		}
		txn := domain.RechargeTransaction{
			UserID:   userID.(uint),               // Expecting user
			Amount:   req.Amount,                  // Expected amount
			Currency: req.Currency,                // Expected currency
			Address:  wallet.Address,              // Generated address being watched
			Status:   domain.RechargeStatusPending, // Pending until observed
		}
		// Persist the watch record
		if err := db.Create(&txn).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create recharge transaction"})
			return
		}
		c.JSON(http.StatusCreated, gin.H{"transaction": txn}) // Return the watch record
	}
}

// ListRechargesHandler returns recharge requests for admins, optionally
// restricted to pending ones.
func ListRechargesHandler(db *gorm.DB, pendingOnly bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		query := db.Model(&domain.RechargeRequest{}) // Start building the query
		if pendingOnly {
			query = query.Where("status = ?", domain.RechargeStatusPending) // Pending only
		}
		var requests []domain.RechargeRequest // Slice to hold requests
		// Fetch newest first
		if err := query.Order("created_at desc").Find(&requests).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch recharge requests"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"requests": requests}) // Return the listing
	}
}

// decideRecharge flips a pending request to the terminal status inside one
// transaction. Approval locks the request row and the user row together, so
// a double approval or a credit without the status flip cannot happen.
func decideRecharge(db *gorm.DB, requestID uint, status, notes string) (*domain.RechargeRequest, error) {
	var request domain.RechargeRequest
	err := db.Transaction(func(tx *gorm.DB) error {
		// Lock the request row so concurrent admin decisions serialize
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&request, requestID).Error; err != nil {
			return err // ErrRecordNotFound maps to 404 in the handler
		}
		// Terminal requests are immutable
		if request.Status != domain.RechargeStatusPending {
			return errRequestNotPending
		}
		// Approval credits the balance under the user's row lock
		if status == domain.RechargeStatusApproved {
			user, err := ledger.LockUser(tx, request.UserID)
			if err != nil {
				return err
			}
			if err := ledger.CreditLocked(tx, user, request.Amount); err != nil {
				return err
			}
		}
		// Flip the status and record the notes in the same transaction
		if err := tx.Model(&request).Updates(map[string]any{
			"status":      status, // Terminal status
			"admin_notes": notes,  // Decision notes
		}).Error; err != nil {
			return err
		}
		request.Status = status   // Keep the returned snapshot current
		request.AdminNotes = notes
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &request, nil
}

// DecideRechargeHandler approves or rejects a pending recharge request
func DecideRechargeHandler(db *gorm.DB, hub *realtime.Hub, status string) gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID, err := strconv.Atoi(c.Param("requestId")) // Parse the request id
		if err != nil || requestID <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request id"})
			return
		}
		var req DecisionRequest              // Optional notes payload
		_ = c.ShouldBindJSON(&req)           // Body may be empty
		request, err := decideRecharge(db, uint(requestID), status, req.AdminNotes)
		// Map the failure kind to the response status
		if err != nil {
			switch {
			case errors.Is(err, gorm.ErrRecordNotFound):
				c.JSON(http.StatusNotFound, gin.H{"error": "Recharge request not found"})
			case errors.Is(err, errRequestNotPending):
				c.JSON(http.StatusBadRequest, gin.H{"error": "Recharge request already decided"})
			case errors.Is(err, ledger.ErrUserNotFound):
				c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			default:
				// Log the error with context
				logrus.WithFields(logrus.Fields{
					"request_id": requestID,   // Decided request
					"status":     status,      // Attempted status
					"error":      err.Error(), // Error message
				}).Error("Recharge decision failed")
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update recharge request"})
			}
			return
		}
		hub.NotifyUser(request.UserID, realtime.EventRechargeStatus, request) // Tell the user's room
		// Log the decision
		logrus.WithFields(logrus.Fields{
			"request_id": request.ID,     // Decided request
			"user_id":    request.UserID, // Affected user
			"amount":     request.Amount, // Request amount
			"status":     status,         // Final status
		}).Info("Recharge request decided")
		c.JSON(http.StatusOK, gin.H{"message": "Recharge request " + status, "request": request})
	}
}
