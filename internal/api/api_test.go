package api

import (
	"bytes"             // Request bodies
	"encoding/json"     // Response decoding
	"fmt"               // Unique test identities
	"net/http/httptest" // HTTP handler testing
	"os"                // Test DSN from the environment
	"testing"           // Go testing package
	"time"              // Unique test identities

	"github.com/haimi-h/task-backend-sub000/internal/domain" // Importing domain models

	"github.com/gin-gonic/gin"            // Gin web framework
	"github.com/stretchr/testify/require" // Test assertions
	"gorm.io/driver/mysql"                // MySQL driver for GORM
	"gorm.io/gorm"                        // GORM ORM library
)

// openTestDB connects to the MySQL instance named by LEDGER_TEST_DSN, or
// skips the test when none is configured.
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := os.Getenv("LEDGER_TEST_DSN")
	if dsn == "" {
		t.Skip("LEDGER_TEST_DSN not set")
	}
	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&domain.User{},
		&domain.Product{},
		&domain.UserProductRating{},
		&domain.InjectionPlan{},
		&domain.RechargeRequest{},
		&domain.Withdrawal{},
	))
	return db
}

// newTestUser inserts a user with unique identity fields
func newTestUser(t *testing.T, db *gorm.DB, user domain.User) *domain.User {
	t.Helper()
	user.Username = "api-test"
	user.Phone = fmt.Sprintf("1%d", time.Now().UnixNano())          // Unique per call
	user.InvitationCode = fmt.Sprintf("A%d", time.Now().UnixNano()) // Unique per call
	if user.Password == "" {
		user.Password = "x"
	}
	if user.WithdrawalPassword == "" {
		user.WithdrawalPassword = "x"
	}
	require.NoError(t, db.Create(&user).Error)
	t.Cleanup(func() {
		db.Where("user_id = ?", user.ID).Delete(&domain.UserProductRating{})
		db.Where("user_id = ?", user.ID).Delete(&domain.Withdrawal{})
		db.Where("user_id = ?", user.ID).Delete(&domain.RechargeRequest{})
		db.Where("user_id = ?", user.ID).Delete(&domain.InjectionPlan{})
		db.Delete(&domain.User{}, user.ID)
	})
	return &user
}

// newTestProduct inserts a catalog item
func newTestProduct(t *testing.T, db *gorm.DB, profit float64) *domain.Product {
	t.Helper()
	product := domain.Product{Name: "api-test-product", Price: 10, Profit: profit}
	require.NoError(t, db.Create(&product).Error)
	t.Cleanup(func() { db.Delete(&domain.Product{}, product.ID) })
	return &product
}

// authAs injects the context values the JWT middleware would set
func authAs(userID uint, role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("userID", userID)
		c.Set("userRole", role)
		c.Next()
	}
}

// taskRouter builds a router exposing the task endpoints as the given user
func taskRouter(db *gorm.DB, userID uint) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(authAs(userID, "user"))
	r.GET("/tasks/task", GetTaskHandler(db))
	r.POST("/tasks/submit-rating", SubmitRatingHandler(db))
	r.POST("/users/withdraw", WithdrawHandler(db))
	return r
}

// doJSON performs a JSON request against the router and decodes the response body
func doJSON(t *testing.T, r *gin.Engine, method, path string, body any) (int, map[string]any) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	var decoded map[string]any
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &decoded))
	}
	return w.Code, decoded
}
