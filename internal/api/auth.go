package api

import (
	"net/http" // HTTP status codes
	"regexp"   // Regular expressions

	"github.com/haimi-h/task-backend-sub000/internal/domain" // Importing domain models
	"github.com/haimi-h/task-backend-sub000/internal/utils"  // Utility functions

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logging library
	"golang.org/x/crypto/bcrypt" // Password hashing
	"gorm.io/gorm"               // GORM ORM library
)

// SignupRequest is the registration payload
type SignupRequest struct {
	Username           string `json:"username" binding:"required"`            // Display name
	Phone              string `json:"phone" binding:"required"`               // Login phone number
	Password           string `json:"password" binding:"required"`            // Login password
	ConfirmPassword    string `json:"confirm_password" binding:"required"`    // Must match Password
	WithdrawalPassword string `json:"withdrawal_password" binding:"required"` // Secondary password for withdrawals
	ReferralCode       string `json:"referralCode" binding:"required"`        // Inviter's invitation code
}

// LoginRequest is the login payload
type LoginRequest struct {
	Phone    string `json:"phone" binding:"required"`    // Phone number
	Password string `json:"password" binding:"required"` // Password
}

// AuthResponse is returned on successful login
type AuthResponse struct {
	Token string      `json:"token"` // JWT token
	User  domain.User `json:"user"`  // Authenticated user
}

// isValidPhone checks the phone number shape: digits with an optional leading plus
func isValidPhone(phone string) bool {
	matched, _ := regexp.MatchString(`^\+?[0-9]{6,15}$`, phone) // Digits only, 6-15 long
	return matched                                              // Return whether it matched
}

// isValidPassword checks if the password length is between 6 and 30 characters
func isValidPassword(password string) bool {
	return len(password) >= 6 && len(password) <= 30 // Return true if length is valid
}

// SignupHandler registers a new user via an inviter's referral code
func SignupHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req SignupRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			// If binding fails, return bad request
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		// Validate phone shape
		if !isValidPhone(req.Phone) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid phone number"})
			return
		}
		// Validate password lengths
		if !isValidPassword(req.Password) || !isValidPassword(req.WithdrawalPassword) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Password must be 6-30 characters"})
			return
		}
		// Both password fields must agree
		if req.Password != req.ConfirmPassword {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Passwords do not match"})
			return
		}
		var referrer domain.User // Resolve the referral code to an existing user
		if err := db.Where("invitation_code = ?", req.ReferralCode).First(&referrer).Error; err != nil {
			// Signup is referral-only, an unknown code is rejected
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid referral code"})
			return
		}
		// Hash both passwords
		passHash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
			return
		}
		wdHash, err := bcrypt.GenerateFromPassword([]byte(req.WithdrawalPassword), bcrypt.DefaultCost)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
			return
		}
		user := domain.User{
			Username:           req.Username,                   // Display name
			Phone:              req.Phone,                      // Unique login phone
			Password:           string(passHash),               // Hashed login password
			WithdrawalPassword: string(wdHash),                 // Hashed withdrawal password
			InvitationCode:     utils.GenerateInvitationCode(), // This user's own referral key
			ReferrerID:         &referrer.ID,                   // Link back to the inviter
		}
		// Attempt to create the user, retrying once if the generated code collides
		if err := db.Create(&user).Error; err != nil {
			user.InvitationCode = utils.GenerateInvitationCode() // Fresh code on collision
			if err := db.Create(&user).Error; err != nil {
				// Most likely a duplicate phone number
				c.JSON(http.StatusBadRequest, gin.H{"error": "Phone number already registered"})
				return
			}
		}
		// Log the registration
		logrus.WithFields(logrus.Fields{
			"user_id":     user.ID,     // New user ID
			"referrer_id": referrer.ID, // Inviting user ID
		}).Info("User registered")
		// Return success response
		c.JSON(http.StatusCreated, gin.H{"message": "User registered successfully", "user": user})
	}
}

// LoginHandler authenticates a user by phone and returns a JWT token
func LoginHandler(db *gorm.DB, jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req LoginRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			// If binding fails, return bad request
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		var user domain.User // Fetch user from database
		if err := db.Where("phone = ?", req.Phone).First(&user).Error; err != nil {
			// If user not found, return bad request with a generic message
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid credentials"})
			return
		}
		// Compare provided password with stored hash
		if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid credentials"})
			return
		}
		// Generate JWT token carrying id and role
		token, err := utils.GenerateJWT(user.ID, user.Role, jwtSecret)
		if err != nil {
			// If token generation fails, return internal server error
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
			return
		}
		// Return the token and the user in the response
		c.JSON(http.StatusOK, AuthResponse{Token: token, User: user})
	}
}

// MeHandler returns the authenticated user's profile, balance and counters
func MeHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := c.Get("userID") // Get userID from context
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		var user domain.User // Fetch user from database
		if err := db.First(&user, userID).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"user": user}) // Return the profile
	}
}
