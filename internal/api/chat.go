package api

import (
	"context"  // Context for Redis operations
	"net/http" // HTTP status codes
	"strconv"  // String conversion
	"time"     // Time durations

	"github.com/haimi-h/task-backend-sub000/internal/domain"   // Importing domain models
	"github.com/haimi-h/task-backend-sub000/internal/realtime" // Websocket hub
	"github.com/haimi-h/task-backend-sub000/internal/utils"    // Utility functions

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"gorm.io/gorm"                 // GORM ORM library
)

// conversationsCacheKey is the Redis key for the admin conversation overview
const conversationsCacheKey = "chat:conversations"

// SendMessageRequest is the chat message payload. Admins address a target
// conversation with UserID; users always post into their own.
type SendMessageRequest struct {
	UserID   uint   `json:"user_id"`   // Conversation key, admin senders only
	Text     string `json:"text"`      // Message text
	ImageURL string `json:"image_url"` // Image attachment URL
}

// ConversationSummary is one row in the admin conversation overview
type ConversationSummary struct {
	UserID      uint  `json:"user_id"`      // Conversation key
	UnreadCount int64 `json:"unread_count"` // Messages unseen by the admin side
	LastAt      int64 `json:"last_at"`      // Timestamp of the latest message in milliseconds
}

// SendMessageHandler stores a chat message and fans it out over the hub
func SendMessageHandler(db *gorm.DB, rdb *redis.Client, hub *realtime.Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		senderID, exists := c.Get("userID") // Get userID from context
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		role, _ := c.Get("userRole") // Role decides the conversation key
		var req SendMessageRequest   // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil || (req.Text == "" && req.ImageURL == "") {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Message text or image required"})
			return
		}
		senderRole := "user"          // Default sender side
		convID := senderID.(uint)     // Users post into their own conversation
		if role == "admin" {
			senderRole = "admin" // Admin side
			if req.UserID == 0 {
				c.JSON(http.StatusBadRequest, gin.H{"error": "user_id required for admin messages"})
				return
			}
			convID = req.UserID // Admins address the target user's conversation
		}
		msg := domain.ChatMessage{
			UserID:      convID,                // Conversation key
			SenderID:    senderID.(uint),       // Sending account
			SenderRole:  senderRole,            // Sending side
			Text:        req.Text,              // Message text
			ImageURL:    req.ImageURL,          // Image attachment
			ReadByUser:  senderRole == "user",  // The sender's own side has seen it
			ReadByAdmin: senderRole == "admin", // The sender's own side has seen it
		}
		// Persist the message
		if err := db.Create(&msg).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to send message"})
			return
		}
		// Fan out: the user's room always gets the message, the admin room
		// additionally learns about fresh unread user messages
		hub.NotifyUser(convID, realtime.EventChatMessage, msg)
		hub.NotifyAdmins(realtime.EventChatMessage, msg)
		if senderRole == "user" {
			hub.NotifyAdmins(realtime.EventUnreadConversation, gin.H{"user_id": convID})
		}
		// Invalidate the cached conversation overview
		_ = utils.DeleteCache(context.Background(), rdb, conversationsCacheKey)
		c.JSON(http.StatusCreated, gin.H{"message": msg}) // Return the stored message
	}
}

// GetConversationHandler returns a conversation's history and marks the
// reader's side as read. Users may only read their own conversation.
func GetConversationHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		readerID, exists := c.Get("userID") // Get userID from context
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		role, _ := c.Get("userRole")                     // Role decides access
		convID, err := strconv.Atoi(c.Param("userId")) // Parse the conversation key
		if err != nil || convID <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user id"})
			return
		}
		// Users may only open their own conversation
		if role != "admin" && uint(convID) != readerID.(uint) {
			c.JSON(http.StatusForbidden, gin.H{"error": "Access denied"})
			return
		}
		var messages []domain.ChatMessage // Slice to hold messages
		// Fetch oldest first
		if err := db.Where("user_id = ?", convID).Order("created_at").Find(&messages).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch messages"})
			return
		}
		// Mark the reader's side as read: admins clear read_by_admin on user
		// messages, users clear read_by_user on admin messages
		readFlag := "read_by_user"   // Flag cleared by a user reader
		senderSide := "admin"        // Messages from the opposite side
		if role == "admin" {
			readFlag = "read_by_admin"
			senderSide = "user"
		}
		if err := db.Model(&domain.ChatMessage{}).
			Where("user_id = ? AND sender_role = ?", convID, senderSide).
			Update(readFlag, true).Error; err == nil {
			// The conversation overview counts unread messages
			_ = utils.DeleteCache(context.Background(), rdb, conversationsCacheKey)
		}
		c.JSON(http.StatusOK, gin.H{"messages": messages}) // Return the history
	}
}

// ListConversationsHandler returns the admin overview: every conversation
// with its unread count, cached briefly in Redis.
func ListConversationsHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := context.Background()            // Context for Redis operations
		var summaries []ConversationSummary    // Overview rows
		// Try to get from cache
		found, err := utils.GetCache(ctx, rdb, conversationsCacheKey, &summaries)
		if err == nil && found {
			c.JSON(http.StatusOK, gin.H{"conversations": summaries, "cached": true})
			return
		}
		// Group messages per conversation with the admin-side unread count
		if err := db.Model(&domain.ChatMessage{}).
			Select("user_id, SUM(CASE WHEN sender_role = 'user' AND read_by_admin = false THEN 1 ELSE 0 END) AS unread_count, MAX(created_at) AS last_at").
			Group("user_id").
			Order("last_at desc").
			Scan(&summaries).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch conversations"})
			return
		}
		_ = utils.SetCache(ctx, rdb, conversationsCacheKey, summaries, 10*time.Second) // Cache briefly
		c.JSON(http.StatusOK, gin.H{"conversations": summaries, "cached": false})      // Return the overview
	}
}
