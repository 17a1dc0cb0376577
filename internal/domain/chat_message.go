package domain

// ChatMessage Model. A conversation is keyed by the user's id regardless of
// which side sends; SenderRole tells the two apart.
type ChatMessage struct {
	ID          uint   `gorm:"primaryKey" json:"id"`                       // Primary key
	UserID      uint   `gorm:"not null;index" json:"user_id"`              // Conversation key (the user's id)
	SenderID    uint   `gorm:"not null" json:"sender_id"`                  // Sending account
	SenderRole  string `gorm:"not null" json:"sender_role"`                // user or admin
	Text        string `json:"text"`                                       // Message text, empty for image messages
	ImageURL    string `json:"image_url"`                                  // Image attachment URL, optional
	ReadByUser  bool   `gorm:"not null;default:false" json:"read_by_user"` // Seen by the user side
	ReadByAdmin bool   `gorm:"not null;default:false" json:"read_by_admin"` // Seen by the admin side
	CreatedAt   int64  `gorm:"autoCreateTime:milli" json:"created_at"`     // Timestamp of creation in milliseconds
}
