package domain

// UserProductRating Model. One row per (user, product) pair, upserted on resubmission.
type UserProductRating struct {
	ID          uint  `gorm:"primaryKey" json:"id"`                                    // Primary key
	UserID      uint  `gorm:"not null;uniqueIndex:idx_user_product" json:"user_id"`    // Rating user
	ProductID   uint  `gorm:"not null;uniqueIndex:idx_user_product" json:"product_id"` // Rated product
	Rating      int   `gorm:"not null" json:"rating"`                                  // Rating value 1-5
	IsCompleted bool  `gorm:"not null;default:false" json:"is_completed"`              // True iff rating is 5
	UpdatedAt   int64 `gorm:"autoUpdateTime:milli" json:"updated_at"`                  // Timestamp of last change in milliseconds
}
