package domain

// User Model
type User struct {
	ID                 uint    `gorm:"primaryKey" json:"id"`                         // Primary key
	Username           string  `gorm:"not null" json:"username"`                     // Display name
	Phone              string  `gorm:"uniqueIndex;not null" json:"phone"`            // Unique phone number, used for login
	Password           string  `gorm:"not null" json:"-"`                            // Hashed login password
	WithdrawalPassword string  `gorm:"not null" json:"-"`                            // Hashed secondary password for withdrawals
	InvitationCode     string  `gorm:"uniqueIndex;not null" json:"invitation_code"`  // Referral key handed to invitees
	ReferrerID         *uint   `gorm:"index" json:"referrer_id"`                     // Inviting user, optional
	Role               string  `gorm:"default:user" json:"role"`                     // Role: user or admin
	WalletBalance      float64 `gorm:"not null;default:0" json:"wallet_balance"`     // Wallet balance, never negative
	DailyOrders        int     `gorm:"not null;default:0" json:"daily_orders"`       // Task quota for the current cycle
	CompletedOrders    int     `gorm:"not null;default:0" json:"completed_orders"`   // Tasks completed this cycle
	UncompletedOrders  int     `gorm:"not null;default:0" json:"uncompleted_orders"` // Remaining task slots
	WalletAddress      string  `json:"wallet_address"`                               // Assigned TRON address, set once
	WalletPrivateKey   string  `json:"-"`                                            // Simulated private key, never serialized
	CreatedAt          int64   `gorm:"autoCreateTime:milli" json:"created_at"`       // Timestamp of creation in milliseconds
}

// RatingOutcome describes what a submitted rating did to the user's task quota
type RatingOutcome string

// Possible rating outcomes
const (
	OutcomeCounted      RatingOutcome = "counted"       // Five-star rating consumed a quota slot
	OutcomeQuotaReached RatingOutcome = "quota_reached" // Five stars submitted with no slots remaining
	OutcomeRecorded     RatingOutcome = "recorded"      // Rating below five, counters untouched
)

// ApplyRating mutates the quota counters for a submitted rating and reports the outcome.
// A five-star rating consumes one uncompleted slot; draining the last slot zeroes
// daily_orders as well. Ratings below five never touch the counters.
func (u *User) ApplyRating(rating int) RatingOutcome {
	if rating < 5 {
		return OutcomeRecorded // Only five-star ratings count as completed tasks
	}
	if u.UncompletedOrders <= 0 {
		return OutcomeQuotaReached // Quota already drained, record the rating only
	}
	u.CompletedOrders++   // One more task done
	u.UncompletedOrders-- // One fewer slot left
	if u.UncompletedOrders == 0 {
		u.DailyOrders = 0 // Drained quota resets the cycle window
	}
	return OutcomeCounted
}
