package domain

// Withdrawal statuses
const (
	WithdrawalStatusPending    = "pending"    // Recorded, settlement not started
	WithdrawalStatusProcessing = "processing" // Settlement in flight
	WithdrawalStatusCompleted  = "completed"  // Settled on chain
	WithdrawalStatusFailed     = "failed"     // Settlement failed
)

// Withdrawal Model
type Withdrawal struct {
	ID            uint    `gorm:"primaryKey" json:"id"`                   // Primary key
	UserID        uint    `gorm:"not null;index" json:"user_id"`          // Withdrawing user
	Amount        float64 `gorm:"not null" json:"amount"`                 // Withdrawn amount
	Currency      string  `gorm:"not null;default:USDT" json:"currency"`  // Withdrawal currency
	Network       string  `gorm:"not null;default:TRC20" json:"network"`  // Settlement network
	ToAddress     string  `gorm:"not null" json:"to_address"`             // Destination address
	Status        string  `gorm:"not null;default:pending" json:"status"` // pending, processing, completed or failed
	TransactionID string  `json:"transaction_id"`                         // Settlement transaction id, set on completion
	CreatedAt     int64   `gorm:"autoCreateTime:milli" json:"created_at"` // Timestamp of creation in milliseconds
}
