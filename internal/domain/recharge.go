package domain

// Recharge request statuses. A request is terminal once approved or rejected.
const (
	RechargeStatusPending  = "pending"  // Awaiting admin decision
	RechargeStatusApproved = "approved" // Credited to the user's balance
	RechargeStatusRejected = "rejected" // Declined, no balance effect
)

// RechargeRequest Model. A user-submitted claim of an off-system deposit,
// awaiting admin approval to credit the ledger.
type RechargeRequest struct {
	ID              uint    `gorm:"primaryKey" json:"id"`                    // Primary key
	UserID          uint    `gorm:"not null;index" json:"user_id"`           // Submitting user
	Amount          float64 `gorm:"not null" json:"amount"`                  // Claimed deposit amount
	Currency        string  `gorm:"not null;default:USDT" json:"currency"`   // Deposit currency
	ReceiptImage    string  `json:"receipt_image"`                          // Uploaded receipt reference
	ContactInfo     string  `json:"contact_info"`                           // How to reach the user about this request
	Status          string  `gorm:"not null;default:pending;index" json:"status"` // pending, approved or rejected
	AdminNotes      string  `json:"admin_notes"`                            // Free-form notes set on approval/rejection
	InjectionPlanID *uint   `gorm:"index" json:"injection_plan_id"`         // Linked lucky-order plan, optional
	CreatedAt       int64   `gorm:"autoCreateTime:milli" json:"created_at"` // Timestamp of creation in milliseconds
	UpdatedAt       int64   `gorm:"autoUpdateTime:milli" json:"updated_at"` // Timestamp of last change in milliseconds
}

// RechargeTransaction Model. A system-generated watch record for an expected
// deposit to a generated address, distinct from a user-submitted request.
type RechargeTransaction struct {
	ID        uint    `gorm:"primaryKey" json:"id"`                   // Primary key
	UserID    uint    `gorm:"not null;index" json:"user_id"`          // Expecting user
	Amount    float64 `gorm:"not null" json:"amount"`                 // Expected deposit amount
	Currency  string  `gorm:"not null;default:USDT" json:"currency"`  // Expected currency
	Address   string  `gorm:"not null" json:"address"`                // Generated deposit address being watched
	Status    string  `gorm:"not null;default:pending" json:"status"` // pending until the deposit is observed
	CreatedAt int64   `gorm:"autoCreateTime:milli" json:"created_at"` // Timestamp of creation in milliseconds
}
