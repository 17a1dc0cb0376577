package domain

// InjectionPlan Model. An admin-predefined lucky order: when the user's task
// sequence reaches InjectionOrder the task pays out the plan's commission.
// Consumed at most once.
type InjectionPlan struct {
	ID               uint    `gorm:"primaryKey" json:"id"`                       // Primary key
	UserID           uint    `gorm:"not null;index" json:"user_id"`              // Target user
	InjectionOrder   int     `gorm:"not null" json:"injection_order"`            // Task ordinal this plan fires on
	CommissionRate   float64 `gorm:"not null;default:0" json:"commission_rate"`  // Commission rate for the lucky order
	InjectionsAmount float64 `gorm:"not null;default:0" json:"injections_amount"` // Amount credited when consumed
	IsCompleted      bool    `gorm:"not null;default:false" json:"is_completed"` // Set once the plan has been consumed
	CreatedAt        int64   `gorm:"autoCreateTime:milli" json:"created_at"`     // Timestamp of creation in milliseconds
}
