package domain

// Product Model
type Product struct {
	ID              uint    `gorm:"primaryKey" json:"id"`                   // Primary key
	Name            string  `gorm:"not null" json:"name"`                   // Catalog item name
	Price           float64 `gorm:"not null" json:"price"`                  // Listed price
	Profit          float64 `gorm:"not null;default:0" json:"profit"`       // Profit paid on completion
	CapitalRequired float64 `gorm:"not null;default:0" json:"capital_required"` // Minimum balance to receive this task
	Image           string  `json:"image"`                                  // Image URL
	CreatedAt       int64   `gorm:"autoCreateTime:milli" json:"created_at"` // Timestamp of creation in milliseconds
}
