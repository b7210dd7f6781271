package model

import (
	"time"

	"gorm.io/gorm"
)

// Customer is a loyalty-program member. Customers are strictly cafe-scoped;
// no lookup may cross cafes.
type Customer struct {
	ID            uint           `json:"id" gorm:"primaryKey"`
	CafeID        uint           `json:"cafe_id" gorm:"index;not null"`
	Name          string         `json:"name" gorm:"type:varchar(100);not null"`
	Email         string         `json:"email,omitempty" gorm:"type:varchar(100)"`
	Phone         string         `json:"phone,omitempty" gorm:"type:varchar(30);index"`
	LoyaltyPoints int            `json:"loyalty_points" gorm:"default:0"`
	TotalSpent    float64        `json:"total_spent" gorm:"default:0"`
	VisitCount    int            `json:"visit_count" gorm:"default:0"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `json:"-" gorm:"index"`
}
