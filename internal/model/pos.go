package model

import (
	"time"

	"gorm.io/gorm"
)

// Order statuses
const (
	OrderPending   = "pending"
	OrderPreparing = "preparing"
	OrderReady     = "ready"
	OrderCompleted = "completed"
	OrderCancelled = "cancelled"
)

// MenuItem represents a sellable item on a cafe's menu
type MenuItem struct {
	ID          uint           `json:"id" gorm:"primaryKey"`
	CafeID      uint           `json:"cafe_id" gorm:"index;not null"`
	Name        string         `json:"name" gorm:"type:varchar(100);not null"`
	Description string         `json:"description" gorm:"type:text"`
	Category    string         `json:"category" gorm:"type:varchar(50);index"`
	Price       float64        `json:"price" gorm:"not null"`
	ImageURL    string         `json:"image_url,omitempty" gorm:"type:varchar(255)"`
	IsAvailable Flag           `json:"is_available" gorm:"type:boolean;default:true"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `json:"-" gorm:"index"`
}

// InventoryItem tracks stock for a cafe
type InventoryItem struct {
	ID           uint           `json:"id" gorm:"primaryKey"`
	CafeID       uint           `json:"cafe_id" gorm:"index;not null"`
	Name         string         `json:"name" gorm:"type:varchar(100);not null"`
	Unit         string         `json:"unit" gorm:"type:varchar(20)"`
	Quantity     float64        `json:"quantity" gorm:"default:0"`
	ReorderLevel float64        `json:"reorder_level" gorm:"default:0"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `json:"-" gorm:"index"`
}

// Order is a customer order within a cafe
type Order struct {
	ID         uint           `json:"id" gorm:"primaryKey"`
	CafeID     uint           `json:"cafe_id" gorm:"index;not null"`
	CustomerID *uint          `json:"customer_id,omitempty" gorm:"index"`
	CreatedBy  *uint          `json:"created_by,omitempty"`
	Status     string         `json:"status" gorm:"type:varchar(20);default:'pending';index"`
	Total      float64        `json:"total" gorm:"default:0"`
	Notes      string         `json:"notes,omitempty" gorm:"type:text"`
	Items      []OrderItem    `json:"items,omitempty" gorm:"foreignKey:OrderID"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `json:"-" gorm:"index"`
}

// OrderItem is a line on an order
type OrderItem struct {
	ID         uint    `json:"id" gorm:"primaryKey"`
	OrderID    uint    `json:"order_id" gorm:"index;not null"`
	MenuItemID uint    `json:"menu_item_id" gorm:"not null"`
	Name       string  `json:"name" gorm:"type:varchar(100)"`
	Quantity   int     `json:"quantity" gorm:"not null"`
	UnitPrice  float64 `json:"unit_price" gorm:"not null"`
}

// Invoice is the billing document produced for an order
type Invoice struct {
	ID            uint           `json:"id" gorm:"primaryKey"`
	CafeID        uint           `json:"cafe_id" gorm:"index;not null"`
	OrderID       uint           `json:"order_id" gorm:"uniqueIndex;not null"`
	InvoiceNumber string         `json:"invoice_number" gorm:"type:varchar(30);uniqueIndex;not null"`
	Subtotal      float64        `json:"subtotal"`
	Tax           float64        `json:"tax"`
	Total         float64        `json:"total"`
	PaymentMethod string         `json:"payment_method" gorm:"type:varchar(50)"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `json:"-" gorm:"index"`
}

// PaymentMethod is a cafe-configured way to pay, ordered for display
type PaymentMethod struct {
	ID           uint           `json:"id" gorm:"primaryKey"`
	CafeID       uint           `json:"cafe_id" gorm:"index;not null"`
	Name         string         `json:"name" gorm:"type:varchar(50);not null"`
	DisplayOrder int            `json:"display_order" gorm:"default:0"`
	IsActive     Flag           `json:"is_active" gorm:"type:boolean;default:true"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `json:"-" gorm:"index"`
}

// CafeDailyMetrics is the nightly aggregate of orders, revenue and new
// customers, unique per cafe and day.
type CafeDailyMetrics struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	CafeID       uint      `json:"cafe_id" gorm:"uniqueIndex:idx_cafe_date;not null"`
	Date         time.Time `json:"date" gorm:"type:date;uniqueIndex:idx_cafe_date;not null"`
	TotalOrders  int       `json:"total_orders" gorm:"default:0"`
	TotalRevenue float64   `json:"total_revenue" gorm:"default:0"`
	NewCustomers int       `json:"new_customers" gorm:"default:0"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
