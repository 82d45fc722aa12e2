package domain

import "time"

const (
	ShippingDelivery = "delivery"
	ShippingTakeaway = "takeaway"
)

// Order is the persisted capture of a cart at checkout time. Prices are
// frozen at capture so later discount changes do not rewrite history.
// Payment is handled outside this system.
type Order struct {
	ID          int64       `gorm:"primaryKey" json:"id,string" form:"id"`
	ProjectID   string      `gorm:"index" json:"project_id" form:"project_id"`
	Shipping    string      `gorm:"size:32" json:"shipping" form:"shipping"` // 'delivery' or 'takeaway'
	Address     string      `json:"address" form:"address"`
	Schedule    string      `gorm:"size:64" json:"schedule" form:"schedule"`
	DiscountPct float64     `json:"discount_pct"`
	Total       int64       `json:"total"`
	Remark      string      `json:"remark" form:"remark"`
	Items       []OrderItem `gorm:"foreignKey:OrderID" json:"items"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

// TableName Specify table name
func (Order) TableName() string {
	return "orders"
}

// OrderItem is one frozen cart line inside an order.
type OrderItem struct {
	ID              int64   `gorm:"primaryKey" json:"id,string"`
	OrderID         int64   `gorm:"index" json:"order_id,string"`
	Sku             string  `gorm:"index" json:"sku"`
	Name            string  `json:"name"`
	Unit            string  `gorm:"size:16" json:"unit_of_measurement"`
	Quantity        float64 `json:"quantity"`
	UnitPrice       float64 `json:"unit_price"`
	DiscountedPrice int64   `json:"discounted_price"`
	LineTotal       int64   `json:"line_total"`
}

// TableName Specify table name
func (OrderItem) TableName() string {
	return "order_items"
}
