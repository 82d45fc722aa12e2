package domain

import "time"

// GlobalDiscount is the single authoritative storewide discount row.
// At most one record has Active=true; the absence of an active record
// means a 0% discount, not an error.
type GlobalDiscount struct {
	ID         int64     `gorm:"primaryKey" json:"id,string" form:"id"`
	Percentage float64   `json:"percentage" form:"percentage"`
	Active     bool      `gorm:"index" json:"active" form:"active"`
	Remark     string    `json:"remark" form:"remark"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// TableName Specify table name
func (GlobalDiscount) TableName() string {
	return "global_discount"
}
