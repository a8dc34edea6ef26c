package model

import "time"

// Quantityは在庫数。0未満にはならない。
type Product struct {
	ID              int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Name            string    `gorm:"type:varchar(64);not null" json:"name"`
	Price           float64   `gorm:"not null" json:"price"`
	CategoryID      int64     `gorm:"not null;index" json:"category_id"`
	Quantity        int64     `gorm:"not null" json:"quantity"`
	ManufactureDate time.Time `gorm:"type:date;not null" json:"manufacture_date"`
	CreatedAt       time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}
