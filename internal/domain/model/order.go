package model

// Priceは購入時点の単価スナップショット。
// 後から商品価格が変わっても履歴は変わらない。
type Order struct {
	ID            int64   `gorm:"primaryKey;autoIncrement" json:"id"`
	TransactionID int64   `gorm:"not null;index" json:"transaction_id"`
	ProductID     int64   `gorm:"not null;index" json:"product_id"`
	Quantity      int64   `gorm:"not null" json:"quantity"`
	Price         float64 `gorm:"not null" json:"price"`
}
