package model

import "time"

// チェックアウト1回につき1レコード。作成後は変更しない。
type Transaction struct {
	ID       int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID   int64     `gorm:"not null;index" json:"user_id"`
	Datetime time.Time `gorm:"not null" json:"datetime"`
}
