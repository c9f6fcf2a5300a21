package models

import (
	"database/sql/driver"
	"encoding/json"
	"time"
)

// CartLine 购物车行（商品 + 数量）
type CartLine struct {
	ProductID uint `json:"product_id"` // 商品ID
	Quantity  int  `json:"quantity"`   // 数量
}

// CartLines 购物车行集合，整体以 JSON 文档存储
type CartLines []CartLine

// Value 实现 driver.Valuer 接口
func (l CartLines) Value() (driver.Value, error) {
	if l == nil {
		return json.Marshal(CartLines{})
	}
	return json.Marshal(l)
}

// Scan 实现 sql.Scanner 接口
func (l *CartLines) Scan(value interface{}) error {
	if value == nil {
		*l = CartLines{}
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		if text, ok := value.(string); ok {
			bytes = []byte(text)
		} else {
			return nil
		}
	}
	return json.Unmarshal(bytes, l)
}

// Find 按商品查找行下标，不存在返回 -1
func (l CartLines) Find(productID uint) int {
	for i := range l {
		if l[i].ProductID == productID {
			return i
		}
	}
	return -1
}

// ProductIDs 返回数量为正的行引用的商品ID集合
func (l CartLines) ProductIDs() []uint {
	ids := make([]uint, 0, len(l))
	for _, line := range l {
		if line.Quantity > 0 {
			ids = append(ids, line.ProductID)
		}
	}
	return ids
}

// Cart 购物车表。每个用户一行，行集合整体替换写入，
// Version 为乐观并发令牌（见 repository.CartRepository.Upsert）。
type Cart struct {
	ID        uint      `gorm:"primarykey" json:"id"`                          // 主键
	UserID    string    `gorm:"type:varchar(64);uniqueIndex;not null" json:"user_id"` // 用户标识
	Lines     CartLines `gorm:"type:json;not null" json:"lines"`               // 购物车行
	Version   int64     `gorm:"not null;default:0" json:"version"`             // 乐观并发版本号
	CreatedAt time.Time `gorm:"index" json:"created_at"`                       // 创建时间
	UpdatedAt time.Time `gorm:"index" json:"updated_at"`                       // 更新时间
}

// TableName 指定表名
func (Cart) TableName() string {
	return "carts"
}
