package models

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"gorm.io/gorm"
)

// StringArray 字符串数组类型，用于存储 images 等
type StringArray []string

// Value 实现 driver.Valuer 接口
func (s StringArray) Value() (driver.Value, error) {
	if s == nil {
		return nil, nil
	}
	return json.Marshal(s)
}

// Scan 实现 sql.Scanner 接口
func (s *StringArray) Scan(value interface{}) error {
	if value == nil {
		*s = StringArray{}
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
	return json.Unmarshal(bytes, s)
}

// Product 商品表。目录管理侧负责写入，购物车/订单核心只读。
type Product struct {
	ID        uint           `gorm:"primarykey" json:"id"`                             // 主键
	Name      string         `gorm:"type:varchar(200);not null" json:"name"`           // 商品名称
	Price     Money          `gorm:"type:decimal(20,2);not null;default:0" json:"price"` // 单价
	Images    StringArray    `gorm:"type:json" json:"images"`                          // 图片数组
	IsActive  bool           `gorm:"default:true;index" json:"is_active"`              // 是否上架
	SortOrder int            `gorm:"default:0;index" json:"sort_order"`                // 排序权重
	CreatedAt time.Time      `gorm:"index" json:"created_at"`                          // 创建时间
	UpdatedAt time.Time      `json:"updated_at"`                                       // 更新时间
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`                                   // 软删除时间
}

// TableName 指定表名
func (Product) TableName() string {
	return "products"
}
