package models

import (
	"time"
)

// Order 订单表。下单时一次性写入，之后不可变更。
type Order struct {
	ID          uint      `gorm:"primarykey" json:"id"`                                // 主键
	OrderNo     string    `gorm:"type:varchar(64);uniqueIndex;not null" json:"order_no"` // 订单编号
	UserID      string    `gorm:"type:varchar(64);index;not null" json:"user_id"`      // 用户标识
	Address     string    `gorm:"type:varchar(500);not null" json:"address"`           // 收货地址
	Price       Money     `gorm:"type:decimal(20,2);not null;default:0" json:"price"`  // 商品合计
	TotalPrice  Money     `gorm:"type:decimal(20,2);not null;default:0" json:"total_price"` // 实付金额
	CartVersion int64     `gorm:"not null;default:0" json:"-"`                         // 消费的购物车版本（清空对账用）
	CreatedAt   time.Time `gorm:"index" json:"created_at"`                             // 创建时间

	Items []OrderItem `gorm:"foreignKey:OrderID" json:"items,omitempty"` // 订单项
}

// TableName 指定表名
func (Order) TableName() string {
	return "orders"
}
