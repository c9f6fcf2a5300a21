package service

import (
	"github.com/eshop-next/internal/models"

	"github.com/shopspring/decimal"
)

// CartItemSummary 计价后的购物车行（派生数据，不落库）
type CartItemSummary struct {
	ProductID uint               `json:"product_id"`
	Name      string             `json:"name"`
	UnitPrice models.Money       `json:"unit_price"`
	Quantity  int                `json:"quantity"`
	Subtotal  models.Money       `json:"subtotal"`
	Images    models.StringArray `json:"images"`
}

// CartSummary 计价后的购物车视图。
// 每次读取都按当前目录价格重新计算，从不缓存。
type CartSummary struct {
	Items      []CartItemSummary `json:"items"`
	Price      models.Money      `json:"price"`       // 各行小计之和
	TotalPrice models.Money      `json:"total_price"` // 实付金额（暂无税费/运费，等于 Price）
}

// EmptyCartSummary 空购物车基线
func EmptyCartSummary() CartSummary {
	return CartSummary{
		Items:      []CartItemSummary{},
		Price:      models.NewMoneyFromInt(0),
		TotalPrice: models.NewMoneyFromInt(0),
	}
}

// BuildCartSummary 将购物车行与商品集合联接为计价视图。
// 纯函数：无副作用，不修改入参，可重复并发调用。
// 数量不为正的行不参与计价；数量为正但商品缺失属于调用方数据完整性问题，
// 返回 ErrProductMissing（调用方必须按购物车引用的 ID 集合取齐商品）。
func BuildCartSummary(cart *models.Cart, products []models.Product) (CartSummary, error) {
	summary := EmptyCartSummary()
	if cart == nil || len(cart.Lines) == 0 {
		return summary, nil
	}

	byID := make(map[uint]*models.Product, len(products))
	for i := range products {
		byID[products[i].ID] = &products[i]
	}

	price := decimal.Zero
	for _, line := range cart.Lines {
		if line.Quantity <= 0 {
			continue
		}
		product, ok := byID[line.ProductID]
		if !ok {
			return EmptyCartSummary(), ErrProductMissing
		}
		subtotal := product.Price.Mul(decimal.NewFromInt(int64(line.Quantity)))
		summary.Items = append(summary.Items, CartItemSummary{
			ProductID: product.ID,
			Name:      product.Name,
			UnitPrice: product.Price,
			Quantity:  line.Quantity,
			Subtotal:  models.NewMoneyFromDecimal(subtotal),
			Images:    product.Images,
		})
		price = price.Add(subtotal)
	}

	summary.Price = models.NewMoneyFromDecimal(price)
	summary.TotalPrice = models.NewMoneyFromDecimal(price)
	return summary, nil
}
