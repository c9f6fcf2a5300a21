package store

import (
	"github.com/eshop-next/internal/http/response"
	"github.com/eshop-next/internal/service"

	"github.com/gin-gonic/gin"
)

// CartUpdateRequest 购物车数量调整请求。
// quantity 是增量：正数累加，负数扣减，扣到 0 及以下整行移除。
type CartUpdateRequest struct {
	ProductID uint `json:"product_id" binding:"required"`
	Quantity  int  `json:"quantity"`
}

func buildCartResponse(summary service.CartSummary) gin.H {
	return gin.H{
		"items":       summary.Items,
		"price":       summary.Price,
		"total_price": summary.TotalPrice,
	}
}

// GetCart 获取当前用户购物车（计价视图）
func (h *Handler) GetCart(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}

	summary, err := h.CartService.GetItemSummary(c.Request.Context(), uid)
	if err != nil {
		respondCartError(c, err)
		return
	}
	response.Success(c, buildCartResponse(summary))
}

// UpdateCart 合并一次数量调整，返回调整后的购物车
func (h *Handler) UpdateCart(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	var req CartUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	summary, err := h.CartService.Update(c.Request.Context(), uid, req.ProductID, req.Quantity)
	if err != nil {
		respondCartError(c, err)
		return
	}
	response.Success(c, buildCartResponse(summary))
}
