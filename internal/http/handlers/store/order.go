package store

import (
	"errors"
	"strconv"

	handlershared "github.com/eshop-next/internal/http/handlers/shared"
	"github.com/eshop-next/internal/http/response"
	"github.com/eshop-next/internal/models"
	"github.com/eshop-next/internal/service"

	"github.com/gin-gonic/gin"
)

// OrderCreateRequest 下单请求
type OrderCreateRequest struct {
	Address string `json:"address" binding:"required"`
}

// OrderItemResponse 订单项响应（下单时的快照）
type OrderItemResponse struct {
	ProductID  uint         `json:"product_id"`
	Name       string       `json:"name"`
	UnitPrice  models.Money `json:"unit_price"`
	Quantity   int          `json:"quantity"`
	TotalPrice models.Money `json:"total_price"`
}

// OrderResponse 订单响应
type OrderResponse struct {
	ID         uint                `json:"id"`
	OrderNo    string              `json:"order_no"`
	Address    string              `json:"address"`
	Price      models.Money        `json:"price"`
	TotalPrice models.Money        `json:"total_price"`
	CreatedAt  string              `json:"created_at"`
	Items      []OrderItemResponse `json:"items"`
}

func buildOrderResponse(order *models.Order) OrderResponse {
	items := make([]OrderItemResponse, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, OrderItemResponse{
			ProductID:  item.ProductID,
			Name:       item.Name,
			UnitPrice:  item.UnitPrice,
			Quantity:   item.Quantity,
			TotalPrice: item.TotalPrice,
		})
	}
	return OrderResponse{
		ID:         order.ID,
		OrderNo:    order.OrderNo,
		Address:    order.Address,
		Price:      order.Price,
		TotalPrice: order.TotalPrice,
		CreatedAt:  order.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		Items:      items,
	}
}

// CreateOrder 从当前购物车下单
func (h *Handler) CreateOrder(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	var req OrderCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	order, err := h.OrderService.Create(c.Request.Context(), uid, req.Address)
	if err != nil {
		// 订单已落库、购物车待补偿清空的场景下单本身是成功的
		if errors.Is(err, service.ErrOrderCartNotCleared) && order != nil {
			response.Success(c, buildOrderResponse(order))
			return
		}
		respondOrderError(c, err)
		return
	}
	response.Success(c, buildOrderResponse(order))
}

// ListOrders 获取当前用户订单列表（创建时间倒序）
func (h *Handler) ListOrders(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = handlershared.NormalizePagination(page, pageSize)

	orders, total, err := h.OrderService.List(c.Request.Context(), uid, page, pageSize)
	if err != nil {
		respondOrderError(c, err)
		return
	}

	items := make([]OrderResponse, 0, len(orders))
	for i := range orders {
		items = append(items, buildOrderResponse(&orders[i]))
	}
	response.SuccessWithPage(c, gin.H{"items": items}, response.NewPagination(page, pageSize, total))
}

// GetOrder 获取当前用户订单详情，归属不符一律视同不存在
func (h *Handler) GetOrder(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	rawID := c.Param("id")
	id, err := strconv.ParseUint(rawID, 10, 64)
	if err != nil || id == 0 {
		respondError(c, response.CodeBadRequest, "error.order_id_invalid", nil)
		return
	}

	order, err := h.OrderService.Get(c.Request.Context(), uid, uint(id))
	if err != nil {
		respondOrderError(c, err)
		return
	}
	response.Success(c, buildOrderResponse(order))
}
