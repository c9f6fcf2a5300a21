package catalog

import (
	"errors"
	"strconv"
	"strings"

	"github.com/eshop-next/internal/cache"
	handlershared "github.com/eshop-next/internal/http/handlers/shared"
	"github.com/eshop-next/internal/http/response"
	"github.com/eshop-next/internal/logger"
	"github.com/eshop-next/internal/models"
	"github.com/eshop-next/internal/repository"
	"github.com/eshop-next/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// ProductRequest 商品创建/更新请求
type ProductRequest struct {
	Name      string   `json:"name" binding:"required"`
	Price     string   `json:"price" binding:"required"`
	Images    []string `json:"images"`
	IsActive  *bool    `json:"is_active"`
	SortOrder int      `json:"sort_order"`
}

func (r *ProductRequest) toModel() (*models.Product, error) {
	price, err := decimal.NewFromString(strings.TrimSpace(r.Price))
	if err != nil {
		return nil, err
	}
	isActive := true
	if r.IsActive != nil {
		isActive = *r.IsActive
	}
	return &models.Product{
		Name:      strings.TrimSpace(r.Name),
		Price:     models.NewMoneyFromDecimal(price),
		Images:    models.StringArray(r.Images),
		IsActive:  isActive,
		SortOrder: r.SortOrder,
	}, nil
}

func respondProductError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrProductNameRequired):
		respondError(c, response.CodeBadRequest, "error.product_name_required", nil)
	case errors.Is(err, service.ErrProductPriceInvalid):
		respondError(c, response.CodeBadRequest, "error.product_price_invalid", nil)
	case errors.Is(err, service.ErrProductNotFound):
		respondError(c, response.CodeNotFound, "error.product_not_found", nil)
	case errors.Is(err, service.ErrStoreUnavailable):
		respondError(c, response.CodeUnavailable, "error.store_unavailable", nil)
	default:
		respondError(c, response.CodeInternal, "error.product_save_failed", err)
	}
}

// ListProducts 获取商品列表（含下架商品）
func (h *Handler) ListProducts(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = handlershared.NormalizePagination(page, pageSize)

	products, total, err := h.ProductService.List(c.Request.Context(), repository.ProductListFilter{
		Page:     page,
		PageSize: pageSize,
		Search:   strings.TrimSpace(c.Query("search")),
	})
	if err != nil {
		respondProductError(c, err)
		return
	}
	response.SuccessWithPage(c, gin.H{"items": products}, response.NewPagination(page, pageSize, total))
}

// CreateProduct 新增商品
func (h *Handler) CreateProduct(c *gin.Context) {
	var req ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	product, err := req.toModel()
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.product_price_invalid", err)
		return
	}
	if err := h.ProductService.Create(c.Request.Context(), product); err != nil {
		respondProductError(c, err)
		return
	}
	response.Success(c, product)
}

// UpdateProduct 更新商品
func (h *Handler) UpdateProduct(c *gin.Context) {
	rawID := c.Param("id")
	id, err := strconv.ParseUint(rawID, 10, 64)
	if err != nil || id == 0 {
		respondError(c, response.CodeBadRequest, "error.product_id_invalid", nil)
		return
	}
	var req ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	product, err := req.toModel()
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.product_price_invalid", err)
		return
	}
	product.ID = uint(id)
	if err := h.ProductService.Update(c.Request.Context(), product); err != nil {
		respondProductError(c, err)
		return
	}
	// 价格或上下架变更后失效店面详情缓存
	if err := cache.Del(c.Request.Context(), cache.ProductKey(product.ID)); err != nil {
		logger.Warnw("product_cache_del_failed", "product_id", product.ID, "error", err)
	}
	response.Success(c, product)
}
