package store

import (
	"strconv"
	"strings"
	"time"

	"github.com/eshop-next/internal/cache"
	handlershared "github.com/eshop-next/internal/http/handlers/shared"
	"github.com/eshop-next/internal/http/response"
	"github.com/eshop-next/internal/logger"
	"github.com/eshop-next/internal/models"
	"github.com/eshop-next/internal/repository"

	"github.com/gin-gonic/gin"
)

// ProductResponse 商品响应
type ProductResponse struct {
	ID     uint               `json:"id"`
	Name   string             `json:"name"`
	Price  models.Money       `json:"price"`
	Images models.StringArray `json:"images"`
}

func buildProductResponse(p *models.Product) ProductResponse {
	return ProductResponse{
		ID:     p.ID,
		Name:   p.Name,
		Price:  p.Price,
		Images: p.Images,
	}
}

// GetProducts 获取商品列表（仅上架商品）
func (h *Handler) GetProducts(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = handlershared.NormalizePagination(page, pageSize)

	products, total, err := h.ProductService.List(c.Request.Context(), repository.ProductListFilter{
		Page:       page,
		PageSize:   pageSize,
		Search:     strings.TrimSpace(c.Query("search")),
		OnlyActive: true,
	})
	if err != nil {
		respondError(c, response.CodeUnavailable, "error.store_unavailable", err)
		return
	}

	items := make([]ProductResponse, 0, len(products))
	for i := range products {
		items = append(items, buildProductResponse(&products[i]))
	}
	response.SuccessWithPage(c, gin.H{"items": items}, response.NewPagination(page, pageSize, total))
}

// productCacheTTL 商品详情缓存时长，0 表示关闭
func (h *Handler) productCacheTTL() time.Duration {
	if h.Container == nil || h.Config == nil {
		return 0
	}
	secs := h.Config.Redis.ProductCacheSeconds
	if secs <= 0 {
		return 0
	}
	return time.Duration(secs) * time.Second
}

// GetProduct 获取商品详情。
// 开启缓存时先查 Redis，未命中回源目录并回写；目录更新负责失效。
func (h *Handler) GetProduct(c *gin.Context) {
	rawID := c.Param("id")
	id, err := strconv.ParseUint(rawID, 10, 64)
	if err != nil || id == 0 {
		respondError(c, response.CodeBadRequest, "error.product_id_invalid", nil)
		return
	}

	ttl := h.productCacheTTL()
	cacheKey := cache.ProductKey(uint(id))
	if ttl > 0 {
		var cached ProductResponse
		hit, cacheErr := cache.GetJSON(c.Request.Context(), cacheKey, &cached)
		if cacheErr != nil {
			logger.Warnw("product_cache_get_failed", "product_id", id, "error", cacheErr)
		} else if hit {
			response.Success(c, cached)
			return
		}
	}

	product, err := h.ProductService.Get(c.Request.Context(), uint(id))
	if err != nil {
		respondCartError(c, err)
		return
	}
	resp := buildProductResponse(product)
	if ttl > 0 {
		if cacheErr := cache.SetJSON(c.Request.Context(), cacheKey, resp, ttl); cacheErr != nil {
			logger.Warnw("product_cache_set_failed", "product_id", id, "error", cacheErr)
		}
	}
	response.Success(c, resp)
}
