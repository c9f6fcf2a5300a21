package service

import (
	"context"
	"strings"
	"time"

	"github.com/eshop-next/internal/logger"
	"github.com/eshop-next/internal/models"
	"github.com/eshop-next/internal/repository"
)

// ProductService 商品目录服务
type ProductService struct {
	productRepo  repository.ProductRepository
	storeTimeout time.Duration
}

// NewProductService 创建商品服务
func NewProductService(productRepo repository.ProductRepository, storeTimeout time.Duration) *ProductService {
	return &ProductService{productRepo: productRepo, storeTimeout: storeTimeout}
}

// List 获取商品列表。店面侧只展示上架商品
func (s *ProductService) List(ctx context.Context, filter repository.ProductListFilter) ([]models.Product, int64, error) {
	storeCtx, cancel := withStoreTimeout(ctx, s.storeTimeout)
	defer cancel()
	products, total, err := s.productRepo.List(storeCtx, filter)
	if err != nil {
		logger.Errorw("product_list_failed", "error", err)
		return nil, 0, ErrStoreUnavailable
	}
	return products, total, nil
}

// Get 获取上架商品详情
func (s *ProductService) Get(ctx context.Context, id uint) (*models.Product, error) {
	storeCtx, cancel := withStoreTimeout(ctx, s.storeTimeout)
	defer cancel()
	product, err := s.productRepo.GetByID(storeCtx, id)
	if err != nil {
		logger.Errorw("product_get_failed", "product_id", id, "error", err)
		return nil, ErrStoreUnavailable
	}
	if product == nil || !product.IsActive {
		return nil, ErrProductNotFound
	}
	return product, nil
}

// Create 新增商品（目录管理侧）
func (s *ProductService) Create(ctx context.Context, product *models.Product) error {
	if strings.TrimSpace(product.Name) == "" {
		return ErrProductNameRequired
	}
	if product.Price.IsNegative() {
		return ErrProductPriceInvalid
	}
	storeCtx, cancel := withStoreTimeout(ctx, s.storeTimeout)
	defer cancel()
	if err := s.productRepo.Create(storeCtx, product); err != nil {
		logger.Errorw("product_create_failed", "name", product.Name, "error", err)
		return ErrStoreUnavailable
	}
	return nil
}

// Update 更新商品（目录管理侧）
func (s *ProductService) Update(ctx context.Context, product *models.Product) error {
	if product.ID == 0 {
		return ErrProductNotFound
	}
	if product.Price.IsNegative() {
		return ErrProductPriceInvalid
	}
	storeCtx, cancel := withStoreTimeout(ctx, s.storeTimeout)
	defer cancel()
	existing, err := s.productRepo.GetByID(storeCtx, product.ID)
	if err != nil {
		logger.Errorw("product_update_fetch_failed", "product_id", product.ID, "error", err)
		return ErrStoreUnavailable
	}
	if existing == nil {
		return ErrProductNotFound
	}
	if err := s.productRepo.Update(storeCtx, product); err != nil {
		logger.Errorw("product_update_failed", "product_id", product.ID, "error", err)
		return ErrStoreUnavailable
	}
	return nil
}
