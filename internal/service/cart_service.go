package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/eshop-next/internal/constants"
	"github.com/eshop-next/internal/logger"
	"github.com/eshop-next/internal/models"
	"github.com/eshop-next/internal/repository"
)

// CartService 购物车服务。
// 购物车读取与数量合并的唯一入口：同一用户的变更经 KeyLock 串行化，
// 落库走整篇替换 + 版本校验（repository.CartRepository.Upsert）。
type CartService struct {
	cartRepo      repository.CartRepository
	productRepo   repository.ProductRepository
	locks         *KeyLock
	storeTimeout  time.Duration
	upsertRetries int
}

// NewCartService 创建购物车服务
func NewCartService(cartRepo repository.CartRepository, productRepo repository.ProductRepository, locks *KeyLock, storeTimeout time.Duration, upsertRetries int) *CartService {
	if locks == nil {
		locks = NewKeyLock()
	}
	if upsertRetries <= 0 {
		upsertRetries = constants.DefaultCartUpsertRetries
	}
	return &CartService{
		cartRepo:      cartRepo,
		productRepo:   productRepo,
		locks:         locks,
		storeTimeout:  storeTimeout,
		upsertRetries: upsertRetries,
	}
}

// GetItemSummary 读取用户购物车的计价视图。
// 购物车不存在视为空购物车基线，永远不会因此失败，也不会物化一行存储。
func (s *CartService) GetItemSummary(ctx context.Context, userID string) (CartSummary, error) {
	if strings.TrimSpace(userID) == "" {
		return EmptyCartSummary(), ErrInvalidUser
	}

	cart, err := s.loadCart(ctx, userID)
	if err != nil {
		return EmptyCartSummary(), err
	}
	if cart == nil {
		return EmptyCartSummary(), nil
	}

	products, err := s.loadCartProducts(ctx, cart)
	if err != nil {
		return EmptyCartSummary(), err
	}
	return BuildCartSummary(cart, products)
}

// Update 合并一次数量调整并返回落库后的计价视图。
// 合并语义：已存在的行累加 delta，结果 ≤ 0 则整行移除；
// 不存在的行以 delta 为初始数量直接插入（不检查符号，见 BuildCartSummary
// 对非正数量行的处理）。返回值总是重新读取、重新计价，反映已提交状态。
func (s *CartService) Update(ctx context.Context, userID string, productID uint, delta int) (CartSummary, error) {
	if strings.TrimSpace(userID) == "" {
		return EmptyCartSummary(), ErrInvalidUser
	}
	if productID == 0 {
		return EmptyCartSummary(), ErrProductNotFound
	}

	s.locks.Lock(userID)
	err := s.applyUpdate(ctx, userID, productID, delta)
	s.locks.Unlock(userID)
	if err != nil {
		return EmptyCartSummary(), err
	}

	return s.GetItemSummary(ctx, userID)
}

// applyUpdate 执行读-改-写。持有用户锁时版本冲突只可能来自带外写入，
// 重新读取合并后重试，重试耗尽返回 ErrCartConflict。
func (s *CartService) applyUpdate(ctx context.Context, userID string, productID uint, delta int) error {
	var product *models.Product

	for attempt := 0; attempt < s.upsertRetries; attempt++ {
		cart, err := s.loadCart(ctx, userID)
		if err != nil {
			return err
		}
		if cart == nil {
			cart = &models.Cart{UserID: userID, Lines: models.CartLines{}}
		}

		idx := cart.Lines.Find(productID)
		if idx >= 0 {
			final := cart.Lines[idx].Quantity + delta
			if final <= 0 {
				cart.Lines = append(cart.Lines[:idx], cart.Lines[idx+1:]...)
			} else {
				if product, err = s.requireProduct(ctx, product, productID); err != nil {
					return err
				}
				cart.Lines[idx].Quantity = final
			}
		} else {
			if product, err = s.requireProduct(ctx, product, productID); err != nil {
				return err
			}
			cart.Lines = append(cart.Lines, models.CartLine{ProductID: productID, Quantity: delta})
		}

		storeCtx, cancel := s.withStoreTimeout(ctx)
		err = s.cartRepo.Upsert(storeCtx, cart)
		cancel()
		if err == nil {
			return nil
		}
		if errors.Is(err, repository.ErrCartVersionConflict) {
			logger.Warnw("cart_upsert_version_conflict", "user_id", userID, "attempt", attempt+1)
			continue
		}
		logger.Errorw("cart_upsert_failed", "user_id", userID, "error", err)
		return ErrStoreUnavailable
	}
	return ErrCartConflict
}

// requireProduct 校验目录中存在且上架的商品，结果在重试间复用
func (s *CartService) requireProduct(ctx context.Context, cached *models.Product, productID uint) (*models.Product, error) {
	if cached != nil {
		return cached, nil
	}
	storeCtx, cancel := s.withStoreTimeout(ctx)
	defer cancel()
	product, err := s.productRepo.GetByID(storeCtx, productID)
	if err != nil {
		logger.Errorw("cart_product_fetch_failed", "product_id", productID, "error", err)
		return nil, ErrStoreUnavailable
	}
	if product == nil || !product.IsActive {
		return nil, ErrProductNotFound
	}
	return product, nil
}

func (s *CartService) loadCart(ctx context.Context, userID string) (*models.Cart, error) {
	storeCtx, cancel := s.withStoreTimeout(ctx)
	defer cancel()
	cart, err := s.cartRepo.GetByOwner(storeCtx, userID)
	if err != nil {
		logger.Errorw("cart_fetch_failed", "user_id", userID, "error", err)
		return nil, ErrStoreUnavailable
	}
	return cart, nil
}

// loadCartProducts 取齐购物车引用的商品集合，BuildCartSummary 要求集合完整
func (s *CartService) loadCartProducts(ctx context.Context, cart *models.Cart) ([]models.Product, error) {
	ids := cart.Lines.ProductIDs()
	if len(ids) == 0 {
		return []models.Product{}, nil
	}
	storeCtx, cancel := s.withStoreTimeout(ctx)
	defer cancel()
	products, err := s.productRepo.ListByIDs(storeCtx, ids)
	if err != nil {
		logger.Errorw("cart_products_fetch_failed", "user_id", cart.UserID, "error", err)
		return nil, ErrStoreUnavailable
	}
	return products, nil
}

func (s *CartService) withStoreTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return withStoreTimeout(ctx, s.storeTimeout)
}

// withStoreTimeout 为存储调用套上超时，避免无限阻塞
func withStoreTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if ctx == nil {
		ctx = context.Background()
	}
	if timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, timeout)
}
