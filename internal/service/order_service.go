package service

import (
	"context"
	"strings"
	"time"

	"github.com/eshop-next/internal/logger"
	"github.com/eshop-next/internal/models"
	"github.com/eshop-next/internal/repository"

	"github.com/google/uuid"
)

// CartReconcileScheduler 购物车对账任务投递接口，由 queue 包实现。
// 下单后清空购物车失败时投递补偿任务，worker 侧幂等重放清空。
type CartReconcileScheduler interface {
	ScheduleCartReconcile(ctx context.Context, orderID uint, userID string, cartVersion int64) error
}

// OrderService 订单服务。
// 下单是两步提交：先在事务里写入订单与订单项，再按版本清空购物车。
// 两步之间存在窗口，清空失败不回滚订单，转由对账任务补偿。
type OrderService struct {
	orderRepo    repository.OrderRepository
	cartRepo     repository.CartRepository
	productRepo  repository.ProductRepository
	reconciler   CartReconcileScheduler
	locks        *KeyLock
	storeTimeout time.Duration
}

// NewOrderService 创建订单服务
func NewOrderService(orderRepo repository.OrderRepository, cartRepo repository.CartRepository, productRepo repository.ProductRepository, reconciler CartReconcileScheduler, locks *KeyLock, storeTimeout time.Duration) *OrderService {
	if locks == nil {
		locks = NewKeyLock()
	}
	return &OrderService{
		orderRepo:    orderRepo,
		cartRepo:     cartRepo,
		productRepo:  productRepo,
		reconciler:   reconciler,
		locks:        locks,
		storeTimeout: storeTimeout,
	}
}

// Create 从当前购物车下单。
// 价格以目录当前价快照进订单项，后续改价不影响已成订单。
// 订单写入一旦开始就脱离请求取消（context.WithoutCancel），
// 避免半途取消留下订单已建、购物车未清的状态。
// 返回 ErrOrderCartNotCleared 时订单已创建成功，调用方应照常返回订单。
func (s *OrderService) Create(ctx context.Context, userID, address string) (*models.Order, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, ErrInvalidUser
	}
	address = strings.TrimSpace(address)
	if address == "" {
		return nil, ErrInvalidAddress
	}

	s.locks.Lock(userID)
	defer s.locks.Unlock(userID)

	cart, err := s.loadCart(ctx, userID)
	if err != nil {
		return nil, err
	}
	if cart == nil {
		return nil, ErrCartEmpty
	}

	products, err := s.loadCartProducts(ctx, cart)
	if err != nil {
		return nil, err
	}
	summary, err := BuildCartSummary(cart, products)
	if err != nil {
		return nil, err
	}
	if len(summary.Items) == 0 {
		return nil, ErrCartEmpty
	}

	order := &models.Order{
		OrderNo:     uuid.NewString(),
		UserID:      userID,
		Address:     address,
		Price:       summary.Price,
		TotalPrice:  summary.TotalPrice,
		CartVersion: cart.Version,
	}
	items := make([]models.OrderItem, 0, len(summary.Items))
	for _, item := range summary.Items {
		items = append(items, models.OrderItem{
			ProductID:  item.ProductID,
			Name:       item.Name,
			UnitPrice:  item.UnitPrice,
			Quantity:   item.Quantity,
			TotalPrice: item.Subtotal,
		})
	}

	// 写入开始后不再响应请求取消
	detached := context.WithoutCancel(ctx)

	storeCtx, cancel := withStoreTimeout(detached, s.storeTimeout)
	err = s.orderRepo.Create(storeCtx, order, items)
	cancel()
	if err != nil {
		logger.Errorw("order_create_failed", "user_id", userID, "error", err)
		return nil, ErrStoreUnavailable
	}

	storeCtx, cancel = withStoreTimeout(detached, s.storeTimeout)
	cleared, err := s.cartRepo.ClearByOwner(storeCtx, userID, cart.Version)
	cancel()
	if err != nil {
		logger.Errorw("order_cart_clear_failed",
			"user_id", userID, "order_id", order.ID, "cart_version", cart.Version, "error", err)
		s.scheduleReconcile(detached, order, cart.Version)
		return order, ErrOrderCartNotCleared
	}
	if !cleared {
		// 版本已被带外写入推进：清空会覆盖提交后的新改动，放弃清空保留用户新内容
		logger.Warnw("order_cart_clear_skipped",
			"user_id", userID, "order_id", order.ID, "cart_version", cart.Version)
	}

	logger.Infow("order_created",
		"user_id", userID, "order_id", order.ID, "order_no", order.OrderNo,
		"total_price", order.TotalPrice.String(), "items", len(items))
	return order, nil
}

// List 获取用户订单列表（创建时间倒序）
func (s *OrderService) List(ctx context.Context, userID string, page, pageSize int) ([]models.Order, int64, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, 0, ErrInvalidUser
	}
	storeCtx, cancel := withStoreTimeout(ctx, s.storeTimeout)
	defer cancel()
	orders, total, err := s.orderRepo.ListByUser(storeCtx, repository.OrderListFilter{
		UserID:   userID,
		Page:     page,
		PageSize: pageSize,
	})
	if err != nil {
		logger.Errorw("order_list_failed", "user_id", userID, "error", err)
		return nil, 0, ErrStoreUnavailable
	}
	return orders, total, nil
}

// Get 获取用户订单详情。订单不存在与归属不符统一返回 ErrOrderNotFound
func (s *OrderService) Get(ctx context.Context, userID string, orderID uint) (*models.Order, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, ErrInvalidUser
	}
	storeCtx, cancel := withStoreTimeout(ctx, s.storeTimeout)
	defer cancel()
	order, err := s.orderRepo.GetByIDAndUser(storeCtx, orderID, userID)
	if err != nil {
		logger.Errorw("order_get_failed", "user_id", userID, "order_id", orderID, "error", err)
		return nil, ErrStoreUnavailable
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	return order, nil
}

func (s *OrderService) scheduleReconcile(ctx context.Context, order *models.Order, cartVersion int64) {
	if s.reconciler == nil {
		logger.Warnw("cart_reconcile_not_scheduled",
			"user_id", order.UserID, "order_id", order.ID, "reason", "queue disabled")
		return
	}
	if err := s.reconciler.ScheduleCartReconcile(ctx, order.ID, order.UserID, cartVersion); err != nil {
		logger.Errorw("cart_reconcile_enqueue_failed",
			"user_id", order.UserID, "order_id", order.ID, "error", err)
	}
}

func (s *OrderService) loadCart(ctx context.Context, userID string) (*models.Cart, error) {
	storeCtx, cancel := withStoreTimeout(ctx, s.storeTimeout)
	defer cancel()
	cart, err := s.cartRepo.GetByOwner(storeCtx, userID)
	if err != nil {
		logger.Errorw("order_cart_fetch_failed", "user_id", userID, "error", err)
		return nil, ErrStoreUnavailable
	}
	return cart, nil
}

func (s *OrderService) loadCartProducts(ctx context.Context, cart *models.Cart) ([]models.Product, error) {
	ids := cart.Lines.ProductIDs()
	if len(ids) == 0 {
		return []models.Product{}, nil
	}
	storeCtx, cancel := withStoreTimeout(ctx, s.storeTimeout)
	defer cancel()
	products, err := s.productRepo.ListByIDs(storeCtx, ids)
	if err != nil {
		logger.Errorw("order_products_fetch_failed", "user_id", cart.UserID, "error", err)
		return nil, ErrStoreUnavailable
	}
	return products, nil
}
