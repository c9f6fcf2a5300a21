package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/eshop-next/internal/models"
	"github.com/eshop-next/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type recordingReconciler struct {
	calls []struct {
		OrderID     uint
		UserID      string
		CartVersion int64
	}
}

func (r *recordingReconciler) ScheduleCartReconcile(_ context.Context, orderID uint, userID string, cartVersion int64) error {
	r.calls = append(r.calls, struct {
		OrderID     uint
		UserID      string
		CartVersion int64
	}{orderID, userID, cartVersion})
	return nil
}

func newTestOrderService(db *gorm.DB, cartRepo repository.CartRepository, reconciler CartReconcileScheduler) *OrderService {
	if cartRepo == nil {
		cartRepo = repository.NewCartRepository(db)
	}
	return NewOrderService(
		repository.NewOrderRepository(db),
		cartRepo,
		repository.NewProductRepository(db),
		reconciler,
		NewKeyLock(),
		5*time.Second,
	)
}

func fillCart(t *testing.T, db *gorm.DB, userID string, productID uint, qty int) {
	t.Helper()
	svc := newTestCartService(db)
	if _, err := svc.Update(context.Background(), userID, productID, qty); err != nil {
		t.Fatalf("fill cart failed: %v", err)
	}
}

func TestOrderServiceCreateSnapshotsAndClearsCart(t *testing.T) {
	db := setupServiceTestDB(t)
	keyboard := seedProduct(t, db, "键盘", 100, true)
	cable := seedProduct(t, db, "数据线", 10, true)
	fillCart(t, db, "u1", keyboard.ID, 2)
	fillCart(t, db, "u1", cable.ID, 3)

	svc := newTestOrderService(db, nil, nil)
	order, err := svc.Create(context.Background(), "u1", "上海市浦东新区 1 号")
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if order.OrderNo == "" {
		t.Fatalf("expected order number")
	}
	if len(order.Items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(order.Items))
	}
	if !order.TotalPrice.Equal(decimal.NewFromInt(230)) {
		t.Fatalf("expected total 230, got %s", order.TotalPrice.String())
	}
	for _, item := range order.Items {
		if item.Quantity <= 0 {
			t.Fatalf("order item must have positive quantity, got %d", item.Quantity)
		}
		if item.Name == "" {
			t.Fatalf("order item must snapshot product name")
		}
	}

	// 下单后购物车回到空基线
	cart, err := repository.NewCartRepository(db).GetByOwner(context.Background(), "u1")
	if err != nil {
		t.Fatalf("GetByOwner error: %v", err)
	}
	if len(cart.Lines) != 0 {
		t.Fatalf("cart should be cleared, got %+v", cart.Lines)
	}
}

func TestOrderServiceCreateEmptyCart(t *testing.T) {
	db := setupServiceTestDB(t)
	svc := newTestOrderService(db, nil, nil)

	if _, err := svc.Create(context.Background(), "u1", "地址"); !errors.Is(err, ErrCartEmpty) {
		t.Fatalf("expected ErrCartEmpty, got %v", err)
	}
}

func TestOrderServiceCreateOnlyNonPositiveLines(t *testing.T) {
	db := setupServiceTestDB(t)
	product := seedProduct(t, db, "键盘", 100, true)
	// 只有非正数量行的购物车，计价视图为空
	fillCart(t, db, "u1", product.ID, -2)

	svc := newTestOrderService(db, nil, nil)
	if _, err := svc.Create(context.Background(), "u1", "地址"); !errors.Is(err, ErrCartEmpty) {
		t.Fatalf("expected ErrCartEmpty, got %v", err)
	}
}

func TestOrderServiceCreateAddressRequired(t *testing.T) {
	db := setupServiceTestDB(t)
	product := seedProduct(t, db, "键盘", 100, true)
	fillCart(t, db, "u1", product.ID, 1)

	svc := newTestOrderService(db, nil, nil)
	if _, err := svc.Create(context.Background(), "u1", "   "); !errors.Is(err, ErrInvalidAddress) {
		t.Fatalf("expected ErrInvalidAddress, got %v", err)
	}
}

func TestOrderServiceCreatePriceSnapshotImmuneToRepricing(t *testing.T) {
	db := setupServiceTestDB(t)
	product := seedProduct(t, db, "键盘", 100, true)
	fillCart(t, db, "u1", product.ID, 1)

	svc := newTestOrderService(db, nil, nil)
	order, err := svc.Create(context.Background(), "u1", "地址")
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}

	// 改价不影响已成订单
	product.Price = models.NewMoneyFromDecimal(decimal.NewFromInt(999))
	if err := db.Save(product).Error; err != nil {
		t.Fatalf("reprice failed: %v", err)
	}

	got, err := svc.Get(context.Background(), "u1", order.ID)
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if !got.Items[0].UnitPrice.Equal(decimal.NewFromInt(100)) {
		t.Fatalf("expected snapshot price 100, got %s", got.Items[0].UnitPrice.String())
	}
}

func TestOrderServiceGetOwnership(t *testing.T) {
	db := setupServiceTestDB(t)
	product := seedProduct(t, db, "键盘", 100, true)
	fillCart(t, db, "alice", product.ID, 1)

	svc := newTestOrderService(db, nil, nil)
	order, err := svc.Create(context.Background(), "alice", "地址")
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}

	if _, err := svc.Get(context.Background(), "mallory", order.ID); !errors.Is(err, ErrOrderNotFound) {
		t.Fatalf("foreign order must look nonexistent, got %v", err)
	}
	if _, err := svc.Get(context.Background(), "alice", order.ID+100); !errors.Is(err, ErrOrderNotFound) {
		t.Fatalf("expected ErrOrderNotFound, got %v", err)
	}
}

func TestOrderServiceListNewestFirst(t *testing.T) {
	db := setupServiceTestDB(t)
	product := seedProduct(t, db, "键盘", 100, true)
	svc := newTestOrderService(db, nil, nil)
	ctx := context.Background()

	fillCart(t, db, "u1", product.ID, 1)
	first, err := svc.Create(ctx, "u1", "地址一")
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	fillCart(t, db, "u1", product.ID, 2)
	second, err := svc.Create(ctx, "u1", "地址二")
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}

	orders, total, err := svc.List(ctx, "u1", 1, 20)
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	if total != 2 || len(orders) != 2 {
		t.Fatalf("expected 2 orders, got total=%d len=%d", total, len(orders))
	}
	if orders[0].ID != second.ID || orders[1].ID != first.ID {
		t.Fatalf("expected newest first, got %d then %d", orders[0].ID, orders[1].ID)
	}
	// 列表不泄露他人订单
	orders, total, err = svc.List(ctx, "u2", 1, 20)
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	if total != 0 || len(orders) != 0 {
		t.Fatalf("expected no orders for other user, got %d", len(orders))
	}
}

// failingClearCartRepo 订单写入后清空购物车失败的场景。
type failingClearCartRepo struct {
	repository.CartRepository
}

func (r *failingClearCartRepo) ClearByOwner(ctx context.Context, userID string, version int64) (bool, error) {
	return false, errors.New("storage gone")
}

func TestOrderServiceCreateClearFailureKeepsOrder(t *testing.T) {
	db := setupServiceTestDB(t)
	product := seedProduct(t, db, "键盘", 100, true)
	fillCart(t, db, "u1", product.ID, 1)

	reconciler := &recordingReconciler{}
	cartRepo := &failingClearCartRepo{CartRepository: repository.NewCartRepository(db)}
	svc := newTestOrderService(db, cartRepo, reconciler)

	order, err := svc.Create(context.Background(), "u1", "地址")
	if !errors.Is(err, ErrOrderCartNotCleared) {
		t.Fatalf("expected ErrOrderCartNotCleared, got %v", err)
	}
	if order == nil || order.ID == 0 {
		t.Fatalf("order must be created despite clear failure")
	}

	// 订单确实落库
	got, getErr := repository.NewOrderRepository(db).GetByID(context.Background(), order.ID)
	if getErr != nil || got == nil {
		t.Fatalf("expected persisted order, err=%v", getErr)
	}

	// 补偿任务已投递
	if len(reconciler.calls) != 1 {
		t.Fatalf("expected 1 reconcile call, got %d", len(reconciler.calls))
	}
	if reconciler.calls[0].OrderID != order.ID || reconciler.calls[0].UserID != "u1" {
		t.Fatalf("unexpected reconcile payload: %+v", reconciler.calls[0])
	}

	// 购物车仍保留内容，等 worker 清
	cart, cartErr := repository.NewCartRepository(db).GetByOwner(context.Background(), "u1")
	if cartErr != nil {
		t.Fatalf("GetByOwner error: %v", cartErr)
	}
	if len(cart.Lines) != 1 {
		t.Fatalf("cart must keep lines until reconciled, got %+v", cart.Lines)
	}
}
