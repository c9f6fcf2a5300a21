package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/eshop-next/internal/models"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func setupRepoTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared",
		strings.ReplaceAll(t.Name(), "/", "_"), time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.Product{}, &models.Cart{}, &models.Order{}, &models.OrderItem{}); err != nil {
		t.Fatalf("migrate failed: %v", err)
	}
	return db
}

func TestCartRepositoryUpsertCreatesWithVersionOne(t *testing.T) {
	db := setupRepoTestDB(t)
	repo := NewCartRepository(db)
	ctx := context.Background()

	cart := &models.Cart{UserID: "u1", Lines: models.CartLines{{ProductID: 1, Quantity: 2}}}
	if err := repo.Upsert(ctx, cart); err != nil {
		t.Fatalf("Upsert error: %v", err)
	}
	if cart.Version != 1 {
		t.Fatalf("expected version 1, got %d", cart.Version)
	}

	stored, err := repo.GetByOwner(ctx, "u1")
	if err != nil {
		t.Fatalf("GetByOwner error: %v", err)
	}
	if stored == nil || len(stored.Lines) != 1 || stored.Version != 1 {
		t.Fatalf("unexpected stored cart: %+v", stored)
	}
}

func TestCartRepositoryUpsertBumpsVersion(t *testing.T) {
	db := setupRepoTestDB(t)
	repo := NewCartRepository(db)
	ctx := context.Background()

	cart := &models.Cart{UserID: "u1", Lines: models.CartLines{{ProductID: 1, Quantity: 1}}}
	if err := repo.Upsert(ctx, cart); err != nil {
		t.Fatalf("Upsert error: %v", err)
	}
	cart.Lines = models.CartLines{{ProductID: 1, Quantity: 5}}
	if err := repo.Upsert(ctx, cart); err != nil {
		t.Fatalf("Upsert error: %v", err)
	}
	if cart.Version != 2 {
		t.Fatalf("expected version 2, got %d", cart.Version)
	}

	stored, _ := repo.GetByOwner(ctx, "u1")
	if stored.Lines[0].Quantity != 5 {
		t.Fatalf("expected replacement write, got %+v", stored.Lines)
	}
}

func TestCartRepositoryUpsertStaleVersionConflicts(t *testing.T) {
	db := setupRepoTestDB(t)
	repo := NewCartRepository(db)
	ctx := context.Background()

	cart := &models.Cart{UserID: "u1", Lines: models.CartLines{{ProductID: 1, Quantity: 1}}}
	if err := repo.Upsert(ctx, cart); err != nil {
		t.Fatalf("Upsert error: %v", err)
	}

	// 第二个读取者拿同一版本先写成功
	other, _ := repo.GetByOwner(ctx, "u1")
	other.Lines = models.CartLines{{ProductID: 2, Quantity: 1}}
	if err := repo.Upsert(ctx, other); err != nil {
		t.Fatalf("Upsert error: %v", err)
	}

	// 拿旧版本的写入者必须失败，且不产生写入
	cart.Lines = models.CartLines{{ProductID: 3, Quantity: 9}}
	if err := repo.Upsert(ctx, cart); !errors.Is(err, ErrCartVersionConflict) {
		t.Fatalf("expected ErrCartVersionConflict, got %v", err)
	}
	stored, _ := repo.GetByOwner(ctx, "u1")
	if stored.Lines[0].ProductID != 2 {
		t.Fatalf("losing write must not modify cart, got %+v", stored.Lines)
	}
}

func TestCartRepositoryConcurrentFirstCreateConflicts(t *testing.T) {
	db := setupRepoTestDB(t)
	repo := NewCartRepository(db)
	ctx := context.Background()

	first := &models.Cart{UserID: "u1", Lines: models.CartLines{{ProductID: 1, Quantity: 1}}}
	if err := repo.Upsert(ctx, first); err != nil {
		t.Fatalf("Upsert error: %v", err)
	}
	// 同样以“新购物车”身份写入（版本 0），撞唯一索引
	second := &models.Cart{UserID: "u1", Lines: models.CartLines{{ProductID: 2, Quantity: 1}}}
	if err := repo.Upsert(ctx, second); !errors.Is(err, ErrCartVersionConflict) {
		t.Fatalf("expected ErrCartVersionConflict, got %v", err)
	}
}

func TestCartRepositoryClearByOwner(t *testing.T) {
	db := setupRepoTestDB(t)
	repo := NewCartRepository(db)
	ctx := context.Background()

	cart := &models.Cart{UserID: "u1", Lines: models.CartLines{{ProductID: 1, Quantity: 2}}}
	if err := repo.Upsert(ctx, cart); err != nil {
		t.Fatalf("Upsert error: %v", err)
	}

	// 版本不匹配不动
	cleared, err := repo.ClearByOwner(ctx, "u1", cart.Version+7)
	if err != nil {
		t.Fatalf("ClearByOwner error: %v", err)
	}
	if cleared {
		t.Fatalf("mismatched version must not clear")
	}

	cleared, err = repo.ClearByOwner(ctx, "u1", cart.Version)
	if err != nil {
		t.Fatalf("ClearByOwner error: %v", err)
	}
	if !cleared {
		t.Fatalf("expected clear to match")
	}
	stored, _ := repo.GetByOwner(ctx, "u1")
	if len(stored.Lines) != 0 || stored.Version != cart.Version+1 {
		t.Fatalf("unexpected cart after clear: %+v", stored)
	}

	// 不存在的购物车视为已清空
	cleared, err = repo.ClearByOwner(ctx, "nobody", 1)
	if err != nil {
		t.Fatalf("ClearByOwner error: %v", err)
	}
	if cleared {
		t.Fatalf("missing cart should report no rows")
	}
}

func TestCartRepositoryGetByOwnerMissing(t *testing.T) {
	db := setupRepoTestDB(t)
	repo := NewCartRepository(db)

	cart, err := repo.GetByOwner(context.Background(), "nobody")
	if err != nil {
		t.Fatalf("GetByOwner error: %v", err)
	}
	if cart != nil {
		t.Fatalf("expected nil cart, got %+v", cart)
	}
}
