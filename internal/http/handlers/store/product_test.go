package store

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/eshop-next/internal/config"
	"github.com/eshop-next/internal/models"
	"github.com/eshop-next/internal/provider"
	"github.com/shopspring/decimal"
)

func TestStoreGetProductDetail(t *testing.T) {
	r, db := setupStoreHandlerTest(t)
	product := seedHandlerProduct(t, db, "机械键盘", 100)

	// 缓存未初始化时读写均为 no-op，直接回源目录
	_, envelope := doJSON(t, r, http.MethodGet, fmt.Sprintf("/products/%d", product.ID), "")
	if envelope["status_code"].(float64) != 0 {
		t.Fatalf("unexpected envelope: %+v", envelope)
	}
	data := envelope["data"].(map[string]interface{})
	if data["name"].(string) != "机械键盘" {
		t.Fatalf("name want 机械键盘 got %v", data["name"])
	}
	if data["price"].(string) != "100.00" {
		t.Fatalf("price want 100.00 got %v", data["price"])
	}
}

func TestStoreGetProductInactive(t *testing.T) {
	r, db := setupStoreHandlerTest(t)
	product := &models.Product{
		Name:  "下架商品",
		Price: models.NewMoneyFromDecimal(decimal.NewFromInt(5)),
	}
	if err := db.Create(product).Error; err != nil {
		t.Fatalf("seed product failed: %v", err)
	}

	_, envelope := doJSON(t, r, http.MethodGet, fmt.Sprintf("/products/%d", product.ID), "")
	if envelope["status_code"].(float64) != 404 {
		t.Fatalf("expected business code 404, got %+v", envelope)
	}
}

func TestStoreGetProductBadID(t *testing.T) {
	r, _ := setupStoreHandlerTest(t)

	_, envelope := doJSON(t, r, http.MethodGet, "/products/abc", "")
	if envelope["status_code"].(float64) != 400 {
		t.Fatalf("expected business code 400, got %+v", envelope)
	}
}

func TestStoreListProductsOnlyActive(t *testing.T) {
	r, db := setupStoreHandlerTest(t)
	seedHandlerProduct(t, db, "在售", 10)
	inactive := &models.Product{
		Name:  "停售",
		Price: models.NewMoneyFromDecimal(decimal.NewFromInt(10)),
	}
	if err := db.Create(inactive).Error; err != nil {
		t.Fatalf("seed product failed: %v", err)
	}

	_, envelope := doJSON(t, r, http.MethodGet, "/products", "")
	items := envelope["data"].(map[string]interface{})["items"].([]interface{})
	if len(items) != 1 {
		t.Fatalf("expected 1 active product, got %d", len(items))
	}
}

func TestProductCacheTTLGating(t *testing.T) {
	if got := (&Handler{}).productCacheTTL(); got != 0 {
		t.Fatalf("nil container want 0 got %v", got)
	}
	if got := (&Handler{Container: &provider.Container{}}).productCacheTTL(); got != 0 {
		t.Fatalf("nil config want 0 got %v", got)
	}

	cfg := &config.Config{}
	h := &Handler{Container: &provider.Container{Config: cfg}}
	if got := h.productCacheTTL(); got != 0 {
		t.Fatalf("zero seconds want 0 got %v", got)
	}
	cfg.Redis.ProductCacheSeconds = 30
	if got := h.productCacheTTL(); got != 30*time.Second {
		t.Fatalf("want 30s got %v", got)
	}
}
