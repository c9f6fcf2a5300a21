package repository

import (
	"context"
	"errors"
	"time"

	"github.com/eshop-next/internal/models"

	"gorm.io/gorm"
)

// ErrCartVersionConflict 购物车版本令牌与存储不一致（并发写冲突）
var ErrCartVersionConflict = errors.New("cart version conflict")

// CartRepository 购物车数据访问接口。
// 购物车按用户整篇替换写入；Upsert 以 Version 做乐观并发校验，
// 不允许无检测的 last-writer-wins 覆盖。
type CartRepository interface {
	GetByOwner(ctx context.Context, userID string) (*models.Cart, error)
	Upsert(ctx context.Context, cart *models.Cart) error
	ClearByOwner(ctx context.Context, userID string, version int64) (bool, error)
}

// GormCartRepository GORM 实现
type GormCartRepository struct {
	db *gorm.DB
}

// NewCartRepository 创建购物车仓库
func NewCartRepository(db *gorm.DB) *GormCartRepository {
	return &GormCartRepository{db: db}
}

// GetByOwner 获取用户购物车，不存在时返回 (nil, nil)
func (r *GormCartRepository) GetByOwner(ctx context.Context, userID string) (*models.Cart, error) {
	var cart models.Cart
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&cart).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &cart, nil
}

// Upsert 整篇替换购物车。
// cart.Version 必须是读取时拿到的版本：新购物车为 0，已存在则为当前值。
// 版本不匹配（包括并发首次创建撞了唯一索引）返回 ErrCartVersionConflict，
// 此时不产生任何写入。成功后 cart.Version 为提交后的新版本。
func (r *GormCartRepository) Upsert(ctx context.Context, cart *models.Cart) error {
	if cart == nil {
		return nil
	}
	now := time.Now()
	if cart.ID == 0 && cart.Version == 0 {
		fresh := models.Cart{
			UserID:    cart.UserID,
			Lines:     cart.Lines,
			Version:   1,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := r.db.WithContext(ctx).Create(&fresh).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrCartVersionConflict
			}
			return err
		}
		*cart = fresh
		return nil
	}

	result := r.db.WithContext(ctx).Model(&models.Cart{}).
		Where("user_id = ? AND version = ?", cart.UserID, cart.Version).
		Updates(map[string]interface{}{
			"lines":      cart.Lines,
			"version":    cart.Version + 1,
			"updated_at": now,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrCartVersionConflict
	}
	cart.Version++
	cart.UpdatedAt = now
	return nil
}

// ClearByOwner 清空指定版本的购物车（版本已前移则不动，返回 false）。
// 幂等：购物车不存在视为已清空。
func (r *GormCartRepository) ClearByOwner(ctx context.Context, userID string, version int64) (bool, error) {
	result := r.db.WithContext(ctx).Model(&models.Cart{}).
		Where("user_id = ? AND version = ?", userID, version).
		Updates(map[string]interface{}{
			"lines":      models.CartLines{},
			"version":    version + 1,
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
