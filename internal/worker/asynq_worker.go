package worker

import (
	"context"
	"encoding/json"

	"github.com/eshop-next/internal/logger"
	"github.com/eshop-next/internal/provider"
	"github.com/eshop-next/internal/queue"

	"github.com/hibiken/asynq"
)

// Consumer 异步任务消费者
type Consumer struct {
	*provider.Container
}

// NewConsumer 创建消费者
func NewConsumer(c *provider.Container) *Consumer {
	return &Consumer{
		Container: c,
	}
}

// Register 注册消费者
func (c *Consumer) Register(mux *asynq.ServeMux) {
	if c == nil || mux == nil {
		logger.Debugw("worker_register_skip_nil", "consumer_nil", c == nil, "mux_nil", mux == nil)
		return
	}
	mux.HandleFunc(queue.TaskCartReconcile, c.handleCartReconcile)
}

// handleCartReconcile 补偿下单后未清空的购物车。
// 幂等：只在对应订单确实存在时按下单时的版本清空，
// 版本已被用户新改动推进则放弃，任务视为完成。
func (c *Consumer) handleCartReconcile(ctx context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		logger.Debugw("worker_cart_reconcile_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	var payload queue.CartReconcilePayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw("worker_cart_reconcile_unmarshal_failed", "error", err)
		return err
	}
	if payload.OrderID == 0 || payload.UserID == "" {
		logger.Debugw("worker_cart_reconcile_skip_invalid_payload",
			"order_id", payload.OrderID, "user_id", payload.UserID)
		return nil
	}

	order, err := c.OrderRepo.GetByID(ctx, payload.OrderID)
	if err != nil {
		logger.Warnw("worker_cart_reconcile_fetch_order_failed", "order_id", payload.OrderID, "error", err)
		return err
	}
	if order == nil {
		logger.Debugw("worker_cart_reconcile_skip_order_not_found", "order_id", payload.OrderID)
		return nil
	}
	if order.UserID != payload.UserID {
		logger.Warnw("worker_cart_reconcile_skip_owner_mismatch",
			"order_id", payload.OrderID, "user_id", payload.UserID)
		return nil
	}

	cleared, err := c.CartRepo.ClearByOwner(ctx, payload.UserID, payload.CartVersion)
	if err != nil {
		logger.Warnw("worker_cart_reconcile_clear_failed",
			"order_id", payload.OrderID, "user_id", payload.UserID, "error", err)
		return err
	}
	if !cleared {
		logger.Debugw("worker_cart_reconcile_skip_version_moved",
			"order_id", payload.OrderID, "user_id", payload.UserID, "cart_version", payload.CartVersion)
		return nil
	}
	logger.Infow("worker_cart_reconcile_cleared",
		"order_id", payload.OrderID, "user_id", payload.UserID, "cart_version", payload.CartVersion)
	return nil
}
