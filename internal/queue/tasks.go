package queue

import (
	"encoding/json"

	"github.com/eshop-next/internal/constants"

	"github.com/hibiken/asynq"
)

const (
	// TaskCartReconcile 下单后购物车清空补偿任务
	TaskCartReconcile = constants.TaskCartReconcile
)

// CartReconcilePayload 购物车对账任务载荷。
// cart_version 是下单时消费掉的那一版购物车，worker 侧只清空该版本，
// 版本已推进说明用户有了新内容，任务自然失效。
type CartReconcilePayload struct {
	OrderID     uint   `json:"order_id"`
	UserID      string `json:"user_id"`
	CartVersion int64  `json:"cart_version"`
}

// NewCartReconcileTask 创建购物车对账任务
func NewCartReconcileTask(payload CartReconcilePayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskCartReconcile, body), nil
}
