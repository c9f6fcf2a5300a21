package constants

// 队列名称常量
const (
	QueueDefault = "default"
)

// 异步任务类型常量
const (
	TaskCartReconcile = "cart:reconcile"
)

// 购物车默认参数
const (
	DefaultCartUpsertRetries = 3
)

// 对账任务重试上限
const (
	CartReconcileMaxRetry = 10
)
