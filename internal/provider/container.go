package provider

import (
	"time"

	"github.com/eshop-next/internal/cache"
	"github.com/eshop-next/internal/config"
	"github.com/eshop-next/internal/logger"
	"github.com/eshop-next/internal/models"
	"github.com/eshop-next/internal/queue"
	"github.com/eshop-next/internal/repository"
	"github.com/eshop-next/internal/service"
)

// Container 依赖注入容器
type Container struct {
	Config      *config.Config
	QueueClient *queue.Client

	// Repositories
	ProductRepo repository.ProductRepository
	CartRepo    repository.CartRepository
	OrderRepo   repository.OrderRepository

	// Services
	ProductService *service.ProductService
	CartService    *service.CartService
	OrderService   *service.OrderService
}

// NewContainer 初始化容器
func NewContainer(cfg *config.Config) *Container {
	// 初始化缓存
	if err := cache.InitRedis(&cfg.Redis); err != nil {
		logger.Warnw("provider_init_redis_failed", "error", err)
	}

	// 初始化队列客户端
	var queueClient *queue.Client
	if cfg.Queue.Enabled {
		qc, err := queue.NewClient(&cfg.Queue)
		if err != nil {
			logger.Errorw("provider_init_queue_client_failed", "error", err)
		} else {
			queueClient = qc
		}
	}

	c := &Container{
		Config:      cfg,
		QueueClient: queueClient,
	}

	// 1. 初始化 Repositories
	c.initRepositories()

	// 2. 初始化 Services
	c.initServices()

	return c
}

func (c *Container) initRepositories() {
	db := models.DB
	c.ProductRepo = repository.NewProductRepository(db)
	c.CartRepo = repository.NewCartRepository(db)
	c.OrderRepo = repository.NewOrderRepository(db)
}

func (c *Container) initServices() {
	storeTimeout := time.Duration(0)
	upsertRetries := 0
	if c.Config != nil {
		storeTimeout = time.Duration(c.Config.Database.QueryTimeoutSeconds) * time.Second
		upsertRetries = c.Config.Cart.UpsertRetries
	}

	// 购物车与下单共用同一张用户锁表，保证读改写与提交清空互斥
	locks := service.NewKeyLock()

	var reconciler service.CartReconcileScheduler
	if c.QueueClient.Enabled() {
		reconciler = c.QueueClient
	}

	c.ProductService = service.NewProductService(c.ProductRepo, storeTimeout)
	c.CartService = service.NewCartService(c.CartRepo, c.ProductRepo, locks, storeTimeout, upsertRetries)
	c.OrderService = service.NewOrderService(c.OrderRepo, c.CartRepo, c.ProductRepo, reconciler, locks, storeTimeout)
}
