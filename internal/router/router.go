package router

import (
	"fmt"
	"strings"

	"github.com/eshop-next/internal/cache"
	"github.com/eshop-next/internal/config"
	cataloghandlers "github.com/eshop-next/internal/http/handlers/catalog"
	storehandlers "github.com/eshop-next/internal/http/handlers/store"
	"github.com/eshop-next/internal/logger"
	"github.com/eshop-next/internal/provider"

	"github.com/gin-gonic/gin"
)

// SetupRouter 初始化路由
func SetupRouter(cfg *config.Config, c *provider.Container) *gin.Engine {
	log := logger.L
	if log == nil {
		log = logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	}
	r := gin.New()

	// 初始化 Handler（按店面/目录管理分组）
	storeHandler := storehandlers.New(c)
	catalogHandler := cataloghandlers.New(c)
	redisPrefix := strings.TrimSpace(cfg.Redis.Prefix)
	if redisPrefix == "" {
		redisPrefix = "eshop"
	}
	redisClient := cache.Client()
	cartRule := RateLimitRule{
		Prefix:        fmt.Sprintf("%s:rate:cart", redisPrefix),
		WindowSeconds: cfg.Security.CartRateLimit.WindowSeconds,
		MaxRequests:   cfg.Security.CartRateLimit.MaxRequests,
		Message:       "error.cart_too_many",
	}

	// 中间件
	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(LoggerMiddleware(log))
	r.Use(CORSMiddleware(cfg.CORS))

	// API 路由组
	apiV1 := r.Group("/api/v1")
	{
		// 商品目录（公开）
		apiV1.GET("/products", storeHandler.GetProducts)
		apiV1.GET("/products/:id", storeHandler.GetProduct)

		// 买家接口（身份由网关透传）
		user := apiV1.Group("")
		user.Use(UserIdentityMiddleware())
		{
			user.GET("/cart", storeHandler.GetCart)
			user.PUT("/cart", RateLimitMiddleware(redisClient, cartRule, KeyByUserID), storeHandler.UpdateCart)
			user.POST("/orders", storeHandler.CreateOrder)
			user.GET("/orders", storeHandler.ListOrders)
			user.GET("/orders/:id", storeHandler.GetOrder)
		}

		// 目录管理接口（内部运维侧）
		catalog := apiV1.Group("/catalog")
		{
			catalog.GET("/products", catalogHandler.ListProducts)
			catalog.POST("/products", catalogHandler.CreateProduct)
			catalog.PUT("/products/:id", catalogHandler.UpdateProduct)
		}
	}

	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	return r
}
