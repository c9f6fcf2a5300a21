package main

import (
	"github.com/eshop-next/internal/config"
	"github.com/eshop-next/internal/logger"
	"github.com/eshop-next/internal/models"

	"github.com/shopspring/decimal"
)

func main() {
	// 连接数据库
	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	stdLog := logger.StdLogger()
	if err := models.InitDB(cfg.Database.Driver, cfg.Database.DSN, models.DBPoolConfig{
		MaxOpenConns:           cfg.Database.Pool.MaxOpenConns,
		MaxIdleConns:           cfg.Database.Pool.MaxIdleConns,
		ConnMaxLifetimeSeconds: cfg.Database.Pool.ConnMaxLifetimeSeconds,
		ConnMaxIdleTimeSeconds: cfg.Database.Pool.ConnMaxIdleTimeSeconds,
	}); err != nil {
		stdLog.Fatalf("Failed to connect database: %v", err)
	}

	// 自动迁移
	if err := models.AutoMigrate(); err != nil {
		stdLog.Fatalf("Failed to migrate database: %v", err)
	}

	// 添加演示商品
	products := []models.Product{
		{
			Name:  "机械键盘",
			Price: models.NewMoneyFromDecimal(decimal.NewFromInt(100)),
			Images: models.StringArray([]string{
				"https://images.unsplash.com/photo-1587829741301-dc798b83add3?w=800",
			}),
			IsActive:  true,
			SortOrder: 30,
		},
		{
			Name:  "降噪耳机",
			Price: models.NewMoneyFromDecimal(decimal.NewFromInt(500)),
			Images: models.StringArray([]string{
				"https://images.unsplash.com/photo-1590658268037-6bf12165a8df?w=800",
			}),
			IsActive:  true,
			SortOrder: 20,
		},
		{
			Name:  "数据线",
			Price: models.NewMoneyFromDecimal(decimal.NewFromInt(10)),
			Images: models.StringArray([]string{
				"https://images.unsplash.com/photo-1583863788434-e58a36330cf0?w=800",
			}),
			IsActive:  true,
			SortOrder: 10,
		},
	}

	for _, product := range products {
		var existing models.Product
		if err := models.DB.Where("name = ?", product.Name).First(&existing).Error; err != nil {
			if err := models.DB.Create(&product).Error; err != nil {
				stdLog.Printf("Failed to create product %s: %v", product.Name, err)
			} else {
				stdLog.Printf("Created product: %s", product.Name)
			}
		} else {
			stdLog.Printf("Product already exists: %s", product.Name)
		}
	}

	stdLog.Printf("Seed finished")
}
