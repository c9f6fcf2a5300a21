package store

import "github.com/eshop-next/internal/provider"

// Handler 店面接口处理器入口
// 说明：该处理器仅用于买家侧 API，身份由接入层注入。
type Handler struct {
	*provider.Container
}

// New 创建店面处理器
func New(c *provider.Container) *Handler {
	return &Handler{Container: c}
}
