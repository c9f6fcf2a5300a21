package catalog

import (
	handlershared "github.com/eshop-next/internal/http/handlers/shared"
	"github.com/eshop-next/internal/provider"

	"github.com/gin-gonic/gin"
)

// Handler 目录管理接口处理器入口
type Handler struct {
	*provider.Container
}

// New 创建目录管理处理器
func New(c *provider.Container) *Handler {
	return &Handler{Container: c}
}

func respondError(c *gin.Context, code int, msg string, err error) {
	handlershared.RespondError(c, code, msg, err)
}
