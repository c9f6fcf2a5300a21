package store

import (
	"errors"

	"github.com/eshop-next/internal/http/response"
	"github.com/eshop-next/internal/service"

	"github.com/gin-gonic/gin"
)

// mappedHandlerError 定义业务错误到接口错误响应的映射关系。
type mappedHandlerError struct {
	target error
	code   int
	key    string
}

func respondWithMappedError(c *gin.Context, err error, rules []mappedHandlerError, fallbackCode int, fallbackKey string) {
	for _, rule := range rules {
		if errors.Is(err, rule.target) {
			respondError(c, rule.code, rule.key, nil)
			return
		}
	}
	respondError(c, fallbackCode, fallbackKey, err)
}

var cartCommonErrorRules = []mappedHandlerError{
	{target: service.ErrInvalidUser, code: response.CodeUnauthorized, key: "error.unauthorized"},
	{target: service.ErrProductNotFound, code: response.CodeNotFound, key: "error.product_not_found"},
	{target: service.ErrProductMissing, code: response.CodeInternal, key: "error.cart_integrity"},
	{target: service.ErrCartConflict, code: response.CodeConflict, key: "error.cart_conflict"},
	{target: service.ErrStoreUnavailable, code: response.CodeUnavailable, key: "error.store_unavailable"},
}

var orderCommonErrorRules = []mappedHandlerError{
	{target: service.ErrInvalidUser, code: response.CodeUnauthorized, key: "error.unauthorized"},
	{target: service.ErrInvalidAddress, code: response.CodeBadRequest, key: "error.address_invalid"},
	{target: service.ErrCartEmpty, code: response.CodeBadRequest, key: "error.cart_empty"},
	{target: service.ErrProductMissing, code: response.CodeInternal, key: "error.cart_integrity"},
	{target: service.ErrOrderNotFound, code: response.CodeNotFound, key: "error.order_not_found"},
	{target: service.ErrStoreUnavailable, code: response.CodeUnavailable, key: "error.store_unavailable"},
}

func respondCartError(c *gin.Context, err error) {
	respondWithMappedError(c, err, cartCommonErrorRules, response.CodeInternal, "error.cart_update_failed")
}

func respondOrderError(c *gin.Context, err error) {
	respondWithMappedError(c, err, orderCommonErrorRules, response.CodeInternal, "error.order_failed")
}
