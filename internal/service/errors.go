package service

import "errors"

// 业务错误定义。handler 层通过 errors.Is 映射为接口错误响应。
var (
	// ErrInvalidUser 用户标识缺失或非法
	ErrInvalidUser = errors.New("invalid user id")
	// ErrInvalidAddress 收货地址缺失
	ErrInvalidAddress = errors.New("invalid address")
	// ErrProductNotFound 商品不存在或已下架
	ErrProductNotFound = errors.New("product not found")
	// ErrProductMissing 购物车引用的商品在目录中缺失（调用方未提供完整商品集合）
	ErrProductMissing = errors.New("cart references missing product")
	// ErrProductPriceInvalid 商品价格非法
	ErrProductPriceInvalid = errors.New("product price invalid")
	// ErrProductNameRequired 商品名称缺失
	ErrProductNameRequired = errors.New("product name required")
	// ErrCartEmpty 购物车为空，不能下单
	ErrCartEmpty = errors.New("cart is empty")
	// ErrCartConflict 购物车并发写冲突且重试耗尽
	ErrCartConflict = errors.New("cart concurrent update conflict")
	// ErrOrderNotFound 订单不存在（含归属不符的场景，避免泄露他人订单）
	ErrOrderNotFound = errors.New("order not found")
	// ErrOrderCartNotCleared 订单已落库但购物车清空失败，等待对账任务补偿
	ErrOrderCartNotCleared = errors.New("order created but cart not cleared")
	// ErrStoreUnavailable 底层存储不可用
	ErrStoreUnavailable = errors.New("store unavailable")
)
