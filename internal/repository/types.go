package repository

// ProductListFilter 商品列表查询参数
type ProductListFilter struct {
	Page       int
	PageSize   int
	Search     string
	OnlyActive bool
}

// OrderListFilter 订单列表查询参数
type OrderListFilter struct {
	UserID   string
	Page     int
	PageSize int
}
