package models

// CartItem 购物车项（同一购物车内 ID 唯一，数量始终 >= 1）
type CartItem struct {
	ID          int    `json:"id"`          // 商品ID
	Title       string `json:"title"`       // 标题
	Price       Money  `json:"price"`       // 单价
	Description string `json:"description"` // 描述
	Image       string `json:"image"`       // 图片地址
	Quantity    int    `json:"quantity"`    // 数量
}

// LineTotal 单项小计
func (i CartItem) LineTotal() Money {
	return i.Price.Mul(i.Quantity)
}

// WishlistItem 心愿单项（按 ID 去重）
type WishlistItem struct {
	ID       int    `json:"id"`
	Title    string `json:"title"`
	Price    Money  `json:"price"`
	Image    string `json:"image"`
	Category string `json:"category,omitempty"`
}
