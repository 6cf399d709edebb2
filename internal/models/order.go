package models

import "time"

// Address 收货地址（同一用户最多一个默认地址）
type Address struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Street    string `json:"street"`
	City      string `json:"city"`
	State     string `json:"state"`
	ZipCode   string `json:"zip_code"`
	Phone     string `json:"phone"`
	IsDefault bool   `json:"is_default"`
}

// Order 订单（创建后不可变，按时间倒序追加到历史）
type Order struct {
	ID      string     `json:"id"`
	Date    time.Time  `json:"date"`
	Items   []CartItem `json:"items"`
	Total   Money      `json:"total"`
	Status  string     `json:"status"`
	Address Address    `json:"address"`
}

// Clone 深拷贝订单，避免调用方修改历史记录
func (o Order) Clone() Order {
	out := o
	out.Items = append([]CartItem(nil), o.Items...)
	return out
}
