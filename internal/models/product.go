package models

import "time"

// Product — объявление на барахолке. Создание объявления увеличивает
// счётчик товаров продавца и рассылается всем подключённым клиентам.
type Product struct {
	ID          string    `json:"id"`
	SellerID    string    `json:"sellerId"`
	SellerName  string    `json:"sellerName"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Price       int64     `json:"price"`
	Image       string    `json:"image"`
	Category    string    `json:"category"`
	IsSold      bool      `json:"isSold"`
	CreatedAt   time.Time `json:"createdAt"`
}
