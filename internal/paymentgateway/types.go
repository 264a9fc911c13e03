package paymentgateway

// CreateOrderRequest — запрос на создание заказа в шлюзе.
// Amount указывается в минорных единицах валюты (пайсы для INR).
type CreateOrderRequest struct {
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
}

// Order — ответ шлюза на создание заказа.
type Order struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
	Status   string `json:"status"`
}
