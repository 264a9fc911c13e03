// Package models содержит доменные структуры приложения: пользователей,
// транзакции, подписки, чаты, посты и товары. Структуры используются
// в бизнес‑логике и при работе с хранилищем.
package models

import "time"

// User представляет зарегистрированного пользователя системы.
// PasswordHash хранится только внутри сервера и никогда не сериализуется наружу.
type User struct {
	ID            string  // Уникальный идентификатор пользователя
	Name          string  // Имя пользователя
	Email         string  // Электронная почта (уникальная, в нижнем регистре)
	Phone         string  // Номер телефона
	PasswordHash  string  // bcrypt-хэш пароля
	Bio           string  // Описание профиля
	ProfileImage  *string // Ссылка на аватар
	IsCreator     bool    // Признак продавца/автора контента
	IsVerified    bool    // Признак верифицированного аккаунта
	WalletBalance int64   // Баланс кошелька
	TotalViews    int64   // Суммарное количество просмотров
	PostsCount    int     // Количество постов
	ProductsCount int     // Количество товаров
	Followers     int     // Количество подписчиков
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// PublicUser — внешнее представление пользователя. Хэш пароля
// в структуре отсутствует как поле, поэтому не может утечь при сериализации.
type PublicUser struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	Email         string  `json:"email"`
	Phone         string  `json:"phone"`
	Bio           string  `json:"bio"`
	ProfileImage  *string `json:"profileImage"`
	IsCreator     bool    `json:"isCreator"`
	IsVerified    bool    `json:"isVerified"`
	WalletBalance int64   `json:"walletBalance"`
	TotalViews    int64   `json:"totalViews"`
	PostsCount    int     `json:"postsCount"`
	ProductsCount int     `json:"productsCount"`
	Followers     int     `json:"followers"`
	CreatedAt     string  `json:"createdAt"`
}

// Public конвертирует User во внешнее представление.
func (u *User) Public() *PublicUser {
	return &PublicUser{
		ID:            u.ID,
		Name:          u.Name,
		Email:         u.Email,
		Phone:         u.Phone,
		Bio:           u.Bio,
		ProfileImage:  u.ProfileImage,
		IsCreator:     u.IsCreator,
		IsVerified:    u.IsVerified,
		WalletBalance: u.WalletBalance,
		TotalViews:    u.TotalViews,
		PostsCount:    u.PostsCount,
		ProductsCount: u.ProductsCount,
		Followers:     u.Followers,
		CreatedAt:     u.CreatedAt.UTC().Format(time.RFC3339),
	}
}
