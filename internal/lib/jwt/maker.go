// Package jwt реализует выпуск и проверку пары токенов доступа:
// короткоживущего access-токена и долгоживущего refresh-токена.
//
// Токены stateless: серверное хранилище сессий отсутствует, каждый токен
// подписан своим секретом (access и refresh секреты различны). Отзыв
// refresh-токена не поддерживается, токен действует до естественного
// истечения срока.
package jwt

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Ошибки проверки токена. Вызывающие стороны различают их: истёкший токен —
// повод для тихого обновления, невалидный — для повторной аутентификации.
var (
	ErrTokenExpired = errors.New("token expired")
	ErrTokenInvalid = errors.New("token invalid")
)

// Claims — полезная нагрузка токена: идентификатор пользователя
// и стандартные поля (ExpiresAt, IssuedAt).
type Claims struct {
	jwt.RegisteredClaims
}

// Maker описывает интерфейс выпуска и проверки токенов.
type Maker interface {
	// IssueAccess выпускает access-токен для пользователя.
	IssueAccess(userID string) (string, error)
	// IssueRefresh выпускает refresh-токен для пользователя.
	IssueRefresh(userID string) (string, error)
	// ParseAccess проверяет access-токен и возвращает ID пользователя.
	ParseAccess(tokenStr string) (string, error)
	// ParseRefresh проверяет refresh-токен и возвращает ID пользователя.
	ParseRefresh(tokenStr string) (string, error)
}

// MakerImpl реализует Maker на двух секретных ключах HS256.
type MakerImpl struct {
	accessSecret  string        // Секрет подписи access-токенов
	refreshSecret string        // Секрет подписи refresh-токенов
	accessTTL     time.Duration // Время жизни access-токена
	refreshTTL    time.Duration // Время жизни refresh-токена
}

// NewMaker создаёт MakerImpl с раздельными секретами и TTL для обоих токенов.
func NewMaker(accessSecret, refreshSecret string, accessTTL, refreshTTL time.Duration) *MakerImpl {
	return &MakerImpl{
		accessSecret:  accessSecret,
		refreshSecret: refreshSecret,
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
	}
}

// IssueAccess выпускает подписанный access-токен со сроком accessTTL.
func (m *MakerImpl) IssueAccess(userID string) (string, error) {
	return m.issue(userID, m.accessSecret, m.accessTTL)
}

// IssueRefresh выпускает подписанный refresh-токен со сроком refreshTTL.
func (m *MakerImpl) IssueRefresh(userID string) (string, error) {
	return m.issue(userID, m.refreshSecret, m.refreshTTL)
}

func (m *MakerImpl) issue(userID, secret string, ttl time.Duration) (string, error) {
	const op = "jwt.issue"
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return signed, nil
}

// ParseAccess проверяет подпись и срок действия access-токена.
func (m *MakerImpl) ParseAccess(tokenStr string) (string, error) {
	return m.parse(tokenStr, m.accessSecret)
}

// ParseRefresh проверяет подпись и срок действия refresh-токена.
func (m *MakerImpl) ParseRefresh(tokenStr string) (string, error) {
	return m.parse(tokenStr, m.refreshSecret)
}

func (m *MakerImpl) parse(tokenStr, secret string) (string, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(_ *jwt.Token) (any, error) {
		return []byte(secret), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", ErrTokenExpired
		}
		return "", ErrTokenInvalid
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.Subject == "" {
		return "", ErrTokenInvalid
	}
	return claims.Subject, nil
}
