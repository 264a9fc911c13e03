package momconnect

import (
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"log/slog"

	"github.com/momconnect/backend/internal/config"
	"github.com/momconnect/backend/internal/http/handlers/auth/login"
	"github.com/momconnect/backend/internal/http/handlers/auth/profile"
	"github.com/momconnect/backend/internal/http/handlers/auth/refresh"
	"github.com/momconnect/backend/internal/http/handlers/auth/register"
	"github.com/momconnect/backend/internal/http/handlers/auth/userlist"
	"github.com/momconnect/backend/internal/http/handlers/chat/chatcreate"
	"github.com/momconnect/backend/internal/http/handlers/chat/chatlist"
	"github.com/momconnect/backend/internal/http/handlers/chat/chatmessages"
	"github.com/momconnect/backend/internal/http/handlers/chat/chatsend"
	"github.com/momconnect/backend/internal/http/handlers/dashboard"
	"github.com/momconnect/backend/internal/http/handlers/dashboard/verify"
	"github.com/momconnect/backend/internal/http/handlers/payment/paymentcreate"
	"github.com/momconnect/backend/internal/http/handlers/payment/paymentverify"
	"github.com/momconnect/backend/internal/http/handlers/post/postcomment"
	"github.com/momconnect/backend/internal/http/handlers/post/postcreate"
	"github.com/momconnect/backend/internal/http/handlers/post/postlike"
	"github.com/momconnect/backend/internal/http/handlers/post/postlist"
	"github.com/momconnect/backend/internal/http/handlers/product/productcreate"
	"github.com/momconnect/backend/internal/http/handlers/product/productlist"
	"github.com/momconnect/backend/internal/http/middlewarectx"
	"github.com/momconnect/backend/internal/http/response"
	authservice "github.com/momconnect/backend/internal/services/auth"
	chatservice "github.com/momconnect/backend/internal/services/chat"
	paymentservice "github.com/momconnect/backend/internal/services/payment"
	postservice "github.com/momconnect/backend/internal/services/post"
	productservice "github.com/momconnect/backend/internal/services/product"
	"github.com/momconnect/backend/internal/storage/repository"
	"github.com/momconnect/backend/internal/ws"
)

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger, cfg *config.Config, hub *ws.Hub, db *repository.Storage,
	authService *authservice.Service, paymentService *paymentservice.Service,
	chatService *chatservice.Service, productService *productservice.Service,
	postService *postservice.Service) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
	)
	r.Use(middlewarectx.RateLimitMiddleware(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst, logger))

	r.Route("/api", func(r chi.Router) {
		// Открытые конечные точки
		r.Post("/auth/register", register.New(logger, authService).ServeHTTP)
		r.Post("/auth/login", login.New(logger, authService).ServeHTTP)
		r.Post("/auth/refresh-token", refresh.New(logger, authService).ServeHTTP)
		r.Get("/dashboard/{userId}", dashboard.New(logger, authService, db).ServeHTTP)
		r.Get("/products", productlist.New(logger, productService).ServeHTTP)
		r.Get("/community/posts", postlist.New(logger, postService).ServeHTTP)

		// Группа с JWT аутентификацией
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.JWTMiddleware(authService, logger))
			r.Put("/auth/profile", profile.New(logger, authService).ServeHTTP)
			r.Get("/auth/users", userlist.New(logger, authService).ServeHTTP)

			r.Post("/payments/create-order", paymentcreate.New(logger, paymentService).ServeHTTP)
			r.Post("/payments/verify", paymentverify.New(logger, paymentService).ServeHTTP)

			r.Get("/chat", chatlist.New(logger, chatService).ServeHTTP)
			r.Post("/chat", chatcreate.New(logger, chatService).ServeHTTP)
			r.Get("/chat/{chatId}/messages", chatmessages.New(logger, chatService).ServeHTTP)
			r.Post("/chat/{chatId}/messages", chatsend.New(logger, chatService).ServeHTTP)

			r.Post("/products", productcreate.New(logger, productService).ServeHTTP)

			r.Post("/community/posts", postcreate.New(logger, postService).ServeHTTP)
			r.Post("/community/posts/{id}/like", postlike.New(logger, postService).ServeHTTP)
			r.Post("/community/posts/{id}/comment", postcomment.New(logger, postService).ServeHTTP)

			r.Put("/dashboard/{userId}/verify", verify.New(logger, authService).ServeHTTP)
		})
	})

	// Websocket-подключение аутентифицируется токеном в query: браузерный
	// WebSocket API не позволяет выставить заголовок Authorization.
	r.Get("/ws", func(w http.ResponseWriter, req *http.Request) {
		token := req.URL.Query().Get("token")
		userID, err := authService.ValidateAccess(token)
		if err != nil {
			w.WriteHeader(http.StatusUnauthorized)
			render.JSON(w, req, response.Error("invalid access token"))
			return
		}
		ws.ServeWS(hub, logger, userID, w, req)
	})

	r.Handle("/metrics", promhttp.Handler())
}
