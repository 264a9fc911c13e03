// Package momconnect собирает приложение: хранилище, кеш, realtime-хаб,
// брокер событий, сервисы и HTTP-сервер с graceful shutdown.
package momconnect

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/streadway/amqp"

	"github.com/momconnect/backend/internal/cache"
	"github.com/momconnect/backend/internal/config"
	"github.com/momconnect/backend/internal/lib/jwt"
	"github.com/momconnect/backend/internal/lib/sl"
	"github.com/momconnect/backend/internal/migrations"
	"github.com/momconnect/backend/internal/paymentgateway"
	"github.com/momconnect/backend/internal/rabbitmq"
	authservice "github.com/momconnect/backend/internal/services/auth"
	chatservice "github.com/momconnect/backend/internal/services/chat"
	paymentservice "github.com/momconnect/backend/internal/services/payment"
	postservice "github.com/momconnect/backend/internal/services/post"
	productservice "github.com/momconnect/backend/internal/services/product"
	"github.com/momconnect/backend/internal/storage/repository"
	"github.com/momconnect/backend/internal/ws"
)

// Refresh-секрет вне production при пустой конфигурации. В production
// пустой секрет — ошибка конфигурации.
const devRefreshSecret = "refresh_secret_key"

type App struct {
	server *http.Server
	logger *slog.Logger
	db     *repository.Storage
	cache  *cache.Cache
	hub    *ws.Hub
	bridge *ws.RedisBridge
	mqConn *amqp.Connection
	mqCh   *amqp.Channel
}

func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := repository.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, err
	}
	if err = migrations.Run(db.DB, cfg.MigrationsPath); err != nil {
		return nil, err
	}

	var cacheRedis *cache.Cache
	if cfg.RedisConnection.AddressRedis != "" {
		cacheRedis, err = cache.InitServer(ctx, cfg.RedisConnection)
		if err != nil {
			logger.Warn("redis unavailable, cache and cross-process fanout disabled", sl.Err(err))
			cacheRedis = nil
		}
	}

	var bridge *ws.RedisBridge
	if cacheRedis != nil {
		bridge = ws.NewRedisBridge(cacheRedis.Db, logger)
	}
	var hub *ws.Hub
	if bridge != nil {
		hub = ws.NewHub(bridge, logger)
	} else {
		hub = ws.NewHub(nil, logger)
	}

	refreshSecret := cfg.JWTTokens.RefreshSecret
	if refreshSecret == "" {
		if cfg.Env == "prod" {
			return nil, errors.New("refresh secret is required in production")
		}
		logger.Warn("refresh secret is empty, using insecure development default")
		refreshSecret = devRefreshSecret
	}
	jwtMaker := jwt.NewMaker(cfg.JWTTokens.AccessSecret, refreshSecret,
		cfg.JWTTokens.AccessTTL, cfg.JWTTokens.RefreshTTL)

	var gateway paymentservice.Gateway
	if cfg.PaymentGateway.GatewayKeyID != "" && cfg.PaymentGateway.GatewayKeySecret != "" {
		gateway = paymentgateway.NewClient(cfg.PaymentGateway.GatewayKeyID,
			cfg.PaymentGateway.GatewayKeySecret, cfg.PaymentGateway.GatewayAPIURL)
	} else {
		logger.Warn("payment gateway keys are not configured, payment endpoints will return 503")
	}

	var (
		mqConn *amqp.Connection
		mqCh   *amqp.Channel
		events paymentservice.EventPublisher
	)
	if cfg.RabbitMQConnection.RabbitMQURL != "" {
		mqConn, err = rabbitmq.Connect(cfg.RabbitMQConnection.RabbitMQURL,
			cfg.RabbitMQConnection.RabbitMQMaxRetries, cfg.RabbitMQConnection.RabbitMQRetryDelay)
		if err != nil {
			return nil, err
		}
		mqCh, err = rabbitmq.SetupChannel(mqConn)
		if err != nil {
			mqConn.Close()
			return nil, err
		}
		events = rabbitmq.NewPaymentPublisher(mqCh)
	}

	var productCache productservice.Cache
	if cacheRedis != nil {
		productCache = cacheRedis
	}

	authService := authservice.New(db, jwtMaker)
	paymentService := paymentservice.New(gateway, db, events, logger)
	chatService := chatservice.New(db, hub)
	productService := productservice.New(db, hub, productCache, logger)
	postService := postservice.New(db)

	router := chi.NewRouter()
	RegisterRoutes(router, logger, cfg, hub, db,
		authService, paymentService, chatService, productService, postService)

	srv := &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return &App{
		server: srv,
		logger: logger,
		db:     db,
		cache:  cacheRedis,
		hub:    hub,
		bridge: bridge,
		mqConn: mqConn,
		mqCh:   mqCh,
	}, nil
}

func (a *App) Run(ctx context.Context) error {
	go a.hub.Run()
	if a.bridge != nil {
		go a.bridge.Run(ctx, a.hub)
	}

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		if a.mqCh != nil {
			if closeErr := a.mqCh.Close(); closeErr != nil {
				a.logger.Error("failed to close rabbitmq channel", sl.Err(closeErr))
			}
		}
		if a.mqConn != nil {
			if closeErr := a.mqConn.Close(); closeErr != nil {
				a.logger.Error("failed to close rabbitmq connection", sl.Err(closeErr))
			}
		}
		if a.cache != nil {
			if closeErr := a.cache.Db.Close(); closeErr != nil {
				a.logger.Error("failed to close redis client", sl.Err(closeErr))
			}
		}
		a.db.DB.Close()
		return err
	}
}
