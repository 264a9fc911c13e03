// Package config предоставляет структуры и функцию загрузки конфигурации.
package config

import (
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config — общая структура настроек приложения.
type Config struct {
	Env                     string `yaml:"env" env-default:"local"`
	StorageConnectionString string `yaml:"storage_connection_string"`
	MigrationsPath          string `yaml:"migrations_path" env-default:"./migrations"`
	HTTPServer              `yaml:"http_server"`
	RedisConnection         `yaml:"redis_connection"`
	RabbitMQConnection      `yaml:"rabbitmq_connection"`
	SMTPConnection          `yaml:"smtp_connection"`
	JWTTokens               `yaml:"jwt_tokens"`
	PaymentGateway          `yaml:"payment_gateway"`
	RateLimit               `yaml:"rate_limit"`
}

// HTTPServer — настройки HTTP-сервера.
type HTTPServer struct {
	AddressHTTP string        `yaml:"addresshttp" env-default:":8080"`
	TimeoutHTTP time.Duration `yaml:"timeouthttp" env-default:"5s"`
	IdleTimeout time.Duration `yaml:"idle_timeout" env-default:"60s"`
}

// RedisConnection — настройки подключения к redis. Пустой адрес означает,
// что redis не используется: рассылка деградирует до локальной, кеш отключён.
type RedisConnection struct {
	AddressRedis string        `yaml:"addressredis"`
	Password     string        `yaml:"password"`
	User         string        `yaml:"user"`
	DB           int           `yaml:"db"`
	MaxRetries   int           `yaml:"max_retries" env-default:"3"`
	DialTimeout  time.Duration `yaml:"dial_timeout" env-default:"5s"`
	TimeoutRedis time.Duration `yaml:"timeoutredis" env-default:"3s"`
}

// RabbitMQConnection — настройки подключения к RabbitMQ. Пустой URL означает,
// что события платежей не публикуются.
type RabbitMQConnection struct {
	RabbitMQURL        string        `yaml:"rabbitmq_url"`
	RabbitMQMaxRetries int           `yaml:"rabbitmq_max_retries" env-default:"5"`
	RabbitMQRetryDelay time.Duration `yaml:"rabbitmq_retry_delay" env-default:"2s"`
}

// SMTPConnection — настройки SMTP для отправки квитанций.
type SMTPConnection struct {
	Host     string `yaml:"smtp_host"`
	Port     string `yaml:"smtp_port" env-default:"587"`
	User     string `yaml:"smtp_user"`
	Password string `yaml:"smtp_password"`
}

// JWTTokens — секреты и сроки жизни пары токенов. Секреты access и refresh
// различны. Пустой refresh-секрет допустим только вне production:
// приложение подставит фиксированное значение и предупредит в логе.
type JWTTokens struct {
	AccessSecret  string        `yaml:"access_secret"`
	RefreshSecret string        `yaml:"refresh_secret"`
	AccessTTL     time.Duration `yaml:"access_ttl" env-default:"15m"`
	RefreshTTL    time.Duration `yaml:"refresh_ttl" env-default:"360h"`
}

// PaymentGateway — ключи платёжного шлюза. При пустых ключах платёжные
// операции отвечают 503, небезопасные значения по умолчанию не подставляются.
type PaymentGateway struct {
	GatewayKeyID     string `yaml:"gateway_key_id"`
	GatewayKeySecret string `yaml:"gateway_key_secret"`
	GatewayAPIURL    string `yaml:"gateway_api_url" env-default:"https://api.razorpay.com/v1"`
}

// RateLimit — квота запросов на один клиентский адрес.
type RateLimit struct {
	RequestsPerSecond float64 `yaml:"requests_per_second" env-default:"5"`
	Burst             int     `yaml:"burst" env-default:"10"`
}

// MustLoad загружает конфигурацию из файла, указанного в CONFIG_PATH.
func MustLoad() *Config {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		log.Fatal("CONFIG_PATH is not set")
	}
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		log.Fatalf("file: %s - does not exist", configPath)
	}
	var cfg Config

	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		log.Fatalf("cannot read config: %s", err)
	}
	return &cfg
}
