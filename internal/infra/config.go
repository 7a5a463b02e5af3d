package infra

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config: корневая структура конфигурации консоли.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Auth     AuthConfig     `mapstructure:"auth"`
	Engine   EngineConfig   `mapstructure:"engine"`
	Mailing  MailingConfig  `mapstructure:"mailing"`
	Wallet   WalletConfig   `mapstructure:"wallet"`
	Seed     SeedConfig     `mapstructure:"seed"`
	Audit    AuditConfig    `mapstructure:"audit"`
	Cache    CacheConfig    `mapstructure:"cache"`
	Waitlist WaitlistConfig `mapstructure:"waitlist"`
	Logger   LoggerConfig   `mapstructure:"logger"`
}

// ServerConfig описывает настройки HTTP-сервера.
type ServerConfig struct {
	Host         string        `mapstructure:"host"`
	Port         int           `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	MetricsPort  int           `mapstructure:"metrics_port"`

	// Сети балансировщиков, которым доверяем X-Forwarded-For / X-Real-IP.
	// Пусто: клиент = адрес TCP-соединения.
	TrustedProxies []string `mapstructure:"trusted_proxies"`
}

func (c ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// DatabaseConfig описывает подключение к PostgreSQL.
// Пустой URL означает, что уровень БД выключен и резолвер сразу идет в mock.
type DatabaseConfig struct {
	URL      string `mapstructure:"url"`
	MaxConns int32  `mapstructure:"max_conns"`
	MinConns int32  `mapstructure:"min_conns"`
}

func (c DatabaseConfig) Enabled() bool { return c.URL != "" }

// RedisConfig описывает подключение к Redis (кэш каталога и лимиты).
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

func (c RedisConfig) Enabled() bool { return c.Addr != "" }

// AuthConfig сессии подписываются HS256 общим секретом (NEXTAUTH_SECRET).
type AuthConfig struct {
	Secret       string        `mapstructure:"secret"`
	SessionTTL   time.Duration `mapstructure:"session_ttl"`
	CookieName   string        `mapstructure:"cookie_name"`
	SecureCookie bool          `mapstructure:"secure_cookie"` // true за HTTPS
	BcryptCost   int           `mapstructure:"bcrypt_cost"`
}

// EngineConfig настройки клиента удаленного AI-движка.
type EngineConfig struct {
	URL     string        `mapstructure:"url"`
	Timeout time.Duration `mapstructure:"timeout"`

	// Circuit Breaker: открытый предохранитель = уровень движка пропускается
	CBMaxRequests uint32        `mapstructure:"cb_max_requests"`
	CBInterval    time.Duration `mapstructure:"cb_interval"`
	CBTimeout     time.Duration `mapstructure:"cb_timeout"`
	CBFailures    uint32        `mapstructure:"cb_failures"`

	RateLimit float64 `mapstructure:"rate_limit"` // запросов в секунду
	RateBurst int     `mapstructure:"rate_burst"`
}

// MailingConfig: интеграция с Kit (бывший ConvertKit).
type MailingConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	APIKey  string        `mapstructure:"api_key"`
	FormID  string        `mapstructure:"form_id"`
	Timeout time.Duration `mapstructure:"timeout"`
}

type WalletConfig struct {
	ProjectID string `mapstructure:"project_id"`
}

// SeedConfig используется только командой seed.
type SeedConfig struct {
	AdminEmail    string `mapstructure:"admin_email"`
	AdminPassword string `mapstructure:"admin_password"`
	Migrate       bool   `mapstructure:"migrate"`
}

type AuditConfig struct {
	BufferSize    int           `mapstructure:"buffer_size"`
	BatchSize     int           `mapstructure:"batch_size"`
	FlushInterval time.Duration `mapstructure:"flush_interval"`
}

type CacheConfig struct {
	CatalogTTL  time.Duration `mapstructure:"catalog_ttl"`
	CatalogSize int           `mapstructure:"catalog_size"`
}

type WaitlistConfig struct {
	Limit  int           `mapstructure:"limit"` // заявок на IP за окно
	Window time.Duration `mapstructure:"window"`
}

// LoggerConfig настраивает поведение zap логгера.
type LoggerConfig struct {
	Level  string `mapstructure:"level"`  // debug, info, warn, error
	Format string `mapstructure:"format"` // json, console
}

// legacyEnv Исторические имена переменных окружения фронтенда.
var legacyEnv = map[string]string{
	"database.url":        "DATABASE_URL",
	"engine.url":          "AI_ENGINE_URL",
	"auth.secret":         "NEXTAUTH_SECRET",
	"seed.admin_password": "ADMIN_INITIAL_PASSWORD",
	"mailing.api_key":     "KIT_API_KEY",
	"mailing.form_id":     "KIT_FORM_ID",
	"wallet.project_id":   "NEXT_PUBLIC_WALLET_CONNECT_PROJECT_ID",
	"redis.addr":          "REDIS_ADDR",
}

// LoadConfig инициализирует конфигурацию, объединяя значения из файла и ENV.
func LoadConfig() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./configs")

	// SERVER_PORT=9000 перекроет server.port
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	for key, env := range legacyEnv {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("bind env %s: %w", env, err)
		}
	}

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFoundError) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Если файла нет: работаем на ENV и дефолтах
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode into struct: %w", err)
	}
	cfg.Engine.URL = strings.TrimRight(cfg.Engine.URL, "/")

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 3000)
	v.SetDefault("server.read_timeout", 5*time.Second)
	v.SetDefault("server.write_timeout", 15*time.Second)
	v.SetDefault("server.metrics_port", 9090)
	v.SetDefault("server.trusted_proxies", []string{})
	v.SetDefault("database.max_conns", 15)
	v.SetDefault("database.min_conns", 1)
	v.SetDefault("auth.session_ttl", 24*time.Hour)
	v.SetDefault("auth.cookie_name", "shield.session-token")
	v.SetDefault("auth.bcrypt_cost", 12)
	v.SetDefault("engine.url", "http://localhost:8080")
	v.SetDefault("engine.timeout", 5*time.Second)
	v.SetDefault("engine.cb_max_requests", 1)
	v.SetDefault("engine.cb_interval", 30*time.Second)
	v.SetDefault("engine.cb_timeout", 15*time.Second)
	v.SetDefault("engine.cb_failures", 3)
	v.SetDefault("engine.rate_limit", 50)
	v.SetDefault("engine.rate_burst", 20)
	v.SetDefault("mailing.base_url", "https://api.convertkit.com/v3")
	v.SetDefault("mailing.timeout", 10*time.Second)
	v.SetDefault("seed.admin_email", "admin@shield.local")
	v.SetDefault("audit.buffer_size", 1000)
	v.SetDefault("audit.batch_size", 100)
	v.SetDefault("audit.flush_interval", 1*time.Second)
	v.SetDefault("cache.catalog_ttl", 300*time.Second)
	v.SetDefault("cache.catalog_size", 16)
	v.SetDefault("waitlist.limit", 5)
	v.SetDefault("waitlist.window", time.Minute)
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "json")
}
