package config

import (
	"context"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	TelegramBotToken     string `env:"TELEGRAM_BOT_TOKEN,required"`
	TelegramChatID       int64  `env:"TELEGRAM_CHAT_ID,required"`
	NotificationsEnabled bool   `env:"NOTIFICATIONS_ENABLED,default=true"`

	DBHost            string        `env:"DB_HOST,required"`
	DBPort            int           `env:"DB_PORT,default=5432"`
	DBUser            string        `env:"DB_USER,required"`
	DBPassword        string        `env:"DB_PASSWORD,required"`
	DBName            string        `env:"DB_NAME,required"`
	DBSSLMode         string        `env:"DB_SSLMODE,default=disable"`
	DBMaxIdleConns    int           `env:"DB_MAX_IDLE_CONNS,default=10"`
	DBMaxOpenConns    int           `env:"DB_MAX_OPEN_CONNS,default=25"`
	DBConnMaxLifetime time.Duration `env:"DB_CONN_MAX_LIFETIME,default=30m"`

	QuoteBaseURL      string        `env:"QUOTE_BASE_URL,default=https://query1.finance.yahoo.com/v8/finance/chart"`
	QuoteRegionSuffix string        `env:"QUOTE_REGION_SUFFIX,default=.SA"`
	QuoteTimeout      time.Duration `env:"QUOTE_TIMEOUT,default=10s"`
	QuoteCacheTTL     time.Duration `env:"QUOTE_CACHE_TTL,default=30s"`

	MonitorInterval      time.Duration `env:"MONITOR_INTERVAL,default=5m"`
	MonitorStartupDelay  time.Duration `env:"MONITOR_STARTUP_DELAY,default=3s"`
	MonitorRetryInterval time.Duration `env:"MONITOR_RETRY_INTERVAL,default=60s"`
	MonitorMaxConcurrent int           `env:"MONITOR_MAX_CONCURRENT,default=20"`
	WatchedSymbols       []string      `env:"WATCHED_SYMBOLS,delimiter=;,default=PETR4;VALE3;ITUB4;BBDC4;ABEV3;WEGE3;RENT3;LREN3;MGLU3;JBSS3"`

	UserID      string `env:"USER_ID,default=test_user_001"`
	MetricsAddr string `env:"METRICS_ADDR,default=:9090"`
	LogLevel    string `env:"LOG_LEVEL,default=info"`
}

func Load(ctx context.Context) (Config, error) {
	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
