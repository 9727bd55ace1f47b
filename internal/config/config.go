package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Configはアプリ全体の設定（環境変数から読む）
type Config struct {
	Port   string `env:"PORT" envDefault:"8080"`
	GoEnv  string `env:"GO_ENV" envDefault:"dev"` // dev/prod
	FEURL  string `env:"FE_URL"`                  // フロントURL（CORSで使う）
	Cookie Cookie `envPrefix:"COOKIE_"`

	DatabaseURL string   `env:"DATABASE_URL"` // あれば最優先
	Postgres    Postgres `envPrefix:"POSTGRES_"`
	JWT         JWT      `envPrefix:"JWT_"`
	Redis       Redis    `envPrefix:"REDIS_"`
}

type Postgres struct {
	Host     string `env:"HOST" envDefault:"localhost"`
	Port     int    `env:"PORT" envDefault:"5432"`
	User     string `env:"USER" envDefault:"postgres"`
	Password string `env:"PASSWORD" envDefault:"postgres"`
	DB       string `env:"DB" envDefault:"app"`
	SSLMode  string `env:"SSLMODE" envDefault:"disable"`
}

// JWTはaccess/refreshで別シークレット・別TTL
type JWT struct {
	AccessSecret  string        `env:"ACCESS_SECRET,required"`
	RefreshSecret string        `env:"REFRESH_SECRET,required"`
	AccessTTL     time.Duration `env:"ACCESS_TTL" envDefault:"15m"`
	RefreshTTL    time.Duration `env:"REFRESH_TTL" envDefault:"720h"` // 30日
}

type Cookie struct {
	Secure bool `env:"SECURE" envDefault:"true"`
}

// Redisはログイン試行の流量制限に使う。Addrが空なら制限なしで動く
type Redis struct {
	Addr             string        `env:"ADDR"`
	Password         string        `env:"PASSWORD"`
	DB               int           `env:"DB" envDefault:"0"`
	LoginMaxAttempts int           `env:"LOGIN_MAX_ATTEMPTS" envDefault:"10"`
	LoginWindow      time.Duration `env:"LOGIN_WINDOW" envDefault:"10m"`
}

// Loadは環境変数からConfigを組み立てる
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

// DSNはgorm/postgres用の接続文字列
func (c Config) DSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Postgres.Host, c.Postgres.Port, c.Postgres.User,
		c.Postgres.Password, c.Postgres.DB, c.Postgres.SSLMode,
	)
}
