// Package config loads server settings from defaults, an optional .env file,
// an optional config file, GARUDAR_* environment variables and command-line flags,
// in increasing order of priority.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/netip"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/mmvit/garudar/internal/logging"
	"github.com/mmvit/garudar/internal/server/jwt"
	"github.com/mmvit/garudar/internal/validation"
)

// EnvPrefix - префикс переменных окружения (GARUDAR_JWT_SECRET и т.д.)
const EnvPrefix = "GARUDAR"

// Поддерживаемые драйверы хранилища
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

// Config - настройки сервера
type Config struct {
	Storage   StorageConfig
	Log       LogConfig
	Bootstrap BootstrapConfig
	JWT       JWTConfig
	HTTP      HTTPConfig
	RateLimit RateLimitConfig

	// ShowVersion - флаг --version, остальные настройки при нем не нужны
	ShowVersion bool
}

// HTTPConfig - параметры HTTP сервера
type HTTPConfig struct {
	Addr            string
	ShutdownTimeout time.Duration
}

// StorageConfig - выбор и параметры хранилища
type StorageConfig struct {
	Driver string // sqlite, postgres или memory
	DSN    string // путь к файлу sqlite или DSN postgres
}

// JWTConfig - параметры подписи токенов
type JWTConfig struct {
	Secret string
	TTL    time.Duration
}

// LogConfig - параметры логгера
type LogConfig struct {
	Level  string // debug, info, warn, error
	Format string // text или json
}

// RateLimitConfig - ограничение попыток входа с одного IP
type RateLimitConfig struct {
	// TrustedProxies - CIDR или адреса прокси, чьим X-Forwarded-For можно верить.
	// Пусто: ключ лимитера всегда адрес сокета.
	TrustedProxies []string
	LoginRate      int
	LoginWindow    time.Duration
}

// TrustedPrefixes разбирает TrustedProxies. Одиночный адрес становится префиксом /32 или /128.
func (c RateLimitConfig) TrustedPrefixes() ([]netip.Prefix, error) {
	prefixes := make([]netip.Prefix, 0, len(c.TrustedProxies))
	for _, raw := range c.TrustedProxies {
		raw = strings.TrimSpace(raw)
		if strings.Contains(raw, "/") {
			p, err := netip.ParsePrefix(raw)
			if err != nil {
				return nil, fmt.Errorf("invalid trusted proxy %q: %w", raw, err)
			}
			prefixes = append(prefixes, p.Masked())
			continue
		}
		addr, err := netip.ParseAddr(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid trusted proxy %q: %w", raw, err)
		}
		addr = addr.Unmap()
		prefixes = append(prefixes, netip.PrefixFrom(addr, addr.BitLen()))
	}
	return prefixes, nil
}

// BootstrapConfig - администратор, создаваемый при старте, если его еще нет
type BootstrapConfig struct {
	AdminUsername string
	AdminPassword string
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("http.addr", ":8080")
	v.SetDefault("http.shutdown_timeout", 10*time.Second)
	v.SetDefault("storage.driver", DriverSQLite)
	v.SetDefault("storage.dsn", "garudar.db")
	v.SetDefault("jwt.secret", "")
	v.SetDefault("jwt.ttl", 15*time.Minute)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("ratelimit.login_rate", 10)
	v.SetDefault("ratelimit.login_window", time.Minute)
	v.SetDefault("ratelimit.trusted_proxies", []string{})
	v.SetDefault("bootstrap.admin_username", "")
	v.SetDefault("bootstrap.admin_password", "")
}

// flagKeys связывает имена флагов с ключами viper
var flagKeys = map[string]string{
	"addr":             "http.addr",
	"shutdown-timeout": "http.shutdown_timeout",
	"db-driver":        "storage.driver",
	"db-dsn":           "storage.dsn",
	"jwt-secret":       "jwt.secret",
	"jwt-ttl":          "jwt.ttl",
	"log-level":        "log.level",
	"log-format":       "log.format",
	"login-rate":       "ratelimit.login_rate",
	"login-window":     "ratelimit.login_window",
	"trusted-proxies":  "ratelimit.trusted_proxies",
	"admin-username":   "bootstrap.admin_username",
	"admin-password":   "bootstrap.admin_password",
}

func newFlagSet(name string) *pflag.FlagSet {
	flags := pflag.NewFlagSet(name, pflag.ContinueOnError)
	flags.SortFlags = false

	flags.String("config", "", "path to config file (yaml, json or toml)")
	flags.String("env-file", ".env", "path to .env file, ignored if missing")
	flags.Bool("version", false, "show version information")

	flags.StringP("addr", "a", ":8080", "HTTP listen address")
	flags.Duration("shutdown-timeout", 10*time.Second, "graceful shutdown timeout")
	flags.String("db-driver", DriverSQLite, "storage driver: sqlite, postgres or memory")
	flags.StringP("db-dsn", "d", "garudar.db", "sqlite file path or postgres DSN")
	flags.String("jwt-secret", "", "HMAC secret for signing tokens (at least 32 bytes)")
	flags.Duration("jwt-ttl", 15*time.Minute, "access token lifetime")
	flags.String("log-level", "info", "log level: debug, info, warn, error")
	flags.String("log-format", "text", "log format: text or json")
	flags.Int("login-rate", 10, "login attempts allowed per window and IP")
	flags.Duration("login-window", time.Minute, "login rate limit window")
	flags.StringSlice("trusted-proxies", nil, "reverse proxy CIDRs allowed to set X-Forwarded-For")
	flags.String("admin-username", "", "bootstrap admin username")
	flags.String("admin-password", "", "bootstrap admin password")

	return flags
}

// Load parses args (without the program name) and builds the configuration.
// Возвращает pflag.ErrHelp, если запрошена справка.
func Load(name string, args []string) (*Config, error) {
	flags := newFlagSet(name)
	if err := flags.Parse(args); err != nil {
		return nil, err
	}

	showVersion, _ := flags.GetBool("version")
	if showVersion {
		return &Config{ShowVersion: true}, nil
	}

	envFile, _ := flags.GetString("env-file")
	if envFile != "" {
		// godotenv не перезаписывает уже заданные переменные окружения
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to load env file %s: %w", envFile, err)
		}
	}

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path, _ := flags.GetString("config"); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}

	for flag, key := range flagKeys {
		if f := flags.Lookup(flag); f != nil && f.Changed {
			if err := v.BindPFlag(key, f); err != nil {
				return nil, fmt.Errorf("failed to bind flag %s: %w", flag, err)
			}
		}
	}

	cfg := fromViper(v)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func fromViper(v *viper.Viper) *Config {
	return &Config{
		HTTP: HTTPConfig{
			Addr:            v.GetString("http.addr"),
			ShutdownTimeout: v.GetDuration("http.shutdown_timeout"),
		},
		Storage: StorageConfig{
			Driver: strings.ToLower(strings.TrimSpace(v.GetString("storage.driver"))),
			DSN:    v.GetString("storage.dsn"),
		},
		JWT: JWTConfig{
			Secret: v.GetString("jwt.secret"),
			TTL:    v.GetDuration("jwt.ttl"),
		},
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
		},
		RateLimit: RateLimitConfig{
			LoginRate:      v.GetInt("ratelimit.login_rate"),
			LoginWindow:    v.GetDuration("ratelimit.login_window"),
			TrustedProxies: splitList(v.GetStringSlice("ratelimit.trusted_proxies")),
		},
		Bootstrap: BootstrapConfig{
			AdminUsername: strings.TrimSpace(v.GetString("bootstrap.admin_username")),
			AdminPassword: v.GetString("bootstrap.admin_password"),
		},
	}
}

// Validate проверяет согласованность настроек
func (c *Config) Validate() error {
	var errs []error

	if c.HTTP.Addr == "" {
		errs = append(errs, errors.New("http.addr is required"))
	}
	if c.HTTP.ShutdownTimeout <= 0 {
		errs = append(errs, errors.New("http.shutdown_timeout must be positive"))
	}

	switch c.Storage.Driver {
	case DriverSQLite, DriverPostgres:
		if c.Storage.DSN == "" {
			errs = append(errs, fmt.Errorf("storage.dsn is required for driver %s", c.Storage.Driver))
		}
	case DriverMemory:
	default:
		errs = append(errs, fmt.Errorf("unknown storage.driver %q", c.Storage.Driver))
	}

	if len(c.JWT.Secret) < jwt.MinSecretLength {
		errs = append(errs, fmt.Errorf("jwt.secret must be at least %d bytes", jwt.MinSecretLength))
	}
	if c.JWT.TTL <= 0 {
		errs = append(errs, errors.New("jwt.ttl must be positive"))
	}

	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, err)
	}
	if _, err := logging.ParseFormat(c.Log.Format); err != nil {
		errs = append(errs, err)
	}

	if c.RateLimit.LoginRate <= 0 {
		errs = append(errs, errors.New("ratelimit.login_rate must be positive"))
	}
	if c.RateLimit.LoginWindow <= 0 {
		errs = append(errs, errors.New("ratelimit.login_window must be positive"))
	}
	if _, err := c.RateLimit.TrustedPrefixes(); err != nil {
		errs = append(errs, fmt.Errorf("ratelimit.trusted_proxies: %w", err))
	}

	if c.Bootstrap.AdminUsername != "" {
		if err := validation.ValidateUsername(c.Bootstrap.AdminUsername); err != nil {
			errs = append(errs, fmt.Errorf("bootstrap.admin_username: %w", err))
		}
		if err := validation.ValidatePassword(c.Bootstrap.AdminPassword); err != nil {
			errs = append(errs, fmt.Errorf("bootstrap.admin_password: %w", err))
		}
	}

	return errors.Join(errs...)
}

// splitList разбивает элементы по запятым: из переменной окружения viper
// получает одну строку "10.0.0.0/8,192.168.0.0/16".
func splitList(items []string) []string {
	var out []string
	for _, item := range items {
		for _, part := range strings.Split(item, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
