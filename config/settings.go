package config

import (
	"fmt"
	"io"
	"log"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/Modeva-Ecommerce/sneakverse-catalog/catalog"
)

// ═══════════════════════════════════════════════════════════
// Settings
// ═══════════════════════════════════════════════════════════

type Settings struct {
	AppEnv    string            `mapstructure:"app_env"`
	DB        DBSettings        `mapstructure:"db"`
	Redis     RedisSettings     `mapstructure:"redis"`
	Server    ServerSettings    `mapstructure:"server"`
	Catalog   CatalogSettings   `mapstructure:"catalog"`
	RateLimit RateLimitSettings `mapstructure:"rate_limit"`
}

type DBSettings struct {
	Driver       string `mapstructure:"driver" validate:"oneof=postgres sqlite"`
	URL          string `mapstructure:"url"`
	Host         string `mapstructure:"host" validate:"required_without=URL"`
	Port         string `mapstructure:"port" validate:"required_without=URL"`
	User         string `mapstructure:"user"`
	Password     string `mapstructure:"password"`
	Name         string `mapstructure:"name" validate:"required_without=URL"`
	MaxOpenConns int    `mapstructure:"max_open_conns" validate:"gte=1"`
	MaxIdleConns int    `mapstructure:"max_idle_conns" validate:"gte=0,ltefield=MaxOpenConns"`
	AutoMigrate  bool   `mapstructure:"auto_migrate"`
}

type RedisSettings struct {
	// URL is optional; without it rate limiting is disabled.
	URL string `mapstructure:"url" validate:"omitempty,url"`
}

type ServerSettings struct {
	Addr           string   `mapstructure:"addr" validate:"required"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

type CatalogSettings struct {
	DefaultPageSize       int           `mapstructure:"default_page_size" validate:"gte=1,lte=60"`
	RecommendFetchLimit   int           `mapstructure:"recommend_fetch_limit" validate:"gtefield=RecommendLimit"`
	RecommendLimit        int           `mapstructure:"recommend_limit" validate:"gte=1"`
	PriorityCategorySlugs []string      `mapstructure:"priority_category_slugs"`
	QueryTimeout          time.Duration `mapstructure:"query_timeout" validate:"gt=0"`
}

type RateLimitSettings struct {
	Requests int           `mapstructure:"requests" validate:"gte=1"`
	Window   time.Duration `mapstructure:"window" validate:"gt=0"`
}

// Production reports whether APP_ENV is "production".
func (s Settings) Production() bool {
	return strings.EqualFold(s.AppEnv, "production")
}

// Tunables converts the catalog section for the engine.
func (s Settings) Tunables() catalog.Tunables {
	return catalog.Tunables{
		DefaultPageSize:       s.Catalog.DefaultPageSize,
		RecommendFetchLimit:   s.Catalog.RecommendFetchLimit,
		RecommendLimit:        s.Catalog.RecommendLimit,
		PriorityCategorySlugs: append([]string(nil), s.Catalog.PriorityCategorySlugs...),
		QueryTimeout:          s.Catalog.QueryTimeout,
	}
}

var validate = validator.New()

func (s Settings) Validate() error {
	if err := validate.Struct(s); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	t := catalog.DefaultTunables()

	v.SetDefault("app_env", "development")

	v.SetDefault("db.driver", "postgres")
	v.SetDefault("db.url", "")
	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", "5432")
	v.SetDefault("db.user", "postgres")
	v.SetDefault("db.password", "")
	v.SetDefault("db.name", "sneakverse")
	v.SetDefault("db.max_open_conns", 5)
	v.SetDefault("db.max_idle_conns", 2)
	v.SetDefault("db.auto_migrate", false)

	v.SetDefault("redis.url", "")

	v.SetDefault("server.addr", ":8081")
	v.SetDefault("server.allowed_origins", []string{"http://localhost:3000", "http://localhost:3001"})

	v.SetDefault("catalog.default_page_size", t.DefaultPageSize)
	v.SetDefault("catalog.recommend_fetch_limit", t.RecommendFetchLimit)
	v.SetDefault("catalog.recommend_limit", t.RecommendLimit)
	v.SetDefault("catalog.priority_category_slugs", t.PriorityCategorySlugs)
	v.SetDefault("catalog.query_timeout", t.QueryTimeout)

	v.SetDefault("rate_limit.requests", 100)
	v.SetDefault("rate_limit.window", time.Minute)
}

// ═══════════════════════════════════════════════════════════
// Source
// ═══════════════════════════════════════════════════════════

// Source holds the validated settings and notifies subscribers when a
// reload produces new ones.
type Source struct {
	v           *viper.Viper
	mu          sync.RWMutex
	current     Settings
	subscribers []func(Settings)
}

func newViper() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	// db.host is read from DB_HOST, redis.url from REDIS_URL, and so on
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads .env (if present), then configFile (if not empty), then the
// environment, which wins over both.
func Load(configFile string) (*Source, error) {
	_ = godotenv.Load()

	v := newViper()
	if configFile != "" {
		v.SetConfigFile(configFile)
		v.SetConfigType(strings.TrimPrefix(filepath.Ext(configFile), "."))
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}
	return newSource(v)
}

// LoadFromReader is Load for an in-memory document of the given format
// ("yaml", "json", "toml").
func LoadFromReader(r io.Reader, format string) (*Source, error) {
	v := newViper()
	v.SetConfigType(format)
	if err := v.ReadConfig(r); err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	return newSource(v)
}

func newSource(v *viper.Viper) (*Source, error) {
	settings, err := decode(v)
	if err != nil {
		return nil, err
	}
	return &Source{v: v, current: settings}, nil
}

func decode(v *viper.Viper) (Settings, error) {
	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return Settings{}, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := s.Validate(); err != nil {
		return Settings{}, err
	}
	return s, nil
}

// Settings returns the current settings.
func (s *Source) Settings() Settings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Subscribe registers fn to run after every successful reload.
func (s *Source) Subscribe(fn func(Settings)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subscribers = append(s.subscribers, fn)
}

// Merge overlays r onto the loaded configuration and applies the result.
// An invalid result leaves the current settings untouched.
func (s *Source) Merge(r io.Reader) error {
	if err := s.v.MergeConfig(r); err != nil {
		return fmt.Errorf("failed to merge config: %w", err)
	}
	return s.reload()
}

// EnableHotReload watches the config file and reapplies it on change.
// Invalid edits are logged and ignored.
func (s *Source) EnableHotReload() {
	s.v.OnConfigChange(func(e fsnotify.Event) {
		log.Printf("⚠️ Config file changed: %s", e.Name)
		if err := s.reload(); err != nil {
			log.Printf("❌ Config reload rejected: %v", err)
			return
		}
		log.Println("✅ Config reloaded")
	})
	s.v.WatchConfig()
}

func (s *Source) reload() error {
	settings, err := decode(s.v)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.current = settings
	subscribers := make([]func(Settings), len(s.subscribers))
	copy(subscribers, s.subscribers)
	s.mu.Unlock()

	for _, fn := range subscribers {
		fn(settings)
	}
	return nil
}
