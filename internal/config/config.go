package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"github.com/mcmusabe/blokhut-display/internal/core"
	pkgredis "github.com/mcmusabe/blokhut-display/pkg/redis"
)

// Config holds every tunable of the display server, sourced from the environment.
type Config struct {
	Environment string `default:"development"`
	AdminToken  string `split_words:"true"`

	Server  ServerConfig
	TLS     TLSConfig
	Data    DataConfig
	Display DisplayConfig
	News    NewsConfig
	Redis   pkgredis.Config
}

type ServerConfig struct {
	Host string `default:"0.0.0.0"`
	Port string `default:"3000"`
}

type TLSConfig struct {
	Enabled    bool   `default:"false"`
	CertFile   string `split_words:"true"`
	KeyFile    string `split_words:"true"`
	MinVersion string `split_words:"true" default:"1.2"`
}

type DataConfig struct {
	// Dir holds slides.json, config.json and news.json.
	Dir    string `default:"./assets"`
	DBPath string `envconfig:"DB_PATH" default:"./data/display.db"`
}

type DisplayConfig struct {
	Lite           bool          `default:"false"`
	SlideInterval  time.Duration `split_words:"true" default:"5s"`
	ProgressTick   time.Duration `split_words:"true" default:"500ms"`
	ContentRefresh time.Duration `split_words:"true" default:"5m"`
	// SlidesURL points the refresher at a remote slides endpoint instead of the local store.
	SlidesURL    string `envconfig:"SLIDES_URL"`
	AssetBaseURL string `envconfig:"ASSET_BASE_URL"`
}

type NewsConfig struct {
	BridgeURL  string  `envconfig:"BRIDGE_URL" default:"https://api.rss2json.com/v1/api.json"`
	Timezone   string  `default:"Europe/Amsterdam"`
	MaxItems   int     `split_words:"true" default:"10"`
	GlyphWidth float64 `split_words:"true" default:"14"`
	// CacheKey and CacheTTL apply when the feed is cached in Redis.
	CacheKey string        `split_words:"true" default:"blokhut:news"`
	CacheTTL time.Duration `split_words:"true" default:"24h"`
}

// Env returns the parsed deployment environment.
func (c *Config) Env() core.Environment {
	return core.ParseEnvironment(c.Environment)
}

// Addr returns the listen address.
func (c *Config) Addr() string {
	return c.Server.Host + ":" + c.Server.Port
}

// SlidesPath returns the path of the slides file.
func (c *Config) SlidesPath() string {
	return filepath.Join(c.Data.Dir, "slides.json")
}

// SiteConfigPath returns the path of the admin-editable site config.
func (c *Config) SiteConfigPath() string {
	return filepath.Join(c.Data.Dir, "config.json")
}

// NewsCachePath returns the path of the local cached feed.
func (c *Config) NewsCachePath() string {
	return filepath.Join(c.Data.Dir, "news.json")
}

// Load reads .env (when present) and the process environment.
func Load() (*Config, error) {
	// a missing .env is normal outside local development
	_ = godotenv.Load(".env")

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadConfig is Load for callers that cannot start without configuration.
func LoadConfig() *Config {
	cfg, err := Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	return cfg
}

func (c *Config) validate() error {
	if c.Display.ProgressTick <= 0 || c.Display.SlideInterval <= 0 {
		return fmt.Errorf("display tick and slide interval must be positive")
	}
	if c.Display.ProgressTick > c.Display.SlideInterval {
		return fmt.Errorf("display tick %s exceeds slide interval %s", c.Display.ProgressTick, c.Display.SlideInterval)
	}
	if c.TLS.Enabled && (c.TLS.CertFile == "" || c.TLS.KeyFile == "") {
		return fmt.Errorf("TLS enabled but TLS_CERT_FILE or TLS_KEY_FILE is empty")
	}
	return nil
}
