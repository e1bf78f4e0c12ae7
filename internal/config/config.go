package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"
)

const (
	LogLevelDebug = "debug"
	LogLevelInfo  = "info"
	LogLevelWarn  = "warn"
	LogLevelError = "error"

	defaultListen          = ":8419"
	defaultCacheFile       = "os_links_cache.json"
	defaultCacheTTL        = 24 * time.Hour
	defaultRefreshInterval = time.Hour
	defaultDownloadsDir    = "downloads"
	defaultNotesDir        = "notes"
)

type CacheConfig struct {
	File string        `yaml:"file"`
	TTL  time.Duration `yaml:"ttl"`
}

type SchedulerConfig struct {
	Interval time.Duration `yaml:"interval"`
}

type CatalogConfig struct {
	// File overrides the embedded distribution skeleton when set.
	File     string `yaml:"file"`
	NotesDir string `yaml:"notes_dir"`
}

type DownloaderConfig struct {
	Dir string `yaml:"dir"`
	// Timeout bounds every outbound HTTP call. Zero keeps the HTTP client
	// default of no deadline.
	Timeout time.Duration `yaml:"timeout"`
}

type Config struct {
	Listen     string           `yaml:"listen"`
	LogLevel   string           `yaml:"log_level"`
	RedisURL   string           `yaml:"redis_url"`
	Cache      CacheConfig      `yaml:"cache"`
	Scheduler  SchedulerConfig  `yaml:"scheduler"`
	Catalog    CatalogConfig    `yaml:"catalog"`
	Downloader DownloaderConfig `yaml:"downloader"`
}

func (c *Config) SetDefaults() {
	if c.Listen == "" {
		c.Listen = defaultListen
	}
	if c.LogLevel == "" {
		c.LogLevel = LogLevelInfo
	}
	if c.Cache.File == "" {
		c.Cache.File = defaultCacheFile
	}
	if c.Cache.TTL == 0 {
		c.Cache.TTL = defaultCacheTTL
	}
	if c.Scheduler.Interval == 0 {
		c.Scheduler.Interval = defaultRefreshInterval
	}
	if c.Catalog.NotesDir == "" {
		c.Catalog.NotesDir = defaultNotesDir
	}
	if c.Downloader.Dir == "" {
		c.Downloader.Dir = defaultDownloadsDir
	}
}

// Load reads the YAML config file and applies ISODEPOT_* environment
// overrides. A missing file is not an error, the defaults cover it.
func Load(fileName string) (*Config, error) {
	// .env is optional, same as the file itself.
	_ = godotenv.Load()

	var cfg Config

	data, err := os.ReadFile(fileName)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("cannot read config file: %w", err)
		}
	} else if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("cannot parse config file: %w", err)
	}

	cfg.applyEnv()
	cfg.SetDefaults()

	return &cfg, nil
}

func MustLoad(fileName string) *Config {
	cfg, err := Load(fileName)
	if err != nil {
		panic(err)
	}

	return cfg
}

func (c *Config) applyEnv() {
	if v := os.Getenv("ISODEPOT_LISTEN"); v != "" {
		c.Listen = v
	}
	if v := os.Getenv("ISODEPOT_LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
	if v := os.Getenv("ISODEPOT_REDIS_URL"); v != "" {
		c.RedisURL = v
	}
	if v := os.Getenv("ISODEPOT_CACHE_FILE"); v != "" {
		c.Cache.File = v
	}
	if v := os.Getenv("ISODEPOT_DOWNLOADS_DIR"); v != "" {
		c.Downloader.Dir = v
	}
}
