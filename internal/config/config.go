package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"tournament-companion/internal/constants"
	"tournament-companion/internal/domain"
	"tournament-companion/internal/stats"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
	"github.com/rs/zerolog"
	"go.uber.org/fx"
)

const DefaultAPIURL = "https://h5-tournaments-api-5epg.shuttle.app/"

type Config struct {
	APIURL       string
	APIRateLimit float64
	DBPath       string
	ServerPort   string
	LogLevel     string
	ReportDir    string
	LookupPolicy stats.LookupPolicy
	CacheTTL     time.Duration
	Races        []domain.Race
}

// fileConfig is the optional TOML file named by COMPANION_CONFIG.
type fileConfig struct {
	ReportDir    string     `toml:"report_dir"`
	LookupPolicy string     `toml:"lookup_policy"`
	Races        []fileRace `toml:"races"`
}

type fileRace struct {
	ID   int64  `toml:"id"`
	Name string `toml:"name"`
}

func Load(logger zerolog.Logger) (*Config, error) {
	if err := godotenv.Load(); err != nil {
		logger.Debug().Msg(".env file not found, using environment variables or defaults")
	}

	cfg := &Config{
		APIURL:       getEnv("API_URL", DefaultAPIURL),
		DBPath:       getEnv("DB_PATH", "companion.db"),
		ServerPort:   getEnv("SERVER_PORT", "8080"),
		LogLevel:     getEnv("LOG_LEVEL", "info"),
		ReportDir:    getEnv("REPORT_DIR", "reports"),
		LookupPolicy: stats.LookupPolicy(getEnv("LOOKUP_POLICY", string(stats.LookupSkip))),
		CacheTTL:     constants.SnapshotCacheTTL,
		APIRateLimit: constants.APIRateLimit,
		Races:        domain.DefaultRaces(),
	}

	if v := os.Getenv("CACHE_TTL"); v != "" {
		ttl, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("invalid CACHE_TTL: %w", err)
		}
		cfg.CacheTTL = ttl
	}
	if v := os.Getenv("API_RATE_LIMIT"); v != "" {
		limit, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid API_RATE_LIMIT: %w", err)
		}
		cfg.APIRateLimit = limit
	}

	if path := os.Getenv("COMPANION_CONFIG"); path != "" {
		if err := cfg.applyFile(path); err != nil {
			return nil, err
		}
		logger.Info().Str("path", path).Msg("config file applied")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger.Info().
		Str("api_url", cfg.APIURL).
		Str("db_path", cfg.DBPath).
		Str("server_port", cfg.ServerPort).
		Str("log_level", cfg.LogLevel).
		Str("report_dir", cfg.ReportDir).
		Str("lookup_policy", string(cfg.LookupPolicy)).
		Dur("cache_ttl", cfg.CacheTTL).
		Int("races", len(cfg.Races)).
		Msg("configuration loaded")

	return cfg, nil
}

func (c *Config) applyFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	var fc fileConfig
	if err := toml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	if fc.ReportDir != "" {
		c.ReportDir = fc.ReportDir
	}
	if fc.LookupPolicy != "" {
		c.LookupPolicy = stats.LookupPolicy(fc.LookupPolicy)
	}
	if len(fc.Races) > 0 {
		c.Races = make([]domain.Race, 0, len(fc.Races))
		for _, r := range fc.Races {
			c.Races = append(c.Races, domain.Race{ID: r.ID, Name: r.Name})
		}
	}
	return nil
}

func (c *Config) Validate() error {
	if _, err := stats.ParseLookupPolicy(string(c.LookupPolicy)); err != nil {
		return err
	}
	if c.CacheTTL < 0 {
		return fmt.Errorf("cache ttl must not be negative, got %s", c.CacheTTL)
	}
	if c.APIRateLimit <= 0 {
		return fmt.Errorf("api rate limit must be positive, got %v", c.APIRateLimit)
	}
	if len(c.Races) == 0 {
		return fmt.Errorf("race list is empty")
	}
	seen := make(map[int64]bool, len(c.Races))
	for _, r := range c.Races {
		if r.ID <= 0 {
			return fmt.Errorf("race %q has invalid id %d", r.Name, r.ID)
		}
		if r.Name == "" {
			return fmt.Errorf("race %d has no name", r.ID)
		}
		if seen[r.ID] {
			return fmt.Errorf("race id %d is listed twice", r.ID)
		}
		seen[r.ID] = true
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

var Module = fx.Provide(Load)
