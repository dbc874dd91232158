package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"technician-dispatch-service/internal/domain"
)

// Config holds process configuration read from the environment.
// Scheduling constants live here so they can be tuned without touching
// the slot and route algorithms.
type Config struct {
	Env         string
	LogLevel    string
	Port        string
	DatabaseURL string
	RedisURL    string
	SeedPath    string

	Timezone           string
	WorkStartHour      int
	WorkEndHour        int
	SlotGranularityMin int
	MorningCutoffHour  int

	RoadFactor             float64
	AverageSpeedKmh        float64
	BetterSlotMinSavingsKm float64
	RateLimitPerMinute     int
}

// Load reads the configuration. Callers load .env files beforehand.
func Load() (*Config, error) {
	cfg := &Config{
		Env:         Get("APP_ENV", "development"),
		LogLevel:    Get("LOG_LEVEL", "info"),
		Port:        Get("PORT", "8080"),
		DatabaseURL: os.Getenv("DATABASE_URL"),
		RedisURL:    os.Getenv("REDIS_URL"),
		SeedPath:    Get("SEED_PATH", "data/seeds/schedule.json"),
		Timezone:    Get("TIMEZONE", "Local"),
	}

	var err error
	if cfg.WorkStartHour, err = Int("WORK_START_HOUR", 8); err != nil {
		return nil, err
	}
	if cfg.WorkEndHour, err = Int("WORK_END_HOUR", 18); err != nil {
		return nil, err
	}
	if cfg.SlotGranularityMin, err = Int("SLOT_GRANULARITY_MINUTES", 30); err != nil {
		return nil, err
	}
	if cfg.MorningCutoffHour, err = Int("MORNING_CUTOFF_HOUR", 13); err != nil {
		return nil, err
	}
	if cfg.RoadFactor, err = Float("ROAD_FACTOR", 1.3); err != nil {
		return nil, err
	}
	if cfg.AverageSpeedKmh, err = Float("AVERAGE_SPEED_KMH", 40); err != nil {
		return nil, err
	}
	if cfg.BetterSlotMinSavingsKm, err = Float("BETTER_SLOT_MIN_SAVINGS_KM", 1); err != nil {
		return nil, err
	}
	if cfg.RateLimitPerMinute, err = Int("RATE_LIMIT_PER_MINUTE", 120); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if _, err := c.Location(); err != nil {
		return err
	}
	if _, err := c.Window(); err != nil {
		return err
	}
	if c.RoadFactor < 1 {
		return fmt.Errorf("config: ROAD_FACTOR must be >= 1, got %v", c.RoadFactor)
	}
	if c.AverageSpeedKmh <= 0 {
		return fmt.Errorf("config: AVERAGE_SPEED_KMH must be positive, got %v", c.AverageSpeedKmh)
	}
	if c.BetterSlotMinSavingsKm < 0 {
		return fmt.Errorf("config: BETTER_SLOT_MIN_SAVINGS_KM must not be negative, got %v", c.BetterSlotMinSavingsKm)
	}
	return nil
}

// Location resolves TIMEZONE. Every day and clock value the service handles
// is interpreted in this single location.
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("config: load timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

func (c *Config) Window() (domain.WorkingWindow, error) {
	loc, err := c.Location()
	if err != nil {
		return domain.WorkingWindow{}, err
	}

	w := domain.WorkingWindow{
		StartHour:          c.WorkStartHour,
		EndHour:            c.WorkEndHour,
		GranularityMinutes: c.SlotGranularityMin,
		MorningCutoffHour:  c.MorningCutoffHour,
		Location:           loc,
	}
	if err := w.Validate(); err != nil {
		return domain.WorkingWindow{}, fmt.Errorf("config: %w", err)
	}
	return w, nil
}

func (c *Config) RouteParams() domain.RouteParams {
	return domain.RouteParams{RoadFactor: c.RoadFactor, AverageSpeedKmh: c.AverageSpeedKmh}
}

func (c *Config) SuggestionParams() domain.SuggestionParams {
	return domain.SuggestionParams{MinSavingsKm: c.BetterSlotMinSavingsKm}
}

// Get returns the trimmed value of key or fallback when unset.
func Get(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func Int(key string, fallback int) (int, error) {
	v := Get(key, "")
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("config: %s must be an integer (got %q)", key, v)
	}
	return n, nil
}

func Float(key string, fallback float64) (float64, error) {
	v := Get(key, "")
	if v == "" {
		return fallback, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("config: %s must be a number (got %q)", key, v)
	}
	return f, nil
}
