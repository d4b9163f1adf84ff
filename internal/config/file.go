package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// FileOverlay holds the tunables that may be kept in a YAML file instead of
// the environment. Secrets stay in the environment.
type FileOverlay struct {
	Cache struct {
		TTL string `yaml:"ttl"`
	} `yaml:"cache"`

	Limits struct {
		RequestsPerMinute int   `yaml:"requests_per_minute"`
		RequestBurst      int   `yaml:"request_burst"`
		MaxImageBytes     int64 `yaml:"max_image_bytes"`
		ReviewsPerCard    int   `yaml:"reviews_per_card"`
	} `yaml:"limits"`

	Kafka struct {
		Brokers []string `yaml:"brokers"`
		Topic   string   `yaml:"topic"`
	} `yaml:"kafka"`
}

// ApplyFile overlays non-zero values from the YAML file at path onto cfg.
// A missing file is not an error.
func ApplyFile(cfg *Config, path string) error {
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}

	var ov FileOverlay
	if err := yaml.Unmarshal(b, &ov); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}

	return ov.apply(cfg)
}

func (ov FileOverlay) apply(cfg *Config) error {
	if ov.Cache.TTL != "" {
		d, err := time.ParseDuration(ov.Cache.TTL)
		if err != nil || d <= 0 {
			return fmt.Errorf("cache.ttl must be a positive duration, got %q", ov.Cache.TTL)
		}
		cfg.Redis.TTL = d
	}

	if ov.Limits.RequestsPerMinute < 0 || ov.Limits.RequestBurst < 0 || ov.Limits.MaxImageBytes < 0 || ov.Limits.ReviewsPerCard < 0 {
		return errors.New("limits values must be >= 0")
	}
	if ov.Limits.RequestsPerMinute > 0 {
		cfg.Limits.RequestsPerMinute = ov.Limits.RequestsPerMinute
	}
	if ov.Limits.RequestBurst > 0 {
		cfg.Limits.RequestBurst = ov.Limits.RequestBurst
	}
	if ov.Limits.MaxImageBytes > 0 {
		cfg.Limits.MaxImageBytes = ov.Limits.MaxImageBytes
	}
	if ov.Limits.ReviewsPerCard > 0 {
		cfg.Limits.ReviewsPerCard = ov.Limits.ReviewsPerCard
	}

	if len(ov.Kafka.Brokers) > 0 {
		cfg.Kafka.Brokers = splitList(strings.Join(ov.Kafka.Brokers, ","))
	}
	if ov.Kafka.Topic != "" {
		cfg.Kafka.Topic = ov.Kafka.Topic
	}
	return nil
}
