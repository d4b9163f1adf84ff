package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	JWT      JWTConfig
	Redis    RedisConfig
	Storage  StorageConfig
	Kafka    KafkaConfig
	Limits   LimitsConfig
}

type AppConfig struct {
	AppName        string
	Environment    string
	HTTPPort       string
	MigrationsDir  string
	ConfigFilePath string
}

type DatabaseConfig struct {
	DBHost     string
	DBPort     string
	DBName     string
	DBUser     string
	DBPassword string
	DBSSLMode  string

	ConnectTimeout        time.Duration
	PoolMaxConns          int32
	PoolMinConns          int32
	PoolMaxConnLifetime   time.Duration
	PoolMaxConnIdleTime   time.Duration
	PoolHealthCheckPeriod time.Duration
}

type JWTConfig struct {
	AccessSecret     string
	RefreshSecret    string
	AccessExpiresIn  time.Duration
	RefreshExpiresIn time.Duration
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	TTL      time.Duration
}

type StorageConfig struct {
	Type          string
	LocalPath     string
	PublicBaseURL string
	S3Bucket      string
	S3Region      string
	AWSAccessKey  string
	AWSSecretKey  string
}

type KafkaConfig struct {
	Brokers []string
	Topic   string
}

type LimitsConfig struct {
	RequestsPerMinute int
	RequestBurst      int
	MaxImageBytes     int64
	ReviewsPerCard    int
}

var errMissingRequiredEnv = errors.New("missing required environment variables")

func Load() (Config, error) {
	cfg := Config{}

	var missing []string
	var invalid []string
	req := func(key string) string {
		v := strings.TrimSpace(os.Getenv(key))
		if v == "" {
			missing = append(missing, key)
		}
		return v
	}
	opt := func(key string) string {
		return strings.TrimSpace(os.Getenv(key))
	}
	dur := func(key string, def time.Duration) time.Duration {
		raw := opt(key)
		if raw == "" {
			return def
		}
		d, err := time.ParseDuration(raw)
		if err != nil || d < 0 {
			invalid = append(invalid, key)
			return def
		}
		return d
	}
	num := func(key string, def int) int {
		raw := opt(key)
		if raw == "" {
			return def
		}
		v, err := strconv.Atoi(raw)
		if err != nil || v < 0 {
			invalid = append(invalid, key)
			return def
		}
		return v
	}

	cfg.App = AppConfig{
		AppName:        req("APP_NAME"),
		Environment:    req("APP_ENV"),
		HTTPPort:       req("HTTP_PORT"),
		MigrationsDir:  opt("MIGRATIONS_DIR"),
		ConfigFilePath: opt("APP_CONFIG_FILE"),
	}

	cfg.Database = DatabaseConfig{
		DBHost:     opt("DB_HOST"),
		DBPort:     opt("DB_PORT"),
		DBName:     opt("DB_NAME"),
		DBUser:     opt("DB_USER"),
		DBPassword: opt("DB_PASSWORD"),
		DBSSLMode:  opt("DB_SSL_MODE"),

		ConnectTimeout:        dur("DB_CONNECT_TIMEOUT", 5*time.Second),
		PoolMaxConns:          int32(num("DB_POOL_MAX_CONNS", 0)),
		PoolMinConns:          int32(num("DB_POOL_MIN_CONNS", 0)),
		PoolMaxConnLifetime:   dur("DB_POOL_MAX_CONN_LIFETIME", 0),
		PoolMaxConnIdleTime:   dur("DB_POOL_MAX_CONN_IDLE_TIME", 0),
		PoolHealthCheckPeriod: dur("DB_POOL_HEALTH_CHECK_PERIOD", 0),
	}

	cfg.JWT = JWTConfig{
		AccessSecret:     req("JWT_ACCESS_SECRET"),
		RefreshSecret:    req("JWT_REFRESH_SECRET"),
		AccessExpiresIn:  dur("JWT_ACCESS_EXPIRES_IN", 15*time.Minute),
		RefreshExpiresIn: dur("JWT_REFRESH_EXPIRES_IN", 7*24*time.Hour),
	}

	cfg.Redis = RedisConfig{
		Host:     opt("REDIS_HOST"),
		Port:     opt("REDIS_PORT"),
		Password: opt("REDIS_PASSWORD"),
		TTL:      dur("REDIS_TTL", 2*time.Minute),
	}

	cfg.Storage = StorageConfig{
		Type:          opt("STORAGE_TYPE"),
		LocalPath:     opt("STORAGE_LOCAL_PATH"),
		PublicBaseURL: opt("STORAGE_PUBLIC_BASE_URL"),
		S3Bucket:      opt("AWS_S3_BUCKET"),
		S3Region:      opt("AWS_REGION"),
		AWSAccessKey:  opt("AWS_ACCESS_KEY_ID"),
		AWSSecretKey:  opt("AWS_SECRET_ACCESS_KEY"),
	}
	if cfg.Storage.Type == "" {
		cfg.Storage.Type = "local"
	}

	cfg.Kafka = KafkaConfig{
		Brokers: splitList(opt("KAFKA_BROKERS")),
		Topic:   opt("KAFKA_TOPIC"),
	}
	if cfg.Kafka.Topic == "" {
		cfg.Kafka.Topic = "service-requests"
	}

	cfg.Limits = LimitsConfig{
		RequestsPerMinute: num("REQUEST_SUBMIT_PER_MINUTE", 30),
		RequestBurst:      num("REQUEST_SUBMIT_BURST", 3),
		MaxImageBytes:     int64(num("MAX_IMAGE_BYTES", 5<<20)),
		ReviewsPerCard:    num("REVIEWS_PER_CARD", 2),
	}

	if len(missing) > 0 {
		return Config{}, fmt.Errorf("%w: %s", errMissingRequiredEnv, strings.Join(missing, ", "))
	}
	if len(invalid) > 0 {
		return Config{}, fmt.Errorf("invalid environment values: %s", strings.Join(invalid, ", "))
	}

	if cfg.App.ConfigFilePath != "" {
		if err := ApplyFile(&cfg, cfg.App.ConfigFilePath); err != nil {
			return Config{}, err
		}
	}

	return cfg, nil
}

func splitList(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		out = append(out, p)
	}
	return out
}
