package config

import (
	"fmt"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

type HTTPConfig struct {
	Host         string
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

type PostgresConfig struct {
	DSN             string
	MaxOpen         int
	MaxIdle         int
	ConnMaxLifetime time.Duration
	QueryTimeout    time.Duration
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type StorageConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
	Region    string
}

type SecurityConfig struct {
	JWTSecret string
}

type DetectionConfig struct {
	InferenceURL        string
	ConfidenceThreshold float64
	Timeout             time.Duration
	Labels              []string
	EventStream         string
	ArchiveUploads      bool
}

type ScratchConfig struct {
	Dir      string
	SweepAge time.Duration
}

type FreshnessConfig struct {
	Timezone    string
	DefaultDays int
	Lookahead   time.Duration
	ShelfLife   map[string]int
}

type AppConfig struct {
	Environment      string
	HTTP             HTTPConfig
	Postgres         PostgresConfig
	Redis            RedisConfig
	Storage          StorageConfig
	Security         SecurityConfig
	Detection        DetectionConfig
	Scratch          ScratchConfig
	Freshness        FreshnessConfig
	AllowCORSOrigins []string
}

func Load() (*AppConfig, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("../config")

	v.SetEnvPrefix("FRESHTRACK")
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("load config file: %w", err)
		}
	}

	var cfg AppConfig
	if err := v.Unmarshal(&cfg, func(dc *mapstructure.DecoderConfig) {
		dc.TagName = "mapstructure"
		dc.DecodeHook = mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		)
	}); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("environment", "development")

	v.SetDefault("http.host", "0.0.0.0")
	v.SetDefault("http.port", 5000)
	v.SetDefault("http.readtimeout", "10s")
	v.SetDefault("http.writetimeout", "15s")
	v.SetDefault("http.idletimeout", "60s")

	v.SetDefault("postgres.maxopen", 30)
	v.SetDefault("postgres.maxidle", 10)
	v.SetDefault("postgres.connmaxlifetime", "30m")
	v.SetDefault("postgres.querytimeout", "5s")

	v.SetDefault("redis.addr", "127.0.0.1:6379")
	v.SetDefault("redis.db", 0)

	v.SetDefault("storage.bucket", "freshtrack-uploads")
	v.SetDefault("storage.usessl", false)
	v.SetDefault("storage.region", "us-east-1")

	v.SetDefault("detection.inferenceurl", "http://127.0.0.1:8501")
	v.SetDefault("detection.confidencethreshold", 0.3)
	v.SetDefault("detection.timeout", "30s")
	v.SetDefault("detection.labels", []string{"apel", "wortel", "tomat", "pisang", "semangka"})
	v.SetDefault("detection.eventstream", "detect:events")
	v.SetDefault("detection.archiveuploads", false)

	v.SetDefault("scratch.dir", "uploads")
	v.SetDefault("scratch.sweepage", "1h")

	v.SetDefault("freshness.timezone", "Asia/Jakarta")
	v.SetDefault("freshness.defaultdays", 5)
	v.SetDefault("freshness.lookahead", "48h")
	v.SetDefault("freshness.shelflife", map[string]int{
		"apel":     6,
		"wortel":   7,
		"tomat":    5,
		"pisang":   4,
		"semangka": 1,
	})
}
