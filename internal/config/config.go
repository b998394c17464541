package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	KafkaBrokers     []string
	KafkaSourceTopic string
	KafkaSinkTopic   string
	KafkaGroupID     string
	HTTPAddr         string
	LogLevel         string
	LogFormat        string
	ShutdownTimeout  time.Duration

	BatchSize          int
	BatchFlushInterval time.Duration

	// Band data provider configuration. With no API URL the provider runs
	// on synthetic data only.
	BandAPIURL    string
	BandTimeout   time.Duration
	BandCacheSize int

	// Weather provider configuration. Weather is optional; without an API
	// key the analysis runs with a nil snapshot.
	WeatherAPIURL  string
	WeatherAPIKey  string
	WeatherTimeout time.Duration
}

// Load reads configuration from the environment, applying defaults where
// unset. A .env file in the working directory is honoured when present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	shutdownTimeout, err := parseDuration("SHUTDOWN_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}
	batchSize, err := parsePositiveInt("BATCH_SIZE", 50)
	if err != nil {
		return nil, err
	}
	flushInterval, err := parseDuration("BATCH_FLUSH_INTERVAL", "500ms")
	if err != nil {
		return nil, err
	}
	bandTimeout, err := parseDuration("BAND_API_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}
	bandCacheSize, err := parsePositiveInt("BAND_CACHE_SIZE", 1000)
	if err != nil {
		return nil, err
	}
	weatherTimeout, err := parseDuration("WEATHER_API_TIMEOUT", "5s")
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		KafkaBrokers:       splitBrokers(envOrDefault("KAFKA_BROKERS", "localhost:9092")),
		KafkaSourceTopic:   envOrDefault("KAFKA_SOURCE_TOPIC", "farm-analysis-requests"),
		KafkaSinkTopic:     envOrDefault("KAFKA_SINK_TOPIC", "farm-analysis-reports"),
		KafkaGroupID:       envOrDefault("KAFKA_GROUP_ID", "agrisense-analysis"),
		HTTPAddr:           envOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:           envOrDefault("LOG_LEVEL", "info"),
		LogFormat:          envOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout:    shutdownTimeout,
		BatchSize:          batchSize,
		BatchFlushInterval: flushInterval,

		BandAPIURL:    os.Getenv("BAND_API_URL"),
		BandTimeout:   bandTimeout,
		BandCacheSize: bandCacheSize,

		WeatherAPIURL:  envOrDefault("WEATHER_API_URL", "https://api.openweathermap.org/data/2.5/weather"),
		WeatherAPIKey:  os.Getenv("WEATHER_API_KEY"),
		WeatherTimeout: weatherTimeout,
	}

	if len(cfg.KafkaBrokers) == 0 {
		return nil, errors.New("KAFKA_BROKERS is required")
	}
	if cfg.KafkaSourceTopic == "" {
		return nil, errors.New("KAFKA_SOURCE_TOPIC is required")
	}
	if cfg.KafkaSinkTopic == "" {
		return nil, errors.New("KAFKA_SINK_TOPIC is required")
	}

	return cfg, nil
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func splitBrokers(s string) []string {
	var brokers []string
	for _, b := range strings.Split(s, ",") {
		if b = strings.TrimSpace(b); b != "" {
			brokers = append(brokers, b)
		}
	}
	return brokers
}

func parseDuration(key, fallback string) (time.Duration, error) {
	d, err := time.ParseDuration(envOrDefault(key, fallback))
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return d, nil
}

func parsePositiveInt(key string, fallback int) (int, error) {
	s := os.Getenv(key)
	if s == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return n, nil
}
