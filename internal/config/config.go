package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server   ServerConfig   `yaml:"server"`
	WhatsApp WhatsAppConfig `yaml:"whatsapp"`
	Catalog  CatalogConfig  `yaml:"catalog"`
	Pricing  PricingConfig  `yaml:"pricing"`
	Loyalty  LoyaltyConfig  `yaml:"loyalty"`
	Schedule ScheduleConfig `yaml:"schedule"`
	Storage  StorageConfig  `yaml:"storage"`
	Redis    RedisConfig    `yaml:"redis"`
	Database DatabaseConfig `yaml:"database"`
	RabbitMQ RabbitMQConfig `yaml:"rabbitmq"`
}

type ServerConfig struct {
	Port int `yaml:"port"`
}

type WhatsAppConfig struct {
	APIBaseURL    string `yaml:"api_base_url"`
	PhoneNumberID string `yaml:"phone_number_id"`
	CatalogID     string `yaml:"catalog_id"`
	// Secrets come from the environment, never from the file.
	AccessToken string `yaml:"-"`
	VerifyToken string `yaml:"-"`
}

type CatalogConfig struct {
	RefreshTTLMinutes     int `yaml:"refresh_ttl_minutes"`
	RequestTimeoutSeconds int `yaml:"request_timeout_seconds"`
}

type PricingConfig struct {
	FreeDeliveryThresholdPaise int64 `yaml:"free_delivery_threshold_paise"`
	DeliveryFeePaise           int64 `yaml:"delivery_fee_paise"`
	TaxRatePercent             int64 `yaml:"tax_rate_percent"`
	DefaultPricePaise          int64 `yaml:"default_price_paise"`
}

type LoyaltyConfig struct {
	WelcomeBonus   int `yaml:"welcome_bonus"`
	FeedbackBonus  int `yaml:"feedback_bonus"`
	ComplaintBonus int `yaml:"complaint_bonus"`
}

type ScheduleConfig struct {
	PreparingAfterSeconds      int `yaml:"preparing_after_seconds"`
	OutForDeliveryAfterSeconds int `yaml:"out_for_delivery_after_seconds"`
	DeliveredAfterSeconds      int `yaml:"delivered_after_seconds"`
	FeedbackAfterSeconds       int `yaml:"feedback_after_seconds"`
	PaymentDelaySeconds        int `yaml:"payment_delay_seconds"`
	EstimatedDeliveryMinutes   int `yaml:"estimated_delivery_minutes"`
}

type StorageConfig struct {
	// Sessions: "memory" (default) or "redis".
	Sessions string `yaml:"sessions"`
	// Orders: "memory" (default) or "postgres".
	Orders string `yaml:"orders"`
}

type RedisConfig struct {
	Addr              string `yaml:"addr"`
	SessionTTLMinutes int    `yaml:"session_ttl_minutes"`
}

type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"-"`
	Database string `yaml:"database"`
}

type RabbitMQConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"-"`
}

// Load reads the YAML config file and applies environment overrides for
// secrets and deploy-specific values.
func Load(path string) (*Config, error) {
	cfg := defaults()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.WhatsApp.AccessToken = getenv("WHATSAPP_ACCESS_TOKEN", "")
	cfg.WhatsApp.VerifyToken = getenv("WHATSAPP_VERIFY_TOKEN", "change-me")
	cfg.Database.Password = getenv("POSTGRES_PASSWORD", "")
	cfg.RabbitMQ.Password = getenv("RABBITMQ_PASSWORD", "guest")
	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		cfg.Redis.Addr = addr
	}

	return cfg, nil
}

func defaults() *Config {
	return &Config{
		Server:   ServerConfig{Port: 3000},
		WhatsApp: WhatsAppConfig{APIBaseURL: "https://graph.facebook.com/v18.0"},
		Catalog:  CatalogConfig{RefreshTTLMinutes: 30, RequestTimeoutSeconds: 10},
		Pricing: PricingConfig{
			FreeDeliveryThresholdPaise: 50000,
			DeliveryFeePaise:           4000,
			TaxRatePercent:             5,
			DefaultPricePaise:          9900,
		},
		Loyalty: LoyaltyConfig{WelcomeBonus: 100, FeedbackBonus: 25, ComplaintBonus: 50},
		Schedule: ScheduleConfig{
			PreparingAfterSeconds:      30,
			OutForDeliveryAfterSeconds: 120,
			DeliveredAfterSeconds:      300,
			FeedbackAfterSeconds:       330,
			PaymentDelaySeconds:        2,
			EstimatedDeliveryMinutes:   45,
		},
		Storage: StorageConfig{Sessions: "memory", Orders: "memory"},
		Redis:   RedisConfig{Addr: "localhost:6379", SessionTTLMinutes: 1440},
		Database: DatabaseConfig{
			Host: "localhost", Port: 5432, User: "zenocon", Database: "zenocon",
		},
		RabbitMQ: RabbitMQConfig{Host: "localhost", Port: 5672, User: "guest"},
	}
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// Duration helpers so services receive time.Duration, not raw ints.

func (c CatalogConfig) RefreshTTL() time.Duration {
	return time.Duration(c.RefreshTTLMinutes) * time.Minute
}

func (c CatalogConfig) RequestTimeout() time.Duration {
	return time.Duration(c.RequestTimeoutSeconds) * time.Second
}

func (c ScheduleConfig) PreparingAfter() time.Duration {
	return time.Duration(c.PreparingAfterSeconds) * time.Second
}

func (c ScheduleConfig) OutForDeliveryAfter() time.Duration {
	return time.Duration(c.OutForDeliveryAfterSeconds) * time.Second
}

func (c ScheduleConfig) DeliveredAfter() time.Duration {
	return time.Duration(c.DeliveredAfterSeconds) * time.Second
}

func (c ScheduleConfig) FeedbackAfter() time.Duration {
	return time.Duration(c.FeedbackAfterSeconds) * time.Second
}

func (c ScheduleConfig) PaymentDelay() time.Duration {
	return time.Duration(c.PaymentDelaySeconds) * time.Second
}

func (c ScheduleConfig) EstimatedDelivery() time.Duration {
	return time.Duration(c.EstimatedDeliveryMinutes) * time.Minute
}

func (c RedisConfig) SessionTTL() time.Duration {
	return time.Duration(c.SessionTTLMinutes) * time.Minute
}
