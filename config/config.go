package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Log       Logger         `mapstructure:"logger"`
	DB        Database       `mapstructure:"database"`
	API       API            `mapstructure:"api"`
	Cache     Cache          `mapstructure:"cache"`
	Generator Generator      `mapstructure:"generator"`
	Reminder  Reminder       `mapstructure:"reminder"`
	WhatsApp  WhatsAppConfig `mapstructure:"whatsapp"`
}

type Logger struct {
	Level    string `mapstructure:"level"`
	Encoding string `mapstructure:"encoding"`
}

type Database struct {
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	User            string `mapstructure:"user"`
	Password        string `mapstructure:"password"`
	DBName          string `mapstructure:"name"`
	SSLMode         string `mapstructure:"ssl_mode"`
	TimeZone        string `mapstructure:"time_zone"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`
	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	ConnMaxLifetime string `mapstructure:"conn_max_lifetime"`
	LogLevel        string `mapstructure:"log_level"`
}

type API struct {
	Port int `mapstructure:"port"`
}

type Cache struct {
	DefaultExpiration time.Duration `mapstructure:"default_expiration"`
	CleanupInterval   time.Duration `mapstructure:"cleanup_interval"`
}

// Generator bounds how far ahead executions are materialized for
// templates without an end date.
type Generator struct {
	HorizonMonths int `mapstructure:"horizon_months"`
}

type Reminder struct {
	Enabled        bool   `mapstructure:"enabled"`
	CronSpec       string `mapstructure:"cron_spec"`
	MaxConcurrency int    `mapstructure:"max_concurrency"`
	SendPerSecond  int    `mapstructure:"send_per_second"`
}

type WhatsAppConfig struct {
	BaseURL         string        `mapstructure:"base_url"`
	APIToken        string        `mapstructure:"api_token"`
	TimeoutDuration time.Duration `mapstructure:"timeout_duration"`
}

func Load() (*Config, error) {
	// Local development keeps secrets in .env; in other environments the
	// file is simply absent.
	_ = godotenv.Load()

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AddConfigPath(".")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		fmt.Println("No config file loaded:", err)
	}

	setDefaults()

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func setDefaults() {
	viper.SetDefault("logger.level", "info")
	viper.SetDefault("logger.encoding", "json")
	viper.SetDefault("api.port", 8080)
	viper.SetDefault("cache.default_expiration", 5*time.Minute)
	viper.SetDefault("cache.cleanup_interval", 10*time.Minute)
	viper.SetDefault("generator.horizon_months", 24)
	viper.SetDefault("reminder.cron_spec", "*/15 * * * *")
	viper.SetDefault("reminder.max_concurrency", 5)
	viper.SetDefault("reminder.send_per_second", 2)
}
