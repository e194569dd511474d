package config

import (
	"log"

	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	AppPort           string `mapstructure:"APP_PORT"`
	DatabaseURL       string `mapstructure:"DATABASE_URL"`
	DatabaseName      string `mapstructure:"DATABASE_NAME"`
	Env               string `mapstructure:"ENV"`
	JWTSecret         string `mapstructure:"JWT_SECRET"`
	LogLevel          string `mapstructure:"LOG_LEVEL"`
	MaxRequestsPerMin int    `mapstructure:"MAX_REQUESTS_PER_MIN"`

	// Redis configuration.
	RedisAddr    string `mapstructure:"REDIS_ADDR"`
	RedisPass    string `mapstructure:"REDIS_PASSWORD"`
	RedisKVDB    int    `mapstructure:"REDIS_KV_DB"`
	RedisQueueDB int    `mapstructure:"REDIS_QUEUE_DB"`

	// Scheduling policy. Business hours are wall-clock HH:mm bounds; every
	// appointment slot must lie fully inside them. The source deployments
	// drifted between 09:00-17:00, 09:00-19:00 and 08:00-17:00 windows; the
	// canonical default here is 09:00-17:00 with 30-minute slot increments.
	BusinessHoursStart string `mapstructure:"BUSINESS_HOURS_START"`
	BusinessHoursEnd   string `mapstructure:"BUSINESS_HOURS_END"`
	SlotMinutes        int    `mapstructure:"SLOT_MINUTES"`
	SlotCapacity       int    `mapstructure:"SLOT_CAPACITY"`
	SweepIntervalMin   int    `mapstructure:"SWEEP_INTERVAL_MIN"`

	// Outbound email (SMTP).
	SMTPHost   string `mapstructure:"SMTP_HOST"`
	SMTPPort   string `mapstructure:"SMTP_PORT"`
	SMTPFrom   string `mapstructure:"SMTP_FROM"`
	ClinicName string `mapstructure:"CLINIC_NAME"`
}

var AppConfig Config

func LoadConfig() {
	// Look for a config file named "config.yaml" in the current and "config" directory.
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	// Automatically use environment variables where available.
	viper.AutomaticEnv()

	// Set default values.
	viper.SetDefault("APP_PORT", "8080")
	viper.SetDefault("ENV", "development")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("MAX_REQUESTS_PER_MIN", 100)
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_KV_DB", 0)
	viper.SetDefault("REDIS_QUEUE_DB", 1)
	viper.SetDefault("DATABASE_URL", "mongodb://localhost:27017")
	viper.SetDefault("DATABASE_NAME", "clinicore")
	viper.SetDefault("BUSINESS_HOURS_START", "09:00")
	viper.SetDefault("BUSINESS_HOURS_END", "17:00")
	viper.SetDefault("SLOT_MINUTES", 30)
	viper.SetDefault("SLOT_CAPACITY", 2)
	viper.SetDefault("SWEEP_INTERVAL_MIN", 15)
	viper.SetDefault("SMTP_HOST", "localhost")
	viper.SetDefault("SMTP_PORT", "1025")
	viper.SetDefault("SMTP_FROM", "no-reply@clinicore.local")
	viper.SetDefault("CLINIC_NAME", "Clinicore Dental Clinic")

	if err := viper.ReadInConfig(); err != nil {
		log.Println("No config file found, using environment variables only")
	}

	if err := viper.Unmarshal(&AppConfig); err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
}

func GetEnv() string {
	return AppConfig.Env
}

func IsProduction() bool {
	return GetEnv() == "production"
}
