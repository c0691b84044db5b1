package utils

import (
	"github.com/spf13/viper"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Platform PlatformConfig
	Email    EmailConfig
}

type AppConfig struct {
	Name    string
	Port    string
	Debug   bool
	LogPath string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	MaxConns int32
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	TTLSecs  int
}

// PlatformConfig holds the marketplace business knobs.
type PlatformConfig struct {
	CommissionRate     float64
	SearchRadiusKm     float64
	SearchResultCap    int
	SearchCandidateCap int
	MinDescriptionLen  int
}

type EmailConfig struct {
	Host string
	Port int
	From string
}

func LoadConfig() (*Config, error) {
	viper.SetConfigFile(".env")
	viper.SetConfigType("env")

	// Set defaults
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("DEBUG", false)
	viper.SetDefault("DB_MAX_CONNS", 10)
	viper.SetDefault("LOG_PATH", "logs/")
	viper.SetDefault("REDIS_TTL_SECS", 60)
	viper.SetDefault("COMMISSION_RATE", 0.15)
	viper.SetDefault("SEARCH_RADIUS_KM", 50.0)
	viper.SetDefault("SEARCH_RESULT_CAP", 100)
	viper.SetDefault("SEARCH_CANDIDATE_CAP", 500)
	viper.SetDefault("MIN_DESCRIPTION_LEN", 10)

	if err := viper.ReadInConfig(); err != nil {
		return nil, err
	}

	viper.AutomaticEnv()

	config := &Config{
		App: AppConfig{
			Name:    viper.GetString("APP_NAME"),
			Port:    viper.GetString("PORT"),
			Debug:   viper.GetBool("DEBUG"),
			LogPath: viper.GetString("LOG_PATH"),
		},
		Database: DatabaseConfig{
			Host:     viper.GetString("DB_HOST"),
			Port:     viper.GetString("DB_PORT"),
			Name:     viper.GetString("DB_NAME"),
			User:     viper.GetString("DB_USER"),
			Password: viper.GetString("DB_PASS"),
			MaxConns: viper.GetInt32("DB_MAX_CONNS"),
		},
		Redis: RedisConfig{
			Addr:     viper.GetString("REDIS_ADDR"),
			Password: viper.GetString("REDIS_PASS"),
			DB:       viper.GetInt("REDIS_DB"),
			TTLSecs:  viper.GetInt("REDIS_TTL_SECS"),
		},
		Platform: PlatformConfig{
			CommissionRate:     viper.GetFloat64("COMMISSION_RATE"),
			SearchRadiusKm:     viper.GetFloat64("SEARCH_RADIUS_KM"),
			SearchResultCap:    viper.GetInt("SEARCH_RESULT_CAP"),
			SearchCandidateCap: viper.GetInt("SEARCH_CANDIDATE_CAP"),
			MinDescriptionLen:  viper.GetInt("MIN_DESCRIPTION_LEN"),
		},
		Email: EmailConfig{
			Host: viper.GetString("SMTP_HOST"),
			Port: viper.GetInt("SMTP_PORT"),
			From: viper.GetString("EMAIL_FROM"),
		},
	}

	return config, nil
}
