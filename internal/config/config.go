// internal/config/config.go
package config

import (
	"log"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Database struct {
		URL string `mapstructure:"url"`
	} `mapstructure:"database"`
	Server struct {
		Port string `mapstructure:"port"`
	} `mapstructure:"server"`
	App struct {
		Name            string `mapstructure:"name"`
		FrontendURL     string `mapstructure:"frontend_url"`
		ChapterPageSize int    `mapstructure:"chapter_page_size"`
	} `mapstructure:"app"`
	Auth struct {
		Enabled bool `mapstructure:"enabled"`
	} `mapstructure:"auth"`
	JWT struct {
		SecretKey      string        `mapstructure:"secret_key"`
		AccessTokenTTL time.Duration `mapstructure:"access_token_ttl"`
	} `mapstructure:"jwt"`
	Mailer struct {
		Type string `mapstructure:"type"` // "log" or "ses"
	} `mapstructure:"mailer"`
	SES SESConfig `mapstructure:"ses"`
	CORS struct {
		AllowedOrigins   []string `mapstructure:"allowed_origins"`
		AllowedMethods   []string `mapstructure:"allowed_methods"`
		AllowedHeaders   []string `mapstructure:"allowed_headers"`
		ExposedHeaders   []string `mapstructure:"exposed_headers"`
		AllowCredentials bool     `mapstructure:"allow_credentials"`
		MaxAge           int      `mapstructure:"max_age"`
	} `mapstructure:"cors"`
	Log struct {
		Level string `mapstructure:"level"`
	} `mapstructure:"log"`
}

type SESConfig struct {
	Region          string `mapstructure:"region"`
	From            string `mapstructure:"from"`
	AuthType        string `mapstructure:"auth_type"` // "static_credentials" or "iam_role"
	AccessKeyID     string `mapstructure:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key"`
}

var Cfg Config

func LoadConfig(path string) error {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(path)
	viper.AddConfigPath(".")

	viper.SetEnvPrefix("APP")
	viper.AutomaticEnv()
	viper.BindEnv("database.url", "DATABASE_URL")
	viper.BindEnv("jwt.secret_key", "JWT_SECRET_KEY")
	viper.BindEnv("auth.enabled", "AUTH_ENABLED")
	viper.BindEnv("ses.access_key_id", "AWS_ACCESS_KEY_ID")
	viper.BindEnv("ses.secret_access_key", "AWS_SECRET_ACCESS_KEY")

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			log.Println("Warning: Config file not found. Using defaults and environment variables.")
		} else {
			log.Printf("Error reading config file: %s\n", err)
			return err
		}
	}

	if err := viper.Unmarshal(&Cfg); err != nil {
		log.Printf("Error unmarshalling config: %s\n", err)
		return err
	}

	// Defaults for anything the file or environment left unset.
	if Cfg.Server.Port == "" {
		Cfg.Server.Port = ":8080"
	}
	if Cfg.App.Name == "" {
		Cfg.App.Name = "filipiknow"
	}
	if Cfg.App.ChapterPageSize <= 0 {
		Cfg.App.ChapterPageSize = 100
	}
	if Cfg.JWT.AccessTokenTTL <= 0 {
		Cfg.JWT.AccessTokenTTL = 24 * time.Hour
	}
	if Cfg.Mailer.Type == "" {
		Cfg.Mailer.Type = "log"
	}
	if len(Cfg.CORS.AllowedOrigins) == 0 {
		// The game client and the dashboards are served from other origins.
		Cfg.CORS.AllowedOrigins = []string{"*"}
	}
	if len(Cfg.CORS.AllowedMethods) == 0 {
		Cfg.CORS.AllowedMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	}
	if len(Cfg.CORS.AllowedHeaders) == 0 {
		Cfg.CORS.AllowedHeaders = []string{"Accept", "Authorization", "Content-Type", "X-User-ID"}
	}
	if !viper.IsSet("auth.enabled") {
		Cfg.Auth.Enabled = true
	}
	if Cfg.Database.URL == "" {
		log.Println("Warning: Database URL is not set in config.")
	}

	log.Println("Config loaded successfully")
	return nil
}
