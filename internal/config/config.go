package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/mitchellh/mapstructure"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

type Config struct {
	App            App            `mapstructure:",squash"`
	Server         Server         `mapstructure:",squash"`
	Database       Database       `mapstructure:",squash"`
	Session        Session        `mapstructure:",squash"`
	LowStockAlerts LowStockAlerts `mapstructure:",squash"`
	SessionCleanup SessionCleanup `mapstructure:",squash"`
	Events         Events         `mapstructure:",squash"`
	SecretKey      string         `mapstructure:"secret_key"`
}

type App struct {
	LogLevel string `mapstructure:"log_level"`
	Env      string `mapstructure:"app_env"`
}

type Server struct {
	Host           string   `mapstructure:"host"`
	Port           string   `mapstructure:"port"`
	AllowedOrigins []string `mapstructure:"cors_allowed_origins"`
}

type Database struct {
	DSN      string `mapstructure:"-"`
	URL      string `mapstructure:"database_url"`
	Host     string `mapstructure:"db_host"`
	Port     string `mapstructure:"db_port"`
	User     string `mapstructure:"db_user"`
	Password string `mapstructure:"db_password"`
	Name     string `mapstructure:"db_name"`
	SSLMode  string `mapstructure:"db_sslmode"`
}

type Session struct {
	TTL          time.Duration `mapstructure:"session_ttl"`
	CookieName   string        `mapstructure:"session_cookie_name"`
	CookieSecure bool          `mapstructure:"session_cookie_secure"`
}

type LowStockAlerts struct {
	CronSchedule string `mapstructure:"low_stock_alerts_cron"`
	Enabled      bool   `mapstructure:"low_stock_alerts_enabled"`
}

type SessionCleanup struct {
	CronSchedule string `mapstructure:"session_cleanup_cron"`
	Enabled      bool   `mapstructure:"session_cleanup_enabled"`
}

type Events struct {
	AMQPURL  string `mapstructure:"events_amqp_url"`
	Exchange string `mapstructure:"events_exchange"`
}

func SetDefaults() {
	viper.SetDefault("HOST", "localhost")
	viper.SetDefault("PORT", 8000)
	viper.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:5173,http://localhost:3000")

	viper.SetDefault("DATABASE_URL", "")
	viper.SetDefault("DB_HOST", "localhost")
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_USER", "postgres")
	viper.SetDefault("DB_PASSWORD", "root")
	viper.SetDefault("DB_NAME", "business_manager")
	viper.SetDefault("DB_SSLMODE", "disable")

	viper.SetDefault("SECRET_KEY", "your_secret_key")

	viper.SetDefault("SESSION_TTL", "24h")
	viper.SetDefault("SESSION_COOKIE_NAME", "session")
	viper.SetDefault("SESSION_COOKIE_SECURE", false)

	viper.SetDefault("LOW_STOCK_ALERTS_CRON", "0 7 * * *") // Todos os dias às 7h
	viper.SetDefault("LOW_STOCK_ALERTS_ENABLED", false)

	viper.SetDefault("SESSION_CLEANUP_CRON", "0 * * * *") // A cada hora
	viper.SetDefault("SESSION_CLEANUP_ENABLED", true)

	viper.SetDefault("EVENTS_AMQP_URL", "") // Vazio desabilita a publicação de eventos
	viper.SetDefault("EVENTS_EXCHANGE", "business.events")

	viper.SetDefault("LOG_LEVEL", "debug")
	viper.SetDefault("APP_ENV", "development")
}

func NewConfig() (*Config, error) {
	loadEnvFile() // ONLY LOCAL

	config := &Config{}

	SetDefaults()

	viper.SetConfigType("env")
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		logrus.Info("Usando variáveis carregadas pelo godotenv (viper não conseguiu ler .env):", err)
	} else {
		logrus.Info("Arquivo .env lido pelo Viper com sucesso")
	}

	err := viper.Unmarshal(&config, viper.DecodeHook(
		mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
	))
	if err != nil {
		return nil, err
	}

	config.Database.DSN = config.Database.BuildDSN()

	return config, nil
}

// BuildDSN usa DATABASE_URL quando informada, senão monta a URL a partir das partes DB_*
func (d Database) BuildDSN() string {
	if d.URL != "" {
		return d.URL
	}

	dsn := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(d.User, d.Password),
		Host:   fmt.Sprintf("%s:%s", d.Host, d.Port),
		Path:   "/" + d.Name,
	}

	if d.SSLMode != "" {
		query := dsn.Query()
		query.Set("sslmode", d.SSLMode)
		dsn.RawQuery = query.Encode()
	}

	return dsn.String()
}

// Função auxiliar para carregar o arquivo .env usando godotenv
func loadEnvFile() {
	cwd, err := os.Getwd()
	if err != nil {
		logrus.Warn("Não foi possível obter o diretório atual:", err)
		return
	}

	locations := []string{
		filepath.Join(cwd, ".env"),
		filepath.Join(filepath.Dir(cwd), ".env"),
		filepath.Join(cwd, "../../.env"),
	}

	for _, location := range locations {
		err := godotenv.Load(location)
		if err == nil {
			logrus.Info("Arquivo .env carregado com sucesso de:", location)
			return
		}
	}

	logrus.Warn("Não foi possível carregar o arquivo .env de nenhuma localização conhecida")
}
