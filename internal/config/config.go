package config

import (
	"time"

	logx "github.com/sangkips/supermarket-api/pkg/logger"
	"github.com/spf13/viper"
)

type Config struct {
	App       AppConfig
	Storage   StorageConfig
	Database  DatabaseConfig
	Auth      AuthConfig
	CORS      CORSConfig
	RateLimit RateLimitConfig
	Email     EmailConfig
	Printer   PrinterConfig
	Redis     RedisConfig
	Inventory InventoryConfig
	Store     StoreConfig
}

type AppConfig struct {
	Name  string
	Env   string
	Port  string
	Debug bool
}

// StorageConfig selects where the catalog and bill history live.
// Driver is "json" (flat files under DataDir) or "postgres".
type StorageConfig struct {
	Driver       string
	DataDir      string
	SeedDefaults bool
	ReportsDir   string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	SSLMode  string
	Timezone string
}

type AuthConfig struct {
	Enabled          bool
	Secret           string
	ExpiryHours      time.Duration
	OperatorUsername string
	OperatorPassword string // bcrypt hash
}

type CORSConfig struct {
	AllowedOrigins []string
	AllowedMethods []string
	AllowedHeaders []string
}

type RateLimitConfig struct {
	Requests int
	Duration int
}

type EmailConfig struct {
	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	FromName     string
	FromEmail    string
	AlertTo      string
}

type PrinterConfig struct {
	Type      string
	USBPath   string
	Address   string
	CharWidth int
}

type RedisConfig struct {
	URL          string
	ReadTimeout  int
	WriteTimeout int
	DialTimeout  int
}

type InventoryConfig struct {
	DefaultMinStock   int
	ReorderFloor      int
	CriticalThreshold int
	LowThreshold      int
}

type StoreConfig struct {
	Name     string
	Address  string
	Phone    string
	TaxID    string
	Timezone string
}

func Load() *Config {
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		logx.Warn().Err(err).Msg(".env file not found, using environment variables")
	}

	setDefaults()

	return fromViper()
}

func setDefaults() {
	viper.SetDefault("APP_NAME", "supermarket-api")
	viper.SetDefault("APP_ENV", "development")
	viper.SetDefault("APP_PORT", "8000")
	viper.SetDefault("APP_DEBUG", true)
	viper.SetDefault("STORAGE_DRIVER", "json")
	viper.SetDefault("STORAGE_DATA_DIR", "./data")
	viper.SetDefault("STORAGE_SEED_DEFAULTS", true)
	viper.SetDefault("STORAGE_REPORTS_DIR", "./reports")
	viper.SetDefault("DB_HOST", "localhost")
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_NAME", "supermarket")
	viper.SetDefault("DB_USER", "postgres")
	viper.SetDefault("DB_PASSWORD", "postgres")
	viper.SetDefault("DB_SSL_MODE", "disable")
	viper.SetDefault("DB_TIMEZONE", "UTC")
	viper.SetDefault("AUTH_ENABLED", false)
	viper.SetDefault("JWT_SECRET", "change-this-secret-in-production")
	viper.SetDefault("JWT_EXPIRY_HOURS", 12)
	viper.SetDefault("OPERATOR_USERNAME", "admin")
	viper.SetDefault("OPERATOR_PASSWORD_HASH", "")
	viper.SetDefault("CORS_ALLOWED_ORIGINS", "*")
	viper.SetDefault("CORS_ALLOWED_HEADERS", []string{})
	viper.SetDefault("RATE_LIMIT_REQUESTS", 100)
	viper.SetDefault("RATE_LIMIT_DURATION", 60)
	viper.SetDefault("SMTP_HOST", "smtp.gmail.com")
	viper.SetDefault("SMTP_PORT", 587)
	viper.SetDefault("SMTP_FROM_NAME", "Supermarket Inventory System")
	viper.SetDefault("PRINTER_TYPE", "none")
	viper.SetDefault("PRINTER_CHAR_WIDTH", 32)
	viper.SetDefault("REDIS_READ_TIMEOUT", 3)
	viper.SetDefault("REDIS_WRITE_TIMEOUT", 3)
	viper.SetDefault("REDIS_DIAL_TIMEOUT", 5)
	viper.SetDefault("INVENTORY_DEFAULT_MIN_STOCK", 50)
	viper.SetDefault("INVENTORY_REORDER_FLOOR", 50)
	viper.SetDefault("INVENTORY_CRITICAL_THRESHOLD", 10)
	viper.SetDefault("INVENTORY_LOW_THRESHOLD", 50)
	viper.SetDefault("STORE_NAME", "SUPERMARKET BILLING SYSTEM")
	viper.SetDefault("STORE_TIMEZONE", "Local")
}

func fromViper() *Config {
	return &Config{
		App: AppConfig{
			Name:  viper.GetString("APP_NAME"),
			Env:   viper.GetString("APP_ENV"),
			Port:  viper.GetString("APP_PORT"),
			Debug: viper.GetBool("APP_DEBUG"),
		},
		Storage: StorageConfig{
			Driver:       viper.GetString("STORAGE_DRIVER"),
			DataDir:      viper.GetString("STORAGE_DATA_DIR"),
			SeedDefaults: viper.GetBool("STORAGE_SEED_DEFAULTS"),
			ReportsDir:   viper.GetString("STORAGE_REPORTS_DIR"),
		},
		Database: DatabaseConfig{
			Host:     viper.GetString("DB_HOST"),
			Port:     viper.GetString("DB_PORT"),
			Name:     viper.GetString("DB_NAME"),
			User:     viper.GetString("DB_USER"),
			Password: viper.GetString("DB_PASSWORD"),
			SSLMode:  viper.GetString("DB_SSL_MODE"),
			Timezone: viper.GetString("DB_TIMEZONE"),
		},
		Auth: AuthConfig{
			Enabled:          viper.GetBool("AUTH_ENABLED"),
			Secret:           viper.GetString("JWT_SECRET"),
			ExpiryHours:      time.Duration(viper.GetInt("JWT_EXPIRY_HOURS")) * time.Hour,
			OperatorUsername: viper.GetString("OPERATOR_USERNAME"),
			OperatorPassword: viper.GetString("OPERATOR_PASSWORD_HASH"),
		},
		CORS: CORSConfig{
			AllowedOrigins: viper.GetStringSlice("CORS_ALLOWED_ORIGINS"),
			AllowedMethods: viper.GetStringSlice("CORS_ALLOWED_METHODS"),
			AllowedHeaders: viper.GetStringSlice("CORS_ALLOWED_HEADERS"),
		},
		RateLimit: RateLimitConfig{
			Requests: viper.GetInt("RATE_LIMIT_REQUESTS"),
			Duration: viper.GetInt("RATE_LIMIT_DURATION"),
		},
		Email: EmailConfig{
			SMTPHost:     viper.GetString("SMTP_HOST"),
			SMTPPort:     viper.GetInt("SMTP_PORT"),
			SMTPUsername: viper.GetString("SMTP_USERNAME"),
			SMTPPassword: viper.GetString("SMTP_PASSWORD"),
			FromName:     viper.GetString("SMTP_FROM_NAME"),
			FromEmail:    viper.GetString("SMTP_FROM_EMAIL"),
			AlertTo:      viper.GetString("ALERT_TO_EMAIL"),
		},
		Printer: PrinterConfig{
			Type:      viper.GetString("PRINTER_TYPE"),
			USBPath:   viper.GetString("PRINTER_USB_PATH"),
			Address:   viper.GetString("PRINTER_ADDRESS"),
			CharWidth: viper.GetInt("PRINTER_CHAR_WIDTH"),
		},
		Redis: RedisConfig{
			URL:          viper.GetString("REDIS_URL"),
			ReadTimeout:  viper.GetInt("REDIS_READ_TIMEOUT"),
			WriteTimeout: viper.GetInt("REDIS_WRITE_TIMEOUT"),
			DialTimeout:  viper.GetInt("REDIS_DIAL_TIMEOUT"),
		},
		Inventory: InventoryConfig{
			DefaultMinStock:   viper.GetInt("INVENTORY_DEFAULT_MIN_STOCK"),
			ReorderFloor:      viper.GetInt("INVENTORY_REORDER_FLOOR"),
			CriticalThreshold: viper.GetInt("INVENTORY_CRITICAL_THRESHOLD"),
			LowThreshold:      viper.GetInt("INVENTORY_LOW_THRESHOLD"),
		},
		Store: StoreConfig{
			Name:     viper.GetString("STORE_NAME"),
			Address:  viper.GetString("STORE_ADDRESS"),
			Phone:    viper.GetString("STORE_PHONE"),
			TaxID:    viper.GetString("STORE_TAX_ID"),
			Timezone: viper.GetString("STORE_TIMEZONE"),
		},
	}
}

func (c *DatabaseConfig) DSN() string {
	return "host=" + c.Host +
		" user=" + c.User +
		" password=" + c.Password +
		" dbname=" + c.Name +
		" port=" + c.Port +
		" sslmode=" + c.SSLMode +
		" TimeZone=" + c.Timezone
}

// Location resolves the store timezone used for calendar-day reporting.
func (c *StoreConfig) Location() *time.Location {
	if c.Timezone == "" || c.Timezone == "Local" {
		return time.Local
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		logx.Warn().Err(err).Str("timezone", c.Timezone).Msg("unknown STORE_TIMEZONE, falling back to local time")
		return time.Local
	}
	return loc
}
