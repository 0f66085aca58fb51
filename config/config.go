package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/yeremiapane/resto-pos/utils"
	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type Config struct {
	Port      string
	GinMode   string
	DBDriver  string
	DBDSN     string
	JWTSecret string
	TokenTTL  time.Duration

	AMQPURL      string
	AMQPExchange string

	ReservationSweepInterval time.Duration

	RateLimitRPS   float64
	RateLimitBurst int

	SeedDevData bool

	RestaurantName string
	CORSOrigin     string
}

// Load reads .env (if present) and the process environment.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		utils.InfoLogger.Println("Warning: .env file not found")
	}

	cfg := &Config{
		Port:                     getEnv("PORT", "8080"),
		GinMode:                  os.Getenv("GIN_MODE"),
		DBDriver:                 strings.ToLower(getEnv("DB_DRIVER", "sqlite")),
		DBDSN:                    getEnv("DB_DSN", "resto.db"),
		JWTSecret:                os.Getenv("JWT_SECRET"),
		TokenTTL:                 getDuration("TOKEN_TTL", 24*time.Hour),
		AMQPURL:                  os.Getenv("AMQP_URL"),
		AMQPExchange:             getEnv("AMQP_EXCHANGE", "resto.events"),
		ReservationSweepInterval: getDuration("RESERVATION_SWEEP_INTERVAL", time.Minute),
		RateLimitRPS:             getFloat("RATE_LIMIT_RPS", 20),
		RateLimitBurst:           getInt("RATE_LIMIT_BURST", 40),
		SeedDevData:              getBool("SEED_DEV_DATA", false),
		RestaurantName:           getEnv("RESTAURANT_NAME", "Resto POS"),
		CORSOrigin:               os.Getenv("CORS_ORIGIN"),
	}

	if cfg.JWTSecret == "" {
		utils.InfoLogger.Warn("JWT_SECRET not set, using development secret")
		cfg.JWTSecret = "resto-pos-dev-secret"
	}
	return cfg
}

func (c *Config) Validate() error {
	switch c.DBDriver {
	case "sqlite", "mysql":
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DBDriver)
	}
	if c.DBDSN == "" {
		return fmt.Errorf("DB_DSN is empty")
	}
	if c.RateLimitRPS <= 0 || c.RateLimitBurst <= 0 {
		return fmt.Errorf("rate limit must be positive")
	}
	return nil
}

// InitDB opens the configured database.
func InitDB(cfg *Config) (*gorm.DB, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return OpenDB(cfg.DBDriver, cfg.DBDSN)
}

// OpenDB opens a GORM handle. SQLite connections get foreign keys and a busy
// timeout; a single connection is used so writers queue instead of failing
// with "database is locked".
func OpenDB(driver, dsn string) (*gorm.DB, error) {
	gcfg := &gorm.Config{
		TranslateError: true,
		Logger: logger.New(utils.InfoLogger, logger.Config{
			SlowThreshold:             500 * time.Millisecond,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
		}),
	}

	var dialector gorm.Dialector
	switch driver {
	case "mysql":
		dialector = mysql.Open(dsn)
	case "sqlite", "":
		dialector = sqlite.Open(sqliteDSN(dsn))
	default:
		return nil, fmt.Errorf("unsupported driver %q", driver)
	}

	db, err := gorm.Open(dialector, gcfg)
	if err != nil {
		return nil, err
	}

	if driver != "mysql" {
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		sqlDB.SetMaxOpenConns(1)
	}
	return db, nil
}

func sqliteDSN(dsn string) string {
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + "_foreign_keys=on&_busy_timeout=5000"
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		utils.ErrorLogger.Errorf("invalid %s=%q, using %s", key, v, fallback)
		return fallback
	}
	return d
}

func getInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		utils.ErrorLogger.Errorf("invalid %s=%q, using %d", key, v, fallback)
		return fallback
	}
	return n
}

func getFloat(key string, fallback float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		utils.ErrorLogger.Errorf("invalid %s=%q, using %v", key, v, fallback)
		return fallback
	}
	return f
}

func getBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}
