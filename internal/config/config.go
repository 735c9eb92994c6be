package config

import (
	"database/sql"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/glebarez/sqlite"
	gomysql "github.com/go-sql-driver/mysql"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	sdk "github.com/matrixorigin/moi-go-sdk"
	"gopkg.in/yaml.v3"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Log      LogConfig      `yaml:"log"`
	Auth     AuthConfig     `yaml:"auth"`
	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
	Discord  DiscordConfig  `yaml:"discord"`
	Reminder ReminderConfig `yaml:"reminder"`
	AI       AIConfig       `yaml:"ai"`
	MOI      MOIConfig      `yaml:"moi"`
}

type LogConfig struct {
	Level      string `yaml:"level" envconfig:"LOG_LEVEL"`
	File       string `yaml:"file" envconfig:"LOG_FILE"`
	Console    bool   `yaml:"console" envconfig:"LOG_CONSOLE"`
	MaxSizeMB  int    `yaml:"max_size_mb" envconfig:"LOG_MAX_SIZE_MB"`
	MaxBackups int    `yaml:"max_backups" envconfig:"LOG_MAX_BACKUPS"`
	MaxAgeDays int    `yaml:"max_age_days" envconfig:"LOG_MAX_AGE_DAYS"`
}

type ServerConfig struct {
	Port int `yaml:"port" envconfig:"PORT"`
	// RateLimit is requests per minute per client IP on auth and analysis routes.
	RateLimit int `yaml:"rate_limit" envconfig:"RATE_LIMIT"`
	// TrustedProxies are the CIDRs or IPs whose X-Forwarded-For is believed.
	// Empty trusts none, so the client IP is the TCP peer.
	TrustedProxies []string `yaml:"trusted_proxies" envconfig:"TRUSTED_PROXIES"`
}

type AuthConfig struct {
	JWTSecret string        `yaml:"jwt_secret" envconfig:"JWT_SECRET"`
	TokenTTL  time.Duration `yaml:"token_ttl" envconfig:"JWT_TTL"`
}

type DatabaseConfig struct {
	// Driver is one of mysql, postgres, sqlite.
	Driver   string `yaml:"driver" envconfig:"DB_DRIVER"`
	DSN      string `yaml:"dsn" envconfig:"DB_DSN"`
	Host     string `yaml:"host" envconfig:"DB_HOST"`
	Port     int    `yaml:"port" envconfig:"DB_PORT"`
	User     string `yaml:"user" envconfig:"DB_USER"`
	Password string `yaml:"password" envconfig:"DB_PASS"`
	Name     string `yaml:"name" envconfig:"DB_NAME"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr" envconfig:"REDIS_ADDR"`
	Password string `yaml:"password" envconfig:"REDIS_PASSWORD"`
	DB       int    `yaml:"db" envconfig:"REDIS_DB"`
}

type DiscordConfig struct {
	WebhookURL string        `yaml:"webhook_url" envconfig:"DISCORD_WEBHOOK_URL"`
	Timeout    time.Duration `yaml:"timeout" envconfig:"DISCORD_TIMEOUT"`
}

type ReminderConfig struct {
	Enabled  bool   `yaml:"enabled" envconfig:"REMINDER_ENABLED"`
	Timezone string `yaml:"timezone" envconfig:"REMINDER_TZ"`
	Daily    string `yaml:"daily" envconfig:"REMINDER_DAILY"`
	Weekly   string `yaml:"weekly" envconfig:"REMINDER_WEEKLY"`
	AppURL   string `yaml:"app_url" envconfig:"APP_URL"`
}

type AIConfig struct {
	BaseURL string        `yaml:"base_url" envconfig:"AI_BASE_URL"`
	APIKey  string        `yaml:"api_key" envconfig:"AI_API_KEY"`
	Model   string        `yaml:"model" envconfig:"AI_MODEL"`
	Timeout time.Duration `yaml:"timeout" envconfig:"AI_TIMEOUT"`
}

type MOIConfig struct {
	BaseURL    string `yaml:"base_url" envconfig:"MOI_BASE_URL"`
	APIKey     string `yaml:"api_key" envconfig:"MOI_API_KEY"`
	CatalogID  int64  `yaml:"catalog_id" envconfig:"MOI_CATALOG_ID"`
	DatabaseID int64  `yaml:"database_id" envconfig:"MOI_DATABASE_ID"`
	// DailyKPITableID is the catalog table the daily records are mirrored into.
	DailyKPITableID int64 `yaml:"daily_kpi_table_id" envconfig:"MOI_DAILY_KPI_TABLE_ID"`
}

func Default() *Config {
	return &Config{
		Server:   ServerConfig{Port: 5001, RateLimit: 60},
		Log:      LogConfig{Level: "info", Console: true, MaxSizeMB: 100, MaxBackups: 3, MaxAgeDays: 30},
		Auth:     AuthConfig{JWTSecret: "your-secret-key-change-this", TokenTTL: 7 * 24 * time.Hour},
		Database: DatabaseConfig{Driver: "sqlite", DSN: "./kpi_enhanced.db", Port: 3306, Name: "sales_kpi"},
		Discord:  DiscordConfig{Timeout: 10 * time.Second},
		Reminder: ReminderConfig{
			Enabled:  true,
			Timezone: "Local",
			Daily:    "0 18 * * *",
			Weekly:   "0 17 * * 5",
			AppURL:   "https://your-app-url.com",
		},
		AI:  AIConfig{BaseURL: "https://api.openai.com/v1", Model: "gpt-4o-mini", Timeout: 60 * time.Second},
		MOI: MOIConfig{BaseURL: "https://freetier-01.cn-hangzhou.cluster.cn-dev.matrixone.tech", CatalogID: 1},
	}
}

// Load reads the first config file found, then .env, then the process environment.
// Later sources win.
func Load(configFile string) (*Config, error) {
	c := Default()

	paths := []string{"etc/config.yaml", "/etc/sales-kpi/config.yaml"}
	if configFile != "" {
		paths = []string{configFile}
	}
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		if err := yaml.Unmarshal(data, c); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
		break
	}

	// a missing .env is normal outside local development
	_ = godotenv.Load()

	if err := envconfig.Process("", c); err != nil {
		return nil, fmt.Errorf("env overlay: %w", err)
	}
	return c, nil
}

func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Server.Port)
}

func (c *Config) OpenGormDB() (*gorm.DB, error) {
	gcfg := &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)}

	switch strings.ToLower(c.Database.Driver) {
	case "mysql":
		sqlDB, err := c.openMySQL()
		if err != nil {
			return nil, err
		}
		return gorm.Open(mysql.New(mysql.Config{Conn: sqlDB}), gcfg)
	case "postgres", "postgresql":
		dsn := c.Database.DSN
		if dsn == "" {
			dsn = fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
				c.Database.Host, c.Database.Port, c.Database.User, c.Database.Password, c.Database.Name)
		}
		return gorm.Open(postgres.Open(dsn), gcfg)
	case "sqlite", "":
		db, err := gorm.Open(sqlite.Open(c.Database.DSN), gcfg)
		if err != nil {
			return nil, err
		}
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		// one writer; also keeps ":memory:" databases alive across calls
		sqlDB.SetMaxOpenConns(1)
		return db, nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", c.Database.Driver)
	}
}

func (c *Config) openMySQL() (*sql.DB, error) {
	if c.Database.DSN != "" {
		cfg, err := gomysql.ParseDSN(c.Database.DSN)
		if err != nil {
			return nil, fmt.Errorf("parse dsn: %w", err)
		}
		return connectMySQL(cfg)
	}
	cfg := gomysql.NewConfig()
	cfg.User = c.Database.User
	cfg.Passwd = c.Database.Password
	cfg.Net = "tcp"
	cfg.Addr = fmt.Sprintf("%s:%d", c.Database.Host, c.Database.Port)
	cfg.DBName = c.Database.Name
	cfg.ParseTime = true
	return connectMySQL(cfg)
}

func connectMySQL(cfg *gomysql.Config) (*sql.DB, error) {
	connector, err := gomysql.NewConnector(cfg)
	if err != nil {
		return nil, fmt.Errorf("create connector: %w", err)
	}
	sqlDB := sql.OpenDB(connector)
	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("ping db: %w", err)
	}
	return sqlDB, nil
}

func (c *Config) NewRawClient() (*sdk.RawClient, error) {
	return sdk.NewRawClient(c.MOI.BaseURL, c.MOI.APIKey)
}

func (c *Config) Location() *time.Location {
	if c.Reminder.Timezone == "" || c.Reminder.Timezone == "Local" {
		return time.Local
	}
	loc, err := time.LoadLocation(c.Reminder.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}
