package config

import (
	"encoding/json"
	"errors"
	"log"
	"os"
	"path/filepath"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

// AppConfig holds file and environment driven configuration values.
// Sensitive data should never have defaults inside code and must be provided via env files or the environment.
type AppConfig struct {
	App      AppSection      `json:"app"`
	Database DatabaseSection `json:"database"`
	Redis    RedisSection    `json:"redis"`
	Log      LogSection      `json:"log"`
	CheckIn  CheckInSection  `json:"checkin"`
}

// AppSection configures the HTTP surface.
type AppSection struct {
	Port               string   `json:"Port" env:"APP_PORT"`
	JWTSecret          string   `json:"JWTSecret" env:"JWT_SECRET"`
	TokenTTLHours      int      `json:"TokenTTLHours" env:"TOKEN_TTL_HOURS"`
	RateLimitPerMinute int      `json:"RateLimitPerMinute" env:"RATE_LIMIT_PER_MINUTE"`
	AllowedOrigins     []string `json:"AllowedOrigins" env:"ALLOWED_ORIGINS" envSeparator:","`
	GinMode            string   `json:"GinMode" env:"GIN_MODE"`
	GinLogPath         string   `json:"GinLogPath" env:"GIN_LOG_PATH"`
	StatsCacheSeconds  int      `json:"StatsCacheSeconds" env:"STATS_CACHE_SECONDS"`
	// QR codes expired longer than this are purged by the cleaner; 0 keeps them forever.
	QRCodeRetentionDays int `json:"QRCodeRetentionDays" env:"QRCODE_RETENTION_DAYS"`
}

// DatabaseSection configures the MySQL connection. DatabaseURI wins when set.
type DatabaseSection struct {
	DatabaseURI string `json:"DatabaseURI" env:"DATABASE_URI"`
	Host        string `json:"DBHost" env:"DB_HOST"`
	Port        string `json:"DBPort" env:"DB_PORT"`
	User        string `json:"DBUser" env:"DB_USER"`
	Password    string `json:"DBPassword" env:"DB_PASSWORD"`
	Name        string `json:"DBName" env:"DB_NAME"`
}

// RedisSection configures the optional cache. An empty Host disables Redis and
// every cache-backed feature falls back to process memory.
type RedisSection struct {
	Host     string `json:"RedisHost" env:"REDIS_HOST"`
	Port     int    `json:"RedisPort" env:"REDIS_PORT"`
	DB       int    `json:"RedisDB" env:"REDIS_DB"`
	Password string `json:"RedisPassword" env:"REDIS_PASSWORD"`
}

// LogSection configures zap and the lumberjack rolling file.
type LogSection struct {
	Level      string `json:"Level" env:"LOG_LEVEL"`
	Path       string `json:"Path" env:"LOG_PATH"`
	MaxSizeMB  int    `json:"MaxSizeMB" env:"LOG_MAX_SIZE_MB"`
	MaxBackups int    `json:"MaxBackups" env:"LOG_MAX_BACKUPS"`
	MaxAgeDays int    `json:"MaxAgeDays" env:"LOG_MAX_AGE_DAYS"`
	Compress   bool   `json:"Compress" env:"LOG_COMPRESS"`
}

// CheckInSection holds the attendance rules. Minutes are counted from local midnight.
type CheckInSection struct {
	WindowStartHour     int    `json:"WindowStartHour" env:"CHECKIN_WINDOW_START_HOUR"`
	WindowEndHour       int    `json:"WindowEndHour" env:"CHECKIN_WINDOW_END_HOUR"`
	EarlyCutoffMinutes  int    `json:"EarlyCutoffMinutes" env:"CHECKIN_EARLY_CUTOFF_MINUTES"`
	OnTimeCutoffMinutes int    `json:"OnTimeCutoffMinutes" env:"CHECKIN_ONTIME_CUTOFF_MINUTES"`
	EarlyPoints         int    `json:"EarlyPoints" env:"CHECKIN_EARLY_POINTS"`
	OnTimePoints        int    `json:"OnTimePoints" env:"CHECKIN_ONTIME_POINTS"`
	LatePoints          int    `json:"LatePoints" env:"CHECKIN_LATE_POINTS"`
	// Streak milestones as "days:points" pairs, e.g. "7:5,10:10,30:25".
	Milestones      string `json:"Milestones" env:"CHECKIN_MILESTONES"`
	DefaultTimezone string `json:"DefaultTimezone" env:"CHECKIN_DEFAULT_TIMEZONE"`
}

var cfg AppConfig
var loaded bool

// Load loads the application configuration. It should be called once during boot.
func Load() AppConfig {
	if loaded {
		return cfg
	}

	// Precedence: config/config.json -> defaults -> .env / environment variable overrides
	if err := loadJSONConfig(filepath.Join("config", "config.json"), &cfg); err != nil {
		log.Fatalf("invalid config/config.json: %v", err)
	}

	applyDefaults(&cfg)

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("WARN: cannot load .env file: %v", err)
	}
	if err := env.Parse(&cfg); err != nil {
		log.Fatalf("failed to parse environment variables: %v", err)
	}

	if cfg.App.JWTSecret == "" {
		log.Fatal("JWT_SECRET must be set in environment variables")
	}

	loaded = true
	return cfg
}

// Get returns the cached configuration, loading it if necessary.
func Get() AppConfig {
	if !loaded {
		return Load()
	}
	return cfg
}

// loadJSONConfig reads the grouped JSON file into out if present. Returns error only for invalid JSON.
func loadJSONConfig(path string, out *AppConfig) error {
	f, err := os.Open(path)
	if err != nil {
		return nil // silently ignore missing file
	}
	defer f.Close()

	return json.NewDecoder(f).Decode(out)
}

// applyDefaults sets sane defaults for zero-value fields.
func applyDefaults(c *AppConfig) {
	if c.App.Port == "" {
		c.App.Port = "8080"
	}
	if c.App.TokenTTLHours == 0 {
		c.App.TokenTTLHours = 72
	}
	if c.App.RateLimitPerMinute == 0 {
		c.App.RateLimitPerMinute = 60
	}
	if len(c.App.AllowedOrigins) == 0 {
		c.App.AllowedOrigins = []string{"*"}
	}
	if c.App.GinMode == "" {
		c.App.GinMode = "release"
	}
	if c.App.GinLogPath == "" {
		c.App.GinLogPath = "logs/gin.log"
	}
	if c.App.StatsCacheSeconds == 0 {
		c.App.StatsCacheSeconds = 60
	}
	if c.Database.Host == "" {
		c.Database.Host = "127.0.0.1"
	}
	if c.Database.Port == "" {
		c.Database.Port = "3306"
	}
	if c.Database.User == "" {
		c.Database.User = "root"
	}
	if c.Database.Name == "" {
		c.Database.Name = "earlybird"
	}
	if c.Redis.Port == 0 {
		c.Redis.Port = 6379
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.MaxSizeMB == 0 {
		c.Log.MaxSizeMB = 100
	}
	if c.Log.MaxBackups == 0 {
		c.Log.MaxBackups = 3
	}
	if c.Log.MaxAgeDays == 0 {
		c.Log.MaxAgeDays = 7
	}
	applyCheckInDefaults(&c.CheckIn)
}

func applyCheckInDefaults(c *CheckInSection) {
	if c.WindowStartHour == 0 {
		c.WindowStartHour = 6
	}
	if c.WindowEndHour == 0 {
		c.WindowEndHour = 9
	}
	if c.EarlyCutoffMinutes == 0 {
		c.EarlyCutoffMinutes = 7*60 + 45
	}
	if c.OnTimeCutoffMinutes == 0 {
		c.OnTimeCutoffMinutes = 8 * 60
	}
	if c.EarlyPoints == 0 {
		c.EarlyPoints = 2
	}
	if c.OnTimePoints == 0 {
		c.OnTimePoints = 1
	}
	if c.Milestones == "" {
		c.Milestones = "7:5,10:10,30:25"
	}
	if c.DefaultTimezone == "" {
		c.DefaultTimezone = "-07:00"
	}
}

// Defaults returns a configuration with every default applied and no file or
// environment input. Useful for tools and tests that never call Load.
func Defaults() AppConfig {
	var c AppConfig
	applyDefaults(&c)
	return c
}
