package config

import (
	"errors"
	"fmt"
	"io/fs"
	"sync"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog/log"
)

// Config is read once from the environment. A .env file in the working directory is loaded first
// when present; real environment variables win over it.
type Config struct {
	Server   Server   `envconfig:"SERVER"`
	App      App      `envconfig:"APP"`
	Cache    Cache    `envconfig:"CACHE"`
	JWT      JWT      `envconfig:"JWT"`
	DB       DB       `envconfig:"DB"`
	Kafka    Kafka    `envconfig:"KAFKA"`
	SMTP     SMTP     `envconfig:"SMTP"`
	External External `envconfig:"EXTERNAL"`
}

type Server struct {
	Env      string `envconfig:"ENV"       default:"development"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
	Port     string `envconfig:"PORT"      default:"8080"`
	Host     string `envconfig:"HOST"`
	Shutdown struct {
		CleanupPeriodSeconds int64 `envconfig:"CLEANUP_PERIOD_SECONDS" default:"10"`
		GracePeriodSeconds   int64 `envconfig:"GRACE_PERIOD_SECONDS"   default:"5"`
	} `envconfig:"SHUTDOWN"`
}

type App struct {
	Name         string       `envconfig:"APP_NAME" default:"ofcoz"`
	Timezone     string       `envconfig:"TIMEZONE"`
	APIKey       string       `envconfig:"API_KEY"`
	CORS         CORS         `envconfig:"CORS"`
	RateLimiter  RateLimiter  `envconfig:"RATE_LIMITER"`
	Booking      Booking      `envconfig:"BOOKING"`
	Notification Notification `envconfig:"NOTIFICATION"`
}

type CORS struct {
	Enable           bool     `envconfig:"ENABLE"`
	AllowedOrigins   []string `envconfig:"ALLOWED_ORIGINS"`
	AllowedMethods   []string `envconfig:"ALLOWED_METHODS"`
	AllowedHeaders   []string `envconfig:"ALLOWED_HEADERS"`
	AllowCredentials bool     `envconfig:"ALLOW_CREDENTIALS"`
	MaxAgeSeconds    int      `envconfig:"MAX_AGE_SECONDS"`
}

type RateLimiter struct {
	Enable        bool `envconfig:"ENABLE"`
	MaxRequests   int  `envconfig:"MAX_REQUESTS"   default:"120"`
	WindowSeconds int  `envconfig:"WINDOW_SECONDS" default:"60"`
}

type Booking struct {
	ProjectorRoomIDs   []string `envconfig:"PROJECTOR_ROOM_IDS"      default:"2,4"`
	ProjectorFee       float64  `envconfig:"PROJECTOR_FEE"           default:"20"`
	MinDurationMinutes int      `envconfig:"MIN_DURATION_MINUTES"    default:"60"`
	DP20OpenHour       int      `envconfig:"DP20_OPEN_HOUR"          default:"10"`
	DP20CloseHour      int      `envconfig:"DP20_CLOSE_HOUR"         default:"20"`
	AutoConfirmPackage bool     `envconfig:"AUTO_CONFIRM_PACKAGE"    default:"true"`
	ReceiptBucket      string   `envconfig:"RECEIPT_BUCKET"          default:"booking-receipts"`
	ReceiptMaxSizeMB   float64  `envconfig:"RECEIPT_MAX_SIZE_MB"     default:"5"`
	ReceiptURLTTL      int      `envconfig:"RECEIPT_URL_TTL_SECONDS" default:"900"`
	FreeCancelQuota    int      `envconfig:"FREE_CANCEL_QUOTA"       default:"2"`
}

// Notification.Mode is "direct" to send from the API process or "queue" to hand off to the worker.
type Notification struct {
	Mode        string `envconfig:"MODE" default:"direct"`
	AdminEmail  string `envconfig:"ADMIN_EMAIL"`
	FrontendURL string `envconfig:"FRONTEND_URL"`
}

type Cache struct {
	TTL   int `envconfig:"TTL" default:"300"`
	Redis struct {
		Primary struct {
			Host     string `envconfig:"HOST" default:"localhost"`
			Port     string `envconfig:"PORT" default:"6379"`
			Password string `envconfig:"PASSWORD"`
			DB       int    `envconfig:"DB"`
		} `envconfig:"PRIMARY"`
	} `envconfig:"REDIS"`
}

type JWT struct {
	AccessSecret     string `envconfig:"ACCESS_SECRET"`
	RefreshSecret    string `envconfig:"REFRESH_SECRET"`
	AccessExpireMin  int    `envconfig:"ACCESS_EXPIRE_MIN"  default:"15"`
	RefreshExpireMin int    `envconfig:"REFRESH_EXPIRE_MIN" default:"10080"`
}

type DB struct {
	Postgres Postgres `envconfig:"POSTGRES"`
}

type Postgres struct {
	MaxRetry        int        `envconfig:"MAX_RETRY"             default:"5"`
	RetryWaitTime   int        `envconfig:"RETRY_WAIT_TIME"       default:"2"`
	MaxOpenConns    int        `envconfig:"MAX_OPEN_CONNS"        default:"10"`
	MaxIdleConns    int        `envconfig:"MAX_IDLE_CONNS"        default:"10"`
	ConnMaxLifetime int        `envconfig:"CONN_MAX_LIFETIME_MIN" default:"30"`
	MigrationTable  string     `envconfig:"MIGRATION_TABLE"       default:"schema_migrations"`
	AutoMigrate     bool       `envconfig:"AUTO_MIGRATE"`
	Prefix          string     `envconfig:"PREFIX"`
	Read            DBEndpoint `envconfig:"READ"`
	Write           DBEndpoint `envconfig:"WRITE"`
}

// DBEndpoint describes one side of the read/write split.
type DBEndpoint struct {
	Host     string `envconfig:"HOST"     default:"localhost"`
	Port     string `envconfig:"PORT"     default:"5432"`
	Username string `envconfig:"USER"`
	Password string `envconfig:"PASSWORD"`
	Name     string `envconfig:"NAME"`
	Timezone string `envconfig:"TIMEZONE"`
	SSLMode  string `envconfig:"SSL_MODE" default:"disable"`
}

type Kafka struct {
	Brokers []string `envconfig:"BROKERS"`
	SASL    struct {
		Username string `envconfig:"USERNAME"`
		Password string `envconfig:"PASSWORD"`
	} `envconfig:"SASL"`
	ConsumerGroup     string `envconfig:"CONSUMER_GROUP"     default:"ofcoz-notification"`
	NotificationTopic string `envconfig:"NOTIFICATION_TOPIC" default:"booking.notifications"`
}

type SMTP struct {
	Host     string `envconfig:"HOST"`
	Port     int    `envconfig:"PORT"            default:"587"`
	Username string `envconfig:"USER"`
	Password string `envconfig:"PASS"`
	Secure   bool   `envconfig:"SECURE"`
	From     string `envconfig:"FROM"`
	FromName string `envconfig:"FROM_NAME"       default:"Ofcoz Family"`
	Timeout  int    `envconfig:"TIMEOUT_SECONDS" default:"30"`
}

type External struct {
	Otel struct {
		Endpoint string `envconfig:"ENDPOINT"`
	} `envconfig:"OTEL"`
	S3 struct {
		BucketName      string `envconfig:"BUCKET_NAME"`
		PublicDomain    string `envconfig:"PUBLIC_DOMAIN"`
		APIEndpoint     string `envconfig:"API_ENDPOINT"`
		AccessKeyID     string `envconfig:"ACCESS_KEY_ID"`
		SecretAccessKey string `envconfig:"SECRET_ACCESS_KEY"`
		Region          string `envconfig:"REGION" default:"auto"`
	} `envconfig:"S3"`
}

var (
	conf    Config
	once    sync.Once
	loadErr error
)

// Load reads .env (if any) and the environment into a fresh Config.
func Load(envFile string) (*Config, error) {
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to read %s: %w", envFile, err)
	}

	cfg := &Config{}
	if err := envconfig.Process("", cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment: %w", err)
	}

	return cfg, nil
}

func Init() error {
	once.Do(func() {
		var cfg *Config

		cfg, loadErr = Load(".env")
		if loadErr == nil {
			conf = *cfg
		}
	})

	return loadErr
}

// Get returns the process wide config, loading it on first use.
func Get() *Config {
	if err := Init(); err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}

	return &conf
}
