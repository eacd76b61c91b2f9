package app

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	Issuer      string `env:"AUTH_ISSUER" envDefault:"orgauth"`
	TokenSecret string `env:"AUTH_TOKEN_SECRET"` // empty: random per process, tokens die on restart

	SessionTTL time.Duration `env:"AUTH_SESSION_TTL" envDefault:"24h"`
	InviteTTL  time.Duration `env:"AUTH_INVITE_TTL" envDefault:"168h"`

	Argon2MemoryKiB   uint32 `env:"AUTH_ARGON2_MEMORY_KIB" envDefault:"19456"`
	Argon2Iterations  uint32 `env:"AUTH_ARGON2_ITERATIONS" envDefault:"2"`
	Argon2Parallelism uint8  `env:"AUTH_ARGON2_PARALLELISM" envDefault:"1"`
	Pepper            string `env:"AUTH_PEPPER"`

	StoreDriver   string `env:"STORE_DRIVER" envDefault:"sqlite"` // sqlite or mongo
	DatabaseFile  string `env:"AUTH_DATABASE_FILE" envDefault:"auth.db"`
	MongoURI      string `env:"MONGO_URI" envDefault:"mongodb://localhost:27017"`
	MongoDatabase string `env:"MONGO_DATABASE" envDefault:"orgauth"`

	SMTPHost          string `env:"SMTP_HOST"` // empty: invites are logged, not sent
	SMTPPort          int    `env:"SMTP_PORT" envDefault:"587"`
	SMTPUsername      string `env:"SMTP_USERNAME"`
	SMTPPassword      string `env:"SMTP_PASSWORD"`
	MailFrom          string `env:"MAIL_FROM" envDefault:"noreply@localhost"`
	FrontendURL       string `env:"FRONTEND_URL" envDefault:"http://localhost:3000"`
	InviteConcurrency int    `env:"INVITE_CONCURRENCY" envDefault:"1"`

	OTelEndpoint string `env:"OTEL_ENDPOINT"` // OTLP/HTTP collector; empty disables tracing
	OTelEnabled  bool   `env:"OTEL_ENABLED" envDefault:"true"`

	Env                 string        `env:"ENV" envDefault:"dev"`
	LogLevel            string        `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat           string        `env:"LOG_FORMAT" envDefault:"json"`
	Port                int           `env:"PORT" envDefault:"8080"`
	ShutdownGracePeriod time.Duration `env:"SHUTDOWN_GRACE_PERIOD" envDefault:"10s"`
}

// LoadConfig reads Config from the environment.
func LoadConfig() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	switch c.StoreDriver {
	case "sqlite", "mongo":
	default:
		return fmt.Errorf("unknown STORE_DRIVER %q (want sqlite or mongo)", c.StoreDriver)
	}
	if c.SessionTTL <= 0 || c.InviteTTL <= 0 {
		return fmt.Errorf("token TTLs must be positive")
	}
	if c.InviteConcurrency < 1 {
		return fmt.Errorf("INVITE_CONCURRENCY must be at least 1")
	}
	return nil
}
