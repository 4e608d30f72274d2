package config

import (
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`
	Currency    string `env:"CURRENCY" envDefault:"INR"`
	API         API
	Animation   Animation
	Jobs        Jobs
	Metrics     Metrics
	GoogleDrive GoogleDrive
}

type API struct {
	Debug     bool          `env:"API_DEBUG" envDefault:"false"`
	Timeout   time.Duration `env:"API_TIMEOUT" envDefault:"15s"`
	LedgerApi LedgerApi
	Assistant Assistant
}

type LedgerApi struct {
	Url string `env:"LEDGER_API_URL,notEmpty"`
}

type Assistant struct {
	Provider     string `env:"ASSISTANT_PROVIDER" envDefault:"webhook"`
	Url          string `env:"ASSISTANT_URL" envDefault:""`
	ApiKey       string `env:"ASSISTANT_API_KEY" envDefault:""`
	ApiKeyHeader string `env:"ASSISTANT_API_KEY_HEADER" envDefault:"x-api-key"`
	Model        string `env:"ASSISTANT_MODEL" envDefault:""`
}

type Animation struct {
	BalanceDuration time.Duration `env:"BALANCE_ANIMATION_DURATION" envDefault:"1s"`
	BalanceFrame    time.Duration `env:"BALANCE_ANIMATION_FRAME" envDefault:"50ms"`
}

type Jobs struct {
	BalanceSyncInterval   time.Duration `env:"BALANCE_SYNC_INTERVAL" envDefault:"30s"`
	PortfolioSyncInterval time.Duration `env:"PORTFOLIO_SYNC_INTERVAL" envDefault:"1m"`
}

type Metrics struct {
	Addr string `env:"METRICS_ADDR" envDefault:""`
}

type GoogleDrive struct {
	CredentialsFile string        `env:"GOOGLE_DRIVE_CREDENTIALS_FILE" envDefault:""`
	FileTTL         time.Duration `env:"GOOGLE_DRIVE_FILE_TTL" envDefault:"24h"`
}

// LoadWithEnvFile reads the optional env file, then the environment.
func LoadWithEnvFile(filename string) (*Config, error) {
	_ = godotenv.Load(filename)
	return Load()
}

func Load() (*Config, error) {
	cfg := &Config{}

	opts := env.Options{RequiredIfNoDef: true}

	if err := env.ParseWithOptions(cfg, opts); err != nil {
		return nil, err
	}

	return cfg, nil
}
