package config

import (
	"strings"
	"time"

	"github.com/caarlos0/env/v6"
)

type Environment string

const (
	EnvLocal      Environment = "local"
	EnvDev        Environment = "dev"
	EnvStage      Environment = "stage"
	EnvProduction Environment = "production"
)

type Config struct {
	App struct {
		Version  string      `env:"APP_VERSION" envDefault:"local"`
		Env      Environment `env:"APP_ENV" envDefault:"local"`
		Timezone string      `env:"APP_TIMEZONE" envDefault:"Africa/Porto-Novo"`
	}

	HTTP struct {
		Port string `env:"HTTP_SERVER_PORT" envDefault:"8080"`
		Host string `env:"HTTP_SERVER_HOST" envDefault:"localhost"`
	}

	Firestore struct {
		ProjectID       string `env:"FIRESTORE_PROJECT_ID"`
		CredentialsFile string `env:"FIRESTORE_CREDENTIALS_FILE"`
	}

	Twilio struct {
		AccountSID string `env:"TWILIO_ACCOUNT_SID"`
		AuthToken  string `env:"TWILIO_AUTH_TOKEN"`
		FromNumber string `env:"TWILIO_FROM_NUMBER"`
	}

	SMTP struct {
		Host      string `env:"SMTP_HOST"`
		Port      int    `env:"SMTP_PORT" envDefault:"587"`
		Username  string `env:"SMTP_USERNAME"`
		Password  string `env:"SMTP_PASSWORD"`
		FromEmail string `env:"SMTP_FROM_EMAIL"`
		FromName  string `env:"SMTP_FROM_NAME" envDefault:"Clinique Maternité"`
	}

	Scheduler struct {
		Enabled           bool   `env:"SCHEDULER_ENABLED" envDefault:"true"`
		ReminderCron      string `env:"SCHEDULER_REMINDER_CRON" envDefault:"0 8 * * *"`
		DailySummaryCron  string `env:"SCHEDULER_DAILY_SUMMARY_CRON" envDefault:"0 18 * * *"`
		WeeklySummaryCron string `env:"SCHEDULER_WEEKLY_SUMMARY_CRON" envDefault:"0 17 * * 5"`
	}

	Trigger struct {
		SecretToken string `env:"TRIGGER_SECRET_TOKEN"`
	}

	RabbitMQ struct {
		Enabled bool   `env:"RABBITMQ_ENABLED"`
		URL     string `env:"RABBITMQ_URL"`
		Queue   string `env:"RABBITMQ_QUEUE" envDefault:"maternity.reminder-engine.triggers"`
	}

	Cache struct {
		Enabled bool `env:"CACHE_ENABLED"`
		Size    int  `env:"CACHE_SIZE" envDefault:"1000"`
	}
}

func NewConfig() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}

	// Unification de l'environnement en minuscules
	cfg.App.Env = Environment(strings.ToLower(string(cfg.App.Env)))

	return cfg, nil
}

// Location charge la timezone de la clinique, UTC en secours si l'identifiant est invalide.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.App.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// SmsConfigured indique si les identifiants Twilio sont présents au démarrage.
func (c *Config) SmsConfigured() bool {
	return c.Twilio.AccountSID != "" && c.Twilio.AuthToken != "" && c.Twilio.FromNumber != ""
}

// EmailConfigured indique si les identifiants SMTP sont présents au démarrage.
func (c *Config) EmailConfigured() bool {
	return c.SMTP.Host != "" && c.SMTP.Username != "" && c.SMTP.Password != ""
}

func (c *Config) IsLocal() bool {
	return c.App.Env == EnvLocal
}

func (c *Config) IsNotLocal() bool {
	return c.App.Env == EnvDev || c.App.Env == EnvStage || c.App.Env == EnvProduction
}
