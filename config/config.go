package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Debug            bool   `envconfig:"debug"`
	Port             int    `envconfig:"port" default:"8080"`
	Env              string `envconfig:"env"`
	BaseUrl          string `envconfig:"base_url"`
	CompanyName      string `envconfig:"company_name" default:"Clockwise"`
	JWTSecret        string `envconfig:"jwt_secret"`
	PostgresHost     string `envconfig:"postgres_host"`
	PostgresPort     int    `envconfig:"postgres_port" default:"5432"`
	PostgresUser     string `envconfig:"postgres_user"`
	PostgresPassword string `envconfig:"postgres_password"`
	PostgresDB       string `envconfig:"postgres_db"`
	RedisAddr        string `envconfig:"redis_addr"`

	// Mail transport. The email channel stays disabled (sends short-circuit
	// to a failed result) when MailEnabled is off or the mailgun credentials
	// fail verification at first use.
	MailEnabled    bool   `envconfig:"mail_enabled"`
	MailProvider   string `envconfig:"mail_provider" default:"mailgun"`
	MgDomain       string `envconfig:"mg_domain"`
	MailgunApiKey  string `envconfig:"mg_private_api_key"`
	MailFrom       string `envconfig:"mail_from"`
	MailFromName   string `envconfig:"mail_from_name"`
	MailReplyTo    string `envconfig:"mail_reply_to"`
	MailMaxRetries int    `envconfig:"mail_max_retries" default:"2"`
	MailRetryDelay int    `envconfig:"mail_retry_delay_seconds" default:"5"`

	// Scheduler. The reminder sweep runs every ReminderInterval minutes;
	// one minute keeps an exact "HH:MM" reminder time from being skipped.
	ReminderInterval    int `envconfig:"reminder_interval_minutes" default:"1"`
	RetentionDays       int `envconfig:"notification_retention_days" default:"30"`
	NotificationWorkers int `envconfig:"notification_workers" default:"4"`
}

func Load() (*Config, error) {
	env := os.Getenv("GIN_MODE")
	if env != "release" {
		if err := godotenv.Load("./.env"); err != nil {
			log.Printf("couldn't load env vars: %v", err)
		}
	}

	c := &Config{}
	err := envconfig.Process("clockwise", c)
	if err != nil {
		return nil, err
	}
	return c, nil
}
