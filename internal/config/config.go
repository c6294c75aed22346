package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	Env            string `yaml:"env" env:"ENV" env-default:"local"`
	SecretKey      string `yaml:"secret_key" env:"SECRET_KEY" env-required:"true"`
	PasswordPolicy `yaml:"password_policy"`
	Postgres       `yaml:"postgres"`
	Redis          `yaml:"redis"`
	RabbitMQ       `yaml:"rabbitmq"`
	HTTPServer     `yaml:"http_server"`
}

type HTTPServer struct {
	Address     string        `yaml:"address" env:"HTTP_ADDRESS" env-default:"localhost:8080"`
	Timeout     time.Duration `yaml:"timeout" env-default:"4s"`
	IdleTimeout time.Duration `yaml:"idle_timeout" env-default:"60s"`
}

type Postgres struct {
	Host     string `yaml:"host" env:"DATABASE_HOST" env-default:"postgres"`
	Port     int    `yaml:"port" env:"DATABASE_PORT" env-default:"5432"`
	User     string `yaml:"user" env:"DATABASE_USER" env-required:"true"`
	Password string `yaml:"password" env:"DATABASE_PASSWORD" env-required:"true"`
	DBName   string `yaml:"dbname" env:"DATABASE_DB" env-required:"true"`
	SSLMode  string `yaml:"sslmode" env-default:"disable"`
}

type Redis struct {
	Address  string `yaml:"address" env:"REDIS_ADDRESS" env-default:"localhost:6379"`
	Password string `yaml:"password" env:"REDIS_PASSWORD" env-default:""`
	DB       int    `yaml:"db" env:"REDIS_DB" env-default:"0"`
}

type RabbitMQ struct {
	URL       string `yaml:"url" env:"RABBITMQ_URL" env-required:"true"`
	QueueName string `yaml:"queue_name" env-default:"registrations"`
}

// PasswordPolicy is loaded once at startup and injected into the validator.
// It is never re-read per request.
type PasswordPolicy struct {
	MinLen         int    `yaml:"min_len" env:"MIN_PASS_LEN" env-default:"8"`
	MaxLen         int    `yaml:"max_len" env:"MAX_PASS_LEN" env-default:"64"`
	MinCapitals    int    `yaml:"min_capitals" env:"MIN_CAPITALS" env-default:"1"`
	MinDigits      int    `yaml:"min_digits" env:"MIN_DIGITS" env-default:"1"`
	MinSpecial     int    `yaml:"min_special" env:"MIN_SPECIAL" env-default:"0"`
	SpecialSymbols string `yaml:"allowed_special_symbols" env:"ALLOWED_SPECIAL_SYMBOLS" env-default:"!@#$%^&*()-_=+"`
}

var (
	ErrPolicyLenRange      = errors.New("password policy: max_len is less than min_len")
	ErrPolicyUnsatisfiable = errors.New("password policy: required character counts exceed max_len")
)

// Validate rejects a policy no password could ever satisfy. This is a fatal
// startup error, not a per-request one.
func (p PasswordPolicy) Validate() error {
	if p.MaxLen < p.MinLen {
		return ErrPolicyLenRange
	}
	if p.MinCapitals+p.MinDigits+p.MinSpecial > p.MaxLen {
		return ErrPolicyUnsatisfiable
	}
	return nil
}

func Load(configPath string) (*Config, error) {
	const op = "config.Load"

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("%s: config file does not exist: %s", op, configPath)
	}

	var cfg Config

	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := cfg.PasswordPolicy.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &cfg, nil
}

func MustLoad(configPath string) *Config {
	cfg, err := Load(configPath)
	if err != nil {
		panic(err)
	}

	return cfg
}
