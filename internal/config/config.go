package config

import "github.com/caarlos0/env/v9"

type Config struct {
	Port        string `env:"PORT" envDefault:"8080"`
	Environment string `env:"APP_ENV" envDefault:"development"`

	DBUser     string `env:"DB_USER,required"`
	DBPassword string `env:"DB_PASSWORD,required"`
	DBHost     string `env:"DB_HOST,required"` // e.g. tcp(host:3306) or unix(/path/to.sock)
	DBName     string `env:"DB_NAME,required"`
	DBPort     string `env:"DB_PORT" envDefault:"3306"`

	JWTSecret                 string `env:"JWT_SECRET,required"`
	JWTRefreshSecret          string `env:"JWT_REFRESH_SECRET,required"`
	JWTExpirationMinutes      int    `env:"JWT_EXPIRATION_MINUTES" envDefault:"15"`
	JWTRefreshExpirationHours int    `env:"JWT_REFRESH_EXPIRATION_HOURS" envDefault:"168"`

	GCSBucket      string `env:"GCS_BUCKET"`
	GCSCredentials string `env:"GCS_CREDENTIALS_FILE"`

	RedisAddr     string `env:"REDIS_ADDR"`
	RedisPassword string `env:"REDIS_PASSWORD"`

	ChatRateLimit      int `env:"CHAT_RATE_LIMIT" envDefault:"30"`
	ChatRateWindowSecs int `env:"CHAT_RATE_WINDOW_SECONDS" envDefault:"60"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}
