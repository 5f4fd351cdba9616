package config

import "github.com/caarlos0/env/v11"

type Config struct {
	MongoURI      string `env:"MONGO_URI" envDefault:"mongodb://localhost:27017"`
	MongoDatabase string `env:"MONGO_DB" envDefault:"strikeops"`
	RedisAddr     string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	HTTPPort      string `env:"PORT" envDefault:"8080"`

	CORSAllowedOrigins string `env:"CORS_ALLOWED_ORIGINS" envDefault:"*"`

	OperatorUsername string `env:"OPERATOR_USERNAME" envDefault:"operator"`
	OperatorPassword string `env:"OPERATOR_PASSWORD" envDefault:"change-me"`
	JWTSecret        string `env:"JWT_SECRET" envDefault:"dev-secret-change-in-production"`
}

func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
