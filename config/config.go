package config

import (
	"errors"
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type HTTPConfig struct {
	Address string        `yaml:"address" env:"HTTP_ADDRESS" env-default:":8080"`
	Timeout time.Duration `yaml:"timeout" env:"HTTP_TIMEOUT" env-default:"5s"`
}

type MarketConfig struct {
	MinProposalLen int    `yaml:"min_proposal_len" env:"MIN_PROPOSAL_LEN" env-default:"50"`
	MinBid         string `yaml:"min_bid" env:"MIN_BID" env-default:"5"`
}

type Config struct {
	LogLevel  string       `yaml:"log_level" env:"LOG_LEVEL" env-default:"DEBUG"`
	HTTP      HTTPConfig   `yaml:"http_server"`
	DBAddress string       `yaml:"db_address" env:"DB_ADDRESS" env-required:"true"`
	NatsURL   string       `yaml:"nats_url" env:"NATS_URL" env-default:""`
	JWTSecret string       `yaml:"jwt_secret" env:"JWT_SECRET" env-required:"true"`
	Market    MarketConfig `yaml:"market"`
}

func MustLoad(configPath string) Config {
	var cfg Config

	// empty path means env only
	if configPath == "" {
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			log.Fatalf("cannot read env: %s", err)
		}
		return cfg
	}

	// try the file, fall back to env when it does not exist
	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		var pe *os.PathError
		if errors.As(err, &pe) {
			if err := cleanenv.ReadEnv(&cfg); err != nil {
				log.Fatalf("cannot read env: %s", err)
			}
			return cfg
		}
		log.Fatalf("cannot read config %q: %s", configPath, err)
	}

	return cfg
}
