package main

import (
	"github.com/kelseyhightower/envconfig"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

const prodMode = "prod"

type Config struct {
	// APIURL is the base URL of the fizzbuzz service, without the API path.
	APIURL      string `envconfig:"API_URL" required:"true"`
	Mode        string `envconfig:"MODE" default:"dev"`
	MetricsAddr string `envconfig:"METRICS_ADDR" default:":8082"`
}

func loadConfig() (Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, errors.Wrap(err, "process env")
	}

	return cfg, nil
}

func newLogger(mode string) (*zap.SugaredLogger, error) {
	build := zap.NewDevelopment
	if mode == prodMode {
		build = zap.NewProduction
	}

	lg, err := build()
	if err != nil {
		return nil, errors.Wrapf(err, "build %s logger", mode)
	}

	return lg.Sugar(), nil
}
