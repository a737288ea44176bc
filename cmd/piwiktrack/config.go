package main

import (
	"github.com/dmitrymomot/piwik/pkg/badger"
	"github.com/dmitrymomot/piwik/pkg/config"
	"github.com/dmitrymomot/piwik/pkg/httpserver"
	"github.com/dmitrymomot/piwik/pkg/logger"
	"github.com/dmitrymomot/piwik/pkg/redis"
	"github.com/dmitrymomot/piwik/pkg/tracker"
)

const (
	storeBadger = "badger"
	storeRedis  = "redis"
	storeNone   = "none"
)

type appConfig struct {
	Tracker tracker.Config `yaml:"tracker"`
	Log     logger.Config  `yaml:"log"`

	// CookieStore keeps the visitor cookies between invocations: badger, redis or none.
	CookieStore     string `env:"PIWIK_COOKIE_STORE" envDefault:"badger" yaml:"cookie_store"`
	CookieNamespace string `env:"PIWIK_COOKIE_NAMESPACE" envDefault:"cli" yaml:"cookie_namespace"`
	Badger          badger.Config `yaml:"badger"`
	Redis           redis.Config  `yaml:"redis"`

	HTTP             httpserver.Config `yaml:"http"`
	MetricsNamespace string            `env:"PIWIK_METRICS_NAMESPACE" envDefault:"piwik" yaml:"metrics_namespace"`
}

// loadConfig reads envFile, then the YAML file at path if any, with the
// environment taking precedence.
func loadConfig(path, envFile string) (appConfig, error) {
	var cfg appConfig
	if envFile != "" {
		if err := config.LoadEnv(envFile); err != nil {
			return cfg, err
		}
	}
	if path != "" {
		err := config.LoadFile(path, &cfg)
		return cfg, err
	}
	err := config.Load(&cfg)
	return cfg, err
}
