// Package config loads typed configuration from the environment and, optionally,
// from a YAML file.
//
// It wraps `github.com/joho/godotenv`, `github.com/caarlos0/env/v11` and
// `gopkg.in/yaml.v3`:
//
//   - Load parses env vars into any struct with `env` tags and caches the result
//     per type, so each configuration is parsed once per process.
//   - LoadFile reads YAML first and lets env vars override it, which suits the
//     command line sender where a file holds site settings and the token comes
//     from the environment.
//   - LoadEnv loads extra .env files; ResetCache clears the cache in tests.
//
// # Usage
//
//	var cfg tracker.Config
//	if err := config.Load(&cfg); err != nil {
//	    log.Fatalf("parsing env: %v", err)
//	}
//
//	var fileCfg tracker.Config
//	if err := config.LoadFile("piwik.yaml", &fileCfg); err != nil {
//	    log.Fatalf("loading config: %v", err)
//	}
//
// # Error Handling
//
// Failures are joined with a sentinel (`ErrParsingConfig`, `ErrReadingFile`,
// `ErrParsingFile`, `ErrLoadingEnvFile`, `ErrNilPointer`) for `errors.Is`.
package config
