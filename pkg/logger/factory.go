package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

// Format is the handler encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatText Format = "text"
)

// Config is the environment-driven logger setup of the command line sender
// and of services embedding the tracker.
type Config struct {
	Level       string `env:"LOG_LEVEL" envDefault:"info" yaml:"level"`
	Format      Format `env:"LOG_FORMAT" envDefault:"json" yaml:"format"`
	Environment string `env:"APP_ENV" envDefault:"development" yaml:"environment"`
	Service     string `env:"APP_NAME" envDefault:"piwik" yaml:"service"`
}

// preset is what an APP_ENV value implies before LOG_LEVEL and LOG_FORMAT
// are applied.
type preset struct {
	name   string
	level  slog.Level
	format Format
}

var presets = map[string]preset{
	"development": {"development", slog.LevelDebug, FormatText},
	"dev":         {"development", slog.LevelDebug, FormatText},
	"staging":     {"staging", slog.LevelInfo, FormatJSON},
	"stage":       {"staging", slog.LevelInfo, FormatJSON},
	"production":  {"production", slog.LevelInfo, FormatJSON},
	"prod":        {"production", slog.LevelInfo, FormatJSON},
}

func lookupPreset(env string) preset {
	if p, ok := presets[strings.ToLower(strings.TrimSpace(env))]; ok {
		return p
	}
	return presets["development"]
}

// ParseLevel maps debug, info, warn and error (case-insensitive) to a slog
// level. Unknown names fall back to info.
func ParseLevel(name string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Option configures logger creation.
type Option func(*config)

// WithConfig applies the APP_ENV preset, tags records with service and env,
// then applies the explicit level and format.
func WithConfig(cfg Config) Option {
	return func(c *config) {
		p := lookupPreset(cfg.Environment)
		c.level, c.format = p.level, p.format
		if cfg.Service != "" {
			c.attrs = append(c.attrs,
				slog.String("service", cfg.Service),
				slog.String("env", p.name),
			)
		}
		if cfg.Level != "" {
			c.level = ParseLevel(cfg.Level)
		}
		switch cfg.Format {
		case FormatJSON, FormatText:
			c.format = cfg.Format
		}
	}
}

func WithLevel(l slog.Level) Option {
	return func(c *config) { c.level = l }
}

// WithFormat sets output format. Panics for anything but json or text.
func WithFormat(f Format) Option {
	return func(c *config) {
		switch f {
		case FormatJSON, FormatText:
			c.format = f
		default:
			panic(fmt.Errorf("invalid log format %q: must be %q or %q", f, FormatJSON, FormatText))
		}
	}
}

// WithOutput sets the output destination. Nil writers are ignored.
func WithOutput(w io.Writer) Option {
	return func(c *config) {
		if w != nil {
			c.output = w
		}
	}
}

// WithContextExtractors registers functions that inject attributes from context.
func WithContextExtractors(extractors ...ContextExtractor) Option {
	return func(c *config) {
		for _, ex := range extractors {
			if ex != nil {
				c.extractors = append(c.extractors, ex)
			}
		}
	}
}

// WithContextValue logs ctx.Value(key) under name whenever it is set, e.g.
// the request id stored by chi's middleware.
func WithContextValue(name string, key any) Option {
	if name == "" || key == nil {
		return func(*config) {}
	}
	return WithContextExtractors(func(ctx context.Context) (slog.Attr, bool) {
		if v := ctx.Value(key); v != nil {
			return slog.Any(name, v), true
		}
		return slog.Attr{}, false
	})
}

type config struct {
	level      slog.Level
	format     Format
	output     io.Writer
	attrs      []slog.Attr
	extractors []ContextExtractor
}

// New creates a slog.Logger whose handler is wrapped by LogHandlerDecorator.
// Without options it writes JSON at info level to stdout.
func New(opts ...Option) *slog.Logger {
	cfg := &config{level: slog.LevelInfo, format: FormatJSON, output: os.Stdout}
	for _, opt := range opts {
		opt(cfg)
	}

	handlerOpts := &slog.HandlerOptions{Level: cfg.level}
	var handler slog.Handler
	if cfg.format == FormatText {
		handler = slog.NewTextHandler(cfg.output, handlerOpts)
	} else {
		handler = slog.NewJSONHandler(cfg.output, handlerOpts)
	}
	if len(cfg.attrs) > 0 {
		handler = handler.WithAttrs(cfg.attrs)
	}

	return slog.New(NewLogHandlerDecorator(handler, cfg.extractors...))
}
