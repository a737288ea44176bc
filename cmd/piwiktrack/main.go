// Command piwiktrack sends Piwik tracking requests from the command line.
//
//	piwiktrack [flags] pageview "Home page"
//	piwiktrack [flags] event Video Play "Intro movie" 12.5
//	piwiktrack [flags] bulk < hits.jsonl
//	piwiktrack [flags] serve
//
// Settings come from PIWIK_* environment variables, an optional .env file and
// an optional YAML file. Visitor cookies are kept in a local Badger database
// or in Redis, so repeated invocations continue the same visit.
package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/dmitrymomot/piwik/pkg/badger"
	"github.com/dmitrymomot/piwik/pkg/cookie"
	"github.com/dmitrymomot/piwik/pkg/logger"
	"github.com/dmitrymomot/piwik/pkg/redis"
	"github.com/dmitrymomot/piwik/pkg/tracker"
)

var errUsage = errors.New("usage")

func main() {
	if err := run(context.Background(), os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, "piwiktrack:", err)
		if errors.Is(err, errUsage) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}

type cliFlags struct {
	configPath string
	envFile    string
	visitorID  string
	userID     string
	pageURL    string
	referrer   string
	userAgent  string
	language   string
	ip         string
	dryRun     bool
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	var f cliFlags
	fs := flag.NewFlagSet("piwiktrack", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&f.configPath, "config", "", "YAML config file, overridden by the environment")
	fs.StringVar(&f.envFile, "env", "", ".env file to load first")
	fs.StringVar(&f.visitorID, "visitor", "", "force the visitor id (16 hex chars)")
	fs.StringVar(&f.userID, "user", "", "user id")
	fs.StringVar(&f.pageURL, "url", "", "page URL")
	fs.StringVar(&f.referrer, "referrer", "", "referrer URL")
	fs.StringVar(&f.userAgent, "ua", "", "visitor user agent")
	fs.StringVar(&f.language, "lang", "", "visitor Accept-Language")
	fs.StringVar(&f.ip, "ip", "", "visitor IP, requires token_auth")
	fs.BoolVar(&f.dryRun, "dry-run", false, "print tracking URLs instead of sending them")
	fs.Usage = func() {
		fmt.Fprintln(stderr, "usage: piwiktrack [flags] <pageview|event|search|goal|download|link|ping|order|bulk|serve> [args]")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}
	if fs.NArg() == 0 {
		fs.Usage()
		return fmt.Errorf("%w: missing command", errUsage)
	}

	cfg, err := loadConfig(f.configPath, f.envFile)
	if err != nil {
		return err
	}
	log := logger.New(
		logger.WithConfig(cfg.Log),
		logger.WithOutput(stderr),
		logger.WithContextValue("request_id", middleware.RequestIDKey),
	)

	switch fs.Arg(0) {
	case "serve":
		return serve(ctx, cfg, log)
	case "bulk":
		return withTracker(ctx, cfg, f, log, func(tr *tracker.Tracker) error {
			return runBulk(ctx, tr, stdin, stdout)
		})
	}

	h, err := parseHit(fs.Args())
	if err != nil {
		return err
	}
	return withTracker(ctx, cfg, f, log, func(tr *tracker.Tracker) error {
		if f.dryRun {
			u, err := h.url(tr)
			if err != nil {
				return err
			}
			fmt.Fprintln(stdout, u)
			return nil
		}
		res, err := h.track(ctx, tr)
		if err != nil {
			return err
		}
		printResponse(stdout, res)
		return nil
	})
}

// withTracker opens the cookie store, builds the tracker and closes the
// store once fn returns.
func withTracker(ctx context.Context, cfg appConfig, f cliFlags, log *slog.Logger, fn func(*tracker.Tracker) error) error {
	store, closeStore, err := openCookieStore(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer closeStore()

	opts := []tracker.Option{tracker.WithLogger(log)}
	if f.pageURL != "" {
		opts = append(opts, tracker.WithURL(f.pageURL))
	}
	if store != nil {
		opts = append(opts, tracker.WithCookieStore(store))
	}
	tr, err := tracker.NewFromConfig(cfg.Tracker, opts...)
	if err != nil {
		return err
	}

	if f.visitorID != "" {
		if err := tr.SetVisitorID(f.visitorID); err != nil {
			return err
		}
	}
	tr.SetUserID(f.userID)
	if f.referrer != "" {
		tr.SetURLReferrer(f.referrer)
	}
	if f.userAgent != "" {
		tr.SetUserAgent(f.userAgent)
	}
	if f.language != "" {
		tr.SetBrowserLanguage(f.language)
	}
	if f.ip != "" {
		tr.SetIP(f.ip)
	}

	return fn(tr)
}

func openCookieStore(ctx context.Context, cfg appConfig, log *slog.Logger) (cookie.Store, func(), error) {
	noop := func() {}
	if cfg.Tracker.DisableCookies {
		return nil, noop, nil
	}

	switch strings.ToLower(cfg.CookieStore) {
	case storeNone, "":
		return nil, noop, nil

	case storeBadger:
		db, err := badger.Open(cfg.Badger, badger.WithLogger(log))
		if err != nil {
			return nil, noop, err
		}
		return db.CookieStore(cfg.CookieNamespace), func() {
			if err := db.Close(); err != nil {
				log.Warn("closing cookie database failed", logger.Error(err))
			}
		}, nil

	case storeRedis:
		client, err := redis.Connect(ctx, cfg.Redis)
		if err != nil {
			return nil, noop, err
		}
		return redis.NewCookieStoreWithConfig(client, cfg.Redis, cfg.CookieNamespace), func() {
			_ = client.Close()
		}, nil
	}

	return nil, noop, fmt.Errorf("%w: unknown cookie store %q", errUsage, cfg.CookieStore)
}

// runBulk queues one hit per input line and flushes them in one request.
// Each line is a JSON array such as ["event","Video","Play"]; blank lines
// and lines starting with # are skipped.
func runBulk(ctx context.Context, tr *tracker.Tracker, in io.Reader, out io.Writer) error {
	tr.EnableBulkTracking()

	sc := bufio.NewScanner(in)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}

		var args []string
		if err := json.Unmarshal([]byte(text), &args); err != nil {
			return fmt.Errorf("%w: line %d: %v", errUsage, line, err)
		}
		h, err := parseHit(args)
		if err != nil {
			return fmt.Errorf("line %d: %w", line, err)
		}
		if _, err := h.track(ctx, tr); err != nil {
			return fmt.Errorf("line %d: %w", line, err)
		}
	}
	if err := sc.Err(); err != nil {
		return err
	}

	res, err := tr.Flush(ctx)
	if err != nil {
		return err
	}
	printResponse(out, res)
	return nil
}

func printResponse(w io.Writer, res *tracker.Response) {
	if res == nil {
		return
	}
	fmt.Fprintf(w, "%d %s (%s)\n", res.StatusCode, res.RequestedURL, res.Duration.Round(time.Millisecond))
}
