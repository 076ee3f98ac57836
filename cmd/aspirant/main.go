package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/go-pkgz/lgr"
	"github.com/jessevdk/go-flags"
	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"github.com/umputun/aspirant/pkg/bookmark"
	"github.com/umputun/aspirant/pkg/briefing"
	"github.com/umputun/aspirant/pkg/config"
	"github.com/umputun/aspirant/pkg/content"
	"github.com/umputun/aspirant/pkg/feed"
	"github.com/umputun/aspirant/pkg/llm"
	"github.com/umputun/aspirant/pkg/repository"
	"github.com/umputun/aspirant/pkg/rss"
	"github.com/umputun/aspirant/pkg/scheduler"
	"github.com/umputun/aspirant/pkg/session"
	"github.com/umputun/aspirant/server"
)

// Opts with all CLI options
type Opts struct {
	Config  string `short:"c" long:"config" env:"CONFIG" description:"configuration file, env and defaults only if empty"`
	EnvFile string `long:"env-file" env:"ENV_FILE" default:".env" description:"dotenv file with ASPIRANT_* overrides, skipped if missing"`

	// Common options
	Debug   bool `long:"dbg" env:"DEBUG" description:"debug mode"`
	Version bool `short:"V" long:"version" description:"show version info"`
	NoColor bool `long:"no-color" env:"NO_COLOR" description:"disable color output"`
}

var revision = "unknown"

func main() {
	var opts Opts
	parser := flags.NewParser(&opts, flags.Default)
	if _, err := parser.Parse(); err != nil {
		var flagsErr *flags.Error
		if errors.As(err, &flagsErr) && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}

	if opts.Version {
		fmt.Printf("Version: %s\nGolang: %s\n", revision, runtime.Version())
		os.Exit(0)
	}

	SetupLog(opts.Debug)
	if opts.NoColor {
		color.NoColor = true
	}
	log.Printf("[INFO] starting aspirant version %s", revision)

	ctx, cancel := context.WithCancel(context.Background())

	// handle termination signals
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
		<-sigChan
		log.Print("[INFO] termination signal received")
		cancel()
	}()

	err := run(ctx, opts)
	cancel()
	if err != nil {
		log.Printf("[ERROR] %v", err)
		os.Exit(1)
	}
	log.Print("[INFO] shutdown complete")
}

// run wires all components and blocks until ctx is canceled or the server fails
func run(ctx context.Context, opts Opts) error {
	if opts.EnvFile != "" {
		if err := godotenv.Load(opts.EnvFile); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("failed to load env file: %w", err)
		}
	}

	cfg, err := config.Load(opts.Config)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if cfg.LLM.APIKey != "" {
		SetupLog(opts.Debug, cfg.LLM.APIKey)
	}

	repos, err := repository.NewRepositories(ctx, repository.Config{
		DSN:             cfg.Database.DSN,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: time.Duration(cfg.Database.ConnMaxLifetime) * time.Second,
	})
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() {
		if err := repos.Close(); err != nil {
			log.Printf("[WARN] failed to close database: %v", err)
		}
	}()

	sessions := session.NewManager(repos.Setting, session.Limits{})
	if err := sessions.Restore(ctx); err != nil {
		log.Printf("[WARN] persisted session not restored: %v", err)
	}

	vault := bookmark.New(repos.Setting)
	if err := vault.Load(ctx); err != nil {
		log.Printf("[WARN] bookmarks not loaded, starting empty: %v", err)
	}

	source, warmer := makeSource(cfg)
	log.Printf("[INFO] content source %s", cfg.Source.Type)

	ctrl := briefing.New(briefing.Params{
		Source:       source,
		Store:        repos.Setting,
		Bookmarks:    vault,
		StockpileGap: cfg.Feed.StockpileGap,
		Scroll: feed.ScrollConfig{
			LoadMoreThreshold: float64(cfg.Feed.LoadMoreThreshold),
			BadgeClearOffset:  float64(cfg.Feed.BadgeClearOffset),
		},
		Logger: lgr.Default(),
	})
	ctrl.Attach(sessions)
	defer ctrl.Detach()

	srv := server.New(server.Params{
		Config:    cfg,
		Sessions:  sessions,
		Briefing:  ctrl,
		Bookmarks: vault,
		Version:   revision,
		Debug:     opts.Debug,
	})

	g, gctx := errgroup.WithContext(ctx)
	if warmer != nil && cfg.Source.Schedule != "" {
		sched, err := scheduler.New(warmer, cfg.Source.Schedule, max(time.Minute, 2*cfg.Source.Timeout))
		if err != nil {
			return fmt.Errorf("failed to create scheduler: %w", err)
		}
		if err := sched.Start(gctx); err != nil {
			return fmt.Errorf("failed to start scheduler: %w", err)
		}
		g.Go(func() error {
			<-gctx.Done()
			sched.Stop()
			return nil
		})
	}
	g.Go(func() error { return srv.Run(gctx) })

	if err := g.Wait(); err != nil {
		return fmt.Errorf("server failed: %w", err)
	}
	return nil
}

// makeSource builds the configured content source. The rss source is also returned as a warmer
// for the background schedule.
func makeSource(cfg *config.Config) (briefing.Source, scheduler.Warmer) {
	if cfg.Source.Type != config.SourceRSS {
		return llm.NewSource(cfg.LLM), nil
	}

	p := rss.Params{
		Feeds:         cfg.Feeds(),
		Fetcher:       rss.NewHTTPFetcher(cfg.Source.Timeout, cfg.Extraction.UserAgent),
		BatchSize:     cfg.LLM.BatchSize,
		SummaryLength: cfg.Extraction.SummaryLength,
	}
	if cfg.Extraction.Enabled {
		p.Extractor = content.NewHTTPExtractor(content.Options{
			Timeout:       cfg.Extraction.Timeout,
			UserAgent:     cfg.Extraction.UserAgent,
			MinTextLength: cfg.Extraction.MinTextLength,
			SummaryLength: cfg.Extraction.SummaryLength,
		})
	}
	src := rss.NewSource(p)
	return src, src
}

// SetupLog configures lgr and the std logger, secrets are masked in the output
func SetupLog(dbg bool, secs ...string) {
	logOpts := []lgr.Option{lgr.Msec, lgr.LevelBraces}
	if dbg {
		logOpts = []lgr.Option{lgr.Debug, lgr.Msec, lgr.LevelBraces, lgr.StackTraceOnError}
	}

	colorizer := lgr.Mapper{
		ErrorFunc:  func(s string) string { return color.New(color.FgHiRed).Sprint(s) },
		WarnFunc:   func(s string) string { return color.New(color.FgRed).Sprint(s) },
		InfoFunc:   func(s string) string { return color.New(color.FgYellow).Sprint(s) },
		DebugFunc:  func(s string) string { return color.New(color.FgWhite).Sprint(s) },
		CallerFunc: func(s string) string { return color.New(color.FgBlue).Sprint(s) },
		TimeFunc:   func(s string) string { return color.New(color.FgCyan).Sprint(s) },
	}
	logOpts = append(logOpts, lgr.Map(colorizer))
	if len(secs) > 0 {
		logOpts = append(logOpts, lgr.Secret(secs...))
	}
	lgr.SetupStdLogger(logOpts...)
	lgr.Setup(logOpts...)
}
