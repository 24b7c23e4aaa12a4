// Package cmd wires configuration, data sources, the controller and the
// terminal front-end into the weather-panel command.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"weather-panel/api"
	"weather-panel/cache"
	"weather-panel/collector"
	"weather-panel/config"
	"weather-panel/console"
	"weather-panel/datasource"
	"weather-panel/logger"
	"weather-panel/panel"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
)

var (
	envFile        string
	httpAddr       string
	logLevel       string
	noticeDuration time.Duration
)

// RootCmd runs the weather window on the terminal
var RootCmd = &cobra.Command{
	Use:   "weather-panel",
	Short: "Weather App - current conditions for any city",
	Long: `Type a city name and press enter to look up its current weather.

After the first successful lookup, switch panels with /temp and /other.
/quit or end of input closes the window.`,
	SilenceUsage: true,
	RunE:         run,
}

// Execute runs the root command and exits non-zero on failure
func Execute() {
	RootCmd.CompletionOptions.HiddenDefaultCmd = true

	if err := RootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	RootCmd.Flags().StringVar(&envFile, "env-file", ".env", "Path to an optional .env file")
	RootCmd.Flags().StringVar(&httpAddr, "http-addr", "", "Serve status and metrics on this address (overrides HTTP_ADDR)")
	RootCmd.Flags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error (overrides LOG_LEVEL)")
	RootCmd.Flags().DurationVar(&noticeDuration, "notice-duration", 0, "How long status notices stay visible (overrides NOTICE_DURATION)")
}

func run(cmd *cobra.Command, args []string) error {
	defer logger.Close()
	log := logger.GetLogger()

	cfg, err := config.Load(envFile)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	applyFlags(cmd, cfg)
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if err := logger.SetLevel(cfg.LogLevel); err != nil {
		return err
	}

	provider, icons := buildSources(cfg)
	cachedIcons := cache.NewCachedIconSource(icons, cfg.IconCacheTTL)

	registry := prometheus.NewRegistry()
	lookups := collector.NewLookupCollector(provider, cachedIcons, collector.NewMetrics(registry))
	lookups.SetFetchTimeout(cfg.RequestTimeout)
	defer lookups.Stop()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	loop := panel.NewLoop(64)
	// runs before lookups.Stop so late deliveries are dropped
	defer loop.Close()

	view := console.NewView(os.Stdout, isTerminal(os.Stdout))
	loop.SetAfterEach(view.Flush)
	store := api.NewSnapshotStore()
	controller := panel.NewController(view, lookups, loop,
		panel.WithPublisher(store),
		panel.WithNoticeDuration(cfg.NoticeDuration),
		panel.WithSunOffset(cfg.SunOffset),
	)
	// first frame, drawn before any producer can touch the view
	view.Redraw()

	if cfg.HTTPAddr != "" {
		server := api.NewServer(store, registry, cfg.HTTPAddr, cfg.SunOffset)
		go func() {
			if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				loop.Fail(fmt.Errorf("status server failed: %w", err))
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := server.Shutdown(shutdownCtx); err != nil {
				log.Warnw("Status server shutdown failed", "error", err)
			}
		}()
	}

	ctx, quit := context.WithCancel(ctx)
	defer quit()

	input := console.NewInput(os.Stdin, loop.Post, controller, view, quit)
	// piped input still shows the last lookup before exiting
	input.SetSettle(lookups.Wait)
	go func() {
		if err := input.Run(ctx); err != nil {
			loop.Fail(err)
		}
	}()

	log.Infow("Weather panel started",
		"provider", provider.Name(),
		"icons", cachedIcons.Name(),
		"httpAddr", cfg.HTTPAddr)

	if err := loop.Run(ctx); err != nil {
		return fmt.Errorf("weather panel stopped: %w", err)
	}

	hits, misses := cachedIcons.CacheStats()
	log.Infow("Weather panel closed", "iconCacheHits", hits, "iconCacheMisses", misses)
	return nil
}

// applyFlags lets explicitly set flags win over the environment
func applyFlags(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("http-addr") {
		cfg.HTTPAddr = httpAddr
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = logLevel
	}
	if flags.Changed("notice-duration") {
		cfg.NoticeDuration = noticeDuration
	}
}

func buildSources(cfg *config.Config) (datasource.WeatherProvider, datasource.IconSource) {
	var provider datasource.WeatherProvider = datasource.NewOpenWeatherMapProvider(cfg.APIKey, cfg.WeatherBaseURL, cfg.RequestTimeout)
	var icons datasource.IconSource = datasource.NewOpenWeatherMapIconSource(cfg.IconBaseURL, cfg.RequestTimeout)

	if cfg.RateLimit.Enabled {
		provider = datasource.NewRateLimitedWeatherProvider(provider, cfg.RateLimit.RPS, cfg.RateLimit.Burst)
		icons = datasource.NewRateLimitedIconSource(icons, cfg.RateLimit.RPS, cfg.RateLimit.Burst)
		logger.GetLogger().Debugw("Applied rate limiting",
			"rps", cfg.RateLimit.RPS,
			"burst", cfg.RateLimit.Burst)
	}
	return provider, icons
}

func isTerminal(f *os.File) bool {
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}
