package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/scanforge/artifact-fetch/internal/adapter/execrunner"
	"github.com/scanforge/artifact-fetch/internal/adapter/location"
	"github.com/scanforge/artifact-fetch/internal/adapter/sqlite"
	"github.com/scanforge/artifact-fetch/internal/config"
	"github.com/scanforge/artifact-fetch/internal/logger"
	"github.com/scanforge/artifact-fetch/internal/port"
	"github.com/scanforge/artifact-fetch/internal/service/fetch"
)

const version = "0.1.0"

func main() {
	configPath := flag.String("config", "config.yaml", "Path to configuration file")
	destDir := flag.String("to", "", "Destination directory (default: one temporary directory per artifact)")
	flag.Parse()

	uris := flag.Args()
	if len(uris) == 0 {
		fmt.Fprintln(os.Stderr, "usage: artifact-fetch [flags] <uri>...")
		fmt.Fprintln(os.Stderr, "URIs may be HTTP(S) URLs or docker:// registry references.")
		os.Exit(2)
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.Format); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	zapLogger := logger.L()
	zapLogger.Info("starting artifact-fetch",
		zap.String("version", version),
		zap.Int("uris", len(uris)),
	)

	locations := location.New(map[string]string{
		fetch.SkopeoBinDirKey: cfg.Registry.BinDir,
	})
	runner := execrunner.New(cfg.Registry.GetCommandTimeout())

	var journal port.Journal
	if cfg.Journal.Path != "" {
		j, err := sqlite.Open(cfg.Journal.Path)
		if err != nil {
			zapLogger.Fatal("failed to open fetch journal",
				zap.Error(err),
				zap.String("path", cfg.Journal.Path))
		}
		defer j.Close()
		journal = j
	}

	destination := cfg.Fetch.DestinationDir
	if *destDir != "" {
		destination = *destDir
	}

	svc := fetch.New(&fetch.Config{
		HTTPClient:     fetch.NewHTTPClient(cfg.HTTP.GetTimeout()),
		UserAgent:      cfg.HTTP.UserAgent,
		DestinationDir: destination,
		Workers:        cfg.Fetch.Workers,
	}, runner, locations, journal, zapLogger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	result := svc.FetchURLs(ctx, uris)

	for _, d := range result.Downloads {
		fmt.Printf("ok\t%s\t%s\tsize=%d sha1=%s md5=%s\n", d.URI, d.Path, d.Size, d.SHA1, d.MD5)
	}
	for _, f := range result.Failures {
		fmt.Printf("failed\t%s\t%v\n", f.URI, f.Err)
	}

	if len(result.Failures) > 0 {
		os.Exit(1)
	}
}

// loadConfig falls back to defaults when the config file does not exist, so
// the binary works out of the box without one.
func loadConfig(path string) (*config.Config, error) {
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return config.Default(), nil
	}
	return config.Load(path)
}
