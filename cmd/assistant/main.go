package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"

	"smart-home-agent/config"
	"smart-home-agent/internal/application"
	"smart-home-agent/internal/domain"
	"smart-home-agent/internal/infra/anthropic"
	"smart-home-agent/internal/infra/console"
	"smart-home-agent/internal/infra/gemini"
	"smart-home-agent/internal/infra/memstore"
	"smart-home-agent/internal/infra/pushover"
	"smart-home-agent/internal/infra/redisstore"
	"smart-home-agent/internal/infra/sqlstore"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		cancel()
	}()

	if err := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// customerStore is a CustomerStore that can also be seeded.
type customerStore interface {
	application.CustomerStore
	Put(ctx context.Context, customer domain.Customer) error
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	var (
		configPath string
		seedFile   string
		requests   string
		customerID string
		driver     string
	)

	flagSet := pflag.NewFlagSet("assistant", pflag.ContinueOnError)
	flagSet.SetOutput(stderr)
	flagSet.StringVarP(&configPath, "config", "c", "config.yaml", "path to config file")
	flagSet.StringVar(&seedFile, "seed", "", "YAML file of customers and devices to load into the store")
	flagSet.StringVarP(&requests, "requests", "r", "", "read requests from this file instead of stdin")
	flagSet.StringVar(&customerID, "customer", "", "customer id for lines without a \"customer-id:\" prefix")
	flagSet.StringVar(&driver, "store", "", "store driver: memory, redis, sqlite or postgres")

	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}
	if extra := flagSet.Args(); len(extra) > 0 {
		return fmt.Errorf("unexpected argument: %s", extra[0])
	}

	cfg, err := loadConfig(configPath, flagSet.Changed("config"))
	if err != nil {
		return err
	}
	if seedFile != "" {
		cfg.Store.SeedFile = seedFile
	}
	if requests != "" {
		cfg.Requests.File = requests
	}
	if customerID != "" {
		cfg.Requests.DefaultCustomer = customerID
	}
	if driver != "" {
		cfg.Store.Driver = driver
		// defaults such as the sqlite DSN depend on the driver
		cfg.ApplyDefaults()
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	logger := setupLogger(cfg.Log, stderr)

	store, closeStore, err := openStore(ctx, cfg.Store, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := closeStore(); err != nil {
			logger.Warn("closing store", "error", err)
		}
	}()

	if cfg.Store.SeedFile != "" {
		if err := seedStore(ctx, store, cfg.Store.SeedFile); err != nil {
			return err
		}
		logger.Info("seeded store", "file", cfg.Store.SeedFile)
	}

	generator, err := createResponder(cfg)
	if err != nil {
		return err
	}

	notifiers := application.MultiNotifier{console.NewWriterNotifier(stdout)}
	if cfg.Pushover.Enabled {
		notifiers = append(notifiers, pushover.NewClient(cfg.Pushover.Token, cfg.Pushover.UserKey, cfg.Pushover.Title))
	}

	var source application.RequestSource
	if cfg.Requests.File != "" {
		source = console.NewFileSource(cfg.Requests.File, cfg.Requests.DefaultCustomer, logger)
	} else {
		source = console.NewReaderSource(stdin, cfg.Requests.DefaultCustomer, logger)
	}

	assistant := application.NewAssistant(
		source,
		application.NewDefaultPipeline(store, logger),
		generator,
		notifiers,
		logger,
	)

	logger.Info("starting smart home agent",
		"store", cfg.Store.Driver,
		"responder", cfg.Responder.Provider,
		"source", source.Name(),
	)

	if err := assistant.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("running assistant: %w", err)
	}
	return nil
}

// loadConfig falls back to defaults when the default config path does not
// exist; an explicitly requested file must be readable.
func loadConfig(path string, explicit bool) (*config.Config, error) {
	cfg, err := config.Load(path)
	if err == nil {
		return cfg, nil
	}
	if !explicit && errors.Is(err, fs.ErrNotExist) {
		return config.Default(), nil
	}
	return nil, fmt.Errorf("loading config: %w", err)
}

func openStore(ctx context.Context, cfg config.StoreConfig, logger *slog.Logger) (customerStore, func() error, error) {
	noop := func() error { return nil }

	switch cfg.Driver {
	case "memory":
		return memstore.New(logger), noop, nil
	case "redis":
		store, err := redisstore.Dial(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, logger)
		if err != nil {
			return nil, nil, err
		}
		return store, store.Close, nil
	case "sqlite", "postgres":
		store, err := sqlstore.Open(ctx, cfg.Driver, cfg.SQL.DSN, logger)
		if err != nil {
			return nil, nil, err
		}
		return store, store.Close, nil
	default:
		return nil, nil, fmt.Errorf("unknown store driver %q", cfg.Driver)
	}
}

func seedStore(ctx context.Context, store customerStore, path string) error {
	seed, err := memstore.LoadSeed(path)
	if err != nil {
		return err
	}
	for _, c := range seed.Customers {
		if err := store.Put(ctx, c); err != nil {
			return fmt.Errorf("seeding customer %s: %w", c.ID, err)
		}
	}
	return nil
}

func createResponder(cfg *config.Config) (application.ResponseGenerator, error) {
	switch cfg.Responder.Provider {
	case "template":
		return &application.TemplateResponder{}, nil
	case "anthropic":
		return anthropic.NewClaudeClient(cfg.Anthropic.APIKey, cfg.Anthropic.Model), nil
	case "gemini":
		return gemini.NewClient(cfg.Gemini.APIKey, cfg.Gemini.Model), nil
	default:
		return nil, fmt.Errorf("unknown responder provider %q", cfg.Responder.Provider)
	}
}

func setupLogger(cfg config.LogConfig, w io.Writer) *slog.Logger {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}

	return slog.New(handler)
}
