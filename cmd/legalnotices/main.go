package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/natefinch/lumberjack.v2"

	legalnotices "github.com/goliatone/go-legalnotices"
	"github.com/goliatone/go-legalnotices/internal/di"
)

const usage = `usage: legalnotices [-config file] [-env file] <command> [flags]

commands:
  install [-force]   create the tables and seed the default pages and settings
  serve [-addr]      serve the HTTP routes
  settings           print the current settings as JSON`

var moduleBuilder = buildModule

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout); err != nil {
		log.Fatalf("legalnotices: %v", err)
	}
}

func run(ctx context.Context, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("legalnotices", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	configPath := fs.String("config", "", "Path to a YAML configuration file")
	envFile := fs.String("env", ".env", "Path to a dotenv file; missing files are ignored")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w\n%s", err, usage)
	}
	if fs.NArg() == 0 {
		return errors.New(usage)
	}

	if path := strings.TrimSpace(*envFile); path != "" {
		if err := godotenv.Load(path); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("load env file: %w", err)
		}
	}

	cfg, err := legalnotices.LoadConfig(*configPath)
	if err != nil {
		return err
	}

	command, rest := fs.Arg(0), fs.Args()[1:]
	switch command {
	case "install":
		return runInstall(ctx, cfg, rest, out)
	case "serve":
		return runServe(ctx, cfg, rest, out)
	case "settings":
		return runSettings(ctx, cfg, rest, out)
	default:
		return fmt.Errorf("unknown command %q\n%s", command, usage)
	}
}

func runInstall(ctx context.Context, cfg legalnotices.Config, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("install", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	force := fs.Bool("force", false, "Reset pages and settings to their defaults")
	if err := fs.Parse(args); err != nil {
		return err
	}

	module, closeModule, err := moduleBuilder(ctx, cfg)
	if err != nil {
		return fmt.Errorf("bootstrap module: %w", err)
	}
	defer closeModule()

	if err := module.Install(ctx, *force); err != nil {
		return fmt.Errorf("install: %w", err)
	}
	fmt.Fprintf(out, "legal notices installed (force=%t)\n", *force)
	return nil
}

func runSettings(ctx context.Context, cfg legalnotices.Config, args []string, out io.Writer) error {
	if len(args) > 0 {
		return fmt.Errorf("settings takes no arguments\n%s", usage)
	}
	module, closeModule, err := moduleBuilder(ctx, cfg)
	if err != nil {
		return fmt.Errorf("bootstrap module: %w", err)
	}
	defer closeModule()

	if err := module.Load(ctx); err != nil {
		return fmt.Errorf("load: %w", err)
	}
	encoder := json.NewEncoder(out)
	encoder.SetIndent("", "  ")
	return encoder.Encode(module.GetSettings())
}

func runServe(ctx context.Context, cfg legalnotices.Config, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	addr := fs.String("addr", ":8080", "Listen address")
	if err := fs.Parse(args); err != nil {
		return err
	}

	module, closeModule, err := moduleBuilder(ctx, cfg)
	if err != nil {
		return fmt.Errorf("bootstrap module: %w", err)
	}
	defer closeModule()

	if err := module.Load(ctx); err != nil {
		return fmt.Errorf("load: %w", err)
	}
	handler, err := module.Handler()
	if err != nil {
		return err
	}

	server := &http.Server{
		Addr:              *addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		fmt.Fprintf(out, "legal notices listening on %s\n", *addr)
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	}
}

// buildModule opens the module. Console logs go to stderr, or to a rotated
// file when Logging.File is set.
func buildModule(ctx context.Context, cfg legalnotices.Config) (*legalnotices.Module, func(), error) {
	var (
		logWriter io.Writer = os.Stderr
		rotator   *lumberjack.Logger
	)
	if path := strings.TrimSpace(cfg.Logging.File); path != "" {
		rotator = &lumberjack.Logger{
			Filename:   path,
			MaxSize:    10,
			MaxBackups: 3,
			MaxAge:     28,
			Compress:   true,
		}
		logWriter = rotator
	}

	module, err := legalnotices.New(ctx, cfg, di.WithLogWriter(logWriter))
	if err != nil {
		if rotator != nil {
			_ = rotator.Close()
		}
		return nil, nil, err
	}
	return module, func() {
		if err := module.Close(); err != nil {
			log.Printf("legalnotices: close: %v", err)
		}
		if rotator != nil {
			_ = rotator.Close()
		}
	}, nil
}
