package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/stuartaccent/images/internal/config"
	"github.com/stuartaccent/images/internal/env"
	"github.com/stuartaccent/images/internal/filter"
	"github.com/stuartaccent/images/internal/geometry"
	"github.com/stuartaccent/images/internal/imaging"
	"github.com/stuartaccent/images/internal/rendition"
	"github.com/stuartaccent/images/internal/server"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "--version", "-v", "version":
			fmt.Printf("renditions %s\n", Version)
			fmt.Printf("  Build time: %s\n", BuildTime)
			fmt.Printf("  Git commit: %s\n", GitCommit)
			return
		case "--help", "-h", "help":
			printHelp()
			return
		}
	}

	// A missing .env file is fine; the environment may be set directly.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "failed to load .env: %v\n", err)
		os.Exit(1)
	}

	cfg, err := config.Load(env.GetString("IMAGES_CONFIG", ""))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	// Logs go to stderr; stdout is for MCP protocol
	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync() //flushes buffer, if any

	if len(os.Args) > 1 && os.Args[1] == "render" {
		if err := render(cfg, os.Args[2:]); err != nil {
			logger.Fatalw("render failed", "error", err)
		}
		return
	}
	if len(os.Args) > 1 && os.Args[1] == "config" {
		if err := writeConfig(cfg, os.Args[2:]); err != nil {
			logger.Fatalw("config failed", "error", err)
		}
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := serve(ctx, cfg, logger); err != nil && !errors.Is(err, context.Canceled) {
		logger.Fatalw("server error", "error", err)
	}
}

func printHelp() {
	fmt.Println("renditions - image rendition engine and MCP server")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  renditions                                   Serve MCP over stdin/stdout")
	fmt.Println("  renditions render SOURCE SPEC OUTPUT [X Y W H]")
	fmt.Println("                                               Render one file, optionally with a focal point")
	fmt.Println("  renditions config FILE                       Write the effective configuration as JSON")
	fmt.Println()
	fmt.Println("Options:")
	fmt.Println("  --version, -v    Print version information")
	fmt.Println("  --help, -h       Print this help message")
	fmt.Println()
	fmt.Println("Environment variables (also read from .env):")
	fmt.Println("  IMAGES_CONFIG                     JSON config file")
	fmt.Println("  IMAGES_MEDIA_ROOT                 Directory for originals and renditions")
	fmt.Println("  IMAGES_CLEAR_RENDITIONS_ON_SAVE   Clear renditions before regenerating defaults")
	fmt.Println("  IMAGES_DEFAULT_FILTER_SPECS       Comma separated default specs")
	fmt.Println("  IMAGES_JPG_QUALITY                Default JPEG quality (1-100)")
	fmt.Println("  IMAGES_THUMBNAIL_FILTER_SPEC      Spec the \"thumbnail\" alias expands to")
	fmt.Println("  IMAGES_REDIS_ENABLED              Keep the rendition index in Redis")
	fmt.Println("  IMAGES_REDIS_ADDR, IMAGES_REDIS_PW, IMAGES_REDIS_DB")
	fmt.Println("  IMAGES_LOG_LEVEL=debug            Enable debug logging")
}

// newLogger builds a production logger at level, or a development logger
// for "debug".
func newLogger(level string) (*zap.SugaredLogger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, err
	}

	zcfg := zap.NewProductionConfig()
	if lvl == zapcore.DebugLevel {
		zcfg = zap.NewDevelopmentConfig()
	}
	zcfg.Level = zap.NewAtomicLevelAt(lvl)
	zcfg.OutputPaths = []string{"stderr"}

	logger, err := zcfg.Build()
	if err != nil {
		return nil, err
	}
	return logger.Sugar(), nil
}

func serve(ctx context.Context, cfg *config.Config, logger *zap.SugaredLogger) error {
	logger.Debugw("starting", "version", Version, "build_time", BuildTime, "commit", GitCommit)

	var store rendition.Store = rendition.NewMemoryStore()
	if cfg.Redis.Enabled {
		rdb := rendition.NewRedisClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		defer rdb.Close()

		if err := rdb.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("failed to connect to redis: %w", err)
		}
		logger.Infow("rendition index connected", "addr", cfg.Redis.Addr)
		store = rendition.NewRedisStore(rdb)
	}

	backend := imaging.NewBackend()
	storage := rendition.NewFileSystem(cfg.MediaRoot)
	service := rendition.NewService(cfg, store, storage, backend, logger)

	server.Version = Version
	logger.Infow("server started", "media_root", cfg.MediaRoot)
	return server.New(service, backend, logger).Run(ctx)
}

func render(cfg *config.Config, args []string) error {
	if len(args) != 3 && len(args) != 7 {
		return fmt.Errorf("usage: renditions render SOURCE SPEC OUTPUT [X Y W H]")
	}

	var focal *geometry.FocalPoint
	if len(args) == 7 {
		values := make([]int, 4)
		for i, arg := range args[3:] {
			v, err := strconv.Atoi(arg)
			if err != nil || v < 0 {
				return fmt.Errorf("invalid focal point value %q", arg)
			}
			values[i] = v
		}
		focal = &geometry.FocalPoint{X: values[0], Y: values[1], Width: values[2], Height: values[3]}
	}

	res, err := server.Render(imaging.NewBackend(), filter.New(args[1], cfg.FilterOptions()), server.NewFileSource(args[0], focal), args[2])
	if err != nil {
		return err
	}

	fmt.Printf("%s %s %dx%d %d bytes\n", res.OutputPath, res.Format, res.Width, res.Height, res.FileSizeBytes)
	return nil
}

// writeConfig saves cfg, after file and environment overrides, to args[0].
func writeConfig(cfg *config.Config, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: renditions config FILE")
	}
	if err := cfg.SaveToFile(args[0]); err != nil {
		return err
	}
	fmt.Printf("configuration written to %s\n", args[0])
	return nil
}
