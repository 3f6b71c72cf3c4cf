package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/nulzo/metasearch/cmd"
	"github.com/nulzo/metasearch/internal/cli"
	"github.com/nulzo/metasearch/internal/config"
	"github.com/nulzo/metasearch/internal/gateway"
	"github.com/nulzo/metasearch/internal/llm"
	"github.com/nulzo/metasearch/internal/platform/logger"
	"github.com/nulzo/metasearch/internal/platform/otel"
	"github.com/nulzo/metasearch/internal/server"
	"github.com/nulzo/metasearch/internal/store/cache"
	"go.uber.org/zap"

	// Register provider adapters
	_ "github.com/nulzo/metasearch/internal/llm/google"
	_ "github.com/nulzo/metasearch/internal/llm/openai"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger.Initialize(logger.DefaultConfig())
	defer logger.Sync()
	log := logger.Get()

	fmt.Println()
	fmt.Printf("  %s %s\n\n", cli.Banner("metasearch"), cli.Stylize(cmd.AppVersion, cli.DimCode))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracer, err := otel.InitTracer(cfg.Tracing, log, os.Stdout)
	if err != nil {
		log.Fatal("Failed to initialize tracing", zap.Error(err))
	}
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracer(flushCtx); err != nil {
			log.Error("Failed to flush traces", zap.Error(err))
		}
	}()

	var opts []gateway.Option
	switch cfg.Cache.Backend {
	case "memory":
		opts = append(opts, gateway.WithCache(cache.NewMemoryCache(), cfg.Cache.TTL))
		log.Info("Response cache enabled", zap.String("backend", "memory"), zap.Duration("ttl", cfg.Cache.TTL))
	case "redis":
		rc, err := cache.DialRedis(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			log.Warn("Redis unavailable, continuing without a response cache", zap.String("addr", cfg.Redis.Addr), zap.Error(err))
			break
		}
		defer func() {
			_ = rc.Close()
		}()
		opts = append(opts, gateway.WithCache(rc, cfg.Cache.TTL))
		log.Info("Response cache enabled", zap.String("backend", "redis"), zap.String("addr", cfg.Redis.Addr))
	}

	service := gateway.NewService(log, opts...)
	gateway.BootstrapProviders(ctx, service, cfg.Providers, llm.DefaultClient(), log)

	if cfg.Server.CheckUpdates {
		go checkForUpdates(ctx, log)
	}

	srv := server.New(cfg, log, service)

	log.Info(fmt.Sprintf("%s Listening on %s", cli.Arrow(), cli.Stylize("http://localhost:"+cfg.Server.Port, cli.Cyan)))
	if err := srv.Run(ctx); err != nil {
		log.Fatal("Server failed", zap.Error(err))
	}
	log.Info("Server stopped")
}

func checkForUpdates(ctx context.Context, log *zap.Logger) {
	info, err := cmd.NewUpdateChecker().Check(ctx, cmd.AppVersion)
	if err != nil {
		log.Debug("Update check failed", zap.Error(err))
		return
	}
	if info.Outdated {
		log.Warn(info.Notice())
	}
}
