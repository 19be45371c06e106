// cmd/docgate/main.go
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"mcp-docgate/internal/app"
	"mcp-docgate/internal/backend"
	"mcp-docgate/internal/config"
	"mcp-docgate/internal/mcp"
	"mcp-docgate/internal/metrics"
)

const serviceName = "docgate"

var BuildVersion = "dev" // diisi saat ldflags

func main() {
	v := config.NewViper()
	logger, err := zap.NewProduction()
	if err != nil {
		logger = zap.NewNop()
	}

	root := &cobra.Command{
		Use:           serviceName,
		Short:         "Tool gateway in front of a Docmost workspace",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			log, err := buildLogger(v.GetString("log_level"))
			if err != nil {
				return err
			}
			logger = log
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = logger.Sync()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signalAwareContext(cmd.Context())
			defer cancel()
			return run(ctx, v, logger)
		},
	}

	flags := root.Flags()
	flags.String("base-url", "", "backend base URL (DOCMOST_URL)")
	flags.Int("port", config.DefaultPort, "listen port (PORT)")
	flags.Bool("read-only", false, "disable mutating tools (READ_ONLY)")
	flags.String("log-level", config.DefaultLogLevel, "log level: debug, info, warn, error (LOG_LEVEL)")
	flags.Duration("timeout", config.DefaultTimeout, "backend request timeout (DOCMOST_TIMEOUT)")
	bindFlags(v, flags)

	if err := root.Execute(); err != nil {
		logger.Error("command failed", zap.Error(err))
		_ = logger.Sync()
		os.Exit(1)
	}
}

func run(ctx context.Context, v *viper.Viper, log *zap.Logger) error {
	cfg, err := config.FromViper(v)
	if err != nil {
		return err
	}
	if cfg.PortDefaulted {
		log.Warn("config.port_default", zap.Int("port", cfg.Port))
	}
	if cfg.HasBothCredentials() {
		log.Warn("config.credentials", zap.String("using", cfg.Credential().String()),
			zap.String("detail", "DOCMOST_TOKEN set, ignoring DOCMOST_EMAIL/DOCMOST_PASSWORD"))
	}

	promReg := prometheus.NewRegistry()
	promReg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(promReg)

	client, err := backend.New(backend.Config{
		BaseURL:  cfg.BaseURL,
		Token:    cfg.Token,
		Timeout:  cfg.Timeout,
		MaxPages: cfg.MaxPages,
		Observer: m,
	}, log)
	if err != nil {
		return err
	}
	if cfg.Credential() == config.CredentialPassword {
		if err := client.Login(ctx, cfg.Email, cfg.Password); err != nil {
			return err
		}
	}

	reg, err := mcp.NewRegistry(cfg.ReadOnly)
	if err != nil {
		return err
	}
	info := mcp.ServerInfo{Name: serviceName, Version: BuildVersion}
	handler := mcp.NewHandler(mcp.NewDispatcher(client, cfg.ReadOnly, m), reg, info, log)

	a := app.New(app.Deps{
		Handler:    handler,
		Info:       info,
		Gatherer:   promReg,
		Logger:     log,
		APIKeyHash: cfg.APIKeyHash,
	})

	log.Info("server.config",
		zap.String("base_url", cfg.BaseURL),
		zap.String("credential", cfg.Credential().String()),
		zap.Bool("read_only", cfg.ReadOnly),
		zap.Strings("tools", reg.Names()),
		zap.Bool("api_key_guard", cfg.APIKeyHash != ""),
	)
	return a.Run(ctx, cfg.Addr())
}

// flag name -> viper key
var flagKeys = map[string]string{
	"base-url":  "base_url",
	"port":      "port",
	"read-only": "read_only",
	"log-level": "log_level",
	"timeout":   "timeout",
}

func bindFlags(v *viper.Viper, flags *pflag.FlagSet) {
	for name, key := range flagKeys {
		if f := flags.Lookup(name); f != nil {
			_ = v.BindPFlag(key, f)
		}
	}
}

func buildLogger(level string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		lvl = zapcore.InfoLevel
	}
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	return cfg.Build()
}

func signalAwareContext(parent context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(parent)

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		defer signal.Stop(signals)
		select {
		case <-signals:
			cancel()
		case <-ctx.Done():
		}
	}()

	return ctx, cancel
}
