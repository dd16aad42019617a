package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/tcpgate/tcpgate/internal/infra/buildinfo"
	"github.com/tcpgate/tcpgate/internal/infra/confloader"
	"github.com/tcpgate/tcpgate/internal/infra/shutdown"
	"github.com/tcpgate/tcpgate/internal/server/adminserver"
	"github.com/tcpgate/tcpgate/internal/server/config"
	"github.com/tcpgate/tcpgate/internal/server/tcpserver"
	"github.com/tcpgate/tcpgate/internal/telemetry/logger"
	"github.com/tcpgate/tcpgate/internal/telemetry/metric"
)

func main() {
	if err := app().Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func app() *cli.App {
	return &cli.App{
		Name:    "tcpgate",
		Usage:   "TCP/TLS front server with per-hostname credentials",
		Version: buildinfo.String(),
		Commands: []*cli.Command{
			serveCommand(),
			checkCommand(),
			versionCommand(),
		},
	}
}

func configFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "Path to the YAML configuration file",
		EnvVars: []string{"TCPGATE_CONFIG"},
	}
}

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Run the server",
		Flags: []cli.Flag{configFlag()},
		Action: func(c *cli.Context) error {
			return serve(c.String("config"))
		},
	}
}

func checkCommand() *cli.Command {
	return &cli.Command{
		Name:  "check",
		Usage: "Validate a configuration file and exit",
		Flags: []cli.Flag{configFlag()},
		Action: func(c *cli.Context) error {
			cfg, err := loadConfig(c.String("config"))
			if err != nil {
				return err
			}
			if err := config.Verify(cfg); err != nil {
				return err
			}
			fmt.Fprintln(c.App.Writer, "configuration ok")
			return nil
		},
	}
}

func versionCommand() *cli.Command {
	return &cli.Command{
		Name:  "version",
		Usage: "Print build information",
		Action: func(c *cli.Context) error {
			info := buildinfo.Get()
			fmt.Fprintf(c.App.Writer, "tcpgate %s (commit: %s, built: %s, %s)\n",
				info.Version, info.Commit, info.BuildTime, info.GoVersion)
			return nil
		},
	}
}

func loadConfig(path string) (*config.ServerConfig, error) {
	cfg := config.Default()
	loader := confloader.NewLoader(confloader.WithConfigFile(path))
	if err := loader.Load(cfg); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

func serve(configFile string) error {
	cfg, err := loadConfig(configFile)
	if err != nil {
		return err
	}
	if err := config.Verify(cfg); err != nil {
		return fmt.Errorf("verify config: %w", err)
	}

	log, err := logger.New(logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: os.Stderr,
	})
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	logger.SetDefault(log)

	log.Info("starting tcpgate",
		"version", buildinfo.Version,
		"commit", buildinfo.Commit,
		"config", configFile,
		"listen", cfg.Listener.Addr,
		"admin", cfg.Admin.Addr)
	log.Debug("effective configuration", "config", fmt.Sprintf("%+v", config.Sanitize(cfg)))

	builder, stopTLS, err := config.Build(cfg)
	if err != nil {
		return fmt.Errorf("build config: %w", err)
	}
	defer stopTLS()
	snap := builder.Snapshot()

	metrics := metric.NewRegistry()

	srv := tcpserver.New(cfg.Listener.Addr, snap, tcpserver.EchoHandler(),
		tcpserver.WithLogger(log),
		tcpserver.WithMetrics(metrics),
		tcpserver.WithAcceptRateLimit(cfg.Listener.AcceptRateLimit),
	)
	if err := srv.Start(context.Background()); err != nil {
		return fmt.Errorf("start server: %w", err)
	}

	var admin *adminserver.Server
	if cfg.Admin.Addr != "" {
		admin = adminserver.New(&adminserver.Config{
			Addr:      cfg.Admin.Addr,
			AuthToken: cfg.Admin.AuthToken,
			Metrics:   metrics,
			Logger:    log,
		})
		if err := admin.Start(); err != nil {
			return fmt.Errorf("start admin server: %w", err)
		}
	}

	// The snapshot is immutable; a changed config file takes effect on
	// restart, so only log the change.
	var watcher *confloader.Watcher
	if configFile != "" {
		watcher, err = confloader.NewWatcher(confloader.WithWatcherLogger(log))
		if err != nil {
			return fmt.Errorf("init config watcher: %w", err)
		}
		if err := watcher.Watch(configFile); err != nil {
			return err
		}
		watcher.OnChange(func(path string) {
			log.Info("configuration file changed, restart to apply", "file", path)
		})
		watcher.StartAsync()
	}

	reload := shutdown.NewReloadHandler(func() {
		log.Info("reload requested; configuration is pinned per process, restart to apply")
	})
	reload.Start()

	handler := shutdown.NewHandler(snap.GracefulCloseTimeout() + 5*time.Second)
	handler.OnShutdown(func(ctx context.Context) error {
		reload.Stop()
		if watcher != nil {
			return watcher.Stop()
		}
		return nil
	})
	if admin != nil {
		handler.OnShutdown(func(ctx context.Context) error {
			log.Info("shutting down admin server")
			return admin.Shutdown(ctx)
		})
	}
	handler.OnShutdown(func(ctx context.Context) error {
		log.Info("shutting down server")
		return srv.Shutdown(ctx)
	})

	return handler.Wait()
}
