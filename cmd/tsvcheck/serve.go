package main

import (
	"context"
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/JonMunkholm/tsvcheck/internal/check"
	"github.com/JonMunkholm/tsvcheck/internal/web"
	"github.com/spf13/cobra"
)

type serveFlags struct {
	host  string
	port  int
	rules string
}

func newServeCmd(root *rootFlags) *cobra.Command {
	flags := &serveFlags{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP check service",
		Long: `Serve accepts TSV uploads on POST /api/check and streams the failures back
as JSON lines. GET /api/rules shows the active rules and GET /healthz
reports liveness.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, root, flags)
		},
	}

	f := cmd.Flags()
	f.StringVar(&flags.host, "host", "", "interface to bind (env SERVER_HOST)")
	f.IntVarP(&flags.port, "port", "p", 0, "port to listen on (env SERVER_PORT)")
	f.StringVarP(&flags.rules, "rules", "r", "", "YAML rules file (env TSVCHECK_RULES)")
	return cmd
}

func runServe(cmd *cobra.Command, root *rootFlags, flags *serveFlags) error {
	cfg, err := loadConfig(cmd, root)
	if err != nil {
		return err
	}

	changed := cmd.Flags().Changed
	if changed("host") {
		cfg.Server.Host = flags.host
	}
	if changed("port") {
		cfg.Server.Port = flags.port
	}
	if changed("rules") {
		cfg.Check.RulesPath = flags.rules
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	slog.Info("configuration loaded", "config", cfg.String())

	settings, err := loadRules(cfg.Check.RulesPath)
	if err != nil {
		return err
	}
	policy, err := check.ParseUnexpectedColumnPolicy(cfg.Check.UnexpectedColumn)
	if err != nil {
		return err
	}
	slog.Info("rules loaded", "path", cfg.Check.RulesPath, "columns", len(settings.Columns))

	server := web.NewServer(cfg.Server, settings, check.Options{
		UnexpectedColumn: policy,
		Flexible:         cfg.Check.Flexible,
		StrictQuotes:     cfg.Check.StrictQuotes,
	})

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server starting", "addr", cfg.Server.Addr())
		errCh <- server.Start()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	slog.Info("shutting down...", "active_checks", server.Limiter().ActiveCount())
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("shutdown error", "error", err)
		return err
	}
	slog.Info("server stopped")
	return <-errCh
}
