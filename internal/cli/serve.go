package cli

import (
	"context"
	"fmt"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/jdelgato/chatgate/internal/assistant"
	"github.com/jdelgato/chatgate/internal/config"
	"github.com/jdelgato/chatgate/internal/gateway"
	"github.com/jdelgato/chatgate/internal/logging"
	"github.com/jdelgato/chatgate/internal/store"
)

func newServeCmd() *cobra.Command {
	var (
		port int
		bind string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the chat gateway server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(paths.Config)
			if err != nil {
				return err
			}

			if port != 0 {
				cfg.Server.Port = port
			}
			if bind != "" {
				cfg.Server.Bind = bind
			}

			issues := config.Validate(&cfg)
			if len(issues) > 0 {
				for _, issue := range issues {
					log.Error().Str("path", issue.Path).Msg(issue.Message)
				}
				return fmt.Errorf("config validation failed with %d issue(s)", len(issues))
			}

			if logLevel == "" {
				// Rebuild the logger from config once it is known; an
				// explicit --log-level flag still wins.
				log = logging.NewStyled(cfg.Logging.ConsoleStyle, cfg.Logging.Level)
			}

			if err := paths.EnsureDirs(); err != nil {
				return fmt.Errorf("creating data directories: %w", err)
			}

			dbPath := cfg.Audit.DBPath
			if dbPath == "" {
				dbPath = filepath.Join(paths.Data, "chatgate.db")
			}
			db, err := store.Open(dbPath, log)
			if err != nil {
				return fmt.Errorf("opening database: %w", err)
			}
			defer db.Close()
			exchanges := store.NewExchangeStore(db)

			api := assistant.NewClient(cfg.Assistant)
			orchestrator := assistant.NewOrchestrator(api, assistant.Config{
				AssistantID:  cfg.Assistant.AssistantID,
				PollInterval: time.Duration(cfg.Assistant.PollIntervalMs) * time.Millisecond,
				PollTimeout:  time.Duration(cfg.Assistant.PollTimeoutMs) * time.Millisecond,
			}, log)

			// Block until SIGINT/SIGTERM
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			srv := gateway.New(cfg, log,
				gateway.WithResponder(orchestrator),
				gateway.WithExchangeLog(exchanges),
			)

			return srv.Start(ctx)
		},
	}

	cmd.Flags().IntVar(&port, "port", 0, "override server port")
	cmd.Flags().StringVar(&bind, "bind", "", "override bind mode (loopback, lan, custom)")

	return cmd
}
