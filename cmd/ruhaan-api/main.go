package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	httpadapter "github.com/PabloGalante/ruhaan-agent/internal/adapters/http"
	"github.com/PabloGalante/ruhaan-agent/internal/config"
	"github.com/PabloGalante/ruhaan-agent/internal/domain"
	"github.com/PabloGalante/ruhaan-agent/internal/observability"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:           "ruhaan-api",
		Short:         "Ruhaan assistant backend",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file path (optional).")

	// Logs go to w; ask keeps stdout for its JSON.
	loadConfig := func(w io.Writer) (*config.Config, error) {
		cfg, err := config.Load(configPath)
		if err != nil {
			return nil, err
		}
		observability.Configure(observability.LogConfig{Level: cfg.Log.Level, Format: cfg.Log.Format}, w)
		return cfg, nil
	}

	serve := newServeCmd(loadConfig)
	cmd.AddCommand(serve, newAskCmd(loadConfig))

	// no subcommand means serve
	cmd.RunE = serve.RunE
	return cmd
}

func newServeCmd(loadConfig func(io.Writer) (*config.Config, error)) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(os.Stdout)
			if err != nil {
				fmt.Fprintln(os.Stderr, "config:", err)
				return err
			}
			log := observability.Logger()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			a, err := buildApp(ctx, cfg)
			if err != nil {
				log.Error("startup failed", "error", err)
				return err
			}
			defer func() {
				if err := a.Close(); err != nil {
					log.Error("shutdown cleanup failed", "error", err)
				}
			}()

			handler := httpadapter.NewServer(httpadapter.Deps{
				Conversation:  a.conversation,
				Journal:       a.journal,
				Commands:      a.dispatcher,
				Notifications: a.inbox,
			})

			srv := &http.Server{
				Addr:              ":" + cfg.Port,
				Handler:           handler,
				ReadHeaderTimeout: 10 * time.Second,
			}

			g, gctx := errgroup.WithContext(ctx)
			g.Go(func() error {
				log.Info("Ruhaan API listening", "addr", srv.Addr, "mode", cfg.Mode)
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					return err
				}
				return nil
			})
			g.Go(func() error {
				<-gctx.Done()
				log.Info("shutting down")
				shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
				defer cancel()
				return srv.Shutdown(shutdownCtx)
			})

			return g.Wait()
		},
	}
}

type askOutput struct {
	Type         string         `json:"type"`
	LanguageCode string         `json:"language_code"`
	Reply        string         `json:"reply"`
	Tool         string         `json:"tool,omitempty"`
	Summary      string         `json:"summary,omitempty"`
	NextSteps    []string       `json:"next_steps,omitempty"`
	Response     map[string]any `json:"response,omitempty"`
}

func newAskCmd(loadConfig func(io.Writer) (*config.Config, error)) *cobra.Command {
	var (
		userID string
		lang   string
	)

	cmd := &cobra.Command{
		Use:   "ask <text>",
		Short: "Answer one utterance and print the result as JSON",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			a, err := buildApp(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer a.Close()

			res, err := a.conversation.Ask(cmd.Context(), domain.UserID(userID), strings.Join(args, " "), lang)
			if err != nil {
				return err
			}

			out := askOutput{
				Type:         string(res.Intent()),
				LanguageCode: string(res.Language()),
				Reply:        res.ReplyText(),
			}
			switch v := res.(type) {
			case domain.CommandResult:
				out.Tool = v.Tool
			case domain.StructuredResult:
				out.Summary = v.Summary
				out.NextSteps = v.NextSteps
				out.Response = v.Response.MarshalMap()
			case domain.ChitChatResult:
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(out)
		},
	}
	cmd.Flags().StringVar(&userID, "user", "cli", "User ID the tools record under.")
	cmd.Flags().StringVar(&lang, "lang", "", "Language hint (en-IN or hi-IN).")
	return cmd
}
