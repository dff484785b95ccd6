package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/clawinfra/parley/internal/chat"
	"github.com/clawinfra/parley/internal/config"
	"github.com/clawinfra/parley/internal/repl"
)

func (a *app) newREPLCmd() *cobra.Command {
	var model string

	cmd := &cobra.Command{
		Use:   "repl",
		Short: "Start an interactive chat session (default)",
		Long: `Start an interactive chat session.

Inside the session, /help lists the commands. /model switches model,
/clear forgets the conversation and /exit leaves.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runREPL(cmd.Context(), model)
		},
	}
	cmd.Flags().StringVarP(&model, "model", "m", "", "model to chat with (default from config)")

	return cmd
}

func (a *app) runREPL(ctx context.Context, model string) error {
	cfg, err := a.loadConfig()
	if err != nil {
		return err
	}

	model = firstNonEmpty(model, cfg.DefaultModel, config.FallbackModel)
	provider, err := a.registry().Resolve(model, cfg)
	if err != nil {
		return err
	}

	session := chat.NewSession(provider, model)
	a.logger.Debug("starting repl",
		"model", model,
		"provider", session.Provider().Name(),
		"session", session.ID(),
	)

	engine := repl.New(repl.Options{
		Session: session,
		Reader:  a.lineReader(),
		Out:     a.streams.Out,
		Logger:  a.logger.With("session", session.ID()),
	})
	return engine.Run(ctx)
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
