package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/clawinfra/parley/internal/chat"
	"github.com/clawinfra/parley/internal/config"
)

const (
	defaultPrompt = "Say hi from parley"

	// chatConcurrency bounds how many one-shot prompts are in flight at once
	chatConcurrency = 4
)

// errNoModel is returned by chat when neither --model nor defaultModel is set
var errNoModel = errors.New("no model: pass --model or set defaultModel in the config")

func (a *app) newChatCmd() *cobra.Command {
	var (
		model   string
		prompts []string
	)

	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Send one or more prompts and print the replies",
		Long: `Send prompts to a model without starting a session.

Each --prompt gets its own provider and conversation. Replies are printed
in the order the prompts were given.`,
		Example: `  parley chat --model echo:test --prompt "hello"
  parley chat -m mock:default -p "hi" -p "show me an example"`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runChat(cmd.Context(), model, prompts)
		},
	}
	cmd.Flags().StringVarP(&model, "model", "m", "", "model to send the prompts to (default from config)")
	cmd.Flags().StringArrayVarP(&prompts, "prompt", "p", nil, "prompt to send; repeat for several (default \""+defaultPrompt+"\")")

	return cmd
}

func (a *app) runChat(ctx context.Context, model string, prompts []string) error {
	cfg, err := a.loadConfig()
	if err != nil {
		return err
	}

	model = firstNonEmpty(model, cfg.DefaultModel)
	if model == "" {
		return errNoModel
	}
	if len(prompts) == 0 {
		prompts = []string{defaultPrompt}
	}

	replies, err := a.askAll(ctx, cfg, model, prompts)
	if err != nil {
		return err
	}
	for _, r := range replies {
		fmt.Fprintln(a.streams.Out, r)
	}
	return nil
}

// askAll answers every prompt with its own provider and session. Replies
// are indexed by prompt position; the first failure cancels the rest.
func (a *app) askAll(ctx context.Context, cfg *config.Config, model string, prompts []string) ([]string, error) {
	registry := a.registry()
	replies := make([]string, len(prompts))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(chatConcurrency)

	for i, prompt := range prompts {
		g.Go(func() error {
			provider, err := registry.Resolve(model, cfg)
			if err != nil {
				return err
			}

			session := chat.NewSession(provider, model)
			a.logger.Debug("sending prompt", "model", model, "session", session.ID(), "index", i)

			text, err := session.Ask(ctx, prompt)
			if err != nil {
				return fmt.Errorf("ask prompt %d: %w", i+1, err)
			}
			replies[i] = text
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return replies, nil
}
