// Package cli wires config, providers, sessions and the REPL into the
// parley command tree.
package cli

import (
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/clawinfra/parley/internal/config"
	"github.com/clawinfra/parley/internal/logger"
	"github.com/clawinfra/parley/internal/models"
	"github.com/clawinfra/parley/internal/repl"
)

// Streams are the process's standard streams. Tests swap in buffers.
type Streams struct {
	In  io.Reader
	Out io.Writer
	Err io.Writer
}

// StdStreams returns the real stdin, stdout and stderr.
func StdStreams() Streams {
	return Streams{In: os.Stdin, Out: os.Stdout, Err: os.Stderr}
}

// BuildInfo is stamped into the binary at link time.
type BuildInfo struct {
	Version   string
	BuildTime string
}

// app holds the persistent flags and the state they produce
type app struct {
	streams Streams
	info    BuildInfo

	configPath string
	envFile    string
	verbose    bool

	logger *slog.Logger
}

// NewRootCommand builds the parley command tree. Running it without a
// subcommand starts the REPL.
func NewRootCommand(streams Streams, info BuildInfo) *cobra.Command {
	a := &app{
		streams: streams,
		info:    info,
		logger:  logger.New(streams.Err, slog.LevelInfo),
	}

	var model string
	root := &cobra.Command{
		Use:   "parley",
		Short: "Chat with language models from the terminal",
		Long: `parley is a terminal chat client.

Models are named provider:model, e.g. mock:default or echo:test. Unknown
providers fall back to echo.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runREPL(cmd.Context(), model)
		},
	}
	root.SetIn(streams.In)
	root.SetOut(streams.Out)
	root.SetErr(streams.Err)

	root.Flags().StringVarP(&model, "model", "m", "", "model to chat with (default from config)")

	pf := root.PersistentFlags()
	pf.StringVar(&a.configPath, "config", config.DefaultPath, "config file (.json, .toml, .yaml)")
	pf.StringVar(&a.envFile, "env-file", ".env", "dotenv file with provider API keys")
	pf.BoolVarP(&a.verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(
		a.newREPLCmd(),
		a.newChatCmd(),
		a.newInitCmd(),
		a.newVersionCmd(),
	)

	return root
}

// setup runs before every command: it loads the dotenv file and sets the
// log level requested on the command line.
func (a *app) setup() error {
	if a.verbose {
		a.logger = logger.New(a.streams.Err, slog.LevelDebug)
	}
	return config.LoadDotEnv(a.envFile)
}

// loadConfig makes sure the config dir exists and reads the config file.
// A file that cannot be read or parsed is reported and replaced by an
// empty config.
func (a *app) loadConfig() (*config.Config, error) {
	if err := config.EnsureDir(a.configPath); err != nil {
		return nil, err
	}

	cfg, err := config.Load(a.configPath)
	if err != nil {
		a.logger.Warn("failed to parse config; using defaults", "path", a.configPath, "error", err)
		cfg = &config.Config{}
	}

	if !a.verbose && cfg.LogLevel != "" {
		a.logger = logger.New(a.streams.Err, logger.ParseLevel(cfg.LogLevel))
	}
	return cfg, nil
}

func (a *app) registry() *models.Registry {
	return models.DefaultRegistry(a.logger)
}

// lineReader uses the terminal line editor when stdin is a TTY and plain
// line scanning otherwise.
func (a *app) lineReader() repl.LineReader {
	if f, ok := a.streams.In.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		return repl.NewTerminalReader(f, a.streams.Out)
	}
	return repl.NewScanReader(a.streams.In, a.streams.Out)
}
