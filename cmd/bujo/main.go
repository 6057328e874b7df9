package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/stefanpenner/bujo/pkg/collection"
	"github.com/stefanpenner/bujo/pkg/config"
	"github.com/stefanpenner/bujo/pkg/task"
	"github.com/stefanpenner/bujo/pkg/vault"
)

var Version = "dev"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return newRootCmd().ExecuteContext(ctx)
}

// app holds the global flags and what is loaded from them.
type app struct {
	configPath string
	vaultDir   string
	jsonOutput bool
	verbose    bool

	logger *slog.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:   "bujo",
		Short: "bujo - tasks in your periodic notes",
		Long: `bujo reads Obsidian Tasks style checkboxes out of a vault of markdown notes.

Daily, weekly and other periodic notes are mapped to the interval of time they
cover, so every task knows the day it was planned for.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			a.setupLogger(cmd.ErrOrStderr())
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runTUI(cmd, "")
		},
	}

	// Global flags
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&a.configPath, "config", "", "config file (default $BUJO_CONFIG or "+config.ConfigPath()+")")
	flags.StringVar(&a.vaultDir, "vault", "", "vault directory (overrides the config and $BUJO_VAULT)")
	flags.BoolVar(&a.jsonOutput, "json", false, "output JSON")
	flags.BoolVarP(&a.verbose, "verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(
		a.parseCmd(),
		a.resolveCmd(),
		a.tasksCmd(),
		a.showCmd(),
		a.addCmd(),
		a.toggleCmd(),
		a.collisionsCmd(),
		a.importTaskwarriorCmd(),
		a.configCmd(),
		a.syncCmd(),
		a.tuiCmd(),
	)
	return rootCmd
}

func (a *app) setupLogger(w io.Writer) {
	level := slog.LevelWarn
	if a.verbose {
		level = slog.LevelDebug
	}
	a.logger = slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

func (a *app) log() *slog.Logger {
	if a.logger == nil {
		a.setupLogger(os.Stderr)
	}
	return a.logger
}

func (a *app) resolvedConfigPath() string {
	if a.configPath != "" {
		return config.ExpandHome(a.configPath)
	}
	return config.ConfigPath()
}

func (a *app) loadConfig() (*config.Config, error) {
	path := a.resolvedConfigPath()
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if a.vaultDir != "" {
		cfg.Vault = config.ExpandHome(a.vaultDir)
	}
	a.log().Debug("loaded config", "path", path, "vault", cfg.Vault, "logs", len(cfg.PeriodicLogs))
	return cfg, nil
}

func (a *app) parser() (task.Parser, error) {
	cfg, err := a.loadConfig()
	if err != nil {
		return task.Parser{}, err
	}
	loc, err := cfg.Location()
	if err != nil {
		return task.Parser{}, err
	}
	return task.Parser{Location: loc}, nil
}

// openVault loads the config and indexes the vault. Notes claimed by several
// periodic logs are logged as warnings.
func (a *app) openVault() (*vault.Vault, error) {
	cfg, err := a.loadConfig()
	if err != nil {
		return nil, err
	}
	logs, err := cfg.Collections()
	if err != nil {
		return nil, err
	}
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}

	collections := make([]collection.Collection, len(logs))
	for i, l := range logs {
		collections[i] = l
	}
	v, err := vault.Open(cfg.Vault, task.Parser{Location: loc}, collections...)
	if err != nil {
		return nil, err
	}
	a.log().Debug("indexed vault", "root", v.Store.Root, "notes", len(v.Index.Files()))

	if err := v.Index.Ambiguous(); err != nil {
		a.log().Warn("notes claimed by several periodic logs", "err", err)
	}
	return v, nil
}

// JSON helpers

func outputJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
