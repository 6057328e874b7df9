package main

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/stefanpenner/bujo/pkg/tui"
)

func (a *app) tuiCmd() *cobra.Command {
	var logID string
	cmd := &cobra.Command{
		Use:   "tui",
		Short: "Browse the tasks of your periodic notes (default)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runTUI(cmd, logID)
		},
	}
	cmd.Flags().StringVarP(&logID, "log", "l", "", "periodic log to open (default the first configured log)")
	return cmd
}

func (a *app) runTUI(cmd *cobra.Command, logID string) error {
	v, err := a.openVault()
	if err != nil {
		return err
	}

	m := tui.NewModel(v)
	if logID != "" {
		if err := m.SelectLog(logID); err != nil {
			return err
		}
	}
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(cmd.Context()))

	// Start file watcher
	cleanup, err := tui.StartWatcher(v, p)
	if err != nil {
		a.log().Warn("file watcher failed", "err", err)
	} else {
		defer cleanup()
	}

	_, err = p.Run()
	return err
}
