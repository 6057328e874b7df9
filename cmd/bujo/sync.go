package main

import (
	"time"

	"github.com/spf13/cobra"

	gsync "github.com/stefanpenner/bujo/pkg/sync"
)

func (a *app) syncCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Commit the vault and sync it with its git remote",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.loadConfig()
			if err != nil {
				return err
			}
			repo := gsync.Repo{Dir: cfg.Vault, Out: cmd.OutOrStdout()}
			return repo.Sync(cmd.Context(), time.Now())
		},
	}

	var remote string
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Make the vault a git repository and set its remote",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.loadConfig()
			if err != nil {
				return err
			}
			repo := gsync.Repo{Dir: cfg.Vault, Out: cmd.OutOrStdout()}
			return repo.Init(cmd.Context(), remote)
		},
	}
	initCmd.Flags().StringVar(&remote, "remote", "", "git remote url for origin")

	cmd.AddCommand(initCmd)
	return cmd
}
