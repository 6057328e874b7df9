package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/stefanpenner/bujo/pkg/interval"
	"github.com/stefanpenner/bujo/pkg/vault"
)

type collisionReport struct {
	Log   string            `json:"log"`
	Span  interval.Interval `json:"span"`
	Notes []vault.Note      `json:"notes"`
}

func (a *app) collisionsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "collisions [log]",
		Short: "Find notes of a periodic log whose intervals overlap",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := a.openVault()
			if err != nil {
				return err
			}

			var ids []string
			if len(args) == 1 {
				ids = args
			} else {
				for _, c := range v.Index.Collections() {
					ids = append(ids, c.ID())
				}
			}

			reports := []collisionReport{}
			for _, id := range ids {
				notes, collisions, err := v.Index.Collisions(id)
				if err != nil {
					return err
				}
				for _, c := range collisions {
					reports = append(reports, collisionReport{Log: id, Span: c.Span, Notes: notes[c.Lo:c.Hi]})
				}
			}

			w := cmd.OutOrStdout()
			if a.jsonOutput {
				return outputJSON(w, reports)
			}
			if len(reports) == 0 {
				fmt.Fprintln(w, "No collisions.")
				return nil
			}
			for _, r := range reports {
				fmt.Fprintf(w, "%s: %d notes overlap in %s\n", r.Log, len(r.Notes), r.Span)
				for _, n := range r.Notes {
					fmt.Fprintf(w, "  %s %s\n", n.Path, n.Interval)
				}
			}
			return nil
		},
	}
}
