package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/stefanpenner/bujo/pkg/tui"
)

func (a *app) showCmd() *cobra.Command {
	var logID, date, style string
	var width int

	cmd := &cobra.Command{
		Use:   "show [note]",
		Short: "Render a note as styled markdown",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := a.openVault()
			if err != nil {
				return err
			}

			var notePath string
			switch {
			case len(args) == 1:
				notePath = strings.TrimPrefix(args[0], "/")
			case logID != "":
				if notePath, err = periodicNote(v, logID, date); err != nil {
					return err
				}
			default:
				return fmt.Errorf("name a note or pass --log")
			}

			doc, err := v.Store.LoadNote(notePath)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if a.jsonOutput {
				return outputJSON(w, map[string]string{"note": notePath, "body": doc.Body})
			}
			out, err := tui.NewNoteRenderer(style).Render(doc.Body, width)
			if err != nil {
				return fmt.Errorf("rendering %s: %w", notePath, err)
			}
			fmt.Fprintln(w, out)
			return nil
		},
	}

	cmd.Flags().StringVarP(&logID, "log", "l", "", "periodic log id, shows the note covering --date")
	cmd.Flags().StringVarP(&date, "date", "d", "", "date inside the note's interval, YYYY-MM-DD (default today)")
	cmd.Flags().StringVar(&style, "style", "dark", "glamour style name or JSON style file")
	cmd.Flags().IntVar(&width, "width", 80, "wrap width")
	return cmd
}
