package main

import (
	"errors"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/stefanpenner/bujo/pkg/adapter"
	"github.com/stefanpenner/bujo/pkg/interval"
	"github.com/stefanpenner/bujo/pkg/markdown"
	"github.com/stefanpenner/bujo/pkg/task"
	"github.com/stefanpenner/bujo/pkg/vault"
)

func (a *app) parseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "parse <text>",
		Short: "Parse the emoji markers of a task line",
		Example: `  bujo parse "09:00/10:30 standup 📅 2024-05-01 ⏫ #work"
  bujo --json parse "water plants 🔁 every week ⏳ 2024-05-04"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := a.parser()
			if err != nil {
				return err
			}
			text := strings.Join(args, " ")
			t := adapter.BuildWith(p, text, task.Part{Tags: task.NewSet(markdown.Tags(text)...)})

			if a.jsonOutput {
				return outputJSON(cmd.OutOrStdout(), t)
			}
			printTaskDetail(cmd.OutOrStdout(), t)
			return nil
		},
	}
}

type resolveResult struct {
	Path        string             `json:"path"`
	Collection  string             `json:"collection,omitempty"`
	Interval    *interval.Interval `json:"interval,omitempty"`
	Valid       bool               `json:"valid"`
	Reason      string             `json:"reason,omitempty"`
	Explanation string             `json:"explanation,omitempty"`
}

func (a *app) resolveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "resolve <note>",
		Short: "Show the periodic log and interval a note belongs to",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := a.openVault()
			if err != nil {
				return err
			}

			notePath := strings.TrimPrefix(args[0], "/")
			c, iv, err := v.Index.Resolve(notePath)
			if err != nil && !errors.Is(err, vault.ErrNoCollection) {
				return err
			}

			res := resolveResult{Path: notePath, Valid: iv.IsValid()}
			if iv.IsValid() {
				res.Collection = c.ID()
				res.Interval = &iv
			} else {
				res.Reason = iv.Reason()
				res.Explanation = iv.Explanation()
			}

			w := cmd.OutOrStdout()
			if a.jsonOutput {
				return outputJSON(w, res)
			}
			if !res.Valid {
				fmt.Fprintf(w, "%s: %s (%s)\n", notePath, res.Reason, res.Explanation)
				return nil
			}
			fmt.Fprintf(w, "%s: %s %s\n", notePath, res.Collection, iv)
			return nil
		},
	}
}

func (a *app) tasksCmd() *cobra.Command {
	var logID, date string

	cmd := &cobra.Command{
		Use:   "tasks [note]",
		Short: "List pending and completed tasks",
		Long: `List the tasks of one note, of the periodic note covering a date, or of the
whole vault. Pending tasks come first; both groups are sorted by start time.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := a.openVault()
			if err != nil {
				return err
			}

			var tasks []task.Task
			switch {
			case len(args) == 1:
				if tasks, err = v.Tasks(strings.TrimPrefix(args[0], "/")); err != nil {
					return err
				}
			case logID != "":
				notePath, err := periodicNote(v, logID, date)
				if err != nil {
					return err
				}
				a.log().Debug("listing periodic note", "log", logID, "note", notePath)
				if v.Store.Exists(notePath) {
					if tasks, err = v.Tasks(notePath); err != nil {
						return err
					}
				}
			default:
				tasks, err = v.AllTasks()
				if err != nil {
					a.log().Warn("some notes were skipped", "err", err)
				}
			}

			pending, completed := vault.Split(tasks)
			w := cmd.OutOrStdout()
			if a.jsonOutput {
				return outputJSON(w, map[string][]task.Task{
					"pending":   nonNil(pending),
					"completed": nonNil(completed),
				})
			}

			if len(pending) == 0 && len(completed) == 0 {
				fmt.Fprintln(w, "No tasks.")
				return nil
			}
			printTaskGroup(w, "Pending", pending)
			printTaskGroup(w, "Completed", completed)
			return nil
		},
	}

	cmd.Flags().StringVarP(&logID, "log", "l", "", "periodic log id, lists the note covering --date")
	cmd.Flags().StringVarP(&date, "date", "d", "", "date inside the note's interval, YYYY-MM-DD (default today)")
	return cmd
}

func (a *app) addCmd() *cobra.Command {
	var logID, date, section string

	cmd := &cobra.Command{
		Use:   "add <text>",
		Short: "Add a task to a periodic note, creating the note if needed",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := a.openVault()
			if err != nil {
				return err
			}
			if logID == "" {
				logs := v.Index.Collections()
				if len(logs) == 0 {
					return fmt.Errorf("no periodic logs configured")
				}
				logID = logs[0].ID()
			}
			notePath, err := periodicNote(v, logID, date)
			if err != nil {
				return err
			}

			text := strings.Join(args, " ")
			if _, err := v.Store.AddTask(notePath, section, text); err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if a.jsonOutput {
				return outputJSON(w, map[string]string{"note": notePath, "text": text})
			}
			fmt.Fprintf(w, "Added to %s\n", notePath)
			return nil
		},
	}

	cmd.Flags().StringVarP(&logID, "log", "l", "", "periodic log id (default the first configured log)")
	cmd.Flags().StringVarP(&date, "date", "d", "", "date inside the note's interval, YYYY-MM-DD (default today)")
	cmd.Flags().StringVarP(&section, "section", "s", "", "add under this ## heading")
	return cmd
}

func (a *app) toggleCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "toggle <note> <line>",
		Short: "Tick an open task or reopen a ticked one",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			line, err := strconv.Atoi(args[1])
			if err != nil || line < 1 {
				return fmt.Errorf("invalid line number: %s", args[1])
			}
			v, err := a.openVault()
			if err != nil {
				return err
			}

			notePath := strings.TrimPrefix(args[0], "/")
			if _, err := v.Store.ToggleTask(notePath, line-1, time.Now()); err != nil {
				return err
			}
			tasks, err := v.Tasks(notePath)
			if err != nil {
				return err
			}
			idx := slices.IndexFunc(tasks, func(t task.Task) bool {
				src, ok := t.Source.(task.PageSource)
				return ok && src.LineNumber == line-1
			})
			if idx == -1 {
				return fmt.Errorf("%s:%d: task vanished after toggling", notePath, line)
			}

			w := cmd.OutOrStdout()
			if a.jsonOutput {
				return outputJSON(w, tasks[idx])
			}
			fmt.Fprintln(w, formatTask(tasks[idx]))
			return nil
		},
	}
}

func (a *app) importTaskwarriorCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import-taskwarrior",
		Short: "Read `task export` JSON from stdin and print the tasks",
		Example: `  task export | bujo import-taskwarrior
  task status:pending export | bujo --json import-taskwarrior`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := a.parser()
			if err != nil {
				return err
			}
			exported, err := adapter.ParseTaskwarrior(cmd.InOrStdin())
			if err != nil {
				return err
			}
			a.log().Debug("read taskwarrior export", "tasks", len(exported))

			tasks := make([]task.Task, len(exported))
			for i, tw := range exported {
				tasks[i] = adapter.BuildWith(p, tw.Description, adapter.Taskwarrior(tw))
			}

			w := cmd.OutOrStdout()
			if a.jsonOutput {
				return outputJSON(w, tasks)
			}
			for _, t := range tasks {
				fmt.Fprintln(w, formatTask(t))
			}
			return nil
		},
	}
}

// periodicNote returns the note of log id covering date, or today.
func periodicNote(v *vault.Vault, id, date string) (string, error) {
	c, err := v.Index.Collection(id)
	if err != nil {
		return "", err
	}

	loc := v.Parser.Location
	if loc == nil {
		loc = time.Local
	}
	t := time.Now().In(loc)
	if date != "" {
		if t, err = time.ParseInLocation(time.DateOnly, date, loc); err != nil {
			return "", fmt.Errorf("invalid date %q: %w", date, err)
		}
	}
	return strings.TrimPrefix(c.NoteFor(t), "/"), nil
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

func printTaskGroup(w io.Writer, title string, tasks []task.Task) {
	if len(tasks) == 0 {
		return
	}
	fmt.Fprintf(w, "%s (%d)\n", title, len(tasks))
	for _, t := range tasks {
		fmt.Fprintln(w, "  "+formatTask(t))
	}
}

// formatTask renders a task on one line.
func formatTask(t task.Task) string {
	parts := []string{checkbox(t.Status)}
	if !t.Times.Start.IsZero() {
		clock := t.Times.Start.Format("15:04")
		if !t.Times.End.IsZero() {
			clock += "-" + t.Times.End.Format("15:04")
		}
		parts = append(parts, clock)
	}
	parts = append(parts, t.Description)
	if t.Priority != task.DefaultPriority {
		parts = append(parts, "("+t.Priority.String()+")")
	}
	if !t.Dates.Due.IsZero() {
		parts = append(parts, "due "+t.Dates.Due.Format(time.DateOnly))
	}
	parts = append(parts, t.Tags.Sorted()...)
	if src, ok := t.Source.(task.PageSource); ok {
		parts = append(parts, fmt.Sprintf("%s:%d", src.Path, src.LineNumber+1))
	}
	return strings.Join(parts, " ")
}

func checkbox(s task.Status) string {
	m, ok := s.(task.StatusMarked)
	if !ok {
		return "[?]"
	}
	switch m.Kind {
	case task.StatusOpen:
		return "[ ]"
	case task.StatusDone:
		return "[x]"
	}
	return "[" + m.Symbol + "]"
}

func printTaskDetail(w io.Writer, t task.Task) {
	row := func(label, value string) {
		if value != "" {
			fmt.Fprintf(w, "%-12s %s\n", label+":", value)
		}
	}
	date := func(d time.Time) string {
		if d.IsZero() {
			return ""
		}
		return d.Format(time.DateOnly)
	}
	clock := func(d time.Time) string {
		if d.IsZero() {
			return ""
		}
		return d.Format("15:04")
	}

	row("Description", t.Description)
	row("Priority", t.Priority.String())
	row("Start time", clock(t.Times.Start))
	row("End time", clock(t.Times.End))
	row("Created", date(t.Dates.Created))
	row("Scheduled", date(t.Dates.Scheduled))
	row("Start", date(t.Dates.Start))
	row("Due", date(t.Dates.Due))
	row("Done", date(t.Dates.Done))
	row("Cancelled", date(t.Dates.Cancelled))
	row("Repeats", t.RecurrenceRule)
	row("ID", t.ID)
	row("Depends on", strings.Join(t.DependsOn.Sorted(), ", "))
	row("Tags", strings.Join(t.Tags.Sorted(), " "))
}
