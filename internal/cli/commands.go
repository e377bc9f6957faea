package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"smarttasks/internal/task"
)

func newListCmd(stdout io.Writer, opts *options) *cobra.Command {
	var search, category string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Print tasks, optionally filtered",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := opts.open(true)
			if err != nil {
				return err
			}
			all := e.ctrl.Store().All()
			position := make(map[*task.Task]int, len(all))
			for i, t := range all {
				position[t] = i + 1
			}
			for _, t := range e.ctrl.OnSearchOrFilterChanged(search, category) {
				formatTask(stdout, position[t], t)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&search, "search", "s", "", "only titles containing this text")
	cmd.Flags().StringVarP(&category, "category", "c", task.AllCategories, "only this category")
	return cmd
}

func newAddCmd(stdout io.Writer, opts *options) *cobra.Command {
	var detail, category string
	cmd := &cobra.Command{
		Use:   "add TITLE",
		Short: "Add a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := opts.open(true)
			if err != nil {
				return err
			}
			t, err := e.ctrl.OnAdd(args[0], detail, category)
			if err != nil {
				return err
			}
			if err := e.ctrl.LastError(); err != nil {
				return err
			}
			formatTask(stdout, e.ctrl.Store().Len(), t)
			return nil
		},
	}
	cmd.Flags().StringVarP(&detail, "detail", "d", "", "free-text detail")
	cmd.Flags().StringVarP(&category, "category", "c", task.DefaultCategory, "category label")
	return cmd
}

func newDoneCmd(stdout io.Writer, opts *options, completed bool) *cobra.Command {
	use, short := "done N", "Mark task N completed"
	if !completed {
		use, short = "undone N", "Mark task N not completed"
	}
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := opts.open(true)
			if err != nil {
				return err
			}
			all := e.ctrl.Store().All()
			i, err := taskIndex(args[0], len(all))
			if err != nil {
				return err
			}
			e.ctrl.OnToggle(all[i], completed)
			if err := e.ctrl.LastError(); err != nil {
				return err
			}
			formatTask(stdout, i+1, all[i])
			return nil
		},
	}
}

func newRmCmd(stdout io.Writer, opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "rm N",
		Short: "Delete task N",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := opts.open(true)
			if err != nil {
				return err
			}
			all := e.ctrl.Store().All()
			i, err := taskIndex(args[0], len(all))
			if err != nil {
				return err
			}
			e.ctrl.OnDelete(all[i])
			if err := e.ctrl.LastError(); err != nil {
				return err
			}
			fmt.Fprintf(stdout, "deleted %q\n", all[i].Title)
			return nil
		},
	}
}

func newExportCmd(stdout io.Writer, opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "export-db PATH",
		Short: "Write all tasks to a SQLite database",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := opts.open(true)
			if err != nil {
				return err
			}
			if err := e.ctrl.Store().ExportSQLite(args[0]); err != nil {
				return fmt.Errorf("export: %w", err)
			}
			fmt.Fprintf(stdout, "exported %d task(s) to %s\n", e.ctrl.Store().Len(), args[0])
			return nil
		},
	}
}

func newImportCmd(stdout io.Writer, opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "import-db PATH",
		Short: "Append the tasks from a SQLite database",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := opts.open(true)
			if err != nil {
				return err
			}
			n, err := e.ctrl.Store().ImportSQLite(args[0])
			if err != nil {
				return fmt.Errorf("import: %w", err)
			}
			fmt.Fprintf(stdout, "imported %d task(s) from %s\n", n, args[0])
			return nil
		},
	}
}

// formatTask prints "{N:>4}  [x] TITLE (CATEGORY)".
func formatTask(w io.Writer, num int, t *task.Task) {
	box := "[ ]"
	if t.Completed {
		box = "[x]"
	}
	fmt.Fprintf(w, "%4d  %s %s (%s)\n", num, box, t.Title, t.Category)
}
