// Package cli wires config, storage and the front ends behind a cobra
// command tree. The root command runs the terminal UI; subcommands work on
// the task file without it.
package cli

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strconv"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"smarttasks/internal/app"
	"smarttasks/internal/config"
	"smarttasks/internal/storage"
	"smarttasks/internal/ui"
)

type options struct {
	configPath string
	dataPath   string
}

type env struct {
	cfg  config.Config
	ctrl *app.Controller
}

// open loads the config and the task file. A load failure is returned only
// when strict is set; the UI shows it in the status line instead.
func (o *options) open(strict bool) (*env, error) {
	path := o.configPath
	if path == "" {
		path = config.ResolveConfigPath()
	}
	cfg, err := config.LoadOrCreate(path)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if o.dataPath != "" {
		cfg.DataPath = o.dataPath
	}

	ctrl := app.New(storage.New(cfg.DataPath))
	ctrl.OnLoad()
	if strict && ctrl.LastError() != nil {
		return nil, ctrl.LastError()
	}
	return &env{cfg: cfg, ctrl: ctrl}, nil
}

func NewRootCmd(stdout, stderr io.Writer) *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:          "smarttasks",
		Short:        "Keep a personal to-do list",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := opts.open(false)
			if err != nil {
				return err
			}
			closeLog, err := redirectLog(e.cfg.LogPath)
			if err != nil {
				return err
			}
			defer closeLog()
			return ui.Run(e.ctrl, e.cfg)
		},
	}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	cmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/smarttasks/config.toml)")
	cmd.PersistentFlags().StringVarP(&opts.dataPath, "file", "f", "", "task file to use instead of data_path")

	cmd.AddCommand(
		newListCmd(stdout, opts),
		newAddCmd(stdout, opts),
		newDoneCmd(stdout, opts, true),
		newDoneCmd(stdout, opts, false),
		newRmCmd(stdout, opts),
		newExportCmd(stdout, opts),
		newImportCmd(stdout, opts),
	)
	return cmd
}

// redirectLog sends the standard logger to path while the UI owns the
// terminal. An empty path discards log output.
func redirectLog(path string) (func(), error) {
	if path == "" {
		log.SetOutput(io.Discard)
		return func() { log.SetOutput(os.Stderr) }, nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create log dir: %w", err)
	}
	f, err := tea.LogToFile(path, "smarttasks")
	if err != nil {
		return nil, fmt.Errorf("open log: %w", err)
	}
	return func() {
		log.SetOutput(os.Stderr)
		f.Close()
	}, nil
}

// taskIndex parses a 1-based task number as printed by list.
func taskIndex(arg string, n int) (int, error) {
	i, err := strconv.Atoi(arg)
	if err != nil {
		return 0, fmt.Errorf("invalid task number %q", arg)
	}
	if i < 1 || i > n {
		return 0, fmt.Errorf("no task #%d", i)
	}
	return i - 1, nil
}
