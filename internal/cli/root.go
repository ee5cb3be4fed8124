// Package cli implements the todo command line client.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/fastygo/tasklist/internal/config"
	"github.com/fastygo/tasklist/internal/infrastructure/storage"
	"github.com/fastygo/tasklist/pkg/logger"
	taskUC "github.com/fastygo/tasklist/usecase/task"
)

// Output formats accepted by --output.
const (
	OutputTable = "table"
	OutputJSON  = "json"
	OutputYAML  = "yaml"
)

type globalFlags struct {
	driver   string
	path     string
	output   string
	logLevel string
}

// app is the per-invocation state shared by all subcommands.
type app struct {
	flags  globalFlags
	out    io.Writer
	errOut io.Writer

	cfg    *config.Config
	logger *zap.Logger
	handle *storage.Handle
	store  *taskUC.Store
}

// NewRootCommand builds the todo command tree writing to out and errOut.
func NewRootCommand(out, errOut io.Writer) *cobra.Command {
	a := &app{out: out, errOut: errOut}

	root := &cobra.Command{
		Use:   "todo",
		Short: "Manage a local task list",
		Long: `todo keeps a prioritized task list on local storage.

Storage is chosen by STORAGE_DRIVER (bolt, file or memory) and can be
overridden per invocation.

Examples:
  todo add "Buy milk" --priority high --due tomorrow
  todo list --filter overdue
  todo toggle 1710063000000`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.open,
	}
	root.SetOut(out)
	root.SetErr(errOut)

	pf := root.PersistentFlags()
	pf.StringVar(&a.flags.driver, "driver", "", "Storage driver: bolt|file|memory (default from STORAGE_DRIVER)")
	pf.StringVar(&a.flags.path, "path", "", "Storage location for the selected driver")
	pf.StringVarP(&a.flags.output, "output", "o", OutputTable, "Output format: table|json|yaml")
	pf.StringVar(&a.flags.logLevel, "log-level", "warn", "Log level written to stderr")

	root.AddCommand(
		a.addCommand(),
		a.listCommand(),
		a.editCommand(),
		a.toggleCommand(),
		a.deleteCommand(),
		a.clearCompletedCommand(),
		a.tokenCommand(),
	)
	return root
}

// Execute runs the command tree against os.Args and returns the exit code.
func Execute() int {
	root := NewRootCommand(os.Stdout, os.Stderr)
	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func (a *app) open(cmd *cobra.Command, _ []string) error {
	switch a.flags.output {
	case OutputTable, OutputJSON, OutputYAML:
	default:
		return fmt.Errorf("unsupported output format %q", a.flags.output)
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if a.flags.driver != "" {
		cfg.Storage.Driver = a.flags.driver
	}
	if a.flags.path != "" {
		switch cfg.Storage.Driver {
		case config.DriverFile:
			cfg.Storage.FilePath = a.flags.path
		default:
			cfg.Storage.BoltPath = a.flags.path
		}
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	a.cfg = cfg

	a.logger, err = logger.New(logger.Config{
		Level:    a.flags.logLevel,
		Encoding: "console",
		Output:   a.errOut,
	})
	if err != nil {
		return err
	}

	// token does not touch storage.
	if cmd.Annotations[annotationNoStore] == "true" {
		return nil
	}

	a.handle, err = storage.Open(cfg.Storage, a.logger)
	if err != nil {
		return fmt.Errorf("open %s storage: %w", cfg.Storage.Driver, err)
	}
	a.store, err = taskUC.New(cmd.Context(), a.handle.Repository, a.logger)
	if err != nil {
		_ = a.handle.Close()
		a.handle = nil
		return err
	}
	return nil
}

func (a *app) close() error {
	var errs []error
	if a.handle != nil {
		errs = append(errs, a.handle.Close())
		a.handle = nil
	}
	if a.logger != nil {
		_ = a.logger.Sync()
	}
	return errors.Join(errs...)
}

// run adapts fn to cobra and releases storage once it returns, whether or not
// it failed.
func (a *app) run(fn func(ctx context.Context, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) (err error) {
		defer func() {
			if cerr := a.close(); cerr != nil && err == nil {
				err = cerr
			}
		}()
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		return fn(ctx, args)
	}
}
