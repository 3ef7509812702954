package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"

	"github.com/byxorna/shipwright/pkg/app"
	"github.com/byxorna/shipwright/pkg/config"
	"github.com/byxorna/shipwright/pkg/runtime"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

var (
	flags = struct {
		ConfigFile string
		Demo       bool
	}{}

	// set up by the root command before any subcommand runs
	cfg    *config.Config
	logger *slog.Logger
	logs   io.Closer

	root = &cobra.Command{
		Use:   "shipwright",
		Short: "Shipwright is the terminal back office for the boat yard's website",
		Long: `Shipwright edits the products, posts, case studies and contacts behind the
yard's website. Without a subcommand it opens the admin.`,
		Args:              cobra.MaximumNArgs(0),
		SilenceUsage:      true,
		PersistentPreRunE: setup,
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if logs != nil {
				logs.Close()
			}
		},
		RunE: runAdmin,
	}

	adminCmd = &cobra.Command{
		Use:   "admin",
		Short: "Open the admin",
		Args:  cobra.NoArgs,
		RunE:  runAdmin,
	}
)

func init() {
	root.PersistentFlags().StringVarP(&flags.ConfigFile, "config", "c", "~/.shipwright.yaml", "configuration file")
	root.PersistentFlags().BoolVar(&flags.Demo, "demo", false, "use the built in demo data instead of the API")
	root.AddCommand(adminCmd)
}

func setup(cmd *cobra.Command, args []string) error {
	var err error
	if cfg, err = config.Load(flags.ConfigFile); err != nil {
		return err
	}
	if flags.Demo {
		cfg.Demo.Enabled = true
	}
	if logger, logs, err = runtime.NewLogger(cfg.Log); err != nil {
		return err
	}
	logger.Debug("loaded configuration", "file", flags.ConfigFile, "demo", cfg.UseDemo())
	return nil
}

func runAdmin(cmd *cobra.Command, args []string) error {
	m, err := app.FromConfig(cmd.Context(), cfg, logger, false)
	if err != nil {
		return err
	}
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(cmd.Context()))
	_, err = p.Run()
	return err
}

// backend opens the collections for the one shot commands
func backend() (*app.Backend, error) {
	return app.Open(cfg, logger)
}

func handle(name string) (*app.Backend, app.Handle, error) {
	b, err := backend()
	if err != nil {
		return nil, nil, err
	}
	h, err := b.Handle(name)
	if err != nil {
		return nil, nil, err
	}
	return b, h, nil
}

func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	err := root.ExecuteContext(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}
