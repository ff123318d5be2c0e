// Package cli provides the command-line interface for nanachi.
package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/n0rule/nanachi/internal/config"
	"github.com/n0rule/nanachi/internal/logging"
	"github.com/n0rule/nanachi/internal/notify"
)

// Version information, set by the main package.
var (
	Version   = "v" + notify.Version
	BuildTime = "dev"
)

// globalFlags are shared by every command. Set flags override the config file.
type globalFlags struct {
	cfgFile string
	backend string
	assets  string
	logFile string
	verbose bool
	noTray  bool
}

// NewRootCmd creates the root command. Run without a subcommand it starts the
// applet, which is what the autostart entry relies on.
func NewRootCmd() *cobra.Command {
	flags := &globalFlags{}

	rootCmd := &cobra.Command{
		Use:   "nanachi",
		Short: "Nanachi - an animated face for Logitech keyboard LCDs",
		Long: `Nanachi ` + Version + `
Shows an animated face, the date and the time on the monochrome LCD of a Logitech
G15, G15 v2, G510 or G13 keyboard, or on a SSD1322 OLED panel.

Soft buttons:
  1  hold to make Nanachi stare
  2  show or hide the clock
  3  show or hide the text lines`,
		Version:       Version + " (" + BuildTime + ")",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runApplet(cmd.Context(), flags)
		},
	}

	rootCmd.PersistentFlags().StringVarP(&flags.cfgFile, "config", "c", "", "Configuration file path (default "+config.DefaultFile+" if present)")
	rootCmd.PersistentFlags().StringVar(&flags.backend, "backend", "", "Display backend: g15, oled or headless")
	rootCmd.PersistentFlags().StringVar(&flags.assets, "assets", "", "Directory holding the expression images")
	rootCmd.PersistentFlags().StringVar(&flags.logFile, "log-file", "", "Also write JSON logs to this file, rotated")
	rootCmd.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "Verbose output (shows debug messages)")
	rootCmd.PersistentFlags().BoolVar(&flags.noTray, "no-tray", false, "Do not show the system tray icon")

	rootCmd.AddCommand(newRunCmd(flags))
	rootCmd.AddCommand(newCheckCmd(flags))
	rootCmd.AddCommand(newPrepareCmd(flags))
	rootCmd.AddCommand(newVersionCmd())
	return rootCmd
}

// Execute runs the root command until it finishes or the process is signalled.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := NewRootCmd().ExecuteContext(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
	}
	return err
}

// load reads the configuration and applies the command-line overrides.
func load(flags *globalFlags) (*config.Config, error) {
	path := flags.cfgFile
	if path == "" {
		if p, ok := locate(config.DefaultFile); ok {
			path = p
		}
	} else {
		path, _ = locate(path)
	}
	cfg, err := config.LoadOrDefault(path)
	if err != nil {
		return nil, err
	}
	if flags.backend != "" {
		cfg.Backend = flags.backend
	}
	if flags.assets != "" {
		cfg.Assets.Dir = flags.assets
	}
	if flags.logFile != "" {
		cfg.Log.File = flags.logFile
	}
	if flags.verbose {
		cfg.Log.Level = "debug"
	}
	if err := config.Validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	if dir, ok := locate(cfg.Assets.Dir); ok {
		cfg.Assets.Dir = dir
	}
	return cfg, nil
}

func newLogger(cfg *config.Config) (*logging.Logger, error) {
	return logging.New(logging.Options{
		Level:   cfg.Log.Level,
		File:    cfg.Log.File,
		Console: true,
	})
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "nanachi %s (%s)\n", Version, BuildTime)
		},
	}
}
