package cli

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"github.com/n0rule/nanachi/internal/applet"
	"github.com/n0rule/nanachi/internal/face"
	"github.com/n0rule/nanachi/internal/notify"
	"github.com/n0rule/nanachi/internal/tray"
)

func newRunCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Run the applet (the default)",
		Long: `Run the applet until Exit is chosen from the tray or the process is interrupted.

If no display can be opened a desktop alert is shown and the command fails.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runApplet(cmd.Context(), flags)
		},
	}
}

func runApplet(ctx context.Context, flags *globalFlags) error {
	cfg, err := load(flags)
	if err != nil {
		return err
	}
	root, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer root.Close()
	logger := root.With("backend", cfg.Backend)

	notifier := notify.New(logger.Named("notify"))

	dev, err := openDevice(cfg, logger)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to open display")
		notifier.Alert(notify.DeviceMissing)
		return err
	}
	defer func() {
		if err := dev.Close(); err != nil {
			logger.Warn().Err(err).Msg("Failed to close display")
		}
	}()
	logger.Info().Stringer("size", dev.Bounds().Size()).Msg("Display opened")

	table, err := cfg.Table()
	if err != nil {
		return err
	}
	assets, err := cfg.FaceAssets()
	if err != nil {
		return err
	}
	b := dev.Bounds()
	app, err := applet.New(dev, applet.Options{
		Table:         table,
		Assets:        assets,
		Load:          face.FileLoader(b.Dx(), b.Dy()),
		Gap:           cfg.CycleGap.Std(),
		Seed:          cfg.Seed,
		PollInterval:  cfg.PollInterval.Std(),
		ClockInterval: cfg.ClockInterval.Std(),
		ShowClock:     cfg.ShowClock,
		ShowText:      cfg.ShowText,
		Text:          cfg.Text(),
		Logger:        logger,
	})
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	errc := make(chan error, 1)
	go func() {
		errc <- app.Run(ctx)
		cancel()
	}()

	if flags.noTray {
		<-ctx.Done()
	} else {
		tray.New(tray.Options{
			Notifier: notifier,
			Logger:   logger.Named("tray"),
			Quit:     cancel,
		}).Run(ctx)
		cancel()
	}

	err = <-errc
	logger.Info().Msg("Applet stopped")
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return nil
	}
	return err
}
