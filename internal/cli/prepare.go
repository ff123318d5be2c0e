package cli

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/n0rule/nanachi/internal/assets"
)

func newPrepareCmd(flags *globalFlags) *cobra.Command {
	var (
		width, height int
		contrast      float32
		invert        bool
	)

	cmd := &cobra.Command{
		Use:   "prepare SOURCE NAME",
		Short: "Resize and grayscale an image into an expression asset",
		Long: `Crop SOURCE to the display's aspect ratio, resize it and save it as a grayscale
PNG. NAME is a file stem placed in the assets directory (nanachi_blink) or a path
ending in .png.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := load(flags)
			if err != nil {
				return err
			}
			size := panelSize(cfg)
			if width > 0 {
				size.X = width
			}
			if height > 0 {
				size.Y = height
			}

			dst := args[1]
			if !strings.EqualFold(filepath.Ext(dst), ".png") {
				dst = filepath.Join(cfg.Assets.Dir, dst+".png")
			}

			err = assets.PrepareFile(args[0], dst, assets.Options{
				Width:    size.X,
				Height:   size.Y,
				Contrast: contrast,
				Invert:   invert,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%dx%d)\n", dst, size.X, size.Y)
			return nil
		},
	}

	cmd.Flags().IntVar(&width, "width", 0, "Output width (default: the display's)")
	cmd.Flags().IntVar(&height, "height", 0, "Output height (default: the display's)")
	cmd.Flags().Float32Var(&contrast, "contrast", 0, "Contrast adjustment in percent, -100 to 100")
	cmd.Flags().BoolVar(&invert, "invert", false, "Invert light and dark")
	return cmd
}
