package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/n0rule/nanachi"
	"github.com/n0rule/nanachi/internal/face"
)

func newCheckCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Verify every expression image loads for the configured display",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := load(flags)
			if err != nil {
				return err
			}
			table, err := cfg.Table()
			if err != nil {
				return err
			}
			assets, err := cfg.FaceAssets()
			if err != nil {
				return err
			}

			exprs := []face.Expression{face.Idle, face.Staring}
			for _, r := range table {
				if r.Expression != face.Idle {
					exprs = append(exprs, r.Expression)
				}
			}

			size := panelSize(cfg)
			out := cmd.OutOrStdout()
			failed := 0
			for _, e := range exprs {
				path := assets.Path(e)
				if _, err := nanachi.LoadFrame(path, size.X, size.Y); err != nil {
					fmt.Fprintf(out, "FAIL %-10s %v\n", e, err)
					failed++
					continue
				}
				fmt.Fprintf(out, "ok   %-10s %s\n", e, path)
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d expression images failed for a %dx%d display", failed, len(exprs), size.X, size.Y)
			}
			return nil
		},
	}
}
