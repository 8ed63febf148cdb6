package main

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"vaxmap/internal/chart"
	"vaxmap/internal/logging"
	"vaxmap/internal/render"
	"vaxmap/internal/scene"
)

func newRenderCommand(opts *options) *cobra.Command {
	var (
		out       string
		width     float64
		height    float64
		highlight string
	)
	cmd := &cobra.Command{
		Use:   "render",
		Short: "Write the map as an SVG document",
		Long: `Render draws the map once and writes it as SVG. The height defaults to
the props height ratio of the width. Pulsing markers animate with CSS.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			log, closeLog, err := opts.logger(os.Stderr)
			if err != nil {
				return err
			}
			defer closeLog()

			c := chart.New(chart.WithLogger(log))
			if err := opts.sources().Load(c); err != nil {
				return err
			}
			root := scene.NewRoot(width, height)
			c.SetTarget(root)
			if err := c.Draw(cmd.Context()); err != nil {
				return err
			}
			if highlight != "" {
				c.Focus(highlight)
			}

			var w io.Writer = os.Stdout
			if out != "" && out != "-" {
				f, err := os.Create(out)
				if err != nil {
					return fmt.Errorf("create output: %w", err)
				}
				defer f.Close()
				w = f
			}
			bw := bufio.NewWriter(w)
			if err := render.SVG(bw, root); err != nil {
				return err
			}
			if err := bw.Flush(); err != nil {
				return fmt.Errorf("write output: %w", err)
			}
			log.Info(cmd.Context(), "rendered",
				logging.String("variant", c.Variant().String()),
				logging.Float("width", root.Width),
				logging.Float("height", root.Height),
				logging.String("out", out),
			)
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file, - or empty for stdout")
	cmd.Flags().Float64Var(&width, "width", 960, "map width in pixels")
	cmd.Flags().Float64Var(&height, "height", 0, "map height in pixels, 0 to derive it")
	cmd.Flags().StringVar(&highlight, "highlight", "", "ISO code of a country to highlight")
	return cmd
}
