package main

import (
	"context"
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"vaxmap/internal/chart"
	"vaxmap/internal/config"
	"vaxmap/internal/logging"
	"vaxmap/internal/tui"
	"vaxmap/internal/watch"
)

var version = "0.1.0"

// options are the settings shared by every command. Flags default to the
// VAXMAP_* environment.
type options struct {
	config.Settings
}

func (o *options) bind(cmd *cobra.Command) {
	f := cmd.PersistentFlags()
	f.StringVarP(&o.DataPath, "data", "d", o.DataPath, "vaccination dataset (.json or .csv)")
	f.StringVarP(&o.GeoPath, "geo", "g", o.GeoPath, "world geography (TopoJSON or GeoJSON)")
	f.StringVarP(&o.PropsPath, "props", "p", o.PropsPath, "YAML props overlay")
	f.StringVar(&o.Variant, "variant", o.Variant, "flat-static, flat-interactive, globe-autoplay or globe-drag-interactive")
	f.StringVar(&o.LogLevel, "log-level", o.LogLevel, "debug, info, warn or error")
	f.StringVar(&o.LogFile, "log-file", o.LogFile, "write logs to this file")
}

func (o *options) sources() tui.Sources {
	return tui.Sources{Data: o.DataPath, Geo: o.GeoPath, Props: o.PropsPath, Variant: o.Variant}
}

// logger opens the log file, or falls back to fallback when none is set.
func (o *options) logger(fallback io.Writer) (logging.Logger, func(), error) {
	out, closeFn := fallback, func() {}
	if o.LogFile != "" {
		f, err := os.OpenFile(o.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("open log file: %w", err)
		}
		out, closeFn = f, func() { f.Close() }
	}
	return logging.New(logging.Config{Level: o.LogLevel, Format: o.LogFormat, Output: out}), closeFn, nil
}

func main() {
	settings, err := config.ParseEnv()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	opts := &options{Settings: settings}

	rootCmd := &cobra.Command{
		Use:   "vaxmap",
		Short: "vaxmap - COVID-19 vaccination world map",
		Long: `vaxmap draws per-country vaccination coverage on a world map or globe.
Marker area follows coverage and the pulse follows the pace of the rollout.
Run without a subcommand for the terminal viewer.`,
		Version:      version,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runViewer(cmd.Context(), opts)
		},
	}
	opts.bind(rootCmd)
	rootCmd.Flags().BoolVarP(&opts.Watch, "watch", "w", opts.Watch, "reload the input files when they change")
	rootCmd.AddCommand(newRenderCommand(opts))

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runViewer(ctx context.Context, opts *options) error {
	// The viewer owns the terminal, so logs only go to a file.
	log, closeLog, err := opts.logger(io.Discard)
	if err != nil {
		return err
	}
	defer closeLog()

	src := opts.sources()
	c := chart.New(chart.WithLogger(log))
	if err := src.Load(c); err != nil {
		return err
	}

	var modelOpts []tui.Option
	modelOpts = append(modelOpts, tui.WithLogger(log))
	if opts.Watch {
		w, err := watch.New(src.Paths(), watch.DefaultDebounce, log)
		if err != nil {
			return err
		}
		defer w.Close()
		ctx, cancel := context.WithCancel(ctx)
		defer cancel()
		go func() {
			if err := w.Run(ctx); err != nil && ctx.Err() == nil {
				log.Warn(ctx, "watcher stopped", logging.Err(err))
			}
		}()
		modelOpts = append(modelOpts, tui.WithChanges(w.Changes()))
	}

	log.Info(ctx, "viewer starting",
		logging.String("variant", c.Variant().String()),
		logging.Int("records", len(c.Data())),
	)
	m := tui.New(c, src, modelOpts...)
	_, err = tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseAllMotion(), tea.WithContext(ctx)).Run()
	return err
}
