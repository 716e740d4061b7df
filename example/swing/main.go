package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/cheggaaa/pb/v3"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	golfswing "github.com/swdee/go-golfswing"
	"github.com/swdee/go-golfswing/phase"
	"github.com/swdee/go-golfswing/pose"
	"github.com/swdee/go-golfswing/record"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var verbose bool

	root := &cobra.Command{
		Use:           "swing",
		Short:         "Golf swing phase detection and metrics",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			level := slog.LevelInfo

			if verbose {
				level = slog.LevelDebug
			}

			slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr,
				&slog.HandlerOptions{Level: level})))
		},
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log phase transitions")

	root.AddCommand(newSimulateCmd())
	root.AddCommand(newAnalyseCmd())
	return root
}

func newSimulateCmd() *cobra.Command {
	var swings int
	var fps float64

	cmd := &cobra.Command{
		Use:   "simulate <recording>",
		Short: "Write a recording of synthetic swings",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if swings < 1 {
				return errors.New("at least one swing is required")
			}

			f, err := os.Create(args[0])

			if err != nil {
				return fmt.Errorf("failed to create recording: %w", err)
			}

			w, err := record.NewWriter(f, record.Header{
				SessionID:  uuid.NewString(),
				FrameRate:  fps,
				Handedness: pose.RightHanded,
			})

			if err != nil {
				f.Close()
				return err
			}

			g := pose.DefaultGolfer()

			for i := 0; i < swings; i++ {
				// drift the golfer slightly between swings
				g.CenterX = 0.5 + 0.005*float64(i%3-1)

				for _, frame := range g.Swing(uint64(i*pose.SwingLength), fps) {
					if err := w.WriteFrame(frame); err != nil {
						w.Close()
						return err
					}
				}
			}

			if err := w.Close(); err != nil {
				return fmt.Errorf("failed to close recording: %w", err)
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "wrote %d frames to %s\n", w.Frames(), args[0])
			return nil
		},
	}
	cmd.Flags().IntVar(&swings, "swings", 3, "number of swings to generate")
	cmd.Flags().Float64Var(&fps, "fps", 30, "frame rate of the recording")
	return cmd
}

// fileResult is the outcome of analysing one recording
type fileResult struct {
	path    string
	frames  int
	swings  []golfswing.Result
	elapsed time.Duration
	err     error
}

func newAnalyseCmd() *cobra.Command {
	var configFile, resultsDir string
	var parallel int

	cmd := &cobra.Command{
		Use:   "analyse <recording>...",
		Short: "Run phase detection and metrics over pose recordings",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := golfswing.DefaultConfig()

			if configFile != "" {
				var err error

				if cfg, err = golfswing.LoadConfig(configFile); err != nil {
					return err
				}
			}

			if parallel > len(args) {
				parallel = len(args)
			}

			pool, err := golfswing.NewPool(parallel, cfg)

			if err != nil {
				return err
			}

			defer pool.Close()

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
			defer stop()

			template := `{{ string . "prefix" }} {{counters . }} {{bar . }} {{percent . }} {{etime . "%s elapsed"}}`
			bar := pb.ProgressBarTemplate(template).Start(0)
			bar.Set("prefix", "frames")

			results := make([]fileResult, len(args))
			var wg sync.WaitGroup

			for i, path := range args {
				// pool.Get() blocks if no engines are available in the pool
				e, err := pool.Get()

				if err != nil {
					return err
				}

				wg.Add(1)
				go func(i int, path string, e *golfswing.Engine) {
					defer wg.Done()
					results[i] = analyseFile(ctx, e, path, resultsDir, bar)
					pool.Return(e)
				}(i, path, e)
			}

			wg.Wait()
			bar.Finish()

			return printResults(cmd, results)
		},
	}
	cmd.Flags().StringVarP(&configFile, "config", "c", "", "YAML configuration file")
	cmd.Flags().StringVar(&resultsDir, "results", "", "directory to write per frame results to")
	cmd.Flags().IntVarP(&parallel, "parallel", "p", 2, "number of recordings analysed at once")
	return cmd
}

// analyseFile replays a recording through an engine
func analyseFile(ctx context.Context, e *golfswing.Engine, path, resultsDir string,
	bar *pb.ProgressBar) fileResult {

	res := fileResult{path: path}
	start := time.Now()

	f, err := os.Open(path)

	if err != nil {
		res.err = fmt.Errorf("failed to open recording: %w", err)
		return res
	}

	defer f.Close()

	r, err := record.NewReader(f)

	if err != nil {
		res.err = err
		return res
	}

	if h := r.Header(); h.FrameRate != e.Config().FrameRate || h.Handedness != e.Config().Handedness {
		slog.Warn("recording does not match configuration", "file", path,
			"fps", h.FrameRate, "handedness", h.Handedness)
	}

	var enc *record.Encoder

	if resultsDir != "" {
		name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)) + ".results"
		out, err := os.Create(filepath.Join(resultsDir, name))

		if err != nil {
			res.err = fmt.Errorf("failed to create results file: %w", err)
			return res
		}

		defer out.Close()

		enc = record.NewEncoder(out)
		defer enc.Flush()
	}

	cancel := e.Subscribe(func(r golfswing.Result) {
		res.frames++
		bar.AddTotal(1)
		bar.Increment()

		if r.Transition && r.Phase == phase.Finish {
			res.swings = append(res.swings, r)
		}

		if enc != nil {
			if err := enc.Encode(r); err != nil && res.err == nil {
				res.err = err
			}
		}
	})
	defer cancel()

	if err := e.Run(ctx, r); err != nil && res.err == nil {
		res.err = err
	}

	res.elapsed = time.Since(start)

	return res
}

func printResults(cmd *cobra.Command, results []fileResult) error {

	out := cmd.OutOrStdout()
	var failed int

	for _, r := range results {
		if r.err != nil {
			failed++
			_, _ = fmt.Fprintf(out, "%s\terror: %v\n", r.path, r.err)
			continue
		}

		_, _ = fmt.Fprintf(out, "%s\t%d frames\t%d swings\t%s\n", r.path, r.frames,
			len(r.swings), r.elapsed.Round(time.Millisecond))

		for i, s := range r.swings {
			m := s.Metrics
			_, _ = fmt.Fprintf(out, "  swing %d\tscore %.0f\tx-factor %.1f\ttempo %.1f\tsequence %.0f%%\toverall %.1f/10\n",
				i+1, m.Composite, m.PeakSeparation, m.Timing.Tempo, m.Sequence.Efficiency*100,
				s.Comparison.Overall)
		}

		if n := len(r.swings); n > 0 {
			if c := r.swings[n-1].Metrics.Consistency; c.Valid {
				_, _ = fmt.Fprintf(out, "  consistency %.0f%% %s\n", c.Score*100, c.Trend)
			}
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d recordings failed", failed, len(results))
	}

	return nil
}
