package smoketest

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/okian/lessongen/internal/domain/lesson"
	"github.com/okian/lessongen/pkg/logger"
	"github.com/spf13/cobra"
)

// runTimeout bounds a whole smoke run.
const runTimeout = 10 * time.Minute

// NewRootCommand builds the lesson-smoke command tree.
func NewRootCommand() *cobra.Command {
	var logFormat string
	root := &cobra.Command{
		Use:           "lesson-smoke",
		Short:         "Exercise a running lesson service with generated samples",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return logger.Init(logger.WithFormat(logFormat), logger.WithOutput(cmd.ErrOrStderr()))
		},
	}
	root.PersistentFlags().StringVar(&logFormat, "log-format", logger.FormatText, "Log format: text or json")

	root.AddCommand(newRunCommand(), newSampleCommand())
	return root
}

func newRunCommand() *cobra.Command {
	cfg := &Config{}
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Post generated samples and verify every lesson",
		Long: `Post generated pitching and hitting samples to the service.

Every response is checked for the lesson invariants (mode, one to three
drills, unique priorities, non-empty summary) and compared byte for byte with
the lesson computed locally from the same sample.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), runTimeout)
			defer cancel()

			stats, err := Run(ctx, cfg)
			if stats != nil {
				fmt.Fprintf(cmd.OutOrStdout(), "samples: %d passed: %d failed: %d (flagged %d, fallback %d) in %s\n",
					stats.Submitted, stats.Passed, stats.Failed, stats.Flagged, stats.Fallback, stats.Duration.Round(time.Millisecond))
			}
			return err
		},
	}

	f := cmd.Flags()
	f.StringVar(&cfg.BaseURL, "url", DefaultBaseURL, "Base URL of the service")
	f.IntVarP(&cfg.Samples, "samples", "n", DefaultSamples, "Number of samples to generate and submit")
	f.IntVarP(&cfg.Workers, "workers", "w", DefaultWorkers, "Number of concurrent requests")
	f.DurationVar(&cfg.Timeout, "timeout", DefaultTimeout, "HTTP request timeout")
	f.Uint64Var(&cfg.Seed, "seed", DefaultSeed, "Generator seed")
	f.BoolVarP(&cfg.Verbose, "verbose", "v", false, "Log every sample")
	return cmd
}

func newSampleCommand() *cobra.Command {
	var (
		mode string
		seed uint64
	)
	cmd := &cobra.Command{
		Use:   "sample",
		Short: "Print one generated request body as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			g := NewGenerator(seed)
			var s Sample
			switch lesson.Mode(mode) {
			case lesson.ModePitching:
				s = g.Pitching()
			case lesson.ModeHitting:
				s = g.Hitting()
			default:
				return fmt.Errorf("%w: unknown mode %q", ErrInvalidConfig, mode)
			}
			return writeSample(cmd.OutOrStdout(), s)
		},
	}
	cmd.Flags().StringVar(&mode, "mode", string(lesson.ModePitching), "Sample mode: pitching or hitting")
	cmd.Flags().Uint64Var(&seed, "seed", DefaultSeed, "Generator seed")
	return cmd
}

func writeSample(w io.Writer, s Sample) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(s.Body())
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "lesson-smoke:", err)
		os.Exit(1)
	}
}
