// Package cmd implements the jbusy command line interface.
package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime"
	"strconv"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/mvp2008/jbusy/pkg/jstack"
	"github.com/mvp2008/jbusy/pkg/report"
	"github.com/mvp2008/jbusy/pkg/round"
	"github.com/mvp2008/jbusy/pkg/threadstat"
)

var (
	flagPID        int
	flagCount      int
	flagAppendFile string
	flagJstackPath string
	flagForce      bool
	flagMixNative  bool
	flagLockInfo   bool
	flagOutput     string
	flagLogLevel   string
)

var rootCmd = &cobra.Command{
	Use:   "jbusy [flags] [delay [update_count]]",
	Short: "Show the stack traces of the busiest threads in Java processes",
	Long: `jbusy samples per-thread CPU usage of running Java processes, picks the
busiest threads, takes one jstack thread dump per implicated process, and
prints each busy thread's stack-trace segment.

With a positional delay (seconds), sampling repeats every delay seconds,
update_count times, or until interrupted when update_count is omitted.`,
	Args:         cobra.MaximumNArgs(2),
	SilenceUsage: true,
	RunE:         run,
}

func init() {
	rootCmd.Flags().IntVarP(&flagPID, "pid", "p", 0, "target a single Java process instead of all of them")
	rootCmd.Flags().IntVarP(&flagCount, "count", "c", 5, "number of busiest threads to show")
	rootCmd.Flags().StringVarP(&flagAppendFile, "append-file", "a", "", "also append the report to this file")
	rootCmd.Flags().StringVarP(&flagJstackPath, "jstack-path", "s", "", "path to the jstack binary")
	rootCmd.Flags().BoolVarP(&flagForce, "force", "F", false, "force a dump when the target does not respond (jstack -F)")
	rootCmd.Flags().BoolVarP(&flagMixNative, "mix-native-frames", "m", false, "include native frames in the dump (jstack -m)")
	rootCmd.Flags().BoolVarP(&flagLockInfo, "lock-info", "l", false, "include lock details in the dump (jstack -l)")
	rootCmd.Flags().StringVarP(&flagOutput, "output", "o", "table", "output format: table or json")
	rootCmd.Flags().StringVar(&flagLogLevel, "log-level", "warning", "log level: debug, info, warning, error")
	rootCmd.MarkFlagsMutuallyExclusive("force", "mix-native-frames")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func run(cmd *cobra.Command, args []string) error {
	if runtime.GOOS != "linux" {
		return threadstat.ErrUnsupportedPlatform
	}

	log := logrus.New()
	level, err := logrus.ParseLevel(flagLogLevel)
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", flagLogLevel, err)
	}
	log.SetLevel(level)

	if flagCount < 1 {
		return fmt.Errorf("count must be at least 1, got %d", flagCount)
	}
	if cmd.Flags().Changed("pid") && flagPID < 1 {
		return fmt.Errorf("pid must be positive, got %d", flagPID)
	}

	mode := jstack.ModeDefault
	switch {
	case flagForce:
		mode = jstack.ModeForce
	case flagMixNative:
		mode = jstack.ModeMixedNative
	}
	if flagLockInfo && mode != jstack.ModeDefault {
		return errors.New("--lock-info cannot be combined with --force or --mix-native-frames")
	}

	delay, updates, err := parseSchedule(args)
	if err != nil {
		return err
	}

	format := report.Format(flagOutput)
	if format != report.FormatTable && format != report.FormatJSON {
		return fmt.Errorf("unknown output format %q", flagOutput)
	}

	tool, err := jstack.ResolveTool(flagJstackPath)
	if err != nil {
		return err
	}
	log.WithField("tool", tool).Debug("dump tool resolved")

	invoker, err := jstack.CurrentIdentity()
	if err != nil {
		return err
	}

	writer := io.Writer(os.Stdout)
	if flagAppendFile != "" {
		f, err := os.OpenFile(flagAppendFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			return fmt.Errorf("cannot open append file: %w", err)
		}
		defer f.Close()
		writer = io.MultiWriter(os.Stdout, f)
	}

	scheduler := &round.Scheduler{
		Round: &round.Round{
			Source:   threadstat.NewSource(),
			Dumps:    jstack.NewProvider(tool, mode, flagLockInfo, log),
			Reporter: report.NewFormatter(format, writer),
			Log:      log,
		},
		Delay:   delay,
		Updates: updates,
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err = scheduler.Run(ctx, round.Params{
		TargetPID: flagPID,
		Count:     flagCount,
		Mode:      mode,
		Invoker:   invoker,
	})
	if errors.Is(err, ctx.Err()) && ctx.Err() != nil {
		// Operator interrupt is a normal way to stop; cleanup already ran.
		return nil
	}
	return err
}

// parseSchedule interprets the positional delay and update_count
// arguments. Without a delay the tool runs a single round; with a delay
// but no update_count it runs until interrupted.
func parseSchedule(args []string) (time.Duration, int, error) {
	if len(args) == 0 {
		return 0, 1, nil
	}

	seconds, err := strconv.ParseFloat(args[0], 64)
	if err != nil || seconds < 0 {
		return 0, 0, fmt.Errorf("invalid delay %q: want non-negative seconds", args[0])
	}
	delay := time.Duration(seconds * float64(time.Second))

	if len(args) == 1 {
		return delay, 0, nil
	}
	updates, err := strconv.Atoi(args[1])
	if err != nil {
		return 0, 0, fmt.Errorf("invalid update_count %q: %v", args[1], err)
	}
	return delay, updates, nil
}
