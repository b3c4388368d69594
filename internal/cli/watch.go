package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/skyconnfig/cognitive-os/internal/watch"
)

var (
	watchPoll     bool
	watchInterval time.Duration
)

func init() {
	rootCmd.AddCommand(watchCmd)
	watchCmd.Flags().BoolVar(&watchPoll, "poll", false, "Poll the records directory instead of using inotify")
	watchCmd.Flags().DurationVar(&watchInterval, "interval", 5*time.Second, "Poll interval (with --poll)")
}

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Run a governance pass whenever new records land",
	Long:  "Watches the records directory and runs a governance pass after each\nbatch of record file changes. Use --poll on filesystems without\ninotify support (network mounts, some containers).",
	RunE:  runWatch,
}

func runWatch(cmd *cobra.Command, args []string) error {
	gov, cfg, err := newGovernor()
	if err != nil {
		return err
	}

	handler := func() {
		report, err := gov.RunOnce(time.Now().UTC())
		if err != nil {
			fmt.Fprintf(os.Stderr, "governance pass failed: %v\n", err)
			return
		}
		if len(report.Events) == 0 {
			fmt.Printf("%s run %s: quiet\n", time.Now().UTC().Format("15:04:05"), report.RunID)
			return
		}
		fmt.Printf("%s run %s: %d intervention(s)\n", time.Now().UTC().Format("15:04:05"), report.RunID, len(report.Events))
		for _, ev := range report.Events {
			fmt.Print("  ")
			printEvent(ev)
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		fmt.Fprintln(os.Stderr, "\nStopping watcher...")
		cancel()
	}()

	fmt.Printf("Watching %s\n", cfg.RecordsDir())
	if watchPoll {
		return watch.NewPollWatcher(cfg.RecordsDir(), handler, watchInterval).Run(ctx)
	}
	return watch.NewRecordWatcher(cfg.RecordsDir(), handler).Run(ctx)
}
