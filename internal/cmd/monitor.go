package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/Iron-Ham/pulse/internal/config"
	"github.com/Iron-Ham/pulse/internal/event"
	"github.com/Iron-Ham/pulse/internal/pulse"
)

var (
	monitorCategory string
	monitorAction   string
	monitorPayload  string
	monitorTabs     int
	monitorInterval time.Duration
	monitorCount    int
	monitorTrace    string
	monitorTimeout  time.Duration
)

var monitorCmd = &cobra.Command{
	Use:   "monitor",
	Short: "Broadcast on an interval and print a line per round",
	Long: `Build the same in-memory host as loopback and broadcast one message
per --interval, printing the replies of each round.

Runs until interrupted or until --count rounds have completed. When a config
file is in use, edits to dispatch.fanout_limit take effect on the next round.
--trace prints every lifecycle event whose type matches the given glob
pattern, e.g. "context.*" or "**".`,
	RunE: runMonitor,
}

func init() {
	rootCmd.AddCommand(monitorCmd)

	monitorCmd.Flags().StringVar(&monitorCategory, "category", "", "message category (default dispatch.default_category)")
	monitorCmd.Flags().StringVar(&monitorAction, "action", "ping", "message action")
	monitorCmd.Flags().StringVar(&monitorPayload, "payload", "", "JSON payload (empty for null)")
	monitorCmd.Flags().IntVar(&monitorTabs, "tabs", -1, "number of tab endpoints (default host.tabs)")
	monitorCmd.Flags().DurationVar(&monitorInterval, "interval", time.Second, "time between rounds")
	monitorCmd.Flags().IntVar(&monitorCount, "count", 0, "stop after this many rounds (0 runs until interrupted)")
	monitorCmd.Flags().StringVar(&monitorTrace, "trace", "", "print events matching this glob pattern")
	monitorCmd.Flags().DurationVar(&monitorTimeout, "timeout", 5*time.Second, "how long each round waits for replies")
}

// lockedWriter serializes writes from event handlers running on endpoint
// goroutines with the command's own output.
type lockedWriter struct {
	mu *sync.Mutex
	w  io.Writer
}

func (l lockedWriter) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.w.Write(p)
}

func runMonitor(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if monitorInterval <= 0 {
		return fmt.Errorf("invalid --interval %s: must be positive", monitorInterval)
	}

	payload, err := parsePayload(monitorPayload)
	if err != nil {
		return err
	}

	category := monitorCategory
	if category == "" {
		category = cfg.Dispatch.DefaultCategory
	}
	tabs := cfg.Host.Tabs
	if monitorTabs >= 0 {
		tabs = monitorTabs
	}

	logger, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Close() }()

	var mu sync.Mutex
	out := lockedWriter{mu: &mu, w: cmd.OutOrStdout()}
	errOut := lockedWriter{mu: &mu, w: cmd.ErrOrStderr()}

	bus := event.NewBus(logger)
	if monitorTrace != "" {
		if _, err := bus.SubscribeMatch(monitorTrace, func(e event.Event) {
			fmt.Fprintf(errOut, "event %s\n", e.EventType())
		}); err != nil {
			return err
		}
	}

	var fanout atomic.Int64
	fanout.Store(int64(cfg.Dispatch.FanoutLimit))
	config.Watch(func(c *config.Config) {
		fanout.Store(int64(c.Dispatch.FanoutLimit))
		logger.Info("configuration reloaded", "fanout_limit", c.Dispatch.FanoutLimit)
	}, func(err error) {
		logger.Warn("ignoring invalid configuration", "error", err.Error())
	})

	global, hub, err := buildLoopback(cfg, logger, bus, category, monitorAction, tabs, cfg.Dispatch.FanoutLimit)
	if err != nil {
		return err
	}
	defer hub.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ticker := time.NewTicker(monitorInterval)
	defer ticker.Stop()

	for round := 1; ; round++ {
		monitorRound(ctx, out, global, round, payload, int(fanout.Load()))

		if monitorCount > 0 && round >= monitorCount {
			return nil
		}
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

func monitorRound(ctx context.Context, w io.Writer, global *pulse.Global, round int, payload any, fanout int) {
	ctx, cancel := context.WithTimeout(ctx, monitorTimeout)
	defer cancel()

	reply, err := global.Send(ctx, monitorAction, payload, pulse.WithFanoutLimit(fanout))
	if err != nil {
		fmt.Fprintf(w, "round %d: error: %v\n", round, err)
		return
	}

	values, err := json.Marshal(reply.Values())
	if err != nil {
		fmt.Fprintf(w, "round %d: error: %v\n", round, err)
		return
	}
	fmt.Fprintf(w, "round %d: %d replies %s\n", round, len(reply.Values()), values)
}
