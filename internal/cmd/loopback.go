package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/Iron-Ham/pulse/internal/config"
	"github.com/Iron-Ham/pulse/internal/dispatch"
	"github.com/Iron-Ham/pulse/internal/event"
	"github.com/Iron-Ham/pulse/internal/host/memory"
	"github.com/Iron-Ham/pulse/internal/logging"
	"github.com/Iron-Ham/pulse/internal/pulse"
)

var (
	loopbackCategory string
	loopbackAction   string
	loopbackPayload  string
	loopbackTab      int
	loopbackTabs     int
	loopbackFanout   int
	loopbackOutput   string
	loopbackTimeout  time.Duration
)

var loopbackCmd = &cobra.Command{
	Use:   "loopback",
	Short: "Send a message through an in-memory host and print the replies",
	Long: `Build an in-memory host with a background endpoint running a Global
context and a set of tab endpoints running echo Peer contexts, then send one
message from the background context.

With --tab the message is directed to that tab; otherwise it fans out to
every tab and the replies are printed in tab order.`,
	RunE: runLoopback,
}

func init() {
	rootCmd.AddCommand(loopbackCmd)

	loopbackCmd.Flags().StringVar(&loopbackCategory, "category", "", "message category (default dispatch.default_category)")
	loopbackCmd.Flags().StringVar(&loopbackAction, "action", "ping", "message action")
	loopbackCmd.Flags().StringVar(&loopbackPayload, "payload", "", "JSON payload (empty for null)")
	loopbackCmd.Flags().IntVar(&loopbackTab, "tab", 0, "direct the message to this tab id (0 broadcasts)")
	loopbackCmd.Flags().IntVar(&loopbackTabs, "tabs", -1, "number of tab endpoints (default host.tabs)")
	loopbackCmd.Flags().IntVar(&loopbackFanout, "fanout", -1, "concurrent broadcast sends (default dispatch.fanout_limit)")
	loopbackCmd.Flags().StringVarP(&loopbackOutput, "output", "o", "json", "output format: json or yaml")
	loopbackCmd.Flags().DurationVar(&loopbackTimeout, "timeout", 5*time.Second, "how long to wait for replies")
}

// loopbackResult is what the loopback command prints.
type loopbackResult struct {
	Category string `json:"category" yaml:"category"`
	Action   string `json:"action" yaml:"action"`
	Tab      int    `json:"tab,omitempty" yaml:"tab,omitempty"`
	Reply    any    `json:"reply,omitempty" yaml:"reply,omitempty"`
	Replies  []any  `json:"replies,omitempty" yaml:"replies,omitempty"`
}

func runLoopback(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	if loopbackOutput != "json" && loopbackOutput != "yaml" {
		return fmt.Errorf("invalid --output %q: must be json or yaml", loopbackOutput)
	}

	payload, err := parsePayload(loopbackPayload)
	if err != nil {
		return err
	}

	category := loopbackCategory
	if category == "" {
		category = cfg.Dispatch.DefaultCategory
	}
	tabs := cfg.Host.Tabs
	if loopbackTabs >= 0 {
		tabs = loopbackTabs
	}
	fanout := cfg.Dispatch.FanoutLimit
	if loopbackFanout >= 0 {
		fanout = loopbackFanout
	}

	logger, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Close() }()

	bus := event.NewBus(logger)
	bus.SubscribeAll(func(e event.Event) {
		logger.Debug("event", "event_type", e.EventType())
	})

	global, hub, err := buildLoopback(cfg, logger, bus, category, loopbackAction, tabs, fanout)
	if err != nil {
		return err
	}
	defer hub.Close()

	ctx, cancel := context.WithTimeout(cmd.Context(), loopbackTimeout)
	defer cancel()

	var opts []pulse.SendOption
	if loopbackTab > 0 {
		opts = append(opts, pulse.To(loopbackTab))
	}

	reply, err := global.Send(ctx, loopbackAction, payload, opts...)
	if err != nil {
		return fmt.Errorf("send %s.%s: %w", category, loopbackAction, err)
	}

	result := loopbackResult{Category: category, Action: loopbackAction, Tab: loopbackTab}
	if reply.FanOut() {
		result.Replies = reply.Values()
	} else {
		result.Reply = reply.Value()
	}
	return writeResult(cmd.OutOrStdout(), loopbackOutput, result)
}

// buildLoopback wires a background Global context and tabs echo Peers on a
// fresh hub.
func buildLoopback(cfg *config.Config, logger *logging.Logger, bus *event.Bus, category, action string, tabs, fanout int) (*pulse.Global, *memory.Hub, error) {
	hub := memory.NewHub(memory.WithInboxSize(cfg.Host.InboxSize), memory.WithLogger(logger))

	bg, err := hub.Endpoint("background")
	if err != nil {
		hub.Close()
		return nil, nil, err
	}
	bgMux := pulse.NewMux(bg, pulse.WithLogger(logger), pulse.WithBus(bus), pulse.WithDefaultFanoutLimit(fanout))

	global, err := pulse.NewGlobal(bgMux, category, map[string]pulse.RichHandler{
		"status": func(_ context.Context, req *pulse.Request) dispatch.Outcome {
			return dispatch.Immediate(map[string]any{"from": req.Sender.Name, "ok": true})
		},
	})
	if err != nil {
		hub.Close()
		return nil, nil, err
	}

	for id := 1; id <= tabs; id++ {
		name := fmt.Sprintf("tab-%d", id)
		tab, err := hub.Endpoint(name, memory.AsTab(id))
		if err != nil {
			hub.Close()
			return nil, nil, err
		}
		mux := pulse.NewMux(tab, pulse.WithLogger(logger), pulse.WithBus(bus))
		if _, err := pulse.NewPeer(mux, category, map[string]pulse.SimpleHandler{
			action: func(_ context.Context, payload any) (any, error) {
				return map[string]any{"tab": id, "payload": payload}, nil
			},
		}); err != nil {
			hub.Close()
			return nil, nil, err
		}
	}

	return global, hub, nil
}

func writeResult(w io.Writer, format string, v any) error {
	switch format {
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	default:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
}
