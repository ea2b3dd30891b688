package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Iron-Ham/pulse/internal/config"
	"github.com/Iron-Ham/pulse/internal/envelope"
)

var (
	encodeCategory string
	encodeAction   string
	encodePayload  string
	encodeTab      int
	encodeFormat   string
	encodeSource   string
)

var encodeCmd = &cobra.Command{
	Use:   "encode",
	Short: "Print the wire form of an envelope",
	Long: `Print the wire form of an envelope.

The json format is the envelope document exchanged over the host channel;
the target field appears only when --tab is given. The cloudevents format
wraps the same envelope in a structured-mode CloudEvent.`,
	RunE: runEncode,
}

var decodeCmd = &cobra.Command{
	Use:   "decode [document]",
	Short: "Parse an envelope document and print its fields",
	Long:  `Parse an envelope document given as an argument or on stdin and print its fields.`,
	Args:  cobra.MaximumNArgs(1),
	RunE:  runDecode,
}

func init() {
	rootCmd.AddCommand(encodeCmd)
	rootCmd.AddCommand(decodeCmd)

	encodeCmd.Flags().StringVar(&encodeCategory, "category", "", "message category (default dispatch.default_category)")
	encodeCmd.Flags().StringVar(&encodeAction, "action", "", "message action")
	encodeCmd.Flags().StringVar(&encodePayload, "payload", "", "JSON payload (empty for null)")
	encodeCmd.Flags().IntVar(&encodeTab, "tab", 0, "target tab id (0 omits the target)")
	encodeCmd.Flags().StringVar(&encodeFormat, "format", "json", "output format: json or cloudevents")
	encodeCmd.Flags().StringVar(&encodeSource, "source", "pulse", "CloudEvents source attribute")
	_ = encodeCmd.MarkFlagRequired("action")
}

func runEncode(cmd *cobra.Command, args []string) error {
	category := encodeCategory
	if category == "" {
		category = config.Get().Dispatch.DefaultCategory
	}

	payload, err := parsePayload(encodePayload)
	if err != nil {
		return err
	}

	env := envelope.New(category, encodeAction, payload)
	if encodeTab > 0 {
		env = env.WithTarget(envelope.Target{TabID: encodeTab})
	}

	var data []byte
	switch encodeFormat {
	case "json":
		data, err = envelope.Encode(env)
	case "cloudevents":
		ce, ceErr := envelope.ToCloudEvent(env, encodeSource)
		if ceErr != nil {
			return ceErr
		}
		data, err = json.Marshal(ce)
	default:
		return fmt.Errorf("invalid --format %q: must be json or cloudevents", encodeFormat)
	}
	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return err
}

func runDecode(cmd *cobra.Command, args []string) error {
	var data []byte
	if len(args) == 1 {
		data = []byte(args[0])
	} else {
		var err error
		data, err = io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return fmt.Errorf("failed to read stdin: %w", err)
		}
	}

	env, err := envelope.Decode([]byte(strings.TrimSpace(string(data))))
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "category: %s\n", env.Category)
	fmt.Fprintf(out, "action:   %s\n", env.Action)
	payload, err := json.Marshal(env.Payload)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "payload:  %s\n", payload)
	if env.Target != nil {
		fmt.Fprintf(out, "target:   tab %d\n", env.Target.TabID)
	}
	return nil
}
