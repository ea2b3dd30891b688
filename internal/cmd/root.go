package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Iron-Ham/pulse/internal/config"
	"github.com/Iron-Ham/pulse/internal/logging"
)

var rootCmd = &cobra.Command{
	Use:   "pulse",
	Short: "Categorized message dispatch over a host channel",
	Long: `Pulse routes category/action envelopes between isolated execution
contexts sharing one host channel. The CLI drives an in-memory host so
contexts, replies and wire formats can be exercised from a terminal.`,
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringP("config", "c", "", "config file (default is $HOME/.config/pulse/config.yaml)")
	_ = viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))
}

func initConfig() {
	// Set defaults first so they're available even without a config file
	config.SetDefaults()

	if cfgFile := viper.GetString("config"); cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(config.ConfigDir())
		viper.AddConfigPath(".")
	}

	// e.g., PULSE_DISPATCH_FANOUT_LIMIT for dispatch.fanout_limit
	config.BindEnv()

	// Read config file if it exists (ignore error if not found)
	_ = viper.ReadInConfig()
}

// newLogger builds the command logger from configuration.
func newLogger(cfg *config.Config) (*logging.Logger, error) {
	return logging.NewRotatingLogger(cfg.Logging.Dir, logging.ParseLevel(cfg.Logging.Level), logging.RotationConfig{
		MaxSizeMB:  cfg.Logging.MaxSizeMB,
		MaxBackups: cfg.Logging.MaxBackups,
		Compress:   cfg.Logging.Compress,
	})
}

// parsePayload decodes a JSON payload flag. An empty string is a nil payload.
func parsePayload(raw string) (any, error) {
	if raw == "" {
		return nil, nil
	}
	var payload any
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		return nil, fmt.Errorf("invalid --payload JSON: %w", err)
	}
	return payload, nil
}
