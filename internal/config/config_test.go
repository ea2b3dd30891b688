package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg == nil {
		t.Fatal("Default() returned nil")
	}

	if cfg.Logging.Level != "info" {
		t.Errorf("Logging.Level = %q, want %q", cfg.Logging.Level, "info")
	}
	if cfg.Logging.Dir != "" {
		t.Errorf("Logging.Dir = %q, want empty (stderr)", cfg.Logging.Dir)
	}
	if cfg.Logging.MaxSizeMB != 10 || cfg.Logging.MaxBackups != 3 || cfg.Logging.Compress {
		t.Errorf("Logging rotation = %d MB / %d backups / compress %v, want 10 / 3 / false",
			cfg.Logging.MaxSizeMB, cfg.Logging.MaxBackups, cfg.Logging.Compress)
	}
	if cfg.Dispatch.FanoutLimit != 0 {
		t.Errorf("Dispatch.FanoutLimit = %d, want 0", cfg.Dispatch.FanoutLimit)
	}
	if cfg.Dispatch.DefaultCategory != "inspector" {
		t.Errorf("Dispatch.DefaultCategory = %q, want %q", cfg.Dispatch.DefaultCategory, "inspector")
	}
	if cfg.Host.InboxSize != 64 {
		t.Errorf("Host.InboxSize = %d, want 64", cfg.Host.InboxSize)
	}
	if cfg.Host.Tabs != 3 {
		t.Errorf("Host.Tabs = %d, want 3", cfg.Host.Tabs)
	}
}

func TestConfigDir(t *testing.T) {
	t.Run("with XDG_CONFIG_HOME", func(t *testing.T) {
		t.Setenv("XDG_CONFIG_HOME", "/custom/config")
		result := ConfigDir()
		expected := "/custom/config/pulse"
		if result != expected {
			t.Errorf("ConfigDir() = %q, want %q", result, expected)
		}
	})

	t.Run("without XDG_CONFIG_HOME", func(t *testing.T) {
		t.Setenv("XDG_CONFIG_HOME", "")
		result := ConfigDir()

		home, _ := os.UserHomeDir()
		expected := filepath.Join(home, ".config", "pulse")
		if result != expected {
			t.Errorf("ConfigDir() = %q, want %q", result, expected)
		}
	})
}

func TestConfigFile(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/custom/config")
	result := ConfigFile()
	expected := "/custom/config/pulse/config.yaml"
	if result != expected {
		t.Errorf("ConfigFile() = %q, want %q", result, expected)
	}
}

func TestGet(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)
	SetDefaults()

	cfg := Get()
	if cfg == nil {
		t.Fatal("Get() returned nil")
	}
	if cfg.Dispatch.DefaultCategory != "inspector" {
		t.Errorf("Get().Dispatch.DefaultCategory = %q, want %q", cfg.Dispatch.DefaultCategory, "inspector")
	}
}

func TestLoad_Overrides(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)
	SetDefaults()

	viper.Set("dispatch.fanout_limit", 4)
	viper.Set("host.tabs", 8)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Dispatch.FanoutLimit != 4 {
		t.Errorf("Dispatch.FanoutLimit = %d, want 4", cfg.Dispatch.FanoutLimit)
	}
	if cfg.Host.Tabs != 8 {
		t.Errorf("Host.Tabs = %d, want 8", cfg.Host.Tabs)
	}
	if cfg.Host.InboxSize != 64 {
		t.Errorf("Host.InboxSize = %d, want default 64", cfg.Host.InboxSize)
	}
}

func TestLoad_FromFile(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)
	SetDefaults()

	path := filepath.Join(t.TempDir(), "config.yaml")
	content := "logging:\n  level: debug\ndispatch:\n  default_category: devtools\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	viper.SetConfigFile(path)
	if err := viper.ReadInConfig(); err != nil {
		t.Fatalf("ReadInConfig() error = %v", err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q, want debug", cfg.Logging.Level)
	}
	if cfg.Dispatch.DefaultCategory != "devtools" {
		t.Errorf("Dispatch.DefaultCategory = %q, want devtools", cfg.Dispatch.DefaultCategory)
	}
}

func TestLoad_Invalid(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)
	SetDefaults()

	viper.Set("host.inbox_size", 0)

	_, err := Load()
	if err == nil {
		t.Fatal("Load() should fail for an invalid inbox size")
	}
	if _, ok := err.(ValidationErrors); !ok {
		t.Errorf("Load() error type = %T, want ValidationErrors", err)
	}
}

func TestLoad_EnvOverride(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)
	SetDefaults()
	BindEnv()

	t.Setenv("PULSE_DISPATCH_FANOUT_LIMIT", "7")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Dispatch.FanoutLimit != 7 {
		t.Errorf("Dispatch.FanoutLimit = %d, want 7 from env", cfg.Dispatch.FanoutLimit)
	}
}
