package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
)

func TestWatch_NoConfigFile(t *testing.T) {
	viper.Reset()
	defer viper.Reset()

	if Watch(func(*Config) {}, nil) {
		t.Error("Watch() should report false when no config file was read")
	}
}

func TestWatch_ReloadsOnWrite(t *testing.T) {
	viper.Reset()
	defer viper.Reset()
	SetDefaults()

	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("dispatch:\n  fanout_limit: 2\n"), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	viper.SetConfigFile(path)
	if err := viper.ReadInConfig(); err != nil {
		t.Fatalf("ReadInConfig() error = %v", err)
	}

	changes := make(chan *Config, 16)
	failures := make(chan error, 16)
	if !Watch(func(c *Config) { changes <- c }, func(err error) { failures <- err }) {
		t.Fatal("Watch() = false with a config file loaded")
	}

	if err := os.WriteFile(path, []byte("dispatch:\n  fanout_limit: 5\n"), 0644); err != nil {
		t.Fatalf("failed to rewrite config: %v", err)
	}

	// a single write can surface as several events; wait for the final state
	deadline := time.After(5 * time.Second)
	for done := false; !done; {
		select {
		case c := <-changes:
			done = c.Dispatch.FanoutLimit == 5
		case err := <-failures:
			t.Fatalf("unexpected reload error: %v", err)
		case <-deadline:
			t.Fatal("timed out waiting for reload")
		}
	}

	if err := os.WriteFile(path, []byte("logging:\n  level: loud\n"), 0644); err != nil {
		t.Fatalf("failed to rewrite config: %v", err)
	}
	select {
	case err := <-failures:
		if _, ok := err.(ValidationErrors); !ok {
			t.Errorf("reload error = %T, want ValidationErrors", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for validation failure")
	}
}
