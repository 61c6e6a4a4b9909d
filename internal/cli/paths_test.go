package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestConfigPathDefault(t *testing.T) {
	// Clear XDG_CONFIG_HOME to test default behavior
	t.Setenv("XDG_CONFIG_HOME", "")

	c := New(&bytes.Buffer{}, LogInfo)
	path, err := c.configPathOrDefault()
	if err != nil {
		t.Fatalf("configPathOrDefault() error: %v", err)
	}

	home, _ := os.UserHomeDir()
	expected := filepath.Join(home, ".config", appName, "config.toml")
	if path != expected {
		t.Errorf("configPathOrDefault() = %q, want %q", path, expected)
	}
}

func TestConfigPathXDG(t *testing.T) {
	custom := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", custom)

	c := New(&bytes.Buffer{}, LogInfo)
	path, err := c.configPathOrDefault()
	if err != nil {
		t.Fatalf("configPathOrDefault() error: %v", err)
	}

	expected := filepath.Join(custom, appName, "config.toml")
	if path != expected {
		t.Errorf("configPathOrDefault() with XDG_CONFIG_HOME = %q, want %q", path, expected)
	}
}

func TestConfigPathFlagWins(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	var out bytes.Buffer
	root := New(&bytes.Buffer{}, LogInfo).RootCommand()
	root.SetOut(&out)
	root.SetArgs([]string{"--config", "/etc/nodetree.toml", "config", "path"})
	if err := root.Execute(); err != nil {
		t.Fatalf("Execute() error: %v", err)
	}

	if got := strings.TrimSpace(out.String()); got != "/etc/nodetree.toml" {
		t.Errorf("config path = %q, want %q", got, "/etc/nodetree.toml")
	}
}

func TestConfigInitWritesLoadableFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")

	root := New(&bytes.Buffer{}, LogInfo).RootCommand()
	root.SetArgs([]string{"--config", path, "config", "init"})
	if err := root.Execute(); err != nil {
		t.Fatalf("config init error: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("config file not written: %v", err)
	}

	c := New(&bytes.Buffer{}, LogInfo)
	c.configPath = path
	if _, err := c.loadConfig(); err != nil {
		t.Errorf("written config does not load: %v", err)
	}

	root = New(&bytes.Buffer{}, LogInfo).RootCommand()
	root.SetArgs([]string{"--config", path, "config", "init"})
	if err := root.Execute(); err == nil {
		t.Error("config init should refuse to overwrite without --force")
	}
}
