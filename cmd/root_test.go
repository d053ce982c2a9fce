package cmd

import (
	"os"
	"strings"
	"testing"

	"github.com/spf13/viper"

	"github.com/va2bbw/qle/pkg/config"
)

func TestResolveSourcePathPrefersArgument(t *testing.T) {
	tmpDir := t.TempDir()
	oldXDG := os.Getenv("XDG_CONFIG_HOME")
	defer os.Setenv("XDG_CONFIG_HOME", oldXDG)
	os.Setenv("XDG_CONFIG_HOME", tmpDir)

	got, err := resolveSourcePath([]string{"/logs/contest.qle"})
	if err != nil {
		t.Fatalf("resolveSourcePath failed: %v", err)
	}
	if got != "/logs/contest.qle" {
		t.Errorf("Expected /logs/contest.qle, got %s", got)
	}
}

func TestResolveSourcePathUsesViperKey(t *testing.T) {
	tmpDir := t.TempDir()
	oldXDG := os.Getenv("XDG_CONFIG_HOME")
	defer os.Setenv("XDG_CONFIG_HOME", oldXDG)
	os.Setenv("XDG_CONFIG_HOME", tmpDir)

	viper.Set("log.file", "/logs/main.qle")
	defer viper.Set("log.file", "")

	got, err := resolveSourcePath(nil)
	if err != nil {
		t.Fatalf("resolveSourcePath failed: %v", err)
	}
	if got != "/logs/main.qle" {
		t.Errorf("Expected /logs/main.qle, got %s", got)
	}
}

func TestResolveSourcePathFallsBackToState(t *testing.T) {
	tmpDir := t.TempDir()
	oldXDG := os.Getenv("XDG_CONFIG_HOME")
	defer os.Setenv("XDG_CONFIG_HOME", oldXDG)
	os.Setenv("XDG_CONFIG_HOME", tmpDir)

	state, err := config.LoadState()
	if err != nil {
		t.Fatalf("LoadState failed: %v", err)
	}
	state.LastLogFile = "/logs/recent.qle"
	if err := config.SaveState(state); err != nil {
		t.Fatalf("SaveState failed: %v", err)
	}

	got, err := resolveSourcePath(nil)
	if err != nil {
		t.Fatalf("resolveSourcePath failed: %v", err)
	}
	if got != "/logs/recent.qle" {
		t.Errorf("Expected /logs/recent.qle, got %s", got)
	}
}

func TestResolveSourcePathErrorsWhenNothingConfigured(t *testing.T) {
	tmpDir := t.TempDir()
	oldXDG := os.Getenv("XDG_CONFIG_HOME")
	defer os.Setenv("XDG_CONFIG_HOME", oldXDG)
	os.Setenv("XDG_CONFIG_HOME", tmpDir)

	_, err := resolveSourcePath(nil)
	if err == nil {
		t.Fatal("Expected an error with nothing configured")
	}
	if !strings.Contains(err.Error(), "qle demo") {
		t.Errorf("Expected the error to suggest 'qle demo', got: %v", err)
	}
}
