package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/smazurov/inkbadge/internal/logging"
)

func startWatcher(t *testing.T, path string, debounce time.Duration, opts ...WatcherOption[logging.Config]) *Watcher[logging.Config] {
	t.Helper()
	opts = append([]WatcherOption[logging.Config]{WithDebounce[logging.Config](debounce)}, opts...)
	w := NewConfigWatcher(path, LoadLogging, logging.Nop(), opts...)
	if err := w.Start(); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		if err := w.Stop(); err != nil {
			t.Errorf("watcher.Stop failed: %v", err)
		}
	})
	// Wait for watcher to initialize
	time.Sleep(100 * time.Millisecond)
	return w
}

func TestConfigWatcher_BasicReload(t *testing.T) {
	path := writeConfig(t, "[logging]\nlevel = \"info\"\n")

	received := make(chan logging.Config, 1)
	w := startWatcher(t, path, 50*time.Millisecond)
	w.OnReload(func(cfg logging.Config) { received <- cfg })

	if err := os.WriteFile(path, []byte("[logging]\nlevel = \"debug\"\ncycle = \"warn\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	select {
	case cfg := <-received:
		if cfg.Level != "debug" || cfg.Modules["cycle"] != "warn" {
			t.Errorf("got %+v, want level=debug cycle=warn", cfg)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timeout waiting for config reload")
	}
}

func TestConfigWatcher_RenameOverFile(t *testing.T) {
	path := writeConfig(t, "[logging]\nlevel = \"info\"\n")

	received := make(chan logging.Config, 1)
	w := startWatcher(t, path, 50*time.Millisecond)
	w.OnReload(func(cfg logging.Config) { received <- cfg })

	tmp := filepath.Join(filepath.Dir(path), ".inkbadge.toml.swp")
	if err := os.WriteFile(tmp, []byte("[logging]\nlevel = \"error\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.Rename(tmp, path); err != nil {
		t.Fatal(err)
	}

	select {
	case cfg := <-received:
		if cfg.Level != "error" {
			t.Errorf("level = %q, want error", cfg.Level)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timeout waiting for reload after rename")
	}
}

func TestConfigWatcher_IgnoresSiblingFiles(t *testing.T) {
	path := writeConfig(t, "[logging]\nlevel = \"info\"\n")

	var count atomic.Int32
	w := startWatcher(t, path, 50*time.Millisecond)
	w.OnReload(func(logging.Config) { count.Add(1) })

	other := filepath.Join(filepath.Dir(path), "other.toml")
	if err := os.WriteFile(other, []byte("x = 1\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	time.Sleep(300 * time.Millisecond)

	if got := count.Load(); got != 0 {
		t.Errorf("expected no reloads for sibling file, got %d", got)
	}
}

func TestConfigWatcher_Unsubscribe(t *testing.T) {
	path := writeConfig(t, "[logging]\nlevel = \"info\"\n")

	var count1, count2 atomic.Int32
	w := startWatcher(t, path, 50*time.Millisecond)
	w.OnReload(func(logging.Config) { count1.Add(1) })
	unsub2 := w.OnReload(func(logging.Config) { count2.Add(1) })

	if err := os.WriteFile(path, []byte("[logging]\nlevel = \"warn\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	time.Sleep(300 * time.Millisecond)

	unsub2()

	if err := os.WriteFile(path, []byte("[logging]\nlevel = \"debug\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	time.Sleep(300 * time.Millisecond)

	if got := count1.Load(); got != 2 {
		t.Errorf("handler1: expected 2 calls, got %d", got)
	}
	if got := count2.Load(); got != 1 {
		t.Errorf("handler2: expected 1 call, got %d", got)
	}
}

func TestConfigWatcher_ErrorHandler(t *testing.T) {
	path := writeConfig(t, "[logging]\nlevel = \"info\"\n")

	errorReceived := make(chan error, 1)
	configReceived := make(chan logging.Config, 1)
	w := startWatcher(t, path, 50*time.Millisecond,
		WithErrorHandler[logging.Config](func(err error) { errorReceived <- err }),
	)
	w.OnReload(func(cfg logging.Config) { configReceived <- cfg })

	if err := os.WriteFile(path, []byte("invalid toml [[["), 0o644); err != nil {
		t.Fatal(err)
	}

	select {
	case <-errorReceived:
	case <-configReceived:
		t.Fatal("config handler should not be called on error")
	case <-time.After(2 * time.Second):
		t.Fatal("timeout waiting for error handler")
	}
}

func TestConfigWatcher_Debounce(t *testing.T) {
	path := writeConfig(t, "[logging]\nlevel = \"info\"\n")

	var count atomic.Int32
	var last atomic.Value
	w := startWatcher(t, path, 200*time.Millisecond)
	w.OnReload(func(cfg logging.Config) {
		count.Add(1)
		last.Store(cfg.Modules["cycle"])
	})

	for i := 1; i <= 5; i++ {
		content := fmt.Sprintf("[logging]\ncycle = \"level%d\"\n", i)
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
		time.Sleep(50 * time.Millisecond)
	}
	time.Sleep(500 * time.Millisecond)

	if got := count.Load(); got != 1 {
		t.Errorf("expected 1 debounced call, got %d", got)
	}
	if got, _ := last.Load().(string); got != "level5" {
		t.Errorf("expected final value level5, got %q", got)
	}
}

func TestConfigWatcher_StartMissingDir(t *testing.T) {
	w := NewConfigWatcher(filepath.Join(t.TempDir(), "nope", "inkbadge.toml"), LoadLogging, logging.Nop())
	if err := w.Start(); err == nil {
		_ = w.Stop()
		t.Fatal("Start should fail when the config directory is missing")
	}
}
