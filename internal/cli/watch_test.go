package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
)

func TestIsFileChange(t *testing.T) {
	path := filepath.Join("site", "bench.toml")
	tests := []struct {
		name string
		ev   fsnotify.Event
		want bool
	}{
		{"write", fsnotify.Event{Name: path, Op: fsnotify.Write}, true},
		{"create", fsnotify.Event{Name: path, Op: fsnotify.Create}, true},
		{"unclean name", fsnotify.Event{Name: "site/./bench.toml", Op: fsnotify.Write}, true},
		{"remove", fsnotify.Event{Name: path, Op: fsnotify.Remove}, false},
		{"chmod", fsnotify.Event{Name: path, Op: fsnotify.Chmod}, false},
		{"sibling", fsnotify.Event{Name: filepath.Join("site", "bench.svg"), Op: fsnotify.Write}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isFileChange(tt.ev, path); got != tt.want {
				t.Errorf("isFileChange(%v) = %v, want %v", tt.ev, got, tt.want)
			}
		})
	}
}

func TestWatchFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bench.toml")
	if err := os.WriteFile(path, []byte("a"), 0o644); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	changes := make(chan struct{}, 16)
	done := make(chan error, 1)
	go func() {
		done <- watchFile(ctx, path, log.New(io.Discard), func() { changes <- struct{}{} })
	}()

	wait := func(what string) {
		t.Helper()
		select {
		case <-changes:
		case <-time.After(5 * time.Second):
			t.Fatalf("no change reported for %s", what)
		}
	}
	drain := func() {
		for {
			select {
			case <-changes:
			case <-time.After(100 * time.Millisecond):
				return
			}
		}
	}

	wait("initial load")

	t.Run("in-place write", func(t *testing.T) {
		if err := os.WriteFile(path, []byte("b"), 0o644); err != nil {
			t.Fatal(err)
		}
		wait("write")
		drain()
	})

	t.Run("rename over", func(t *testing.T) {
		tmp := filepath.Join(dir, "bench.toml.tmp")
		if err := os.WriteFile(tmp, []byte("c"), 0o644); err != nil {
			t.Fatal(err)
		}
		if err := os.Rename(tmp, path); err != nil {
			t.Fatal(err)
		}
		wait("rename")
		drain()
	})

	t.Run("sibling ignored", func(t *testing.T) {
		if err := os.WriteFile(filepath.Join(dir, "bench.svg"), []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
		select {
		case <-changes:
			t.Error("change reported for another file")
		case <-time.After(200 * time.Millisecond):
		}
	})

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("watchFile = %v, want nil", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("watchFile did not return after cancel")
	}
}
