package main

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/SusanDoggie/go-bbcode/pkg/bbcode"
)

func waitFor(t *testing.T, timeout time.Duration, cond func() bool) bool {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return true
		}
		time.Sleep(20 * time.Millisecond)
	}
	return cond()
}

func TestWatchRebuildsOnChange(t *testing.T) {
	dir := t.TempDir()
	source := writeFile(t, dir, "post.bb", "[b]one[/b]")
	params := writeFile(t, dir, "params.yaml", "who: a\n")
	output := filepath.Join(dir, "post.html")

	r := &rebuilder{
		engine: bbcode.New(bbcode.WithCache(4)),
		cmd:    &cobra.Command{},
		source: source,
		params: params,
		output: output,
		mode:   bbcode.ModeHTML,
	}
	if err := r.rebuild(); err != nil {
		t.Fatalf("initial rebuild failed: %v", err)
	}

	w, err := newSourceWatcher(20*time.Millisecond, source, params)
	if err != nil {
		t.Fatalf("newSourceWatcher failed: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Watch(ctx, r.rebuild) }()

	readOutput := func() string {
		data, _ := os.ReadFile(output)
		return string(data)
	}

	if got := readOutput(); got != "<strong>one</strong>" {
		t.Fatalf("initial output = %q", got)
	}

	writeFile(t, dir, "post.bb", "[i][var=who][/i]")
	if !waitFor(t, 5*time.Second, func() bool { return readOutput() == "<i>a</i>" }) {
		t.Fatalf("source change not picked up, output = %q", readOutput())
	}

	writeFile(t, dir, "params.yaml", "who: b\n")
	if !waitFor(t, 5*time.Second, func() bool { return readOutput() == "<i>b</i>" }) {
		t.Fatalf("params change not picked up, output = %q", readOutput())
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Watch returned %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Watch did not stop after cancel")
	}
}

func TestSourceWatcherFiltersEvents(t *testing.T) {
	dir := t.TempDir()
	source := writeFile(t, dir, "post.bb", "x")

	w, err := newSourceWatcher(time.Millisecond, source)
	if err != nil {
		t.Fatalf("newSourceWatcher failed: %v", err)
	}
	defer w.watcher.Close()

	tests := []struct {
		name  string
		event fsnotify.Event
		want  bool
	}{
		{name: "write to source", event: fsnotify.Event{Name: source, Op: fsnotify.Write}, want: true},
		{name: "rename onto source", event: fsnotify.Event{Name: source, Op: fsnotify.Create}, want: true},
		{name: "chmod only", event: fsnotify.Event{Name: source, Op: fsnotify.Chmod}, want: false},
		{name: "other file", event: fsnotify.Event{Name: filepath.Join(dir, "post.html"), Op: fsnotify.Write}, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := w.shouldProcessEvent(tt.event); got != tt.want {
				t.Errorf("shouldProcessEvent(%v) = %v, want %v", tt.event, got, tt.want)
			}
		})
	}
}

func TestDebouncerCollapsesBursts(t *testing.T) {
	d := newDebouncer(50 * time.Millisecond)
	defer d.Stop()

	var calls int32
	for i := 0; i < 10; i++ {
		d.Trigger(func() { atomic.AddInt32(&calls, 1) })
		time.Sleep(5 * time.Millisecond)
	}

	time.Sleep(200 * time.Millisecond)
	if got := atomic.LoadInt32(&calls); got != 1 {
		t.Errorf("callback ran %d times, want 1", got)
	}
}

func TestDebouncerStopCancels(t *testing.T) {
	d := newDebouncer(50 * time.Millisecond)

	var calls int32
	d.Trigger(func() { atomic.AddInt32(&calls, 1) })
	d.Stop()
	d.Stop()

	time.Sleep(100 * time.Millisecond)
	if got := atomic.LoadInt32(&calls); got != 0 {
		t.Errorf("callback ran %d times after Stop, want 0", got)
	}
}

func TestWatchRequiresOutput(t *testing.T) {
	if _, err := runCommand(t, "", "watch", "post.bb"); err == nil {
		t.Error("expected an error without --output")
	}
}
