package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/SusanDoggie/go-bbcode/pkg/bbcode"
)

var watchFlags struct {
	params   string
	output   string
	mode     string
	debounce time.Duration
}

var watchCmd = &cobra.Command{
	Use:   "watch <file>",
	Short: "Re-render a document whenever it or its parameters change",
	Long: `Render a BBCode document into an output file, then keep watching the source
and parameter files and re-render after every change.

Editors often save by writing a temporary file and renaming it over the
original, so the containing directories are watched rather than the files.
Bursts of events are collapsed with a debounce interval.

Examples:
  bbcode watch post.bb --output post.html
  bbcode watch post.bb -o post.html -p params.yaml --debounce 250ms`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)

	watchCmd.Flags().StringVarP(&watchFlags.params, "params", "p", "", "YAML or JSON parameter file")
	watchCmd.Flags().StringVarP(&watchFlags.output, "output", "o", "", "output file (required)")
	watchCmd.Flags().StringVar(&watchFlags.mode, "mode", bbcode.ModeHTML, "output mode: html, nodes")
	watchCmd.Flags().DurationVar(&watchFlags.debounce, "debounce", 100*time.Millisecond, "quiet period before re-rendering")
}

func runWatch(cmd *cobra.Command, args []string) error {
	if watchFlags.output == "" || watchFlags.output == "-" {
		return fmt.Errorf("--output must name a file")
	}

	r := &rebuilder{
		engine: bbcode.New(),
		cmd:    cmd,
		source: args[0],
		params: watchFlags.params,
		output: watchFlags.output,
		mode:   watchFlags.mode,
	}
	if err := r.rebuild(); err != nil {
		return err
	}

	paths := []string{r.source}
	if r.params != "" {
		paths = append(paths, r.params)
	}
	w, err := newSourceWatcher(watchFlags.debounce, paths...)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return w.Watch(ctx, r.rebuild)
}

// rebuilder renders one source file into one output file.
type rebuilder struct {
	engine *bbcode.Engine
	cmd    *cobra.Command
	source string
	params string
	output string
	mode   string
}

func (r *rebuilder) rebuild() error {
	source, err := readSource(r.cmd, r.source)
	if err != nil {
		return err
	}
	params, err := loadParams(r.params)
	if err != nil {
		return err
	}
	out, err := renderDocument(r.engine, r.engine.Parse(source), params, r.mode)
	if err != nil {
		return err
	}
	if err := writeOutput(r.cmd, r.output, out); err != nil {
		return err
	}

	bbcode.WithFields(bbcode.Fields{
		"source": r.source,
		"output": r.output,
		"bytes":  len(out),
	}).Info("Rendered document")
	return nil
}

// sourceWatcher reports changes to a fixed set of files.
type sourceWatcher struct {
	watcher  *fsnotify.Watcher
	files    map[string]bool
	debounce *debouncer
	logger   *bbcode.Logger
}

// newSourceWatcher starts watching the directories holding paths. Events
// arriving before Watch is called are queued, not lost.
func newSourceWatcher(interval time.Duration, paths ...string) (*sourceWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}

	w := &sourceWatcher{
		watcher:  watcher,
		files:    make(map[string]bool),
		debounce: newDebouncer(interval),
		logger:   bbcode.WithField("component", "watch"),
	}

	dirs := make(map[string]bool)
	for _, path := range paths {
		abs, err := filepath.Abs(path)
		if err != nil {
			watcher.Close()
			return nil, fmt.Errorf("failed to resolve %q: %w", path, err)
		}
		w.files[abs] = true
		dirs[filepath.Dir(abs)] = true
	}

	for dir := range dirs {
		if err := watcher.Add(dir); err != nil {
			watcher.Close()
			return nil, fmt.Errorf("failed to watch directory %q: %w", dir, err)
		}
		w.logger.Debug("Watching directory %s", dir)
	}

	return w, nil
}

// Watch blocks until ctx is cancelled, calling onChange once per burst of
// changes. Errors from onChange are logged and watching continues.
func (w *sourceWatcher) Watch(ctx context.Context, onChange func() error) error {
	defer func() {
		w.debounce.Stop()
		w.watcher.Close()
	}()

	w.logger.Info("File watcher started")

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("File watcher stopped")
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				return fmt.Errorf("watcher events channel closed")
			}
			if !w.shouldProcessEvent(event) {
				continue
			}

			w.logger.WithField("op", event.Op.String()).Debug("File event on %s", event.Name)

			w.debounce.Trigger(func() {
				if err := onChange(); err != nil {
					w.logger.Error("Re-render failed: %v", err)
				}
			})

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return fmt.Errorf("watcher errors channel closed")
			}
			w.logger.Error("File watcher error: %v", err)
		}
	}
}

func (w *sourceWatcher) shouldProcessEvent(event fsnotify.Event) bool {
	if event.Op == fsnotify.Chmod {
		return false
	}
	return w.files[filepath.Clean(event.Name)]
}

// debouncer runs the latest callback once no new trigger has arrived for the
// interval.
type debouncer struct {
	interval time.Duration
	timer    *time.Timer
	mu       sync.Mutex
	callback func()
	stopCh   chan struct{}
	stopOnce sync.Once
}

func newDebouncer(interval time.Duration) *debouncer {
	return &debouncer{
		interval: interval,
		stopCh:   make(chan struct{}),
	}
}

func (d *debouncer) Trigger(callback func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.callback = callback

	if d.timer != nil {
		d.timer.Stop()
	}

	d.timer = time.AfterFunc(d.interval, func() {
		select {
		case <-d.stopCh:
			return
		default:
			d.mu.Lock()
			cb := d.callback
			d.mu.Unlock()

			if cb != nil {
				cb()
			}
		}
	})
}

// Stop cancels any pending callback.
func (d *debouncer) Stop() {
	d.stopOnce.Do(func() { close(d.stopCh) })

	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.callback = nil
}
