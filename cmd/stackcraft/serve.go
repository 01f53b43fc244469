package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/stackcraft/stackcraft"
)

const (
	rebuildDebounce = 500 * time.Millisecond
	shutdownTimeout = 10 * time.Second
)

func (c *cli) newServeCmd() *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the site and regenerate feeds when files change",
		Long: `The serve command generates sitemap.xml and rss.xml into the output
directory, starts the HTTP server, and watches the static directory (and the
--content directory when given) so that content is reloaded and the feeds are
regenerated after every change.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr != "" {
				c.cfg.Addr = addr
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return c.runServe(ctx)
		},
	}
	cmd.Flags().StringVarP(&addr, "addr", "a", "", "listen address (default is addr from config)")
	return cmd
}

func (c *cli) runServe(ctx context.Context) error {
	reg, err := c.loadContent()
	if err != nil {
		return fmt.Errorf("load content: %w", err)
	}

	opts := []stackcraft.Option{stackcraft.WithLogger(c.logger)}
	if c.contentDir != "" {
		opts = append(opts, stackcraft.WithContentLoader(c.loadContent, 0))
	}
	app := stackcraft.New(c.cfg, reg, opts...)
	defer app.Close()

	if err := os.MkdirAll(c.cfg.OutputDir, 0o755); err != nil {
		return fmt.Errorf("create output directory %s: %w", c.cfg.OutputDir, err)
	}
	gen := app.Generator(c.cfg.OutputDir)
	gen.Generate()

	w, err := newWatcher(c.logger, rebuildDebounce, func() {
		app.Content.Invalidate()
		gen.Generate()
	})
	if err != nil {
		return err
	}
	defer w.Close()
	for _, dir := range []string{c.cfg.StaticDir, c.contentDir} {
		if dir != "" {
			w.AddTree(dir)
		}
	}

	errc := make(chan error, 1)
	go func() { errc <- app.Start() }()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	c.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := app.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return <-errc
}

// watcher runs onChange once the watched trees have been quiet for the
// debounce interval.
type watcher struct {
	fsw      *fsnotify.Watcher
	logger   *slog.Logger
	debounce time.Duration
	onChange func()

	mu    sync.Mutex
	timer *time.Timer
	done  chan struct{}
}

func newWatcher(logger *slog.Logger, debounce time.Duration, onChange func()) (*watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create file watcher: %w", err)
	}
	w := &watcher{fsw: fsw, logger: logger, debounce: debounce, onChange: onChange, done: make(chan struct{})}
	go w.loop()
	return w, nil
}

// AddTree watches root and every directory below it. A missing root is
// logged and skipped.
func (w *watcher) AddTree(root string) {
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if err := w.fsw.Add(path); err != nil {
				w.logger.Warn("watch directory", "path", path, "error", err)
			}
		}
		return nil
	})
	switch {
	case errors.Is(err, fs.ErrNotExist):
		w.logger.Info("directory not found, not watching", "path", root)
	case err != nil:
		w.logger.Warn("walk directory", "path", root, "error", err)
	}
}

func (w *watcher) loop() {
	defer close(w.done)
	for {
		select {
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Remove) && !ev.Has(fsnotify.Rename) {
				continue
			}
			if ev.Has(fsnotify.Create) {
				if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
					w.AddTree(ev.Name)
				}
			}
			w.schedule(ev.Name)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.logger.Warn("file watcher", "error", err)
		}
	}
}

func (w *watcher) schedule(name string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, func() {
		w.logger.Info("change detected, regenerating", "path", name)
		w.onChange()
	})
}

// Close stops watching and cancels a pending regeneration.
func (w *watcher) Close() error {
	err := w.fsw.Close()
	<-w.done
	w.mu.Lock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.mu.Unlock()
	return err
}
