package script

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/afero"
)

const scriptExtension = ".tengo"

// Engine loads moderation filter scripts from a directory and executes them
// on demand. Scripts are hot-reloaded when the directory changes.
type Engine struct {
	fs  afero.Fs
	dir string

	maxExecutionTime time.Duration

	mu      sync.RWMutex
	scripts map[string]*Script
}

// NewEngine creates an engine reading scripts from dir on the given
// filesystem. Tests pass an afero.MemMapFs.
func NewEngine(fs afero.Fs, dir string) *Engine {
	return &Engine{
		fs:               fs,
		dir:              dir,
		maxExecutionTime: 5 * time.Second,
		scripts:          make(map[string]*Script),
	}
}

// Load discovers and loads every *.tengo file in the script directory,
// replacing the current script set.
func (e *Engine) Load() error {
	entries, err := afero.ReadDir(e.fs, e.dir)
	if err != nil {
		return fmt.Errorf("failed to read script directory %s: %w", e.dir, err)
	}

	scripts := make(map[string]*Script)
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), scriptExtension) {
			continue
		}

		content, err := afero.ReadFile(e.fs, filepath.Join(e.dir, entry.Name()))
		if err != nil {
			return fmt.Errorf("failed to read script %s: %w", entry.Name(), err)
		}

		name := strings.TrimSuffix(entry.Name(), scriptExtension)
		scripts[name] = &Script{Name: name, Content: string(content)}
	}

	e.mu.Lock()
	e.scripts = scripts
	e.mu.Unlock()

	slog.Info("Loaded moderation filter scripts", "dir", e.dir, "count", len(scripts))
	return nil
}

// Get retrieves a loaded script by name.
func (e *Engine) Get(name string) (*Script, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	s, ok := e.scripts[name]
	return s, ok
}

// Names returns the loaded script names, sorted.
func (e *Engine) Names() []string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	names := make([]string, 0, len(e.scripts))
	for name := range e.scripts {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Watch monitors the script directory and reloads the script set on any
// change. It returns once the watcher is running; the watch loop stops when
// the context is canceled. Watching only works on a real filesystem.
func (e *Engine) Watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create script watcher: %w", err)
	}
	if err := watcher.Add(e.dir); err != nil {
		watcher.Close()
		return fmt.Errorf("failed to watch script directory %s: %w", e.dir, err)
	}

	go func() {
		defer watcher.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
					continue
				}
				slog.Info("Script directory changed, reloading", "event", event.String())
				if err := e.Load(); err != nil {
					slog.Error("Failed to reload scripts", "error", err)
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				slog.Error("Script watcher error", "error", err)
			}
		}
	}()

	return nil
}
