package store

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"gopkg.in/yaml.v3"

	"aegisai/aegis/pkg/policy"
)

// reloadDebounce coalesces bursts of filesystem events into one reload.
const reloadDebounce = 250 * time.Millisecond

// File is a policy store backed by a directory of YAML files, one policy
// per file. With watching enabled, edits to the directory reload the
// policy set without a restart.
type File struct {
	dir         string
	maxFileSize int64
	logger      *slog.Logger

	mu       sync.RWMutex
	policies []policy.Policy

	watcher *fsnotify.Watcher
	done    chan struct{}
	stopped chan struct{}
}

// NewFile creates a File store and performs the initial load. When the
// directory contains no policy files the built-in defaults are used.
// maxFileSize bounds individual file size in bytes; 0 means no limit.
func NewFile(dir string, maxFileSize int64) (*File, error) {
	f := &File{
		dir:         dir,
		maxFileSize: maxFileSize,
		logger:      slog.Default().With("component", "policy_store"),
	}
	if err := f.reload(); err != nil {
		return nil, err
	}
	return f, nil
}

// Watch starts reloading the policy set on filesystem changes. Call Close
// to stop the watcher.
func (f *File) Watch() error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return &policy.StoreError{Backend: "file", Op: "watch", Err: err}
	}
	if err := watcher.Add(f.dir); err != nil {
		watcher.Close()
		return &policy.StoreError{Backend: "file", Op: "watch", Err: err}
	}

	f.watcher = watcher
	f.done = make(chan struct{})
	f.stopped = make(chan struct{})
	go f.watchLoop()
	return nil
}

func (f *File) watchLoop() {
	defer close(f.stopped)

	var timer *time.Timer
	var timerC <-chan time.Time

	for {
		select {
		case <-f.done:
			return

		case event, ok := <-f.watcher.Events:
			if !ok {
				return
			}
			if !isPolicyFile(event.Name) {
				continue
			}
			// Editors fire several events per save, so debounce.
			if timer == nil {
				timer = time.NewTimer(reloadDebounce)
				timerC = timer.C
			} else {
				timer.Reset(reloadDebounce)
			}

		case <-timerC:
			timer = nil
			timerC = nil
			if err := f.reload(); err != nil {
				f.logger.Error("policy reload failed, keeping previous set", "error", err)
			} else {
				f.logger.Info("policy set reloaded", "dir", f.dir)
			}

		case err, ok := <-f.watcher.Errors:
			if !ok {
				return
			}
			f.logger.Error("policy watcher error", "error", err)
		}
	}
}

// Close stops the watcher if one is running.
func (f *File) Close() error {
	if f.watcher == nil {
		return nil
	}
	close(f.done)
	err := f.watcher.Close()
	<-f.stopped
	f.watcher = nil
	return err
}

// ListPolicies returns the loaded policies sorted by ID.
func (f *File) ListPolicies(context.Context) ([]policy.Policy, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	out := make([]policy.Policy, len(f.policies))
	copy(out, f.policies)
	return out, nil
}

// reload reads every policy file in the directory and atomically swaps the
// active set. A single invalid file fails the whole reload so a partially
// applied policy set is never served.
func (f *File) reload() error {
	entries, err := os.ReadDir(f.dir)
	if err != nil {
		return &policy.StoreError{Backend: "file", Op: "read dir", Err: err}
	}

	var loaded []policy.Policy
	seen := make(map[string]string)

	for _, entry := range entries {
		if entry.IsDir() || !isPolicyFile(entry.Name()) {
			continue
		}
		path := filepath.Join(f.dir, entry.Name())

		if f.maxFileSize > 0 {
			info, err := entry.Info()
			if err != nil {
				return &policy.StoreError{Backend: "file", Op: "stat " + entry.Name(), Err: err}
			}
			if info.Size() > f.maxFileSize {
				return &policy.StoreError{
					Backend: "file",
					Op:      "load " + entry.Name(),
					Err:     fmt.Errorf("file size %d exceeds limit %d", info.Size(), f.maxFileSize),
				}
			}
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return &policy.StoreError{Backend: "file", Op: "read " + entry.Name(), Err: err}
		}

		var p policy.Policy
		if err := yaml.Unmarshal(data, &p); err != nil {
			return &policy.StoreError{Backend: "file", Op: "parse " + entry.Name(), Err: err}
		}
		if err := p.Validate(); err != nil {
			return &policy.StoreError{Backend: "file", Op: "validate " + entry.Name(), Err: err}
		}
		if prev, dup := seen[p.ID]; dup {
			return &policy.StoreError{
				Backend: "file",
				Op:      "load " + entry.Name(),
				Err:     fmt.Errorf("duplicate policy id %q (also in %s)", p.ID, prev),
			}
		}
		seen[p.ID] = entry.Name()
		loaded = append(loaded, p)
	}

	if len(loaded) == 0 {
		f.logger.Info("no policy files found, using built-in defaults", "dir", f.dir)
		loaded = policy.DefaultPolicies()
	}

	sort.Slice(loaded, func(i, j int) bool { return loaded[i].ID < loaded[j].ID })

	f.mu.Lock()
	f.policies = loaded
	f.mu.Unlock()
	return nil
}

func isPolicyFile(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	return ext == ".yaml" || ext == ".yml"
}
