package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog/log"

	"github.com/yasinhessnawi1/Toolkit_Backend/internal/constants"
)

// FileStateRepository stores all entity values in one JSON object file.
// Every write rewrites the file through a temporary file and a rename, so a
// reader never sees a partially written document.
type FileStateRepository struct {
	mu       sync.Mutex
	path     string
	debounce time.Duration
}

// NewFileStateRepository creates a repository backed by the file at path.
// The parent directory is created if needed; the file itself is created on
// the first write.
func NewFileStateRepository(path string) (*FileStateRepository, error) {
	if path == "" {
		return nil, errors.New("state file path is empty")
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve state file path: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(absPath), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create state directory: %w", err)
	}

	log.Info().Str("path", absPath).Msg("Using file state storage")

	return &FileStateRepository{
		path:     absPath,
		debounce: constants.FileWatchDebounce,
	}, nil
}

// Path returns the absolute path of the state file
func (r *FileStateRepository) Path() string {
	return r.path
}

// Get returns the value stored under key
func (r *FileStateRepository) Get(_ context.Context, key string) (string, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	values, err := r.readAll()
	if err != nil {
		return "", false, err
	}
	v, ok := values[key]
	return v, ok, nil
}

// Set replaces the value stored under key
func (r *FileStateRepository) Set(ctx context.Context, key, value string) error {
	return r.SetMany(ctx, map[string]string{key: value})
}

// Delete removes key
func (r *FileStateRepository) Delete(_ context.Context, key string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	values, err := r.readAll()
	if err != nil {
		return err
	}
	if _, ok := values[key]; !ok {
		return nil
	}
	delete(values, key)
	return r.writeAll(values)
}

// SetMany merges values into the document and rewrites it once
func (r *FileStateRepository) SetMany(_ context.Context, values map[string]string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, err := r.readAll()
	if err != nil {
		return err
	}
	for k, v := range values {
		current[k] = v
	}
	return r.writeAll(current)
}

// Close is a no-op; the file is not held open between calls
func (r *FileStateRepository) Close() error {
	return nil
}

// readAll loads the whole document. A missing file is an empty document;
// a document that does not parse is an error so it is never overwritten.
func (r *FileStateRepository) readAll() (map[string]string, error) {
	data, err := os.ReadFile(r.path)
	if errors.Is(err, os.ErrNotExist) {
		return make(map[string]string), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read state file: %w", err)
	}

	values := make(map[string]string)
	if len(data) == 0 {
		return values, nil
	}
	if err := json.Unmarshal(data, &values); err != nil {
		return nil, fmt.Errorf("failed to parse state file %s: %w", r.path, err)
	}
	return values, nil
}

// writeAll replaces the document atomically
func (r *FileStateRepository) writeAll(values map[string]string) error {
	data, err := json.MarshalIndent(values, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode state file: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(r.path), "."+filepath.Base(r.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temporary state file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() {
		// No-op after a successful rename.
		_ = os.Remove(tmpName)
	}()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write state file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to sync state file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close state file: %w", err)
	}
	if err := os.Chmod(tmpName, 0o600); err != nil {
		return fmt.Errorf("failed to set state file permissions: %w", err)
	}
	if err := os.Rename(tmpName, r.path); err != nil {
		return fmt.Errorf("failed to replace state file: %w", err)
	}
	return nil
}

// Watch reports modifications of the state file, including the ones made by
// this repository. Bursts of events are coalesced into one callback.
func (r *FileStateRepository) Watch(ctx context.Context, onChange func()) (func(), error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}
	// Watch the directory: the file is replaced by rename, which drops
	// watches placed on the file itself.
	if err := watcher.Add(filepath.Dir(r.path)); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("failed to watch state directory: %w", err)
	}

	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})

	go func() {
		defer close(done)
		r.watchLoop(ctx, watcher, onChange)
	}()

	log.Info().Str("path", r.path).Msg("Watching state file for external changes")

	var once sync.Once
	stop := func() {
		once.Do(func() {
			cancel()
			<-done
			if err := watcher.Close(); err != nil {
				log.Warn().Err(err).Msg("Failed to close file watcher")
			}
		})
	}
	return stop, nil
}

func (r *FileStateRepository) watchLoop(ctx context.Context, watcher *fsnotify.Watcher, onChange func()) {
	var (
		timer  *time.Timer
		timerC <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != r.path {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
				!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(r.debounce)
			} else {
				timer.Reset(r.debounce)
			}
			timerC = timer.C

		case <-timerC:
			timerC = nil
			log.Debug().Str("path", r.path).Msg("State file changed")
			onChange()

		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			log.Warn().Err(err).Str("path", r.path).Msg("File watcher error")
		}
	}
}
