package tile

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/matzehuels/hexglobe/pkg/errors"
)

// FileStore keeps one JSON file per tile under baseDir/namespace.
type FileStore struct {
	mu  sync.RWMutex
	dir string
}

// NewFileStore creates a file-based tile store.
// If baseDir is empty, defaults to ~/.local/share/hexglobe/tiles.
func NewFileStore(baseDir, namespace string) (*FileStore, error) {
	if baseDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("get home dir: %w", err)
		}
		baseDir = filepath.Join(home, ".local", "share", "hexglobe", "tiles")
	}
	if namespace == "" {
		namespace = DefaultNamespace
	}
	if err := errors.ValidateCellID(namespace); err != nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "invalid namespace %q", namespace)
	}
	dir := filepath.Join(baseDir, namespace)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create tile dir: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

func (s *FileStore) tilePath(id string) (string, error) {
	if err := errors.ValidateCellID(id); err != nil {
		return "", err
	}
	return filepath.Join(s.dir, id+".json"), nil
}

func (s *FileStore) Get(ctx context.Context, id string) (*Tile, error) {
	path, err := s.tilePath(id)
	if err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read tile file: %w", err)
	}

	t := New(id)
	if err := json.Unmarshal(data, t); err != nil {
		return nil, fmt.Errorf("parse tile %s: %w", id, err)
	}
	return t, nil
}

func (s *FileStore) Put(ctx context.Context, t *Tile) error {
	path, err := s.tilePath(t.ID)
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(t, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal tile: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("write tile file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("write tile file: %w", err)
	}
	return nil
}

func (s *FileStore) Delete(ctx context.Context, id string) error {
	path, err := s.tilePath(id)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove tile file: %w", err)
	}
	return nil
}

func (s *FileStore) Close() error { return nil }

// Path returns the directory holding this namespace's tiles.
func (s *FileStore) Path() string {
	return s.dir
}

var _ Store = (*FileStore)(nil)
