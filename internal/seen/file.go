package seen

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

// FileStore persists the seen set as a JSON array of ids.
type FileStore struct {
	path   string
	logger *zap.Logger
}

func NewFileStore(path string, logger *zap.Logger) *FileStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FileStore{path: path, logger: logger}
}

// Load reads the persisted set. A missing, empty, or unparsable file is
// reported as an empty set, never as an error.
func (f *FileStore) Load(_ context.Context) (Set, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			f.logger.Warn("seen set unreadable, starting from empty",
				zap.String("path", f.path),
				zap.Error(err),
			)
		}
		return NewSet(), nil
	}

	if strings.TrimSpace(string(data)) == "" {
		return NewSet(), nil
	}

	var ids []string
	if err := json.Unmarshal(data, &ids); err != nil {
		f.logger.Warn("seen set corrupted, starting from empty",
			zap.String("path", f.path),
			zap.Error(err),
		)
		return NewSet(), nil
	}

	return NewSet(ids...), nil
}

// Save writes the full set to a temp file in the target directory and
// renames it into place, so a crash mid-write never corrupts the next Load.
func (f *FileStore) Save(_ context.Context, s Set) error {
	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create seen set directory: %w", err)
	}

	data, err := json.Marshal(s.IDs())
	if err != nil {
		return fmt.Errorf("marshal seen set: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".seen-*.json")
	if err != nil {
		return fmt.Errorf("create temp seen set file: %w", err)
	}

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write seen set: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("close seen set file: %w", err)
	}

	if err := os.Rename(tmp.Name(), f.path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("replace seen set file: %w", err)
	}

	return nil
}

// Reset removes the stored set entirely.
func (f *FileStore) Reset(_ context.Context) error {
	if err := os.Remove(f.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove seen set file: %w", err)
	}
	return nil
}
