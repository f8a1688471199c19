package profile

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"strings"

	"go.uber.org/zap"
)

// Provider supplies the current candidate profile text. The upload and
// text-extraction machinery lives outside this module; from the pipeline's
// point of view a profile is just text, possibly empty.
type Provider interface {
	ProfileText(ctx context.Context) (string, error)
}

// FileProvider reads the profile text from a plain text file, typically
// produced by the document processing collaborator.
type FileProvider struct {
	path   string
	logger *zap.Logger
}

func NewFileProvider(path string, logger *zap.Logger) *FileProvider {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FileProvider{path: path, logger: logger}
}

// ProfileText returns the file contents, or an empty string when the file
// is absent. A missing profile disables scoring but never fails a cycle.
func (f *FileProvider) ProfileText(_ context.Context) (string, error) {
	if f.path == "" {
		return "", nil
	}

	data, err := os.ReadFile(f.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", nil
		}
		return "", err
	}

	return strings.TrimSpace(string(data)), nil
}

// Refresh pulls the provider's current text into the store, swapping in a
// fresh snapshot. Called at cycle boundaries so a mid-cycle profile change
// applies starting next cycle.
func Refresh(ctx context.Context, store *Store, provider Provider, logger *zap.Logger) *Snapshot {
	if logger == nil {
		logger = zap.NewNop()
	}

	text, err := provider.ProfileText(ctx)
	if err != nil {
		logger.Warn("profile refresh failed, keeping previous snapshot", zap.Error(err))
		return store.Current()
	}

	current := store.Current()
	if current != nil && current.Text == text {
		return current
	}

	return store.Update(text)
}
