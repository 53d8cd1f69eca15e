package pages

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"sync"

	"github.com/goliatone/go-sitegen/internal/logging"
	"github.com/goliatone/go-sitegen/pkg/interfaces"
)

//go:embed defaults/*.html
var defaultFragments embed.FS

const fragmentExt = ".html"

// DefaultFragments exposes the built-in fragment set rooted at its
// directory.
func DefaultFragments() fs.FS {
	sub, err := fs.Sub(defaultFragments, "defaults")
	if err != nil {
		panic(err)
	}
	return sub
}

// FragmentSource resolves fragment templates by name.
type FragmentSource interface {
	Fragment(name string) (string, bool, error)
}

// FragmentStoreOption configures a FragmentStore.
type FragmentStoreOption func(*FragmentStore)

// WithFallback sets the filesystem consulted when a fragment is missing
// from the primary directory. Pass nil to disable fallbacks.
func WithFallback(fallback fs.FS) FragmentStoreOption {
	return func(s *FragmentStore) {
		s.fallback = fallback
	}
}

// WithFragmentLogger sets the logger.
func WithFragmentLogger(logger interfaces.Logger) FragmentStoreOption {
	return func(s *FragmentStore) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// FragmentStore reads "<name>.html" from a templates directory, falling back
// to the embedded defaults. Results are cached for the life of the store.
type FragmentStore struct {
	primary  fs.FS
	fallback fs.FS
	logger   interfaces.Logger

	mu    sync.RWMutex
	cache map[string]string
}

// NewFragmentStore builds a store over primary, which may be nil.
func NewFragmentStore(primary fs.FS, opts ...FragmentStoreOption) *FragmentStore {
	store := &FragmentStore{
		primary:  primary,
		fallback: DefaultFragments(),
		logger:   logging.NoOp(),
		cache:    map[string]string{},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(store)
		}
	}
	return store
}

// Fragment returns the named fragment. A fragment present in neither
// filesystem reports false without an error.
func (s *FragmentStore) Fragment(name string) (string, bool, error) {
	name = strings.TrimSpace(name)
	if name == "" || !fs.ValidPath(name+fragmentExt) {
		return "", false, fmt.Errorf("pages: invalid fragment name %q", name)
	}

	s.mu.RLock()
	cached, ok := s.cache[name]
	s.mu.RUnlock()
	if ok {
		return cached, true, nil
	}

	for _, source := range []fs.FS{s.primary, s.fallback} {
		if source == nil {
			continue
		}
		data, err := fs.ReadFile(source, name+fragmentExt)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return "", false, fmt.Errorf("pages: read fragment %s: %w", name, err)
		}

		s.mu.Lock()
		s.cache[name] = string(data)
		s.mu.Unlock()
		s.logger.Debug("pages.fragment.loaded", "fragment", name, "bytes", len(data))
		return string(data), true, nil
	}

	s.logger.Warn("pages.fragment.missing", "fragment", name)
	return "", false, nil
}

// MissingFragment is the placeholder rendered for an unknown fragment.
func MissingFragment(name string) string {
	return fmt.Sprintf("<!-- Component %s not found -->", name)
}
