package release

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/grovetools/handoff/errors"
)

// MemoryStore is an in-memory AssetStore for tests. It mirrors the remote
// slot semantics: one release per tag, assets keyed by name.
type MemoryStore struct {
	mu       sync.Mutex
	releases map[string]*memoryRelease

	// Failure injection for error-path tests
	FailUpload   bool
	FailDownload bool
}

type memoryRelease struct {
	draft  bool
	title  string
	notes  string
	assets map[string][]byte
}

// Ensure it implements the interface
var _ AssetStore = (*MemoryStore)(nil)

// NewMemoryStore creates an empty in-memory asset store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{releases: make(map[string]*memoryRelease)}
}

// Preflight always succeeds; there is no external collaborator
func (s *MemoryStore) Preflight() error {
	return nil
}

// TagExists reports whether the tag holds a release
func (s *MemoryStore) TagExists(ctx context.Context, tag string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.releases[tag]
	return ok, nil
}

// CreateDraft stores a new draft release with the given assets
func (s *MemoryStore) CreateDraft(ctx context.Context, tag, title, notes string, assetPaths []string) error {
	if s.FailUpload {
		return errors.UploadFailed(tag, fmt.Errorf("injected upload failure"))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.releases[tag]; ok {
		return errors.UploadFailed(tag, fmt.Errorf("release already exists"))
	}

	rel := &memoryRelease{draft: true, title: title, notes: notes, assets: make(map[string][]byte)}
	for _, p := range assetPaths {
		data, err := os.ReadFile(p)
		if err != nil {
			return errors.UploadFailed(tag, err)
		}
		rel.assets[filepath.Base(p)] = data
	}
	s.releases[tag] = rel
	return nil
}

// UploadAssets overwrites same-named assets on an existing tag
func (s *MemoryStore) UploadAssets(ctx context.Context, tag string, assetPaths []string) error {
	if s.FailUpload {
		return errors.UploadFailed(tag, fmt.Errorf("injected upload failure"))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	rel, ok := s.releases[tag]
	if !ok {
		return errors.UploadFailed(tag, fmt.Errorf("release does not exist"))
	}
	for _, p := range assetPaths {
		data, err := os.ReadFile(p)
		if err != nil {
			return errors.UploadFailed(tag, err)
		}
		rel.assets[filepath.Base(p)] = data
	}
	return nil
}

// DeleteAsset removes an asset; a missing asset is an error so callers can
// exercise their best-effort handling.
func (s *MemoryStore) DeleteAsset(ctx context.Context, tag, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rel, ok := s.releases[tag]
	if !ok {
		return errors.TagNotFound(tag)
	}
	if _, ok := rel.assets[name]; !ok {
		return errors.New(errors.ErrCodeCommandFailed, fmt.Sprintf("asset '%s' not found", name))
	}
	delete(rel.assets, name)
	return nil
}

// DownloadAsset writes the named asset into destDir
func (s *MemoryStore) DownloadAsset(ctx context.Context, tag, name, destDir string) error {
	if s.FailDownload {
		return errors.DownloadFailed(tag, name, fmt.Errorf("injected download failure"))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	rel, ok := s.releases[tag]
	if !ok {
		return errors.DownloadFailed(tag, name, fmt.Errorf("release does not exist"))
	}
	data, ok := rel.assets[name]
	if !ok {
		return errors.DownloadFailed(tag, name, fmt.Errorf("asset not found"))
	}

	return os.WriteFile(filepath.Join(destDir, name), data, 0o644)
}

// Assets returns the asset names currently held by a tag, for assertions
func (s *MemoryStore) Assets(tag string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	rel, ok := s.releases[tag]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(rel.assets))
	for name := range rel.assets {
		names = append(names, name)
	}
	return names
}

// Asset returns the stored bytes of one asset, for assertions
func (s *MemoryStore) Asset(tag, name string) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rel, ok := s.releases[tag]
	if !ok {
		return nil, false
	}
	data, ok := rel.assets[name]
	return data, ok
}

// IsDraft reports whether the tag's release is a draft, for assertions
func (s *MemoryStore) IsDraft(tag string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	rel, ok := s.releases[tag]
	return ok && rel.draft
}

// Notes returns the release description, for assertions
func (s *MemoryStore) Notes(tag string) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	if rel, ok := s.releases[tag]; ok {
		return rel.notes
	}
	return ""
}
