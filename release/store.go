package release

import "context"

// AssetStore is the remote slot store holding one archive and one metadata
// record per tag. The production implementation drives the gh CLI; tests
// use MemoryStore.
type AssetStore interface {
	// Preflight verifies the store's external collaborators are usable.
	// It must run before any side effect.
	Preflight() error

	// TagExists reports whether the tag already holds a release.
	TagExists(ctx context.Context, tag string) (bool, error)

	// CreateDraft creates the tag as a draft release with the given title,
	// notes and initial assets.
	CreateDraft(ctx context.Context, tag, title, notes string, assetPaths []string) error

	// UploadAssets uploads assets to an existing tag with overwrite semantics.
	UploadAssets(ctx context.Context, tag string, assetPaths []string) error

	// DeleteAsset removes a named asset from a tag. Callers treat a missing
	// asset as best-effort, not an error.
	DeleteAsset(ctx context.Context, tag, name string) error

	// DownloadAsset fetches a named asset into destDir.
	DownloadAsset(ctx context.Context, tag, name, destDir string) error
}
