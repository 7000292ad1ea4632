package handoff

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/grovetools/handoff/archive"
	"github.com/grovetools/handoff/config"
	"github.com/grovetools/handoff/errors"
	"github.com/grovetools/handoff/logging"
	"github.com/grovetools/handoff/release"
	"github.com/grovetools/handoff/session"
	"github.com/grovetools/handoff/util/pathutil"
	"github.com/sirupsen/logrus"
)

// Restorer downloads a branch's published session and lands it in the
// local log store, rewriting path references for the current environment.
type Restorer struct {
	cfg      *config.Config
	store    session.Store
	assets   release.AssetStore
	archiver archive.Archiver
	log      *logrus.Entry
}

// RestoreResult reports what a restore run did.
type RestoreResult struct {
	// SessionID may be empty when the metadata asset was missing or
	// unusable; restoration still proceeds from the archive alone.
	SessionID string
	Tag       string

	// Restored is false for the graceful no-op when the tag does not exist.
	Restored bool

	// DestDir is the directory the log was extracted into.
	DestDir string

	// LogPath is the restored log file, when it could be identified.
	LogPath string

	// Rewritten counts path-literal replacements applied to the log.
	Rewritten int
}

// NewRestorer wires a restorer over its collaborators
func NewRestorer(cfg *config.Config, store session.Store, assets release.AssetStore, archiver archive.Archiver) *Restorer {
	return &Restorer{
		cfg:      cfg,
		store:    store,
		assets:   assets,
		archiver: archiver,
		log:      logging.NewLogger("restorer"),
	}
}

// Restore fetches the branch's archive+metadata pair and extracts the log
// into the store directory for cwd (or destOverride when non-empty). A
// missing tag is a successful no-op; a failed archive download is fatal.
// The scratch directory is removed on every control-flow path.
func (r *Restorer) Restore(ctx context.Context, cwd, branch, destOverride string) (RestoreResult, error) {
	// Precondition check before any side effect
	if err := r.assets.Preflight(); err != nil {
		return RestoreResult{}, err
	}

	tag := r.cfg.TagPrefix + branch

	exists, err := r.assets.TagExists(ctx, tag)
	if err != nil {
		return RestoreResult{}, err
	}
	if !exists {
		r.log.WithField("tag", tag).Warn("No published session for branch, nothing to restore")
		return RestoreResult{Tag: tag}, nil
	}

	scratch := filepath.Join(r.cfg.ScratchDir, "handoff-restore-"+uuid.NewString())
	if err := os.MkdirAll(scratch, 0o755); err != nil {
		return RestoreResult{}, errors.Wrap(err, errors.ErrCodeInternal, "failed to create scratch directory").
			WithDetail("path", scratch)
	}
	defer os.RemoveAll(scratch)

	// The archive is required
	if err := r.assets.DownloadAsset(ctx, tag, r.cfg.ArchiveName, scratch); err != nil {
		return RestoreResult{}, err
	}
	archivePath := filepath.Join(scratch, r.cfg.ArchiveName)
	if _, err := os.Stat(archivePath); err != nil {
		// The download tool reported success but produced no file
		return RestoreResult{}, errors.DownloadFailed(tag, r.cfg.ArchiveName, err)
	}

	// The metadata record is best-effort; without it the session id stays
	// empty and no path rewriting happens.
	sessionID, originalCwd := r.fetchMetadata(ctx, tag, scratch)

	destDir := destOverride
	if destDir == "" {
		destDir = filepath.Join(r.store.Root(), pathutil.Munge(cwd))
	}
	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return RestoreResult{}, errors.Wrap(err, errors.ErrCodeInternal, "failed to create destination directory").
			WithDetail("path", destDir)
	}

	extracted, err := r.archiver.Unpack(archivePath, destDir)
	if err != nil {
		return RestoreResult{}, err
	}

	result := RestoreResult{SessionID: sessionID, Tag: tag, Restored: true, DestDir: destDir}
	result.LogPath = r.findRestoredLog(destDir, sessionID, extracted)
	if result.SessionID == "" && result.LogPath != "" {
		result.SessionID = strings.TrimSuffix(filepath.Base(result.LogPath), session.LogExt)
	}

	if result.LogPath != "" && originalCwd != "" && originalCwd != cwd {
		count, err := session.RewritePaths(result.LogPath, originalCwd, cwd)
		if err != nil {
			return RestoreResult{}, err
		}
		result.Rewritten = count
		r.log.WithFields(logrus.Fields{
			"from":        originalCwd,
			"to":          cwd,
			"occurrences": count,
		}).Info("Rewrote working-directory references")
	}

	r.log.WithFields(logrus.Fields{
		"tag":       tag,
		"sessionId": result.SessionID,
		"dest":      destDir,
	}).Info("Restored session")
	return result, nil
}

// fetchMetadata downloads and reads the metadata record, degrading from
// schema-validated JSON to a plain text scrape, and to nothing at all when
// the asset is missing.
func (r *Restorer) fetchMetadata(ctx context.Context, tag, scratch string) (sessionID, originalCwd string) {
	if err := r.assets.DownloadAsset(ctx, tag, r.cfg.MetadataName, scratch); err != nil {
		r.log.WithError(err).Warn("Metadata asset missing, restoring from archive alone")
		return "", ""
	}

	data, err := os.ReadFile(filepath.Join(scratch, r.cfg.MetadataName))
	if err != nil {
		r.log.WithError(err).Warn("Metadata asset unreadable, restoring from archive alone")
		return "", ""
	}

	record, err := session.ParseRecord(data)
	if err == nil {
		return record.SessionID, record.Cwd
	}

	r.log.WithError(err).Debug("Metadata failed validation, falling back to text scan")
	return session.ScrapeRecordFields(data)
}

// findRestoredLog identifies the restored log file among the extracted
// entries, preferring the metadata's session id.
func (r *Restorer) findRestoredLog(destDir, sessionID string, extracted []string) string {
	if sessionID != "" {
		candidate := filepath.Join(destDir, sessionID+session.LogExt)
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}

	for _, name := range extracted {
		if strings.HasSuffix(name, session.LogExt) {
			return filepath.Join(destDir, name)
		}
	}
	return ""
}
