package handoff

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/grovetools/handoff/archive"
	"github.com/grovetools/handoff/config"
	"github.com/grovetools/handoff/errors"
	"github.com/grovetools/handoff/logging"
	"github.com/grovetools/handoff/release"
	"github.com/grovetools/handoff/session"
	"github.com/grovetools/handoff/state"
	"github.com/sirupsen/logrus"
)

// Publisher packages the current session log and upserts it under the
// branch's remote tag.
type Publisher struct {
	cfg      *config.Config
	store    session.Store
	assets   release.AssetStore
	archiver archive.Archiver
	log      *logrus.Entry

	// now is swappable for deterministic timestamps in tests
	now func() time.Time
}

// PublishResult reports what a publish run did.
type PublishResult struct {
	SessionID string
	Tag       string

	// Published is false for the graceful no-op when no session matches.
	Published bool

	// DryRun marks a run that stopped short of touching the remote.
	DryRun bool
}

// NewPublisher wires a publisher over its collaborators
func NewPublisher(cfg *config.Config, store session.Store, assets release.AssetStore, archiver archive.Archiver) *Publisher {
	return &Publisher{
		cfg:      cfg,
		store:    store,
		assets:   assets,
		archiver: archiver,
		log:      logging.NewLogger("publisher"),
		now:      time.Now,
	}
}

// Publish locates the newest session for cwd+branch and publishes it.
// Having nothing to publish is a successful no-op so upstream automation
// stays non-fatal; genuine packaging or transfer failures propagate.
func (p *Publisher) Publish(ctx context.Context, cwd, branch string, dryRun bool) (PublishResult, error) {
	// Precondition check before any side effect
	if err := p.assets.Preflight(); err != nil {
		return PublishResult{}, err
	}

	tag := p.cfg.TagPrefix + branch

	locator := session.NewLocator(p.store)
	located, err := locator.Locate(ctx, cwd, branch)
	if err != nil {
		if errors.Is(err, errors.ErrCodeSessionNotFound) {
			p.log.WithFields(logrus.Fields{"cwd": cwd, "branch": branch}).
				Warn("No matching session, nothing to publish")
			return PublishResult{Tag: tag}, nil
		}
		return PublishResult{}, err
	}

	// Re-resolve the id defensively; the log may have vanished between
	// discovery and packaging.
	logPath, err := p.store.Resolve(ctx, located.SessionID)
	if err != nil {
		return PublishResult{}, err
	}

	staging, err := p.makeStaging()
	if err != nil {
		return PublishResult{}, err
	}
	defer os.RemoveAll(staging)

	archivePath := filepath.Join(staging, p.cfg.ArchiveName)
	if err := p.archiver.Pack(logPath, archivePath); err != nil {
		return PublishResult{}, err
	}

	publishedAt := p.now()
	record := session.NewRecord(located.SessionID, branch, cwd, p.cfg.ArchiveName, publishedAt)
	recordData, err := record.Marshal()
	if err != nil {
		return PublishResult{}, err
	}

	metadataPath := filepath.Join(staging, p.cfg.MetadataName)
	if err := os.WriteFile(metadataPath, recordData, 0o644); err != nil {
		return PublishResult{}, errors.Wrap(err, errors.ErrCodeInternal, "failed to write metadata record")
	}

	result := PublishResult{SessionID: located.SessionID, Tag: tag, Published: true, DryRun: dryRun}
	if dryRun {
		p.log.WithFields(logrus.Fields{"tag": tag, "sessionId": located.SessionID}).
			Info("Dry run, skipping upload")
		return result, nil
	}

	if err := p.upsert(ctx, tag, record, archivePath, metadataPath); err != nil {
		return PublishResult{}, err
	}

	// Bookkeeping only; a failure here must not fail the publish
	if err := state.RecordPublish(cwd, branch, located.SessionID, tag, publishedAt); err != nil {
		p.log.WithError(err).Warn("Failed to record publish state")
	}

	p.log.WithFields(logrus.Fields{"tag": tag, "sessionId": located.SessionID}).
		Info("Published session")
	return result, nil
}

// upsert replaces the tag's asset pair, or creates the tag as a draft
// release when it does not exist yet.
func (p *Publisher) upsert(ctx context.Context, tag string, record session.Record, archivePath, metadataPath string) error {
	exists, err := p.assets.TagExists(ctx, tag)
	if err != nil {
		return err
	}

	if exists {
		// Best-effort cleanup of the previous pair; a missing asset is
		// not an error.
		for _, name := range []string{p.cfg.ArchiveName, p.cfg.MetadataName} {
			if err := p.assets.DeleteAsset(ctx, tag, name); err != nil {
				p.log.WithError(err).WithField("asset", name).Debug("Could not delete previous asset")
			}
		}
		return p.assets.UploadAssets(ctx, tag, []string{archivePath, metadataPath})
	}

	title := fmt.Sprintf("Claude session for %s", record.GitBranch)
	notes := fmt.Sprintf("Session %s published at %s from branch %s",
		record.SessionID, record.Timestamp, record.GitBranch)
	return p.assets.CreateDraft(ctx, tag, title, notes, []string{archivePath, metadataPath})
}

func (p *Publisher) makeStaging() (string, error) {
	staging := filepath.Join(p.cfg.ScratchDir, "handoff-publish-"+uuid.NewString())
	if err := os.MkdirAll(staging, 0o755); err != nil {
		return "", errors.Wrap(err, errors.ErrCodeInternal, "failed to create staging directory").
			WithDetail("path", staging)
	}
	return staging, nil
}
