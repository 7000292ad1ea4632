package handoff

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/grovetools/handoff/config"
	"github.com/grovetools/handoff/errors"
	"github.com/grovetools/handoff/logging"
	"github.com/grovetools/handoff/session"
	"github.com/grovetools/handoff/state"
	"github.com/grovetools/handoff/util/pathutil"
	"github.com/sirupsen/logrus"
)

// Watcher republishes the branch's session whenever its log changes,
// debounced so a burst of writes collapses into one publish.
type Watcher struct {
	cfg       *config.Config
	publisher *Publisher
	interval  time.Duration
	log       *logrus.Entry
}

// NewWatcher creates a watcher that publishes through the given publisher.
// The interval bounds how often a changed log gets republished.
func NewWatcher(cfg *config.Config, publisher *Publisher, interval time.Duration) *Watcher {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	return &Watcher{
		cfg:       cfg,
		publisher: publisher,
		interval:  interval,
		log:       logging.NewLogger("watcher"),
	}
}

// Watch blocks watching the project's session directory until ctx is
// cancelled. Log writes are debounced by the watcher's interval; when the
// timer fires the newest session is republished unless the state file shows
// it already went out after the last write.
func (w *Watcher) Watch(ctx context.Context, cwd, branch string) error {
	dir := filepath.Join(w.publisher.store.Root(), pathutil.Munge(cwd))

	// Claude creates the directory on the first session; make sure it
	// exists so the watch can be established up front.
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.Wrap(err, errors.ErrCodeInternal, "failed to create session directory").
			WithDetail("path", dir)
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeInternal, "failed to create filesystem watcher")
	}
	defer fw.Close()

	if err := fw.Add(dir); err != nil {
		return errors.Wrap(err, errors.ErrCodeInternal, "failed to watch session directory").
			WithDetail("path", dir)
	}

	w.log.WithFields(logrus.Fields{
		"dir":      dir,
		"branch":   branch,
		"interval": w.interval,
	}).Info("Watching for session changes")

	debounce := time.NewTimer(w.interval)
	if !debounce.Stop() {
		<-debounce.C
	}
	pending := false

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if !strings.HasSuffix(event.Name, session.LogExt) {
				continue
			}
			if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
				continue
			}
			w.log.WithField("path", event.Name).Debug("Session log changed")
			if !pending {
				pending = true
				debounce.Reset(w.interval)
			}

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.log.WithError(err).Warn("Filesystem watcher error")

		case <-debounce.C:
			pending = false
			if err := w.publishIfStale(ctx, cwd, branch); err != nil {
				// Keep watching; transient remote failures should not
				// kill the loop.
				w.log.WithError(err).Warn("Publish attempt failed")
			}
		}
	}
}

// publishIfStale publishes the current session unless state shows the
// same session already published after its last modification.
func (w *Watcher) publishIfStale(ctx context.Context, cwd, branch string) error {
	locator := session.NewLocator(w.publisher.store)
	located, err := locator.Locate(ctx, cwd, branch)
	if err != nil {
		if errors.Is(err, errors.ErrCodeSessionNotFound) {
			w.log.Debug("No matching session yet")
			return nil
		}
		return err
	}

	if st, err := state.Load(cwd); err == nil {
		if last, ok := st[branch]; ok &&
			last.SessionID == located.SessionID &&
			last.PublishedAt.After(located.ModTime) {
			w.log.WithField("sessionId", located.SessionID).
				Debug("Session unchanged since last publish, skipping")
			return nil
		}
	}

	_, err = w.publisher.Publish(ctx, cwd, branch, false)
	return err
}
