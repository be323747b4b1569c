package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/morozRed/assetrefs/internal/assets"
	"github.com/morozRed/assetrefs/internal/fileutil"
	"github.com/morozRed/assetrefs/internal/telemetry"
	"github.com/morozRed/assetrefs/internal/universe"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// watchSession keeps one browser alive across universe reloads. File events
// only mark it stale; rebuilds happen on idle ticks.
type watchSession struct {
	sess    *session
	path    string
	hash    string
	queries []string
	browser *assets.Browser
	out     io.Writer
	log     *logrus.Entry
}

func newWatchSession(sess *session, queries []string, out io.Writer) (*watchSession, error) {
	hash, err := fileutil.HashFile(sess.universePath)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to hash %s", sess.universePath)
	}
	sel, err := sess.selection(queries)
	if err != nil {
		return nil, err
	}

	browser := assets.NewBrowser(sess.universe, sess.config, assets.WithLogger(sess.log))
	browser.NotifySelectionChanged(sel)
	return &watchSession{
		sess:    sess,
		path:    filepath.Clean(sess.universePath),
		hash:    hash,
		queries: queries,
		browser: browser,
		out:     out,
		log:     sess.log,
	}, nil
}

// fileChanged reloads the universe when its content changed. A document that
// fails to load keeps the previous universe in place.
func (w *watchSession) fileChanged() bool {
	hash, err := fileutil.HashFile(w.path)
	if err != nil {
		w.log.WithError(err).Warn("failed to hash universe")
		return false
	}
	if hash == w.hash {
		return false
	}

	u, err := universe.Load(w.path)
	if err != nil {
		w.log.WithError(err).Warn("keeping previous universe")
		return false
	}
	w.hash = hash
	w.sess.universe = u
	w.browser.Rebind(u)

	sel, err := w.sess.selection(w.queries)
	if err != nil {
		w.log.WithError(err).Warn("selection no longer resolves, using document selection")
		sel = u.Selection()
	}
	w.browser.NotifySelectionChanged(sel)
	w.log.WithFields(logrus.Fields{
		"hash":    hash,
		"objects": u.Len(),
	}).Info("universe reloaded")
	return true
}

// idle runs the pending rebuild, if any, and prints the new lists.
func (w *watchSession) idle(ctx context.Context) error {
	rebuilt, err := w.browser.Tick(ctx)
	if err != nil || !rebuilt {
		return err
	}
	return printList(w.out, w.sess, w.browser)
}

func (w *watchSession) run(ctx context.Context, events <-chan fsnotify.Event, errs <-chan error, tick <-chan time.Time) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			w.fileChanged()
		case err, ok := <-errs:
			if !ok {
				return nil
			}
			w.log.WithError(err).Warn("watch error")
		case <-tick:
			if err := w.idle(ctx); err != nil {
				if errors.Is(err, context.Canceled) {
					return nil
				}
				return err
			}
		}
	}
}

func (a *app) newWatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch [root...]",
		Short: "Rebuild the lists whenever the universe document changes",
		RunE: func(cmd *cobra.Command, args []string) error {
			interval, err := positiveDurationFlag(cmd, "interval")
			if err != nil {
				return err
			}
			metricsAddr, err := optionalStringFlag(cmd, "metrics-addr")
			if err != nil {
				return err
			}

			sess, err := a.newSession(cmd, true)
			if err != nil {
				return err
			}
			w, err := newWatchSession(sess, args, cmd.OutOrStdout())
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(commandContext(cmd), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if metricsAddr != "" {
				srv, err := telemetry.Listen(metricsAddr, sess.log)
				if err != nil {
					return err
				}
				defer func() {
					shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
					defer cancel()
					if err := srv.Shutdown(shutdownCtx); err != nil {
						sess.log.WithError(err).Warn("metrics server shutdown failed")
					}
				}()
			}

			watcher, err := fsnotify.NewWatcher()
			if err != nil {
				return errors.Wrap(err, "failed to create watcher")
			}
			defer watcher.Close()
			// Editors replace files on save, so watch the directory.
			if err := watcher.Add(filepath.Dir(w.path)); err != nil {
				return errors.Wrapf(err, "failed to watch %s", filepath.Dir(w.path))
			}

			ticker := time.NewTicker(interval)
			defer ticker.Stop()

			fmt.Fprintf(cmd.ErrOrStderr(), "watching %s (ctrl-c to stop)\n", w.path)
			return w.run(ctx, watcher.Events, watcher.Errors, ticker.C)
		},
	}
	cmd.Flags().Duration("interval", 500*time.Millisecond, "idle interval between rebuild checks")
	cmd.Flags().String("metrics-addr", "", "serve Prometheus metrics on this address")
	return cmd
}
