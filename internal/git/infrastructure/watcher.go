package infrastructure

import (
	"context"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/zjrosen/gitlanes/internal/log"
)

// RepoWatcher observes the repository's ref storage and fires a callback
// when history may have changed. Writes to HEAD, refs/, or
// packed-refs cover branch moves, commits, fetches, and gc repacks.
type RepoWatcher struct {
	gitDir   string
	debounce time.Duration
	onChange func()
}

// NewRepoWatcher creates a watcher for workDir's .git directory. onChange
// runs on the watcher goroutine after the debounce window closes.
func NewRepoWatcher(workDir string, debounce time.Duration, onChange func()) *RepoWatcher {
	return &RepoWatcher{
		gitDir:   filepath.Join(workDir, ".git"),
		debounce: debounce,
		onChange: onChange,
	}
}

// Start runs the watch loop until ctx is cancelled. Watcher errors are
// logged and the loop keeps going; a broken watcher degrades to manual
// refresh rather than crashing the UI.
func (w *RepoWatcher) Start(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}

	paths := []string{
		w.gitDir,
		filepath.Join(w.gitDir, "refs", "heads"),
		filepath.Join(w.gitDir, "refs", "tags"),
	}
	for _, p := range paths {
		if err := watcher.Add(p); err != nil {
			log.Warn(log.CatWatch, "Cannot watch path", "path", p, "error", err)
		}
	}

	go w.loop(ctx, watcher)
	return nil
}

func (w *RepoWatcher) loop(ctx context.Context, watcher *fsnotify.Watcher) {
	defer watcher.Close()

	var timer *time.Timer
	var timerC <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if !w.relevant(event) {
				continue
			}
			log.Debug(log.CatWatch, "Repo change detected", "path", event.Name, "op", event.Op.String())
			if timer == nil {
				timer = time.NewTimer(w.debounce)
				timerC = timer.C
			} else {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(w.debounce)
			}
		case <-timerC:
			timer = nil
			timerC = nil
			w.onChange()
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			log.Warn(log.CatWatch, "Watcher error", "error", err)
		}
	}
}

// relevant filters the event stream down to files that indicate ref or
// HEAD movement. Index churn from status commands is ignored.
func (w *RepoWatcher) relevant(event fsnotify.Event) bool {
	if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename|fsnotify.Remove) == 0 {
		return false
	}
	base := filepath.Base(event.Name)
	switch base {
	case "HEAD", "packed-refs", "ORIG_HEAD", "FETCH_HEAD":
		return true
	}
	dir := filepath.Dir(event.Name)
	return filepath.Base(filepath.Dir(dir)) == "refs" || filepath.Base(dir) == "heads" || filepath.Base(dir) == "tags"
}
