package cli

import (
	"os/signal"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
)

const debounceDelay = 100 * time.Millisecond

// watch loads file, hands it to render and repeats whenever the ledger or
// one of its includes changes, until interrupted. Load and render errors are
// reported and waited out.
func (s *session) watch(file *FileOrStdin, render func(*loaded) error) error {
	ctx, stop := signal.NotifyContext(s.ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	watched := map[string]bool{}
	reload := func() {
		ld, err := s.load(file)
		if err == nil {
			err = render(ld)
		}
		if err != nil {
			if _, handled := err.(*CommandError); !handled {
				printError(s.stderr, err.Error())
			}
		}

		files := []string{file.Path()}
		if ld != nil {
			files = ld.files
		}
		current := map[string]bool{}
		for _, f := range files {
			current[f] = true
			if err := watcher.Add(f); err != nil {
				s.log.Warn("failed to watch file", "file", f, "err", err)
			}
		}
		for f := range watched {
			if !current[f] {
				_ = watcher.Remove(f)
			}
		}
		watched = current
		printInfof(s.stderr, "Watching %d file(s) for changes", len(watched))
	}

	reload()

	changed := make(chan struct{}, 1)
	var debounce *time.Timer
	defer func() {
		if debounce != nil {
			debounce.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			// Editors often save by rename or remove and create.
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			s.log.Debug("file changed", "file", event.Name, "op", event.Op.String())
			if debounce != nil {
				debounce.Stop()
			}
			debounce = time.AfterFunc(debounceDelay, func() {
				select {
				case changed <- struct{}{}:
				default:
				}
			})

		case <-changed:
			reload()

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			s.log.Warn("file watcher error", "err", err)
		}
	}
}

