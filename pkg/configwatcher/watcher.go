package configwatcher

import (
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Watch reloads configuration when the config file changes on disk.
// The onChange callback runs on every write event for the watched file.
type Watcher struct {
	watcher  *fsnotify.Watcher
	log      *zap.Logger
	onChange func()
}

func New(configPath string, log *zap.Logger, onChange func()) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	if err := fw.Add(filepath.Dir(configPath)); err != nil {
		fw.Close()
		return nil, err
	}

	w := &Watcher{watcher: fw, log: log, onChange: onChange}
	go w.run(filepath.Base(configPath))
	return w, nil
}

func (w *Watcher) run(filename string) {
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Base(event.Name) == filename && event.Op&(fsnotify.Write|fsnotify.Create) != 0 {
				w.log.Info("config file changed, reloading", zap.String("file", event.Name))
				w.onChange()
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.log.Warn("config watcher error", zap.Error(err))
		}
	}
}

func (w *Watcher) Close() error {
	return w.watcher.Close()
}
