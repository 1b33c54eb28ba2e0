package daemon

import (
	"io/fs"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"git.home.luguber.info/inful/vaultindex/internal/logfields"
	"git.home.luguber.info/inful/vaultindex/internal/vault"
)

// VaultWatcher monitors the note tree and requests a reindex after edits.
// Events are debounced: a burst of writes (sync clients, editors saving
// atomically) collapses into one trigger.
type VaultWatcher struct {
	vault    *vault.Vault
	suffix   string // homepage suffix, used to ignore our own writes
	watcher  *fsnotify.Watcher
	debounce time.Duration
	onChange func()
	stopChan chan struct{}

	mu     sync.Mutex
	paused bool
	timer  *time.Timer // pending debounce, nil when idle
}

// NewVaultWatcher creates a watcher over the vault's notes root. onChange
// fires after the debounce window closes.
func NewVaultWatcher(v *vault.Vault, homepageSuffix string, debounce time.Duration, onChange func()) (*VaultWatcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	return &VaultWatcher{
		vault:    v,
		suffix:   homepageSuffix,
		watcher:  w,
		debounce: debounce,
		onChange: onChange,
		stopChan: make(chan struct{}),
	}, nil
}

// Start registers every directory under the notes root and begins watching.
// fsnotify is not recursive; new directories are added as they appear.
func (vw *VaultWatcher) Start() error {
	err := filepath.WalkDir(vw.vault.NotesRoot(), func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() && !vw.ignoredDir(path) {
			return vw.watcher.Add(path)
		}
		return nil
	})
	if err != nil {
		return err
	}

	slog.Info("Watching vault for changes", logfields.Vault(vw.vault.Root))
	go vw.loop()
	return nil
}

// Stop shuts the watcher down.
func (vw *VaultWatcher) Stop() error {
	close(vw.stopChan)
	return vw.watcher.Close()
}

// Pause discards events until Resume. The engine's own writes (banners,
// homepages) must not schedule the next run; the daemon pauses the watcher
// for the duration of each run. Any pending debounce is cancelled.
func (vw *VaultWatcher) Pause() {
	vw.mu.Lock()
	defer vw.mu.Unlock()
	vw.paused = true
	if vw.timer != nil {
		vw.timer.Stop()
		vw.timer = nil
	}
}

// Resume re-enables change notifications.
func (vw *VaultWatcher) Resume() {
	vw.mu.Lock()
	vw.paused = false
	vw.mu.Unlock()
}

func (vw *VaultWatcher) loop() {
	for {
		select {
		case <-vw.stopChan:
			return
		case event, ok := <-vw.watcher.Events:
			if !ok {
				return
			}
			if vw.ignored(event.Name) {
				continue
			}
			if event.Op.Has(fsnotify.Create) {
				// Best effort: a new topic directory needs its own watch.
				if !vw.ignoredDir(event.Name) {
					_ = vw.watcher.Add(event.Name)
				}
			}
			slog.Debug("Vault change observed", logfields.Path(event.Name))
			vw.schedule()
		case err, ok := <-vw.watcher.Errors:
			if !ok {
				return
			}
			slog.Warn("Vault watcher error", logfields.Error(err))
		}
	}
}

// schedule arms the debounce timer, or pushes it out when already armed.
// Paused watchers drop the event entirely.
func (vw *VaultWatcher) schedule() {
	vw.mu.Lock()
	defer vw.mu.Unlock()
	if vw.paused {
		return
	}
	if vw.timer != nil {
		vw.timer.Reset(vw.debounce)
		return
	}
	vw.timer = time.AfterFunc(vw.debounce, func() {
		vw.mu.Lock()
		vw.timer = nil
		fire := !vw.paused
		vw.mu.Unlock()
		if fire {
			vw.onChange()
		}
	})
}

// ignored filters out the engine's own artifacts; reacting to them would
// reindex forever.
func (vw *VaultWatcher) ignored(path string) bool {
	base := filepath.Base(path)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	if strings.HasSuffix(stem, " "+vw.suffix) || stem == vw.suffix {
		return true
	}
	return vw.ignoredDir(path) || base == "Statistics.md" || strings.HasPrefix(base, "Export Playlist")
}

func (vw *VaultWatcher) ignoredDir(path string) bool {
	rel, err := filepath.Rel(vw.vault.NotesRoot(), path)
	if err != nil {
		return false
	}
	rel = filepath.ToSlash(rel)
	return rel == vault.SupportFilesDir || strings.HasPrefix(rel, vault.SupportFilesDir+"/") ||
		rel == vault.PortalsDir || strings.HasPrefix(rel, vault.PortalsDir+"/")
}
