package asset

import (
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/lampy-engine/lampy/internal/job"
)

// Manager owns the importer hub, the asset database, and the recursive
// filesystem watcher that keeps them in sync with source content on disk.
type Manager struct {
	logger    *log.Logger
	importers *ImporterHub
	writers   *WriterHub
	db        *Database
	jobs      *job.System

	watcher *fsnotify.Watcher
	roots   []scanRoot

	changeMu sync.Mutex
	changes  []string

	onImported func(Info)
}

type scanRoot struct {
	path   string
	origin Origin
}

// NewManager wires a Manager with the default importer set registered.
// jobs may be nil, in which case ScheduleRescan runs synchronously.
func NewManager(logger *log.Logger, db *Database, jobs *job.System) *Manager {
	if logger == nil {
		logger = log.Default()
	}
	importers := NewImporterHub()
	importers.RegisterDefaults()
	return &Manager{
		logger:    logger,
		importers: importers,
		writers:   NewWriterHub(),
		db:        db,
		jobs:      jobs,
	}
}

// OnAssetImported registers a callback fired synchronously after every
// successful (re)import, whether from the initial scan or the watch loop.
func (m *Manager) OnAssetImported(fn func(Info)) { m.onImported = fn }

// Startup wires a recursive filesystem watcher on every root, then runs
// one full synchronous scan.
func (m *Manager) Startup(cacheRoot string, roots ...struct {
	Path   string
	Origin Origin
}) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	m.watcher = w

	for _, r := range roots {
		m.roots = append(m.roots, scanRoot{path: r.Path, origin: r.Origin})
		if err := m.watchRecursive(r.Path); err != nil {
			logWarn(m.logger, "asset: failed to watch root %q: %v", r.Path, err)
		}
	}

	go m.watchLoop()

	return m.FullScan(cacheRoot)
}

func (m *Manager) watchRecursive(root string) error {
	return filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if addErr := m.watcher.Add(path); addErr != nil {
				logWarn(m.logger, "asset: watch %q: %v", path, addErr)
			}
		}
		return nil
	})
}

// watchLoop drains fsnotify events into the mutex-guarded change queue.
// It never imports inline: importing is the job of ProcessFileChanges, so
// a burst of writes collapses into one re-import per path per drain.
func (m *Manager) watchLoop() {
	for {
		select {
		case ev, ok := <-m.watcher.Events:
			if !ok {
				return
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			m.changeMu.Lock()
			m.changes = append(m.changes, ev.Name)
			m.changeMu.Unlock()
		case err, ok := <-m.watcher.Errors:
			if !ok {
				return
			}
			logWarn(m.logger, "asset: watcher error: %v", err)
		}
	}
}

// ProcessFileChanges drains the queue accumulated by the watch loop and
// re-imports every path that still exists, skipping paths whose
// (timestamp, size) fingerprint already matches the database.
func (m *Manager) ProcessFileChanges(cacheRoot string) {
	m.changeMu.Lock()
	pending := m.changes
	m.changes = nil
	m.changeMu.Unlock()

	for _, path := range pending {
		rel, origin, ok := m.rootFor(path)
		if !ok {
			logWarn(m.logger, "asset: changed path %q is not under any registered root, skipping", path)
			continue
		}
		m.importIfStale(path, rel, cacheRoot, origin)
	}
}

// FullScan walks every registered root and imports any source whose
// fingerprint has changed (or that has never been imported).
func (m *Manager) FullScan(cacheRoot string) error {
	for _, root := range m.roots {
		err := filepath.WalkDir(root.path, func(path string, d os.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				return nil
			}
			rel, relErr := filepath.Rel(root.path, path)
			if relErr != nil {
				logWarn(m.logger, "asset: computing relative path for %q under root %q: %v", path, root.path, relErr)
				return nil
			}
			m.importIfStale(path, rel, cacheRoot, root.origin)
			return nil
		})
		if err != nil {
			return err
		}
	}
	return nil
}

// rootFor finds which registered root absPath falls under and returns its
// path relative to that root. ok is false if absPath is not beneath any
// registered root (e.g. a stray watcher event after Close).
func (m *Manager) rootFor(absPath string) (rel string, origin Origin, ok bool) {
	for _, root := range m.roots {
		r, err := filepath.Rel(root.path, absPath)
		if err != nil {
			continue
		}
		if r == ".." || strings.HasPrefix(r, ".."+string(filepath.Separator)) {
			continue
		}
		return r, root.origin, true
	}
	return "", 0, false
}

// importIfStale imports absPath if its (timestamp, size) fingerprint has
// changed since the last import. relSourcePath is absPath's path relative
// to its registered root: it is the form every stored GUID and SourcePath
// is derived from, so the database stays portable across machines and
// install locations (spec §4.4.1). absPath is used only for the actual
// file I/O (stat, open).
func (m *Manager) importIfStale(absPath, relSourcePath, cacheRoot string, origin Origin) {
	imp, ok := m.importers.ForPath(absPath)
	if !ok {
		return
	}

	size, modNano, err := statFile(absPath)
	if err != nil {
		logWarn(m.logger, "asset: stat %q: %v", absPath, err)
		return
	}

	guid := FromPath(relSourcePath)
	if existing := m.db.Get(guid); existing != nil {
		if existing.SourceFingerprint() == (Fingerprint{Timestamp: modNano, Size: size}) {
			return
		}
	}

	info, err := imp.Import(absPath, cacheRoot)
	if err != nil {
		logWarn(m.logger, "%v", err)
		return
	}
	info.GUID = guid
	info.Origin = origin
	info.SourcePath = NormalizePath(relSourcePath)

	if !m.db.Upsert(info) {
		logWarn(m.logger, "asset: refusing to store invalid info for %q", absPath)
		return
	}
	if m.onImported != nil {
		m.onImported(info)
	}
}

// ScheduleRescan hands a full scan to the job system, then saves the
// database once the scan completes. Runs synchronously if no job system
// was supplied.
func (m *Manager) ScheduleRescan(cacheRoot, databasePath string) *job.Handle {
	handle := job.NewHandle()
	task := func() {
		if err := m.FullScan(cacheRoot); err != nil {
			logWarn(m.logger, "asset: rescan failed: %v", err)
			return
		}
		if err := m.db.Save(databasePath); err != nil {
			logWarn(m.logger, "asset: saving database after rescan: %v", err)
		}
	}
	if m.jobs == nil {
		task()
		return handle
	}
	m.jobs.SubmitWithHandle(task, handle)
	return handle
}

// Close stops the filesystem watcher.
func (m *Manager) Close() error {
	if m.watcher == nil {
		return nil
	}
	return m.watcher.Close()
}

// Importers exposes the underlying hub so callers can register
// project-specific importers before Startup.
func (m *Manager) Importers() *ImporterHub { return m.importers }

// Writers exposes the underlying writer hub.
func (m *Manager) Writers() *WriterHub { return m.writers }
