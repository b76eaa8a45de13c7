package asset

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"sync"
)

// Database is a persistent map from ID to Info, reader-writer locked so
// ForEach (a shared read) can never re-enter under its own lock while
// writers drain.
type Database struct {
	mu           sync.RWMutex
	assets       map[ID]*Info
	sourceToGUID map[string]ID
	logger       *log.Logger
}

// NewDatabase constructs an empty database.
func NewDatabase(logger *log.Logger) *Database {
	if logger == nil {
		logger = log.Default()
	}
	return &Database{
		assets:       make(map[ID]*Info),
		sourceToGUID: make(map[string]ID),
		logger:       logger,
	}
}

// Get returns a copy of the stored Info for id, or nil if unknown.
func (db *Database) Get(id ID) *Info {
	db.mu.RLock()
	defer db.mu.RUnlock()
	info, ok := db.assets[id]
	if !ok {
		return nil
	}
	cp := *info
	return &cp
}

// Lookup resolves a normalized source path to its ID.
func (db *Database) Lookup(normalizedSourcePath string) (ID, bool) {
	db.mu.RLock()
	defer db.mu.RUnlock()
	id, ok := db.sourceToGUID[normalizedSourcePath]
	return id, ok
}

// Upsert inserts or replaces the record for info.GUID. info must satisfy
// Valid(); otherwise Upsert is a no-op and returns false.
func (db *Database) Upsert(info Info) bool {
	if !info.Valid() {
		return false
	}
	db.mu.Lock()
	defer db.mu.Unlock()
	cp := info
	db.assets[info.GUID] = &cp
	db.sourceToGUID[NormalizePath(info.SourcePath)] = info.GUID
	return true
}

// Remove deletes the record for id, if any.
func (db *Database) Remove(id ID) {
	db.mu.Lock()
	defer db.mu.Unlock()
	info, ok := db.assets[id]
	if !ok {
		return
	}
	delete(db.assets, id)
	delete(db.sourceToGUID, NormalizePath(info.SourcePath))
}

// ForEach calls fn for every record under a shared lock. fn must not call
// back into the database.
func (db *Database) ForEach(fn func(Info)) {
	db.mu.RLock()
	defer db.mu.RUnlock()
	for _, info := range db.assets {
		fn(*info)
	}
}

// Len returns the number of records currently stored.
func (db *Database) Len() int {
	db.mu.RLock()
	defer db.mu.RUnlock()
	return len(db.assets)
}

// onDiskRecord matches §6.2's external JSON schema exactly (field names
// "source"/"imported", not the Go-internal "sourcePath"/"importedPath").
type onDiskRecord struct {
	GUID              ID       `json:"guid"`
	Type              int      `json:"type"`
	Source            string   `json:"source"`
	Imported          string   `json:"imported"`
	SourceTimestamp   int64    `json:"sourceTimestamp"`
	ImportedTimestamp int64    `json:"importedTimestamp"`
	SourceFileSize    int64    `json:"sourceFileSize"`
	ImportedFileSize  int64    `json:"importedFileSize"`
	Origin            *int     `json:"origin,omitempty"`
	Dependencies      []string `json:"dependencies,omitempty"`
}

// Save writes the database to path as the §6.2 JSON schema: a top-level
// object keyed by canonical GUID string.
func (db *Database) Save(path string) error {
	db.mu.RLock()
	out := make(map[string]onDiskRecord, len(db.assets))
	for id, info := range db.assets {
		origin := int(info.Origin)
		out[id.String()] = onDiskRecord{
			GUID:              id,
			Type:              int(info.Type),
			Source:            info.SourcePath,
			Imported:          info.ImportedPath,
			SourceTimestamp:   info.SourceTimestamp,
			ImportedTimestamp: info.ImportedTimestamp,
			SourceFileSize:    info.SourceFileSize,
			ImportedFileSize:  info.ImportedFileSize,
			Origin:            &origin,
			Dependencies:      info.Dependencies,
		}
	}
	db.mu.RUnlock()

	bytes, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("asset: marshal database: %w", err)
	}
	return os.WriteFile(path, bytes, 0o644)
}

// Load reads path and populates the database. Malformed individual
// records are skipped with a warning; the load only aborts if the file is
// missing or the top-level JSON is not an object.
func (db *Database) Load(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("asset: read database: %w", err)
	}

	var on map[string]json.RawMessage
	if err := json.Unmarshal(raw, &on); err != nil {
		return fmt.Errorf("asset: parse database: %w", err)
	}

	db.mu.Lock()
	defer db.mu.Unlock()
	db.assets = make(map[ID]*Info, len(on))
	db.sourceToGUID = make(map[string]ID, len(on))

	for key, rawRecord := range on {
		var rec onDiskRecord
		if err := json.Unmarshal(rawRecord, &rec); err != nil {
			logWarn(db.logger, "asset: skipping malformed database record %q: %v", key, err)
			continue
		}
		id, ok := FromCanonicalString(key)
		if !ok {
			logWarn(db.logger, "asset: skipping database record with invalid guid key %q", key)
			continue
		}
		origin := OriginProject
		if rec.Origin != nil {
			origin = Origin(*rec.Origin)
		}
		info := Info{
			GUID:              id,
			Type:              Type(rec.Type),
			Origin:            origin,
			SourcePath:        rec.Source,
			ImportedPath:      rec.Imported,
			Dependencies:      rec.Dependencies,
			SourceTimestamp:   rec.SourceTimestamp,
			ImportedTimestamp: rec.ImportedTimestamp,
			SourceFileSize:    rec.SourceFileSize,
			ImportedFileSize:  rec.ImportedFileSize,
		}
		if !info.Valid() {
			logWarn(db.logger, "asset: skipping database record %q: missing guid or source path", key)
			continue
		}
		db.assets[id] = &info
		db.sourceToGUID[NormalizePath(info.SourcePath)] = id
	}
	return nil
}

func logWarn(l *log.Logger, format string, args ...any) {
	if l == nil {
		return
	}
	l.Printf("WARN "+format, args...)
}
