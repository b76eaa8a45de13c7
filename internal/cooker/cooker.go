// Package cooker builds a deployable runtime content folder out of a
// project's asset database: a stripped database copy, an optional sealed
// PAK, a manifest describing which to prefer, and optionally loose
// copies of every imported blob alongside the PAK.
package cooker

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	"github.com/lampy-engine/lampy/internal/asset"
)

// Options controls what the cooker emits into contentRoot.
type Options struct {
	// UsePak builds Content.pak and points the manifest at it.
	UsePak bool
	// CopyLoose additionally copies every imported blob next to the PAK
	// (or as the sole delivery mechanism, if UsePak is false).
	CopyLoose bool
	// PakName overrides the default "Content.pak" archive filename.
	PakName string
}

// Manifest is written as Content.manifest.json.
type Manifest struct {
	UsePak  bool   `json:"usePak"`
	PakName string `json:"pakName"`
}

const (
	defaultPakName    = "Content.pak"
	runtimeDatabaseName = "AssetDatabase.runtime.json"
	manifestName      = "Content.manifest.json"
)

// Cook builds contentRoot from db's current contents. The database and
// PAK build both stream file contents concurrently via an errgroup —
// independent of each other, since the PAK reads importedPath files
// directly and the database copy only touches in-memory records.
func Cook(logger *log.Logger, db *asset.Database, contentRoot string, opts Options) error {
	if logger == nil {
		logger = log.Default()
	}
	if err := os.MkdirAll(contentRoot, 0o755); err != nil {
		return fmt.Errorf("cooker: create content root: %w", err)
	}

	pakName := opts.PakName
	if pakName == "" {
		pakName = defaultPakName
	}

	var g errgroup.Group

	if opts.UsePak {
		g.Go(func() error {
			entries := make(map[asset.ID]asset.Info)
			db.ForEach(func(info asset.Info) {
				entries[info.GUID] = info
			})
			pakPath := filepath.Join(contentRoot, pakName)
			if err := asset.BuildPak(pakPath, entries); err != nil {
				return fmt.Errorf("cooker: build pak: %w", err)
			}
			return nil
		})
	}

	if opts.CopyLoose {
		g.Go(func() error {
			return copyLooseBlobs(db, contentRoot)
		})
	}

	g.Go(func() error {
		runtimePath := filepath.Join(contentRoot, runtimeDatabaseName)
		if err := db.Save(runtimePath); err != nil {
			return fmt.Errorf("cooker: write runtime database: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}

	manifest := Manifest{UsePak: opts.UsePak, PakName: pakName}
	manifestBytes, err := json.MarshalIndent(manifest, "", "  ")
	if err != nil {
		return fmt.Errorf("cooker: marshal manifest: %w", err)
	}
	if err := os.WriteFile(filepath.Join(contentRoot, manifestName), manifestBytes, 0o644); err != nil {
		return fmt.Errorf("cooker: write manifest: %w", err)
	}

	logger.Printf("cooker: cooked content to %q (usePak=%v, copyLoose=%v)", contentRoot, opts.UsePak, opts.CopyLoose)
	return nil
}

func copyLooseBlobs(db *asset.Database, contentRoot string) error {
	blobRoot := filepath.Join(contentRoot, "Blobs")
	if err := os.MkdirAll(blobRoot, 0o755); err != nil {
		return fmt.Errorf("cooker: create blob root: %w", err)
	}

	var g errgroup.Group
	db.ForEach(func(info asset.Info) {
		info := info
		g.Go(func() error {
			data, err := os.ReadFile(info.ImportedPath)
			if err != nil {
				return fmt.Errorf("cooker: read %q: %w", info.ImportedPath, err)
			}
			dest := filepath.Join(blobRoot, info.GUID.String()+filepath.Ext(info.ImportedPath))
			if err := os.WriteFile(dest, data, 0o644); err != nil {
				return fmt.Errorf("cooker: write %q: %w", dest, err)
			}
			return nil
		})
	})
	return g.Wait()
}

// LoadManifest reads a previously cooked Content.manifest.json.
func LoadManifest(contentRoot string) (Manifest, error) {
	raw, err := os.ReadFile(filepath.Join(contentRoot, manifestName))
	if err != nil {
		return Manifest{}, fmt.Errorf("cooker: read manifest: %w", err)
	}
	var m Manifest
	if err := json.Unmarshal(raw, &m); err != nil {
		return Manifest{}, fmt.Errorf("cooker: parse manifest: %w", err)
	}
	return m, nil
}
