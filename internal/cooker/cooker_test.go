package cooker

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/lampy-engine/lampy/internal/asset"
)

func TestCookWritesManifestAndDatabase(t *testing.T) {
	srcDir := t.TempDir()
	blobPath := filepath.Join(srcDir, "a.texbin")
	if err := os.WriteFile(blobPath, []byte("pixels"), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	db := asset.NewDatabase(nil)
	info := asset.Info{
		GUID:         asset.FromPath("a.png"),
		Type:         asset.TypeTexture,
		SourcePath:   "a.png",
		ImportedPath: blobPath,
	}
	if !db.Upsert(info) {
		t.Fatal("Upsert rejected a valid record")
	}

	contentRoot := t.TempDir()
	if err := Cook(nil, db, contentRoot, Options{UsePak: true, CopyLoose: true}); err != nil {
		t.Fatalf("Cook: %v", err)
	}

	manifest, err := LoadManifest(contentRoot)
	if err != nil {
		t.Fatalf("LoadManifest: %v", err)
	}
	if !manifest.UsePak || manifest.PakName != defaultPakName {
		t.Errorf("manifest = %+v, want UsePak=true PakName=%q", manifest, defaultPakName)
	}

	if _, err := os.Stat(filepath.Join(contentRoot, defaultPakName)); err != nil {
		t.Errorf("expected pak file: %v", err)
	}
	if _, err := os.Stat(filepath.Join(contentRoot, runtimeDatabaseName)); err != nil {
		t.Errorf("expected runtime database: %v", err)
	}

	reader, err := asset.OpenPak(filepath.Join(contentRoot, defaultPakName))
	if err != nil {
		t.Fatalf("OpenPak: %v", err)
	}
	defer reader.Close()
	if !reader.Contains(info.GUID) {
		t.Error("pak does not contain the cooked asset")
	}
}
