package asset

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

func TestPakRoundTrip(t *testing.T) {
	dir := t.TempDir()
	contents := map[string][]byte{
		"a.texbin": []byte("texture-bytes-aaaa"),
		"b.meshbin": []byte("mesh-bytes-bbbb"),
		"c.worldbin": []byte("world-bytes-cccccccc"),
	}
	entries := make(map[ID]Info, len(contents))
	for name, body := range contents {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, body, 0o644); err != nil {
			t.Fatalf("write fixture %q: %v", name, err)
		}
		id := FromPath(name)
		entries[id] = Info{
			GUID:         id,
			Type:         TypeTexture,
			SourcePath:   name,
			ImportedPath: path,
		}
	}

	pakPath := filepath.Join(dir, "Content.pak")
	if err := BuildPak(pakPath, entries); err != nil {
		t.Fatalf("BuildPak: %v", err)
	}

	reader, err := OpenPak(pakPath)
	if err != nil {
		t.Fatalf("OpenPak: %v", err)
	}
	defer reader.Close()

	for name, body := range contents {
		id := FromPath(name)
		if !reader.Contains(id) {
			t.Fatalf("pak missing entry for %q", name)
		}
		got, err := reader.ReadAsset(id)
		if err != nil {
			t.Fatalf("ReadAsset(%q): %v", name, err)
		}
		if !bytes.Equal(got, body) {
			t.Errorf("ReadAsset(%q) = %q, want %q", name, got, body)
		}
	}

	unknown := MakeRandomID()
	if reader.Contains(unknown) {
		t.Error("pak must not claim to contain an unregistered id")
	}
	if _, err := reader.ReadAsset(unknown); err == nil {
		t.Error("ReadAsset of an unknown id must error")
	}
}

func TestOpenPakRejectsBadMagic(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.pak")
	if err := os.WriteFile(path, []byte("not a pak file at all"), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	if _, err := OpenPak(path); err == nil {
		t.Error("expected error opening a non-pak file")
	}
}
