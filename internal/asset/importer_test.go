package asset

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

func TestImporterHubRegisterAndLookup(t *testing.T) {
	h := NewImporterHub()
	h.RegisterDefaults()

	cases := map[string]Type{
		".png":    TypeTexture,
		".JPG":    TypeTexture,
		".obj":    TypeMesh,
		".vert":   TypeShader,
		".frag":   TypeShader,
		".lmat":   TypeMaterial,
		".lworld": TypeWorld,
	}
	for ext, want := range cases {
		imp, ok := h.For(ext)
		if !ok {
			t.Fatalf("no importer registered for %q", ext)
		}
		if imp.AssetType() != want {
			t.Errorf("importer for %q has type %v, want %v", ext, imp.AssetType(), want)
		}
	}

	if _, ok := h.For(".unknown"); ok {
		t.Error("expected no importer for unknown extension")
	}
}

func TestTextureImporterRoundTrip(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "swatch.png")

	img := image.NewRGBA(image.Rect(0, 0, 4, 3))
	for y := 0; y < 3; y++ {
		for x := 0; x < 4; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 10), G: uint8(y * 10), B: 200, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode fixture png: %v", err)
	}
	if err := os.WriteFile(src, buf.Bytes(), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	cacheRoot := t.TempDir()
	imp := TextureImporter{}
	info, err := imp.Import(src, cacheRoot)
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if info.Type != TypeTexture {
		t.Errorf("Type = %v, want TypeTexture", info.Type)
	}
	if info.GUID != FromPath(src) {
		t.Error("GUID must be deterministic from source path")
	}

	raw, err := os.ReadFile(info.ImportedPath)
	if err != nil {
		t.Fatalf("read texbin: %v", err)
	}
	w := binary.LittleEndian.Uint32(raw[0:4])
	h := binary.LittleEndian.Uint32(raw[4:8])
	channels := binary.LittleEndian.Uint32(raw[8:12])
	if w != 4 || h != 3 || channels != 4 {
		t.Errorf("texbin header = (%d,%d,%d), want (4,3,4)", w, h, channels)
	}
	if len(raw) != 12+int(w*h*channels) {
		t.Errorf("texbin length = %d, want %d", len(raw), 12+int(w*h*channels))
	}
}

func TestShaderImporterCopiesVerbatim(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "unlit.frag")
	body := []byte("#version 450\nvoid main() {}\n")
	if err := os.WriteFile(src, body, 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	cacheRoot := t.TempDir()
	info, err := (ShaderImporter{}).Import(src, cacheRoot)
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	got, err := os.ReadFile(info.ImportedPath)
	if err != nil {
		t.Fatalf("read cache sibling: %v", err)
	}
	if !bytes.Equal(got, body) {
		t.Error("shader cache sibling must be byte-identical to source")
	}
}

func TestWorldImporterRejectsInvalidJSON(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "level.lworld")
	if err := os.WriteFile(src, []byte("{not json"), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	if _, err := (WorldImporter{}).Import(src, t.TempDir()); err == nil {
		t.Error("expected error importing malformed world JSON")
	}
}

func TestWorldImporterWritesLengthPrefixedBlob(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "level.lworld")
	body := []byte(`{"entities":[]}`)
	if err := os.WriteFile(src, body, 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	info, err := (WorldImporter{}).Import(src, t.TempDir())
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	raw, err := os.ReadFile(info.ImportedPath)
	if err != nil {
		t.Fatalf("read worldbin: %v", err)
	}
	size := binary.LittleEndian.Uint32(raw[0:4])
	if int(size) != len(body) {
		t.Errorf("worldbin length prefix = %d, want %d", size, len(body))
	}
	if !bytes.Equal(raw[4:4+size], body) {
		t.Error("worldbin payload must match source bytes exactly")
	}
}

func TestMaterialImporterExtractsTextureDependencies(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "brick.lmat")
	albedoID := MakeRandomID()
	doc := map[string]any{
		"name":          "brick",
		"roughness":     0.6,
		"metallic":      0.0,
		"albedoTexture": albedoID.String(),
	}
	body, err := json.Marshal(doc)
	if err != nil {
		t.Fatalf("marshal fixture: %v", err)
	}
	if err := os.WriteFile(src, body, 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	imp := NewMaterialImporter(NewWriterHub())
	info, err := imp.Import(src, t.TempDir())
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if len(info.Dependencies) != 1 || info.Dependencies[0] != albedoID.String() {
		t.Errorf("Dependencies = %v, want [%s]", info.Dependencies, albedoID.String())
	}

	raw, err := os.ReadFile(info.ImportedPath)
	if err != nil {
		t.Fatalf("read cache sibling: %v", err)
	}
	var record materialCacheRecord
	if err := json.Unmarshal(raw, &record); err != nil {
		t.Fatalf("cache sibling is not valid JSON: %v", err)
	}
	if record.GUID != info.GUID.String() {
		t.Errorf("cache guid = %q, want %q", record.GUID, info.GUID.String())
	}
}
