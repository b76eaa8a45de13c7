package asset

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// materialDocument is the authoring-time ".lmat" schema: a small set of
// PBR scalar/vector parameters plus up to four texture references, each a
// canonical AssetID string (empty meaning "unset").
type materialDocument struct {
	Name                     string     `json:"name"`
	AlbedoColor              [4]float32 `json:"albedoColor"`
	EmissiveColor            [3]float32 `json:"emissiveColor"`
	Roughness                float32    `json:"roughness"`
	Metallic                 float32    `json:"metallic"`
	NormalStrength           float32    `json:"normalStrength"`
	AlbedoTexture            string     `json:"albedoTexture,omitempty"`
	NormalTexture            string     `json:"normalTexture,omitempty"`
	RoughnessMetallicTexture string     `json:"roughnessMetallicTexture,omitempty"`
	EmissiveTexture          string     `json:"emissiveTexture,omitempty"`
}

// materialCacheRecord is what actually gets persisted under Cache/Materials
// — the authoring document plus the resolved guid, so the cache file is
// self-describing without a database lookup.
type materialCacheRecord struct {
	GUID string `json:"guid"`
	materialDocument
}

// MaterialImporter parses a ".lmat" JSON document, defaults every
// unspecified PBR scalar to its original-engine default (roughness 1,
// metallic 0, albedo opaque white, no emissive), and re-serializes it
// through the writer hub's canonical JSON path so hand-authored and
// round-tripped material files diff identically.
type MaterialImporter struct {
	writers *WriterHub
}

// NewMaterialImporter binds writers to use for canonicalization. A nil
// hub falls back to an importer-local canonical writer.
func NewMaterialImporter(writers *WriterHub) *MaterialImporter {
	return &MaterialImporter{writers: writers}
}

func (*MaterialImporter) SupportsExtension(ext string) bool { return strings.EqualFold(ext, ".lmat") }
func (*MaterialImporter) AssetType() Type                   { return TypeMaterial }

func (m *MaterialImporter) Import(sourcePath, cacheRoot string) (Info, error) {
	sourceSize, sourceMod, err := statFile(sourcePath)
	if err != nil {
		return Info{}, wrapImportErr(sourcePath, err)
	}

	raw, err := os.ReadFile(sourcePath)
	if err != nil {
		return Info{}, wrapImportErr(sourcePath, fmt.Errorf("read material: %w", err))
	}

	doc := materialDocument{
		AlbedoColor: [4]float32{1, 1, 1, 1},
		Roughness:   1,
		Metallic:    0,
	}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return Info{}, wrapImportErr(sourcePath, fmt.Errorf("parse material json: %w", err))
	}

	guid := FromPath(sourcePath)
	record := materialCacheRecord{GUID: guid.String(), materialDocument: doc}

	var encoded []byte
	if m.writers != nil {
		if fn, ok := m.writers.For(TypeMaterial); ok {
			encoded, err = fn(record)
		} else {
			encoded, err = canonicalJSONWriter(record)
		}
	} else {
		encoded, err = canonicalJSONWriter(record)
	}
	if err != nil {
		return Info{}, wrapImportErr(sourcePath, err)
	}

	outDir := filepath.Join(cacheRoot, "Materials")
	if err := ensureDir(outDir); err != nil {
		return Info{}, wrapImportErr(sourcePath, err)
	}
	outFile := filepath.Join(outDir, guid.String()+".lmat")
	if err := os.WriteFile(outFile, encoded, 0o644); err != nil {
		return Info{}, wrapImportErr(sourcePath, fmt.Errorf("write material cache: %w", err))
	}

	outSize, outMod, err := statFile(outFile)
	if err != nil {
		return Info{}, wrapImportErr(sourcePath, err)
	}

	var deps []string
	for _, tex := range []string{doc.AlbedoTexture, doc.NormalTexture, doc.RoughnessMetallicTexture, doc.EmissiveTexture} {
		if tex != "" {
			deps = append(deps, tex)
		}
	}

	return Info{
		GUID:              guid,
		Type:              TypeMaterial,
		SourcePath:        sourcePath,
		ImportedPath:      outFile,
		Dependencies:      deps,
		SourceTimestamp:   sourceMod,
		ImportedTimestamp: outMod,
		SourceFileSize:    sourceSize,
		ImportedFileSize:  outSize,
	}, nil
}
