package asset

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// maxWorldBytes caps how large a world JSON blob the importer will accept,
// matching the engine's 100 MiB ceiling on a single world document.
const maxWorldBytes = 100 * 1024 * 1024

// WorldImporter validates a world document is well-formed JSON, then
// writes it into the cache as a ".worldbin" sibling: uint32 byte length
// followed by the raw JSON bytes, unmodified.
type WorldImporter struct{}

func (WorldImporter) SupportsExtension(ext string) bool { return strings.EqualFold(ext, ".lworld") }
func (WorldImporter) AssetType() Type                   { return TypeWorld }

func (WorldImporter) Import(sourcePath, cacheRoot string) (Info, error) {
	sourceSize, sourceMod, err := statFile(sourcePath)
	if err != nil {
		return Info{}, wrapImportErr(sourcePath, err)
	}
	if sourceSize > maxWorldBytes {
		return Info{}, wrapImportErr(sourcePath, fmt.Errorf("world file %d bytes exceeds %d byte limit", sourceSize, maxWorldBytes))
	}

	raw, err := os.ReadFile(sourcePath)
	if err != nil {
		return Info{}, wrapImportErr(sourcePath, fmt.Errorf("read world: %w", err))
	}
	if len(raw) == 0 {
		return Info{}, wrapImportErr(sourcePath, fmt.Errorf("world file is empty"))
	}
	if !json.Valid(raw) {
		return Info{}, wrapImportErr(sourcePath, fmt.Errorf("world file is not valid JSON"))
	}

	outDir := filepath.Join(cacheRoot, "Worlds")
	if err := ensureDir(outDir); err != nil {
		return Info{}, wrapImportErr(sourcePath, err)
	}
	stem := strings.TrimSuffix(filepath.Base(sourcePath), filepath.Ext(sourcePath))
	outFile := filepath.Join(outDir, stem+".worldbin")

	if err := writeWorldbin(outFile, raw); err != nil {
		return Info{}, wrapImportErr(sourcePath, err)
	}

	outSize, outMod, err := statFile(outFile)
	if err != nil {
		return Info{}, wrapImportErr(sourcePath, err)
	}

	return Info{
		GUID:              FromPath(sourcePath),
		Type:              TypeWorld,
		SourcePath:        sourcePath,
		ImportedPath:      outFile,
		SourceTimestamp:   sourceMod,
		ImportedTimestamp: outMod,
		SourceFileSize:    sourceSize,
		ImportedFileSize:  outSize,
	}, nil
}

func writeWorldbin(path string, raw []byte) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create worldbin: %w", err)
	}
	defer f.Close()

	var size [4]byte
	binary.LittleEndian.PutUint32(size[:], uint32(len(raw)))
	if _, err := f.Write(size[:]); err != nil {
		return fmt.Errorf("write worldbin length: %w", err)
	}
	if _, err := f.Write(raw); err != nil {
		return fmt.Errorf("write worldbin payload: %w", err)
	}
	return nil
}
