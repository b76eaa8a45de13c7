package asset

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// ShaderImporter copies vertex/fragment source verbatim into the cache:
// shader compilation is a GPU-backend concern, not an import-time one.
type ShaderImporter struct{}

func (ShaderImporter) SupportsExtension(ext string) bool {
	switch strings.ToLower(ext) {
	case ".vert", ".frag":
		return true
	default:
		return false
	}
}

func (ShaderImporter) AssetType() Type { return TypeShader }

func (ShaderImporter) Import(sourcePath, cacheRoot string) (Info, error) {
	sourceSize, sourceMod, err := statFile(sourcePath)
	if err != nil {
		return Info{}, wrapImportErr(sourcePath, err)
	}

	outDir := filepath.Join(cacheRoot, "Shaders")
	if err := ensureDir(outDir); err != nil {
		return Info{}, wrapImportErr(sourcePath, err)
	}
	outFile := filepath.Join(outDir, filepath.Base(sourcePath))

	if err := copyFile(sourcePath, outFile); err != nil {
		return Info{}, wrapImportErr(sourcePath, err)
	}

	outSize, outMod, err := statFile(outFile)
	if err != nil {
		return Info{}, wrapImportErr(sourcePath, err)
	}

	return Info{
		GUID:              FromPath(sourcePath),
		Type:              TypeShader,
		SourcePath:        sourcePath,
		ImportedPath:      outFile,
		SourceTimestamp:   sourceMod,
		ImportedTimestamp: outMod,
		SourceFileSize:    sourceSize,
		ImportedFileSize:  outSize,
	}, nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("open %q: %w", src, err)
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("create %q: %w", dst, err)
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return fmt.Errorf("copy %q -> %q: %w", src, dst, err)
	}
	return nil
}
