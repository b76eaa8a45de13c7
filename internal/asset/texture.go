package asset

import (
	"encoding/binary"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"strings"
)

// maxTextureDimension is the hard ceiling a texture import refuses to
// exceed in either axis, matching the engine's GPU-backed texture limit.
const maxTextureDimension = 16384

// TextureImporter decodes PNG/JPEG sources into a fixed RGBA8 ".texbin"
// sibling: int32 width, int32 height, int32 channel count (always 4),
// followed by the raw pixel bytes.
type TextureImporter struct{}

func (TextureImporter) SupportsExtension(ext string) bool {
	switch strings.ToLower(ext) {
	case ".png", ".jpg", ".jpeg":
		return true
	default:
		return false
	}
}

func (TextureImporter) AssetType() Type { return TypeTexture }

func (TextureImporter) Import(sourcePath, cacheRoot string) (Info, error) {
	sourceSize, sourceMod, err := statFile(sourcePath)
	if err != nil {
		return Info{}, wrapImportErr(sourcePath, err)
	}

	f, err := os.Open(sourcePath)
	if err != nil {
		return Info{}, wrapImportErr(sourcePath, fmt.Errorf("open texture: %w", err))
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return Info{}, wrapImportErr(sourcePath, fmt.Errorf("decode texture: %w", err))
	}

	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w <= 0 || h <= 0 {
		return Info{}, wrapImportErr(sourcePath, fmt.Errorf("texture has non-positive dimensions %dx%d", w, h))
	}
	if w > maxTextureDimension || h > maxTextureDimension {
		return Info{}, wrapImportErr(sourcePath, fmt.Errorf("texture %dx%d exceeds %dx%d limit", w, h, maxTextureDimension, maxTextureDimension))
	}

	rgba := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			rgba.Set(x, y, img.At(bounds.Min.X+x, bounds.Min.Y+y))
		}
	}

	outDir := filepath.Join(cacheRoot, "Textures")
	if err := ensureDir(outDir); err != nil {
		return Info{}, wrapImportErr(sourcePath, err)
	}
	stem := strings.TrimSuffix(filepath.Base(sourcePath), filepath.Ext(sourcePath))
	outFile := filepath.Join(outDir, stem+".texbin")

	if err := writeTexbin(outFile, w, h, rgba.Pix); err != nil {
		return Info{}, wrapImportErr(sourcePath, err)
	}

	outSize, outMod, err := statFile(outFile)
	if err != nil {
		return Info{}, wrapImportErr(sourcePath, err)
	}

	return Info{
		GUID:              FromPath(sourcePath),
		Type:              TypeTexture,
		SourcePath:        sourcePath,
		ImportedPath:      outFile,
		SourceTimestamp:   sourceMod,
		ImportedTimestamp: outMod,
		SourceFileSize:    sourceSize,
		ImportedFileSize:  outSize,
	}, nil
}

func writeTexbin(path string, w, h int, rgba []byte) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create texbin: %w", err)
	}
	defer f.Close()

	header := make([]byte, 12)
	binary.LittleEndian.PutUint32(header[0:4], uint32(w))
	binary.LittleEndian.PutUint32(header[4:8], uint32(h))
	binary.LittleEndian.PutUint32(header[8:12], 4)
	if _, err := f.Write(header); err != nil {
		return fmt.Errorf("write texbin header: %w", err)
	}
	if _, err := f.Write(rgba); err != nil {
		return fmt.Errorf("write texbin pixels: %w", err)
	}
	return nil
}
