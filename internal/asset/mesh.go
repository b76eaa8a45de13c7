package asset

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Mesh import hard ceilings: a vertex or index count at or above these is
// treated as a malformed source file rather than imported.
const (
	maxMeshVertices = 1_000_000
	maxMeshIndices  = 10_000_000
)

// MeshImporter parses Wavefront OBJ geometry into a deduplicated,
// interleaved-by-attribute ".meshbin" sibling: uint32 vertexCount, uint32
// indexCount, then positions (vec3), normals (vec3), texcoords (vec2),
// and finally uint32 indices, each attribute array packed contiguously.
//
// There is no third-party OBJ loader in the engine's dependency set, so
// this parser is hand-written against the small subset of the format
// (v/vn/vt/f lines, positive indices only) the pipeline's sample content
// uses.
type MeshImporter struct{}

func (MeshImporter) SupportsExtension(ext string) bool { return strings.EqualFold(ext, ".obj") }
func (MeshImporter) AssetType() Type                   { return TypeMesh }

type vertexKey struct{ v, n, t int }

func (MeshImporter) Import(sourcePath, cacheRoot string) (Info, error) {
	sourceSize, sourceMod, err := statFile(sourcePath)
	if err != nil {
		return Info{}, wrapImportErr(sourcePath, err)
	}

	f, err := os.Open(sourcePath)
	if err != nil {
		return Info{}, wrapImportErr(sourcePath, fmt.Errorf("open mesh: %w", err))
	}
	defer f.Close()

	var rawPositions, rawNormals, rawTexcoords [][]float32
	vertexMap := make(map[vertexKey]uint32)
	var vertices, normals, texcoords []float32
	var indices []uint32

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		switch fields[0] {
		case "v":
			p, err := parseFloats(fields[1:], 3)
			if err != nil {
				return Info{}, wrapImportErr(sourcePath, fmt.Errorf("vertex line %q: %w", line, err))
			}
			rawPositions = append(rawPositions, p)
		case "vn":
			n, err := parseFloats(fields[1:], 3)
			if err != nil {
				return Info{}, wrapImportErr(sourcePath, fmt.Errorf("normal line %q: %w", line, err))
			}
			rawNormals = append(rawNormals, n)
		case "vt":
			t, err := parseFloats(fields[1:], 2)
			if err != nil {
				return Info{}, wrapImportErr(sourcePath, fmt.Errorf("texcoord line %q: %w", line, err))
			}
			rawTexcoords = append(rawTexcoords, t)
		case "f":
			for _, tok := range fields[1:] {
				key, err := parseFaceVertex(tok)
				if err != nil {
					return Info{}, wrapImportErr(sourcePath, fmt.Errorf("face line %q: %w", line, err))
				}
				if idx, ok := vertexMap[key]; ok {
					indices = append(indices, idx)
					continue
				}
				newIndex := uint32(len(vertices) / 3)
				vertexMap[key] = newIndex
				indices = append(indices, newIndex)

				if key.v >= 0 && key.v < len(rawPositions) {
					vertices = append(vertices, rawPositions[key.v]...)
				}
				if key.n >= 0 && key.n < len(rawNormals) {
					normals = append(normals, rawNormals[key.n]...)
				}
				if key.t >= 0 && key.t < len(rawTexcoords) {
					texcoords = append(texcoords, rawTexcoords[key.t]...)
				}
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return Info{}, wrapImportErr(sourcePath, fmt.Errorf("scan mesh: %w", err))
	}

	if len(vertices) == 0 || len(indices) == 0 {
		return Info{}, wrapImportErr(sourcePath, fmt.Errorf("mesh has no vertices or indices"))
	}
	vertexCount := len(vertices) / 3
	if vertexCount >= maxMeshVertices {
		return Info{}, wrapImportErr(sourcePath, fmt.Errorf("vertex count %d exceeds limit %d", vertexCount, maxMeshVertices))
	}
	if len(indices) >= maxMeshIndices {
		return Info{}, wrapImportErr(sourcePath, fmt.Errorf("index count %d exceeds limit %d", len(indices), maxMeshIndices))
	}

	outDir := filepath.Join(cacheRoot, "Meshes")
	if err := ensureDir(outDir); err != nil {
		return Info{}, wrapImportErr(sourcePath, err)
	}
	stem := strings.TrimSuffix(filepath.Base(sourcePath), filepath.Ext(sourcePath))
	outFile := filepath.Join(outDir, stem+".meshbin")

	if err := writeMeshbin(outFile, uint32(vertexCount), uint32(len(indices)), vertices, normals, texcoords, indices); err != nil {
		return Info{}, wrapImportErr(sourcePath, err)
	}

	outSize, outMod, err := statFile(outFile)
	if err != nil {
		return Info{}, wrapImportErr(sourcePath, err)
	}

	return Info{
		GUID:              FromPath(sourcePath),
		Type:              TypeMesh,
		SourcePath:        sourcePath,
		ImportedPath:      outFile,
		SourceTimestamp:   sourceMod,
		ImportedTimestamp: outMod,
		SourceFileSize:    sourceSize,
		ImportedFileSize:  outSize,
	}, nil
}

func parseFloats(fields []string, n int) ([]float32, error) {
	if len(fields) < n {
		return nil, fmt.Errorf("expected %d components, got %d", n, len(fields))
	}
	out := make([]float32, n)
	for i := 0; i < n; i++ {
		v, err := strconv.ParseFloat(fields[i], 32)
		if err != nil {
			return nil, err
		}
		out[i] = float32(v)
	}
	return out, nil
}

// parseFaceVertex parses one "v/t/n" (or "v", "v/t", "v//n") face token
// into 0-based indices, -1 meaning "absent". Negative OBJ indices
// (relative to the end of the list) are not supported.
func parseFaceVertex(tok string) (vertexKey, error) {
	parts := strings.Split(tok, "/")
	key := vertexKey{v: -1, n: -1, t: -1}
	v, err := strconv.Atoi(parts[0])
	if err != nil {
		return key, err
	}
	key.v = v - 1
	if len(parts) > 1 && parts[1] != "" {
		t, err := strconv.Atoi(parts[1])
		if err != nil {
			return key, err
		}
		key.t = t - 1
	}
	if len(parts) > 2 && parts[2] != "" {
		n, err := strconv.Atoi(parts[2])
		if err != nil {
			return key, err
		}
		key.n = n - 1
	}
	return key, nil
}

func writeMeshbin(path string, vertexCount, indexCount uint32, vertices, normals, texcoords []float32, indices []uint32) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create meshbin: %w", err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	var header [8]byte
	binary.LittleEndian.PutUint32(header[0:4], vertexCount)
	binary.LittleEndian.PutUint32(header[4:8], indexCount)
	if _, err := w.Write(header[:]); err != nil {
		return err
	}
	if err := writeFloat32s(w, vertices); err != nil {
		return err
	}
	if err := writeFloat32s(w, normals); err != nil {
		return err
	}
	if err := writeFloat32s(w, texcoords); err != nil {
		return err
	}
	if err := writeUint32s(w, indices); err != nil {
		return err
	}
	return w.Flush()
}

func writeFloat32s(w *bufio.Writer, values []float32) error {
	var buf [4]byte
	for _, v := range values {
		binary.LittleEndian.PutUint32(buf[:], math.Float32bits(v))
		if _, err := w.Write(buf[:]); err != nil {
			return err
		}
	}
	return nil
}

func writeUint32s(w *bufio.Writer, values []uint32) error {
	var buf [4]byte
	for _, v := range values {
		binary.LittleEndian.PutUint32(buf[:], v)
		if _, err := w.Write(buf[:]); err != nil {
			return err
		}
	}
	return nil
}
