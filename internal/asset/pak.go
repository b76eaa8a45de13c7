package asset

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// pakMagic identifies a PAK archive; pakVersion is bumped whenever the
// index schema changes in a way readers must know about.
var pakMagic = [4]byte{'L', 'P', 'A', 'K'}

const pakVersion = 1

// pakHeaderSize is the fixed-size prefix: magic(4) + version(4) +
// indexOffset(8) + indexSize(8).
const pakHeaderSize = 4 + 4 + 8 + 8

// PakEntry is one archive member: the byte range of its payload plus
// enough Info to reconstruct a loose-file fallback without consulting the
// database.
type PakEntry struct {
	Offset uint64 `json:"offset"`
	Size   uint64 `json:"size"`
	Type   int    `json:"type"`
	Path   string `json:"path"`
}

// BuildPak streams every entry's importedPath contents tail-to-tail into
// destPath, then appends a JSON index keyed by canonical GUID string.
// Entries are written in map iteration order, which is not defined, so
// two builds from the same entries may lay out the payload differently;
// the index records each entry's offset and size. Each GUID appears at
// most once, as entries is keyed by it.
func BuildPak(destPath string, entries map[ID]Info) error {
	f, err := os.Create(destPath)
	if err != nil {
		return fmt.Errorf("asset: create pak: %w", err)
	}
	defer f.Close()

	// Placeholder header, rewritten once the payload and index are known.
	if _, err := f.Write(make([]byte, pakHeaderSize)); err != nil {
		return fmt.Errorf("asset: write pak placeholder header: %w", err)
	}

	index := make(map[string]PakEntry, len(entries))
	var cursor uint64 = pakHeaderSize

	for id, info := range entries {
		n, err := appendFile(f, info.ImportedPath)
		if err != nil {
			return fmt.Errorf("asset: pack %q: %w", info.ImportedPath, err)
		}
		index[id.String()] = PakEntry{
			Offset: cursor,
			Size:   n,
			Type:   int(info.Type),
			Path:   info.SourcePath,
		}
		cursor += n
	}

	indexBytes, err := json.Marshal(index)
	if err != nil {
		return fmt.Errorf("asset: marshal pak index: %w", err)
	}
	if _, err := f.Write(indexBytes); err != nil {
		return fmt.Errorf("asset: write pak index: %w", err)
	}

	if err := writePakHeader(f, cursor, uint64(len(indexBytes))); err != nil {
		return err
	}
	return nil
}

func appendFile(dst *os.File, srcPath string) (uint64, error) {
	src, err := os.Open(srcPath)
	if err != nil {
		return 0, err
	}
	defer src.Close()
	n, err := io.Copy(dst, src)
	if err != nil {
		return 0, err
	}
	return uint64(n), nil
}

func writePakHeader(f *os.File, indexOffset, indexSize uint64) error {
	var header [pakHeaderSize]byte
	copy(header[0:4], pakMagic[:])
	binary.LittleEndian.PutUint32(header[4:8], pakVersion)
	binary.LittleEndian.PutUint64(header[8:16], indexOffset)
	binary.LittleEndian.PutUint64(header[16:24], indexSize)

	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return fmt.Errorf("asset: seek pak header: %w", err)
	}
	if _, err := f.Write(header[:]); err != nil {
		return fmt.Errorf("asset: rewrite pak header: %w", err)
	}
	return nil
}

// PakReader provides random read access into a built PAK without loading
// the whole payload into memory: only the header and JSON index are held
// resident.
type PakReader struct {
	f     *os.File
	index map[string]PakEntry
}

// OpenPak opens path read-only, validates the magic/version, and parses
// its index.
func OpenPak(path string) (*PakReader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("asset: open pak: %w", err)
	}

	var header [pakHeaderSize]byte
	if _, err := io.ReadFull(f, header[:]); err != nil {
		f.Close()
		return nil, fmt.Errorf("asset: read pak header: %w", err)
	}
	if string(header[0:4]) != string(pakMagic[:]) {
		f.Close()
		return nil, fmt.Errorf("asset: not a pak file (bad magic)")
	}
	version := binary.LittleEndian.Uint32(header[4:8])
	if version != pakVersion {
		f.Close()
		return nil, fmt.Errorf("asset: unsupported pak version %d", version)
	}
	indexOffset := binary.LittleEndian.Uint64(header[8:16])
	indexSize := binary.LittleEndian.Uint64(header[16:24])

	if _, err := f.Seek(int64(indexOffset), io.SeekStart); err != nil {
		f.Close()
		return nil, fmt.Errorf("asset: seek pak index: %w", err)
	}
	raw := make([]byte, indexSize)
	if _, err := io.ReadFull(f, raw); err != nil {
		f.Close()
		return nil, fmt.Errorf("asset: read pak index: %w", err)
	}

	var index map[string]PakEntry
	if err := json.Unmarshal(raw, &index); err != nil {
		f.Close()
		return nil, fmt.Errorf("asset: parse pak index: %w", err)
	}

	return &PakReader{f: f, index: index}, nil
}

// Contains reports whether id has an entry in this archive.
func (r *PakReader) Contains(id ID) bool {
	_, ok := r.index[id.String()]
	return ok
}

// Entry returns the raw index entry for id, if present.
func (r *PakReader) Entry(id ID) (PakEntry, bool) {
	e, ok := r.index[id.String()]
	return e, ok
}

// ReadAsset reads exactly entry.Size bytes for id.
func (r *PakReader) ReadAsset(id ID) ([]byte, error) {
	entry, ok := r.index[id.String()]
	if !ok {
		return nil, fmt.Errorf("asset: pak does not contain %s", id)
	}
	buf := make([]byte, entry.Size)
	if _, err := r.f.ReadAt(buf, int64(entry.Offset)); err != nil {
		return nil, fmt.Errorf("asset: read pak entry %s: %w", id, err)
	}
	return buf, nil
}

// Close releases the underlying file handle.
func (r *PakReader) Close() error { return r.f.Close() }
