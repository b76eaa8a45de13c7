// Package asset implements LampyEngine's on-disk content-addressed asset
// pipeline: deterministic 128-bit asset identifiers, the persistent asset
// database, extension- and type-indexed importer/writer hubs, the PAK
// archive format, and the filesystem-watch ingestion loop that keeps the
// database in sync with source content.
package asset

import (
	"strings"

	"github.com/google/uuid"
)

// ID is LampyEngine's opaque 128-bit asset identifier. It is deterministic
// from a normalized source path: two different-but-equivalent spellings of
// the same path (different case on a case-insensitive filesystem, mixed
// path separators) always produce the same ID.
type ID uuid.UUID

// Nil is the zero-value ID used as "no asset".
var Nil = ID(uuid.Nil)

// lampyNamespace anchors every path-derived ID so it is stable across
// processes and machines. It is a fixed, arbitrary UUID baked into the
// engine — changing it would silently re-derive every asset ID in every
// project, so it must never change once shipped.
var lampyNamespace = uuid.MustParse("8f14e45f-ceea-467e-bf3b-3d1a3a6e7c1a")

// caseInsensitiveFS controls whether path normalization lowercases the
// input, matching the host filesystem's case-folding behavior. Overridable
// for tests that want to exercise the opposite convention.
var caseInsensitiveFS = true

// SetCaseInsensitiveFS lets the engine configuration override the default
// (case-insensitive) assumption, e.g. when running against a case-
// sensitive Linux content root.
func SetCaseInsensitiveFS(insensitive bool) { caseInsensitiveFS = insensitive }

// NormalizePath converts backslashes to forward slashes and, on a case-
// insensitive filesystem, lowercases the result. This is the canonical
// form every stored sourcePath and every derived ID is computed from.
func NormalizePath(p string) string {
	p = strings.ReplaceAll(p, "\\", "/")
	if caseInsensitiveFS {
		p = strings.ToLower(p)
	}
	return p
}

// FromPath derives a deterministic ID from any path string by normalizing
// it and hashing it into a namespace-scoped SHA-1 UUID (RFC 4122 version
// 5). Passing two strings that normalize identically always yields the
// same ID, in the same process or a different one.
func FromPath(path string) ID {
	return ID(uuid.NewSHA1(lampyNamespace, []byte(NormalizePath(path))))
}

// uuidShapeLen is the length of a canonical "xxxxxxxx-xxxx-xxxx-xxxx-xxxxxxxxxxxx" string.
const uuidShapeLen = 36

// FromCanonicalString constructs an ID from a 36-character canonical UUID
// string. ok is false if input does not match that shape.
func FromCanonicalString(input string) (id ID, ok bool) {
	if len(input) != uuidShapeLen {
		return Nil, false
	}
	u, err := uuid.Parse(input)
	if err != nil {
		return Nil, false
	}
	return ID(u), true
}

// MakeRandomID synthesizes a fresh ID for assets with no stable source
// path (procedurally generated content, in-memory materials).
func MakeRandomID() ID {
	return ID(uuid.New())
}

// IsNil reports whether id is the zero value.
func (id ID) IsNil() bool { return id == Nil }

// String renders the canonical 36-character form.
func (id ID) String() string { return uuid.UUID(id).String() }

// MarshalText implements encoding.TextMarshaler so ID can be a JSON object
// key (required by AssetDatabase's on-disk guidString → AssetInfo map).
func (id ID) MarshalText() ([]byte, error) {
	return []byte(id.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (id *ID) UnmarshalText(text []byte) error {
	u, err := uuid.Parse(string(text))
	if err != nil {
		return err
	}
	*id = ID(u)
	return nil
}
