// Package catalog finds ANSYS files in a data directory and tells their
// kinds apart.
package catalog

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/samcharles93/ansysio/pkg/binfile"
	"github.com/samcharles93/ansysio/pkg/errs"
)

// EnvDataDir names the data directory when no flag or config sets one.
const EnvDataDir = "ANSYSIO_DATA_DIR"

type Kind string

const (
	KindResult  Kind = "result"
	KindFull    Kind = "full"
	KindArchive Kind = "archive"
	// KindBinary is any other ANSYS binary file.
	KindBinary  Kind = "binary"
	KindUnknown Kind = "unknown"
)

// Entry describes one file in a data directory.
type Entry struct {
	Name   string             `json:"name"`
	Path   string             `json:"-"`
	Size   int64              `json:"size"`
	Kind   Kind               `json:"kind"`
	Format binfile.FileFormat `json:"format,omitempty"`
}

// IsArchivePath reports whether path names a CDB archive, compressed or not.
func IsArchivePath(path string) bool {
	p := strings.ToLower(path)
	return strings.HasSuffix(p, ".cdb") || strings.HasSuffix(p, ".cdb.zst")
}

// Detect classifies the file at path. Archives are recognised by name;
// binary files by the format word of their standard header. A binary
// file whose header cannot be decoded is KindUnknown, not an error.
func Detect(path string) (Kind, *binfile.StandardHeader, error) {
	if IsArchivePath(path) {
		if _, err := os.Stat(path); err != nil {
			return "", nil, err
		}
		return KindArchive, nil, nil
	}
	v, err := binfile.Open(path)
	if err != nil {
		if errors.Is(err, errs.ErrFormat) {
			return KindUnknown, nil, nil
		}
		return "", nil, err
	}
	defer func() { _ = v.Close() }()
	h, err := v.ReadStandardHeader()
	if err != nil {
		if errors.Is(err, errs.ErrFormat) {
			return KindUnknown, nil, nil
		}
		return "", nil, err
	}
	switch h.Format {
	case binfile.FormatResult:
		return KindResult, &h, nil
	case binfile.FormatFull:
		return KindFull, &h, nil
	default:
		return KindBinary, &h, nil
	}
}

// List returns the regular files in dir with their kinds, sorted by name.
// Files of unknown kind are included.
func List(dir string) ([]Entry, error) {
	st, err := os.Stat(dir)
	if err != nil {
		return nil, err
	}
	if !st.IsDir() {
		return nil, fmt.Errorf("data path is not a directory: %s", dir)
	}
	ents, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	out := make([]Entry, 0, len(ents))
	for _, e := range ents {
		if !e.Type().IsRegular() {
			continue
		}
		info, err := e.Info()
		if err != nil {
			return nil, err
		}
		path := filepath.Join(dir, e.Name())
		kind, hdr, err := Detect(path)
		if err != nil {
			return nil, fmt.Errorf("inspect %s: %w", path, err)
		}
		ent := Entry{Name: e.Name(), Path: path, Size: info.Size(), Kind: kind}
		if hdr != nil {
			ent.Format = hdr.Format
		}
		out = append(out, ent)
	}
	slices.SortFunc(out, func(a, b Entry) int { return strings.Compare(a.Name, b.Name) })
	return out, nil
}

// Resolve maps a bare file name to a path inside dir. Names that would
// escape dir are rejected.
func Resolve(dir, name string) (string, error) {
	name = strings.TrimSpace(name)
	if dir == "" {
		return "", errors.New("no data directory configured")
	}
	if name == "" || name != filepath.Base(name) || name == "." || name == ".." {
		return "", fmt.Errorf("invalid file name %q", name)
	}
	path := filepath.Join(dir, name)
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", &errs.NotFoundError{What: "file", Key: name}
		}
		return "", err
	}
	return path, nil
}

// DataDir picks the configured directory, falling back to EnvDataDir.
func DataDir(configured string) string {
	if d := strings.TrimSpace(configured); d != "" {
		return d
	}
	return strings.TrimSpace(os.Getenv(EnvDataDir))
}
