package extension

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/zip"
)

var (
	ErrInvalidArchive = errors.New("invalid extension archive")
	ErrUnsafePath     = errors.New("archive entry escapes target directory")
)

var crxMagic = []byte("Cr24")

// Extractor unpacks CRX packages (and plain zip archives) into a directory.
type Extractor struct{}

func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract unpacks archive into dst, overwriting existing files.
func (e *Extractor) Extract(archive, dst string) error {
	f, err := os.Open(archive)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	info, err := f.Stat()
	if err != nil {
		return err
	}

	offset, err := zipOffset(f)
	if err != nil {
		return err
	}
	if offset >= info.Size() {
		return fmt.Errorf("%w: empty payload", ErrInvalidArchive)
	}

	r, err := zip.NewReader(io.NewSectionReader(f, offset, info.Size()-offset), info.Size()-offset)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidArchive, err)
	}

	if err := os.MkdirAll(dst, 0o755); err != nil {
		return err
	}

	for _, entry := range r.File {
		if err := extractEntry(entry, dst); err != nil {
			return err
		}
	}

	return nil
}

// zipOffset returns where the zip payload starts: after the CRX header for CRX files, at 0 otherwise.
func zipOffset(r io.ReaderAt) (int64, error) {
	header := make([]byte, 16)
	n, err := r.ReadAt(header, 0)
	if err != nil && !errors.Is(err, io.EOF) {
		return 0, err
	}
	if n < 12 || !bytes.Equal(header[:4], crxMagic) {
		return 0, nil
	}

	version := binary.LittleEndian.Uint32(header[4:8])
	switch version {
	case 2:
		if n < 16 {
			return 0, fmt.Errorf("%w: truncated crx2 header", ErrInvalidArchive)
		}
		keyLen := binary.LittleEndian.Uint32(header[8:12])
		sigLen := binary.LittleEndian.Uint32(header[12:16])
		return 16 + int64(keyLen) + int64(sigLen), nil
	case 3:
		headerLen := binary.LittleEndian.Uint32(header[8:12])
		return 12 + int64(headerLen), nil
	default:
		return 0, fmt.Errorf("%w: unsupported crx version %d", ErrInvalidArchive, version)
	}
}

func extractEntry(entry *zip.File, dst string) error {
	target := filepath.Join(dst, entry.Name)
	if !strings.HasPrefix(target, filepath.Clean(dst)+string(os.PathSeparator)) {
		return fmt.Errorf("%w: %s", ErrUnsafePath, entry.Name)
	}

	if entry.FileInfo().IsDir() {
		return os.MkdirAll(target, 0o755)
	}

	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return err
	}

	src, err := entry.Open()
	if err != nil {
		return fmt.Errorf("open %s: %w", entry.Name, err)
	}
	defer func() { _ = src.Close() }()

	out, err := os.OpenFile(target, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, src); err != nil {
		_ = out.Close()
		return fmt.Errorf("write %s: %w", target, err)
	}
	return out.Close()
}
