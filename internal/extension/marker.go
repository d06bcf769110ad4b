package extension

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

const markerFile = "version.txt"

// Marker is the installed version record kept next to the extension.
type Marker struct {
	path string
}

func NewMarker(extensionDir string) *Marker {
	return &Marker{path: filepath.Join(extensionDir, markerFile)}
}

func (m *Marker) Path() string {
	return m.path
}

// Read returns the installed version. A missing or empty marker means nothing is installed.
func (m *Marker) Read() (string, bool, error) {
	data, err := os.ReadFile(m.path)
	if errors.Is(err, fs.ErrNotExist) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}

	version := strings.TrimRight(string(data), "\r\n")
	if version == "" {
		return "", false, nil
	}
	return version, true, nil
}

// Write replaces the marker content with version.
func (m *Marker) Write(version string) error {
	if err := os.MkdirAll(filepath.Dir(m.path), 0o755); err != nil {
		return err
	}
	tmp := m.path + ".tmp"
	if err := os.WriteFile(tmp, []byte(version), 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, m.path)
}
