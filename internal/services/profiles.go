package services

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"go.uber.org/zap"
)

// Profiles manages the per-account browser profile directories under root.
type Profiles struct {
	root  string
	count int
}

func NewProfiles(root string, count int) *Profiles {
	return &Profiles{root: root, count: count}
}

func (p *Profiles) Root() string {
	return p.root
}

// Dir returns the profile directory of the account at index.
func (p *Profiles) Dir(index int) string {
	return filepath.Join(p.root, strconv.Itoa(index))
}

// EnsureAll creates missing profile directories. Existing ones are left untouched.
func (p *Profiles) EnsureAll() error {
	for i := 0; i < p.count; i++ {
		dir := p.Dir(i)
		_, err := os.Stat(dir)
		if err == nil {
			continue
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("stat profile %s: %w", dir, err)
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create profile %s: %w", dir, err)
		}
		zap.S().Named("profiles").Debugw("profile directory created", "dir", dir)
	}
	return nil
}

// RecreateAll removes every profile directory and creates it again empty. All persisted browser
// storage, cookies included, is lost.
func (p *Profiles) RecreateAll() error {
	for i := 0; i < p.count; i++ {
		dir := p.Dir(i)
		if err := os.RemoveAll(dir); err != nil {
			return fmt.Errorf("remove profile %s: %w", dir, err)
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create profile %s: %w", dir, err)
		}
	}
	zap.S().Named("profiles").Infow("profile directories recreated", "root", p.root, "count", p.count)
	return nil
}

// Discover lists the names of the existing profile subdirectories. Read errors yield an empty list.
func (p *Profiles) Discover() []string {
	entries, err := os.ReadDir(p.root)
	if err != nil {
		zap.S().Named("profiles").Errorw("failed to read profile root", "root", p.root, "error", err)
		return []string{}
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names
}
