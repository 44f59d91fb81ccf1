package asset

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// ErrAssetNotFound is returned when no image exists for a reference
var ErrAssetNotFound = errors.New("asset not found")

// ManifestFile is the optional description of an asset directory
const ManifestFile = "assets.toml"

// Extensions lists the image formats that can be decoded, in lookup order
var Extensions = []string{".png", ".jpg", ".jpeg", ".gif"}

// Manifest describes an asset directory
type Manifest struct {
	Name    string `toml:"name"`
	Author  string `toml:"author"`
	License string `toml:"license"`
	// Back overrides the file used for BackRef
	Back string `toml:"back"`
}

// Dir is a directory of card images named by reference
type Dir struct {
	Path     string
	Manifest *Manifest
}

// Open reads an asset directory and its manifest, if any
func Open(path string) (*Dir, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("asset directory not found: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("asset path %s is not a directory", path)
	}

	d := &Dir{Path: path}

	manifestPath := filepath.Join(path, ManifestFile)
	if _, err := os.Stat(manifestPath); err == nil {
		var m Manifest
		if _, err := toml.DecodeFile(manifestPath, &m); err != nil {
			return nil, fmt.Errorf("error parsing %s: %w", ManifestFile, err)
		}
		d.Manifest = &m
	}

	return d, nil
}

// Name returns the manifest name, or the directory name without one
func (d *Dir) Name() string {
	if d.Manifest != nil && d.Manifest.Name != "" {
		return d.Manifest.Name
	}
	return filepath.Base(d.Path)
}

// Find returns the image file for a reference
func (d *Dir) Find(ref string) (string, error) {
	if ref == BackRef && d.Manifest != nil && d.Manifest.Back != "" {
		p := filepath.Join(d.Path, d.Manifest.Back)
		if _, err := os.Stat(p); err == nil {
			return p, nil
		}
		return "", fmt.Errorf("%w: %s (manifest back %s)", ErrAssetNotFound, ref, d.Manifest.Back)
	}

	for _, ext := range Extensions {
		p := filepath.Join(d.Path, ref+ext)
		if _, err := os.Stat(p); err == nil {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w: %s in %s", ErrAssetNotFound, ref, d.Path)
}
