package asset

import (
	"fmt"
	"image"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

type ValidationResults struct {
	Errors   []string
	Warnings []string
}

type Validator struct {
	Dir     *Dir
	Results ValidationResults
}

func NewValidator(dir *Dir) *Validator {
	return &Validator{
		Dir:     dir,
		Results: ValidationResults{},
	}
}

func (v *Validator) Validate() (ValidationResults, error) {
	entries, err := os.ReadDir(v.Dir.Path)
	if err != nil {
		return v.Results, fmt.Errorf("error reading asset directory: %w", err)
	}

	v.validateManifest()
	v.validateFaces()
	v.validateBack()
	v.validateExtraFiles(entries)

	return v.Results, nil
}

func (v *Validator) validateManifest() {
	if v.Dir.Manifest == nil {
		v.Results.Warnings = append(v.Results.Warnings, ManifestFile+" not found")
		return
	}

	if v.Dir.Manifest.Name == "" {
		v.Results.Warnings = append(v.Results.Warnings, "name is not set in "+ManifestFile)
	}
}

// validateFaces checks every face image exists and decodes
func (v *Validator) validateFaces() {
	missing := []string{}
	for _, ref := range FaceRefs() {
		path, err := v.Dir.Find(ref)
		if err != nil {
			missing = append(missing, ref)
			continue
		}
		v.checkDecodes(ref, path)
	}

	if len(missing) > 0 {
		v.Results.Errors = append(v.Results.Errors,
			fmt.Sprintf("missing face images: %s", strings.Join(missing, ", ")))
	}
}

// validateBack checks the shared back image exists and decodes
func (v *Validator) validateBack() {
	path, err := v.Dir.Find(BackRef)
	if err != nil {
		v.Results.Errors = append(v.Results.Errors, fmt.Sprintf("card back image not found: %v", err))
		return
	}
	v.checkDecodes(BackRef, path)
}

func (v *Validator) checkDecodes(ref, path string) {
	f, err := os.Open(path)
	if err != nil {
		v.Results.Errors = append(v.Results.Errors, fmt.Sprintf("cannot open %s: %v", ref, err))
		return
	}
	defer f.Close()

	if _, _, err := image.DecodeConfig(f); err != nil {
		v.Results.Errors = append(v.Results.Errors,
			fmt.Sprintf("cannot decode %s (%s): %v", ref, filepath.Base(path), err))
	}
}

// validateExtraFiles warns about files no reference points at
func (v *Validator) validateExtraFiles(entries []os.DirEntry) {
	known := map[string]bool{BackRef: true}
	for _, ref := range FaceRefs() {
		known[ref] = true
	}

	back := ""
	if v.Dir.Manifest != nil {
		back = v.Dir.Manifest.Back
	}

	extra := []string{}
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || name == ManifestFile || name == back {
			continue
		}
		ext := filepath.Ext(name)
		if !known[strings.TrimSuffix(name, ext)] || !isImageExt(ext) {
			extra = append(extra, name)
		}
	}

	if len(extra) > 0 {
		sort.Strings(extra)
		v.Results.Warnings = append(v.Results.Warnings,
			fmt.Sprintf("unrecognised files: %s", strings.Join(extra, ", ")))
	}
}

func isImageExt(ext string) bool {
	for _, e := range Extensions {
		if strings.EqualFold(e, ext) {
			return true
		}
	}
	return false
}
