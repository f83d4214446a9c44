// Package paths provides standardized dataset paths for consistent access
// across the backend.
//
// A dataset root contains service descriptors, request documents, and
// best-known solution documents in fixed subdirectories. All ingest
// components resolve locations through this package so the layout is
// defined in exactly one place.
package paths

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Dataset subdirectories, relative to the configured data root
const (
	Services  = "services"
	Requests  = "requests"
	Solutions = "solutions"
)

// DescriptorPatterns are the descriptor globs recognized by the catalog loader
var DescriptorPatterns = []string{
	"**/*.wsdl",
	"**/*.xml",
	"**/*.json",
	"**/*.yaml",
	"**/*.yml",
	"**/*.toml",
}

// ArchivePatterns are dataset bundle extensions the loader can unpack
var ArchivePatterns = []string{
	"**/*.tar.gz",
	"**/*.tgz",
	"**/*.zst",
	"**/*.zip",
	"**/*.gz",
}

// Dataset resolves locations under one data root
type Dataset struct {
	Root string
}

// ServicesDir returns the service descriptor directory
func (d Dataset) ServicesDir() string {
	return filepath.Join(d.Root, Services)
}

// RequestsDir returns the request document directory
func (d Dataset) RequestsDir() string {
	return filepath.Join(d.Root, Requests)
}

// SolutionsDir returns the best-known solutions directory
func (d Dataset) SolutionsDir() string {
	return filepath.Join(d.Root, Solutions)
}

// StandardDirectories returns all subdirectories a dataset root should have
func (d Dataset) StandardDirectories() []string {
	return []string{
		d.ServicesDir(),
		d.RequestsDir(),
		d.SolutionsDir(),
	}
}

// SafeEntryName cleans an archive entry name and rejects names that could
// escape an extraction root (absolute paths, ".." traversal).
func SafeEntryName(entryName string) (string, error) {
	if entryName == "" {
		return "", fmt.Errorf("empty archive entry name")
	}
	if filepath.IsAbs(entryName) {
		return "", fmt.Errorf("absolute archive entry name: %s", entryName)
	}
	cleaned := filepath.Clean(entryName)
	if cleaned == ".." || strings.HasPrefix(cleaned, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("archive entry escapes destination: %s", entryName)
	}
	return cleaned, nil
}

// ResolveEntry joins an archive entry name onto a destination directory,
// rejecting entries that would escape it. Guards archive extraction against
// path traversal.
func ResolveEntry(destDir, entryName string) (string, error) {
	cleaned, err := SafeEntryName(entryName)
	if err != nil {
		return "", err
	}
	resolved := filepath.Join(destDir, cleaned)
	if !strings.HasPrefix(resolved, filepath.Clean(destDir)+string(filepath.Separator)) {
		return "", fmt.Errorf("archive entry escapes destination: %s", entryName)
	}
	return resolved, nil
}
