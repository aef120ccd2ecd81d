// Package storage defines the vault file-system abstraction for .qdoc sources.
package storage

import "github.com/starford/quire/internal/models"

// Provider is the interface for vault file operations. All paths are
// relative to the vault root.
type Provider interface {
	// List returns metadata for every source file under dir.
	List(dir string) ([]models.DocumentMetadata, error)
	// Read returns the raw bytes of the source at path.
	Read(path string) ([]byte, error)
	// Write atomically writes content to path.
	Write(path string, content []byte) error
	// Delete removes the source at path.
	Delete(path string) error
	// Move renames oldPath to newPath.
	Move(oldPath, newPath string) error
}

// IsSource reports whether name carries the source extension.
func IsSource(name string) bool {
	return len(name) > len(models.SourceExt) && name[len(name)-len(models.SourceExt):] == models.SourceExt
}
