// Package storage abstracts file storage behind a Disk interface with
// local-filesystem and S3 drivers. Media uploads go through the configured
// default disk.
package storage

import "io"

// Disk is a single storage backend.
type Disk interface {
	// Put writes content to path, creating parent directories as needed.
	Put(path string, content []byte) error
	// PutStream writes from r to path.
	PutStream(path string, r io.Reader) error
	// Get returns the full content at path.
	Get(path string) ([]byte, error)
	// GetStream returns a reader for path. The caller closes it.
	GetStream(path string) (io.ReadCloser, error)
	// Exists reports whether path exists.
	Exists(path string) bool
	// Delete removes path. Deleting a missing path is not an error.
	Delete(path string) error
	// Size returns the size of path in bytes.
	Size(path string) (int64, error)
	// URL returns the public URL for path.
	URL(path string) string
}
