package source

import (
	"fmt"
	"path/filepath"

	"fortio.org/safecast"
)

// FileTable maps FileIDs to the front end's source file paths.
//
// Unit files record only paths, not contents: the middle end needs file names
// for diagnostics and dumps but never re-reads the sources themselves.
type FileTable struct {
	paths []string
	index map[string]FileID
}

// NewFileTable creates an empty file table.
func NewFileTable() *FileTable {
	return &FileTable{
		index: make(map[string]FileID),
	}
}

// Add registers a path and returns its FileID. Adding the same path twice
// returns the original ID.
func (t *FileTable) Add(path string) FileID {
	p := normalizePath(path)
	if id, ok := t.index[p]; ok {
		return id
	}
	n, err := safecast.Conv[uint32](len(t.paths))
	if err != nil {
		panic(fmt.Errorf("len paths overflow: %w", err))
	}
	id := FileID(n)
	t.paths = append(t.paths, p)
	t.index[p] = id
	return id
}

// Path returns the path for id, or "" if id is unknown.
func (t *FileTable) Path(id FileID) string {
	if t == nil || int(id) >= len(t.paths) {
		return ""
	}
	return t.paths[id]
}

// Len returns the number of registered paths.
func (t *FileTable) Len() int {
	if t == nil {
		return 0
	}
	return len(t.paths)
}

// Paths returns the registered paths in FileID order.
// The returned slice is the table's own storage; do not modify it.
func (t *FileTable) Paths() []string {
	if t == nil {
		return nil
	}
	return t.paths
}

func normalizePath(path string) string {
	return filepath.ToSlash(filepath.Clean(path))
}
