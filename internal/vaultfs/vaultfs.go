// Package vaultfs is the single seam between the content service and the
// disk. Everything that reads or mutates content goes through FS so the
// backing store can be swapped without touching resolution or indexing code.
package vaultfs

import (
	"io/fs"
	"os"
)

// FS exposes the raw filesystem primitives the content service relies on.
type FS interface {
	ReadFile(path string) ([]byte, error)
	WriteFile(path string, data []byte, perm os.FileMode) error
	Stat(path string) (fs.FileInfo, error)
	ReadDir(path string) ([]fs.DirEntry, error)
	Remove(path string) error
	MkdirAll(path string, perm os.FileMode) error
}

// OS implements FS directly over the local filesystem.
type OS struct{}

func (OS) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

func (OS) WriteFile(path string, data []byte, perm os.FileMode) error {
	return os.WriteFile(path, data, perm)
}

func (OS) Stat(path string) (fs.FileInfo, error) {
	return os.Stat(path)
}

func (OS) ReadDir(path string) ([]fs.DirEntry, error) {
	return os.ReadDir(path)
}

func (OS) Remove(path string) error {
	return os.Remove(path)
}

func (OS) MkdirAll(path string, perm os.FileMode) error {
	return os.MkdirAll(path, perm)
}

// Names extracts entry names from a directory listing.
func Names(entries []fs.DirEntry) []string {
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		names = append(names, entry.Name())
	}
	return names
}
