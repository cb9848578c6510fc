package types

import (
	"io"
	"io/fs"
	"time"
)

// FS is the filesystem interface required for fman commands.
// Implementations wrap the OS filesystem or an in-memory one for tests.
type FS interface {
	// File operations
	Stat(name string) (fs.FileInfo, error)
	Lstat(name string) (fs.FileInfo, error)
	Open(name string) (io.ReadCloser, error)
	Create(name string) (io.WriteCloser, error)
	ReadFile(name string) ([]byte, error)
	WriteFile(name string, data []byte, perm fs.FileMode) error
	Chtimes(name string, atime, mtime time.Time) error

	// Directory operations
	Mkdir(path string, perm fs.FileMode) error
	MkdirAll(path string, perm fs.FileMode) error
	ReadDir(name string) ([]fs.DirEntry, error)

	// Other operations
	Rename(oldpath, newpath string) error
	Remove(name string) error
	RemoveAll(path string) error
}

// ProgressFunc reports execution progress to whoever is listening.
// Called repeatedly during a command run: (33, "copied a.txt"), (66, ...).
// A nil ProgressFunc is valid and means nobody is listening.
type ProgressFunc func(percent int, message string)
