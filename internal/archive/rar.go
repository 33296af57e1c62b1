package archive

import (
	"bytes"
	"io/fs"
	"os"
	"path"
	"time"

	"github.com/javi11/rarlist"
)

const rarVolumeName = "bundle.rar"

func listRar(data []byte) ([]string, error) {
	files, err := rarlist.ListFilesFS(&memoryFS{name: rarVolumeName, data: data}, rarVolumeName)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(files))
	for _, f := range files {
		names = append(names, f.Name)
	}
	return names, nil
}

// memoryFS exposes a single downloaded RAR volume to rarlist.
type memoryFS struct {
	name string
	data []byte
}

func (m *memoryFS) Open(name string) (fs.File, error) {
	if path.Clean(name) != m.name {
		return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrNotExist}
	}
	return &memoryFile{Reader: bytes.NewReader(m.data), name: m.name, size: int64(len(m.data))}, nil
}

func (m *memoryFS) Stat(name string) (os.FileInfo, error) {
	if path.Clean(name) != m.name {
		return nil, &fs.PathError{Op: "stat", Path: name, Err: fs.ErrNotExist}
	}
	return memoryFileInfo{name: m.name, size: int64(len(m.data))}, nil
}

type memoryFile struct {
	*bytes.Reader
	name string
	size int64
}

func (f *memoryFile) Stat() (fs.FileInfo, error) {
	return memoryFileInfo{name: f.name, size: f.size}, nil
}

func (f *memoryFile) Close() error { return nil }

type memoryFileInfo struct {
	name string
	size int64
}

func (i memoryFileInfo) Name() string       { return i.name }
func (i memoryFileInfo) Size() int64        { return i.size }
func (i memoryFileInfo) Mode() fs.FileMode  { return 0o444 }
func (i memoryFileInfo) ModTime() time.Time { return time.Time{} }
func (i memoryFileInfo) IsDir() bool        { return false }
func (i memoryFileInfo) Sys() interface{}   { return nil }
