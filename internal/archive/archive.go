// Package archive detects subtitle bundle containers and lists the subtitle
// files they hold. Only entry names are read; nothing is extracted.
package archive

import (
	"archive/zip"
	"bytes"
	"errors"
	"fmt"
	"path"
	"sort"
	"strings"

	"github.com/bodgit/sevenzip"
	"github.com/gabriel-vasile/mimetype"

	"subresolver/models"
)

// ErrUnsupported is returned for payloads that are not zip, rar or 7z.
var ErrUnsupported = errors.New("unsupported archive format")

var subtitleExtensions = map[string]struct{}{
	".srt": {},
	".sub": {},
	".ssa": {},
	".ass": {},
	".vtt": {},
}

// Detect identifies the container kind from the payload's magic bytes.
func Detect(data []byte) models.ArchiveKind {
	if len(data) == 0 {
		return models.ArchiveKindUnknown
	}
	// Walk parents so zip-based subtypes still count as zip.
	for mtype := mimetype.Detect(data); mtype != nil; mtype = mtype.Parent() {
		switch {
		case mtype.Is("application/zip"):
			return models.ArchiveKindZip
		case mtype.Is("application/x-rar-compressed"):
			return models.ArchiveKindRar
		case mtype.Is("application/x-7z-compressed"):
			return models.ArchiveKind7z
		}
	}
	return models.ArchiveKindUnknown
}

// IsSubtitleFile reports whether name has a subtitle extension.
func IsSubtitleFile(name string) bool {
	_, ok := subtitleExtensions[strings.ToLower(path.Ext(name))]
	return ok
}

// Lister lists subtitle entries of an in-memory archive.
type Lister struct{}

// NewLister returns a Lister.
func NewLister() *Lister {
	return &Lister{}
}

// List returns the subtitle entry paths in data, sorted, together with the
// detected container kind.
func (l *Lister) List(data []byte) ([]string, models.ArchiveKind, error) {
	kind := Detect(data)

	var (
		names []string
		err   error
	)
	switch kind {
	case models.ArchiveKindZip:
		names, err = listZip(data)
	case models.ArchiveKindRar:
		names, err = listRar(data)
	case models.ArchiveKind7z:
		names, err = list7z(data)
	default:
		return nil, kind, fmt.Errorf("%w (%s)", ErrUnsupported, mimetype.Detect(data).String())
	}
	if err != nil {
		return nil, kind, fmt.Errorf("list %s archive: %w", kind, err)
	}

	return filterSubtitles(names), kind, nil
}

func filterSubtitles(names []string) []string {
	seen := make(map[string]struct{}, len(names))
	out := make([]string, 0, len(names))
	for _, name := range names {
		name = strings.ReplaceAll(name, "\\", "/")
		if !IsSubtitleFile(name) || isMacResourceFork(name) {
			continue
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// isMacResourceFork filters the __MACOSX/._name shadows some zips carry.
func isMacResourceFork(name string) bool {
	return strings.HasPrefix(name, "__MACOSX/") || strings.HasPrefix(path.Base(name), "._")
}

func listZip(data []byte) ([]string, error) {
	reader, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(reader.File))
	for _, f := range reader.File {
		if f.FileInfo().IsDir() {
			continue
		}
		names = append(names, f.Name)
	}
	return names, nil
}

func list7z(data []byte) ([]string, error) {
	reader, err := sevenzip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(reader.File))
	for _, f := range reader.File {
		if f.FileInfo().IsDir() {
			continue
		}
		names = append(names, f.Name)
	}
	return names, nil
}
