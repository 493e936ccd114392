// Package scan lists directory contents and filters them down to the
// recognized PCM container files.
//
// The listing contract is normalized across platforms: a directory that is
// missing or cannot be opened is an error (the caller treats it as fatal),
// never an empty result. Every returned entry carries a canonicalized
// absolute path with symlinks resolved.
package scan

import (
	"fmt"
	"os"
	"path/filepath"
)

// Kind tags a directory entry as a regular file or a directory.
type Kind uint8

const (
	KindFile Kind = iota
	KindDir
)

func (k Kind) String() string {
	if k == KindDir {
		return "dir"
	}
	return "file"
}

// Entry is one directory entry: its kind and its canonical absolute path.
type Entry struct {
	Kind Kind
	Path string
}

// Classify stats path and reports whether it is a regular file or a
// directory. Anything else (device, socket, broken symlink target) is an
// error; callers treat filesystem state they cannot model as fatal.
func Classify(path string) (Kind, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return 0, fmt.Errorf("stat %s: %w", path, err)
	}
	switch {
	case fi.IsDir():
		return KindDir, nil
	case fi.Mode().IsRegular():
		return KindFile, nil
	default:
		return 0, fmt.Errorf("unsupported path type %s: %s", fi.Mode(), path)
	}
}

// List returns the immediate entries of dir, each canonicalized to an
// absolute symlink-resolved path and classified. The `.` and `..`
// pseudo-entries are included; callers must filter them if unwanted.
// Any listing, canonicalization, or classification failure is returned as
// an error with the offending entry named.
func List(dir string) ([]Entry, error) {
	dirents, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("list directory: %w", err)
	}

	names := make([]string, 0, len(dirents)+2)
	names = append(names, ".", "..")
	for _, d := range dirents {
		names = append(names, d.Name())
	}

	entries := make([]Entry, 0, len(names))
	for _, name := range names {
		path, err := canonicalize(filepath.Join(dir, name))
		if err != nil {
			return nil, fmt.Errorf("resolve %s: %w", filepath.Join(dir, name), err)
		}
		kind, err := Classify(path)
		if err != nil {
			return nil, err
		}
		entries = append(entries, Entry{Kind: kind, Path: path})
	}
	return entries, nil
}

// canonicalize resolves path to its absolute, symlink-free form.
func canonicalize(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	return filepath.EvalSymlinks(abs)
}
