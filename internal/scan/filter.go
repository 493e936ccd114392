package scan

import (
	"path/filepath"
	"strings"
)

// Filter selects the file entries whose name ends in a dot followed by one
// of the given extensions (lowercase, no leading dot). Only the extension is
// compared case-insensitively; the rest of the filename is untouched. The
// first matching extension wins, so no entry is emitted twice, and the
// relative input order is preserved.
func Filter(entries []Entry, extensions []string) []Entry {
	var out []Entry
	for _, e := range entries {
		if e.Kind != KindFile {
			continue
		}
		name := filepath.Base(e.Path)
		for _, ext := range extensions {
			// The name must have room for the separating dot in front of
			// the extension.
			if len(name) <= len(ext) {
				continue
			}
			if name[len(name)-len(ext)-1] != '.' {
				continue
			}
			if strings.EqualFold(name[len(name)-len(ext):], ext) {
				out = append(out, e)
				break
			}
		}
	}
	return out
}
