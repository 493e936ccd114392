// Package naming derives output file paths from input paths.
package naming

import (
	"fmt"
	"path/filepath"
	"strings"
)

// OutputPath returns the MP3 sibling of input: same directory, same base
// name, everything after the last dot replaced with "mp3" (always
// lowercase). A filename without a dot is malformed input and an error,
// since there is no extension to replace.
func OutputPath(input string) (string, error) {
	base := filepath.Base(input)
	dot := strings.LastIndexByte(base, '.')
	if dot < 0 {
		return "", fmt.Errorf("no extension separator in filename %q", base)
	}
	return filepath.Join(filepath.Dir(input), base[:dot+1]+"mp3"), nil
}
