package gpkg

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"
)

const (
	// Extension is appended to destinations that have none.
	Extension = ".gpkg"
	// DefaultTableName replaces names that sanitize to nothing.
	DefaultTableName = "layer"
	// MaxTableNameLength caps sanitized names, in characters.
	MaxTableNameLength = 63
)

var unsafeRun = regexp.MustCompile(`[^\p{L}\p{M}\p{N}\p{Pc}\-]+`)

// SanitizeTableName turns a display name into a table identifier: every run of
// characters other than letters, combining marks, digits, connector
// punctuation (underscore among them) and hyphen becomes one underscore, leading and trailing underscores are stripped and the result is
// capped at MaxTableNameLength characters.
//
//	SanitizeTableName("My Layer/Test #1") == "My_Layer_Test_1"
func SanitizeTableName(name string) string {
	s := strings.Trim(unsafeRun.ReplaceAllString(name, "_"), "_")
	if utf8.RuneCountInString(s) > MaxTableNameLength {
		s = strings.TrimRight(string([]rune(s)[:MaxTableNameLength]), "_")
	}
	if s == "" {
		return DefaultTableName
	}
	return s
}

// UniquePath returns path, or the first of path__1, path__2, ... (inserted
// before the extension) that does not exist yet. A path without an extension
// gets Extension.
func UniquePath(path string) string {
	ext := filepath.Ext(path)
	if ext == "" {
		ext = Extension
		path += ext
	}
	if !exists(path) {
		return path
	}
	stem := strings.TrimSuffix(path, ext)
	for n := 1; ; n++ {
		candidate := stem + "__" + strconv.Itoa(n) + ext
		if !exists(candidate) {
			return candidate
		}
	}
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return !errors.Is(err, fs.ErrNotExist)
}
