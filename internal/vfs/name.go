package vfs

import (
	"net/url"
	"path/filepath"
	"strings"
)

// DefaultNameCanonicalizer turns a `file://` document URI (or a bare
// filesystem path, for imports written as plain paths) into the
// cleaned, slash-normalized path the compiler façade uses as a
// source-unit name. Non-file URIs are returned unchanged — the server
// only ever opens file-scheme documents, but an untranslatable scheme
// should not panic.
func DefaultNameCanonicalizer(uriOrPath string) string {
	if u, err := url.Parse(uriOrPath); err == nil && u.Scheme == "file" {
		return filepath.ToSlash(filepath.Clean(u.Path))
	}
	if strings.Contains(uriOrPath, "://") {
		return uriOrPath
	}
	return filepath.ToSlash(filepath.Clean(uriOrPath))
}
