package schema

import (
	"path"
	"strings"
)

// NormalizePath unifies path separators to forward slashes.
func NormalizePath(p string) string {
	return strings.ReplaceAll(p, `\`, "/")
}

// NormalizeDocumentPath validates and normalizes an input document path.
func NormalizeDocumentPath(p string) (DocumentPath, error) {
	if strings.TrimSpace(p) == "" {
		return "", ErrInvalidPath
	}
	normalized := NormalizePath(p)
	if strings.HasSuffix(normalized, "/") {
		return "", ErrInvalidPath
	}
	return DocumentPath(normalized), nil
}

// DeriveOutputPath strips one extension from the final element of doc and
// appends suffix and ext. A name made only of a leading dot and letters,
// such as ".profile", has no extension.
func DeriveOutputPath(doc DocumentPath, suffix, ext string) OutputPath {
	dir, file := path.Split(NormalizePath(string(doc)))
	stem := file
	if e := path.Ext(file); e != "" && e != file {
		stem = strings.TrimSuffix(file, e)
	}
	return OutputPath(NormalizePath(dir + stem + suffix + ext))
}
