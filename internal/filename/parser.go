// Package filename parses uploaded-file names that carry an embedded unique
// identifier, in the form <displayName>_<uuid>.<extension>.
package filename

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"
)

// ErrMalformedName indicates that a candidate file name contains no canonical
// UUID segment. Callers must handle it explicitly.
var ErrMalformedName = errors.New("no unique identifier in file name")

// uuidPattern locates a 36-character hyphenated UUID anywhere in a name.
// The earliest match wins when several are present.
var uuidPattern = regexp.MustCompile(`[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}`)

// unsafeChars matches every character outside the storage-safe alphabet
// (ASCII letters, digits, hyphen, underscore). Matching is per rune, so a
// multi-byte character maps to exactly one placeholder.
var unsafeChars = regexp.MustCompile(`[^a-zA-Z0-9\-_]`)

// ParsedFileName is the decomposition of an uploaded-file name into its
// human-readable prefix, embedded unique identifier, and extension.
// Immutable once constructed.
type ParsedFileName struct {
	DisplayName string // sanitized prefix, may be empty
	UniqueID    string // canonical lowercase hyphenated UUID
	Extension   string // lowercase, no leading dot, may be empty
}

// Parse decomposes rawName into its parts. The display-name candidate is
// everything before the UUID minus one optional "_" separator; the extension
// is everything after the UUID minus one optional "." separator. Returns
// ErrMalformedName when rawName contains no UUID-shaped segment.
func Parse(rawName string) (ParsedFileName, error) {
	loc := uuidPattern.FindStringIndex(rawName)
	if loc == nil {
		return ParsedFileName{}, fmt.Errorf("%w: %q", ErrMalformedName, rawName)
	}

	id, err := uuid.Parse(rawName[loc[0]:loc[1]])
	if err != nil {
		return ParsedFileName{}, fmt.Errorf("%w: %q", ErrMalformedName, rawName)
	}

	display := strings.TrimSuffix(rawName[:loc[0]], "_")
	ext := strings.ToLower(strings.TrimPrefix(rawName[loc[1]:], "."))

	return ParsedFileName{
		DisplayName: Sanitize(display),
		UniqueID:    id.String(),
		Extension:   ext,
	}, nil
}

// Sanitize replaces every character outside the storage-safe alphabet with a
// single underscore. Character count is preserved; the result is stable under
// repeated application.
func Sanitize(name string) string {
	return unsafeChars.ReplaceAllString(name, "_")
}

// MovedFileName returns the canonical name under which the file is relocated
// from temporary to permanent storage: <displayName>_<uniqueID>.<extension>,
// with the extension segment omitted when empty.
func (p ParsedFileName) MovedFileName() string {
	name := p.DisplayName + "_" + p.UniqueID
	if p.Extension != "" {
		name += "." + p.Extension
	}
	return name
}
