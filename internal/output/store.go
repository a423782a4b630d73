package output

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"
)

// DefaultDir is where artifacts are saved when no directory is configured.
var DefaultDir = filepath.Join("data", "json")

// TimestampLayout is appended to generated artifact names.
const TimestampLayout = "20060102_150405"

var invalidFilenameChars = regexp.MustCompile(`[<>:"/\\|?*]`)

// SanitizeFilename replaces characters that are unsafe in file names with
// underscores and trims leading and trailing dots and spaces.
func SanitizeFilename(name string) string {
	name = invalidFilenameChars.ReplaceAllString(name, "_")
	return strings.Trim(name, ". ")
}

// SearchFilename names the artifact of a CNR search, or of a descriptor
// search when cnr is empty. The name carries no extension.
func SearchFilename(cnr, caseType, caseNumber, caseYear string, at time.Time) string {
	var base string
	switch {
	case cnr != "":
		base = "search_CNR_" + cnr
	case caseType != "" && caseNumber != "" && caseYear != "":
		base = fmt.Sprintf("search_%s_%s_%s", caseType, caseNumber, caseYear)
	default:
		base = "search_unknown"
	}
	return SanitizeFilename(base + "_" + at.Format(TimestampLayout))
}

// CauseListFilename names a saved cause list for the given internal date.
func CauseListFilename(date string, at time.Time) string {
	return SanitizeFilename(fmt.Sprintf("causelist_%s_%s", date, at.Format(TimestampLayout)))
}

// Store saves and loads JSON artifacts under a directory.
type Store struct {
	dir string
}

// NewStore creates a store rooted at dir, or DefaultDir when dir is empty.
func NewStore(dir string) *Store {
	if dir == "" {
		dir = DefaultDir
	}
	return &Store{dir: dir}
}

// Dir returns the store's directory.
func (s *Store) Dir() string {
	return s.dir
}

// Path resolves name inside the store, adding the .json extension.
func (s *Store) Path(name string) string {
	if !strings.HasSuffix(name, ".json") {
		name += ".json"
	}
	return filepath.Join(s.dir, name)
}

// Save writes v as indented JSON and returns the path and byte count.
// The directory is created when missing; an existing file is replaced.
func (s *Store) Save(name string, v any) (string, int64, error) {
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return "", 0, fmt.Errorf("creating %s: %w", s.dir, err)
	}

	data, err := marshal(v, DefaultIndent)
	if err != nil {
		return "", 0, fmt.Errorf("encoding artifact: %w", err)
	}
	data = append(data, '\n')

	path := s.Path(name)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", 0, fmt.Errorf("writing %s: %w", path, err)
	}
	return path, int64(len(data)), nil
}

// Load decodes the artifact name into v. It reports found=false when the
// file does not exist.
func (s *Store) Load(name string, v any) (bool, error) {
	path := s.Path(name)
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("reading %s: %w", path, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return false, fmt.Errorf("decoding %s: %w", path, err)
	}
	return true, nil
}
