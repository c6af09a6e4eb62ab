// Package datasource loads question/answer content for faqview from local
// files (JSON, JSON Lines, YAML, SQLite) and HTTP(S) endpoints.
package datasource

import (
	"context"
	"fmt"
	"net/url"
	"path/filepath"
	"strings"

	"github.com/vanderheijden86/faqview/pkg/model"
)

// SourceType identifies the kind of content source.
type SourceType string

const (
	SourceTypeJSON   SourceType = "json"
	SourceTypeJSONL  SourceType = "jsonl"
	SourceTypeYAML   SourceType = "yaml"
	SourceTypeSQLite SourceType = "sqlite"
	SourceTypeHTTP   SourceType = "http"
	SourceTypeMulti  SourceType = "multi"
)

// Source delivers an ordered list of questions. Implementations must be safe
// to call again for a reload.
type Source interface {
	FetchQuestions(ctx context.Context) ([]model.Question, error)
	String() string
}

// Document is the on-disk and on-the-wire content shape.
type Document struct {
	Questions []model.Question `json:"questions" yaml:"questions"`
}

// DetectType classifies a location by scheme or file extension.
func DetectType(location string) (SourceType, error) {
	if u, err := url.Parse(location); err == nil && (u.Scheme == "http" || u.Scheme == "https") {
		if u.Host == "" {
			return "", fmt.Errorf("invalid URL %q: missing host", location)
		}
		return SourceTypeHTTP, nil
	}
	switch strings.ToLower(filepath.Ext(location)) {
	case ".json":
		return SourceTypeJSON, nil
	case ".jsonl", ".ndjson":
		return SourceTypeJSONL, nil
	case ".yaml", ".yml":
		return SourceTypeYAML, nil
	case ".db", ".sqlite", ".sqlite3":
		return SourceTypeSQLite, nil
	default:
		return "", fmt.Errorf("unsupported content source %q (want .json, .jsonl, .ndjson, .yaml, .yml, .db, .sqlite, .sqlite3 or an http(s) URL)", location)
	}
}

// Open returns the Source for location. Nothing is read until
// FetchQuestions is called.
func Open(location string) (Source, error) {
	location = strings.TrimSpace(location)
	if location == "" {
		return nil, fmt.Errorf("empty content source")
	}
	typ, err := DetectType(location)
	if err != nil {
		return nil, err
	}
	switch typ {
	case SourceTypeHTTP:
		return NewHTTPSource(location), nil
	case SourceTypeJSON:
		return NewJSONFile(location), nil
	case SourceTypeJSONL:
		return NewJSONLFile(location), nil
	case SourceTypeYAML:
		return NewYAMLFile(location), nil
	default:
		return NewSQLiteSource(location), nil
	}
}

// OpenAll opens every location and combines them with Multi. A single
// location is returned as is.
func OpenAll(locations []string) (Source, error) {
	if len(locations) == 0 {
		return nil, fmt.Errorf("no content source given")
	}
	sources := make([]Source, 0, len(locations))
	for _, loc := range locations {
		src, err := Open(loc)
		if err != nil {
			return nil, err
		}
		sources = append(sources, src)
	}
	if len(sources) == 1 {
		return sources[0], nil
	}
	return Multi(sources...), nil
}

// LocalPaths returns the file paths behind src, for the watcher. HTTP
// sources have none.
func LocalPaths(src Source) []string {
	switch s := src.(type) {
	case *JSONFile:
		return []string{s.Path}
	case *JSONLFile:
		return []string{s.Path}
	case *YAMLFile:
		return []string{s.Path}
	case *SQLiteSource:
		return []string{s.Path}
	case *MultiSource:
		var paths []string
		for _, child := range s.Sources() {
			paths = append(paths, LocalPaths(child)...)
		}
		return paths
	default:
		return nil
	}
}

// ToItems converts fetched questions into indexed items.
func ToItems(questions []model.Question) []model.Item {
	return model.Items(questions)
}
