package suite

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Format represents the format of a suite file
type Format int

const (
	// FormatDelim represents the delimiter-separated list format (.csv, .txt
	// and anything unrecognized, for compatibility with hand-written lists)
	FormatDelim Format = iota
	// FormatYAML represents a YAML (.yaml, .yml) suite file
	FormatYAML
	// FormatMarkdown represents a Markdown (.md, .markdown) suite file
	FormatMarkdown
)

// String returns the string representation of the Format
func (f Format) String() string {
	switch f {
	case FormatYAML:
		return "yaml"
	case FormatMarkdown:
		return "markdown"
	default:
		return "delim"
	}
}

// DetectFormat detects the suite format based on file extension. Unknown
// extensions fall back to the delimiter-separated format rather than
// erroring, since the original suite lists carried no extension at all.
func DetectFormat(name string) Format {
	switch strings.ToLower(filepath.Ext(stripQuery(name))) {
	case ".yaml", ".yml":
		return FormatYAML
	case ".md", ".markdown":
		return FormatMarkdown
	default:
		return FormatDelim
	}
}

// stripQuery removes a ?query suffix so extension detection works on URLs.
func stripQuery(name string) string {
	if i := strings.IndexByte(name, '?'); i >= 0 {
		return name[:i]
	}
	return name
}

// Parse parses suite content in the given format.
func Parse(content []byte, format Format) ([]Case, error) {
	switch format {
	case FormatYAML:
		return parseYAML(content)
	case FormatMarkdown:
		return parseMarkdown(content)
	default:
		return parseDelim(bytes.NewReader(content))
	}
}

// Fetcher retrieves the body behind a URL. It matches the Fetch method of
// the client package so suites and DAIA responses share one HTTP path.
type Fetcher func(ctx context.Context, url string) ([]byte, error)

// Load resolves source into a list of cases. A path naming an existing local
// file wins over a URL interpretation; everything else is fetched remotely.
// An unreadable local file is a fatal error, not a failed assertion.
func Load(ctx context.Context, source string, fetch Fetcher) ([]Case, error) {
	if _, err := os.Stat(source); err == nil {
		content, err := os.ReadFile(source)
		if err != nil {
			return nil, fmt.Errorf("read suite file %s: %w", source, err)
		}
		return Parse(content, DetectFormat(source))
	}

	content, err := fetch(ctx, source)
	if err != nil {
		return nil, fmt.Errorf("load suite from %s: %w", source, err)
	}
	return Parse(content, DetectFormat(source))
}
