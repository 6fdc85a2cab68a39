// Package coverage cross-references the canonical database registry against
// an availability-test suite to find databases no test case exercises.
package coverage

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"sort"
	"unicode"
	"unicode/utf8"

	"github.com/jbalzer/daiacheck/internal/report"
	"github.com/jbalzer/daiacheck/internal/suite"
)

// Fetcher retrieves the body behind a URL.
type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// opacPattern matches registry URLs naming a GBV OPAC database. The suffix
// maps to an ISIL via first-letter capitalization ("opac-de-hil2" becomes
// "DE-Hil2"). This is the registry's own naming convention, preserved
// verbatim; it is not a general URL-to-ISIL algorithm.
var opacPattern = regexp.MustCompile(`/opac-de-([0-9a-z-]+)$`)

// isilFromURL derives the ISIL a registry entry stands for, if any.
func isilFromURL(u string) (string, bool) {
	m := opacPattern.FindStringSubmatch(u)
	if m == nil {
		return "", false
	}
	suffix := m[1]
	r, size := utf8.DecodeRuneInString(suffix)
	return "DE-" + string(unicode.ToUpper(r)) + suffix[size:], true
}

// registryDocument is the JSON-LD shape of the registry endpoint. Only the
// subjectOf list matters; its entries vary between plain URL strings and
// objects carrying the URL under "uri" or "@id".
type registryDocument struct {
	SubjectOf []json.RawMessage `json:"subjectOf"`
}

// entryURL extracts the URL from a subjectOf entry, tolerating both shapes.
func entryURL(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var obj struct {
		URI string `json:"uri"`
		ID  string `json:"@id"`
	}
	if err := json.Unmarshal(raw, &obj); err == nil {
		if obj.URI != "" {
			return obj.URI
		}
		return obj.ID
	}
	return ""
}

// ParseRegistry derives the expected ISIL set from a registry JSON-LD body.
func ParseRegistry(body []byte) (map[string]bool, error) {
	var doc registryDocument
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, fmt.Errorf("parse registry document: %w", err)
	}

	isils := make(map[string]bool)
	for _, raw := range doc.SubjectOf {
		if isil, ok := isilFromURL(entryURL(raw)); ok {
			isils[isil] = true
		}
	}
	return isils, nil
}

// Check fetches the registry from registryURL and asserts that every
// database it lists is covered by at least one test case. Each covered ISIL
// records one passing assertion; each uncovered ISIL records one failure,
// reported in lexicographic order.
//
// A failed registry fetch records a single failed assertion, and a malformed
// registry document reads as an empty one; neither aborts the run.
func Check(ctx context.Context, fetcher Fetcher, registryURL string, cases []suite.Case, rep *report.Reporter) {
	body, err := fetcher.Fetch(ctx, registryURL)
	if err != nil {
		rep.Fail(registryURL)
		return
	}

	expected, err := ParseRegistry(body)
	if err != nil {
		expected = nil
	}

	for _, c := range cases {
		if expected[c.ISIL] {
			delete(expected, c.ISIL)
			rep.Pass("tests exist for " + c.ISIL)
		}
	}

	missing := make([]string, 0, len(expected))
	for isil := range expected {
		missing = append(missing, isil)
	}
	sort.Strings(missing)
	for _, isil := range missing {
		rep.Fail("no tests for " + isil)
	}
}
