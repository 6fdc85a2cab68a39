package coverage

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jbalzer/daiacheck/internal/client"
	"github.com/jbalzer/daiacheck/internal/report"
	"github.com/jbalzer/daiacheck/internal/suite"
)

func TestIsilFromURL(t *testing.T) {
	tests := []struct {
		name string
		url  string
		isil string
		ok   bool
	}{
		{"numeric suffix", "http://uri.gbv.de/database/opac-de-7", "DE-7", true},
		{"letter suffix capitalized", "http://uri.gbv.de/database/opac-de-hil2", "DE-Hil2", true},
		{"multi segment suffix", "http://uri.gbv.de/database/opac-de-ma9", "DE-Ma9", true},
		{"unrelated database", "http://uri.gbv.de/database/gvk", "", false},
		{"opac prefix mid-path", "http://uri.gbv.de/database/opac-de-7/extra", "", false},
		{"empty string", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isil, ok := isilFromURL(tt.url)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.isil, isil)
		})
	}
}

func TestParseRegistryEntryShapes(t *testing.T) {
	body := `{
		"subjectOf": [
			"http://uri.gbv.de/database/opac-de-a",
			{"uri": "http://uri.gbv.de/database/opac-de-b"},
			{"@id": "http://uri.gbv.de/database/opac-de-c"},
			{"uri": "http://uri.gbv.de/database/gvk"},
			42
		]
	}`

	isils, err := ParseRegistry([]byte(body))
	require.NoError(t, err)
	assert.Equal(t, map[string]bool{"DE-A": true, "DE-B": true, "DE-C": true}, isils)
}

func TestParseRegistryMalformed(t *testing.T) {
	_, err := ParseRegistry([]byte("not json"))
	assert.Error(t, err)
}

func registryServer(t *testing.T, body string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/ld+json")
		w.Write([]byte(body))
	}))
}

func TestCheckReportsUncoveredDatabases(t *testing.T) {
	server := registryServer(t, `{"subjectOf": [
		"http://uri.gbv.de/database/opac-de-a",
		"http://uri.gbv.de/database/opac-de-b",
		"http://uri.gbv.de/database/opac-de-c"
	]}`)
	defer server.Close()

	buf := new(bytes.Buffer)
	rep := report.New(buf, report.WithTAP(true))
	cases := []suite.Case{
		{ISIL: "DE-A", PPN: "1"},
		{ISIL: "DE-B", PPN: "2"},
	}

	Check(context.Background(), client.New(2*time.Second, ""), server.URL, cases, rep)

	assert.Equal(t, 3, rep.Total())
	assert.Equal(t, 1, rep.Failed())
	assert.Contains(t, buf.String(), "not ok 3 - no tests for DE-C")
}

func TestCheckFailureOrderIsLexicographic(t *testing.T) {
	server := registryServer(t, `{"subjectOf": [
		"http://uri.gbv.de/database/opac-de-c",
		"http://uri.gbv.de/database/opac-de-a",
		"http://uri.gbv.de/database/opac-de-b"
	]}`)
	defer server.Close()

	buf := new(bytes.Buffer)
	rep := report.New(buf)

	Check(context.Background(), client.New(2*time.Second, ""), server.URL, nil, rep)

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[0], "DE-A")
	assert.Contains(t, lines[1], "DE-B")
	assert.Contains(t, lines[2], "DE-C")
}

func TestCheckDuplicateCasesCountOnce(t *testing.T) {
	server := registryServer(t, `{"subjectOf": ["http://uri.gbv.de/database/opac-de-a"]}`)
	defer server.Close()

	rep := report.New(new(bytes.Buffer))
	cases := []suite.Case{
		{ISIL: "DE-A", PPN: "1"},
		{ISIL: "DE-A", PPN: "2"},
	}

	Check(context.Background(), client.New(2*time.Second, ""), server.URL, cases, rep)
	assert.Equal(t, 1, rep.Total())
	assert.Equal(t, 0, rep.Failed())
}

func TestCheckRegistryFetchErrorCountsAsOneFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	rep := report.New(new(bytes.Buffer))
	Check(context.Background(), client.New(2*time.Second, ""), server.URL, nil, rep)
	assert.Equal(t, 1, rep.Total())
	assert.Equal(t, 1, rep.Failed())
}

func TestCheckMalformedRegistryReadsAsEmpty(t *testing.T) {
	server := registryServer(t, "not json at all")
	defer server.Close()

	rep := report.New(new(bytes.Buffer))
	Check(context.Background(), client.New(2*time.Second, ""), server.URL, nil, rep)
	assert.Equal(t, 0, rep.Total())
}
