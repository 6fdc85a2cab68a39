// Package suite loads availability-test cases from command-line arguments,
// local files or remote URLs. Suites come in three formats: the traditional
// delimiter-separated list, YAML, and Markdown; the format is detected from
// the file extension.
package suite

// Case is a single availability expectation: a library plus a document, or
// alternatively a full composite identifier handed to the server verbatim.
type Case struct {
	// ISIL identifies the library (e.g. "DE-7").
	ISIL string
	// PPN identifies the catalog record within that library.
	PPN string
	// FullID is a complete identifier used instead of the ISIL/PPN pair.
	FullID string
}

// Valid reports whether the case carries enough information to query:
// either both ISIL and PPN, or a full identifier.
func (c Case) Valid() bool {
	if c.FullID != "" {
		return true
	}
	return c.ISIL != "" && c.PPN != ""
}
