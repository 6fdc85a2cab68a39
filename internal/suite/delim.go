package suite

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
)

// fieldSeparator matches the delimiters found in hand-maintained suite
// lists: commas, semicolons and runs of whitespace, in any mixture.
var fieldSeparator = regexp.MustCompile(`[,;\s]+`)

// splitFields splits a suite line into its fields, dropping empty ones so
// that ", ;" style delimiter runs do not produce phantom columns.
func splitFields(line string) []string {
	var fields []string
	for _, f := range fieldSeparator.Split(line, -1) {
		if f != "" {
			fields = append(fields, f)
		}
	}
	return fields
}

// caseFromFields builds a case by best effort: two or more fields are read
// as an ISIL/PPN pair, a single field as a full identifier. Extra fields
// are ignored so annotated lists still parse.
func caseFromFields(fields []string) (Case, bool) {
	switch {
	case len(fields) >= 2:
		return Case{ISIL: fields[0], PPN: fields[1]}, true
	case len(fields) == 1:
		return Case{FullID: fields[0]}, true
	default:
		return Case{}, false
	}
}

// parseDelim reads the delimiter-separated suite format. The first line is
// always a header and skipped; each following non-blank line yields exactly
// one case.
func parseDelim(r io.Reader) ([]Case, error) {
	var cases []Case

	scanner := bufio.NewScanner(r)
	first := true
	for scanner.Scan() {
		line := scanner.Text()
		if first {
			first = false
			continue
		}
		fields := splitFields(line)
		if c, ok := caseFromFields(fields); ok {
			cases = append(cases, c)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan suite lines: %w", err)
	}

	return cases, nil
}
