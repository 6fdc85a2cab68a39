package suite

import (
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// parseMarkdown reads a Markdown suite. Every list item is one case, written
// as "ISIL PPN" or a single full identifier; code spans around identifiers
// are allowed. Prose outside lists is ignored, so suites can carry their own
// documentation.
func parseMarkdown(content []byte) ([]Case, error) {
	md := goldmark.New()
	doc := md.Parser().Parse(text.NewReader(content))

	var cases []Case
	err := ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		item, ok := n.(*ast.ListItem)
		if !ok {
			return ast.WalkContinue, nil
		}
		if c, ok := caseFromFields(splitFields(nodeText(item, content))); ok {
			cases = append(cases, c)
		}
		return ast.WalkSkipChildren, nil
	})
	if err != nil {
		return nil, err
	}

	return cases, nil
}

// nodeText collects the plain text under a node, with spaces at soft line
// breaks so multi-line list items keep their field boundaries.
func nodeText(n ast.Node, source []byte) string {
	var sb strings.Builder
	_ = ast.Walk(n, func(c ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		if t, ok := c.(*ast.Text); ok {
			sb.Write(t.Segment.Value(source))
			if t.SoftLineBreak() || t.HardLineBreak() {
				sb.WriteByte(' ')
			}
		}
		return ast.WalkContinue, nil
	})
	return sb.String()
}
