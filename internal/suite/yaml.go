package suite

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// yamlSuite is the top-level YAML suite structure.
type yamlSuite struct {
	Cases []yamlCase `yaml:"cases"`
}

// yamlCase mirrors Case with lowercase keys. Either isil+ppn or id is set.
type yamlCase struct {
	ISIL string `yaml:"isil"`
	PPN  string `yaml:"ppn"`
	ID   string `yaml:"id"`
}

// parseYAML reads a YAML suite file with a top-level "cases" list.
func parseYAML(content []byte) ([]Case, error) {
	var doc yamlSuite
	if err := yaml.Unmarshal(content, &doc); err != nil {
		return nil, fmt.Errorf("parse YAML suite: %w", err)
	}

	cases := make([]Case, 0, len(doc.Cases))
	for _, yc := range doc.Cases {
		cases = append(cases, Case{ISIL: yc.ISIL, PPN: yc.PPN, FullID: yc.ID})
	}
	return cases, nil
}
