package analyzer

import (
	"strings"

	"gopkg.in/yaml.v3"
)

// Docstring is per-table/per-column metadata embedded as a YAML block in
// comment lines immediately preceding a CREATE TABLE statement, each line
// prefixed with "--!".
type Docstring struct {
	Owner       string            `yaml:"owner"`
	Description string            `yaml:"description"`
	Columns     map[string]string `yaml:"columns"`
}

// ErrDocstringMissingSpace reports a "--!" line with no space before the
// YAML content.
type ErrDocstringMissingSpace struct {
	Line string
}

func (e ErrDocstringMissingSpace) Error() string {
	return "YAML docstring line missing space after `--!`: " + e.Line
}

// parseDocstring extracts and parses the "--!"-prefixed YAML block out of
// the comment lines immediately preceding a statement. Returns (nil, nil)
// when no such block is present.
func parseDocstring(precedingComments []string) (*Docstring, error) {
	var yamlLines []string
	parsing := false
	for _, line := range precedingComments {
		trimmed := strings.TrimLeft(line, " \t")
		if strings.HasPrefix(trimmed, "--!") {
			parsing = true
			rest := trimmed[3:]
			if rest != "" && !strings.HasPrefix(rest, " ") {
				return nil, ErrDocstringMissingSpace{Line: line}
			}
			yamlLines = append(yamlLines, strings.TrimPrefix(rest, " "))
		} else if parsing {
			break
		}
	}
	if len(yamlLines) == 0 {
		return nil, nil
	}
	var doc Docstring
	if err := yaml.Unmarshal([]byte(strings.Join(yamlLines, "\n")), &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}
