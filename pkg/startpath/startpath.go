// Package startpath parses the operator-supplied list of repository start
// paths into an ordered set of path strings.
package startpath

import (
	"fmt"
	"regexp"
	"strings"
)

// Parse splits paths on the separatorRegex regular expression, trimming
// surrounding whitespace from each piece and dropping pieces that become
// empty. Order is preserved and duplicates are kept.
//
// An empty separatorRegex disables splitting entirely: the whole input is
// returned as one literal path, untrimmed. This is the escape hatch for
// paths that themselves contain the delimiter character.
//
// The only error path is a separator that does not compile as a regular
// expression.
func Parse(paths, separatorRegex string) ([]string, error) {
	if separatorRegex == "" {
		return []string{paths}, nil
	}

	sep, err := regexp.Compile(separatorRegex)
	if err != nil {
		return nil, fmt.Errorf("invalid separator regex %q: %w", separatorRegex, err)
	}

	var out []string
	for _, piece := range sep.Split(paths, -1) {
		piece = strings.TrimSpace(piece)
		if piece == "" {
			continue
		}
		out = append(out, piece)
	}
	return out, nil
}
