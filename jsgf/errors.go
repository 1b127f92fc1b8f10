package jsgf

import (
	"errors"
	"strings"
)

// ErrDuplicateRule is returned by AddRule when a rule with the same name
// already exists in the grammar.
var ErrDuplicateRule = errors.New("jsgf: duplicate rule")

// ValidationError reports every problem found in a single validation pass:
// undefined nonterminal references and the absence of a public rule.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return "jsgf: grammar validation failed:\n" + strings.Join(e.Problems, "\n")
}
