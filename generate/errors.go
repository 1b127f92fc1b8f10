package generate

import "errors"

var (
	// ErrUndefinedRule is returned when a derivation reaches a nonterminal
	// that names no rule. This can only happen when validation was skipped.
	ErrUndefinedRule = errors.New("generate: undefined rule")

	// ErrExcessRecursion is returned when the recursion depth guard trips.
	// It converts a non-terminating derivation into a reported failure
	// instead of unbounded growth.
	ErrExcessRecursion = errors.New("generate: recursion depth exceeded")

	// ErrNoPublicRules is returned when generation is started without a
	// rule name on a grammar that has no public rules.
	ErrNoPublicRules = errors.New("generate: grammar has no public rules")
)
