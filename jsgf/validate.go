package jsgf

import (
	"fmt"
	"sort"
	"strings"
)

// Validate checks the grammar for structural correctness: every nonterminal
// reference must name an existing rule, and at least one rule must be
// public. All problems are collected and reported together in a single
// ValidationError so one validation pass is actionable.
func (g *Grammar) Validate() error {
	var problems []string

	names := g.RuleNames()
	sort.Strings(names)
	for _, name := range names {
		rule := g.rules[name]
		var undefined []string
		for _, ref := range referencedRules(rule.Expansion) {
			if _, ok := g.GetRule(ref); !ok {
				undefined = append(undefined, ref)
			}
		}
		if len(undefined) > 0 {
			problems = append(problems, fmt.Sprintf(
				"rule %q references undefined rules: %s",
				rule.Name, strings.Join(undefined, ", ")))
		}
	}

	if len(g.public) == 0 {
		problems = append(problems, "grammar has no public rule")
	}

	if len(problems) > 0 {
		return &ValidationError{Problems: problems}
	}
	return nil
}

// referencedRules returns every nonterminal name reachable in a node,
// in visiting order, duplicates included.
func referencedRules(node Node) []string {
	var refs []string
	walkNode(node, func(n Node) {
		if nt, ok := n.(*NonTerminal); ok {
			refs = append(refs, nt.Name)
		}
	})
	return refs
}

// walkNode visits node and all of its descendants, depth first.
func walkNode(node Node, visit func(Node)) {
	visit(node)
	switch n := node.(type) {
	case *Terminal, *NonTerminal:
	case *Sequence:
		for _, e := range n.Elements {
			walkNode(e, visit)
		}
	case *Alternative:
		for _, c := range n.Choices {
			walkNode(c.Node, visit)
		}
	case *Optional:
		walkNode(n.Element, visit)
	case *Group:
		walkNode(n.Element, visit)
	}
}
