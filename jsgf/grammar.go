package jsgf

import (
	"fmt"
	"strings"
)

// Rule is a named grammar rule. Name is the bare identifier; the angle
// brackets of the source syntax are a display convention, not part of
// rule identity.
type Rule struct {
	Name      string
	Expansion Node
	Public    bool
}

func (r *Rule) String() string {
	prefix := ""
	if r.Public {
		prefix = "public "
	}
	return fmt.Sprintf("%s<%s> = %s;", prefix, r.Name, r.Expansion)
}

// Grammar holds a set of uniquely named rules. It is constructed once by
// the parser and immutable afterwards; generators share it read-only.
type Grammar struct {
	rules  map[string]*Rule
	order  []string
	public []*Rule
}

// NewGrammar returns an empty grammar.
func NewGrammar() *Grammar {
	return &Grammar{rules: make(map[string]*Rule)}
}

// AddRule inserts a rule. It fails with ErrDuplicateRule if a rule with
// the same name exists. Public rules are also appended to the public list,
// preserving insertion order.
func (g *Grammar) AddRule(r *Rule) error {
	name := NormalizeRuleName(r.Name)
	if _, exists := g.rules[name]; exists {
		return fmt.Errorf("%w: %q", ErrDuplicateRule, name)
	}
	g.rules[name] = r
	g.order = append(g.order, name)
	if r.Public {
		g.public = append(g.public, r)
	}
	return nil
}

// GetRule looks up a rule by name. The name may be given with or without
// angle brackets. The second result reports whether the rule exists.
func (g *Grammar) GetRule(name string) (*Rule, bool) {
	r, ok := g.rules[NormalizeRuleName(name)]
	return r, ok
}

// PublicRules returns the public rules in insertion order.
func (g *Grammar) PublicRules() []*Rule {
	out := make([]*Rule, len(g.public))
	copy(out, g.public)
	return out
}

// RuleNames returns the names of all rules, in insertion order.
func (g *Grammar) RuleNames() []string {
	names := make([]string, len(g.order))
	copy(names, g.order)
	return names
}

// Len returns the number of rules.
func (g *Grammar) Len() int {
	return len(g.rules)
}

func (g *Grammar) String() string {
	var b strings.Builder
	for _, name := range g.RuleNames() {
		b.WriteString(g.rules[name].String())
		b.WriteByte('\n')
	}
	return b.String()
}

// NormalizeRuleName strips a single leading '<' and trailing '>' so that
// "<greeting>" and "greeting" denote the same rule.
func NormalizeRuleName(name string) string {
	name = strings.TrimPrefix(name, "<")
	return strings.TrimSuffix(name, ">")
}
