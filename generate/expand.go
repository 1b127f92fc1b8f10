package generate

import (
	"fmt"
	"strings"

	"github.com/syntactic/JSGFTools/cache"
	"github.com/syntactic/JSGFTools/jsgf"
)

// Expander enumerates every string derivable from a grammar rule. Weights
// are ignored entirely: each alternative contributes its full expansion
// set. The expander assumes an acyclic rule graph; on a cyclic grammar the
// depth guard fails with ErrExcessRecursion rather than exhausting memory.
// Callers should consult Grammar.IsRecursive beforehand and warn.
type Expander struct {
	grammar *jsgf.Grammar
	cfg     Config
	cache   *cache.ExpansionCache
}

// NewExpander creates an expander over g.
func NewExpander(g *jsgf.Grammar, cfg Config) *Expander {
	return &Expander{grammar: g, cfg: cfg}
}

// WithCache attaches a per-rule expansion cache. Entries are sound for the
// lifetime of the (immutable) grammar.
func (e *Expander) WithCache(c *cache.ExpansionCache) *Expander {
	e.cache = c
	return e
}

// Expand returns every string derivable from the named rule, in an order
// governed by sequence and alternative order in the source text. A fixed
// grammar always produces the same sequence.
func (e *Expander) Expand(rule string) ([]string, error) {
	run := &expandRun{
		grammar:  e.grammar,
		depth:    make(map[string]int),
		maxDepth: e.cfg.maxDepth(),
		cache:    e.cache,
	}
	out, err := run.expandRule(rule)
	if err != nil {
		return nil, err
	}
	return e.limit(out), nil
}

// ExpandAll expands every public rule in turn, in declaration order, with
// recursion counters reset between rules.
func (e *Expander) ExpandAll() ([]string, error) {
	var out []string
	for _, rule := range e.grammar.PublicRules() {
		run := &expandRun{
			grammar:  e.grammar,
			depth:    make(map[string]int),
			maxDepth: e.cfg.maxDepth(),
			cache:    e.cache,
		}
		strs, err := run.expandRule(rule.Name)
		if err != nil {
			return nil, err
		}
		out = append(out, strs...)
		if e.cfg.Limit > 0 && len(out) >= e.cfg.Limit {
			break
		}
	}
	return e.limit(out), nil
}

func (e *Expander) limit(out []string) []string {
	if e.cfg.Limit > 0 && len(out) > e.cfg.Limit {
		out = out[:e.cfg.Limit]
	}
	return out
}

// expandRun holds the mutable state of one top-level expansion call. A
// fresh run per call keeps recursion counters from leaking between calls
// or between concurrent callers sharing one Expander.
type expandRun struct {
	grammar  *jsgf.Grammar
	depth    map[string]int
	maxDepth int
	cache    *cache.ExpansionCache
}

func (r *expandRun) expandRule(name string) ([]string, error) {
	name = jsgf.NormalizeRuleName(name)
	rule, ok := r.grammar.GetRule(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUndefinedRule, name)
	}

	if r.cache != nil {
		if strs, ok := r.cache.Get(name); ok {
			return strs, nil
		}
	}

	r.depth[name]++
	if r.depth[name] > r.maxDepth {
		return nil, fmt.Errorf("%w: rule %q passed depth %d", ErrExcessRecursion, name, r.maxDepth)
	}
	defer func() { r.depth[name]-- }()

	strs, err := r.walk(rule.Expansion)
	if err != nil {
		return nil, err
	}
	if r.cache != nil {
		r.cache.Put(name, strs)
	}
	return strs, nil
}

// walk computes the possibility list for a node by structural recursion.
func (r *expandRun) walk(node jsgf.Node) ([]string, error) {
	switch n := node.(type) {
	case *jsgf.Terminal:
		return []string{n.Text}, nil

	case *jsgf.NonTerminal:
		return r.expandRule(n.Name)

	case *jsgf.Sequence:
		if len(n.Elements) == 0 {
			return []string{""}, nil
		}
		lists := make([][]string, len(n.Elements))
		for i, e := range n.Elements {
			strs, err := r.walk(e)
			if err != nil {
				return nil, err
			}
			lists[i] = strs
		}
		return crossJoin(lists), nil

	case *jsgf.Alternative:
		var out []string
		for _, c := range n.Choices {
			strs, err := r.walk(c.Node)
			if err != nil {
				return nil, err
			}
			out = append(out, strs...)
		}
		return out, nil

	case *jsgf.Optional:
		strs, err := r.walk(n.Element)
		if err != nil {
			return nil, err
		}
		return append([]string{""}, strs...), nil

	case *jsgf.Group:
		return r.walk(n.Element)
	}

	return nil, fmt.Errorf("generate: unknown node type %T", node)
}

// crossJoin forms every space-joined concatenation across the Cartesian
// product of the per-element lists, in element order. Empty contributions
// are dropped so omitted optionals leave no stray whitespace.
func crossJoin(lists [][]string) []string {
	total := []string{""}
	for _, list := range lists {
		product := make([]string, 0, len(total)*len(list))
		for _, prefix := range total {
			for _, s := range list {
				s = strings.TrimSpace(s)
				switch {
				case prefix == "":
					product = append(product, s)
				case s == "":
					product = append(product, prefix)
				default:
					product = append(product, prefix+" "+s)
				}
			}
		}
		total = product
	}
	return total
}
