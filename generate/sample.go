package generate

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/syntactic/JSGFTools/jsgf"
)

// optionalProbability is the fixed chance that an optional element is
// included in a sampled derivation. It is a constant of the design, not a
// knob.
const optionalProbability = 0.5

// Sampler draws random strings from a grammar, honoring alternative
// weights. Recursive grammars are a supported input: derivation terminates
// almost surely when every rule has a base case, and the depth guard turns
// pathological derivations into an ErrExcessRecursion.
//
// A Sampler owns a single random source and is not safe for concurrent
// use; create one Sampler per goroutine.
type Sampler struct {
	grammar *jsgf.Grammar
	cfg     Config
	rng     *rand.Rand
}

// NewSampler creates a sampler over g, seeded from cfg.Seed when nonzero.
func NewSampler(g *jsgf.Grammar, cfg Config) *Sampler {
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Sampler{
		grammar: g,
		cfg:     cfg,
		rng:     rand.New(rand.NewSource(seed)),
	}
}

// Sample performs one full top-down random derivation from the named rule.
// With an empty rule name, all public rules are folded into one uniform
// choice. Recursion counters are created fresh for every call, so an
// errored derivation cannot poison the next one.
func (s *Sampler) Sample(rule string) (string, error) {
	start, err := s.startNode(rule)
	if err != nil {
		return "", err
	}
	run := &sampleRun{
		grammar:  s.grammar,
		rng:      s.rng,
		depth:    make(map[string]int),
		maxDepth: s.cfg.maxDepth(),
	}
	out, err := run.derive(start)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

// SampleN draws n independent strings.
func (s *Sampler) SampleN(rule string, n int) ([]string, error) {
	out := make([]string, 0, n)
	for i := 0; i < n; i++ {
		str, err := s.Sample(rule)
		if err != nil {
			return nil, err
		}
		out = append(out, str)
	}
	return out, nil
}

// Stream returns an unbounded pull-based sequence of sampled strings.
// Nothing is computed ahead of demand; a consumer cancels by ceasing to
// call Next.
func (s *Sampler) Stream(rule string) *Stream {
	return &Stream{sampler: s, rule: rule}
}

// Stream produces sampled strings one pull at a time.
type Stream struct {
	sampler *Sampler
	rule    string
}

// Next derives one more string.
func (st *Stream) Next() (string, error) {
	return st.sampler.Sample(st.rule)
}

// startNode resolves the derivation entry point.
func (s *Sampler) startNode(rule string) (jsgf.Node, error) {
	if rule != "" {
		r, ok := s.grammar.GetRule(rule)
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUndefinedRule, jsgf.NormalizeRuleName(rule))
		}
		return r.Expansion, nil
	}

	public := s.grammar.PublicRules()
	switch len(public) {
	case 0:
		return nil, ErrNoPublicRules
	case 1:
		return public[0].Expansion, nil
	}
	choices := make([]jsgf.Choice, len(public))
	for i, r := range public {
		choices[i] = jsgf.Choice{Node: r.Expansion, Weight: 1.0}
	}
	return &jsgf.Alternative{Choices: choices}, nil
}

// sampleRun holds the mutable state of one derivation.
type sampleRun struct {
	grammar  *jsgf.Grammar
	rng      *rand.Rand
	depth    map[string]int
	maxDepth int
}

func (r *sampleRun) derive(node jsgf.Node) (string, error) {
	switch n := node.(type) {
	case *jsgf.Terminal:
		return n.Text, nil

	case *jsgf.NonTerminal:
		return r.deriveRule(n.Name)

	case *jsgf.Sequence:
		parts := make([]string, 0, len(n.Elements))
		for _, e := range n.Elements {
			piece, err := r.derive(e)
			if err != nil {
				return "", err
			}
			if piece = strings.TrimSpace(piece); piece != "" {
				parts = append(parts, piece)
			}
		}
		return strings.Join(parts, " "), nil

	case *jsgf.Alternative:
		if len(n.Choices) == 0 {
			return "", nil
		}
		return r.derive(r.choose(n))

	case *jsgf.Optional:
		if r.rng.Float64() < optionalProbability {
			return r.derive(n.Element)
		}
		return "", nil

	case *jsgf.Group:
		return r.derive(n.Element)
	}

	return "", fmt.Errorf("generate: unknown node type %T", node)
}

func (r *sampleRun) deriveRule(name string) (string, error) {
	name = jsgf.NormalizeRuleName(name)
	rule, ok := r.grammar.GetRule(name)
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUndefinedRule, name)
	}

	r.depth[name]++
	if r.depth[name] > r.maxDepth {
		return "", fmt.Errorf("%w: rule %q passed depth %d", ErrExcessRecursion, name, r.maxDepth)
	}
	defer func() { r.depth[name]-- }()

	return r.derive(rule.Expansion)
}

// choose picks a branch by cumulative weight: draw uniform in [0, total),
// take the first choice whose cumulative weight reaches the draw.
func (r *sampleRun) choose(alt *jsgf.Alternative) jsgf.Node {
	total := 0.0
	for _, c := range alt.Choices {
		total += c.Weight
	}
	x := r.rng.Float64() * total

	cum := 0.0
	for _, c := range alt.Choices {
		cum += c.Weight
		if x <= cum {
			return c.Node
		}
	}
	// Float rounding can leave x a hair past the final cumulative sum.
	return alt.Choices[len(alt.Choices)-1].Node
}
