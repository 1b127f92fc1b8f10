package jsgf

import (
	"errors"
	"strings"
	"testing"
)

func TestGrammar_AddAndGet(t *testing.T) {
	g := NewGrammar()
	rule := &Rule{Name: "greeting", Expansion: &Terminal{Text: "hello"}, Public: true}
	if err := g.AddRule(rule); err != nil {
		t.Fatalf("AddRule failed: %v", err)
	}

	got, ok := g.GetRule("greeting")
	if !ok {
		t.Fatal("rule not found")
	}
	if got != rule {
		t.Error("GetRule returned a different rule")
	}

	// Lookup with angle brackets resolves to the same rule.
	got2, ok := g.GetRule("<greeting>")
	if !ok || got2 != rule {
		t.Error("bracketed lookup did not resolve to the same rule")
	}
}

func TestGrammar_AddRuleNormalizesName(t *testing.T) {
	g := NewGrammar()
	if err := g.AddRule(&Rule{Name: "<greeting>", Expansion: &Terminal{Text: "hi"}}); err != nil {
		t.Fatalf("AddRule failed: %v", err)
	}
	if _, ok := g.GetRule("greeting"); !ok {
		t.Error("bracketed rule name was not normalized on insert")
	}
}

func TestGrammar_DuplicateRule(t *testing.T) {
	g := NewGrammar()
	if err := g.AddRule(&Rule{Name: "x", Expansion: &Terminal{Text: "a"}}); err != nil {
		t.Fatalf("AddRule failed: %v", err)
	}

	err := g.AddRule(&Rule{Name: "<x>", Expansion: &Terminal{Text: "b"}})
	if !errors.Is(err, ErrDuplicateRule) {
		t.Errorf("expected ErrDuplicateRule, got %v", err)
	}
}

func TestGrammar_PublicRulesOrder(t *testing.T) {
	g := NewGrammar()
	for _, name := range []string{"c", "a", "b"} {
		rule := &Rule{Name: name, Expansion: &Terminal{Text: name}, Public: true}
		if err := g.AddRule(rule); err != nil {
			t.Fatalf("AddRule(%s) failed: %v", name, err)
		}
	}
	g.AddRule(&Rule{Name: "private", Expansion: &Terminal{Text: "p"}})

	public := g.PublicRules()
	if len(public) != 3 {
		t.Fatalf("expected 3 public rules, got %d", len(public))
	}
	for i, want := range []string{"c", "a", "b"} {
		if public[i].Name != want {
			t.Errorf("public rule %d: expected %q, got %q", i, want, public[i].Name)
		}
	}
}

func TestGrammar_StringInsertionOrder(t *testing.T) {
	g := NewGrammar()
	for _, name := range []string{"zulu", "alpha", "mike"} {
		if err := g.AddRule(&Rule{Name: name, Expansion: &Terminal{Text: name}, Public: true}); err != nil {
			t.Fatalf("AddRule(%s) failed: %v", name, err)
		}
	}

	want := "public <zulu> = zulu;\npublic <alpha> = alpha;\npublic <mike> = mike;\n"
	if got := g.String(); got != want {
		t.Errorf("expected rules rendered in insertion order:\n%q\ngot:\n%q", want, got)
	}

	names := g.RuleNames()
	for i, name := range []string{"zulu", "alpha", "mike"} {
		if names[i] != name {
			t.Errorf("name %d: expected %q, got %q", i, name, names[i])
		}
	}
}

func TestValidate_Valid(t *testing.T) {
	g := NewGrammar()
	g.AddRule(&Rule{Name: "start", Expansion: &NonTerminal{Name: "word"}, Public: true})
	g.AddRule(&Rule{Name: "word", Expansion: &Terminal{Text: "hi"}})

	if err := g.Validate(); err != nil {
		t.Errorf("expected valid grammar, got %v", err)
	}
}

func TestValidate_CollectsAllProblems(t *testing.T) {
	g := NewGrammar()
	// No public rule, and two rules with dangling references.
	g.AddRule(&Rule{Name: "a", Expansion: &NonTerminal{Name: "missing1"}})
	g.AddRule(&Rule{Name: "b", Expansion: &Sequence{Elements: []Node{
		&NonTerminal{Name: "missing2"},
		&NonTerminal{Name: "a"},
	}}})

	err := g.Validate()
	if err == nil {
		t.Fatal("expected validation failure")
	}
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected *ValidationError, got %T", err)
	}
	if len(verr.Problems) != 3 {
		t.Fatalf("expected 3 problems, got %d: %v", len(verr.Problems), verr.Problems)
	}
	msg := err.Error()
	for _, want := range []string{"missing1", "missing2", "no public rule"} {
		if !strings.Contains(msg, want) {
			t.Errorf("error message missing %q: %s", want, msg)
		}
	}
}

func TestValidate_ReferenceInsideOptionalAndGroup(t *testing.T) {
	g := NewGrammar()
	g.AddRule(&Rule{Name: "start", Public: true, Expansion: &Optional{
		Element: &Group{Element: &NonTerminal{Name: "nope"}},
	}})

	err := g.Validate()
	if err == nil || !strings.Contains(err.Error(), "nope") {
		t.Errorf("expected undefined reference inside nested nodes to be reported, got %v", err)
	}
}

func TestDetectCycles_Acyclic(t *testing.T) {
	g := NewGrammar()
	g.AddRule(&Rule{Name: "start", Expansion: &NonTerminal{Name: "mid"}, Public: true})
	g.AddRule(&Rule{Name: "mid", Expansion: &NonTerminal{Name: "leaf"}})
	g.AddRule(&Rule{Name: "leaf", Expansion: &Terminal{Text: "x"}})

	if cycles := g.DetectCycles(); len(cycles) != 0 {
		t.Errorf("expected no cycles, got %v", cycles)
	}
	if g.IsRecursive() {
		t.Error("acyclic grammar reported recursive")
	}
}

func TestDetectCycles_SelfReference(t *testing.T) {
	g := NewGrammar()
	g.AddRule(&Rule{Name: "loop", Public: true, Expansion: &Alternative{Choices: []Choice{
		{Node: &Terminal{Text: "x"}, Weight: 1},
		{Node: &NonTerminal{Name: "loop"}, Weight: 1},
	}}})

	cycles := g.DetectCycles()
	if len(cycles) != 1 {
		t.Fatalf("expected 1 cycle, got %v", cycles)
	}
	want := []string{"loop", "loop"}
	if len(cycles[0]) != 2 || cycles[0][0] != want[0] || cycles[0][1] != want[1] {
		t.Errorf("expected cycle %v, got %v", want, cycles[0])
	}
	if !g.RuleIsRecursive("loop") {
		t.Error("self-referencing rule not reported recursive")
	}
}

func TestDetectCycles_MutualRecursion(t *testing.T) {
	g := NewGrammar()
	g.AddRule(&Rule{Name: "a", Expansion: &NonTerminal{Name: "b"}, Public: true})
	g.AddRule(&Rule{Name: "b", Expansion: &NonTerminal{Name: "a"}})
	g.AddRule(&Rule{Name: "solo", Expansion: &Terminal{Text: "x"}})

	cycles := g.DetectCycles()
	if len(cycles) != 1 {
		t.Fatalf("expected 1 cycle, got %v", cycles)
	}
	if len(cycles[0]) != 3 {
		t.Errorf("expected cycle of length 3 (a b a), got %v", cycles[0])
	}
	if !g.RuleIsRecursive("a") || !g.RuleIsRecursive("<b>") {
		t.Error("cycle members not reported recursive")
	}
	if g.RuleIsRecursive("solo") {
		t.Error("non-member reported recursive")
	}
}

func TestDetectCycles_IgnoresUndefinedReferences(t *testing.T) {
	g := NewGrammar()
	g.AddRule(&Rule{Name: "a", Expansion: &NonTerminal{Name: "ghost"}, Public: true})

	if cycles := g.DetectCycles(); len(cycles) != 0 {
		t.Errorf("undefined reference should not form a cycle, got %v", cycles)
	}
}
