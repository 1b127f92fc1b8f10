package parser

import (
	"errors"
	"strings"
	"testing"

	"github.com/syntactic/JSGFTools/jsgf"
)

func TestParse_SimpleRule(t *testing.T) {
	g, err := ParseString(`public <greeting> = hello ;`)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}

	rule, ok := g.GetRule("greeting")
	if !ok {
		t.Fatal("rule not found")
	}
	if !rule.Public {
		t.Error("expected public rule")
	}
	want := &jsgf.Terminal{Text: "hello"}
	if !rule.Expansion.Equal(want) {
		t.Errorf("expected %v, got %v", want, rule.Expansion)
	}
}

func TestParse_SequenceAndReference(t *testing.T) {
	g, err := ParseString(`
		public <start> = say <word> now ;
		<word> = cheese ;
	`)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}

	rule, _ := g.GetRule("start")
	want := &jsgf.Sequence{Elements: []jsgf.Node{
		&jsgf.Terminal{Text: "say"},
		&jsgf.NonTerminal{Name: "word"},
		&jsgf.Terminal{Text: "now"},
	}}
	if !rule.Expansion.Equal(want) {
		t.Errorf("expected %v, got %v", want, rule.Expansion)
	}
}

func TestParse_Alternation(t *testing.T) {
	g, err := ParseString(`public <x> = a | b cc | d ;`)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}

	rule, _ := g.GetRule("x")
	alt, ok := rule.Expansion.(*jsgf.Alternative)
	if !ok {
		t.Fatalf("expected Alternative, got %T", rule.Expansion)
	}
	if len(alt.Choices) != 3 {
		t.Fatalf("expected 3 choices, got %d", len(alt.Choices))
	}
	for i, c := range alt.Choices {
		if c.Weight != 1.0 {
			t.Errorf("choice %d: expected default weight 1, got %v", i, c.Weight)
		}
	}
	if _, ok := alt.Choices[1].Node.(*jsgf.Sequence); !ok {
		t.Errorf("expected middle choice to be a Sequence, got %T", alt.Choices[1].Node)
	}
}

func TestParse_Weights(t *testing.T) {
	g, err := ParseString(`public <x> = /10/ a | /2.5/ b | c ;`)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}

	rule, _ := g.GetRule("x")
	alt, ok := rule.Expansion.(*jsgf.Alternative)
	if !ok {
		t.Fatalf("expected Alternative, got %T", rule.Expansion)
	}
	weights := alt.Weights()
	expected := []float64{10, 2.5, 1}
	for i, w := range expected {
		if weights[i] != w {
			t.Errorf("weight %d: expected %v, got %v", i, w, weights[i])
		}
	}
}

func TestParse_SingleWeightedBranchKeepsAlternative(t *testing.T) {
	g, err := ParseString(`public <x> = /3/ hello ;`)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}

	rule, _ := g.GetRule("x")
	alt, ok := rule.Expansion.(*jsgf.Alternative)
	if !ok {
		t.Fatalf("weighted single branch should stay an Alternative, got %T", rule.Expansion)
	}
	if len(alt.Choices) != 1 || alt.Choices[0].Weight != 3 {
		t.Errorf("expected one choice with weight 3, got %v", alt.Choices)
	}
}

func TestParse_SingleElementUnwrapped(t *testing.T) {
	g, err := ParseString(`public <x> = hello ;`)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	rule, _ := g.GetRule("x")
	if _, ok := rule.Expansion.(*jsgf.Terminal); !ok {
		t.Errorf("lone terminal should not be wrapped, got %T", rule.Expansion)
	}
}

func TestParse_OptionalAndGroup(t *testing.T) {
	g, err := ParseString(`public <x> = [ please ] ( pass | hand ) it ;`)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}

	rule, _ := g.GetRule("x")
	seq, ok := rule.Expansion.(*jsgf.Sequence)
	if !ok {
		t.Fatalf("expected Sequence, got %T", rule.Expansion)
	}
	if len(seq.Elements) != 3 {
		t.Fatalf("expected 3 elements, got %d", len(seq.Elements))
	}
	if _, ok := seq.Elements[0].(*jsgf.Optional); !ok {
		t.Errorf("expected Optional, got %T", seq.Elements[0])
	}
	grp, ok := seq.Elements[1].(*jsgf.Group)
	if !ok {
		t.Fatalf("expected Group, got %T", seq.Elements[1])
	}
	if _, ok := grp.Element.(*jsgf.Alternative); !ok {
		t.Errorf("expected Alternative inside group, got %T", grp.Element)
	}
}

func TestParse_RuleSpanningLines(t *testing.T) {
	g, err := ParseString(`public <x> =
		north |
		south |
		east |
		west
	;`)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	rule, _ := g.GetRule("x")
	alt, ok := rule.Expansion.(*jsgf.Alternative)
	if !ok {
		t.Fatalf("expected Alternative, got %T", rule.Expansion)
	}
	if len(alt.Choices) != 4 {
		t.Errorf("expected 4 choices, got %d", len(alt.Choices))
	}
}

func TestParse_MultipleRulesOnOneLine(t *testing.T) {
	g, err := ParseString(`public <a> = x ; <b> = y ; public <c> = <b> ;`)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	if g.Len() != 3 {
		t.Errorf("expected 3 rules, got %d", g.Len())
	}
	if len(g.PublicRules()) != 2 {
		t.Errorf("expected 2 public rules, got %d", len(g.PublicRules()))
	}
}

func TestParse_CommentsBetweenRules(t *testing.T) {
	src := `
// names of things
<thing> = ball /* or */ | box ;

/* multi
   line */
public <start> = the <thing> ;
`
	g, err := ParseString(src)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	if g.Len() != 2 {
		t.Errorf("expected 2 rules, got %d", g.Len())
	}
}

func TestParse_RecursiveGrammarAccepted(t *testing.T) {
	g, err := ParseString(`public <s> = x | x <s> ;`)
	if err != nil {
		t.Fatalf("recursive grammar should parse: %v", err)
	}
	if !g.IsRecursive() {
		t.Error("expected recursive grammar")
	}
}

func TestParse_DuplicateRule(t *testing.T) {
	_, err := ParseString(`
		public <x> = a ;
		<x> = b ;
	`)
	if !errors.Is(err, jsgf.ErrDuplicateRule) {
		t.Errorf("expected ErrDuplicateRule, got %v", err)
	}
	if err == nil || !strings.Contains(err.Error(), "line 3") {
		t.Errorf("expected error to report line 3, got %v", err)
	}
}

func TestParse_MissingSemicolon(t *testing.T) {
	_, err := ParseString(`public <x> = hello`)
	var perr *ParseError
	if !errors.As(err, &perr) {
		t.Fatalf("expected *ParseError, got %v", err)
	}
	if !strings.Contains(perr.Msg, "';'") {
		t.Errorf("expected hint about missing ';', got %q", perr.Msg)
	}
	if perr.Line != 1 {
		t.Errorf("expected error at line 1, got %d", perr.Line)
	}
}

func TestParse_MalformedRule(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"missing equals", `public <x> hello ;`},
		{"garbage before rule", `= hello ;`},
		{"unclosed group", `public <x> = ( a | b ;`},
		{"empty branch", `public <x> = a | | b ;`},
		{"unterminated comment at eof", `public <x> = a ; /* trailing`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseString(tt.src)
			var perr *ParseError
			if !errors.As(err, &perr) {
				t.Errorf("expected *ParseError, got %v", err)
			}
		})
	}
}

func TestParse_ErrorReportsRuleStartLine(t *testing.T) {
	_, err := ParseString("\n\npublic <x> = a\n| b\n")
	var perr *ParseError
	if !errors.As(err, &perr) {
		t.Fatalf("expected *ParseError, got %v", err)
	}
	// The rule began on line 3; the truncated definition is blamed there.
	if perr.Line != 3 {
		t.Errorf("expected line 3, got %d", perr.Line)
	}
}

func TestParse_UndefinedReference(t *testing.T) {
	_, err := ParseString(`public <x> = <ghost> ;`)
	var verr *jsgf.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected *ValidationError, got %v", err)
	}
	if !strings.Contains(err.Error(), "ghost") {
		t.Errorf("expected 'ghost' in message, got %v", err)
	}
}

func TestParse_NoPublicRule(t *testing.T) {
	_, err := ParseString(`<x> = hello ;`)
	var verr *jsgf.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected *ValidationError, got %v", err)
	}
}

func TestParseUnvalidated_KeepsBrokenGrammar(t *testing.T) {
	g, err := ParseUnvalidated(strings.NewReader(`<x> = <ghost> ;`))
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	if g.Len() != 1 {
		t.Errorf("expected 1 rule, got %d", g.Len())
	}
	if g.Validate() == nil {
		t.Error("expected validation to fail")
	}
}

func TestParse_Deterministic(t *testing.T) {
	src := `
		public <start> = <greet> [ <name> ] ;
		<greet> = hello | hi ;
		<name> = world ;
	`
	g1, err := ParseString(src)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	g2, err := ParseString(src)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}

	for _, name := range g1.RuleNames() {
		r1, _ := g1.GetRule(name)
		r2, ok := g2.GetRule(name)
		if !ok {
			t.Fatalf("rule %q missing on reparse", name)
		}
		if !r1.Expansion.Equal(r2.Expansion) {
			t.Errorf("rule %q differs between parses", name)
		}
	}
}
