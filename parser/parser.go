package parser

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/syntactic/JSGFTools/jsgf"
)

// errNeedMore signals that the buffered source ends mid-rule and more
// lines may complete it.
var errNeedMore = errors.New("parser: need more input")

// Parse reads JSGF grammar source from r and returns a validated Grammar.
// Rule definitions may span physical lines, so the parser accumulates lines
// into a buffer and emits each complete definition as soon as it can be
// matched at the head of the buffer. A malformed rule fails with a
// ParseError reporting the line where it began; no partial Grammar is
// returned on any failure.
func Parse(r io.Reader) (*jsgf.Grammar, error) {
	g, err := ParseUnvalidated(r)
	if err != nil {
		return nil, err
	}
	if err := g.Validate(); err != nil {
		return nil, err
	}
	return g, nil
}

// ParseString parses grammar source held in a string.
func ParseString(src string) (*jsgf.Grammar, error) {
	return Parse(strings.NewReader(src))
}

// ParseUnvalidated parses grammar source without the semantic validation
// pass. It is meant for tooling that inspects or reports on grammars whose
// rule references may be broken; most callers want Parse.
func ParseUnvalidated(r io.Reader) (*jsgf.Grammar, error) {
	g := jsgf.NewGrammar()

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	buf := ""
	bufLine := 1
	for scanner.Scan() {
		buf += scanner.Text() + "\n"
		var err error
		buf, bufLine, err = drainRules(g, buf, bufLine, false)
		if err != nil {
			return nil, err
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading grammar source: %w", err)
	}

	// The stream is done: whatever remains must parse completely now.
	if _, _, err := drainRules(g, buf, bufLine, true); err != nil {
		return nil, err
	}
	return g, nil
}

// drainRules matches as many complete rule definitions as possible at the
// head of buf, adds them to g, and returns the unconsumed remainder with
// its starting line number.
func drainRules(g *jsgf.Grammar, buf string, bufLine int, atEOF bool) (string, int, error) {
	for {
		rule, consumed, ruleLine, err := matchRule(buf, bufLine, atEOF)
		if errors.Is(err, errNeedMore) {
			return buf, bufLine, nil
		}
		if err != nil {
			return buf, bufLine, err
		}
		if rule == nil {
			// Only whitespace and comments remain.
			return "", bufLine + strings.Count(buf, "\n"), nil
		}
		if err := g.AddRule(rule); err != nil {
			return buf, bufLine, fmt.Errorf("line %d: %w", ruleLine, err)
		}
		bufLine += strings.Count(buf[:consumed], "\n")
		buf = buf[consumed:]
	}
}

// matchRule attempts to parse one rule definition at the start of buf.
// It returns errNeedMore when buf ends mid-rule and atEOF is false, and a
// nil rule when buf holds nothing but whitespace and comments.
func matchRule(buf string, startLine int, atEOF bool) (*jsgf.Rule, int, int, error) {
	tokens, lerr := lexAll(buf, startLine)
	if lerr != nil {
		if lerr.incomplete && !atEOF {
			return nil, 0, 0, errNeedMore
		}
		return nil, 0, 0, &ParseError{Line: lerr.line, Column: lerr.col, Msg: lerr.msg}
	}
	if tokens[0].Type == TokenEOF {
		return nil, len(buf), 0, nil
	}

	ruleLine := tokens[0].Line
	p := &ruleParser{tokens: tokens}
	rule, consumed, err := p.parseRule()
	if errors.Is(err, errNeedMore) {
		if atEOF {
			return nil, 0, 0, &ParseError{Line: ruleLine,
				Msg: "unexpected end of grammar in rule definition (missing ';'?)"}
		}
		return nil, 0, 0, errNeedMore
	}
	if err != nil {
		return nil, 0, 0, err
	}
	return rule, consumed, ruleLine, nil
}

// ruleParser is a recursive-descent parser over a token slice.
type ruleParser struct {
	tokens []Token
	i      int
}

func (p *ruleParser) cur() Token {
	return p.tokens[p.i]
}

func (p *ruleParser) advance() {
	if p.i < len(p.tokens)-1 {
		p.i++
	}
}

func (p *ruleParser) expect(t TokenType) (Token, error) {
	tok := p.cur()
	if tok.Type == TokenEOF {
		return tok, errNeedMore
	}
	if tok.Type != t {
		return tok, &ParseError{Line: tok.Line, Column: tok.Col,
			Msg: fmt.Sprintf("expected %v, got %v %q", t, tok.Type, tok.Literal)}
	}
	p.advance()
	return tok, nil
}

// parseRule parses: "public"? <name> "=" alternation ";"
// and returns the rule plus the byte offset just past the terminating ';'.
func (p *ruleParser) parseRule() (*jsgf.Rule, int, error) {
	public := false
	if tok := p.cur(); tok.Type == TokenWord {
		if tok.Literal != "public" {
			return nil, 0, &ParseError{Line: tok.Line, Column: tok.Col,
				Msg: fmt.Sprintf("expected rule definition, got token %q", tok.Literal)}
		}
		public = true
		p.advance()
	}

	lhs, err := p.expect(TokenNonTerm)
	if err != nil {
		return nil, 0, err
	}
	if _, err := p.expect(TokenEquals); err != nil {
		return nil, 0, err
	}
	expansion, err := p.parseAlternation()
	if err != nil {
		return nil, 0, err
	}
	semi, err := p.expect(TokenSemi)
	if err != nil {
		return nil, 0, err
	}

	return &jsgf.Rule{
		Name:      jsgf.NormalizeRuleName(lhs.Literal),
		Expansion: expansion,
		Public:    public,
	}, semi.End, nil
}

// parseAlternation parses one or more '|'-separated branches, each with an
// optional /weight/ prefix. A lone unweighted branch is returned directly
// rather than wrapped in a single-choice Alternative.
func (p *ruleParser) parseAlternation() (jsgf.Node, error) {
	var choices []jsgf.Choice
	weighted := false

	for {
		weight := 1.0
		if tok := p.cur(); tok.Type == TokenWeight {
			w, err := strconv.ParseFloat(tok.Literal, 64)
			if err != nil {
				return nil, &ParseError{Line: tok.Line, Column: tok.Col,
					Msg: fmt.Sprintf("invalid weight %q", tok.Literal)}
			}
			weight = w
			weighted = true
			p.advance()
		}

		node, err := p.parseSequence()
		if err != nil {
			return nil, err
		}
		choices = append(choices, jsgf.Choice{Node: node, Weight: weight})

		if p.cur().Type != TokenPipe {
			break
		}
		p.advance()
	}

	if len(choices) == 1 && !weighted {
		return choices[0].Node, nil
	}
	return &jsgf.Alternative{Choices: choices}, nil
}

// parseSequence parses one or more adjacent atoms. A lone atom is returned
// directly rather than wrapped in a single-element Sequence.
func (p *ruleParser) parseSequence() (jsgf.Node, error) {
	var elements []jsgf.Node
	for startsAtom(p.cur().Type) {
		atom, err := p.parseAtom()
		if err != nil {
			return nil, err
		}
		elements = append(elements, atom)
	}

	if len(elements) == 0 {
		tok := p.cur()
		if tok.Type == TokenEOF {
			return nil, errNeedMore
		}
		return nil, &ParseError{Line: tok.Line, Column: tok.Col,
			Msg: fmt.Sprintf("expected token, nonterminal, '(' or '[', got %v %q", tok.Type, tok.Literal)}
	}
	if len(elements) == 1 {
		return elements[0], nil
	}
	return &jsgf.Sequence{Elements: elements}, nil
}

func startsAtom(t TokenType) bool {
	return t == TokenWord || t == TokenNonTerm || t == TokenLParen || t == TokenLBrack
}

func (p *ruleParser) parseAtom() (jsgf.Node, error) {
	tok := p.cur()
	switch tok.Type {
	case TokenWord:
		p.advance()
		return &jsgf.Terminal{Text: tok.Literal}, nil
	case TokenNonTerm:
		p.advance()
		return &jsgf.NonTerminal{Name: tok.Literal}, nil
	case TokenLParen:
		p.advance()
		inner, err := p.parseAlternation()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(TokenRParen); err != nil {
			return nil, err
		}
		return &jsgf.Group{Element: inner}, nil
	case TokenLBrack:
		p.advance()
		inner, err := p.parseAlternation()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(TokenRBrack); err != nil {
			return nil, err
		}
		return &jsgf.Optional{Element: inner}, nil
	}
	return nil, &ParseError{Line: tok.Line, Column: tok.Col,
		Msg: fmt.Sprintf("unexpected %v %q", tok.Type, tok.Literal)}
}
