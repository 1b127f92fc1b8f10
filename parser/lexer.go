// Package parser converts JSGF grammar source text into a validated
// jsgf.Grammar. Input arrives as a character stream; file handling belongs
// to the caller.
package parser

import (
	"fmt"
	"strings"
)

// TokenType identifies a lexer token.
type TokenType int

const (
	TokenEOF TokenType = iota
	TokenWord    // bare token: alphanumerics plus '_-,.?@ and apostrophe
	TokenNonTerm // <name>, Literal holds the bare name
	TokenWeight  // /number/, Literal holds the digits-and-dots text
	TokenEquals  // =
	TokenSemi    // ;
	TokenPipe    // |
	TokenLParen  // (
	TokenRParen  // )
	TokenLBrack  // [
	TokenRBrack  // ]
)

func (t TokenType) String() string {
	switch t {
	case TokenEOF:
		return "end of input"
	case TokenWord:
		return "token"
	case TokenNonTerm:
		return "nonterminal"
	case TokenWeight:
		return "weight"
	case TokenEquals:
		return "'='"
	case TokenSemi:
		return "';'"
	case TokenPipe:
		return "'|'"
	case TokenLParen:
		return "'('"
	case TokenRParen:
		return "')'"
	case TokenLBrack:
		return "'['"
	case TokenRBrack:
		return "']'"
	}
	return "unknown"
}

// Token is a single lexer token with its source position.
type Token struct {
	Type    TokenType
	Literal string
	Line    int
	Col     int
	End     int // byte offset just past the token
}

func (t Token) String() string {
	return fmt.Sprintf("Token{%v, %q, %d:%d}", t.Type, t.Literal, t.Line, t.Col)
}

// lexError describes a lexical failure. incomplete marks input that ended
// mid-construct (unterminated comment, nonterminal, or weight) and may
// become valid once more lines arrive.
type lexError struct {
	line, col  int
	msg        string
	incomplete bool
}

// wordChars is the punctuation allowed inside a bare token.
const wordChars = "'_-,.?@"

// refChars is the broader punctuation allowed inside a <nonterminal> name.
const refChars = `$_:;,=|/\()[]@#%!^&~`

func isWordChar(ch byte) bool {
	return ch >= 'a' && ch <= 'z' || ch >= 'A' && ch <= 'Z' ||
		ch >= '0' && ch <= '9' || strings.IndexByte(wordChars, ch) >= 0
}

func isRefChar(ch byte) bool {
	return ch >= 'a' && ch <= 'z' || ch >= 'A' && ch <= 'Z' ||
		ch >= '0' && ch <= '9' || strings.IndexByte(refChars, ch) >= 0
}

func isDigitOrDot(ch byte) bool {
	return ch >= '0' && ch <= '9' || ch == '.'
}

// lexer tokenizes grammar source. Comments are skipped here, which keeps
// line numbering intact for error reporting: the lexer counts every
// newline it passes, inside comments included.
type lexer struct {
	input string
	pos   int
	line  int
	col   int
}

// newLexer creates a lexer whose first line is numbered startLine.
func newLexer(input string, startLine int) *lexer {
	return &lexer{input: input, line: startLine, col: 1}
}

func (l *lexer) advance() {
	if l.pos < len(l.input) {
		if l.input[l.pos] == '\n' {
			l.line++
			l.col = 1
		} else {
			l.col++
		}
		l.pos++
	}
}

func (l *lexer) peek() byte {
	if l.pos+1 >= len(l.input) {
		return 0
	}
	return l.input[l.pos+1]
}

func (l *lexer) ch() byte {
	if l.pos >= len(l.input) {
		return 0
	}
	return l.input[l.pos]
}

// skipSpaceAndComments consumes whitespace, // line comments, and /* */
// block comments. It reports an incomplete lexError when the input ends
// inside an unterminated block comment.
func (l *lexer) skipSpaceAndComments() *lexError {
	for {
		ch := l.ch()
		switch {
		case ch == ' ' || ch == '\t' || ch == '\r' || ch == '\n':
			l.advance()
		case ch == '/' && l.peek() == '/':
			for l.ch() != 0 && l.ch() != '\n' {
				l.advance()
			}
		case ch == '/' && l.peek() == '*':
			line, col := l.line, l.col
			l.advance()
			l.advance()
			for {
				if l.ch() == 0 {
					return &lexError{line: line, col: col, msg: "unterminated block comment", incomplete: true}
				}
				if l.ch() == '*' && l.peek() == '/' {
					l.advance()
					l.advance()
					break
				}
				l.advance()
			}
		default:
			return nil
		}
	}
}

// next returns the next token.
func (l *lexer) next() (Token, *lexError) {
	if err := l.skipSpaceAndComments(); err != nil {
		return Token{}, err
	}

	line, col := l.line, l.col
	ch := l.ch()

	switch {
	case ch == 0:
		return Token{Type: TokenEOF, Line: line, Col: col, End: l.pos}, nil
	case ch == '=':
		l.advance()
		return Token{Type: TokenEquals, Literal: "=", Line: line, Col: col, End: l.pos}, nil
	case ch == ';':
		l.advance()
		return Token{Type: TokenSemi, Literal: ";", Line: line, Col: col, End: l.pos}, nil
	case ch == '|':
		l.advance()
		return Token{Type: TokenPipe, Literal: "|", Line: line, Col: col, End: l.pos}, nil
	case ch == '(':
		l.advance()
		return Token{Type: TokenLParen, Literal: "(", Line: line, Col: col, End: l.pos}, nil
	case ch == ')':
		l.advance()
		return Token{Type: TokenRParen, Literal: ")", Line: line, Col: col, End: l.pos}, nil
	case ch == '[':
		l.advance()
		return Token{Type: TokenLBrack, Literal: "[", Line: line, Col: col, End: l.pos}, nil
	case ch == ']':
		l.advance()
		return Token{Type: TokenRBrack, Literal: "]", Line: line, Col: col, End: l.pos}, nil
	case ch == '<':
		return l.lexNonTerminal(line, col)
	case ch == '/':
		return l.lexWeight(line, col)
	case isWordChar(ch):
		start := l.pos
		for isWordChar(l.ch()) {
			l.advance()
		}
		return Token{Type: TokenWord, Literal: l.input[start:l.pos], Line: line, Col: col, End: l.pos}, nil
	}

	return Token{}, &lexError{line: line, col: col, msg: fmt.Sprintf("unexpected character %q", ch)}
}

func (l *lexer) lexNonTerminal(line, col int) (Token, *lexError) {
	l.advance() // consume '<'
	start := l.pos
	for isRefChar(l.ch()) {
		l.advance()
	}
	if l.ch() == 0 {
		return Token{}, &lexError{line: line, col: col, msg: "unterminated nonterminal reference", incomplete: true}
	}
	if l.ch() != '>' {
		return Token{}, &lexError{line: l.line, col: l.col,
			msg: fmt.Sprintf("unexpected character %q in nonterminal reference", l.ch())}
	}
	name := l.input[start:l.pos]
	l.advance() // consume '>'
	if name == "" {
		return Token{}, &lexError{line: line, col: col, msg: "empty nonterminal reference"}
	}
	return Token{Type: TokenNonTerm, Literal: name, Line: line, Col: col, End: l.pos}, nil
}

func (l *lexer) lexWeight(line, col int) (Token, *lexError) {
	l.advance() // consume '/'
	start := l.pos
	for isDigitOrDot(l.ch()) {
		l.advance()
	}
	if l.ch() == 0 {
		return Token{}, &lexError{line: line, col: col, msg: "unterminated weight", incomplete: true}
	}
	if l.ch() != '/' || l.pos == start {
		return Token{}, &lexError{line: line, col: col, msg: "malformed weight"}
	}
	text := l.input[start:l.pos]
	l.advance() // consume closing '/'
	return Token{Type: TokenWeight, Literal: text, Line: line, Col: col, End: l.pos}, nil
}

// lexAll tokenizes the whole input, ending with a TokenEOF.
func lexAll(input string, startLine int) ([]Token, *lexError) {
	l := newLexer(input, startLine)
	var tokens []Token
	for {
		tok, err := l.next()
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, tok)
		if tok.Type == TokenEOF {
			return tokens, nil
		}
	}
}
