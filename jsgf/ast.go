// Package jsgf provides the data model for JSGF-style grammars: the
// expression AST, rules, and the Grammar container with validation and
// cycle detection.
package jsgf

import (
	"strconv"
	"strings"
)

// Node is a grammar expression. The set of implementations is closed:
// Terminal, NonTerminal, Sequence, Alternative, Optional, and Group.
type Node interface {
	// String returns the JSGF surface syntax for the node.
	String() string

	// Equal reports structural equality with another node.
	Equal(Node) bool

	node()
}

// Terminal is a literal token.
type Terminal struct {
	Text string
}

func (t *Terminal) node()          {}
func (t *Terminal) String() string { return t.Text }

func (t *Terminal) Equal(other Node) bool {
	o, ok := other.(*Terminal)
	return ok && o.Text == t.Text
}

// NonTerminal references another rule by its bare name, without angle
// brackets. The reference is resolved at generation time, not at parse time.
type NonTerminal struct {
	Name string
}

func (n *NonTerminal) node()          {}
func (n *NonTerminal) String() string { return "<" + n.Name + ">" }

func (n *NonTerminal) Equal(other Node) bool {
	o, ok := other.(*NonTerminal)
	return ok && o.Name == n.Name
}

// Sequence is a concatenation of expressions. An empty sequence is legal
// and denotes the empty string.
type Sequence struct {
	Elements []Node
}

func (s *Sequence) node() {}

func (s *Sequence) String() string {
	parts := make([]string, len(s.Elements))
	for i, e := range s.Elements {
		parts[i] = e.String()
	}
	return strings.Join(parts, " ")
}

func (s *Sequence) Equal(other Node) bool {
	o, ok := other.(*Sequence)
	if !ok || len(o.Elements) != len(s.Elements) {
		return false
	}
	for i, e := range s.Elements {
		if !e.Equal(o.Elements[i]) {
			return false
		}
	}
	return true
}

// Choice is one branch of an Alternative together with its weight.
// Unweighted branches carry weight 1.
type Choice struct {
	Node   Node
	Weight float64
}

// Alternative is a disjunction of choices. Order is insertion order from
// the source text.
type Alternative struct {
	Choices []Choice
}

func (a *Alternative) node() {}

func (a *Alternative) String() string {
	parts := make([]string, len(a.Choices))
	for i, c := range a.Choices {
		if c.Weight != 1.0 {
			parts[i] = "/" + strconv.FormatFloat(c.Weight, 'g', -1, 64) + "/ " + c.Node.String()
		} else {
			parts[i] = c.Node.String()
		}
	}
	return "( " + strings.Join(parts, " | ") + " )"
}

func (a *Alternative) Equal(other Node) bool {
	o, ok := other.(*Alternative)
	if !ok || len(o.Choices) != len(a.Choices) {
		return false
	}
	for i, c := range a.Choices {
		if c.Weight != o.Choices[i].Weight || !c.Node.Equal(o.Choices[i].Node) {
			return false
		}
	}
	return true
}

// Weights returns the weights of all choices, in order.
func (a *Alternative) Weights() []float64 {
	ws := make([]float64, len(a.Choices))
	for i, c := range a.Choices {
		ws[i] = c.Weight
	}
	return ws
}

// Optional wraps an expression that may be omitted.
type Optional struct {
	Element Node
}

func (o *Optional) node()          {}
func (o *Optional) String() string { return "[ " + o.Element.String() + " ]" }

func (o *Optional) Equal(other Node) bool {
	x, ok := other.(*Optional)
	return ok && o.Element.Equal(x.Element)
}

// Group wraps an expression for parsing disambiguation. Generation treats
// it exactly like its contained element.
type Group struct {
	Element Node
}

func (g *Group) node()          {}
func (g *Group) String() string { return "( " + g.Element.String() + " )" }

func (g *Group) Equal(other Node) bool {
	x, ok := other.(*Group)
	return ok && g.Element.Equal(x.Element)
}
