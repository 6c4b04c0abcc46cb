// Package ast defines the node variants of a parsed dialogue script.
// The set is closed: Node is sealed with an unexported marker method, so
// the interpreter's dispatch can be checked against every kind.
package ast

import "github.com/nathoo/parleycore/engine/scanner"

// Node is the interface implemented by every script node.
type Node interface {
	node()
}

// Ident is a bare variable name. It evaluates to itself; only Set and
// Compare care about the name rather than a value.
type Ident struct {
	Name string
}

// Str is a string literal. Placeholder markers (#TOWN_NAME etc.) are
// substituted every time it is evaluated.
type Str struct {
	Value string
}

// Bool is a boolean literal.
type Bool struct {
	Value bool
}

// Num is an unsigned integer literal.
type Num struct {
	Value int
}

// List is a bare sequence of expressions evaluated in order. It is the
// usual top-level script form and the container for pick alternatives.
type List struct {
	Items []Node
}

// Compare checks an external variable against a literal.
type Compare struct {
	Op    scanner.Kind // Eq, Neq, Lt, Lte, Gt or Gte
	Name  string
	Value Node // Str, Bool or Num literal
}

// And is a short-circuiting conjunction.
type And struct {
	Conds []Node
}

// Or is a short-circuiting disjunction.
type Or struct {
	Conds []Node
}

// Branch is one (test, action) pair of a Cond.
type Branch struct {
	Test   Node // nil for the else branch
	Action Node
}

// Cond evaluates branch tests in order and runs the first that passes.
// An else branch, if present, is always last.
type Cond struct {
	Branches []Branch
}

// Say appends evaluated text to the conversation output.
type Say struct {
	Expr Node
}

// Pick evaluates one element of its list, chosen uniformly at random.
type Pick struct {
	List *List
}

// Set writes a value into an external variable.
type Set struct {
	Name  string
	Value Node
}

// Give grants a gift from the fixed catalog, with flavor text.
type Give struct {
	Gift  string
	Blurb string
}

// Offer resolves an identifier to an item reference and removes the item
// from the player's holdings.
type Offer struct {
	Name string
}

// Spend subtracts a fixed amount from the player's gold, floored at zero.
type Spend struct {
	Amount int
}

// Option registers a lettered response; Action runs only if the player
// picks the letter.
type Option struct {
	Text   string
	Action Node
}

// End terminates the conversation with a final message.
type End struct {
	Text Node
}

// Named effects: zero-argument nodes bound to hard-coded routines.
type (
	// ShopMenu lists the speaker's wares with prices and a running total.
	ShopMenu struct{}
	// ShopSelect toggles whether the pending ware is marked for purchase.
	ShopSelect struct{}
	// BlessMight grants a timed might buff and ends the conversation.
	BlessMight struct{}
	// BlessGrace grants a timed grace buff and ends the conversation.
	BlessGrace struct{}
	// BlessWard grants a timed ward buff and ends the conversation.
	BlessWard struct{}
)

func (*Ident) node()      {}
func (*Str) node()        {}
func (*Bool) node()       {}
func (*Num) node()        {}
func (*List) node()       {}
func (*Compare) node()    {}
func (*And) node()        {}
func (*Or) node()         {}
func (*Cond) node()       {}
func (*Say) node()        {}
func (*Pick) node()       {}
func (*Set) node()        {}
func (*Give) node()       {}
func (*Offer) node()      {}
func (*Spend) node()      {}
func (*Option) node()     {}
func (*End) node()        {}
func (*ShopMenu) node()   {}
func (*ShopSelect) node() {}
func (*BlessMight) node() {}
func (*BlessGrace) node() {}
func (*BlessWard) node()  {}

// Atomic reports whether n is a bare literal or identifier. Option actions
// must not be atomic.
func Atomic(n Node) bool {
	switch n.(type) {
	case *Ident, *Str, *Bool, *Num:
		return true
	default:
		return false
	}
}
