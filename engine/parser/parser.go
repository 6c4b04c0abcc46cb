// Package parser builds a dialogue script AST from a token stream.
// Recursive descent: every non-atomic form is "(" keyword args ")" with one
// production per keyword; a parenthesized form with no recognized leading
// keyword parses as a generic List.
package parser

import (
	"fmt"
	"strconv"

	"github.com/nathoo/parleycore/engine/ast"
	"github.com/nathoo/parleycore/engine/scanner"
)

// ParseError reports an unexpected token or a malformed form.
type ParseError struct {
	Expected scanner.Kind  // meaningful when the error is a missing token
	Got      scanner.Token // the token actually seen
	Msg      string        // set for structural errors (duplicate else etc.)
}

func (e *ParseError) Error() string {
	if e.Msg != "" {
		return "parse error: " + e.Msg
	}
	return fmt.Sprintf("parse error: expected %s, got %s", e.Expected, e.Got.Kind)
}

type parser struct {
	tokens []scanner.Token
	pos    int
}

// Parse consumes the entire token stream as exactly one top-level form.
func Parse(tokens []scanner.Token) (ast.Node, error) {
	p := &parser{tokens: tokens}
	node, err := p.expr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(scanner.EOF); err != nil {
		return nil, err
	}
	return node, nil
}

func (p *parser) peek() scanner.Token {
	return p.tokens[p.pos]
}

func (p *parser) next() scanner.Token {
	t := p.tokens[p.pos]
	if t.Kind != scanner.EOF {
		p.pos++
	}
	return t
}

func (p *parser) expect(kind scanner.Kind) (scanner.Token, error) {
	t := p.peek()
	if t.Kind != kind {
		return t, &ParseError{Expected: kind, Got: t}
	}
	return p.next(), nil
}

func structural(format string, args ...any) error {
	return &ParseError{Msg: fmt.Sprintf(format, args...)}
}

// expr parses one expression: an atomic literal/identifier or a
// parenthesized form.
func (p *parser) expr() (ast.Node, error) {
	t := p.peek()
	switch t.Kind {
	case scanner.String:
		p.next()
		return &ast.Str{Value: t.Lexeme}, nil
	case scanner.Number:
		p.next()
		n, err := strconv.Atoi(t.Lexeme)
		if err != nil {
			return nil, structural("bad number literal %q", t.Lexeme)
		}
		return &ast.Num{Value: n}, nil
	case scanner.True:
		p.next()
		return &ast.Bool{Value: true}, nil
	case scanner.False:
		p.next()
		return &ast.Bool{Value: false}, nil
	case scanner.Ident:
		p.next()
		return &ast.Ident{Name: t.Lexeme}, nil
	case scanner.LParen:
		return p.form()
	default:
		return nil, &ParseError{Expected: scanner.LParen, Got: t}
	}
}

// form parses a parenthesized form, dispatching on the leading keyword.
func (p *parser) form() (ast.Node, error) {
	if _, err := p.expect(scanner.LParen); err != nil {
		return nil, err
	}

	switch t := p.peek(); t.Kind {
	case scanner.Say:
		p.next()
		return p.sayForm()
	case scanner.Set:
		p.next()
		return p.setForm()
	case scanner.Give:
		p.next()
		return p.giveForm()
	case scanner.Pick:
		p.next()
		return p.pickForm()
	case scanner.Cond:
		p.next()
		return p.condForm()
	case scanner.Option:
		p.next()
		return p.optionForm()
	case scanner.Offer:
		p.next()
		return p.offerForm()
	case scanner.Spend:
		p.next()
		return p.spendForm()
	case scanner.End:
		p.next()
		return p.endForm()
	case scanner.And, scanner.Or:
		p.next()
		return p.logicForm(t.Kind)
	case scanner.Eq, scanner.Neq, scanner.Lt, scanner.Lte, scanner.Gt, scanner.Gte:
		p.next()
		return p.compareForm(t.Kind)
	case scanner.ShopMenu:
		p.next()
		return p.namedEffect(&ast.ShopMenu{})
	case scanner.ShopSelect:
		p.next()
		return p.namedEffect(&ast.ShopSelect{})
	case scanner.BlessMight:
		p.next()
		return p.namedEffect(&ast.BlessMight{})
	case scanner.BlessGrace:
		p.next()
		return p.namedEffect(&ast.BlessGrace{})
	case scanner.BlessWard:
		p.next()
		return p.namedEffect(&ast.BlessWard{})
	case scanner.Else:
		return nil, structural("'else' is only valid as a cond clause test")
	default:
		return p.listForm()
	}
}

func (p *parser) sayForm() (ast.Node, error) {
	expr, err := p.expr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(scanner.RParen); err != nil {
		return nil, err
	}
	return &ast.Say{Expr: expr}, nil
}

func (p *parser) setForm() (ast.Node, error) {
	name, err := p.expect(scanner.Ident)
	if err != nil {
		return nil, err
	}
	value, err := p.expr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(scanner.RParen); err != nil {
		return nil, err
	}
	return &ast.Set{Name: name.Lexeme, Value: value}, nil
}

func (p *parser) giveForm() (ast.Node, error) {
	gift, err := p.expect(scanner.Ident)
	if err != nil {
		return nil, err
	}
	blurb, err := p.expect(scanner.String)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(scanner.RParen); err != nil {
		return nil, err
	}
	return &ast.Give{Gift: gift.Lexeme, Blurb: blurb.Lexeme}, nil
}

func (p *parser) pickForm() (ast.Node, error) {
	arg, err := p.expr()
	if err != nil {
		return nil, err
	}
	list, ok := arg.(*ast.List)
	if !ok {
		return nil, structural("'pick' requires a list of alternatives")
	}
	if _, err := p.expect(scanner.RParen); err != nil {
		return nil, err
	}
	return &ast.Pick{List: list}, nil
}

// condForm parses "(" test action ")" clauses until the closing paren.
// An else clause may appear anywhere but is appended as the final branch;
// a second else is a parse error, as is a cond with no clauses at all.
func (p *parser) condForm() (ast.Node, error) {
	var branches []ast.Branch
	var elseBranch *ast.Branch

	for p.peek().Kind != scanner.RParen {
		if _, err := p.expect(scanner.LParen); err != nil {
			return nil, err
		}

		if p.peek().Kind == scanner.Else {
			p.next()
			if elseBranch != nil {
				return nil, structural("duplicate 'else' clause in cond")
			}
			action, err := p.expr()
			if err != nil {
				return nil, err
			}
			elseBranch = &ast.Branch{Action: action}
		} else {
			test, err := p.expr()
			if err != nil {
				return nil, err
			}
			action, err := p.expr()
			if err != nil {
				return nil, err
			}
			branches = append(branches, ast.Branch{Test: test, Action: action})
		}

		if _, err := p.expect(scanner.RParen); err != nil {
			return nil, err
		}
	}
	p.next() // closing paren of the cond form

	if elseBranch != nil {
		branches = append(branches, *elseBranch)
	}
	if len(branches) == 0 {
		return nil, structural("cond requires at least one clause")
	}
	return &ast.Cond{Branches: branches}, nil
}

func (p *parser) optionForm() (ast.Node, error) {
	text, err := p.expect(scanner.String)
	if err != nil {
		return nil, err
	}
	action, err := p.expr()
	if err != nil {
		return nil, err
	}
	if ast.Atomic(action) {
		return nil, structural("option action must be a form, not a bare literal")
	}
	if _, err := p.expect(scanner.RParen); err != nil {
		return nil, err
	}
	return &ast.Option{Text: text.Lexeme, Action: action}, nil
}

func (p *parser) offerForm() (ast.Node, error) {
	name, err := p.expect(scanner.Ident)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(scanner.RParen); err != nil {
		return nil, err
	}
	return &ast.Offer{Name: name.Lexeme}, nil
}

func (p *parser) spendForm() (ast.Node, error) {
	amount, err := p.expect(scanner.Number)
	if err != nil {
		return nil, err
	}
	n, convErr := strconv.Atoi(amount.Lexeme)
	if convErr != nil {
		return nil, structural("bad number literal %q", amount.Lexeme)
	}
	if _, err := p.expect(scanner.RParen); err != nil {
		return nil, err
	}
	return &ast.Spend{Amount: n}, nil
}

func (p *parser) endForm() (ast.Node, error) {
	text, err := p.expr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(scanner.RParen); err != nil {
		return nil, err
	}
	return &ast.End{Text: text}, nil
}

// logicForm parses one-or-more conditions for and/or. Zero conditions is
// rejected here rather than at evaluation time.
func (p *parser) logicForm(op scanner.Kind) (ast.Node, error) {
	var conds []ast.Node
	for p.peek().Kind != scanner.RParen {
		if p.peek().Kind == scanner.EOF {
			return nil, &ParseError{Expected: scanner.RParen, Got: p.peek()}
		}
		c, err := p.expr()
		if err != nil {
			return nil, err
		}
		conds = append(conds, c)
	}
	p.next()

	if len(conds) == 0 {
		return nil, structural("%s requires at least one condition", op)
	}
	if op == scanner.And {
		return &ast.And{Conds: conds}, nil
	}
	return &ast.Or{Conds: conds}, nil
}

func (p *parser) compareForm(op scanner.Kind) (ast.Node, error) {
	name, err := p.expect(scanner.Ident)
	if err != nil {
		return nil, err
	}
	value, err := p.expr()
	if err != nil {
		return nil, err
	}
	switch value.(type) {
	case *ast.Str, *ast.Bool, *ast.Num:
	default:
		return nil, structural("comparison right-hand side must be a literal")
	}
	if _, err := p.expect(scanner.RParen); err != nil {
		return nil, err
	}
	return &ast.Compare{Op: op, Name: name.Lexeme, Value: value}, nil
}

func (p *parser) namedEffect(node ast.Node) (ast.Node, error) {
	if _, err := p.expect(scanner.RParen); err != nil {
		return nil, err
	}
	return node, nil
}

func (p *parser) listForm() (ast.Node, error) {
	var items []ast.Node
	for p.peek().Kind != scanner.RParen {
		if p.peek().Kind == scanner.EOF {
			return nil, &ParseError{Expected: scanner.RParen, Got: p.peek()}
		}
		item, err := p.expr()
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	p.next()
	return &ast.List{Items: items}, nil
}
