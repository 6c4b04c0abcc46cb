// Package scanner converts dialogue script text into a flat token stream.
// Single left-to-right pass, no backtracking; the stream always ends with EOF.
package scanner

import "fmt"

// ScanError reports an invalid character or malformed token.
type ScanError struct {
	Pos int // byte offset of the offending character
	Msg string
}

func (e *ScanError) Error() string {
	return fmt.Sprintf("scan error at offset %d: %s", e.Pos, e.Msg)
}

// Scan tokenizes a dialogue script. On success the returned slice is
// terminated with an EOF token.
func Scan(source string) ([]Token, error) {
	var tokens []Token
	i := 0
	n := len(source)

	for i < n {
		c := source[i]
		switch {
		case c == ' ' || c == '\t' || c == '\r' || c == '\n':
			i++

		case c == ';':
			// Line comment: skip to end of line.
			for i < n && source[i] != '\n' {
				i++
			}

		case c == '(':
			tokens = append(tokens, Token{Kind: LParen, Lexeme: "("})
			i++

		case c == ')':
			tokens = append(tokens, Token{Kind: RParen, Lexeme: ")"})
			i++

		case c == '=':
			tokens = append(tokens, Token{Kind: Eq, Lexeme: "="})
			i++

		case c == '!':
			if i+1 >= n || source[i+1] != '=' {
				return nil, &ScanError{Pos: i, Msg: "'!' must be followed by '='"}
			}
			tokens = append(tokens, Token{Kind: Neq, Lexeme: "!="})
			i += 2

		case c == '<':
			if i+1 < n && source[i+1] == '=' {
				tokens = append(tokens, Token{Kind: Lte, Lexeme: "<="})
				i += 2
			} else {
				tokens = append(tokens, Token{Kind: Lt, Lexeme: "<"})
				i++
			}

		case c == '>':
			if i+1 < n && source[i+1] == '=' {
				tokens = append(tokens, Token{Kind: Gte, Lexeme: ">="})
				i += 2
			} else {
				tokens = append(tokens, Token{Kind: Gt, Lexeme: ">"})
				i++
			}

		case c == '"':
			start := i
			i++
			for i < n && source[i] != '"' {
				i++
			}
			if i >= n {
				return nil, &ScanError{Pos: start, Msg: "unterminated string"}
			}
			tokens = append(tokens, Token{Kind: String, Lexeme: source[start+1 : i]})
			i++

		case isDigit(c):
			start := i
			for i < n && isDigit(source[i]) {
				i++
			}
			tokens = append(tokens, Token{Kind: Number, Lexeme: source[start:i]})

		case isIdentChar(c):
			start := i
			for i < n && isIdentChar(source[i]) {
				i++
			}
			lexeme := source[start:i]
			tokens = append(tokens, Token{Kind: lookupKeyword(lexeme), Lexeme: lexeme})

		default:
			return nil, &ScanError{Pos: i, Msg: fmt.Sprintf("unexpected character %q", c)}
		}
	}

	tokens = append(tokens, Token{Kind: EOF})
	return tokens, nil
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

// Identifier characters: letters, digits, '_' and '-'. Digits are allowed
// here because an identifier can only start where the digit case above
// did not already claim the character.
func isIdentChar(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || isDigit(c) || c == '_' || c == '-'
}
