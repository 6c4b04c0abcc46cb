package interp

import "strconv"

// Value is the closed union of runtime values a script variable can hold:
// boolean, number, or text. The variable lookup hook returns one of these
// and comparisons type-check against them exhaustively.
type Value interface {
	Display() string
	value()
}

// BoolVal is a boolean value.
type BoolVal bool

// NumVal is an integer value.
type NumVal int

// TextVal is a string value.
type TextVal string

func (BoolVal) value() {}
func (NumVal) value()  {}
func (TextVal) value() {}

// Display renders the value for placeholder substitution and alerts.
func (v BoolVal) Display() string {
	if v {
		return "true"
	}
	return "false"
}

// Display renders the value for placeholder substitution and alerts.
func (v NumVal) Display() string { return strconv.Itoa(int(v)) }

// Display renders the value for placeholder substitution and alerts.
func (v TextVal) Display() string { return string(v) }

// kindName names a value's type for error messages.
func kindName(v Value) string {
	switch v.(type) {
	case BoolVal:
		return "boolean"
	case NumVal:
		return "number"
	case TextVal:
		return "string"
	default:
		return "nothing"
	}
}
