// Package token defines the lexical tokens of Kite and the source views
// that tie tokens, AST nodes, and bytecode markers back to source text.
package token

// Type identifies the category of a token.
type Type uint8

const (
	// Single char
	LEFT_PAREN Type = iota
	RIGHT_PAREN
	LEFT_BRACE
	RIGHT_BRACE
	COMMA
	DOT
	PLUS
	MINUS
	SLASH
	STAR
	CARET
	SEMICOLON
	PERCENT

	// One or two char
	BANG
	BANG_EQUAL
	EQUAL
	EQUAL_EQUAL
	GREATER
	GREATER_EQUAL
	LESS
	LESS_EQUAL
	PLUS_EQUAL
	MINUS_EQUAL
	STAR_EQUAL
	SLASH_EQUAL
	CARET_EQUAL

	// Literals
	IDENT
	STRING
	NUMBER
	TRUE
	FALSE
	NONE

	// Keywords
	PRINT
	IF
	ELSE
	LOOP
	WHILE
	FOR
	IN
	CONTINUE
	BREAK
	RETURN
	FUNC
	VAR
	EXIT
	AND
	OR
	TYPE

	ERROR
	EOF
)

// TypeNames maps token types to their display names (for debugging).
var TypeNames = map[Type]string{
	LEFT_PAREN:    "LeftParen",
	RIGHT_PAREN:   "RightParen",
	LEFT_BRACE:    "LeftBrace",
	RIGHT_BRACE:   "RightBrace",
	COMMA:         "Comma",
	DOT:           "Dot",
	PLUS:          "Plus",
	MINUS:         "Minus",
	SLASH:         "Slash",
	STAR:          "Star",
	CARET:         "Caret",
	SEMICOLON:     "Semicolon",
	PERCENT:       "Percent",
	BANG:          "Bang",
	BANG_EQUAL:    "BangEqual",
	EQUAL:         "Equal",
	EQUAL_EQUAL:   "EqualEqual",
	GREATER:       "Greater",
	GREATER_EQUAL: "GreaterEqual",
	LESS:          "Less",
	LESS_EQUAL:    "LessEqual",
	PLUS_EQUAL:    "PlusEqual",
	MINUS_EQUAL:   "MinusEqual",
	STAR_EQUAL:    "StarEqual",
	SLASH_EQUAL:   "SlashEqual",
	CARET_EQUAL:   "CaretEqual",
	IDENT:         "Identifier",
	STRING:        "String",
	NUMBER:        "Number",
	TRUE:          "True",
	FALSE:         "False",
	NONE:          "None",
	PRINT:         "Print",
	IF:            "If",
	ELSE:          "Else",
	LOOP:          "Loop",
	WHILE:         "While",
	FOR:           "For",
	IN:            "In",
	CONTINUE:      "Continue",
	BREAK:         "Break",
	RETURN:        "Return",
	FUNC:          "Func",
	VAR:           "Var",
	EXIT:          "Exit",
	AND:           "And",
	OR:            "Or",
	TYPE:          "Type",
	ERROR:         "Error",
	EOF:           "EndOfFile",
}

func (t Type) String() string {
	if name, ok := TypeNames[t]; ok {
		return name
	}
	return "Unknown"
}

var keywords = map[string]Type{
	"true":     TRUE,
	"false":    FALSE,
	"none":     NONE,
	"print":    PRINT,
	"if":       IF,
	"else":     ELSE,
	"loop":     LOOP,
	"while":    WHILE,
	"for":      FOR,
	"in":       IN,
	"continue": CONTINUE,
	"break":    BREAK,
	"return":   RETURN,
	"func":     FUNC,
	"var":      VAR,
	"exit":     EXIT,
	"and":      AND,
	"or":       OR,
	"type":     TYPE,
}

// LookupIdent returns the keyword type for a spelling, or IDENT.
func LookupIdent(ident string) Type {
	if t, ok := keywords[ident]; ok {
		return t
	}
	return IDENT
}

// SourceView is a byte range plus 1-based line/column into the source.
type SourceView struct {
	Index  int
	Length int
	Line   int
	Column int
}

// Union returns the smallest view covering both views. The line and column
// come from whichever view starts earlier.
func (v SourceView) Union(other SourceView) SourceView {
	first, second := v, other
	if second.Index < first.Index {
		first, second = second, first
	}

	end := first.Index + first.Length
	if e := second.Index + second.Length; e > end {
		end = e
	}

	return SourceView{
		Index:  first.Index,
		Length: end - first.Index,
		Line:   first.Line,
		Column: first.Column,
	}
}

// End returns the byte offset one past the view.
func (v SourceView) End() int {
	return v.Index + v.Length
}

// After returns a one-character view immediately following this view, for
// "expected X here"-style messages.
func (v SourceView) After() SourceView {
	return SourceView{
		Index:  v.Index + v.Length,
		Length: 1,
		Line:   v.Line,
		Column: v.Column + v.Length,
	}
}

// Token is a single lexical item. Lexeme holds the identifier spelling, the
// string contents without quotes, or the textual form of a number.
type Token struct {
	Type   Type
	Lexeme string
	View   SourceView
}
