package lexer

import (
	"testing"

	"pseudoc/internal/converter/token"
)

func TestNextTokenSequence(t *testing.T) {
	input := `total >= 2 ** count // 3 and f"hi {x}" != name.upper()`

	expected := []struct {
		typ     token.TokenType
		literal string
	}{
		{token.TokenIdent, "total"},
		{token.TokenGtEq, ">="},
		{token.TokenInt, "2"},
		{token.TokenPower, "**"},
		{token.TokenIdent, "count"},
		{token.TokenFloorDiv, "//"},
		{token.TokenInt, "3"},
		{token.TokenAnd, "and"},
		{token.TokenFString, "hi {x}"},
		{token.TokenNotEq, "!="},
		{token.TokenIdent, "name"},
		{token.TokenDot, "."},
		{token.TokenIdent, "upper"},
		{token.TokenLParen, "("},
		{token.TokenRParen, ")"},
		{token.TokenEOF, ""},
	}

	l := NewLexer(input, 1)
	for i, want := range expected {
		tok := l.NextToken()
		if tok.Type != want.typ {
			t.Fatalf("token %d: type expected=%q, got=%q (literal %q)", i, want.typ, tok.Type, tok.Literal)
		}
		if tok.Literal != want.literal {
			t.Fatalf("token %d: literal expected=%q, got=%q", i, want.literal, tok.Literal)
		}
	}
	if errs := l.Errors(); len(errs) != 0 {
		t.Fatalf("unexpected lexer errors: %v", errs)
	}
}

func TestNumberForms(t *testing.T) {
	cases := []struct {
		input   string
		typ     token.TokenType
		literal string
	}{
		{"42", token.TokenInt, "42"},
		{"3.14", token.TokenFloat, "3.14"},
		{".5", token.TokenFloat, ".5"},
		{"3.", token.TokenFloat, "3."},
	}
	for _, c := range cases {
		l := NewLexer(c.input, 1)
		tok := l.NextToken()
		if tok.Type != c.typ || tok.Literal != c.literal {
			t.Errorf("%q: expected (%q, %q), got (%q, %q)", c.input, c.typ, c.literal, tok.Type, tok.Literal)
		}
	}
}

func TestUnterminatedString(t *testing.T) {
	l := NewLexer(`"never closed`, 3)
	tok := l.NextToken()

	if tok.Type != token.TokenString {
		t.Fatalf("expected best-effort STRING token, got=%q", tok.Type)
	}
	if tok.Literal != "never closed" {
		t.Errorf("literal expected=%q, got=%q", "never closed", tok.Literal)
	}
	if len(l.Errors()) != 1 {
		t.Fatalf("expected 1 lexer error, got=%d", len(l.Errors()))
	}
}

func TestTripleQuotedString(t *testing.T) {
	cases := []struct {
		input   string
		literal string
	}{
		{`"""Calculate the area of a rectangle"""`, "Calculate the area of a rectangle"},
		{`'''single quoted'''`, "single quoted"},
		{`""""""`, ""},
		{`"""it's quoted "inside" too"""`, `it's quoted "inside" too`},
	}
	for _, c := range cases {
		l := NewLexer(c.input, 1)
		tok := l.NextToken()
		if tok.Type != token.TokenString || tok.Literal != c.literal {
			t.Errorf("%q: expected (STRING, %q), got (%q, %q)", c.input, c.literal, tok.Type, tok.Literal)
		}
		if next := l.NextToken(); next.Type != token.TokenEOF {
			t.Errorf("%q: expected EOF after the literal, got %q", c.input, next.Type)
		}
		if errs := l.Errors(); len(errs) != 0 {
			t.Errorf("%q: unexpected lexer errors: %v", c.input, errs)
		}
	}
}

func TestUnterminatedTripleQuotedString(t *testing.T) {
	l := NewLexer(`"""spans lines`, 2)
	tok := l.NextToken()

	if tok.Type != token.TokenString || tok.Literal != "spans lines" {
		t.Fatalf("expected best-effort STRING token, got (%q, %q)", tok.Type, tok.Literal)
	}
	if len(l.Errors()) != 1 {
		t.Fatalf("expected 1 lexer error, got=%d", len(l.Errors()))
	}
}
