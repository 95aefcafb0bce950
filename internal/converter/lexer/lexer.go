package lexer

import (
	"fmt"

	"pseudoc/internal/converter/token"
)

// Lexer tokenizes a single expression fragment. The structural parser hands
// it the text of one line (or part of one), never the whole file.
type Lexer struct {
	input        string
	position     int  // current char index
	readPosition int  // next char index
	ch           byte // current char

	line   int // source line the fragment came from
	column int

	errors []string
}

func NewLexer(input string, line int) *Lexer {
	l := &Lexer{input: input, line: line, column: 0}
	l.readChar()
	return l
}

func (l *Lexer) Errors() []string { return l.errors }

func (l *Lexer) addError(format string, args ...any) {
	l.errors = append(l.errors, fmt.Sprintf(format, args...))
}

func (l *Lexer) readChar() {
	if l.readPosition >= len(l.input) {
		l.ch = 0 // EOF
	} else {
		l.ch = l.input[l.readPosition]
	}
	l.position = l.readPosition
	l.readPosition++
	if l.ch != 0 {
		l.column++
	}
}

func (l *Lexer) peekChar() byte {
	if l.readPosition >= len(l.input) {
		return 0
	}
	return l.input[l.readPosition]
}

func (l *Lexer) peekAhead(n int) byte {
	if l.readPosition+n >= len(l.input) {
		return 0
	}
	return l.input[l.readPosition+n]
}

func (l *Lexer) NextToken() token.Token {
	l.skipWhitespace()

	startCol := l.column

	switch l.ch {
	case '(':
		return l.single(token.TokenLParen, startCol)
	case ')':
		return l.single(token.TokenRParen, startCol)
	case '[':
		return l.single(token.TokenLBracket, startCol)
	case ']':
		return l.single(token.TokenRBracket, startCol)
	case '{':
		return l.single(token.TokenLBrace, startCol)
	case '}':
		return l.single(token.TokenRBrace, startCol)
	case ',':
		return l.single(token.TokenComma, startCol)
	case '.':
		if isDigit(l.peekChar()) {
			return l.readNumber(startCol)
		}
		return l.single(token.TokenDot, startCol)
	case ':':
		return l.single(token.TokenColon, startCol)
	case '+':
		return l.single(token.TokenPlus, startCol)
	case '-':
		return l.single(token.TokenMinus, startCol)
	case '%':
		return l.single(token.TokenPercent, startCol)
	case '*':
		if l.peekChar() == '*' {
			return l.double(token.TokenPower, startCol)
		}
		return l.single(token.TokenAsterisk, startCol)
	case '/':
		if l.peekChar() == '/' {
			return l.double(token.TokenFloorDiv, startCol)
		}
		return l.single(token.TokenSlash, startCol)
	case '=':
		if l.peekChar() == '=' {
			return l.double(token.TokenEq, startCol)
		}
		return l.single(token.TokenAssign, startCol)
	case '!':
		if l.peekChar() == '=' {
			return l.double(token.TokenNotEq, startCol)
		}
		tok := l.newToken(token.TokenIllegal, string(l.ch), startCol)
		l.readChar()
		return tok
	case '<':
		if l.peekChar() == '=' {
			return l.double(token.TokenLtEq, startCol)
		}
		return l.single(token.TokenLt, startCol)
	case '>':
		if l.peekChar() == '=' {
			return l.double(token.TokenGtEq, startCol)
		}
		return l.single(token.TokenGt, startCol)
	case '\'', '"':
		return l.readString(l.ch, startCol)
	case 0:
		return l.newToken(token.TokenEOF, "", startCol)
	default:
		if isLetter(l.ch) {
			// f"..." and f'...' are interpolated string literals
			if (l.ch == 'f' || l.ch == 'F') && (l.peekChar() == '"' || l.peekChar() == '\'') {
				l.readChar() // consume the prefix
				tok := l.readString(l.ch, startCol)
				tok.Type = token.TokenFString
				return tok
			}
			ident := l.readIdentifier()
			return l.newToken(token.LookupIdent(ident), ident, startCol)
		}
		if isDigit(l.ch) {
			return l.readNumber(startCol)
		}
		tok := l.newToken(token.TokenIllegal, string(l.ch), startCol)
		l.readChar()
		return tok
	}
}

func (l *Lexer) newToken(tokenType token.TokenType, literal string, col int) token.Token {
	return token.Token{Type: tokenType, Literal: literal, Line: l.line, Column: col}
}

func (l *Lexer) single(tokenType token.TokenType, col int) token.Token {
	tok := l.newToken(tokenType, string(l.ch), col)
	l.readChar()
	return tok
}

func (l *Lexer) double(tokenType token.TokenType, col int) token.Token {
	first := l.ch
	l.readChar()
	tok := l.newToken(tokenType, string(first)+string(l.ch), col)
	l.readChar()
	return tok
}

func (l *Lexer) skipWhitespace() {
	for l.ch == ' ' || l.ch == '\t' || l.ch == '\r' || l.ch == '\n' {
		l.readChar()
	}
}

func (l *Lexer) readIdentifier() string {
	start := l.position
	for isLetter(l.ch) || isDigit(l.ch) {
		l.readChar()
	}
	return l.input[start:l.position]
}

// readString consumes a quoted literal. An unterminated literal is reported
// but still returned best-effort, so the caller keeps parsing.
func (l *Lexer) readString(quote byte, startCol int) token.Token {
	// """...""" and '''...''' docstring literals
	if l.peekChar() == quote && l.peekAhead(1) == quote {
		return l.readTripleString(quote, startCol)
	}
	start := l.position + 1
	l.readChar() // consume opening quote

	for l.ch != quote && l.ch != 0 {
		if l.ch == '\\' && l.peekChar() != 0 {
			l.readChar() // skip the escaped char
		}
		l.readChar()
	}

	lit := l.input[start:l.position]
	if l.ch == 0 {
		l.addError("unterminated string literal starting at column %d", startCol)
		return l.newToken(token.TokenString, lit, startCol)
	}
	l.readChar() // consume closing quote
	return l.newToken(token.TokenString, lit, startCol)
}

// readTripleString consumes a triple-quoted literal. The lexer only ever sees
// one line, so a docstring whose closing quotes sit on a later line is
// reported like any other unterminated literal.
func (l *Lexer) readTripleString(quote byte, startCol int) token.Token {
	l.readChar()
	l.readChar()
	l.readChar() // past the three opening quotes
	start := l.position

	for l.ch != 0 {
		if l.ch == quote && l.peekChar() == quote && l.peekAhead(1) == quote {
			lit := l.input[start:l.position]
			l.readChar()
			l.readChar()
			l.readChar()
			return l.newToken(token.TokenString, lit, startCol)
		}
		l.readChar()
	}

	l.addError("unterminated string literal starting at column %d", startCol)
	return l.newToken(token.TokenString, l.input[start:l.position], startCol)
}

func (l *Lexer) readNumber(startCol int) token.Token {
	start := l.position
	isFloat := false
	for isDigit(l.ch) {
		l.readChar()
	}
	if l.ch == '.' && isDigit(l.peekChar()) {
		isFloat = true
		l.readChar()
		for isDigit(l.ch) {
			l.readChar()
		}
	} else if l.ch == '.' && !isLetter(l.peekChar()) && l.peekChar() != '.' {
		// trailing dot as in "3."
		isFloat = true
		l.readChar()
	}
	literal := l.input[start:l.position]
	if isFloat {
		return l.newToken(token.TokenFloat, literal, startCol)
	}
	return l.newToken(token.TokenInt, literal, startCol)
}

func isLetter(ch byte) bool {
	return ('a' <= ch && ch <= 'z') || ('A' <= ch && ch <= 'Z') || ch == '_'
}

func isDigit(ch byte) bool {
	return '0' <= ch && ch <= '9'
}
