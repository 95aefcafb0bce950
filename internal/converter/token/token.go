package token

type TokenType string

const (
	// Single character tokens
	TokenLParen   TokenType = "LPAREN"   // (
	TokenRParen   TokenType = "RPAREN"   // )
	TokenLBracket TokenType = "LBRACKET" // [
	TokenRBracket TokenType = "RBRACKET" // ]
	TokenLBrace   TokenType = "LBRACE"   // {
	TokenRBrace   TokenType = "RBRACE"   // }
	TokenComma    TokenType = "COMMA"    // ,
	TokenDot      TokenType = "DOT"      // .
	TokenColon    TokenType = "COLON"    // :
	TokenPlus     TokenType = "PLUS"     // +
	TokenMinus    TokenType = "MINUS"    // -
	TokenAsterisk TokenType = "ASTERISK" // *
	TokenSlash    TokenType = "SLASH"    // /
	TokenPercent  TokenType = "PERCENT"  // %

	// Multi character operators
	TokenPower      TokenType = "POWER"       // **
	TokenFloorDiv   TokenType = "FLOORDIV"    // //
	TokenEq         TokenType = "EQ"          // ==
	TokenNotEq      TokenType = "NOT_EQ"      // !=
	TokenLt         TokenType = "LT"          // <
	TokenGt         TokenType = "GT"          // >
	TokenLtEq       TokenType = "LT_EQ"       // <=
	TokenGtEq       TokenType = "GT_EQ"       // >=
	TokenAssign     TokenType = "ASSIGN"      // = (only valid at statement level)

	// Keywords (boolean connectives and literal words)
	TokenAnd   TokenType = "AND"
	TokenOr    TokenType = "OR"
	TokenNot   TokenType = "NOT"
	TokenIn    TokenType = "IN"
	TokenTrue  TokenType = "TRUE"
	TokenFalse TokenType = "FALSE"
	TokenNone  TokenType = "NONE"

	// Literals & Identifiers
	TokenString  TokenType = "STRING"  // '...' or "..."
	TokenFString TokenType = "FSTRING" // f"..."
	TokenInt     TokenType = "INT"     // 42
	TokenFloat   TokenType = "FLOAT"   // 3.14
	TokenIdent   TokenType = "IDENT"

	// Special
	TokenEOF     TokenType = "EOF"
	TokenIllegal TokenType = "ILLEGAL"
)

type Token struct {
	Type    TokenType
	Literal string
	Line    int
	Column  int
}

// Keywords maps word operators and literal words to their token types.
var Keywords = map[string]TokenType{
	"and":   TokenAnd,
	"or":    TokenOr,
	"not":   TokenNot,
	"in":    TokenIn,
	"True":  TokenTrue,
	"False": TokenFalse,
	"None":  TokenNone,
}

// LookupIdent resolves an identifier to a keyword token type or TokenIdent.
func LookupIdent(ident string) TokenType {
	if tokType, ok := Keywords[ident]; ok {
		return tokType
	}
	return TokenIdent
}
