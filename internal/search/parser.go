package search

import (
	"fmt"
	"strings"
)

// TokenType represents the type of a token in the search query
type TokenType int

const (
	TokenEOF TokenType = iota
	TokenText
	TokenFilter
	TokenRegex  // /pattern/
	TokenAnd    // + (explicit)
	TokenOr     // |
	TokenNot    // -
	TokenLParen // (
	TokenRParen // )
)

// Token represents a single token in the search query
type Token struct {
	Type  TokenType
	Value string
}

// Tokenizer converts a search query string into tokens
type Tokenizer struct {
	input string
	pos   int
}

// NewTokenizer creates a new tokenizer for the given input
func NewTokenizer(input string) *Tokenizer {
	return &Tokenizer{input: input}
}

// NextToken returns the next token in the input
func (t *Tokenizer) NextToken() Token {
	for t.pos < len(t.input) && isSpace(t.input[t.pos]) {
		t.pos++
	}
	if t.pos >= len(t.input) {
		return Token{Type: TokenEOF}
	}

	switch ch := t.input[t.pos]; ch {
	case '(':
		t.pos++
		return Token{Type: TokenLParen, Value: "("}
	case ')':
		t.pos++
		return Token{Type: TokenRParen, Value: ")"}
	case '|':
		t.pos++
		return Token{Type: TokenOr, Value: "|"}
	case '+':
		t.pos++
		return Token{Type: TokenAnd, Value: "+"}
	case '-':
		t.pos++
		return Token{Type: TokenNot, Value: "-"}
	case '"':
		return t.readQuoted()
	case '/':
		return t.readRegex()
	case '@', '~', '#':
		t.pos++
		return Token{Type: TokenFilter, Value: string(ch) + t.readWord()}
	}

	word := t.readWord()
	if i := strings.IndexByte(word, ':'); i > 0 && isKeyword(word[:i]) {
		return Token{Type: TokenFilter, Value: word}
	}
	return Token{Type: TokenText, Value: word}
}

// AllTokens returns all tokens in the input, ending with TokenEOF
func (t *Tokenizer) AllTokens() []Token {
	var tokens []Token
	for {
		tok := t.NextToken()
		tokens = append(tokens, tok)
		if tok.Type == TokenEOF {
			return tokens
		}
	}
}

func (t *Tokenizer) readWord() string {
	start := t.pos
	for t.pos < len(t.input) {
		ch := t.input[t.pos]
		if isSpace(ch) || ch == '|' || ch == '(' || ch == ')' {
			break
		}
		t.pos++
	}
	return t.input[start:t.pos]
}

func (t *Tokenizer) readQuoted() Token {
	t.pos++
	start := t.pos
	for t.pos < len(t.input) && t.input[t.pos] != '"' {
		t.pos++
	}
	value := t.input[start:t.pos]
	if t.pos < len(t.input) {
		t.pos++
	}
	return Token{Type: TokenText, Value: value}
}

func (t *Tokenizer) readRegex() Token {
	t.pos++
	var b strings.Builder
	for t.pos < len(t.input) {
		ch := t.input[t.pos]
		if ch == '\\' && t.pos+1 < len(t.input) && t.input[t.pos+1] == '/' {
			b.WriteByte('/')
			t.pos += 2
			continue
		}
		t.pos++
		if ch == '/' {
			break
		}
		b.WriteByte(ch)
	}
	return Token{Type: TokenRegex, Value: b.String()}
}

func isSpace(ch byte) bool {
	return ch == ' ' || ch == '\t' || ch == '\n'
}

func isKeyword(s string) bool {
	switch s {
	case "is", "c", "created", "m", "modified":
		return true
	}
	return false
}

// Parser converts tokens into a FilterExpr tree.
// Precedence from low to high: OR, AND (explicit + or juxtaposition), NOT.
type Parser struct {
	tokens []Token
	pos    int
}

// NewParser creates a new parser for the given tokens
func NewParser(tokens []Token) *Parser {
	return &Parser{tokens: tokens}
}

// ParseQuery parses a complete search query and returns the root expression
func ParseQuery(query string) (FilterExpr, error) {
	tokens := NewTokenizer(query).AllTokens()
	if len(tokens) == 1 {
		return AlwaysMatchExpr{}, nil
	}
	p := NewParser(tokens)
	expr, err := p.parseOr()
	if err != nil {
		return nil, err
	}
	if tok := p.current(); tok.Type != TokenEOF {
		return nil, fmt.Errorf("unexpected token: %s", tok.Value)
	}
	return expr, nil
}

func (p *Parser) current() Token {
	if p.pos >= len(p.tokens) {
		return Token{Type: TokenEOF}
	}
	return p.tokens[p.pos]
}

func (p *Parser) advance() {
	if p.pos < len(p.tokens) {
		p.pos++
	}
}

func (p *Parser) parseOr() (FilterExpr, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for p.current().Type == TokenOr {
		p.advance()
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		left = NewOrExpr(left, right)
	}
	return left, nil
}

func (p *Parser) parseAnd() (FilterExpr, error) {
	left, err := p.parseNot()
	if err != nil {
		return nil, err
	}
	for {
		if p.current().Type == TokenAnd {
			p.advance()
		}
		switch p.current().Type {
		case TokenEOF, TokenRParen, TokenOr:
			return left, nil
		}
		right, err := p.parseNot()
		if err != nil {
			return nil, err
		}
		left = NewAndExpr(left, right)
	}
}

func (p *Parser) parseNot() (FilterExpr, error) {
	if p.current().Type == TokenNot {
		p.advance()
		expr, err := p.parseNot()
		if err != nil {
			return nil, err
		}
		return NewNotExpr(expr), nil
	}
	return p.parseAtom()
}

func (p *Parser) parseAtom() (FilterExpr, error) {
	tok := p.current()
	switch tok.Type {
	case TokenLParen:
		p.advance()
		expr, err := p.parseOr()
		if err != nil {
			return nil, err
		}
		if p.current().Type != TokenRParen {
			return nil, fmt.Errorf("expected ')', got %q", p.current().Value)
		}
		p.advance()
		return expr, nil
	case TokenText:
		p.advance()
		return NewTextExpr(tok.Value), nil
	case TokenRegex:
		p.advance()
		return NewRegexExpr(tok.Value)
	case TokenFilter:
		p.advance()
		return parseFilter(tok.Value)
	case TokenEOF:
		return nil, fmt.Errorf("unexpected end of input")
	}
	return nil, fmt.Errorf("unexpected token: %s", tok.Value)
}

// parseFilter converts a filter token into the matching expression
func parseFilter(value string) (FilterExpr, error) {
	switch value[0] {
	case '~':
		if len(value) == 1 {
			return nil, fmt.Errorf("empty fuzzy term")
		}
		return NewFuzzyExpr(value[1:]), nil
	case '#':
		if len(value) == 1 {
			return nil, fmt.Errorf("empty tag")
		}
		return NewTagExpr(value[1:]), nil
	case '@':
		field, op, operand := splitComparison(value[1:])
		if field == "" {
			return nil, fmt.Errorf("missing field name in %q", value)
		}
		return NewFieldExpr(field, op, operand), nil
	}

	name, criteria, _ := strings.Cut(value, ":")
	switch name {
	case "is":
		return NewKindExpr(criteria)
	case "c", "created", "m", "modified":
		bare, op, operand := splitComparison(criteria)
		if op == "" {
			op, operand = OpEqual, bare
		}
		return NewDateFilter(name[0] == 'm', op, operand)
	}
	return nil, fmt.Errorf("unknown filter: %s", name)
}

// splitComparison splits "field>=value" into its parts; op is empty when the
// input has no operator.
func splitComparison(s string) (string, ComparisonOp, string) {
	i := strings.IndexAny(s, "=!<>")
	if i < 0 {
		return s, "", ""
	}
	rest := s[i:]
	for _, op := range []ComparisonOp{OpGreaterEqual, OpLessEqual, OpNotEqual, OpGreater, OpLess, OpEqual} {
		if strings.HasPrefix(rest, string(op)) {
			return s[:i], op, rest[len(op):]
		}
	}
	return s, "", ""
}
