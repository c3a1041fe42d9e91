package parser

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/sqlitekit/sqlitekit/pkg/lexer"
	"github.com/sqlitekit/sqlitekit/pkg/value"
)

// precedence levels, low to high (spec §4.5 "expr := Pratt expression").
const (
	precLowest = iota
	precOr
	precAnd
	precNot
	precComparison
	precAdditive
	precMultiplicative
	precUnary
)

func precedenceOf(t lexer.TokenType) int {
	switch t {
	case lexer.OR:
		return precOr
	case lexer.AND:
		return precAnd
	case lexer.ASSIGN, lexer.NOT_EQ, lexer.LT, lexer.GT, lexer.LTE, lexer.GTE, lexer.IS:
		return precComparison
	case lexer.PLUS, lexer.MINUS:
		return precAdditive
	case lexer.ASTERISK, lexer.SLASH, lexer.PERCENT:
		return precMultiplicative
	}
	return precLowest
}

// parseExpression implements precedence-climbing: parse a prefix term, then
// repeatedly fold in infix operators whose precedence exceeds minPrec.
func (p *Parser) parseExpression(minPrec int) Expression {
	left := p.parsePrefix()
	if p.failed() {
		return left
	}

	for !p.failed() {
		prec := precedenceOf(p.curToken.Type)
		if prec <= minPrec || prec == precLowest {
			break
		}
		if p.curTokenIs(lexer.IS) {
			left = p.parseIsNull(left)
			continue
		}
		left = p.parseInfix(left, prec)
	}
	return left
}

func (p *Parser) parseIsNull(left Expression) Expression {
	p.nextToken() // consume IS
	not := false
	if p.curTokenIs(lexer.NOT) {
		not = true
		p.nextToken()
	}
	if !p.curTokenIs(lexer.NULL) {
		p.fail(p.curToken, fmt.Sprintf("Unexpected value: %s", p.curToken.Literal))
		return left
	}
	p.nextToken()
	return &IsNull{Operand: left, Not: not}
}

func (p *Parser) parseInfix(left Expression, prec int) Expression {
	op := p.curToken
	p.nextToken()
	right := p.parseExpression(prec)
	return &Binary{Op: opText(op.Type), Left: left, Right: right}
}

func opText(t lexer.TokenType) string {
	switch t {
	case lexer.PLUS:
		return "+"
	case lexer.MINUS:
		return "-"
	case lexer.ASTERISK:
		return "*"
	case lexer.SLASH:
		return "/"
	case lexer.PERCENT:
		return "%"
	case lexer.ASSIGN:
		return "="
	case lexer.NOT_EQ:
		return "!="
	case lexer.LT:
		return "<"
	case lexer.GT:
		return ">"
	case lexer.LTE:
		return "<="
	case lexer.GTE:
		return ">="
	case lexer.AND:
		return "AND"
	case lexer.OR:
		return "OR"
	}
	return t.String()
}

func (p *Parser) parsePrefix() Expression {
	tok := p.curToken
	switch tok.Type {
	case lexer.MINUS, lexer.PLUS:
		p.nextToken()
		operand := p.parseExpression(precUnary)
		return &Unary{Op: opText(tok.Type), Operand: operand}
	case lexer.NOT:
		p.nextToken()
		operand := p.parseExpression(precNot)
		return &Unary{Op: "NOT", Operand: operand}
	case lexer.NUMBER:
		p.nextToken()
		return parseNumberLiteral(tok)
	case lexer.STRING:
		p.nextToken()
		return &Literal{Value: value.NewText(unquote(tok.Literal))}
	case lexer.NULL:
		p.nextToken()
		return &Literal{Value: value.NewNull()}
	case lexer.IDENT:
		p.nextToken()
		if p.curTokenIs(lexer.LPAREN) {
			return p.parseFuncCall(tok.Literal)
		}
		return &Ident{Name: tok.Literal}
	case lexer.LPAREN:
		p.nextToken()
		inner := p.parseExpression(precLowest)
		if !p.expect(lexer.RPAREN) {
			return inner
		}
		return inner
	}

	p.fail(tok, fmt.Sprintf("Unexpected value: %s", tok.Literal))
	return nil
}

func (p *Parser) parseFuncCall(name string) Expression {
	p.nextToken() // consume '('
	var args []Expression
	if !p.curTokenIs(lexer.RPAREN) {
		args = append(args, p.parseExpression(precLowest))
		for p.curTokenIs(lexer.COMMA) {
			p.nextToken()
			args = append(args, p.parseExpression(precLowest))
		}
	}
	p.expect(lexer.RPAREN)
	return &FuncCall{Name: name, Args: args}
}

func parseNumberLiteral(tok lexer.Token) Expression {
	if !strings.ContainsAny(tok.Literal, ".eE") {
		if n, err := strconv.ParseInt(tok.Literal, 10, 64); err == nil {
			return &Literal{Value: value.NewInteger(n)}
		}
	}
	f, _ := strconv.ParseFloat(tok.Literal, 64)
	return &Literal{Value: value.NewReal(f)}
}

// unquote strips the surrounding quote characters and collapses a doubled
// quote into one literal quote character (spec §4.4, §6).
func unquote(lit string) string {
	if len(lit) < 2 {
		return lit
	}
	quote := lit[0]
	inner := lit[1 : len(lit)-1]
	doubled := string([]byte{quote, quote})
	return strings.ReplaceAll(inner, doubled, string(quote))
}
