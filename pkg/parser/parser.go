// Package parser turns a token stream from pkg/lexer into the statement AST
// defined in ast.go (spec.md §4.5).
package parser

import (
	"fmt"

	"github.com/sqlitekit/sqlitekit/pkg/lexer"
)

// ParseError carries the offending token's position alongside the message,
// so callers can render spec.md §6's exact diagnostic format.
type ParseError struct {
	Line    int
	Column  int
	Message string
}

func (e *ParseError) Error() string { return e.Message }

// Parser is a recursive-descent parser with a Pratt expression core. It
// keeps a single token of lookahead: curToken is always the next
// unconsumed token, and every parse* helper leaves it that way on return.
type Parser struct {
	l *lexer.Lexer

	curToken lexer.Token
	err      *ParseError
}

// New returns a Parser positioned at the first token of input.
func New(input string) *Parser {
	p := &Parser{l: lexer.New(input)}
	p.nextToken()
	return p
}

func (p *Parser) nextToken() {
	p.curToken = p.l.Next()
}

func (p *Parser) curTokenIs(t lexer.TokenType) bool { return p.curToken.Type == t }

// expect requires curToken to match t; on success it advances past it.
func (p *Parser) expect(t lexer.TokenType) bool {
	if p.curTokenIs(t) {
		p.nextToken()
		return true
	}
	p.fail(p.curToken, fmt.Sprintf("Unexpected value: %s", p.curToken.Literal))
	return false
}

func (p *Parser) fail(tok lexer.Token, message string) {
	if p.err == nil {
		p.err = &ParseError{Line: tok.Line, Column: tok.Column, Message: message}
	}
}

func (p *Parser) failed() bool { return p.err != nil }

// AtEnd reports whether the parser has consumed the whole input (only EOF
// remains), used by ParseBatch to know when to stop.
func (p *Parser) AtEnd() bool { return p.curTokenIs(lexer.EOF) }

// StatementLine returns the line the next statement starts on, used for the
// Execution Error diagnostic's "statement starting on line" text.
func (p *Parser) StatementLine() int { return p.curToken.Line }

// ParseStatement parses exactly one top-level statement and consumes its
// trailing ';' (or leaves curToken at EOF if the statement was the last).
func (p *Parser) ParseStatement() (Statement, error) {
	var stmt Statement
	switch p.curToken.Type {
	case lexer.CREATE:
		stmt = p.parseCreateTable()
	case lexer.INSERT:
		stmt = p.parseInsert()
	case lexer.SELECT, lexer.LPAREN:
		stmt = p.parseSelect()
	case lexer.UPDATE:
		stmt = p.parseUpdate()
	case lexer.DELETE:
		stmt = p.parseDelete()
	case lexer.SAVEPOINT:
		stmt = p.parseSavepoint()
	case lexer.COMMIT:
		stmt = p.parseCommit()
	case lexer.ROLLBACK:
		stmt = p.parseRollback()
	default:
		p.fail(p.curToken, fmt.Sprintf("Unexpected value: %s", p.curToken.Literal))
	}

	if p.failed() {
		return nil, p.err
	}

	if p.curTokenIs(lexer.SEMICOLON) {
		p.nextToken()
	} else if !p.curTokenIs(lexer.EOF) {
		p.fail(p.curToken, fmt.Sprintf("Unexpected value: %s", p.curToken.Literal))
		return nil, p.err
	}
	return stmt, nil
}

// ParseBatch parses every statement in input independently: a parse error
// on one statement produces an Err for that statement only and parsing
// resumes at the next ';' (spec §4.5, §7 propagation policy, S6).
func ParseBatch(input string) []BatchItem {
	p := New(input)
	var items []BatchItem
	for !p.AtEnd() {
		line := p.StatementLine()
		stmt, err := p.ParseStatement()
		if err != nil {
			items = append(items, BatchItem{Line: line, Err: err})
			p.recoverToNextStatement()
			continue
		}
		items = append(items, BatchItem{Line: line, Statement: stmt})
	}
	return items
}

// BatchItem is one statement's parse outcome plus the source line it
// started on.
type BatchItem struct {
	Line      int
	Statement Statement
	Err       error
}

// recoverToNextStatement skips tokens until past the next ';' or EOF, so a
// parse failure on one statement doesn't corrupt the rest of the batch.
func (p *Parser) recoverToNextStatement() {
	p.err = nil
	for !p.curTokenIs(lexer.SEMICOLON) && !p.curTokenIs(lexer.EOF) {
		p.nextToken()
	}
	if p.curTokenIs(lexer.SEMICOLON) {
		p.nextToken()
	}
}
