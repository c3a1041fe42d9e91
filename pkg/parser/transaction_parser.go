package parser

import (
	"fmt"

	"github.com/sqlitekit/sqlitekit/pkg/lexer"
)

// parseSavepoint parses `SAVEPOINT ident`.
func (p *Parser) parseSavepoint() Statement {
	p.nextToken() // consume SAVEPOINT
	if !p.curTokenIs(lexer.IDENT) {
		p.fail(p.curToken, fmt.Sprintf("Unexpected value: %s", p.curToken.Literal))
		return nil
	}
	name := p.curToken.Literal
	p.nextToken()
	return &Savepoint{Name: name}
}

// parseCommit parses `COMMIT`.
func (p *Parser) parseCommit() Statement {
	p.nextToken()
	return &Commit{}
}

// parseRollback parses `ROLLBACK [TO ident]`.
func (p *Parser) parseRollback() Statement {
	p.nextToken() // consume ROLLBACK
	if p.curTokenIs(lexer.TO) {
		p.nextToken()
		if !p.curTokenIs(lexer.IDENT) {
			p.fail(p.curToken, fmt.Sprintf("Unexpected value: %s", p.curToken.Literal))
			return nil
		}
		name := p.curToken.Literal
		p.nextToken()
		return &Rollback{To: name}
	}
	return &Rollback{}
}
