package parser

import (
	"fmt"

	"github.com/sqlitekit/sqlitekit/pkg/lexer"
	"github.com/sqlitekit/sqlitekit/pkg/value"
)

// parseCreateTable parses `CREATE TABLE ident (col_def, ...)`.
func (p *Parser) parseCreateTable() Statement {
	p.nextToken() // consume CREATE
	if !p.expect(lexer.TABLE) {
		return nil
	}
	if !p.curTokenIs(lexer.IDENT) {
		p.fail(p.curToken, fmt.Sprintf("Unexpected value: %s", p.curToken.Literal))
		return nil
	}
	table := p.curToken.Literal
	p.nextToken()

	if !p.expect(lexer.LPAREN) {
		return nil
	}

	var columns []ColumnDef
	for {
		if !p.curTokenIs(lexer.IDENT) {
			p.fail(p.curToken, fmt.Sprintf("Unexpected value: %s", p.curToken.Literal))
			return nil
		}
		name := p.curToken.Literal
		p.nextToken()

		if !p.curTokenIs(lexer.IDENT) {
			p.fail(p.curToken, fmt.Sprintf("Unexpected value: %s", p.curToken.Literal))
			return nil
		}
		dataType, err := value.ParseType(p.curToken.Literal)
		if err != nil {
			p.fail(p.curToken, fmt.Sprintf("Unexpected value: %s", p.curToken.Literal))
			return nil
		}
		p.nextToken()

		var constraints []string
		for p.curTokenIs(lexer.IDENT) {
			constraints = append(constraints, p.curToken.Literal)
			p.nextToken()
		}

		columns = append(columns, ColumnDef{Name: name, DataType: dataType, Constraints: constraints})

		if p.curTokenIs(lexer.COMMA) {
			p.nextToken()
			continue
		}
		break
	}

	if !p.expect(lexer.RPAREN) {
		return nil
	}

	return &CreateTable{Table: table, Columns: columns}
}

// parseInsert parses `INSERT INTO ident [(ident, ...)] VALUES tuple, ...`.
func (p *Parser) parseInsert() Statement {
	p.nextToken() // consume INSERT
	if !p.expect(lexer.INTO) {
		return nil
	}
	if !p.curTokenIs(lexer.IDENT) {
		p.fail(p.curToken, fmt.Sprintf("Unexpected value: %s", p.curToken.Literal))
		return nil
	}
	table := p.curToken.Literal
	p.nextToken()

	var columns []string
	if p.curTokenIs(lexer.LPAREN) {
		p.nextToken()
		for {
			if !p.curTokenIs(lexer.IDENT) {
				p.fail(p.curToken, fmt.Sprintf("Unexpected value: %s", p.curToken.Literal))
				return nil
			}
			columns = append(columns, p.curToken.Literal)
			p.nextToken()
			if p.curTokenIs(lexer.COMMA) {
				p.nextToken()
				continue
			}
			break
		}
		if !p.expect(lexer.RPAREN) {
			return nil
		}
	}

	if !p.expect(lexer.VALUES) {
		return nil
	}

	var tuples [][]Expression
	for {
		if !p.expect(lexer.LPAREN) {
			return nil
		}
		var values []Expression
		if !p.curTokenIs(lexer.RPAREN) {
			values = append(values, p.parseExpression(precLowest))
			for p.curTokenIs(lexer.COMMA) {
				p.nextToken()
				values = append(values, p.parseExpression(precLowest))
			}
		}
		if p.failed() {
			return nil
		}
		if !p.expect(lexer.RPAREN) {
			return nil
		}
		tuples = append(tuples, values)

		if p.curTokenIs(lexer.COMMA) {
			p.nextToken()
			continue
		}
		break
	}

	return &Insert{Table: table, Columns: columns, Tuples: tuples}
}
