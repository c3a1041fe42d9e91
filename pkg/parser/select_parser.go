package parser

import (
	"fmt"

	"github.com/sqlitekit/sqlitekit/pkg/lexer"
)

// parseSelect parses the full `select` production, including the
// parenthesized-subquery alternative (spec §4.5).
func (p *Parser) parseSelect() Statement {
	var sel *Select
	if p.curTokenIs(lexer.LPAREN) {
		p.nextToken()
		inner := p.parseCompoundSelect()
		if p.failed() {
			return nil
		}
		if !p.expect(lexer.RPAREN) {
			return nil
		}
		sel = inner
	} else {
		sel = p.parseCompoundSelect()
		if p.failed() {
			return nil
		}
	}

	p.parseOrderByLimitOffset(sel)
	if p.failed() {
		return nil
	}
	return sel
}

// parseCompoundSelect parses `select_core (set_op select_core)*`, leaving
// ORDER BY/LIMIT/OFFSET for the caller.
func (p *Parser) parseCompoundSelect() *Select {
	sel := &Select{}
	core := p.parseSelectCore()
	if p.failed() {
		return sel
	}
	sel.Cores = append(sel.Cores, core)

	for {
		var op SetOp
		switch p.curToken.Type {
		case lexer.UNION:
			op = SetOpUnion
		case lexer.INTERSECT:
			op = SetOpIntersect
		case lexer.EXCEPT:
			op = SetOpExcept
		default:
			return sel
		}
		p.nextToken()
		next := p.parseSelectCore()
		if p.failed() {
			return sel
		}
		sel.SetOps = append(sel.SetOps, op)
		sel.Cores = append(sel.Cores, next)
	}
}

// parseSelectCore parses `SELECT (asterisk | expr_list) FROM ident [WHERE expr]`.
func (p *Parser) parseSelectCore() SelectCore {
	var core SelectCore
	if !p.curTokenIs(lexer.SELECT) {
		p.fail(p.curToken, fmt.Sprintf("Unexpected value: %s", p.curToken.Literal))
		return core
	}
	p.nextToken()

	if p.curTokenIs(lexer.ASTERISK) {
		core.Star = true
		p.nextToken()
	} else {
		core.Columns = append(core.Columns, p.parseExpression(precLowest))
		for p.curTokenIs(lexer.COMMA) {
			p.nextToken()
			core.Columns = append(core.Columns, p.parseExpression(precLowest))
		}
	}
	if p.failed() {
		return core
	}

	if !p.curTokenIs(lexer.FROM) {
		p.fail(p.curToken, fmt.Sprintf("Unexpected value: %s", p.curToken.Literal))
		return core
	}
	p.nextToken()

	if !p.curTokenIs(lexer.IDENT) {
		p.fail(p.curToken, fmt.Sprintf("Unexpected value: %s", p.curToken.Literal))
		return core
	}
	core.Table = p.curToken.Literal
	p.nextToken()

	if p.curTokenIs(lexer.WHERE) {
		p.nextToken()
		core.Where = p.parseExpression(precLowest)
	}
	return core
}

// parseOrderByLimitOffset parses the trailing `[ORDER BY ...] [LIMIT expr
// [OFFSET expr]]` shared by both select forms; UPDATE and DELETE use
// parseLimitOffset.
func (p *Parser) parseOrderByLimitOffset(sel *Select) {
	if p.curTokenIs(lexer.ORDER) {
		p.nextToken()
		if !p.curTokenIs(lexer.BY) {
			p.fail(p.curToken, fmt.Sprintf("Unexpected value: %s", p.curToken.Literal))
			return
		}
		p.nextToken()
		for {
			key := p.parseExpression(precLowest)
			if p.failed() {
				return
			}
			desc := false
			if p.curTokenIs(lexer.ASC) {
				p.nextToken()
			} else if p.curTokenIs(lexer.DESC) {
				desc = true
				p.nextToken()
			}
			sel.OrderBy = append(sel.OrderBy, OrderKey{Expr: key, Desc: desc})
			if p.curTokenIs(lexer.COMMA) {
				p.nextToken()
				continue
			}
			break
		}
	}

	if p.curTokenIs(lexer.LIMIT) {
		p.nextToken()
		sel.Limit = p.parseExpression(precLowest)
		if p.failed() {
			return
		}
		if p.curTokenIs(lexer.OFFSET) {
			p.nextToken()
			sel.Offset = p.parseExpression(precLowest)
		}
	}
}

// parseLimitOffset parses the `[LIMIT expr [OFFSET expr]]` tail UPDATE and
// DELETE share (spec §4.5 "update"/"delete").
func (p *Parser) parseLimitOffset() (limit, offset Expression) {
	if !p.curTokenIs(lexer.LIMIT) {
		return nil, nil
	}
	p.nextToken()
	limit = p.parseExpression(precLowest)
	if p.failed() {
		return limit, nil
	}
	if p.curTokenIs(lexer.OFFSET) {
		p.nextToken()
		offset = p.parseExpression(precLowest)
	}
	return limit, offset
}

// parseUpdate parses `UPDATE ident SET assign, ... [WHERE ...] [LIMIT ... [OFFSET ...]]`.
func (p *Parser) parseUpdate() Statement {
	p.nextToken() // consume UPDATE
	if !p.curTokenIs(lexer.IDENT) {
		p.fail(p.curToken, fmt.Sprintf("Unexpected value: %s", p.curToken.Literal))
		return nil
	}
	table := p.curToken.Literal
	p.nextToken()

	if !p.expect(lexer.SET) {
		return nil
	}

	var assignments []Assignment
	for {
		if !p.curTokenIs(lexer.IDENT) {
			p.fail(p.curToken, fmt.Sprintf("Unexpected value: %s", p.curToken.Literal))
			return nil
		}
		col := p.curToken.Literal
		p.nextToken()
		if !p.expect(lexer.ASSIGN) {
			return nil
		}
		val := p.parseExpression(precLowest)
		if p.failed() {
			return nil
		}
		assignments = append(assignments, Assignment{Column: col, Value: val})
		if p.curTokenIs(lexer.COMMA) {
			p.nextToken()
			continue
		}
		break
	}

	upd := &Update{Table: table, Assignments: assignments}
	if p.curTokenIs(lexer.WHERE) {
		p.nextToken()
		upd.Where = p.parseExpression(precLowest)
		if p.failed() {
			return nil
		}
	}
	upd.Limit, upd.Offset = p.parseLimitOffset()
	if p.failed() {
		return nil
	}
	return upd
}

// parseDelete parses `DELETE FROM ident [WHERE ...] [LIMIT ... [OFFSET ...]]`.
func (p *Parser) parseDelete() Statement {
	p.nextToken() // consume DELETE
	if !p.expect(lexer.FROM) {
		return nil
	}
	if !p.curTokenIs(lexer.IDENT) {
		p.fail(p.curToken, fmt.Sprintf("Unexpected value: %s", p.curToken.Literal))
		return nil
	}
	table := p.curToken.Literal
	p.nextToken()

	del := &Delete{Table: table}
	if p.curTokenIs(lexer.WHERE) {
		p.nextToken()
		del.Where = p.parseExpression(precLowest)
		if p.failed() {
			return nil
		}
	}
	del.Limit, del.Offset = p.parseLimitOffset()
	if p.failed() {
		return nil
	}
	return del
}
