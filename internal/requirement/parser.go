// SPDX-License-Identifier: MPL-2.0

package requirement

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/invowk/worldc/pkg/logic"
)

// keywords are identifiers with a fixed meaning. Quote a name to use one
// of them as an item, event, area or macro name.
var keywords = map[string]bool{
	"and": true, "or": true, "not": true,
	"true": true, "false": true, "Nothing": true, "Impossible": true,
	"Item": true, "Event": true, "Area": true,
}

type parser struct {
	text string
	toks []token
	i    int
}

// Parse parses requirement text without resolving any name.
func Parse(text string) (Node, error) {
	toks, err := lex(text)
	if err != nil {
		return nil, err
	}
	p := &parser{text: text, toks: toks}
	if p.peek().kind == tokEOF {
		return nil, &ParseError{Text: text, Pos: 0, Msg: "empty requirement"}
	}
	n, err := p.parseOr()
	if err != nil {
		return nil, err
	}
	if t := p.peek(); t.kind != tokEOF {
		return nil, p.errorAt(t, "unexpected "+describe(t))
	}
	return n, nil
}

func (p *parser) peek() token { return p.toks[p.i] }

func (p *parser) peekAt(offset int) token {
	if p.i+offset >= len(p.toks) {
		return p.toks[len(p.toks)-1]
	}
	return p.toks[p.i+offset]
}

func (p *parser) next() token {
	t := p.toks[p.i]
	if t.kind != tokEOF {
		p.i++
	}
	return t
}

func (p *parser) errorAt(t token, msg string) *ParseError {
	return &ParseError{Text: p.text, Pos: t.pos, Token: t.raw, Msg: msg}
}

func (p *parser) parseOr() (Node, error) {
	first, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	terms := []Node{first}
	for p.peek().kind == tokOr {
		p.next()
		t, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		terms = append(terms, t)
	}
	if len(terms) == 1 {
		return first, nil
	}
	return &OrNode{Pos: first.Offset(), Terms: terms}, nil
}

func (p *parser) parseAnd() (Node, error) {
	first, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	terms := []Node{first}
	for {
		switch p.peek().kind {
		case tokAnd:
			p.next()
		case tokIdent, tokString, tokLParen, tokNot:
			// juxtaposition
		default:
			if len(terms) == 1 {
				return first, nil
			}
			return &AndNode{Pos: first.Offset(), Terms: terms}, nil
		}
		t, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		terms = append(terms, t)
	}
}

func (p *parser) parseUnary() (Node, error) {
	if t := p.peek(); t.kind == tokNot {
		p.next()
		x, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &NotNode{Pos: t.pos, X: x}, nil
	}
	return p.parsePrimary()
}

func (p *parser) parsePrimary() (Node, error) {
	t := p.next()
	switch t.kind {
	case tokLParen:
		x, err := p.parseOr()
		if err != nil {
			return nil, err
		}
		if closing := p.peek(); closing.kind != tokRParen {
			return nil, p.errorAt(closing, "expected ')' to close '(' at offset "+strconv.Itoa(t.pos)+", found "+describe(closing))
		}
		p.next()
		return x, nil
	case tokString:
		return &NameNode{Pos: t.pos, Name: t.text}, nil
	case tokIdent:
		return p.parseWord(t)
	default:
		return nil, p.errorAt(t, "expected a requirement, found "+describe(t))
	}
}

func (p *parser) parseWord(t token) (Node, error) {
	switch t.text {
	case "true", "Nothing":
		return &LiteralNode{Pos: t.pos, Value: true}, nil
	case "false", "Impossible":
		return &LiteralNode{Pos: t.pos, Value: false}, nil
	case "Item":
		name, err := p.parseName("Item")
		if err != nil {
			return nil, err
		}
		n := &ItemNode{Pos: t.pos, Name: name}
		if c := p.peek(); c.kind == tokInt {
			p.next()
			count, err := strconv.Atoi(c.text)
			if err != nil || count < 1 || count > int(logic.MaxCount) {
				return nil, p.errorAt(c, fmt.Sprintf("item count must be between 1 and %d", logic.MaxCount))
			}
			n.Count = count
		}
		return n, nil
	case "Event":
		name, err := p.parseName("Event")
		if err != nil {
			return nil, err
		}
		return &EventNode{Pos: t.pos, Name: name}, nil
	case "Area":
		name, err := p.parseName("Area")
		if err != nil {
			return nil, err
		}
		n := &AreaNode{Pos: t.pos, Name: name, Time: logic.AnyTime}
		if tod, ok := p.timeQualifier(); ok {
			n.Time = tod
		}
		return n, nil
	default:
		return &NameNode{Pos: t.pos, Name: t.text}, nil
	}
}

func (p *parser) parseName(after string) (string, error) {
	t := p.peek()
	if t.kind != tokIdent && t.kind != tokString {
		return "", p.errorAt(t, "expected a name after "+after+", found "+describe(t))
	}
	p.next()
	return t.text, nil
}

// timeQualifier consumes "(any)", "(day)" or "(night)" if present.
func (p *parser) timeQualifier() (logic.TimeOfDay, bool) {
	open, word, closing := p.peek(), p.peekAt(1), p.peekAt(2)
	if open.kind != tokLParen || word.kind != tokIdent || closing.kind != tokRParen {
		return 0, false
	}
	var tod logic.TimeOfDay
	switch strings.ToLower(word.text) {
	case "any":
		tod = logic.AnyTime
	case "day":
		tod = logic.Day
	case "night":
		tod = logic.Night
	default:
		return 0, false
	}
	p.i += 3
	return tod, true
}

func describe(t token) string {
	switch t.kind {
	case tokEOF:
		return "end of input"
	case tokIdent, tokString, tokInt:
		return fmt.Sprintf("%s %s", t.kind, t.raw)
	default:
		return t.kind.String()
	}
}
