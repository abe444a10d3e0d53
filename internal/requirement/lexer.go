// SPDX-License-Identifier: MPL-2.0

package requirement

import (
	"fmt"
	"strings"
)

const (
	tokEOF tokenKind = iota
	tokIdent
	tokString
	tokInt
	tokLParen
	tokRParen
	tokAnd
	tokOr
	tokNot
)

type (
	tokenKind int

	token struct {
		kind tokenKind
		// text is the identifier, the unquoted string or the digits.
		text string
		// pos is the byte offset of the token in the source.
		pos int
		// raw is the source spelling, used in error messages.
		raw string
	}
)

func (k tokenKind) String() string {
	switch k {
	case tokEOF:
		return "end of input"
	case tokIdent:
		return "name"
	case tokString:
		return "quoted name"
	case tokInt:
		return "number"
	case tokLParen:
		return "'('"
	case tokRParen:
		return "')'"
	case tokAnd:
		return "AND"
	case tokOr:
		return "OR"
	case tokNot:
		return "NOT"
	default:
		return fmt.Sprintf("token(%d)", int(k))
	}
}

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentPart(c byte) bool {
	return isIdentStart(c) || isDigit(c) || c == '\''
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

// lex splits text into tokens. The final token is always tokEOF.
func lex(text string) ([]token, error) {
	var toks []token
	i := 0
	for i < len(text) {
		c := text[i]
		switch {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
			i++
		case c == '(':
			toks = append(toks, token{kind: tokLParen, pos: i, raw: "("})
			i++
		case c == ')':
			toks = append(toks, token{kind: tokRParen, pos: i, raw: ")"})
			i++
		case c == '&' || c == '|':
			n := 1
			if i+1 < len(text) && text[i+1] == c {
				n = 2
			}
			kind := tokAnd
			if c == '|' {
				kind = tokOr
			}
			toks = append(toks, token{kind: kind, pos: i, raw: text[i : i+n]})
			i += n
		case c == '!':
			toks = append(toks, token{kind: tokNot, pos: i, raw: "!"})
			i++
		case c == '"':
			end := strings.IndexByte(text[i+1:], '"')
			if end < 0 {
				return nil, &ParseError{Text: text, Pos: i, Token: text[i:], Msg: "unterminated quoted name"}
			}
			name := text[i+1 : i+1+end]
			if strings.TrimSpace(name) == "" {
				return nil, &ParseError{Text: text, Pos: i, Token: text[i : i+end+2], Msg: "empty quoted name"}
			}
			toks = append(toks, token{kind: tokString, text: name, pos: i, raw: text[i : i+end+2]})
			i += end + 2
		case isDigit(c):
			start := i
			for i < len(text) && isDigit(text[i]) {
				i++
			}
			if i < len(text) && isIdentStart(text[i]) {
				for i < len(text) && isIdentPart(text[i]) {
					i++
				}
				return nil, &ParseError{Text: text, Pos: start, Token: text[start:i], Msg: "names must not start with a digit"}
			}
			toks = append(toks, token{kind: tokInt, text: text[start:i], pos: start, raw: text[start:i]})
		case isIdentStart(c):
			start := i
			for i < len(text) && isIdentPart(text[i]) {
				i++
			}
			word := text[start:i]
			kind := tokIdent
			switch word {
			case "and":
				kind = tokAnd
			case "or":
				kind = tokOr
			case "not":
				kind = tokNot
			}
			toks = append(toks, token{kind: kind, text: word, pos: start, raw: word})
		default:
			return nil, &ParseError{Text: text, Pos: i, Token: string(c), Msg: "unexpected character"}
		}
	}
	return append(toks, token{kind: tokEOF, pos: len(text)}), nil
}
