package condition

import (
	"strconv"
	"unicode"
)

type tokenType int

const (
	tokEOF tokenType = iota
	tokIdent
	tokNumber
	tokString
	tokOp     // < <= > >= == !=
	tokAnd    // &&
	tokOr     // ||
	tokLParen // (
	tokRParen // )
)

type token struct {
	typ tokenType
	pos int
	lit string  // ident, string, op text
	num float64 // valid when typ == tokNumber
}

func lex(src string) ([]token, error) {
	var toks []token
	runes := []rune(src)
	i := 0
	for i < len(runes) {
		r := runes[i]
		switch {
		case unicode.IsSpace(r):
			i++
		case r == '(':
			toks = append(toks, token{typ: tokLParen, pos: i})
			i++
		case r == ')':
			toks = append(toks, token{typ: tokRParen, pos: i})
			i++
		case r == '&':
			if i+1 >= len(runes) || runes[i+1] != '&' {
				return nil, &ParseError{Pos: i, Msg: "expected '&&'"}
			}
			toks = append(toks, token{typ: tokAnd, pos: i, lit: "&&"})
			i += 2
		case r == '|':
			if i+1 >= len(runes) || runes[i+1] != '|' {
				return nil, &ParseError{Pos: i, Msg: "expected '||'"}
			}
			toks = append(toks, token{typ: tokOr, pos: i, lit: "||"})
			i += 2
		case r == '<' || r == '>':
			op := string(r)
			j := i + 1
			if j < len(runes) && runes[j] == '=' {
				op += "="
				j++
			}
			toks = append(toks, token{typ: tokOp, pos: i, lit: op})
			i = j
		case r == '=' || r == '!':
			if i+1 >= len(runes) || runes[i+1] != '=' {
				return nil, &ParseError{Pos: i, Msg: "expected '" + string(r) + "='"}
			}
			toks = append(toks, token{typ: tokOp, pos: i, lit: string(r) + "="})
			i += 2
		case r == '"' || r == '\'':
			quote := r
			j := i + 1
			for j < len(runes) && runes[j] != quote {
				j++
			}
			if j >= len(runes) {
				return nil, &ParseError{Pos: i, Msg: "unterminated string literal"}
			}
			toks = append(toks, token{typ: tokString, pos: i, lit: string(runes[i+1 : j])})
			i = j + 1
		case unicode.IsDigit(r) || r == '.' || r == '-':
			j := i
			if runes[j] == '-' {
				j++
			}
			for j < len(runes) && (unicode.IsDigit(runes[j]) || runes[j] == '.' || runes[j] == '_') {
				j++
			}
			lit := string(runes[i:j])
			num, err := strconv.ParseFloat(lit, 64)
			if err != nil {
				return nil, &ParseError{Pos: i, Msg: "invalid number literal " + strconv.Quote(lit)}
			}
			toks = append(toks, token{typ: tokNumber, pos: i, num: num})
			i = j
		case unicode.IsLetter(r) || r == '_':
			j := i
			for j < len(runes) && (unicode.IsLetter(runes[j]) || unicode.IsDigit(runes[j]) || runes[j] == '_') {
				j++
			}
			toks = append(toks, token{typ: tokIdent, pos: i, lit: string(runes[i:j])})
			i = j
		default:
			return nil, &ParseError{Pos: i, Msg: "unexpected character " + strconv.QuoteRune(r)}
		}
	}
	toks = append(toks, token{typ: tokEOF, pos: len(runes)})
	return toks, nil
}
