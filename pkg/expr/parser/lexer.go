package parser

import (
	"strings"

	exprErrors "polaris-hq/borealis/pkg/expr/errors"
)

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokNumber
	tokString
	tokIdent
	tokPunct
)

type token struct {
	kind tokenKind
	text string
	pos  int
}

// twoCharPuncts are matched before single characters. The strict JS
// equality forms are normalized to their loose spellings here so the
// parser and evaluator only ever see one spelling.
var twoCharPuncts = map[string]string{
	"==": "==", "!=": "!=", "<=": "<=", ">=": ">=",
	"&&": "&&", "||": "||",
}

const singlePuncts = "()[]{},:.?+-*/!<>"

type lexer struct {
	src string
	i   int
}

func (l *lexer) next() (token, error) {
	for l.i < len(l.src) && isSpace(l.src[l.i]) {
		l.i++
	}
	if l.i >= len(l.src) {
		return token{kind: tokEOF, pos: l.i}, nil
	}

	start := l.i
	ch := l.src[l.i]

	switch {
	case ch >= '0' && ch <= '9':
		j := l.i + 1
		for j < len(l.src) && (isDigit(l.src[j]) || l.src[j] == '.') {
			j++
		}
		text := l.src[l.i:j]
		l.i = j
		return token{kind: tokNumber, text: text, pos: start}, nil

	case ch == '\'':
		var sb strings.Builder
		j := l.i + 1
		for j < len(l.src) {
			c := l.src[j]
			if c == '\\' && j+1 < len(l.src) {
				sb.WriteByte(l.src[j+1])
				j += 2
				continue
			}
			if c == '\'' {
				l.i = j + 1
				return token{kind: tokString, text: sb.String(), pos: start}, nil
			}
			sb.WriteByte(c)
			j++
		}
		return token{}, exprErrors.Reject("unterminated string literal", l.src[start:], start)

	case isIdentStart(ch):
		j := l.i + 1
		for j < len(l.src) && isIdentPart(l.src[j]) {
			j++
		}
		text := l.src[l.i:j]
		l.i = j
		return token{kind: tokIdent, text: text, pos: start}, nil
	}

	// Strict equality: === / !== collapse to == / !=.
	if l.i+3 <= len(l.src) {
		three := l.src[l.i : l.i+3]
		if three == "===" || three == "!==" {
			l.i += 3
			return token{kind: tokPunct, text: three[:2], pos: start}, nil
		}
	}
	if l.i+2 <= len(l.src) {
		if norm, ok := twoCharPuncts[l.src[l.i:l.i+2]]; ok {
			l.i += 2
			return token{kind: tokPunct, text: norm, pos: start}, nil
		}
	}
	if strings.IndexByte(singlePuncts, ch) >= 0 {
		l.i++
		return token{kind: tokPunct, text: string(ch), pos: start}, nil
	}

	return token{}, exprErrors.Reject("unexpected character", string(ch), start)
}

func isSpace(c byte) bool { return c == ' ' || c == '\t' || c == '\n' || c == '\r' }

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentPart(c byte) bool { return isIdentStart(c) || isDigit(c) }
