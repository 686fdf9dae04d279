package trs

import (
	"sort"
	"strings"
)

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokNumber
	tokIdent
	tokFunc   // sin cos tan sqrt log ln
	tokInt    // int
	tokDeriv  // d/dx, Text holds the variable
	tokDiff   // dx closing an integral, Text holds the variable
	tokRaise  // raise
	tokOr     // vv
	tokAnd    // ^^
	tokPlus   // +
	tokMinus  // -
	tokStar   // *
	tokSlash  // /
	tokCaret  // ^
	tokEquals // =
	tokLParen
	tokRParen
	tokLBracket
	tokRBracket
	tokComma
	tokPrime // '
	tokUnderscore
	tokPipe
)

type token struct {
	kind tokenKind
	text string
	pos  int
}

// keywords are recognised inside runs of letters; everything else in a run
// is split into single-letter identifiers, so "xsin" is x followed by sin.
var keywords = map[string]tokenKind{
	"sqrt":  tokFunc,
	"raise": tokRaise,
	"sin":   tokFunc,
	"cos":   tokFunc,
	"tan":   tokFunc,
	"log":   tokFunc,
	"int":   tokInt,
	"ln":    tokFunc,
	"pi":    tokIdent,
	"oo":    tokIdent,
	"vv":    tokOr,
}

// keywordsByLength lists the keywords longest first.
var keywordsByLength = func() []string {
	out := make([]string, 0, len(keywords))
	for k := range keywords {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool {
		if len(out[i]) != len(out[j]) {
			return len(out[i]) > len(out[j])
		}
		return out[i] < out[j]
	})
	return out
}()

// splitLetters splits a run of letters into keywords and single letters.
func splitLetters(run string) []string {
	var parts []string
	for i := 0; i < len(run); {
		n := 1
		for _, k := range keywordsByLength {
			if strings.HasPrefix(run[i:], k) {
				n = len(k)
				break
			}
		}
		parts = append(parts, run[i:i+n])
		i += n
	}
	return parts
}

var punctuation = map[byte]tokenKind{
	'+':  tokPlus,
	'-':  tokMinus,
	'*':  tokStar,
	'/':  tokSlash,
	'=':  tokEquals,
	'(':  tokLParen,
	')':  tokRParen,
	'[':  tokLBracket,
	']':  tokRBracket,
	',':  tokComma,
	'\'': tokPrime,
	'_':  tokUnderscore,
	'|':  tokPipe,
}

func isLetter(c byte) bool { return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') }
func isDigit(c byte) bool  { return c >= '0' && c <= '9' }

func lex(src string) ([]token, error) {
	var toks []token
	for i := 0; i < len(src); {
		c := src[i]
		spaced := i > 0 && (src[i-1] == ' ' || src[i-1] == '\t')
		switch {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
			i++
		case isDigit(c) || (c == '.' && i+1 < len(src) && isDigit(src[i+1])):
			j := i
			for j < len(src) && isDigit(src[j]) {
				j++
			}
			if j < len(src) && src[j] == '.' {
				j++
				for j < len(src) && isDigit(src[j]) {
					j++
				}
			}
			toks = append(toks, token{tokNumber, src[i:j], i})
			i = j
		case c == 'd' && i+3 < len(src) && src[i+1] == '/' && src[i+2] == 'd' && isLetter(src[i+3]) &&
			(i+4 == len(src) || !isLetter(src[i+4])):
			toks = append(toks, token{tokDeriv, src[i+3 : i+4], i})
			i += 4
		case isLetter(c):
			j := i
			for j < len(src) && isLetter(src[j]) {
				j++
			}
			run := src[i:j]
			if spaced && len(run) == 2 && run[0] == 'd' {
				toks = append(toks, token{tokDiff, run[1:], i})
				i = j
				continue
			}
			pos := i
			for _, part := range splitLetters(run) {
				kind, ok := keywords[part]
				if !ok {
					kind = tokIdent
				}
				toks = append(toks, token{kind, part, pos})
				pos += len(part)
			}
			i = j
		case c == '^':
			if i+1 < len(src) && src[i+1] == '^' {
				toks = append(toks, token{tokAnd, "^^", i})
				i += 2
				continue
			}
			toks = append(toks, token{tokCaret, "^", i})
			i++
		default:
			kind, ok := punctuation[c]
			if !ok {
				return nil, &SyntaxError{Pos: i, Msg: "unexpected character " + string(c)}
			}
			toks = append(toks, token{kind, string(c), i})
			i++
		}
	}
	return append(toks, token{tokEOF, "", len(src)}), nil
}
