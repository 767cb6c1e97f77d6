package dumpfmt

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokIdent
	tokString
	tokOffset // "0x<hex>" or "0x<hex>:<first>-<last>"
	tokPunct  // one of { } ( ) [ ] * = ->
)

type token struct {
	kind tokenKind
	text string
}

// lexer splits a dumpfmt tree body into tokens, ignoring line breaks:
// indentation is purely cosmetic and carries no grammatical meaning since
// every structural boundary (braces, parens, brackets, offsets, quoted
// strings) is self-delimiting.
type lexer struct {
	r       *bufio.Reader
	pending []token
}

func newLexer(r io.Reader) *lexer {
	br, ok := r.(*bufio.Reader)
	if !ok {
		br = bufio.NewReader(r)
	}
	return &lexer{r: br}
}

// peekTok returns the next token without consuming it.
func (l *lexer) peekTok() (token, error) {
	return l.peekN(1)
}

// peekN returns the n-th unconsumed token (1-based) without consuming any,
// filling the pending queue as needed. Used to disambiguate constructs that
// share a leading identifier (e.g. a func node's name vs. a var's name)
// without backtracking.
func (l *lexer) peekN(n int) (token, error) {
	for len(l.pending) < n {
		t, err := l.scan()
		if err != nil {
			return token{}, err
		}
		l.pending = append(l.pending, t)
		if t.kind == tokEOF {
			break
		}
	}
	if len(l.pending) < n {
		return token{kind: tokEOF}, nil
	}
	return l.pending[n-1], nil
}

func (l *lexer) next() (token, error) {
	if len(l.pending) > 0 {
		t := l.pending[0]
		l.pending = l.pending[1:]
		return t, nil
	}
	return l.scan()
}

func (l *lexer) skipSpace() error {
	for {
		r, _, err := l.r.ReadRune()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		if r == ' ' || r == '\t' || r == '\n' || r == '\r' {
			continue
		}
		return l.r.UnreadRune()
	}
}

func (l *lexer) scan() (token, error) {
	if err := l.skipSpace(); err != nil {
		return token{}, err
	}
	r, _, err := l.r.ReadRune()
	if err == io.EOF {
		return token{kind: tokEOF}, nil
	}
	if err != nil {
		return token{}, err
	}

	switch r {
	case '{', '}', '(', ')', '[', ']', '*', '=':
		return token{kind: tokPunct, text: string(r)}, nil
	case '"':
		return l.scanString()
	case '-':
		next, _, err := l.r.ReadRune()
		if err == nil && next == '>' {
			return token{kind: tokPunct, text: "->"}, nil
		}
		if err == nil {
			l.r.UnreadRune()
		}
		return token{}, fmt.Errorf("dumpfmt: unexpected '-' not followed by '>'")
	default:
		return l.scanWord(r)
	}
}

func (l *lexer) scanString() (token, error) {
	var b strings.Builder
	b.WriteByte('"')
	for {
		r, _, err := l.r.ReadRune()
		if err != nil {
			return token{}, fmt.Errorf("dumpfmt: unterminated quoted string: %w", err)
		}
		b.WriteRune(r)
		if r == '"' {
			break
		}
		if r == '\\' {
			esc, _, err := l.r.ReadRune()
			if err != nil {
				return token{}, fmt.Errorf("dumpfmt: unterminated escape in quoted string: %w", err)
			}
			b.WriteRune(esc)
		}
	}
	val, err := strconv.Unquote(b.String())
	if err != nil {
		return token{}, fmt.Errorf("dumpfmt: invalid quoted string %q: %w", b.String(), err)
	}
	return token{kind: tokString, text: val}, nil
}

func isWordRune(r rune) bool {
	return r == '_' || r == ':' || r == '-' ||
		(r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
}

func (l *lexer) scanWord(first rune) (token, error) {
	var b strings.Builder
	b.WriteRune(first)
	for {
		r, _, err := l.r.ReadRune()
		if err == io.EOF {
			break
		}
		if err != nil {
			return token{}, err
		}
		if !isWordRune(r) {
			l.r.UnreadRune()
			break
		}
		b.WriteRune(r)
	}
	word := b.String()
	if strings.HasPrefix(word, "0x") {
		return token{kind: tokOffset, text: word}, nil
	}
	return token{kind: tokIdent, text: word}, nil
}
