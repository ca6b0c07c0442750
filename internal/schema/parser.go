package schema

import (
	"strings"
	"unicode"

	"github.com/cockroachdb/errors"
)

// ResolveFunc maps an identifier to a declared schema, if there is one
type ResolveFunc func(name string) (Declaration, bool)

// ParseType parses a type expression such as `Optional[List["Foo"]]` or
// `Union[Foo, int, None]` into a type handle. Bare identifiers that resolve
// through resolve become record/enum references; quoted identifiers become
// forward references; everything else is kept as a Builtin for the
// classifier to judge.
func ParseType(expr string, resolve ResolveFunc) (Type, error) {
	p := &typeParser{input: expr, resolve: resolve}
	p.next()

	t, err := p.parseUnion()
	if err != nil {
		return nil, err
	}
	if p.tok.kind != tokEOF {
		return nil, p.errorf("unexpected %q", p.tok.text)
	}
	return t, nil
}

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokIdent
	tokString
	tokLBracket
	tokRBracket
	tokComma
	tokPipe
	tokInvalid
)

type token struct {
	kind tokenKind
	text string
	pos  int
}

type typeParser struct {
	input   string
	pos     int
	tok     token
	resolve ResolveFunc
}

// parseUnion handles the `A | B` shorthand
func (p *typeParser) parseUnion() (Type, error) {
	first, err := p.parseTerm()
	if err != nil {
		return nil, err
	}
	if p.tok.kind != tokPipe {
		return first, nil
	}

	members := []Type{first}
	for p.tok.kind == tokPipe {
		p.next()
		t, err := p.parseTerm()
		if err != nil {
			return nil, err
		}
		members = append(members, t)
	}
	return Union(members...), nil
}

func (p *typeParser) parseTerm() (Type, error) {
	switch p.tok.kind {
	case tokString:
		name := p.tok.text
		p.next()
		if name == "" {
			return nil, p.errorf("empty forward reference")
		}
		return Forward(name), nil

	case tokIdent:
		name := p.tok.text
		p.next()
		if p.tok.kind != tokLBracket {
			return p.named(name), nil
		}
		p.next()

		var args []Type
		for {
			arg, err := p.parseUnion()
			if err != nil {
				return nil, err
			}
			args = append(args, arg)
			if p.tok.kind == tokComma {
				p.next()
				continue
			}
			break
		}
		if p.tok.kind != tokRBracket {
			return nil, p.errorf("expected ] after arguments of %s", name)
		}
		p.next()
		return Generic{Origin: normalizeOrigin(name), Args: args}, nil

	case tokEOF:
		return nil, p.errorf("unexpected end of type expression")
	}
	return nil, p.errorf("unexpected %q", p.tok.text)
}

func (p *typeParser) named(name string) Type {
	if name == "None" || name == "NoneType" {
		return None
	}
	if p.resolve != nil {
		if d, ok := p.resolve(name); ok {
			return d
		}
	}
	return Builtin(name)
}

func normalizeOrigin(name string) string {
	name = strings.TrimPrefix(name, "typing.")
	switch name {
	case "List", "list", "Sequence":
		return OriginList
	case "Union":
		return OriginUnion
	case "Optional":
		return OriginOptional
	}
	return name
}

func (p *typeParser) next() {
	for p.pos < len(p.input) && unicode.IsSpace(rune(p.input[p.pos])) {
		p.pos++
	}
	start := p.pos
	if p.pos >= len(p.input) {
		p.tok = token{kind: tokEOF, pos: start}
		return
	}

	c := p.input[p.pos]
	switch {
	case c == '[':
		p.pos++
		p.tok = token{kind: tokLBracket, text: "[", pos: start}
	case c == ']':
		p.pos++
		p.tok = token{kind: tokRBracket, text: "]", pos: start}
	case c == ',':
		p.pos++
		p.tok = token{kind: tokComma, text: ",", pos: start}
	case c == '|':
		p.pos++
		p.tok = token{kind: tokPipe, text: "|", pos: start}
	case c == '"' || c == '\'':
		end := strings.IndexByte(p.input[p.pos+1:], c)
		if end < 0 {
			p.pos = len(p.input)
			p.tok = token{kind: tokInvalid, text: p.input[start:], pos: start}
			return
		}
		p.tok = token{kind: tokString, text: strings.TrimSpace(p.input[p.pos+1 : p.pos+1+end]), pos: start}
		p.pos += end + 2
	case isIdentStart(c):
		for p.pos < len(p.input) && isIdentPart(p.input[p.pos]) {
			p.pos++
		}
		p.tok = token{kind: tokIdent, text: p.input[start:p.pos], pos: start}
	default:
		p.pos++
		p.tok = token{kind: tokInvalid, text: string(c), pos: start}
	}
}

func (p *typeParser) errorf(format string, args ...interface{}) error {
	err := errors.Newf(format, args...)
	return errors.Wrapf(err, "invalid type expression %q at offset %d", p.input, p.tok.pos)
}

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentPart(c byte) bool {
	return isIdentStart(c) || c == '.' || (c >= '0' && c <= '9')
}
