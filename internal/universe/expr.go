package universe

import (
	"fmt"
	"strings"

	"tycore/internal/diag"
	"tycore/internal/hint"
	"tycore/internal/ident"
)

// Error is a manifest loading failure with a stable diagnostic code.
type Error struct {
	Code    diag.Code
	Subject string
	Msg     string
}

func (e *Error) Error() string {
	if e.Subject != "" {
		return fmt.Sprintf("%s: %s: %s", e.Code, e.Subject, e.Msg)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Msg)
}

func badFile(subject, msg string) *Error {
	return &Error{Code: diag.UniverseBadFile, Subject: subject, Msg: msg}
}

func unknownName(subject, msg string) *Error {
	return &Error{Code: diag.UniverseUnknownName, Subject: subject, Msg: msg}
}

func redefined(subject, msg string) *Error {
	return &Error{Code: diag.UniverseRedefined, Subject: subject, Msg: msg}
}

// Eval resolves a hint expression against a module of a built universe.
// Deferred forms are rejected; callers wanting proxies should go through a
// scope mapping instead.
func Eval(u *hint.Universe, module, src string) (hint.Hint, error) {
	mod, ok := u.LookupModule(module)
	if !ok {
		return nil, unknownName(src, "module "+module+" is not registered")
	}
	h, _, err := parseExpr(src, env{uni: u, mod: mod}, false)
	return h, err
}

// env is the name environment one expression resolves against: the class's
// own type parameters, the declaring module, and the whole universe for
// cross-module chains.
type env struct {
	uni    *hint.Universe
	mod    *hint.Module
	params map[string]*hint.TypeParam
}

// parseExpr parses a hint expression. Deferred forms ('Name') are accepted
// only when deferredOK is set; base lists must be resolvable at load time.
func parseExpr(src string, e env, deferredOK bool) (hint.Hint, string, error) {
	p := &exprParser{src: src}
	p.skipSpace()
	if p.peek() == '\'' {
		if !deferredOK {
			return nil, "", badFile(src, "forward reference string is not allowed here")
		}
		chain, err := p.quoted()
		if err != nil {
			return nil, "", err
		}
		p.skipSpace()
		if !p.done() {
			return nil, "", badFile(src, "trailing characters after forward reference")
		}
		return nil, chain, nil
	}
	h, err := p.term(e)
	if err != nil {
		return nil, "", err
	}
	p.skipSpace()
	if !p.done() {
		return nil, "", badFile(src, fmt.Sprintf("unexpected %q", p.peek()))
	}
	return h, "", nil
}

type exprParser struct {
	src string
	pos int
}

func (p *exprParser) done() bool { return p.pos >= len(p.src) }

func (p *exprParser) peek() byte {
	if p.done() {
		return 0
	}
	return p.src[p.pos]
}

func (p *exprParser) skipSpace() {
	for !p.done() && (p.src[p.pos] == ' ' || p.src[p.pos] == '\t') {
		p.pos++
	}
}

// quoted consumes 'chain' and returns the chain text.
func (p *exprParser) quoted() (string, error) {
	p.pos++ // opening quote
	start := p.pos
	for !p.done() && p.src[p.pos] != '\'' {
		p.pos++
	}
	if p.done() {
		return "", badFile(p.src, "unterminated forward reference string")
	}
	chain := p.src[start:p.pos]
	p.pos++ // closing quote
	if err := ident.CheckChain(chain, "hint expression"); err != nil {
		return "", badFile(p.src, err.Error())
	}
	return chain, nil
}

// term parses a dotted name with an optional subscript list.
func (p *exprParser) term(e env) (hint.Hint, error) {
	chain, err := p.chain()
	if err != nil {
		return nil, err
	}
	h, err := resolveChain(chain, e)
	if err != nil {
		return nil, err
	}
	p.skipSpace()
	if p.peek() != '[' {
		return h, nil
	}
	p.pos++ // '['
	var args []hint.Hint
	for {
		p.skipSpace()
		arg, err := p.term(e)
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
		p.skipSpace()
		switch p.peek() {
		case ',':
			p.pos++
		case ']':
			p.pos++
			return hint.Sub(h, args...), nil
		default:
			return nil, badFile(p.src, "expected , or ] in subscript")
		}
	}
}

func (p *exprParser) chain() (string, error) {
	start := p.pos
	for !p.done() {
		c := p.src[p.pos]
		if c == '[' || c == ']' || c == ',' || c == ' ' || c == '\t' {
			break
		}
		p.pos++
	}
	chain := p.src[start:p.pos]
	if chain == "" {
		return "", badFile(p.src, "expected a name")
	}
	if err := ident.CheckChain(chain, "hint expression"); err != nil {
		return "", badFile(p.src, err.Error())
	}
	return chain, nil
}

// resolveChain walks a dotted name through the environment. Lookup order for
// the head segment: type parameters, the current module, builtins, then
// module names in the universe.
func resolveChain(chain string, e env) (hint.Hint, error) {
	head, rest := chain, ""
	if idx := strings.IndexByte(chain, '.'); idx >= 0 {
		head, rest = chain[:idx], chain[idx+1:]
	}

	var cur hint.Hint
	if tp, ok := e.params[head]; ok {
		cur = tp
	} else if h, ok := e.mod.Attr(head); ok {
		cur = h
	} else if b, ok := hint.LookupBuiltin(head); ok {
		cur = b
	} else if head == hint.Generic.Name {
		// The carrier has no module attribute; it only appears subscripted
		// in pseudo-superclass lists.
		cur = hint.Generic
	} else if m, ok := e.uni.LookupModule(head); ok && rest != "" {
		return resolveInModule(chain, m, rest)
	} else {
		return nil, unknownName(chain, "name "+head+" is not defined in module "+e.mod.Name)
	}
	if rest == "" {
		return cur, nil
	}
	return walkNested(chain, cur, rest)
}

func resolveInModule(chain string, m *hint.Module, rest string) (hint.Hint, error) {
	head := rest
	if idx := strings.IndexByte(rest, '.'); idx >= 0 {
		head, rest = rest[:idx], rest[idx+1:]
	} else {
		rest = ""
	}
	h, ok := m.Attr(head)
	if !ok {
		return nil, unknownName(chain, "module "+m.Name+" has no attribute "+head)
	}
	if rest == "" {
		return h, nil
	}
	return walkNested(chain, h, rest)
}

// walkNested descends through nested classes, one segment at a time.
func walkNested(chain string, cur hint.Hint, rest string) (hint.Hint, error) {
	for rest != "" {
		seg := rest
		if idx := strings.IndexByte(rest, '.'); idx >= 0 {
			seg, rest = rest[:idx], rest[idx+1:]
		} else {
			rest = ""
		}
		cls, ok := cur.(*hint.Class)
		if !ok {
			return nil, unknownName(chain, cur.String()+" has no attribute "+seg)
		}
		inner, ok := nestedClass(cls, seg)
		if !ok {
			return nil, unknownName(chain, cls.Qualified()+" has no nested class "+seg)
		}
		cur = inner
	}
	return cur, nil
}

func nestedClass(cls *hint.Class, name string) (*hint.Class, bool) {
	if cls.Module == nil {
		return nil, false
	}
	for _, attr := range cls.Module.AttrNames() {
		h, _ := cls.Module.Attr(attr)
		inner, ok := h.(*hint.Class)
		if ok && inner.Name == name && inner.Outer == cls {
			return inner, true
		}
	}
	return nil, false
}
