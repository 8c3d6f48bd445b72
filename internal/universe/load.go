package universe

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"

	"tycore/internal/hint"
	"tycore/internal/ident"
)

// ManifestName is the file name Find walks parent directories for.
const ManifestName = "tycore.toml"

// Doc is the decoded shape of a manifest file, before semantic checks.
type Doc struct {
	Universe universeSection `toml:"universe"`
	Modules  []moduleDecl    `toml:"module"`
}

type universeSection struct {
	Name string `toml:"name"`
}

type moduleDecl struct {
	Name       string      `toml:"name"`
	Importable *bool       `toml:"importable"`
	Classes    []classDecl `toml:"class"`
	Funcs      []funcDecl  `toml:"func"`
}

type classDecl struct {
	Name   string            `toml:"name"`
	Outer  string            `toml:"outer"`
	Params []string          `toml:"params"`
	Bases  []string          `toml:"bases"`
	Fields map[string]string `toml:"fields"`
}

type funcDecl struct {
	Name   string            `toml:"name"`
	Params map[string]string `toml:"params"`
	Result string            `toml:"result"`
}

// Find walks from startDir toward the filesystem root looking for a
// tycore.toml manifest.
func Find(startDir string) (string, bool, error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, ManifestName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// Load reads and decodes a manifest file.
func Load(path string) (*Doc, error) {
	var doc Doc
	meta, err := toml.DecodeFile(path, &doc)
	if err != nil {
		return nil, badFile(path, "failed to parse TOML: "+err.Error())
	}
	if err := checkMeta(path, meta, &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

// Parse decodes a manifest from memory, for tests and embedded universes.
func Parse(data []byte) (*Doc, error) {
	var doc Doc
	meta, err := toml.Decode(string(data), &doc)
	if err != nil {
		return nil, badFile("<memory>", "failed to parse TOML: "+err.Error())
	}
	if err := checkMeta("<memory>", meta, &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

func checkMeta(path string, meta toml.MetaData, doc *Doc) error {
	if !meta.IsDefined("universe") {
		return badFile(path, "missing [universe]")
	}
	if !meta.IsDefined("universe", "name") || strings.TrimSpace(doc.Universe.Name) == "" {
		return badFile(path, "missing [universe].name")
	}
	return nil
}

// Build turns a decoded manifest into a populated universe. Classes are
// created in two passes so pseudo-superclass expressions can reference any
// class in any module, regardless of declaration order.
func Build(doc *Doc) (*hint.Universe, error) {
	u := hint.NewUniverse()

	type pending struct {
		mod  *hint.Module
		cls  *hint.Class
		decl classDecl
	}
	var classes []pending
	var funcs []struct {
		mod  *hint.Module
		fn   *hint.Callable
		decl funcDecl
	}

	seenModules := make(map[string]struct{})
	for _, md := range doc.Modules {
		if err := ident.CheckChain(md.Name, "module name"); err != nil {
			return nil, badFile(md.Name, "bad module name: "+err.Error())
		}
		if md.Name == hint.BuiltinsModuleName {
			return nil, redefined(md.Name, "the builtins module cannot be redeclared")
		}
		if _, dup := seenModules[md.Name]; dup {
			return nil, redefined(md.Name, "module declared twice")
		}
		seenModules[md.Name] = struct{}{}

		mod := u.Module(md.Name)
		if md.Importable != nil {
			mod.Importable = *md.Importable
		}

		// Shells first; Outer links and type parameters need every class
		// of the module to exist.
		shells := make(map[string]*hint.Class, len(md.Classes))
		for _, cd := range md.Classes {
			if err := ident.Check(cd.Name, "class name"); err != nil {
				return nil, badFile(md.Name+"."+cd.Name, "bad class name: "+err.Error())
			}
			if _, dup := shells[cd.Name]; dup {
				return nil, redefined(md.Name+"."+cd.Name, "class declared twice")
			}
			cls := &hint.Class{Name: cd.Name, Module: mod}
			shells[cd.Name] = cls
			classes = append(classes, pending{mod: mod, cls: cls, decl: cd})
		}
		for _, p := range classes {
			if p.mod != mod || p.decl.Outer == "" {
				continue
			}
			outer, ok := shells[p.decl.Outer]
			if !ok {
				return nil, unknownName(p.cls.Qualified(), "enclosing class "+p.decl.Outer+" is not declared in module "+md.Name)
			}
			p.cls.Outer = outer
		}
		for name, cls := range shells {
			mod.Define(name, cls)
		}

		for _, fd := range md.Funcs {
			if err := ident.Check(fd.Name, "callable name"); err != nil {
				return nil, badFile(md.Name+"."+fd.Name, "bad callable name: "+err.Error())
			}
			if _, taken := shells[fd.Name]; taken {
				return nil, redefined(md.Name+"."+fd.Name, "name is already a class")
			}
			// Shell callables are visible to class annotations too.
			fn := &hint.Callable{Name: fd.Name, Module: mod}
			mod.Define(fn.Name, fn)
			funcs = append(funcs, struct {
				mod  *hint.Module
				fn   *hint.Callable
				decl funcDecl
			}{mod, fn, fd})
		}
	}

	// Second pass: type parameters, bases, and field annotations.
	for _, p := range classes {
		params := make(map[string]*hint.TypeParam, len(p.decl.Params))
		for i, name := range p.decl.Params {
			if err := ident.Check(name, "type parameter"); err != nil {
				return nil, badFile(p.cls.Qualified(), "bad type parameter: "+err.Error())
			}
			if _, dup := params[name]; dup {
				return nil, redefined(p.cls.Qualified(), "type parameter "+name+" declared twice")
			}
			tp := &hint.TypeParam{Name: name, OwnerName: p.cls.Qualified(), Index: i}
			params[name] = tp
			p.cls.TypeParams = append(p.cls.TypeParams, tp)
		}

		e := env{uni: u, mod: p.mod, params: params}
		subscriptedBase := false
		for _, src := range p.decl.Bases {
			base, _, err := parseExpr(src, e, false)
			if err != nil {
				return nil, fmt.Errorf("%s: base %q: %w", p.cls.Qualified(), src, err)
			}
			if _, ok := base.(*hint.Subscripted); ok {
				subscriptedBase = true
			}
			p.cls.Bases = append(p.cls.Bases, base)
		}
		// A generic class with only plain bases still carries its parameter
		// tuple, through an implicit Generic[...] pseudo-superclass.
		if len(p.cls.TypeParams) > 0 && !subscriptedBase {
			args := make([]hint.Hint, len(p.cls.TypeParams))
			for i, tp := range p.cls.TypeParams {
				args[i] = tp
			}
			p.cls.Bases = append(p.cls.Bases, hint.Sub(hint.Generic, args...))
		}

		fields, err := buildAnnotations(p.cls.Qualified(), p.decl.Fields, e)
		if err != nil {
			return nil, err
		}
		p.cls.Fields = fields
	}

	for _, f := range funcs {
		e := env{uni: u, mod: f.mod, params: map[string]*hint.TypeParam{}}
		params, err := buildAnnotations(f.mod.Name+"."+f.decl.Name, f.decl.Params, e)
		if err != nil {
			return nil, err
		}
		f.fn.Params = params
		if f.decl.Result != "" {
			h, deferred, err := parseExpr(f.decl.Result, e, true)
			if err != nil {
				return nil, fmt.Errorf("%s.%s: result: %w", f.mod.Name, f.decl.Name, err)
			}
			f.fn.Result = hint.Annotation{Name: "return", Hint: h, Deferred: deferred}
		}
	}

	return u, nil
}

// buildAnnotations parses a name to expression map in sorted name order, so
// annotation tuples come out deterministic.
func buildAnnotations(owner string, src map[string]string, e env) ([]hint.Annotation, error) {
	if len(src) == 0 {
		return nil, nil
	}
	names := make([]string, 0, len(src))
	for name := range src {
		names = append(names, name)
	}
	sort.Strings(names)
	anns := make([]hint.Annotation, 0, len(names))
	for _, name := range names {
		if err := ident.Check(name, "annotation name"); err != nil {
			return nil, badFile(owner+"."+name, "bad annotation name: "+err.Error())
		}
		h, deferred, err := parseExpr(src[name], e, true)
		if err != nil {
			return nil, fmt.Errorf("%s.%s: %w", owner, name, err)
		}
		anns = append(anns, hint.Annotation{Name: name, Hint: h, Deferred: deferred})
	}
	return anns, nil
}
