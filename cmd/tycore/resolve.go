package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"tycore/internal/engine"
	"tycore/internal/hint"
	"tycore/internal/ref"
	"tycore/internal/trace"
)

var resolveCmd = &cobra.Command{
	Use:   "resolve [flags] <reference> [tycore.toml]",
	Short: "Canonicalize and resolve one forward reference",
	Long: `Determine which module owns a forward reference, given an optional
class-nesting context, then resolve it to its referent inside the universe`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runResolve,
}

func init() {
	resolveCmd.Flags().String("module", "", "module the reference was written in")
	resolveCmd.Flags().String("class", "", "enclosing class chain, outermost first (Outer.Inner)")
	resolveCmd.Flags().String("func", "", "enclosing callable name")
	resolveCmd.Flags().Bool("canon-only", false, "stop after canonicalization, do not resolve")
}

func runResolve(cmd *cobra.Command, args []string) error {
	cleanup, err := setupTracing(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	loaded, err := loadUniverse(args[1:])
	if err != nil {
		return err
	}
	stack, fn, err := resolveContext(cmd, loaded)
	if err != nil {
		return err
	}

	reference := args[0]
	canon, err := ref.Canonicalize(reference, stack, fn)
	if err != nil {
		cmd.SilenceUsage = true
		return err
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "canonical: %s.%s\n", canon.Module, canon.Name)

	canonOnly, _ := cmd.Flags().GetBool("canon-only")
	if canonOnly {
		return nil
	}

	eng := engine.New(loaded.Universe, engine.WithTracer(trace.FromContext(cmd.Context())))
	proxy, err := eng.Factory().ProxyFor(reference, stack, fn)
	if err != nil {
		cmd.SilenceUsage = true
		return err
	}
	target, err := eng.Factory().Resolve(proxy)
	if err != nil {
		cmd.SilenceUsage = true
		return err
	}
	fmt.Fprintf(out, "referent:  %s (%s)\n", target, hint.SignOf(target))
	return nil
}

// resolveContext rebuilds the decoration context the flags describe: the
// class-nesting stack and the enclosing callable.
func resolveContext(cmd *cobra.Command, loaded *loadedUniverse) (hint.Stack, *hint.Callable, error) {
	modName, _ := cmd.Flags().GetString("module")
	classChain, _ := cmd.Flags().GetString("class")
	fnName, _ := cmd.Flags().GetString("func")

	var stack hint.Stack
	var fn *hint.Callable
	if classChain == "" && fnName == "" {
		return nil, nil, nil
	}
	if modName == "" {
		return nil, nil, fmt.Errorf("--class and --func need --module")
	}
	mod, ok := loaded.Universe.LookupModule(modName)
	if !ok {
		return nil, nil, fmt.Errorf("module %q is not declared in %s", modName, loaded.Path)
	}

	if classChain != "" {
		var outer *hint.Class
		for _, seg := range strings.Split(classChain, ".") {
			h, ok := mod.Attr(seg)
			if !ok {
				return nil, nil, fmt.Errorf("module %s has no class %s", modName, seg)
			}
			cls, ok := h.(*hint.Class)
			if !ok || cls.Outer != outer {
				return nil, nil, fmt.Errorf("%s does not continue the nesting chain %q", seg, classChain)
			}
			stack = stack.Push(cls)
			outer = cls
		}
	}
	if fnName != "" {
		h, ok := mod.Attr(fnName)
		if !ok {
			return nil, nil, fmt.Errorf("module %s has no callable %s", modName, fnName)
		}
		fn, ok = h.(*hint.Callable)
		if !ok {
			return nil, nil, fmt.Errorf("%s.%s is not a callable", modName, fnName)
		}
	}
	return stack, fn, nil
}
