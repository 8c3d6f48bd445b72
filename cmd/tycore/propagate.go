package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"tycore/internal/engine"
	"tycore/internal/hint"
	"tycore/internal/trace"
	"tycore/internal/universe"
)

var propagateCmd = &cobra.Command{
	Use:   "propagate [flags] [hint-expr] [tycore.toml]",
	Short: "Propagate generic type arguments",
	Long: `Compute the transitively propagated type-argument tuple of a hint
expression, or of every class in the universe when no expression is given.
Whole-universe runs can persist their results in the disk cache`,
	Args: cobra.MaximumNArgs(2),
	RunE: runPropagate,
}

func init() {
	propagateCmd.Flags().String("module", "", "module the expression is written in")
	propagateCmd.Flags().String("target", "", "report arguments as seen from this ancestor class (module.Class)")
	propagateCmd.Flags().Bool("disk-cache", false, "persist whole-universe results in the disk cache")
	propagateCmd.Flags().String("cache-dir", "", "disk cache directory (default: XDG cache)")
}

func runPropagate(cmd *cobra.Command, args []string) error {
	cleanup, err := setupTracing(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	expr := ""
	manifestArgs := args
	if len(args) > 0 && !strings.HasSuffix(args[0], ".toml") {
		expr = args[0]
		manifestArgs = args[1:]
	}

	loaded, err := loadUniverse(manifestArgs)
	if err != nil {
		return err
	}
	eng := engine.New(loaded.Universe, engine.WithTracer(trace.FromContext(cmd.Context())))

	if expr == "" {
		return propagateUniverse(cmd, eng, loaded)
	}
	return propagateExpr(cmd, eng, loaded, expr)
}

func propagateExpr(cmd *cobra.Command, eng *engine.Engine, loaded *loadedUniverse, expr string) error {
	modName, _ := cmd.Flags().GetString("module")
	if modName == "" {
		return fmt.Errorf("--module is required with a hint expression")
	}
	h, err := universe.Eval(loaded.Universe, modName, expr)
	if err != nil {
		cmd.SilenceUsage = true
		return err
	}

	targetName, _ := cmd.Flags().GetString("target")
	var args []hint.Hint
	if targetName != "" {
		th, err := universe.Eval(loaded.Universe, modName, targetName)
		if err != nil {
			cmd.SilenceUsage = true
			return err
		}
		target, ok := th.(*hint.Class)
		if !ok {
			return fmt.Errorf("target %s is not a class", targetName)
		}
		args, err = eng.ArgsFor(h, target)
		if err != nil {
			cmd.SilenceUsage = true
			return err
		}
	} else {
		args, err = eng.Args(h)
		if err != nil {
			cmd.SilenceUsage = true
			return err
		}
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s -> %s\n", h, renderArgs(args))
	return nil
}

func propagateUniverse(cmd *cobra.Command, eng *engine.Engine, loaded *loadedUniverse) error {
	payload, err := eng.Snapshot(loaded.Name)
	if err != nil {
		cmd.SilenceUsage = true
		return err
	}
	out := cmd.OutOrStdout()
	for _, c := range payload.Classes {
		fmt.Fprintf(out, "%s -> (%s)\n", c.Qualified, strings.Join(c.Args, ", "))
	}

	useCache, _ := cmd.Flags().GetBool("disk-cache")
	if !useCache {
		return nil
	}
	cache, err := openCache(cmd)
	if err != nil {
		return err
	}
	key, err := engine.HashFile(loaded.Path)
	if err != nil {
		return err
	}
	if err := cache.Put(key, payload); err != nil {
		return fmt.Errorf("disk cache: %w", err)
	}
	if !beQuiet(cmd) {
		fmt.Fprintf(out, "cached %d classes under %s\n", len(payload.Classes), cache.Dir())
	}
	return nil
}

func openCache(cmd *cobra.Command) (*engine.DiskCache, error) {
	dir, _ := cmd.Flags().GetString("cache-dir")
	if dir != "" {
		return engine.OpenDiskCacheAt(dir)
	}
	return engine.OpenDiskCache("tycore")
}

func renderArgs(args []hint.Hint) string {
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = a.String()
	}
	return "(" + strings.Join(parts, ", ") + ")"
}
