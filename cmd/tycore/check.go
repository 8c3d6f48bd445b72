package main

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"tycore/internal/diag"
	"tycore/internal/diagfmt"
	"tycore/internal/engine"
	"tycore/internal/trace"
)

var checkCmd = &cobra.Command{
	Use:   "check [flags] [tycore.toml]",
	Short: "Decorate a universe and resolve every forward reference",
	Long:  `Load a universe manifest, run a decoration pass over every module, then resolve all minted forward-reference proxies and report failures`,
	Args:  cobra.MaximumNArgs(1),
	RunE:  runCheck,
}

func init() {
	checkCmd.Flags().String("format", "pretty", "output format (pretty|json)")
	checkCmd.Flags().Int("jobs", 0, "max parallel workers for module decoration (0=auto)")
}

func runCheck(cmd *cobra.Command, args []string) error {
	cleanup, err := setupTracing(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return err
	}
	if format != "pretty" && format != "json" {
		return fmt.Errorf("unsupported format %q (must be pretty or json)", format)
	}
	jobs, err := cmd.Flags().GetInt("jobs")
	if err != nil {
		return err
	}
	if jobs <= 0 {
		jobs = runtime.NumCPU()
	}

	loaded, err := loadUniverse(args)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	eng := engine.New(loaded.Universe, engine.WithTracer(trace.FromContext(ctx)))
	sum, err := eng.DecorateAll(ctx, jobs)
	if err != nil {
		return err
	}
	resolved := eng.ResolveProxies(sum.Bag)
	sum.Bag.Sort()

	bag := truncateBag(sum.Bag, maxDiagnostics(cmd))
	out := cmd.OutOrStdout()
	if format == "json" {
		if err := diagfmt.JSON(out, bag); err != nil {
			return err
		}
	} else {
		diagfmt.Pretty(out, bag, colorizeOutput(cmd))
		if !beQuiet(cmd) {
			classes, callables := 0, 0
			for _, rep := range sum.Reports {
				classes += rep.Classes
				callables += rep.Callables
			}
			fmt.Fprintf(out, "checked %d modules: %d classes, %d callables, %d references resolved\n",
				len(sum.Reports), classes, callables, resolved)
		}
	}

	if sum.Bag.HasErrors() {
		cmd.SilenceUsage = true
		return fmt.Errorf("universe %s has errors", loaded.Name)
	}
	return nil
}

// truncateBag caps the number of printed diagnostics, keeping sort order.
func truncateBag(bag *diag.Bag, limit int) *diag.Bag {
	if bag.Len() <= limit {
		return bag
	}
	out := diag.NewBag(limit)
	for i, d := range bag.Items() {
		if i >= limit {
			break
		}
		out.Add(d)
	}
	return out
}
