package main

import (
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"tycore/internal/engine"
	"tycore/internal/hint"
	"tycore/internal/trace"
	"tycore/internal/ui"
)

var exploreCmd = &cobra.Command{
	Use:   "explore [flags] [tycore.toml]",
	Short: "Interactively browse a universe and its propagated arguments",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runExplore,
}

func runExplore(cmd *cobra.Command, args []string) error {
	cleanup, err := setupTracing(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	loaded, err := loadUniverse(args)
	if err != nil {
		return err
	}
	eng := engine.New(loaded.Universe, engine.WithTracer(trace.FromContext(cmd.Context())))

	classes := collectClasses(loaded.Universe)
	rows := make(chan ui.ClassRow, 64)
	go func() {
		for _, cls := range classes {
			rows <- classRow(eng, cls)
		}
		close(rows)
	}()

	if !isTerminal(os.Stdout) {
		// Plain listing for pipes and CI logs.
		out := cmd.OutOrStdout()
		for row := range rows {
			if row.Err != "" {
				fmt.Fprintf(out, "%s: %s\n", row.Qualified, row.Err)
				continue
			}
			fmt.Fprintf(out, "%s -> %s\n", row.Qualified, row.Args)
		}
		return nil
	}

	model := ui.NewExplorer("universe "+loaded.Name, len(classes), rows)
	program := tea.NewProgram(model, tea.WithOutput(os.Stdout))
	_, err = program.Run()
	return err
}

func collectClasses(u *hint.Universe) []*hint.Class {
	var classes []*hint.Class
	for _, modName := range u.ModuleNames() {
		if modName == hint.BuiltinsModuleName {
			continue
		}
		mod, _ := u.LookupModule(modName)
		for _, attr := range mod.AttrNames() {
			if cls, ok := mustAttr(mod, attr).(*hint.Class); ok {
				classes = append(classes, cls)
			}
		}
	}
	return classes
}

func mustAttr(mod *hint.Module, name string) hint.Hint {
	h, _ := mod.Attr(name)
	return h
}

func classRow(eng *engine.Engine, cls *hint.Class) ui.ClassRow {
	row := ui.ClassRow{Qualified: cls.Qualified(), Detail: classDetail(cls)}
	args, err := eng.Args(cls)
	if err != nil {
		row.Err = err.Error()
		return row
	}
	row.Args = renderArgs(args)
	return row
}

func classDetail(cls *hint.Class) string {
	var b strings.Builder
	if len(cls.TypeParams) > 0 {
		names := make([]string, len(cls.TypeParams))
		for i, tp := range cls.TypeParams {
			names[i] = tp.Name
		}
		fmt.Fprintf(&b, "params: %s\n", strings.Join(names, ", "))
	}
	for _, base := range cls.Bases {
		fmt.Fprintf(&b, "base:   %s\n", base)
	}
	for _, f := range cls.Fields {
		if f.IsDeferred() {
			fmt.Fprintf(&b, "field:  %s: '%s'\n", f.Name, f.Deferred)
			continue
		}
		fmt.Fprintf(&b, "field:  %s: %s\n", f.Name, f.Hint)
	}
	return strings.TrimRight(b.String(), "\n")
}
