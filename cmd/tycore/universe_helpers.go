package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"tycore/internal/hint"
	"tycore/internal/universe"
)

const noManifestMessage = "no tycore.toml found\nplease specify the manifest explicitly, e.g.:\n  tycore check path/to/tycore.toml"

type loadedUniverse struct {
	Universe *hint.Universe
	Name     string
	Path     string
}

// resolveManifestPath picks the manifest: an explicit argument wins,
// otherwise parent directories are walked for tycore.toml.
func resolveManifestPath(args []string) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}
	path, ok, err := universe.Find(".")
	if err != nil {
		return "", err
	}
	if !ok {
		return "", errors.New(noManifestMessage)
	}
	return path, nil
}

// loadUniverse loads and builds the manifest named by args, or the nearest
// tycore.toml when args is empty.
func loadUniverse(args []string) (*loadedUniverse, error) {
	path, err := resolveManifestPath(args)
	if err != nil {
		return nil, err
	}
	doc, err := universe.Load(path)
	if err != nil {
		return nil, err
	}
	u, err := universe.Build(doc)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &loadedUniverse{Universe: u, Name: doc.Universe.Name, Path: path}, nil
}

// colorizeOutput decides coloring from the --color flag and the terminal.
func colorizeOutput(cmd *cobra.Command) bool {
	mode, err := cmd.Root().PersistentFlags().GetString("color")
	if err != nil {
		mode = "auto"
	}
	switch mode {
	case "on":
		return true
	case "off":
		return false
	default:
		return isTerminal(os.Stdout)
	}
}

func beQuiet(cmd *cobra.Command) bool {
	quiet, err := cmd.Root().PersistentFlags().GetBool("quiet")
	return err == nil && quiet
}

func maxDiagnostics(cmd *cobra.Command) int {
	n, err := cmd.Root().PersistentFlags().GetInt("max-diagnostics")
	if err != nil || n <= 0 {
		return 100
	}
	return n
}
