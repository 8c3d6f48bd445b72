package main

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"tycore/internal/engine"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect or drop the propagation disk cache",
}

var cacheInfoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show the cache location and entry count",
	Args:  cobra.NoArgs,
	RunE:  runCacheInfo,
}

var cacheDropCmd = &cobra.Command{
	Use:   "drop",
	Short: "Delete every cached propagation snapshot",
	Args:  cobra.NoArgs,
	RunE:  runCacheDrop,
}

func init() {
	cacheCmd.PersistentFlags().String("cache-dir", "", "disk cache directory (default: XDG cache)")
	cacheCmd.AddCommand(cacheInfoCmd)
	cacheCmd.AddCommand(cacheDropCmd)
}

func runCacheInfo(cmd *cobra.Command, _ []string) error {
	cache, err := openCacheFromPersistent(cmd)
	if err != nil {
		return err
	}
	entries := 0
	walkErr := filepath.WalkDir(cache.Dir(), func(_ string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil // a vanished entry is not worth failing over
		}
		if !d.IsDir() && strings.HasSuffix(d.Name(), ".mp") {
			entries++
		}
		return nil
	})
	if walkErr != nil {
		return walkErr
	}
	fmt.Fprintf(cmd.OutOrStdout(), "dir:     %s\nentries: %d\n", cache.Dir(), entries)
	return nil
}

func runCacheDrop(cmd *cobra.Command, _ []string) error {
	cache, err := openCacheFromPersistent(cmd)
	if err != nil {
		return err
	}
	if err := cache.DropAll(); err != nil {
		return err
	}
	if !beQuiet(cmd) {
		fmt.Fprintf(cmd.OutOrStdout(), "dropped %s\n", cache.Dir())
	}
	return nil
}

func openCacheFromPersistent(cmd *cobra.Command) (*engine.DiskCache, error) {
	dir, _ := cmd.Flags().GetString("cache-dir")
	if dir != "" {
		return engine.OpenDiskCacheAt(dir)
	}
	return engine.OpenDiskCache("tycore")
}
