package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"modmerge/internal/diag"
	"modmerge/internal/merge"
)

// gatherOptions collects the shared flags and the manifest-driven policy,
// and decides which directories to search: explicit args win, then
// [paths].mods from merge.toml, then the current directory.
func gatherOptions(cmd *cobra.Command, args []string) (merge.Options, []string, error) {
	jobs, err := cmd.Root().PersistentFlags().GetInt("jobs")
	if err != nil {
		return merge.Options{}, nil, fmt.Errorf("failed to get jobs flag: %w", err)
	}
	maxWarnings, err := cmd.Root().PersistentFlags().GetInt("max-warnings")
	if err != nil {
		return merge.Options{}, nil, fmt.Errorf("failed to get max-warnings flag: %w", err)
	}

	opts := merge.Options{Jobs: jobs, MaxWarnings: maxWarnings}

	manifest, ok, err := loadMergeManifest(".")
	if err != nil {
		return merge.Options{}, nil, err
	}

	dirs := args
	if ok {
		opts.Policy, err = manifest.Config.policy()
		if err != nil {
			return merge.Options{}, nil, fmt.Errorf("%s: %w", manifest.Path, err)
		}
		if len(dirs) == 0 {
			for _, p := range manifest.Config.Paths.Mods {
				if !filepath.IsAbs(p) {
					p = filepath.Join(manifest.Root, p)
				}
				dirs = append(dirs, p)
			}
		}
	}
	if len(dirs) == 0 {
		dirs = []string{"."}
	}
	return opts, dirs, nil
}

func useColor(cmd *cobra.Command, f *os.File) bool {
	colorFlag, _ := cmd.Root().PersistentFlags().GetString("color")
	return colorFlag == "on" || (colorFlag == "auto" && isTerminal(f))
}

var warnColor = color.New(color.FgYellow)

// printWarnings lists the run's warnings on stderr. Warnings survive
// --quiet: a silent anomaly helps nobody.
func printWarnings(cmd *cobra.Command, warnings []diag.Warning) {
	if len(warnings) == 0 {
		return
	}
	colorize := useColor(cmd, os.Stderr)
	for _, w := range warnings {
		if colorize {
			fmt.Fprintf(os.Stderr, "%s %s\n", warnColor.Sprint("warning:"), w)
		} else {
			fmt.Fprintf(os.Stderr, "warning: %s\n", w)
		}
	}
}
