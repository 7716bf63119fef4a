package main

import (
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"modmerge/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "modmerge",
	Short: "Merge mod script files without ID collisions",
	Long:  `modmerge combines independently-authored mod files into one, remapping conflicting entity IDs`,
}

// main initializes the CLI by setting the command version, registering
// subcommands and persistent flags, and then executes the root command.
func main() {
	rootCmd.Version = version.Version

	rootCmd.AddCommand(mergeCmd)
	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(collisionsCmd)
	rootCmd.AddCommand(versionCmd)

	// Глобальные флаги
	rootCmd.PersistentFlags().String("color", "auto", "colorize output (auto|on|off)")
	rootCmd.PersistentFlags().Bool("quiet", false, "suppress non-essential output")
	rootCmd.PersistentFlags().Int("jobs", 0, "parallel scan workers (0 = all CPUs)")
	rootCmd.PersistentFlags().Int("max-warnings", 100, "maximum number of warnings to keep")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// isTerminal проверяет, является ли файл терминалом
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
