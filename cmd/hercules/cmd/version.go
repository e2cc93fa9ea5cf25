package cmd

import (
	"runtime"
	"runtime/debug"
	"strings"

	"github.com/spf13/cobra"

	"github.com/puffinc/hercules/internal/report"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Long:  `Print the Hercules version, the build revision and the supported inputs and report formats.`,
	Run:   runVersion,
}

func init() {
	rootCmd.AddCommand(versionCmd)
}

func runVersion(cmd *cobra.Command, args []string) {
	cmd.Printf("hercules %s (%s)\n", Version, buildRevision())
	cmd.Printf("  Built with %s for %s/%s\n", runtime.Version(), runtime.GOOS, runtime.GOARCH)
	cmd.Printf("  Sources: csv, s3 csv, mysql, postgres, sqlite, sqlserver\n")
	cmd.Printf("  Formats: %s\n", strings.Join([]string{report.FormatText, report.FormatJSON, report.FormatYAML}, ", "))
}

// buildRevision prefers the ldflags commit and falls back to the VCS stamp
// the go tool embeds.
func buildRevision() string {
	if Commit != "" && Commit != "unknown" {
		return Commit
	}
	if info, ok := debug.ReadBuildInfo(); ok {
		for _, s := range info.Settings {
			if s.Key == "vcs.revision" && len(s.Value) >= 7 {
				return s.Value[:7]
			}
		}
	}
	return "unknown"
}
