package cli

import (
	"fmt"
	"io"
	"runtime"

	"github.com/lacquerai/exdb/internal/style"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Build-time variables (set by goreleaser or build scripts)
var (
	Version   = "dev"
	Commit    = "unknown"
	Date      = "unknown"
	BuiltBy   = "unknown"
	GoVersion = runtime.Version()
)

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Long:  `Display version information for exdb, including build details.`,
	Example: `
  exdb version               # Show basic version info
  exdb version --output json # Show version info as JSON`,
	Run: func(cmd *cobra.Command, args []string) {
		showVersion(cmd)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}

// VersionInfo represents version information
type VersionInfo struct {
	Version   string `json:"version" yaml:"version"`
	Commit    string `json:"commit" yaml:"commit"`
	Date      string `json:"date" yaml:"date"`
	BuiltBy   string `json:"built_by" yaml:"built_by"`
	GoVersion string `json:"go_version" yaml:"go_version"`
	Platform  string `json:"platform" yaml:"platform"`
}

func currentVersion() VersionInfo {
	return VersionInfo{
		Version:   Version,
		Commit:    Commit,
		Date:      Date,
		BuiltBy:   BuiltBy,
		GoVersion: GoVersion,
		Platform:  fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH),
	}
}

func showVersion(cmd *cobra.Command) {
	info := currentVersion()

	switch viper.GetString("output") {
	case "json":
		style.PrintJSON(cmd.OutOrStdout(), info)
	case "yaml":
		style.PrintYAML(cmd.OutOrStdout(), info)
	default:
		printVersionText(cmd.OutOrStdout(), info, viper.GetBool("verbose"))
	}
}

func printVersionText(w io.Writer, info VersionInfo, verbose bool) {
	if !verbose {
		fmt.Fprintln(w, info.Version)
		return
	}

	fmt.Fprintf(w, "exdb %s\n", info.Version)
	fmt.Fprintf(w, "  commit:   %s\n", info.Commit)
	fmt.Fprintf(w, "  built:    %s by %s\n", info.Date, info.BuiltBy)
	fmt.Fprintf(w, "  go:       %s\n", info.GoVersion)
	fmt.Fprintf(w, "  platform: %s\n", info.Platform)
}
