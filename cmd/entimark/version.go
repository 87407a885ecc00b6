package main

import (
	"encoding/json"
	"fmt"
	"runtime"
	"runtime/debug"

	"github.com/spf13/cobra"

	"github.com/entimark/entimark/pkg/serve"
)

var (
	version = "dev"
	commit  = "unknown"

	versionJSON bool
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Long:  "Display the Entimark version, the serve protocol version and the build platform.",
	RunE:  runVersion,
}

func init() {
	versionCmd.Flags().BoolVar(&versionJSON, "json", false, "Print version information as JSON")
}

// buildInfo is the version report.
type buildInfo struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	Protocol  string `json:"protocol"`
	GoVersion string `json:"go_version"`
	Platform  string `json:"platform"`
}

func currentBuild() buildInfo {
	info := buildInfo{
		Version:   version,
		Commit:    commit,
		Protocol:  serve.Version,
		GoVersion: runtime.Version(),
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
	}
	// go install builds carry the revision in the binary
	if info.Commit == "unknown" {
		if bi, ok := debug.ReadBuildInfo(); ok {
			for _, s := range bi.Settings {
				if s.Key == "vcs.revision" && s.Value != "" {
					info.Commit = s.Value
				}
			}
		}
	}
	return info
}

func runVersion(cmd *cobra.Command, args []string) error {
	info := currentBuild()
	out := cmd.OutOrStdout()

	if versionJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(info)
	}

	fmt.Fprintf(out, "Entimark v%s\n", info.Version)
	fmt.Fprintf(out, "Commit:     %s\n", info.Commit)
	fmt.Fprintf(out, "Protocol:   %s\n", info.Protocol)
	fmt.Fprintf(out, "Go version: %s\n", info.GoVersion)
	fmt.Fprintf(out, "Platform:   %s\n", info.Platform)
	return nil
}
