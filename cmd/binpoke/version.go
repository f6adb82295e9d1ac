package main

import (
	"fmt"
	"runtime"
	"runtime/debug"

	"github.com/dustin/go-humanize"
	"github.com/praetorian-inc/binpoke/pkg/fileview"
	"github.com/praetorian-inc/binpoke/pkg/listing"
	"github.com/spf13/cobra"
)

// Set with -ldflags "-X main.version=... -X main.commit=...".
var (
	version = "dev"
	commit  = "unknown"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Long:  "Display the version of binpoke and the limits it was built with",
	Args:  cobra.NoArgs,
	RunE:  runVersion,
}

func runVersion(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "binpoke v%s\n", version)
	fmt.Fprintf(out, "Commit: %s\n", buildCommit())
	fmt.Fprintf(out, "Go version: %s\n", runtime.Version())
	fmt.Fprintf(out, "OS/Arch: %s/%s\n", runtime.GOOS, runtime.GOARCH)
	fmt.Fprintf(out, "Listing limit: %s\n", humanize.IBytes(uint64(listing.MaxBytes)))
	fmt.Fprintf(out, "File length limit: %s\n", humanize.IBytes(uint64(fileview.MaxLen)))
	return nil
}

// buildCommit falls back to the VCS revision stamped by the go tool.
func buildCommit() string {
	if commit != "unknown" {
		return commit
	}
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return commit
	}
	for _, s := range info.Settings {
		if s.Key == "vcs.revision" && s.Value != "" {
			return s.Value
		}
	}
	return commit
}
