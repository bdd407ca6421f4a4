package cli

import (
	"fmt"

	"github.com/mgpai22/subx/internal/format"
	"github.com/spf13/cobra"
)

var formatDescriptions = map[format.Format]string{
	format.FormatSRT:  "SubRip subtitles",
	format.FormatVTT:  "WebVTT captions",
	format.FormatASS:  "Advanced SubStation Alpha (.ssa also read)",
	format.FormatTXT:  "plain text, optionally with [start --> end] prefixes",
	format.FormatTSV:  "tab-separated table with a header row",
	format.FormatJSON: "JSON cues, segments, or wrapped transcript",
}

var formatsCmd = &cobra.Command{
	Use:   "formats",
	Short: "List supported transcript formats",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		for _, f := range format.All() {
			fmt.Fprintf(out, "%-5s %-6s %s\n", f, f.Extension(), formatDescriptions[f])
		}
	},
}

func init() {
	rootCmd.AddCommand(formatsCmd)
}
