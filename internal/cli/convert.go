package cli

import (
	"fmt"
	"time"

	"github.com/mgpai22/subx/internal/format"
	"github.com/mgpai22/subx/internal/pipeline"
	"github.com/spf13/cobra"
)

var convertCmd = &cobra.Command{
	Use:   "convert <input>",
	Short: "Convert a transcript to another format",
	Long: `Convert a transcript file, or standard input when the input is "-",
to the target format.

The input format is taken from --from, otherwise from the file extension.
Standard input and unknown extensions are read as plain text; plain text
that starts with '{' or '[' is tried as JSON first.

Without --output the result is written next to the input with the target
extension. Existing files are never replaced unless --overwrite is given.

Examples:
  subx convert talk.srt --to vtt
  subx convert whisper.json --to srt -o out/talk.srt
  cat notes.txt | subx convert - --to tsv --stdout
  subx convert captions.txt --from srt --to ass --overwrite`,
	Args: cobra.ExactArgs(1),
	RunE: runConvert,
}

func init() {
	rootCmd.AddCommand(convertCmd)

	convertCmd.Flags().
		String("to", "", "Target format (srt, vtt, ass, txt, tsv, json)")
	convertCmd.Flags().
		String("from", "", "Force input format (otherwise inferred from the extension)")
	convertCmd.Flags().
		StringP("output", "o", "", "Output file path")
	convertCmd.Flags().
		Bool("stdout", false, "Write to stdout instead of a file")
	convertCmd.Flags().
		Bool("overwrite", false, "Allow overwriting the output file")
	_ = convertCmd.MarkFlagRequired("to")
}

func runConvert(cmd *cobra.Command, args []string) error {
	toStr, _ := cmd.Flags().GetString("to")
	fromStr, _ := cmd.Flags().GetString("from")
	outputPath, _ := cmd.Flags().GetString("output")
	toStdout, _ := cmd.Flags().GetBool("stdout")
	overwrite, _ := cmd.Flags().GetBool("overwrite")

	to, err := format.Parse(toStr)
	if err != nil {
		return err
	}

	var from format.Format
	if fromStr != "" {
		if from, err = format.Parse(fromStr); err != nil {
			return err
		}
	}

	converter := pipeline.New(cfg, logger.Named("convert"))
	converter.Stdin = cmd.InOrStdin()
	converter.Stdout = cmd.OutOrStdout()

	result, err := converter.Convert(pipeline.Request{
		Input:     args[0],
		Output:    outputPath,
		From:      from,
		To:        to,
		Stdout:    toStdout,
		Overwrite: overwrite,
	})
	if err != nil {
		return err
	}

	if result.OutputPath != "" {
		printSummary(cmd, args[0], result)
	}

	return nil
}

func printSummary(cmd *cobra.Command, input string, result *pipeline.Result) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Converted %s (%s) to %s\n", input, result.InputFormat, result.OutputPath)
	fmt.Fprintf(out, "  Cues: %d\n", result.Cues)
	fmt.Fprintf(out, "  Duration: %s\n", time.Duration(result.DurationMS)*time.Millisecond)
}
