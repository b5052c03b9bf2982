package cli

import (
	"encoding/json"
	"fmt"
	"unicode/utf8"

	"github.com/spf13/cobra"
)

var (
	detectFile string
	detectJSON bool
)

var detectCmd = &cobra.Command{
	Use:   "detect [text]",
	Short: "Score text against the reference corpus",
	Long: `Fingerprint the input and score it against every indexed reference
document. Matched segments above the threshold are reported with their
source and, where the source has metadata, a formatted citation.

Examples:
  textguard detect "suspicious paragraph"
  textguard detect -f essay.txt --json`,
	RunE: runDetect,
}

func init() {
	rootCmd.AddCommand(detectCmd)
	detectCmd.Flags().StringVarP(&detectFile, "file", "f", "", "read input from file")
	detectCmd.Flags().BoolVar(&detectJSON, "json", false, "output as JSON")
}

func runDetect(cmd *cobra.Command, args []string) error {
	text, err := readInput(args, detectFile)
	if err != nil {
		return err
	}

	p, closer, err := buildPipeline(true)
	if err != nil {
		return err
	}
	if closer != nil {
		defer closer.Close()
	}

	result, err := p.Detect(text)
	if err != nil {
		return err
	}

	if detectJSON {
		output, _ := json.MarshalIndent(result, "", "  ")
		fmt.Println(string(output))
		return nil
	}

	fmt.Printf("Overall similarity: %.1f%%\n", result.OverallScore*100)
	if len(result.Segments) == 0 {
		fmt.Println("No matched segments.")
		return nil
	}
	fmt.Printf("\nMatched segments (%d):\n", len(result.Segments))
	for i, seg := range result.Segments {
		fmt.Printf("--- [%d] source=%s score=%.2f chars=%d-%d ---\n", i+1, seg.SourceID, seg.LocalScore, seg.Start, seg.End)
		fmt.Println(truncate(seg.Text, 200))
		if seg.Citation != nil {
			fmt.Printf("  MLA: %s\n", seg.Citation.MLA)
			fmt.Printf("  APA: %s\n", seg.Citation.APA)
		}
		fmt.Println()
	}
	return nil
}

// truncate shortens long display text on a rune boundary.
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	cut := max
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "..."
}
