package cli

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

var (
	removeFile string
	removeJSON bool
)

var removeCmd = &cobra.Command{
	Use:   "remove [text]",
	Short: "Paraphrase text to reduce corpus overlap",
	Long: `Score the input against the corpus, paraphrase it, and re-score every
rewrite. The rewrite with the lowest recomputed score wins; the reported
reduction comes from the measured delta, not the paraphraser's own claim.

Examples:
  textguard remove "flagged paragraph"
  textguard remove -f essay.txt --json`,
	RunE: runRemove,
}

func init() {
	rootCmd.AddCommand(removeCmd)
	removeCmd.Flags().StringVarP(&removeFile, "file", "f", "", "read input from file")
	removeCmd.Flags().BoolVar(&removeJSON, "json", false, "output as JSON")
}

func runRemove(cmd *cobra.Command, args []string) error {
	text, err := readInput(args, removeFile)
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

	result, err := p.Remove(context.Background(), text)
	if err != nil {
		return err
	}

	if removeJSON {
		output, _ := json.MarshalIndent(result, "", "  ")
		fmt.Println(string(output))
		return nil
	}

	fmt.Printf("Baseline similarity: %.1f%%\n", result.BaselineScore*100)
	fmt.Printf("Rewrite similarity:  %.1f%%\n", result.RewriteScore*100)
	fmt.Printf("Estimated reduction: %d-%d%%\n\n", result.Reduction.Low, result.Reduction.High)
	fmt.Println(result.Primary)
	if len(result.Alternatives) > 0 {
		fmt.Printf("\nAlternatives:\n")
		for i, alt := range result.Alternatives {
			fmt.Printf("  [%d] %s\n", i+1, alt)
		}
	}
	return nil
}
