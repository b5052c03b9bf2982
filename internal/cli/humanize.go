package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var humanizeFile string

var humanizeCmd = &cobra.Command{
	Use:   "humanize [text]",
	Short: "Strip formatting artifacts from text",
	Long: `Remove separator characters, collapse whitespace and drop emoji while
preserving the original wording and casing.

Examples:
  textguard humanize "it's important--to verify"
  textguard humanize -f essay.txt
  cat essay.txt | textguard humanize`,
	RunE: runHumanize,
}

func init() {
	rootCmd.AddCommand(humanizeCmd)
	humanizeCmd.Flags().StringVarP(&humanizeFile, "file", "f", "", "read input from file")
}

func runHumanize(cmd *cobra.Command, args []string) error {
	text, err := readInput(args, humanizeFile)
	if err != nil {
		return err
	}

	p, closer, err := buildPipeline(false)
	if err != nil {
		return err
	}
	if closer != nil {
		defer closer.Close()
	}

	out, err := p.Humanize(text)
	if err != nil {
		return err
	}
	fmt.Println(out)
	return nil
}
