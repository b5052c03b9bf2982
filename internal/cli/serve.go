package cli

import (
	"fmt"
	"net/http"

	"github.com/spf13/cobra"
	"textguard/internal/httpapi"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	Long: `Serve the pipeline over HTTP. Endpoints:

  POST /v1/humanize          strip formatting artifacts
  POST /v1/detect            score text against the corpus
  POST /v1/remove            paraphrase away detected overlap
  POST /v1/corpus/documents  index a reference document (admin token)
  GET  /v1/corpus/stats      corpus statistics`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default from config)")
}

func runServe(cmd *cobra.Command, args []string) error {
	p, closer, err := buildPipeline(true)
	if err != nil {
		return err
	}
	if closer != nil {
		defer closer.Close()
	}

	addr := GetConfig().Server.Addr
	if serveAddr != "" {
		addr = serveAddr
	}

	srv := httpapi.New(p, logger)
	logger.Info().Str("addr", addr).Msg("listening")
	if err := http.ListenAndServe(addr, srv.Handler()); err != nil {
		return fmt.Errorf("server failed: %w", err)
	}
	return nil
}
