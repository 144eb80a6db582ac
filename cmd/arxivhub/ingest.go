// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/arxivhub/internal/embedding"
	"github.com/pdiddy/arxivhub/internal/ingest"
	"github.com/pdiddy/arxivhub/internal/vectorstore"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest [arxiv-id]...",
	Short: "Add arXiv papers to your library",
	Long: `Ingest downloads one or more arXiv papers, extracts their text with
pdftotext, chunks and embeds the content, and stores everything in the
local library database.

Identifiers use the modern arXiv form, with or without the prefix:
2301.07041, arXiv:2301.07041, 2301.07041v2.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runIngest,
}

func init() {
	ingestCmd.Flags().Bool("force", false, "re-ingest papers already in the library")
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	cfg := pipelineConfig()

	userID, err := currentUser(cmd)
	if err != nil {
		return err
	}
	if cfg.AI.APIKey == "" {
		return fmt.Errorf("gemini API key required: add .secrets/gemini-api-key or set ARXIVHUB_AI_API_KEY")
	}

	store, err := vectorstore.Open(cfg.Ingestion.DataDir)
	if err != nil {
		return err
	}
	defer store.Close()

	embedder, err := embedding.NewGenAIEngine(ctx, cfg.AI.APIKey, cfg.AI.EmbeddingModel)
	if err != nil {
		return err
	}

	force, _ := cmd.Flags().GetBool("force")
	ing := &ingest.Ingestor{
		Client:    &http.Client{Timeout: cfg.Ingestion.Timeout},
		Converter: ingest.PdftotextConverter{},
		Embedder:  embedder,
		Store:     store,
		Config:    cfg.Ingestion,
	}

	result := ing.IngestBatch(ctx, userID, args, force, os.Stdout)
	if result.HasFailures() {
		return fmt.Errorf("%d paper(s) failed ingestion", result.Failed)
	}
	return nil
}
