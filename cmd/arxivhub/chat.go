// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"bufio"
	"context"
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/pdiddy/arxivhub/internal/embedding"
	"github.com/pdiddy/arxivhub/internal/llm"
	"github.com/pdiddy/arxivhub/internal/pipeline"
	"github.com/pdiddy/arxivhub/internal/vectorstore"
	"github.com/pdiddy/arxivhub/internal/websearch"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start a conversation about your papers",
	Long: `Chat opens an interactive session. Questions are answered using
retrieval-augmented generation over the papers in your library; when the
library cannot answer, a web search fills the gap and web sources are
cited by URL.

Type "new" to start a fresh conversation, "exit" or Ctrl-D to leave.`,
	RunE: runChat,
}

func init() {
	chatCmd.Flags().Bool("verbose", false, "print pipeline stage progress")
	rootCmd.AddCommand(chatCmd)
}

func runChat(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	cfg := pipelineConfig()

	userID, err := currentUser(cmd)
	if err != nil {
		return err
	}
	if cfg.AI.APIKey == "" {
		return fmt.Errorf("gemini API key required: add .secrets/gemini-api-key or set ARXIVHUB_AI_API_KEY")
	}

	verbose, _ := cmd.Flags().GetBool("verbose")
	logger := zap.NewNop()
	if verbose {
		logger, err = zap.NewDevelopment()
		if err != nil {
			return fmt.Errorf("creating logger: %w", err)
		}
		defer logger.Sync()
	}

	store, err := vectorstore.Open(cfg.Ingestion.DataDir)
	if err != nil {
		return err
	}
	defer store.Close()

	client, err := llm.NewGenAIClient(ctx, cfg.AI.APIKey, cfg.AI.Model)
	if err != nil {
		return err
	}
	embedder, err := embedding.NewGenAIEngine(ctx, cfg.AI.APIKey, cfg.AI.EmbeddingModel)
	if err != nil {
		return err
	}
	web := &websearch.Client{
		HTTPClient: &http.Client{Timeout: cfg.WebSearch.Timeout},
		APIKey:     cfg.WebSearch.APIKey,
	}

	p, err := pipeline.New(pipeline.Runtime{
		LLM:      client,
		Embedder: embedder,
		Store:    store,
		Web:      web,
		Config:   cfg,
		Logger:   logger,
	})
	if err != nil {
		return err
	}

	inventory, err := store.Inventory(ctx, userID)
	if err != nil {
		return err
	}
	fmt.Printf("Chatting over %d paper(s). Type \"new\" for a fresh conversation, \"exit\" to quit.\n\n", len(inventory))

	threadID := uuid.NewString()
	var eventFn pipeline.EventFunc
	if verbose {
		eventFn = func(ev pipeline.Event) {
			if ev.Detail != "" {
				fmt.Fprintf(os.Stderr, "  [%s] %s\n", ev.Stage, ev.Detail)
			} else {
				fmt.Fprintf(os.Stderr, "  [%s]\n", ev.Stage)
			}
		}
	}

	scanner := bufio.NewScanner(os.Stdin)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for {
		fmt.Print("you> ")
		if !scanner.Scan() {
			fmt.Println()
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == "exit" || line == "quit" {
			return nil
		}
		if line == "new" {
			threadID = uuid.NewString()
			fmt.Println("Started a new conversation.")
			continue
		}

		// Refresh the inventory each turn so papers ingested mid-session
		// are visible to scoping.
		inventory, err = store.Inventory(ctx, userID)
		if err != nil {
			return err
		}

		st, err := p.Run(ctx, pipeline.TurnRequest{
			UserID:    userID,
			ThreadID:  threadID,
			Message:   line,
			Inventory: inventory,
		}, eventFn)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			continue
		}
		fmt.Printf("\narxivhub> %s\n\n", st.FinalAnswer)
	}
}
