// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the arxivhub CLI, a conversational
// research assistant over a personal arXiv library. Papers are ingested
// into a local vector store; the chat command answers questions grounded
// in their content.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/arxivhub/internal/secrets"
	"github.com/pdiddy/arxivhub/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// loadedSecrets holds API keys loaded from .secrets/ at startup.
var loadedSecrets map[string]string

// secretDefault returns fallback when non-empty, else the secret value
// for key if one was loaded.
func secretDefault(key, fallback string) string {
	if fallback != "" {
		return fallback
	}
	if v, ok := loadedSecrets[key]; ok {
		return v
	}
	return ""
}

// rootCmd is the base command for the arxivhub CLI.
var rootCmd = &cobra.Command{
	Use:   "arxivhub",
	Short: "Conversational research assistant over your arXiv library",
	Long: `arxivhub maintains a personal library of arXiv papers and answers
questions about them through retrieval-augmented generation.

Use "ingest" to add papers to your library, "papers" to inspect or manage
it, and "chat" to start a conversation grounded in the papers' content.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		s, err := secrets.Load(".secrets/")
		if err != nil {
			return err
		}
		loadedSecrets = s
		if len(s) > 0 {
			keys := make([]string, 0, len(s))
			for k := range s {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			fmt.Fprintf(os.Stderr, "Loaded secrets: %v\n", keys)
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./arxivhub.yaml or ~/.config/arxivhub/config.yaml)")
	rootCmd.PersistentFlags().String("user", "", "user ID owning the paper library (default: local OS username)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("arxivhub")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "arxivhub"))
		}
	}

	viper.SetEnvPrefix("ARXIVHUB")
	viper.AutomaticEnv()

	viper.SetDefault("ai.model", "gemini-2.5-flash")
	viper.SetDefault("ai.research_model", "gemini-2.5-pro")
	viper.SetDefault("ai.embedding_model", "gemini-embedding-001")
	viper.SetDefault("retrieval.score_threshold", 0.45)
	viper.SetDefault("retrieval.top_k", 5)
	viper.SetDefault("ingestion.data_dir", "data")
	viper.SetDefault("ingestion.download_delay", "1s")
	viper.SetDefault("ingestion.timeout", "60s")
	viper.SetDefault("ingestion.user_agent", "arxivhub/"+version)
	viper.SetDefault("web_search.max_results", 3)
	viper.SetDefault("web_search.depth", "advanced")
	viper.SetDefault("web_search.timeout", "30s")

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// pipelineConfig assembles the full runtime configuration from viper and
// loaded secrets.
func pipelineConfig() types.PipelineConfig {
	cfg := types.PipelineConfig{
		AI: types.AIConfig{
			Model:          viper.GetString("ai.model"),
			ResearchModel:  viper.GetString("ai.research_model"),
			EmbeddingModel: viper.GetString("ai.embedding_model"),
			APIKey:         secretDefault("gemini-api-key", viper.GetString("ai.api_key")),
		},
		Retrieval: types.RetrievalConfig{
			ScoreThreshold: viper.GetFloat64("retrieval.score_threshold"),
			TopK:           viper.GetInt("retrieval.top_k"),
		}.Normalize(),
		Ingestion: types.IngestionConfig{
			HTTPConfig: types.HTTPConfig{
				Timeout:   viper.GetDuration("ingestion.timeout"),
				UserAgent: viper.GetString("ingestion.user_agent"),
			},
			DataDir:        viper.GetString("ingestion.data_dir"),
			DownloadDelay:  viper.GetDuration("ingestion.download_delay"),
			ChunkSize:      viper.GetInt("ingestion.chunk_size"),
			ChunkOverlap:   viper.GetInt("ingestion.chunk_overlap"),
			MinChunkLength: viper.GetInt("ingestion.min_chunk_length"),
		},
		WebSearch: types.WebSearchConfig{
			HTTPConfig: types.HTTPConfig{
				Timeout: viper.GetDuration("web_search.timeout"),
			},
			APIKey:     secretDefault("tavily-api-key", viper.GetString("web_search.api_key")),
			MaxResults: viper.GetInt("web_search.max_results"),
			Depth:      viper.GetString("web_search.depth"),
		},
	}
	if cfg.Ingestion.Timeout <= 0 {
		cfg.Ingestion.Timeout = 60 * time.Second
	}
	return cfg
}

// currentUser resolves the library owner: --user flag, then ARXIVHUB_USER,
// then the OS username.
func currentUser(cmd *cobra.Command) (string, error) {
	if u, _ := cmd.Flags().GetString("user"); u != "" {
		return u, nil
	}
	if u := viper.GetString("user"); u != "" {
		return u, nil
	}
	if u := os.Getenv("USER"); u != "" {
		return u, nil
	}
	return "", fmt.Errorf("cannot determine user ID: pass --user")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
