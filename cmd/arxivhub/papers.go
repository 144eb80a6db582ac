// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/arxivhub/internal/vectorstore"
)

var papersCmd = &cobra.Command{
	Use:   "papers",
	Short: "Inspect and manage your paper library",
	Long: `Papers lists, shows, annotates, deletes, and exports the papers in
your library. The library is per-user; see the --user flag.`,
}

var papersListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all papers in the library",
	RunE:  runPapersList,
}

var papersShowCmd = &cobra.Command{
	Use:   "show [arxiv-id]",
	Short: "Show one paper's metadata and notes",
	Args:  cobra.ExactArgs(1),
	RunE:  runPapersShow,
}

var papersDeleteCmd = &cobra.Command{
	Use:   "delete [arxiv-id]",
	Short: "Remove a paper and its chunks from the library",
	Args:  cobra.ExactArgs(1),
	RunE:  runPapersDelete,
}

var papersNotesCmd = &cobra.Command{
	Use:   "notes [arxiv-id] [text]",
	Short: "Attach free-form notes to a paper",
	Args:  cobra.MinimumNArgs(2),
	RunE:  runPapersNotes,
}

var papersExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export library metadata as YAML or JSON",
	RunE:  runPapersExport,
}

func init() {
	papersExportCmd.Flags().Bool("json", false, "export as JSON instead of YAML")
	papersCmd.AddCommand(papersListCmd, papersShowCmd, papersDeleteCmd, papersNotesCmd, papersExportCmd)
	rootCmd.AddCommand(papersCmd)
}

// openLibrary resolves the user and opens the vector store.
func openLibrary(cmd *cobra.Command) (string, *vectorstore.Store, error) {
	userID, err := currentUser(cmd)
	if err != nil {
		return "", nil, err
	}
	store, err := vectorstore.Open(pipelineConfig().Ingestion.DataDir)
	if err != nil {
		return "", nil, err
	}
	return userID, store, nil
}

func runPapersList(cmd *cobra.Command, args []string) error {
	userID, store, err := openLibrary(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	inventory, err := store.Inventory(context.Background(), userID)
	if err != nil {
		return err
	}
	if len(inventory) == 0 {
		fmt.Println("Library is empty. Add papers with: arxivhub ingest <arxiv-id>")
		return nil
	}

	ids := make([]string, 0, len(inventory))
	for id := range inventory {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		rec := inventory[id]
		fmt.Printf("%-14s %d  %s\n", rec.ID, rec.Published, rec.Title)
	}
	fmt.Printf("\n%d paper(s)\n", len(ids))
	return nil
}

func runPapersShow(cmd *cobra.Command, args []string) error {
	userID, store, err := openLibrary(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	inventory, err := store.Inventory(context.Background(), userID)
	if err != nil {
		return err
	}
	rec, ok := inventory[args[0]]
	if !ok {
		return fmt.Errorf("paper %s not in library", args[0])
	}

	fmt.Printf("ID:        %s\n", rec.ID)
	fmt.Printf("Title:     %s\n", rec.Title)
	fmt.Printf("Authors:   %s\n", strings.Join(rec.Authors, ", "))
	fmt.Printf("Published: %d\n", rec.Published)
	fmt.Printf("PDF:       %s\n", rec.PDFURL)
	fmt.Printf("Chunks:    %d\n", rec.TotalChunks)
	if !rec.IngestedAt.IsZero() {
		fmt.Printf("Ingested:  %s\n", rec.IngestedAt.Format("2006-01-02 15:04"))
	}
	fmt.Printf("\nAbstract:\n%s\n", rec.Summary)
	if rec.Notes != "" {
		fmt.Printf("\nNotes:\n%s\n", rec.Notes)
	}
	return nil
}

func runPapersDelete(cmd *cobra.Command, args []string) error {
	userID, store, err := openLibrary(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.DeletePaper(context.Background(), userID, args[0]); err != nil {
		return err
	}
	fmt.Printf("deleted: %s\n", args[0])
	return nil
}

func runPapersNotes(cmd *cobra.Command, args []string) error {
	userID, store, err := openLibrary(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	notes := strings.Join(args[1:], " ")
	if err := store.SaveNotes(context.Background(), userID, args[0], notes); err != nil {
		return err
	}
	fmt.Printf("notes saved: %s\n", args[0])
	return nil
}

func runPapersExport(cmd *cobra.Command, args []string) error {
	userID, store, err := openLibrary(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	asJSON, _ := cmd.Flags().GetBool("json")
	if asJSON {
		return store.ExportJSON(context.Background(), userID, os.Stdout)
	}
	return store.ExportYAML(context.Background(), userID, os.Stdout)
}
