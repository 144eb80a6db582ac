// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package vectorstore

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sort"

	"go.yaml.in/yaml/v3"
)

// ExportYAML writes a user's paper inventory to w as YAML, ordered by
// arXiv ID for stable output.
func (s *Store) ExportYAML(ctx context.Context, userID string, w io.Writer) error {
	records, err := s.exportRecords(ctx, userID)
	if err != nil {
		return err
	}
	data, err := yaml.Marshal(records)
	if err != nil {
		return fmt.Errorf("marshaling YAML: %w", err)
	}
	_, err = w.Write(data)
	return err
}

// ExportJSON writes a user's paper inventory to w as indented JSON.
func (s *Store) ExportJSON(ctx context.Context, userID string, w io.Writer) error {
	records, err := s.exportRecords(ctx, userID)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(records)
}

func (s *Store) exportRecords(ctx context.Context, userID string) ([]any, error) {
	inventory, err := s.Inventory(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("querying for export: %w", err)
	}

	ids := make([]string, 0, len(inventory))
	for id := range inventory {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	records := make([]any, 0, len(ids))
	for _, id := range ids {
		records = append(records, inventory[id])
	}
	return records, nil
}
