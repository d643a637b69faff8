package drive

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"
)

// SyncResult reports one folder sync: which workbooks were ingested and
// which were skipped (wrong extension).
type SyncResult struct {
	Ingested []string `json:"ingested"`
	Skipped  []string `json:"skipped,omitempty"`
}

// IngestFolder ingests every xlsx workbook in the brand's Drive folder,
// resolved from the configured shared path plus the brand code. Non-xlsx
// files are skipped so merchandisers can keep notes beside the workbooks.
func (s *IngestService) IngestFolder(ctx context.Context, brand, folderPath string) (*SyncResult, error) {
	folderID, err := s.driveService.FindFolderByPath(folderPath + "/" + brand)
	if err != nil {
		return nil, fmt.Errorf("resolve folder: %w", err)
	}

	files, err := s.driveService.ListFiles(folderID)
	if err != nil {
		return nil, err
	}

	result := &SyncResult{}
	for _, f := range files {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		if strings.ToLower(filepath.Ext(f.Name)) != ".xlsx" {
			result.Skipped = append(result.Skipped, f.Name)
			continue
		}

		if err := s.IngestFile(ctx, brand, f.ID); err != nil {
			return nil, fmt.Errorf("ingest %s: %w", f.Name, err)
		}
		result.Ingested = append(result.Ingested, f.Name)
	}

	log.Info().
		Str("brand", brand).
		Int("ingested", len(result.Ingested)).
		Int("skipped", len(result.Skipped)).
		Msg("drive folder synced")
	return result, nil
}
