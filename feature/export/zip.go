package export

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"

	"crowdexport/feature/export/models"
)

// DownloadName returns the deterministic archive filename for a project
// export: <short_name>_<table>[_expanded].zip.
func DownloadName(project models.Project, table string, expanded bool) string {
	name := fmt.Sprintf("%s_%s", project.ShortName, table)
	if expanded {
		name += "_expanded"
	}
	return name + ".zip"
}

// ArchiveKey returns the storage key the archive lives under.
func ArchiveKey(project models.Project, table string, expanded bool) string {
	return fmt.Sprintf("%d/%s", project.ID, DownloadName(project, table, expanded))
}

// ExportZip builds the CSV for a project table, packages it into a ZIP
// archive and places it in storage under its deterministic key. Any archive
// already at that key is deleted first, then the new one is written.
// It returns the storage key of the uploaded archive.
func (s *Service) ExportZip(ctx context.Context, project models.Project, table string, expanded bool, filters *models.Filters) (string, error) {
	result, err := s.ExportCSV(ctx, project.ID, table, expanded, filters)
	if err != nil {
		return "", err
	}

	buf := new(bytes.Buffer)
	zw := zip.NewWriter(buf)
	entry, err := zw.Create(fmt.Sprintf("%s_%s.csv", project.ShortName, table))
	if err != nil {
		return "", fmt.Errorf("failed to create zip entry: %w", err)
	}
	if _, err := entry.Write(result.Data); err != nil {
		return "", fmt.Errorf("failed to write zip entry: %w", err)
	}
	if err := zw.Close(); err != nil {
		return "", fmt.Errorf("failed to finish zip archive: %w", err)
	}

	key := ArchiveKey(project, table, expanded)
	if err := s.up.Delete(ctx, key); err != nil {
		return "", fmt.Errorf("failed to delete existing archive: %w", err)
	}
	if _, err := s.up.Upload(ctx, key, buf, int64(buf.Len()), "application/zip"); err != nil {
		return "", fmt.Errorf("failed to upload archive: %w", err)
	}
	return key, nil
}
