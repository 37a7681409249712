package export

import (
	"context"
	"errors"
	"fmt"

	"crowdexport/core/storage"
	"crowdexport/feature/export/models"

	"go.uber.org/zap"
)

// Exportable table names.
const (
	TableTask    = "task"
	TableTaskRun = "task_run"
)

// ErrUnknownTable is returned when an export is requested for a table the
// engine does not handle.
var ErrUnknownTable = errors.New("unknown export table")

// Result is the outcome of one CSV export run. An export either succeeds
// with data or fails with an error from ExportCSV; callers can always tell
// "no data" from "something broke".
type Result struct {
	Table    string
	Expanded bool
	Headers  []string
	Rows     int
	Data     []byte
}

// Service drives exports: it pulls records from the repository, reconciles
// headers, projects rows, and packages the result for download.
type Service struct {
	repo   *models.Repository
	up     storage.Uploader
	logger *zap.Logger
}

// NewService creates a new export service.
func NewService(repo *models.Repository, up storage.Uploader, logger *zap.Logger) *Service {
	return &Service{repo: repo, up: up, logger: logger}
}

// ExportCSV produces the CSV for one project table. Without filters the
// records are domain objects (expanded merges in related task and user);
// with filters they are pre-joined flat rows from the browse query.
func (s *Service) ExportCSV(ctx context.Context, projectID int, table string, expanded bool, filters *models.Filters) (*Result, error) {
	var (
		records []Record
		prefix  string
		err     error
	)

	if filters != nil {
		records, prefix, err = s.browseRecords(ctx, projectID, table, *filters)
	} else {
		records, prefix, err = s.objectRecords(ctx, projectID, table, expanded)
	}
	if err != nil {
		return nil, err
	}

	// Headers come from the raw record shape, not the normalized one, so
	// row-derived exports keep their flat columns alongside the re-nested
	// related-object columns.
	raw := make([]map[string]any, len(records))
	for i, r := range records {
		raw[i] = r.Data
	}
	headers := HeaderSet(raw, prefix)

	data, err := BuildCSV(headers, records)
	if err != nil {
		return nil, fmt.Errorf("failed to build %s export: %w", table, err)
	}

	s.logger.Info("Export built",
		zap.String("table", table),
		zap.Int("project_id", projectID),
		zap.Int("rows", len(records)),
		zap.Int("columns", len(headers)),
		zap.Bool("expanded", expanded),
	)

	return &Result{
		Table:    table,
		Expanded: expanded,
		Headers:  headers,
		Rows:     len(records),
		Data:     data,
	}, nil
}

// objectRecords loads domain objects and converts them to records. The root
// prefix is the object's own type name ("task", "taskrun").
func (s *Service) objectRecords(ctx context.Context, projectID int, table string, expanded bool) ([]Record, string, error) {
	switch table {
	case TableTask:
		tasks, err := s.repo.FilterTasksBy(ctx, projectID)
		if err != nil {
			return nil, "", err
		}
		records := make([]Record, len(tasks))
		for i, t := range tasks {
			records[i] = Record{Kind: ObjectDerived, Data: t.Dictize()}
		}
		return records, models.Task{}.TypeName(), nil

	case TableTaskRun:
		runs, err := s.repo.FilterTaskRunsBy(ctx, projectID)
		if err != nil {
			return nil, "", err
		}
		records := make([]Record, len(runs))
		for i, run := range runs {
			data := run.Dictize()
			if expanded {
				var task, user map[string]any
				if run.Task != nil {
					task = run.Task.Dictize()
				}
				if run.User != nil {
					user = run.User.Dictize()
				}
				data = MergeRelated(data, task, user)
			}
			records[i] = Record{Kind: ObjectDerived, Data: data}
		}
		return records, models.TaskRun{}.TypeName(), nil

	default:
		return nil, "", fmt.Errorf("%w: %s", ErrUnknownTable, table)
	}
}

// browseRecords loads pre-joined flat rows. The root prefix is the table
// name as requested ("task", "task_run").
func (s *Service) browseRecords(ctx context.Context, projectID int, table string, f models.Filters) ([]Record, string, error) {
	if table != TableTask && table != TableTaskRun {
		return nil, "", fmt.Errorf("%w: %s", ErrUnknownTable, table)
	}
	rows, err := s.repo.BrowseExport(ctx, table, projectID, f)
	if err != nil {
		return nil, "", err
	}
	records := make([]Record, len(rows))
	for i, row := range rows {
		records[i] = Record{Kind: RowDerived, Data: row}
	}
	return records, table, nil
}
