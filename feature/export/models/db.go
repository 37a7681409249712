package models

import (
	"context"
	"fmt"
	"strings"

	"crowdexport/core/database"

	"gorm.io/gorm"
)

// Filters narrows a browse export to matching task runs or tasks.
// The zero value matches everything.
type Filters struct {
	State  string
	UserID int
}

// IsZero reports whether no filter criteria are set.
func (f Filters) IsZero() bool {
	return f.State == "" && f.UserID == 0
}

// Repository is the query layer over the platform database.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a repository on top of a GORM connection.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// GetProject fetches a project by id.
func (r *Repository) GetProject(ctx context.Context, id int) (*Project, error) {
	var p Project
	if err := r.db.WithContext(ctx).First(&p, id).Error; err != nil {
		return nil, fmt.Errorf("failed to load project %d: %w", id, err)
	}
	return &p, nil
}

// GetTask fetches a task by id.
func (r *Repository) GetTask(ctx context.Context, id int) (*Task, error) {
	var t Task
	if err := r.db.WithContext(ctx).First(&t, id).Error; err != nil {
		return nil, fmt.Errorf("failed to load task %d: %w", id, err)
	}
	return &t, nil
}

// GetUserByAPIKey resolves the submitting user from an API key.
func (r *Repository) GetUserByAPIKey(ctx context.Context, apiKey string) (*User, error) {
	var u User
	if err := r.db.WithContext(ctx).Where("api_key = ?", apiKey).First(&u).Error; err != nil {
		return nil, fmt.Errorf("failed to load user by api key: %w", err)
	}
	return &u, nil
}

// FilterTasksBy returns all tasks of a project, ordered by id.
func (r *Repository) FilterTasksBy(ctx context.Context, projectID int) ([]Task, error) {
	var tasks []Task
	err := r.db.WithContext(ctx).
		Where("project_id = ?", projectID).
		Order("id").
		Find(&tasks).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load tasks for project %d: %w", projectID, err)
	}
	return tasks, nil
}

// FilterTaskRunsBy returns all task runs of a project with their related
// task and user preloaded, ordered by id.
func (r *Repository) FilterTaskRunsBy(ctx context.Context, projectID int) ([]TaskRun, error) {
	var runs []TaskRun
	err := r.db.WithContext(ctx).
		Preload("Task").
		Preload("User").
		Where("project_id = ?", projectID).
		Order("id").
		Find(&runs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load task runs for project %d: %w", projectID, err)
	}
	return runs, nil
}

// SaveTaskRun persists a new task run.
func (r *Repository) SaveTaskRun(ctx context.Context, run *TaskRun) error {
	if err := r.db.WithContext(ctx).Create(run).Error; err != nil {
		return fmt.Errorf("failed to save task run: %w", err)
	}
	return nil
}

// userBrowseColumns are the user columns a browse export may select. They
// mirror the export allow-list so the join can never leak credentials.
var userBrowseColumns = []string{"name", "fullname", "created", "email_addr", "admin", "subadmin"}

// BrowseExport returns pre-joined flat rows for a filtered export.
// The primary table's own columns keep their plain names; joined task and
// user columns are aliased with a double-underscore table prefix
// (task__state, user__name) so the export engine can re-nest them.
func (r *Repository) BrowseExport(ctx context.Context, table string, projectID int, f Filters) ([]map[string]any, error) {
	if table != "task" && table != "task_run" {
		return nil, fmt.Errorf("unsupported browse table %q", table)
	}

	ownCols, err := database.GetTableColumns(r.db, table)
	if err != nil {
		return nil, err
	}

	var selects []string
	for _, col := range ownCols {
		selects = append(selects, fmt.Sprintf("`%s`.`%s` AS `%s`", table, col.Field, col.Field))
	}

	q := r.db.WithContext(ctx).Table(table).Where(table+".project_id = ?", projectID)

	if table == "task_run" {
		taskCols, err := database.GetTableColumns(r.db, "task")
		if err != nil {
			return nil, err
		}
		for _, col := range taskCols {
			selects = append(selects, fmt.Sprintf("`task`.`%s` AS `task__%s`", col.Field, col.Field))
		}
		for _, col := range userBrowseColumns {
			selects = append(selects, fmt.Sprintf("`user`.`%s` AS `user__%s`", col, col))
		}
		q = q.Joins("LEFT JOIN `task` ON `task`.id = `task_run`.task_id").
			Joins("LEFT JOIN `user` ON `user`.id = `task_run`.user_id")
		if f.State != "" {
			q = q.Where("task.state = ?", f.State)
		}
		if f.UserID != 0 {
			q = q.Where("task_run.user_id = ?", f.UserID)
		}
	} else {
		if f.State != "" {
			q = q.Where("task.state = ?", f.State)
		}
	}

	var rows []map[string]any
	err = q.Select(strings.Join(selects, ", ")).Order(table + ".id").Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to browse %s export for project %d: %w", table, projectID, err)
	}
	return rows, nil
}
