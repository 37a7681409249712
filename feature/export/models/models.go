package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// JSONMap is a JSON object column decoded into a nested map.
type JSONMap map[string]any

// Scan implements sql.Scanner.
func (m *JSONMap) Scan(value any) error {
	if value == nil {
		*m = nil
		return nil
	}
	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("unsupported type %T for JSONMap", value)
	}
	if len(data) == 0 {
		*m = nil
		return nil
	}
	return json.Unmarshal(data, m)
}

// Value implements driver.Valuer.
func (m JSONMap) Value() (driver.Value, error) {
	if m == nil {
		return nil, nil
	}
	return json.Marshal(m)
}

// GormDataType tells the migrator to store JSON objects as text.
func (JSONMap) GormDataType() string { return "text" }

// Project is a crowdsourcing project.
type Project struct {
	ID        int       `gorm:"column:id;primaryKey" json:"id"`
	Name      string    `gorm:"column:name" json:"name"`
	ShortName string    `gorm:"column:short_name" json:"short_name"`
	Created   time.Time `gorm:"column:created" json:"created"`
}

func (Project) TableName() string { return "project" }

// Task is a unit of work presented to contributors.
type Task struct {
	ID          int       `gorm:"column:id;primaryKey" json:"id"`
	Created     time.Time `gorm:"column:created" json:"created"`
	ProjectID   int       `gorm:"column:project_id" json:"project_id"`
	State       string    `gorm:"column:state" json:"state"`
	Quorum      int       `gorm:"column:quorum" json:"quorum"`
	Calibration int       `gorm:"column:calibration" json:"calibration"`
	Priority0   float64   `gorm:"column:priority_0" json:"priority_0"`
	NAnswers    int       `gorm:"column:n_answers" json:"n_answers"`
	Info        JSONMap   `gorm:"column:info" json:"info"`
	GoldAnswers JSONMap   `gorm:"column:gold_answers" json:"gold_answers"`
}

func (Task) TableName() string { return "task" }

// TypeName is the root prefix used for headers derived from tasks.
func (Task) TypeName() string { return "task" }

// Dictize converts the task to the nested map shape the export engine consumes.
func (t Task) Dictize() map[string]any {
	return map[string]any{
		"id":          t.ID,
		"created":     t.Created.UTC().Format(time.RFC3339),
		"project_id":  t.ProjectID,
		"state":       t.State,
		"quorum":      t.Quorum,
		"calibration": t.Calibration,
		"priority_0":  t.Priority0,
		"n_answers":   t.NAnswers,
		"info":        map[string]any(t.Info),
	}
}

// TaskRun is one contributor's answer to a task.
type TaskRun struct {
	ID         int       `gorm:"column:id;primaryKey" json:"id"`
	Created    time.Time `gorm:"column:created" json:"created"`
	ProjectID  int       `gorm:"column:project_id" json:"project_id"`
	TaskID     int       `gorm:"column:task_id" json:"task_id"`
	UserID     int       `gorm:"column:user_id" json:"user_id"`
	UserIP     string    `gorm:"column:user_ip" json:"user_ip"`
	FinishTime time.Time `gorm:"column:finish_time" json:"finish_time"`
	Timeout    int       `gorm:"column:timeout" json:"timeout"`
	Info       JSONMap   `gorm:"column:info" json:"info"`

	Task *Task `gorm:"foreignKey:TaskID" json:"-"`
	User *User `gorm:"foreignKey:UserID" json:"-"`
}

func (TaskRun) TableName() string { return "task_run" }

// TypeName is the root prefix used for headers derived from task runs.
func (TaskRun) TypeName() string { return "taskrun" }

// Dictize converts the task run to the nested map shape the export engine
// consumes. Related objects are not included; see export.MergeRelated.
func (t TaskRun) Dictize() map[string]any {
	return map[string]any{
		"id":          t.ID,
		"created":     t.Created.UTC().Format(time.RFC3339),
		"project_id":  t.ProjectID,
		"task_id":     t.TaskID,
		"user_id":     t.UserID,
		"user_ip":     t.UserIP,
		"finish_time": t.FinishTime.UTC().Format(time.RFC3339),
		"timeout":     t.Timeout,
		"info":        map[string]any(t.Info),
	}
}

// User is a platform account. Only allow-listed attributes ever reach an
// export; see export.UserAllowedAttributes.
type User struct {
	ID        int       `gorm:"column:id;primaryKey" json:"id"`
	Name      string    `gorm:"column:name" json:"name"`
	Fullname  string    `gorm:"column:fullname" json:"fullname"`
	Created   time.Time `gorm:"column:created" json:"created"`
	EmailAddr string    `gorm:"column:email_addr" json:"email_addr"`
	APIKey    string    `gorm:"column:api_key" json:"-"`
	Passwd    string    `gorm:"column:passwd_hash" json:"-"`
	Admin     bool      `gorm:"column:admin" json:"admin"`
	Subadmin  bool      `gorm:"column:subadmin" json:"subadmin"`
}

func (User) TableName() string { return "user" }

// Dictize converts the user to a plain map. The result still contains
// sensitive fields; callers must filter before exposing it.
func (u User) Dictize() map[string]any {
	return map[string]any{
		"id":         u.ID,
		"name":       u.Name,
		"fullname":   u.Fullname,
		"created":    u.Created.UTC().Format(time.RFC3339),
		"email_addr": u.EmailAddr,
		"api_key":    u.APIKey,
		"admin":      u.Admin,
		"subadmin":   u.Subadmin,
	}
}
