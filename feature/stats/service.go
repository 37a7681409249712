package stats

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"crowdexport/feature/export/models"
)

// ErrUnknownStatistic is returned when the requested statistic name is
// not one of the supported kinds.
var ErrUnknownStatistic = errors.New("unknown statistic")

// Service computes gold-answer statistics over a project's task runs.
type Service struct {
	repo   *models.Repository
	logger *zap.Logger
}

func NewService(repo *models.Repository, logger *zap.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// newStatistic builds the statistic named by kind. Labels are only
// meaningful for the confusion matrix.
func (s *Service) newStatistic(kind string, labels []string) (Statistic, error) {
	switch kind {
	case "right_wrong":
		return &RightWrongCount{}, nil
	case "confusion_matrix":
		return NewConfusionMatrix(labels, s.logger), nil
	default:
		return nil, ErrUnknownStatistic
	}
}

// GoldStats runs the named statistic over every task run of the project
// whose task carries gold answers, comparing the answer found at path.
func (s *Service) GoldStats(ctx context.Context, projectID int, kind, path string, labels []string) (map[string]any, error) {
	if _, err := s.repo.GetProject(ctx, projectID); err != nil {
		return nil, err
	}

	stat, err := s.newStatistic(kind, labels)
	if err != nil {
		return nil, err
	}

	runs, err := s.repo.FilterTaskRunsBy(ctx, projectID)
	if err != nil {
		return nil, err
	}

	counted := 0
	for _, run := range runs {
		if run.Task == nil || len(run.Task.GoldAnswers) == 0 {
			continue
		}
		var answer any
		if run.Info != nil {
			answer = map[string]any(run.Info)
		}
		Compute(stat, answer, map[string]any(run.Task.GoldAnswers), path)
		counted++
	}

	result := stat.Value()
	result["task_runs"] = counted
	return result, nil
}

// IsNotFound reports whether err means the project does not exist.
func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
