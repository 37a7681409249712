package stats

import (
	"reflect"
	"strings"

	"go.uber.org/zap"
)

// Statistic accumulates a measure over (predicted, gold) answer pairs.
type Statistic interface {
	// Update folds one aligned pair into the statistic. A missing answer
	// branch arrives as nil and never equals a concrete gold value.
	Update(predicted, truth any)
	// Value returns the accumulated result for serialization.
	Value() map[string]any
	// CompareLists reports whether whole lists are compared as single
	// values instead of being zipped element by element.
	CompareLists() bool
}

// RightWrongCount tallies exact matches against gold answers.
type RightWrongCount struct {
	Right int
	Wrong int
	// Equal overrides the comparison; reflect.DeepEqual when nil.
	Equal func(a, b any) bool
}

func (s *RightWrongCount) Update(predicted, truth any) {
	eq := s.Equal
	if eq == nil {
		eq = reflect.DeepEqual
	}
	if predicted != nil && eq(predicted, truth) {
		s.Right++
	} else {
		s.Wrong++
	}
}

func (s *RightWrongCount) Value() map[string]any {
	return map[string]any{
		"right": s.Right,
		"wrong": s.Wrong,
	}
}

func (s *RightWrongCount) CompareLists() bool { return false }

// ConfusionMatrix counts predicted-versus-true label pairs over a fixed
// label set. Pairs with labels outside the set are logged and skipped.
type ConfusionMatrix struct {
	Labels []string
	Matrix [][]int

	index  map[string]int
	logger *zap.Logger
}

// NewConfusionMatrix creates a zeroed matrix over the given labels.
func NewConfusionMatrix(labels []string, logger *zap.Logger) *ConfusionMatrix {
	index := make(map[string]int, len(labels))
	matrix := make([][]int, len(labels))
	for i, label := range labels {
		index[label] = i
		matrix[i] = make([]int, len(labels))
	}
	return &ConfusionMatrix{Labels: labels, Matrix: matrix, index: index, logger: logger}
}

func (s *ConfusionMatrix) Update(predicted, truth any) {
	predictedLabel, ok := predicted.(string)
	if !ok {
		s.logger.Warn("Invalid response label, won't update", zap.Any("label", predicted))
		return
	}
	predictedIx, ok := s.index[predictedLabel]
	if !ok {
		s.logger.Warn("Invalid response label, won't update", zap.String("label", predictedLabel))
		return
	}
	truthLabel, _ := truth.(string)
	truthIx, ok := s.index[truthLabel]
	if !ok {
		s.logger.Warn("Invalid gold label, won't update", zap.String("label", truthLabel))
		return
	}
	s.Matrix[truthIx][predictedIx]++
}

func (s *ConfusionMatrix) Value() map[string]any {
	return map[string]any{
		"matrix": s.Matrix,
	}
}

func (s *ConfusionMatrix) CompareLists() bool { return false }

// Compute walks a task-run answer and its gold answer in lockstep along a
// dot-separated path, updating stat for every aligned pair. Gold-side lists
// are zipped with the answer's list (missing answer entries count as
// absent); a path segment missing from the gold answer stops silently.
func Compute(stat Statistic, answer, gold any, path string) {
	var parts []string
	if path != "" {
		parts = strings.Split(path, ".")
	}
	compute(stat, answer, gold, parts)
}

func compute(stat Statistic, answer, gold any, parts []string) {
	if goldList, ok := gold.([]any); ok && (len(parts) > 0 || !stat.CompareLists()) {
		answerList, _ := answer.([]any)
		for i, goldItem := range goldList {
			var item any
			if i < len(answerList) {
				item = answerList[i]
			}
			compute(stat, item, goldItem, parts)
		}
		return
	}

	if len(parts) == 0 {
		stat.Update(answer, gold)
		return
	}

	goldMap, ok := gold.(map[string]any)
	if !ok {
		return
	}
	goldNext, ok := goldMap[parts[0]]
	if !ok {
		return
	}

	var answerNext any
	if answerMap, ok := answer.(map[string]any); ok {
		answerNext = answerMap[parts[0]]
	}
	compute(stat, answerNext, goldNext, parts[1:])
}
