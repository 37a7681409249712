package stats_test

import (
	"testing"

	"crowdexport/feature/stats"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestRightWrongCount_Scalar(t *testing.T) {
	stat := &stats.RightWrongCount{}

	stats.Compute(stat, map[string]any{"answer": "sparrow"}, map[string]any{"answer": "sparrow"}, "answer")
	stats.Compute(stat, map[string]any{"answer": "crow"}, map[string]any{"answer": "sparrow"}, "answer")

	assert.Equal(t, 1, stat.Right)
	assert.Equal(t, 1, stat.Wrong)
	assert.Equal(t, map[string]any{"right": 1, "wrong": 1}, stat.Value())
}

func TestRightWrongCount_DeepPath(t *testing.T) {
	stat := &stats.RightWrongCount{}

	answer := map[string]any{"result": map[string]any{"species": "sparrow"}}
	gold := map[string]any{"result": map[string]any{"species": "sparrow"}}
	stats.Compute(stat, answer, gold, "result.species")

	assert.Equal(t, 1, stat.Right)
	assert.Equal(t, 0, stat.Wrong)
}

func TestRightWrongCount_CustomEqual(t *testing.T) {
	stat := &stats.RightWrongCount{Equal: func(a, b any) bool {
		av, aok := a.(float64)
		bv, bok := b.(float64)
		return aok && bok && av-bv < 0.5 && bv-av < 0.5
	}}

	stats.Compute(stat, map[string]any{"x": 1.2}, map[string]any{"x": 1.0}, "x")
	stats.Compute(stat, map[string]any{"x": 3.0}, map[string]any{"x": 1.0}, "x")

	assert.Equal(t, 1, stat.Right)
	assert.Equal(t, 1, stat.Wrong)
}

func TestCompute_GoldListZipsPairwise(t *testing.T) {
	stat := &stats.RightWrongCount{}

	answer := map[string]any{"boxes": []any{
		map[string]any{"label": "cat"},
		map[string]any{"label": "dog"},
	}}
	gold := map[string]any{"boxes": []any{
		map[string]any{"label": "cat"},
		map[string]any{"label": "cat"},
		map[string]any{"label": "cat"},
	}}
	stats.Compute(stat, answer, gold, "boxes.label")

	// Two compared entries plus one gold entry with no answer counterpart.
	assert.Equal(t, 1, stat.Right)
	assert.Equal(t, 2, stat.Wrong)
}

func TestCompute_MissingAnswerBranchIsWrong(t *testing.T) {
	stat := &stats.RightWrongCount{}

	stats.Compute(stat, map[string]any{}, map[string]any{"answer": "sparrow"}, "answer")

	assert.Equal(t, 0, stat.Right)
	assert.Equal(t, 1, stat.Wrong)
}

func TestCompute_MissingGoldBranchIsSkipped(t *testing.T) {
	stat := &stats.RightWrongCount{}

	stats.Compute(stat, map[string]any{"answer": "sparrow"}, map[string]any{}, "answer")

	assert.Equal(t, 0, stat.Right)
	assert.Equal(t, 0, stat.Wrong)
}

func TestCompute_EmptyPathComparesWhole(t *testing.T) {
	stat := &stats.RightWrongCount{}

	stats.Compute(stat, map[string]any{"a": "x"}, map[string]any{"a": "x"}, "")
	stats.Compute(stat, map[string]any{"a": "y"}, map[string]any{"a": "x"}, "")

	assert.Equal(t, 1, stat.Right)
	assert.Equal(t, 1, stat.Wrong)
}

func TestConfusionMatrix(t *testing.T) {
	stat := stats.NewConfusionMatrix([]string{"cat", "dog"}, zap.NewNop())

	stats.Compute(stat, map[string]any{"label": "cat"}, map[string]any{"label": "cat"}, "label")
	stats.Compute(stat, map[string]any{"label": "cat"}, map[string]any{"label": "dog"}, "label")
	stats.Compute(stat, map[string]any{"label": "dog"}, map[string]any{"label": "dog"}, "label")

	assert.Equal(t, [][]int{{1, 0}, {1, 1}}, stat.Matrix)
	assert.Equal(t, map[string]any{"matrix": [][]int{{1, 0}, {1, 1}}}, stat.Value())
}

func TestConfusionMatrix_UnknownLabelSkipped(t *testing.T) {
	stat := stats.NewConfusionMatrix([]string{"cat", "dog"}, zap.NewNop())

	stats.Compute(stat, map[string]any{"label": "bird"}, map[string]any{"label": "cat"}, "label")
	stats.Compute(stat, map[string]any{"label": "cat"}, map[string]any{"label": "bird"}, "label")
	stats.Compute(stat, map[string]any{"label": 7}, map[string]any{"label": "cat"}, "label")

	assert.Equal(t, [][]int{{0, 0}, {0, 0}}, stat.Matrix)
}
