// Package stats computes accuracy statistics against gold answers.
//
// A task may carry gold answers: the known-correct answer map for its
// question. For every task run of such a task, the submitted answer and the
// gold answer are walked in lockstep along a dot-separated path, and each
// aligned pair is folded into a Statistic. Lists on the gold side are zipped
// with the answer's list; an answer branch that is missing counts as wrong.
//
// Two statistics ship with the package: RightWrongCount tallies exact
// matches, and ConfusionMatrix cross-tabulates predicted labels against true
// labels over a fixed label set, skipping labels outside the set.
//
// # HTTP Endpoints
//
//   - GET /project/:id/stats/gold?stat=right_wrong&path=answer : run the statistic.
package stats
