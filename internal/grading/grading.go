package grading

import (
	"time"

	"github.com/quizwire/quizwire/internal/model"
)

// Strategy decides how many points a correct answer earns.
// Implementations must be pure: same inputs, same output.
type Strategy interface {
	// Points returns the points earned for a correct answer to the
	// question, given the client-reported elapsed time
	Points(question *model.Question, elapsed time.Duration) int
}

// FullCredit awards the question's full point value regardless of speed
type FullCredit struct{}

// Points returns the full point value
func (FullCredit) Points(question *model.Question, _ time.Duration) int {
	return question.Points
}

// LinearDecay scales points down linearly over the question's time limit.
// An instant answer earns full points; an answer at the limit earns
// MinFraction of the full value.
type LinearDecay struct {
	// MinFraction is the floor as a fraction of the full value, in [0, 1]
	MinFraction float64
}

// Points returns the time-scaled point value
func (s LinearDecay) Points(question *model.Question, elapsed time.Duration) int {
	limit := time.Duration(question.TimeLimit) * time.Second
	if limit <= 0 {
		return question.Points
	}

	frac := float64(elapsed) / float64(limit)
	if frac < 0 {
		frac = 0
	}
	if frac > 1 {
		frac = 1
	}

	scale := 1 - frac*(1-s.MinFraction)
	return int(float64(question.Points) * scale)
}

// Strategy names accepted in configuration
const (
	StrategyFullCredit  = "full"
	StrategyLinearDecay = "decay"
)

// DefaultDecayFloor is the fraction of full value a correct answer at the
// time limit earns under the decay strategy
const DefaultDecayFloor = 0.5

// FromName returns the strategy for a configured name, defaulting to
// full credit for unknown or empty names. A decayFloor outside (0, 1]
// falls back to DefaultDecayFloor.
func FromName(name string, decayFloor float64) Strategy {
	if name == StrategyLinearDecay {
		if decayFloor <= 0 || decayFloor > 1 {
			decayFloor = DefaultDecayFloor
		}
		return LinearDecay{MinFraction: decayFloor}
	}
	return FullCredit{}
}

// Submission is one participant's answer to one question
type Submission struct {
	SelectedOptionIDs []int
	Elapsed           time.Duration
}

// Result is the outcome of grading a submission
type Result struct {
	Correct bool
	Points  int
}

// Grade computes correctness and points for a submission against a question.
// Correctness requires the selected option set to be set-equal to the
// correct option set: a subset, superset, or mismatch is simply incorrect,
// never partially correct. Incorrect answers earn zero points.
func Grade(question *model.Question, sub Submission, strategy Strategy) Result {
	if !setsEqual(sub.SelectedOptionIDs, question.CorrectOptionIDs()) {
		return Result{Correct: false, Points: 0}
	}

	points := strategy.Points(question, sub.Elapsed)
	if points < 0 {
		points = 0
	}
	return Result{Correct: true, Points: points}
}

// setsEqual reports whether two ID slices contain the same set of values.
// Duplicates within a slice are collapsed.
func setsEqual(a, b []int) bool {
	as := make(map[int]struct{}, len(a))
	for _, id := range a {
		as[id] = struct{}{}
	}
	bs := make(map[int]struct{}, len(b))
	for _, id := range b {
		bs[id] = struct{}{}
	}
	if len(as) != len(bs) {
		return false
	}
	for id := range as {
		if _, ok := bs[id]; !ok {
			return false
		}
	}
	return true
}
