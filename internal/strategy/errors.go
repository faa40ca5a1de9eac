package strategy

import (
	"errors"
	"fmt"
)

var (
	// ErrDataUnavailable means the price series could not be fetched or was empty.
	ErrDataUnavailable = errors.New("data unavailable")
	// ErrIndicatorUnresolvable means the SuperTrend could not be computed.
	ErrIndicatorUnresolvable = errors.New("indicator unresolvable")
)

// EvaluationError is the only error returned by Evaluator.Evaluate.
// Kind is ErrDataUnavailable or ErrIndicatorUnresolvable.
type EvaluationError struct {
	Symbol string
	Kind   error
	Err    error
}

func (e *EvaluationError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("evaluate %s: %v", e.Symbol, e.Kind)
	}
	return fmt.Sprintf("evaluate %s: %v: %v", e.Symbol, e.Kind, e.Err)
}

func (e *EvaluationError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// ResultLabel names the outcome of an evaluation for metrics.
func ResultLabel(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrDataUnavailable):
		return "data_unavailable"
	case errors.Is(err, ErrIndicatorUnresolvable):
		return "indicator_unresolvable"
	default:
		return "error"
	}
}
