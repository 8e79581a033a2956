package models

import "fmt"

// InsufficientDataError reports a series shorter than an operation's minimum.
// It is always raised before any computation starts.
type InsufficientDataError struct {
	Op   string
	Need int
	Got  int
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("%s: insufficient data: need %d points, got %d", e.Op, e.Need, e.Got)
}

// ModelTrainingError reports a failed training run, e.g. a degenerate series
// producing a singular feature scaling.
type ModelTrainingError struct {
	Reason string
	Err    error
}

func (e *ModelTrainingError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("model training failed: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("model training failed: %s", e.Reason)
}

func (e *ModelTrainingError) Unwrap() error { return e.Err }

// ModelNotTrainedError reports predict being called on an untrained model handle.
type ModelNotTrainedError struct {
	Kind ModelKind
}

func (e *ModelNotTrainedError) Error() string {
	return fmt.Sprintf("model %q is not trained", e.Kind)
}

// InvalidConfigurationError reports an out-of-range or unknown parameter:
// horizon <= 0, unknown strategy or model kind, malformed input series.
type InvalidConfigurationError struct {
	Field  string
	Reason string
}

func (e *InvalidConfigurationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}
