package model

import "fmt"

// ErrorKind classifies analysis failures.
type ErrorKind string

const (
	KindNoData              ErrorKind = "NO_DATA"
	KindInsufficientHistory ErrorKind = "INSUFFICIENT_HISTORY"
	KindInvalidParameter    ErrorKind = "INVALID_PARAMETER"
	KindUnexpected          ErrorKind = "UNEXPECTED"
)

// AnalysisError is the typed failure returned by the analysis pipeline.
type AnalysisError struct {
	Kind ErrorKind
	Msg  string
	Err  error
}

// Sentinels for errors.Is checks.
var (
	ErrNoData              = &AnalysisError{Kind: KindNoData}
	ErrInsufficientHistory = &AnalysisError{Kind: KindInsufficientHistory}
	ErrInvalidParameter    = &AnalysisError{Kind: KindInvalidParameter}
	ErrUnexpected          = &AnalysisError{Kind: KindUnexpected}
)

func (e *AnalysisError) Error() string {
	msg := e.Msg
	if msg == "" {
		msg = string(e.Kind)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *AnalysisError) Unwrap() error { return e.Err }

// Is matches any AnalysisError of the same kind.
func (e *AnalysisError) Is(target error) bool {
	t, ok := target.(*AnalysisError)
	return ok && t.Kind == e.Kind
}

// NoData builds a KindNoData error.
func NoData(cause error, format string, args ...any) *AnalysisError {
	return &AnalysisError{Kind: KindNoData, Msg: fmt.Sprintf(format, args...), Err: cause}
}

// InsufficientHistory builds a KindInsufficientHistory error.
func InsufficientHistory(format string, args ...any) *AnalysisError {
	return &AnalysisError{Kind: KindInsufficientHistory, Msg: fmt.Sprintf(format, args...)}
}

// InvalidParameter builds a KindInvalidParameter error.
func InvalidParameter(format string, args ...any) *AnalysisError {
	return &AnalysisError{Kind: KindInvalidParameter, Msg: fmt.Sprintf(format, args...)}
}

// Unexpected wraps an internal fault.
func Unexpected(cause error) *AnalysisError {
	return &AnalysisError{Kind: KindUnexpected, Msg: "an unexpected error occurred", Err: cause}
}
