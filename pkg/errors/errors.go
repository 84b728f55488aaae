// Package errors provides error handling and the warning system for matpipe.
// It mirrors the exception/warning split used by dataframe pipelines: hard
// validation failures are typed errors carrying stack traces, while recoverable
// conditions (a featurizer failing on a handful of rows) surface as warnings.
package errors

import (
	"fmt"
	"log"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog"
)

// ===========================================================================
//
//	Global warning handling
//
// ===========================================================================
var (
	warningMutex   sync.Mutex
	warningHandler = func(w error) {
		log.Printf("matpipe-warning: %v\n", w)
	}
	zerologWarnFunc func(warning error)
)

// SetWarningHandler sets the warning handler for the whole library.
// Use it to silence or redirect warnings such as FeaturizationWarning.
func SetWarningHandler(handler func(w error)) {
	warningMutex.Lock()
	defer warningMutex.Unlock()
	warningHandler = handler
}

// SetZerologWarnFunc installs a zerolog-backed warning sink. Kept separate
// from SetWarningHandler to avoid an import cycle with pkg/log.
func SetZerologWarnFunc(warnFunc func(warning error)) {
	warningMutex.Lock()
	defer warningMutex.Unlock()
	zerologWarnFunc = warnFunc
}

// Warn emits a warning. If a zerolog sink is installed it takes precedence
// over the plain handler.
func Warn(w error) {
	warningMutex.Lock()
	defer warningMutex.Unlock()

	if zerologWarnFunc != nil {
		zerologWarnFunc(w)
		return
	}

	if warningHandler != nil {
		warningHandler(w)
	}
}

// ===========================================================================
//
//	Warning types
//
// ===========================================================================

// FeaturizationWarning is raised when a featurizer fails on some rows of a
// frame under error-tolerant application. The failed cells are set to NaN.
type FeaturizationWarning struct {
	Featurizer string
	FailedRows int
	TotalRows  int
	Reason     string
}

func (w *FeaturizationWarning) Error() string {
	return fmt.Sprintf("featurizer %s failed on %d of %d rows: %s",
		w.Featurizer, w.FailedRows, w.TotalRows, w.Reason)
}

// MarshalZerologObject adds the structured warning fields to a zerolog event.
func (w *FeaturizationWarning) MarshalZerologObject(e *zerolog.Event) {
	e.Str("featurizer", w.Featurizer).
		Int("failed_rows", w.FailedRows).
		Int("total_rows", w.TotalRows).
		Str("reason", w.Reason).
		Str("type", "FeaturizationWarning")
}

// NewFeaturizationWarning creates a new FeaturizationWarning.
func NewFeaturizationWarning(featurizer string, failed, total int, reason string) *FeaturizationWarning {
	return &FeaturizationWarning{Featurizer: featurizer, FailedRows: failed, TotalRows: total, Reason: reason}
}

// DroppedColumnsWarning is raised when the cleaner removes feature columns
// whose NA fraction exceeds the configured threshold.
type DroppedColumnsWarning struct {
	Stage   string
	Columns []string
	NAFrac  float64
}

func (w *DroppedColumnsWarning) Error() string {
	return fmt.Sprintf("%s dropped %d columns exceeding %.2f NA fraction: %v",
		w.Stage, len(w.Columns), w.NAFrac, w.Columns)
}

// MarshalZerologObject adds the structured warning fields to a zerolog event.
func (w *DroppedColumnsWarning) MarshalZerologObject(e *zerolog.Event) {
	e.Str("stage", w.Stage).
		Strs("columns", w.Columns).
		Float64("na_frac", w.NAFrac).
		Str("type", "DroppedColumnsWarning")
}

// NewDroppedColumnsWarning creates a new DroppedColumnsWarning.
func NewDroppedColumnsWarning(stage string, columns []string, naFrac float64) *DroppedColumnsWarning {
	return &DroppedColumnsWarning{Stage: stage, Columns: columns, NAFrac: naFrac}
}

// ===========================================================================
//
//	Structured error types
//
// ===========================================================================

// NotFittedError is returned when Transform, Predict or Digest is called on a
// component before Fit.
type NotFittedError struct {
	Component string
	Method    string
}

func (e *NotFittedError) Error() string {
	return fmt.Sprintf("matpipe: %s: not fitted yet. Call Fit() before using %s()", e.Component, e.Method)
}

// MarshalZerologObject adds the structured error fields to a zerolog event.
func (e *NotFittedError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("component", e.Component).
		Str("method", e.Method).
		Str("type", "NotFittedError")
}

// NewNotFittedError creates a NotFittedError with a stack trace attached.
func NewNotFittedError(component, method string) error {
	err := &NotFittedError{Component: component, Method: method}
	return errors.WithStack(err)
}

// MissingColumnError is returned when a required column (most often the ML
// target) is absent from a frame.
type MissingColumnError struct {
	Op     string
	Column string
}

func (e *MissingColumnError) Error() string {
	return fmt.Sprintf("matpipe: %s: column %q not found in dataframe", e.Op, e.Column)
}

// MarshalZerologObject adds the structured error fields to a zerolog event.
func (e *MissingColumnError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("operation", e.Op).
		Str("column", e.Column).
		Str("type", "MissingColumnError")
}

// NewMissingColumnError creates a MissingColumnError with a stack trace attached.
func NewMissingColumnError(op, column string) error {
	err := &MissingColumnError{Op: op, Column: column}
	return errors.WithStack(err)
}

// DimensionError is returned when the shape of incoming data does not match
// what was seen during fitting.
type DimensionError struct {
	Op       string
	Expected int
	Got      int
	Axis     int // 0 for rows, 1 for columns/features
}

func (e *DimensionError) Error() string {
	axisName := "columns"
	if e.Axis == 0 {
		axisName = "rows"
	}
	return fmt.Sprintf("matpipe: %s: dimension mismatch on axis %d (%s). Expected %d, got %d", e.Op, e.Axis, axisName, e.Expected, e.Got)
}

// MarshalZerologObject adds the structured error fields to a zerolog event.
func (e *DimensionError) MarshalZerologObject(event *zerolog.Event) {
	axisName := "columns"
	if e.Axis == 0 {
		axisName = "rows"
	}
	event.Str("operation", e.Op).
		Int("expected", e.Expected).
		Int("got", e.Got).
		Int("axis", e.Axis).
		Str("axis_name", axisName).
		Str("type", "DimensionError")
}

// NewDimensionError creates a DimensionError with a stack trace attached.
func NewDimensionError(op string, expected, got, axis int) error {
	err := &DimensionError{Op: op, Expected: expected, Got: got, Axis: axis}
	return errors.WithStack(err)
}

// ValidationError is returned when a configuration parameter fails validation.
type ValidationError struct {
	ParamName string
	Reason    string
	Value     interface{}
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("matpipe: validation failed for parameter '%s': %s (got: %v)", e.ParamName, e.Reason, e.Value)
}

// MarshalZerologObject adds the structured error fields to a zerolog event.
func (e *ValidationError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("param_name", e.ParamName).
		Str("reason", e.Reason).
		Interface("value", e.Value).
		Str("type", "ValidationError")
}

// NewValidationError creates a ValidationError with a stack trace attached.
func NewValidationError(param, reason string, value interface{}) error {
	err := &ValidationError{ParamName: param, Reason: reason, Value: value}
	return errors.WithStack(err)
}

// ValueError is returned when a value is malformed or out of range, e.g. an
// unparseable chemical formula.
type ValueError struct {
	Op      string
	Message string
}

func (e *ValueError) Error() string {
	return fmt.Sprintf("matpipe: %s: %s", e.Op, e.Message)
}

// NewValueError creates a ValueError with a stack trace attached.
func NewValueError(op, message string) error {
	err := &ValueError{Op: op, Message: message}
	return errors.WithStack(err)
}

// PipeError is a general error raised by a pipeline stage.
type PipeError struct {
	Op    string
	Stage string
	Err   error
}

func (e *PipeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("matpipe: %s: %s: %v", e.Op, e.Stage, e.Err)
	}
	return fmt.Sprintf("matpipe: %s: %s", e.Op, e.Stage)
}

func (e *PipeError) Unwrap() error {
	return e.Err
}

// NewPipeError creates a PipeError with a stack trace attached.
func NewPipeError(op, stage string, err error) error {
	pipeErr := &PipeError{Op: op, Stage: stage, Err: err}
	return errors.WithStack(pipeErr)
}

// ===========================================================================
//
//	cockroachdb/errors wrappers
//
// ===========================================================================

// Is reports whether err matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

// Wrap wraps an error with a message.
func Wrap(err error, message string) error {
	return errors.Wrap(err, message)
}

// Wrapf wraps an error with a formatted message.
func Wrapf(err error, format string, args ...interface{}) error {
	return errors.Wrapf(err, format, args...)
}

// New creates a new error.
func New(message string) error {
	return errors.New(message)
}

// Newf creates a new formatted error.
func Newf(format string, args ...interface{}) error {
	return errors.Newf(format, args...)
}

// WithStack annotates an error with a stack trace.
func WithStack(err error) error {
	return errors.WithStack(err)
}

// ===========================================================================
//
//	Common error values
//
// ===========================================================================

var (
	// ErrEmptyData is returned when an empty frame or matrix is passed.
	ErrEmptyData = New("empty data")

	// ErrNoFeaturizableColumns is returned when a frame contains neither
	// composition nor structure columns.
	ErrNoFeaturizableColumns = New("no featurizable columns")

	// ErrSingularMatrix is returned when a linear solve hits a singular system.
	ErrSingularMatrix = New("singular matrix")
)
