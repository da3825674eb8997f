// Package errortypes classifies pipeline failures by the stage that produced them.
package errortypes

import (
	"errors"
	"fmt"
)

// ErrorType represents the kind of failure that aborted a run
type ErrorType string

const (
	Input        ErrorType = "input"
	Segmentation ErrorType = "segmentation"
	Embedding    ErrorType = "embedding"
	Output       ErrorType = "output"
	Config       ErrorType = "config"
)

// PipelineError wraps the underlying cause with its ErrorType and a short message
type PipelineError struct {
	Type    ErrorType
	Message string
	Err     error
	Fields  map[string]interface{}
}

func (e *PipelineError) Error() string {
	switch {
	case e.Err == nil:
		return fmt.Sprintf("%s error: %s", e.Type, e.Message)
	case e.Message == "":
		return fmt.Sprintf("%s error: %v", e.Type, e.Err)
	default:
		return fmt.Sprintf("%s error: %s: %v", e.Type, e.Message, e.Err)
	}
}

// Unwrap supports errors.Is and errors.As on the cause
func (e *PipelineError) Unwrap() error {
	return e.Err
}

// WithField attaches context such as a page index or a path
func (e *PipelineError) WithField(key string, value interface{}) *PipelineError {
	if e.Fields == nil {
		e.Fields = make(map[string]interface{})
	}
	e.Fields[key] = value
	return e
}

func New(t ErrorType, message string, err error) *PipelineError {
	return &PipelineError{Type: t, Message: message, Err: err}
}

func Newf(t ErrorType, format string, args ...interface{}) *PipelineError {
	return &PipelineError{Type: t, Message: fmt.Sprintf(format, args...)}
}

func NewInput(message string, err error) *PipelineError {
	return New(Input, message, err)
}

func NewSegmentation(message string, err error) *PipelineError {
	return New(Segmentation, message, err)
}

func NewEmbedding(message string, err error) *PipelineError {
	return New(Embedding, message, err)
}

func NewOutput(message string, err error) *PipelineError {
	return New(Output, message, err)
}

func NewConfig(message string, err error) *PipelineError {
	return New(Config, message, err)
}

// TypeOf returns the ErrorType of the outermost PipelineError in the chain,
// or "" if there is none.
func TypeOf(err error) ErrorType {
	var pe *PipelineError
	if errors.As(err, &pe) {
		return pe.Type
	}
	return ""
}

// Is reports whether err carries the given ErrorType
func Is(err error, t ErrorType) bool {
	return err != nil && TypeOf(err) == t
}

// FieldsOf collects the fields of every PipelineError in the chain, outermost wins.
func FieldsOf(err error) map[string]interface{} {
	fields := make(map[string]interface{})
	for err != nil {
		var pe *PipelineError
		if !errors.As(err, &pe) {
			break
		}
		for k, v := range pe.Fields {
			if _, ok := fields[k]; !ok {
				fields[k] = v
			}
		}
		err = pe.Err
	}
	return fields
}
