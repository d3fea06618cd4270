package domain

import (
	"errors"
	"strings"
)

var (
	ErrValidation     = errors.New("invalid request")
	ErrNoProvider     = errors.New("no providers for this params")
	ErrUpstream       = errors.New("upstream error")
	ErrSymbolNotFound = errors.New("symbol not found")
	ErrAnalysis       = errors.New("analysis failed")
	ErrNotEnoughData  = errors.New("not enough data")
)

type FieldError struct {
	Field   string `json:"field"`
	Tag     string `json:"tag"`
	Message string `json:"message"`
}

// ValidationError reports field-level problems with a request. It matches
// ErrValidation under errors.Is.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return ErrValidation.Error()
	}
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+": "+f.Message)
	}
	return ErrValidation.Error() + ": " + strings.Join(parts, "; ")
}

func (e *ValidationError) Unwrap() error { return ErrValidation }
