package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrFormat        = errors.New("format error")
	ErrValidation    = errors.New("validation failed")
	ErrNotFound      = errors.New("not found")
	ErrAmbiguous     = errors.New("ambiguous match")
	ErrTagging       = errors.New("tagging error")
	ErrOrganize      = errors.New("organize error")
	ErrExternalTool  = errors.New("external tool error")
	ErrConfiguration = errors.New("configuration error")
)

// Row stages. A row failure is always attributed to exactly one of these.
const (
	StageResolve  = "resolve"
	StageTag      = "tag"
	StageOrganize = "organize"
)

// Error carries a classification marker plus the stage and operation that
// produced it. Use Wrap to construct one.
type Error struct {
	Marker    error
	Stage     string
	Operation string
	Message   string
	Cause     error
}

func (e *Error) Error() string {
	detail := buildDetail(e.Stage, e.Operation, e.Message)
	if e.Cause != nil {
		return fmt.Sprintf("%v: %s: %v", e.Marker, detail, e.Cause)
	}
	return fmt.Sprintf("%v: %s", e.Marker, detail)
}

func (e *Error) Unwrap() []error {
	if e.Cause == nil {
		return []error{e.Marker}
	}
	return []error{e.Marker, e.Cause}
}

// Wrap builds an error message that includes stage context while tagging it with
// the provided marker for later classification. The marker should be one of the
// exported sentinel errors above.
func Wrap(marker error, stage, operation, message string, err error) error {
	if marker == nil {
		marker = ErrExternalTool
	}
	return &Error{
		Marker:    marker,
		Stage:     strings.TrimSpace(stage),
		Operation: strings.TrimSpace(operation),
		Message:   strings.TrimSpace(message),
		Cause:     err,
	}
}

// Reason returns the human-readable part of err: the message and cause of a
// wrapped error without its marker, stage, and operation prefixes.
func Reason(err error) string {
	if err == nil {
		return ""
	}
	var wrapped *Error
	if !errors.As(err, &wrapped) {
		return strings.TrimSpace(err.Error())
	}
	message := wrapped.Message
	if message == "" {
		message = wrapped.Marker.Error()
	}
	if wrapped.Cause != nil {
		return message + ": " + Reason(wrapped.Cause)
	}
	return message
}

// StageOf reports the stage recorded on a wrapped error, if any.
func StageOf(err error) (string, bool) {
	var wrapped *Error
	if errors.As(err, &wrapped) && wrapped.Stage != "" {
		return wrapped.Stage, true
	}
	return "", false
}

// AmbiguousError lists every file that matched a token when more than one did.
type AmbiguousError struct {
	Token      string
	Candidates []string
}

func (e *AmbiguousError) Error() string {
	return fmt.Sprintf("token %q matches %d files: %s", e.Token, len(e.Candidates), strings.Join(e.Candidates, ", "))
}

func (e *AmbiguousError) Is(target error) bool {
	return target == ErrAmbiguous
}

func buildDetail(stage, operation, message string) string {
	parts := make([]string, 0, 3)
	if stage = strings.TrimSpace(stage); stage != "" {
		parts = append(parts, stage)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}
