package program

import (
	"errors"
	"fmt"
	"strings"

	"go.uber.org/multierr"
)

var ErrMalformedProgramData = errors.New("malformed program data")

// FieldError describes a single failed structural check.
type FieldError struct {
	Document string // "program" or "exercises"
	Field    string // dotted path, e.g. schedule.weeks[2].days
	Problem  string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %s: %s", e.Document, e.Field, e.Problem)
}

// MalformedProgramDataError is returned by Load when the program or the
// exercise catalog fails validation. It enumerates every failed field.
type MalformedProgramDataError struct {
	err error // multierr of *FieldError
}

func (e *MalformedProgramDataError) Error() string {
	var sb strings.Builder
	sb.WriteString(ErrMalformedProgramData.Error())
	for _, fe := range e.Problems() {
		sb.WriteString("; ")
		sb.WriteString(fe.Error())
	}
	return sb.String()
}

func (e *MalformedProgramDataError) Is(target error) bool {
	return target == ErrMalformedProgramData
}

func (e *MalformedProgramDataError) Unwrap() []error {
	return multierr.Errors(e.err)
}

// Problems lists the failed checks in the order they were found.
func (e *MalformedProgramDataError) Problems() []*FieldError {
	var problems []*FieldError
	for _, err := range multierr.Errors(e.err) {
		var fe *FieldError
		if errors.As(err, &fe) {
			problems = append(problems, fe)
		}
	}
	return problems
}

// HasProblem reports whether a check failed for the given field.
func (e *MalformedProgramDataError) HasProblem(document, field string) bool {
	for _, p := range e.Problems() {
		if p.Document == document && p.Field == field {
			return true
		}
	}
	return false
}

type problemCollector struct {
	document string
	err      error
}

func (c *problemCollector) add(field, format string, args ...any) {
	c.err = multierr.Append(c.err, &FieldError{
		Document: c.document,
		Field:    field,
		Problem:  fmt.Sprintf(format, args...),
	})
}
