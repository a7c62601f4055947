package common

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

var EmailRX = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// ValidationError keeps the field errors in the order they were reported.
type ValidationError struct {
	Errors map[string]string
	Fields []string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("validation errors: %+v", e.Errors)
}

// First returns the first reported problem as "<field> <message>".
func (e ValidationError) First() string {
	if len(e.Fields) == 0 {
		return "invalid input"
	}
	field := e.Fields[0]
	return field + " " + e.Errors[field]
}

type Validator struct {
	Errors map[string]string
	fields []string
}

func NewValidator() *Validator {
	return &Validator{Errors: make(map[string]string)}
}

func (v *Validator) Valid() bool {
	return len(v.Errors) == 0
}

func (v *Validator) AddError(field, message string) {
	if _, ok := v.Errors[field]; !ok {
		v.Errors[field] = message
		v.fields = append(v.fields, field)
	}
}

func (v *Validator) Check(ok bool, field, message string) {
	if !ok {
		v.AddError(field, message)
	}
}

// CheckStringLength counts characters, not bytes.
func (v *Validator) CheckStringLength(s string, min, max int) bool {
	n := utf8.RuneCountInString(s)
	return n >= min && n <= max
}

func (v *Validator) ValidationError() error {
	return ValidationError{Errors: v.Errors, Fields: v.fields}
}

func NotBlank(s string) bool {
	return strings.TrimSpace(s) != ""
}

func Matches(s string, rx *regexp.Regexp) bool {
	return rx.MatchString(s)
}

func PermittedValue[T comparable](value T, permitted ...T) bool {
	for _, p := range permitted {
		if value == p {
			return true
		}
	}
	return false
}
