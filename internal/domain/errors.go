package domain

import (
	"errors"
	"fmt"
)

// SuggestionProvider is implemented by errors that carry recovery actions.
type SuggestionProvider interface {
	Suggestions() []string
}

// SuggestionsFor returns the recovery actions attached to err, if any.
func SuggestionsFor(err error) []string {
	var sp SuggestionProvider
	if errors.As(err, &sp) {
		return sp.Suggestions()
	}
	return nil
}

// ConfigurationError reports a missing or invalid mapping/config source.
type ConfigurationError struct {
	Path   string
	Reason string
	Err    error
}

func (e *ConfigurationError) Error() string {
	msg := "configuration error"
	if e.Path != "" {
		msg += " in " + e.Path
	}
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ConfigurationError) Unwrap() error { return e.Err }

func (e *ConfigurationError) Suggestions() []string {
	return []string{
		"check that the configuration file exists and is readable",
		"validate the YAML syntax of the configuration file",
		"ensure every mapping value is a fully qualified name such as ansible.builtin.copy",
	}
}

// YAMLParseError reports a document that could not be parsed.
type YAMLParseError struct {
	Path string
	Line int
	Err  error
}

func (e *YAMLParseError) Error() string {
	loc := e.Path
	if loc == "" {
		loc = "<content>"
	}
	if e.Line > 0 {
		return fmt.Sprintf("yaml parse error in %s at line %d: %v", loc, e.Line, e.Err)
	}
	return fmt.Sprintf("yaml parse error in %s: %v", loc, e.Err)
}

func (e *YAMLParseError) Unwrap() error { return e.Err }

func (e *YAMLParseError) Suggestions() []string {
	return []string{
		"check indentation and quoting near the reported line",
		"run the file through a YAML linter such as yamllint",
	}
}

// ConversionError reports any other failure while transforming a document.
type ConversionError struct {
	Path string
	Line int
	Err  error
}

func (e *ConversionError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("conversion failed for %s at line %d: %v", e.Path, e.Line, e.Err)
	}
	return fmt.Sprintf("conversion failed for %s: %v", e.Path, e.Err)
}

func (e *ConversionError) Unwrap() error { return e.Err }

func (e *ConversionError) Suggestions() []string {
	return []string{
		"re-run with --dry-run to inspect the planned changes",
		"convert the file on its own to isolate the failing task",
	}
}

const (
	OpRead  = "read"
	OpWrite = "write"
)

// FileAccessError reports a read or write failure.
type FileAccessError struct {
	Path      string
	Operation string
	Err       error
}

func (e *FileAccessError) Error() string {
	return fmt.Sprintf("cannot %s %s: %v", e.Operation, e.Path, e.Err)
}

func (e *FileAccessError) Unwrap() error { return e.Err }

func (e *FileAccessError) Suggestions() []string {
	if e.Operation == OpWrite {
		return []string{
			"check write permissions on the file and its directory",
			"make sure the file is not locked by another process",
		}
	}
	return []string{
		"check that the file exists and is readable",
	}
}

// ValidationError reports a failure of the validator itself, not a finding.
type ValidationError struct {
	Path string
	Err  error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed for %s: %v", e.Path, e.Err)
}

func (e *ValidationError) Unwrap() error { return e.Err }

func (e *ValidationError) Suggestions() []string {
	return []string{"check that the file is a readable Ansible YAML document"}
}
