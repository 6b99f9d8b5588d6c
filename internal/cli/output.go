package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/ayushgw/graphql-basics/internal/engine"
)

// Process exit codes.
const (
	ExitSuccess      = 0 // everything passed
	ExitFailure      = 1 // scenario failure or an operation the engine rejected
	ExitCommandError = 2 // unusable input: missing file, bad config, bad flags
)

// JSON error codes used when the failure is not a domain error.
const (
	CodeCommand = "E_COMMAND"
	CodeFailure = "E_FAILURE"
)

// ExitError carries the exit code a command should terminate with.
type ExitError struct {
	Code    int
	Message string
	Err     error
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// NewExitError creates an ExitError without a cause.
func NewExitError(code int, message string) *ExitError {
	return &ExitError{Code: code, Message: message}
}

// WrapExitError creates an ExitError around err.
func WrapExitError(code int, message string, err error) *ExitError {
	return &ExitError{Code: code, Message: message, Err: err}
}

// GetExitCode returns the exit code carried by err, or ExitFailure.
func GetExitCode(err error) int {
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitFailure
}

// ErrorCode names err for JSON consumers. Domain errors anywhere in the
// chain keep their engine code (NOT_FOUND, CONFLICT, VALIDATION).
func ErrorCode(err error) string {
	if code := engine.CodeOf(err); code != "" {
		return string(code)
	}
	if GetExitCode(err) == ExitCommandError {
		return CodeCommand
	}
	return CodeFailure
}

// OutputFormatter writes command results as text or as a CLIResponse.
type OutputFormatter struct {
	Format string
	Writer io.Writer
}

// CLIResponse is the envelope of every JSON document a command prints.
type CLIResponse struct {
	Status string    `json:"status"` // "ok" or "error"
	Data   any       `json:"data,omitempty"`
	Error  *CLIError `json:"error,omitempty"`
}

// CLIError describes a failed command in a CLIResponse.
type CLIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// Success prints data, as a CLIResponse in JSON mode.
func (f *OutputFormatter) Success(data any) error {
	if f.Format == "json" {
		return json.NewEncoder(f.Writer).Encode(CLIResponse{Status: "ok", Data: data})
	}
	fmt.Fprintln(f.Writer, data)
	return nil
}

// Error reports err and returns it unchanged so callers can write
// `return f.Error(err)`. In JSON mode it prints an error CLIResponse; in
// text mode it prints nothing and leaves reporting to main.
func (f *OutputFormatter) Error(err error) error {
	if err == nil || f.Format != "json" {
		return err
	}
	resp := CLIResponse{
		Status: "error",
		Error:  &CLIError{Code: ErrorCode(err), Message: err.Error()},
	}
	var domainErr *engine.Error
	if errors.As(err, &domainErr) && domainErr.ID != "" {
		resp.Error.Details = map[string]string{"kind": domainErr.Kind.String(), "id": domainErr.ID}
	}
	if encErr := json.NewEncoder(f.Writer).Encode(resp); encErr != nil {
		return errors.Join(err, encErr)
	}
	return err
}
