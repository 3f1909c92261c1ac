package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// Exit codes for glide commands. Outcome failures (a replayed trace that
// diverges from its recording, a scenario whose execution fails) exit with
// ExitFailure; usage and environment problems (bad flags, missing database)
// exit with ExitCommandError so scripts can tell the two apart.
const (
	ExitSuccess      = 0
	ExitFailure      = 1
	ExitCommandError = 2
)

// ErrCodeDiverged is the machine-readable error code reported when a replay
// does not reproduce the recorded update stream.
const ErrCodeDiverged = "E_DIVERGED"

// ExitError carries the exit code a command wants the process to finish
// with. main extracts it via GetExitCode.
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

// NewExitError creates an ExitError with the given code and message.
func NewExitError(code int, message string) *ExitError {
	return &ExitError{Code: code, Message: message}
}

// WrapExitError attaches an exit code to an underlying error.
func WrapExitError(code int, message string, err error) *ExitError {
	return &ExitError{Code: code, Message: message, Err: err}
}

// GetExitCode extracts the exit code from an error, unwrapping as needed.
// Errors that carry no code exit with ExitFailure.
func GetExitCode(err error) int {
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitFailure
}

// CLIResponse is the JSON envelope every glide command emits in --format
// json mode.
type CLIResponse struct {
	Status  string      `json:"status"`             // "ok" or "error"
	Data    interface{} `json:"data,omitempty"`     // command payload
	Error   *CLIError   `json:"error,omitempty"`    // set when Status is "error"
	TraceID string      `json:"trace_id,omitempty"` // trace the command recorded or replayed
}

// CLIError is the error half of the JSON envelope.
type CLIError struct {
	Code    string      `json:"code"` // e.g. ErrCodeDiverged
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

// EncodeResponse writes the envelope as indented JSON.
func EncodeResponse(w io.Writer, resp CLIResponse) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(resp)
}

// OutputFormatter routes diagnostic chatter around a command's primary
// output stream.
type OutputFormatter struct {
	Format    string
	Writer    io.Writer
	ErrWriter io.Writer
	Verbose   bool
}

// VerboseLog writes a diagnostic line when verbose mode is on. Diagnostics
// prefer ErrWriter so that JSON on Writer stays machine-parseable; without
// an ErrWriter the line is dropped in JSON mode rather than corrupt the
// stream, and shares Writer in text mode.
func (f *OutputFormatter) VerboseLog(format string, args ...interface{}) {
	if !f.Verbose {
		return
	}
	w := f.ErrWriter
	if w == nil {
		if f.Format == "json" {
			return
		}
		w = f.Writer
	}
	fmt.Fprintf(w, format+"\n", args...)
}
