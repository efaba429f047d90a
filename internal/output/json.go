package output

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/twiced-technology-gmbh/bugtrack/internal/clierr"
)

// JSON writes data as indented JSON.
func JSON(w io.Writer, data any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(data); err != nil {
		return fmt.Errorf("encoding JSON: %w", err)
	}
	return nil
}

// ErrorResponse is the envelope printed for a failed command under --json.
type ErrorResponse struct {
	Error   string         `json:"error"`
	Code    string         `json:"code"`
	Details map[string]any `json:"details,omitempty"`
}

// JSONError writes err as an ErrorResponse and returns the process exit
// code for it. Errors without a clierr code are reported as INTERNAL_ERROR.
func JSONError(w io.Writer, err error) int {
	resp := ErrorResponse{Error: err.Error(), Code: clierr.InternalError}
	exit := 2 //nolint:mnd // exit code 2 for internal errors

	var cliErr *clierr.Error
	if errors.As(err, &cliErr) {
		resp = ErrorResponse{Error: cliErr.Message, Code: cliErr.Code, Details: cliErr.Details}
		exit = cliErr.ExitCode()
	}
	_ = JSON(w, resp)
	return exit
}

// BatchResult is the outcome for one id of a comma-separated id list.
// Status holds the task's new status, or "deleted" for delete.
type BatchResult struct {
	ID     int    `json:"id"`
	OK     bool   `json:"ok"`
	Status string `json:"status,omitempty"`
	Error  string `json:"error,omitempty"`
	Code   string `json:"code,omitempty"`
}
